package agari

import "gomahjong/framework/game/engines/mahjong/tile"

// Key 手牌形状的压缩编码，用于查分解表
//
// 位布局（低位在前）：
//
//	对每个出现的牌种（按牌序排列，第 i 个占 bit 3i..3i+2）
//	  bit 3i, 3i+1 : 张数 - 1
//	  bit 3i+2     : 1 表示该牌种是所在连续块的最后一种
//	bit 60..63     : 出现的牌种数（最多 14）
//
// 连续块在花色边界、空档和每张字牌之后断开，所以编码与具体花色无关。
type Key uint64

const (
	keyKindShift = 60
	maxKinds     = 14
)

// Kinds 出现的牌种数
func (k Key) Kinds() int {
	return int(k >> keyKindShift)
}

// Count 第 pos 个牌种的张数
func (k Key) Count(pos int) int {
	return int((k>>(3*pos))&3) + 1
}

// EndsBlock 第 pos 个牌种是否为连续块末尾
func (k Key) EndsBlock(pos int) bool {
	return (k>>(3*pos+2))&1 == 1
}

// Blocks 还原为按块划分的张数序列
func (k Key) Blocks() [][]uint8 {
	var out [][]uint8
	var cur []uint8
	for pos := 0; pos < k.Kinds(); pos++ {
		cur = append(cur, uint8(k.Count(pos)))
		if k.EndsBlock(pos) {
			out = append(out, cur)
			cur = nil
		}
	}
	return out
}

// positions 出现的牌种列表，下标即 Div 中的位置
type positions struct {
	kinds [maxKinds]tile.Tile
	n     int
}

func (p *positions) at(pos uint8) tile.Tile {
	return p.kinds[pos]
}

// find 找到牌种所在位置，不存在返回 -1
func (p *positions) find(t tile.Tile) int {
	for i := 0; i < p.n; i++ {
		if p.kinds[i] == t {
			return i
		}
	}
	return -1
}

func endsBlock(h *tile.Hand34, i int) bool {
	if i >= int(tile.East) || i%9 == 8 {
		return true
	}
	return h[i+1] == 0
}

// KeyOf 计算手牌编码；张数超过 14 种或某种超过 4 张时返回 false
func KeyOf(h *tile.Hand34) (Key, bool) {
	k, _, ok := keyWithPositions(h)
	return k, ok
}

func keyWithPositions(h *tile.Hand34) (Key, positions, bool) {
	var key Key
	var pos positions
	for i := 0; i < tile.KindCount; i++ {
		c := h[i]
		if c == 0 {
			continue
		}
		if c > 4 || pos.n >= maxKinds {
			return 0, pos, false
		}
		key |= Key(c-1) << (3 * pos.n)
		if endsBlock(h, i) {
			key |= 1 << (3*pos.n + 2)
		}
		pos.kinds[pos.n] = tile.Tile(i)
		pos.n++
	}
	key |= Key(pos.n) << keyKindShift
	return key, pos, true
}

// keyFromBlocks 生成表时使用
func keyFromBlocks(blocks [][]uint8) Key {
	var key Key
	pos := 0
	for _, b := range blocks {
		for j, c := range b {
			key |= Key(c-1) << (3 * pos)
			if j == len(b)-1 {
				key |= 1 << (3*pos + 2)
			}
			pos++
		}
	}
	key |= Key(pos) << keyKindShift
	return key
}
