package mahjong

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"

	"gomahjong/framework/game/engines/mahjong/tile"

	"golang.org/x/crypto/sha3"
)

const (
	TileLimit        = 136
	DeadWallSize     = 14
	RinshanSize      = 4
	DoraSlots        = 5
	HaipaiSize       = 13
	YamaSize         = TileLimit - DeadWallSize - 4*HaipaiSize // 70
	DefaultInitPoint = 25000
)

// Board 一局的初始牌面：配牌、牌山、王牌。由种子确定，同一种子总是得到同样的牌面
type Board struct {
	Kyoku   int // 从东一局起算的序号，0 为东一局
	Honba   int
	Kyotaku int
	Scores  [4]int

	Haipai         [4][HaipaiSize]tile.Tile // 按绝对座位
	Yama           [YamaSize]tile.Tile      // 按摸牌顺序
	Rinshan        [RinshanSize]tile.Tile
	DoraIndicators [DoraSlots]tile.Tile
	UraIndicators  [DoraSlots]tile.Tile
}

// NewBoardFromSeed 由 128 位种子与局数、本场生成牌面。
// sha3-256(nonce || key || kyoku || honba) 作为 ChaCha8 的种子洗牌
func NewBoardFromSeed(nonce, key uint64, kyoku, honba int) *Board {
	var buf [18]byte
	binary.LittleEndian.PutUint64(buf[0:8], nonce)
	binary.LittleEndian.PutUint64(buf[8:16], key)
	buf[16] = uint8(kyoku)
	buf[17] = uint8(honba)
	seed := sha3.Sum256(buf[:])
	rng := rand.New(rand.NewChaCha8(seed))

	deck := newDeck()
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	b := &Board{Kyoku: kyoku, Honba: honba}
	for i := range b.Scores {
		b.Scores[i] = DefaultInitPoint
	}
	// 王牌 14 张：岭上 4、宝牌指示 5、里宝牌指示 5
	dead := deck[:DeadWallSize]
	copy(b.Rinshan[:], dead[:RinshanSize])
	copy(b.DoraIndicators[:], dead[RinshanSize:RinshanSize+DoraSlots])
	copy(b.UraIndicators[:], dead[RinshanSize+DoraSlots:])
	rest := deck[DeadWallSize:]
	for seat := 0; seat < 4; seat++ {
		copy(b.Haipai[seat][:], rest[seat*HaipaiSize:(seat+1)*HaipaiSize])
	}
	copy(b.Yama[:], rest[4*HaipaiSize:])
	return b
}

// newDeck 136 张，每种花色一张赤五
func newDeck() []tile.Tile {
	deck := make([]tile.Tile, 0, TileLimit)
	for k := tile.Tile(0); k < tile.KindCount; k++ {
		n := 4
		if !k.IsJihai() && k.Rank() == 5 {
			deck = append(deck, k.Akaize())
			n--
		}
		for i := 0; i < n; i++ {
			deck = append(deck, k)
		}
	}
	return deck
}

// Oya 本局庄家
func (b *Board) Oya() int {
	return b.Kyoku % 4
}

// Bakaze 场风，西场之后不再前进
func (b *Board) Bakaze() tile.Tile {
	w := b.Kyoku / 4
	if w > 3 {
		w = 3
	}
	return tile.East + tile.Tile(w)
}

// Validate 检查牌面是否为完整的一副牌
func (b *Board) Validate() error {
	var cnt [tile.Count]int
	add := func(ts []tile.Tile) {
		for _, t := range ts {
			cnt[t]++
		}
	}
	for i := range b.Haipai {
		add(b.Haipai[i][:])
	}
	add(b.Yama[:])
	add(b.Rinshan[:])
	add(b.DoraIndicators[:])
	add(b.UraIndicators[:])
	for k := tile.Tile(0); k < tile.KindCount; k++ {
		n := cnt[k]
		if !k.IsJihai() && k.Rank() == 5 {
			if cnt[k.Akaize()] != 1 {
				return fmt.Errorf("%w: 赤 %s 数量 %d", ErrBadBoard, k, cnt[k.Akaize()])
			}
			n++
		}
		if n != 4 {
			return fmt.Errorf("%w: %s 数量 %d", ErrBadBoard, k, n)
		}
	}
	if cnt[tile.Unknown] != 0 {
		return fmt.Errorf("%w: 含有未知牌", ErrBadBoard)
	}
	return nil
}
