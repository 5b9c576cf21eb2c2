package agari

import (
	"sort"
	"sync"
)

// Div 一种和牌分解，位置指 Key 中的牌种下标
type Div struct {
	Pair       uint8
	Kotsu      [4]uint8
	NumKotsu   uint8
	Shuntsu    [4]uint8 // 顺子首张的位置
	NumShuntsu uint8

	HasChuuren    bool
	HasIttsuu     bool
	HasRyanpeikou bool
	HasIipeikou   bool
}

func (d *Div) KotsuIdxs() []uint8 {
	return d.Kotsu[:d.NumKotsu]
}

func (d *Div) ShuntsuIdxs() []uint8 {
	return d.Shuntsu[:d.NumShuntsu]
}

// 块内局部分解
type blockDiv struct {
	pair    int8
	kotsu   []uint8
	shuntsu []uint8
}

type block struct {
	counts []uint8
	sum    int
	divs   []blockDiv
}

const maxTiles = 14

// decomposeBlock 按位置从小到大决定刻子、雀头、顺子的个数，
// 每种分解只会生成一次
func decomposeBlock(counts []uint8) []blockDiv {
	c := make([]int, len(counts))
	for i, v := range counts {
		c[i] = int(v)
	}
	var out []blockDiv
	var kotsu, shuntsu []uint8
	var rec func(i int, pair int8)
	rec = func(i int, pair int8) {
		if i == len(c) {
			out = append(out, blockDiv{
				pair:    pair,
				kotsu:   append([]uint8(nil), kotsu...),
				shuntsu: append([]uint8(nil), shuntsu...),
			})
			return
		}
		for t := 0; t <= 1; t++ {
			for q := 0; q <= 1; q++ {
				if q == 1 && pair >= 0 {
					continue
				}
				r := c[i] - 3*t - 2*q
				if r < 0 {
					continue
				}
				if r > 0 && (i+2 >= len(c) || c[i+1] < r || c[i+2] < r) {
					continue
				}
				if r > 0 {
					c[i+1] -= r
					c[i+2] -= r
				}
				np := pair
				if q == 1 {
					np = int8(i)
				}
				nk, ns := len(kotsu), len(shuntsu)
				if t == 1 {
					kotsu = append(kotsu, uint8(i))
				}
				for j := 0; j < r; j++ {
					shuntsu = append(shuntsu, uint8(i))
				}
				rec(i+1, np)
				kotsu, shuntsu = kotsu[:nk], shuntsu[:ns]
				if r > 0 {
					c[i+1] += r
					c[i+2] += r
				}
			}
		}
	}
	rec(0, -1)
	return out
}

func enumerateBlocks() (setBlocks, pairBlocks []block) {
	var prefix []uint8
	var gen func(sum int)
	gen = func(sum int) {
		if len(prefix) > 0 {
			if divs := decomposeBlock(prefix); len(divs) > 0 {
				b := block{counts: append([]uint8(nil), prefix...), sum: sum, divs: divs}
				if sum%3 == 0 {
					setBlocks = append(setBlocks, b)
				} else {
					pairBlocks = append(pairBlocks, b)
				}
			}
		}
		if len(prefix) == 9 {
			return
		}
		for x := 1; x <= 4 && sum+x <= maxTiles; x++ {
			prefix = append(prefix, uint8(x))
			gen(sum + x)
			prefix = prefix[:len(prefix)-1]
		}
	}
	gen(0)
	return
}

var chuurenBase = [9]uint8{3, 1, 1, 1, 1, 1, 1, 1, 3}

func isChuurenShape(counts []uint8) bool {
	if len(counts) != 9 {
		return false
	}
	extra := 0
	for i, c := range counts {
		switch d := int(c) - int(chuurenBase[i]); {
		case d < 0:
			return false
		case d == 1:
			extra++
		case d > 1:
			return false
		}
	}
	return extra == 1
}

type tableBuilder struct {
	table  map[Key][]Div
	seq    []*block
	chosen []*blockDiv
}

func (b *tableBuilder) emit() {
	blocks := make([][]uint8, len(b.seq))
	for i, blk := range b.seq {
		blocks[i] = blk.counts
	}
	key := keyFromBlocks(blocks)
	chuuren := len(b.seq) == 1 && b.seq[0].sum == maxTiles && isChuurenShape(b.seq[0].counts)

	b.chosen = b.chosen[:0]
	var rec func(i int)
	rec = func(i int) {
		if i == len(b.seq) {
			b.table[key] = append(b.table[key], b.assemble(chuuren))
			return
		}
		for j := range b.seq[i].divs {
			b.chosen = append(b.chosen, &b.seq[i].divs[j])
			rec(i + 1)
			b.chosen = b.chosen[:len(b.chosen)-1]
		}
	}
	rec(0)
}

func (b *tableBuilder) assemble(chuuren bool) Div {
	d := Div{HasChuuren: chuuren}
	offset := 0
	for i, bd := range b.chosen {
		blk := b.seq[i]
		if bd.pair >= 0 {
			d.Pair = uint8(offset) + uint8(bd.pair)
		}
		for _, k := range bd.kotsu {
			d.Kotsu[d.NumKotsu] = uint8(offset) + k
			d.NumKotsu++
		}
		hasRun := [9]bool{}
		for _, s := range bd.shuntsu {
			d.Shuntsu[d.NumShuntsu] = uint8(offset) + s
			d.NumShuntsu++
			hasRun[s] = true
		}
		if len(blk.counts) == 9 && hasRun[0] && hasRun[3] && hasRun[6] {
			d.HasIttsuu = true
		}
		offset += len(blk.counts)
	}

	runs := append([]uint8(nil), d.ShuntsuIdxs()...)
	sort.Slice(runs, func(i, j int) bool { return runs[i] < runs[j] })
	dup := 0
	for i := 0; i+1 < len(runs); {
		if runs[i] == runs[i+1] {
			dup++
			i += 2
			continue
		}
		i++
	}
	d.HasRyanpeikou = dup == 2
	d.HasIipeikou = dup == 1
	return d
}

func (b *tableBuilder) walk(setBlocks, pairBlocks []block, rem int, havePair bool) {
	if rem == 0 {
		if havePair {
			b.emit()
		}
		return
	}
	for i := range setBlocks {
		if setBlocks[i].sum > rem {
			continue
		}
		b.seq = append(b.seq, &setBlocks[i])
		b.walk(setBlocks, pairBlocks, rem-setBlocks[i].sum, havePair)
		b.seq = b.seq[:len(b.seq)-1]
	}
	if havePair {
		return
	}
	for i := range pairBlocks {
		if pairBlocks[i].sum > rem {
			continue
		}
		b.seq = append(b.seq, &pairBlocks[i])
		b.walk(setBlocks, pairBlocks, rem-pairBlocks[i].sum, true)
		b.seq = b.seq[:len(b.seq)-1]
	}
}

func buildTable() map[Key][]Div {
	setBlocks, pairBlocks := enumerateBlocks()
	b := &tableBuilder{table: make(map[Key][]Div, 10000)}
	for _, total := range []int{2, 5, 8, 11, 14} {
		b.walk(setBlocks, pairBlocks, total, false)
	}
	return b.table
}

var (
	tableOnce sync.Once
	divTable  map[Key][]Div
)

// Ensure 构建分解表，进程内只执行一次
func Ensure() {
	tableOnce.Do(func() {
		divTable = buildTable()
	})
}

// Lookup 查询一个编码的全部分解，返回的切片只读
func Lookup(k Key) []Div {
	Ensure()
	return divTable[k]
}

// TableSize 分解表中的形状数
func TableSize() int {
	Ensure()
	return len(divTable)
}
