package shanten

import "sync"

// 单个花色组（数牌 9 种 / 字牌 7 种）的距离向量：
// distance[m*2+p] 表示该组凑出 m 个面子、p 个雀头最少还需要补几张牌。
type distance [10]uint8

const (
	maxSets  = 4
	maxCount = 14 // 单组张数上限，超出时退回直接计算
	inf      = 0x3f
	noEntry  = 0xFFFF
)

// dp 状态：r1 为上一位置起头的顺子数，r2 为上上位置起头的顺子数，m 为已计面子数，p 为雀头数
type dpVec [5 * 5 * 5 * 2]uint8

func stateIdx(r1, r2, m, p int) int {
	return ((r1*5+r2)*5+m)*2 + p
}

func initialVec() dpVec {
	var v dpVec
	for i := range v {
		v[i] = inf
	}
	v[stateIdx(0, 0, 0, 0)] = 0
	return v
}

// step 处理组内第 i 个位置（共 n 个位置），该位置持有 h 张
func step(cur *dpVec, h, i, n int, runs bool) dpVec {
	var next dpVec
	for k := range next {
		next[k] = inf
	}
	canStart := runs && i+2 < n
	for r1 := 0; r1 <= 4; r1++ {
		for r2 := 0; r2+r1 <= 4; r2++ {
			for m := 0; m <= maxSets; m++ {
				for p := 0; p <= 1; p++ {
					c := cur[stateIdx(r1, r2, m, p)]
					if c >= inf {
						continue
					}
					maxR := 0
					if canStart {
						maxR = maxSets - m
					}
					for r := 0; r <= maxR; r++ {
						for t := 0; t <= 1; t++ {
							if m+r+t > maxSets {
								continue
							}
							for q := 0; q <= 1-p; q++ {
								w := r + r1 + r2 + 3*t + 2*q
								if w > 4 {
									continue
								}
								cost := int(c)
								if w > h {
									cost += w - h
								}
								k := stateIdx(r, r1, m+r+t, p+q)
								if cost < int(next[k]) {
									next[k] = uint8(cost)
								}
							}
						}
					}
				}
			}
		}
	}
	return next
}

func finish(v *dpVec) distance {
	var d distance
	for i := range d {
		d[i] = inf
	}
	for m := 0; m <= maxSets; m++ {
		for p := 0; p <= 1; p++ {
			d[m*2+p] = v[stateIdx(0, 0, m, p)]
		}
	}
	return d
}

// groupDistance 不查表直接计算
func groupDistance(counts []uint8, runs bool) distance {
	v := initialVec()
	for i, h := range counts {
		v = step(&v, int(h), i, len(counts), runs)
	}
	return finish(&v)
}

// groupTable 以 5 进制编码的计数为下标，值为距离向量编号
type groupTable struct {
	n       int
	runs    bool
	entries []uint16
	vectors []distance
}

type builder struct {
	t        *groupTable
	states   []map[dpVec]int32 // 每个深度的状态驻留
	vecs     [][]dpVec
	trans    []map[int32]int32 // 深度 -> (状态*5+张数) -> 下一状态
	finals   map[int32]uint16
	outputID map[distance]uint16
	pow5     []int
}

func (b *builder) intern(depth int, v dpVec) int32 {
	if id, ok := b.states[depth][v]; ok {
		return id
	}
	id := int32(len(b.vecs[depth]))
	b.states[depth][v] = id
	b.vecs[depth] = append(b.vecs[depth], v)
	return id
}

func (b *builder) next(depth int, id int32, c int) int32 {
	key := id*5 + int32(c)
	if nid, ok := b.trans[depth][key]; ok {
		return nid
	}
	cur := b.vecs[depth][id]
	nv := step(&cur, c, depth, b.t.n, b.t.runs)
	nid := b.intern(depth+1, nv)
	b.trans[depth][key] = nid
	return nid
}

func (b *builder) output(id int32) uint16 {
	if out, ok := b.finals[id]; ok {
		return out
	}
	v := b.vecs[b.t.n][id]
	d := finish(&v)
	out, ok := b.outputID[d]
	if !ok {
		out = uint16(len(b.t.vectors))
		b.outputID[d] = out
		b.t.vectors = append(b.t.vectors, d)
	}
	b.finals[id] = out
	return out
}

func (b *builder) walk(depth int, id int32, sum, index int) {
	for c := 0; c <= 4 && sum+c <= maxCount; c++ {
		nid := b.next(depth, id, c)
		idx := index + c*b.pow5[depth]
		if depth+1 == b.t.n {
			b.t.entries[idx] = b.output(nid)
			continue
		}
		b.walk(depth+1, nid, sum+c, idx)
	}
}

// buildGroupTable 以前缀树遍历所有张数不超过 14 的组合，
// 相同前缀的 dp 状态被驻留复用，因此实际 dp 次数只有几万次
func buildGroupTable(n int, runs bool) *groupTable {
	t := &groupTable{n: n, runs: runs}
	size := 1
	pow5 := make([]int, n)
	for i := 0; i < n; i++ {
		pow5[i] = size
		size *= 5
	}
	t.entries = make([]uint16, size)
	for i := range t.entries {
		t.entries[i] = noEntry
	}
	b := &builder{
		t:        t,
		states:   make([]map[dpVec]int32, n+1),
		vecs:     make([][]dpVec, n+1),
		trans:    make([]map[int32]int32, n),
		finals:   make(map[int32]uint16),
		outputID: make(map[distance]uint16),
		pow5:     pow5,
	}
	for i := 0; i <= n; i++ {
		b.states[i] = make(map[dpVec]int32)
	}
	for i := 0; i < n; i++ {
		b.trans[i] = make(map[int32]int32)
	}
	root := b.intern(0, initialVec())
	b.walk(0, root, 0, 0)
	return t
}

func (t *groupTable) lookup(counts []uint8) distance {
	idx := 0
	mul := 1
	sum := 0
	for _, c := range counts {
		if c > 4 {
			return groupDistance(counts, t.runs)
		}
		idx += int(c) * mul
		mul *= 5
		sum += int(c)
	}
	if sum > maxCount || t.entries[idx] == noEntry {
		return groupDistance(counts, t.runs)
	}
	return t.vectors[t.entries[idx]]
}

var (
	tablesOnce sync.Once
	suitTable  *groupTable
	honorTable *groupTable
)

// Ensure 构建查表数据，进程内只执行一次；之后的并发读无需加锁
func Ensure() {
	tablesOnce.Do(func() {
		suitTable = buildGroupTable(9, true)
		honorTable = buildGroupTable(7, false)
	})
}
