package shanten

import "gomahjong/framework/game/engines/mahjong/tile"

// CalcAll 计算向听数：-1 和了，0 听牌。
// lenDiv3 为门内还需组成的面子数（无副露时为 4，每有一个副露减 1）。
// 七对子与国士无双只在无副露且一般形向听大于 0 时参与比较。
func CalcAll(hand *tile.Hand34, lenDiv3 int) int8 {
	s := CalcNormal(hand, lenDiv3)
	if s <= 0 || lenDiv3 < 4 {
		return s
	}
	if c := CalcChitoi(hand); c < s {
		s = c
	}
	if s > 0 {
		if k := CalcKokushi(hand); k < s {
			s = k
		}
	}
	return s
}

// CalcNormal 一般形（四面子一雀头）向听数
func CalcNormal(hand *tile.Hand34, lenDiv3 int) int8 {
	Ensure()
	if lenDiv3 < 0 {
		lenDiv3 = 0
	}
	if lenDiv3 > maxSets {
		lenDiv3 = maxSets
	}

	var cur distance
	for i := range cur {
		cur[i] = inf
	}
	cur[0] = 0

	groups := [4]distance{
		suitTable.lookup(hand[0:9]),
		suitTable.lookup(hand[9:18]),
		suitTable.lookup(hand[18:27]),
		honorTable.lookup(hand[27:34]),
	}
	for gi := range groups {
		cur = merge(&cur, &groups[gi])
	}
	return int8(cur[lenDiv3*2+1]) - 1
}

// merge 两组距离向量的 min-plus 卷积
func merge(a, b *distance) distance {
	var out distance
	for i := range out {
		out[i] = inf
	}
	for m1 := 0; m1 <= maxSets; m1++ {
		for p1 := 0; p1 <= 1; p1++ {
			x := a[m1*2+p1]
			if x >= inf {
				continue
			}
			for m2 := 0; m1+m2 <= maxSets; m2++ {
				for p2 := 0; p1+p2 <= 1; p2++ {
					y := b[m2*2+p2]
					if y >= inf {
						continue
					}
					k := (m1+m2)*2 + p1 + p2
					if v := x + y; v < out[k] {
						out[k] = v
					}
				}
			}
		}
	}
	return out
}

// CalcChitoi 七对子向听数
func CalcChitoi(hand *tile.Hand34) int8 {
	pairs, kinds := 0, 0
	for _, c := range hand {
		if c == 0 {
			continue
		}
		kinds++
		if c >= 2 {
			pairs++
		}
	}
	redundant := 7 - kinds
	if redundant < 0 {
		redundant = 0
	}
	return int8(6 - pairs + redundant)
}

// CalcKokushi 国士无双向听数
func CalcKokushi(hand *tile.Hand34) int8 {
	kinds := 0
	hasPair := false
	for i, c := range hand {
		if c == 0 || !tile.Tile(i).IsYaokyuu() {
			continue
		}
		kinds++
		if c >= 2 {
			hasPair = true
		}
	}
	s := 13 - kinds
	if hasPair {
		s--
	}
	return int8(s)
}

// Waits 3n+1 张时的有效听牌（不考虑已见张数）
func Waits(hand *tile.Hand34, lenDiv3 int) [tile.KindCount]bool {
	var out [tile.KindCount]bool
	h := *hand
	for t := 0; t < tile.KindCount; t++ {
		if h[t] >= 4 {
			continue
		}
		h[t]++
		if CalcAll(&h, lenDiv3) == -1 {
			out[t] = true
		}
		h[t]--
	}
	return out
}
