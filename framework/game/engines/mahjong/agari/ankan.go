package agari

import (
	"gomahjong/framework/game/engines/mahjong/shanten"
	"gomahjong/framework/game/engines/mahjong/tile"
)

// CheckAnkanAfterRiichi 立直后能否暗杠摸到的第四张 pai。
// tehai 为摸牌前的门内手牌（3n+1 张），lenDiv3 为其需要的面子数。
// 暗杠前后的听牌必须一致；strict 时还要求每种和了形里该牌都只能作为刻子。
func CheckAnkanAfterRiichi(tehai *tile.Hand34, lenDiv3 int, pai tile.Tile, strict bool) bool {
	k := pai.Deaka()
	if k >= tile.KindCount || tehai[k] != 3 || lenDiv3 < 1 {
		return false
	}
	before := *tehai
	after := *tehai
	after[k] = 0

	for t := tile.Tile(0); t < tile.KindCount; t++ {
		waitBefore := false
		if before[t] < 4 {
			before[t]++
			waitBefore = shanten.CalcNormal(&before, lenDiv3) == -1
			before[t]--
		}
		waitAfter := false
		if t != k && after[t] < 4 {
			after[t]++
			waitAfter = shanten.CalcNormal(&after, lenDiv3-1) == -1
			after[t]--
		}
		if waitBefore != waitAfter {
			return false
		}
		if strict && waitBefore && !alwaysKotsu(&before, t, k) {
			return false
		}
	}
	return true
}

// alwaysKotsu 加入和了牌 win 后，所有分解中 k 都作为刻子出现
func alwaysKotsu(h *tile.Hand34, win, k tile.Tile) bool {
	full := *h
	full[win]++
	key, pos, ok := keyWithPositions(&full)
	if !ok {
		return false
	}
	p := pos.find(k)
	if p < 0 {
		return false
	}
	divs := Lookup(key)
	for i := range divs {
		if !containsIdx(divs[i].KotsuIdxs(), uint8(p)) {
			return false
		}
	}
	return len(divs) > 0
}
