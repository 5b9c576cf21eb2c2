package mahjong

import "gomahjong/framework/game/engines/mahjong/tile"

// checkHalfwayDraw 打牌无人荣和之后检查中途流局
func (bs *BoardState) checkHalfwayDraw() (RyukyokuKind, bool) {
	switch {
	case bs.riichiCount == 4:
		return RyukyokuFourRiichi, true
	case bs.checkFourWindDraw():
		return RyukyokuFourWinds, true
	case bs.CheckFourKanDraw():
		return RyukyokuFourKans, true
	}
	return RyukyokuNone, false
}

// checkFourWindDraw 第一巡无人鸣牌，四家打出同一种风牌
func (bs *BoardState) checkFourWindDraw() bool {
	if !bs.noCall || len(bs.firstDiscards) != 4 {
		return false
	}
	first := bs.firstDiscards[0].Deaka()
	if first < tile.East || first > tile.North {
		return false
	}
	for _, t := range bs.firstDiscards[1:] {
		if t.Deaka() != first {
			return false
		}
	}
	return true
}

// CheckFourKanDraw 四杠散了：共开四杠且不是同一家
func (bs *BoardState) CheckFourKanDraw() bool {
	total, owners := 0, 0
	for _, n := range bs.kans {
		total += n
		if n > 0 {
			owners++
		}
	}
	return total >= 4 && owners > 1
}
