package mahjong

import "gomahjong/runtime/game/engines/mahjong/event"

// selectRonWinners 从放铳者下家开始依次收集荣和，不设三家和了流局
func selectRonWinners(discarder int, reactions *[4]event.Event) []int {
	var winners []int
	for i := 1; i < 4; i++ {
		seat := (discarder + i) % 4
		if reactions[seat].Type == event.TypeHora {
			winners = append(winners, seat)
		}
	}
	return winners
}

// selectBestReaction 选择最优的鸣牌
// 优先级：明杠、碰 > 吃。同一张牌最多只有一家能碰或杠
func selectBestReaction(discarder int, reactions *[4]event.Event) (*event.Event, bool) {
	var chi *event.Event
	for i := 1; i < 4; i++ {
		r := &reactions[(discarder+i)%4]
		switch r.Type {
		case event.TypeDaiminkan, event.TypePon:
			return r, true
		case event.TypeChi:
			if chi == nil {
				chi = r
			}
		}
	}
	return chi, chi != nil
}
