package mahjong

import (
	fmahjong "gomahjong/framework/game/engines/mahjong"
	"gomahjong/framework/game/engines/mahjong/tile"
	"gomahjong/runtime/game/engines/mahjong/event"
	"gomahjong/runtime/game/engines/mahjong/state"
)

// Reactor 为某一家给出反应。不需要行动时返回 event.None()
type Reactor interface {
	React(st *state.PlayerState) (event.Event, error)
}

type ReactorFunc func(st *state.PlayerState) (event.Event, error)

func (f ReactorFunc) React(st *state.PlayerState) (event.Event, error) { return f(st) }

// RuleAgent 规则 AI：能和就和，能立直就立直，只碰役牌，弃牌按向听数与进张
type RuleAgent struct {
	searcher *fmahjong.Searcher
}

func NewRuleAgent(searcher *fmahjong.Searcher) *RuleAgent {
	if searcher == nil {
		searcher = fmahjong.NewSearcher(nil)
	}
	return &RuleAgent{searcher: searcher}
}

func (a *RuleAgent) React(st *state.PlayerState) (event.Event, error) {
	c := st.Candidates()
	if ev, ok := st.HoraEvent(); ok {
		return ev, nil
	}
	if c.CanDiscard {
		if c.CanRiichi {
			return event.Reach(st.PlayerID()), nil
		}
		return st.DahaiEvent(a.chooseDiscard(st)), nil
	}
	if ev, ok := st.PonEvent(); ok && isYakuhai(st, ev.Pai) {
		return ev, nil
	}
	return event.None(), nil
}

// chooseDiscard 在可打出的牌中选向听最小、进张最多的一张
func (a *RuleAgent) chooseDiscard(st *state.PlayerState) tile.Tile {
	allowed := st.DiscardableTiles()
	if len(allowed) == 1 {
		return allowed[0]
	}
	var ok [tile.Count]bool
	for _, t := range allowed {
		ok[t] = true
	}
	visible := visibleTiles(st)
	cands := a.searcher.SeekCandidates(st.Tiles(), 4-len(st.Melds()), &visible)
	filtered := cands[:0]
	for _, cand := range cands {
		if ok[cand.Discard] || ok[cand.Discard.Akaize()] {
			filtered = append(filtered, cand)
		}
	}
	best, found := fmahjong.Best(filtered)
	if !found {
		return allowed[len(allowed)-1]
	}
	// 普通五与赤五都能打时留下赤五
	if ok[best.Discard] {
		return best.Discard
	}
	return best.Discard.Akaize()
}

// visibleTiles 本家能看到的牌：牌河、副露、宝牌指示牌
func visibleTiles(st *state.PlayerState) [tile.KindCount]uint8 {
	var v [tile.KindCount]uint8
	for seat := 0; seat < 4; seat++ {
		for _, it := range st.Kawa(seat) {
			if !it.Called {
				v[it.Pai.Deaka()]++
			}
		}
	}
	for _, m := range st.Melds() {
		for _, t := range m.Tiles[:m.N] {
			v[t.Deaka()]++
		}
	}
	for _, t := range st.DoraIndicators() {
		v[t.Deaka()]++
	}
	for k := range v {
		if v[k] > 4 {
			v[k] = 4
		}
	}
	return v
}

func isYakuhai(st *state.PlayerState, t tile.Tile) bool {
	k := t.Deaka()
	return k >= tile.White || k == st.Bakaze() || k == st.Jikaze()
}

// TsumogiriAgent 只摸切，从不鸣牌与和了，鸣牌后打出第一张可打的牌
type TsumogiriAgent struct{}

func (TsumogiriAgent) React(st *state.PlayerState) (event.Event, error) {
	if !st.Candidates().CanDiscard {
		return event.None(), nil
	}
	allowed := st.DiscardableTiles()
	for _, t := range allowed {
		if t == st.LastTsumo() {
			return st.DahaiEvent(t), nil
		}
	}
	return st.DahaiEvent(allowed[0]), nil
}
