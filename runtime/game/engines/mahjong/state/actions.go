package state

import (
	"gomahjong/framework/game/engines/mahjong/tile"
	"gomahjong/runtime/game/engines/mahjong/event"
)

// pick 从手牌取 n 张 k，持有赤五时先用赤五
func (s *PlayerState) pick(k tile.Tile, n int) []tile.Tile {
	out := make([]tile.Tile, 0, n)
	if !k.IsJihai() && k.Rank() == 5 && s.akaHeld[k.Suit()] && n > 0 {
		out = append(out, k.Akaize())
	}
	for len(out) < n {
		out = append(out, k)
	}
	return out
}

// DahaiEvent 打出 pai，自动判断摸切
func (s *PlayerState) DahaiEvent(pai tile.Tile) event.Event {
	return event.Dahai(s.playerID, pai, s.drewThisTurn && pai == s.lastTsumo)
}

// ChiEvents 当前所有可以吃的组合
func (s *PlayerState) ChiEvents() []event.Event {
	c := s.cans
	if !c.CanChi() {
		return nil
	}
	pai := s.lastCutTile
	k := pai.Deaka()
	var out []event.Event
	add := func(ok bool, a, b tile.Tile) {
		if !ok {
			return
		}
		ca, cb := s.pick(a, 1)[0], s.pick(b, 1)[0]
		out = append(out, event.Chi(s.playerID, c.TargetActor, pai, [2]tile.Tile{ca, cb}))
	}
	add(c.CanChiLow, k+1, k+2)
	add(c.CanChiMid, k-1, k+1)
	add(c.CanChiHigh, k-2, k-1)
	return out
}

func (s *PlayerState) PonEvent() (event.Event, bool) {
	if !s.cans.CanPon {
		return event.Event{}, false
	}
	t := s.pick(s.lastCutTile.Deaka(), 2)
	return event.Pon(s.playerID, s.cans.TargetActor, s.lastCutTile, [2]tile.Tile{t[0], t[1]}), true
}

func (s *PlayerState) DaiminkanEvent() (event.Event, bool) {
	if !s.cans.CanDaiminkan {
		return event.Event{}, false
	}
	t := s.pick(s.lastCutTile.Deaka(), 3)
	return event.Daiminkan(s.playerID, s.cans.TargetActor, s.lastCutTile, [3]tile.Tile{t[0], t[1], t[2]}), true
}

func (s *PlayerState) AnkanEvents() []event.Event {
	if !s.cans.CanAnkan {
		return nil
	}
	var out []event.Event
	for _, k := range s.AnkanCandidates() {
		t := s.pick(k, 4)
		out = append(out, event.Ankan(s.playerID, [4]tile.Tile{t[0], t[1], t[2], t[3]}))
	}
	return out
}

func (s *PlayerState) KakanEvents() []event.Event {
	if !s.cans.CanKakan {
		return nil
	}
	var out []event.Event
	for _, k := range s.KakanCandidates() {
		for i := range s.melds {
			m := &s.melds[i]
			if m.Type != MeldPon || m.Kind() != k {
				continue
			}
			pai := s.pick(k, 1)[0]
			out = append(out, event.Kakan(s.playerID, pai, [3]tile.Tile{m.Tiles[0], m.Tiles[1], m.Tiles[2]}))
		}
	}
	return out
}

// HoraEvent 自摸或荣和
func (s *PlayerState) HoraEvent() (event.Event, bool) {
	switch {
	case s.cans.CanTsumoAgari:
		return event.Hora(s.playerID, s.playerID), true
	case s.cans.CanRonAgari:
		return event.Hora(s.playerID, s.cans.TargetActor), true
	}
	return event.Event{}, false
}

// WinningTile 和了牌：自摸为刚摸到的牌，荣和为最后打出或加杠的牌
func (s *PlayerState) WinningTile() tile.Tile {
	if s.cans.CanTsumoAgari {
		return s.lastTsumo
	}
	return s.lastCutTile
}
