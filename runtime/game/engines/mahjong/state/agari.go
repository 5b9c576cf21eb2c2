package state

import (
	"gomahjong/framework/game/engines/mahjong/agari"
	"gomahjong/framework/game/engines/mahjong/point"
	"gomahjong/framework/game/engines/mahjong/tile"
)

// situation 由场况决定、不依赖手牌分解的役
type situation struct {
	han     int
	yakuman int
	yakus   agari.YakuSet
}

func (st *situation) add(y agari.Yaku, han int) {
	st.han += han
	st.yakus.Add(y)
}

func (st *situation) addYakuman(y agari.Yaku) {
	st.yakuman++
	st.yakus.Add(y)
}

func (s *PlayerState) situation(isRon bool) situation {
	var st situation
	self := s.playerID
	if s.riichiAcc[self] {
		if s.doubleRiichi {
			st.add(agari.YakuDoubleRiichi, 2)
		} else {
			st.add(agari.YakuRiichi, 1)
		}
		if s.ippatsu {
			st.add(agari.YakuIppatsu, 1)
		}
	}
	if isRon {
		switch {
		case s.chankanChance:
			st.add(agari.YakuChankan, 1)
		case s.tilesLeft == 0:
			st.add(agari.YakuHoutei, 1)
		}
		return st
	}
	switch {
	case s.rinshanDraw:
		st.add(agari.YakuRinshan, 1)
	case s.tilesLeft == 0:
		st.add(agari.YakuHaitei, 1)
	}
	if s.selfTurns == 1 && s.noCallYet && !s.rinshanDraw {
		if self == s.oya {
			st.addYakuman(agari.YakuTenhou)
		} else {
			st.addYakuman(agari.YakuChiihou)
		}
	}
	return st
}

func (s *PlayerState) calculator(isRon bool, win tile.Tile) *agari.Calculator {
	h := s.tehai
	if isRon {
		h[win.Deaka()]++
	}
	c := &agari.Calculator{
		Tehai:       &h,
		IsMenzen:    s.isMenzen,
		Bakaze:      s.bakaze,
		Jikaze:      s.jikaze,
		WinningTile: win.Deaka(),
		IsRon:       isRon,
	}
	for i := range s.melds {
		m := &s.melds[i]
		switch m.Type {
		case MeldChi:
			c.Chis = append(c.Chis, m.Kind())
		case MeldPon:
			c.Pons = append(c.Pons, m.Kind())
		case MeldDaiminkan, MeldKakan:
			c.Minkans = append(c.Minkans, m.Kind())
		case MeldAnkan:
			c.Ankans = append(c.Ankans, m.Kind())
		}
	}
	return c
}

// canWin 调用方已确认和了形，只判断是否有役
func (s *PlayerState) canWin(isRon bool, win tile.Tile) bool {
	st := s.situation(isRon)
	if st.han > 0 || st.yakuman > 0 {
		return true
	}
	return s.calculator(isRon, win).HasYaku()
}

// complete 加上 win 后是否为和了形
func (s *PlayerState) complete(isRon bool, win tile.Tile) bool {
	if isRon {
		k := win.Deaka()
		return k < tile.KindCount && s.shanten == 0 && s.waits[k]
	}
	return s.shanten == -1 && s.phase == AwaitingDiscardDecision
}

// DoraCount 和了时的宝牌、赤宝牌与里宝牌张数。里宝牌只在立直时计算
func (s *PlayerState) DoraCount(isRon bool, win tile.Tile, uraIndicators []tile.Tile) (dora, aka, ura int) {
	all := s.tehai
	for _, held := range s.akaHeld {
		if held {
			aka++
		}
	}
	if isRon {
		all[win.Deaka()]++
		if win.IsAka() {
			aka++
		}
	}
	for i := range s.melds {
		m := &s.melds[i]
		for _, t := range m.Tiles[:m.N] {
			all[t.Deaka()]++
			if t.IsAka() {
				aka++
			}
		}
	}
	for _, ind := range s.doraInds {
		dora += int(all[ind.Next()])
	}
	if s.riichiAcc[s.playerID] {
		for _, ind := range uraIndicators {
			ura += int(all[ind.Next()])
		}
	}
	return dora, aka, ura
}

// Agari 以 win 和了时的役、符番与点数。isRon 为 false 时 win 应为刚摸到的牌
func (s *PlayerState) Agari(isRon bool, win tile.Tile, uraIndicators []tile.Tile) (agari.Agari, point.Point, bool) {
	if !s.complete(isRon, win) {
		return agari.Agari{}, point.Point{}, false
	}
	calc := s.calculator(isRon, win)
	st := s.situation(isRon)

	var res agari.Agari
	if st.yakuman > 0 {
		if a, ok := calc.SearchYakus(); ok && a.Yakuman > 0 {
			res = a
		}
		res.Yakuman += st.yakuman
		res.Fu, res.Han = 0, 0
		res.Yakus |= st.yakus
	} else {
		dora, aka, ura := s.DoraCount(isRon, win, uraIndicators)
		a, ok := calc.Agari(st.han, dora+aka+ura)
		if !ok {
			return agari.Agari{}, point.Point{}, false
		}
		res = a
		if res.Yakuman == 0 {
			res.Yakus |= st.yakus
			if dora > 0 {
				res.Yakus.Add(agari.YakuDora)
			}
			if aka > 0 {
				res.Yakus.Add(agari.YakuAkaDora)
			}
			if ura > 0 {
				res.Yakus.Add(agari.YakuUraDora)
			}
		}
	}

	isOya := s.playerID == s.oya
	if res.Yakuman > 0 {
		return res, point.Yakuman(isOya, res.Yakuman), true
	}
	p, err := point.Calc(res.Fu, res.Han, isOya)
	if err != nil {
		return agari.Agari{}, point.Point{}, false
	}
	return res, p, true
}
