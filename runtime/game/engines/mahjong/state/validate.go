package state

import (
	"fmt"

	"gomahjong/framework/game/engines/mahjong/tile"
	"gomahjong/runtime/game/engines/mahjong/event"
)

func illegal(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrIllegalAction}, args...)...)
}

// ValidateReaction 检查本家提交的反应是否在当前可选动作内。
// TypeNone 表示跳过，自家打牌阶段不能跳过。
func (s *PlayerState) ValidateReaction(ev *event.Event) error {
	c := s.cans
	self := s.playerID
	if ev.Type == event.TypeNone {
		if s.phase == AwaitingDiscardDecision && c.CanDiscard {
			return illegal("seat %d 必须打牌", self)
		}
		return nil
	}
	if err := ev.Validate(); err != nil {
		return illegal("%v", err)
	}
	if !ev.IsActorEvent() {
		return illegal("seat %d 不能提交 %s", self, ev.Type)
	}
	if ev.Actor != self {
		return illegal("seat %d 提交了 actor=%d 的 %s", self, ev.Actor, ev.Type)
	}

	switch ev.Type {
	case event.TypeDahai:
		return s.validateDahai(ev)
	case event.TypeReach:
		if !c.CanRiichi {
			return illegal("seat %d 不能立直", self)
		}
	case event.TypeChi:
		return s.validateChi(ev)
	case event.TypePon:
		if !c.CanPon {
			return illegal("seat %d 不能碰", self)
		}
		return s.validateCalled(ev, 2)
	case event.TypeDaiminkan:
		if !c.CanDaiminkan {
			return illegal("seat %d 不能大明杠", self)
		}
		return s.validateCalled(ev, 3)
	case event.TypeKakan:
		if !c.CanKakan {
			return illegal("seat %d 不能加杠", self)
		}
		k := ev.Pai.Deaka()
		if !containsKind(s.KakanCandidates(), k) || !s.hasTile(ev.Pai) {
			return illegal("seat %d 加杠 %s 不合法", self, ev.Pai)
		}
		for _, t := range ev.Consumed {
			if t.Deaka() != k {
				return illegal("加杠 consumed %v 与 %s 不符", ev.Consumed, ev.Pai)
			}
		}
	case event.TypeAnkan:
		if !c.CanAnkan {
			return illegal("seat %d 不能暗杠", self)
		}
		k := ev.Consumed[0].Deaka()
		if !containsKind(s.AnkanCandidates(), k) {
			return illegal("seat %d 暗杠 %s 不合法", self, k)
		}
		if !s.hasTiles(ev.Consumed) {
			return illegal("seat %d 暗杠使用了未持有的牌 %v", self, ev.Consumed)
		}
	case event.TypeHora:
		if ev.Target == self {
			if !c.CanTsumoAgari {
				return illegal("seat %d 不能自摸", self)
			}
			return nil
		}
		if !c.CanRonAgari {
			return illegal("seat %d 不能荣和", self)
		}
		if ev.Target != c.TargetActor {
			return illegal("seat %d 荣和对象 %d 应为 %d", self, ev.Target, c.TargetActor)
		}
	case event.TypeRyukyoku:
		if !c.CanRyukyoku {
			return illegal("seat %d 不能九种九牌", self)
		}
	default:
		return illegal("seat %d 不能提交 %s", self, ev.Type)
	}
	return nil
}

func (s *PlayerState) validateDahai(ev *event.Event) error {
	self := s.playerID
	if !s.cans.CanDiscard || s.phase != AwaitingDiscardDecision {
		return illegal("seat %d 当前不能打牌", self)
	}
	if !s.hasTile(ev.Pai) {
		return illegal("seat %d 打出未持有的 %s", self, ev.Pai)
	}
	if ev.Tsumogiri && (!s.drewThisTurn || ev.Pai != s.lastTsumo) {
		return illegal("seat %d 摸切标记与 %s 不符", self, ev.Pai)
	}
	k := ev.Pai.Deaka()
	if s.forbidden[k] {
		return illegal("seat %d 食替禁止打出 %s", self, ev.Pai)
	}
	if s.riichiAcc[self] && (ev.Pai != s.lastTsumo || !ev.Tsumogiri) {
		return illegal("seat %d 立直后只能摸切", self)
	}
	if s.declPending[self] && s.discardShanten[k] > 0 {
		return illegal("seat %d 立直宣言牌 %s 不能听牌", self, ev.Pai)
	}
	return nil
}

func (s *PlayerState) validateChi(ev *event.Event) error {
	self := s.playerID
	if !s.cans.CanChi() {
		return illegal("seat %d 不能吃", self)
	}
	if err := s.validateCalled(ev, 2); err != nil {
		return err
	}
	k := ev.Pai.Deaka()
	a, b := ev.Consumed[0].Deaka(), ev.Consumed[1].Deaka()
	if a > b {
		a, b = b, a
	}
	var ok bool
	switch {
	case a == k+1 && b == k+2:
		ok = s.cans.CanChiLow
	case a == k-1 && b == k+1:
		ok = s.cans.CanChiMid
	case a == k-2 && b == k-1:
		ok = s.cans.CanChiHigh
	}
	if !ok || k.IsJihai() || a.Suit() != k.Suit() || b.Suit() != k.Suit() {
		return illegal("seat %d 吃 %s %v 不成顺子或不可选", self, ev.Pai, ev.Consumed)
	}
	return nil
}

// validateCalled 鸣牌对象与所用手牌
func (s *PlayerState) validateCalled(ev *event.Event, n int) error {
	self := s.playerID
	if ev.Target != s.lastCutter || ev.Target != s.cans.TargetActor || ev.Pai != s.lastCutTile {
		return illegal("seat %d 鸣的 %s (target %d) 不是最后打出的牌", self, ev.Pai, ev.Target)
	}
	if len(ev.Consumed) != n {
		return illegal("seat %d 鸣牌需要 %d 张", self, n)
	}
	if ev.Type != event.TypeChi {
		for _, t := range ev.Consumed {
			if t.Deaka() != ev.Pai.Deaka() {
				return illegal("seat %d %s 使用了 %s", self, ev.Type, t)
			}
		}
	}
	if !s.hasTiles(ev.Consumed) {
		return illegal("seat %d 鸣牌使用了未持有的牌 %v", self, ev.Consumed)
	}
	return nil
}

func containsKind(ts []tile.Tile, k tile.Tile) bool {
	for _, t := range ts {
		if t.Deaka() == k {
			return true
		}
	}
	return false
}
