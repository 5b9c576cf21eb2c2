package state

import (
	"fmt"
	"math"

	"gomahjong/framework/game/engines/mahjong/agari"
	"gomahjong/framework/game/engines/mahjong/shanten"
	"gomahjong/framework/game/engines/mahjong/tile"
	"gomahjong/runtime/game/engines/mahjong/event"
)

const (
	InitialTilesLeft = 70 // 配牌后牌山可摸张数
	MaxKans          = 4
	RiichiCost       = 1000

	notHeld = math.MaxInt8
)

// Update 按顺序应用一条事件，返回本家此刻可以执行的动作。
// 返回错误后状态不再可用，调用方应丢弃整局。
func (s *PlayerState) Update(ev *event.Event) (ActionCandidate, error) {
	if err := ev.Validate(); err != nil {
		return ActionCandidate{}, err
	}
	// 翻宝牌与立直成立紧跟在打牌之后，不结束反应窗口
	if s.missedWin && !keepsWindow(ev.Type) && !(ev.Type == event.TypeHora && ev.Actor == s.playerID) {
		s.applyMissedWin()
	}
	prev := s.cans
	s.cans = ActionCandidate{}

	var err error
	switch ev.Type {
	case event.TypeNone, event.TypeStartGame:
	case event.TypeStartKyoku:
		err = s.onStartKyoku(ev)
	case event.TypeTsumo:
		err = s.onTsumo(ev)
	case event.TypeDahai:
		err = s.onDahai(ev, prev)
	case event.TypeChi, event.TypePon, event.TypeDaiminkan:
		err = s.onCall(ev)
	case event.TypeKakan:
		err = s.onKakan(ev)
	case event.TypeAnkan:
		err = s.onAnkan(ev)
	case event.TypeDora:
		err = s.onDora(ev, prev)
	case event.TypeReach:
		err = s.onReach(ev)
	case event.TypeReachAccepted:
		err = s.onReachAccepted(ev, prev)
	case event.TypeHora, event.TypeRyukyoku:
		s.onKyokuEnd(ev)
	case event.TypeEndKyoku, event.TypeEndGame:
		s.phase = Terminal
	}
	if err != nil {
		s.cans = ActionCandidate{}
		return ActionCandidate{}, err
	}
	if s.phase != Terminal {
		s.checkHandSize()
		s.checkShanten()
	}
	return s.cans, nil
}

func keepsWindow(t event.Type) bool {
	return t == event.TypeDora || t == event.TypeReachAccepted
}

func (s *PlayerState) expect(ev *event.Event, phases ...Phase) error {
	for _, p := range phases {
		if s.phase == p {
			return nil
		}
	}
	return fmt.Errorf("%w: seat %d 在 %s 阶段收到 %s (actor %d)", ErrInvalidTransition, s.playerID, s.phase, ev.Type, ev.Actor)
}

func (s *PlayerState) applyMissedWin() {
	s.missedWin = false
	s.doujunFuriten = true
	if s.riichiAcc[s.playerID] {
		s.riichiFuriten = true
	}
}

func (s *PlayerState) onStartKyoku(ev *event.Event) error {
	if err := s.expect(ev, Terminal); err != nil {
		return err
	}
	*s = PlayerState{
		playerID:   s.playerID,
		phase:      AwaitingDraw,
		bakaze:     ev.Bakaze.Deaka(),
		jikaze:     tile.East + tile.Tile(rel(s.playerID-ev.Oya)),
		kyoku:      ev.Kyoku,
		honba:      ev.Honba,
		kyotaku:    ev.Kyotaku,
		oya:        ev.Oya,
		scores:     ev.Scores,
		tilesLeft:  InitialTilesLeft,
		doraInds:   []tile.Tile{ev.DoraMarker},
		isMenzen:   true,
		noCallYet:  true,
		lastCutter: -1,
		paoSeat:    -1,
	}
	for _, t := range ev.Tehais[s.playerID] {
		if !t.Valid() || t.IsUnknown() {
			return fmt.Errorf("%w: seat %d 配牌含有不可见牌", ErrInvalidTransition, s.playerID)
		}
		s.addTile(t)
		if s.tehai[t.Deaka()] > 4 {
			return fmt.Errorf("%w: seat %d 配牌 %s 超过 4 张", ErrInvalidTransition, s.playerID, t.Deaka())
		}
	}
	s.shanten = shanten.CalcAll(&s.tehai, s.lenDiv3())
	s.refreshWaits()
	return nil
}

func (s *PlayerState) onTsumo(ev *event.Event) error {
	if err := s.expect(ev, AwaitingDraw, AwaitingReactions); err != nil {
		return err
	}
	if s.tilesLeft <= 0 {
		return fmt.Errorf("%w: 牌山已空仍然摸牌", ErrInvalidTransition)
	}
	s.tilesLeft--
	s.chankanChance = false
	s.lastCutter = -1
	if ev.Actor != s.playerID {
		s.phase = AwaitingDraw
		return nil
	}

	pai := ev.Pai
	if pai.IsUnknown() {
		return fmt.Errorf("%w: seat %d 自家摸牌不可见", ErrInvalidTransition, s.playerID)
	}
	k := pai.Deaka()
	if s.tehai[k] >= 4 || (pai.IsAka() && s.akaHeld[k.Suit()]) {
		return fmt.Errorf("%w: seat %d 摸到第五张 %s", ErrInvalidTransition, s.playerID, pai)
	}
	s.rinshanDraw = s.pendingKan
	s.pendingKan = false
	if !s.rinshanDraw {
		s.selfTurns++
	}
	s.drewThisTurn = true
	s.lastTsumo = pai

	before := s.shanten
	s.addTile(pai)
	switch {
	case before != 0:
		s.shanten = shanten.CalcAll(&s.tehai, s.lenDiv3())
	case s.waits[k]:
		s.shanten = -1
	default:
		s.shanten = 0
	}
	s.prevShanten = before
	s.updateDiscardSets(k, before)
	s.phase = AwaitingDiscardDecision
	s.selfTurnCandidates()
	return nil
}

func (s *PlayerState) onDahai(ev *event.Event, prev ActionCandidate) error {
	pai := ev.Pai
	if pai.IsUnknown() {
		return fmt.Errorf("%w: 打出的牌不可见", ErrInvalidTransition)
	}
	k := pai.Deaka()
	item := KawaItem{Pai: pai, Tsumogiri: ev.Tsumogiri, Riichi: s.declPending[ev.Actor]}
	s.declPending[ev.Actor] = false

	if ev.Actor == s.playerID {
		if err := s.expect(ev, AwaitingDiscardDecision); err != nil {
			return err
		}
		if !s.hasTile(pai) {
			return fmt.Errorf("%w: seat %d 打出未持有的 %s", ErrInvalidTransition, s.playerID, pai)
		}
		if s.riichiAcc[s.playerID] && prev.CanTsumoAgari {
			s.riichiFuriten = true
		}
		s.ippatsu = false
		s.removeTile(pai)
		s.kawa[s.playerID] = append(s.kawa[s.playerID], item)
		s.discarded[k] = true
		s.doujunFuriten = false
		s.forbidden = [tile.KindCount]bool{}
		s.drewThisTurn = false
		s.rinshanDraw = false

		s.shanten = s.discardShanten[k]
		s.refreshWaits()
		s.lastCutter, s.lastCutTile = s.playerID, pai
		s.phase = AwaitingReactions
		return nil
	}

	if err := s.expect(ev, AwaitingDraw); err != nil {
		return err
	}
	s.kawa[ev.Actor] = append(s.kawa[ev.Actor], item)
	s.lastCutter, s.lastCutTile = ev.Actor, pai
	s.phase = AwaitingReactions
	s.reactionCandidates(ev.Actor, pai)
	if s.shanten == 0 && s.waits[k] {
		s.missedWin = true
	}
	return nil
}

// reactionCandidates 别家打出 pai 后本家的鸣牌与荣和
func (s *PlayerState) reactionCandidates(actor int, pai tile.Tile) {
	c := &s.cans
	c.TargetActor = actor
	k := pai.Deaka()
	self := s.playerID

	if s.shanten == 0 && s.waits[k] && !s.AtFuriten() {
		c.CanRonAgari = s.canWin(true, pai)
	}
	if s.riichiDecl[self] || s.tilesLeft <= 0 {
		return
	}
	if s.tehai[k] >= 2 {
		var f [tile.KindCount]bool
		f[k] = true
		c.CanPon = s.hasDiscardAfter([]tile.Tile{k, k}, &f)
	}
	if s.tehai[k] >= 3 && s.kansTotal < MaxKans {
		c.CanDaiminkan = true
	}
	if actor != rel(self+3) || k.IsJihai() {
		return
	}
	r := k.Rank()
	if r <= 7 && s.tehai[k+1] > 0 && s.tehai[k+2] > 0 {
		f := kuikae(k, k+1, k+2)
		c.CanChiLow = s.hasDiscardAfter([]tile.Tile{k + 1, k + 2}, &f)
	}
	if r >= 2 && r <= 8 && s.tehai[k-1] > 0 && s.tehai[k+1] > 0 {
		f := kuikae(k, k-1, k+1)
		c.CanChiMid = s.hasDiscardAfter([]tile.Tile{k - 1, k + 1}, &f)
	}
	if r >= 3 && s.tehai[k-2] > 0 && s.tehai[k-1] > 0 {
		f := kuikae(k, k-2, k-1)
		c.CanChiHigh = s.hasDiscardAfter([]tile.Tile{k - 2, k - 1}, &f)
	}
}

// kuikae 吃 called 后本巡禁止打出的牌种。两面吃时另一端同样禁止
func kuikae(called, a, b tile.Tile) [tile.KindCount]bool {
	var f [tile.KindCount]bool
	f[called] = true
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	switch {
	case called < lo && called.Rank() <= 6:
		f[called+3] = true
	case called > hi && called.Rank() >= 4:
		f[called-3] = true
	}
	return f
}

// hasDiscardAfter 去掉 consumed 后是否还剩可以打出的牌
func (s *PlayerState) hasDiscardAfter(consumed []tile.Tile, forbidden *[tile.KindCount]bool) bool {
	h := s.tehai
	for _, t := range consumed {
		h[t.Deaka()]--
	}
	for k, n := range h {
		if n > 0 && !forbidden[k] {
			return true
		}
	}
	return false
}

func (s *PlayerState) onCall(ev *event.Event) error {
	if err := s.expect(ev, AwaitingReactions); err != nil {
		return err
	}
	if ev.Target == ev.Actor || ev.Target != s.lastCutter || ev.Pai != s.lastCutTile {
		return fmt.Errorf("%w: %s 与最后打出的牌不符", ErrInvalidTransition, ev)
	}
	if n := len(s.kawa[ev.Target]); n > 0 {
		s.kawa[ev.Target][n-1].Called = true
	}
	s.noCallYet = false
	s.ippatsu = false
	s.openMelds[ev.Actor]++
	s.lastCutter = -1
	if ev.Type == event.TypeDaiminkan {
		s.kansTotal++
	}

	if ev.Actor != s.playerID {
		s.phase = AwaitingDraw
		return nil
	}
	k := ev.Pai.Deaka()
	for _, t := range ev.Consumed {
		if !s.hasTile(t) {
			return fmt.Errorf("%w: seat %d 鸣牌使用了未持有的 %s", ErrInvalidTransition, s.playerID, t)
		}
		s.removeTile(t)
	}
	m := Meld{Pai: ev.Pai, Target: ev.Target}
	for _, t := range ev.Consumed {
		m.Tiles[m.N] = t
		m.N++
	}
	m.Tiles[m.N] = ev.Pai
	m.N++
	s.isMenzen = false
	before := s.shanten

	switch ev.Type {
	case event.TypeChi:
		m.Type = MeldChi
		s.forbidden = kuikae(k, ev.Consumed[0].Deaka(), ev.Consumed[1].Deaka())
	case event.TypePon:
		m.Type = MeldPon
		s.forbidden = [tile.KindCount]bool{}
		s.forbidden[k] = true
	case event.TypeDaiminkan:
		m.Type = MeldDaiminkan
	}
	s.melds = append(s.melds, m)
	if m.Type != MeldChi {
		s.countPao(k, ev.Target)
	}

	s.shanten = shanten.CalcAll(&s.tehai, s.lenDiv3())
	if m.Type == MeldDaiminkan {
		s.pendingKan = true
		s.refreshWaits()
		s.phase = AwaitingDraw
		return nil
	}
	s.prevShanten = before
	s.updateDiscardSets(tile.Unknown, 0)
	s.phase = AwaitingDiscardDecision
	s.cans.CanDiscard = true
	s.cans.TargetActor = s.playerID
	return nil
}

// countPao 第三组三元牌或第四组风牌由碰/明杠完成时，放出者承担包牌
func (s *PlayerState) countPao(k tile.Tile, target int) {
	switch {
	case k >= tile.White:
		s.dragonMelds++
		if s.dragonMelds == 3 && target >= 0 {
			s.paoSeat = target
		}
	case k >= tile.East:
		s.windMelds++
		if s.windMelds == 4 && target >= 0 {
			s.paoSeat = target
		}
	}
}

func (s *PlayerState) onKakan(ev *event.Event) error {
	k := ev.Pai.Deaka()
	s.kansTotal++
	s.noCallYet = false
	s.ippatsu = false

	if ev.Actor != s.playerID {
		if err := s.expect(ev, AwaitingDraw); err != nil {
			return err
		}
		s.chankanChance = true
		s.lastCutter, s.lastCutTile = ev.Actor, ev.Pai
		s.phase = AwaitingReactions
		s.cans.TargetActor = ev.Actor
		if s.shanten == 0 && s.waits[k] {
			s.cans.CanRonAgari = !s.AtFuriten() && s.canWin(true, ev.Pai)
			s.missedWin = true
		}
		return nil
	}

	if err := s.expect(ev, AwaitingDiscardDecision); err != nil {
		return err
	}
	idx := -1
	for i := range s.melds {
		if s.melds[i].Type == MeldPon && s.melds[i].Kind() == k {
			idx = i
			break
		}
	}
	if idx < 0 || !s.hasTile(ev.Pai) {
		return fmt.Errorf("%w: seat %d 无法加杠 %s", ErrInvalidTransition, s.playerID, ev.Pai)
	}
	s.removeTile(ev.Pai)
	m := &s.melds[idx]
	m.Type = MeldKakan
	m.Tiles[m.N] = ev.Pai
	m.N++

	s.shanten = s.discardShanten[k]
	s.refreshWaits()
	s.pendingKan = true
	s.drewThisTurn = false
	s.phase = AwaitingDraw
	return nil
}

func (s *PlayerState) onAnkan(ev *event.Event) error {
	k := ev.Consumed[0].Deaka()
	for _, t := range ev.Consumed[1:] {
		if t.Deaka() != k {
			return fmt.Errorf("%w: 暗杠的四张牌不同 %v", ErrInvalidTransition, ev.Consumed)
		}
	}
	s.kansTotal++
	s.noCallYet = false
	s.ippatsu = false

	if ev.Actor != s.playerID {
		if err := s.expect(ev, AwaitingDraw); err != nil {
			return err
		}
		s.chankanChance = true
		s.lastCutter, s.lastCutTile = ev.Actor, k
		s.phase = AwaitingReactions
		s.cans.TargetActor = ev.Actor
		// 暗杠只允许国士无双抢杠
		if s.isMenzen && len(s.melds) == 0 && s.shanten == 0 && s.waits[k] && shanten.CalcKokushi(&s.tehai) == 0 {
			s.cans.CanRonAgari = !s.AtFuriten()
			s.missedWin = true
		}
		return nil
	}

	if err := s.expect(ev, AwaitingDiscardDecision); err != nil {
		return err
	}
	if s.tehai[k] != 4 {
		return fmt.Errorf("%w: seat %d 暗杠 %s 不足四张", ErrInvalidTransition, s.playerID, k)
	}
	for _, t := range ev.Consumed {
		s.removeTile(t)
	}
	m := Meld{Type: MeldAnkan, Pai: k, Target: s.playerID}
	for _, t := range ev.Consumed {
		m.Tiles[m.N] = t
		m.N++
	}
	s.melds = append(s.melds, m)
	s.countPao(k, -1)

	s.shanten = shanten.CalcAll(&s.tehai, s.lenDiv3())
	s.refreshWaits()
	s.pendingKan = true
	s.drewThisTurn = false
	s.phase = AwaitingDraw
	return nil
}

// onDora 翻宝牌不改变可选动作
func (s *PlayerState) onDora(ev *event.Event, prev ActionCandidate) error {
	if s.phase == Terminal {
		return s.expect(ev, AwaitingDraw, AwaitingDiscardDecision, AwaitingReactions)
	}
	if len(s.doraInds) >= 5 {
		return fmt.Errorf("%w: 宝牌指示牌超过 5 张", ErrInvalidTransition)
	}
	s.doraInds = append(s.doraInds, ev.DoraMarker)
	s.cans = prev
	return nil
}

func (s *PlayerState) onReach(ev *event.Event) error {
	if ev.Actor != s.playerID {
		if err := s.expect(ev, AwaitingDraw); err != nil {
			return err
		}
		s.riichiDecl[ev.Actor] = true
		s.declPending[ev.Actor] = true
		return nil
	}
	if err := s.expect(ev, AwaitingDiscardDecision); err != nil {
		return err
	}
	if s.riichiDecl[s.playerID] || !s.isMenzen {
		return fmt.Errorf("%w: seat %d 不能立直", ErrInvalidTransition, s.playerID)
	}
	s.riichiDecl[s.playerID] = true
	s.declPending[s.playerID] = true
	s.doubleRiichi = s.selfTurns == 1 && s.noCallYet
	s.cans.CanDiscard = true
	s.cans.TargetActor = s.playerID
	return nil
}

// onReachAccepted 宣言牌无人荣和后收取供托。鸣牌在其后结算，本家的鸣牌选项保持不变
func (s *PlayerState) onReachAccepted(ev *event.Event, prev ActionCandidate) error {
	if s.phase == Terminal || !s.riichiDecl[ev.Actor] || s.riichiAcc[ev.Actor] {
		return fmt.Errorf("%w: seat %d 立直成立但未宣言", ErrInvalidTransition, ev.Actor)
	}
	s.riichiAcc[ev.Actor] = true
	s.scores[ev.Actor] -= RiichiCost
	s.kyotaku++
	if ev.Actor == s.playerID {
		s.ippatsu = true
	}
	if s.phase == AwaitingReactions {
		s.cans = prev
		s.cans.CanRonAgari = false
	}
	return nil
}

func (s *PlayerState) onKyokuEnd(ev *event.Event) {
	if ev.HasDeltas {
		for i := range s.scores {
			s.scores[i] += ev.Deltas[i]
		}
	}
	s.phase = Terminal
	s.missedWin = false
}

// refreshWaits 3n+1 张时重算听牌与舍牌振听
func (s *PlayerState) refreshWaits() {
	s.waits = [tile.KindCount]bool{}
	if s.shanten == 0 {
		s.waits = shanten.Waits(&s.tehai, s.lenDiv3())
	}
	s.discardFuriten = false
	for k, w := range s.waits {
		if w && s.discarded[k] {
			s.discardFuriten = true
			break
		}
	}
}

// updateDiscardSets 3n+2 张时计算每种牌打出后的向听。
// same 打出后回到摸牌前的手牌，直接使用 sameShanten
func (s *PlayerState) updateDiscardSets(same tile.Tile, sameShanten int8) {
	best := int8(notHeld)
	for k := 0; k < tile.KindCount; k++ {
		if s.tehai[k] == 0 {
			s.discardShanten[k] = notHeld
			continue
		}
		if tile.Tile(k) == same {
			s.discardShanten[k] = sameShanten
		} else {
			s.tehai[k]--
			s.discardShanten[k] = shanten.CalcAll(&s.tehai, s.lenDiv3())
			s.tehai[k]++
		}
		if s.discardShanten[k] < best {
			best = s.discardShanten[k]
		}
	}
	for k := range s.discardShanten {
		ds := s.discardShanten[k]
		s.keepShanten[k] = ds != notHeld && ds == best
		s.nextShanten[k] = ds != notHeld && ds < s.prevShanten
	}
}

// selfTurnCandidates 自家摸牌后
func (s *PlayerState) selfTurnCandidates() {
	c := &s.cans
	self := s.playerID
	c.CanDiscard = true
	c.TargetActor = self
	if s.shanten == -1 {
		c.CanTsumoAgari = s.canWin(false, s.lastTsumo)
	}
	c.CanAnkan = len(s.AnkanCandidates()) > 0
	c.CanKakan = len(s.KakanCandidates()) > 0
	if !s.riichiDecl[self] && s.isMenzen && s.tilesLeft >= 4 && s.scores[self] >= RiichiCost {
		for k, ds := range s.discardShanten {
			if s.tehai[k] > 0 && ds <= 0 {
				c.CanRiichi = true
				break
			}
		}
	}
	if s.selfTurns == 1 && s.noCallYet && !s.rinshanDraw && s.yaokyuuKinds() >= 9 {
		c.CanRyukyoku = true
	}
}

func (s *PlayerState) yaokyuuKinds() int {
	n := 0
	for k, c := range s.tehai {
		if c > 0 && tile.Tile(k).IsYaokyuu() {
			n++
		}
	}
	return n
}

// AnkanCandidates 可以暗杠的牌种。立直后只能杠摸到的牌且不改变听牌
func (s *PlayerState) AnkanCandidates() []tile.Tile {
	if s.phase != AwaitingDiscardDecision || !s.drewThisTurn || s.kansTotal >= MaxKans || s.tilesLeft <= 0 {
		return nil
	}
	if s.declPending[s.playerID] {
		return nil
	}
	if s.riichiAcc[s.playerID] {
		k := s.lastTsumo.Deaka()
		if s.tehai[k] != 4 {
			return nil
		}
		pre := s.tehai
		pre[k]--
		if agari.CheckAnkanAfterRiichi(&pre, s.lenDiv3(), k, false) {
			return []tile.Tile{k}
		}
		return nil
	}
	var out []tile.Tile
	for k, n := range s.tehai {
		if n == 4 {
			out = append(out, tile.Tile(k))
		}
	}
	return out
}

// KakanCandidates 可以加杠的牌种
func (s *PlayerState) KakanCandidates() []tile.Tile {
	if s.phase != AwaitingDiscardDecision || !s.drewThisTurn || s.kansTotal >= MaxKans || s.tilesLeft <= 0 {
		return nil
	}
	if s.riichiDecl[s.playerID] {
		return nil
	}
	var out []tile.Tile
	for i := range s.melds {
		if s.melds[i].Type != MeldPon {
			continue
		}
		if k := s.melds[i].Kind(); s.tehai[k] > 0 {
			out = append(out, k)
		}
	}
	return out
}

// DiscardableTiles 当前可以打出的牌，赤五与普通五分开列出
func (s *PlayerState) DiscardableTiles() []tile.Tile {
	if s.phase != AwaitingDiscardDecision || !s.cans.CanDiscard {
		return nil
	}
	self := s.playerID
	if s.riichiAcc[self] {
		return []tile.Tile{s.lastTsumo}
	}
	var out []tile.Tile
	var seen [tile.Count]bool
	for _, t := range s.Tiles() {
		k := t.Deaka()
		if seen[t] || s.forbidden[k] {
			continue
		}
		if s.declPending[self] && s.discardShanten[k] > 0 {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// KeepShantenDiscards 打出后不退向听的牌种
func (s *PlayerState) KeepShantenDiscards() []tile.Tile {
	return s.discardSet(&s.keepShanten)
}

// AdvanceDiscards 打出后比摸牌（鸣牌）前前进的牌种
func (s *PlayerState) AdvanceDiscards() []tile.Tile {
	return s.discardSet(&s.nextShanten)
}

func (s *PlayerState) discardSet(set *[tile.KindCount]bool) []tile.Tile {
	if s.phase != AwaitingDiscardDecision {
		return nil
	}
	var out []tile.Tile
	for k, ok := range set {
		if ok && !s.forbidden[k] {
			out = append(out, tile.Tile(k))
		}
	}
	return out
}
