package state

import (
	"errors"
	"testing"

	"gomahjong/framework/game/engines/mahjong/agari"
	"gomahjong/framework/game/engines/mahjong/tile"
	"gomahjong/runtime/game/engines/mahjong/event"
)

func init() {
	StrictInvariants = true
}

func startKyoku(oya int, marker tile.Tile, hands map[int]string) event.Event {
	ev := event.Event{
		Type:       event.TypeStartKyoku,
		Bakaze:     tile.East,
		DoraMarker: marker,
		Kyoku:      1,
		Oya:        oya,
		Scores:     [4]int{25000, 25000, 25000, 25000},
	}
	for seat := range ev.Tehais {
		for i := range ev.Tehais[seat] {
			ev.Tehais[seat][i] = tile.Unknown
		}
		if h, ok := hands[seat]; ok {
			copy(ev.Tehais[seat][:], tile.MustParseTiles(h))
		}
	}
	return ev
}

func apply(t *testing.T, s *PlayerState, evs ...event.Event) ActionCandidate {
	t.Helper()
	var c ActionCandidate
	for i := range evs {
		var err error
		if c, err = s.Update(&evs[i]); err != nil {
			t.Fatalf("Update(%s): %v", evs[i], err)
		}
	}
	return c
}

func mp(code string) tile.Tile {
	return tile.MustParse(code)
}

// 其他家摸一张打一张
func passTurn(seat int, discard string) []event.Event {
	return []event.Event{
		event.Tsumo(seat, tile.Unknown),
		event.Dahai(seat, mp(discard), false),
	}
}

func riichiSetup(t *testing.T, hand string) *PlayerState {
	t.Helper()
	s := New(0)
	apply(t, s, startKyoku(0, tile.North, map[int]string{0: hand}))
	c := apply(t, s, event.Tsumo(0, tile.Pin9))
	if !c.CanRiichi || c.CanTsumoAgari {
		t.Fatalf("after tsumo 9p: %+v", c)
	}
	apply(t, s, event.Reach(0))
	if err := s.ValidateReaction(ptr(event.Dahai(0, mp("1m"), false))); !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("riichi discard breaking tenpai: err = %v", err)
	}
	apply(t, s, event.Dahai(0, tile.Pin9, true), event.ReachAccepted(0))
	if !s.SelfRiichi() || s.Scores()[0] != 24000 || s.Kyotaku() != 1 {
		t.Fatalf("riichi not accepted: scores %v kyotaku %d", s.Scores(), s.Kyotaku())
	}
	return s
}

func ptr(ev event.Event) *event.Event {
	return &ev
}

func TestRiichiFuritenIsPermanent(t *testing.T) {
	s := riichiSetup(t, "123m456p789s1122z")
	if w := s.Waits(); !w[tile.East] || !w[tile.South] {
		t.Fatalf("waits = %v", w)
	}

	apply(t, s, event.Tsumo(1, tile.Unknown))
	c := apply(t, s, event.Dahai(1, tile.East, false))
	if !c.CanRonAgari || c.TargetActor != 1 {
		t.Fatalf("ron on E should be legal: %+v", c)
	}
	if s.AtFuriten() {
		t.Fatal("furiten before declining")
	}

	apply(t, s, event.Tsumo(2, tile.Unknown))
	if !s.AtFuriten() {
		t.Fatal("declined ron must cause furiten")
	}
	apply(t, s, event.Dahai(2, mp("5s"), false))
	apply(t, s, passTurn(3, "9m")...)
	c = apply(t, s, event.Tsumo(0, mp("1s")))
	if c.CanTsumoAgari || c.CanRiichi {
		t.Fatalf("after tsumo 1s: %+v", c)
	}
	if got := s.DiscardableTiles(); len(got) != 1 || got[0] != mp("1s") {
		t.Fatalf("riichi discards = %v", got)
	}
	apply(t, s, event.Dahai(0, mp("1s"), true))
	if !s.AtFuriten() {
		t.Fatal("riichi furiten cleared by own discard")
	}

	apply(t, s, event.Tsumo(1, tile.Unknown))
	c = apply(t, s, event.Dahai(1, tile.South, false))
	if c.CanRonAgari {
		t.Fatal("ron allowed while in riichi furiten")
	}
	if !s.AtFuriten() {
		t.Fatal("furiten lost")
	}
}

// 立直宣言牌的反应窗口：立直成立后仍可以吃，放过的荣和在窗口结束后才振听
func TestReachAcceptedKeepsCallOptions(t *testing.T) {
	s := New(1)
	apply(t, s, startKyoku(0, tile.North, map[int]string{1: "234m567m678s55s23p"}))
	apply(t, s, event.Tsumo(0, tile.Unknown), event.Reach(0))
	c := apply(t, s, event.Dahai(0, mp("4p"), true))
	if !c.CanChiHigh || !c.CanRonAgari {
		t.Fatalf("after riichi tile 4p: %+v", c)
	}

	c = apply(t, s, event.ReachAccepted(0))
	if !c.CanChiHigh || c.CanRonAgari || c.TargetActor != 0 {
		t.Fatalf("after reach_accepted: %+v", c)
	}
	if s.AtFuriten() {
		t.Fatal("furiten before the reaction window closed")
	}
	chi := event.Chi(1, 0, mp("4p"), [2]tile.Tile{mp("2p"), mp("3p")})
	if err := s.ValidateReaction(&chi); err != nil {
		t.Fatalf("chi on riichi tile: %v", err)
	}
	apply(t, s, chi)
	if !s.AtFuriten() {
		t.Fatal("declined ron must cause furiten")
	}
	if s.Scores()[0] != 24000 || !s.RiichiAccepted(0) {
		t.Fatalf("scores %v", s.Scores())
	}
}

func TestDoujunFuritenClearsOnOwnDiscard(t *testing.T) {
	// 双碰听东南，西家荣南无役
	s := New(2)
	apply(t, s, startKyoku(0, tile.North, map[int]string{2: "123m456p789s1122z"}))
	apply(t, s, event.Tsumo(0, tile.Unknown))
	c := apply(t, s, event.Dahai(0, mp("3z"), false))
	if c.CanRonAgari {
		t.Fatalf("W is not a wait: %+v", c)
	}
	apply(t, s, event.Tsumo(1, tile.Unknown))
	c = apply(t, s, event.Dahai(1, tile.South, false))
	if c.CanRonAgari {
		t.Fatal("S has no yaku for the west seat")
	}
	apply(t, s, event.Tsumo(2, mp("9m")))
	if !s.AtFuriten() {
		t.Fatal("seeing a winning tile must set same-turn furiten")
	}
	apply(t, s, event.Dahai(2, mp("9m"), true))
	if s.AtFuriten() {
		t.Fatal("same-turn furiten should clear after own discard")
	}
}

func TestKuikaeForbidsDiscards(t *testing.T) {
	s := New(1)
	apply(t, s, startKyoku(0, tile.North, map[int]string{1: "234m789p789s1122z"}))
	apply(t, s, event.Tsumo(0, tile.Unknown))
	c := apply(t, s, event.Dahai(0, mp("1m"), false))
	if !c.CanChiLow || c.CanChiMid || c.CanChiHigh || c.TargetActor != 0 {
		t.Fatalf("chi candidates = %+v", c)
	}
	chi := event.Chi(1, 0, mp("1m"), [2]tile.Tile{mp("2m"), mp("3m")})
	if err := s.ValidateReaction(&chi); err != nil {
		t.Fatalf("ValidateReaction(chi): %v", err)
	}
	bad := event.Chi(1, 2, mp("1m"), [2]tile.Tile{mp("2m"), mp("3m")})
	if err := s.ValidateReaction(&bad); !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("chi from wrong target: err = %v", err)
	}
	c = apply(t, s, chi)
	if !c.CanDiscard || s.Phase() != AwaitingDiscardDecision {
		t.Fatalf("after chi: %+v phase %s", c, s.Phase())
	}
	f := s.Forbidden()
	if !f[tile.Man1] || !f[tile.Man4] {
		t.Fatalf("forbidden = %v", f)
	}
	for _, d := range s.DiscardableTiles() {
		if d == tile.Man4 {
			t.Fatal("4m must not be discardable after chi 1m with 23m")
		}
	}
	if err := s.ValidateReaction(ptr(event.Dahai(1, tile.Man4, false))); !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("kuikae discard: err = %v", err)
	}
	if err := s.ValidateReaction(ptr(event.Dahai(1, tile.Pin7, false))); err != nil {
		t.Fatalf("normal discard: %v", err)
	}
	apply(t, s, event.Dahai(1, tile.Pin7, false))
	if f := s.Forbidden(); f[tile.Man4] {
		t.Fatal("forbidden tiles should reset after discard")
	}
}

func TestChiNeedsRemainingDiscard(t *testing.T) {
	cases := []struct {
		hand string
		want bool
	}{
		{"2344m", false},
		{"2345m", true},
		{"2311m", false},
	}
	for _, c := range cases {
		s := New(1)
		s.phase = AwaitingDraw
		s.tilesLeft = 30
		s.tehai = tile.MustParseHand(c.hand)
		s.melds = make([]Meld, 3)
		s.reactionCandidates(0, tile.Man1)
		if s.cans.CanChiLow != c.want {
			t.Errorf("%s chi 1m: got %v, want %v", c.hand, s.cans.CanChiLow, c.want)
		}
	}
}

func TestRiichiLegality(t *testing.T) {
	cases := []struct {
		name   string
		score  int
		hand   string
		riichi bool
	}{
		{"tenpai", 25000, "123m456p789s1122z", true},
		{"no points", 900, "123m456p789s1122z", false},
		{"iishanten", 25000, "13m456p789s11223z", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := New(0)
			ev := startKyoku(0, tile.North, map[int]string{0: c.hand})
			ev.Scores[0] = c.score
			apply(t, s, ev)
			got := apply(t, s, event.Tsumo(0, tile.Pin9))
			if got.CanRiichi != c.riichi {
				t.Fatalf("CanRiichi = %v, want %v", got.CanRiichi, c.riichi)
			}
			err := s.ValidateReaction(ptr(event.Reach(0)))
			if c.riichi != (err == nil) {
				t.Fatalf("ValidateReaction(reach) = %v", err)
			}
		})
	}
}

func TestRonScoring(t *testing.T) {
	s := New(1)
	apply(t, s, startKyoku(0, tile.East, map[int]string{1: "2234455m234p234s"}))
	apply(t, s, event.Tsumo(0, tile.Unknown))
	c := apply(t, s, event.Dahai(0, tile.Man3, false))
	if !c.CanRonAgari {
		t.Fatalf("ron on 3m: %+v", c)
	}
	if !c.CanChiLow || !c.CanChiMid {
		t.Fatalf("chi options: %+v", c)
	}
	a, p, ok := s.Agari(true, tile.Man3, nil)
	if !ok {
		t.Fatal("Agari failed")
	}
	if a.Fu != 40 || a.Han != 4 || a.Yakuman != 0 {
		t.Fatalf("agari = %+v (%s)", a, a.Yakus)
	}
	if p.Ron != 8000 {
		t.Fatalf("ron = %d", p.Ron)
	}
	hora, ok := s.HoraEvent()
	if !ok || hora.Target != 0 {
		t.Fatalf("HoraEvent = %s", hora)
	}
	if err := s.ValidateReaction(&hora); err != nil {
		t.Fatalf("ValidateReaction(hora): %v", err)
	}
}

func TestAnkanAfterRiichiKeepsWaits(t *testing.T) {
	s := riichiSetup(t, "12345m567s11222z")
	for seat := 1; seat <= 3; seat++ {
		apply(t, s, passTurn(seat, "9m")...)
	}
	c := apply(t, s, event.Tsumo(0, tile.South))
	if !c.CanAnkan {
		t.Fatalf("ankan S after riichi should be legal: %+v", c)
	}
	evs := s.AnkanEvents()
	if len(evs) != 1 {
		t.Fatalf("AnkanEvents = %v", evs)
	}
	if err := s.ValidateReaction(&evs[0]); err != nil {
		t.Fatalf("ValidateReaction(ankan): %v", err)
	}
	apply(t, s, evs[0], event.Dora(tile.West))
	if s.Phase() != AwaitingDraw || len(s.Melds()) != 1 || s.KansTotal() != 1 {
		t.Fatalf("after ankan: phase %s melds %v", s.Phase(), s.Melds())
	}
	if w := s.Waits(); !w[tile.Man3] || !w[tile.Man6] {
		t.Fatalf("waits changed after ankan: %v", w)
	}
	c = apply(t, s, event.Tsumo(0, tile.Man6))
	if !c.CanTsumoAgari {
		t.Fatalf("rinshan tsumo: %+v", c)
	}
	a, _, ok := s.Agari(false, tile.Man6, []tile.Tile{tile.Man9})
	if !ok || !a.Yakus.Has(agari.YakuRinshan) {
		t.Fatalf("agari = %+v ok=%v", a, ok)
	}
}

func TestInvalidTransitions(t *testing.T) {
	s := New(0)
	if _, err := s.Update(ptr(event.Tsumo(0, tile.Man1))); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("tsumo before start_kyoku: %v", err)
	}
	apply(t, s, startKyoku(0, tile.North, map[int]string{0: "123m456p789s1122z"}))
	apply(t, s, event.Tsumo(0, tile.Man1))
	if _, err := s.Update(ptr(event.Tsumo(0, tile.Man2))); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("double tsumo: %v", err)
	}

	s = New(0)
	apply(t, s, startKyoku(0, tile.North, map[int]string{0: "123m456p789s1122z"}))
	apply(t, s, event.Tsumo(0, tile.Man1))
	if _, err := s.Update(ptr(event.Dahai(0, tile.Red, false))); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("discard not held: %v", err)
	}
}

func TestValidateReactionRejectsOutOfTurn(t *testing.T) {
	s := New(3)
	apply(t, s, startKyoku(0, tile.North, map[int]string{3: "123m456p789s1122z"}))
	apply(t, s, event.Tsumo(0, tile.Unknown))
	cases := []event.Event{
		event.Dahai(3, tile.Man1, false),
		event.Dahai(0, tile.Man1, false),
		event.Reach(3),
		event.Hora(3, 3),
		event.Ryukyoku(3),
	}
	for i := range cases {
		if err := s.ValidateReaction(&cases[i]); !errors.Is(err, ErrIllegalAction) {
			t.Errorf("%s: err = %v", cases[i], err)
		}
	}
	if err := s.ValidateReaction(ptr(event.None())); err != nil {
		t.Errorf("pass: %v", err)
	}
}

func TestPaoOnThirdDragon(t *testing.T) {
	s := New(0)
	s.countPao(tile.White, 1)
	s.countPao(tile.Green, -1)
	if s.PaoSeat() != -1 {
		t.Fatal("pao set too early")
	}
	s.countPao(tile.Red, 2)
	if s.PaoSeat() != 2 {
		t.Fatalf("pao seat = %d", s.PaoSeat())
	}
}

func TestLegalMask(t *testing.T) {
	s := New(0)
	apply(t, s, startKyoku(0, tile.North, map[int]string{0: "123m406p789s1122z"}))
	apply(t, s, event.Tsumo(0, tile.Pin9))
	m := s.LegalMask()
	if !m[tile.Pin5Red] || m[tile.Pin5] || !m[tile.Pin9] || !m[MaskRiichi] {
		t.Fatalf("mask = %v", m)
	}
	if m[MaskPass] || m[MaskHora] {
		t.Fatalf("mask = %v", m)
	}
}

func TestStrictInvariantsPanics(t *testing.T) {
	s := New(0)
	apply(t, s, startKyoku(0, tile.North, map[int]string{0: "123m456p789s1122z"}))
	s.shanten = 3
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on shanten mismatch")
		}
	}()
	s.checkShanten()
}
