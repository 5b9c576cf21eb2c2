package mahjong

import (
	"fmt"

	"gomahjong/framework/game/engines/mahjong/agari"
	"gomahjong/framework/game/engines/mahjong/point"
	"gomahjong/framework/game/engines/mahjong/tile"
	"gomahjong/runtime/game/engines/mahjong/event"
	"gomahjong/runtime/game/engines/mahjong/state"
)

const (
	HonbaRon   = 300 // 荣和每本场
	HonbaTsumo = 100 // 自摸每本场每家
	StickPoint = 1000
	NotenTotal = 3000
)

type RyukyokuKind uint8

const (
	RyukyokuNone RyukyokuKind = iota
	RyukyokuExhaustive
	RyukyokuKyuushu
	RyukyokuFourRiichi
	RyukyokuFourKans
	RyukyokuFourWinds
)

func (k RyukyokuKind) String() string {
	switch k {
	case RyukyokuNone:
		return "none"
	case RyukyokuExhaustive:
		return "exhaustive"
	case RyukyokuKyuushu:
		return event.ReasonKyuushu
	case RyukyokuFourRiichi:
		return "suucha_riichi"
	case RyukyokuFourKans:
		return "suukaikan"
	case RyukyokuFourWinds:
		return "suufon_renda"
	}
	return fmt.Sprintf("RyukyokuKind(%d)", uint8(k))
}

// HoraResult 一家和了的结算
type HoraResult struct {
	Actor  int
	Target int // 自摸时等于 Actor
	Pai    tile.Tile
	Agari  agari.Agari
	Point  point.Point
	Deltas [4]int
	Pao    int // 包牌者，-1 表示没有
}

// KyokuResult 一局的结算。Kyotaku 为结算后留在场上的供托
type KyokuResult struct {
	Kyoku    int
	Honba    int
	Kyotaku  int
	Deltas   [4]int
	Scores   [4]int
	Hora     []HoraResult
	Ryukyoku RyukyokuKind
	Tenpai   [4]bool
	Nagashi  [4]bool

	CanRenchan  bool
	HasHora     bool
	HasAbortive bool

	Events []event.Event
}

// paoLiable 和了包含大三元或大四喜且有包牌者
func paoLiable(st *state.PlayerState, a *agari.Agari) int {
	if st.PaoSeat() < 0 {
		return -1
	}
	if a.Yakus.Has(agari.YakuDaisangen) || a.Yakus.Has(agari.YakuDaisuushii) {
		return st.PaoSeat()
	}
	return -1
}

// LeadTsumoEnding 自摸
func (bs *BoardState) LeadTsumoEnding(winner int) error {
	st := bs.states[winner]
	ura := bs.uraMarkers()
	a, p, ok := st.Agari(false, st.LastTsumo(), ura)
	if !ok {
		return fmt.Errorf("%w: seat %d 自摸无法成立", state.ErrIllegalAction, winner)
	}
	isOya := winner == bs.oya
	var delta [4]int
	pao := paoLiable(st, &a)
	if pao >= 0 {
		pay := p.TsumoTotal(isOya) + 3*HonbaTsumo*bs.honba
		delta[pao] -= pay
		delta[winner] += pay
	} else {
		for i := 0; i < 4; i++ {
			if i == winner {
				continue
			}
			pay := p.TsumoKo
			if isOya || i == bs.oya {
				pay = p.TsumoOya
			}
			pay += HonbaTsumo * bs.honba
			delta[i] -= pay
			delta[winner] += pay
		}
	}
	delta[winner] += bs.kyotaku * StickPoint
	bs.kyotaku = 0

	h := HoraResult{Actor: winner, Target: winner, Pai: st.LastTsumo(), Agari: a, Point: p, Deltas: delta, Pao: pao}
	if err := bs.pushHora(&h, st.SelfRiichi(), ura); err != nil {
		return err
	}
	return bs.finalizeRound([]HoraResult{h}, RyukyokuNone, isOya)
}

// LeadRonEnding 荣和，可以多家。本场与供托只给放铳者下家方向的第一位
func (bs *BoardState) LeadRonEnding(winners []int) error {
	target := bs.tm.TurnPointer
	ura := bs.uraMarkers()
	stickWinner := selectStickWinnerRonA(target, winners)
	renchan := false
	horas := make([]HoraResult, 0, len(winners))
	for _, w := range winners {
		st := bs.states[w]
		a, p, ok := st.Agari(true, bs.lastTile, ura)
		if !ok {
			return fmt.Errorf("%w: seat %d 荣和无法成立", state.ErrIllegalAction, w)
		}
		var delta [4]int
		bonus := 0
		if w == stickWinner {
			bonus = HonbaRon * bs.honba
		}
		pao := paoLiable(st, &a)
		if pao >= 0 && pao != target {
			half := p.Ron / 2
			delta[pao] -= half
			delta[target] -= p.Ron - half + bonus
		} else {
			delta[target] -= p.Ron + bonus
		}
		delta[w] += p.Ron + bonus
		if w == stickWinner {
			delta[w] += bs.kyotaku * StickPoint
			bs.kyotaku = 0
		}
		if w == bs.oya {
			renchan = true
		}
		horas = append(horas, HoraResult{Actor: w, Target: target, Pai: bs.lastTile, Agari: a, Point: p, Deltas: delta, Pao: pao})
	}
	// 先全部算完再推送，推送和了后状态即结束
	for i := range horas {
		if err := bs.pushHora(&horas[i], bs.states[horas[i].Actor].SelfRiichi(), ura); err != nil {
			return err
		}
	}
	return bs.finalizeRound(horas, RyukyokuNone, renchan)
}

// selectStickWinnerRonA 从放铳者开始逆时针最近的和了者
func selectStickWinnerRonA(loser int, winners []int) int {
	best, bestDist := -1, 5
	for _, w := range winners {
		d := (w - loser + 4) % 4
		if d == 0 {
			continue
		}
		if d < bestDist {
			bestDist, best = d, w
		}
	}
	return best
}

func (bs *BoardState) pushHora(h *HoraResult, riichi bool, ura []tile.Tile) error {
	ev := event.Hora(h.Actor, h.Target)
	ev.Deltas = h.Deltas
	ev.HasDeltas = true
	if riichi {
		ev.UraMarkers = ura
	}
	for i, d := range h.Deltas {
		bs.scores[i] += d
	}
	return bs.broadcast(ev)
}

// LeadNormalDrawEnding 荒牌流局：流局满贯优先，否则不听罚符
func (bs *BoardState) LeadNormalDrawEnding() error {
	var tenpai, nagashi [4]bool
	nTenpai, nNagashi := 0, 0
	for seat, st := range bs.states {
		if st.Shanten() == 0 {
			tenpai[seat] = true
			nTenpai++
		}
		if st.NagashiEligible(seat) {
			nagashi[seat] = true
			nNagashi++
		}
	}

	var pay [4]int
	switch {
	case nNagashi > 0:
		for seat, ok := range nagashi {
			if !ok {
				continue
			}
			for i := 0; i < 4; i++ {
				if i == seat {
					continue
				}
				v := 2000
				if seat == bs.oya || i == bs.oya {
					v = 4000
				}
				pay[i] -= v
				pay[seat] += v
			}
		}
	case nTenpai > 0 && nTenpai < 4:
		winEach := NotenTotal / nTenpai
		loseEach := NotenTotal / (4 - nTenpai)
		for seat, ok := range tenpai {
			if ok {
				pay[seat] += winEach
			} else {
				pay[seat] -= loseEach
			}
		}
	}

	ev := event.Event{Type: event.TypeRyukyoku, Reason: RyukyokuExhaustive.String(), Deltas: pay, HasDeltas: true}
	for i, d := range pay {
		bs.scores[i] += d
	}
	if err := bs.broadcast(ev); err != nil {
		return err
	}
	bs.tenpai, bs.nagashi = tenpai, nagashi
	return bs.finalizeRound(nil, RyukyokuExhaustive, tenpai[bs.oya])
}

// LeadHalfwayDrawEnding 中途流局，不动点数
func (bs *BoardState) LeadHalfwayDrawEnding(reason RyukyokuKind) error {
	ev := event.Event{Type: event.TypeRyukyoku, Reason: reason.String()}
	if reason == RyukyokuKyuushu {
		ev.Actor = bs.tm.TurnPointer
	}
	if err := bs.broadcast(ev); err != nil {
		return err
	}
	return bs.finalizeRound(nil, reason, true)
}

// finalizeRound 统一结算出口
func (bs *BoardState) finalizeRound(horas []HoraResult, reason RyukyokuKind, renchan bool) error {
	if err := bs.broadcast(event.Event{Type: event.TypeEndKyoku}); err != nil {
		return err
	}
	res := &KyokuResult{
		Kyoku:       bs.board.Kyoku,
		Honba:       bs.honba,
		Kyotaku:     bs.kyotaku,
		Scores:      bs.scores,
		Hora:        horas,
		Ryukyoku:    reason,
		Tenpai:      bs.tenpai,
		Nagashi:     bs.nagashi,
		CanRenchan:  renchan,
		HasHora:     len(horas) > 0,
		HasAbortive: reason != RyukyokuNone && reason != RyukyokuExhaustive,
		Events:      bs.events,
	}
	for i := range res.Deltas {
		res.Deltas[i] = bs.scores[i] - bs.board.Scores[i]
	}
	bs.result = res
	bs.tm.EnterOverPhase()
	return nil
}
