package mahjong

import (
	"errors"
	"fmt"

	"gomahjong/framework/game/engines/mahjong/tile"
	"gomahjong/runtime/game/engines/mahjong/event"
	"gomahjong/runtime/game/engines/mahjong/state"
)

var (
	ErrBadBoard      = errors.New("bad board")
	ErrWallExhausted = errors.New("wall exhausted")
	ErrKyokuOver     = errors.New("kyoku already over")
	ErrOutOfTurn     = errors.New("reaction out of turn")
)

/*
	一局的推进：
		配牌后庄家摸牌，进入 TurnStateWaitMain，只有行动者需要反应
		行动者打牌、加杠、暗杠后，如果有人可以鸣牌或荣和，进入 TurnStateWaitReactions
		反应的优先级：荣和 > 明杠、碰 > 吃 > 跳过，可以多家同时荣和
	宝牌：
		暗杠立即翻开，明杠与加杠在岭上摸牌打出后翻开
	立直：
		宣言牌的反应窗口结束且无人荣和后才收取供托
	中途流局：
		四杠散了、四家立直、四风连打、九种九牌，点数不动，本场加一，连庄
*/

// BoardState 一局的进行状态，只由 Step 顺序修改
type BoardState struct {
	board  *Board
	states [4]*state.PlayerState
	cans   [4]state.ActionCandidate
	tm     TurnManager
	poll   Poll

	oya     int
	honba   int
	kyotaku int
	scores  [4]int

	yamaIdx      int
	rinshanIdx   int
	tilesLeft    int
	doraRevealed int
	needDora     bool

	lastTile      tile.Tile // 反应窗口中的牌
	riichiPending int       // 宣言牌尚未通过的立直者，-1 表示没有
	riichiCount   int
	kans          [4]int
	noCall        bool
	firstDiscards []tile.Tile
	tenpai        [4]bool // 荒牌时
	nagashi       [4]bool

	events []event.Event
	result *KyokuResult
	err    error
}

// Start 配牌并让庄家摸第一张牌
func (b *Board) Start() (*BoardState, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	bs := &BoardState{
		board:         b,
		oya:           b.Oya(),
		honba:         b.Honba,
		kyotaku:       b.Kyotaku,
		scores:        b.Scores,
		tilesLeft:     state.InitialTilesLeft,
		doraRevealed:  1,
		riichiPending: -1,
		noCall:        true,
	}
	for seat := range bs.states {
		bs.states[seat] = state.New(seat)
	}
	start := event.Event{
		Type:       event.TypeStartKyoku,
		Bakaze:     b.Bakaze(),
		DoraMarker: b.DoraIndicators[0],
		Kyoku:      b.Kyoku%4 + 1,
		Honba:      b.Honba,
		Kyotaku:    b.Kyotaku,
		Oya:        bs.oya,
		Scores:     b.Scores,
		Tehais:     b.Haipai,
	}
	if err := bs.broadcast(start); err != nil {
		return nil, err
	}
	if err := bs.pushDrawTile(bs.oya); err != nil {
		return nil, err
	}
	bs.refreshPoll()
	return bs, nil
}

func (bs *BoardState) Poll() Poll { return bs.poll }
func (bs *BoardState) TurnState() TurnState { return bs.tm.State }
func (bs *BoardState) TilesLeft() int { return bs.tilesLeft }
func (bs *BoardState) Scores() [4]int { return bs.scores }
func (bs *BoardState) Events() []event.Event { return bs.events }

// PlayerState 某一家的状态副本，调用方只能读取
func (bs *BoardState) PlayerState(seat int) *state.PlayerState {
	return bs.states[seat]
}

// Result 本局结束后的结算
func (bs *BoardState) Result() (*KyokuResult, bool) {
	return bs.result, bs.result != nil
}

// Step 提交四家的反应，不需要反应的座位提交 event.None()。
// 任何不合法的反应都是致命错误，之后的调用返回同一个错误
func (bs *BoardState) Step(reactions [4]event.Event) (Poll, error) {
	if bs.err != nil {
		return Poll{}, bs.err
	}
	if bs.tm.State == TurnStateOver {
		return bs.poll, ErrKyokuOver
	}
	err := bs.validateReactions(&reactions)
	if err == nil {
		switch bs.tm.State {
		case TurnStateWaitMain:
			err = bs.handleMain(&reactions[bs.tm.TurnPointer])
		case TurnStateWaitReactions:
			err = bs.handleReactions(&reactions)
		default:
			err = fmt.Errorf("%w: 阶段 %s 不能处理反应", ErrOutOfTurn, bs.tm.State)
		}
	}
	if err != nil {
		bs.err = err
		return Poll{}, err
	}
	bs.refreshPoll()
	return bs.poll, nil
}

func (bs *BoardState) validateReactions(reactions *[4]event.Event) error {
	for seat := range reactions {
		r := &reactions[seat]
		if !bs.poll.Actors[seat] {
			if r.Type != event.TypeNone {
				return fmt.Errorf("%w: seat %d 提交了 %s", ErrOutOfTurn, seat, r.Type)
			}
			continue
		}
		if err := bs.states[seat].ValidateReaction(r); err != nil {
			return fmt.Errorf("seat %d: %w", seat, err)
		}
	}
	return nil
}

func (bs *BoardState) refreshPoll() {
	bs.poll = Poll{}
	switch bs.tm.State {
	case TurnStateOver:
		bs.poll.Ended = true
	case TurnStateWaitMain:
		bs.poll.Actors[bs.tm.TurnPointer] = true
	case TurnStateWaitReactions:
		for seat, c := range bs.cans {
			if seat != bs.tm.TurnPointer && c.CanPass() {
				bs.poll.Actors[seat] = true
			}
		}
	}
}

// anyReaction 除行动者外是否有人可以反应
func (bs *BoardState) anyReaction() bool {
	for seat, c := range bs.cans {
		if seat != bs.tm.TurnPointer && c.CanPass() {
			return true
		}
	}
	return false
}

// handleMain 行动者的选择
func (bs *BoardState) handleMain(r *event.Event) error {
	actor := bs.tm.TurnPointer
	switch r.Type {
	case event.TypeHora:
		return bs.LeadTsumoEnding(actor)
	case event.TypeRyukyoku:
		return bs.LeadHalfwayDrawEnding(RyukyokuKyuushu)
	case event.TypeReach:
		bs.riichiPending = actor
		return bs.broadcast(*r)
	case event.TypeDahai:
		return bs.handleDropTile(r)
	case event.TypeAnkan:
		if err := bs.pushPendingDora(); err != nil {
			return err
		}
		bs.noCall = false
		bs.kans[actor]++
		bs.lastTile = r.Consumed[0].Deaka()
		if err := bs.broadcast(*r); err != nil {
			return err
		}
		if err := bs.pushDora(); err != nil {
			return err
		}
		if bs.anyReaction() {
			bs.tm.EnterReactingPhase(reactAnkan)
			return nil
		}
		return bs.pushRinshanTile(actor)
	case event.TypeKakan:
		if err := bs.pushPendingDora(); err != nil {
			return err
		}
		bs.noCall = false
		bs.kans[actor]++
		bs.lastTile = r.Pai
		if err := bs.broadcast(*r); err != nil {
			return err
		}
		bs.needDora = true
		if bs.anyReaction() {
			bs.tm.EnterReactingPhase(reactKakan)
			return nil
		}
		return bs.pushRinshanTile(actor)
	}
	return fmt.Errorf("%w: seat %d 在行动阶段提交了 %s", ErrOutOfTurn, actor, r.Type)
}

func (bs *BoardState) handleDropTile(r *event.Event) error {
	if err := bs.broadcast(*r); err != nil {
		return err
	}
	if bs.noCall && len(bs.firstDiscards) < 4 {
		bs.firstDiscards = append(bs.firstDiscards, r.Pai)
	}
	bs.lastTile = r.Pai
	if err := bs.pushPendingDora(); err != nil {
		return err
	}
	if bs.anyReaction() {
		bs.tm.EnterReactingPhase(reactDahai)
		return nil
	}
	var none [4]event.Event
	return bs.afterDiscard(&none)
}

// handleReactions 反应窗口结束：先荣和，其次鸣牌
func (bs *BoardState) handleReactions(reactions *[4]event.Event) error {
	actor := bs.tm.TurnPointer
	if winners := selectRonWinners(actor, reactions); len(winners) > 0 {
		return bs.LeadRonEnding(winners)
	}
	switch bs.tm.kind {
	case reactKakan, reactAnkan:
		return bs.pushRinshanTile(actor)
	}
	return bs.afterDiscard(reactions)
}

// afterDiscard 打牌无人荣和之后：立直成立、中途流局、鸣牌、荒牌或下家摸牌
func (bs *BoardState) afterDiscard(reactions *[4]event.Event) error {
	discarder := bs.tm.TurnPointer
	if bs.riichiPending >= 0 {
		seat := bs.riichiPending
		bs.riichiPending = -1
		bs.scores[seat] -= state.RiichiCost
		bs.kyotaku++
		bs.riichiCount++
		if err := bs.broadcast(event.ReachAccepted(seat)); err != nil {
			return err
		}
	}
	if reason, ok := bs.checkHalfwayDraw(); ok {
		return bs.LeadHalfwayDrawEnding(reason)
	}

	if call, ok := selectBestReaction(discarder, reactions); ok {
		bs.noCall = false
		if err := bs.broadcast(*call); err != nil {
			return err
		}
		if call.Type == event.TypeDaiminkan {
			bs.kans[call.Actor]++
			bs.needDora = true
			return bs.pushRinshanTile(call.Actor)
		}
		bs.tm.EnterDropPhase(call.Actor)
		return nil
	}

	if bs.tilesLeft == 0 {
		return bs.LeadNormalDrawEnding()
	}
	return bs.pushDrawTile(bs.tm.NextTurn())
}
