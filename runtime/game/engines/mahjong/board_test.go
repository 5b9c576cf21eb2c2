package mahjong

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"gomahjong/framework/game/engines/mahjong/tile"
	"gomahjong/runtime/game/engines/mahjong/event"
	"gomahjong/runtime/game/engines/mahjong/state"
)

// customBoard 指定配牌、牌山开头与宝牌指示牌，其余牌按牌序补齐
func customBoard(t *testing.T, hands [4]string, yamaHead, dora string) *Board {
	t.Helper()
	return customBoardRinshan(t, hands, yamaHead, "", dora)
}

// customBoardRinshan 同 customBoard，另外指定岭上牌开头
func customBoardRinshan(t *testing.T, hands [4]string, yamaHead, rinshanHead, dora string) *Board {
	t.Helper()
	var pool [tile.Count]int
	for k := tile.Tile(0); k < tile.KindCount; k++ {
		pool[k] = 4
		if !k.IsJihai() && k.Rank() == 5 {
			pool[k] = 3
			pool[k.Akaize()] = 1
		}
	}
	take := func(tt tile.Tile) {
		if pool[tt] == 0 {
			t.Fatalf("%s 超过一副牌的数量", tt)
		}
		pool[tt]--
	}

	b := &Board{}
	for i := range b.Scores {
		b.Scores[i] = DefaultInitPoint
	}
	for seat, h := range hands {
		ts := tile.MustParseTiles(h)
		if len(ts) != HaipaiSize {
			t.Fatalf("seat %d 配牌 %d 张", seat, len(ts))
		}
		for i, tt := range ts {
			take(tt)
			b.Haipai[seat][i] = tt
		}
	}
	d := tile.MustParse(dora)
	take(d)
	b.DoraIndicators[0] = d
	head := tile.MustParseTiles(yamaHead)
	for i, tt := range head {
		take(tt)
		b.Yama[i] = tt
	}
	rinshan := tile.MustParseTiles(rinshanHead)
	for i, tt := range rinshan {
		take(tt)
		b.Rinshan[i] = tt
	}

	var rest []tile.Tile
	for tt := tile.Tile(0); tt < tile.Unknown; tt++ {
		for ; pool[tt] > 0; pool[tt]-- {
			rest = append(rest, tt)
		}
	}
	n := copy(b.Yama[len(head):], rest)
	rest = rest[n:]
	n = copy(b.Rinshan[len(rinshan):], rest)
	rest = rest[n:]
	n = copy(b.DoraIndicators[1:], rest)
	rest = rest[n:]
	copy(b.UraIndicators[:], rest)
	if err := b.Validate(); err != nil {
		t.Fatalf("构造的牌面不完整: %v", err)
	}
	return b
}

func only(seat int, ev event.Event) [4]event.Event {
	r := [4]event.Event{event.None(), event.None(), event.None(), event.None()}
	r[seat] = ev
	return r
}

func mustStart(t *testing.T, b *Board) *BoardState {
	t.Helper()
	bs, err := b.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	return bs
}

func mustStep(t *testing.T, bs *BoardState, r [4]event.Event) Poll {
	t.Helper()
	poll, err := bs.Step(r)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	return poll
}

// arrangeWall 重排配牌以外的牌：yaochuu(i) 为真的牌山位置放幺九牌，其余位置先放中张
func arrangeWall(t *testing.T, b *Board, yaochuu func(i int) bool) {
	t.Helper()
	var yao, simple []tile.Tile
	collect := func(ts []tile.Tile) {
		for _, tt := range ts {
			if tt.IsYaokyuu() {
				yao = append(yao, tt)
			} else {
				simple = append(simple, tt)
			}
		}
	}
	collect(b.Yama[:])
	collect(b.Rinshan[:])
	collect(b.DoraIndicators[1:])
	collect(b.UraIndicators[:])
	pop := func(from *[]tile.Tile) tile.Tile {
		tt := (*from)[0]
		*from = (*from)[1:]
		return tt
	}
	for i := range b.Yama {
		switch {
		case yaochuu(i):
			if len(yao) == 0 {
				t.Fatalf("牌山位置 %d 没有幺九牌可放", i)
			}
			b.Yama[i] = pop(&yao)
		case len(simple) > 0:
			b.Yama[i] = pop(&simple)
		default:
			b.Yama[i] = pop(&yao)
		}
	}
	rest := append(simple, yao...)
	n := copy(b.Rinshan[:], rest)
	rest = rest[n:]
	n = copy(b.DoraIndicators[1:], rest)
	rest = rest[n:]
	copy(b.UraIndicators[:], rest)
	if err := b.Validate(); err != nil {
		t.Fatalf("重排后的牌面不完整: %v", err)
	}
}

// skipReactions 反应窗口里所有人跳过
func skipReactions(t *testing.T, bs *BoardState) {
	t.Helper()
	for bs.TurnState() == TurnStateWaitReactions {
		mustStep(t, bs, only(0, event.None()))
	}
}

// discard 轮到的一家打出 code，摸切自动判断
func discard(t *testing.T, bs *BoardState, seat int, code string) Poll {
	t.Helper()
	if !bs.Poll().Actors[seat] || bs.TurnState() != TurnStateWaitMain {
		t.Fatalf("没有轮到 seat %d 打牌", seat)
	}
	return mustStep(t, bs, only(seat, bs.PlayerState(seat).DahaiEvent(tile.MustParse(code))))
}

// replayJSONL 经过 JSONL 往返后再校验
func replayJSONL(t *testing.T, events []event.Event) []event.Event {
	t.Helper()
	var buf bytes.Buffer
	if err := event.WriteJSONL(&buf, events); err != nil {
		t.Fatalf("jsonl: %v", err)
	}
	back, err := event.ReadJSONL(&buf)
	if err != nil {
		t.Fatalf("read jsonl: %v", err)
	}
	if len(back) != len(events) {
		t.Fatalf("事件数 %d != %d", len(back), len(events))
	}
	if err := ReplayValidate(back); err != nil {
		t.Fatalf("replay: %v", err)
	}
	return back
}

func countType(events []event.Event, typ event.Type) int {
	n := 0
	for _, ev := range events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func TestNewBoardFromSeedDeterministic(t *testing.T) {
	a := NewBoardFromSeed(1, 2, 0, 0)
	b := NewBoardFromSeed(1, 2, 0, 0)
	if *a != *b {
		t.Fatalf("相同种子得到不同牌面")
	}
	if err := a.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	c := NewBoardFromSeed(1, 2, 0, 1)
	if a.Yama == c.Yama && a.Haipai == c.Haipai {
		t.Fatalf("本场不同牌面却相同")
	}
	d := NewBoardFromSeed(1, 3, 0, 0)
	if a.Yama == d.Yama {
		t.Fatalf("key 不同牌面却相同")
	}
}

func TestBoardWindAndOya(t *testing.T) {
	cases := []struct {
		kyoku  int
		oya    int
		bakaze tile.Tile
	}{
		{0, 0, tile.East},
		{3, 3, tile.East},
		{4, 0, tile.South},
		{9, 1, tile.West},
	}
	for _, c := range cases {
		b := &Board{Kyoku: c.kyoku}
		if b.Oya() != c.oya || b.Bakaze() != c.bakaze {
			t.Errorf("kyoku %d: oya=%d bakaze=%s", c.kyoku, b.Oya(), b.Bakaze())
		}
	}
}

// 庄家摸切 4p，三家同时荣和
func multiRonBoard(t *testing.T) *Board {
	b := customBoard(t, [4]string{
		"1357m2468p1359s9p",
		"123456789m11z35p",
		"234m567m678s55s23p",
		"56p999m222s777s44z",
	}, "4p", "E")
	b.Honba = 1
	b.Kyotaku = 1
	return b
}

func TestMultiRonSettlement(t *testing.T) {
	bs := mustStart(t, multiRonBoard(t))
	poll := mustStep(t, bs, only(0, event.Dahai(0, tile.MustParse("4p"), true)))
	for seat := 1; seat < 4; seat++ {
		if !poll.Actors[seat] {
			t.Fatalf("seat %d 应能反应", seat)
		}
	}
	var r [4]event.Event
	r[0] = event.None()
	for seat := 1; seat < 4; seat++ {
		r[seat] = event.Hora(seat, 0)
	}
	poll = mustStep(t, bs, r)
	if !poll.Ended {
		t.Fatalf("三家荣和后应结束")
	}
	res, ok := bs.Result()
	if !ok {
		t.Fatalf("没有结算")
	}
	if len(res.Hora) != 3 {
		t.Fatalf("hora 数 %d", len(res.Hora))
	}
	for i, h := range res.Hora {
		if h.Actor != i+1 || h.Target != 0 {
			t.Errorf("第 %d 个和了 actor=%d target=%d", i, h.Actor, h.Target)
		}
	}
	wantRon := [4]int{0, 2600, 2000, 3200}
	for _, h := range res.Hora {
		if h.Point.Ron != wantRon[h.Actor] {
			t.Errorf("seat %d ron %d, want %d", h.Actor, h.Point.Ron, wantRon[h.Actor])
		}
	}
	want := [4]int{-8100, 3900, 2000, 3200}
	if res.Deltas != want {
		t.Fatalf("deltas %v, want %v", res.Deltas, want)
	}
	if res.Kyotaku != 0 || res.CanRenchan || !res.HasHora {
		t.Fatalf("kyotaku=%d renchan=%v hora=%v", res.Kyotaku, res.CanRenchan, res.HasHora)
	}
	if n := countType(res.Events, event.TypeHora); n != 3 {
		t.Fatalf("hora 事件 %d 条", n)
	}
	if err := ReplayValidate(res.Events); err != nil {
		t.Fatalf("replay: %v", err)
	}
}

// 庄家双立直宣言牌 4p，下家可以荣和
func riichiBoard(t *testing.T) *Board {
	return customBoard(t, [4]string{
		"123456789m11z99s",
		"234m567m678s55s23p",
		"1357p2344s567z66z",
		"2468p13579s1234z",
	}, "4p", "9p")
}

func TestRonOnRiichiTileKeepsStick(t *testing.T) {
	bs := mustStart(t, riichiBoard(t))
	if !bs.PlayerState(0).Candidates().CanRiichi {
		t.Fatalf("庄家应能立直")
	}
	mustStep(t, bs, only(0, event.Reach(0)))
	poll := mustStep(t, bs, only(0, event.Dahai(0, tile.MustParse("4p"), true)))
	if poll.Waiting()[0] != 1 || len(poll.Waiting()) != 1 {
		t.Fatalf("只有下家可以反应, got %v", poll.Waiting())
	}
	mustStep(t, bs, only(1, event.Hora(1, 0)))
	res, _ := bs.Result()
	if countType(res.Events, event.TypeReachAccepted) != 0 {
		t.Fatalf("被荣和的立直不应成立")
	}
	want := [4]int{-2000, 2000, 0, 0}
	if res.Deltas != want || res.Kyotaku != 0 {
		t.Fatalf("deltas %v kyotaku %d", res.Deltas, res.Kyotaku)
	}
}

func TestRiichiAcceptedAfterReactions(t *testing.T) {
	bs := mustStart(t, riichiBoard(t))
	mustStep(t, bs, only(0, event.Reach(0)))
	mustStep(t, bs, only(0, event.Dahai(0, tile.MustParse("4p"), true)))
	if got := bs.Scores()[0]; got != DefaultInitPoint {
		t.Fatalf("反应前不应扣立直棒: %d", got)
	}
	poll := mustStep(t, bs, only(1, event.None()))
	if !poll.Actors[1] || bs.TurnState() != TurnStateWaitMain {
		t.Fatalf("应轮到下家摸牌, poll=%v", poll)
	}
	if got := bs.Scores()[0]; got != DefaultInitPoint-1000 {
		t.Fatalf("立直棒 %d", got)
	}
	for seat := 0; seat < 4; seat++ {
		st := bs.PlayerState(seat)
		if !st.RiichiAccepted(0) || st.Kyotaku() != 1 || st.Scores()[0] != DefaultInitPoint-1000 {
			t.Fatalf("seat %d 没有看到立直成立", seat)
		}
	}
	// 下家放过了 4p，同巡振听
	if !bs.PlayerState(1).AtFuriten() {
		t.Fatalf("放过荣和应振听")
	}
}

func TestIllegalReactionIsFatal(t *testing.T) {
	bs := mustStart(t, riichiBoard(t))
	_, err := bs.Step(only(0, event.Dahai(0, tile.MustParse("5p"), false)))
	if !errors.Is(err, state.ErrIllegalAction) {
		t.Fatalf("打出未持有的牌: %v", err)
	}
	if _, again := bs.Step(only(0, event.Dahai(0, tile.MustParse("4p"), true))); !errors.Is(again, state.ErrIllegalAction) {
		t.Fatalf("出错后应一直返回同一个错误: %v", again)
	}
}

func TestOutOfTurnReaction(t *testing.T) {
	bs := mustStart(t, riichiBoard(t))
	r := only(0, event.Dahai(0, tile.MustParse("4p"), true))
	r[2] = event.Dahai(2, tile.MustParse("1p"), false)
	if _, err := bs.Step(r); !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("别家抢先打牌: %v", err)
	}
}

func TestExhaustiveDrawReplays(t *testing.T) {
	var reactors [4]Reactor
	for i := range reactors {
		reactors[i] = TsumogiriAgent{}
	}
	res, err := RunKyoku(context.Background(), NewBoardFromSeed(7, 11, 0, 0), reactors)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.HasHora {
		t.Fatalf("摸切不会和了")
	}
	if res.Ryukyoku != RyukyokuExhaustive && res.Ryukyoku != RyukyokuFourWinds {
		t.Fatalf("流局类型 %s", res.Ryukyoku)
	}
	sum := 0
	for _, d := range res.Deltas {
		sum += d
	}
	if sum != 0 {
		t.Fatalf("流局点数不守恒: %v", res.Deltas)
	}
	if res.Ryukyoku == RyukyokuExhaustive && res.CanRenchan != res.Tenpai[0] {
		t.Fatalf("庄家听牌才连庄")
	}

	var buf bytes.Buffer
	if err := event.WriteJSONL(&buf, res.Events); err != nil {
		t.Fatalf("jsonl: %v", err)
	}
	events, err := event.ReadJSONL(&buf)
	if err != nil {
		t.Fatalf("read jsonl: %v", err)
	}
	if len(events) != len(res.Events) {
		t.Fatalf("事件数 %d != %d", len(events), len(res.Events))
	}
	if err := ReplayValidate(events); err != nil {
		t.Fatalf("replay: %v", err)
	}
}

func TestReplayRejectsTamperedLog(t *testing.T) {
	bs := mustStart(t, riichiBoard(t))
	mustStep(t, bs, only(0, event.Dahai(0, tile.MustParse("4p"), true)))
	events := append([]event.Event(nil), bs.Events()...)
	// 把庄家打出的牌改成手里没有的牌
	for i := range events {
		if events[i].Type == event.TypeDahai {
			events[i].Pai = tile.MustParse("7p")
		}
	}
	if err := ReplayValidate(events); !errors.Is(err, state.ErrIllegalAction) {
		t.Fatalf("篡改的日志应被拒绝: %v", err)
	}
}

func TestRuleAgentGame(t *testing.T) {
	agent := NewRuleAgent(nil)
	g := NewGame(GameConfig{Nonce: 2024, Key: 42}, [4]Reactor{agent, agent, agent, agent})
	res, err := g.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	total := 0
	var seen [5]bool
	for seat := 0; seat < 4; seat++ {
		total += res.Scores[seat]
		seen[res.Ranks[seat]] = true
	}
	if total != 4*DefaultInitPoint {
		t.Fatalf("终局点数合计 %d", total)
	}
	for rank := 1; rank <= 4; rank++ {
		if !seen[rank] {
			t.Fatalf("名次不完整 %v", res.Ranks)
		}
	}
	if len(res.Kyokus) < 8 {
		bust := false
		for _, s := range res.Scores {
			bust = bust || s < 0
		}
		if !bust {
			t.Fatalf("没有人被飞却只打了 %d 局", len(res.Kyokus))
		}
	}
	for i, k := range res.Kyokus {
		if err := ReplayValidate(k.Events); err != nil {
			t.Fatalf("第 %d 局 replay: %v", i, err)
		}
	}
}
