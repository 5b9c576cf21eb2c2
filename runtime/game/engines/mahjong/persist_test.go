package mahjong

import (
	"context"
	"encoding/json"
	"testing"

	"gomahjong/core/domain/entity"
	"gomahjong/core/infrastructure/persistence"
	"gomahjong/runtime/game/engines/mahjong/event"
	"gomahjong/runtime/game/engines/mahjong/state"
)

// winOrTsumogiri 能和就和，否则摸切
var winOrTsumogiri = ReactorFunc(func(st *state.PlayerState) (event.Event, error) {
	if ev, ok := st.HoraEvent(); ok {
		return ev, nil
	}
	return TsumogiriAgent{}.React(st)
})

func TestGamePersisterRecordsKyoku(t *testing.T) {
	ctx := context.Background()
	reactors := [4]Reactor{winOrTsumogiri, winOrTsumogiri, winOrTsumogiri, winOrTsumogiri}
	g := NewGame(GameConfig{Nonce: 1, Key: 2}, reactors)
	res, err := g.RunKyoku(ctx, multiRonBoard(t))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	repo := persistence.NewMemoryRecordRepository()
	gp := NewGamePersister(repo, g, [4]string{"script", "script", "script", "script"})
	if err := gp.RecordKyoku(res); err != nil {
		t.Fatalf("record: %v", err)
	}
	g.advance(res)
	final := g.finish()
	if err := gp.FinalizeGame(ctx, final); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if err := gp.FinalizeGame(ctx, final); err != nil {
		t.Fatalf("重复 finalize 应当忽略: %v", err)
	}

	rec, err := repo.FindGameRecord(ctx, g.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if rec.Status != entity.StatusCompleted || rec.RoundCount != 1 || rec.ID != gp.GetGameRecordID() {
		t.Fatalf("对局记录: %+v", rec)
	}
	wantOrder := []int{1, 3, 2, 0}
	for i, r := range rec.FinalResult.Rankings {
		if r.SeatIndex != wantOrder[i] || r.Rank != i+1 {
			t.Fatalf("排名 %d: %+v", i, r)
		}
	}

	rounds, _ := repo.FindRoundRecords(ctx, rec.ID)
	if len(rounds) != 1 {
		t.Fatalf("局记录 %d", len(rounds))
	}
	round := rounds[0]
	if round.RoundWind != "E" || round.DealerIndex != 0 || round.Honba != 1 || round.Kyotaku != 1 {
		t.Fatalf("局信息: %+v", round)
	}
	rr := round.RoundResult
	if rr.EndType != entity.EndTypeRon || len(rr.Claims) != 3 || rr.Delta != res.Deltas {
		t.Fatalf("结算: %+v", rr)
	}
	if rr.Claims[0].WinnerSeat != 1 || rr.Claims[0].Points != 2600 || len(rr.Claims[0].Yaku) == 0 {
		t.Fatalf("第一个和了: %+v", rr.Claims[0])
	}

	events := make([]event.Event, len(round.Events))
	for i, line := range round.Events {
		if err := json.Unmarshal([]byte(line), &events[i]); err != nil {
			t.Fatalf("第 %d 行: %v", i, err)
		}
	}
	if err := ReplayValidate(events); err != nil {
		t.Fatalf("保存的事件流无法重放: %v", err)
	}
}

func TestGamePersisterAbort(t *testing.T) {
	ctx := context.Background()
	var reactors [4]Reactor
	g := NewGame(GameConfig{}, reactors)
	repo := persistence.NewMemoryRecordRepository()
	gp := NewGamePersister(repo, g, [4]string{})
	if err := gp.AbortGame(ctx); err != nil {
		t.Fatalf("abort: %v", err)
	}
	rec, err := repo.FindGameRecord(ctx, g.ID)
	if err != nil || rec.Status != entity.StatusAborted || rec.RoundCount != 0 {
		t.Fatalf("中止记录: %+v %v", rec, err)
	}
}
