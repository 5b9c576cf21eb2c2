package mahjong

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"gomahjong/common/log"
	"gomahjong/core/domain/entity"
	"gomahjong/core/domain/repository"
	"gomahjong/runtime/game/engines/mahjong/event"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GamePersister 对局持久化组件
// 每局结束时收集事件流与结算，整场结束后一次性写入仓储
type GamePersister struct {
	repo       repository.GameRecordRepository
	gameRecord *entity.GameRecord
	rounds     []*entity.RoundRecord
	mu         sync.Mutex
	closed     bool
}

func NewGamePersister(repo repository.GameRecordRepository, g *Game, agents [4]string) *GamePersister {
	players := make([]entity.PlayerInfo, 0, 4)
	for seat, p := range g.Players {
		players = append(players, entity.PlayerInfo{
			SeatIndex: seat,
			Name:      p.Name,
			Agent:     agents[seat],
		})
	}
	seed := fmt.Sprintf("%016x:%016x", g.cfg.Nonce, g.cfg.Key)
	return &GamePersister{
		repo:       repo,
		gameRecord: entity.NewGameRecord(g.ID, seed, players),
		rounds:     make([]*entity.RoundRecord, 0, 12),
	}
}

func (gp *GamePersister) GetGameRecordID() primitive.ObjectID {
	return gp.gameRecord.ID
}

// RecordKyoku 记录一局的事件流与结算
func (gp *GamePersister) RecordKyoku(res *KyokuResult) error {
	gp.mu.Lock()
	defer gp.mu.Unlock()
	if gp.closed {
		return nil
	}

	b := Board{Kyoku: res.Kyoku}
	round := entity.NewRoundRecord(gp.gameRecord.ID, len(gp.rounds), res.Kyoku, b.Bakaze().String(), b.Oya(), res.Honba, kyotakuBefore(res))
	for i := range res.Events {
		line, err := json.Marshal(res.Events[i])
		if err != nil {
			return fmt.Errorf("第 %d 条事件序列化失败: %w", i, err)
		}
		round.AddEvent(string(line))
	}
	round.CompleteRound(roundResult(res))
	gp.rounds = append(gp.rounds, round)
	return nil
}

// kyotakuBefore 开局时场上的供托
func kyotakuBefore(res *KyokuResult) int {
	for i := range res.Events {
		if res.Events[i].Type == event.TypeStartKyoku {
			return res.Events[i].Kyotaku
		}
	}
	return 0
}

func roundResult(res *KyokuResult) *entity.RoundResult {
	out := &entity.RoundResult{
		Delta:   res.Deltas,
		Points:  res.Scores,
		Tenpai:  res.Tenpai,
		Renchan: res.CanRenchan,
	}
	if !res.HasHora {
		out.EndType = entity.EndTypeDraw
		out.Reason = res.Ryukyoku.String()
		return out
	}
	out.EndType = entity.EndTypeRon
	oya := res.Kyoku % 4
	for _, h := range res.Hora {
		claim := entity.HuClaim{
			WinnerSeat: h.Actor,
			LoserSeat:  h.Target,
			WinTile:    h.Pai.String(),
			Han:        h.Agari.Han,
			Fu:         h.Agari.Fu,
			Yakuman:    h.Agari.Yakuman,
			Yaku:       h.Agari.Yakus.Names(),
			Points:     h.Point.Ron,
			PaoSeat:    h.Pao,
		}
		if h.Actor == h.Target {
			out.EndType = entity.EndTypeTsumo
			claim.Points = h.Point.TsumoTotal(h.Actor == oya)
		}
		out.Claims = append(out.Claims, claim)
	}
	return out
}

// FinalizeGame 整场结束，写入对局记录与全部局记录
func (gp *GamePersister) FinalizeGame(ctx context.Context, res *GameResult) error {
	gp.mu.Lock()
	if gp.closed {
		gp.mu.Unlock()
		return nil
	}
	gp.closed = true
	rounds := make([]*entity.RoundRecord, len(gp.rounds))
	copy(rounds, gp.rounds)
	gp.mu.Unlock()

	rankings := make([]entity.PlayerRanking, 4)
	for seat, p := range res.Players {
		rankings[res.Ranks[seat]-1] = entity.PlayerRanking{
			SeatIndex: seat,
			Name:      p.Name,
			Points:    res.Scores[seat],
			Rank:      res.Ranks[seat],
			Wins:      p.Wins,
			DealIns:   p.DealIns,
			Riichis:   p.Riichis,
		}
	}
	gp.gameRecord.CompleteGame(&entity.GameFinalResult{Rankings: rankings, Points: res.Scores}, len(rounds))
	return gp.save(ctx, rounds)
}

// AbortGame 对局出错时保存已经打完的局
func (gp *GamePersister) AbortGame(ctx context.Context) error {
	gp.mu.Lock()
	if gp.closed {
		gp.mu.Unlock()
		return nil
	}
	gp.closed = true
	rounds := make([]*entity.RoundRecord, len(gp.rounds))
	copy(rounds, gp.rounds)
	gp.mu.Unlock()

	gp.gameRecord.AbortGame(len(rounds))
	return gp.save(ctx, rounds)
}

func (gp *GamePersister) save(ctx context.Context, rounds []*entity.RoundRecord) error {
	if err := gp.repo.SaveGameRecord(ctx, gp.gameRecord); err != nil {
		return fmt.Errorf("保存对局记录失败: %w", err)
	}
	if err := gp.repo.SaveRoundRecords(ctx, rounds); err != nil {
		return fmt.Errorf("批量保存局记录失败: %w", err)
	}
	log.Debug("对局记录保存成功: game=%s, status=%s, rounds=%d", gp.gameRecord.GameID, gp.gameRecord.Status, len(rounds))
	return nil
}
