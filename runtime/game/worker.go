package game

import (
	"context"
	"fmt"
	"sync/atomic"

	"gomahjong/common/log"
	"gomahjong/core/domain/entity"
	"gomahjong/core/domain/repository"
	"gomahjong/core/infrastructure/message/node"
	"gomahjong/core/infrastructure/message/transfer"
	fmahjong "gomahjong/framework/game/engines/mahjong"
	"gomahjong/runtime/game/engines/mahjong"

	"golang.org/x/sync/errgroup"
)

/*
	自对局 Worker
	1.按种子并发打 N 场，第 i 场的牌山由 (seed, i, 局, 本场) 决定，可以复现
	2.每局结束后校验事件流（strict），写入仓储，发布到 nats
	3.对局计数交给 Monitor 采样
*/

const (
	AgentRule      = "rule"
	AgentTsumogiri = "tsumogiri"
)

// Stats 对局计数快照
type Stats struct {
	Running int64
	Games   int64
	Failed  int64
	Kyokus  int64
	Horas   int64
}

type WorkerConfig struct {
	Seed    uint64
	Games   int
	Workers int
	Agents  [4]string
	Strict  bool
	Subject string // nats 主题前缀
}

type Worker struct {
	cfg       WorkerConfig
	Searcher  *fmahjong.Searcher
	Repo      repository.GameRecordRepository // 为 nil 时不保存
	Publisher node.Publisher                  // 为 nil 时不发布

	running atomic.Int64
	games   atomic.Int64
	failed  atomic.Int64
	kyokus  atomic.Int64
	horas   atomic.Int64
}

func NewWorker(cfg WorkerConfig, searcher *fmahjong.Searcher, repo repository.GameRecordRepository, pub node.Publisher) (*Worker, error) {
	if cfg.Games <= 0 || cfg.Workers <= 0 {
		return nil, fmt.Errorf("对局数与并发数必须为正数: games=%d workers=%d", cfg.Games, cfg.Workers)
	}
	if searcher == nil {
		searcher = fmahjong.NewSearcher(nil)
	}
	w := &Worker{cfg: cfg, Searcher: searcher, Repo: repo, Publisher: pub}
	if _, err := w.reactors(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Worker) reactors() ([4]mahjong.Reactor, error) {
	var out [4]mahjong.Reactor
	for seat, name := range w.cfg.Agents {
		switch name {
		case AgentRule, "":
			out[seat] = mahjong.NewRuleAgent(w.Searcher)
		case AgentTsumogiri:
			out[seat] = mahjong.TsumogiriAgent{}
		default:
			return out, fmt.Errorf("未知的 AI 类型: seat %d %q", seat, name)
		}
	}
	return out, nil
}

func (w *Worker) Stats() Stats {
	return Stats{
		Running: w.running.Load(),
		Games:   w.games.Load(),
		Failed:  w.failed.Load(),
		Kyokus:  w.kyokus.Load(),
		Horas:   w.horas.Load(),
	}
}

// Run 打完全部对局，任一场出错即取消其余对局。返回的切片按场次排列，出错的场为 nil
func (w *Worker) Run(ctx context.Context) ([]*mahjong.GameResult, error) {
	results := make([]*mahjong.GameResult, w.cfg.Games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.cfg.Workers)
	for i := 0; i < w.cfg.Games; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := w.playGame(ctx, i)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	err := g.Wait()
	return results, err
}

func (w *Worker) playGame(ctx context.Context, i int) (*mahjong.GameResult, error) {
	reactors, err := w.reactors()
	if err != nil {
		return nil, err
	}
	var names [4]string
	for seat, agent := range w.cfg.Agents {
		if agent == "" {
			agent = AgentRule
		}
		names[seat] = fmt.Sprintf("%s-%d", agent, seat)
	}
	game := mahjong.NewGame(mahjong.GameConfig{Nonce: w.cfg.Seed, Key: uint64(i), Names: names}, reactors)
	var persister *mahjong.GamePersister
	if w.Repo != nil {
		persister = mahjong.NewGamePersister(w.Repo, game, w.cfg.Agents)
	}

	w.running.Add(1)
	defer w.running.Add(-1)
	log.Debug("第 %d 场开始: game=%s", i, game.ID)

	res, err := game.Run(ctx)
	if err != nil {
		w.failed.Add(1)
		if persister != nil {
			for _, k := range game.Results() {
				_ = persister.RecordKyoku(k)
			}
			if aerr := persister.AbortGame(context.WithoutCancel(ctx)); aerr != nil {
				log.Warn("保存中止的对局失败: %v", aerr)
			}
		}
		return nil, fmt.Errorf("第 %d 场: %w", i, err)
	}

	for seq, k := range res.Kyokus {
		if w.cfg.Strict {
			if err := mahjong.ReplayValidate(k.Events); err != nil {
				w.failed.Add(1)
				return nil, fmt.Errorf("第 %d 场第 %d 局重放失败: %w", i, seq, err)
			}
		}
		w.kyokus.Add(1)
		if k.HasHora {
			w.horas.Add(1)
		}
		if persister != nil {
			if err := persister.RecordKyoku(k); err != nil {
				return nil, err
			}
		}
		w.publishKyoku(res.ID, seq, k)
	}
	if persister != nil {
		if err := persister.FinalizeGame(ctx, res); err != nil {
			return nil, err
		}
	}
	w.publishGame(res)
	w.games.Add(1)
	log.Info("第 %d 场结束: game=%s, kyokus=%d, scores=%v, ranks=%v", i, res.ID, len(res.Kyokus), res.Scores, res.Ranks)
	return res, nil
}

func (w *Worker) publishKyoku(gameID string, seq int, k *mahjong.KyokuResult) {
	if w.Publisher == nil {
		return
	}
	lines := make([]string, 0, len(k.Events))
	for i := range k.Events {
		b, err := k.Events[i].MarshalJSON()
		if err != nil {
			log.Warn("事件序列化失败: %v", err)
			return
		}
		lines = append(lines, string(b))
	}
	endType := entity.EndTypeDraw
	for _, h := range k.Hora {
		endType = entity.EndTypeRon
		if h.Actor == h.Target {
			endType = entity.EndTypeTsumo
		}
	}
	packet := &transfer.KyokuPacket{
		GameID:  gameID,
		Seq:     seq,
		Kyoku:   k.Kyoku,
		Honba:   k.Honba,
		Deltas:  k.Deltas,
		Scores:  k.Scores,
		EndType: endType,
		Events:  lines,
	}
	if err := node.PublishJSON(w.Publisher, transfer.Subject(w.cfg.Subject, transfer.KyokuRoute), packet); err != nil {
		log.Warn("发布局记录失败: game=%s seq=%d: %v", gameID, seq, err)
	}
}

func (w *Worker) publishGame(res *mahjong.GameResult) {
	if w.Publisher == nil {
		return
	}
	packet := &transfer.GamePacket{
		GameID: res.ID,
		Names:  res.Names,
		Scores: res.Scores,
		Ranks:  res.Ranks,
		Kyokus: len(res.Kyokus),
	}
	if err := node.PublishJSON(w.Publisher, transfer.Subject(w.cfg.Subject, transfer.GameRoute), packet); err != nil {
		log.Warn("发布对局结果失败: game=%s: %v", res.ID, err)
	}
}
