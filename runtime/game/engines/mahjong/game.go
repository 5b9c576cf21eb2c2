package mahjong

import (
	"context"
	"fmt"
	"sort"

	"gomahjong/runtime/game/engines/mahjong/event"

	"github.com/google/uuid"
)

const (
	TargetPoint = 30000 // 南四局结束时有人达到才终局
	AllLast     = 7     // 南四局
	LastKyoku   = 11    // 西四局结束强制终局
)

type GameConfig struct {
	Nonce     uint64
	Key       uint64
	Names     [4]string
	InitPoint int
}

// GameResult 一场半庄的结果
type GameResult struct {
	ID      string
	Names   [4]string
	Scores  [4]int
	Ranks   [4]int
	Kyokus  []*KyokuResult
	Players [4]*PlayerImage
}

// Game 东南战，西入后有人达到 TargetPoint 即终局，有人被飞终局
type Game struct {
	ID      string
	cfg     GameConfig
	Players [4]*PlayerImage

	kyoku   int
	honba   int
	kyotaku int
	results []*KyokuResult
}

func NewGame(cfg GameConfig, reactors [4]Reactor) *Game {
	if cfg.InitPoint == 0 {
		cfg.InitPoint = DefaultInitPoint
	}
	g := &Game{ID: uuid.NewString(), cfg: cfg}
	for seat := range g.Players {
		name := cfg.Names[seat]
		if name == "" {
			name = fmt.Sprintf("seat%d", seat)
		}
		g.Players[seat] = NewPlayerImage(name, seat, cfg.InitPoint, reactors[seat])
	}
	return g
}

func (g *Game) scores() [4]int {
	var s [4]int
	for i, p := range g.Players {
		s[i] = p.Points
	}
	return s
}

// NextBoard 下一局的牌面
func (g *Game) NextBoard() *Board {
	b := NewBoardFromSeed(g.cfg.Nonce, g.cfg.Key, g.kyoku, g.honba)
	b.Kyotaku = g.kyotaku
	b.Scores = g.scores()
	return b
}

// Run 打完整场，任何一局出错都终止
func (g *Game) Run(ctx context.Context) (*GameResult, error) {
	for {
		res, err := g.RunKyoku(ctx, g.NextBoard())
		if err != nil {
			return nil, fmt.Errorf("game %s 第 %d 局 %d 本场: %w", g.ID, g.kyoku, g.honba, err)
		}
		if g.advance(res) {
			break
		}
	}
	return g.finish(), nil
}

// RunKyoku 用四家的 Reactor 推进一局
func (g *Game) RunKyoku(ctx context.Context, b *Board) (*KyokuResult, error) {
	var reactors [4]Reactor
	for i, p := range g.Players {
		reactors[i] = p.Reactor
	}
	return RunKyoku(ctx, b, reactors)
}

func RunKyoku(ctx context.Context, b *Board, reactors [4]Reactor) (*KyokuResult, error) {
	bs, err := b.Start()
	if err != nil {
		return nil, err
	}
	poll := bs.Poll()
	for !poll.Ended {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var reactions [4]event.Event
		for seat := range reactions {
			reactions[seat] = event.None()
			if !poll.Actors[seat] {
				continue
			}
			ev, err := reactors[seat].React(bs.PlayerState(seat))
			if err != nil {
				return nil, fmt.Errorf("seat %d reactor: %w", seat, err)
			}
			reactions[seat] = ev
		}
		if poll, err = bs.Step(reactions); err != nil {
			return nil, err
		}
	}
	res, _ := bs.Result()
	return res, nil
}

// advance 结算一局并决定下一局，返回是否终局
func (g *Game) advance(res *KyokuResult) bool {
	g.results = append(g.results, res)
	for i, p := range g.Players {
		p.Points = res.Scores[i]
		p.record(res)
	}
	g.kyotaku = res.Kyotaku

	oya := res.Kyoku % 4
	if res.CanRenchan {
		g.honba++
	} else {
		g.kyoku++
		if res.HasHora {
			g.honba = 0
		} else {
			g.honba++
		}
	}

	top, topSeat := -1<<31, -1
	for i, p := range g.Players {
		if p.Points < 0 {
			return true
		}
		if p.Points > top {
			top, topSeat = p.Points, i
		}
	}
	switch {
	case g.kyoku > LastKyoku:
		return true
	case res.Kyoku > AllLast:
		// 西入后不论是否连庄，有人达到目标点数即终局
		return top >= TargetPoint
	case res.Kyoku == AllLast && res.CanRenchan:
		// 南四局庄家连庄时，庄家是第一且达到目标点数则和了止め
		return top >= TargetPoint && topSeat == oya
	case g.kyoku > AllLast:
		return top >= TargetPoint
	}
	return false
}

// finish 排名按点数，同分时起家顺位优先；剩余供托归第一位
func (g *Game) finish() *GameResult {
	order := []int{0, 1, 2, 3}
	sort.SliceStable(order, func(i, j int) bool {
		return g.Players[order[i]].Points > g.Players[order[j]].Points
	})
	g.Players[order[0]].AddPoints(g.kyotaku * StickPoint)
	g.kyotaku = 0

	out := &GameResult{ID: g.ID, Kyokus: g.results, Players: g.Players}
	for rank, seat := range order {
		g.Players[seat].Rank = rank + 1
		out.Ranks[seat] = rank + 1
	}
	for i, p := range g.Players {
		out.Names[i] = p.Name
		out.Scores[i] = p.Points
	}
	return out
}

// Results 已结束的局
func (g *Game) Results() []*KyokuResult {
	return g.results
}
