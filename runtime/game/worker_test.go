package game

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"gomahjong/core/infrastructure/message/transfer"
	"gomahjong/core/infrastructure/persistence"
)

type fakePublisher struct {
	mu       sync.Mutex
	subjects []string
	kyokus   []transfer.KyokuPacket
}

func (p *fakePublisher) Publish(subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	if strings.HasSuffix(subject, transfer.KyokuRoute) {
		var k transfer.KyokuPacket
		if err := json.Unmarshal(data, &k); err != nil {
			return err
		}
		p.kyokus = append(p.kyokus, k)
	}
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func TestWorkerRun(t *testing.T) {
	repo := persistence.NewMemoryRecordRepository()
	pub := &fakePublisher{}
	cfg := WorkerConfig{
		Seed:    7,
		Games:   2,
		Workers: 2,
		Agents:  [4]string{AgentRule, AgentTsumogiri, AgentRule, AgentTsumogiri},
		Strict:  true,
		Subject: "test",
	}
	w, err := NewWorker(cfg, nil, repo, pub)
	if err != nil {
		t.Fatalf("new worker: %v", err)
	}
	results, err := w.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	kyokus := 0
	for i, res := range results {
		if res == nil {
			t.Fatalf("第 %d 场没有结果", i)
		}
		kyokus += len(res.Kyokus)
		if res.Names[1] != "tsumogiri-1" {
			t.Fatalf("名字 %v", res.Names)
		}
	}
	if results[0].ID == results[1].ID {
		t.Fatalf("对局 id 重复")
	}
	if repo.Len() != 2 {
		t.Fatalf("保存了 %d 场", repo.Len())
	}
	stats := w.Stats()
	if stats.Games != 2 || stats.Kyokus != int64(kyokus) || stats.Running != 0 || stats.Failed != 0 {
		t.Fatalf("stats %+v, kyokus %d", stats, kyokus)
	}
	if len(pub.kyokus) != kyokus || len(pub.subjects) != kyokus+2 {
		t.Fatalf("发布了 %d 条局记录，共 %d 条", len(pub.kyokus), len(pub.subjects))
	}
	for _, k := range pub.kyokus {
		if len(k.Events) == 0 || !strings.Contains(k.Events[0], "start_kyoku") {
			t.Fatalf("局记录事件流: %v", k.Events)
		}
	}
	if pub.subjects[0] != "test.kyoku" && pub.subjects[0] != "test.game.end" {
		t.Fatalf("主题 %s", pub.subjects[0])
	}
}

func TestWorkerSameSeedSameGames(t *testing.T) {
	cfg := WorkerConfig{Seed: 3, Games: 1, Workers: 1, Agents: [4]string{AgentRule, AgentRule, AgentRule, AgentRule}}
	run := func() [4]int {
		w, err := NewWorker(cfg, nil, nil, nil)
		if err != nil {
			t.Fatalf("new worker: %v", err)
		}
		res, err := w.Run(context.Background())
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		return res[0].Scores
	}
	if a, b := run(), run(); a != b {
		t.Fatalf("同一种子结果不同: %v %v", a, b)
	}
}

func TestNewWorkerRejectsUnknownAgent(t *testing.T) {
	cfg := WorkerConfig{Games: 1, Workers: 1, Agents: [4]string{"rule", "human", "rule", "rule"}}
	if _, err := NewWorker(cfg, nil, nil, nil); err == nil {
		t.Fatalf("未知 AI 应当报错")
	}
	cfg.Agents[1] = AgentRule
	cfg.Games = 0
	if _, err := NewWorker(cfg, nil, nil, nil); err == nil {
		t.Fatalf("对局数为 0 应当报错")
	}
}

type fixedStats Stats

func (f fixedStats) Stats() Stats { return Stats(f) }

func TestMonitorCollectLoadInfo(t *testing.T) {
	m := NewMonitor(fixedStats{Running: 1, Games: 3, Kyokus: 30}, 0)
	info := m.CollectLoadInfo()
	if info.RunningGames != 1 || info.FinishedGames != 3 || info.Kyokus != 30 {
		t.Fatalf("采样 %+v", info)
	}
	if info.KyokuRate <= 0 {
		t.Fatalf("首次采样应有吞吐: %+v", info)
	}
	if info.CPUUsage < 0 || info.MemUsage < 0 || info.MemUsage > 100 {
		t.Fatalf("负载 %+v", info)
	}
	m.Stop()
	m.Stop()
}
