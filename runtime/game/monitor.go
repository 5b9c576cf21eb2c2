package game

import (
	"context"
	"os"
	"sync"
	"time"

	"gomahjong/common/log"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// StatsSource 提供对局计数
type StatsSource interface {
	Stats() Stats
}

// Monitor 定期采样对局吞吐与进程负载并写日志
type Monitor struct {
	source         StatsSource
	updateInterval time.Duration
	proc           *process.Process
	stopOnce       sync.Once
	stopCh         chan struct{}

	mu     sync.Mutex
	last   Stats
	lastAt time.Time
}

func NewMonitor(source StatsSource, updateInterval time.Duration) *Monitor {
	if updateInterval <= 0 {
		updateInterval = 5 * time.Second
	}
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Warn("Monitor 获取进程信息失败: %v", err)
	}
	return &Monitor{
		source:         source,
		updateInterval: updateInterval,
		proc:           proc,
		stopCh:         make(chan struct{}),
		lastAt:         time.Now(),
	}
}

// Start 阻塞直到 ctx 结束或 Stop
func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Monitor 收到停止信号，退出监控")
			return
		case <-m.stopCh:
			log.Info("Monitor 收到停止信号，退出监控")
			return
		case <-ticker.C:
			m.reportLoad()
		}
	}
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *Monitor) reportLoad() {
	info := m.CollectLoadInfo()
	log.Info("Monitor %s", info)
}

// CollectLoadInfo 采样一次，KyokuRate 相对上一次采样
func (m *Monitor) CollectLoadInfo() *LoadInfo {
	stats := m.source.Stats()
	now := time.Now()

	m.mu.Lock()
	elapsed := now.Sub(m.lastAt).Seconds()
	delta := stats.Kyokus - m.last.Kyokus
	m.last, m.lastAt = stats, now
	m.mu.Unlock()

	info := &LoadInfo{
		RunningGames:  stats.Running,
		FinishedGames: stats.Games,
		FailedGames:   stats.Failed,
		Kyokus:        stats.Kyokus,
	}
	if elapsed > 0 {
		info.KyokuRate = float64(delta) / elapsed
	}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		info.CPUUsage = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.MemUsage = vm.UsedPercent
	}
	if m.proc != nil {
		if mi, err := m.proc.MemoryInfo(); err == nil {
			info.RSS = mi.RSS
		}
	}
	return info
}
