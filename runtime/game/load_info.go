package game

import "fmt"

// LoadInfo 一次采样的负载信息
type LoadInfo struct {
	RunningGames  int64   // 正在进行的对局数
	FinishedGames int64   // 已结束的对局数
	FailedGames   int64   // 出错的对局数
	Kyokus        int64   // 已结束的局数
	KyokuRate     float64 // 两次采样之间每秒结束的局数
	CPUUsage      float64 // 系统 CPU 使用率（0-100）
	MemUsage      float64 // 系统内存使用率（0-100）
	RSS           uint64  // 本进程常驻内存，字节
}

// CalculateLoad 综合负载评分，权重：CPU 60%、内存 40%
func (li *LoadInfo) CalculateLoad() float64 {
	return li.CPUUsage*0.6 + li.MemUsage*0.4
}

func (li *LoadInfo) String() string {
	return fmt.Sprintf("Load=%.2f, Running=%d, Games=%d, Failed=%d, Kyokus=%d, Kyoku/s=%.1f, CPU=%.2f%%, Mem=%.2f%%, RSS=%dMB",
		li.CalculateLoad(), li.RunningGames, li.FinishedGames, li.FailedGames, li.Kyokus, li.KyokuRate,
		li.CPUUsage, li.MemUsage, li.RSS>>20)
}
