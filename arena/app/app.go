package app

import (
	"context"
	"fmt"

	"gomahjong/common/config"
	"gomahjong/common/log"
	coreapp "gomahjong/core/app"
	"gomahjong/core/container"
	"gomahjong/runtime/game/engines/mahjong/state"
)

// Run 创建容器，打完配置中的全部对局后退出
func Run(ctx context.Context, conf *config.Config) error {
	// strict 模式下同时打开增量向听数的完整重算校验
	state.StrictInvariants = conf.Arena.Strict
	ac, err := container.NewArenaContainer(ctx, conf)
	if err != nil {
		return fmt.Errorf("arena 容器初始化失败: %w", err)
	}
	defer ac.Close()

	config.OnChange(func(next *config.Config) {
		log.SetLevel(next.Log.Level)
		log.Info("配置文件已更新, log.level=%s", next.Log.Level)
	})

	return coreapp.Run(ctx, func(ctx context.Context) error {
		go ac.Monitor.Start(ctx)
		log.Info("arena 启动: seed=%d, games=%d, workers=%d, agents=%v",
			conf.Arena.Seed, conf.Arena.Games, conf.Arena.Workers, conf.Arena.Agents)

		results, err := ac.Worker.Run(ctx)
		if err != nil {
			return err
		}
		var wins [4]int
		for _, res := range results {
			for seat, rank := range res.Ranks {
				if rank == 1 {
					wins[seat]++
				}
			}
		}
		log.Info("全部对局结束: %s, 各座位一位次数=%v", ac.Monitor.CollectLoadInfo(), wins)
		return nil
	})
}
