package container

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gomahjong/common/cache"
	"gomahjong/common/config"
	"gomahjong/common/log"
	"gomahjong/core/infrastructure/message/node"
	fmahjong "gomahjong/framework/game/engines/mahjong"
	"gomahjong/runtime/game"
)

// ArenaContainer 自对局服务容器
type ArenaContainer struct {
	*BaseContainer
	Cache     *cache.GeneralCache
	Publisher *node.NatsPublisher
	Worker    *game.Worker
	Monitor   *game.Monitor
	closed    bool
	mu        sync.Mutex
}

// NewArenaContainer 依次创建缓存、数据库、nats、Worker 与 Monitor
func NewArenaContainer(ctx context.Context, conf *config.Config) (*ArenaContainer, error) {
	c, err := cache.NewGeneralCache(conf.Cache.MaxCost, time.Duration(conf.Cache.TtlSeconds)*time.Second)
	if err != nil {
		return nil, err
	}
	base, err := NewBase(ctx, conf.DatabaseConf)
	if err != nil {
		c.Close()
		return nil, err
	}
	ac := &ArenaContainer{BaseContainer: base, Cache: c}

	var pub node.Publisher
	if conf.Nats.Enabled {
		ac.Publisher, err = node.NewNatsPublisher(conf.Nats)
		if err != nil {
			_ = ac.Close()
			return nil, err
		}
		pub = ac.Publisher
	}

	var agents [4]string
	copy(agents[:], conf.Arena.Agents)
	ac.Worker, err = game.NewWorker(game.WorkerConfig{
		Seed:    conf.Arena.Seed,
		Games:   conf.Arena.Games,
		Workers: conf.Arena.Workers,
		Agents:  agents,
		Strict:  conf.Arena.Strict,
		Subject: conf.Nats.Subject,
	}, fmahjong.NewSearcher(c), base.Records(), pub)
	if err != nil {
		_ = ac.Close()
		return nil, err
	}
	ac.Monitor = game.NewMonitor(ac.Worker, time.Duration(conf.Arena.ReportInterval)*time.Second)
	return ac, nil
}

// Close 幂等；关闭顺序 Monitor、nats、缓存、数据库
func (c *ArenaContainer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	var errs []error
	if c.Monitor != nil {
		c.Monitor.Stop()
	}
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Cache != nil {
		log.Info("弃牌搜索缓存命中率: %.2f", c.Cache.HitRatio())
		c.Cache.Close()
	}
	if c.BaseContainer != nil {
		if err := c.BaseContainer.Close(); err != nil {
			log.Error("BaseContainer 关闭失败: %v", err)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("关闭资源时发生 %d 个错误: %v", len(errs), errs)
	}
	log.Info("ArenaContainer 已关闭")
	return nil
}
