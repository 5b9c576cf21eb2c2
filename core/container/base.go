package container

import (
	"context"

	"gomahjong/common/config"
	"gomahjong/common/database"
	"gomahjong/common/log"
	"gomahjong/core/domain/repository"
	"gomahjong/core/infrastructure/persistence"
)

// BaseContainer 管理共享资源（数据库连接、对局记录仓储）
type BaseContainer struct {
	mongo   *database.MongoManager
	records repository.GameRecordRepository
}

// NewBase mongodb 未启用时对局记录保存在内存中
func NewBase(ctx context.Context, conf config.DatabaseConf) (*BaseContainer, error) {
	if !conf.MongoConf.Enabled {
		log.Info("mongodb 未启用，对局记录保存在内存中")
		return &BaseContainer{records: persistence.NewMemoryRecordRepository()}, nil
	}

	mongo, err := database.NewMongo(ctx, conf.MongoConf)
	if err != nil {
		return nil, err
	}
	repo := persistence.NewGameRecordRepository(mongo)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Warn("创建索引失败: %v", err)
	}
	return &BaseContainer{mongo: mongo, records: repo}, nil
}

func (c *BaseContainer) GetMongo() *database.MongoManager {
	return c.mongo
}

func (c *BaseContainer) Records() repository.GameRecordRepository {
	return c.records
}

func (c *BaseContainer) Close() error {
	if c.mongo == nil {
		return nil
	}
	return c.mongo.Close()
}
