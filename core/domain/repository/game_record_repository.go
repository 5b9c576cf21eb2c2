package repository

import (
	"context"

	"gomahjong/core/domain/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GameRecordRepository 对局记录仓储接口
type GameRecordRepository interface {
	// SaveGameRecord 保存对局元数据
	SaveGameRecord(ctx context.Context, record *entity.GameRecord) error

	// FindGameRecord 根据对局 uuid 查找
	FindGameRecord(ctx context.Context, gameID string) (*entity.GameRecord, error)

	// SaveRoundRecords 批量保存局记录
	SaveRoundRecords(ctx context.Context, rounds []*entity.RoundRecord) error

	// FindRoundRecords 查找一场的所有局记录（按 Sequence 排序）
	FindRoundRecords(ctx context.Context, gameRecordID primitive.ObjectID) ([]*entity.RoundRecord, error)
}
