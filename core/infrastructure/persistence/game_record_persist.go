package persistence

import (
	"context"
	"errors"

	"gomahjong/common/database"
	"gomahjong/common/log"
	"gomahjong/core/domain/entity"
	"gomahjong/core/domain/repository"
	"gomahjong/core/infrastructure/message/transfer"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	gameRecordCollection  = "game_records"
	roundRecordCollection = "round_records"
)

type GameRecordRepository struct {
	mongo *database.MongoManager
}

func NewGameRecordRepository(mongo *database.MongoManager) *GameRecordRepository {
	return &GameRecordRepository{mongo: mongo}
}

var _ repository.GameRecordRepository = (*GameRecordRepository)(nil)

// EnsureIndexes game_id 唯一，局记录按 (game_record_id, sequence) 查询
func (r *GameRecordRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.mongo.Db.Collection(gameRecordCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "game_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = r.mongo.Db.Collection(roundRecordCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "game_record_id", Value: 1}, {Key: "sequence", Value: 1}},
	})
	return err
}

// SaveGameRecord 保存对局元数据
func (r *GameRecordRepository) SaveGameRecord(ctx context.Context, record *entity.GameRecord) error {
	_, err := r.mongo.Db.Collection(gameRecordCollection).InsertOne(ctx, record)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateRecord
		}
		log.Error("保存对局记录失败: %v", err)
		return transfer.ErrMongodb
	}
	return nil
}

// FindGameRecord 根据对局 uuid 查找
func (r *GameRecordRepository) FindGameRecord(ctx context.Context, gameID string) (*entity.GameRecord, error) {
	var record entity.GameRecord
	err := r.mongo.Db.Collection(gameRecordCollection).FindOne(ctx, bson.M{"game_id": gameID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrGameRecordNotFound
		}
		log.Error("查询对局记录失败: %v", err)
		return nil, transfer.ErrMongodb
	}
	return &record, nil
}

// SaveRoundRecords 批量保存局记录（InsertMany）
func (r *GameRecordRepository) SaveRoundRecords(ctx context.Context, rounds []*entity.RoundRecord) error {
	docs := make([]any, 0, len(rounds))
	for _, round := range rounds {
		if round != nil {
			docs = append(docs, round)
		}
	}
	if len(docs) == 0 {
		return nil
	}

	_, err := r.mongo.Db.Collection(roundRecordCollection).InsertMany(ctx, docs)
	if err != nil {
		log.Error("批量保存局记录失败: %v", err)
		return transfer.ErrMongodb
	}
	log.Debug("批量保存局记录成功: count=%d", len(docs))
	return nil
}

// FindRoundRecords 查找一场的所有局记录（按 sequence 排序）
func (r *GameRecordRepository) FindRoundRecords(ctx context.Context, gameRecordID primitive.ObjectID) ([]*entity.RoundRecord, error) {
	opts := options.Find().SetSort(bson.M{"sequence": 1})
	cursor, err := r.mongo.Db.Collection(roundRecordCollection).Find(ctx, bson.M{"game_record_id": gameRecordID}, opts)
	if err != nil {
		log.Error("查询局记录失败: %v", err)
		return nil, transfer.ErrMongodb
	}
	defer cursor.Close(ctx)

	var result []*entity.RoundRecord
	if err := cursor.All(ctx, &result); err != nil {
		log.Error("解析局记录失败: %v", err)
		return nil, transfer.ErrMongodb
	}
	return result, nil
}
