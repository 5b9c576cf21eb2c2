package persistence

import (
	"context"
	"sort"
	"sync"

	"gomahjong/core/domain/entity"
	"gomahjong/core/domain/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRecordRepository 不连 mongodb 时使用，进程退出即丢失
type MemoryRecordRepository struct {
	mu     sync.RWMutex
	games  map[string]*entity.GameRecord
	rounds map[primitive.ObjectID][]*entity.RoundRecord
}

func NewMemoryRecordRepository() *MemoryRecordRepository {
	return &MemoryRecordRepository{
		games:  make(map[string]*entity.GameRecord),
		rounds: make(map[primitive.ObjectID][]*entity.RoundRecord),
	}
}

var _ repository.GameRecordRepository = (*MemoryRecordRepository)(nil)

func (r *MemoryRecordRepository) SaveGameRecord(_ context.Context, record *entity.GameRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[record.GameID]; ok {
		return repository.ErrDuplicateRecord
	}
	cp := *record
	r.games[record.GameID] = &cp
	return nil
}

func (r *MemoryRecordRepository) FindGameRecord(_ context.Context, gameID string) (*entity.GameRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.games[gameID]
	if !ok {
		return nil, repository.ErrGameRecordNotFound
	}
	cp := *record
	return &cp, nil
}

func (r *MemoryRecordRepository) SaveRoundRecords(_ context.Context, rounds []*entity.RoundRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, round := range rounds {
		if round == nil {
			continue
		}
		r.rounds[round.GameRecordID] = append(r.rounds[round.GameRecordID], round)
	}
	return nil
}

func (r *MemoryRecordRepository) FindRoundRecords(_ context.Context, gameRecordID primitive.ObjectID) ([]*entity.RoundRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]*entity.RoundRecord(nil), r.rounds[gameRecordID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

// Len 已保存的对局数
func (r *MemoryRecordRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}
