package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const GameTypeRiichi4p = "riichi_mahjong_4p"

// GameRecord 一场自对局的元数据（聚合根）
// 存储种子、四家信息、最终结果；每局的事件流在 RoundRecord 中
type GameRecord struct {
	ID          primitive.ObjectID `bson:"_id"`
	GameID      string             `bson:"game_id"`      // 对局 uuid
	GameType    string             `bson:"game_type"`    // "riichi_mahjong_4p"
	Seed        string             `bson:"seed"`         // nonce:key，十六进制
	Players     []PlayerInfo       `bson:"players"`      // 四家信息（座位、名字、AI 类型）
	StartTime   time.Time          `bson:"start_time"`   // 对局开始时间
	EndTime     time.Time          `bson:"end_time"`     // 对局结束时间
	Duration    int                `bson:"duration"`     // 对局时长（毫秒）
	RoundCount  int                `bson:"round_count"`  // 总局数（含本场）
	FinalResult *GameFinalResult   `bson:"final_result"` // 最终结果
	Status      string             `bson:"status"`       // "in_progress", "completed", "aborted"
	CreatedAt   time.Time          `bson:"created_at"`
}

// PlayerInfo 一家的信息
type PlayerInfo struct {
	SeatIndex int    `bson:"seat_index"`
	Name      string `bson:"name"`
	Agent     string `bson:"agent"`
}

// GameFinalResult 最终结果
type GameFinalResult struct {
	Rankings []PlayerRanking `bson:"rankings"` // 按名次排序
	Points   [4]int          `bson:"points"`   // 按座位索引
}

// PlayerRanking 一家的名次与统计
type PlayerRanking struct {
	SeatIndex int    `bson:"seat_index"`
	Name      string `bson:"name"`
	Points    int    `bson:"points"`
	Rank      int    `bson:"rank"` // 1-4
	Wins      int    `bson:"wins"`
	DealIns   int    `bson:"deal_ins"`
	Riichis   int    `bson:"riichis"`
}

const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusAborted    = "aborted"
)

func NewGameRecord(gameID, seed string, players []PlayerInfo) *GameRecord {
	now := time.Now()
	return &GameRecord{
		ID:        primitive.NewObjectID(),
		GameID:    gameID,
		GameType:  GameTypeRiichi4p,
		Seed:      seed,
		Players:   players,
		StartTime: now,
		Status:    StatusInProgress,
		CreatedAt: now,
	}
}

func (gr *GameRecord) CompleteGame(finalResult *GameFinalResult, rounds int) {
	gr.EndTime = time.Now()
	gr.Duration = int(gr.EndTime.Sub(gr.StartTime).Milliseconds())
	gr.FinalResult = finalResult
	gr.RoundCount = rounds
	gr.Status = StatusCompleted
}

func (gr *GameRecord) AbortGame(rounds int) {
	gr.EndTime = time.Now()
	gr.Duration = int(gr.EndTime.Sub(gr.StartTime).Milliseconds())
	gr.RoundCount = rounds
	gr.Status = StatusAborted
}
