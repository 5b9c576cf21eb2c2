package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoundRecord 局记录（每局一个文档）
// Events 是 mjai 格式的 JSON 行，可以直接重放
type RoundRecord struct {
	ID           primitive.ObjectID `bson:"_id"`
	GameRecordID primitive.ObjectID `bson:"game_record_id"`
	Sequence     int                `bson:"sequence"`     // 场内第几局，含本场，从 0 开始
	RoundNumber  int                `bson:"round_number"` // 东一局为 0
	RoundWind    string             `bson:"round_wind"`   // "E", "S", "W", "N"
	DealerIndex  int                `bson:"dealer_index"`
	Honba        int                `bson:"honba"`
	Kyotaku      int                `bson:"kyotaku"`
	Events       []string           `bson:"events"`
	RoundResult  *RoundResult       `bson:"round_result"`
	CreatedAt    time.Time          `bson:"created_at"`
}

// RoundResult 一局的结算
type RoundResult struct {
	EndType string    `bson:"end_type"` // EndTypeRon / EndTypeTsumo / EndTypeDraw
	Claims  []HuClaim `bson:"claims"`
	Delta   [4]int    `bson:"delta"`
	Points  [4]int    `bson:"points"`
	Reason  string    `bson:"reason"` // 流局种类
	Tenpai  [4]bool   `bson:"tenpai"`
	Renchan bool      `bson:"renchan"`
}

// HuClaim 和了信息
type HuClaim struct {
	WinnerSeat int      `bson:"winner_seat"`
	LoserSeat  int      `bson:"loser_seat"` // 自摸时与 WinnerSeat 相同
	WinTile    string   `bson:"win_tile"`
	Han        int      `bson:"han"`
	Fu         int      `bson:"fu"`
	Yakuman    int      `bson:"yakuman"`
	Yaku       []string `bson:"yaku"`
	Points     int      `bson:"points"` // 和了者收入，不含本场与供托
	PaoSeat    int      `bson:"pao_seat"`
}

const (
	EndTypeRon   = "ron"
	EndTypeTsumo = "tsumo"
	EndTypeDraw  = "ryukyoku"
)

func NewRoundRecord(gameRecordID primitive.ObjectID, sequence, roundNumber int, roundWind string, dealerIndex, honba, kyotaku int) *RoundRecord {
	return &RoundRecord{
		ID:           primitive.NewObjectID(),
		GameRecordID: gameRecordID,
		Sequence:     sequence,
		RoundNumber:  roundNumber,
		RoundWind:    roundWind,
		DealerIndex:  dealerIndex,
		Honba:        honba,
		Kyotaku:      kyotaku,
		Events:       make([]string, 0, 128),
		CreatedAt:    time.Now(),
	}
}

func (rr *RoundRecord) AddEvent(line string) {
	rr.Events = append(rr.Events, line)
}

func (rr *RoundRecord) CompleteRound(result *RoundResult) {
	rr.RoundResult = result
}
