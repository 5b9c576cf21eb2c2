package transfer

// KyokuPacket 一局结束后发布的消息，Events 为 mjai JSON 行
type KyokuPacket struct {
	GameID  string   `json:"game_id"`
	Seq     int      `json:"seq"`
	Kyoku   int      `json:"kyoku"`
	Honba   int      `json:"honba"`
	Deltas  [4]int   `json:"deltas"`
	Scores  [4]int   `json:"scores"`
	EndType string   `json:"end_type"`
	Events  []string `json:"events"`
}

// GamePacket 整场结束后发布的消息
type GamePacket struct {
	GameID string    `json:"game_id"`
	Names  [4]string `json:"names"`
	Scores [4]int    `json:"scores"`
	Ranks  [4]int    `json:"ranks"`
	Kyokus int       `json:"kyokus"`
}
