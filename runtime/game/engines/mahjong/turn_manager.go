package mahjong

import "fmt"

type TurnState int

const (
	TurnStateIdle          TurnState = iota // 尚未配牌
	TurnStateWaitMain                       // 等待行动者：打牌、立直、杠、自摸、九种九牌
	TurnStateWaitReactions                  // 等待其他家对打牌、加杠、暗杠的反应
	TurnStateOver                           // 本局结束
)

func (s TurnState) String() string {
	switch s {
	case TurnStateIdle:
		return "idle"
	case TurnStateWaitMain:
		return "wait_main"
	case TurnStateWaitReactions:
		return "wait_reactions"
	case TurnStateOver:
		return "over"
	}
	return fmt.Sprintf("TurnState(%d)", int(s))
}

// Poll 当前需要哪些座位给出反应。Ended 为 true 时应读取 KyokuResult
type Poll struct {
	Ended  bool
	Actors [4]bool
}

// Waiting 需要反应的座位
func (p Poll) Waiting() []int {
	var out []int
	for seat, ok := range p.Actors {
		if ok {
			out = append(out, seat)
		}
	}
	return out
}

// reactKind 反应窗口由哪种事件打开
type reactKind uint8

const (
	reactDahai reactKind = iota
	reactKakan
	reactAnkan
)

// TurnManager 行动指针与阶段
type TurnManager struct {
	TurnPointer int // 当前摸牌或鸣牌后需要打牌的座位
	State       TurnState
	kind        reactKind
}

// NextTurn 下家
func (tm *TurnManager) NextTurn() int {
	return (tm.TurnPointer + 1) % 4
}

func (tm *TurnManager) GetCurrentPlayer() int {
	return tm.TurnPointer
}

func (tm *TurnManager) GetState() TurnState {
	return tm.State
}

// EnterDropPhase 轮到 seat 行动
func (tm *TurnManager) EnterDropPhase(seat int) {
	tm.TurnPointer = seat
	tm.State = TurnStateWaitMain
}

// EnterReactingPhase 打开反应窗口，行动指针不变
func (tm *TurnManager) EnterReactingPhase(kind reactKind) {
	tm.State = TurnStateWaitReactions
	tm.kind = kind
}

func (tm *TurnManager) EnterOverPhase() {
	tm.State = TurnStateOver
}
