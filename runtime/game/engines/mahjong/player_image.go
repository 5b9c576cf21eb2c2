package mahjong

import "gomahjong/runtime/game/engines/mahjong/event"

// PlayerImage 一家在整场对局中的信息
type PlayerImage struct {
	Name      string
	SeatIndex int // 起家为 0
	Points    int
	Rank      int // 终局后 1-4
	Reactor   Reactor

	Wins     int
	DealIns  int
	Riichis  int
	Nagashis int
}

func NewPlayerImage(name string, seat, initialPoints int, r Reactor) *PlayerImage {
	return &PlayerImage{
		Name:      name,
		SeatIndex: seat,
		Points:    initialPoints,
		Reactor:   r,
	}
}

func (p *PlayerImage) AddPoints(points int) {
	p.Points += points
}

func (p *PlayerImage) GetPoints() int {
	return p.Points
}

// record 统计本局的和了、放铳、立直、流局满贯
func (p *PlayerImage) record(res *KyokuResult) {
	dealtIn := false
	for _, h := range res.Hora {
		switch {
		case h.Actor == p.SeatIndex:
			p.Wins++
		case h.Target == p.SeatIndex:
			dealtIn = true
		}
	}
	if dealtIn {
		p.DealIns++
	}
	if res.Nagashi[p.SeatIndex] {
		p.Nagashis++
	}
	for i := range res.Events {
		ev := &res.Events[i]
		if ev.Type == event.TypeReachAccepted && ev.Actor == p.SeatIndex {
			p.Riichis++
		}
	}
}
