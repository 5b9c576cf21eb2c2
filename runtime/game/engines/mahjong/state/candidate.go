package state

import "gomahjong/framework/game/engines/mahjong/tile"

// ActionCandidate 当前可以执行的动作
type ActionCandidate struct {
	CanDiscard    bool
	CanChiLow     bool // 鸣牌为顺子最小的一张
	CanChiMid     bool
	CanChiHigh    bool
	CanPon        bool
	CanDaiminkan  bool
	CanKakan      bool
	CanAnkan      bool
	CanRiichi     bool
	CanTsumoAgari bool
	CanRonAgari   bool
	CanRyukyoku   bool
	TargetActor   int
}

func (c ActionCandidate) CanChi() bool {
	return c.CanChiLow || c.CanChiMid || c.CanChiHigh
}

func (c ActionCandidate) CanKan() bool {
	return c.CanDaiminkan || c.CanKakan || c.CanAnkan
}

func (c ActionCandidate) CanAgari() bool {
	return c.CanTsumoAgari || c.CanRonAgari
}

// CanAct 是否有任何可选动作
func (c ActionCandidate) CanAct() bool {
	return c.CanDiscard || c.CanChi() || c.CanPon || c.CanKan() || c.CanRiichi || c.CanAgari() || c.CanRyukyoku
}

// CanPass 别家打牌后的反应窗口可以选择跳过
func (c ActionCandidate) CanPass() bool {
	return c.CanChi() || c.CanPon || c.CanDaiminkan || c.CanRonAgari
}

// 动作掩码布局
const (
	MaskDiscardEnd = tile.Count - 1 // 0..36 打牌（含赤五）
	MaskRiichi     = 37
	MaskChiLow     = 38
	MaskChiMid     = 39
	MaskChiHigh    = 40
	MaskPon        = 41
	MaskKan        = 42
	MaskHora       = 43
	MaskRyukyoku   = 44
	MaskPass       = 45
	MaskSize       = 46
)

// LegalMask 供外部策略使用的合法动作掩码
func (s *PlayerState) LegalMask() [MaskSize]bool {
	var m [MaskSize]bool
	c := s.cans
	if c.CanDiscard {
		for _, t := range s.DiscardableTiles() {
			m[t] = true
		}
	}
	m[MaskRiichi] = c.CanRiichi
	m[MaskChiLow] = c.CanChiLow
	m[MaskChiMid] = c.CanChiMid
	m[MaskChiHigh] = c.CanChiHigh
	m[MaskPon] = c.CanPon
	m[MaskKan] = c.CanKan()
	m[MaskHora] = c.CanAgari()
	m[MaskRyukyoku] = c.CanRyukyoku
	m[MaskPass] = c.CanPass()
	return m
}
