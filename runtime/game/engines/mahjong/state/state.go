package state

import (
	"errors"
	"fmt"

	"gomahjong/framework/game/engines/mahjong/shanten"
	"gomahjong/framework/game/engines/mahjong/tile"
)

var (
	ErrIllegalAction     = errors.New("illegal action")
	ErrInvalidTransition = errors.New("invalid event sequence")
)

// StrictInvariants 打开后每次增量更新都与完整重算对比，不一致直接 panic。测试中使用
var StrictInvariants = false

// Phase 本家视角的阶段
type Phase uint8

const (
	AwaitingDraw Phase = iota
	AwaitingDiscardDecision
	AwaitingReactions
	Terminal
)

func (p Phase) String() string {
	switch p {
	case AwaitingDraw:
		return "awaiting_draw"
	case AwaitingDiscardDecision:
		return "awaiting_discard_decision"
	case AwaitingReactions:
		return "awaiting_reactions"
	case Terminal:
		return "terminal"
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

type MeldType uint8

const (
	MeldChi MeldType = iota
	MeldPon
	MeldDaiminkan
	MeldKakan
	MeldAnkan
)

// Meld 副露，Tiles[:N] 为全部实体牌
type Meld struct {
	Type   MeldType
	Tiles  [4]tile.Tile
	N      uint8
	Pai    tile.Tile // 鸣的那张，暗杠时无意义
	Target int
}

// Kind 顺子返回最小牌种，其余返回牌种
func (m *Meld) Kind() tile.Tile {
	k := m.Tiles[0].Deaka()
	for _, t := range m.Tiles[1:m.N] {
		if d := t.Deaka(); d < k {
			k = d
		}
	}
	return k
}

// KawaItem 河里的一张牌
type KawaItem struct {
	Pai       tile.Tile
	Tsumogiri bool
	Riichi    bool // 立直宣言牌
	Called    bool // 被鸣走
}

// PlayerState 某一家的状态副本，只由 Update 顺序修改
type PlayerState struct {
	playerID int
	phase    Phase

	bakaze    tile.Tile
	jikaze    tile.Tile
	kyoku     int
	honba     int
	kyotaku   int
	oya       int
	scores    [4]int
	tilesLeft int
	doraInds  []tile.Tile
	kansTotal int

	tehai     tile.Hand34
	akaHeld   [3]bool
	lastTsumo tile.Tile
	melds     []Meld
	isMenzen  bool

	kawa       [4][]KawaItem
	discarded  [tile.KindCount]bool
	openMelds  [4]int
	riichiDecl [4]bool
	riichiAcc  [4]bool

	declPending [4]bool // 宣言后尚未打出宣言牌

	// 本家立直相关
	doubleRiichi bool
	ippatsu      bool

	selfTurns     int
	noCallYet     bool
	drewThisTurn  bool
	rinshanDraw   bool
	pendingKan    bool
	chankanChance bool
	missedWin     bool // 放过了可以和的牌，下一条事件时计入振听

	// 最近一张可以被鸣或荣和的牌
	lastCutter  int
	lastCutTile tile.Tile

	shanten        int8
	prevShanten    int8
	waits          [tile.KindCount]bool
	discardShanten [tile.KindCount]int8
	keepShanten    [tile.KindCount]bool
	nextShanten    [tile.KindCount]bool
	forbidden      [tile.KindCount]bool

	discardFuriten bool
	doujunFuriten  bool
	riichiFuriten  bool

	dragonMelds int
	windMelds   int
	paoSeat     int

	cans ActionCandidate
}

// New 创建某一家的状态，需先收到 start_kyoku
func New(playerID int) *PlayerState {
	return &PlayerState{
		playerID: playerID,
		phase:    Terminal,
		paoSeat:  -1,
		isMenzen: true,
	}
}

// Clone 深拷贝，用于并行评估
func (s *PlayerState) Clone() *PlayerState {
	c := *s
	c.doraInds = append([]tile.Tile(nil), s.doraInds...)
	c.melds = append([]Meld(nil), s.melds...)
	for i := range s.kawa {
		c.kawa[i] = append([]KawaItem(nil), s.kawa[i]...)
	}
	return &c
}

func (s *PlayerState) PlayerID() int { return s.playerID }
func (s *PlayerState) Phase() Phase { return s.phase }
func (s *PlayerState) Candidates() ActionCandidate { return s.cans }
func (s *PlayerState) Shanten() int8 { return s.shanten }
func (s *PlayerState) Waits() [tile.KindCount]bool { return s.waits }
func (s *PlayerState) Tehai() tile.Hand34 { return s.tehai }
func (s *PlayerState) Melds() []Meld { return s.melds }
func (s *PlayerState) Kawa(seat int) []KawaItem { return s.kawa[rel(seat)] }
func (s *PlayerState) Scores() [4]int { return s.scores }
func (s *PlayerState) TilesLeft() int { return s.tilesLeft }
func (s *PlayerState) DoraIndicators() []tile.Tile { return s.doraInds }
func (s *PlayerState) IsMenzen() bool { return s.isMenzen }
func (s *PlayerState) SelfRiichi() bool { return s.riichiAcc[s.playerID] }
func (s *PlayerState) PaoSeat() int { return s.paoSeat }
func (s *PlayerState) Bakaze() tile.Tile { return s.bakaze }
func (s *PlayerState) Jikaze() tile.Tile { return s.jikaze }
func (s *PlayerState) LastTsumo() tile.Tile { return s.lastTsumo }
func (s *PlayerState) Kyoku() int { return s.kyoku }
func (s *PlayerState) Honba() int { return s.honba }
func (s *PlayerState) Kyotaku() int { return s.kyotaku }
func (s *PlayerState) Oya() int { return s.oya }
func (s *PlayerState) KansTotal() int { return s.kansTotal }
func (s *PlayerState) Forbidden() [tile.KindCount]bool { return s.forbidden }
func (s *PlayerState) RiichiDeclared(seat int) bool { return s.riichiDecl[rel(seat)] }
func (s *PlayerState) RiichiAccepted(seat int) bool { return s.riichiAcc[rel(seat)] }

// AtFuriten 舍牌振听、同巡振听、立直振听任一成立
func (s *PlayerState) AtFuriten() bool {
	return s.discardFuriten || s.doujunFuriten || s.riichiFuriten
}

// NagashiEligible 只打幺九且没有被鸣过
func (s *PlayerState) NagashiEligible(seat int) bool {
	k := s.kawa[rel(seat)]
	if len(k) == 0 {
		return false
	}
	for _, it := range k {
		if !it.Pai.IsYaokyuu() || it.Called {
			return false
		}
	}
	return true
}

// Tiles 手牌实体牌，赤五排在普通五前
func (s *PlayerState) Tiles() []tile.Tile {
	out := make([]tile.Tile, 0, 14)
	for k := 0; k < tile.KindCount; k++ {
		n := int(s.tehai[k])
		if n == 0 {
			continue
		}
		t := tile.Tile(k)
		if t.Rank() == 5 && !t.IsJihai() && s.akaHeld[t.Suit()] {
			out = append(out, t.Akaize())
			n--
		}
		for i := 0; i < n; i++ {
			out = append(out, t)
		}
	}
	return out
}

func rel(seat int) int {
	return ((seat % 4) + 4) % 4
}

func (s *PlayerState) lenDiv3() int {
	return 4 - len(s.melds)
}

func (s *PlayerState) hasTile(t tile.Tile) bool {
	k := t.Deaka()
	if k >= tile.KindCount {
		return false
	}
	if t.IsAka() {
		return s.akaHeld[k.Suit()]
	}
	plain := int(s.tehai[k])
	if !k.IsJihai() && k.Rank() == 5 && s.akaHeld[k.Suit()] {
		plain--
	}
	return plain > 0
}

// hasTiles 多张牌同时在手
func (s *PlayerState) hasTiles(ts []tile.Tile) bool {
	saved, savedAka := s.tehai, s.akaHeld
	defer func() { s.tehai, s.akaHeld = saved, savedAka }()
	for _, t := range ts {
		if !s.hasTile(t) {
			return false
		}
		s.removeTile(t)
	}
	return true
}

func (s *PlayerState) addTile(t tile.Tile) {
	k := t.Deaka()
	s.tehai[k]++
	if t.IsAka() {
		s.akaHeld[k.Suit()] = true
	}
}

// removeTile 移除实体牌；普通五不够时不会去拿赤五
func (s *PlayerState) removeTile(t tile.Tile) {
	k := t.Deaka()
	s.tehai[k]--
	if t.IsAka() {
		s.akaHeld[k.Suit()] = false
	}
}

// checkHandSize 张数不变式
func (s *PlayerState) checkHandSize() {
	if !StrictInvariants {
		return
	}
	n := s.tehai.Sum() + 3*len(s.melds)
	if n != 13 && n != 14 {
		panic(fmt.Sprintf("seat %d: 手牌张数异常 %d (%s)", s.playerID, n, s.tehai.String()))
	}
}

// checkShanten 增量向听与重算对比
func (s *PlayerState) checkShanten() {
	if !StrictInvariants {
		return
	}
	if full := shanten.CalcAll(&s.tehai, s.lenDiv3()); full != s.shanten {
		panic(fmt.Sprintf("seat %d: 增量向听 %d 与重算 %d 不一致 (%s)", s.playerID, s.shanten, full, s.tehai.String()))
	}
}
