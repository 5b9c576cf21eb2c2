package event

import (
	"encoding/json"
	"errors"
	"fmt"

	"gomahjong/framework/game/engines/mahjong/tile"
)

var ErrMalformed = errors.New("malformed event")

type Type string

const (
	TypeNone          Type = "none"
	TypeStartGame     Type = "start_game"
	TypeStartKyoku    Type = "start_kyoku"
	TypeTsumo         Type = "tsumo"
	TypeDahai         Type = "dahai"
	TypeChi           Type = "chi"
	TypePon           Type = "pon"
	TypeDaiminkan     Type = "daiminkan"
	TypeKakan         Type = "kakan"
	TypeAnkan         Type = "ankan"
	TypeDora          Type = "dora"
	TypeReach         Type = "reach"
	TypeReachAccepted Type = "reach_accepted"
	TypeHora          Type = "hora"
	TypeRyukyoku      Type = "ryukyoku"
	TypeEndKyoku      Type = "end_kyoku"
	TypeEndGame       Type = "end_game"
)

// ReasonKyuushu 九种九牌，只有这种流局带 actor
const ReasonKyuushu = "kyuushu_kyuuhai"

// Event 一条对局事件。字段是否有效取决于 Type，见 requiredFields
type Event struct {
	Type Type

	// start_game
	Names [4]string

	// start_kyoku
	Bakaze     tile.Tile
	DoraMarker tile.Tile // 也用于 dora
	Kyoku      int       // 1-4
	Honba      int
	Kyotaku    int
	Oya        int
	Scores     [4]int
	Tehais     [4][13]tile.Tile

	Actor     int
	Target    int
	Pai       tile.Tile
	Consumed  []tile.Tile
	Tsumogiri bool

	// hora / ryukyoku
	Reason     string
	Deltas     [4]int
	HasDeltas  bool
	UraMarkers []tile.Tile
}

type field uint16

const (
	fActor field = 1 << iota
	fTarget
	fPai
	fConsumed
	fTsumogiri
	fKyokuInfo
	fDoraMarker
)

func requiredFields(t Type) (field, int, error) {
	switch t {
	case TypeNone, TypeStartGame, TypeEndKyoku, TypeEndGame, TypeRyukyoku:
		return 0, 0, nil
	case TypeStartKyoku:
		return fKyokuInfo | fDoraMarker, 0, nil
	case TypeTsumo:
		return fActor | fPai, 0, nil
	case TypeDahai:
		return fActor | fPai | fTsumogiri, 0, nil
	case TypeChi, TypePon:
		return fActor | fTarget | fPai | fConsumed, 2, nil
	case TypeDaiminkan:
		return fActor | fTarget | fPai | fConsumed, 3, nil
	case TypeKakan:
		return fActor | fPai | fConsumed, 3, nil
	case TypeAnkan:
		return fActor | fConsumed, 4, nil
	case TypeDora:
		return fDoraMarker, 0, nil
	case TypeReach, TypeReachAccepted:
		return fActor, 0, nil
	case TypeHora:
		return fActor | fTarget, 0, nil
	}
	return 0, 0, fmt.Errorf("%w: unknown type %q", ErrMalformed, t)
}

func (e *Event) fields() (field, int, error) {
	req, consumed, err := requiredFields(e.Type)
	if e.Type == TypeRyukyoku && e.Reason == ReasonKyuushu {
		req |= fActor
	}
	return req, consumed, err
}

// wire JSON 形态，指针字段用于区分缺失与零值
type wire struct {
	Type       Type              `json:"type"`
	Names      *[4]string        `json:"names,omitempty"`
	Bakaze     *tile.Tile        `json:"bakaze,omitempty"`
	DoraMarker *tile.Tile        `json:"dora_marker,omitempty"`
	Kyoku      *int              `json:"kyoku,omitempty"`
	Honba      *int              `json:"honba,omitempty"`
	Kyotaku    *int              `json:"kyotaku,omitempty"`
	Oya        *int              `json:"oya,omitempty"`
	Scores     *[4]int           `json:"scores,omitempty"`
	Tehais     *[4][13]tile.Tile `json:"tehais,omitempty"`
	Actor      *int              `json:"actor,omitempty"`
	Target     *int              `json:"target,omitempty"`
	Pai        *tile.Tile        `json:"pai,omitempty"`
	Consumed   []tile.Tile       `json:"consumed,omitempty"`
	Tsumogiri  *bool             `json:"tsumogiri,omitempty"`
	Reason     string            `json:"reason,omitempty"`
	Deltas     *[4]int           `json:"deltas,omitempty"`
	UraMarkers []tile.Tile       `json:"ura_markers,omitempty"`
}

func (e Event) MarshalJSON() ([]byte, error) {
	req, _, err := e.fields()
	if err != nil {
		return nil, err
	}
	w := wire{Type: e.Type}
	if req&fActor != 0 {
		w.Actor = &e.Actor
	}
	if req&fTarget != 0 {
		w.Target = &e.Target
	}
	if req&fPai != 0 {
		w.Pai = &e.Pai
	}
	if req&fConsumed != 0 {
		w.Consumed = e.Consumed
	}
	if req&fTsumogiri != 0 {
		w.Tsumogiri = &e.Tsumogiri
	}
	if req&fDoraMarker != 0 {
		w.DoraMarker = &e.DoraMarker
	}
	if req&fKyokuInfo != 0 {
		w.Bakaze = &e.Bakaze
		w.Kyoku = &e.Kyoku
		w.Honba = &e.Honba
		w.Kyotaku = &e.Kyotaku
		w.Oya = &e.Oya
		w.Scores = &e.Scores
		w.Tehais = &e.Tehais
	}
	switch e.Type {
	case TypeStartGame:
		w.Names = &e.Names
	case TypeHora:
		w.UraMarkers = e.UraMarkers
		if e.HasDeltas {
			w.Deltas = &e.Deltas
		}
	case TypeRyukyoku:
		w.Reason = e.Reason
		if e.HasDeltas {
			w.Deltas = &e.Deltas
		}
	}
	return json.Marshal(w)
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	out := Event{Type: w.Type}
	if w.Type == TypeRyukyoku {
		out.Reason = w.Reason
	}
	req, consumed, err := out.fields()
	if err != nil {
		return err
	}

	missing := func(name string) error {
		return fmt.Errorf("%w: %s missing %s", ErrMalformed, w.Type, name)
	}
	if req&fActor != 0 {
		if w.Actor == nil {
			return missing("actor")
		}
		out.Actor = *w.Actor
	}
	if req&fTarget != 0 {
		if w.Target == nil {
			return missing("target")
		}
		out.Target = *w.Target
	}
	if req&fPai != 0 {
		if w.Pai == nil {
			return missing("pai")
		}
		out.Pai = *w.Pai
	}
	if req&fConsumed != 0 {
		if len(w.Consumed) != consumed {
			return fmt.Errorf("%w: %s needs %d consumed tiles, got %d", ErrMalformed, w.Type, consumed, len(w.Consumed))
		}
		out.Consumed = w.Consumed
	}
	if req&fTsumogiri != 0 {
		if w.Tsumogiri == nil {
			return missing("tsumogiri")
		}
		out.Tsumogiri = *w.Tsumogiri
	}
	if req&fDoraMarker != 0 {
		if w.DoraMarker == nil {
			return missing("dora_marker")
		}
		out.DoraMarker = *w.DoraMarker
	}
	if req&fKyokuInfo != 0 {
		if w.Bakaze == nil || w.Kyoku == nil || w.Honba == nil || w.Kyotaku == nil ||
			w.Oya == nil || w.Scores == nil || w.Tehais == nil {
			return missing("kyoku fields")
		}
		out.Bakaze = *w.Bakaze
		out.Kyoku = *w.Kyoku
		out.Honba = *w.Honba
		out.Kyotaku = *w.Kyotaku
		out.Oya = *w.Oya
		out.Scores = *w.Scores
		out.Tehais = *w.Tehais
	}
	if w.Names != nil {
		out.Names = *w.Names
	}
	if w.Deltas != nil {
		out.Deltas = *w.Deltas
		out.HasDeltas = true
	}
	out.UraMarkers = w.UraMarkers

	if err := out.Validate(); err != nil {
		return err
	}
	*e = out
	return nil
}

// Validate 检查座位号与牌的取值范围
func (e *Event) Validate() error {
	req, consumed, err := e.fields()
	if err != nil {
		return err
	}
	seat := func(name string, v int) error {
		if v < 0 || v > 3 {
			return fmt.Errorf("%w: %s %s=%d out of range", ErrMalformed, e.Type, name, v)
		}
		return nil
	}
	if req&fActor != 0 {
		if err := seat("actor", e.Actor); err != nil {
			return err
		}
	}
	if req&fTarget != 0 {
		if err := seat("target", e.Target); err != nil {
			return err
		}
	}
	if req&fKyokuInfo != 0 {
		if err := seat("oya", e.Oya); err != nil {
			return err
		}
		if e.Kyoku < 1 || e.Kyoku > 4 {
			return fmt.Errorf("%w: kyoku=%d", ErrMalformed, e.Kyoku)
		}
		if e.Bakaze.Deaka() < tile.East || e.Bakaze.Deaka() > tile.North {
			return fmt.Errorf("%w: bakaze=%s", ErrMalformed, e.Bakaze)
		}
	}
	if req&fConsumed != 0 && len(e.Consumed) != consumed {
		return fmt.Errorf("%w: %s needs %d consumed tiles", ErrMalformed, e.Type, consumed)
	}
	if req&fPai != 0 && !e.Pai.Valid() {
		return fmt.Errorf("%w: %s pai", ErrMalformed, e.Type)
	}
	return nil
}

// IsActorEvent 由某一家主动做出的事件
func (e *Event) IsActorEvent() bool {
	switch e.Type {
	case TypeDahai, TypeChi, TypePon, TypeDaiminkan, TypeKakan, TypeAnkan, TypeReach, TypeHora:
		return true
	case TypeRyukyoku:
		return e.Reason == ReasonKyuushu
	}
	return false
}

func (e Event) String() string {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Sprintf("{%s}", e.Type)
	}
	return string(b)
}

func None() Event { return Event{Type: TypeNone} }

func Tsumo(actor int, pai tile.Tile) Event {
	return Event{Type: TypeTsumo, Actor: actor, Pai: pai}
}

func Dahai(actor int, pai tile.Tile, tsumogiri bool) Event {
	return Event{Type: TypeDahai, Actor: actor, Pai: pai, Tsumogiri: tsumogiri}
}

func Chi(actor, target int, pai tile.Tile, consumed [2]tile.Tile) Event {
	return Event{Type: TypeChi, Actor: actor, Target: target, Pai: pai, Consumed: consumed[:]}
}

func Pon(actor, target int, pai tile.Tile, consumed [2]tile.Tile) Event {
	return Event{Type: TypePon, Actor: actor, Target: target, Pai: pai, Consumed: consumed[:]}
}

func Daiminkan(actor, target int, pai tile.Tile, consumed [3]tile.Tile) Event {
	return Event{Type: TypeDaiminkan, Actor: actor, Target: target, Pai: pai, Consumed: consumed[:]}
}

func Kakan(actor int, pai tile.Tile, consumed [3]tile.Tile) Event {
	return Event{Type: TypeKakan, Actor: actor, Pai: pai, Consumed: consumed[:]}
}

func Ankan(actor int, consumed [4]tile.Tile) Event {
	return Event{Type: TypeAnkan, Actor: actor, Consumed: consumed[:]}
}

func Dora(marker tile.Tile) Event {
	return Event{Type: TypeDora, DoraMarker: marker}
}

func Reach(actor int) Event {
	return Event{Type: TypeReach, Actor: actor}
}

func ReachAccepted(actor int) Event {
	return Event{Type: TypeReachAccepted, Actor: actor}
}

func Hora(actor, target int) Event {
	return Event{Type: TypeHora, Actor: actor, Target: target}
}

// Ryukyoku 作为玩家反应时表示九种九牌流局
func Ryukyoku(actor int) Event {
	return Event{Type: TypeRyukyoku, Actor: actor, Reason: ReasonKyuushu}
}
