package tile

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Tile 牌的身份标识
// 0-33 为 34 种实体牌，34-36 为三种赤五，37 为不可见牌
type Tile uint8

const (
	// 万子 (0-8)
	Man1 Tile = iota
	Man2
	Man3
	Man4
	Man5
	Man6
	Man7
	Man8
	Man9

	// 筒子 (9-17)
	Pin1
	Pin2
	Pin3
	Pin4
	Pin5
	Pin6
	Pin7
	Pin8
	Pin9

	// 索子 (18-26)
	So1
	So2
	So3
	So4
	So5
	So6
	So7
	So8
	So9

	// 字牌 (27-33)
	East
	South
	West
	North
	White
	Green
	Red

	// 赤宝牌 (34-36)
	Man5Red
	Pin5Red
	So5Red

	// 不可见牌
	Unknown
)

const (
	KindCount = 34  // 实体牌种类数
	Count     = 38  // 全部身份数
	TileLimit = 136 // 一副牌总张数
)

var ErrInvalidTile = errors.New("invalid tile")

var codes = [Count]string{
	"1m", "2m", "3m", "4m", "5m", "6m", "7m", "8m", "9m",
	"1p", "2p", "3p", "4p", "5p", "6p", "7p", "8p", "9p",
	"1s", "2s", "3s", "4s", "5s", "6s", "7s", "8s", "9s",
	"E", "S", "W", "N", "P", "F", "C",
	"5mr", "5pr", "5sr",
	"?",
}

var codeIndex = func() map[string]Tile {
	m := make(map[string]Tile, Count)
	for i, c := range codes {
		m[c] = Tile(i)
	}
	return m
}()

// Parse 解析 mjai 格式的牌代码
func Parse(code string) (Tile, error) {
	t, ok := codeIndex[code]
	if !ok {
		return Unknown, fmt.Errorf("%w: %q", ErrInvalidTile, code)
	}
	return t, nil
}

// MustParse 仅用于常量和测试
func MustParse(code string) Tile {
	t, err := Parse(code)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Tile) String() string {
	if int(t) >= Count {
		return fmt.Sprintf("Tile(%d)", uint8(t))
	}
	return codes[t]
}

func (t Tile) Valid() bool {
	return t < Count
}

// Index 去赤后的 34 种下标
func (t Tile) Index() int {
	return int(t.Deaka())
}

// Deaka 赤五转普通五，形状分析前必须调用
func (t Tile) Deaka() Tile {
	switch t {
	case Man5Red:
		return Man5
	case Pin5Red:
		return Pin5
	case So5Red:
		return So5
	}
	return t
}

// Akaize 普通五转赤五
func (t Tile) Akaize() Tile {
	switch t {
	case Man5:
		return Man5Red
	case Pin5:
		return Pin5Red
	case So5:
		return So5Red
	}
	return t
}

func (t Tile) IsAka() bool {
	return t >= Man5Red && t <= So5Red
}

func (t Tile) IsUnknown() bool {
	return t == Unknown
}

// IsJihai 字牌
func (t Tile) IsJihai() bool {
	k := t.Deaka()
	return k >= East && k <= Red
}

// IsYaokyuu 幺九牌（老头牌或字牌）
func (t Tile) IsYaokyuu() bool {
	k := t.Deaka()
	if k >= KindCount {
		return false
	}
	return k >= East || k%9 == 0 || k%9 == 8
}

// IsTerminal 老头牌
func (t Tile) IsTerminal() bool {
	k := t.Deaka()
	return k < East && (k%9 == 0 || k%9 == 8)
}

// Suit 0 万 1 筒 2 索 3 字
func (t Tile) Suit() int {
	return int(t.Deaka()) / 9
}

// Rank 数牌 1-9，字牌按 东南西北白发中 1-7
func (t Tile) Rank() int {
	k := t.Deaka()
	if k >= East {
		return int(k-East) + 1
	}
	return int(k)%9 + 1
}

// Next 宝牌指示牌的下一张
func (t Tile) Next() Tile {
	k := t.Deaka()
	switch {
	case k < East:
		if k%9 == 8 {
			return k - 8
		}
		return k + 1
	case k <= North:
		if k == North {
			return East
		}
		return k + 1
	case k <= Red:
		if k == Red {
			return White
		}
		return k + 1
	}
	return t
}

// Prev Next 的逆
func (t Tile) Prev() Tile {
	k := t.Deaka()
	switch {
	case k < East:
		if k%9 == 0 {
			return k + 8
		}
		return k - 1
	case k <= North:
		if k == East {
			return North
		}
		return k - 1
	case k <= Red:
		if k == White {
			return Red
		}
		return k - 1
	}
	return t
}

func (t Tile) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTile, uint8(t))
	}
	return json.Marshal(codes[t])
}

func (t *Tile) UnmarshalJSON(data []byte) error {
	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		return err
	}
	parsed, err := Parse(code)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
