package tile

import (
	"fmt"
	"strings"
)

// Hand34 按种类计数的手牌
type Hand34 [KindCount]uint8

// Sum 总张数
func (h *Hand34) Sum() int {
	n := 0
	for _, c := range h {
		n += int(c)
	}
	return n
}

func (h *Hand34) Add(t Tile) {
	h[t.Index()]++
}

func (h *Hand34) Remove(t Tile) {
	h[t.Index()]--
}

// Key 用作缓存键
func (h *Hand34) Key() string {
	var b [KindCount]byte
	for i, c := range h {
		b[i] = '0' + c
	}
	return string(b[:])
}

func (h *Hand34) String() string {
	var sb strings.Builder
	suits := [4]byte{'m', 'p', 's', 'z'}
	for s := 0; s < 4; s++ {
		n := 9
		if s == 3 {
			n = 7
		}
		wrote := false
		for r := 0; r < n; r++ {
			for c := uint8(0); c < h[s*9+r]; c++ {
				sb.WriteByte(byte('1' + r))
				wrote = true
			}
		}
		if wrote {
			sb.WriteByte(suits[s])
		}
	}
	return sb.String()
}

// ParseTiles 解析天凤式手牌串，如 "2234455m 0p 11z"，0 表示赤五
func ParseTiles(s string) ([]Tile, error) {
	var out []Tile
	var pending []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ':
			continue
		case c >= '0' && c <= '9':
			pending = append(pending, c)
		case c == 'm' || c == 'p' || c == 's' || c == 'z':
			if len(pending) == 0 {
				return nil, fmt.Errorf("%w: 花色 %q 前没有数字", ErrInvalidTile, c)
			}
			for _, d := range pending {
				t, err := fromDigit(d, c)
				if err != nil {
					return nil, err
				}
				out = append(out, t)
			}
			pending = pending[:0]
		default:
			return nil, fmt.Errorf("%w: 无法识别的字符 %q", ErrInvalidTile, c)
		}
	}
	if len(pending) != 0 {
		return nil, fmt.Errorf("%w: 结尾缺少花色", ErrInvalidTile)
	}
	return out, nil
}

func fromDigit(d, suit byte) (Tile, error) {
	if suit == 'z' {
		if d < '1' || d > '7' {
			return Unknown, fmt.Errorf("%w: %c%c", ErrInvalidTile, d, suit)
		}
		return East + Tile(d-'1'), nil
	}
	base := map[byte]Tile{'m': Man1, 'p': Pin1, 's': So1}[suit]
	if d == '0' {
		return (base + 4).Akaize(), nil
	}
	return base + Tile(d-'1'), nil
}

// ParseHand 解析为计数手牌，返回赤五张数
func ParseHand(s string) (Hand34, int, error) {
	var h Hand34
	tiles, err := ParseTiles(s)
	if err != nil {
		return h, 0, err
	}
	akas := 0
	for _, t := range tiles {
		if t.IsAka() {
			akas++
		}
		h.Add(t)
		if h[t.Index()] > 4 {
			return h, 0, fmt.Errorf("%w: %s 超过 4 张", ErrInvalidTile, t.Deaka())
		}
	}
	return h, akas, nil
}

// MustParseHand 仅用于测试
func MustParseHand(s string) Hand34 {
	h, _, err := ParseHand(s)
	if err != nil {
		panic(err)
	}
	return h
}

// MustParseTiles 仅用于测试
func MustParseTiles(s string) []Tile {
	ts, err := ParseTiles(s)
	if err != nil {
		panic(err)
	}
	return ts
}

// ToHand34 实体牌列表转计数
func ToHand34(tiles []Tile) Hand34 {
	var h Hand34
	for _, t := range tiles {
		if t.IsUnknown() {
			continue
		}
		h.Add(t)
	}
	return h
}
