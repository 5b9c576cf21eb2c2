package mahjong

import (
	"gomahjong/common/cache"
	"gomahjong/framework/game/engines/mahjong/shanten"
	"gomahjong/framework/game/engines/mahjong/tile"
)

// Candidate 一种弃牌选择的评估结果
type Candidate struct {
	Discard        tile.Tile   // 牌种（去赤）
	DiscardOptions []tile.Tile // 实体牌：赤五与普通五都可选时由调用方决定
	Shanten        int8        // 弃牌后的向听数
	Waits          []tile.Tile // 向听前进的牌种，听牌时即听牌
	Ukeire         int         // 有效张数
}

// Searcher 弃牌评估，向听数结果缓存在本地缓存中
type Searcher struct {
	cache *cache.GeneralCache
}

// NewSearcher c 为 nil 时不缓存
func NewSearcher(c *cache.GeneralCache) *Searcher {
	return &Searcher{cache: c}
}

// SeekCandidates 对 3n+2 张手牌的每种弃牌计算向听数与进张
func (s *Searcher) SeekCandidates(hand []tile.Tile, lenDiv3 int, visible *[tile.KindCount]uint8) []Candidate {
	h, opts := Hand34FromTiles(hand)
	var out []Candidate
	for i := 0; i < tile.KindCount; i++ {
		if h[i] == 0 {
			continue
		}
		after := h
		after[i]--
		sh := s.Shanten(&after, lenDiv3)
		waits, ukeire := s.WaitsAndUkeire(&after, lenDiv3, sh, visible)
		out = append(out, Candidate{
			Discard:        tile.Tile(i),
			DiscardOptions: opts[i],
			Shanten:        sh,
			Waits:          waits,
			Ukeire:         ukeire,
		})
	}
	return out
}

// Best 向听数最小、进张最多者，同分取牌序靠后的（优先切字牌和老头牌）
func Best(cands []Candidate) (Candidate, bool) {
	if len(cands) == 0 {
		return Candidate{}, false
	}
	best := cands[0]
	for _, c := range cands[1:] {
		switch {
		case c.Shanten < best.Shanten:
			best = c
		case c.Shanten == best.Shanten && c.Ukeire > best.Ukeire:
			best = c
		case c.Shanten == best.Shanten && c.Ukeire == best.Ukeire && yaokyuuFirst(c.Discard, best.Discard):
			best = c
		}
	}
	return best, true
}

func yaokyuuFirst(a, b tile.Tile) bool {
	if a.IsYaokyuu() != b.IsYaokyuu() {
		return a.IsYaokyuu()
	}
	return a > b
}

// Shanten 带缓存的向听数
func (s *Searcher) Shanten(h *tile.Hand34, lenDiv3 int) int8 {
	if s.cache == nil {
		return shanten.CalcAll(h, lenDiv3)
	}
	key := cacheKey(h, lenDiv3)
	if v, ok := s.cache.Get(key); ok {
		if sh, ok := v.(int8); ok {
			return sh
		}
	}
	sh := shanten.CalcAll(h, lenDiv3)
	s.cache.Set(key, sh)
	return sh
}

// WaitsAndUkeire 3n+1 张时能让向听前进的牌种与剩余张数
func (s *Searcher) WaitsAndUkeire(h13 *tile.Hand34, lenDiv3 int, cur int8, visible *[tile.KindCount]uint8) ([]tile.Tile, int) {
	var waits []tile.Tile
	ukeire := 0
	work := *h13
	for t := 0; t < tile.KindCount; t++ {
		if work[t] >= 4 {
			continue
		}
		work[t]++
		improved := s.Shanten(&work, lenDiv3) < cur
		work[t]--
		if !improved {
			continue
		}
		waits = append(waits, tile.Tile(t))
		left := 4 - int(h13[t])
		if visible != nil {
			left -= int(visible[t])
		}
		if left > 0 {
			ukeire += left
		}
	}
	return waits, ukeire
}

// Hand34FromTiles 计数并按牌种收集实体牌
func Hand34FromTiles(tiles []tile.Tile) (tile.Hand34, [tile.KindCount][]tile.Tile) {
	var h tile.Hand34
	var opts [tile.KindCount][]tile.Tile
	for _, t := range tiles {
		if t.IsUnknown() {
			continue
		}
		k := t.Deaka()
		h[k]++
		opts[k] = append(opts[k], t)
	}
	return h, opts
}

func cacheKey(h *tile.Hand34, lenDiv3 int) string {
	var b [tile.KindCount + 1]byte
	for i, c := range h {
		b[i] = '0' + c
	}
	b[tile.KindCount] = '0' + byte(lenDiv3)
	return string(b[:])
}
