package mahjong

import (
	"testing"
	"time"

	"gomahjong/common/cache"
	"gomahjong/framework/game/engines/mahjong/tile"
)

func newCachedSearcher(t *testing.T) *Searcher {
	c, err := cache.NewGeneralCache(1<<14, time.Minute)
	if err != nil {
		t.Fatalf("NewGeneralCache: %v", err)
	}
	t.Cleanup(c.Close)
	return NewSearcher(c)
}

func TestSearcher_ChiitoiWaits(t *testing.T) {
	s := newCachedSearcher(t)
	h := tile.MustParseHand("112233m 1122p 11s 1z")
	sh := s.Shanten(&h, 4)
	if sh != 0 {
		t.Fatalf("shanten = %d, want 0", sh)
	}
	waits, ukeire := s.WaitsAndUkeire(&h, 4, sh, nil)
	if len(waits) == 0 {
		t.Fatal("expected waits")
	}
	hasEast := false
	for _, w := range waits {
		if w == tile.East {
			hasEast = true
		}
	}
	if !hasEast {
		t.Fatalf("waits %v missing E", waits)
	}
	if ukeire < 3 {
		t.Fatalf("ukeire = %d", ukeire)
	}
}

func TestSearcher_CachedMatchesDirect(t *testing.T) {
	cached := newCachedSearcher(t)
	plain := NewSearcher(nil)
	hands := []string{"123m 456p 789s 1122z", "147m 258p 369s 1234z", "11223344556677z"}
	for _, hs := range hands {
		h := tile.MustParseHand(hs)
		first := cached.Shanten(&h, 4)
		cached.cache.Wait()
		if second := cached.Shanten(&h, 4); second != first {
			t.Fatalf("%s: cached %d then %d", hs, first, second)
		}
		if want := plain.Shanten(&h, 4); want != first {
			t.Fatalf("%s: cached %d, direct %d", hs, first, want)
		}
	}
}

func TestSearcher_SeekCandidates(t *testing.T) {
	s := NewSearcher(nil)
	hand := tile.MustParseTiles("123m 406p 789s 1122z 9m")
	cands := s.SeekCandidates(hand, 4, nil)
	best, ok := Best(cands)
	if !ok {
		t.Fatal("no candidates")
	}
	if best.Discard != tile.Man9 || best.Shanten != 0 {
		t.Fatalf("best = %+v, want discard 9m at tenpai", best)
	}
	for _, c := range cands {
		if c.Discard == tile.Pin5 && (len(c.DiscardOptions) != 1 || !c.DiscardOptions[0].IsAka()) {
			t.Fatalf("5p options = %v", c.DiscardOptions)
		}
	}
}

func TestSearcher_VisibleReducesUkeire(t *testing.T) {
	s := NewSearcher(nil)
	h := tile.MustParseHand("123m 456p 789s 11z 23s")
	_, full := s.WaitsAndUkeire(&h, 4, 0, nil)
	var visible [tile.KindCount]uint8
	visible[tile.So1] = 2
	_, seen := s.WaitsAndUkeire(&h, 4, 0, &visible)
	if full != 8 || seen != 6 {
		t.Fatalf("ukeire full=%d seen=%d, want 8 and 6", full, seen)
	}
}
