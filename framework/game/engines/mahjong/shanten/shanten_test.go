package shanten

import (
	"math/rand/v2"
	"sync"
	"testing"

	"gomahjong/framework/game/engines/mahjong/tile"
)

func TestCalcAllFixtures(t *testing.T) {
	cases := []struct {
		hand    string
		lenDiv3 int
		want    int8
	}{
		{"123m 456p 789s 1122z", 4, 0},
		{"123m 456p 789s 11222z", 4, -1},
		{"1112345678999m", 4, 0},
		{"11223344556677z", 4, -1},
		{"1122334455667z", 4, 0},
		{"19m 19p 19s 1234567z", 4, 0},
		{"19m 19p 19s 12345677z", 4, -1},
		{"147m 258p 369s 1234z", 4, 6},
		{"12m 45p 78s", 2, 2},
		{"5m", 0, 0},
		{"55m", 0, -1},
		{"2234455m 234p 234s", 4, 0},
		{"2255m 445p 667788s", 4, 0},
		{"12345m 567s 11222z", 4, 0},
	}
	for _, c := range cases {
		h := tile.MustParseHand(c.hand)
		if got := CalcAll(&h, c.lenDiv3); got != c.want {
			t.Errorf("CalcAll(%s, %d) = %d, want %d", c.hand, c.lenDiv3, got, c.want)
		}
	}
}

func TestSpecialShapesOnlyWithoutMelds(t *testing.T) {
	h := tile.MustParseHand("19m 19p 19s 1234567z")
	if got := CalcAll(&h, 3); got <= 0 {
		t.Fatalf("kokushi shape must not count with melds, got %d", got)
	}
	if got := CalcKokushi(&h); got != 0 {
		t.Fatalf("CalcKokushi = %d, want 0", got)
	}
	h2 := tile.MustParseHand("1122334455667z")
	if got := CalcChitoi(&h2); got != 0 {
		t.Fatalf("CalcChitoi = %d, want 0", got)
	}
	// 四张相同不能算两对
	h3 := tile.MustParseHand("1111m 2233p 4455s 6z")
	if got := CalcChitoi(&h3); got != 2 {
		t.Fatalf("CalcChitoi with quad = %d, want 2", got)
	}
}

// refShanten 面子/搭子计数的朴素搜索
func refShanten(h tile.Hand34, setsNeeded int) int {
	best := 8
	var dfs func(i, m, t, p int)
	dfs = func(i, m, t, p int) {
		for i < 34 && h[i] == 0 {
			i++
		}
		if i == 34 {
			tt := t
			if tt > setsNeeded-m {
				tt = setsNeeded - m
			}
			s := 2*(setsNeeded-m) - tt - p
			if s < best {
				best = s
			}
			return
		}
		suited := i < 27
		if h[i] >= 3 && m < setsNeeded {
			h[i] -= 3
			dfs(i, m+1, t, p)
			h[i] += 3
		}
		if suited && i%9 <= 6 && h[i+1] > 0 && h[i+2] > 0 && m < setsNeeded {
			h[i]--
			h[i+1]--
			h[i+2]--
			dfs(i, m+1, t, p)
			h[i]++
			h[i+1]++
			h[i+2]++
		}
		if p == 0 && h[i] >= 2 {
			h[i] -= 2
			dfs(i, m, t, 1)
			h[i] += 2
		}
		if h[i] >= 2 {
			h[i] -= 2
			dfs(i, m, t+1, p)
			h[i] += 2
		}
		if suited && i%9 <= 7 && h[i+1] > 0 {
			h[i]--
			h[i+1]--
			dfs(i, m, t+1, p)
			h[i]++
			h[i+1]++
		}
		if suited && i%9 <= 6 && h[i+2] > 0 {
			h[i]--
			h[i+2]--
			dfs(i, m, t+1, p)
			h[i]++
			h[i+2]++
		}
		h[i]--
		dfs(i, m, t, p)
		h[i]++
	}
	dfs(0, 0, 0, 0)
	return best
}

func TestCalcNormalAgainstSearch(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for trial := 0; trial < 1500; trial++ {
		sets := []int{4, 4, 4, 3, 2, 1}[rng.IntN(6)]
		n := 3*sets + 1 + rng.IntN(2)

		// 每种最多两张，避免朴素搜索需要第五张牌的情况
		var pool []int
		limit := 34
		if trial%3 == 0 {
			limit = 9
		}
		for k := 0; k < limit; k++ {
			pool = append(pool, k, k)
		}
		if trial%3 == 0 {
			pool = append(pool, 27, 27, 31, 31)
		}
		rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		if n > len(pool) {
			n = len(pool)
		}
		var h tile.Hand34
		for _, k := range pool[:n] {
			h[k]++
		}

		got := int(CalcNormal(&h, sets))
		want := refShanten(h, sets)
		if got != want {
			t.Fatalf("hand %s sets %d: table %d, search %d", h.String(), sets, got, want)
		}
	}
}

func TestTableMatchesDirectComputation(t *testing.T) {
	Ensure()
	rng := rand.New(rand.NewPCG(3, 5))
	for trial := 0; trial < 2000; trial++ {
		var counts [9]uint8
		sum := 0
		for i := range counts {
			c := uint8(rng.IntN(5))
			if sum+int(c) > maxCount {
				c = 0
			}
			counts[i] = c
			sum += int(c)
		}
		if suitTable.lookup(counts[:]) != groupDistance(counts[:], true) {
			t.Fatalf("suit table mismatch for %v", counts)
		}
		if honorTable.lookup(counts[:7]) != groupDistance(counts[:7], false) {
			t.Fatalf("honor table mismatch for %v", counts[:7])
		}
	}
}

func TestConcurrentFirstUse(t *testing.T) {
	h := tile.MustParseHand("123m 456p 789s 1122z")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := CalcAll(&h, 4); got != 0 {
				t.Errorf("concurrent CalcAll = %d", got)
			}
		}()
	}
	wg.Wait()
}

func TestWaits(t *testing.T) {
	h := tile.MustParseHand("12345m 567s 11222z")
	w := Waits(&h, 4)
	for k, ok := range w {
		want := k == int(tile.Man3) || k == int(tile.Man6)
		if ok != want {
			t.Fatalf("wait %s = %v, want %v", tile.Tile(k), ok, want)
		}
	}
}
