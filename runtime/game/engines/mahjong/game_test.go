package mahjong

import "testing"

func TestGameAdvance(t *testing.T) {
	cases := []struct {
		name      string
		res       KyokuResult
		end       bool
		nextKyoku int
		nextHonba int
	}{
		{
			name:      "east 1 abortive draw repeats",
			res:       KyokuResult{Kyoku: 0, Honba: 2, Scores: [4]int{25000, 25000, 25000, 25000}, CanRenchan: true, HasAbortive: true},
			nextKyoku: 0,
			nextHonba: 3,
		},
		{
			name:      "ko win resets honba",
			res:       KyokuResult{Kyoku: 2, Honba: 1, Scores: [4]int{20000, 30000, 25000, 25000}, HasHora: true},
			nextKyoku: 3,
		},
		{
			name:      "exhaustive draw with noten dealer",
			res:       KyokuResult{Kyoku: 5, Honba: 0, Scores: [4]int{24000, 26000, 25000, 25000}},
			nextKyoku: 6,
			nextHonba: 1,
		},
		{
			name:      "south 4 renchan with ko on top continues",
			res:       KyokuResult{Kyoku: 7, Scores: [4]int{31000, 20000, 20000, 29000}, CanRenchan: true, HasHora: true},
			nextKyoku: 7,
			nextHonba: 1,
		},
		{
			name:      "south 4 renchan with dealer on top ends",
			res:       KyokuResult{Kyoku: 7, Scores: [4]int{20000, 20000, 28000, 32000}, CanRenchan: true, HasHora: true},
			end:       true,
			nextKyoku: 7,
			nextHonba: 1,
		},
		{
			name:      "south 4 ko win over target ends",
			res:       KyokuResult{Kyoku: 7, Scores: [4]int{30000, 20000, 25000, 25000}, HasHora: true},
			end:       true,
			nextKyoku: 8,
		},
		{
			name:      "south 4 below target enters west",
			res:       KyokuResult{Kyoku: 7, Scores: [4]int{29000, 21000, 25000, 25000}, HasHora: true},
			nextKyoku: 8,
		},
		{
			name:      "west renchan ends once anyone reaches target",
			res:       KyokuResult{Kyoku: 8, Scores: [4]int{20000, 31000, 25000, 24000}, CanRenchan: true, HasHora: true},
			end:       true,
			nextKyoku: 8,
			nextHonba: 1,
		},
		{
			name:      "west renchan below target continues",
			res:       KyokuResult{Kyoku: 9, Honba: 1, Scores: [4]int{26000, 24000, 25000, 25000}, CanRenchan: true},
			nextKyoku: 9,
			nextHonba: 2,
		},
		{
			name:      "west 4 is the last kyoku",
			res:       KyokuResult{Kyoku: 11, Scores: [4]int{26000, 24000, 25000, 25000}, HasHora: true},
			end:       true,
			nextKyoku: 12,
		},
		{
			name:      "bust ends immediately",
			res:       KyokuResult{Kyoku: 1, Scores: [4]int{-100, 40000, 30100, 30000}, HasHora: true},
			end:       true,
			nextKyoku: 2,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g := NewGame(GameConfig{}, [4]Reactor{})
			g.kyoku, g.honba = c.res.Kyoku, c.res.Honba
			res := c.res
			if got := g.advance(&res); got != c.end {
				t.Fatalf("advance = %v, want %v", got, c.end)
			}
			if g.kyoku != c.nextKyoku || g.honba != c.nextHonba {
				t.Fatalf("next kyoku=%d honba=%d, want %d %d", g.kyoku, g.honba, c.nextKyoku, c.nextHonba)
			}
			for i, p := range g.Players {
				if p.Points != c.res.Scores[i] {
					t.Fatalf("seat %d points %d", i, p.Points)
				}
			}
		})
	}
}
