package tile

import (
	"encoding/json"
	"testing"
)

func TestNextPrevCycle(t *testing.T) {
	cases := []struct {
		in, next Tile
	}{
		{Man1, Man2},
		{Man9, Man1},
		{Pin9, Pin1},
		{So5Red, So6},
		{North, East},
		{East, South},
		{Red, White},
		{White, Green},
	}
	for _, c := range cases {
		if got := c.in.Next(); got != c.next {
			t.Errorf("%s.Next() = %s, want %s", c.in, got, c.next)
		}
		if got := c.next.Prev(); got != c.in.Deaka() {
			t.Errorf("%s.Prev() = %s, want %s", c.next, got, c.in.Deaka())
		}
	}
}

func TestClassification(t *testing.T) {
	if !Man1.IsYaokyuu() || !So9.IsYaokyuu() || !Green.IsYaokyuu() {
		t.Fatalf("terminal and honor tiles should be yaokyuu")
	}
	if Man5Red.IsYaokyuu() || Pin2.IsYaokyuu() {
		t.Fatalf("simples should not be yaokyuu")
	}
	if !Man5Red.IsAka() || Man5.IsAka() {
		t.Fatalf("aka detection broken")
	}
	if Pin5Red.Deaka() != Pin5 || So5.Akaize() != So5Red || East.Akaize() != East {
		t.Fatalf("deaka/akaize broken")
	}
	if Unknown.IsYaokyuu() || Unknown.IsJihai() {
		t.Fatalf("unknown tile must not classify")
	}
	if So7.Suit() != 2 || So7.Rank() != 7 || Red.Suit() != 3 || Red.Rank() != 7 {
		t.Fatalf("suit/rank broken: %d %d %d %d", So7.Suit(), So7.Rank(), Red.Suit(), Red.Rank())
	}
}

func TestCodesRoundTrip(t *testing.T) {
	for i := 0; i < Count; i++ {
		tl := Tile(i)
		got, err := Parse(tl.String())
		if err != nil {
			t.Fatalf("parse %s: %v", tl, err)
		}
		if got != tl {
			t.Fatalf("round trip %s -> %s", tl, got)
		}
	}
	if _, err := Parse("0m"); err == nil {
		t.Fatalf("expected error for 0m")
	}
}

func TestJSON(t *testing.T) {
	raw, err := json.Marshal([]Tile{Man5Red, East, Unknown})
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `["5mr","E","?"]` {
		t.Fatalf("unexpected json %s", raw)
	}
	var back []Tile
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if len(back) != 3 || back[0] != Man5Red || back[2] != Unknown {
		t.Fatalf("unexpected decode %v", back)
	}
	var bad Tile
	if err := json.Unmarshal([]byte(`"10m"`), &bad); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestParseHand(t *testing.T) {
	h, akas, err := ParseHand("2234455m 0p 11z")
	if err != nil {
		t.Fatal(err)
	}
	if akas != 1 {
		t.Fatalf("akas = %d", akas)
	}
	if h[Man2] != 2 || h[Man3] != 1 || h[Pin5] != 1 || h[East] != 2 || h.Sum() != 10 {
		t.Fatalf("unexpected hand %v", h)
	}
	if h.String() != "2234455m5p11z" {
		t.Fatalf("String() = %s", h.String())
	}
	if _, _, err := ParseHand("11111m"); err == nil {
		t.Fatalf("expected error for five copies")
	}
	if _, _, err := ParseHand("123"); err == nil {
		t.Fatalf("expected error for missing suit")
	}
}
