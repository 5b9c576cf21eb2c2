package agari

import (
	"gomahjong/framework/game/engines/mahjong/shanten"
	"gomahjong/framework/game/engines/mahjong/tile"
)

const (
	haku  = tile.White
	hatsu = tile.Green
	chun  = tile.Red
)

// Agari 和了结果。Yakuman > 0 时 Fu 与 Han 不参与计分
type Agari struct {
	Yakuman int
	Fu      int
	Han     int
	Yakus   YakuSet
}

// Better 是否严格优于 b：役满倍数、番、符依次比较
func (a Agari) Better(b Agari) bool {
	if a.Yakuman != b.Yakuman {
		return a.Yakuman > b.Yakuman
	}
	if a.Han != b.Han {
		return a.Han > b.Han
	}
	return a.Fu > b.Fu
}

// Calculator 一次和了判定的输入。
// Tehai 为门内手牌并且已包含和了牌，暗杠不计入 Tehai。
// Chis 记录顺子首张，其余副露记录牌种。
type Calculator struct {
	Tehai       *tile.Hand34
	IsMenzen    bool
	Chis        []tile.Tile
	Pons        []tile.Tile
	Minkans     []tile.Tile
	Ankans      []tile.Tile
	Bakaze      tile.Tile
	Jikaze      tile.Tile
	WinningTile tile.Tile
	IsRon       bool
}

func (c *Calculator) meldCount() int {
	return len(c.Chis) + len(c.Pons) + len(c.Minkans) + len(c.Ankans)
}

// SearchYakus 求不计场况役与宝牌时的最高得分，无役返回 false
func (c *Calculator) SearchYakus() (Agari, bool) {
	return c.search(false)
}

// HasYaku 是否至少有一个役，命中即返回
func (c *Calculator) HasYaku() bool {
	_, ok := c.search(true)
	return ok
}

// Agari 加上场况役番数与宝牌数后的结果。
// 手牌本身无役时，只有 additionalHans > 0 才能成立，符数取所有分解中的最大值。
func (c *Calculator) Agari(additionalHans, doras int) (Agari, bool) {
	if a, ok := c.SearchYakus(); ok {
		if a.Yakuman == 0 {
			a.Han += additionalHans + doras
		}
		return a, true
	}
	if additionalHans == 0 {
		return Agari{}, false
	}
	fu := 0
	c.eachContext(func(ctx *divContext) bool {
		if f := ctx.fu(); f > fu {
			fu = f
		}
		return true
	})
	if fu == 0 {
		return Agari{}, false
	}
	return Agari{Fu: fu, Han: additionalHans + doras}, true
}

func (c *Calculator) search(stopAtFirst bool) (Agari, bool) {
	if c.isKokushi() {
		a := Agari{Yakuman: 1}
		a.Yakus.Add(YakuKokushi)
		return a, true
	}
	var best Agari
	found := false
	c.eachContext(func(ctx *divContext) bool {
		a, ok := ctx.evaluate(stopAtFirst)
		if !ok {
			return true
		}
		if !found || a.Better(best) {
			best = a
			found = true
		}
		return !stopAtFirst
	})
	return best, found
}

func (c *Calculator) isKokushi() bool {
	return c.IsMenzen && c.meldCount() == 0 && c.Tehai.Sum() == 14 && shanten.CalcKokushi(c.Tehai) == -1
}

func (c *Calculator) isChitoiShape() bool {
	if !c.IsMenzen || c.meldCount() != 0 {
		return false
	}
	pairs := 0
	for _, n := range c.Tehai {
		switch n {
		case 0:
		case 2:
			pairs++
		default:
			return false
		}
	}
	return pairs == 7
}

// eachContext 依次生成七对子与每个合法分解的上下文，fn 返回 false 时停止
func (c *Calculator) eachContext(fn func(ctx *divContext) bool) {
	if c.isChitoiShape() {
		if !fn(newChitoiContext(c)) {
			return
		}
	}

	full := *c.Tehai
	for _, k := range c.Ankans {
		full[k.Deaka()] += 3
	}
	key, pos, ok := keyWithPositions(&full)
	if !ok {
		return
	}
	divs := Lookup(key)
	for i := range divs {
		div := &divs[i]
		if !ankansAreKotsu(div, &pos, c.Ankans) {
			continue
		}
		if !fn(newDivContext(c, div, &pos)) {
			return
		}
	}
}

func ankansAreKotsu(div *Div, pos *positions, ankans []tile.Tile) bool {
	for _, k := range ankans {
		p := pos.find(k.Deaka())
		if p < 0 || !containsIdx(div.KotsuIdxs(), uint8(p)) {
			return false
		}
	}
	return true
}

func containsIdx(s []uint8, v uint8) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func containsTile(s []tile.Tile, v tile.Tile) bool {
	for _, x := range s {
		if x.Deaka() == v {
			return true
		}
	}
	return false
}
