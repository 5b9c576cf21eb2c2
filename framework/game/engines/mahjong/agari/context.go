package agari

import "gomahjong/framework/game/engines/mahjong/tile"

// mentsu 面子，顺子记录首张
type mentsu struct {
	first tile.Tile
	run   bool
	open  bool
	kan   bool
}

func (m mentsu) hasYaokyuu() bool {
	if m.run {
		r := m.first.Rank()
		return r == 1 || r == 7
	}
	return m.first.IsYaokyuu()
}

// divContext 一种分解下判役、算符所需的全部信息
type divContext struct {
	calc   *Calculator
	div    *Div
	chitoi bool

	sets    [4]mentsu
	numSets int
	pair    tile.Tile
	// 门内与副露合计的全部牌
	all tile.Hand34

	concealedKotsu int
	kotsuTotal     int
	kans           int
	dragonKotsu    int
	windKotsu      int

	closedWait bool // 可以解释为单骑、嵌张或边张
	pinfu      bool
	iipeikou   bool
	ryanpeikou bool
}

func newChitoiContext(c *Calculator) *divContext {
	ctx := &divContext{calc: c, chitoi: true, all: *c.Tehai}
	return ctx
}

func newDivContext(c *Calculator, div *Div, pos *positions) *divContext {
	ctx := &divContext{calc: c, div: div}
	win := c.WinningTile.Deaka()
	ctx.pair = pos.at(div.Pair)

	for _, idx := range div.ShuntsuIdxs() {
		ctx.add(mentsu{first: pos.at(idx), run: true})
	}
	winInRun := false
	for i := 0; i < ctx.numSets; i++ {
		if s := ctx.sets[i].first; win >= s && win <= s+2 {
			winInRun = true
		}
	}
	winInPair := ctx.pair == win

	for _, idx := range div.KotsuIdxs() {
		k := pos.at(idx)
		m := mentsu{first: k}
		if containsTile(c.Ankans, k) {
			m.kan = true
		} else if c.IsRon && k == win && !winInRun && !winInPair {
			// 双碰荣和，和了牌所在的刻子视为明刻
			m.open = true
		}
		ctx.add(m)
	}
	for _, k := range c.Chis {
		ctx.add(mentsu{first: k.Deaka(), run: true, open: true})
	}
	for _, k := range c.Pons {
		ctx.add(mentsu{first: k.Deaka(), open: true})
	}
	for _, k := range c.Minkans {
		ctx.add(mentsu{first: k.Deaka(), open: true, kan: true})
	}

	ctx.all[ctx.pair] += 2
	for i := 0; i < ctx.numSets; i++ {
		m := ctx.sets[i]
		if m.run {
			ctx.all[m.first]++
			ctx.all[m.first+1]++
			ctx.all[m.first+2]++
			continue
		}
		ctx.all[m.first] += 3
		ctx.kotsuTotal++
		if !m.open {
			ctx.concealedKotsu++
		}
		if m.kan {
			ctx.kans++
		}
		switch {
		case m.first >= haku:
			ctx.dragonKotsu++
		case m.first >= tile.East:
			ctx.windKotsu++
		}
	}

	tanki := winInPair
	kanchan, penchan, ryanmen := false, false, false
	for _, idx := range div.ShuntsuIdxs() {
		s := pos.at(idx)
		r := s.Rank()
		switch win {
		case s + 1:
			kanchan = true
		case s:
			if r == 7 {
				penchan = true
			} else {
				ryanmen = true
			}
		case s + 2:
			if r == 1 {
				penchan = true
			} else {
				ryanmen = true
			}
		}
	}
	ctx.closedWait = tanki || kanchan || penchan
	ctx.pinfu = c.IsMenzen && c.meldCount() == 0 && div.NumShuntsu == 4 && ryanmen && ctx.pairFu() == 0

	if len(c.Ankans) == 0 {
		ctx.iipeikou, ctx.ryanpeikou = div.HasIipeikou, div.HasRyanpeikou
	} else {
		ctx.iipeikou, ctx.ryanpeikou = scanPeikou(div, pos)
	}
	return ctx
}

// scanPeikou 有暗杠时不用表内标记，直接数重复顺子
func scanPeikou(div *Div, pos *positions) (iipeikou, ryanpeikou bool) {
	var runs [tile.KindCount]uint8
	for _, idx := range div.ShuntsuIdxs() {
		runs[pos.at(idx)]++
	}
	dup := 0
	for _, n := range runs {
		dup += int(n) / 2
	}
	return dup == 1, dup == 2
}

func (ctx *divContext) add(m mentsu) {
	ctx.sets[ctx.numSets] = m
	ctx.numSets++
}

func (ctx *divContext) pairFu() int {
	fu := 0
	if ctx.pair >= haku && ctx.pair <= chun {
		fu += 2
	}
	if ctx.pair == ctx.calc.Bakaze.Deaka() {
		fu += 2
	}
	if ctx.pair == ctx.calc.Jikaze.Deaka() {
		fu += 2
	}
	return fu
}

// fu 该分解下的符数，已进位到 10
func (ctx *divContext) fu() int {
	c := ctx.calc
	if ctx.chitoi {
		return 25
	}
	if ctx.pinfu {
		if c.IsRon {
			return 30
		}
		return 20
	}
	fu := 20
	for i := 0; i < ctx.numSets; i++ {
		m := ctx.sets[i]
		if m.run {
			continue
		}
		f := 2
		if m.first.IsYaokyuu() {
			f *= 2
		}
		if !m.open {
			f *= 2
		}
		if m.kan {
			f *= 4
		}
		fu += f
	}
	fu += ctx.pairFu()
	if ctx.closedWait {
		fu += 2
	}
	switch {
	case c.IsRon && c.IsMenzen:
		fu += 10
	case !c.IsRon:
		fu += 2
	}
	if fu == 20 {
		// 副露的平和形荣和
		return 30
	}
	return (fu + 9) / 10 * 10
}

// evaluate 按注册表判役。stopAtFirst 时命中一个役即返回
func (ctx *divContext) evaluate(stopAtFirst bool) (Agari, bool) {
	var a Agari
	for _, checker := range yakumanRegistry {
		if _, n := checker.Check(ctx); n > 0 {
			a.Yakuman += n
			a.Yakus.Add(checker.ID())
			if stopAtFirst {
				return a, true
			}
		}
	}
	if a.Yakuman > 0 {
		return a, true
	}
	for _, checker := range yakuRegistry {
		if h, _ := checker.Check(ctx); h > 0 {
			a.Han += h
			a.Yakus.Add(checker.ID())
			if stopAtFirst {
				return a, true
			}
		}
	}
	if a.Han == 0 {
		return Agari{}, false
	}
	a.Fu = ctx.fu()
	return a, true
}

func (ctx *divContext) eachPresent(fn func(t tile.Tile) bool) bool {
	for i, n := range ctx.all {
		if n > 0 && !fn(tile.Tile(i)) {
			return false
		}
	}
	return true
}

func (ctx *divContext) noYaokyuu() bool {
	return ctx.eachPresent(func(t tile.Tile) bool { return !t.IsYaokyuu() })
}

func (ctx *divContext) allHonors() bool {
	return ctx.eachPresent(func(t tile.Tile) bool { return t.IsJihai() })
}

func (ctx *divContext) allTerminals() bool {
	return ctx.eachPresent(func(t tile.Tile) bool { return t.IsTerminal() })
}

func (ctx *divContext) allGreen() bool {
	return ctx.eachPresent(func(t tile.Tile) bool {
		switch t {
		case tile.So2, tile.So3, tile.So4, tile.So6, tile.So8, hatsu:
			return true
		}
		return false
	})
}

func (ctx *divContext) honroutou() bool {
	return ctx.eachPresent(func(t tile.Tile) bool { return t.IsYaokyuu() })
}

func (ctx *divContext) hasHonor() bool {
	return !ctx.eachPresent(func(t tile.Tile) bool { return !t.IsJihai() })
}

// suits 出现的数牌花色数
func (ctx *divContext) suits() int {
	var seen [3]bool
	ctx.eachPresent(func(t tile.Tile) bool {
		if !t.IsJihai() {
			seen[t.Suit()] = true
		}
		return true
	})
	n := 0
	for _, s := range seen {
		if s {
			n++
		}
	}
	return n
}

func (ctx *divContext) chinitsu() bool {
	return ctx.suits() == 1 && !ctx.hasHonor()
}

func (ctx *divContext) honitsu() bool {
	return ctx.suits() == 1 && ctx.hasHonor()
}

func (ctx *divContext) hasKotsuOf(k tile.Tile) bool {
	for i := 0; i < ctx.numSets; i++ {
		if m := ctx.sets[i]; !m.run && m.first == k {
			return true
		}
	}
	return false
}

func (ctx *divContext) pairIsWind() bool {
	return !ctx.chitoi && ctx.pair >= tile.East && ctx.pair <= tile.North
}

func (ctx *divContext) pairIsDragon() bool {
	return !ctx.chitoi && ctx.pair >= haku && ctx.pair <= chun
}

// runRanks 每个花色出现的顺子首张点数
func (ctx *divContext) runRanks() [3][10]bool {
	var out [3][10]bool
	for i := 0; i < ctx.numSets; i++ {
		if m := ctx.sets[i]; m.run {
			out[m.first.Suit()][m.first.Rank()] = true
		}
	}
	return out
}

func (ctx *divContext) sanshoku() bool {
	runs := ctx.runRanks()
	for r := 1; r <= 7; r++ {
		if runs[0][r] && runs[1][r] && runs[2][r] {
			return true
		}
	}
	return false
}

func (ctx *divContext) sanshokuDoukou() bool {
	var kotsu [3][10]bool
	for i := 0; i < ctx.numSets; i++ {
		if m := ctx.sets[i]; !m.run && !m.first.IsJihai() {
			kotsu[m.first.Suit()][m.first.Rank()] = true
		}
	}
	for r := 1; r <= 9; r++ {
		if kotsu[0][r] && kotsu[1][r] && kotsu[2][r] {
			return true
		}
	}
	return false
}

func (ctx *divContext) ittsuu() bool {
	if ctx.chitoi {
		return false
	}
	if len(ctx.calc.Chis) == 0 {
		return ctx.div.HasIttsuu
	}
	runs := ctx.runRanks()
	for s := 0; s < 3; s++ {
		if runs[s][1] && runs[s][4] && runs[s][7] {
			return true
		}
	}
	return false
}

// chanta 每组面子与雀头都含幺九牌，且至少有一组顺子
func (ctx *divContext) chanta() bool {
	if ctx.chitoi || !ctx.pair.IsYaokyuu() {
		return false
	}
	hasRun := false
	for i := 0; i < ctx.numSets; i++ {
		m := ctx.sets[i]
		if !m.hasYaokyuu() {
			return false
		}
		hasRun = hasRun || m.run
	}
	return hasRun
}

func (ctx *divContext) junchan() bool {
	return ctx.chanta() && !ctx.hasHonor()
}
