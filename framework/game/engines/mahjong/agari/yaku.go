package agari

import "strings"

// Yaku 役种
type Yaku uint8

const (
	// 场况役（由调用方计算）
	YakuRiichi Yaku = iota
	YakuDoubleRiichi
	YakuIppatsu
	YakuHaitei
	YakuHoutei
	YakuRinshan
	YakuChankan

	// 一般役
	YakuMenzenTsumo
	YakuTanyao
	YakuPinfu
	YakuIipeikou
	YakuRyanpeikou
	YakuHaku
	YakuHatsu
	YakuChun
	YakuBakaze
	YakuJikaze
	YakuSanshoku
	YakuSanshokuDoukou
	YakuIttsuu
	YakuChanta
	YakuJunchan
	YakuHonroutou
	YakuToitoi
	YakuSanankou
	YakuSankantsu
	YakuShousangen
	YakuHonitsu
	YakuChinitsu
	YakuChiitoitsu

	// 宝牌
	YakuDora
	YakuAkaDora
	YakuUraDora

	// 役满
	YakuKokushi
	YakuSuuankou
	YakuDaisangen
	YakuShousuushii
	YakuDaisuushii
	YakuTsuuiisou
	YakuRyuuiisou
	YakuChinroutou
	YakuChuuren
	YakuSuukantsu
	YakuTenhou
	YakuChiihou

	yakuCount
)

var yakuNames = [yakuCount]string{
	"riichi", "double_riichi", "ippatsu", "haitei", "houtei", "rinshan", "chankan",
	"menzen_tsumo", "tanyao", "pinfu", "iipeikou", "ryanpeikou",
	"haku", "hatsu", "chun", "bakaze", "jikaze",
	"sanshoku", "sanshoku_doukou", "ittsuu", "chanta", "junchan", "honroutou",
	"toitoi", "sanankou", "sankantsu", "shousangen", "honitsu", "chinitsu", "chiitoitsu",
	"dora", "aka_dora", "ura_dora",
	"kokushi", "suuankou", "daisangen", "shousuushii", "daisuushii", "tsuuiisou",
	"ryuuiisou", "chinroutou", "chuuren", "suukantsu", "tenhou", "chiihou",
}

func (y Yaku) String() string {
	if y >= yakuCount {
		return "unknown"
	}
	return yakuNames[y]
}

// YakuSet 役种位集
type YakuSet uint64

func (s YakuSet) Has(y Yaku) bool {
	return s&(1<<y) != 0
}

func (s *YakuSet) Add(y Yaku) {
	*s |= 1 << y
}

func (s YakuSet) List() []Yaku {
	var out []Yaku
	for y := Yaku(0); y < yakuCount; y++ {
		if s.Has(y) {
			out = append(out, y)
		}
	}
	return out
}

func (s YakuSet) Names() []string {
	list := s.List()
	out := make([]string, len(list))
	for i, y := range list {
		out[i] = y.String()
	}
	return out
}

func (s YakuSet) String() string {
	return strings.Join(s.Names(), ",")
}

// YakuChecker 对一种分解判定单个役
type YakuChecker interface {
	ID() Yaku
	// Check 返回番数与役满倍数
	Check(ctx *divContext) (int, int)
}

type yakuCheckerFunc struct {
	id    Yaku
	check func(ctx *divContext) (int, int)
}

func (f yakuCheckerFunc) ID() Yaku { return f.id }

func (f yakuCheckerFunc) Check(ctx *divContext) (int, int) { return f.check(ctx) }

func han(ok bool, menzen, open int, isMenzen bool) (int, int) {
	if !ok {
		return 0, 0
	}
	if isMenzen {
		return menzen, 0
	}
	return open, 0
}

func yakuman(ok bool) (int, int) {
	if ok {
		return 0, 1
	}
	return 0, 0
}

// yakumanRegistry 先判役满，命中后不再计一般役
var yakumanRegistry = []YakuChecker{
	yakuCheckerFunc{id: YakuSuuankou, check: func(ctx *divContext) (int, int) {
		return yakuman(!ctx.chitoi && ctx.concealedKotsu == 4)
	}},
	yakuCheckerFunc{id: YakuDaisangen, check: func(ctx *divContext) (int, int) {
		return yakuman(ctx.dragonKotsu == 3)
	}},
	yakuCheckerFunc{id: YakuShousuushii, check: func(ctx *divContext) (int, int) {
		return yakuman(ctx.windKotsu == 3 && ctx.pairIsWind())
	}},
	yakuCheckerFunc{id: YakuDaisuushii, check: func(ctx *divContext) (int, int) {
		return yakuman(ctx.windKotsu == 4)
	}},
	yakuCheckerFunc{id: YakuTsuuiisou, check: func(ctx *divContext) (int, int) {
		return yakuman(ctx.allHonors())
	}},
	yakuCheckerFunc{id: YakuRyuuiisou, check: func(ctx *divContext) (int, int) {
		return yakuman(ctx.allGreen())
	}},
	yakuCheckerFunc{id: YakuChinroutou, check: func(ctx *divContext) (int, int) {
		return yakuman(ctx.allTerminals())
	}},
	yakuCheckerFunc{id: YakuChuuren, check: func(ctx *divContext) (int, int) {
		return yakuman(ctx.div != nil && ctx.div.HasChuuren && ctx.calc.IsMenzen && ctx.calc.meldCount() == 0)
	}},
	yakuCheckerFunc{id: YakuSuukantsu, check: func(ctx *divContext) (int, int) {
		return yakuman(ctx.kans == 4)
	}},
}

var yakuRegistry = []YakuChecker{
	yakuCheckerFunc{id: YakuMenzenTsumo, check: func(ctx *divContext) (int, int) {
		return han(ctx.calc.IsMenzen && !ctx.calc.IsRon, 1, 0, true)
	}},
	yakuCheckerFunc{id: YakuPinfu, check: func(ctx *divContext) (int, int) {
		return han(ctx.pinfu, 1, 0, true)
	}},
	yakuCheckerFunc{id: YakuTanyao, check: func(ctx *divContext) (int, int) {
		return han(ctx.noYaokyuu(), 1, 1, true)
	}},
	yakuCheckerFunc{id: YakuChiitoitsu, check: func(ctx *divContext) (int, int) {
		return han(ctx.chitoi, 2, 2, true)
	}},
	yakuCheckerFunc{id: YakuRyanpeikou, check: func(ctx *divContext) (int, int) {
		return han(ctx.calc.IsMenzen && ctx.ryanpeikou, 3, 0, true)
	}},
	yakuCheckerFunc{id: YakuIipeikou, check: func(ctx *divContext) (int, int) {
		return han(ctx.calc.IsMenzen && ctx.iipeikou, 1, 0, true)
	}},
	yakuCheckerFunc{id: YakuHaku, check: func(ctx *divContext) (int, int) {
		return han(ctx.hasKotsuOf(haku), 1, 1, true)
	}},
	yakuCheckerFunc{id: YakuHatsu, check: func(ctx *divContext) (int, int) {
		return han(ctx.hasKotsuOf(hatsu), 1, 1, true)
	}},
	yakuCheckerFunc{id: YakuChun, check: func(ctx *divContext) (int, int) {
		return han(ctx.hasKotsuOf(chun), 1, 1, true)
	}},
	yakuCheckerFunc{id: YakuBakaze, check: func(ctx *divContext) (int, int) {
		return han(ctx.hasKotsuOf(ctx.calc.Bakaze.Deaka()), 1, 1, true)
	}},
	yakuCheckerFunc{id: YakuJikaze, check: func(ctx *divContext) (int, int) {
		return han(ctx.hasKotsuOf(ctx.calc.Jikaze.Deaka()), 1, 1, true)
	}},
	yakuCheckerFunc{id: YakuSanshoku, check: func(ctx *divContext) (int, int) {
		return han(ctx.sanshoku(), 2, 1, ctx.calc.IsMenzen)
	}},
	yakuCheckerFunc{id: YakuSanshokuDoukou, check: func(ctx *divContext) (int, int) {
		return han(ctx.sanshokuDoukou(), 2, 2, true)
	}},
	yakuCheckerFunc{id: YakuIttsuu, check: func(ctx *divContext) (int, int) {
		return han(ctx.ittsuu(), 2, 1, ctx.calc.IsMenzen)
	}},
	yakuCheckerFunc{id: YakuJunchan, check: func(ctx *divContext) (int, int) {
		return han(ctx.junchan(), 3, 2, ctx.calc.IsMenzen)
	}},
	yakuCheckerFunc{id: YakuChanta, check: func(ctx *divContext) (int, int) {
		return han(!ctx.junchan() && ctx.chanta(), 2, 1, ctx.calc.IsMenzen)
	}},
	yakuCheckerFunc{id: YakuHonroutou, check: func(ctx *divContext) (int, int) {
		return han(ctx.honroutou(), 2, 2, true)
	}},
	yakuCheckerFunc{id: YakuToitoi, check: func(ctx *divContext) (int, int) {
		return han(!ctx.chitoi && ctx.kotsuTotal == 4, 2, 2, true)
	}},
	yakuCheckerFunc{id: YakuSanankou, check: func(ctx *divContext) (int, int) {
		return han(!ctx.chitoi && ctx.concealedKotsu == 3, 2, 2, true)
	}},
	yakuCheckerFunc{id: YakuSankantsu, check: func(ctx *divContext) (int, int) {
		return han(ctx.kans == 3, 2, 2, true)
	}},
	yakuCheckerFunc{id: YakuShousangen, check: func(ctx *divContext) (int, int) {
		return han(ctx.dragonKotsu == 2 && ctx.pairIsDragon(), 2, 2, true)
	}},
	yakuCheckerFunc{id: YakuChinitsu, check: func(ctx *divContext) (int, int) {
		return han(ctx.chinitsu(), 6, 5, ctx.calc.IsMenzen)
	}},
	yakuCheckerFunc{id: YakuHonitsu, check: func(ctx *divContext) (int, int) {
		return han(!ctx.chinitsu() && ctx.honitsu(), 3, 2, ctx.calc.IsMenzen)
	}},
}
