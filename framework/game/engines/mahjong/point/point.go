package point

import (
	"errors"
	"fmt"
)

var ErrInvalidScore = errors.New("invalid fu/han")

// Point 一次和了的点数。荣和看 Ron，亲家自摸时 TsumoOya 为每家支付，
// 子家自摸时 TsumoKo 为子家支付、TsumoOya 为亲家支付
type Point struct {
	Ron      int
	TsumoOya int
	TsumoKo  int
}

// TsumoTotal 自摸合计收入
func (p Point) TsumoTotal(isOya bool) int {
	if isOya {
		return p.TsumoOya * 3
	}
	return p.TsumoOya + p.TsumoKo*2
}

// 满贯以上的基本点
const (
	baseMangan    = 2000
	baseHaneman   = 3000
	baseBaiman    = 4000
	baseSanbaiman = 6000
	baseYakuman   = 8000
)

func fromBase(base int, isOya bool) Point {
	if isOya {
		return Point{Ron: base * 6, TsumoOya: base * 2}
	}
	return Point{Ron: base * 4, TsumoOya: base * 2, TsumoKo: base}
}

// Calc 由符与番查点数
func Calc(fu, han int, isOya bool) (Point, error) {
	if han <= 0 {
		return Point{}, fmt.Errorf("%w: %d han", ErrInvalidScore, han)
	}
	switch {
	case han >= 13:
		return fromBase(baseYakuman, isOya), nil
	case han >= 11:
		return fromBase(baseSanbaiman, isOya), nil
	case han >= 8:
		return fromBase(baseBaiman, isOya), nil
	case han >= 6:
		return fromBase(baseHaneman, isOya), nil
	case han == 5, han == 4 && fu >= 40, han == 3 && fu >= 70:
		return fromBase(baseMangan, isOya), nil
	}

	col := -1
	for i, f := range fuColumns {
		if f == fu {
			col = i
			break
		}
	}
	if col < 0 {
		return Point{}, fmt.Errorf("%w: %d fu", ErrInvalidScore, fu)
	}
	row := han - 1
	var p Point
	if isOya {
		p = Point{Ron: oyaRonTable[row][col], TsumoOya: oyaTsumoTable[row][col]}
	} else {
		pair := koTsumoTable[row][col]
		p = Point{Ron: koRonTable[row][col], TsumoKo: pair[0], TsumoOya: pair[1]}
	}
	if p.Ron == 0 {
		return Point{}, fmt.Errorf("%w: %d fu %d han", ErrInvalidScore, fu, han)
	}
	return p, nil
}

// Yakuman count 倍役满
func Yakuman(isOya bool, count int) Point {
	p := fromBase(baseYakuman, isOya)
	p.Ron *= count
	p.TsumoOya *= count
	p.TsumoKo *= count
	return p
}
