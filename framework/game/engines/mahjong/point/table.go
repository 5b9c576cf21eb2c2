package point

// fuColumns 表的列，对应符数
var fuColumns = [...]int{20, 25, 30, 40, 50, 60, 70, 80, 90, 100, 110}

// payPair 子家自摸时 {子家支付, 亲家支付}
type payPair [2]int

// 子家荣和，行为 1-4 番，0 表示不存在的组合
var koRonTable = [4][len(fuColumns)]int{
	{0, 0, 1000, 1300, 1600, 2000, 2300, 2600, 2900, 3200, 3600},
	{1300, 1600, 2000, 2600, 3200, 3900, 4500, 5200, 5800, 6400, 7100},
	{2600, 3200, 3900, 5200, 6400, 7700, 0, 0, 0, 0, 0},
	{5200, 6400, 7700, 0, 0, 0, 0, 0, 0, 0, 0},
}

// 亲家荣和
var oyaRonTable = [4][len(fuColumns)]int{
	{0, 0, 1500, 2000, 2400, 2900, 3400, 3900, 4400, 4800, 5300},
	{2000, 2400, 2900, 3900, 4800, 5800, 6800, 7700, 8700, 9600, 10600},
	{3900, 4800, 5800, 7700, 9600, 11600, 0, 0, 0, 0, 0},
	{7700, 9600, 11600, 0, 0, 0, 0, 0, 0, 0, 0},
}

// 亲家自摸，每家支付
var oyaTsumoTable = [4][len(fuColumns)]int{
	{0, 0, 500, 700, 800, 1000, 1200, 1300, 1500, 1600, 1800},
	{700, 800, 1000, 1300, 1600, 2000, 2300, 2600, 2900, 3200, 3600},
	{1300, 1600, 2000, 2600, 3200, 3900, 0, 0, 0, 0, 0},
	{2600, 3200, 3900, 0, 0, 0, 0, 0, 0, 0, 0},
}

// 子家自摸
var koTsumoTable = [4][len(fuColumns)]payPair{
	{{0, 0}, {0, 0}, {300, 500}, {400, 700}, {400, 800}, {500, 1000}, {600, 1200}, {700, 1300}, {800, 1500}, {800, 1600}, {900, 1800}},
	{{400, 700}, {400, 800}, {500, 1000}, {700, 1300}, {800, 1600}, {1000, 2000}, {1200, 2300}, {1300, 2600}, {1500, 2900}, {1600, 3200}, {1800, 3600}},
	{{700, 1300}, {800, 1600}, {1000, 2000}, {1300, 2600}, {1600, 3200}, {2000, 3900}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}},
	{{1300, 2600}, {1600, 3200}, {2000, 3900}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}},
}
