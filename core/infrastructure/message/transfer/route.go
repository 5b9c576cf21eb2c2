package transfer

// 发布主题后缀，完整主题为 <nats.subject>.<后缀>
const KyokuRoute = "kyoku"   // 每局结束推送该局事件流
const GameRoute = "game.end" // 整场结束推送排名

// Subject 拼接主题
func Subject(prefix, route string) string {
	if prefix == "" {
		return route
	}
	return prefix + "." + route
}
