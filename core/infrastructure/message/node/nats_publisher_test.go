package node

import (
	"testing"

	"gomahjong/common/config"
	"gomahjong/core/infrastructure/message/transfer"
)

func TestPublishLimiter(t *testing.T) {
	if l := newPublishLimiter(config.NatsConfig{Subject: "mahjong"}); l != nil {
		t.Fatalf("rateLimit 为 0 时不应限流")
	}
	l := newPublishLimiter(config.NatsConfig{Subject: "mahjong", RateLimit: 1})
	kyoku := transfer.Subject("mahjong", transfer.KyokuRoute)
	if !l.Allow(kyoku) {
		t.Fatalf("burst 缺省为 1")
	}
	if l.Allow(kyoku) {
		t.Fatalf("局记录应被限流")
	}
	for i := 0; i < 5; i++ {
		if !l.Allow(transfer.Subject("mahjong", transfer.GameRoute)) {
			t.Fatalf("整场结果不应被限流")
		}
	}
}
