package node

import (
	"encoding/json"
	"fmt"
	"time"

	"gomahjong/common/config"
	"gomahjong/common/log"
	"gomahjong/common/utils"
	"gomahjong/core/infrastructure/message/transfer"

	"github.com/nats-io/nats.go"
)

type Publisher interface {
	Publish(subject string, data []byte) error
	Close() error
}

// NatsPublisher 只发布，不订阅；每个主题单独限流，超过限流的消息直接丢弃并返回 ErrRateLimited
type NatsPublisher struct {
	conn    *nats.Conn
	limiter *utils.SubjectLimiter
}

func NewNatsPublisher(cfg config.NatsConfig) (*NatsPublisher, error) {
	log.Info("nats 正在连接, url:%s", cfg.URL)
	conn, err := nats.Connect(cfg.URL,
		nats.Name("gomahjong-arena"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats 连接断开: %v", err)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats 连接错误: %w", err)
	}
	p := &NatsPublisher{conn: conn, limiter: newPublishLimiter(cfg)}
	log.Info("nats 连接成功, url:%s", cfg.URL)
	return p, nil
}

// newPublishLimiter 局记录按主题限流，整场结果不丢
func newPublishLimiter(cfg config.NatsConfig) *utils.SubjectLimiter {
	if cfg.RateLimit <= 0 {
		return nil
	}
	l := utils.NewSubjectLimiter(cfg.RateLimit, cfg.Burst)
	l.Exempt(transfer.Subject(cfg.Subject, transfer.GameRoute))
	return l
}

func (p *NatsPublisher) IsConnected() bool {
	return p.conn != nil && p.conn.IsConnected()
}

func (p *NatsPublisher) Publish(subject string, data []byte) error {
	if subject == "" {
		return transfer.ErrInvalidSubject
	}
	if !p.IsConnected() {
		return transfer.ErrNotConnected
	}
	if p.limiter != nil && !p.limiter.Allow(subject) {
		return transfer.ErrRateLimited
	}
	return p.conn.Publish(subject, data)
}

// Close 先把缓冲中的消息发完再断开
func (p *NatsPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	err := p.conn.Drain()
	log.Info("NATS 连接已关闭")
	return err
}

// PublishJSON 序列化后发布
func PublishJSON(p Publisher, subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %v", transfer.ErrMessageMarshal, err)
	}
	return p.Publish(subject, data)
}
