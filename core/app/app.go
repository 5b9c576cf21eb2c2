package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gomahjong/common/log"
)

// Run 执行 job，收到中断或挂起信号时取消 job 的 ctx 并等待其返回
func Run(ctx context.Context, job func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGHUP)
	defer signal.Stop(c)

	done := make(chan error, 1)
	go func() { done <- job(ctx) }()

	for {
		select {
		case err := <-done:
			return err
		case s := <-c:
			switch s {
			case syscall.SIGHUP:
				log.Info("挂起信号，服务停止")
			default:
				log.Info("中断信号，服务停止")
			}
			cancel()
			return <-done
		}
	}
}
