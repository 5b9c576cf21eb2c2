package main

import (
	"context"
	"fmt"
	"os"

	"gomahjong/arena/app"
	"gomahjong/common/config"
	"gomahjong/common/log"
	"gomahjong/common/metrics"

	"github.com/spf13/cobra"
)

var (
	configFile string
	logLevel   string
	identifier string
	games      int
	seed       uint64
)

var rootCmd = &cobra.Command{
	Use:   "arena",
	Short: "arena 立直麻将自对局",
	Long:  `arena 立直麻将自对局：按种子并发打完整半庄，校验事件流，保存牌谱`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.InitConfig(configFile)
		conf := config.Conf
		if identifier == "" {
			identifier = conf.AppName
		}
		if !cmd.Flags().Changed("logLevel") {
			logLevel = conf.Log.Level
		}
		log.InitLog(identifier, logLevel)
		if cmd.Flags().Changed("games") {
			conf.Arena.Games = games
		}
		if cmd.Flags().Changed("seed") {
			conf.Arena.Seed = seed
		}
		if err := conf.Validate(); err != nil {
			return err
		}
		log.Info(fmt.Sprintf("配置文件: %+v", *conf))

		if conf.MetricPort > 0 {
			go func() {
				log.Info("启动监控..., URL: http://localhost:%d/debug/statsviz/", conf.MetricPort)
				if err := metrics.Serve(fmt.Sprintf("0.0.0.0:%d", conf.MetricPort)); err != nil {
					log.Error("监控服务退出: %v", err)
				}
			}()
		}

		return app.Run(context.Background(), conf)
	},
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "resource", "resource/application.yml", "resource file")
	rootCmd.Flags().StringVar(&logLevel, "logLevel", "info", "log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&identifier, "identifier", "", "identifier of this arena, defaults to appName")
	rootCmd.Flags().IntVar(&games, "games", 1, "number of hanchan to play")
	rootCmd.Flags().Uint64Var(&seed, "seed", 0, "wall seed nonce")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("error happen: %v", err)
		os.Exit(1)
	}
}
