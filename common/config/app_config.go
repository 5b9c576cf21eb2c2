package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var Conf *Config

var (
	watchMu  sync.Mutex
	watchers []func(*Config)
)

type Config struct {
	AppName      string       `mapstructure:"appName"`
	Log          LogConf      `mapstructure:"log"`
	MetricPort   int          `mapstructure:"metricPort"`
	Arena        ArenaConf    `mapstructure:"arena"`
	DatabaseConf DatabaseConf `mapstructure:"database"`
	Nats         NatsConfig   `mapstructure:"nats"`
	Cache        CacheConf    `mapstructure:"cache"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// ArenaConf 自对局参数
type ArenaConf struct {
	Seed           uint64   `mapstructure:"seed"`
	Games          int      `mapstructure:"games"`
	Workers        int      `mapstructure:"workers"`
	Agents         []string `mapstructure:"agents"` // rule / tsumogiri，按座位
	Strict         bool     `mapstructure:"strict"` // 每局结束后重放校验事件流
	ReportInterval int      `mapstructure:"reportInterval"` // 秒
}

type DatabaseConf struct {
	MongoConf MongoConf `mapstructure:"mongo"`
}

type MongoConf struct {
	Enabled     bool   `mapstructure:"enabled"`
	Url         string `mapstructure:"url"`
	Db          string `mapstructure:"db"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	MinPoolSize int    `mapstructure:"minPoolSize"`
	MaxPoolSize int    `mapstructure:"maxPoolSize"`
}

type NatsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	URL       string `json:"url" mapstructure:"url"`
	Subject   string `mapstructure:"subject"`
	RateLimit int    `mapstructure:"rateLimit"` // 每秒发布条数，0 不限流
	Burst     int    `mapstructure:"burst"`
}

// CacheConf 弃牌搜索缓存
type CacheConf struct {
	MaxCost    int64 `mapstructure:"maxCost"`
	TtlSeconds int   `mapstructure:"ttlSeconds"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("appName", "arena")
	v.SetDefault("log.level", "info")
	v.SetDefault("arena.games", 1)
	v.SetDefault("arena.workers", 4)
	v.SetDefault("arena.agents", []string{"rule", "rule", "rule", "rule"})
	v.SetDefault("arena.reportInterval", 5)
	v.SetDefault("database.mongo.db", "mahjong")
	v.SetDefault("database.mongo.maxPoolSize", 16)
	v.SetDefault("nats.url", "nats://127.0.0.1:4222")
	v.SetDefault("nats.subject", "mahjong.kyoku")
	v.SetDefault("cache.maxCost", 1<<16)
}

func newViper(configFile string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configFile)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	return v
}

// Validate 检查参数范围
func (c *Config) Validate() error {
	if c.Arena.Games <= 0 {
		return fmt.Errorf("arena.games 必须为正数: %d", c.Arena.Games)
	}
	if c.Arena.Workers <= 0 {
		return fmt.Errorf("arena.workers 必须为正数: %d", c.Arena.Workers)
	}
	if len(c.Arena.Agents) != 4 {
		return fmt.Errorf("arena.agents 需要 4 个, got %d", len(c.Arena.Agents))
	}
	if c.Cache.MaxCost <= 0 {
		return fmt.Errorf("cache.maxCost 必须为正数: %d", c.Cache.MaxCost)
	}
	return nil
}

// Load 读取并校验配置文件，不做监听
func Load(configFile string) (*Config, error) {
	v := newViper(configFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件出错: %w", err)
	}
	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件出错: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OnChange 注册配置热更新回调
func OnChange(fn func(*Config)) {
	watchMu.Lock()
	defer watchMu.Unlock()
	watchers = append(watchers, fn)
}

func InitConfig(configFile string) {
	v := newViper(configFile)
	err := v.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("读取配置文件出错, err:%v", err))
	}

	Conf = new(Config)
	err = v.Unmarshal(Conf)
	if err != nil {
		panic(fmt.Errorf("解析配置文件出错 1, err:%v", err))
	}
	if err = Conf.Validate(); err != nil {
		panic(err)
	}

	v.OnConfigChange(func(in fsnotify.Event) {
		next := new(Config)
		if err := v.Unmarshal(next); err != nil || next.Validate() != nil {
			// 改坏了的配置不生效
			return
		}
		watchMu.Lock()
		Conf = next
		fns := append([]func(*Config){}, watchers...)
		watchMu.Unlock()
		for _, fn := range fns {
			fn(next)
		}
	})
	v.WatchConfig()
}
