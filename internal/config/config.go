// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找
package config

import (
	"fmt"
	"time"

	"circle_pipeline/pkg/constants"

	"github.com/BurntSushi/toml" // TOML 配置文件解析库
	"github.com/caarlos0/env/v11"
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName string `toml:"appName"`                // 应用名称，用于日志标识等
	Host    string `toml:"host"`                   // 本地接口监听地址，如 "127.0.0.1"
	Port    int    `toml:"port"`                   // 本地接口监听端口，如 8000
	Mode    string `toml:"mode" env:"CIRCLE_MODE"` // 运行模式：dev 或 release
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// PipelineConfig 推送连接配置
type PipelineConfig struct {
	Endpoint     string        `toml:"endpoint"`                            // 推送服务地址
	Host         string        `toml:"host"`                                // Host 请求头
	UserAgent    string        `toml:"userAgent"`                           // User-Agent 请求头
	BackoffFloor time.Duration `toml:"backoffFloor"`                        // 重连退避下限，如 "2s"
	BackoffMax   time.Duration `toml:"backoffMax"`                          // 重连退避上限，如 "60s"
	IdlePoll     time.Duration `toml:"idlePoll"`                            // 无凭据时的轮询间隔
	AutoStart    bool          `toml:"autoStart"`                           // 启动时是否立即开启推送循环
	AuthCookie   string        `toml:"authCookie" env:"CIRCLE_AUTH_COOKIE"` // 可选，预置 auth cookie
	TwoFactor    string        `toml:"twoFactor" env:"CIRCLE_TWO_FACTOR"`   // 可选，预置 2FA cookie
}

// CacheConfig 关系缓存配置
type CacheConfig struct {
	EvictInterval time.Duration `toml:"evictInterval"` // 过期清理周期
	StaleMaxAge   time.Duration `toml:"staleMaxAge"`   // 非好友条目最长保留时间
	EvictCron     string        `toml:"evictCron"`     // 可选，cron 表达式，设置后取代 evictInterval
}

// NotifyConfig 对外事件通知配置
type NotifyConfig struct {
	MessageMode  string `toml:"messageMode"`  // 通知模式："channel" 或 "kafka"
	RedisPublish bool   `toml:"redisPublish"` // 是否同时 PUBLISH 到 Redis
	RedisChannel string `toml:"redisChannel"` // Redis 频道名
	Encoding     string `toml:"encoding"`     // Kafka 消息编码："json" 或 "msgpack"
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Host     string `toml:"host"`                                 // Redis 服务器地址
	Port     int    `toml:"port"`                                 // Redis 端口，默认 6379
	Password string `toml:"password" env:"CIRCLE_REDIS_PASSWORD"` // Redis 密码，无密码留空
	Db       int    `toml:"db"`                                   // Redis 数据库编号，默认 0
}

// KafkaConfig Kafka 消息队列配置
type KafkaConfig struct {
	HostPort    string        `toml:"hostPort"`    // Kafka 服务器地址，如 "localhost:9092"
	EventTopic  string        `toml:"eventTopic"`  // 事件通知主题
	Partition   int           `toml:"partition"`   // 分区数
	Timeout     time.Duration `toml:"timeout"`     // 写入超时，如 "1s"
	CreateTopic bool          `toml:"createTopic"` // 启动时是否创建主题
}

// JWTConfig JWT 认证配置
type JWTConfig struct {
	Secret            string `toml:"secret" env:"CIRCLE_JWT_SECRET"`                // JWT 签名密钥，建议 32 字符以上
	AccessTokenExpiry int    `toml:"accessTokenExpiry"`                             // Access Token 有效期（分钟）
	BootstrapSecret   string `toml:"bootstrapSecret" env:"CIRCLE_BOOTSTRAP_SECRET"` // 换取 Token 时需要出示的口令
}

// Config 应用程序总配置，聚合所有子配置
type Config struct {
	MainConfig     `toml:"mainConfig"`     // 主配置
	LogConfig      `toml:"logConfig"`      // 日志配置
	PipelineConfig `toml:"pipelineConfig"` // 推送连接配置
	CacheConfig    `toml:"cacheConfig"`    // 缓存配置
	NotifyConfig   `toml:"notifyConfig"`   // 通知配置
	RedisConfig    `toml:"redisConfig"`    // Redis 配置
	KafkaConfig    `toml:"kafkaConfig"`    // Kafka 配置
	JWTConfig      `toml:"jwtConfig"`      // JWT 配置
}

// config 全局配置单例，延迟加载
var config *Config

// LoadConfig 从多个候选路径加载配置文件
// 按顺序尝试加载，找到第一个可用的配置文件即停止
func LoadConfig() error {
	paths := []string{
		"configs/config_local.toml",       // 本地开发配置（优先）
		"configs/config.toml",             // 默认配置
		"../../configs/config_local.toml", // 从子目录运行时的路径
		"../../configs/config.toml",
	}

	for _, path := range paths {
		if _, err := toml.DecodeFile(path, config); err == nil {
			return nil
		}
	}

	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时会自动加载配置文件，环境变量覆盖文件中的同名项，缺省字段填充默认值
func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig() // 忽略加载错误，使用默认值
		if err := env.Parse(config); err != nil {
			fmt.Println("parse env overrides failed:", err)
		}
		config.applyDefaults()
	}
	return config
}

// applyDefaults 为未配置的字段填充默认值
func (c *Config) applyDefaults() {
	if c.AppName == "" {
		c.AppName = "circle_pipeline"
	}
	if c.MainConfig.Host == "" {
		c.MainConfig.Host = "127.0.0.1"
	}
	if c.MainConfig.Port == 0 {
		c.MainConfig.Port = 8000
	}
	if c.Mode == "" {
		c.Mode = "dev"
	}
	if c.LogPath == "" {
		c.LogPath = "logs"
	}

	p := &c.PipelineConfig
	if p.Endpoint == "" {
		p.Endpoint = constants.PIPELINE_ENDPOINT
	}
	if p.Host == "" {
		p.Host = constants.PIPELINE_HOST
	}
	if p.UserAgent == "" {
		p.UserAgent = constants.PIPELINE_USER_AGENT
	}
	if p.BackoffFloor <= 0 {
		p.BackoffFloor = constants.BACKOFF_FLOOR
	}
	if p.BackoffMax < p.BackoffFloor {
		p.BackoffMax = constants.BACKOFF_MAX
	}
	if p.IdlePoll <= 0 {
		p.IdlePoll = constants.IDLE_POLL
	}

	if c.EvictInterval <= 0 {
		c.EvictInterval = constants.EVICT_INTERVAL
	}
	if c.StaleMaxAge <= 0 {
		c.StaleMaxAge = constants.STALE_MAX_AGE
	}

	if c.MessageMode == "" {
		c.MessageMode = "channel"
	}
	if c.Encoding == "" {
		c.Encoding = "json"
	}
	if c.RedisChannel == "" {
		c.RedisChannel = "pipeline-events"
	}
	if c.RedisConfig.Port == 0 {
		c.RedisConfig.Port = 6379
	}
	if c.EventTopic == "" {
		c.EventTopic = "pipeline-events"
	}
	if c.KafkaConfig.Timeout <= 0 {
		c.KafkaConfig.Timeout = time.Second
	}
	if c.AccessTokenExpiry == 0 {
		c.AccessTokenExpiry = 60
	}
}
