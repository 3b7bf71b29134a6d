package config

import (
	"errors"
	"time"
)

// Config 应用配置根结构
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	AI      AIConfig      `mapstructure:"ai"`
	Image   ImageConfig   `mapstructure:"image"`
	Log     LogConfig     `mapstructure:"log"`
	Mongo   MongoConfig   `mapstructure:"mongo"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Storage StorageConfig `mapstructure:"storage"`
	Payment PaymentConfig `mapstructure:"payment"`
	Plans   []PlanConfig  `mapstructure:"plans"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// AIConfig 文本生成配置
type AIConfig struct {
	Provider     string          `mapstructure:"provider"` // openai / azure / ark
	APIKey       string          `mapstructure:"api_key"`
	Model        string          `mapstructure:"model"`
	BaseURL      string          `mapstructure:"base_url"`
	SystemPrompt string          `mapstructure:"system_prompt"`
	Options      AIOptionsConfig `mapstructure:"options"`
}

// AIOptionsConfig AI 模型参数
type AIOptionsConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	TopP        float64 `mapstructure:"top_p"`
}

// ImageConfig 图片生成回退链配置
type ImageConfig struct {
	Provider     string             `mapstructure:"provider"` // 首选付费后端: dalle / t2p
	StageTimeout time.Duration      `mapstructure:"stage_timeout"`
	DALLE        DALLEConfig        `mapstructure:"dalle"`
	T2P          T2PConfig          `mapstructure:"t2p"`
	Pollinations PollinationsConfig `mapstructure:"pollinations"`
	Search       ImageSearchConfig  `mapstructure:"search"`
}

// DALLEConfig OpenAI 图片生成配置
type DALLEConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	Size    string `mapstructure:"size"`
}

// T2PConfig 火山引擎 Text-to-Picture 配置
type T2PConfig struct {
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	ReqKey    string `mapstructure:"req_key"`
	APIURL    string `mapstructure:"api_url"`
	Region    string `mapstructure:"region"`
	Width     int    `mapstructure:"width"`
	Height    int    `mapstructure:"height"`
}

// PollinationsConfig Pollinations 免费图片后端配置
type PollinationsConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Width   int    `mapstructure:"width"`
	Height  int    `mapstructure:"height"`
}

// ImageSearchConfig 关键词图片搜索后端配置
type ImageSearchConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Width   int    `mapstructure:"width"`
	Height  int    `mapstructure:"height"`
}

// LogConfig 日志配置 (Zerolog)
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	TimeFormat string `mapstructure:"time_format"`
}

// MongoConfig MongoDB 配置
type MongoConfig struct {
	URI         string `mapstructure:"uri"`
	Database    string `mapstructure:"database"`
	MaxPoolSize uint64 `mapstructure:"max_pool_size"`
	MinPoolSize uint64 `mapstructure:"min_pool_size"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig 认证配置
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`      // JWT密钥
	TokenExpiry    time.Duration `mapstructure:"token_expiry"`    // Token过期时间
	InitialCredits int64         `mapstructure:"initial_credits"` // 新用户初始积分
}

// StorageConfig 存储配置
type StorageConfig struct {
	Type  string       `mapstructure:"type"` // local, oss
	Local *LocalConfig `mapstructure:"local,omitempty"`
	OSS   *OSSConfig   `mapstructure:"oss,omitempty"`
}

// LocalConfig 本地文件系统配置
type LocalConfig struct {
	BasePath      string `mapstructure:"base_path"`      // 基础路径
	BaseURL       string `mapstructure:"base_url"`       // 基础URL（用于生成访问URL）
	PresignExpiry int    `mapstructure:"presign_expiry"` // 预签名URL过期时间（秒）
}

// OSSConfig 阿里云OSS配置
type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	PresignExpiry   int    `mapstructure:"presign_expiry"`
}

// PaymentConfig Stripe 支付配置
type PaymentConfig struct {
	StripeSecretKey     string `mapstructure:"stripe_secret_key"`
	StripeWebhookSecret string `mapstructure:"stripe_webhook_secret"`
}

// PlanConfig 积分套餐
// 启动时加载一次，之后只读
type PlanConfig struct {
	ID       string   `mapstructure:"id"`
	Name     string   `mapstructure:"name"`
	Price    int64    `mapstructure:"price"` // 美元价格
	Credits  int64    `mapstructure:"credits"`
	Features []string `mapstructure:"features"`
}

// DefaultPlans 内置套餐目录
func DefaultPlans() []PlanConfig {
	return []PlanConfig{
		{
			ID:      "basic",
			Name:    "Basic",
			Price:   10,
			Credits: 100,
			Features: []string{
				"100 text generations",
				"50 image generations",
				"Standard support",
				"Access to basic models",
			},
		},
		{
			ID:      "pro",
			Name:    "Pro",
			Price:   20,
			Credits: 500,
			Features: []string{
				"100 text generations",
				"200 image generations",
				"Priority support",
				"Access to pro models",
			},
		},
		{
			ID:      "premium",
			Name:    "Premium",
			Price:   50,
			Credits: 2000,
			Features: []string{
				"1000 text generations",
				"500 image generations",
				"24/7 support",
				"Access to all models",
			},
		},
	}
}

// Validate 验证配置有效性
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return errors.New("invalid server mode, must be debug/release/test")
	}

	if c.Image.Provider != "dalle" && c.Image.Provider != "t2p" {
		return errors.New("invalid image provider, must be dalle/t2p")
	}

	for _, p := range c.Plans {
		if p.ID == "" || p.Credits <= 0 || p.Price <= 0 {
			return errors.New("invalid plan: id, price and credits are required")
		}
	}

	return nil
}
