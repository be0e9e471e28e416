package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr string `mapstructure:"http_addr"`

	MySQLDSN string `mapstructure:"mysql_dsn"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	JWTAccessSecret  string        `mapstructure:"jwt_access_secret"`
	JWTRefreshSecret string        `mapstructure:"jwt_refresh_secret"`
	JWTAccessTTL     time.Duration `mapstructure:"jwt_access_ttl"`
	JWTRefreshTTL    time.Duration `mapstructure:"jwt_refresh_ttl"`

	InviteTTL time.Duration `mapstructure:"invite_ttl"`

	KafkaBrokers []string `mapstructure:"kafka_brokers"`
	KafkaTopic   string   `mapstructure:"kafka_topic"`

	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUsername string `mapstructure:"smtp_username"`
	SMTPPassword string `mapstructure:"smtp_password"`
	SMTPFrom     string `mapstructure:"smtp_from"`
}

// Load 读取 config.yaml，LEECHAT_* 环境变量可覆盖任意键
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("LEECHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("jwt_access_ttl", 30*time.Minute)
	v.SetDefault("jwt_refresh_ttl", 24*time.Hour)
	v.SetDefault("invite_ttl", 7*24*time.Hour)
	v.SetDefault("kafka_topic", "group-events")

	if err := v.ReadInConfig(); err != nil {
		// 配置文件缺失时允许纯环境变量运行
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
