package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

/*
把init config跟read config分開
init : 需要設置viper watch 與 onConfigChange
read config : 一般讀寫  需要使用讀寫鎖
*/
var config_singleton *ConfigSingleTon
var muonce sync.Once

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type ConfigSingleTon struct {
	Config *Config
	mu     sync.RWMutex
}

type Config struct {
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	ServerPort        string `mapstructure:"SERVER_PORT"`
	StorageDriver     string `mapstructure:"STORAGE_DRIVER"`
	DbName            string `mapstructure:"POSTGRES_DB"`
	DbHost            string `mapstructure:"POSTGRES_HOST"`
	DbPort            string `mapstructure:"POSTGRES_PORT"`
	DbUser            string `mapstructure:"POSTGRES_USER"`
	DbPas             string `mapstructure:"POSTGRES_PASSWORD"`
	MigrationURL      string `mapstructure:"MIGRATION_URL"`
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	RedisDB           int    `mapstructure:"REDIS_DB"`
	SessionTTLHours   int    `mapstructure:"SESSION_TTL_HOURS"`
	SessionCookieName string `mapstructure:"SESSION_COOKIE_NAME"`
	AdminEmail        string `mapstructure:"ADMIN_EMAIL"`
	UploadFolder      string `mapstructure:"UPLOAD_FOLDER"`
	ExportFolder      string `mapstructure:"EXPORT_FOLDER"`
	CloudinaryURL     string `mapstructure:"CLOUDINARY_URL"`
	KafkaBrokers      string `mapstructure:"KAFKA_BROKERS"`
	KafkaOrderTopic   string `mapstructure:"KAFKA_ORDER_TOPIC"`
	RateLimitCapacity int    `mapstructure:"RATE_LIMIT_CAPACITY"`
	RateLimitPerSec   int    `mapstructure:"RATE_LIMIT_PER_SECOND"`
}

var defaults = map[string]any{
	"ENV":                   "development",
	"LOG_LEVEL":             "info",
	"SERVER_PORT":           "8080",
	"STORAGE_DRIVER":        StorageDriverPostgres,
	"POSTGRES_DB":           "storefront",
	"POSTGRES_HOST":         "localhost",
	"POSTGRES_PORT":         "5432",
	"POSTGRES_USER":         "postgres",
	"POSTGRES_PASSWORD":     "",
	"MIGRATION_URL":         "file://internal/infra/repository/db/migrations",
	"REDIS_ADDR":            "localhost:6379",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"SESSION_TTL_HOURS":     24,
	"SESSION_COOKIE_NAME":   "storefront_session",
	"ADMIN_EMAIL":           "",
	"UPLOAD_FOLDER":         "static/uploads",
	"EXPORT_FOLDER":         "static",
	"CLOUDINARY_URL":        "",
	"KAFKA_BROKERS":         "",
	"KAFKA_ORDER_TOPIC":     "storefront.orders",
	"RATE_LIMIT_CAPACITY":   20,
	"RATE_LIMIT_PER_SECOND": 1,
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// KafkaBrokerList 逗號分隔, 空字串代表不啟用 kafka
func (c *Config) KafkaBrokerList() []string {
	brokers := make([]string, 0)
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func (c *Config) IsMemoryStorage() bool {
	return strings.EqualFold(c.StorageDriver, StorageDriverMemory)
}

func GetConfig() *Config {
	initConfig()
	config_singleton.mu.RLock()
	defer config_singleton.mu.RUnlock()
	return config_singleton.Config
}

func initConfig() {
	muonce.Do(func() {
		config_singleton = &ConfigSingleTon{}
		v := viper.New()
		cf, err := LoadConfig(v, configFilePath())
		if err != nil {
			log.Fatalf("error read config: %v", err)
		}
		config_singleton.Config = cf

		if v.ConfigFileUsed() == "" {
			return
		}
		v.OnConfigChange(func(e fsnotify.Event) {
			cf := &Config{}
			if err := v.Unmarshal(cf); err != nil {
				log.Printf("failed to reload config file: %v", err)
				return
			}
			config_singleton.mu.Lock()
			config_singleton.Config = cf
			config_singleton.mu.Unlock()
		})
		v.WatchConfig()
	})
}

func configFilePath() string {
	if p := os.Getenv("CONFIG_FILE"); p != "" {
		return p
	}
	return ".env"
}

/*
單純回傳錯誤  由外部決定要不要Fatal, 畢竟有可能有替代方案
設定檔不存在時只用環境變數與預設值
*/
func LoadConfig(v *viper.Viper, path string) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
			v.SetConfigFile("")
		}
	}

	cf := &Config{}
	if err := v.Unmarshal(cf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cf, nil
}
