// internal/pkg/bootstrap/config.go
package bootstrap

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config 是所有服务共享的配置结构，各服务只读取与自己相关的部分
type Config struct {
	App       AppConfig       `yaml:"app"`
	Infra     InfraConfig     `yaml:"infra"`
	Inventory InventoryConfig `yaml:"inventory"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Review    ReviewConfig    `yaml:"review"`
	Gateway   GatewayConfig   `yaml:"gateway"`
}

type AppConfig struct {
	Env       string `yaml:"env"`
	LogLevel  string `yaml:"logLevel"`
	LogPretty bool   `yaml:"logPretty"`
}

type InfraConfig struct {
	Jaeger JaegerConfig `yaml:"jaeger"`
	Nacos  NacosConfig  `yaml:"nacos"`
	Kafka  KafkaConfig  `yaml:"kafka"`
	Redis  RedisConfig  `yaml:"redis"`
	MySQL  MySQLConfig  `yaml:"mysql"`
}

type JaegerConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type NacosConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServerAddrs string `yaml:"serverAddrs"`
	Namespace   string `yaml:"namespace"`
	Group       string `yaml:"group"`
	// ConfigDataID 非空时从 Nacos 配置中心拉取 YAML 覆盖本地配置
	ConfigDataID string `yaml:"configDataId"`
}

type KafkaConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Brokers          []string `yaml:"brokers"`
	ReservationTopic string   `yaml:"reservationTopic"`
	ReviewTopic      string   `yaml:"reviewTopic"`
}

type RedisConfig struct {
	Addrs string `yaml:"addrs"`
}

type MySQLConfig struct {
	Addr     string `yaml:"addr"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type InventoryConfig struct {
	Port              int            `yaml:"port"`
	Store             string         `yaml:"store"` // memory | redis
	LowStockThreshold int            `yaml:"lowStockThreshold"`
	Seed              map[string]int `yaml:"seed"`
}

type CatalogConfig struct {
	Port  int    `yaml:"port"`
	Store string `yaml:"store"` // memory | mysql
}

type ReviewConfig struct {
	Port   int    `yaml:"port"`
	Policy string `yaml:"policy"`
}

type GatewayConfig struct {
	Port                int           `yaml:"port"`
	ProductServiceURL   string        `yaml:"productServiceUrl"`
	InventoryServiceURL string        `yaml:"inventoryServiceUrl"`
	ReviewServiceURL    string        `yaml:"reviewServiceUrl"`
	Timeout             time.Duration `yaml:"timeout"`
}

// DefaultConfig 返回不依赖任何外部组件即可运行的默认配置
func DefaultConfig() Config {
	return Config{
		App: AppConfig{Env: "dev", LogLevel: "info", LogPretty: true},
		Infra: InfraConfig{
			Nacos: NacosConfig{ServerAddrs: "localhost:8848", Group: "DEFAULT_GROUP"},
			Kafka: KafkaConfig{
				Brokers:          []string{"localhost:9092"},
				ReservationTopic: "inventory-reservations",
				ReviewTopic:      "review-events",
			},
			Redis: RedisConfig{Addrs: "localhost:6379"},
			MySQL: MySQLConfig{Addr: "localhost:3306", User: "root", Database: "catalog"},
		},
		Inventory: InventoryConfig{
			Port:              8082,
			Store:             "memory",
			LowStockThreshold: 5,
			Seed:              map[string]int{"prod-123": 15, "prod-456": 8},
		},
		Catalog: CatalogConfig{Port: 8083, Store: "memory"},
		Review: ReviewConfig{
			Port:   8084,
			Policy: "rating >= 1 && rating <= 5 && size(text) > 0 && size(user) > 0",
		},
		Gateway: GatewayConfig{
			Port:                8080,
			ProductServiceURL:   "http://localhost:8083",
			InventoryServiceURL: "http://localhost:8082",
			ReviewServiceURL:    "http://localhost:8084",
			Timeout:             3 * time.Second,
		},
	}
}

var (
	currentConfig = DefaultConfig()
	configLock    sync.RWMutex
)

// GetCurrentConfig 返回当前生效的配置
func GetCurrentConfig() Config {
	configLock.RLock()
	defer configLock.RUnlock()
	return currentConfig
}

func setCurrentConfig(cfg Config) {
	configLock.Lock()
	currentConfig = cfg
	configLock.Unlock()
}

// LoadConfig 依次应用：默认值 -> YAML 文件 -> 环境变量。文件不存在时只用默认值。
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := mergeYAML(&cfg, data); err != nil {
			return cfg, errors.Wrapf(err, "parse config file %s", path)
		}
	case os.IsNotExist(err):
	default:
		return cfg, errors.Wrapf(err, "read config file %s", path)
	}

	applyEnv(&cfg)
	return cfg, nil
}

// mergeYAML 把 YAML 文档覆盖到已有配置上，文档中未出现的字段保持原值。
// 库存种子数据整体替换而不是按 key 合并。
func mergeYAML(cfg *Config, data []byte) error {
	seed := cfg.Inventory.Seed
	cfg.Inventory.Seed = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg.Inventory.Seed = seed
		return err
	}
	if cfg.Inventory.Seed == nil {
		cfg.Inventory.Seed = seed
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.App.LogLevel = getEnv("LOG_LEVEL", cfg.App.LogLevel)
	cfg.Infra.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", cfg.Infra.Jaeger.Endpoint)

	cfg.Infra.Nacos.Enabled = getEnvBool("NACOS_ENABLED", cfg.Infra.Nacos.Enabled)
	cfg.Infra.Nacos.ServerAddrs = getEnv("NACOS_SERVER_ADDRS", cfg.Infra.Nacos.ServerAddrs)
	cfg.Infra.Nacos.Namespace = getEnv("NACOS_NAMESPACE", cfg.Infra.Nacos.Namespace)
	cfg.Infra.Nacos.Group = getEnv("NACOS_GROUP", cfg.Infra.Nacos.Group)

	cfg.Infra.Kafka.Enabled = getEnvBool("KAFKA_ENABLED", cfg.Infra.Kafka.Enabled)
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.Infra.Kafka.Brokers = strings.Split(brokers, ",")
	}
	cfg.Infra.Redis.Addrs = getEnv("REDIS_ADDRS", cfg.Infra.Redis.Addrs)
	cfg.Infra.MySQL.Addr = getEnv("MYSQL_ADDR", cfg.Infra.MySQL.Addr)
	cfg.Infra.MySQL.Password = getEnv("MYSQL_PASSWORD", cfg.Infra.MySQL.Password)

	cfg.Inventory.Store = getEnv("INVENTORY_STORE", cfg.Inventory.Store)
	cfg.Catalog.Store = getEnv("CATALOG_STORE", cfg.Catalog.Store)

	cfg.Gateway.ProductServiceURL = getEnv("PRODUCT_SERVICE_URL", cfg.Gateway.ProductServiceURL)
	cfg.Gateway.InventoryServiceURL = getEnv("INVENTORY_SERVICE_URL", cfg.Gateway.InventoryServiceURL)
	cfg.Gateway.ReviewServiceURL = getEnv("REVIEW_SERVICE_URL", cfg.Gateway.ReviewServiceURL)
}

// getEnv 是一个内部辅助函数，从环境变量中读取配置。
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
