// Package config загрузка настроек сервиса из config.toml с переопределением через окружение.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	LockDriverLocal = "local"
	LockDriverRedis = "redis"
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Storage  StorageConfig  `toml:"storage"`
	Locking  LockingConfig  `toml:"locking"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	MigrateOnStart  bool   `toml:"migrate_on_start"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// StorageConfig выбор хранилища: postgres или memory (с начальными данными из seed-файла)
type StorageConfig struct {
	Driver   string `toml:"driver"`
	SeedFile string `toml:"seed_file"`
}

// LockingConfig блокировка слотов: local (один экземпляр) или redis (несколько экземпляров)
type LockingConfig struct {
	Driver     string `toml:"driver"`
	RedisAddr  string `toml:"redis_addr"`
	RedisDB    int    `toml:"redis_db"`
	TimeoutMs  int    `toml:"timeout_ms"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// Timeout сколько ждать освобождения блокировки слота
func (l LockingConfig) Timeout() time.Duration {
	return time.Duration(l.TimeoutMs) * time.Millisecond
}

// TTL время жизни блокировки в redis
func (l LockingConfig) TTL() time.Duration {
	return time.Duration(l.TTLSeconds) * time.Second
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// Default значения, если файл их не задает
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "barber_booking",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			MigrateOnStart:  true,
		},
		Storage: StorageConfig{
			Driver: StorageDriverPostgres,
		},
		Locking: LockingConfig{
			Driver:     LockDriverLocal,
			RedisAddr:  "localhost:6379",
			TimeoutMs:  3000,
			TTLSeconds: 10,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "barber-booking-service",
		},
	}
}

// Load читает .env (если есть), затем TOML-файл поверх значений по умолчанию,
// затем применяет переменные окружения. Отсутствие файла конфигурации не ошибка.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	strVars := map[string]*string{
		"DB_HOST":        &c.Database.Host,
		"DB_USER":        &c.Database.User,
		"DB_PASSWORD":    &c.Database.Password,
		"DB_NAME":        &c.Database.DBName,
		"DB_SSLMODE":     &c.Database.SSLMode,
		"STORAGE_DRIVER": &c.Storage.Driver,
		"SEED_FILE":      &c.Storage.SeedFile,
		"LOCK_DRIVER":    &c.Locking.Driver,
		"REDIS_ADDR":     &c.Locking.RedisAddr,
		"LOG_LEVEL":      &c.Logs.Level,
		"LOG_FILE":       &c.Logs.File,
	}
	for name, dst := range strVars {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}

	intVars := map[string]*int{
		"HTTP_PORT": &c.Server.HTTPPort,
		"DB_PORT":   &c.Database.Port,
		"REDIS_DB":  &c.Locking.RedisDB,
	}
	for name, dst := range intVars {
		v, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("env %s: %w", name, err)
		}
		*dst = n
	}

	if v, ok := os.LookupEnv("METRICS_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("env METRICS_ENABLED: %w", err)
		}
		c.Metrics.Enabled = enabled
	}

	return nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("storage.driver must be %q or %q, got %q", StorageDriverPostgres, StorageDriverMemory, c.Storage.Driver)
	}

	switch c.Locking.Driver {
	case LockDriverLocal:
	case LockDriverRedis:
		if c.Locking.RedisAddr == "" {
			return errors.New("locking.redis_addr is required for redis locking")
		}
		if c.Locking.TTLSeconds <= 0 {
			return errors.New("locking.ttl_seconds must be positive")
		}
	default:
		return fmt.Errorf("locking.driver must be %q or %q, got %q", LockDriverLocal, LockDriverRedis, c.Locking.Driver)
	}

	if c.Locking.TimeoutMs <= 0 {
		return errors.New("locking.timeout_ms must be positive")
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port out of range: %d", c.Server.HTTPPort)
	}

	return nil
}
