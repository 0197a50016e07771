package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type HTTP struct {
	Addr            string        `yaml:"addr"`            // ":8080"
	ReadTimeout     time.Duration `yaml:"readTimeout"`     // "10s"
	WriteTimeout    time.Duration `yaml:"writeTimeout"`    // "15s"
	IdleTimeout     time.Duration `yaml:"idleTimeout"`     // "60s"
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"` // "10s"
	AllowedOrigins  []string      `yaml:"allowedOrigins"`
}

type Logging struct {
	Env       string `yaml:"env"`       // dev|stage|prod
	Service   string `yaml:"service"`   // chat-service
	Version   string `yaml:"version"`   // v0.1.0
	Backend   string `yaml:"backend"`   // std|zap
	Level     string `yaml:"level"`     // debug|info|warn|error
	AddSource bool   `yaml:"addSource"` // false|true
	Debug     bool   `yaml:"debug"`     // false|true
}

type Postgres struct {
	DSN               string        `yaml:"dsn"`
	MaxConns          int32         `yaml:"maxConns"`
	MinConns          int32         `yaml:"minConns"`
	MaxConnLifetime   time.Duration `yaml:"maxConnLifetime"`
	MaxConnIdleTime   time.Duration `yaml:"maxConnIdleTime"`
	HealthCheckPeriod time.Duration `yaml:"healthCheckPeriod"`
	ApplicationName   string        `yaml:"applicationName"`
	Migrate           bool          `yaml:"migrate"` // CREATE TABLE IF NOT EXISTS на старте
}

func (p Postgres) Validate() error {
	if p.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	return nil
}

type Password struct {
	MinLength  int `yaml:"minLength"`
	BcryptCost int `yaml:"bcryptCost"`
}

func (p Password) Validate() error {
	if p.MinLength < 6 {
		return errors.New("security.password.minLength must be >= 6")
	}
	if p.BcryptCost != 0 && (p.BcryptCost < 4 || p.BcryptCost > 18) {
		return errors.New("security.password.bcryptCost must be in [4..18]")
	}
	return nil
}

type JWT struct {
	Alg            string        `yaml:"alg"`            // HS256|RS256
	Secret         string        `yaml:"secret"`         // HS256
	PrivateKeyPath string        `yaml:"privateKeyPath"` // RS256
	PublicKeyPath  string        `yaml:"publicKeyPath"`  // RS256
	Issuer         string        `yaml:"issuer"`
	Audience       string        `yaml:"audience"`
	AccessTTL      time.Duration `yaml:"accessTTL"` // напр. 168h
	ClockSkew      time.Duration `yaml:"clockSkew"` // напр. 30s
}

func (j JWT) Validate() error {
	switch strings.ToUpper(j.Alg) {
	case "HS256":
		if j.Secret == "" {
			return errors.New("security.jwt.secret is required for HS256")
		}
	case "RS256":
		if j.PrivateKeyPath == "" {
			return errors.New("security.jwt.privateKeyPath is required for RS256")
		}
		if j.PublicKeyPath == "" {
			return errors.New("security.jwt.publicKeyPath is required for RS256")
		}
	default:
		return fmt.Errorf("security.jwt.alg %q is not supported", j.Alg)
	}
	if j.Issuer == "" {
		return errors.New("security.jwt.issuer is required")
	}
	if j.AccessTTL <= 0 {
		return errors.New("security.jwt.accessTTL must be > 0")
	}
	if j.ClockSkew < 0 || j.ClockSkew > time.Minute {
		return errors.New("security.jwt.clockSkew must be in [0..1m]")
	}
	return nil
}

type Security struct {
	Password Password `yaml:"password"`
	JWT      JWT      `yaml:"jwt"`
}

func (s Security) Validate() error {
	if err := s.Password.Validate(); err != nil {
		return err
	}
	return s.JWT.Validate()
}

type Realtime struct {
	// Username whose connections receive monitor_message for every message.
	MonitorUsername string `yaml:"monitorUsername"`
	// Если задан, monitor-пользователь создаётся при старте. Иначе его заводят вручную:
	// регистрация этого имени через /auth/register закрыта.
	MonitorPassword string `yaml:"monitorPassword"`
	// false: one connection per user, the newest wins. true: deliver to every open connection.
	MultiConnection bool `yaml:"multiConnection"`
	SendBuffer      int  `yaml:"sendBuffer"`
}

type WS struct {
	PingEvery       time.Duration `yaml:"pingEvery"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ReadLimit       int64         `yaml:"readLimit"`
	EventsPerSecond float64       `yaml:"eventsPerSecond"`
	Burst           int           `yaml:"burst"`
}

type Config struct {
	HTTP     HTTP     `yaml:"http"`
	Logging  Logging  `yaml:"logging"`
	Postgres Postgres `yaml:"postgres"`
	Security Security `yaml:"security"`
	Realtime Realtime `yaml:"realtime"`
	WS       WS       `yaml:"ws"`
}

// LoadConfig читает YAML из CONFIG_PATH (по умолчанию ./config/config.yaml).
func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	if err := c.Postgres.Validate(); err != nil {
		return err
	}
	if err := c.Security.Validate(); err != nil {
		return err
	}
	if c.Realtime.SendBuffer < 1 {
		return errors.New("realtime.sendBuffer must be >= 1")
	}
	if c.WS.EventsPerSecond < 0 {
		return errors.New("ws.eventsPerSecond must be >= 0")
	}
	return nil
}

// установка дефолтов, если значения не указаны
func (c *Config) setDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 10 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 15 * time.Second
	}
	if c.HTTP.IdleTimeout == 0 {
		c.HTTP.IdleTimeout = 60 * time.Second
	}
	if c.HTTP.ShutdownTimeout == 0 {
		c.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if len(c.HTTP.AllowedOrigins) == 0 {
		c.HTTP.AllowedOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	}

	if c.Logging.Service == "" {
		c.Logging.Service = "chat-service"
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "dev"
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v0.1.0"
	}
	if c.Logging.Backend == "" {
		c.Logging.Backend = "std"
	}

	if c.Security.Password.MinLength == 0 {
		c.Security.Password.MinLength = 6
	}
	if c.Security.JWT.Alg == "" {
		c.Security.JWT.Alg = "HS256"
	}
	if c.Security.JWT.Issuer == "" {
		c.Security.JWT.Issuer = "chat-service"
	}
	if c.Security.JWT.AccessTTL == 0 {
		c.Security.JWT.AccessTTL = 7 * 24 * time.Hour
	}

	if c.Realtime.MonitorUsername == "" {
		c.Realtime.MonitorUsername = "superadmin"
	}
	if c.Realtime.SendBuffer == 0 {
		c.Realtime.SendBuffer = 64
	}

	if c.WS.PingEvery == 0 {
		c.WS.PingEvery = 15 * time.Second
	}
	if c.WS.WriteTimeout == 0 {
		c.WS.WriteTimeout = 5 * time.Second
	}
	if c.WS.ReadLimit == 0 {
		c.WS.ReadLimit = 1 << 20
	}
	if c.WS.EventsPerSecond == 0 {
		c.WS.EventsPerSecond = 20
	}
	if c.WS.Burst == 0 {
		c.WS.Burst = 40
	}
}
