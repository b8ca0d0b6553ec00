package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Auth   AuthConfig   `yaml:"auth"`
	Kafka  KafkaConfig  `yaml:"kafka"`
	Log    LogConfig    `yaml:"log"`
	Farm   FarmConfig   `yaml:"farm"`
	Rules  RulesConfig  `yaml:"rules"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	CORSOrigins  []string      `yaml:"cors_origins"`
}

// DBConfig: DSN vacío => repos en memoria.
type DBConfig struct {
	DSN string `yaml:"dsn"`
}

// AuthConfig: JWTSecret vacío => modo dev con X-Debug-User-ID.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"`
	TokenTTL       time.Duration `yaml:"token_ttl"`
	GoogleClientID string        `yaml:"google_client_id"`
	TokenInfoURL   string        `yaml:"tokeninfo_url"`
}

// KafkaConfig: sin brokers => las alertas no se publican.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	App    string `yaml:"app"`
}

type FarmConfig struct {
	Name     string `yaml:"name"`
	Location string `yaml:"location"`
}

type RulesConfig struct {
	// Extended agrega grasa y lactosa bajas y pH fuera de rango.
	Extended bool `yaml:"extended"`
	Workers  int  `yaml:"workers"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":5000",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			CORSOrigins:  []string{"*"},
		},
		Auth: AuthConfig{
			TokenTTL:     24 * time.Hour,
			TokenInfoURL: "https://oauth2.googleapis.com/tokeninfo",
		},
		Kafka: KafkaConfig{
			Topic: "smartmilk.alerts",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			App:    "smartmilk",
		},
		Farm: FarmConfig{
			Name:     "SmartMilk Dairy Farm",
			Location: "Farm Location",
		},
		Rules: RulesConfig{
			Workers: 4,
		},
	}
}

// Load lee YAML (path vacío o inexistente => defaults), aplica env y valida.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides(getenv func(string) string) {
	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(v, ":")
	}
	if v := getenv("DB_DSN"); v != "" {
		c.DB.DSN = v
	}
	if v := getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := getenv("GOOGLE_CLIENT_ID"); v != "" {
		c.Auth.GoogleClientID = v
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitCSV(v)
	}
	if v := getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := getenv("APP_NAME"); v != "" {
		c.Log.App = v
	}
	if v := getenv("RULES_EXTENDED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Rules.Extended = b
		}
	}
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server timeouts must be positive"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	if c.Auth.GoogleClientID != "" && c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.google_client_id requires auth.jwt_secret"))
	}
	if len(c.Kafka.Brokers) > 0 && strings.TrimSpace(c.Kafka.Topic) == "" {
		errs = append(errs, errors.New("kafka.topic is required when brokers are set"))
	}
	if c.Rules.Workers < 0 {
		errs = append(errs, errors.New("rules.workers must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func splitCSV(s string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
