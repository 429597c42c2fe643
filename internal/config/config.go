// 包 config 负责加载与校验应用配置（settings.yaml）：
// - YAML 文件为基础，.env 与 FOLIO_* 环境变量可覆盖
// - Validate 统一填充默认值并做合法性检查
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"go-folio/internal/locale"
)

// EnvPrefix 为环境变量覆盖的统一前缀。
const EnvPrefix = "FOLIO_"

type Config struct {
	ContentDir      string      `yaml:"CONTENT_DIR" env:"CONTENT_DIR"`
	ReferenceLocale string      `yaml:"REFERENCE_LOCALE" env:"REFERENCE_LOCALE"`
	Site            Site        `yaml:"SITE" envPrefix:"SITE_"`
	Server          Server      `yaml:"SERVER" envPrefix:"SERVER_"`
	Database        Database    `yaml:"DATABASE" envPrefix:"DATABASE_"`
	Concurrency     Concurrency `yaml:"CONCURRENCY" envPrefix:"CONCURRENCY_"`
	SimpleMode      bool        `yaml:"SIMPLE_MODE" env:"SIMPLE_MODE"`
	ResetOnStart    bool        `yaml:"RESET_ON_START" env:"RESET_ON_START"`
	ExportPath      string      `yaml:"EXPORT_PATH" env:"EXPORT_PATH"`
	CoverageKeep    int         `yaml:"COVERAGE_KEEP_DAYS" env:"COVERAGE_KEEP_DAYS"`
	LogLevel        string      `yaml:"LOG_LEVEL" env:"LOG_LEVEL"`
	LogFormat       string      `yaml:"LOG_FORMAT" env:"LOG_FORMAT"` // pretty|json|text
	LogLocale       string      `yaml:"LOG_LOCALE" env:"LOG_LOCALE"` // zh-CN|en
	LogColor        string      `yaml:"LOG_COLOR" env:"LOG_COLOR"`   // auto|always|never
	LogFile         string      `yaml:"LOG_FILE" env:"LOG_FILE"`

	// Reference 为 ReferenceLocale 校验后的结果。
	Reference locale.Locale `yaml:"-" env:"-"`
}

type Site struct {
	Title       string `yaml:"title" env:"TITLE"`
	Description string `yaml:"description" env:"DESCRIPTION"`
	BaseURL     string `yaml:"base_url" env:"BASE_URL"`
	Author      string `yaml:"author" env:"AUTHOR"`
	Email       string `yaml:"email" env:"EMAIL"`
}

type Server struct {
	Addr        string   `yaml:"addr" env:"ADDR"`
	CORSOrigins []string `yaml:"cors_origins" env:"CORS_ORIGINS" envSeparator:","`
}

type Database struct {
	Type string `yaml:"type" env:"TYPE"` // sqlite (default)
	DSN  string `yaml:"dsn" env:"DSN"`   // ./folio.db
}

type Concurrency struct {
	Read int `yaml:"read" env:"READ"`
}

// Load 读取 YAML 并应用 .env/环境变量覆盖，最后校验。
// path 为空时只使用环境变量与默认值。
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config %s: %w", path, err)
		}
		defer f.Close()
		b, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
		}
	}
	// .env 不存在是常态，忽略错误
	_ = godotenv.Load(".env")
	if err := env.ParseWithOptions(&c, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env overrides: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// Validate 负责合法性检查与默认值设置。
func (c *Config) Validate() error {
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.ReferenceLocale == "" {
		c.ReferenceLocale = string(locale.Reference)
	}
	ref, ok := locale.Parse(c.ReferenceLocale)
	if !ok {
		return fmt.Errorf("unsupported reference locale: %s", c.ReferenceLocale)
	}
	c.Reference = ref
	if c.Concurrency.Read < 0 {
		return errors.New("CONCURRENCY.read must be >= 0")
	}
	if c.Concurrency.Read == 0 {
		c.Concurrency.Read = 8
	}
	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
	if c.Database.Type != "sqlite" {
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}
	if c.Database.DSN == "" {
		c.Database.DSN = "./folio.db"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.CoverageKeep < 0 {
		return errors.New("COVERAGE_KEEP_DAYS must be >= 0")
	}
	if c.CoverageKeep == 0 {
		c.CoverageKeep = 90
	}
	if c.ExportPath == "" {
		c.ExportPath = "data.json"
	}
	c.Site.BaseURL = strings.TrimRight(c.Site.BaseURL, "/")
	if c.Site.BaseURL == "" {
		c.Site.BaseURL = "http://localhost" + c.Server.Addr
	}
	if c.Site.Title == "" {
		c.Site.Title = "Portfolio"
	}
	if c.LogFormat == "" {
		c.LogFormat = "pretty"
	}
	if c.LogLocale == "" {
		c.LogLocale = "zh-CN"
	}
	if c.LogColor == "" {
		c.LogColor = "auto"
	}
	return nil
}
