package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/JoeShih716/go-audit-ledger/pkg/mysql"
)

// Config 應用程式設定，對應 config/config.yaml
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Input   InputConfig   `yaml:"input"`
	Report  ReportConfig  `yaml:"report"`
	Journal JournalConfig `yaml:"journal"`
	HTTP    HTTPConfig    `yaml:"http"`
	MySQL   MySQLConfig   `yaml:"mysql"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug / info / warn / error
	Format string `yaml:"format"` // text / json
}

type InputConfig struct {
	Path string `yaml:"path"`
	// AllowUnknownActions 不認得的交易代碼不視為格式錯誤，交由帳本略過
	AllowUnknownActions bool `yaml:"allow_unknown_actions"`
}

type ReportConfig struct {
	Format string `yaml:"format"` // text / csv / json
	Output string `yaml:"output"` // 空字串代表 stdout
}

type JournalConfig struct {
	Path   string `yaml:"path"`   // 空字串代表不寫稽核日誌
	Verify bool   `yaml:"verify"` // 重放結束後讀回日誌核對筆數
}

type HTTPConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// MySQLConfig 快照匯出設定
type MySQLConfig struct {
	Enabled      bool `yaml:"enabled"`
	mysql.Config `yaml:",inline"`
}

// Default 不讀檔時使用的設定
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load 讀取 yaml 設定檔並補全預設值
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.setDefaults()
	return &cfg, nil
}

// setDefaults 補全預設配置 (如果 yaml 沒寫)
func (c *Config) setDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Report.Format == "" {
		c.Report.Format = "text"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	c.MySQL.SetDefaults()
}

// SlogLevel 將設定的等級轉為 slog.Level，無法辨識時為 Info
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger 依設定建立 logger
func (c LogConfig) NewLogger(out io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if strings.EqualFold(c.Format, "json") {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}
