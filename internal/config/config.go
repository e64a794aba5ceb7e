package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultPort は自動選択を開始するポート番号
const DefaultPort = 8000

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Site      SiteConfig      `yaml:"site" toml:"site"`
	Browser   BrowserConfig   `yaml:"browser" toml:"browser"`
	Inference InferenceConfig `yaml:"inference" toml:"inference"`
	Log       LogConfig       `yaml:"log" toml:"log"`
}

// ServerConfig はHTTPサーバーの設定
type ServerConfig struct {
	Host string `yaml:"host" toml:"host"` // リッスンするホスト
	Port int    `yaml:"port" toml:"port"` // リッスンするポート番号（自動選択時は開始番号）

	// タイムアウト設定
	ReadTimeout  time.Duration `yaml:"read_timeout" toml:"read_timeout"`   // 読み込みタイムアウト
	WriteTimeout time.Duration `yaml:"write_timeout" toml:"write_timeout"` // 書き込みタイムアウト
}

// SiteConfig は配信するディレクトリの設定
type SiteConfig struct {
	Root      string `yaml:"root" toml:"root"`             // 配信ルート
	EntryFile string `yaml:"entry_file" toml:"entry_file"` // 起動時に存在を確認するファイル
}

// BrowserConfig はブラウザ自動起動の設定
type BrowserConfig struct {
	Open bool `yaml:"open" toml:"open"`
}

// InferenceConfig は別途起動しておく推論サービスの案内
type InferenceConfig struct {
	Hint string `yaml:"hint" toml:"hint"`
}

// LogConfig はアクセスログの設定
type LogConfig struct {
	Quiet bool `yaml:"quiet" toml:"quiet"` // trueならリクエスト毎のログを出さない
}

// Default はデフォルト設定を返す
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         DefaultPort,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 0,
		},
		Site: SiteConfig{
			Root:      ".",
			EntryFile: "index.html",
		},
		Browser: BrowserConfig{
			Open: true,
		},
		Inference: InferenceConfig{
			Hint: "OLLAMA_ORIGINS=* ollama serve",
		},
		Log: LogConfig{
			Quiet: true,
		},
	}
}

// Load は設定を読み込む
// SERVE_CONFIG が設定されていればその設定ファイルを使う
func Load() (*Config, error) {
	return LoadFrom(os.Getenv("SERVE_CONFIG"))
}

// LoadFrom は設定を読み込む
// デフォルト値 → 設定ファイル → 環境変数 の順に上書きする
// path が空なら設定ファイルは読まない。形式は拡張子で判定する (.yaml / .yml / .toml)
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil {
			return fmt.Errorf("YAMLの解析に失敗 (%s): %w", path, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(c); err != nil {
			return fmt.Errorf("TOMLの解析に失敗 (%s): %w", path, err)
		}
	default:
		return fmt.Errorf("未対応の設定ファイル形式: %q", ext)
	}

	return nil
}

func (c *Config) applyEnv() {
	c.Server.Host = getEnvOrDefault("SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnvAsIntOrDefault("PORT", c.Server.Port)
	c.Site.Root = getEnvOrDefault("SITE_ROOT", c.Site.Root)
	c.Browser.Open = getEnvAsBoolOrDefault("OPEN_BROWSER", c.Browser.Open)
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	// 0 はOSに割り当てを任せる
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("無効なポート番号: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("タイムアウトが負の値です")
	}

	if c.Site.Root == "" {
		return fmt.Errorf("配信ルートが指定されていません")
	}
	if c.Site.EntryFile == "" {
		return fmt.Errorf("エントリーファイルが指定されていません")
	}

	return nil
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// EntryPath はエントリーファイルのパスを返す
func (c *Config) EntryPath() string {
	return filepath.Join(c.Site.Root, c.Site.EntryFile)
}

// getEnvOrDefault は環境変数を取得し、設定されていない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は環境変数を整数として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
