package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultPath は設定ファイルの既定パスです。
	DefaultPath = "assets/local.yaml"

	envConfigPath       = "CONFIG_PATH"
	envDatabasePassword = "DATABASE_PASSWORD"
	envAuditAMQPURL     = "AUDIT_AMQP_URL"

	defaultFirstPlanYear = 2026
	defaultPlanYearCount = 6
	defaultLLMModel      = "gemini-2.5-flash"
	defaultLLMAPIKeyEnv  = "GEMINI_API_KEY"
	defaultLLMTimeout    = 20 * time.Second
	defaultAuditExchange = "staffing.audit"
	defaultLogLevel      = "info"
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Planning PlanningConfig `yaml:"planning"`
	LLM      LLMConfig      `yaml:"llm"`
	Audit    AuditConfig    `yaml:"audit"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig は gRPC サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	SSLMode            string        `yaml:"ssl_mode"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
}

// PlanningConfig は対応する計画年の範囲です。
type PlanningConfig struct {
	FirstYear int `yaml:"first_year"`
	YearCount int `yaml:"year_count"`
}

// LLMConfig は補助解釈 (Gemini) の設定です。API キーそのものは環境変数から読みます。
type LLMConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Model       string        `yaml:"model"`
	APIKeyEnv   string        `yaml:"api_key_env"`
	Temperature float32       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"-"`
	TimeoutRaw  string        `yaml:"timeout"`
}

// APIKey は APIKeyEnv が指す環境変数の値を返します。
func (l LLMConfig) APIKey() string {
	return strings.TrimSpace(os.Getenv(l.APIKeyEnv))
}

// AuditConfig は監査記録の出力先です。
type AuditConfig struct {
	Database bool   `yaml:"database"`
	AMQPURL  string `yaml:"amqp_url"`
	Exchange string `yaml:"exchange"`
	Queue    string `yaml:"queue"`
}

// LoggingConfig はロガーの設定です。
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// PathFromEnv は CONFIG_PATH か既定パスを返します。
func PathFromEnv() string {
	if p := strings.TrimSpace(os.Getenv(envConfigPath)); p != "" {
		return p
	}
	return DefaultPath
}

// Load は指定されたパスから設定ファイルを読み込みます。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(envDatabasePassword); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv(envAuditAMQPURL); v != "" {
		c.Audit.AMQPURL = v
	}
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	if err := c.Database.validateAndNormalize(); err != nil {
		return err
	}
	if err := c.Planning.validateAndNormalize(); err != nil {
		return err
	}
	if err := c.LLM.validateAndNormalize(); err != nil {
		return err
	}
	if err := c.Audit.validateAndNormalize(); err != nil {
		return err
	}
	c.Logging.normalize()

	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func (p *PlanningConfig) validateAndNormalize() error {
	if p.FirstYear == 0 {
		p.FirstYear = defaultFirstPlanYear
	}
	if p.YearCount == 0 {
		p.YearCount = defaultPlanYearCount
	}
	if p.FirstYear < 1900 || p.FirstYear > 9999 {
		return fmt.Errorf("config: planning.first_year %d out of range", p.FirstYear)
	}
	if p.YearCount < 0 || p.FirstYear+p.YearCount-1 > 9999 {
		return fmt.Errorf("config: planning.year_count %d out of range", p.YearCount)
	}
	return nil
}

func (l *LLMConfig) validateAndNormalize() error {
	if l.Model == "" {
		l.Model = defaultLLMModel
	}
	if l.APIKeyEnv == "" {
		l.APIKeyEnv = defaultLLMAPIKeyEnv
	}
	if l.Temperature < 0 || l.Temperature > 2 {
		return fmt.Errorf("config: llm.temperature must be within 0..2")
	}

	timeout, err := parseDurationAllowEmpty(l.TimeoutRaw)
	if err != nil {
		return fmt.Errorf("config: llm.timeout: %w", err)
	}
	if timeout == 0 {
		timeout = defaultLLMTimeout
	}
	l.Timeout = timeout
	return nil
}

func (a *AuditConfig) validateAndNormalize() error {
	if a.AMQPURL == "" {
		return nil
	}
	u, err := url.Parse(a.AMQPURL)
	if err != nil || (u.Scheme != "amqp" && u.Scheme != "amqps") {
		return fmt.Errorf("config: audit.amqp_url must be an amqp:// or amqps:// url")
	}
	if a.Exchange == "" {
		a.Exchange = defaultAuditExchange
	}
	return nil
}

func (l *LoggingConfig) normalize() {
	l.Level = strings.ToLower(strings.TrimSpace(l.Level))
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN は pgx と golang-migrate 用の接続文字列を返します。認証情報はエスケープします。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}
