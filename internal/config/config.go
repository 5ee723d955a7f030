package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/pwfilter/internal/security/password"
	"github.com/dropDatabas3/pwfilter/internal/security/wordlist"
	"github.com/dropDatabas3/pwfilter/internal/settings"
)

// Config is the process configuration of the filter host and the CLI. The
// password policy itself (list paths, toggles) is NOT here: it lives in the
// settings backend and is read fresh on every validation.
type Config struct {
	App struct {
		Env string `yaml:"env"` // dev|prod
	} `yaml:"app"`

	Log struct {
		Level  string   `yaml:"level"`
		Env    string   `yaml:"env"`
		Output []string `yaml:"output"`
	} `yaml:"log"`

	Settings struct {
		Backend string `yaml:"backend"` // file|env|redis|postgres
		Scope   string `yaml:"scope"`
		File    struct {
			Path string `yaml:"path"`
		} `yaml:"file"`
		Env struct {
			Prefix string `yaml:"prefix"`
		} `yaml:"env"`
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
		Postgres struct {
			DSN string `yaml:"dsn"`
		} `yaml:"postgres"`
	} `yaml:"settings"`

	Wordlist struct {
		MaxFileBytes int64 `yaml:"max_file_bytes"`
	} `yaml:"wordlist"`

	Password struct {
		// MaxBytes bounds the scratch copies of a candidate; longer
		// candidates are denied with allocation_failure.
		MaxBytes int `yaml:"max_bytes"`
	} `yaml:"password"`

	Audit struct {
		Sinks        []string `yaml:"sinks"` // log|nats
		MaskAccounts bool     `yaml:"mask_accounts"`
		NATS         struct {
			URL     string `yaml:"url"`
			Subject string `yaml:"subject"`
		} `yaml:"nats"`
	} `yaml:"audit"`

	Metrics struct {
		Textfile string `yaml:"textfile"`
	} `yaml:"metrics"`
}

// Load reads the YAML at path, fills defaults, applies env overrides and
// validates. Relative file paths are resolved against the YAML directory.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c.finish(filepath.Dir(path))
}

// LoadFromEnv builds a Config from defaults and environment only.
func LoadFromEnv() (*Config, error) {
	var c Config
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return c.finish(wd)
}

func (c *Config) finish(base string) (*Config, error) {
	c.setDefaults()

	// Overrides por env + salvaguarda prod
	c.applyEnvOverrides()

	// Normalizar rutas relativas respecto al directorio del YAML
	c.Settings.File.Path = resolve(base, c.Settings.File.Path)
	c.Metrics.Textfile = resolve(base, c.Metrics.Textfile)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) setDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Env == "" {
		c.Log.Env = c.App.Env
	}
	if c.Settings.Backend == "" {
		c.Settings.Backend = settings.BackendFile
	}
	if c.Settings.Scope == "" {
		c.Settings.Scope = password.DefaultScope
	}
	if c.Settings.File.Path == "" {
		c.Settings.File.Path = "settings.yaml"
	}
	if c.Settings.Redis.Addr == "" {
		c.Settings.Redis.Addr = "localhost:6379"
	}
	if c.Settings.Redis.Prefix == "" {
		c.Settings.Redis.Prefix = "pwfilter:settings"
	}
	if c.Wordlist.MaxFileBytes == 0 {
		c.Wordlist.MaxFileBytes = wordlist.DefaultMaxBytes
	}
	if c.Password.MaxBytes == 0 {
		c.Password.MaxBytes = password.MaxPasswordBytes
	}
	if c.Audit.Sinks == nil {
		c.Audit.Sinks = []string{"log"}
	}
	if c.Audit.NATS.Subject == "" {
		c.Audit.NATS.Subject = "pwfilter.audit"
	}
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvInt64(key string) (int64, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}
func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

// applyEnvOverrides: pisa el YAML con variables de entorno
// y fuerza el enmascarado de cuentas en prod.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := getEnvStr("LOG_ENV"); ok {
		c.Log.Env = v
	}

	// SETTINGS
	if v, ok := getEnvStr("PWFILTER_SETTINGS_BACKEND"); ok {
		c.Settings.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := getEnvStr("PWFILTER_SETTINGS_SCOPE"); ok {
		c.Settings.Scope = strings.TrimSpace(v)
	}
	if v, ok := getEnvStr("PWFILTER_SETTINGS_FILE"); ok {
		c.Settings.File.Path = v
	}
	if v, ok := getEnvStr("PWFILTER_SETTINGS_ENV_PREFIX"); ok {
		c.Settings.Env.Prefix = v
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Settings.Redis.Addr = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Settings.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Settings.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Settings.Redis.Prefix = v
	}
	if v, ok := getEnvStr("POSTGRES_DSN"); ok {
		c.Settings.Postgres.DSN = v
	}

	// LISTAS / PASSWORD
	if v, ok := getEnvInt64("PWFILTER_MAX_FILE_BYTES"); ok {
		c.Wordlist.MaxFileBytes = v
	}
	if v, ok := getEnvInt("PWFILTER_MAX_PASSWORD_BYTES"); ok {
		c.Password.MaxBytes = v
	}

	// AUDIT
	if v, ok := getEnvCSV("PWFILTER_AUDIT_SINKS"); ok {
		c.Audit.Sinks = v
	}
	if v, ok := getEnvBool("PWFILTER_AUDIT_MASK_ACCOUNTS"); ok {
		c.Audit.MaskAccounts = v
	}
	if v, ok := getEnvStr("NATS_URL"); ok {
		c.Audit.NATS.URL = v
	}
	if v, ok := getEnvStr("PWFILTER_AUDIT_NATS_SUBJECT"); ok {
		c.Audit.NATS.Subject = v
	}

	if v, ok := getEnvStr("PWFILTER_METRICS_TEXTFILE"); ok {
		c.Metrics.Textfile = v
	}

	// Guardia dura: en prod las cuentas nunca salen en claro.
	if strings.EqualFold(c.App.Env, "prod") {
		c.Audit.MaskAccounts = true
	}
}

func resolve(base, p string) string {
	p = strings.TrimSpace(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// Validate checks values that would otherwise fail on the first validation.
func (c *Config) Validate() error {
	var errs []error
	switch c.Settings.Backend {
	case settings.BackendFile, settings.BackendEnv, settings.BackendRedis:
	case settings.BackendPostgres:
		if strings.TrimSpace(c.Settings.Postgres.DSN) == "" {
			errs = append(errs, errors.New("settings.postgres.dsn is required for the postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("settings.backend %q is not one of file, env, redis, postgres", c.Settings.Backend))
	}
	if c.Wordlist.MaxFileBytes < 4 {
		errs = append(errs, fmt.Errorf("wordlist.max_file_bytes must be at least 4, got %d", c.Wordlist.MaxFileBytes))
	}
	if c.Password.MaxBytes <= 0 {
		errs = append(errs, fmt.Errorf("password.max_bytes must be positive, got %d", c.Password.MaxBytes))
	}
	for _, s := range c.Audit.Sinks {
		switch s {
		case "log", "nats":
		default:
			errs = append(errs, fmt.Errorf("audit.sinks: unknown sink %q", s))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// SettingsConfig projects the settings section for settings.Open.
func (c *Config) SettingsConfig() settings.Config {
	return settings.Config{
		Backend:   c.Settings.Backend,
		FilePath:  c.Settings.File.Path,
		EnvPrefix: c.Settings.Env.Prefix,
		Redis: settings.RedisConfig{
			Addr:     c.Settings.Redis.Addr,
			Password: c.Settings.Redis.Password,
			DB:       c.Settings.Redis.DB,
			Prefix:   c.Settings.Redis.Prefix,
		},
		PostgresDSN: c.Settings.Postgres.DSN,
	}
}

// HasSink reports whether name is listed in audit.sinks.
func (c *Config) HasSink(name string) bool {
	for _, s := range c.Audit.Sinks {
		if s == name {
			return true
		}
	}
	return false
}

// Redacted returns a copy safe to print: secrets are replaced.
func (c Config) Redacted() Config {
	if c.Settings.Redis.Password != "" {
		c.Settings.Redis.Password = "****"
	}
	c.Settings.Postgres.DSN = redactDSN(c.Settings.Postgres.DSN)
	c.Audit.NATS.URL = redactDSN(c.Audit.NATS.URL)
	c.Audit.Sinks = append([]string(nil), c.Audit.Sinks...)
	c.Log.Output = append([]string(nil), c.Log.Output...)
	return c
}

func redactDSN(s string) string {
	if s == "" {
		return s
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return "****"
	}
	if _, ok := u.User.Password(); !ok {
		return u.String()
	}
	// url.UserPassword escaparía los asteriscos; se insertan a mano.
	user := url.User(u.User.Username())
	u.User = user
	return strings.Replace(u.String(), "//"+user.String()+"@", "//"+user.String()+":****@", 1)
}
