// internal/config/config.go
//
// Process configuration.
// Sources, lowest precedence first:
//   1. Defaults.
//   2. A YAML file of KEY: value pairs (CONFIG_FILE, or ./config.yaml if it exists).
//   3. The environment, after godotenv has loaded ./.env.
//
// Keys are the same upper-case names in the file and the environment.

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when CONFIG_FILE is unset and the file exists.
const DefaultFile = "config.yaml"

// ErrMissingKey is wrapped by Load and Parse when a required key is empty.
var ErrMissingKey = errors.New("missing required key")

// Config is the validated process configuration.
type Config struct {
	// TreeHole
	APIURL   string
	Token    string
	Identity string
	ThreadID uint64

	// Loop
	PollInterval time.Duration
	PageSize     int
	Reward       int32
	ReplyToPost  bool

	// Dictionary
	DailySalt   string
	AnswersFile string
	AllowedFile string

	// Status surface; HTTPAddr "" disables it.
	HTTPAddr          string
	DBPath            string
	JWTSecret         string
	JWTExpires        time.Duration
	AdminUsername     string
	AdminPasswordHash string

	LogLevel  string
	LogFormat string
}

// AdminEnabled reports whether the admin login can succeed.
func (c *Config) AdminEnabled() bool {
	return c.JWTSecret != "" && c.AdminUsername != "" && c.AdminPasswordHash != ""
}

// Lookup resolves one key.
type Lookup func(key string) (string, bool)

// Load reads .env, the optional YAML file and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	path, explicit := os.LookupEnv("CONFIG_FILE")
	if !explicit || path == "" {
		path, explicit = DefaultFile, false
	}
	file, err := readFile(path, explicit)
	if err != nil {
		return nil, err
	}
	return Parse(func(k string) (string, bool) {
		if v, ok := os.LookupEnv(k); ok {
			return v, true
		}
		v, ok := file[k]
		return v, ok
	})
}

// readFile loads a flat YAML mapping. A missing file is only an error when
// it was asked for.
func readFile(path string, required bool) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			out[k] = ""
			continue
		}
		out[k] = fmt.Sprint(v)
	}
	return out, nil
}

// Parse builds a Config from lookup, applying defaults and validation.
func Parse(lookup Lookup) (*Config, error) {
	p := parser{lookup: lookup}
	c := &Config{
		APIURL:            p.required("API_URL"),
		Token:             p.required("TREEHOLE_TOKEN"),
		Identity:          p.required("IDENTITY_CODE"),
		ThreadID:          p.getUint("THREAD_ID"),
		PollInterval:      p.getDuration("POLL_INTERVAL", 2*time.Second),
		PageSize:          p.getInt("PAGE_SIZE", 19),
		Reward:            p.getInt32("REWARD_AMOUNT", 1),
		ReplyToPost:       p.getBool("REPLY_TO_POST", false),
		DailySalt:         p.str("DAILY_SALT", "local_dev_salt"),
		AnswersFile:       p.str("WORDS_ANSWERS_FILE", ""),
		AllowedFile:       p.str("WORDS_ALLOWED_FILE", ""),
		HTTPAddr:          p.str("HTTP_ADDR", ":5175"),
		DBPath:            p.str("DB_PATH", ""),
		JWTSecret:         p.str("JWT_SECRET", ""),
		JWTExpires:        p.getDuration("JWT_EXPIRES", 24*time.Hour),
		AdminUsername:     p.str("ADMIN_USERNAME", ""),
		AdminPasswordHash: p.str("ADMIN_PASSWORD_HASH", ""),
		LogLevel:          p.str("LOG_LEVEL", "info"),
		LogFormat:         p.str("LOG_FORMAT", "json"),
	}
	if c.PageSize < 1 {
		p.fail(fmt.Errorf("config: PAGE_SIZE must be positive, got %d", c.PageSize))
	}
	if c.PollInterval <= 0 {
		p.fail(fmt.Errorf("config: POLL_INTERVAL must be positive, got %s", c.PollInterval))
	}
	if c.Reward < 0 {
		p.fail(fmt.Errorf("config: REWARD_AMOUNT must not be negative, got %d", c.Reward))
	}
	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}
	return c, nil
}

// parser collects every problem instead of stopping at the first one.
type parser struct {
	lookup Lookup
	errs   []error
}

func (p *parser) fail(err error) { p.errs = append(p.errs, err) }

func (p *parser) get(k string) (string, bool) {
	v, ok := p.lookup(k)
	return strings.TrimSpace(v), ok
}

// str returns def only when k is unset, so an explicit empty value wins.
func (p *parser) str(k, def string) string {
	if v, ok := p.get(k); ok {
		return v
	}
	return def
}

func (p *parser) required(k string) string {
	v, _ := p.get(k)
	if v == "" {
		p.fail(fmt.Errorf("config: %w: %s", ErrMissingKey, k))
	}
	return v
}

func (p *parser) getUint(k string) uint64 {
	v := p.required(k)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		p.fail(fmt.Errorf("config: %s: %w", k, err))
	}
	return n
}

func (p *parser) getInt(k string, def int) int {
	v, _ := p.get(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(fmt.Errorf("config: %s: %w", k, err))
		return def
	}
	return n
}

func (p *parser) getInt32(k string, def int32) int32 {
	v, _ := p.get(k)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		p.fail(fmt.Errorf("config: %s: %w", k, err))
		return def
	}
	return int32(n)
}

func (p *parser) getBool(k string, def bool) bool {
	v, _ := p.get(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(fmt.Errorf("config: %s: %w", k, err))
		return def
	}
	return b
}

// getDuration accepts Go durations ("2s", "1m30s") or a bare number of seconds.
func (p *parser) getDuration(k string, def time.Duration) time.Duration {
	v, _ := p.get(k)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(fmt.Errorf("config: %s: %w", k, err))
		return def
	}
	return d
}
