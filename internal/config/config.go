// Package config holds the settings shared by the server and terminal entry points.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/chess-backend/internal/model"
)

// ErrInvalidConfig indicates a setting that cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string
	// AllowOrigins is the comma-separated CORS origin list.
	AllowOrigins string
	// Policy names the rules policy: baseline, extended or strict.
	Policy string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// ClockLimit is each side's thinking time; zero disables clocks.
	ClockLimit time.Duration
}

func Default() Config {
	return Config{
		Addr:         ":3000",
		AllowOrigins: "http://localhost:5173",
		Policy:       model.PolicyExtended.String(),
		LogLevel:     "info",
		ClockLimit:   10 * time.Minute,
	}
}

// FromEnv returns Default overridden by any CHESS_* environment variables.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	if v, ok := lookup("CHESS_ADDR"); ok {
		c.Addr = v
	}
	if v, ok := lookup("CHESS_ALLOW_ORIGINS"); ok {
		c.AllowOrigins = v
	}
	if v, ok := lookup("CHESS_POLICY"); ok {
		c.Policy = v
	}
	if v, ok := lookup("CHESS_LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup("CHESS_CLOCK"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return c, fmt.Errorf("CHESS_CLOCK %q: %w", v, ErrInvalidConfig)
		}
		c.ClockLimit = d
	}
	return c, nil
}

// RegisterFlags binds the settings to fs, using the current values as defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "HTTP listen address")
	fs.StringVar(&c.AllowOrigins, "origins", c.AllowOrigins, "Comma-separated CORS origins")
	fs.StringVar(&c.Policy, "policy", c.Policy, "Rules policy: baseline, extended or strict")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: debug, info, warn, error")
	fs.DurationVar(&c.ClockLimit, "clock", c.ClockLimit, "Thinking time per side (0 disables clocks)")
}

// Load reads the environment and then args, which take precedence.
func Load(fs *flag.FlagSet, args []string) (Config, error) {
	c, err := FromEnv()
	if err != nil {
		return c, err
	}
	c.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return c, err
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	if _, err := model.ParsePolicy(c.Policy); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidConfig)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.ClockLimit < 0 {
		return fmt.Errorf("negative clock %s: %w", c.ClockLimit, ErrInvalidConfig)
	}
	for _, origin := range strings.Split(c.AllowOrigins, ",") {
		// cors refuses a wildcard when credentials are allowed
		if strings.TrimSpace(origin) == "*" {
			return fmt.Errorf("wildcard origin with credentials: %w", ErrInvalidConfig)
		}
	}
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("empty listen address: %w", ErrInvalidConfig)
	}
	return nil
}

// RulesPolicy returns the parsed policy; call Validate first.
func (c Config) RulesPolicy() model.Policy {
	p, _ := model.ParsePolicy(c.Policy)
	return p
}

// Level maps LogLevel onto the fiber logger levels.
func (c Config) Level() (log.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return log.LevelDebug, nil
	case "info", "":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return log.LevelInfo, fmt.Errorf("unknown log level %q: %w", c.LogLevel, ErrInvalidConfig)
}
