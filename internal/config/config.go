package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/mlsorensen/goclock"
	"github.com/mlsorensen/goclock/pkg/clock/comms"
)

// Config represents the controller configuration
type Config struct {
	Peer    PeerConfig    `yaml:"peer" toml:"peer"`
	Session SessionConfig `yaml:"session" toml:"session"`
	Log     LogConfig     `yaml:"log" toml:"log"`
}

// PeerConfig identifies the clock
type PeerConfig struct {
	Address     string `yaml:"address" toml:"address"`
	Name        string `yaml:"name" toml:"name"` // Display name override; looked up from BlueZ when empty
	ServiceUUID string `yaml:"service_uuid" toml:"service_uuid"`
	Channel     uint8  `yaml:"channel" toml:"channel"` // RFCOMM channel (default: 1)
}

// SessionConfig contains connection and framing settings
type SessionConfig struct {
	Transport       string   `yaml:"transport" toml:"transport"`               // "rfcomm" or "mock"
	ConnectAttempts int      `yaml:"connect_attempts" toml:"connect_attempts"` // default: 3
	ReadBuffer      int      `yaml:"read_buffer" toml:"read_buffer"`           // Response frame capacity (default: 256)
	ReadTimeout     Duration `yaml:"read_timeout" toml:"read_timeout"`         // 0 = block until the clock answers
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Colors bool   `yaml:"colors" toml:"colors"`
	JSON   bool   `yaml:"json" toml:"json"`
}

// Duration is a wrapper around time.Duration for YAML and TOML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// UnmarshalText implements encoding.TextUnmarshaler, which the TOML decoder uses
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file. Files ending in .toml are read as
// TOML, everything else as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := expandEnvVars(string(data))

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Peer.Address == "" {
		c.Peer.Address = goclock.PeerAddress
	}
	if c.Peer.ServiceUUID == "" {
		c.Peer.ServiceUUID = goclock.SerialPortServiceUUID
	}
	if c.Peer.Channel == 0 {
		c.Peer.Channel = goclock.DefaultChannel
	}

	if c.Session.Transport == "" {
		c.Session.Transport = "rfcomm"
	}
	if c.Session.ConnectAttempts == 0 {
		c.Session.ConnectAttempts = goclock.DefaultConnectAttempts
	}
	if c.Session.ReadBuffer == 0 {
		c.Session.ReadBuffer = comms.DefaultReadBuffer
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks values that defaults cannot repair
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.BuildPeer(); err != nil {
		errs = append(errs, err)
	}
	if c.Session.ConnectAttempts < 1 {
		errs = append(errs, fmt.Errorf("session.connect_attempts must be at least 1, got %d", c.Session.ConnectAttempts))
	}
	if c.Session.ReadBuffer < 2 {
		errs = append(errs, fmt.Errorf("session.read_buffer must be at least 2, got %d", c.Session.ReadBuffer))
	}
	if c.Session.ReadTimeout < 0 {
		errs = append(errs, errors.New("session.read_timeout must not be negative"))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	return errors.Join(errs...)
}

// BuildPeer turns the peer section into a goclock.Peer
func (c *Config) BuildPeer() (goclock.Peer, error) {
	p, err := goclock.NewPeer(c.Peer.Address, c.Peer.ServiceUUID, c.Peer.Channel)
	if err != nil {
		return goclock.Peer{}, err
	}
	p.Name = c.Peer.Name
	return p, nil
}

// DialOptions returns the options passed to the transport factory
func (c *Config) DialOptions() goclock.DialOptions {
	return goclock.DialOptions{ReadTimeout: c.Session.ReadTimeout.Duration()}
}

// expandEnvVars replaces ${VAR} or ${VAR:-default} with environment variable values
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		if v, ok := os.LookupEnv(parts[1]); ok {
			return v
		}
		if len(parts) > 2 {
			return parts[2]
		}
		return ""
	})
}
