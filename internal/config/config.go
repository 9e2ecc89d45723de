// Package config resolves which database endpoint the result store
// writes to. Resolution is environment-driven with a best-effort TCP
// reachability probe: an unreachable primary endpoint degrades to a
// fallback configuration, never to an error.
package config

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// DBConfig is a connection descriptor for the result database.
type DBConfig struct {
	Driver         string        `mapstructure:"driver"`
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	Database       string        `mapstructure:"database"`
	Charset        string        `mapstructure:"charset"`
	Autocommit     bool          `mapstructure:"autocommit"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// DSN renders the descriptor for the configured driver.
func (c *DBConfig) DSN() string {
	switch c.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			c.Host, c.Port, c.User, c.Password, c.Database)
	case "sqlite3":
		return c.Database
	default: // mysql
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=true&timeout=%s",
			c.User, c.Password, c.Host, c.Port, c.Database, c.Charset, c.ConnectTimeout)
	}
}

// Addr returns host:port for probing.
func (c *DBConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

var (
	resolved    *DBConfig
	resolveOnce sync.Once
)

// Resolve returns the process-wide database configuration. The first
// call probes the primary endpoint and caches the result; later calls
// return the cached descriptor.
func Resolve() *DBConfig {
	resolveOnce.Do(func() {
		loadDotEnv()
		resolved = resolve(Reachable)
	})
	return resolved
}

// ResetForTest clears the cached descriptor so tests can re-run
// resolution with different environments.
func ResetForTest() {
	resolved = nil
	resolveOnce = sync.Once{}
}

// probeFunc reports whether a TCP endpoint accepts connections.
type probeFunc func(addr string, timeout time.Duration) bool

func resolve(probe probeFunc) *DBConfig {
	v := viper.New()
	v.SetEnvPrefix("TEST_DB")
	v.AutomaticEnv()
	v.SetDefault("charset", "utf8mb4")
	v.SetDefault("connect_timeout", 5*time.Second)

	ci := isCI()

	primary := &DBConfig{
		Driver:         "mysql",
		Host:           v.GetString("host"),
		Port:           v.GetInt("port"),
		User:           v.GetString("user"),
		Password:       v.GetString("password"),
		Database:       v.GetString("name"),
		Charset:        v.GetString("charset"),
		Autocommit:     true,
		ConnectTimeout: v.GetDuration("connect_timeout"),
	}
	if primary.Port == 0 {
		primary.Port = 3306
	}

	if primary.Host != "" && probe(primary.Addr(), 250*time.Millisecond) {
		log.Printf("[config] using primary database endpoint %s", primary.Addr())
		return primary
	}

	fallback := localFallback(v)
	if ci {
		fallback = ciFallback(v, primary)
	}
	if primary.Host != "" {
		log.Printf("[config] primary endpoint %s unreachable, falling back to %s (ci=%v)",
			primary.Addr(), fallback.Addr(), ci)
	}
	return fallback
}

// ciFallback keeps whatever the environment provided, filling gaps
// with CI service defaults.
func ciFallback(v *viper.Viper, primary *DBConfig) *DBConfig {
	cfg := *primary
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.User == "" {
		cfg.User = "root"
	}
	if cfg.Database == "" {
		cfg.Database = "test_results"
	}
	return &cfg
}

// localFallback is the hardcoded localhost development endpoint.
func localFallback(v *viper.Viper) *DBConfig {
	return &DBConfig{
		Driver:         "mysql",
		Host:           "127.0.0.1",
		Port:           3306,
		User:           "qa",
		Password:       "qa",
		Database:       "test_results",
		Charset:        v.GetString("charset"),
		Autocommit:     true,
		ConnectTimeout: v.GetDuration("connect_timeout"),
	}
}

func isCI() bool {
	ci := strings.ToLower(os.Getenv("CI"))
	return ci == "1" || ci == "true" || ci == "yes"
}

// Reachable performs a best-effort TCP probe. Probe failure is a
// routing signal, never an error.
func Reachable(addr string, timeout time.Duration) bool {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.Dial("tcp", addr)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// loadDotEnv loads simple KEY=VALUE lines from .env if present.
// Existing environment variables take precedence and are not overwritten.
func loadDotEnv() {
	f, err := os.Open(".env")
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		i := strings.Index(line, "=")
		if i <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:i])
		val := strings.TrimSpace(line[i+1:])
		if key == "" || val == "" {
			continue
		}
		if (strings.HasPrefix(val, `"`) && strings.HasSuffix(val, `"`)) ||
			(strings.HasPrefix(val, "'") && strings.HasSuffix(val, "'")) {
			val = val[1 : len(val)-1]
		}
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, val)
		}
	}
}
