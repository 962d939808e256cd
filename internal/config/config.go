// Package config resolves connection settings for the CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// DefaultServer is used when neither a flag nor the environment names one.
	DefaultServer = "http://localhost:8000"
	// EnvFile is read for settings missing from the real environment.
	EnvFile = ".env"
)

// Config holds resolved settings. It is built once at startup.
type Config struct {
	Server  string
	APIKey  string
	Journal string
	S3      S3Config
}

// S3Config describes the optional report archive bucket.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// Enabled reports whether an archive endpoint is configured.
func (c S3Config) Enabled() bool {
	return c.Endpoint != ""
}

// Overrides are explicit flag values. Empty fields are unset.
type Overrides struct {
	Server  string
	APIKey  string
	Journal string
}

// Load resolves settings with precedence flag > environment > .env file >
// built-in default.
func Load(o Overrides) (*Config, error) {
	return load(o, os.LookupEnv, EnvFile)
}

func load(o Overrides, lookup func(string) (string, bool), envFile string) (*Config, error) {
	fileVars := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVars = vars
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	get := func(flagVal, key, defaultVal string) string {
		if flagVal != "" {
			return flagVal
		}
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		if v := fileVars[key]; v != "" {
			return v
		}
		return defaultVal
	}

	cfg := &Config{
		Server:  strings.TrimRight(get(o.Server, "MOBSF_HOST", DefaultServer), "/"),
		APIKey:  get(o.APIKey, "MOBSF_API_KEY", ""),
		Journal: get(o.Journal, "MOBSF_JOURNAL", ""),
		S3: S3Config{
			Endpoint:  get("", "MOBSF_S3_ENDPOINT", ""),
			AccessKey: get("", "MOBSF_S3_ACCESS_KEY", ""),
			SecretKey: get("", "MOBSF_S3_SECRET_KEY", ""),
			Bucket:    get("", "MOBSF_S3_BUCKET", ""),
			Region:    get("", "MOBSF_S3_REGION", ""),
		},
	}

	if cfg.S3.Enabled() {
		useSSL := get("", "MOBSF_S3_USE_SSL", "true")
		b, err := strconv.ParseBool(useSSL)
		if err != nil {
			return nil, fmt.Errorf("MOBSF_S3_USE_SSL: invalid boolean %q", useSSL)
		}
		cfg.S3.UseSSL = b
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.Server)
	if err != nil {
		return fmt.Errorf("invalid server URL %q: %w", c.Server, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid server URL %q: scheme must be http or https", c.Server)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid server URL %q: missing host", c.Server)
	}
	if c.S3.Enabled() && c.S3.Bucket == "" {
		return fmt.Errorf("MOBSF_S3_BUCKET is required when MOBSF_S3_ENDPOINT is set")
	}
	return nil
}
