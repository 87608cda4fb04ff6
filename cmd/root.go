package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"bizdash/internal/api"
)

// Config holds CLI configuration.
type Config struct {
	BaseURL   string
	Tokens    api.TokenSource
	TokenFile string
	ConfigDir string
	DBPath    string
	LogFile   string
	LogMode   string
	ExportDir string
	Timeout   time.Duration
	Locale    string
	Currency  string
}

// ErrVersion is returned when --version was requested.
var ErrVersion = errors.New("version requested")

const envPrefix = "BIZDASH"

// flagKeys maps CLI flags onto config keys.
var flagKeys = map[string]string{
	"api":        "api.base_url",
	"timeout":    "api.timeout",
	"export-dir": "export.dir",
	"log-file":   "log.file",
	"log-mode":   "log.mode",
	"db":         "db.path",
}

// ParseFlags resolves configuration from .env files, config.toml, BIZDASH_* env vars and flags,
// later sources winning. The first interactive run without a base URL starts onboarding.
func ParseFlags(version string) (*Config, error) {
	// Load .env files first so env-based defaults work with flag parsing. Existing vars win.
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	return load(os.Args[1:], version, os.Stdout, isInteractive(), runOnboarding)
}

type onboardFunc func(configDir, baseURL string) (onboardingResult, error)

func load(args []string, version string, out io.Writer, interactive bool, onboard onboardFunc) (*Config, error) {
	fs := flag.NewFlagSet("bizdash", flag.ContinueOnError)
	fs.SetOutput(out)
	configDir := fs.String("config-dir", "", "Directory for config.toml, token, log and local store (default: ~/.bizdash)")
	token := fs.String("token", "", "API bearer token (or set BIZDASH_TOKEN)")
	showVersion := fs.Bool("version", false, "Print version and exit")
	fs.String("api", "", "Backend base URL, e.g. https://dash.example.com/api")
	fs.Duration("timeout", 0, "Per-request timeout (default 15s)")
	fs.String("export-dir", "", "Directory export files are written to")
	fs.String("log-file", "", "Log file path, - for stderr")
	fs.String("log-mode", "", "Log mode: dev or prod")
	fs.String("db", "", "Path to the local SQLite store")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *showVersion {
		fmt.Fprintf(out, "bizdash %s\n", version)
		return nil, ErrVersion
	}

	dir, err := resolveConfigDir(*configDir)
	if err != nil {
		return nil, err
	}

	v, err := newViper(dir)
	if err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		if k, ok := flagKeys[f.Name]; ok {
			v.Set(k, f.Value.String())
		}
	})

	tokenFile := v.GetString("auth.token_file")
	if v.GetString("api.base_url") == "" && interactive {
		res, err := onboard(dir, v.GetString("api.base_url"))
		if err != nil {
			return nil, fmt.Errorf("failed to run onboarding: %w", err)
		}
		if res.BaseURL != "" {
			if err := saveBaseURL(dir, res.BaseURL); err != nil {
				return nil, err
			}
			v.Set("api.base_url", res.BaseURL)
		}
		if res.Token != "" {
			if err := api.SaveTokenFile(tokenFile, res.Token); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		BaseURL:   strings.TrimSpace(v.GetString("api.base_url")),
		TokenFile: tokenFile,
		ConfigDir: dir,
		DBPath:    v.GetString("db.path"),
		LogFile:   v.GetString("log.file"),
		LogMode:   v.GetString("log.mode"),
		ExportDir: v.GetString("export.dir"),
		Timeout:   v.GetDuration("api.timeout"),
		Locale:    v.GetString("ui.locale"),
		Currency:  v.GetString("ui.currency"),
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("no API base URL configured: pass --api, set %s_API_BASE_URL or add api.base_url to %s",
			envPrefix, filepath.Join(dir, "config.toml"))
	}
	cfg.Tokens = api.ChainTokens(
		api.StaticToken(*token),
		api.EnvToken(envPrefix+"_TOKEN"),
		api.FileToken{Path: tokenFile},
	)
	return cfg, nil
}

func resolveConfigDir(dir string) (string, error) {
	if dir == "" {
		dir = os.Getenv(envPrefix + "_CONFIG_DIR")
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".bizdash")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

// newViper reads config.toml from dir if present. Env overrides use prefix BIZDASH_.
func newViper(dir string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("api.base_url", "")
	v.SetDefault("api.timeout", "15s")
	v.SetDefault("auth.token_file", filepath.Join(dir, "token"))
	v.SetDefault("db.path", filepath.Join(dir, "bizdash.db"))
	v.SetDefault("export.dir", filepath.Join(dir, "exports"))
	v.SetDefault("log.file", filepath.Join(dir, "bizdash.log"))
	v.SetDefault("log.mode", "dev")
	v.SetDefault("ui.locale", "en-GB")
	v.SetDefault("ui.currency", "GBP")

	v.SetConfigType("toml")
	v.AddConfigPath(dir)
	v.SetConfigName("config")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// saveBaseURL writes the base URL captured by onboarding into config.toml,
// keeping any other settings already in the file.
func saveBaseURL(dir, baseURL string) error {
	path := filepath.Join(dir, "config.toml")

	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	v.Set("api.base_url", baseURL)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return os.Chmod(path, 0600)
}

func isInteractive() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
