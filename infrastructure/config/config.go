package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultCallbackAddr  = "localhost:8080"
	defaultCallbackPath  = "/auth/callback"
	defaultPlayerAddr    = "127.0.0.1:0"
	defaultTokenFile     = "auth_state.json"
	defaultPrefsFile     = "preferences.json"
	defaultLogDir        = "logs"
	defaultClientSecret  = "client_secret.json"
	youtubeReadonlyScope = "https://www.googleapis.com/auth/youtube.readonly"
	envPrefix            = "YTPIP_"
)

type Config struct {
	ClientID         string
	ClientSecret     string
	ClientSecretFile string

	CallbackAddr string
	CallbackPath string
	PlayerAddr   string

	TokenFile       string
	PreferencesFile string
	LogDir          string
	Debug           bool
	// DebugSet is true when YTPIP_DEBUG was given; it then wins over the
	// persisted debug preference.
	DebugSet bool

	Scopes []string
}

// RedirectURL is the loopback address registered with Google.
func (c Config) RedirectURL() string {
	return "http://" + c.CallbackAddr + c.CallbackPath
}

// Load reads envFiles (missing files are fine) and then the process
// environment, which wins over anything from the files.
func Load(envFiles ...string) (Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("failed to load env file '%s': %w", file, err)
		}
	}

	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(envPrefix + key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		ClientID:         get("CLIENT_ID", ""),
		ClientSecret:     get("CLIENT_SECRET", ""),
		ClientSecretFile: get("CLIENT_SECRET_FILE", ""),
		CallbackAddr:     get("CALLBACK_ADDR", defaultCallbackAddr),
		CallbackPath:     get("CALLBACK_PATH", defaultCallbackPath),
		PlayerAddr:       get("PLAYER_ADDR", defaultPlayerAddr),
		TokenFile:        get("TOKEN_FILE", defaultTokenPath()),
		LogDir:           get("LOG_DIR", defaultLogDir),
		Scopes:           []string{youtubeReadonlyScope},
	}

	if raw := get("DEBUG", ""); raw != "" {
		debug, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %sDEBUG value %q: %w", envPrefix, raw, err)
		}
		cfg.Debug = debug
		cfg.DebugSet = true
	}

	cfg.PreferencesFile = get("PREFS_FILE", filepath.Join(filepath.Dir(cfg.TokenFile), defaultPrefsFile))

	if cfg.ClientSecretFile == "" && (cfg.ClientID == "" || cfg.ClientSecret == "") {
		if _, err := os.Stat(defaultClientSecret); err == nil {
			cfg.ClientSecretFile = defaultClientSecret
		}
	}

	if !strings.HasPrefix(cfg.CallbackPath, "/") {
		cfg.CallbackPath = "/" + cfg.CallbackPath
	}

	if _, _, err := net.SplitHostPort(cfg.CallbackAddr); err != nil {
		return Config{}, fmt.Errorf("invalid %sCALLBACK_ADDR %q: %w", envPrefix, cfg.CallbackAddr, err)
	}
	if _, _, err := net.SplitHostPort(cfg.PlayerAddr); err != nil {
		return Config{}, fmt.Errorf("invalid %sPLAYER_ADDR %q: %w", envPrefix, cfg.PlayerAddr, err)
	}

	return cfg, nil
}

// HasCredentials reports whether sign-in can be offered at all.
func (c Config) HasCredentials() bool {
	return c.ClientSecretFile != "" || (c.ClientID != "" && c.ClientSecret != "")
}

func defaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return defaultTokenFile
	}

	return filepath.Join(dir, "youtube-pip", defaultTokenFile)
}
