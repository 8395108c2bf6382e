package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	BackendDiskv  = "diskv"
	BackendSQLite = "sqlite"

	defaultPath     = "~/.calendiary.db"
	defaultAutoSave = 1500 * time.Millisecond
	sqliteFile      = "calendiary.sqlite"
	logFile         = "calendiary.log"
)

// Config is the resolved runtime configuration.
type Config interface {
	// BasePath is the directory holding the diary.
	BasePath() string
	// Backend is BackendDiskv or BackendSQLite.
	Backend() string
	// AutoSave is the editor debounce window.
	AutoSave() time.Duration
	LogLevel() string
	// LogFile is where the TUI logs while it owns the terminal.
	LogFile() string
}

// LoadConfig reads .calendiary.yaml from $CALENDIARY_CONFIG_PATH and the
// working directory. Every key can be overridden with a CALENDIARY_ env var.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", defaultPath)
	v.SetDefault("backend", BackendDiskv)
	v.SetDefault("autosave", defaultAutoSave.String())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetConfigName(".calendiary") // .yaml is implicit
	v.SetEnvPrefix("CALENDIARY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("CALENDIARY_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}
	cfg, err := newFileConfig(v)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func newFileConfig(v *viper.Viper) (*fileConfig, error) {
	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	backend := v.GetString("backend")
	switch backend {
	case BackendDiskv, BackendSQLite:
	default:
		return nil, fmt.Errorf("store: unknown backend %q", backend)
	}
	autosave := v.GetDuration("autosave")
	if autosave <= 0 {
		autosave = defaultAutoSave
	}
	logPath, err := homedir.Expand(v.GetString("log.file"))
	if err != nil {
		return nil, fmt.Errorf("store: expand log file: %w", err)
	}
	if logPath == "" {
		logPath = filepath.Join(path, logFile)
	}
	return &fileConfig{
		Path:      path,
		Store:     backend,
		Debounce:  autosave,
		Level:     v.GetString("log.level"),
		LogOutput: logPath,
	}, nil
}

type fileConfig struct {
	Path      string        `json:"path"`
	Store     string        `json:"backend"`
	Debounce  time.Duration `json:"autosave"`
	Level     string        `json:"logLevel"`
	LogOutput string        `json:"logFile"`
}

func (f *fileConfig) BasePath() string        { return f.Path }
func (f *fileConfig) Backend() string         { return f.Store }
func (f *fileConfig) AutoSave() time.Duration { return f.Debounce }
func (f *fileConfig) LogLevel() string        { return f.Level }
func (f *fileConfig) LogFile() string         { return f.LogOutput }
