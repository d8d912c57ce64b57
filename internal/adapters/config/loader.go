// Package config provides the viper-backed configuration loader.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.trai.ch/aurum/internal/core/domain"
	"go.trai.ch/aurum/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader. Resolution order, lowest to
// highest: built-in defaults, the config file, AURUM_* environment
// variables.
type Loader struct {
	v *viper.Viper

	// File overrides the config file location; empty means the default
	// search path (~/.config/aurum/config.yaml).
	File string
}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{v: viper.New()}
}

// Load resolves the runtime configuration into an explicit value.
func (l *Loader) Load() (*domain.Config, error) {
	v := l.v
	setDefaults(v)

	v.SetEnvPrefix("AURUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if l.File != "" {
		v.SetConfigFile(l.File)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to locate home directory")
		}
		v.AddConfigPath(filepath.Join(home, ".config", "aurum"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if l.File != "" || !errors.As(err, &notFound) {
			return nil, zerr.Wrap(err, "failed to read config file")
		}
	}

	cfg := &domain.Config{
		BaseDir:        v.GetString("base_dir"),
		Parallelism:    v.GetInt("parallelism"),
		FetchTimeout:   v.GetDuration("fetch.timeout"),
		CatalogURL:     v.GetString("fetch.catalog_url"),
		InstallCommand: v.GetStringSlice("install.command"),
		AutoApprove:    v.GetBool("review.auto_approve"),
	}
	if err := v.UnmarshalKey("sources", &cfg.Sources); err != nil {
		return nil, zerr.Wrap(err, "failed to parse source overrides")
	}
	for name, src := range cfg.Sources {
		if src.Kind != domain.SourceRemoteCatalog && src.Kind != domain.SourceLocalOverride {
			err := zerr.New("unknown source kind")
			err = zerr.With(err, "package", name)
			return nil, zerr.With(err, "kind", string(src.Kind))
		}
	}

	if cfg.BaseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to locate home directory")
		}
		cfg.BaseDir = filepath.Join(home, ".local", "share", "aurum")
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("parallelism", runtime.NumCPU())
	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("fetch.catalog_url", "https://catalog.trai.ch/recipes")
	v.SetDefault("install.command", []string{"makepkg", "--clean", "--syncdeps", "--install", "--noconfirm"})
	v.SetDefault("review.auto_approve", false)
}
