package udv

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/aweris/udv/internal/hasher"
	"github.com/opencontainers/go-digest"
	"github.com/spf13/viper"
)

// Config holds project settings read from .udv/config.
type Config struct {
	HashAlgorithm digest.Algorithm
	Jobs          int
}

// LoadConfig reads <root>/.udv/config into v and resolves the settings.
// A missing or empty file yields the defaults. Environment variables
// prefixed UDV_ (UDV_HASH_ALGORITHM, UDV_JOBS) and any flags already bound
// to v take precedence.
func LoadConfig(v *viper.Viper, root string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	v.SetConfigFile(filepath.Join(root, ControlDir, ConfigFile))
	v.SetConfigType("yaml")
	v.SetEnvPrefix("UDV")
	v.AutomaticEnv()
	v.SetDefault("hash_algorithm", string(hasher.SHA256))
	v.SetDefault("jobs", 1)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	alg, err := hasher.ParseAlgorithm(v.GetString("hash_algorithm"))
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	jobs := v.GetInt("jobs")
	if jobs < 1 {
		jobs = 1
	}

	return &Config{HashAlgorithm: alg, Jobs: jobs}, nil
}

// Options converts the config into Open options.
func (c *Config) Options() []OpenOption {
	return []OpenOption{
		WithAlgorithm(c.HashAlgorithm),
		WithJobs(c.Jobs),
	}
}
