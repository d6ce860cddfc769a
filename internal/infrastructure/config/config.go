package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Poll struct {
		Interval  time.Duration `yaml:"interval" env:"CCWATCH_INTERVAL"`
		PauseFile string        `yaml:"pause_file" env:"CCWATCH_PAUSE_FILE"`
	} `yaml:"poll"`

	HTTP struct {
		Timeout time.Duration `yaml:"timeout" env:"CCWATCH_HTTP_TIMEOUT"`
	} `yaml:"http"`

	GitHub struct {
		APIBaseURL string `yaml:"api_base_url" env:"CCWATCH_GITHUB_API_URL"`
		WebBaseURL string `yaml:"web_base_url" env:"CCWATCH_GITHUB_WEB_URL"`
	} `yaml:"github"`

	Pipelines struct {
		Path string `yaml:"path" env:"CCWATCH_PIPELINES_PATH"`
	} `yaml:"pipelines"`

	Cache struct {
		Path string `yaml:"path" env:"CCWATCH_CACHE_PATH"`
	} `yaml:"cache"`

	Credentials struct {
		Path string `yaml:"path" env:"CCWATCH_CREDENTIALS_PATH"`
	} `yaml:"credentials"`
}

// Load reads the YAML config file (missing file is fine, defaults
// apply) and then lets environment variables override it.
func Load(path string) (Config, error) {
	var c Config

	c.Poll.Interval = 10 * time.Second
	c.HTTP.Timeout = 10 * time.Second
	c.GitHub.APIBaseURL = "https://api.github.com"
	c.GitHub.WebBaseURL = "https://github.com"
	c.Poll.PauseFile = expandHome("~/.cache/ccwatch_paused")
	c.Pipelines.Path = expandHome("~/.config/ccwatch/pipelines.json")
	c.Cache.Path = expandHome("~/.cache/ccwatch_status.json")
	c.Credentials.Path = expandHome("~/.config/ccwatch/credentials.yaml")

	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(b, &c); err != nil {
				return c, errors.Wrapf(err, "cannot parse config %s", path)
			}
		}
	}

	if err := env.Parse(&c); err != nil {
		return c, errors.Wrap(err, "cannot parse env")
	}

	if c.Poll.Interval <= 0 {
		c.Poll.Interval = 10 * time.Second
	}
	if c.HTTP.Timeout <= 0 {
		c.HTTP.Timeout = 10 * time.Second
	}
	c.Pipelines.Path = expandHome(c.Pipelines.Path)
	c.Cache.Path = expandHome(c.Cache.Path)
	c.Credentials.Path = expandHome(c.Credentials.Path)
	c.Poll.PauseFile = expandHome(c.Poll.PauseFile)

	return c, nil
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		if h, _ := os.UserHomeDir(); h != "" {
			return filepath.Join(h, p[2:])
		}
	}
	return p
}
