package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/rest"

	"optionhub-api/pkg/confkit"
	tickerpkg "optionhub-api/pkg/ticker"
)

// CacheTTL holds the per-family freshness windows in seconds. A zero
// MarketWatch inherits the chain window.
type CacheTTL struct {
	Chain       int `json:",default=600"`
	MarketWatch int `json:",optional"`
	Ticker      int `json:",default=60"`
	MetalsAPI   int `json:",default=300"`
}

// UpstreamConf overrides an exchange base URL, used by tests and proxies.
type UpstreamConf struct {
	BaseURL string `json:",optional"`
}

type Config struct {
	rest.RestConf
	// AuthToken protects every endpoint except health when non-empty.
	AuthToken string `json:",optional,env=APP_TOKEN"`
	// SymbolsFile is the hot-reloaded symbol table, relative to the config dir.
	SymbolsFile string `json:",default=symbols.yaml"`

	TTL CacheTTL `json:",optional"`

	DefaultStrikeStep float64 `json:",default=5000"`
	NSEDefaultStrike  int     `json:",default=26500"`

	MCX UpstreamConf `json:",optional"`
	NSE UpstreamConf `json:",optional"`

	Ticker confkit.Section[tickerpkg.Config] `json:",optional"`

	mainPath string
	baseDir  string
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func Load(path string) (*Config, error) {
	confkit.LoadDotenvOnce()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path %s: %w", path, err)
	}

	var cfg Config
	if err := conf.Load(absPath, &cfg, conf.UseEnv()); err != nil {
		return nil, fmt.Errorf("load config %s: %w", absPath, err)
	}

	cfg.mainPath = absPath
	cfg.baseDir = filepath.Dir(absPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.hydrateSections(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.SymbolsFile) == "" {
		return errors.New("config: symbolsFile is required")
	}
	if c.DefaultStrikeStep < 0 {
		return errors.New("config: defaultStrikeStep cannot be negative")
	}
	if c.NSEDefaultStrike <= 0 {
		return errors.New("config: nseDefaultStrike must be positive")
	}
	return c.validateTTL()
}

func (c *Config) validateTTL() error {
	if c.TTL.Chain <= 0 {
		return errors.New("config: ttl.chain must be positive")
	}
	if c.TTL.MarketWatch < 0 {
		return errors.New("config: ttl.marketWatch cannot be negative")
	}
	if c.TTL.Ticker <= 0 {
		return errors.New("config: ttl.ticker must be positive")
	}
	if c.TTL.MetalsAPI <= 0 {
		return errors.New("config: ttl.metalsApi must be positive")
	}
	if c.TTL.MarketWatch == 0 {
		c.TTL.MarketWatch = c.TTL.Chain
	}
	return nil
}

func (c *Config) hydrateSections() error {
	if err := c.Ticker.Hydrate(c.baseDir, tickerpkg.LoadConfig); err != nil {
		return fmt.Errorf("load ticker config: %w", err)
	}
	return nil
}

// SymbolsPath resolves the symbol table location against the config dir.
func (c *Config) SymbolsPath() string {
	if filepath.IsAbs(c.SymbolsFile) {
		return c.SymbolsFile
	}
	return filepath.Join(c.baseDir, c.SymbolsFile)
}

func (c *Config) MainPath() string {
	return c.mainPath
}

func (c *Config) BaseDir() string {
	return c.baseDir
}
