package cli

import (
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"optionhub-api/internal/config"
	"optionhub-api/pkg/confkit"
)

// ConfigSummaryLines returns human readable lines describing the loaded app config.
func ConfigSummaryLines(cfg *config.Config) []string {
	if cfg == nil {
		return []string{"Configuration: <nil>"}
	}

	lines := []string{
		fmt.Sprintf("Listen: %s:%d", cfg.Host, cfg.Port),
		fmt.Sprintf("Auth token: %s", presence(strings.TrimSpace(cfg.AuthToken) != "")),
		fmt.Sprintf("Symbols file: %s", cfg.SymbolsPath()),
		fmt.Sprintf("TTL (chain/marketwatch/ticker/metals): %ds / %ds / %ds / %ds",
			cfg.TTL.Chain, cfg.TTL.MarketWatch, cfg.TTL.Ticker, cfg.TTL.MetalsAPI),
		fmt.Sprintf("Default strike step: %g", cfg.DefaultStrikeStep),
		sectionLine("Ticker config", cfg.Ticker),
	}

	return lines
}

// LogConfigSummary emits the configuration summary using logx.
func LogConfigSummary(cfg *config.Config) {
	lines := ConfigSummaryLines(cfg)
	if len(lines) == 0 {
		return
	}
	logx.Info("configuration summary")
	for _, line := range lines {
		logx.Infof("config • %s", line)
	}
}

func presence(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func sectionLine[T any](name string, section confkit.Section[T]) string {
	switch {
	case strings.TrimSpace(section.File) != "":
		return fmt.Sprintf("%s: %s", name, section.File)
	case section.Value != nil:
		return fmt.Sprintf("%s: inline", name)
	default:
		return fmt.Sprintf("%s: not configured", name)
	}
}
