package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/config"
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

// ConfigRenderer renders config-related output
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{
		out: out,
	}
}

// getRelativePath returns the relative path from current directory
func getRelativePath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}

	relPath, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}

	return relPath
}

// RenderConfig shows each key with its stored override and the value in effect
func (r *ConfigRenderer) RenderConfig(result *usecase.ShowConfigResult) error {
	t := newTable(table.Row{"Key", "Local", "Effective"})
	for _, key := range config.ValidConfigKeys() {
		local := result.Config.Get(key)
		if local == "" {
			local = timestampStyle.Sprint("(not set)")
		}
		t.AppendRow(table.Row{string(key), local, effectiveValue(result.Effective, key)})
	}

	fmt.Fprintln(r.out, headerStyle.Sprint("📋 Current config:"))
	fmt.Fprintln(r.out, t.Render())
	fmt.Fprintln(r.out)

	if !result.Exists {
		fmt.Fprintf(r.out, "📁 No %s file yet; values come from flags, STLM_* variables and defaults\n", getRelativePath(result.ConfigPath))
		return nil
	}
	fmt.Fprintf(r.out, "📁 config file: %s\n", getRelativePath(result.ConfigPath))
	return nil
}

func effectiveValue(cfg *config.RuntimeConfig, key config.ConfigKey) string {
	if cfg == nil {
		return "-"
	}
	switch key {
	case config.ConfigKeyNetwork:
		if cfg.Network != nil {
			return cfg.Network.Name
		}
	case config.ConfigKeyTimeout:
		return cfg.Timeout.String()
	case config.ConfigKeyDeployConfirmations:
		return strconv.FormatUint(cfg.Confirmations.Deploy.Threshold, 10)
	case config.ConfigKeyMintConfirmations:
		return strconv.FormatUint(cfg.Confirmations.Mint.Threshold, 10)
	}
	return "-"
}

// RenderSet renders the result of setting a configuration value
func (r *ConfigRenderer) RenderSet(result *usecase.SetConfigResult) error {
	fmt.Fprintf(r.out, "✅ Set %s to: %s\n", result.Key, result.Value)
	fmt.Fprintf(r.out, "📁 config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}

// RenderRemove renders the result of removing a configuration value
func (r *ConfigRenderer) RenderRemove(result *usecase.RemoveConfigResult) error {
	if result.RemovedValue == "" {
		fmt.Fprintf(r.out, "%s was not set\n", result.Key)
	} else {
		fmt.Fprintf(r.out, "✅ Removed %s (was: %s)\n", result.Key, result.RemovedValue)
	}
	fmt.Fprintf(r.out, "📁 config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}
