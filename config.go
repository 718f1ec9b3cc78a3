// config.go
//
// Runtime configuration. An optional TOML file ($SHI_CONFIG, falling back
// to $HOME/.shi.toml) sets the defaults; the SHI_* environment variables
// override it. Missing files are fine.
package shi

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

type Config struct {
	HeapSize    int    `toml:"heap-size"`
	DebugGC     bool   `toml:"debug-gc"`
	AlwaysGC    bool   `toml:"always-gc"`
	HistoryFile string `toml:"history-file"`
}

// LoadConfig resolves the effective configuration.
func LoadConfig() Config {
	cfg := Config{HeapSize: DefaultHeapSize}

	path := os.Getenv("SHI_CONFIG")
	if path == "" {
		if home := os.Getenv("HOME"); home != "" {
			path = filepath.Join(home, ".shi.toml")
		}
	}
	if path != "" {
		// A malformed config is ignored rather than fatal; the runtime can
		// always start on defaults.
		if _, err := os.Stat(path); err == nil {
			toml.DecodeFile(path, &cfg)
		}
	}

	if envFlag("SHI_DEBUG_GC") {
		cfg.DebugGC = true
	}
	if envFlag("SHI_ALWAYS_GC") {
		cfg.AlwaysGC = true
	}
	if v := os.Getenv("SHI_HEAP_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HeapSize = n
		}
	}
	if cfg.HeapSize <= 0 {
		cfg.HeapSize = DefaultHeapSize
	}
	if cfg.HistoryFile == "" {
		cfg.HistoryFile = filepath.Join(os.Getenv("HOME"), ".shi-history")
	}
	return cfg
}

// envFlag reports whether the variable is set and non-empty.
func envFlag(name string) bool {
	return os.Getenv(name) != ""
}
