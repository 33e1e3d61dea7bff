package main

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds preview window settings.
type Config struct {
	WindowWidth  int     `yaml:"window_width"`
	WindowHeight int     `yaml:"window_height"`
	Zoom         float64 `yaml:"zoom"`
	Background   string  `yaml:"background"`
}

func defaultConfig() Config {
	return Config{
		WindowWidth:  960,
		WindowHeight: 600,
		Zoom:         4,
		Background:   "#202028",
	}
}

// LoadConfig reads a YAML config, falling back to defaults when the file is
// absent or a field is unset.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("unmarshal config %s: %w", path, err)
	}
	if cfg.WindowWidth <= 0 {
		cfg.WindowWidth = defaultConfig().WindowWidth
	}
	if cfg.WindowHeight <= 0 {
		cfg.WindowHeight = defaultConfig().WindowHeight
	}
	if cfg.Zoom <= 0 {
		cfg.Zoom = 1
	}
	return cfg, nil
}

// parseColor reads a "#rrggbb" or "#rrggbbaa" hex color, falling back to an
// opaque dark gray on malformed input.
func parseColor(s string) color.NRGBA {
	fallback := color.NRGBA{R: 0x20, G: 0x20, B: 0x28, A: 0xff}

	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return fallback
	}

	parse := func(start int) (uint8, bool) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err == nil
	}

	r, ok1 := parse(0)
	g, ok2 := parse(2)
	b, ok3 := parse(4)
	if !ok1 || !ok2 || !ok3 {
		return fallback
	}
	a := uint8(0xff)
	if len(s) == 8 {
		v, ok := parse(6)
		if !ok {
			return fallback
		}
		a = v
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}
}
