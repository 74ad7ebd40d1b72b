// Package config loads the desktop configuration from
// ~/.termdesk/config.yaml: theme colors, chord/hover timing, per-app
// pty profiles, and the start-menu program tree.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ── YAML Config Types ──────────────────────────────────────────────

// Config is the top-level ~/.termdesk/config.yaml structure.
type Config struct {
	Theme    Theme                  `yaml:"theme"`
	Timing   Timing                 `yaml:"timing"`
	Profiles map[string]*PtyProfile `yaml:"pty_profiles"`
	Menu     []MenuEntry            `yaml:"menu"`
	Shell    string                 `yaml:"shell"` // default session program, $SHELL when empty
}

// Theme holds the chrome colors as hex strings for lipgloss.
type Theme struct {
	Background       string `yaml:"background"`
	Surface          string `yaml:"surface"`
	Border           string `yaml:"border"`
	BorderFocused    string `yaml:"border_focused"`
	Text             string `yaml:"text"`
	TextDim          string `yaml:"text_dim"`
	TitlebarActive   string `yaml:"titlebar_active"`
	TitlebarInactive string `yaml:"titlebar_inactive"`
	Accent           string `yaml:"accent"`
	Danger           string `yaml:"danger"`
}

// Timing keeps the empirically tuned interaction constants
// configurable rather than re-derived.
type Timing struct {
	ChordWindowMS int `yaml:"chord_window_ms"`
	HoverDelayMS  int `yaml:"hover_delay_ms"`
	DoubleClickMS int `yaml:"double_click_ms"`
}

func (t Timing) ChordWindow() time.Duration { return time.Duration(t.ChordWindowMS) * time.Millisecond }
func (t Timing) HoverDelay() time.Duration  { return time.Duration(t.HoverDelayMS) * time.Millisecond }
func (t Timing) DoubleClick() time.Duration { return time.Duration(t.DoubleClickMS) * time.Millisecond }

// PtyProfile is the terminal-compatibility profile of a launchable
// program: the smallest grid it tolerates and whether desktop mouse
// events are forwarded to it.
type PtyProfile struct {
	MinCols          int               `yaml:"min_cols"`
	MinRows          int               `yaml:"min_rows"`
	MousePassthrough bool              `yaml:"mouse_passthrough"`
	Env              map[string]string `yaml:"env"`
}

// MenuEntry is one start-menu row; entries with Items nest, entries
// with Program launch.
type MenuEntry struct {
	Label   string      `yaml:"label"`
	Program string      `yaml:"program"`
	Args    []string    `yaml:"args"`
	Profile string      `yaml:"profile"`
	Items   []MenuEntry `yaml:"items"`
}

// ── Paths ──────────────────────────────────────────────────────────

func termdeskDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".termdesk")
}

func configPath() string { return filepath.Join(termdeskDir(), "config.yaml") }

// ── Load / Save ────────────────────────────────────────────────────

// Load reads the config file, falling back to defaults when it does
// not exist. A malformed file is an error; a missing one is not.
func Load() (*Config, error) {
	return loadFrom(configPath())
}

func loadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.fillZeroes()
	return cfg, nil
}

func Save(cfg *Config) error {
	if err := os.MkdirAll(termdeskDir(), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath(), data, 0644)
}

// Profile resolves a named profile; unknown names get the default.
func (c *Config) Profile(name string) *PtyProfile {
	if p, ok := c.Profiles[name]; ok && p != nil {
		return p
	}
	return c.Profiles["default"]
}

// DefaultShell resolves the session shell: config, then $SHELL, then
// /bin/sh.
func (c *Config) DefaultShell() string {
	if c.Shell != "" {
		return c.Shell
	}
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

// fillZeroes restores defaults for fields a partial config left empty.
func (c *Config) fillZeroes() {
	d := Default()
	if c.Timing.ChordWindowMS <= 0 {
		c.Timing.ChordWindowMS = d.Timing.ChordWindowMS
	}
	if c.Timing.HoverDelayMS <= 0 {
		c.Timing.HoverDelayMS = d.Timing.HoverDelayMS
	}
	if c.Timing.DoubleClickMS <= 0 {
		c.Timing.DoubleClickMS = d.Timing.DoubleClickMS
	}
	if c.Profiles == nil {
		c.Profiles = d.Profiles
	}
	if _, ok := c.Profiles["default"]; !ok {
		c.Profiles["default"] = d.Profiles["default"]
	}
	if len(c.Menu) == 0 {
		c.Menu = d.Menu
	}
	if c.Theme.Background == "" {
		c.Theme = d.Theme
	}
}

// ── Defaults ───────────────────────────────────────────────────────

func Default() *Config {
	return &Config{
		Theme: Theme{
			Background:       "#102418",
			Surface:          "#0c1c12",
			Border:           "#2f5d3a",
			BorderFocused:    "#41ff70",
			Text:             "#41ff70",
			TextDim:          "#2a8f46",
			TitlebarActive:   "#1d4427",
			TitlebarInactive: "#142c1b",
			Accent:           "#b3ffc9",
			Danger:           "#ff5f4a",
		},
		Timing: Timing{
			ChordWindowMS: 1200,
			HoverDelayMS:  170,
			DoubleClickMS: 450,
		},
		Profiles: map[string]*PtyProfile{
			"default": {MinCols: 20, MinRows: 6},
			"fullscreen": {
				MinCols:          60,
				MinRows:          16,
				MousePassthrough: true,
			},
		},
		Menu: []MenuEntry{
			{Label: "Programs", Items: []MenuEntry{
				{Label: "Terminals", Items: []MenuEntry{
					{Label: "Shell", Program: ""},
					{Label: "Process Monitor", Program: "top", Profile: "fullscreen"},
				}},
				{Label: "Editors", Items: []MenuEntry{
					{Label: "Vi", Program: "vi", Profile: "fullscreen"},
					{Label: "Nano", Program: "nano", Profile: "fullscreen"},
				}},
			}},
		},
	}
}
