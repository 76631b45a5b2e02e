// Package theme provides theming support for the TUI.
package theme

import (
	"embed"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/wethinkt/go-tripchat/internal/config"
)

//go:embed themes/*.json
var embeddedThemes embed.FS

// Style defines colors and text attributes for a UI element.
type Style struct {
	Fg        string `json:"fg,omitempty"`
	Bg        string `json:"bg,omitempty"`
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty"`
}

// Theme defines all styles used in the TUI.
type Theme struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`

	// Glamour names the markdown style used for assistant text ("dark",
	// "light", "notty", ...).
	Glamour string `json:"glamour,omitempty"`

	Accent         string `json:"accent,omitempty"`
	BorderActive   string `json:"border_active,omitempty"`
	BorderInactive string `json:"border_inactive,omitempty"`

	TextPrimary   Style `json:"text_primary,omitempty"`
	TextSecondary Style `json:"text_secondary,omitempty"`
	TextMuted     Style `json:"text_muted,omitempty"`

	// Conversation blocks
	UserBlock      Style `json:"user_block,omitempty"`
	AssistantBlock Style `json:"assistant_block,omitempty"`
	ReasoningBlock Style `json:"reasoning_block,omitempty"`
	ToolBlock      Style `json:"tool_block,omitempty"`
	NetworkBlock   Style `json:"network_block,omitempty"`

	// Labels
	UserLabel      Style `json:"user_label,omitempty"`
	AssistantLabel Style `json:"assistant_label,omitempty"`
	ReasoningLabel Style `json:"reasoning_label,omitempty"`
	ToolLabel      Style `json:"tool_label,omitempty"`
	NetworkLabel   Style `json:"network_label,omitempty"`

	// Status badges for tool calls and network steps
	StatusPending Style `json:"status_pending,omitempty"`
	StatusSuccess Style `json:"status_success,omitempty"`
	StatusError   Style `json:"status_error,omitempty"`

	// Confirm dialog
	ConfirmPrompt     Style `json:"confirm_prompt,omitempty"`
	ConfirmSelected   Style `json:"confirm_selected,omitempty"`
	ConfirmUnselected Style `json:"confirm_unselected,omitempty"`
}

// ThemeMeta holds metadata about an available theme.
type ThemeMeta struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Path        string `json:"path"`     // empty for embedded
	Embedded    bool   `json:"embedded"` // built-in theme
}

// DefaultTheme returns the embedded dark theme.
func DefaultTheme() Theme {
	theme, _ := LoadEmbedded("dark")
	return theme
}

// LoadEmbedded loads a built-in theme.
func LoadEmbedded(name string) (Theme, error) {
	data, err := embeddedThemes.ReadFile("themes/" + name + ".json")
	if err != nil {
		return Theme{}, err
	}

	var theme Theme
	if err := json.Unmarshal(data, &theme); err != nil {
		return Theme{}, err
	}
	return theme, nil
}

// ListEmbedded returns the names of the built-in themes.
func ListEmbedded() []string {
	entries, err := embeddedThemes.ReadDir("themes")
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
		}
	}
	return names
}

// ThemesDir returns ~/.tripchat/themes.
func ThemesDir() (string, error) {
	configDir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "themes"), nil
}

// ListAvailable returns the built-in themes followed by user themes.
func ListAvailable() ([]ThemeMeta, error) {
	var themes []ThemeMeta
	for _, name := range ListEmbedded() {
		theme, err := LoadEmbedded(name)
		if err != nil {
			continue
		}
		themes = append(themes, ThemeMeta{
			Name:        name,
			Description: theme.Description,
			Embedded:    true,
		})
	}

	themesDir, err := ThemesDir()
	if err != nil {
		return themes, nil
	}
	entries, err := os.ReadDir(themesDir)
	if err != nil {
		return themes, nil
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(themesDir, entry.Name())
		description := "User theme"
		if data, err := os.ReadFile(path); err == nil {
			var t Theme
			if json.Unmarshal(data, &t) == nil && t.Description != "" {
				description = t.Description
			}
		}
		themes = append(themes, ThemeMeta{
			Name:        strings.TrimSuffix(entry.Name(), ".json"),
			Description: description,
			Path:        path,
		})
	}
	return themes, nil
}

// LoadByName loads a theme, checking user themes first. A user theme only
// needs the fields it overrides; the rest come from the dark theme.
func LoadByName(name string) (Theme, error) {
	if themesDir, err := ThemesDir(); err == nil {
		if data, err := os.ReadFile(filepath.Join(themesDir, name+".json")); err == nil {
			theme := DefaultTheme()
			if err := json.Unmarshal(data, &theme); err == nil {
				theme.Name = name
				return theme, nil
			}
		}
	}
	return LoadEmbedded(name)
}

// Load loads the configured theme, falling back to the dark theme.
func Load() (Theme, error) {
	cfg, err := config.Load()
	if err != nil {
		return DefaultTheme(), err
	}
	theme, err := LoadByName(cfg.Theme)
	if err != nil {
		return DefaultTheme(), err
	}
	return theme, nil
}

// SetActive stores name as the configured theme.
func SetActive(name string) error {
	if _, err := LoadByName(name); err != nil {
		return err
	}
	cfg, _ := config.Load()
	cfg.Theme = name
	return config.Save(cfg)
}

var (
	mu      sync.RWMutex
	current *Theme
)

// Current returns the active theme, loading it on first use.
func Current() Theme {
	mu.RLock()
	c := current
	mu.RUnlock()
	if c != nil {
		return *c
	}

	theme, _ := Load()
	mu.Lock()
	current = &theme
	mu.Unlock()
	return theme
}

// Reload re-reads the configured theme from disk.
func Reload() (Theme, error) {
	theme, err := Load()
	if err != nil {
		return theme, err
	}
	Use(theme)
	return theme, nil
}

// Use makes t the active theme without touching the config file.
func Use(t Theme) {
	mu.Lock()
	current = &t
	mu.Unlock()
}

// GetAccent returns the accent color, with fallback.
func (t Theme) GetAccent() string {
	if t.Accent != "" {
		return t.Accent
	}
	return "#2E9CCA"
}

// GetBorderActive returns the active border color.
func (t Theme) GetBorderActive() string {
	if t.BorderActive != "" {
		return t.BorderActive
	}
	return t.GetAccent()
}

// GetBorderInactive returns the inactive border color.
func (t Theme) GetBorderInactive() string {
	if t.BorderInactive != "" {
		return t.BorderInactive
	}
	return "#444444"
}

// GetGlamour returns the glamour style name.
func (t Theme) GetGlamour() string {
	if t.Glamour != "" {
		return t.Glamour
	}
	return "dark"
}
