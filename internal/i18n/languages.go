package i18n

import (
	"sort"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// LangInfo describes one embedded locale.
type LangInfo struct {
	Tag         string // BCP 47 tag, e.g. "es"
	Name        string // name in the language itself
	EnglishName string
	Active      bool
}

// AvailableLanguages lists the embedded locales, English first. The entry
// matching activeTag is marked Active.
func AvailableLanguages(activeTag string) []LangInfo {
	active := language.Make(normalizeLocale(activeTag))
	// An unknown tag is und, whose base is a low-confidence guess of "en".
	base, conf := active.Base()
	matched := conf >= language.High

	var out []LangInfo
	entries, _ := localeFS.ReadDir("locales")
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".toml")
		tag, err := language.Parse(name)
		if err != nil {
			continue
		}
		b, _ := tag.Base()
		info := LangInfo{
			Tag:         tag.String(),
			Name:        display.Self.Name(tag),
			EnglishName: display.English.Tags().Name(tag),
			Active:      matched && b == base,
		}
		if info.Name == "" {
			info.Name = info.Tag
		}
		if info.EnglishName == "" {
			info.EnglishName = info.Name
		}
		out = append(out, info)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Tag == "en" || out[j].Tag == "en" {
			return out[i].Tag == "en"
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// IsAvailable reports whether tag matches an embedded locale.
func IsAvailable(tag string) bool {
	for _, l := range AvailableLanguages(tag) {
		if l.Active {
			return true
		}
	}
	return false
}

var previewKeys = [][2]string{
	{"tui.chat.emptyTitle", "Travel Assistant"},
	{"tui.chat.placeholder", "Ask about travel destinations..."},
	{"tui.chat.thinking", "Thinking..."},
	{"tui.label.user", "You"},
	{"tui.label.reasoning", "Reasoning"},
	{"tui.landing.suggestions", "Try asking"},
	{"tui.landing.threads", "Recent conversations"},
	{"common.loading", "Loading..."},
	{"common.time.justNow", "just now"},
	{"common.time.short.today", "today"},
	{"tui.chat.helpSend", "enter: send"},
	{"tui.chat.helpBack", "esc: back"},
}

// PreviewKeys returns the message IDs and English defaults shown when
// previewing a language.
func PreviewKeys() [][2]string {
	return previewKeys
}

// PreviewStrings localizes the preview keys in tag without changing the
// active language.
func PreviewStrings(tag string) map[string]string {
	l := i18n.NewLocalizer(newBundle(), tag, "en")
	out := make(map[string]string, len(previewKeys))
	for _, kv := range previewKeys {
		s, err := l.Localize(&i18n.LocalizeConfig{
			DefaultMessage: &i18n.Message{ID: kv[0], Other: kv[1]},
		})
		if err != nil {
			s = kv[1]
		}
		out[kv[0]] = s
	}
	return out
}
