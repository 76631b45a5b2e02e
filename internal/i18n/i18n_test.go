package i18n

import (
	"testing"
)

func TestTFallsBackToDefault(t *testing.T) {
	Init("en")
	if got := T("tui.never.defined", "Plan a trip"); got != "Plan a trip" {
		t.Errorf("T() = %q", got)
	}
	if got := Tf("tui.chat.error", "Error: %v", "timeout"); got != "Error: timeout" {
		t.Errorf("Tf() = %q", got)
	}
}

func TestTnPluralization(t *testing.T) {
	Init("en")
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 threads"},
		{1, "1 thread"},
		{7, "7 threads"},
	}
	for _, tt := range tests {
		if got := Tn("cli.threads.count", "{{.Count}} thread", "{{.Count}} threads", tt.n); got != tt.want {
			t.Errorf("Tn(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestUnknownLanguageFallsBackToEnglish(t *testing.T) {
	Init("xx-nonexistent")
	defer Init("en")
	if got := T("common.loading", "Loading..."); got != "Loading..." {
		t.Errorf("expected English fallback, got %q", got)
	}
}

func TestPluralFallback(t *testing.T) {
	if got := pluralFallback("{{.Count}} line", "{{.Count}} lines", 1); got != "1 line" {
		t.Errorf("one = %q", got)
	}
	if got := pluralFallback("{{.Count}} line", "{{.Count}} lines", 12); got != "12 lines" {
		t.Errorf("other = %q", got)
	}
}

func TestResolveLocale(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		config string
		want   string
	}{
		{"env override wins", map[string]string{EnvLang: "es", "LANG": "en_US.UTF-8"}, "en", "es"},
		{"config beats system", map[string]string{"LANG": "es_ES.UTF-8"}, "en", "en"},
		{"LC_ALL normalized", map[string]string{"LC_ALL": "es_MX.UTF-8"}, "", "es-MX"},
		{"LANG normalized", map[string]string{"LANG": "pt_BR"}, "", "pt-BR"},
		{"C locale ignored", map[string]string{"LC_ALL": "C", "LANG": "POSIX"}, "", "en"},
		{"nothing set", nil, "", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{EnvLang, "LC_ALL", "LANG"} {
				t.Setenv(k, tt.env[k])
			}
			if got := ResolveLocale(tt.config); got != tt.want {
				t.Errorf("ResolveLocale(%q) = %q, want %q", tt.config, got, tt.want)
			}
		})
	}
}
