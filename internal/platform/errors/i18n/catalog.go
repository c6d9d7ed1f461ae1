// Package i18n provides internationalization support for error messages.
package i18n

import (
	"bytes"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
)

// Code is a machine-readable error code (duplicated from errors package to avoid cycle).
type Code = string

// Catalog maps error codes to message templates for a specific locale.
type Catalog struct {
	locale   string
	messages map[Code]string
}

var (
	catalogsMu sync.RWMutex
	catalogs   = map[string]*Catalog{}

	matcherMu      sync.RWMutex
	matcher        language.Matcher
	matcherLocales []string
)

// GetCatalog returns the catalog for the given locale.
// Locale matching uses x/text language matching so regional variants fall
// back to a registered base locale; unknown locales fall back to en-US.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = "en-US"
	}

	if c, ok := lookupCatalog(requested); ok {
		return c
	}

	resolved := matchLocale(requested)
	if c, ok := lookupCatalog(resolved); ok {
		return c
	}
	if c, ok := lookupCatalog("en-US"); ok {
		return c
	}
	return &Catalog{locale: requested, messages: map[Code]string{}}
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message template with the given metadata.
// Falls back to the error code itself if no template is found.
// Templates are always executed even with nil/empty metadata so template
// variables without metadata render as empty.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	tmpl, ok := c.messages[code]
	if !ok {
		return code
	}

	if metadata == nil {
		metadata = map[string]string{}
	}

	t, err := template.New("msg").Parse(tmpl)
	if err != nil {
		return tmpl
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}

// RegisterCatalog registers a catalog for the given locale and rebuilds the
// language matcher. Intended for init and single-threaded test setup.
func RegisterCatalog(locale string, cat *Catalog) {
	catalogsMu.Lock()
	catalogs[locale] = cat
	locales := make([]string, 0, len(catalogs))
	for key := range catalogs {
		locales = append(locales, key)
	}
	catalogsMu.Unlock()

	rebuildMatcher(locales)
}

// NewCatalog creates a new catalog with the given locale and messages.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	cloned := make(map[Code]string, len(messages))
	for key, value := range messages {
		cloned[key] = value
	}
	return &Catalog{
		locale:   locale,
		messages: cloned,
	}
}

func lookupCatalog(locale string) (*Catalog, bool) {
	catalogsMu.RLock()
	defer catalogsMu.RUnlock()
	cat, ok := catalogs[locale]
	return cat, ok
}

// matchLocale resolves a requested locale against registered catalogs.
func matchLocale(requested string) string {
	matcherMu.RLock()
	m := matcher
	locales := matcherLocales
	matcherMu.RUnlock()
	if m == nil || len(locales) == 0 {
		return "en-US"
	}

	desired, err := language.Parse(requested)
	if err != nil {
		return "en-US"
	}
	_, index, _ := m.Match(desired)
	if index < 0 || index >= len(locales) {
		return "en-US"
	}
	return locales[index]
}

func rebuildMatcher(locales []string) {
	tags := make([]language.Tag, 0, len(locales))
	kept := make([]string, 0, len(locales))
	for _, locale := range locales {
		tag, err := language.Parse(locale)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		kept = append(kept, locale)
	}

	matcherMu.Lock()
	defer matcherMu.Unlock()
	if len(tags) == 0 {
		matcher = nil
		matcherLocales = nil
		return
	}
	matcher = language.NewMatcher(tags)
	matcherLocales = kept
}

func init() {
	RegisterCatalog("en-US", enUSCatalog)
}
