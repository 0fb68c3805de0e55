// Package locale provides the translated message catalogue used for fallback texts and status output.
package locale

import (
	"embed"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-fortune/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Catalog translates message IDs for one language.
type Catalog struct {
	lang      string
	tag       language.Tag
	localizer *i18n.Localizer
	langs     []string
}

// New loads every embedded locale and returns a catalogue for lang.
// Unknown languages fall back to config.DefaultLanguage.
func New(lang string) *Catalog {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	detected := loadLocales(bundle)

	if !slices.Contains(detected, lang) {
		if lang != "" {
			slog.Warn(config.MsgLocaleFallback,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyLang, lang,
			)
		}
		lang = config.DefaultLanguage
	}

	return &Catalog{
		lang:      lang,
		tag:       language.Make(lang),
		localizer: i18n.NewLocalizer(bundle, lang),
		langs:     detected,
	}
}

func loadLocales(bundle *i18n.Bundle) []string {
	entries, err := localeFS.ReadDir(config.LocaleDirName)
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return nil
	}

	var detected []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, config.LocaleFilePrefix) || !strings.HasSuffix(name, config.LocaleFileSuffix) {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, config.LocaleFilePrefix), config.LocaleFileSuffix)
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, config.LocaleDirName+"/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}

		detected = append(detected, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
		)
	}
	return detected
}

// Lang returns the active language code.
func (c *Catalog) Lang() string { return c.lang }

// Tag returns the active language as a BCP 47 tag.
func (c *Catalog) Tag() language.Tag { return c.tag }

// Languages lists the language codes found in the embedded locales.
func (c *Catalog) Languages() []string { return slices.Clone(c.langs) }

// Msg translates id, executing its template with data. A missing key returns the key itself.
func (c *Catalog) Msg(id string, data map[string]any) string {
	msg, err := c.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, id,
			config.LogKeyError, err,
		)
		return id
	}
	return msg
}

// Animal returns the translated display name of a zodiac animal.
func (c *Catalog) Animal(name string) string {
	return c.Msg(config.TKeyAnimalPref+name, nil)
}

// Element returns the translated display name of an element.
func (c *Catalog) Element(name string) string {
	return c.Msg(config.TKeyElementPref+name, nil)
}
