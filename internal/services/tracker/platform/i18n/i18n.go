// Package i18n registers tracker copy with x/text and resolves the request
// language.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LangParam is the query parameter used to select a language.
const LangParam = "lang"

var supported = []language.Tag{
	language.AmericanEnglish,
	language.BrazilianPortuguese,
}

var matcher = language.NewMatcher(supported)

func init() {
	for locale, messages := range catalogs {
		tag := language.MustParse(locale)
		tags := []language.Tag{tag}
		if base, conf := tag.Base(); conf != language.No {
			if baseTag, err := language.Parse(base.String()); err == nil && baseTag != tag {
				tags = append(tags, baseTag)
			}
		}
		for key, value := range messages {
			for _, registerTag := range tags {
				if err := message.SetString(registerTag, key, value); err != nil {
					panic(err)
				}
			}
		}
	}
}

// Localizer translates catalog keys.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// Default returns the default language tag.
func Default() language.Tag {
	return supported[0]
}

// ResolveTag picks the best supported language for r: an explicit lang query
// parameter wins over Accept-Language.
func ResolveTag(r *http.Request) language.Tag {
	if r == nil {
		return Default()
	}
	var candidates []language.Tag
	if r.URL != nil {
		if raw := strings.TrimSpace(r.URL.Query().Get(LangParam)); raw != "" {
			if tag, err := language.Parse(raw); err == nil {
				candidates = append(candidates, tag)
			}
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			candidates = append(candidates, tags...)
		}
	}
	if len(candidates) == 0 {
		return Default()
	}
	_, idx, conf := matcher.Match(candidates...)
	if conf == language.No {
		return Default()
	}
	return supported[idx]
}

// Printer returns a message printer for tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// ForRequest resolves the request language and returns its printer.
func ForRequest(r *http.Request) (*message.Printer, language.Tag) {
	tag := ResolveTag(r)
	return Printer(tag), tag
}

// T translates key, falling back to the key itself.
func T(loc Localizer, key string) string {
	if loc == nil {
		return key
	}
	return loc.Sprintf(key)
}
