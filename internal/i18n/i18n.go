// Package i18n resolves display strings by key. The rest of the funnel only
// ever deals in keys.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

type Catalog struct {
	fallback string
	langs    []string
	matcher  language.Matcher
	messages map[string]map[string]string
}

// NewCatalog builds the built-in catalog. An unsupported fallback becomes pt.
func NewCatalog(fallback string) *Catalog {
	if _, ok := messages[fallback]; !ok {
		fallback = "pt"
	}
	// The fallback goes first so the matcher defaults to it.
	ordered := append([]string{fallback}, without([]string{"pt", "en", "es"}, fallback)...)
	tags := make([]language.Tag, 0, len(ordered))
	for _, l := range ordered {
		tags = append(tags, language.Make(l))
	}
	return &Catalog{
		fallback: fallback,
		langs:    ordered,
		matcher:  language.NewMatcher(tags),
		messages: messages,
	}
}

func without(list []string, drop string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != drop {
			out = append(out, v)
		}
	}
	return out
}

// Match picks the best supported language for an Accept-Language header.
func (c *Catalog) Match(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.fallback
	}
	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No {
		return c.fallback
	}
	return c.langs[idx]
}

// Lookup returns the string for key in lang, substituting {{param}}
// placeholders. Unknown keys come back unchanged.
func (c *Catalog) Lookup(lang, key string, params map[string]string) string {
	msg, ok := c.messages[lang][key]
	if !ok {
		msg, ok = c.messages[c.fallback][key]
	}
	if !ok {
		return key
	}
	for k, v := range params {
		msg = strings.ReplaceAll(msg, "{{"+k+"}}", v)
	}
	return msg
}
