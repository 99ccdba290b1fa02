package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	c := NewCatalog("pt")

	assert.Equal(t, "Name is required", c.Lookup("en", "capture.nameRequired", nil))
	assert.Equal(t, "Bem-vindo, Maria!", c.Lookup("pt", "header.welcome", map[string]string{"name": "Maria"}))
	// Unknown language falls back, unknown key echoes.
	assert.Equal(t, "Nome é obrigatório", c.Lookup("de", "capture.nameRequired", nil))
	assert.Equal(t, "no.such.key", c.Lookup("en", "no.such.key", nil))
}

func TestMatch(t *testing.T) {
	c := NewCatalog("pt")

	assert.Equal(t, "en", c.Match("en-US,en;q=0.9"))
	assert.Equal(t, "es", c.Match("es-AR"))
	assert.Equal(t, "pt", c.Match("pt-BR,pt;q=0.9,en;q=0.8"))
	assert.Equal(t, "pt", c.Match(""))
	assert.Equal(t, "pt", c.Match("ja-JP"))
}

func TestEveryLanguageHasEveryKey(t *testing.T) {
	for key := range messages["pt"] {
		for _, lang := range []string{"en", "es"} {
			_, ok := messages[lang][key]
			assert.True(t, ok, "%s missing %s", lang, key)
		}
	}
}

func TestNewCatalog_UnsupportedFallback(t *testing.T) {
	c := NewCatalog("de")
	assert.Equal(t, "pt", c.Match(""))
	assert.Equal(t, "Nome é obrigatório", c.Lookup("de", "capture.nameRequired", nil))
}
