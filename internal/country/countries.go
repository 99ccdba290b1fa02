// Package country holds the phone selector reference data and the
// per-country phone normalization and validation rules.
package country

import "github.com/AnshRaj112/multicrypto-funnel/internal/models"

// DefaultCode is the country preselected on the capture form.
const DefaultCode = "BR"

var profiles = []models.CountryProfile{
	{Code: "BR", Name: "Brasil", Flag: "🇧🇷", DialCode: "+55", Mask: "+55 (99) 99999-9999", Placeholder: "+55 (11) 99999-9999"},
	{Code: "US", Name: "Estados Unidos", Flag: "🇺🇸", DialCode: "+1", Mask: "+1 (999) 999-9999", Placeholder: "+1 (555) 123-4567"},
	{Code: "GB", Name: "Reino Unido", Flag: "🇬🇧", DialCode: "+44", Mask: "+44 9999 999999", Placeholder: "+44 7700 900123"},
	{Code: "DE", Name: "Alemanha", Flag: "🇩🇪", DialCode: "+49", Mask: "+49 999 99999999", Placeholder: "+49 151 12345678"},
	{Code: "FR", Name: "França", Flag: "🇫🇷", DialCode: "+33", Mask: "+33 9 99 99 99 99", Placeholder: "+33 6 12 34 56 78"},
	{Code: "IT", Name: "Itália", Flag: "🇮🇹", DialCode: "+39", Mask: "+39 999 999 9999", Placeholder: "+39 320 123 4567"},
	{Code: "ES", Name: "Espanha", Flag: "🇪🇸", DialCode: "+34", Mask: "+34 999 99 99 99", Placeholder: "+34 612 34 56 78"},
	{Code: "CA", Name: "Canadá", Flag: "🇨🇦", DialCode: "+1", Mask: "+1 (999) 999-9999", Placeholder: "+1 (416) 123-4567"},
	{Code: "AU", Name: "Austrália", Flag: "🇦🇺", DialCode: "+61", Mask: "+61 9 9999 9999", Placeholder: "+61 4 1234 5678"},
	{Code: "JP", Name: "Japão", Flag: "🇯🇵", DialCode: "+81", Mask: "+81 99 9999 9999", Placeholder: "+81 90 1234 5678"},
	{Code: "CN", Name: "China", Flag: "🇨🇳", DialCode: "+86", Mask: "+86 999 9999 9999", Placeholder: "+86 138 0013 8000"},
	{Code: "IN", Name: "Índia", Flag: "🇮🇳", DialCode: "+91", Mask: "+91 99999 99999", Placeholder: "+91 98765 43210"},
	{Code: "MX", Name: "México", Flag: "🇲🇽", DialCode: "+52", Mask: "+52 99 9999 9999", Placeholder: "+52 55 1234 5678"},
	{Code: "AR", Name: "Argentina", Flag: "🇦🇷", DialCode: "+54", Mask: "+54 99 9999 9999", Placeholder: "+54 11 1234 5678"},
	{Code: "RU", Name: "Rússia", Flag: "🇷🇺", DialCode: "+7", Mask: "+7 999 999 99 99", Placeholder: "+7 912 345 67 89"},
}

var byCode = func() map[string]models.CountryProfile {
	m := make(map[string]models.CountryProfile, len(profiles))
	for _, p := range profiles {
		m[p.Code] = p
	}
	return m
}()

// All returns a copy of the country table in display order.
func All() []models.CountryProfile {
	out := make([]models.CountryProfile, len(profiles))
	copy(out, profiles)
	return out
}

// ByCode looks up a profile by ISO code.
func ByCode(code string) (models.CountryProfile, bool) {
	p, ok := byCode[code]
	return p, ok
}

// Default returns the preselected profile.
func Default() models.CountryProfile {
	return byCode[DefaultCode]
}
