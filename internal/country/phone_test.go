package country

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/multicrypto-funnel/internal/apperr"
)

func TestNormalize_PrefixesDialCode(t *testing.T) {
	br, ok := ByCode("BR")
	require.True(t, ok)

	assert.Equal(t, "+5511987654321", Normalize("11987654321", br))
	assert.Equal(t, "+5511987654321", Normalize("(11) 98765-4321", br))
	assert.Equal(t, "+5511987654321", Normalize("+55 (11) 98765-4321", br))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"11987654321", "+1 (555) 123-4567", "7700 900123", "", "abc"}
	for _, c := range All() {
		for _, in := range inputs {
			once := Normalize(in, c)
			assert.Equal(t, once, Normalize(once, c), "country %s input %q", c.Code, in)
			assert.True(t, strings.HasPrefix(once, "+"))
			assert.NotContains(t, once[1:], "+")
		}
	}
}

func TestValidate_RuleTable(t *testing.T) {
	cases := map[string][2]int{
		"BR": {11, 11},
		"US": {10, 10},
		"CA": {10, 10},
		"GB": {10, 11},
		"DE": {8, 12},
		"JP": {8, 12},
	}
	for code, bounds := range cases {
		c, ok := ByCode(code)
		require.True(t, ok, code)
		for n := 0; n <= 15; n++ {
			// 9s never collide with a dial code prefix in this table.
			raw := strings.Repeat("9", n)
			err := Validate(raw, c)
			want := n >= bounds[0] && n <= bounds[1]
			if want {
				assert.NoError(t, err, "%s with %d digits", code, n)
			} else {
				require.Error(t, err, "%s with %d digits", code, n)
				assert.Equal(t, apperr.Validation, apperr.KindOf(err))
			}
		}
	}
}

func TestValidate_StripsDuplicateDialCode(t *testing.T) {
	br, _ := ByCode("BR")
	assert.NoError(t, Validate("+55 11 98765-4321", br))
	assert.NoError(t, Validate("11987654321", br))

	us, _ := ByCode("US")
	assert.NoError(t, Validate("+1 (555) 123-4567", us))
}

func TestValidate_CountrySpecificKeys(t *testing.T) {
	for code, key := range map[string]string{
		"BR": "capture.phoneError.br",
		"US": "capture.phoneError.usca",
		"CA": "capture.phoneError.usca",
		"GB": "capture.phoneError.gb",
		"FR": "capture.phoneError.default",
	} {
		c, _ := ByCode(code)
		err := Validate("12", c)
		require.Error(t, err)
		assert.Equal(t, key, apperr.KeyOf(err), code)
	}
}

func TestCountryTable(t *testing.T) {
	assert.Equal(t, "BR", Default().Code)
	assert.Len(t, All(), 15)

	_, ok := ByCode("ZZ")
	assert.False(t, ok)

	all := All()
	all[0].Name = "mutated"
	assert.Equal(t, "Brasil", Default().Name)
}
