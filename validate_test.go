package ucum

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValidExpression(t *testing.T) {
	cat := mustCatalog(t)
	result := Validate(cat, "kg.m/s2", true)
	require.True(t, result.Valid)
	require.NotNil(t, result.Unit)
	assert.Empty(t, result.Messages)
}

func TestValidateAppliesCorrectiveRewriteAndStillValidates(t *testing.T) {
	cat := mustCatalog(t)
	result := Validate(cat, "2mg", true)
	require.True(t, result.Valid)
	require.Len(t, result.Messages, 1)
	assert.False(t, result.Messages[0].Fatal)
	assert.Equal(t, "inserted '.'", result.Messages[0].Text)
}

func TestValidateMovedAnnotation(t *testing.T) {
	cat := mustCatalog(t)
	result := Validate(cat, "{creatine}mol", true)
	require.True(t, result.Valid)
	require.Len(t, result.Messages, 1)
	assert.Equal(t, "moved annotation", result.Messages[0].Text)
}

func TestValidateUnknownAtomIsInvalidWithFatalMessage(t *testing.T) {
	cat := mustCatalog(t)
	result := Validate(cat, "bogus", true)
	assert.False(t, result.Valid)
	assert.Nil(t, result.Unit)
	require.NotEmpty(t, result.Messages)
	assert.True(t, result.Messages[len(result.Messages)-1].Fatal)
}

func TestValidateSuggestsCloseAtomOnTypo(t *testing.T) {
	cat := mustCatalog(t)
	result := Validate(cat, "mgg", true) // "m" splits off as milli, but "gg" is no atom
	assert.False(t, result.Valid)

	// "mo" is one deletion away from the atom code "mol".
	typo := Validate(cat, "mo", true)
	assert.False(t, typo.Valid)
	assert.Contains(t, typo.Suggestions, "mol")
}

func TestConvertExprUsesDecimalMagnitude(t *testing.T) {
	cat := mustCatalog(t)
	mag, err := decimal.NewFromString("37")
	require.NoError(t, err)
	result, cErr := ConvertExpr(cat, "Cel", mag, "[degF]", true)
	require.Nil(t, cErr)
	assert.InDelta(t, 98.6, result.Magnitude, 1e-9)
}

func TestConvertExprIncommensurableReturnsError(t *testing.T) {
	cat := mustCatalog(t)
	mag, err := decimal.NewFromString("5")
	require.NoError(t, err)
	_, cErr := ConvertExpr(cat, "mmol/L", mag, "g/L", true)
	require.NotNil(t, cErr)
	assert.Equal(t, ErrIncommensurableUnits, cErr.Code)
}

func TestGetCommensurablesFacade(t *testing.T) {
	cat := mustCatalog(t)
	codes, err := GetCommensurables(cat, "m", true)
	require.Nil(t, err)
	assert.Contains(t, codes, "[ft_i]")
}

func TestGetSpecifiedUnitFacade(t *testing.T) {
	cat := mustCatalog(t)
	u, err := GetSpecifiedUnit(cat, "kg.m/s2", true)
	require.Nil(t, err)
	require.NotNil(t, u)
	assert.True(t, u.Dimension.Equals(Dimension{dimMass: 1, dimLength: 1, dimTime: -2}))

	u2, err2 := GetSpecifiedUnit(cat, "bogus", true)
	require.NotNil(t, err2)
	assert.Nil(t, u2)
}

func TestMustParsePanicsOnInvalidInput(t *testing.T) {
	cat := mustCatalog(t)

	u := MustParse(cat, "kg.m/s2", true)
	assert.True(t, u.Dimension.Equals(Dimension{dimMass: 1, dimLength: 1, dimTime: -2}))

	defer func() {
		if recover() == nil {
			t.Errorf("MustParse(\"bogus\") did not panic")
		}
	}()
	MustParse(cat, "bogus", true)
}

func TestLevenshteinAtMost1(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"mol", "mol", true},
		{"mol", "moll", true},
		{"mol", "mo", true},
		{"mol", "nol", true},
		{"mol", "kg", false},
		{"mol", "molx", true},
	}
	for _, tt := range tests {
		if got := levenshteinAtMost1(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshteinAtMost1(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
