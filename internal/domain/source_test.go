package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOrderings(t *testing.T) {
	require.NoError(t, ValidateOrderings())
}

func TestOrderingsAreTotal(t *testing.T) {
	for pref, order := range Orderings {
		seen := make(map[Source]bool)
		for _, src := range order {
			assert.False(t, seen[src], "preference %s repeats %s", pref, src)
			seen[src] = true
		}
		for _, src := range chainSources {
			assert.True(t, seen[src], "preference %s omits %s", pref, src)
		}
	}
}

func TestParsePreference(t *testing.T) {
	for _, valid := range []string{"auto", "api", "rava", "iol", "manual", "custom"} {
		pref, err := ParsePreference(valid)
		require.NoError(t, err)
		assert.Equal(t, Preference(valid), pref)
	}

	_, err := ParsePreference("bloomberg")
	assert.Error(t, err)
}

func TestPreferenceBypass(t *testing.T) {
	assert.True(t, PreferenceManual.Bypass())
	assert.True(t, PreferenceCustom.Bypass())
	assert.False(t, PreferenceAuto.Bypass())
	assert.False(t, PreferenceRava.Bypass())
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, RiskLow, LevelFor(800))
	assert.Equal(t, RiskMedium, LevelFor(1500))
	assert.Equal(t, RiskMedium, LevelFor(2499))
	assert.Equal(t, RiskHigh, LevelFor(2500))
	assert.Equal(t, RiskHigh, LevelFor(4000))
}
