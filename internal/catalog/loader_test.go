package catalog

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleCSV = `role,link,remote_testing,adaptive_irt,test_types,duration,description
Java Developer Test,https://www.shl.com/java,✅,❌,"A, K",30 minutes,"Assesses   core Java
skills for developers."
Sales Screener,https://www.shl.com/sales,yes,no,"P, B",approx 45 min,Short sales screen.
Mystery Assessment,https://www.shl.com/mystery,❌,✅,C,,
`

func TestReadCatalog(t *testing.T) {
	assessments, err := Read(strings.NewReader(sampleCSV), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, assessments, 3)

	java := assessments[0]
	assert.Equal(t, "Java Developer Test", java.Role)
	assert.True(t, java.RemoteTesting)
	assert.False(t, java.AdaptiveIRT)
	assert.Equal(t, "A, K", java.TestTypes)
	assert.Equal(t, 30.0, java.DurationMinutes)
	assert.Equal(t, "Assesses core Java skills for developers.", java.Description)

	sales := assessments[1]
	assert.True(t, sales.RemoteTesting)
	assert.Equal(t, 45.0, sales.DurationMinutes)

	mystery := assessments[2]
	assert.True(t, mystery.AdaptiveIRT)
	assert.True(t, math.IsNaN(mystery.DurationMinutes))
	assert.Empty(t, mystery.Description)
}

func TestReadCatalogColumnOrderIndependent(t *testing.T) {
	csv := "description,role,link,duration,test_types,remote_testing,adaptive_irt\n" +
		"Numeric reasoning.,Numeric Test,https://www.shl.com/numeric,20 min,A,yes,no\n"

	assessments, err := Read(strings.NewReader(csv), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, assessments, 1)
	assert.Equal(t, "Numeric Test", assessments[0].Role)
	assert.Equal(t, 20.0, assessments[0].DurationMinutes)
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"30 minutes", 30},
		{"max 45", 45},
		{"15", 15},
		{"", math.NaN()},
		{"untimed", math.NaN()},
	}

	for _, c := range cases {
		got := parseDuration(c.in)
		if math.IsNaN(c.want) {
			assert.True(t, math.IsNaN(got), "input %q", c.in)
		} else {
			assert.Equal(t, c.want, got, "input %q", c.in)
		}
	}
}

func TestDurationDisplay(t *testing.T) {
	a := Assessment{DurationMinutes: 30}
	assert.Equal(t, "30.0 min", a.DurationDisplay())

	missing := Assessment{DurationMinutes: math.NaN()}
	assert.Empty(t, missing.DurationDisplay())
}

func TestIsTypeCode(t *testing.T) {
	for _, code := range []string{"A", "B", "C", "D", "E", "K", "P", "S"} {
		assert.True(t, IsTypeCode(code), code)
	}
	for _, token := range []string{"X", "a", "AK", ""} {
		assert.False(t, IsTypeCode(token), token)
	}
}
