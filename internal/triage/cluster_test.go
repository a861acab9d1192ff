package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/grievance-service/internal/domain"
)

func TestClusterKey_Format(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "600001-Water", ClusterKey("600001", domain.SectorWater))
	assert.Equal(t, "600001-Law & Order", ClusterKey("600001", domain.SectorLawAndOrder))
	assert.Equal(t, ClusterKey("600001", domain.SectorWater), ClusterKey("600001", domain.SectorWater))
}

func TestClusterKey_UniqueAcrossPairs(t *testing.T) {
	t.Parallel()

	locations := []string{"600001", "600002", "a-b", "a", "b-Roads", "", "-", "600001-"}
	seen := map[string][2]string{}
	for _, loc := range locations {
		for _, sector := range domain.Sectors() {
			key := ClusterKey(loc, sector)
			if prev, ok := seen[key]; ok {
				t.Fatalf("key %q produced by (%q, %q) and (%q, %q)", key, prev[0], prev[1], loc, sector)
			}
			seen[key] = [2]string{loc, string(sector)}
		}
	}
}

func TestParseClusterKey_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, loc := range []string{"600001", "SW1A-1AA", "", "x-y-z"} {
		for _, sector := range domain.Sectors() {
			gotLoc, gotSector, ok := ParseClusterKey(ClusterKey(loc, sector))
			require.True(t, ok)
			assert.Equal(t, loc, gotLoc)
			assert.Equal(t, sector, gotSector)
		}
	}
}

func TestParseClusterKey_Invalid(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"", "600001", "600001-Parks"} {
		_, _, ok := ParseClusterKey(key)
		assert.False(t, ok, "key %q", key)
	}
}
