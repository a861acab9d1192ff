package triage

import (
	"strings"

	"github.com/spec-kit/grievance-service/internal/domain"
)

const clusterSeparator = "-"

// ClusterKey derives the grouping key for complaints from the same location and sector.
// Sector labels never contain the separator, so the key splits unambiguously on its
// last separator even when the location code itself is hyphenated.
func ClusterKey(locationCode string, sector domain.Sector) string {
	return locationCode + clusterSeparator + string(sector)
}

// ParseClusterKey splits a key produced by ClusterKey back into its parts.
func ParseClusterKey(key string) (string, domain.Sector, bool) {
	idx := strings.LastIndex(key, clusterSeparator)
	if idx < 0 {
		return "", "", false
	}
	sector := domain.Sector(key[idx+len(clusterSeparator):])
	if !sector.Valid() {
		return "", "", false
	}
	return key[:idx], sector, true
}
