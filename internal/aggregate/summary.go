// Package aggregate builds dashboard statistics from a snapshot of complaints.
package aggregate

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/triage"
)

const (
	// RecentLimit caps the number of complaints listed as recent.
	RecentLimit = 10
	// TopClusterLimit caps the number of clusters returned.
	TopClusterLimit = 5
)

// Cluster is the rollup of every complaint sharing a cluster key.
type Cluster struct {
	Key          string
	Sector       domain.Sector
	LocationCode string
	Topic        string
	Total        int
	Resolved     int
	Processing   int
}

// Summary is the dashboard view over a complaint collection.
type Summary struct {
	Total       int
	High        int
	Pending     int
	Processing  int
	Resolved    int
	BySector    map[domain.Sector]int
	ByPriority  map[domain.Priority]int
	ByStatus    map[domain.ComplaintStatus]int
	Recent      []domain.Complaint
	TopClusters []Cluster
}

// Summarize aggregates complaints, which must be in insertion order. The input slice is
// not modified.
func Summarize(complaints []domain.Complaint) Summary {
	summary := Summary{
		BySector:    make(map[domain.Sector]int),
		ByPriority:  make(map[domain.Priority]int),
		ByStatus:    make(map[domain.ComplaintStatus]int),
		Recent:      []domain.Complaint{},
		TopClusters: []Cluster{},
	}

	groups := make(map[string]*Cluster)
	for _, c := range complaints {
		summary.Total++
		summary.BySector[c.Sector]++
		summary.ByPriority[c.Priority]++
		summary.ByStatus[c.Status]++
		if c.Priority == domain.PriorityHigh {
			summary.High++
		}

		group, ok := groups[c.ClusterKey]
		if !ok {
			location, sector := c.LocationCode, c.Sector
			if loc, sec, parsed := triage.ParseClusterKey(c.ClusterKey); parsed {
				location, sector = loc, sec
			}
			group = &Cluster{
				Key:          c.ClusterKey,
				Sector:       sector,
				LocationCode: location,
				Topic:        topic(sector, location),
			}
			groups[c.ClusterKey] = group
		}
		group.Total++

		switch c.Status {
		case domain.ComplaintStatusSubmitted:
			summary.Pending++
		case domain.ComplaintStatusInProgress:
			summary.Processing++
			group.Processing++
		case domain.ComplaintStatusResolved:
			summary.Resolved++
			group.Resolved++
		}
	}

	summary.Recent = mostRecent(complaints, RecentLimit)
	summary.TopClusters = topClusters(groups, TopClusterLimit)
	return summary
}

func mostRecent(complaints []domain.Complaint, limit int) []domain.Complaint {
	sorted := slices.Clone(complaints)
	// stable: equal timestamps keep insertion order
	slices.SortStableFunc(sorted, func(a, b domain.Complaint) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	if sorted == nil {
		return []domain.Complaint{}
	}
	return sorted
}

func topClusters(groups map[string]*Cluster, limit int) []Cluster {
	clusters := make([]Cluster, 0, len(groups))
	for _, g := range groups {
		clusters = append(clusters, *g)
	}
	slices.SortFunc(clusters, func(a, b Cluster) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	if len(clusters) > limit {
		clusters = clusters[:limit]
	}
	return clusters
}

func topic(sector domain.Sector, locationCode string) string {
	return fmt.Sprintf("%s Issue in %s", sector, locationCode)
}
