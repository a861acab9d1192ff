package domain

import "time"

// Sector is the civic department a complaint is routed to.
type Sector string

const (
	SectorRoads       Sector = "Roads"
	SectorElectricity Sector = "Electricity"
	SectorWater       Sector = "Water"
	SectorHealth      Sector = "Health"
	SectorEducation   Sector = "Education"
	SectorLawAndOrder Sector = "Law & Order"
	SectorWelfare     Sector = "Welfare"
)

// Sectors returns every sector in classification order, ending with the catch-all.
func Sectors() []Sector {
	return []Sector{
		SectorRoads,
		SectorElectricity,
		SectorWater,
		SectorHealth,
		SectorEducation,
		SectorLawAndOrder,
		SectorWelfare,
	}
}

// Valid reports whether s is one of the known sectors.
func (s Sector) Valid() bool {
	for _, known := range Sectors() {
		if s == known {
			return true
		}
	}
	return false
}

// Priority enumerates triage urgency.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities returns the priority tiers from most to least urgent.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusSubmitted  ComplaintStatus = "Submitted"
	ComplaintStatusInProgress ComplaintStatus = "In Progress"
	ComplaintStatusResolved   ComplaintStatus = "Resolved"
)

// Statuses returns the lifecycle states in workflow order.
func Statuses() []ComplaintStatus {
	return []ComplaintStatus{ComplaintStatusSubmitted, ComplaintStatusInProgress, ComplaintStatusResolved}
}

func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintStatusSubmitted, ComplaintStatusInProgress, ComplaintStatusResolved:
		return true
	}
	return false
}

// Complaint is the aggregate for a citizen grievance.
// Sector, Priority and ClusterKey are fixed at submission; only Status changes afterwards.
type Complaint struct {
	ID           int64
	ReferenceKey string
	UserID       string
	Description  string
	Sector       Sector
	Priority     Priority
	LocationCode string
	Status       ComplaintStatus
	ClusterKey   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
