package models

// SectionType tags an IAP section with its ICS document code.
type SectionType string

const (
	SectionICS202 SectionType = "ICS-202" // incident objectives
	SectionICS203 SectionType = "ICS-203" // organization assignment
	SectionICS204 SectionType = "ICS-204" // division assignments
	SectionICS205 SectionType = "ICS-205" // communications plan
	SectionICS220 SectionType = "ICS-220" // air operations
)

// InsightCategory selects which kind of tactical guidance the matcher
// should extract from historical plans.
type InsightCategory string

const (
	CategoryEvacuation InsightCategory = "evacuation"
	CategoryResources  InsightCategory = "resources"
	CategoryTactics    InsightCategory = "tactics"
)

// IAPSection is one typed section of a historical incident action plan,
// extracted offline. Content is bounded by the extraction pipeline.
type IAPSection struct {
	Type       SectionType `json:"type"`
	Content    string      `json:"content"`
	Objectives []string    `json:"objectives,omitempty"`
	Resources  []string    `json:"resources,omitempty"`
}

// IAPRecord is a static historical incident action plan. Read-only for the
// lifetime of the process.
type IAPRecord struct {
	ID           string       `json:"id"`
	IncidentName string       `json:"incident_name"`
	Date         string       `json:"date"`
	Location     Coordinates  `json:"location"`
	FuelType     FuelType     `json:"fuel_type"`
	Acres        float64      `json:"acres"`
	WindSpeedMS  float64      `json:"wind_speed_ms"`
	HumidityPct  float64      `json:"humidity_pct"`
	Sections     []IAPSection `json:"sections"`
	Lessons      []string     `json:"lessons,omitempty"`
	RawText      string       `json:"raw_text,omitempty"`
}

// IAPInsight is one relevance-scored excerpt from a historical plan.
// Recreated fresh on every query; never cached across incident contexts.
type IAPInsight struct {
	IAPID        string      `json:"iap_id"`
	IncidentName string      `json:"incident_name"`
	Score        float64     `json:"score"`
	Snippet      string      `json:"snippet"`
	SectionType  SectionType `json:"section_type"`
	Reasoning    []string    `json:"reasoning"`
}
