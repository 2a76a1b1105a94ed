package models

// FuelType is the dominant fuel category of an incident area.
type FuelType string

const (
	FuelGrass     FuelType = "grass"
	FuelBrush     FuelType = "brush"
	FuelMixed     FuelType = "mixed"
	FuelChaparral FuelType = "chaparral"
)

// Weather is the current-conditions snapshot attached to an incident.
type Weather struct {
	WindSpeedMS    float64 `json:"wind_speed_ms"`
	WindBearingDeg float64 `json:"wind_bearing_deg"`
	HumidityPct    float64 `json:"humidity_pct"`
}

// Incident is the active-fire context flowing into the predictor, the
// terrain analyzer, and the IAP matcher.
type Incident struct {
	Location       Coordinates `json:"location"`
	EstimatedAcres float64     `json:"estimated_acres"`
	Fuel           FuelType    `json:"fuel"`
	Weather        Weather     `json:"weather"`
}
