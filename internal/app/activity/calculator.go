package activity

import (
	"encoding/json"
	"strings"
)

// Estimated kilograms of CO2 per matched activity category.
const (
	transportationKg = 450
	energyKg         = 300
	travelKg         = 1200
	foodKg           = 150
	baselineKg       = 250
)

// Breakdown lists the contribution of each matched category. Field order is the encoding order.
type Breakdown struct {
	Transportation int `json:"transportation,omitempty"`
	Energy         int `json:"energy,omitempty"`
	Travel         int `json:"travel,omitempty"`
	Food           int `json:"food,omitempty"`
	General        int `json:"general,omitempty"`
}

func (b Breakdown) Total() int {
	return b.Transportation + b.Energy + b.Travel + b.Food + b.General
}

// Estimate matches activity keywords case-insensitively. Categories add up;
// text that matches nothing gets the general baseline.
func Estimate(activities string) Breakdown {
	text := strings.ToLower(activities)
	var b Breakdown
	if strings.Contains(text, "car") {
		b.Transportation = transportationKg
	}
	if strings.Contains(text, "heating") || strings.Contains(text, "energy") {
		b.Energy = energyKg
	}
	if strings.Contains(text, "flight") || strings.Contains(text, "plane") {
		b.Travel = travelKg
	}
	if strings.Contains(text, "meat") {
		b.Food = foodKg
	}
	if b.Total() == 0 {
		b.General = baselineKg
	}
	return b
}

// CalculateFootprint returns the estimated total and its breakdown as JSON text.
func CalculateFootprint(activities string) (float64, string, error) {
	b := Estimate(activities)
	raw, err := json.Marshal(b)
	if err != nil {
		return 0, "", err
	}
	return float64(b.Total()), string(raw), nil
}
