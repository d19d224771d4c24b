package services

import (
	"strings"
	"sync"
)

// Impact is the estimated environmental benefit of redirecting one item of a
// given waste type: kilograms of CO2 and kWh of energy saved.
type Impact struct {
	CO2Saved    float64 `json:"co2Saved" mapstructure:"co2Saved"`
	EnergySaved float64 `json:"energySaved" mapstructure:"energySaved"`
}

// defaultImpact is used for labels the classifier returns that we have no
// estimate for.
var defaultImpact = Impact{CO2Saved: 0.1, EnergySaved: 0.5}

// impactMu guards impactTable; lookups happen on every upload while merges
// normally only happen at startup.
var impactMu sync.RWMutex

// impactTable maps lowercase classification labels to impact estimates.
// The numbers are rough per-item approximations, not measurements.
var impactTable = map[string]Impact{
	"plastic bottle": {CO2Saved: 0.5, EnergySaved: 2.5},
	"plastic bag":    {CO2Saved: 0.2, EnergySaved: 1.0},
	"glass bottle":   {CO2Saved: 0.3, EnergySaved: 1.5},
	"aluminum can":   {CO2Saved: 1.0, EnergySaved: 5.0},
	"metal can":      {CO2Saved: 0.8, EnergySaved: 4.0},
	"cardboard":      {CO2Saved: 0.4, EnergySaved: 1.8},
	"paper":          {CO2Saved: 0.3, EnergySaved: 1.2},
	"e-waste":        {CO2Saved: 2.0, EnergySaved: 8.0},
	"organic waste":  {CO2Saved: 0.2, EnergySaved: 0.6},
}

// LookupImpact returns the impact estimate for a classification label.
// Matching is case-insensitive and exact; unknown labels get defaultImpact.
func LookupImpact(label string) Impact {
	impactMu.RLock()
	defer impactMu.RUnlock()

	if impact, ok := impactTable[strings.ToLower(label)]; ok {
		return impact
	}
	return defaultImpact
}

// MergeImpactTable overrides or extends the built-in impact table, e.g. from
// a configuration file.
func MergeImpactTable(entries map[string]Impact) {
	impactMu.Lock()
	defer impactMu.Unlock()

	for label, impact := range entries {
		impactTable[strings.ToLower(label)] = impact
	}
}
