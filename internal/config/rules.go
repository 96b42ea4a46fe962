package config

import (
	"fmt"
	"os"

	"github.com/senani-kuruwita/attendance-backend/internal/domain/timerule"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// rulesFile mirrors the YAML layout. Absent keys keep the base value.
type rulesFile struct {
	OpenTime             string   `yaml:"open_time"`
	LateThreshold        string   `yaml:"late_threshold"`
	CloseTime            string   `yaml:"close_time"`
	OTStart              string   `yaml:"ot_start"`
	OTEnd                string   `yaml:"ot_end"`
	OTRatePerHour        *float64 `yaml:"ot_rate_per_hour"`
	GeofenceRadiusMeters *float64 `yaml:"geofence_radius_meters"`
}

// LoadRulesFile overlays the YAML file at path onto base.
func LoadRulesFile(path string, base timerule.TimeRules) (timerule.TimeRules, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return timerule.TimeRules{}, fmt.Errorf("failed to read rules file: %w", err)
	}
	return ParseRules(raw, base)
}

// ParseRules overlays YAML document raw onto base.
func ParseRules(raw []byte, base timerule.TimeRules) (timerule.TimeRules, error) {
	var f rulesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return timerule.TimeRules{}, fmt.Errorf("failed to parse rules file: %w", err)
	}

	rules := base
	clocks := []struct {
		key   string
		value string
		dst   *timerule.ClockTime
	}{
		{"open_time", f.OpenTime, &rules.OpenTime},
		{"late_threshold", f.LateThreshold, &rules.LateThreshold},
		{"close_time", f.CloseTime, &rules.CloseTime},
		{"ot_start", f.OTStart, &rules.OTStart},
		{"ot_end", f.OTEnd, &rules.OTEnd},
	}
	for _, c := range clocks {
		if c.value == "" {
			continue
		}
		t, err := timerule.ParseClockTime(c.value)
		if err != nil {
			return timerule.TimeRules{}, fmt.Errorf("%s: %w", c.key, err)
		}
		*c.dst = t
	}

	if f.OTRatePerHour != nil {
		rules.OTRatePerHour = decimal.NewFromFloat(*f.OTRatePerHour)
	}
	if f.GeofenceRadiusMeters != nil {
		rules.GeofenceRadiusMeters = *f.GeofenceRadiusMeters
	}

	if err := rules.Validate(); err != nil {
		return timerule.TimeRules{}, err
	}
	return rules, nil
}
