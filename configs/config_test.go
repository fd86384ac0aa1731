package configs

import (
	"testing"

	"colorcrash/internal/domain"
	"colorcrash/internal/fairness"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Load()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
}

func TestValidateRejectsBrokenRanges(t *testing.T) {
	cases := []struct {
		name   string
		ranges map[domain.Color]fairness.Range
	}{
		{"gap", map[domain.Color]fairness.Range{
			domain.ColorRed:   {Min: 0, Max: 39},
			domain.ColorBlue:  {Min: 41, Max: 59}, // 40 uncovered
			domain.ColorGreen: {Min: 60, Max: 99},
		}},
		{"overlap", map[domain.Color]fairness.Range{
			domain.ColorRed:   {Min: 0, Max: 40},
			domain.ColorBlue:  {Min: 40, Max: 59},
			domain.ColorGreen: {Min: 60, Max: 99},
		}},
		{"out of bounds", map[domain.Color]fairness.Range{
			domain.ColorRed:   {Min: 0, Max: 39},
			domain.ColorBlue:  {Min: 40, Max: 59},
			domain.ColorGreen: {Min: 60, Max: 100},
		}},
		{"missing color", map[domain.Color]fairness.Range{
			domain.ColorRed:  {Min: 0, Max: 49},
			domain.ColorBlue: {Min: 50, Max: 99},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Load()
			cfg.Game.ColorRanges = tc.ranges
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidateRejectsBadParameters(t *testing.T) {
	cfg := Load()
	cfg.Game.WagerUnit = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero wager unit accepted")
	}

	cfg = Load()
	cfg.Game.BettingDuration = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero betting duration accepted")
	}

	cfg = Load()
	cfg.Game.Multipliers[domain.ColorBlue] = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative multiplier accepted")
	}
}
