package domain

import (
	"encoding/json"
	"math"
	"testing"
)

func TestNormalizeProgress(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want int
	}{
		{"zero", 0, 0},
		{"fraction", 0.4, 40},
		{"one is a full fraction", 1, 100},
		{"percent string", "45%", 45},
		{"empty string", "", 0},
		{"nil", nil, 0},
		{"above 100 is not clamped", 120, 120},
		{"percentage number", 40.0, 40},
		{"fraction string", "0.25", 25},
		{"rounds half up", "12.5", 13},
		{"fraction rounds half up", 0.125, 13},
		{"percent with spaces", " 70 % ", 70},
		{"numeric prefix", "45 (est)", 45},
		{"garbage", "abc", 0},
		{"json number", json.Number("0.8"), 80},
		{"progress type", Progress("60%"), 60},
		{"NaN", math.NaN(), 0},
		{"infinity", math.Inf(1), 0},
		{"negative stays negative", -5, -5},
		{"unsupported type", struct{}{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeProgress(tt.raw); got != tt.want {
				t.Errorf("NormalizeProgress(%v) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(40); got != "40%" {
		t.Errorf("expected 40%%, got %s", got)
	}
	if got := FormatPercent(NormalizeProgress("0.4")); got != "40%" {
		t.Errorf("expected primed fraction to render as 40%%, got %s", got)
	}
}
