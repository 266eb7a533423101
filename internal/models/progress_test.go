package models

import "testing"

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name      string
		completed []string
		expected  int
	}{
		{"empty", []string{}, 0},
		{"nil", nil, 0},
		{"one of five", []string{"sala1"}, 20},
		{"two of five", []string{"sala1", "sala3"}, 40},
		{"all five", []string{"sala1", "sala2", "sala3", "sala4", "sala5"}, 100},
		{"duplicates count once", []string{"sala1", "sala1", "sala1"}, 20},
		{"transversal rooms excluded", []string{"sala1", "soporte", "videos"}, 20},
		{"unknown ids excluded", []string{"sala1", "sala99"}, 20},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ProgressPercent(tc.completed); got != tc.expected {
				t.Errorf("Expected %d%%, got %d%%", tc.expected, got)
			}
		})
	}
}
