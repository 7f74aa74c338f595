package suggest

import "testing"

func TestClosest(t *testing.T) {
	tests := []struct {
		name       string
		want       string
		candidates []string
		expect     string
	}{
		{"single typo", "Sorce", []string{"Source", "Target", "Root"}, "Source"},
		{"case slip", "health", []string{"Health", "Score"}, "Health"},
		{"nothing close", "velocity", []string{"a", "b"}, ""},
		{"skips exact match", "Source", []string{"Source"}, ""},
		{"empty candidates", "x", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Closest(tt.want, tt.candidates); got != tt.expect {
				t.Errorf("Closest(%q, %v) = %q, want %q", tt.want, tt.candidates, got, tt.expect)
			}
		})
	}
}
