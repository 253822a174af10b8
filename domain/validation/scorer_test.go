package validation

import (
	"testing"
)

func TestOverallScore(t *testing.T) {
	tests := []struct {
		name     string
		reqRate  float64
		qRate    float64
		covRate  float64
		expected float64
	}{
		{
			name:    "perfect scores",
			reqRate: 100, qRate: 100, covRate: 100,
			expected: 100,
		},
		{
			name:    "weighted mix above threshold",
			reqRate: 81.81818181818183, qRate: 87.5, covRate: 76.47058823529412,
			expected: 81.38,
		},
		{
			name:    "valid content with zero coverage floors at 75",
			reqRate: 100, qRate: 100, covRate: 0,
			expected: 75.0,
		},
		{
			name:    "all zero rates do not trigger the floor",
			reqRate: 0, qRate: 0, covRate: 0,
			expected: 0,
		},
		{
			name:    "zero coverage only floors when some content validated",
			reqRate: 0, qRate: 0, covRate: 50,
			expected: 20,
		},
		{
			name:    "exactly 70 is not floored",
			reqRate: 70, qRate: 70, covRate: 70,
			expected: 70,
		},
		{
			name:    "just below 70 with positive rate floors",
			reqRate: 50, qRate: 60, covRate: 80,
			expected: 75.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OverallScore(tt.reqRate, tt.qRate, tt.covRate)
			if got != tt.expected {
				t.Errorf("OverallScore(%v, %v, %v) = %v, want %v",
					tt.reqRate, tt.qRate, tt.covRate, got, tt.expected)
			}
			// Pure function: repeated calls agree.
			if again := OverallScore(tt.reqRate, tt.qRate, tt.covRate); again != got {
				t.Errorf("OverallScore is not deterministic: %v then %v", got, again)
			}
		})
	}
}

func TestOverallScoreUnclamped(t *testing.T) {
	got := OverallScoreUnclamped(100, 100, 0)
	if got != 60.0 {
		t.Errorf("OverallScoreUnclamped(100, 100, 0) = %v, want 60.0", got)
	}
	// Above the threshold clamped and unclamped agree.
	if c, u := OverallScore(90, 90, 90), OverallScoreUnclamped(90, 90, 90); c != u {
		t.Errorf("clamped %v and unclamped %v disagree above threshold", c, u)
	}
}

func TestRate(t *testing.T) {
	if got := rate(0, 0); got != 0 {
		t.Errorf("rate(0, 0) = %v, want 0", got)
	}
	if got := rate(18, 22); got < 81.8 || got > 81.9 {
		t.Errorf("rate(18, 22) = %v, want ~81.82", got)
	}
	if got := rate(5, 5); got != 100 {
		t.Errorf("rate(5, 5) = %v, want 100", got)
	}
}
