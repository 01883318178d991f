package graph

import (
	"math"
	"testing"
)

func approx(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}

func TestFrequencyDegreeScorer(t *testing.T) {
	s := NewFrequencyDegreeScorer()

	tests := []struct {
		name string
		in   ScoreInput
		want float64
	}{
		{"zero signals", ScoreInput{}, 0},
		{"max everything", ScoreInput{DocumentFrequency: 4, MaxDocumentFrequency: 4, WeightedDegree: 25, DegreeScale: 25}, 1},
		{"half df no degree", ScoreInput{DocumentFrequency: 2, MaxDocumentFrequency: 4}, 0.3},
		{"degree capped at scale", ScoreInput{WeightedDegree: 100, DegreeScale: 25}, 0.4},
		{"missing max reads as one", ScoreInput{DocumentFrequency: 1}, 0.6},
		{"blend", ScoreInput{DocumentFrequency: 3, MaxDocumentFrequency: 4, WeightedDegree: 5, DegreeScale: 25}, 0.6*0.75 + 0.4*0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Score(tt.in); !approx(got, tt.want) {
				t.Errorf("Score(%+v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMentionDegreeScorer(t *testing.T) {
	s := NewMentionDegreeScorer()

	tests := []struct {
		name string
		in   ScoreInput
		want float64
	}{
		{"zero signals", ScoreInput{}, 0},
		{"mentions capped", ScoreInput{MentionCount: 50, MaxMentionCount: 10}, 0.7},
		{"blend", ScoreInput{MentionCount: 5, MaxMentionCount: 10, WeightedDegree: 10, DegreeScale: 25}, 0.7*0.5 + 0.3*0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Score(tt.in); !approx(got, tt.want) {
				t.Errorf("Score(%+v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuckets(t *testing.T) {
	impTests := []struct {
		score float64
		want  string
	}{
		{0.95, "core"},
		{0.8, "core"},
		{0.79, "important"},
		{0.5, "important"},
		{0.49, "advanced"},
		{0, "advanced"},
	}
	for _, tt := range impTests {
		if got := ImportanceBucket(tt.score); got != tt.want {
			t.Errorf("ImportanceBucket(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}

	diffTests := []struct {
		level float64
		want  string
	}{
		{0.9, "hard"},
		{0.8, "hard"},
		{0.6, "medium"},
		{0.5, "medium"},
		{0.3, "easy"},
	}
	for _, tt := range diffTests {
		if got := DifficultyBucket(tt.level); got != tt.want {
			t.Errorf("DifficultyBucket(%v) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestDifficultyValueRoundTrips(t *testing.T) {
	for _, bucket := range []string{"easy", "medium", "hard"} {
		if got := DifficultyBucket(DifficultyValue(bucket)); got != bucket {
			t.Errorf("bucket %q maps to level %v which reads back as %q", bucket, DifficultyValue(bucket), got)
		}
	}
	if got := DifficultyValue("banana"); got != 0.6 {
		t.Errorf("unknown bucket should read as medium, got %v", got)
	}
}

func TestImportanceBucket1to5(t *testing.T) {
	tests := []struct {
		imp  int
		want string
	}{
		{5, "core"},
		{4, "important"},
		{3, "advanced"},
		{1, "advanced"},
	}
	for _, tt := range tests {
		if got := importanceBucket1to5(tt.imp); got != tt.want {
			t.Errorf("importanceBucket1to5(%d) = %q, want %q", tt.imp, got, tt.want)
		}
	}
}
