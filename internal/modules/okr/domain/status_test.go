package domain_test

import (
	"testing"

	"okr/internal/modules/okr/domain"
)

func TestClassifyBoundaries(t *testing.T) {
	t.Parallel()
	cases := map[int]domain.StatusBand{
		101: domain.StatusOverachieved,
		100: domain.StatusOnTrack,
		80:  domain.StatusOnTrack,
		79:  domain.StatusInProgress,
		50:  domain.StatusInProgress,
		49:  domain.StatusAtRisk,
		25:  domain.StatusAtRisk,
		24:  domain.StatusOffTrack,
		0:   domain.StatusOffTrack,
		-3:  domain.StatusOffTrack,
		500: domain.StatusOverachieved,
	}
	for progress, want := range cases {
		if got := domain.Classify(progress); got != want {
			t.Fatalf("Classify(%d) = %s, want %s", progress, got, want)
		}
	}
}

func TestFilterBandsAgreeWithClassify(t *testing.T) {
	t.Parallel()
	for progress := -10; progress <= 400; progress++ {
		badge := domain.Classify(progress)
		matched := 0
		for _, band := range domain.StatusBands {
			if band.Contains(progress) {
				matched++
				if band != badge {
					t.Fatalf("progress %d: filter band %s but badge %s", progress, band, badge)
				}
			}
		}
		if matched != 1 {
			t.Fatalf("progress %d matched %d bands", progress, matched)
		}
	}
}

func TestParseStatusBand(t *testing.T) {
	t.Parallel()
	cases := map[string]domain.StatusBand{
		"":             domain.StatusAll,
		"All":          domain.StatusAll,
		"On Track":     domain.StatusOnTrack,
		"on-track":     domain.StatusOnTrack,
		"IN_PROGRESS":  domain.StatusInProgress,
		"at risk":      domain.StatusAtRisk,
		"off-track":    domain.StatusOffTrack,
		"overachieved": domain.StatusOverachieved,
	}
	for raw, want := range cases {
		got, err := domain.ParseStatusBand(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse %q = %s, want %s", raw, got, want)
		}
	}
	if _, err := domain.ParseStatusBand("stalled"); err == nil {
		t.Fatalf("unknown status should fail")
	}
}
