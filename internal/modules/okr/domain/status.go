package domain

import (
	"fmt"
	"strings"

	apperrors "okr/internal/platform/errors"
)

type StatusBand string

const (
	StatusOverachieved StatusBand = "Overachieved"
	StatusOnTrack      StatusBand = "On Track"
	StatusInProgress   StatusBand = "In Progress"
	StatusAtRisk       StatusBand = "At Risk"
	StatusOffTrack     StatusBand = "Off Track"

	// StatusAll is the filter wildcard.
	StatusAll StatusBand = "All"
)

// StatusBands lists the bands in filter menu order.
var StatusBands = []StatusBand{StatusOnTrack, StatusInProgress, StatusAtRisk, StatusOffTrack, StatusOverachieved}

// Classify maps a progress percentage to its band; first match wins.
func Classify(progress int) StatusBand {
	switch {
	case progress > 100:
		return StatusOverachieved
	case progress >= 80:
		return StatusOnTrack
	case progress >= 50:
		return StatusInProgress
	case progress >= 25:
		return StatusAtRisk
	default:
		return StatusOffTrack
	}
}

// Contains is the status filter predicate. On Track is bounded to [80,100]
// here, which is the same set Classify yields because the Overachieved branch
// is tested first.
func (b StatusBand) Contains(progress int) bool {
	switch b {
	case StatusOverachieved:
		return progress > 100
	case StatusOnTrack:
		return progress >= 80 && progress <= 100
	case StatusInProgress:
		return progress >= 50 && progress < 80
	case StatusAtRisk:
		return progress >= 25 && progress < 50
	case StatusOffTrack:
		return progress < 25
	case StatusAll, "":
		return true
	default:
		return false
	}
}

// ParseStatusBand accepts display labels ("On Track") as well as
// "on-track" and "on_track". Empty input is the wildcard.
func ParseStatusBand(raw string) (StatusBand, error) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	norm = strings.NewReplacer("-", " ", "_", " ").Replace(norm)
	if norm == "" || norm == "all" {
		return StatusAll, nil
	}
	for _, band := range StatusBands {
		if norm == strings.ToLower(string(band)) {
			return band, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported status %q", apperrors.ErrInvalidInput, raw)
}
