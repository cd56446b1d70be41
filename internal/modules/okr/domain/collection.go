package domain

import (
	"fmt"
	"strings"

	apperrors "okr/internal/platform/errors"
)

// DefaultTarget replaces a missing or non-positive target on new key results.
const DefaultTarget = 100

// IDSource hands out identifiers for new objectives and key results.
type IDSource interface {
	New() string
}

// Collection is the ordered set of objectives persisted as one unit. Every
// mutation returns a new Collection and leaves the receiver untouched.
type Collection []Objective

func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	for i, o := range c {
		out[i] = o.clone()
	}
	return out
}

// IndexOf resolves ref to a position. An exact id wins; otherwise ref must be
// the prefix of exactly one id.
func (c Collection) IndexOf(ref string) (int, error) {
	return resolve(len(c), func(i int) string { return c[i].ID }, ref, "objective")
}

func (c Collection) Find(ref string) (Objective, error) {
	idx, err := c.IndexOf(ref)
	if err != nil {
		return Objective{}, err
	}
	return c[idx].clone(), nil
}

func (o Objective) KeyResultIndex(ref string) (int, error) {
	return resolve(len(o.KeyResults), func(i int) string { return o.KeyResults[i].ID }, ref, "key result")
}

func resolve(n int, idAt func(int) string, ref, kind string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, fmt.Errorf("%w: %s id is required", apperrors.ErrInvalidInput, kind)
	}
	for i := 0; i < n; i++ {
		if idAt(i) == ref {
			return i, nil
		}
	}
	match := -1
	for i := 0; i < n; i++ {
		if strings.HasPrefix(idAt(i), ref) {
			if match >= 0 {
				return -1, fmt.Errorf("%w: %s %q", apperrors.ErrAmbiguousID, kind, ref)
			}
			match = i
		}
	}
	if match < 0 {
		return -1, fmt.Errorf("%s %q: %w", kind, ref, apperrors.ErrNotFound)
	}
	return match, nil
}

// EnsureIDs assigns identifiers to entries that were persisted before
// identifiers existed. It reports whether anything changed.
func (c Collection) EnsureIDs(ids IDSource) (Collection, bool) {
	out := c.Clone()
	changed := false
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = ids.New()
			changed = true
		}
		for j := range out[i].KeyResults {
			if out[i].KeyResults[j].ID == "" {
				out[i].KeyResults[j].ID = ids.New()
				changed = true
			}
		}
	}
	return out, changed
}

// SaveObjective creates draft when it has no id and replaces the objective
// with the same id otherwise, keeping its position. A blank title rejects the
// draft and returns the receiver unchanged.
func (c Collection) SaveObjective(draft Objective, ids IDSource, today Date) (Collection, Objective, error) {
	obj := draft.clone()
	obj.Title = strings.TrimSpace(obj.Title)
	if obj.Title == "" {
		return c, Objective{}, fmt.Errorf("%w: objective title is required", apperrors.ErrInvalidInput)
	}
	if obj.Category == "" {
		obj.Category = DefaultCategory
	}
	if obj.StartDate.IsZero() && obj.EndDate.IsZero() && (obj.ID == "" || obj.Timeframe != TimeframeNone) {
		obj.StartDate, obj.EndDate = obj.Timeframe.Window(today)
	}
	for i := range obj.KeyResults {
		obj.KeyResults[i].Title = strings.TrimSpace(obj.KeyResults[i].Title)
		if obj.KeyResults[i].ID == "" {
			obj.KeyResults[i].ID = ids.New()
		}
	}
	if obj.KeyResults == nil {
		obj.KeyResults = []KeyResult{}
	}
	if err := obj.Validate(); err != nil {
		return c, Objective{}, err
	}

	if obj.ID == "" {
		obj.ID = ids.New()
		out := append(c.Clone(), obj)
		return out, obj.clone(), nil
	}
	for i := range c {
		if c[i].ID == obj.ID {
			out := c.Clone()
			out[i] = obj
			return out, obj.clone(), nil
		}
	}
	return c, Objective{}, fmt.Errorf("objective %q: %w", obj.ID, apperrors.ErrNotFound)
}

// DeleteObjective removes the objective; later objectives move up one place.
func (c Collection) DeleteObjective(ref string) (Collection, Objective, error) {
	idx, err := c.IndexOf(ref)
	if err != nil {
		return c, Objective{}, err
	}
	removed := c[idx].clone()
	out := make(Collection, 0, len(c)-1)
	for i, o := range c {
		if i != idx {
			out = append(out, o.clone())
		}
	}
	return out, removed, nil
}

func (c Collection) AddKeyResult(objRef string, kr KeyResult, ids IDSource) (Collection, KeyResult, error) {
	idx, err := c.IndexOf(objRef)
	if err != nil {
		return c, KeyResult{}, err
	}
	kr = kr.clone()
	kr.Title = strings.TrimSpace(kr.Title)
	if err := kr.Validate(); err != nil {
		return c, KeyResult{}, err
	}
	if kr.Target <= 0 {
		kr.Target = DefaultTarget
	}
	if kr.Current < 0 {
		kr.Current = 0
	}
	kr.ID = ids.New()

	out := c.Clone()
	out[idx].KeyResults = append(out[idx].KeyResults, kr)
	return out, kr.clone(), nil
}

func (c Collection) RemoveKeyResult(objRef, krRef string) (Collection, KeyResult, error) {
	idx, err := c.IndexOf(objRef)
	if err != nil {
		return c, KeyResult{}, err
	}
	krIdx, err := c[idx].KeyResultIndex(krRef)
	if err != nil {
		return c, KeyResult{}, err
	}
	out := c.Clone()
	removed := out[idx].KeyResults[krIdx]
	krs := out[idx].KeyResults
	out[idx].KeyResults = append(krs[:krIdx:krIdx], krs[krIdx+1:]...)
	return out, removed, nil
}

// UpdateKeyResultProgress coerces raw to a non-negative integer, stores it as
// the current value and appends a history entry for today. The entry is
// appended on every call, even when the value is unchanged. When
// historyLimit is positive only the newest historyLimit entries are kept.
func (c Collection) UpdateKeyResultProgress(objRef, krRef, raw string, today Date, historyLimit int) (Collection, KeyResult, error) {
	idx, err := c.IndexOf(objRef)
	if err != nil {
		return c, KeyResult{}, err
	}
	krIdx, err := c[idx].KeyResultIndex(krRef)
	if err != nil {
		return c, KeyResult{}, err
	}
	value := float64(max(0, CoerceInt(raw)))

	out := c.Clone()
	kr := &out[idx].KeyResults[krIdx]
	kr.Current = value
	kr.History = append(kr.History, HistoryEntry{Date: today, Value: value})
	if historyLimit > 0 && len(kr.History) > historyLimit {
		kr.History = append([]HistoryEntry(nil), kr.History[len(kr.History)-historyLimit:]...)
	}
	return out, kr.clone(), nil
}

const maxCoerceDigits = 15

// CoerceInt reads an optionally signed run of leading decimal digits after
// any leading whitespace, the way form inputs are read. Anything else,
// including an empty string, is 0.
func CoerceInt(raw string) int {
	s := strings.TrimLeft(raw, " \t\n\r\f\v")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n := 0
	digits := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		if digits == maxCoerceDigits {
			break
		}
		n = n*10 + int(r-'0')
		digits++
	}
	if digits == 0 {
		return 0
	}
	if neg {
		return -n
	}
	return n
}
