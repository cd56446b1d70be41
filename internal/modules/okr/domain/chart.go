package domain

const (
	LabelMaxRunes = 20
	LabelEllipsis = "..."

	// RecentHistoryLimit is how many history entries a key result view shows.
	RecentHistoryLimit = 5
)

type ChartEntry struct {
	Label          string
	FullLabel      string
	Progress       int
	KeyResultCount int
	Category       string
}

// ToChartData builds one entry per objective in input order. Consumers that
// map entries back to objectives must do so by position; two long titles can
// truncate to the same Label.
func ToChartData(objectives []Objective) []ChartEntry {
	out := make([]ChartEntry, 0, len(objectives))
	for _, o := range objectives {
		category := string(o.Category)
		if category == "" {
			category = UncategorizedLabel
		}
		out = append(out, ChartEntry{
			Label:          TruncateLabel(o.Title),
			FullLabel:      o.Title,
			Progress:       o.Progress(),
			KeyResultCount: len(o.KeyResults),
			Category:       category,
		})
	}
	return out
}

func TruncateLabel(title string) string {
	runes := []rune(title)
	if len(runes) <= LabelMaxRunes {
		return title
	}
	return string(runes[:LabelMaxRunes]) + LabelEllipsis
}

type Summary struct {
	Total           int
	AverageProgress int
	ByStatus        map[StatusBand]int
	ByCategory      map[string]int
}

func Summarize(objectives []Objective) Summary {
	s := Summary{
		Total:      len(objectives),
		ByStatus:   make(map[StatusBand]int, len(StatusBands)),
		ByCategory: make(map[string]int),
	}
	if len(objectives) == 0 {
		return s
	}
	total := 0
	for _, entry := range ToChartData(objectives) {
		total += entry.Progress
		s.ByStatus[Classify(entry.Progress)]++
		s.ByCategory[entry.Category]++
	}
	s.AverageProgress = roundHalfUp(float64(total) / float64(len(objectives)))
	return s
}

type KeyResultView struct {
	ID       string
	Title    string
	Current  float64
	Target   float64
	Progress int
	Status   StatusBand
	Done     bool
	// Recent holds up to RecentHistoryLimit entries, newest first.
	Recent []HistoryEntry
}

func KeyResultViews(o Objective) []KeyResultView {
	out := make([]KeyResultView, 0, len(o.KeyResults))
	for _, kr := range o.KeyResults {
		progress := KeyResultProgress(kr)
		out = append(out, KeyResultView{
			ID:       kr.ID,
			Title:    kr.Title,
			Current:  kr.Current,
			Target:   kr.Target,
			Progress: progress,
			Status:   Classify(progress),
			Done:     progress >= 100,
			Recent:   RecentHistory(kr, RecentHistoryLimit),
		})
	}
	return out
}

// RecentHistory returns the last n entries in reverse chronological order.
func RecentHistory(kr KeyResult, n int) []HistoryEntry {
	if n <= 0 || len(kr.History) == 0 {
		return nil
	}
	out := make([]HistoryEntry, 0, min(n, len(kr.History)))
	for i := len(kr.History) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, kr.History[i])
	}
	return out
}
