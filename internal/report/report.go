package report

import (
	"context"
	"math"
	"sort"
	"time"

	"wordcore/internal/store"
)

const (
	weekWindow      = 7 * 24 * time.Hour
	focusWordCount  = 5
	defaultMistakes = 20
)

// Suggestion is the recommended balance for the coming week.
type Suggestion struct {
	DailyNewLimit int    `json:"daily_new_limit"`
	Split         string `json:"split"`
}

// Weekly summarizes the seven days ending at GeneratedAt.
type Weekly struct {
	UserID        int64                `json:"user_id"`
	WindowStart   time.Time            `json:"window_start"`
	GeneratedAt   time.Time            `json:"generated_at"`
	Reviews       int                  `json:"reviews"`
	Passes        int                  `json:"passes"`
	Fails         int                  `json:"fails"`
	Accuracy      float64              `json:"accuracy"`
	NewWords      int                  `json:"new_words"`
	MasteredWords int                  `json:"mastered_words"`
	StudyDays     int                  `json:"study_days"`
	Practice      []store.PracticeStat `json:"practice"`
	Mistakes      []store.Mistake      `json:"mistakes"`
	Suggestion    Suggestion           `json:"suggestion"`
	FocusWords    []string             `json:"focus_words"`
}

// ExportEntry is one exported word.
type ExportEntry struct {
	store.ExportRow
	Accuracy float64 `json:"accuracy"`
}

// Reporter reads report data from the store.
type Reporter struct {
	store *store.Store
}

// New returns a reporter over st.
func New(st *store.Store) *Reporter {
	return &Reporter{store: st}
}

// WeeklyReport summarizes the seven days before now.
func (r *Reporter) WeeklyReport(ctx context.Context, userID int64, now time.Time) (*Weekly, error) {
	if _, err := r.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	now = now.UTC()
	since := now.Add(-weekWindow)

	totals, err := r.store.ReviewTotalsSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	newWords, err := r.store.CountWordsCreatedSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	mastered, err := r.store.CountWords(ctx, userID, store.StatusMastered)
	if err != nil {
		return nil, err
	}
	practice, err := r.store.PracticeStatsSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	mistakes, err := r.store.ListMistakes(ctx, userID, defaultMistakes)
	if err != nil {
		return nil, err
	}

	accuracy := ratio(totals.PassCount, totals.ReviewCount)
	weekly := &Weekly{
		UserID:        userID,
		WindowStart:   since,
		GeneratedAt:   now,
		Reviews:       totals.ReviewCount,
		Passes:        totals.PassCount,
		Fails:         totals.FailCount,
		Accuracy:      accuracy,
		NewWords:      newWords,
		MasteredWords: mastered,
		StudyDays:     totals.StudyDays,
		Practice:      practice,
		Mistakes:      mistakes,
		Suggestion:    Suggest(accuracy),
	}

	weekly.FocusWords = focusFromPractice(practice)
	if len(weekly.FocusWords) == 0 {
		for _, m := range mistakes[:min(len(mistakes), focusWordCount)] {
			weekly.FocusWords = append(weekly.FocusWords, m.Lemma)
		}
	}
	return weekly, nil
}

// Mistakes returns FAIL counts per lemma, most failed first.
func (r *Reporter) Mistakes(ctx context.Context, userID int64, limit int) ([]store.Mistake, error) {
	if _, err := r.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultMistakes
	}
	return r.store.ListMistakes(ctx, userID, limit)
}

// Export returns every word of the user with its schedule and accuracy.
func (r *Reporter) Export(ctx context.Context, userID int64) ([]ExportEntry, error) {
	if _, err := r.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	rows, err := r.store.ExportWords(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]ExportEntry, len(rows))
	for i, row := range rows {
		out[i] = ExportEntry{ExportRow: row, Accuracy: ratio(row.PassReviews, row.TotalReviews)}
	}
	return out, nil
}

// Suggest maps weekly accuracy to next week's new-word limit and split.
func Suggest(accuracy float64) Suggestion {
	switch {
	case accuracy < 0.65:
		return Suggestion{DailyNewLimit: 4, Split: "Review 75% / New 25%"}
	case accuracy < 0.8:
		return Suggestion{DailyNewLimit: 6, Split: "Review 65% / New 35%"}
	default:
		return Suggestion{DailyNewLimit: 8, Split: "Review 55% / New 45%"}
	}
}

// focusFromPractice picks the lowest-accuracy practised words.
func focusFromPractice(practice []store.PracticeStat) []string {
	if len(practice) == 0 {
		return nil
	}
	ranked := make([]store.PracticeStat, len(practice))
	copy(ranked, practice)
	sort.SliceStable(ranked, func(i, j int) bool {
		ai := ratio(ranked[i].CorrectCount, ranked[i].PracticeTotal)
		aj := ratio(ranked[j].CorrectCount, ranked[j].PracticeTotal)
		if ai != aj {
			return ai < aj
		}
		return ranked[i].PracticeTotal > ranked[j].PracticeTotal
	})
	out := make([]string, 0, focusWordCount)
	for _, stat := range ranked {
		out = append(out, stat.Lemma)
		if len(out) == focusWordCount {
			break
		}
	}
	return out
}

func ratio(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 1000
}
