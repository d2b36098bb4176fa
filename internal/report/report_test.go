package report_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"wordcore/internal/report"
	"wordcore/internal/services"
	"wordcore/internal/store"
	"wordcore/internal/testsupport"
)

var now = time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

func addReview(t *testing.T, st *store.Store, wordID int64, daysAgo int, result store.ReviewResult, mode store.ReviewMode, errType store.ErrorType) {
	t.Helper()
	ctx := context.Background()
	err := st.InTx(ctx, func(tx *store.Tx) error {
		_, err := tx.InsertReview(ctx, store.Review{
			WordID:    wordID,
			ReviewAt:  now.Add(-time.Duration(daysAgo) * 24 * time.Hour),
			Result:    result,
			Mode:      mode,
			ErrorType: errType,
		})
		return err
	})
	if err != nil {
		t.Fatalf("insert review: %v", err)
	}
}

func TestWeeklyReportAndExport(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	clock := testsupport.NewClock(now.Add(-time.Hour))
	st.SetClock(clock.Now)
	child := testsupport.MustCreateUser(t, st, store.RoleChild, "Mia")
	museum := testsupport.MustCreateWord(t, st, child.ID, "museum")
	library := testsupport.MustCreateWord(t, st, child.ID, "library")
	student := testsupport.MustCreateWord(t, st, child.ID, "student")
	clock.Advance(30 * time.Minute)
	if _, err := st.UpdateStatus(context.Background(), student.ID, store.StatusMastered, store.SRSState{}); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	addReview(t, st, museum.ID, 1, store.ResultFail, store.ModeSpelling, store.ErrorSpelling)
	addReview(t, st, museum.ID, 2, store.ResultPass, store.ModeSpelling, "")
	addReview(t, st, library.ID, 1, store.ResultPass, store.ModeMatch, "")
	addReview(t, st, student.ID, 3, store.ResultFail, store.ModeMeaning, store.ErrorMeaning)
	addReview(t, st, museum.ID, 10, store.ResultFail, store.ModeCloze, store.ErrorConfusion)

	r := report.New(st)
	weekly, err := r.WeeklyReport(context.Background(), child.ID, now)
	if err != nil {
		t.Fatalf("WeeklyReport: %v", err)
	}
	if weekly.Reviews != 4 || weekly.Passes != 2 || weekly.Fails != 2 || weekly.Accuracy != 0.5 {
		t.Fatalf("unexpected totals %+v", weekly)
	}
	if weekly.StudyDays != 3 || weekly.NewWords != 3 || weekly.MasteredWords != 1 {
		t.Fatalf("unexpected counts days=%d new=%d mastered=%d", weekly.StudyDays, weekly.NewWords, weekly.MasteredWords)
	}
	if weekly.Suggestion.DailyNewLimit != 4 || weekly.Suggestion.Split != "Review 75% / New 25%" {
		t.Fatalf("unexpected suggestion %+v", weekly.Suggestion)
	}
	if !reflect.DeepEqual(weekly.FocusWords, []string{"museum", "library"}) {
		t.Fatalf("unexpected focus words %v", weekly.FocusWords)
	}
	if len(weekly.Practice) != 2 || weekly.Practice[0].Lemma != "museum" || weekly.Practice[0].SpellingTotal != 2 {
		t.Fatalf("unexpected practice stats %+v", weekly.Practice)
	}

	mistakes, err := r.Mistakes(context.Background(), child.ID, 0)
	if err != nil {
		t.Fatalf("Mistakes: %v", err)
	}
	if len(mistakes) != 2 || mistakes[0].Lemma != "museum" || mistakes[0].FailCount != 2 ||
		mistakes[0].SpellingErrors != 1 || mistakes[0].ConfusionErrors != 1 {
		t.Fatalf("unexpected mistakes %+v", mistakes)
	}

	export, err := r.Export(context.Background(), child.ID)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(export) != 3 || export[0].Lemma != "student" {
		t.Fatalf("expected most recently updated word first, got %+v", export)
	}
	for _, entry := range export {
		if entry.Lemma == "museum" && (entry.TotalReviews != 3 || entry.PassReviews != 1 || entry.Accuracy != 0.333) {
			t.Fatalf("unexpected museum export %+v", entry)
		}
	}
}

func TestWeeklyReportEmpty(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	child := testsupport.MustCreateUser(t, st, store.RoleChild, "Mia")

	weekly, err := report.New(st).WeeklyReport(context.Background(), child.ID, now)
	if err != nil {
		t.Fatalf("WeeklyReport: %v", err)
	}
	if weekly.Reviews != 0 || weekly.Accuracy != 0 || len(weekly.FocusWords) != 0 {
		t.Fatalf("expected empty report, got %+v", weekly)
	}
	if _, err := report.New(st).Export(context.Background(), 404); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSuggest(t *testing.T) {
	cases := map[float64]int{0: 4, 0.649: 4, 0.65: 6, 0.799: 6, 0.8: 8, 1: 8}
	for accuracy, want := range cases {
		if got := report.Suggest(accuracy).DailyNewLimit; got != want {
			t.Errorf("Suggest(%v) = %d, want %d", accuracy, got, want)
		}
	}
}
