package store_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"wordcore/internal/policy"
	"wordcore/internal/services"
	"wordcore/internal/store"
	"wordcore/internal/testsupport"
)

func openWithClock(t *testing.T) (*store.Store, *testsupport.FixedClock) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	clock := testsupport.NewClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	st.SetClock(clock.Now)
	return st, clock
}

func TestCreateWordDefaultsAndLookup(t *testing.T) {
	st, _ := openWithClock(t)
	ctx := context.Background()
	child := testsupport.MustCreateUser(t, st, store.RoleChild, "Mia")

	word, err := st.CreateWord(ctx, store.NewWord{
		UserID:    child.ID,
		Lemma:     "apple",
		MeaningZH: []string{"苹果"},
		Tags:      []string{"fruit", "unit1"},
	})
	if err != nil {
		t.Fatalf("CreateWord failed: %v", err)
	}
	if word.Status != store.StatusNew {
		t.Fatalf("expected NEW status, got %s", word.Status)
	}
	if word.Surface != "apple" {
		t.Fatalf("expected surface to default to lemma, got %q", word.Surface)
	}
	if len(word.Tags) != 2 || word.Tags[1] != "unit1" {
		t.Fatalf("unexpected tags: %v", word.Tags)
	}
	if len(word.MeaningEN) != 0 {
		t.Fatalf("expected empty english meanings, got %v", word.MeaningEN)
	}

	found, err := st.GetWordByLemma(ctx, child.ID, "apple")
	if err != nil {
		t.Fatalf("GetWordByLemma failed: %v", err)
	}
	if found == nil || found.ID != word.ID {
		t.Fatalf("expected lookup to return %d, got %#v", word.ID, found)
	}

	missing, err := st.GetWordByLemma(ctx, child.ID, "pear")
	if err != nil {
		t.Fatalf("GetWordByLemma missing failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown lemma, got %#v", missing)
	}
}

func TestCreateWordRejectsDuplicateLemma(t *testing.T) {
	st, _ := openWithClock(t)
	ctx := context.Background()
	child := testsupport.MustCreateUser(t, st, store.RoleChild, "Mia")
	other := testsupport.MustCreateUser(t, st, store.RoleChild, "Leo")
	testsupport.MustCreateWord(t, st, child.ID, "apple")

	_, err := st.CreateWord(ctx, store.NewWord{UserID: child.ID, Lemma: "apple"})
	if !errors.Is(err, services.ErrDuplicateLemma) {
		t.Fatalf("expected ErrDuplicateLemma, got %v", err)
	}

	if _, err := st.CreateWord(ctx, store.NewWord{UserID: other.ID, Lemma: "apple"}); err != nil {
		t.Fatalf("expected lemma to be unique per user only: %v", err)
	}
}

func TestCreateWordUnknownUser(t *testing.T) {
	st, _ := openWithClock(t)
	_, err := st.CreateWord(context.Background(), store.NewWord{UserID: 999, Lemma: "ghost"})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListWordsFiltersByStatus(t *testing.T) {
	st, clock := openWithClock(t)
	ctx := context.Background()
	child := testsupport.MustCreateUser(t, st, store.RoleChild, "Mia")

	testsupport.MustCreateWord(t, st, child.ID, "alpha")
	clock.Advance(time.Minute)
	b := testsupport.MustCreateWord(t, st, child.ID, "beta")
	clock.Advance(time.Minute)
	testsupport.MustCreateWord(t, st, child.ID, "gamma")

	if _, err := st.UpdateStatus(ctx, b.ID, store.StatusSuspended, store.SRSState{Ease: 2.5, IntervalDays: 1}); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	all, err := st.ListWords(ctx, child.ID, store.WordFilter{})
	if err != nil {
		t.Fatalf("ListWords failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 words, got %d", len(all))
	}

	suspended, err := st.ListWords(ctx, child.ID, store.WordFilter{Statuses: []store.WordStatus{store.StatusSuspended}})
	if err != nil {
		t.Fatalf("ListWords filtered failed: %v", err)
	}
	if len(suspended) != 1 || suspended[0].ID != b.ID {
		t.Fatalf("unexpected filtered words: %#v", suspended)
	}

	count, err := st.CountWords(ctx, child.ID, store.StatusNew)
	if err != nil {
		t.Fatalf("CountWords failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 NEW words, got %d", count)
	}
}

func TestUpdateStatusSeedsSchedule(t *testing.T) {
	st, clock := openWithClock(t)
	ctx := context.Background()
	child := testsupport.MustCreateUser(t, st, store.RoleChild, "Mia")
	word := testsupport.MustCreateWord(t, st, child.ID, "river")

	updated, err := st.UpdateStatus(ctx, word.ID, store.StatusLearning, store.SRSState{Ease: 2.5, IntervalDays: 1})
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if updated.Status != store.StatusLearning {
		t.Fatalf("expected LEARNING, got %s", updated.Status)
	}
	state, err := st.GetSRSState(ctx, word.ID)
	if err != nil {
		t.Fatalf("GetSRSState failed: %v", err)
	}
	if state == nil || state.NextReviewAt == nil {
		t.Fatalf("expected seeded schedule, got %#v", state)
	}
	if !state.NextReviewAt.Equal(clock.Now()) {
		t.Fatalf("expected next review at %s, got %s", clock.Now(), state.NextReviewAt)
	}

	if _, err := st.UpdateStatus(ctx, word.ID, store.WordStatus("BOGUS"), store.SRSState{}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := st.UpdateStatus(ctx, 999, store.StatusMastered, store.SRSState{}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateLearningFieldsSanitizes(t *testing.T) {
	st, clock := openWithClock(t)
	ctx := context.Background()
	child := testsupport.MustCreateUser(t, st, store.RoleChild, "Mia")
	word := testsupport.MustCreateWord(t, st, child.ID, "orbit", "space")

	clock.Advance(time.Hour)
	phonetic := " /ˈɔːbɪt/ "
	updated, err := st.UpdateLearningFields(ctx, word.ID, store.LearningFields{
		Phonetic:  &phonetic,
		MeaningEN: []string{"  a  curved path ", "A curved path", "", "b", "c", "d", "e", "f", "g"},
	})
	if err != nil {
		t.Fatalf("UpdateLearningFields failed: %v", err)
	}
	if updated.Phonetic != "/ˈɔːbɪt/" {
		t.Fatalf("expected trimmed phonetic, got %q", updated.Phonetic)
	}
	want := []string{"a curved path", "b", "c", "d", "e", "f"}
	if len(updated.MeaningEN) != len(want) {
		t.Fatalf("expected %v, got %v", want, updated.MeaningEN)
	}
	for i := range want {
		if updated.MeaningEN[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, updated.MeaningEN)
		}
	}
	if len(updated.Tags) != 1 || updated.Tags[0] != "space" {
		t.Fatalf("expected nil tags to be left unchanged, got %v", updated.Tags)
	}
	if !updated.UpdatedAt.After(word.UpdatedAt) {
		t.Fatalf("expected updated_at to advance")
	}

	if _, err := st.UpdateLearningFields(ctx, 9999, store.LearningFields{Phonetic: &phonetic}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown word, got %v", err)
	}
}

func TestRenameWordDetectsCollision(t *testing.T) {
	st, _ := openWithClock(t)
	ctx := context.Background()
	child := testsupport.MustCreateUser(t, st, store.RoleChild, "Mia")
	word := testsupport.MustCreateWord(t, st, child.ID, "recieve")
	testsupport.MustCreateWord(t, st, child.ID, "believe")

	var updated *store.Word
	err := st.InTx(ctx, func(tx *store.Tx) error {
		var err error
		updated, err = tx.RenameWord(ctx, word.ID, " Receive ", "")
		return err
	})
	if err != nil {
		t.Fatalf("RenameWord failed: %v", err)
	}
	if updated.Lemma != "receive" || updated.Surface != "receive" {
		t.Fatalf("unexpected renamed word: %#v", updated)
	}

	err = st.InTx(ctx, func(tx *store.Tx) error {
		_, err := tx.RenameWord(ctx, word.ID, "believe", "")
		return err
	})
	if !errors.Is(err, services.ErrLemmaCollision) {
		t.Fatalf("expected lemma collision, got %v", err)
	}
	got, err := st.GetWord(ctx, word.ID)
	if err != nil {
		t.Fatalf("GetWord failed: %v", err)
	}
	if got.Lemma != "receive" {
		t.Fatalf("collision must leave the word unchanged, got %q", got.Lemma)
	}
}

func TestDeleteWordCascades(t *testing.T) {
	st, clock := openWithClock(t)
	ctx := context.Background()
	child := testsupport.MustCreateUser(t, st, store.RoleChild, "Mia")
	other := testsupport.MustCreateUser(t, st, store.RoleChild, "Leo")
	word := testsupport.MustCreateWord(t, st, child.ID, "cloud")

	err := st.InTx(ctx, func(tx *store.Tx) error {
		next := clock.Now().Add(24 * time.Hour)
		if err := tx.UpsertSRSState(ctx, store.SRSState{WordID: word.ID, NextReviewAt: &next, Ease: 2.6, IntervalDays: 1, Streak: 1}); err != nil {
			return err
		}
		_, err := tx.InsertReview(ctx, store.Review{WordID: word.ID, ReviewAt: clock.Now(), Result: store.ResultPass, Mode: store.ModeMeaning})
		return err
	})
	if err != nil {
		t.Fatalf("InTx failed: %v", err)
	}

	if _, err := st.DeleteWord(ctx, other.ID, word.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected foreign owner to get not found, got %v", err)
	}
	deleted, err := st.DeleteWord(ctx, child.ID, word.ID)
	if err != nil {
		t.Fatalf("DeleteWord failed: %v", err)
	}
	if deleted.Lemma != "cloud" {
		t.Fatalf("unexpected deleted word: %#v", deleted)
	}
	state, err := st.GetSRSState(ctx, word.ID)
	if err != nil {
		t.Fatalf("GetSRSState failed: %v", err)
	}
	if state != nil {
		t.Fatalf("expected srs state removed, got %#v", state)
	}
	reviews, err := st.ListReviews(ctx, word.ID, 0)
	if err != nil {
		t.Fatalf("ListReviews failed: %v", err)
	}
	if len(reviews) != 0 {
		t.Fatalf("expected reviews removed, got %d", len(reviews))
	}
}

func TestInTxRollsBackOnError(t *testing.T) {
	st, _ := openWithClock(t)
	ctx := context.Background()
	child := testsupport.MustCreateUser(t, st, store.RoleChild, "Mia")

	boom := errors.New("boom")
	err := st.InTx(ctx, func(tx *store.Tx) error {
		if _, err := tx.CreateWord(ctx, store.NewWord{UserID: child.ID, Lemma: "orphan"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
	found, err := st.GetWordByLemma(ctx, child.ID, "orphan")
	if err != nil {
		t.Fatalf("GetWordByLemma failed: %v", err)
	}
	if found != nil {
		t.Fatal("expected rollback to discard the word")
	}
}

func TestDueAndNewCandidates(t *testing.T) {
	st, clock := openWithClock(t)
	ctx := context.Background()
	child := testsupport.MustCreateUser(t, st, store.RoleChild, "Mia")
	due := testsupport.MustCreateWord(t, st, child.ID, "due")
	later := testsupport.MustCreateWord(t, st, child.ID, "later")
	suspended := testsupport.MustCreateWord(t, st, child.ID, "paused")
	clock.Advance(time.Second)
	fresh := testsupport.MustCreateWord(t, st, child.ID, "fresh")

	now := clock.Now()
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)
	err := st.InTx(ctx, func(tx *store.Tx) error {
		for _, entry := range []struct {
			id   int64
			next time.Time
		}{{due.ID, past}, {later.ID, future}, {suspended.ID, past}} {
			next := entry.next
			if err := tx.UpsertSRSState(ctx, store.SRSState{WordID: entry.id, NextReviewAt: &next, Ease: 2.5, IntervalDays: 1}); err != nil {
				return err
			}
			if err := tx.SetWordStatus(ctx, entry.id, store.StatusLearning); err != nil {
				return err
			}
		}
		if err := tx.SetWordStatus(ctx, suspended.ID, store.StatusSuspended); err != nil {
			return err
		}
		_, err := tx.InsertReview(ctx, store.Review{WordID: due.ID, ReviewAt: now.Add(-time.Hour), Result: store.ResultFail, Mode: store.ModeSpelling, ErrorType: store.ErrorSpelling})
		return err
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	candidates, err := st.DueCandidates(ctx, child.ID, now, now.Add(-14*24*time.Hour))
	if err != nil {
		t.Fatalf("DueCandidates failed: %v", err)
	}
	if len(candidates) != 1 || candidates[0].Word.ID != due.ID {
		t.Fatalf("expected only the due word, got %#v", candidates)
	}
	if candidates[0].RecentFails != 1 {
		t.Fatalf("expected 1 recent fail, got %d", candidates[0].RecentFails)
	}

	newWords, err := st.NewWordCandidates(ctx, child.ID, 10)
	if err != nil {
		t.Fatalf("NewWordCandidates failed: %v", err)
	}
	if len(newWords) != 1 || newWords[0].ID != fresh.ID {
		t.Fatalf("expected only the fresh word, got %#v", newWords)
	}
}

func TestStageImportAndCommitTransitions(t *testing.T) {
	st, _ := openWithClock(t)
	ctx := context.Background()
	child := testsupport.MustCreateUser(t, st, store.RoleChild, "Mia")

	batch, items, err := st.StageImport(ctx, store.NewImport{
		UserID:       child.ID,
		SourceName:   "unit1.txt",
		ImporterRole: store.RoleParent,
		Tags:         []string{"unit1"},
	}, []store.NewImportItem{
		{WordCandidate: "apple", SuggestedCorrection: "apple", Confidence: 0.99},
		{WordCandidate: "recieve", SuggestedCorrection: "receive", Confidence: 0.84, NeedsConfirmation: true},
	})
	if err != nil {
		t.Fatalf("StageImport failed: %v", err)
	}
	if batch.Status != store.ImportStaged || len(items) != 2 {
		t.Fatalf("unexpected staged batch: %#v %#v", batch, items)
	}
	if items[0].Accepted != nil {
		t.Fatal("expected staged items to be undecided")
	}

	err = st.InTx(ctx, func(tx *store.Tx) error {
		if err := tx.RecordItemDecision(ctx, store.ItemDecision{ItemID: items[0].ID, Accepted: true, FinalLemma: "apple"}); err != nil {
			return err
		}
		if err := tx.RecordItemDecision(ctx, store.ItemDecision{ItemID: items[1].ID, Accepted: false}); err != nil {
			return err
		}
		return tx.MarkImportCommitted(ctx, batch.ID)
	})
	if err != nil {
		t.Fatalf("commit transaction failed: %v", err)
	}

	committed, err := st.GetImport(ctx, batch.ID)
	if err != nil {
		t.Fatalf("GetImport failed: %v", err)
	}
	if committed.Status != store.ImportCommitted || committed.CommittedAt == nil {
		t.Fatalf("expected committed batch, got %#v", committed)
	}

	err = st.InTx(ctx, func(tx *store.Tx) error {
		return tx.MarkImportCommitted(ctx, batch.ID)
	})
	if !errors.Is(err, services.ErrInvalidBatch) {
		t.Fatalf("expected second commit to fail with ErrInvalidBatch, got %v", err)
	}

	if _, err := st.GetImport(ctx, 999); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found for unknown batch, got %v", err)
	}
}

func TestStageImportRejectsBadConfidence(t *testing.T) {
	st, _ := openWithClock(t)
	child := testsupport.MustCreateUser(t, st, store.RoleChild, "Mia")
	_, _, err := st.StageImport(context.Background(), store.NewImport{UserID: child.ID, ImporterRole: store.RoleChild},
		[]store.NewImportItem{{WordCandidate: "x", Confidence: 1.5}})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParentSettingsRoundTrip(t *testing.T) {
	st, _ := openWithClock(t)
	ctx := context.Background()
	child := testsupport.MustCreateUser(t, st, store.RoleChild, "Mia")

	none, err := st.GetParentSettings(ctx, child.ID)
	if err != nil {
		t.Fatalf("GetParentSettings failed: %v", err)
	}
	if none != nil {
		t.Fatalf("expected no settings row, got %#v", none)
	}

	saved, err := st.SaveParentSettings(ctx, child.ID, policy.Settings{
		DailyNewLimit:                 99,
		DailyReviewLimit:              0,
		CorrectionAutoAcceptThreshold: 0.876,
		OCRStrength:                   "fast",
	})
	if err != nil {
		t.Fatalf("SaveParentSettings failed: %v", err)
	}
	if saved.DailyNewLimit != 40 || saved.DailyReviewLimit != 1 {
		t.Fatalf("expected clamped limits, got %#v", saved)
	}
	if saved.CorrectionAutoAcceptThreshold != 0.88 || saved.OCRStrength != policy.OCRFast {
		t.Fatalf("unexpected normalized settings: %#v", saved)
	}

	loaded, err := st.GetParentSettings(ctx, child.ID)
	if err != nil {
		t.Fatalf("GetParentSettings failed: %v", err)
	}
	if loaded == nil || *loaded != *saved {
		t.Fatalf("expected stored settings %#v, got %#v", saved, loaded)
	}

	if _, err := st.SaveParentSettings(ctx, 999, policy.Defaults()); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found for unknown child, got %v", err)
	}
}

func TestRecordCardVersions(t *testing.T) {
	st, _ := openWithClock(t)
	ctx := context.Background()
	child := testsupport.MustCreateUser(t, st, store.RoleChild, "Mia")
	word := testsupport.MustCreateWord(t, st, child.ID, "tree")

	first, err := st.RecordCard(ctx, store.Card{WordID: word.ID, Type: "image", Path: "/cards/tree-1.png"})
	if err != nil {
		t.Fatalf("RecordCard failed: %v", err)
	}
	second, err := st.RecordCard(ctx, store.Card{WordID: word.ID, Type: "IMAGE", Path: "/cards/tree-2.png"})
	if err != nil {
		t.Fatalf("RecordCard failed: %v", err)
	}
	if first.Version != 1 || second.Version != 2 {
		t.Fatalf("expected versions 1 and 2, got %d and %d", first.Version, second.Version)
	}
	latest, err := st.LatestCard(ctx, word.ID, "image")
	if err != nil {
		t.Fatalf("LatestCard failed: %v", err)
	}
	if latest == nil || latest.Path != "/cards/tree-2.png" {
		t.Fatalf("unexpected latest card: %#v", latest)
	}
}

func TestReportQueries(t *testing.T) {
	st, clock := openWithClock(t)
	ctx := context.Background()
	child := testsupport.MustCreateUser(t, st, store.RoleChild, "Mia")
	apple := testsupport.MustCreateWord(t, st, child.ID, "apple")
	clock.Advance(time.Minute)
	river := testsupport.MustCreateWord(t, st, child.ID, "river")

	now := clock.Now()
	err := st.InTx(ctx, func(tx *store.Tx) error {
		reviews := []store.Review{
			{WordID: apple.ID, ReviewAt: now.Add(-48 * time.Hour), Result: store.ResultFail, Mode: store.ModeSpelling, ErrorType: store.ErrorSpelling},
			{WordID: apple.ID, ReviewAt: now.Add(-24 * time.Hour), Result: store.ResultPass, Mode: store.ModeSpelling},
			{WordID: river.ID, ReviewAt: now.Add(-time.Hour), Result: store.ResultFail, Mode: store.ModeMeaning, ErrorType: store.ErrorMeaning},
			{WordID: river.ID, ReviewAt: now.Add(-30 * time.Minute), Result: store.ResultFail, Mode: store.ModeMatch, ErrorType: store.ErrorConfusion},
		}
		for _, review := range reviews {
			if _, err := tx.InsertReview(ctx, review); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed reviews failed: %v", err)
	}

	since := now.Add(-7 * 24 * time.Hour)
	totals, err := st.ReviewTotalsSince(ctx, child.ID, since)
	if err != nil {
		t.Fatalf("ReviewTotalsSince failed: %v", err)
	}
	if totals.ReviewCount != 4 || totals.PassCount != 1 || totals.FailCount != 3 {
		t.Fatalf("unexpected totals: %#v", totals)
	}
	if totals.StudyDays != 3 {
		t.Fatalf("expected 3 distinct study days, got %d", totals.StudyDays)
	}

	mistakes, err := st.ListMistakes(ctx, child.ID, 20)
	if err != nil {
		t.Fatalf("ListMistakes failed: %v", err)
	}
	if len(mistakes) != 2 || mistakes[0].Lemma != "river" || mistakes[0].FailCount != 2 {
		t.Fatalf("unexpected mistakes: %#v", mistakes)
	}
	if mistakes[0].MeaningErrors != 1 || mistakes[0].ConfusionErrors != 1 {
		t.Fatalf("unexpected river error breakdown: %#v", mistakes[0])
	}

	stats, err := st.PracticeStatsSince(ctx, child.ID, since)
	if err != nil {
		t.Fatalf("PracticeStatsSince failed: %v", err)
	}
	if len(stats) != 2 || stats[0].Lemma != "apple" || stats[0].PracticeTotal != 2 || stats[0].CorrectCount != 1 {
		t.Fatalf("unexpected practice stats: %#v", stats)
	}
	if stats[1].MatchTotal != 1 || stats[1].SpellingTotal != 0 {
		t.Fatalf("unexpected river practice: %#v", stats[1])
	}

	created, err := st.CountWordsCreatedSince(ctx, child.ID, since)
	if err != nil {
		t.Fatalf("CountWordsCreatedSince failed: %v", err)
	}
	if created != 2 {
		t.Fatalf("expected 2 new words, got %d", created)
	}

	rows, err := st.ExportWords(ctx, child.ID)
	if err != nil {
		t.Fatalf("ExportWords failed: %v", err)
	}
	if len(rows) != 2 || rows[0].Lemma != "river" {
		t.Fatalf("expected river first by updated_at, got %#v", rows)
	}
	if rows[1].TotalReviews != 2 || rows[1].PassReviews != 1 || rows[1].NextReviewAt != nil {
		t.Fatalf("unexpected apple export row: %#v", rows[1])
	}
}

func TestCheckHealthAndBackup(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	st.SetClock(testsupport.NewClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)).Now)
	ctx := context.Background()
	testsupport.MustCreateUser(t, st, store.RoleParent, "Dad")

	health, err := st.CheckHealth(ctx)
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if !health.DatabaseExists || !health.DatabaseReadable || !health.IntegrityCheck {
		t.Fatalf("unexpected health: %#v", health)
	}
	if len(health.MissingTables) != 0 {
		t.Fatalf("expected no missing tables, got %v", health.MissingTables)
	}
	if health.RowCounts["users"] != 1 {
		t.Fatalf("expected 1 user row, got %d", health.RowCounts["users"])
	}

	target, err := st.Backup(ctx, cfg.Paths.BackupDir)
	if err != nil {
		t.Fatalf("Backup failed: %v", err)
	}
	if filepath.Dir(target) != cfg.Paths.BackupDir {
		t.Fatalf("unexpected backup location %s", target)
	}
	info, err := os.Stat(target)
	if err != nil || info.Size() == 0 {
		t.Fatalf("expected non-empty backup file: %v", err)
	}
	if filepath.Base(target) != "wordcore-20260302T090000Z.db" {
		t.Fatalf("unexpected backup name %s", filepath.Base(target))
	}
	if _, err := st.Backup(ctx, cfg.Paths.BackupDir); err == nil {
		t.Fatal("expected second backup with the same timestamp to refuse overwrite")
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	st.Close()

	db, err := sql.Open("sqlite", cfg.DatabasePath())
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	db.Close()

	if _, err := store.Open(cfg); !errors.Is(err, store.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
