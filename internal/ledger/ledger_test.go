package ledger_test

import (
	"context"
	"errors"
	"testing"

	"wordcore/internal/ledger"
	"wordcore/internal/logging"
	"wordcore/internal/services"
	"wordcore/internal/store"
	"wordcore/internal/testsupport"
)

func newLedger(t *testing.T) (*store.Store, *ledger.Ledger, *store.User) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	child := testsupport.MustCreateUser(t, st, store.RoleChild, "Mia")
	return st, ledger.New(st, logging.NewNop()), child
}

func record(ctx context.Context, st *store.Store, l *ledger.Ledger, entry ledger.Entry) error {
	return st.InTx(ctx, func(tx *store.Tx) error {
		_, err := l.Record(ctx, tx, entry)
		return err
	})
}

func TestCorrectAndList(t *testing.T) {
	st, l, child := newLedger(t)
	word := testsupport.MustCreateWord(t, st, child.ID, "recieve")
	ctx := context.Background()

	updated, row, err := l.Correct(ctx, ledger.Correction{
		WordID: word.ID, NewLemma: " Receive ", Reason: "spelling", Role: store.RoleParent,
	})
	if err != nil {
		t.Fatalf("Correct: %v", err)
	}
	if updated.Lemma != "receive" || updated.Surface != "receive" {
		t.Fatalf("unexpected corrected word %+v", updated)
	}
	if row.OldLemma != "recieve" || row.NewLemma != "receive" || row.OldSurface != "recieve" {
		t.Fatalf("unexpected ledger row %+v", row)
	}
	if _, _, err := l.Correct(ctx, ledger.Correction{WordID: word.ID, NewLemma: "receipt", Role: store.RoleChild}); err != nil {
		t.Fatalf("Correct: %v", err)
	}

	byWord, err := l.ListByWord(ctx, word.ID)
	if err != nil {
		t.Fatalf("ListByWord: %v", err)
	}
	if len(byWord) != 2 || byWord[0].NewLemma != "receive" || byWord[1].OldLemma != "receive" {
		t.Fatalf("expected oldest first, got %+v", byWord)
	}
	byUser, err := l.ListByUser(ctx, child.ID, 10)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(byUser) != 2 || byUser[0].NewLemma != "receipt" {
		t.Fatalf("expected newest first, got %+v", byUser)
	}

	patterns, err := l.Patterns(ctx, child.ID)
	if err != nil {
		t.Fatalf("Patterns: %v", err)
	}
	if patterns["recieve"] != "receive" || patterns["receive"] != "receipt" {
		t.Fatalf("unexpected patterns %v", patterns)
	}
}

func TestCorrectCollisionWritesNothing(t *testing.T) {
	st, l, child := newLedger(t)
	word := testsupport.MustCreateWord(t, st, child.ID, "recieve")
	testsupport.MustCreateWord(t, st, child.ID, "receive")
	ctx := context.Background()

	_, _, err := l.Correct(ctx, ledger.Correction{WordID: word.ID, NewLemma: "receive", Role: store.RoleParent})
	if !errors.Is(err, services.ErrLemmaCollision) {
		t.Fatalf("expected lemma collision, got %v", err)
	}
	history, err := l.ListByWord(ctx, word.ID)
	if err != nil {
		t.Fatalf("ListByWord: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected no ledger rows after a collision, got %+v", history)
	}
	got, err := st.GetWord(ctx, word.ID)
	if err != nil {
		t.Fatalf("GetWord: %v", err)
	}
	if got.Lemma != "recieve" {
		t.Fatalf("expected lemma unchanged, got %q", got.Lemma)
	}

	if _, _, err := l.Correct(ctx, ledger.Correction{WordID: word.ID, NewLemma: "receipt", Role: "GUEST"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for role, got %v", err)
	}
	if _, _, err := l.Correct(ctx, ledger.Correction{WordID: 9999, NewLemma: "receipt", Role: store.RoleParent}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found for unknown word, got %v", err)
	}
}

func TestRecordValidation(t *testing.T) {
	st, l, child := newLedger(t)
	other := testsupport.MustCreateUser(t, st, store.RoleChild, "Leo")
	word := testsupport.MustCreateWord(t, st, child.ID, "museum")
	ctx := context.Background()

	cases := map[string]struct {
		entry ledger.Entry
		want  error
	}{
		"empty new lemma": {ledger.Entry{WordID: word.ID, UserID: child.ID, OldLemma: "museum", NewLemma: " ", Role: store.RoleParent}, services.ErrValidation},
		"unknown role":    {ledger.Entry{WordID: word.ID, UserID: child.ID, OldLemma: "museum", NewLemma: "musea", Role: "GUEST"}, services.ErrValidation},
		"foreign word":    {ledger.Entry{WordID: word.ID, UserID: other.ID, OldLemma: "museum", NewLemma: "musea", Role: store.RoleParent}, services.ErrNotFound},
		"stale old lemma": {ledger.Entry{WordID: word.ID, UserID: child.ID, OldLemma: "musem", NewLemma: "musea", Role: store.RoleParent}, services.ErrValidation},
	}
	for name, tc := range cases {
		if err := record(ctx, st, l, tc.entry); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", name, tc.want, err)
		}
	}

	history, err := l.ListByWord(ctx, word.ID)
	if err != nil {
		t.Fatalf("ListByWord: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("rejected entries must not be recorded, got %+v", history)
	}
	if err := record(ctx, st, l, ledger.Entry{WordID: word.ID, UserID: child.ID, OldLemma: " Museum ", NewLemma: "museum", NewSurface: "Museum", Role: store.RoleChild}); err != nil {
		t.Fatalf("expected surface-only entry to record: %v", err)
	}
	if _, err := l.ListByWord(ctx, 9999); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found for unknown word, got %v", err)
	}
}
