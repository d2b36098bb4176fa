package ipc_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"wordcore/internal/api"
	"wordcore/internal/ipc"
	"wordcore/internal/logging"
	"wordcore/internal/services"
	"wordcore/internal/store"
	"wordcore/internal/testsupport"
)

func startServer(t *testing.T) (*ipc.Client, *store.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	svc, err := api.New(cfg, st, logging.NewNop())
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	socket := filepath.Join(testsupport.BaseDir(cfg), "ipc.sock")
	srv, err := ipc.NewServer(ctx, socket, svc, logging.NewNop())
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping IPC server test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(srv.Close)

	time.Sleep(20 * time.Millisecond)

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client, st
}

func TestIPCRoundTrip(t *testing.T) {
	client, st := startServer(t)
	child := testsupport.MustCreateUser(t, st, store.RoleChild, "Mia")

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.PID == 0 || !status.Integrity || status.DatabasePath != st.Path() {
		t.Fatalf("unexpected status %+v", status)
	}

	preview, err := client.PreviewImport(api.PreviewImportRequest{UserID: child.ID, Candidates: []string{"museum", "recieve"}})
	if err != nil {
		t.Fatalf("PreviewImport: %v", err)
	}
	if len(preview.Items) != 2 || preview.Batch == nil {
		t.Fatalf("unexpected preview %+v", preview)
	}

	ids := []int64{preview.Items[0].ID, preview.Items[1].ID}
	final := map[int64]string{preview.Items[1].ID: "receive"}
	result, err := client.CommitImport(api.CommitImportRequest{BatchID: preview.Batch.ID, AcceptedIDs: ids, FinalLemmas: final})
	if err != nil {
		t.Fatalf("CommitImport: %v", err)
	}
	if result.ImportedWords != 2 {
		t.Fatalf("expected two imported words, got %+v", result)
	}

	plan, err := client.PlanToday(child.ID)
	if err != nil {
		t.Fatalf("PlanToday: %v", err)
	}
	if len(plan.NewWords) != 2 {
		t.Fatalf("expected two new words, got %+v", plan)
	}

	outcome, err := client.SubmitReview(api.SubmitReviewRequest{WordID: plan.NewWords[0].ID, Result: "PASS", Mode: "MEANING"})
	if err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}
	if outcome.State.Streak != 1 {
		t.Fatalf("unexpected outcome %+v", outcome)
	}

	word, err := client.UpdateWordStatus(plan.NewWords[1].ID, "SUSPENDED")
	if err != nil {
		t.Fatalf("UpdateWordStatus: %v", err)
	}
	if word.Status != store.StatusSuspended {
		t.Fatalf("expected SUSPENDED, got %s", word.Status)
	}

	corrected, err := client.CorrectWord(api.CorrectWordRequest{WordID: word.ID, NewLemma: "receipt", Role: store.RoleParent})
	if err != nil {
		t.Fatalf("CorrectWord: %v", err)
	}
	rows, err := client.ListCorrections(api.ListCorrectionsRequest{WordID: corrected.Word.ID})
	if err != nil {
		t.Fatalf("ListCorrections: %v", err)
	}
	if len(rows) != 1 || rows[0].NewLemma != "receipt" {
		t.Fatalf("unexpected corrections %+v", rows)
	}

	deleted, err := client.DeleteWord(child.ID, word.ID)
	if err != nil {
		t.Fatalf("DeleteWord: %v", err)
	}
	if deleted.Lemma != "receipt" {
		t.Fatalf("unexpected deleted word %+v", deleted)
	}
}

func TestIPCErrorKinds(t *testing.T) {
	client, st := startServer(t)
	child := testsupport.MustCreateUser(t, st, store.RoleChild, "Mia")
	first := testsupport.MustCreateWord(t, st, child.ID, "museum")
	testsupport.MustCreateWord(t, st, child.ID, "school")

	_, err := client.PlanToday(999)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	var remote *ipc.RemoteError
	if !errors.As(err, &remote) || remote.Kind != services.KindNotFound {
		t.Fatalf("expected remote error with kind, got %#v", err)
	}

	if _, err := client.UpdateWordStatus(first.ID, "DONE"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation, got %v", err)
	}
	if _, err := client.CorrectWord(api.CorrectWordRequest{WordID: first.ID, NewLemma: "school", Role: store.RoleChild}); !errors.Is(err, services.ErrLemmaCollision) {
		t.Fatalf("expected lemma collision, got %v", err)
	}
	if _, err := client.CommitImport(api.CommitImportRequest{BatchID: 404}); !errors.Is(err, services.ErrInvalidBatch) {
		t.Fatalf("expected invalid batch, got %v", err)
	}
}
