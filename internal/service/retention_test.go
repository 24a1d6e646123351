package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"livingdocs/internal/domain/models"
)

func newTestSweeper(env *testEnv, retentionDays int) *Sweeper {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSweeper(env.versions, env.store, logger, retentionDays, time.Hour, 0)
}

func TestSweepPrunesExpiredVersions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	doc := mustCreateDoc(t, env, "owner-1", "report.txt", []byte("v1"))
	if _, err := env.documents.AddVersion(ctx, "owner-1", doc.ID, "report.txt", []byte("v2")); err != nil {
		t.Fatalf("AddVersion() error = %v", err)
	}

	// Age the superseded version past a 30-day window
	env.versions.backdate(doc.ID, models.FirstSeq, time.Now().Add(-31*24*time.Hour))

	newTestSweeper(env, 30).Sweep(ctx)

	got, err := env.documents.Get(ctx, "owner-1", doc.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.Versions) != 1 || got.Versions[0] != "1.1" {
		t.Errorf("Versions after sweep = %v, want [1.1]", got.Versions)
	}
	oldBlob := doc.CurrentPath
	if _, err := env.store.Read(oldBlob); err == nil {
		t.Error("expired blob survived the sweep")
	}
}

func TestSweepNeverDeletesCurrentVersion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	doc := mustCreateDoc(t, env, "owner-1", "report.txt", []byte("only"))

	// The sole version is ancient but current, so it stays
	env.versions.backdate(doc.ID, models.FirstSeq, time.Now().Add(-365*24*time.Hour))

	newTestSweeper(env, 30).Sweep(ctx)

	got, err := env.documents.Get(ctx, "owner-1", doc.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.Versions) != 1 {
		t.Fatalf("Versions = %v, want the current version kept", got.Versions)
	}
	if _, err := env.store.Read(doc.CurrentPath); err != nil {
		t.Errorf("current blob deleted: %v", err)
	}
}

func TestSweepKeepsRolledBackCurrent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	doc := mustCreateDoc(t, env, "owner-1", "report.txt", []byte("v1"))
	if _, err := env.documents.AddVersion(ctx, "owner-1", doc.ID, "report.txt", []byte("v2")); err != nil {
		t.Fatalf("AddVersion() error = %v", err)
	}
	// Roll back: the oldest version becomes current again
	if _, err := env.documents.SetCurrentVersion(ctx, "owner-1", doc.ID, "1.0"); err != nil {
		t.Fatalf("SetCurrentVersion() error = %v", err)
	}

	env.versions.backdate(doc.ID, models.FirstSeq, time.Now().Add(-365*24*time.Hour))
	env.versions.backdate(doc.ID, models.FirstSeq+1, time.Now().Add(-365*24*time.Hour))

	newTestSweeper(env, 30).Sweep(ctx)

	got, err := env.documents.Get(ctx, "owner-1", doc.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	// The aged non-current 1.1 goes, the aged current 1.0 stays
	if len(got.Versions) != 1 || got.Versions[0] != "1.0" {
		t.Errorf("Versions after sweep = %v, want [1.0]", got.Versions)
	}
}

func TestSweepSkipsYoungVersions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	doc := mustCreateDoc(t, env, "owner-1", "report.txt", []byte("v1"))
	if _, err := env.documents.AddVersion(ctx, "owner-1", doc.ID, "report.txt", []byte("v2")); err != nil {
		t.Fatalf("AddVersion() error = %v", err)
	}

	newTestSweeper(env, 30).Sweep(ctx)

	got, err := env.documents.Get(ctx, "owner-1", doc.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.Versions) != 2 {
		t.Errorf("Versions = %v, want both kept inside the window", got.Versions)
	}
}

func TestSweeperLifecycle(t *testing.T) {
	env := newTestEnv(t)
	sweeper := newTestSweeper(env, 30)

	if sweeper.State() != SweepIdle {
		t.Errorf("initial State() = %q, want %q", sweeper.State(), SweepIdle)
	}

	sweeper.Start(context.Background())
	sweeper.Stop()

	if sweeper.State() != SweepIdle {
		t.Errorf("State() after Stop() = %q, want %q", sweeper.State(), SweepIdle)
	}
}

func TestSweeperDisabled(t *testing.T) {
	env := newTestEnv(t)
	sweeper := newTestSweeper(env, 0)

	sweeper.Start(context.Background())
	sweeper.Stop()
}
