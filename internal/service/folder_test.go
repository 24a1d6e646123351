package service

import (
	"context"
	"errors"
	"testing"

	"livingdocs/internal/domain"
)

func TestFolderCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	root, err := env.folderSvc.Create(ctx, "owner-1", "docs", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	child, err := env.folderSvc.Create(ctx, "owner-1", "reports", &root.ID)
	if err != nil {
		t.Fatalf("Create(child) error = %v", err)
	}
	if child.ParentID == nil || *child.ParentID != root.ID {
		t.Error("child not linked to parent")
	}

	// Duplicate sibling name
	if _, err := env.folderSvc.Create(ctx, "owner-1", "reports", &root.ID); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("duplicate sibling error = %v, want ErrConflict", err)
	}

	// Same name is fine under a different parent
	if _, err := env.folderSvc.Create(ctx, "owner-1", "reports", nil); err != nil {
		t.Errorf("same name, different parent error = %v", err)
	}
}

func TestFolderCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, name := range []string{"", "a/b", `a\b`, ".", ".."} {
		if _, err := env.folderSvc.Create(ctx, "owner-1", name, nil); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Create(%q) error = %v, want ErrValidation", name, err)
		}
	}
}

func TestFolderCreateForeignParent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	other, err := env.folderSvc.Create(ctx, "owner-2", "theirs", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := env.folderSvc.Create(ctx, "owner-1", "mine", &other.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("foreign parent error = %v, want ErrNotFound", err)
	}
}

func TestFolderDeleteRecursive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	top, err := env.folderSvc.Create(ctx, "owner-1", "top", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	mid, err := env.folderSvc.Create(ctx, "owner-1", "mid", &top.ID)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	inTop, err := env.documents.Create(ctx, "owner-1", &CreateDocumentRequest{
		FileName: "a.txt", Data: []byte("a"), FolderID: &top.ID,
	})
	if err != nil {
		t.Fatalf("Create(doc) error = %v", err)
	}
	inMid, err := env.documents.Create(ctx, "owner-1", &CreateDocumentRequest{
		FileName: "b.txt", Data: []byte("b"), FolderID: &mid.ID,
	})
	if err != nil {
		t.Fatalf("Create(doc) error = %v", err)
	}
	outside := mustCreateDoc(t, env, "owner-1", "c.txt", []byte("c"))

	if err := env.folderSvc.Delete(ctx, "owner-1", top.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	for _, id := range []string{top.ID, mid.ID} {
		if _, err := env.folderSvc.Get(ctx, "owner-1", id); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("folder %s survived recursive delete", id)
		}
	}
	for _, doc := range []struct {
		id   string
		path string
	}{{inTop.ID, inTop.CurrentPath}, {inMid.ID, inMid.CurrentPath}} {
		if _, err := env.documents.Get(ctx, "owner-1", doc.id); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("document %s survived recursive delete", doc.id)
		}
		if _, err := env.store.Read(doc.path); err == nil {
			t.Errorf("blob %q survived recursive delete", doc.path)
		}
	}

	// Unrelated document untouched
	if _, err := env.documents.Get(ctx, "owner-1", outside.ID); err != nil {
		t.Errorf("unrelated document affected: %v", err)
	}
}

func TestEnsureFolderPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Uploading several files under overlapping prefixes reuses segments
	paths := []string{"a/b", "a/b", "a/c"}
	ids := make([]*string, len(paths))
	for i, p := range paths {
		id, err := env.folderSvc.EnsureFolderPath(ctx, "owner-1", p)
		if err != nil {
			t.Fatalf("EnsureFolderPath(%q) error = %v", p, err)
		}
		if id == nil {
			t.Fatalf("EnsureFolderPath(%q) returned nil id", p)
		}
		ids[i] = id
	}
	if *ids[0] != *ids[1] {
		t.Error("identical paths resolved to different folders")
	}
	if *ids[0] == *ids[2] {
		t.Error("distinct paths resolved to the same folder")
	}

	all, err := env.folderSvc.List(ctx, "owner-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("folder count = %d, want 3 (a, a/b, a/c)", len(all))
	}

	// Empty and root paths mean root placement
	for _, p := range []string{"", "/", "///", "."} {
		id, err := env.folderSvc.EnsureFolderPath(ctx, "owner-1", p)
		if err != nil {
			t.Errorf("EnsureFolderPath(%q) error = %v", p, err)
		}
		if id != nil {
			t.Errorf("EnsureFolderPath(%q) = %v, want nil", p, *id)
		}
	}

	// Traversal segments rejected
	if _, err := env.folderSvc.EnsureFolderPath(ctx, "owner-1", "a/../b"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("traversal path error = %v, want ErrValidation", err)
	}
}
