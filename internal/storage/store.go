// Package storage persists immutable version blobs on the local
// filesystem, keyed by deterministic <documentID>-v<label><ext> names.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"livingdocs/internal/domain"
)

// Store writes, reads and deletes version blobs under a single root
// directory. Stored paths are always relative file names; they are
// re-rooted on every access and rejected if they escape the root.
type Store struct {
	root       string
	processors *ProcessorRegistry
	logger     *slog.Logger
}

// NewStore creates the root directory if needed and returns a store
func NewStore(root string, processors *ProcessorRegistry, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &Store{
		root:       root,
		processors: processors,
		logger:     logger,
	}, nil
}

// BlobName returns the deterministic file name for a (document, version)
// pair. ext carries the leading dot ("" is allowed).
func BlobName(documentID, label, ext string) string {
	return fmt.Sprintf("%s-v%s%s", documentID, label, ext)
}

// Write persists a blob for a (document, version) pair and returns its
// stored name. Post-processing for the blob's extension is best-effort:
// on failure the original bytes are stored unmodified. The same pair
// never silently overwrites a different blob - rewriting identical bytes
// is accepted (idempotent retry), different bytes are an error.
func (s *Store) Write(documentID, label string, data []byte, ext string, info TrackingInfo) (string, error) {
	name := BlobName(documentID, label, ext)
	path, err := s.resolve(name)
	if err != nil {
		return "", err
	}

	if processed, perr := s.processors.Process(ext, data, info); perr != nil {
		s.logger.Warn("blob post-processing failed, storing original bytes",
			"document_id", documentID,
			"version", label,
			"error", perr,
		)
	} else {
		data = processed
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			existing, rerr := os.ReadFile(path)
			if rerr == nil && bytes.Equal(existing, data) {
				return name, nil
			}
			return "", &domain.StorageError{Op: "write", Path: name,
				Err: fmt.Errorf("blob already exists with different content")}
		}
		return "", &domain.StorageError{Op: "write", Path: name, Err: err}
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", &domain.StorageError{Op: "write", Path: name, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", &domain.StorageError{Op: "write", Path: name, Err: err}
	}

	return name, nil
}

// Read returns the bytes of a stored blob. A blob missing from disk even
// though a database row references it is a recoverable divergence: the
// returned StorageError has Missing set and handlers report it as not
// found rather than crashing.
func (s *Store) Read(filePath string) ([]byte, error) {
	path, err := s.resolve(filePath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.StorageError{Op: "read", Path: filePath, Missing: true, Err: err}
		}
		return nil, &domain.StorageError{Op: "read", Path: filePath, Err: err}
	}

	return data, nil
}

// Delete removes a stored blob. Absence of the file is not an error, so
// deletion is idempotent against partial prior failures.
func (s *Store) Delete(filePath string) error {
	path, err := s.resolve(filePath)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &domain.StorageError{Op: "delete", Path: filePath, Err: err}
	}

	return nil
}

// resolve joins a stored name onto the root and rejects anything that
// escapes it. Stored names come from our own id generator, but the
// public path makes traversal resistance a correctness requirement, not
// a nicety.
func (s *Store) resolve(name string) (string, error) {
	joined := filepath.Join(s.root, filepath.Clean("/"+name))
	rel, err := filepath.Rel(s.root, joined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &domain.StorageError{Op: "resolve", Path: name,
			Err: fmt.Errorf("path escapes storage root")}
	}
	return joined, nil
}
