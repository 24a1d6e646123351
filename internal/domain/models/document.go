package models

import "time"

// Document is a logical named file tracked by the registry, independent of
// any specific version's bytes. Invariant: CurrentSeq always references an
// existing version row of this document and CurrentPath equals that
// version's stored path. The public token is immutable once assigned and
// is the sole key for unauthenticated resolution.
type Document struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"-"`
	Name         string    `json:"name"`
	PublicToken  string    `json:"public_token"`
	CurrentSeq   int       `json:"-"`
	CurrentPath  string    `json:"-"`
	FolderID     *string   `json:"folder_id,omitempty"`
	RelativePath string    `json:"relative_path,omitempty"`
	Downloads    int64     `json:"downloads"`
	Available    bool      `json:"available"`
	Created      time.Time `json:"created"`
	LastUpdate   time.Time `json:"last_update"`
}

// CurrentLabel renders the current version pointer as a decimal label.
func (d *Document) CurrentLabel() string {
	return LabelForSeq(d.CurrentSeq)
}

// DocumentWithVersions pairs a document with its historical version labels
// for the version-switcher UI, newest first.
type DocumentWithVersions struct {
	Document
	Version  string   `json:"version"`
	Versions []string `json:"versions,omitempty"`
}
