package models

import "time"

// Node types for the tagged-union tree consumed by UI and API callers.
const (
	NodeTypeFolder = "folder"
	NodeTypeFile   = "file"
)

// TreeNode is one entry in the per-owner folder/document tree. Folder
// nodes carry Children; file nodes carry the document fields.
type TreeNode struct {
	Type     string      `json:"type"`
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Children []*TreeNode `json:"children,omitempty"`

	// File fields (zero for folder nodes)
	PublicToken string     `json:"public_token,omitempty"`
	Version     string     `json:"version,omitempty"`
	Downloads   int64      `json:"downloads,omitempty"`
	Available   *bool      `json:"available,omitempty"`
	LastUpdate  *time.Time `json:"last_update,omitempty"`
}
