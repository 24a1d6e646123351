package models

import "time"

// Folder is a named container in a per-owner tree. ParentID nil means root.
// A folder's parent always belongs to the same owner, and parent links are
// assigned only at creation time, so the tree is acyclic by construction.
type Folder struct {
	ID       string    `json:"id"`
	OwnerID  string    `json:"-"`
	Name     string    `json:"name"`
	ParentID *string   `json:"parent_id,omitempty"`
	Created  time.Time `json:"created"`
}
