package service

import (
	"context"
	"sort"

	"livingdocs/internal/domain/models"
	"livingdocs/internal/domain/repositories"
)

// TreeService assembles the combined folder/document tree for one owner
type TreeService struct {
	folderRepo repositories.FolderRepository
	docRepo    repositories.DocumentRepository
}

// NewTreeService creates a new tree service
func NewTreeService(folderRepo repositories.FolderRepository, docRepo repositories.DocumentRepository) *TreeService {
	return &TreeService{folderRepo: folderRepo, docRepo: docRepo}
}

// Build returns the caller's root-level nodes with children attached.
// Two flat queries, then in-memory assembly: folders first, then
// documents hung onto their folder node (or the root). Children are
// ordered folders-before-files, alphabetical within each kind.
func (s *TreeService) Build(ctx context.Context, ownerID string) ([]*models.TreeNode, error) {
	folders, err := s.folderRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	docs, err := s.docRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.TreeNode, len(folders))
	for _, f := range folders {
		byID[f.ID] = &models.TreeNode{
			Type: models.NodeTypeFolder,
			ID:   f.ID,
			Name: f.Name,
		}
	}

	var roots []*models.TreeNode
	for _, f := range folders {
		node := byID[f.ID]
		if f.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := byID[*f.ParentID]
		if !ok {
			// Parent row missing from this owner's set; surface the
			// subtree at the root rather than dropping it
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	for i := range docs {
		doc := docs[i]
		available := doc.Available
		lastUpdate := doc.LastUpdate
		node := &models.TreeNode{
			Type:        models.NodeTypeFile,
			ID:          doc.ID,
			Name:        doc.Name,
			PublicToken: doc.PublicToken,
			Version:     doc.CurrentLabel(),
			Downloads:   doc.Downloads,
			Available:   &available,
			LastUpdate:  &lastUpdate,
		}
		if doc.FolderID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := byID[*doc.FolderID]; ok {
			parent.Children = append(parent.Children, node)
		} else {
			roots = append(roots, node)
		}
	}

	sortNodes(roots)
	for _, node := range byID {
		sortNodes(node.Children)
	}

	return roots, nil
}

func sortNodes(nodes []*models.TreeNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Type != nodes[j].Type {
			return nodes[i].Type == models.NodeTypeFolder
		}
		return nodes[i].Name < nodes[j].Name
	})
}
