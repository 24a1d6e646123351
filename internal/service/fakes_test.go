package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"livingdocs/internal/domain"
	"livingdocs/internal/domain/models"
	"livingdocs/internal/domain/repositories"
)

// In-memory repository fakes mirroring the postgres implementations'
// contracts: ownership mismatch is ErrNotFound, unique-key violations are
// ConflictError, current versions never appear in ListExpired.

type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

type fakeDocRepo struct {
	mu   sync.Mutex
	docs map[string]*models.Document
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{docs: make(map[string]*models.Document)}
}

func (r *fakeDocRepo) Create(_ context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.docs {
		if d.PublicToken == doc.PublicToken {
			return &domain.ConflictError{Message: "duplicate token", ResourceType: "document", ResourceID: d.ID}
		}
	}
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeDocRepo) GetByID(_ context.Context, id, ownerID string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok || d.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDocRepo) GetByToken(_ context.Context, token string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.docs {
		if d.PublicToken == token {
			cp := *d
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeDocRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Document
	for _, d := range r.docs {
		if d.OwnerID == ownerID {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastUpdate.After(out[j].LastUpdate) })
	return out, nil
}

func (r *fakeDocRepo) ListByFolder(_ context.Context, folderID *string, ownerID string) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Document
	for _, d := range r.docs {
		if d.OwnerID != ownerID {
			continue
		}
		if (folderID == nil) != (d.FolderID == nil) {
			continue
		}
		if folderID != nil && *folderID != *d.FolderID {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (r *fakeDocRepo) SetCurrent(_ context.Context, id, ownerID string, seq int, filePath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok || d.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	d.CurrentSeq = seq
	d.CurrentPath = filePath
	d.LastUpdate = time.Now()
	return nil
}

func (r *fakeDocRepo) SetAvailable(_ context.Context, id, ownerID string, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok || d.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	d.Available = available
	d.LastUpdate = time.Now()
	return nil
}

func (r *fakeDocRepo) IncrementDownloads(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return domain.ErrNotFound
	}
	d.Downloads++
	return nil
}

func (r *fakeDocRepo) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok || d.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

type fakeVersionRepo struct {
	mu       sync.Mutex
	versions map[string]*models.Version
	docs     *fakeDocRepo
}

func newFakeVersionRepo(docs *fakeDocRepo) *fakeVersionRepo {
	return &fakeVersionRepo{versions: make(map[string]*models.Version), docs: docs}
}

func (r *fakeVersionRepo) Create(_ context.Context, v *models.Version) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.versions {
		if existing.DocumentID == v.DocumentID && existing.Seq == v.Seq {
			return &domain.ConflictError{Message: "duplicate version", ResourceType: "version", ResourceID: existing.ID}
		}
	}
	cp := *v
	r.versions[v.ID] = &cp
	return nil
}

func (r *fakeVersionRepo) GetBySeq(_ context.Context, documentID string, seq int) (*models.Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.versions {
		if v.DocumentID == documentID && v.Seq == seq {
			cp := *v
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeVersionRepo) MaxSeq(_ context.Context, documentID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	maxSeq := 0
	for _, v := range r.versions {
		if v.DocumentID == documentID && v.Seq > maxSeq {
			maxSeq = v.Seq
		}
	}
	return maxSeq, nil
}

func (r *fakeVersionRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs.mu.Lock()
	defer r.docs.mu.Unlock()
	var out []models.Version
	for _, v := range r.versions {
		doc, ok := r.docs.docs[v.DocumentID]
		if ok && doc.OwnerID == ownerID {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DocumentID != out[j].DocumentID {
			return out[i].DocumentID < out[j].DocumentID
		}
		return out[i].Seq > out[j].Seq
	})
	return out, nil
}

func (r *fakeVersionRepo) ListByDocument(_ context.Context, documentID string) ([]models.Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Version
	for _, v := range r.versions {
		if v.DocumentID == documentID {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq > out[j].Seq })
	return out, nil
}

func (r *fakeVersionRepo) ListExpired(_ context.Context, cutoff time.Time) ([]models.Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs.mu.Lock()
	defer r.docs.mu.Unlock()
	var out []models.Version
	for _, v := range r.versions {
		if !v.Created.Before(cutoff) {
			continue
		}
		doc, ok := r.docs.docs[v.DocumentID]
		if ok && doc.CurrentSeq == v.Seq {
			continue
		}
		out = append(out, *v)
	}
	return out, nil
}

func (r *fakeVersionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.versions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.versions, id)
	return nil
}

func (r *fakeVersionRepo) DeleteByDocument(_ context.Context, documentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, v := range r.versions {
		if v.DocumentID == documentID {
			delete(r.versions, id)
		}
	}
	return nil
}

// backdate rewrites a version's creation time for retention tests
func (r *fakeVersionRepo) backdate(documentID string, seq int, created time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.versions {
		if v.DocumentID == documentID && v.Seq == seq {
			v.Created = created
		}
	}
}

type fakeFolderRepo struct {
	mu      sync.Mutex
	folders map[string]*models.Folder
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: make(map[string]*models.Folder)}
}

func (r *fakeFolderRepo) Create(_ context.Context, folder *models.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *folder
	r.folders[folder.ID] = &cp
	return nil
}

func (r *fakeFolderRepo) GetByID(_ context.Context, id, ownerID string) (*models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.folders[id]
	if !ok || f.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFolderRepo) ListChildren(_ context.Context, parentID *string, ownerID string) ([]models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Folder
	for _, f := range r.folders {
		if f.OwnerID != ownerID {
			continue
		}
		if sameParent(f.ParentID, parentID) {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFolderRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Folder
	for _, f := range r.folders {
		if f.OwnerID == ownerID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFolderRepo) GetByNameAndParent(_ context.Context, ownerID, name string, parentID *string) (*models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.folders {
		if f.OwnerID == ownerID && f.Name == name && sameParent(f.ParentID, parentID) {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeFolderRepo) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.folders[id]
	if !ok || f.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(r.folders, id)
	return nil
}

func sameParent(a, b *string) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return &domain.ConflictError{Message: "duplicate username", ResourceType: "user", ResourceID: u.ID}
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) TouchLastLogin(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now()
	u.LastLogin = &now
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.users, id)
	return nil
}
