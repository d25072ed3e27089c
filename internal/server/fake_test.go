package server

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"hilltop/internal/utils"
	"hilltop/pkg/types"
)

// fakeCatalog is an in-memory CategoryStore, ResourceStore and ContactStore
// with the same referential rules as the Postgres repositories.
type fakeCatalog struct {
	mu sync.Mutex

	nextID     int64
	clock      time.Time
	categories map[int64]*types.Category
	resources  map[int64]*types.Resource
	contacts   []*types.Contact

	// err, when set, is returned by every call.
	err error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		categories: make(map[int64]*types.Category),
		resources:  make(map[int64]*types.Resource),
	}
}

func (f *fakeCatalog) tick() (int64, time.Time) {
	f.nextID++
	f.clock = f.clock.Add(time.Second)
	return f.nextID, f.clock
}

func (f *fakeCatalog) Categories(context.Context) ([]*types.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	var out []*types.Category
	for _, c := range f.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCatalog) Category(_ context.Context, id int64) (*types.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	c, ok := f.categories[id]
	if !ok {
		return nil, types.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCatalog) nameTaken(name string, except int64) bool {
	for _, c := range f.categories {
		if c.Name == name && c.ID != except {
			return true
		}
	}
	return false
}

func (f *fakeCatalog) CreateCategory(_ context.Context, in *types.CategoryInput) (*types.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	if f.nameTaken(*in.Name, 0) {
		return nil, types.ErrCategoryNameTaken
	}

	id, now := f.tick()
	c := &types.Category{ID: id, Name: *in.Name, Description: *in.Description, Icon: *in.Icon, CreatedAt: now}
	f.categories[id] = c

	cp := *c
	return &cp, nil
}

func (f *fakeCatalog) UpdateCategory(_ context.Context, id int64, in *types.CategoryInput) (*types.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	c, ok := f.categories[id]
	if !ok {
		return nil, types.ErrCategoryNotFound
	}
	if in.Name != nil && f.nameTaken(*in.Name, id) {
		return nil, types.ErrCategoryNameTaken
	}

	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Icon != nil {
		c.Icon = *in.Icon
	}

	cp := *c
	return &cp, nil
}

func (f *fakeCatalog) DeleteCategory(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}

	for _, r := range f.resources {
		if r.CategoryID == id {
			return false, types.ErrCategoryInUse
		}
	}

	_, ok := f.categories[id]
	delete(f.categories, id)
	return ok, nil
}

func (f *fakeCatalog) view(r *types.Resource) *types.ResourceWithCategory {
	return &types.ResourceWithCategory{Resource: *r, Category: *f.categories[r.CategoryID]}
}

func (f *fakeCatalog) sortedViews(keep func(*types.Resource) bool) []*types.ResourceWithCategory {
	var out []*types.ResourceWithCategory
	for _, r := range f.resources {
		if keep(r) {
			out = append(out, f.view(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (f *fakeCatalog) Resources(_ context.Context, filter types.ResourceFilter) ([]*types.ResourceWithCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	search := strings.ToLower(filter.Search)
	return f.sortedViews(func(r *types.Resource) bool {
		if filter.CategoryID > 0 && r.CategoryID != filter.CategoryID {
			return false
		}
		return strings.Contains(strings.ToLower(r.Title), search)
	}), nil
}

func (f *fakeCatalog) FeaturedResources(_ context.Context, limit int) ([]*types.ResourceWithCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	all := f.sortedViews(func(*types.Resource) bool { return true })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeCatalog) Resource(_ context.Context, id int64) (*types.ResourceWithCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	r, ok := f.resources[id]
	if !ok {
		return nil, types.ErrResourceNotFound
	}
	return f.view(r), nil
}

func nullable(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return utils.StringPtr(*s)
}

func (f *fakeCatalog) CreateResource(_ context.Context, in *types.ResourceInput) (*types.ResourceWithCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	if _, ok := f.categories[*in.CategoryID]; !ok {
		return nil, types.ErrUnknownCategory
	}

	id, now := f.tick()
	r := &types.Resource{
		ID:          id,
		Title:       *in.Title,
		Description: *in.Description,
		URL:         nullable(in.URL),
		CategoryID:  *in.CategoryID,
		Tags:        append([]string{}, in.Tags...),
		ImageURL:    nullable(in.ImageURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.resources[id] = r
	return f.view(r), nil
}

func (f *fakeCatalog) UpdateResource(_ context.Context, id int64, in *types.ResourceInput) (*types.ResourceWithCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	r, ok := f.resources[id]
	if !ok {
		return nil, types.ErrResourceNotFound
	}
	if in.CategoryID != nil {
		if _, ok := f.categories[*in.CategoryID]; !ok {
			return nil, types.ErrUnknownCategory
		}
		r.CategoryID = *in.CategoryID
	}
	if in.Title != nil {
		r.Title = *in.Title
	}
	if in.Description != nil {
		r.Description = *in.Description
	}
	if in.URL != nil {
		r.URL = nullable(in.URL)
	}
	if in.ImageURL != nil {
		r.ImageURL = nullable(in.ImageURL)
	}
	if in.Tags != nil {
		r.Tags = append([]string{}, in.Tags...)
	}

	_, r.UpdatedAt = f.tick()
	return f.view(r), nil
}

func (f *fakeCatalog) DeleteResource(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}

	_, ok := f.resources[id]
	delete(f.resources, id)
	return ok, nil
}

func (f *fakeCatalog) CreateContact(_ context.Context, in *types.ContactInput) (*types.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	id, now := f.tick()
	c := &types.Contact{
		ID:        id,
		Name:      *in.Name,
		Email:     *in.Email,
		Contact:   nullable(in.Contact),
		Address:   nullable(in.Address),
		Subject:   *in.Subject,
		Message:   *in.Message,
		CreatedAt: now,
	}
	f.contacts = append(f.contacts, c)
	return c, nil
}

func (f *fakeCatalog) Contacts(context.Context) ([]*types.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	out := make([]*types.Contact, 0, len(f.contacts))
	for i := len(f.contacts) - 1; i >= 0; i-- {
		out = append(out, f.contacts[i])
	}
	return out, nil
}
