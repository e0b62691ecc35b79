package clients

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu      sync.RWMutex
	clients map[string]Client
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{clients: make(map[string]Client)}
}

func (r *MemoryRepo) Create(ctx context.Context, client Client) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTakenLocked(client.Email, "") {
		return ErrEmailTaken
	}
	r.clients[client.ID] = client
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Client, error) {
	if err := ctx.Err(); err != nil {
		return Client{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[id]
	if !ok {
		return Client{}, ErrNotFound
	}
	return client, nil
}

// List returns clients newest first, honoring limit/offset.
func (r *MemoryRepo) List(ctx context.Context, filter ListFilter) ([]Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matched := r.matching(filter.Search)
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return []Client{}, nil
	}
	end := len(matched)
	if filter.Limit > 0 && offset+filter.Limit < end {
		end = offset + filter.Limit
	}
	return matched[offset:end], nil
}

func (r *MemoryRepo) Count(ctx context.Context, filter ListFilter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(r.matching(filter.Search)), nil
}

func (r *MemoryRepo) Update(ctx context.Context, client Client) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.clients[client.ID]
	if !ok {
		return ErrNotFound
	}
	if r.emailTakenLocked(client.Email, client.ID) {
		return ErrEmailTaken
	}
	client.CreatedAt = existing.CreatedAt
	r.clients[client.ID] = client
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[id]; !ok {
		return ErrNotFound
	}
	delete(r.clients, id)
	return nil
}

func (r *MemoryRepo) matching(search string) []Client {
	needle := strings.ToLower(strings.TrimSpace(search))
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Client, 0, len(r.clients))
	for _, c := range r.clients {
		if needle == "" ||
			strings.Contains(strings.ToLower(c.FullName), needle) ||
			strings.Contains(strings.ToLower(c.Email), needle) {
			out = append(out, c)
		}
	}
	return out
}

func (r *MemoryRepo) emailTakenLocked(email, exceptID string) bool {
	for id, c := range r.clients {
		if id != exceptID && strings.EqualFold(c.Email, email) {
			return true
		}
	}
	return false
}

var _ Repo = (*MemoryRepo)(nil)
