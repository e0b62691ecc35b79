package clients

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	maxFullNameLen = 255
	maxPhoneLen    = 15
)

// Input carries the writable client fields.
type Input struct {
	FullName string
	Email    string
	Phone    string
}

// Service contains business logic for clients.
type Service struct {
	Repo Repo
	Now  func() time.Time
	// BeforeDelete runs before a client row is removed, so dependants can
	// release what the database cascade does not cover.
	BeforeDelete func(ctx context.Context, clientID string) error
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Create validates input and stores a new client.
func (s *Service) Create(ctx context.Context, in Input) (Client, error) {
	if err := s.ready(); err != nil {
		return Client{}, err
	}
	in, err := normalize(in)
	if err != nil {
		return Client{}, err
	}
	now := s.now()
	client := Client{
		ID:        uuid.NewString(),
		FullName:  in.FullName,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, client); err != nil {
		return Client{}, err
	}
	return client, nil
}

// Get returns a client by id. Ids that are not UUIDs cannot exist.
func (s *Service) Get(ctx context.Context, id string) (Client, error) {
	if err := s.ready(); err != nil {
		return Client{}, err
	}
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return Client{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, strings.TrimSpace(id))
}

// List returns a page of clients and the total count.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Client, int, error) {
	if err := s.ready(); err != nil {
		return nil, 0, err
	}
	total, err := s.Repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update replaces the writable fields of an existing client.
func (s *Service) Update(ctx context.Context, id string, in Input) (Client, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return Client{}, err
	}
	in, err = normalize(in)
	if err != nil {
		return Client{}, err
	}
	existing.FullName = in.FullName
	existing.Email = in.Email
	existing.Phone = in.Phone
	existing.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, existing); err != nil {
		return Client{}, err
	}
	return existing, nil
}

// Delete removes a client and, through the store, its transactions.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	if _, err := s.Repo.GetByID(ctx, id); err != nil {
		return err
	}
	if s.BeforeDelete != nil {
		if err := s.BeforeDelete(ctx, id); err != nil {
			return fmt.Errorf("release client data: %w", err)
		}
	}
	return s.Repo.Delete(ctx, id)
}

func (s *Service) ready() error {
	if s == nil || s.Repo == nil {
		return errors.New("clients service not configured")
	}
	return nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func normalize(in Input) (Input, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	if in.FullName == "" {
		return Input{}, fmt.Errorf("%w: full_name is required", ErrInvalidInput)
	}
	if len(in.FullName) > maxFullNameLen {
		return Input{}, fmt.Errorf("%w: full_name must be at most %d characters", ErrInvalidInput, maxFullNameLen)
	}
	if in.Email == "" {
		return Input{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	addr, err := mail.ParseAddress(in.Email)
	if err != nil || addr.Address != in.Email {
		return Input{}, fmt.Errorf("%w: email is not a valid address", ErrInvalidInput)
	}
	if len(in.Phone) > maxPhoneLen {
		return Input{}, fmt.Errorf("%w: phone must be at most %d characters", ErrInvalidInput, maxPhoneLen)
	}
	return in, nil
}
