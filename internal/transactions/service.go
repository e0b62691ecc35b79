package transactions

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"docverify-backend/internal/imaging"
	"docverify-backend/internal/queue"
	"docverify-backend/internal/shared/metrics"
	"docverify-backend/internal/shared/storage/object"
	"docverify-backend/internal/shared/telemetry"
)

const (
	detailFrontMissing = "Frontside image is missing."
	detailBackMissing  = "Backside image is missing."

	publishTimeout = 5 * time.Second
	imageLinkTTL   = 15 * time.Minute
	purgeBatchSize = 100
)

// ClientLookup resolves client ids. It must return ErrClientNotFound for
// unknown clients.
type ClientLookup interface {
	ClientExists(ctx context.Context, id string) error
}

// ImageInput is one submitted image: raw upload bytes or base64 text.
// A nil or empty input counts as absent.
type ImageInput struct {
	FileName string
	Data     []byte
	Base64   string
}

func (in *ImageInput) present() bool {
	return in != nil && (len(in.Data) > 0 || strings.TrimSpace(in.Base64) != "")
}

func (in *ImageInput) decode() (imaging.Image, error) {
	if strings.TrimSpace(in.Base64) != "" {
		return imaging.DecodeBase64(in.Base64)
	}
	return imaging.Decode(in.Data)
}

// Submission is the input to Submit.
type Submission struct {
	ClientID string
	Front    *ImageInput
	Back     *ImageInput
}

// Service runs document validation and owns the transaction records.
type Service struct {
	Repo    Repo
	Clients ClientLookup
	Store   object.ObjectStore
	Rules   imaging.Rules
	Events  queue.Client
	Now     func() time.Time
}

// NewService constructs a Service with the default image rules.
func NewService(repo Repo, clients ClientLookup, store object.ObjectStore) *Service {
	return &Service{
		Repo:    repo,
		Clients: clients,
		Store:   store,
		Rules:   imaging.DefaultRules(),
	}
}

// Submit validates a submission and persists exactly one transaction for it
// once a verdict is reached. Rejections return the stored record together
// with a *RejectedError. Unknown clients and undecodable images abort before
// anything is written.
func (s *Service) Submit(ctx context.Context, sub Submission) (Transaction, error) {
	if err := s.ready(); err != nil {
		return Transaction{}, err
	}
	clientID := strings.TrimSpace(sub.ClientID)
	if clientID == "" {
		return Transaction{}, fmt.Errorf("%w: client is required", ErrInvalidInput)
	}
	if err := s.Clients.ClientExists(ctx, clientID); err != nil {
		return Transaction{}, err
	}

	if !sub.Front.present() {
		return s.record(ctx, clientID, nil, nil, imaging.CodeFrontMissing, detailFrontMissing)
	}
	if !sub.Back.present() {
		return s.record(ctx, clientID, nil, nil, imaging.CodeBackMissing, detailBackMissing)
	}

	front, err := sub.Front.decode()
	if err != nil {
		return Transaction{}, fmt.Errorf("%s: %w", SideFront, err)
	}
	back, err := sub.Back.decode()
	if err != nil {
		return Transaction{}, fmt.Errorf("%s: %w", SideBack, err)
	}
	metrics.ObserveImageBytes(front.ByteSize)
	metrics.ObserveImageBytes(back.ByteSize)

	for _, img := range []imaging.Image{front, back} {
		if verdict := imaging.Validate(img, s.Rules); !verdict.Accepted {
			return s.record(ctx, clientID, &front, &back, verdict.Code, verdict.Detail)
		}
	}
	return s.record(ctx, clientID, &front, &back, 0, "")
}

// record stores any images, writes the row and reports the outcome. A zero
// code means the transaction was accepted.
func (s *Service) record(ctx context.Context, clientID string, front, back *imaging.Image, code imaging.ErrorCode, detail string) (Transaction, error) {
	tx := Transaction{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		Result:    code == 0,
		ErrorCode: code,
		Details:   detail,
		CreatedAt: s.now(),
	}

	var stored []string
	cleanup := func() {
		for _, key := range stored {
			if err := s.Store.Delete(backgroundWithRequestID(ctx), key); err != nil {
				telemetry.Warn("transaction.image_cleanup_failed", map[string]any{
					"request_id":  requestIDFromContext(ctx),
					"storage_key": key,
					"error":       err,
				})
			}
		}
	}

	if front != nil {
		key, err := s.saveImage(ctx, clientID, SideFront, *front)
		if err != nil {
			return Transaction{}, err
		}
		stored = append(stored, key)
		tx.FrontsideKey = key
	}
	if back != nil {
		key, err := s.saveImage(ctx, clientID, SideBack, *back)
		if err != nil {
			cleanup()
			return Transaction{}, err
		}
		stored = append(stored, key)
		tx.BacksideKey = key
	}

	if err := s.Repo.Create(ctx, tx); err != nil {
		cleanup()
		return Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	metrics.ObserveTransaction(tx.Result, int(tx.ErrorCode))
	fields := map[string]any{
		"request_id":     requestIDFromContext(ctx),
		"transaction_id": tx.ID,
		"client_id":      tx.ClientID,
		"result":         tx.Result,
	}
	if !tx.Result {
		fields["error_code"] = int(tx.ErrorCode)
		fields["reason"] = tx.ErrorCode.String()
	}
	telemetry.Info("transaction.recorded", fields)
	s.publish(ctx, tx)

	if !tx.Result {
		return tx, &RejectedError{Transaction: tx}
	}
	return tx, nil
}

func (s *Service) saveImage(ctx context.Context, clientID string, side Side, img imaging.Image) (string, error) {
	name := string(side) + img.Format.Extension()
	key, _, _, err := s.Store.Save(ctx, clientID, name, bytes.NewReader(img.Data))
	if err != nil {
		return "", fmt.Errorf("store %s image: %w", side, err)
	}
	return key, nil
}

// publish emits the audit event. Failures are logged and never change the outcome.
func (s *Service) publish(ctx context.Context, tx Transaction) {
	if s.Events == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(backgroundWithRequestID(ctx), publishTimeout)
	defer cancel()

	msg := queue.Message{
		TransactionID: tx.ID,
		ClientID:      tx.ClientID,
		Result:        tx.Result,
		ErrorCode:     int(tx.ErrorCode),
		RequestID:     requestIDFromContext(ctx),
		EnqueuedAt:    s.now().Format(time.RFC3339),
		Version:       queue.MessageVersion,
	}
	if err := s.Events.Send(pubCtx, msg); err != nil {
		telemetry.Warn("transaction.audit_publish_failed", map[string]any{
			"request_id":     msg.RequestID,
			"transaction_id": tx.ID,
			"error":          err,
		})
	}
}

// Get returns a transaction by id.
func (s *Service) Get(ctx context.Context, id string) (Transaction, error) {
	if err := s.ready(); err != nil {
		return Transaction{}, err
	}
	id = strings.TrimSpace(id)
	if _, err := uuid.Parse(id); err != nil {
		return Transaction{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns a page of transactions and the total count.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Transaction, int, error) {
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

// Delete removes a transaction and its stored images.
func (s *Service) Delete(ctx context.Context, id string) error {
	tx, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.deleteRecord(ctx, tx)
}

func (s *Service) deleteRecord(ctx context.Context, tx Transaction) error {
	if err := s.Repo.Delete(ctx, tx.ID); err != nil {
		return err
	}
	for _, key := range []string{tx.FrontsideKey, tx.BacksideKey} {
		if key == "" {
			continue
		}
		if err := s.Store.Delete(ctx, key); err != nil {
			telemetry.Warn("transaction.image_delete_failed", map[string]any{
				"request_id":     requestIDFromContext(ctx),
				"transaction_id": tx.ID,
				"storage_key":    key,
				"error":          err,
			})
		}
	}
	return nil
}

// PurgeClient deletes every transaction of a client together with its
// stored images.
func (s *Service) PurgeClient(ctx context.Context, clientID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	for {
		batch, err := s.Repo.List(ctx, ListFilter{ClientID: clientID, Limit: purgeBatchSize})
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		for _, tx := range batch {
			if err := s.deleteRecord(ctx, tx); err != nil && !errors.Is(err, ErrNotFound) {
				return err
			}
		}
	}
}

// OpenImage streams one stored image of a transaction. The caller must close
// the reader.
func (s *Service) OpenImage(ctx context.Context, id string, side Side) (io.ReadCloser, string, error) {
	key, err := s.imageKey(ctx, id, side)
	if err != nil {
		return nil, "", err
	}
	rc, err := s.Store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return nil, "", ErrImageNotStored
		}
		return nil, "", err
	}
	return rc, imaging.FormatFromExtension(path.Ext(key)).ContentType(), nil
}

// ImageLink returns a short-lived direct URL for a stored image when the
// object store can presign. ok is false when the caller must stream instead.
func (s *Service) ImageLink(ctx context.Context, id string, side Side) (url string, ok bool, err error) {
	presigner, can := s.Store.(object.Presigner)
	if !can {
		return "", false, nil
	}
	key, err := s.imageKey(ctx, id, side)
	if err != nil {
		return "", false, err
	}
	url, err = presigner.PresignGet(ctx, key, imageLinkTTL)
	if err != nil {
		return "", false, err
	}
	return url, true, nil
}

func (s *Service) imageKey(ctx context.Context, id string, side Side) (string, error) {
	if side != SideFront && side != SideBack {
		return "", fmt.Errorf("%w: side must be %s or %s", ErrInvalidInput, SideFront, SideBack)
	}
	tx, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	key := tx.ImageKey(side)
	if key == "" {
		return "", ErrImageNotStored
	}
	return key, nil
}

func (s *Service) ready() error {
	if s == nil || s.Repo == nil || s.Clients == nil || s.Store == nil {
		return errors.New("transactions service not configured")
	}
	return nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
