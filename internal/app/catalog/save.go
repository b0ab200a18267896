package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"github.com/filemart/filemart-backend/internal/app/model"
	"github.com/filemart/filemart-backend/internal/app/repository"
	"github.com/filemart/filemart-backend/internal/storage"
	"github.com/filemart/filemart-backend/pkg/logger"
)

// SaveState tracks where a save currently is. The record write and the
// image uploads are separate phases: once the record is committed, a
// failed upload no longer fails the save.
type SaveState string

const (
	StateIdle              SaveState = "idle"
	StateResolvingIdentity SaveState = "resolving_identity"
	StateValidating        SaveState = "validating"
	StatePersistingRecord  SaveState = "persisting_record"
	StateUploadingImages   SaveState = "uploading_images"
	StateDone              SaveState = "done"
	StateFailed            SaveState = "failed"
)

var (
	ErrUnauthenticated     = errors.New("not authenticated")
	ErrStoreProfileMissing = errors.New("store profile missing")
	ErrProductNotFound     = errors.New("product not found")
	ErrProductAccessDenied = errors.New("product belongs to another store")
	ErrPersistenceFailed   = errors.New("failed to persist product")
)

// ValidationError carries the per-field messages from a rejected draft
// plus the editor tab the dashboard should focus
type ValidationError struct {
	Fields map[string]string
	Tab    int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("draft validation failed on %d field(s)", len(e.Fields))
}

// Session is the identity a save runs under. It is resolved fresh for
// every save and never cached, so a revoked login or deleted store
// takes effect on the next attempt.
type Session struct {
	UserID  uint
	StoreID uint
}

// UploadFailure records one image that could not be uploaded or linked
type UploadFailure struct {
	Index int
	Name  string
	Err   error
}

// SaveResult is what a completed save hands back to the caller
type SaveResult struct {
	Product      *model.Product
	UploadedURLs []string
	Failures     []UploadFailure
}

// EventPublisher receives a notification after each successful save so
// open dashboard listings can reload
type EventPublisher interface {
	PublishProductSaved(storeID, productID uint, name string)
}

// Saver runs the product save protocol. One Saver serves one save; the
// controller constructs it per request.
type Saver struct {
	users    repository.UserRepository
	stores   repository.StoreRepository
	products repository.ProductRepository
	images   repository.ProductImageRepository
	storage  storage.ObjectStorage
	events   EventPublisher

	state SaveState
	now   func() time.Time
}

func NewSaver(
	users repository.UserRepository,
	stores repository.StoreRepository,
	products repository.ProductRepository,
	images repository.ProductImageRepository,
	store storage.ObjectStorage,
	events EventPublisher,
) *Saver {
	return &Saver{
		users:    users,
		stores:   stores,
		products: products,
		images:   images,
		storage:  store,
		events:   events,
		state:    StateIdle,
		now:      time.Now,
	}
}

// State returns the current protocol phase
func (s *Saver) State() SaveState {
	return s.state
}

// ResolveSession looks up the authenticated user and their store. A
// missing user means the session is gone; an existing user without a
// store means onboarding never finished, which is a distinct error the
// dashboard routes to store setup.
func (s *Saver) ResolveSession(ctx context.Context, userID uint) (Session, error) {
	if userID == 0 {
		return Session{}, ErrUnauthenticated
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Session{}, ErrUnauthenticated
		}
		return Session{}, err
	}

	store, err := s.stores.FindByUserID(user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Session{}, ErrStoreProfileMissing
		}
		return Session{}, err
	}

	return Session{UserID: user.ID, StoreID: store.ID}, nil
}

// Save runs the full protocol: resolve identity, validate the draft,
// write the record, then upload staged images best-effort. Nothing is
// written before validation passes. Image uploads run sequentially and
// a per-file failure is logged and skipped; only successfully uploaded
// files get link rows.
func (s *Saver) Save(ctx context.Context, userID uint, draft *ProductDraft, staged *StagingBuffer) (*SaveResult, error) {
	s.state = StateResolvingIdentity
	session, err := s.ResolveSession(ctx, userID)
	if err != nil {
		s.state = StateFailed
		return nil, err
	}

	s.state = StateValidating
	if fieldErrors := draft.Validate(); len(fieldErrors) > 0 {
		s.state = StateFailed
		logger.Debug("Product draft rejected by validation", map[string]interface{}{
			"store_id": session.StoreID,
			"fields":   len(fieldErrors),
		})
		return nil, &ValidationError{Fields: fieldErrors, Tab: FirstErrorTab(fieldErrors)}
	}

	s.state = StatePersistingRecord
	record := draft.BuildRecord(session.StoreID)

	if draft.ID == 0 {
		if err := s.products.Create(record); err != nil {
			s.state = StateFailed
			return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
		}
	} else {
		existing, err := s.products.FindByID(draft.ID)
		if err != nil {
			s.state = StateFailed
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
		}
		if existing.StoreID != session.StoreID {
			s.state = StateFailed
			return nil, ErrProductAccessDenied
		}
		record.CreatedAt = existing.CreatedAt
		if err := s.products.Update(record); err != nil {
			s.state = StateFailed
			return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
		}
	}

	s.state = StateUploadingImages
	result := &SaveResult{Product: record}
	s.uploadStaged(ctx, session, record, staged, result)

	s.state = StateDone
	staged.Release()

	if s.events != nil {
		s.events.PublishProductSaved(session.StoreID, record.ID, record.Name)
	}

	logger.Info("Product saved", map[string]interface{}{
		"product_id": record.ID,
		"store_id":   session.StoreID,
		"uploaded":   len(result.UploadedURLs),
		"failed":     len(result.Failures),
	})
	return result, nil
}

// uploadStaged pushes staged files one at a time. The record is already
// committed, so failures here only shrink the image set.
func (s *Saver) uploadStaged(ctx context.Context, session Session, record *model.Product, staged *StagingBuffer, result *SaveResult) {
	for i, file := range staged.Files() {
		key := s.objectKey(session.StoreID, i, file.Name)

		url, err := s.storage.Upload(ctx, key, file.ContentType, bytes.NewReader(file.Data))
		if err != nil {
			logger.Warn("Image upload failed, skipping file", map[string]interface{}{
				"product_id": record.ID,
				"index":      i,
				"file":       file.Name,
				"error":      err.Error(),
			})
			result.Failures = append(result.Failures, UploadFailure{Index: i, Name: file.Name, Err: err})
			continue
		}

		link := &model.ProductImage{
			ProductID: record.ID,
			ImageURL:  url,
			Position:  i,
		}
		if err := s.images.Create(link); err != nil {
			logger.Warn("Image uploaded but link row failed, skipping file", map[string]interface{}{
				"product_id": record.ID,
				"index":      i,
				"file":       file.Name,
				"error":      err.Error(),
			})
			result.Failures = append(result.Failures, UploadFailure{Index: i, Name: file.Name, Err: err})
			continue
		}

		record.Images = append(record.Images, *link)
		result.UploadedURLs = append(result.UploadedURLs, url)
	}

	// Backfill the primary image from the first successful upload so
	// listings have a thumbnail. Best-effort like the uploads
	// themselves.
	if record.ImageURL == "" && len(result.UploadedURLs) > 0 {
		record.ImageURL = result.UploadedURLs[0]
		if err := s.products.Update(record); err != nil {
			logger.Warn("Failed to set primary image on product", map[string]interface{}{
				"product_id": record.ID,
				"error":      err.Error(),
			})
			record.ImageURL = ""
		}
	}
}

// objectKey builds the storage path for one staged image. The
// timestamp plus index keeps keys unique across saves of the same
// product.
func (s *Saver) objectKey(storeID uint, index int, filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".png"
	}
	return fmt.Sprintf("products/%d/%d-%d%s", storeID, s.now().UnixMilli(), index, ext)
}
