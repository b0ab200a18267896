package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/filemart/filemart-backend/internal/app/model"
	"github.com/filemart/filemart-backend/internal/app/repository"
	"github.com/filemart/filemart-backend/internal/db"
)

// fakeStorage is an in-memory blob store with per-call failure
// injection, keyed by upload order
type fakeStorage struct {
	objects map[string][]byte
	failOn  map[int]bool
	calls   int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		objects: make(map[string][]byte),
		failOn:  make(map[int]bool),
	}
}

func (f *fakeStorage) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	call := f.calls
	f.calls++
	if f.failOn[call] {
		return "", fmt.Errorf("injected upload failure on call %d", call)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.objects[key] = data
	return f.PublicURL(key), nil
}

func (f *fakeStorage) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

type recordedEvent struct {
	storeID   uint
	productID uint
	name      string
}

type fakePublisher struct {
	events []recordedEvent
}

func (p *fakePublisher) PublishProductSaved(storeID, productID uint, name string) {
	p.events = append(p.events, recordedEvent{storeID, productID, name})
}

type saveFixture struct {
	db        *gorm.DB
	saver     *Saver
	storage   *fakeStorage
	publisher *fakePublisher
	user      *model.User
	store     *model.Store
}

func setupSaveTest(t *testing.T) *saveFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	user := &model.User{Email: "owner@filemart.test", PasswordHash: "x", Name: "Owner", Role: model.RoleMerchant}
	require.NoError(t, testDB.Create(user).Error)

	store := &model.Store{UserID: user.ID, Name: "Test Store"}
	require.NoError(t, testDB.Create(store).Error)

	fs := newFakeStorage()
	pub := &fakePublisher{}
	saver := NewSaver(
		repository.NewUserRepository(testDB),
		repository.NewStoreRepository(testDB),
		repository.NewProductRepository(testDB),
		repository.NewProductImageRepository(testDB),
		fs,
		pub,
	)
	saver.now = func() time.Time { return time.UnixMilli(1700000000000) }

	return &saveFixture{db: testDB, saver: saver, storage: fs, publisher: pub, user: user, store: store}
}

func (f *saveFixture) productCount(t *testing.T) int64 {
	var count int64
	require.NoError(t, f.db.Model(&model.Product{}).Count(&count).Error)
	return count
}

func (f *saveFixture) imageCount(t *testing.T) int64 {
	var count int64
	require.NoError(t, f.db.Model(&model.ProductImage{}).Count(&count).Error)
	return count
}

func TestSaver_Save_CreatesProduct(t *testing.T) {
	f := setupSaveTest(t)

	draft := validDraft()
	staged := NewStagingBuffer()
	staged.AddFiles(stagedFiles(3)...)

	result, err := f.saver.Save(context.Background(), f.user.ID, draft, staged)
	require.NoError(t, err)
	assert.Equal(t, StateDone, f.saver.State())

	require.NotNil(t, result.Product)
	assert.NotZero(t, result.Product.ID)
	assert.Equal(t, f.store.ID, result.Product.StoreID)
	assert.Len(t, result.UploadedURLs, 3)
	assert.Empty(t, result.Failures)

	// Object keys live under the store's folder, in selection order
	for key := range f.storage.objects {
		assert.True(t, strings.HasPrefix(key, fmt.Sprintf("products/%d/1700000000000-", f.store.ID)), key)
		assert.True(t, strings.HasSuffix(key, ".jpg"), key)
	}

	assert.Equal(t, int64(3), f.imageCount(t))
	assert.Equal(t, result.UploadedURLs[0], result.Product.ImageURL)

	// Editor is torn down after a successful save
	assert.Equal(t, 0, staged.Len())

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, f.store.ID, f.publisher.events[0].storeID)
	assert.Equal(t, result.Product.ID, f.publisher.events[0].productID)
}

func TestSaver_Save_ValidationWritesNothing(t *testing.T) {
	f := setupSaveTest(t)

	draft := validDraft()
	draft.Name = ""
	staged := NewStagingBuffer()
	staged.AddFiles(stagedFiles(2)...)

	result, err := f.saver.Save(context.Background(), f.user.ID, draft, staged)
	assert.Nil(t, result)
	assert.Equal(t, StateFailed, f.saver.State())

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "name")
	assert.Equal(t, TabBasicInfo, vErr.Tab)

	// No record, no objects, no link rows
	assert.Equal(t, int64(0), f.productCount(t))
	assert.Equal(t, int64(0), f.imageCount(t))
	assert.Empty(t, f.storage.objects)

	// Staged files survive a rejected save so the author can fix and retry
	assert.Equal(t, 2, staged.Len())
}

func TestSaver_Save_IdentityErrors(t *testing.T) {
	f := setupSaveTest(t)

	// Unknown session
	_, err := f.saver.Save(context.Background(), 0, validDraft(), NewStagingBuffer())
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.saver.Save(context.Background(), 9999, validDraft(), NewStagingBuffer())
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// Authenticated user who never finished store setup
	noStore := &model.User{Email: "new@filemart.test", PasswordHash: "x", Name: "New", Role: model.RoleMerchant}
	require.NoError(t, f.db.Create(noStore).Error)

	_, err = f.saver.Save(context.Background(), noStore.ID, validDraft(), NewStagingBuffer())
	assert.ErrorIs(t, err, ErrStoreProfileMissing)

	assert.Equal(t, int64(0), f.productCount(t))
}

func TestSaver_Save_PartialUploadFailure(t *testing.T) {
	f := setupSaveTest(t)
	f.storage.failOn[1] = true // second upload fails

	staged := NewStagingBuffer()
	staged.AddFiles(stagedFiles(3)...)

	result, err := f.saver.Save(context.Background(), f.user.ID, validDraft(), staged)
	require.NoError(t, err, "a failed upload must not fail the save")
	assert.Equal(t, StateDone, f.saver.State())

	assert.Len(t, result.UploadedURLs, 2)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, 1, result.Failures[0].Index)
	assert.Equal(t, "photo-1.jpg", result.Failures[0].Name)

	// Only successful uploads get link rows
	assert.Equal(t, int64(2), f.imageCount(t))

	var images []model.ProductImage
	require.NoError(t, f.db.Order("position ASC").Find(&images).Error)
	assert.Equal(t, 0, images[0].Position)
	assert.Equal(t, 2, images[1].Position)
}

func TestSaver_Save_EditOwnership(t *testing.T) {
	f := setupSaveTest(t)

	// Seed a product owned by another store
	other := &model.User{Email: "other@filemart.test", PasswordHash: "x", Name: "Other", Role: model.RoleMerchant}
	require.NoError(t, f.db.Create(other).Error)
	otherStore := &model.Store{UserID: other.ID, Name: "Other Store"}
	require.NoError(t, f.db.Create(otherStore).Error)

	foreign := &model.Product{StoreID: otherStore.ID, Name: "Foreign", Price: 100, Status: model.StatusPublished, StockStatus: model.StockInStock, SKU: "FM-OTHER1"}
	require.NoError(t, f.db.Create(foreign).Error)

	draft := validDraft()
	draft.ID = foreign.ID
	_, err := f.saver.Save(context.Background(), f.user.ID, draft, NewStagingBuffer())
	assert.ErrorIs(t, err, ErrProductAccessDenied)

	// Unknown product id
	draft.ID = 9999
	_, err = f.saver.Save(context.Background(), f.user.ID, draft, NewStagingBuffer())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSaver_Save_EditUpdatesInPlace(t *testing.T) {
	f := setupSaveTest(t)

	created, err := f.saver.Save(context.Background(), f.user.ID, validDraft(), NewStagingBuffer())
	require.NoError(t, err)

	loaded, err := repository.NewProductRepository(f.db).FindByID(created.Product.ID)
	require.NoError(t, err)

	draft := DraftFromProduct(loaded)
	draft.Name = "Renamed Mug"
	draft.Price = "9,900"

	updated, err := f.saver.Save(context.Background(), f.user.ID, draft, NewStagingBuffer())
	require.NoError(t, err)
	assert.Equal(t, created.Product.ID, updated.Product.ID)
	assert.Equal(t, int64(1), f.productCount(t))

	reloaded, err := repository.NewProductRepository(f.db).FindByID(created.Product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Mug", reloaded.Name)
	assert.InDelta(t, 9900, reloaded.Price, 0.001)
	assert.Equal(t, loaded.SKU, reloaded.SKU, "untouched fields survive an edit")
}
