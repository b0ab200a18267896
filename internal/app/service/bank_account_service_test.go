package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/filemart/filemart-backend/internal/app/model"
	"github.com/filemart/filemart-backend/internal/app/repository"
	"github.com/filemart/filemart-backend/internal/db"
)

func setupBankAccountServiceTest(t *testing.T) (BankAccountService, *gorm.DB, *model.Store, *model.Store) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	owner := createTestUser(t, testDB, "owner@example.com")
	store := &model.Store{UserID: owner.ID, Name: "Main Store"}
	require.NoError(t, testDB.Create(store).Error)

	other := createTestUser(t, testDB, "other@example.com")
	otherStore := &model.Store{UserID: other.ID, Name: "Other Store"}
	require.NoError(t, testDB.Create(otherStore).Error)

	accountRepo := repository.NewBankAccountRepository(testDB)
	return NewBankAccountService(accountRepo), testDB, store, otherStore
}

func TestBankAccountService_CRUD(t *testing.T) {
	accountService, _, store, otherStore := setupBankAccountServiceTest(t)

	account, err := accountService.Create(store.ID, BankAccountInput{
		BankName:      "First Bank",
		AccountNumber: "110-123-456789",
		AccountOwner:  "Kim Owner",
	})
	require.NoError(t, err)
	assert.NotZero(t, account.ID)

	accounts, err := accountService.ListByStore(store.ID)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)

	// Other store sees nothing and cannot modify
	accounts, err = accountService.ListByStore(otherStore.ID)
	require.NoError(t, err)
	assert.Len(t, accounts, 0)

	_, err = accountService.Update(otherStore.ID, account.ID, BankAccountInput{BankName: "Stolen"})
	assert.ErrorIs(t, err, ErrBankAccountAccessDenied)

	updated, err := accountService.Update(store.ID, account.ID, BankAccountInput{
		BankName:      "Second Bank",
		AccountNumber: "220-987-654321",
		AccountOwner:  "Kim Owner",
	})
	require.NoError(t, err)
	assert.Equal(t, "Second Bank", updated.BankName)

	err = accountService.Delete(otherStore.ID, account.ID)
	assert.ErrorIs(t, err, ErrBankAccountAccessDenied)

	require.NoError(t, accountService.Delete(store.ID, account.ID))

	err = accountService.Delete(store.ID, account.ID)
	assert.ErrorIs(t, err, ErrBankAccountNotFound)
}
