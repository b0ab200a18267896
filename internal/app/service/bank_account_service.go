package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/filemart/filemart-backend/internal/app/model"
	"github.com/filemart/filemart-backend/internal/app/repository"
	"github.com/filemart/filemart-backend/pkg/logger"
)

var (
	ErrBankAccountNotFound     = errors.New("bank account not found")
	ErrBankAccountAccessDenied = errors.New("bank account belongs to another store")
)

// BankAccountInput carries the editable payout destination fields
type BankAccountInput struct {
	BankName      string
	AccountNumber string
	AccountOwner  string
}

type BankAccountService interface {
	ListByStore(storeID uint) ([]model.BankAccount, error)
	Create(storeID uint, input BankAccountInput) (*model.BankAccount, error)
	Update(storeID, accountID uint, input BankAccountInput) (*model.BankAccount, error)
	Delete(storeID, accountID uint) error
}

type bankAccountService struct {
	accountRepo repository.BankAccountRepository
}

func NewBankAccountService(accountRepo repository.BankAccountRepository) BankAccountService {
	return &bankAccountService{accountRepo: accountRepo}
}

func (s *bankAccountService) ListByStore(storeID uint) ([]model.BankAccount, error) {
	return s.accountRepo.FindByStore(storeID)
}

func (s *bankAccountService) Create(storeID uint, input BankAccountInput) (*model.BankAccount, error) {
	account := &model.BankAccount{
		StoreID:       storeID,
		BankName:      input.BankName,
		AccountNumber: input.AccountNumber,
		AccountOwner:  input.AccountOwner,
	}

	if err := s.accountRepo.Create(account); err != nil {
		return nil, err
	}

	logger.Info("Bank account added", map[string]interface{}{
		"account_id": account.ID,
		"store_id":   storeID,
	})
	return account, nil
}

func (s *bankAccountService) Update(storeID, accountID uint, input BankAccountInput) (*model.BankAccount, error) {
	account, err := s.findOwned(storeID, accountID)
	if err != nil {
		return nil, err
	}

	account.BankName = input.BankName
	account.AccountNumber = input.AccountNumber
	account.AccountOwner = input.AccountOwner

	if err := s.accountRepo.Update(account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *bankAccountService) Delete(storeID, accountID uint) error {
	if _, err := s.findOwned(storeID, accountID); err != nil {
		return err
	}

	if err := s.accountRepo.Delete(accountID); err != nil {
		return err
	}

	logger.Info("Bank account removed", map[string]interface{}{
		"account_id": accountID,
		"store_id":   storeID,
	})
	return nil
}

func (s *bankAccountService) findOwned(storeID, accountID uint) (*model.BankAccount, error) {
	account, err := s.accountRepo.FindByID(accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBankAccountNotFound
		}
		return nil, err
	}
	if account.StoreID != storeID {
		logger.Warn("Bank account access denied", map[string]interface{}{
			"account_id": accountID,
			"store_id":   storeID,
			"owner_id":   account.StoreID,
		})
		return nil, ErrBankAccountAccessDenied
	}
	return account, nil
}
