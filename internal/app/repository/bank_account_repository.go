package repository

import (
	"github.com/filemart/filemart-backend/internal/app/model"
	"github.com/filemart/filemart-backend/pkg/logger"
	"gorm.io/gorm"
)

type BankAccountRepository interface {
	Create(account *model.BankAccount) error
	FindByStore(storeID uint) ([]model.BankAccount, error)
	FindByID(id uint) (*model.BankAccount, error)
	Update(account *model.BankAccount) error
	Delete(id uint) error
}

type bankAccountRepository struct {
	db *gorm.DB
}

func NewBankAccountRepository(db *gorm.DB) BankAccountRepository {
	return &bankAccountRepository{db: db}
}

func (r *bankAccountRepository) Create(account *model.BankAccount) error {
	if err := r.db.Create(account).Error; err != nil {
		logger.Error("Failed to create bank account in database", err, map[string]interface{}{
			"bank_name": account.BankName,
			"store_id":  account.StoreID,
		})
		return err
	}

	logger.Debug("Bank account created in database", map[string]interface{}{
		"account_id": account.ID,
		"store_id":   account.StoreID,
	})
	return nil
}

func (r *bankAccountRepository) FindByStore(storeID uint) ([]model.BankAccount, error) {
	var accounts []model.BankAccount
	if err := r.db.Where("store_id = ?", storeID).Order("created_at DESC").Find(&accounts).Error; err != nil {
		logger.Error("Failed to find bank accounts by store", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}
	return accounts, nil
}

func (r *bankAccountRepository) FindByID(id uint) (*model.BankAccount, error) {
	var account model.BankAccount
	if err := r.db.First(&account, id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *bankAccountRepository) Update(account *model.BankAccount) error {
	if err := r.db.Save(account).Error; err != nil {
		logger.Error("Failed to update bank account in database", err, map[string]interface{}{
			"account_id": account.ID,
		})
		return err
	}
	return nil
}

func (r *bankAccountRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.BankAccount{}, id).Error; err != nil {
		logger.Error("Failed to delete bank account from database", err, map[string]interface{}{
			"account_id": id,
		})
		return err
	}
	return nil
}
