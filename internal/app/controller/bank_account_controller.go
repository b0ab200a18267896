package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/filemart/filemart-backend/internal/app/service"
	apperrors "github.com/filemart/filemart-backend/internal/errors"
)

type BankAccountController struct {
	accountService service.BankAccountService
	storeService   service.StoreService
}

func NewBankAccountController(accountService service.BankAccountService, storeService service.StoreService) *BankAccountController {
	return &BankAccountController{
		accountService: accountService,
		storeService:   storeService,
	}
}

type BankAccountRequest struct {
	BankName      string `json:"bank_name" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required"`
	AccountOwner  string `json:"account_owner" binding:"required"`
}

// ListBankAccounts lists the store's payout destinations
// GET /api/v1/merchant/bank-accounts
func (ctrl *BankAccountController) ListBankAccounts(c *gin.Context) {
	storeID, ok := resolveStore(c, ctrl.storeService)
	if !ok {
		return
	}

	accounts, err := ctrl.accountService.ListByStore(storeID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list bank accounts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bank_accounts": accounts,
		"count":         len(accounts),
	})
}

// CreateBankAccount adds a payout destination
// POST /api/v1/merchant/bank-accounts
func (ctrl *BankAccountController) CreateBankAccount(c *gin.Context) {
	storeID, ok := resolveStore(c, ctrl.storeService)
	if !ok {
		return
	}

	var req BankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Bank name, account number and owner are required")
		return
	}

	account, err := ctrl.accountService.Create(storeID, service.BankAccountInput{
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		AccountOwner:  req.AccountOwner,
	})
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create bank account")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bank_account": account})
}

// UpdateBankAccount edits a payout destination
// PUT /api/v1/merchant/bank-accounts/:id
func (ctrl *BankAccountController) UpdateBankAccount(c *gin.Context) {
	storeID, ok := resolveStore(c, ctrl.storeService)
	if !ok {
		return
	}

	accountID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid bank account ID")
		return
	}

	var req BankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Bank name, account number and owner are required")
		return
	}

	account, err := ctrl.accountService.Update(storeID, uint(accountID), service.BankAccountInput{
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		AccountOwner:  req.AccountOwner,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBankAccountNotFound):
			apperrors.NotFound(c, apperrors.BankAccountMissing, "Bank account not found")
		case errors.Is(err, service.ErrBankAccountAccessDenied):
			apperrors.Forbidden(c, "You do not have permission to modify this bank account")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update bank account")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"bank_account": account})
}

// DeleteBankAccount removes a payout destination
// DELETE /api/v1/merchant/bank-accounts/:id
func (ctrl *BankAccountController) DeleteBankAccount(c *gin.Context) {
	storeID, ok := resolveStore(c, ctrl.storeService)
	if !ok {
		return
	}

	accountID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid bank account ID")
		return
	}

	if err := ctrl.accountService.Delete(storeID, uint(accountID)); err != nil {
		switch {
		case errors.Is(err, service.ErrBankAccountNotFound):
			apperrors.NotFound(c, apperrors.BankAccountMissing, "Bank account not found")
		case errors.Is(err, service.ErrBankAccountAccessDenied):
			apperrors.Forbidden(c, "You do not have permission to modify this bank account")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete bank account")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bank account deleted"})
}
