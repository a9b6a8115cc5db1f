package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"hearth/database"
	"hearth/middleware"
	"hearth/models"
	"hearth/services"
)

// GetAllowance returns a child's allowance account. Children can see
// their own; parents can see anyone's.
func GetAllowance(c *fiber.Ctx) error {
	account, errResp := allowanceAccount(c)
	if account == nil {
		return errResp
	}

	return c.JSON(account)
}

// ListAllowanceTransactions returns an account's transaction history
func ListAllowanceTransactions(c *fiber.Ctx) error {
	account, errResp := allowanceAccount(c)
	if account == nil {
		return errResp
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var transactions []models.AllowanceTransaction
	if result := database.DB.Where("account_id = ?", account.ID).Order("created_at DESC").Limit(limit).Find(&transactions); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch transactions",
		})
	}

	return c.JSON(transactions)
}

// DepositAllowance splits a deposit across the spend/save/give
// buckets by the household split percentages (parent only).
func DepositAllowance(c *fiber.Ctx) error {
	account, errResp := allowanceAccount(c)
	if account == nil {
		return errResp
	}

	var input models.AllowanceInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if input.Cents <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Deposit amount must be positive",
		})
	}

	settings, err := loadSettings()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load settings",
		})
	}

	// Integer split; remainder cents land in the spend bucket
	spend := input.Cents * int64(settings.SplitSpendPct) / 100
	save := input.Cents * int64(settings.SplitSavePct) / 100
	give := input.Cents * int64(settings.SplitGivePct) / 100
	spend += input.Cents - spend - save - give

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		account.SpendCents += spend
		account.SaveCents += save
		account.GiveCents += give
		if err := tx.Save(account).Error; err != nil {
			return err
		}
		return tx.Create(&models.AllowanceTransaction{
			AccountID: account.ID,
			Kind:      models.TransactionDeposit,
			Cents:     input.Cents,
			Memo:      input.Memo,
			EnteredBy: middleware.GetUserID(c),
		}).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record deposit",
		})
	}

	username := middleware.GetUsername(c)
	details := fmt.Sprintf("Deposited %d cents to account %d", input.Cents, account.ID)
	services.LogActivity(middleware.GetUserID(c), username, models.ActivityAllowanceDeposit, &account.ID, details, c.IP())

	return c.JSON(account)
}

// WithdrawAllowance takes money out of one bucket (parent only)
func WithdrawAllowance(c *fiber.Ctx) error {
	account, errResp := allowanceAccount(c)
	if account == nil {
		return errResp
	}

	var input models.AllowanceInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if input.Cents <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Withdrawal amount must be positive",
		})
	}

	var balance *int64
	switch input.Bucket {
	case models.BucketSpend:
		balance = &account.SpendCents
	case models.BucketSave:
		balance = &account.SaveCents
	case models.BucketGive:
		balance = &account.GiveCents
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Bucket must be spend, save, or give",
		})
	}

	if *balance < input.Cents {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Insufficient balance in " + string(input.Bucket) + " bucket",
		})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		*balance -= input.Cents
		if err := tx.Save(account).Error; err != nil {
			return err
		}
		return tx.Create(&models.AllowanceTransaction{
			AccountID: account.ID,
			Kind:      models.TransactionWithdraw,
			Bucket:    input.Bucket,
			Cents:     input.Cents,
			Memo:      input.Memo,
			EnteredBy: middleware.GetUserID(c),
		}).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record withdrawal",
		})
	}

	username := middleware.GetUsername(c)
	details := fmt.Sprintf("Withdrew %d cents from %s", input.Cents, input.Bucket)
	services.LogActivity(middleware.GetUserID(c), username, models.ActivityAllowanceWithdraw, &account.ID, details, c.IP())

	return c.JSON(account)
}

// allowanceAccount resolves the :userID param into an account the
// caller may touch. On failure it returns (nil, response-error).
func allowanceAccount(c *fiber.Ctx) (*models.AllowanceAccount, error) {
	targetID, err := strconv.ParseUint(c.Params("userID"), 10, 32)
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid member ID",
		})
	}

	if !middleware.IsParent(c) && middleware.GetUserID(c) != uint(targetID) {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You can only view your own allowance",
		})
	}

	var account models.AllowanceAccount
	result := database.DB.Where("user_id = ?", targetID).First(&account)
	if result.Error != nil {
		// Accounts are created lazily for members that predate them
		var user models.User
		if r := database.DB.First(&user, targetID); r.Error != nil {
			return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Member not found",
			})
		}
		account = models.AllowanceAccount{UserID: uint(targetID)}
		if r := database.DB.Create(&account); r.Error != nil {
			return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to create allowance account",
			})
		}
	}

	return &account, nil
}
