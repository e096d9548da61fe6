package persistent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hookr/pkg/models"
	"hookr/services/wallet/internal/entity"

	"gorm.io/gorm"
)

type WalletRepository interface {
	GetOrCreateWallet(ctx context.Context, userID string) (*entity.Wallet, error)
	TopUp(ctx context.Context, userID string, amountCents int64) (*entity.Wallet, error)
	Tip(ctx context.Context, fromUserID string, post *entity.PostRef, amountCents int64) (*entity.Wallet, error)
	GetTransactions(ctx context.Context, userID string, limit, offset int) ([]*entity.Transaction, error)
	GetModel(ctx context.Context, modelID string) (*entity.ModelRef, error)
	GetPost(ctx context.Context, postID string) (*entity.PostRef, error)
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) GetOrCreateWallet(ctx context.Context, userID string) (*entity.Wallet, error) {
	wallet, err := ensureWallet(r.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	return ToWalletEntity(wallet), nil
}

func ensureWallet(tx *gorm.DB, userID string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := tx.Where(models.Wallet{UserID: userID}).FirstOrCreate(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

// adjust moves a wallet balance by delta and returns the new balance.
// A debit only succeeds while the balance covers it.
func adjust(tx *gorm.DB, userID string, delta int64) (int64, error) {
	if _, err := ensureWallet(tx, userID); err != nil {
		return 0, err
	}

	q := tx.Model(&models.Wallet{}).Where("user_id = ?", userID)
	if delta < 0 {
		q = q.Where("balance_cents >= ?", -delta)
	}
	res := q.Updates(map[string]interface{}{
		"balance_cents": gorm.Expr("balance_cents + ?", delta),
		"updated_at":    time.Now(),
	})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, entity.ErrInsufficientFunds
	}

	var balance int64
	if err := tx.Model(&models.Wallet{}).Select("balance_cents").Where("user_id = ?", userID).Scan(&balance).Error; err != nil {
		return 0, err
	}
	return balance, nil
}

func record(tx *gorm.DB, userID string, kind models.TransactionType, amount, balanceAfter int64, referenceID, description string) error {
	return tx.Create(&models.Transaction{
		UserID:       userID,
		Type:         kind,
		AmountCents:  amount,
		BalanceAfter: balanceAfter,
		ReferenceID:  referenceID,
		Description:  description,
	}).Error
}

func (r *walletRepository) TopUp(ctx context.Context, userID string, amountCents int64) (*entity.Wallet, error) {
	var wallet *models.Wallet
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		balance, err := adjust(tx, userID, amountCents)
		if err != nil {
			return err
		}
		if err := record(tx, userID, models.TransactionTopUp, amountCents, balance, "", "Wallet top-up"); err != nil {
			return err
		}
		wallet, err = ensureWallet(tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToWalletEntity(wallet), nil
}

func (r *walletRepository) Tip(ctx context.Context, fromUserID string, post *entity.PostRef, amountCents int64) (*entity.Wallet, error) {
	var wallet *models.Wallet
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		balance, err := adjust(tx, fromUserID, -amountCents)
		if err != nil {
			return err
		}
		if err := record(tx, fromUserID, models.TransactionTip, -amountCents, balance, post.ID, "Tip sent"); err != nil {
			return err
		}

		creatorBalance, err := adjust(tx, post.CreatorID, amountCents)
		if err != nil {
			return err
		}
		if err := record(tx, post.CreatorID, models.TransactionTip, amountCents, creatorBalance, post.ID, "Tip received"); err != nil {
			return err
		}

		wallet, err = ensureWallet(tx, fromUserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToWalletEntity(wallet), nil
}

func (r *walletRepository) GetTransactions(ctx context.Context, userID string, limit, offset int) ([]*entity.Transaction, error) {
	var rows []models.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	transactions := make([]*entity.Transaction, len(rows))
	for i := range rows {
		transactions[i] = ToTransactionEntity(&rows[i])
	}
	return transactions, nil
}

func (r *walletRepository) GetModel(ctx context.Context, modelID string) (*entity.ModelRef, error) {
	var m models.CreatorProfile
	err := r.db.WithContext(ctx).Select("id", "user_id", "name").Where("id = ?", modelID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrModelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}
	return &entity.ModelRef{ID: m.ID, UserID: m.UserID, Name: m.Name}, nil
}

func (r *walletRepository) GetPost(ctx context.Context, postID string) (*entity.PostRef, error) {
	var p models.Post
	err := r.db.WithContext(ctx).Select("id", "model_id", "creator_id").Where("id = ?", postID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	return &entity.PostRef{ID: p.ID, ModelID: p.ModelID, CreatorID: p.CreatorID}, nil
}
