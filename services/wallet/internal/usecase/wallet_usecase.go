package usecase

import (
	"context"
	"fmt"
	"strconv"

	"hookr/pkg/logger"
	"hookr/pkg/queue"
	"hookr/services/wallet/internal/entity"
	"hookr/services/wallet/internal/repo/persistent"
)

type WalletUseCase interface {
	GetWallet(ctx context.Context, userID string) (*entity.Wallet, error)
	TopUp(ctx context.Context, userID string, amountCents int64) (*entity.Wallet, error)
	GetTransactions(ctx context.Context, userID string, limit, offset int) ([]*entity.Transaction, error)
	TipPost(ctx context.Context, userID, postID string, amountCents int64) (*entity.Wallet, error)
}

type walletUseCase struct {
	walletRepo persistent.WalletRepository
	publisher  queue.Publisher
	logger     *logger.Logger
}

func NewWalletUseCase(walletRepo persistent.WalletRepository, publisher queue.Publisher, logger *logger.Logger) WalletUseCase {
	return &walletUseCase{
		walletRepo: walletRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

func (uc *walletUseCase) GetWallet(ctx context.Context, userID string) (*entity.Wallet, error) {
	wallet, err := uc.walletRepo.GetOrCreateWallet(ctx, userID)
	if err != nil {
		uc.logger.Error("Failed to get wallet: %v", err)
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return wallet, nil
}

func (uc *walletUseCase) TopUp(ctx context.Context, userID string, amountCents int64) (*entity.Wallet, error) {
	if amountCents < entity.MinTopUpCents || amountCents > entity.MaxTopUpCents {
		return nil, entity.ErrInvalidAmount
	}

	wallet, err := uc.walletRepo.TopUp(ctx, userID, amountCents)
	if err != nil {
		uc.logger.Error("Failed to top up wallet for %s: %v", userID, err)
		return nil, fmt.Errorf("failed to top up wallet: %w", err)
	}
	uc.logger.Info("Wallet %s topped up by %d cents, balance %d", userID, amountCents, wallet.BalanceCents)
	return wallet, nil
}

func (uc *walletUseCase) GetTransactions(ctx context.Context, userID string, limit, offset int) ([]*entity.Transaction, error) {
	transactions, err := uc.walletRepo.GetTransactions(ctx, userID, limit, offset)
	if err != nil {
		uc.logger.Error("Failed to get transactions: %v", err)
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return transactions, nil
}

func (uc *walletUseCase) TipPost(ctx context.Context, userID, postID string, amountCents int64) (*entity.Wallet, error) {
	if amountCents <= 0 || amountCents > entity.MaxTopUpCents {
		return nil, entity.ErrInvalidAmount
	}

	post, err := uc.walletRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.CreatorID == userID {
		return nil, entity.ErrOwnPost
	}

	wallet, err := uc.walletRepo.Tip(ctx, userID, post, amountCents)
	if err != nil {
		return nil, err
	}

	if uc.publisher != nil {
		task := queue.NewTask(queue.TaskTip)
		task.UserID = post.CreatorID
		task.ActorID = userID
		task.PostID = post.ID
		task.ModelID = post.ModelID
		task.Data = map[string]string{"amount_cents": strconv.FormatInt(amountCents, 10)}
		if err := uc.publisher.Publish(ctx, task); err != nil {
			uc.logger.Error("[NOTIFICATION QUEUE] Failed to publish tip task: %v", err)
		}
	}
	return wallet, nil
}
