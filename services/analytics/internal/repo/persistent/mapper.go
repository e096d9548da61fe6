package persistent

import (
	"hookr/pkg/models"
	"hookr/services/analytics/internal/entity"
)

func ToPostRef(m *models.Post) *entity.PostRef {
	if m == nil {
		return nil
	}
	return &entity.PostRef{
		ID:            m.ID,
		CreatorID:     m.CreatorID,
		Views:         m.Views,
		LikesCount:    m.LikesCount,
		CommentsCount: m.CommentsCount,
	}
}

func ToCredit(m *models.Transaction) entity.Credit {
	return entity.Credit{AmountCents: m.AmountCents, CreatedAt: m.CreatedAt}
}

// incomeTypes are the transaction types that count as creator income.
var incomeTypes = []models.TransactionType{models.TransactionEarning, models.TransactionTip}

type tipTotals struct {
	Count int64
	Total int64
}
