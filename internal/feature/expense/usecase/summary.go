package usecase

import (
	"context"

	"expense_backend/internal/feature/expense/domain/entity"
)

// CategoryTotal is the summed amount for a single category.
type CategoryTotal struct {
	Category entity.Category
	Total    float64
}

// Summary is the derived aggregate over a user's expense list.
// It is recomputed from the list on every request; there is no stored state.
type Summary struct {
	// Total is the sum of all expense amounts.
	Total float64

	// Count is the number of expenses.
	Count int

	// Average is Total/Count, or 0 when there are no expenses.
	Average float64

	// ByCategory holds per-category sums, ordered by first occurrence in the
	// CreatedAt-descending expense list. Categories without expenses are absent.
	ByCategory []CategoryTotal

	// TopCategory is the category with the largest summed amount.
	// On an exact tie the category first encountered in ByCategory order wins.
	// Empty when there are no expenses.
	TopCategory entity.Category
}

// Summary computes the aggregate view of the user's expenses.
func (u *expenseUsecase) Summary(ctx context.Context, userID string) (*Summary, error) {
	expenses, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summarize(expenses), nil
}

// summarize derives the aggregate purely from the given list.
func summarize(expenses []entity.Expense) *Summary {
	s := &Summary{Count: len(expenses)}

	index := make(map[entity.Category]int)
	for _, e := range expenses {
		s.Total += e.Amount

		i, ok := index[e.Category]
		if !ok {
			i = len(s.ByCategory)
			index[e.Category] = i
			s.ByCategory = append(s.ByCategory, CategoryTotal{Category: e.Category})
		}
		s.ByCategory[i].Total += e.Amount
	}

	if s.Count > 0 {
		s.Average = s.Total / float64(s.Count)
	}

	// 最大値が並んだ場合は先に出現したカテゴリを採用する
	var best float64
	for _, ct := range s.ByCategory {
		if ct.Total > best {
			best = ct.Total
			s.TopCategory = ct.Category
		}
	}

	return s
}
