// Package adapters はexpenseフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"expense_backend/internal/feature/expense/domain/entity"
	"expense_backend/internal/feature/expense/usecase"
)

// expenseGorm はExpenseRepositoryインターフェースのGORM実装です。
type expenseGorm struct {
	db *gorm.DB
}

// expenseGormがExpenseRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.ExpenseRepository = (*expenseGorm)(nil)

// NewExpenseGorm は指定されたgorm.DB接続でexpenseGormの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタです。
func NewExpenseGorm(db *gorm.DB) *expenseGorm {
	return &expenseGorm{db: db}
}

// Create は支出をデータベースに追加します。
func (r *expenseGorm) Create(ctx context.Context, e *entity.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// FindByID はIDで支出を取得します。
// 支出が存在しない場合、usecase.ErrExpenseNotFoundを返します。
func (r *expenseGorm) FindByID(ctx context.Context, id string) (*entity.Expense, error) {
	var e entity.Expense
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrExpenseNotFound
		}
		return nil, err
	}
	return &e, nil
}

// ListByUser は指定ユーザーの支出をCreatedAtの降順で取得します。
func (r *expenseGorm) ListByUser(ctx context.Context, userID string) ([]entity.Expense, error) {
	var expenses []entity.Expense
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

// ListAll は全支出をCreatedAtの降順で取得します。
func (r *expenseGorm) ListAll(ctx context.Context) ([]entity.Expense, error) {
	var expenses []entity.Expense
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

// Update は支出の可変フィールドのみを永続化します。
// ID・UserID・CreatedAtは更新対象に含めません。
func (r *expenseGorm) Update(ctx context.Context, e *entity.Expense) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Expense{}).
		Where("id = ?", e.ID).
		Updates(map[string]interface{}{
			"category":   e.Category,
			"amount":     e.Amount,
			"comments":   e.Comments,
			"updated_at": e.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrExpenseNotFound
	}
	return nil
}

// Delete は指定ユーザーが所有する支出を物理削除します。
// 該当レコードがない場合（既に削除済み・他ユーザー所有を含む）、usecase.ErrExpenseNotFoundを返します。
func (r *expenseGorm) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&entity.Expense{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrExpenseNotFound
	}
	return nil
}
