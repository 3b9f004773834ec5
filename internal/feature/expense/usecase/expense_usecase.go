// Package usecase はexpenseフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"expense_backend/internal/feature/expense/domain/entity"
)

// ExpenseRepository は支出エンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type ExpenseRepository interface {
	// Create は新しい支出をストレージに永続化します。
	Create(ctx context.Context, e *entity.Expense) error

	// FindByID はIDで支出を取得します。
	// 支出が存在しない場合、ErrExpenseNotFoundを返します。
	FindByID(ctx context.Context, id string) (*entity.Expense, error)

	// ListByUser は指定ユーザーの支出をCreatedAtの降順（新しい順）で取得します。
	ListByUser(ctx context.Context, userID string) ([]entity.Expense, error)

	// ListAll は全ユーザーの支出をCreatedAtの降順で取得します。
	ListAll(ctx context.Context) ([]entity.Expense, error)

	// Update は支出の可変フィールド（Category, Amount, Comments, UpdatedAt）を永続化します。
	Update(ctx context.Context, e *entity.Expense) error

	// Delete は指定ユーザーが所有する支出を削除します。
	// 該当レコードがない場合、ErrExpenseNotFoundを返します。
	Delete(ctx context.Context, userID, id string) error
}

// expenseUsecase は支出CRUDと集計のビジネスロジックを実装します。
type expenseUsecase struct {
	repo ExpenseRepository
}

// NewExpenseUsecase はexpenseUsecaseの新しいインスタンスを生成します。
func NewExpenseUsecase(repo ExpenseRepository) *expenseUsecase {
	return &expenseUsecase{repo: repo}
}

// validateFields は支出の入力値がドメイン制約を満たしているかチェックします。
// アダプタ層は検証済みの値を信頼するため、検証はこの境界でのみ行います。
func validateFields(category entity.Category, amount float64, comments string) error {
	if !category.IsValid() {
		return ErrInvalidCategory
	}
	if amount <= 0 || amount > entity.MaxAmount {
		return ErrInvalidAmount
	}
	if len([]rune(comments)) > entity.MaxCommentsLength {
		return ErrCommentsTooLong
	}
	return nil
}

// List は指定ユーザーの支出を新しい順で取得します。
func (u *expenseUsecase) List(ctx context.Context, userID string) ([]entity.Expense, error) {
	return u.repo.ListByUser(ctx, userID)
}

// ListAll は全支出を取得します（診断・管理用途）。
func (u *expenseUsecase) ListAll(ctx context.Context) ([]entity.Expense, error) {
	return u.repo.ListAll(ctx)
}

// Create は新しい支出を検証のうえ作成します。
// 作成時はCreatedAtとUpdatedAtが同一のタイムスタンプになります。
func (u *expenseUsecase) Create(ctx context.Context, userID string, category entity.Category, amount float64, comments string) (*entity.Expense, error) {
	if err := validateFields(category, amount, comments); err != nil {
		return nil, err
	}

	now := time.Now()
	e := &entity.Expense{
		ID:        uuid.NewString(),
		UserID:    userID,
		Category:  category,
		Amount:    amount,
		Comments:  comments,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Update は既存支出の可変フィールドを更新します。
// ID・UserID・CreatedAtは不変です。他ユーザーの支出は存在しないものとして扱います。
func (u *expenseUsecase) Update(ctx context.Context, userID, expenseID string, category entity.Category, amount float64, comments string) (*entity.Expense, error) {
	if err := validateFields(category, amount, comments); err != nil {
		return nil, err
	}

	e, err := u.repo.FindByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if e.UserID != userID {
		// 所有者以外には404相当を返す（存在自体を開示しない）
		return nil, ErrExpenseNotFound
	}

	e.Category = category
	e.Amount = amount
	e.Comments = comments
	e.UpdatedAt = time.Now()

	if err := u.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Delete は指定ユーザーが所有する支出を削除します。
// 同じIDに対する2回目の削除はErrExpenseNotFoundになります。
func (u *expenseUsecase) Delete(ctx context.Context, userID, expenseID string) error {
	return u.repo.Delete(ctx, userID, expenseID)
}
