// Package handler はexpenseフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"expense_backend/internal/api"
	"expense_backend/internal/feature/expense/domain/entity"
	"expense_backend/internal/feature/expense/usecase"
	jwtmw "expense_backend/internal/platform/jwt"
)

// ExpenseUsecase は支出操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type ExpenseUsecase interface {
	// List は指定ユーザーの支出を新しい順で取得します。
	List(ctx context.Context, userID string) ([]entity.Expense, error)
	// Create は新しい支出を検証のうえ作成します。
	Create(ctx context.Context, userID string, category entity.Category, amount float64, comments string) (*entity.Expense, error)
	// Update は既存支出の可変フィールドを更新します。
	Update(ctx context.Context, userID, expenseID string, category entity.Category, amount float64, comments string) (*entity.Expense, error)
	// Delete は支出を削除します。
	Delete(ctx context.Context, userID, expenseID string) error
	// Summary はユーザーの支出の集計ビューを導出します。
	Summary(ctx context.Context, userID string) (*usecase.Summary, error)
}

// ExpenseHandler は支出操作のHTTPリクエストを処理します。
type ExpenseHandler struct {
	expenses ExpenseUsecase
}

// NewExpenseHandler はExpenseHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からExpenseUsecaseを注入します。
func NewExpenseHandler(expenses ExpenseUsecase) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// List はGET /expensesを処理します。
// 認証済みユーザー自身の支出をCreatedAtの降順で返します。
func (h *ExpenseHandler) List(c *gin.Context) {
	userID := c.GetString(jwtmw.ContextUserID)
	expenses, err := h.expenses.List(c.Request.Context(), userID)
	if err != nil {
		slog.Error("failed to list expenses", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to list expenses"})
		return
	}
	c.JSON(http.StatusOK, toExpenseListResponse(expenses))
}

// Create はPOST /expensesを処理します。
// - リクエストJSONをExpenseRequestにバインド（金額・コメント長の一次検証）
// - ドメイン検証エラー時は400を返却
// - 成功時は作成されたレコード付きで201を返却
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req api.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("expense validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	userID := c.GetString(jwtmw.ContextUserID)
	e, err := h.expenses.Create(c.Request.Context(), userID, entity.Category(req.Category), req.Amount, req.Comments)
	if err != nil {
		h.writeError(c, err, userID)
		return
	}
	c.JSON(http.StatusCreated, toExpenseResponse(e))
}

// Update はPUT /expenses/:idを処理します。
// 存在しないID（他ユーザー所有を含む）には404を返却します。
func (h *ExpenseHandler) Update(c *gin.Context) {
	var req api.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("expense validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	userID := c.GetString(jwtmw.ContextUserID)
	e, err := h.expenses.Update(c.Request.Context(), userID, c.Param("id"), entity.Category(req.Category), req.Amount, req.Comments)
	if err != nil {
		h.writeError(c, err, userID)
		return
	}
	c.JSON(http.StatusOK, toExpenseResponse(e))
}

// Delete はDELETE /expenses/:idを処理します。
// 削除成功時は204、該当レコードがない場合は404を返却します（2回目の削除は404）。
func (h *ExpenseHandler) Delete(c *gin.Context) {
	userID := c.GetString(jwtmw.ContextUserID)
	if err := h.expenses.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.writeError(c, err, userID)
		return
	}
	c.Status(http.StatusNoContent)
}

// Summary はGET /expenses/summaryを処理します。
// 合計・件数・平均・カテゴリ別合計・最大カテゴリを返します。
func (h *ExpenseHandler) Summary(c *gin.Context) {
	userID := c.GetString(jwtmw.ContextUserID)
	s, err := h.expenses.Summary(c.Request.Context(), userID)
	if err != nil {
		slog.Error("failed to summarize expenses", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to summarize expenses"})
		return
	}
	c.JSON(http.StatusOK, toSummaryResponse(s))
}

// writeError はユースケースのエラーをHTTPステータスへ対応付けます。
func (h *ExpenseHandler) writeError(c *gin.Context, err error, userID string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidCategory),
		errors.Is(err, usecase.ErrInvalidAmount),
		errors.Is(err, usecase.ErrCommentsTooLong):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrExpenseNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "expense not found"})
	default:
		slog.Error("expense operation failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
	}
}

// ---- レスポンス変換 ----

func toExpenseResponse(e *entity.Expense) api.ExpenseResponse {
	return api.ExpenseResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		Category:  string(e.Category),
		Amount:    e.Amount,
		Comments:  e.Comments,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func toExpenseListResponse(expenses []entity.Expense) api.ExpenseListResponse {
	out := api.ExpenseListResponse{Expenses: make([]api.ExpenseResponse, 0, len(expenses))}
	for i := range expenses {
		out.Expenses = append(out.Expenses, toExpenseResponse(&expenses[i]))
	}
	return out
}

func toSummaryResponse(s *usecase.Summary) api.SummaryResponse {
	out := api.SummaryResponse{
		Total:       s.Total,
		Count:       s.Count,
		Average:     s.Average,
		ByCategory:  make([]api.CategoryTotalResponse, 0, len(s.ByCategory)),
		TopCategory: string(s.TopCategory),
	}
	for _, ct := range s.ByCategory {
		out.ByCategory = append(out.ByCategory, api.CategoryTotalResponse{
			Category: string(ct.Category),
			Total:    ct.Total,
		})
	}
	return out
}
