package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"expense_backend/internal/feature/expense/domain/entity"
	"expense_backend/internal/feature/expense/usecase"
)

// CachingExpenseRepository は ExpenseRepository をRedisのキャッシュアサイドでデコレートします。
// キャッシュ対象はユーザーごとの支出リスト（ListByUser）のみで、
// 集計（Summary）もこのリストから導出されるため同じキャッシュが効きます。
type CachingExpenseRepository struct {
	inner     usecase.ExpenseRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// Compile-time check to ensure CachingExpenseRepository implements ExpenseRepository.
var _ usecase.ExpenseRepository = (*CachingExpenseRepository)(nil)

// NewCachingExpenseRepository は ExpenseRepository を Redis キャッシュでデコレートします。
// ttl<=0 の場合は 5分にフォールバックします。namespace が空なら "expenses" を使います。
func NewCachingExpenseRepository(rdb *redis.Client, ttl time.Duration, inner usecase.ExpenseRepository, namespace string) *CachingExpenseRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "expenses"
	}
	return &CachingExpenseRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create は本体へ書き込んだ後、該当ユーザーのリストキャッシュを無効化します。
func (c *CachingExpenseRepository) Create(ctx context.Context, e *entity.Expense) error {
	if err := c.inner.Create(ctx, e); err != nil {
		return err
	}
	c.invalidate(ctx, e.UserID)
	return nil
}

// FindByID は常に本体へ委譲します（単体取得はキャッシュしない）。
func (c *CachingExpenseRepository) FindByID(ctx context.Context, id string) (*entity.Expense, error) {
	return c.inner.FindByID(ctx, id)
}

// ListByUser はキャッシュヒット時にRedisから返し、ミス時は本体から取得してキャッシュします。
func (c *CachingExpenseRepository) ListByUser(ctx context.Context, userID string) ([]entity.Expense, error) {
	// Redis 未設定なら素通し
	if c.rdb == nil {
		return c.inner.ListByUser(ctx, userID)
	}

	key := c.listKey(userID)

	// 1) キャッシュヒット確認
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Expense
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// 壊れていたら落とす
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) DB へフォールバック
	out, err := c.inner.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 3) キャッシュ保存（ベストエフォート）
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// ListAll は常に本体へ委譲します（管理用途のためキャッシュしない）。
func (c *CachingExpenseRepository) ListAll(ctx context.Context) ([]entity.Expense, error) {
	return c.inner.ListAll(ctx)
}

// Update は本体へ書き込んだ後、該当ユーザーのリストキャッシュを無効化します。
func (c *CachingExpenseRepository) Update(ctx context.Context, e *entity.Expense) error {
	if err := c.inner.Update(ctx, e); err != nil {
		return err
	}
	c.invalidate(ctx, e.UserID)
	return nil
}

// Delete は本体から削除した後、該当ユーザーのリストキャッシュを無効化します。
func (c *CachingExpenseRepository) Delete(ctx context.Context, userID, id string) error {
	if err := c.inner.Delete(ctx, userID, id); err != nil {
		return err
	}
	c.invalidate(ctx, userID)
	return nil
}

// ---- 補助 ----

func (c *CachingExpenseRepository) listKey(userID string) string {
	return fmt.Sprintf("%s:user:%s", c.namespace, userID)
}

// invalidate は該当ユーザーのキャッシュを削除します。失敗しても本処理は成功させます。
func (c *CachingExpenseRepository) invalidate(ctx context.Context, userID string) {
	if c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, c.listKey(userID)).Err()
}
