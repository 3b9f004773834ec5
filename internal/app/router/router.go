package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authhandler "expense_backend/internal/feature/auth/transport/handler"
	expensehandler "expense_backend/internal/feature/expense/transport/handler"
	jwtmw "expense_backend/internal/platform/jwt"
	"expense_backend/internal/shared/ratelimiter"
)

func NewRouter(auth *authhandler.AuthHandler, expenses *expensehandler.ExpenseHandler,
	sessions jwtmw.SessionValidator, loginLimiter *ratelimiter.RateLimiter) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", Health)
	// 新規ユーザー登録・ログイン（JWT 発行）はIP単位でレート制限
	r.POST("/signup", rateLimit(loginLimiter), auth.Signup)
	r.POST("/login", rateLimit(loginLimiter), auth.Login)

	// 認証必須のルート
	// jwtmw.AuthRequired ミドルウェアを適用
	// → リクエストヘッダーに JWT が必要になり、失効済みセッションは弾かれる
	authorized := r.Group("/")
	authorized.Use(jwtmw.AuthRequired(sessions))
	{
		authorized.POST("/logout", auth.Logout)
		authorized.GET("/me", auth.Me)

		authorized.GET("/expenses", expenses.List)
		authorized.POST("/expenses", expenses.Create)
		authorized.GET("/expenses/summary", expenses.Summary)
		authorized.PUT("/expenses/:id", expenses.Update)
		authorized.DELETE("/expenses/:id", expenses.Delete)
	}

	return r
}

// rateLimit はクライアントIP単位の固定ウィンドウレート制限を適用します。
func rateLimit(rl *ratelimiter.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl != nil && !rl.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
