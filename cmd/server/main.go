package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"expense_backend/internal/app/router"
	authadapters "expense_backend/internal/feature/auth/adapters"
	authhandler "expense_backend/internal/feature/auth/transport/handler"
	authusecase "expense_backend/internal/feature/auth/usecase"
	expenseadapters "expense_backend/internal/feature/expense/adapters"
	expensehandler "expense_backend/internal/feature/expense/transport/handler"
	expenseusecase "expense_backend/internal/feature/expense/usecase"
	"expense_backend/internal/platform/cache"
	infradb "expense_backend/internal/platform/db"
	jwtmw "expense_backend/internal/platform/jwt"
	infraredis "expense_backend/internal/platform/redis"
	"expense_backend/internal/shared/ratelimiter"
)

const (
	tokenTTL             = 24 * time.Hour
	sessionSweepInterval = time.Hour
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	// db
	db := infradb.OpenDB()

	// Redis
	redisAddr := os.Getenv("REDIS_HOST") + ":" + os.Getenv("REDIS_PORT")
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewClient(redisAddr, os.Getenv("REDIS_PASSWORD")); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	userRepo := authadapters.NewUserGorm(db)
	sessionRepo := authadapters.NewSessionGorm(db)
	expenseRepo := expenseadapters.NewExpenseGorm(db)

	// Redisキャッシュでラップ（ユーザーごとの支出リスト）
	cachedExpenseRepo := cache.NewCachingExpenseRepository(rdb, 5*time.Minute, expenseRepo, "expenses")

	// JWT_SECRETチェック（開発中の注意喚起）
	secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if secret == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}
	tokenGen := jwtmw.NewGenerator(secret, tokenTTL)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, sessionRepo, tokenGen)
	expenseUC := expenseusecase.NewExpenseUsecase(cachedExpenseRepo)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	expenseH := expensehandler.NewExpenseHandler(expenseUC)

	// ログイン系エンドポイントのレート制限（IPごと 10回/分）
	loginLimiter := ratelimiter.NewRateLimiter(10, time.Minute)

	// ルータ生成（authUCはセッション失効チェックのバリデータも兼ねる）
	r := router.NewRouter(authH, expenseH, authUC, loginLimiter)

	// CORS追加（ブラウザのフロントエンドから呼ばれるため）
	r.Use(cors.Default())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{Addr: ":" + port, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// HTTPサーバ
	g.Go(func() error {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// 期限切れセッションの定期削除
	g.Go(func() error {
		ticker := time.NewTicker(sessionSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if n, err := authUC.SweepExpiredSessions(ctx); err != nil {
					slog.Warn("session sweep failed", "error", err)
				} else if n > 0 {
					slog.Info("expired sessions removed", "count", n)
				}
			}
		}
	})

	// シグナル受信でグレースフルシャットダウン
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}
