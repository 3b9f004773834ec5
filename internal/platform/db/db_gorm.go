package db

import (
	"fmt"
	"log"
	"os"
	"time"

	gpostgres "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	authadapters "expense_backend/internal/feature/auth/adapters"
	authentity "expense_backend/internal/feature/auth/domain/entity"
	expenseentity "expense_backend/internal/feature/expense/domain/entity"
)

// Config はPostgreSQL接続に必要な設定を保持します。
type Config struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     string
}

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	return Config{
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
	}
}

// BuildDSN は設定からPostgreSQL用のDSN文字列を生成します。
func BuildDSN(cfg Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)
}

// Opener はDSNからgorm.DBを開く関数です。テストで差し替え可能にします。
type Opener func(dsn string) (*gorm.DB, error)

// ConnectWithRetry は接続に成功するまで3秒間隔でリトライします。
// timeoutを超えた場合はエラーを返します。コンテナ起動直後のDB待ちを想定しています。
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %s: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}
}

// OpenDB はデータベース接続を初期化します。
// DB_HOSTが設定されていればPostgreSQL、なければローカル開発用のSQLiteファイルを使います。
// TranslateErrorを有効にし、ユニークインデックス違反をgorm.ErrDuplicatedKeyへ変換します。
func OpenDB() *gorm.DB {
	gormCfg := &gorm.Config{TranslateError: true}

	var (
		db  *gorm.DB
		err error
	)

	if os.Getenv("DB_HOST") != "" {
		dsn := BuildDSN(LoadConfigFromEnv())
		db, err = ConnectWithRetry(dsn, 60*time.Second, func(dsn string) (*gorm.DB, error) {
			return gorm.Open(gpostgres.Open(dsn), gormCfg)
		})
		if err != nil {
			log.Fatalf("%v", err)
		}
	} else {
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "./expense.db"
		}
		db, err = gorm.Open(sqlite.Open(path), gormCfg)
		if err != nil {
			log.Fatalf("failed to open sqlite database: %v", err)
		}
		log.Println("USING_SQLITE:", path)
	}

	if os.Getenv("RUN_MIGRATIONS") != "false" {
		// マイグレーション（User, Session, Expense）
		if err := db.AutoMigrate(
			&authentity.User{},
			&authadapters.SessionModel{},
			&expenseentity.Expense{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
