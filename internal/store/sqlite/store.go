package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tradify/internal/store"
	"tradify/internal/store/model"
)

type SqliteStore struct {
	db *gorm.DB
}

func NewSqliteStore(path string) (*SqliteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return NewSqliteStoreFromDB(db)
}

// NewSqliteStoreFromDB wraps an existing gorm handle, mainly for tests that
// run against an in-memory database.
func NewSqliteStoreFromDB(db *gorm.DB) (*SqliteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("nil gorm db")
	}
	if err := db.AutoMigrate(
		&model.UserModel{},
		&model.SessionModel{},
		&model.TradeModel{},
		&model.EquityTransactionModel{},
		&model.ActivityLogModel{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate failed: %w", err)
	}
	return &SqliteStore{db: db}, nil
}

func (s *SqliteStore) Users() store.UserRepository       { return NewUserRepo(s.db) }
func (s *SqliteStore) Sessions() store.SessionRepository { return NewSessionRepo(s.db) }
func (s *SqliteStore) Trades() store.TradeRepository     { return NewTradeRepo(s.db) }
func (s *SqliteStore) Equity() store.EquityRepository    { return NewEquityRepo(s.db) }
func (s *SqliteStore) Activity() store.ActivityRepository {
	return NewActivityRepo(s.db)
}

func (s *SqliteStore) Begin(ctx context.Context) (store.UnitOfWork, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &gormUnitOfWork{tx: tx}, nil
}

func (s *SqliteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type gormUnitOfWork struct {
	tx *gorm.DB
}

func (u *gormUnitOfWork) Trades() store.TradeRepository      { return NewTradeRepo(u.tx) }
func (u *gormUnitOfWork) Activity() store.ActivityRepository { return NewActivityRepo(u.tx) }

func (u *gormUnitOfWork) Commit() error {
	return u.tx.Commit().Error
}

func (u *gormUnitOfWork) Rollback() error {
	return u.tx.Rollback().Error
}
