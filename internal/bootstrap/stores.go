package bootstrap

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-inventory-api/internal/config"
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/pkg/database"
)

// Stores holds the repositories selected by STORE_DRIVER.
type Stores struct {
	Products repository.ProductRepository
	Users    repository.UserRepository

	db *gorm.DB
}

// OpenStores connects the configured backend. Postgres tables are
// auto-migrated on open.
func OpenStores(cfg *config.Config, log *zap.Logger) (*Stores, error) {
	if cfg.StoreDriver == config.StoreMemory {
		users := repository.NewMemoryUserRepo()
		log.Warn("using in-memory store, data is lost on exit")
		return &Stores{Products: repository.NewMemoryProductRepo(users), Users: users}, nil
	}

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.User{}, &model.Product{}); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &Stores{
		Products: repository.NewProductRepo(db),
		Users:    repository.NewUserRepo(db),
		db:       db,
	}, nil
}

// Close releases the database pool, if any.
func (s *Stores) Close() error {
	if s.db == nil {
		return nil
	}
	return database.Close(s.db)
}
