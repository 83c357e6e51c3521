package postgres

import (
	"database/sql"

	"github.com/hgky95/Idle2Earn/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.AccountRepository
	repository.AssetRepository
	repository.RentalRepository
	repository.LedgerRepository
	repository.ConfigRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		AccountRepository:      NewAccountRepository(db),
		AssetRepository:        NewAssetRepository(db),
		RentalRepository:       NewRentalRepository(db),
		LedgerRepository:       NewLedgerRepository(db),
		ConfigRepository:       NewConfigRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
