package repository

import (
	"context"

	"gorm.io/gorm"
)

// Tx bundles the repositories participating in one database transaction.
// Cross-repo invariants (task status and XP must commit together) go
// through this bundle, never through separate repository calls.
type Tx struct {
	Users  UserRepository
	Tasks  TaskRepository
	Levels LevelRepository
}

// TxRunner executes a function within a database transaction.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx *Tx) error) error
}

type txRunner struct {
	db *gorm.DB
}

// NewTxRunner builds a GORM-backed transaction runner.
func NewTxRunner(db *gorm.DB) TxRunner {
	return &txRunner{db: db}
}

// WithTransaction runs fn inside a transaction; any error rolls back the
// whole unit of work.
func (r *txRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx *Tx) error) error {
	return r.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(ctx, &Tx{
			Users:  NewUserRepository(gtx),
			Tasks:  NewTaskRepository(gtx),
			Levels: NewLevelRepository(gtx),
		})
	})
}
