package database

import (
	"context"

	postPort "prolearn/internal/ports/post"

	"gorm.io/gorm"
)

// TxRunner هر callback را در یک تراکنش gorm با مخازن متصل به همان تراکنش اجرا می‌کند
type TxRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) *TxRunner {
	return &TxRunner{db: db}
}

func (r *TxRunner) InTx(ctx context.Context, fn func(repos postPort.Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(postPort.Repositories{
			Posts: NewPostRepositoryDatabase(tx),
			Users: NewUserRepositoryDatabase(tx),
		})
	})
}
