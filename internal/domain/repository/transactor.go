package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor runs fn as one unit of work: every write made through tx commits together or not at all.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}
