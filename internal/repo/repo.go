package repo

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Storage-level failures the service layer translates into domain errors.
var (
	ErrVoucherLimit     = errors.New("voucher usage limit reached")
	ErrVoucherUserLimit = errors.New("voucher per-user limit reached")
	ErrStaleStatus      = errors.New("order status changed concurrently")
	ErrInsufficientPts  = errors.New("insufficient loyalty points")
)

type GormRepo struct {
	DB *gorm.DB
}

// forUpdate adds a row lock on engines that support it. The sqlite test
// database serializes writers globally and has no FOR UPDATE grammar.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
