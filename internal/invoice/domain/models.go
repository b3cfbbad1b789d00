// Package domain contains the invoice entity, its lifecycle states, and the
// store and service contracts built around it.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Invoice is the persistence model for a billed event registration.
type Invoice struct {
	ID            snowflake.ID    `gorm:"primaryKey"`
	InvoiceNumber string          `gorm:"type:varchar(64);not null;uniqueIndex:ux_invoices_invoice_number"`
	EventID       snowflake.ID    `gorm:"not null;index"`
	EventName     string          `gorm:"type:varchar(255);not null"`
	UserID        snowflake.ID    `gorm:"not null;index"`
	UserName      string          `gorm:"type:varchar(255);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	IssueDate     time.Time       `gorm:"not null"`
	DueDate       time.Time       `gorm:"not null;index"`
	Status        Status          `gorm:"not null;default:0;index"`
	Description   string          `gorm:"type:varchar(1000)"`
	CreatedAt     time.Time       `gorm:"not null"`
}

// TableName sets the database table name.
func (Invoice) TableName() string {
	return "invoices"
}
