package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentEwallet  PaymentMethod = "ewallet"
)

type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxCancelled TransactionStatus = "cancelled"
)

type Transaction struct {
	BaseModel
	TransactionNumber string            `gorm:"type:varchar(40);uniqueIndex;not null" json:"transaction_number"`
	TotalAmount       decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	PaymentMethod     PaymentMethod     `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentAmount     decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"payment_amount"`
	ChangeAmount      decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"change_amount"`
	Status            TransactionStatus `gorm:"type:varchar(20);not null;default:'completed'" json:"status"`
	Notes             *string           `gorm:"type:text" json:"notes,omitempty"`

	// Relations
	Items []TransactionItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TransactionItem is a line of a sale. Product name and unit price are
// snapshots taken at sale time, decoupled from later catalog edits.
// Rows are immutable once created.
type TransactionItem struct {
	BaseModel
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName   string          `gorm:"type:varchar(255);not null" json:"product_name"`
	UnitPrice     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	TotalPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
}
