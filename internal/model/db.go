package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Affiliate struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"size:128;not null"`
	Email         string `gorm:"size:128;uniqueIndex;not null"`
	DNI           string `gorm:"size:16"`
	AffiliateCode string `gorm:"size:16;uniqueIndex;not null"` // immutable once issued
	ReferredBy    *uint  `gorm:"index"`                        // direct upline
	Level         string `gorm:"size:32"`                      // rank label, not MLM depth
	Status        string `gorm:"size:16;index;not null"`       // Activo, Inactivo

	TotalSales       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalCommissions decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ReferralCount    int32           `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Referral is a denormalized upline edge: referrer is `level` hops
// above referred. Built once at registration, levels 1..7.
type Referral struct {
	ID         uint  `gorm:"primaryKey"`
	ReferrerID uint  `gorm:"uniqueIndex:idx_referral_edge;not null"`
	ReferredID uint  `gorm:"uniqueIndex:idx_referral_edge;index;not null"`
	Level      int32 `gorm:"not null"`
	CreatedAt  time.Time
}

type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:64;not null"`
	Slug string `gorm:"size:64;uniqueIndex;not null"`
}

type Product struct {
	ID          uint   `gorm:"primaryKey"`
	CategoryID  uint   `gorm:"index"`
	Name        string `gorm:"size:128;not null"`
	Description string `gorm:"size:512"`

	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null"` // soles
	PriceWP  int64           `gorm:"not null"`                    // WinnerPoints
	Stock    int32           `gorm:"not null"`
	ImageURL string          `gorm:"size:256"`
	Active   bool            `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Order struct {
	ID            uint            `gorm:"primaryKey"`
	UserEmail     string          `gorm:"size:128;index;not null"`
	AffiliateCode string          `gorm:"size:16"` // code supplied at checkout, optional
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	WPAmount      int64           `gorm:"not null"`
	Status        string          `gorm:"size:32;index;not null"` // Pendiente, Procesando, En Camino, Completado, Cancelado
	PaymentType   string          `gorm:"size:32;not null"`       // winner_points, dinero_real
	PaymentStatus string          `gorm:"size:32;index;not null"` // completed, pending_verification, rejected

	ShippingName    string `gorm:"size:128"`
	ShippingAddress string `gorm:"size:256"`
	ShippingCity    string `gorm:"size:64"`
	ShippingPhone   string `gorm:"size:32"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderItem struct {
	ID        uint `gorm:"primaryKey"`
	OrderID   uint `gorm:"index;not null"`
	ProductID uint `gorm:"index;not null"`
	Quantity  int32

	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UnitPriceWP int64           `gorm:"not null"`

	CreatedAt time.Time
}

type Commission struct {
	ID          uint  `gorm:"primaryKey"`
	AffiliateID uint  `gorm:"uniqueIndex:idx_commission_once;not null"`
	OrderID     uint  `gorm:"uniqueIndex:idx_commission_once;index;not null"`
	Level       int32 `gorm:"uniqueIndex:idx_commission_once;not null"` // 1..7

	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	WPAmount   int64           `gorm:"not null"`
	Status     string          `gorm:"size:16;index;not null"` // pending, paid
	WPCredited bool            `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type UserCredit struct {
	ID      uint   `gorm:"primaryKey"`
	Email   string `gorm:"size:128;uniqueIndex;not null"`
	Balance int64  `gorm:"not null;default:0"` // WinnerPoints, never negative

	CreatedAt time.Time
	UpdatedAt time.Time
}

type CreditTransaction struct {
	ID           uint   `gorm:"primaryKey"`
	UserCreditID uint   `gorm:"index;not null"`
	Amount       int64  `gorm:"not null"`         // signed, negative for burns
	Type         string `gorm:"size:16;not null"` // add, purchase, withdrawal, commission
	Description  string `gorm:"size:256"`

	// WP value in soles when the entry was written, for historical
	// monetary reporting after the rate changes.
	PointValueAtTime decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	OrderID          *uint           `gorm:"index"`

	CreatedAt time.Time
}

type WithdrawalRequest struct {
	ID           uint  `gorm:"primaryKey"`
	UserCreditID uint  `gorm:"index;not null"`
	Amount       int64 `gorm:"not null"` // WP

	AmountInSoles       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PointValueAtRequest decimal.Decimal `gorm:"type:decimal(8,4);not null"`

	PaymentMethod  string `gorm:"size:32;not null"`
	PaymentDetails string `gorm:"size:256"`
	Status         string `gorm:"size:16;index;not null"` // pending, approved, rejected
	AdminNotes     string `gorm:"size:256"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type PaymentProof struct {
	ID            uint            `gorm:"primaryKey"`
	OrderID       uint            `gorm:"index;not null"`
	ProofURL      string          `gorm:"size:256;not null"`
	PaymentMethod string          `gorm:"size:32;not null"` // yape, plin, transferencia
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status        string          `gorm:"size:16;index;not null"` // pending, approved, rejected
	AdminNotes    string          `gorm:"size:256"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type BusinessSetting struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"size:256;not null"`
	UpdatedAt time.Time
}

type PaymentMethod struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"size:64;not null"`
	Type          string `gorm:"size:32;not null"` // yape, plin, transferencia
	AccountNumber string `gorm:"size:64"`
	QRURL         string `gorm:"size:256"`
	Active        bool   `gorm:"not null;default:true"`
}

type ContactMessage struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"size:128;not null"`
	Email   string `gorm:"size:128;not null"`
	Subject string `gorm:"size:128"`
	Message string `gorm:"size:1024;not null"`
	Read    bool   `gorm:"not null;default:false"`

	CreatedAt time.Time
}
