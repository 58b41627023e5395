package dto

import "github.com/shopspring/decimal"

// Result is the shared business-outcome envelope: rejections travel as
// {success:false, error} payloads, not HTTP errors.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

type RegisterAffiliateRequest struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	DNI            string `json:"dni" validate:"omitempty,len=8"`
	InvitationCode string `json:"invitation_code"`
}

type RegisterAffiliateResponse struct {
	Success       bool   `json:"success"`
	AffiliateCode string `json:"affiliate_code,omitempty"`
	Error         string `json:"error,omitempty"`
}

type CheckoutItem struct {
	ProductID uint  `json:"product_id" validate:"required"`
	Quantity  int32 `json:"quantity" validate:"required,gt=0"`
}

type CheckoutRequest struct {
	Items         []*CheckoutItem `json:"items" validate:"required,min=1,dive"`
	PaymentType   string          `json:"payment_type" validate:"required,oneof=winner_points dinero_real"`
	AffiliateCode string          `json:"affiliate_code"`

	ShippingName    string `json:"shipping_name"`
	ShippingAddress string `json:"shipping_address"`
	ShippingCity    string `json:"shipping_city"`
	ShippingPhone   string `json:"shipping_phone"`
}

type CheckoutResponse struct {
	Success       bool   `json:"success"`
	OrderID       uint   `json:"order_id,omitempty"`
	PaymentStatus string `json:"payment_status,omitempty"`
	Error         string `json:"error,omitempty"`
}

type AddCreditsRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Description string `json:"description"`
}

type AddCreditsResponse struct {
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	NewBalance int64  `json:"new_balance,omitempty"`
	Email      string `json:"email,omitempty"`
}

type WithdrawalRequestInput struct {
	Amount         int64  `json:"amount" validate:"required,gt=0"`
	PaymentMethod  string `json:"payment_method" validate:"required"`
	PaymentDetails string `json:"payment_details" validate:"required"`
}

type ProcessWithdrawalRequest struct {
	Approved   bool   `json:"approved"`
	AdminNotes string `json:"admin_notes"`
}

type VerifyPaymentRequest struct {
	Approved   bool   `json:"approved"`
	AdminNotes string `json:"admin_notes"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pendiente Procesando 'En Camino' Completado Cancelado"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"required"`
}

type ProductInput struct {
	CategoryID  uint   `json:"category_id"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Price       string `json:"price" validate:"required"`
	PriceWP     int64  `json:"price_wp" validate:"gte=0"`
	Stock       int32  `json:"stock" validate:"gte=0"`
	Active      *bool  `json:"active"`
}

type SettingInput struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value" validate:"required"`
}

type BalanceResponse struct {
	Email      string          `json:"email"`
	Balance    int64           `json:"balance"`
	PointValue decimal.Decimal `json:"point_value"`
	InSoles    decimal.Decimal `json:"in_soles"`
}
