package model

const (
	AffiliateStatusActive   = "Activo"
	AffiliateStatusInactive = "Inactivo"

	OrderStatusPending    = "Pendiente"
	OrderStatusProcessing = "Procesando"
	OrderStatusShipping   = "En Camino"
	OrderStatusCompleted  = "Completado"
	OrderStatusCancelled  = "Cancelado"

	PaymentTypePoints = "winner_points"
	PaymentTypeCash   = "dinero_real"

	PaymentStatusCompleted           = "completed"
	PaymentStatusPendingVerification = "pending_verification"
	PaymentStatusRejected            = "rejected"

	CommissionStatusPending = "pending"
	CommissionStatusPaid    = "paid"

	TxTypeAdd        = "add"
	TxTypePurchase   = "purchase"
	TxTypeWithdrawal = "withdrawal"
	TxTypeCommission = "commission"

	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// business_settings keys
const (
	SettingPointValue = "wp_point_value" // soles per WP

	SettingCommissionRatePrefix = "commission_rate_level_" // + 1..7, percent
)

// MaxCommissionLevels caps both the referral-graph walk and the
// commission fan-out.
const MaxCommissionLevels = 7
