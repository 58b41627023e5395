package service

import "errors"

// Business-rule rejections. Handlers translate these into
// {success:false, error} payloads instead of HTTP 5xx.
var (
	ErrAlreadyRegistered = errors.New("email already registered as affiliate")
	ErrReferralCycle     = errors.New("referral chain contains a cycle")
	ErrProductNotFound   = errors.New("some products not found or inactive")
	ErrOrderNotPending   = errors.New("order is not pending verification")
	ErrProofPending      = errors.New("order already has a payment proof under review")
	ErrAlreadyProcessed  = errors.New("request already processed")
	ErrAlreadyCredited   = errors.New("commission already credited")
	ErrNoCreditAccount   = errors.New("no credit account for this email")
)
