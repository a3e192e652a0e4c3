package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour

	// PasswordResetTokenTTL is the validity window for reset links (1 hour)
	PasswordResetTokenTTL = time.Hour
)

// Upload constants
const (
	// MaxUploadSize is the largest accepted document (10MB)
	MaxUploadSize = 10 * 1024 * 1024
)

// HTTP constants
const (
	// CORSMaxAge controls how long browsers may cache preflight responses
	CORSMaxAge = 86400
)

// Pipeline constants
const (
	// DefaultDeclaredRevenue is assumed when a merchant has not declared
	// a monthly revenue before extraction runs
	DefaultDeclaredRevenue = 500_000

	// OfferTenureMonths is the fixed repayment tenure on generated offers
	OfferTenureMonths = 36

	// MaxApprovedAmount is the global cap on any approved amount
	MaxApprovedAmount = 50_000_000

	// RevenueMultiple is the revenue multiplier used to size offers
	RevenueMultiple = 6
)

// ContextKey is a typed key for request-scoped context values
type ContextKey string

// Request context keys
const (
	RequestIDKey  ContextKey = "request_id"
	UserAgentKey  ContextKey = "user_agent"
	IPAddressKey  ContextKey = "ip_address"
	EndpointKey   ContextKey = "endpoint"
	TimeoutKey    ContextKey = "timeout"
	CancelFuncKey ContextKey = "cancel_func"
)
