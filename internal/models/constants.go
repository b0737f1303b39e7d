package models

// Роли пользователей.
const (
	RoleClient = "client"
	RoleTasker = "tasker"
	RoleAdmin  = "admin"
)

// BookingStatus константы статусов бронирований.
const (
	BookingStatusPending     = "pending"
	BookingStatusConfirmed   = "confirmed"
	BookingStatusInProgress  = "in_progress"
	BookingStatusCompleted   = "completed"
	BookingStatusCancelled   = "cancelled"
	BookingStatusRescheduled = "rescheduled"
	BookingStatusRejected    = "rejected"
)

// PaymentStatus бронирования.
const (
	BookingPaymentUnpaid   = "unpaid"
	BookingPaymentPaid     = "paid"
	BookingPaymentRefunded = "refunded"
)

// Статусы платежей.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Статусы выплат.
const (
	PayoutStatusPending    = "pending"
	PayoutStatusProcessing = "processing"
	PayoutStatusCompleted  = "completed"
	PayoutStatusRejected   = "rejected"
)

// Статусы верификации.
const (
	VerificationStatusPending  = "pending"
	VerificationStatusInReview = "in_review"
	VerificationStatusApproved = "approved"
	VerificationStatusRejected = "rejected"
)

// Единицы цены услуги.
const (
	PriceUnitHour  = "hour"
	PriceUnitFixed = "fixed"
)

// ValidBookingStatuses список валидных статусов бронирований.
var ValidBookingStatuses = map[string]struct{}{
	BookingStatusPending:     {},
	BookingStatusConfirmed:   {},
	BookingStatusInProgress:  {},
	BookingStatusCompleted:   {},
	BookingStatusCancelled:   {},
	BookingStatusRescheduled: {},
	BookingStatusRejected:    {},
}

// ValidVerificationStatuses список валидных статусов верификации.
var ValidVerificationStatuses = map[string]struct{}{
	VerificationStatusPending:  {},
	VerificationStatusInReview: {},
	VerificationStatusApproved: {},
	VerificationStatusRejected: {},
}

// ValidRoles список валидных ролей.
var ValidRoles = map[string]struct{}{
	RoleClient: {},
	RoleTasker: {},
	RoleAdmin:  {},
}
