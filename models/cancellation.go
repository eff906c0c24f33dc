package models

import (
	"time"
)

type RefundStatus string

const (
	RefundNonRefundable RefundStatus = "non_refundable"
	RefundRefunded      RefundStatus = "refunded"
)

// AppointmentCancellation is the audit row written when an appointment is
// cancelled. Exactly one exists per cancelled appointment and it is never
// updated afterwards; settlement of the refund amount happens in the payment
// service.
type AppointmentCancellation struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	AppointmentID uint         `json:"appointment_id" gorm:"uniqueIndex"`
	Appointment   Appointment  `json:"appointment,omitempty" gorm:"foreignKey:AppointmentID"`
	CancelledByID uint         `json:"cancelled_by_id"`
	CancelledBy   User         `json:"cancelled_by,omitempty" gorm:"foreignKey:CancelledByID"`
	Reason        string       `json:"reason"`
	RefundStatus  RefundStatus `json:"refund_status"`
	RefundAmount  float64      `json:"refund_amount"`
	CreatedAt     time.Time    `json:"created_at"`
}
