package models

import (
	"time"

	"gorm.io/gorm"
)

type RescheduleStatus string

const (
	RescheduleStatusPending  RescheduleStatus = "pending"
	RescheduleStatusApproved RescheduleStatus = "approved"
	RescheduleStatusRejected RescheduleStatus = "rejected"
)

// RescheduleRequest proposes a new time for an existing appointment. The
// appointment itself is untouched until an admin approves the request or
// reschedules directly.
type RescheduleRequest struct {
	gorm.Model
	AppointmentID     uint             `json:"appointment_id"`
	Appointment       Appointment      `json:"appointment,omitempty" gorm:"foreignKey:AppointmentID"`
	RequestedByID     uint             `json:"requested_by_id"`
	RequestedBy       User             `json:"requested_by,omitempty" gorm:"foreignKey:RequestedByID"`
	RequestedDateTime time.Time        `json:"requested_date_time"`
	Reason            string           `json:"reason"`
	Status            RescheduleStatus `json:"status"`
}

func (r *RescheduleRequest) BeforeCreate(tx *gorm.DB) error {
	if r.Status == "" {
		r.Status = RescheduleStatusPending
	}
	return nil
}
