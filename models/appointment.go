package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// ErrStaleTransition means a concurrent request already moved the
// appointment out of the status this transition was predicated on.
var ErrStaleTransition = errors.New("appointment status changed concurrently")

// InvalidTransitionError reports a transition the lifecycle forbids.
type InvalidTransitionError struct {
	From AppointmentStatus
	To   AppointmentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

type Appointment struct {
	gorm.Model
	OrganizationID uint              `json:"organization_id"`
	Organization   Organization      `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
	DoctorID       uint              `json:"doctor_id"`
	Doctor         User              `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	PatientID      uint              `json:"patient_id"`
	Patient        User              `json:"patient,omitempty" gorm:"foreignKey:PatientID"`
	BookingNumber  string            `json:"booking_number" gorm:"uniqueIndex"`
	ScheduledAt    time.Time         `json:"scheduled_at"`
	Status         AppointmentStatus `json:"status"`
	Reason         string            `json:"reason"`
	ChargedFee     float64           `json:"charged_fee"`
	IsFollowUp     bool              `json:"is_follow_up"`
	// At most one follow-up may attach to a completed parent; the unique
	// index is what makes two concurrent bookings lose the race instead of
	// both claiming the discount.
	FollowUpParentID *uint        `json:"follow_up_parent_id" gorm:"uniqueIndex"`
	FollowUpParent   *Appointment `json:"follow_up_parent,omitempty" gorm:"foreignKey:FollowUpParentID"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusPending
	}
	return nil
}

// canTransition encodes the lifecycle: pending may be confirmed or cancelled,
// confirmed may be completed or cancelled, completed and cancelled absorb.
func canTransition(from, to AppointmentStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCompleted || to == StatusCancelled
	default:
		return false
	}
}

// Transition moves the appointment to newStatus with a conditional update
// predicated on the status this struct was loaded with. A concurrent
// transition makes the predicate miss and returns ErrStaleTransition rather
// than silently overwriting the other writer. Re-invoking with the current
// status is a no-op.
func (a *Appointment) Transition(tx *gorm.DB, newStatus AppointmentStatus) error {
	if a.Status == newStatus {
		return nil
	}
	if !canTransition(a.Status, newStatus) {
		return &InvalidTransitionError{From: a.Status, To: newStatus}
	}

	res := tx.Model(&Appointment{}).
		Where("id = ? AND status = ?", a.ID, a.Status).
		Update("status", newStatus)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleTransition
	}

	a.Status = newStatus
	return nil
}
