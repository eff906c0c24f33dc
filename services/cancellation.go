package services

import (
	"fmt"
	"strings"

	"github.com/careloop/clinic-app/db"
	"github.com/careloop/clinic-app/models"
	"gorm.io/gorm"
)

// CancelResult is what the cancel endpoint returns. RefundAmount is the
// computed figure; settlement belongs to the payment service.
type CancelResult struct {
	Message      string              `json:"message"`
	RefundStatus models.RefundStatus `json:"refund_status"`
	RefundAmount float64             `json:"refund_amount"`
}

const minStaffCancelReason = 10

// CancelAppointment terminates an appointment under the role-conditioned
// refund policy:
//
//   - patients cancel only their own bookings and forfeit the fee;
//   - admins and receptionists must give a reason of at least ten characters,
//     checked before anything is written, and the patient is refunded in full;
//   - doctors can never cancel; the reschedule workflow exists for them.
//
// The status flip and the audit row are one transaction; a cancellation that
// fails between the two is rolled back entirely.
func CancelAppointment(actor Actor, id uint, reason string) (*CancelResult, error) {
	staff := false
	switch actor.Role {
	case RoleDoctor:
		return nil, fmt.Errorf("%w: doctors cannot cancel appointments; request a reschedule instead", ErrForbidden)
	case RoleAdmin, RoleReceptionist:
		staff = true
		if len(strings.TrimSpace(reason)) < minStaffCancelReason {
			return nil, fmt.Errorf("%w: cancellation reason must be at least %d characters",
				ErrForbidden, minStaffCancelReason)
		}
	case RolePatient:
	default:
		return nil, fmt.Errorf("%w: role %q may not cancel appointments", ErrForbidden, actor.Role)
	}

	var result *CancelResult
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var appointment models.Appointment
		if err := loadAppointment(tx, id, &appointment); err != nil {
			return err
		}
		if actor.Role == RolePatient && appointment.PatientID != actor.ID {
			return fmt.Errorf("%w: patients may only cancel their own appointments", ErrForbidden)
		}
		if appointment.Status == models.StatusCancelled {
			// A repeat here is not a harmless no-op: replaying a staff
			// cancel would record a second refund.
			return fmt.Errorf("%w: appointment is already cancelled", ErrConflict)
		}

		refundStatus := models.RefundNonRefundable
		refundAmount := 0.0
		if staff {
			refundStatus = models.RefundRefunded
			refundAmount = appointment.ChargedFee
		}

		if err := terminate(tx, &appointment, actor.ID, reason, refundStatus, refundAmount); err != nil {
			return err
		}

		message := "appointment cancelled; the charged fee is non-refundable"
		if staff {
			message = fmt.Sprintf("appointment cancelled; full refund of %.2f recorded", refundAmount)
		}
		result = &CancelResult{
			Message:      message,
			RefundStatus: refundStatus,
			RefundAmount: refundAmount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// terminate flips the appointment to CANCELLED and writes its single
// immutable audit row. Callers must already hold a transaction.
func terminate(tx *gorm.DB, appointment *models.Appointment, byID uint, reason string,
	refundStatus models.RefundStatus, refundAmount float64) error {

	if err := appointment.Transition(tx, models.StatusCancelled); err != nil {
		return lifecycleError(err)
	}

	cancellation := models.AppointmentCancellation{
		AppointmentID: appointment.ID,
		CancelledByID: byID,
		Reason:        reason,
		RefundStatus:  refundStatus,
		RefundAmount:  refundAmount,
	}
	if err := tx.Create(&cancellation).Error; err != nil {
		return err
	}
	return nil
}
