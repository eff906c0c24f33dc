package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/careloop/clinic-app/db"
	"github.com/careloop/clinic-app/models"
	"gorm.io/gorm"
)

// RequestReschedule opens a PENDING reschedule request for an active
// appointment. The appointment itself is untouched until an admin acts.
func RequestReschedule(actor Actor, appointmentID uint, requestedAt time.Time, reason string) (*models.RescheduleRequest, error) {
	if requestedAt.IsZero() {
		return nil, fmt.Errorf("%w: requested_date_time is required", ErrValidation)
	}

	var appointment models.Appointment
	if err := loadAppointment(db.DB, appointmentID, &appointment); err != nil {
		return nil, err
	}
	if err := Authorize(actor, ActionReschedule, &appointment); err != nil {
		return nil, err
	}
	if appointment.Status != models.StatusPending && appointment.Status != models.StatusConfirmed {
		return nil, fmt.Errorf("%w: only pending or confirmed appointments can be rescheduled", ErrConflict)
	}

	request := &models.RescheduleRequest{
		AppointmentID:     appointmentID,
		RequestedByID:     actor.ID,
		RequestedDateTime: requestedAt,
		Reason:            reason,
		Status:            models.RescheduleStatusPending,
	}
	if err := db.DB.Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

// ApproveReschedule retimes the appointment to the requested time and marks
// the request approved, in one transaction. Admin only; a request that is no
// longer PENDING has already been processed.
func ApproveReschedule(actor Actor, requestID uint) (*models.RescheduleRequest, error) {
	if actor.Role != RoleAdmin {
		return nil, fmt.Errorf("%w: only admins may approve reschedule requests", ErrForbidden)
	}

	var request models.RescheduleRequest
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := loadRescheduleRequest(tx, requestID, &request); err != nil {
			return err
		}
		if request.Status != models.RescheduleStatusPending {
			return fmt.Errorf("%w: reschedule request already processed", ErrConflict)
		}

		var appointment models.Appointment
		if err := loadAppointment(tx, request.AppointmentID, &appointment); err != nil {
			return err
		}
		if appointment.Status == models.StatusCancelled || appointment.Status == models.StatusCompleted {
			return fmt.Errorf("%w: appointment is no longer active", ErrConflict)
		}

		if err := tx.Model(&appointment).Update("scheduled_at", request.RequestedDateTime).Error; err != nil {
			return err
		}
		if err := tx.Model(&request).Update("status", models.RescheduleStatusApproved).Error; err != nil {
			return err
		}
		request.Status = models.RescheduleStatusApproved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// RejectReschedule marks a PENDING request rejected without touching the
// appointment. Admin only.
func RejectReschedule(actor Actor, requestID uint) (*models.RescheduleRequest, error) {
	if actor.Role != RoleAdmin {
		return nil, fmt.Errorf("%w: only admins may reject reschedule requests", ErrForbidden)
	}

	var request models.RescheduleRequest
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := loadRescheduleRequest(tx, requestID, &request); err != nil {
			return err
		}
		if request.Status != models.RescheduleStatusPending {
			return fmt.Errorf("%w: reschedule request already processed", ErrConflict)
		}
		if err := tx.Model(&request).Update("status", models.RescheduleStatusRejected).Error; err != nil {
			return err
		}
		request.Status = models.RescheduleStatusRejected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// CancelRescheduleRequest withdraws a PENDING request. Only the user who
// opened it may withdraw it.
func CancelRescheduleRequest(actor Actor, requestID uint) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		var request models.RescheduleRequest
		if err := loadRescheduleRequest(tx, requestID, &request); err != nil {
			return err
		}
		if request.RequestedByID != actor.ID {
			return fmt.Errorf("%w: only the original requester may withdraw this request", ErrForbidden)
		}
		if request.Status != models.RescheduleStatusPending {
			return fmt.Errorf("%w: reschedule request already processed", ErrConflict)
		}
		return tx.Delete(&request).Error
	})
}

// DirectReschedule is the admin override: retime the appointment immediately
// and bulk-approve every PENDING request on it, without validating any of
// them against the new time. The bulk closure and the retiming are one
// transaction.
func DirectReschedule(actor Actor, appointmentID uint, newTime time.Time) (*models.Appointment, error) {
	if actor.Role != RoleAdmin {
		return nil, fmt.Errorf("%w: only admins may reschedule directly", ErrForbidden)
	}
	if newTime.IsZero() {
		return nil, fmt.Errorf("%w: new_date_time is required", ErrValidation)
	}

	var appointment models.Appointment
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := loadAppointment(tx, appointmentID, &appointment); err != nil {
			return err
		}
		if appointment.Status == models.StatusCancelled || appointment.Status == models.StatusCompleted {
			return fmt.Errorf("%w: appointment is no longer active", ErrConflict)
		}

		if err := tx.Model(&appointment).Update("scheduled_at", newTime).Error; err != nil {
			return err
		}
		appointment.ScheduledAt = newTime

		return tx.Model(&models.RescheduleRequest{}).
			Where("appointment_id = ? AND status = ?", appointmentID, models.RescheduleStatusPending).
			Update("status", models.RescheduleStatusApproved).Error
	})
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

// RescheduleFilter narrows ListRescheduleRequests. OrganizationID filters
// through the owning appointment.
type RescheduleFilter struct {
	AppointmentID  uint
	Status         models.RescheduleStatus
	OrganizationID uint
}

// ListRescheduleRequests returns requests the actor may see: staff browse
// freely within the filters, doctors and patients only requests on their own
// appointments or ones they opened.
func ListRescheduleRequests(actor Actor, filter RescheduleFilter) ([]models.RescheduleRequest, error) {
	query := db.DB.Model(&models.RescheduleRequest{}).
		Joins("JOIN appointments ON appointments.id = reschedule_requests.appointment_id").
		Preload("Appointment").
		Order("reschedule_requests.created_at desc")

	switch actor.Role {
	case RoleDoctor:
		query = query.Where("appointments.doctor_id = ? OR reschedule_requests.requested_by_id = ?", actor.ID, actor.ID)
	case RolePatient:
		query = query.Where("appointments.patient_id = ? OR reschedule_requests.requested_by_id = ?", actor.ID, actor.ID)
	}

	if filter.AppointmentID != 0 {
		query = query.Where("reschedule_requests.appointment_id = ?", filter.AppointmentID)
	}
	if filter.Status != "" {
		query = query.Where("reschedule_requests.status = ?", filter.Status)
	}
	if filter.OrganizationID != 0 {
		query = query.Where("appointments.organization_id = ?", filter.OrganizationID)
	}

	var requests []models.RescheduleRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func loadRescheduleRequest(tx *gorm.DB, id uint, dst *models.RescheduleRequest) error {
	if err := tx.First(dst, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: reschedule request not found", ErrNotFound)
		}
		return err
	}
	return nil
}
