package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/careloop/clinic-app/db"
	"github.com/careloop/clinic-app/models"
	"github.com/careloop/clinic-app/utils"
	"gorm.io/gorm"
)

// BookingInput is what the booking endpoint collects from the caller.
// Patients always book for themselves; admins and receptionists supply the
// patient explicitly.
type BookingInput struct {
	PatientID      uint      `json:"patient_id"`
	DoctorID       uint      `json:"doctor_id"`
	OrganizationID uint      `json:"organization_id"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	Reason         string    `json:"reason"`
}

// CreateAppointment resolves the fee and persists a PENDING appointment in
// one transaction. If a concurrent booking claims the same follow-up parent
// first, the insert loses on the unique index and the booking falls back to a
// fresh visit at the base fee within the same transaction.
func CreateAppointment(actor Actor, in BookingInput) (*models.Appointment, error) {
	switch actor.Role {
	case RolePatient:
		in.PatientID = actor.ID
	case RoleAdmin, RoleReceptionist:
		if in.PatientID == 0 {
			return nil, fmt.Errorf("%w: patient_id is required when booking on behalf of a patient", ErrValidation)
		}
	default:
		return nil, fmt.Errorf("%w: only patients or front-desk staff may book appointments", ErrForbidden)
	}

	if in.DoctorID == 0 {
		return nil, fmt.Errorf("%w: doctor_id is required", ErrValidation)
	}
	if in.ScheduledAt.IsZero() || in.ScheduledAt.Before(time.Now()) {
		return nil, fmt.Errorf("%w: scheduled_at must be in the future", ErrValidation)
	}

	var doctor models.User
	if err := db.DB.First(&doctor, in.DoctorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: doctor not found", ErrNotFound)
		}
		return nil, err
	}
	if in.OrganizationID == 0 {
		in.OrganizationID = doctor.OrganizationID
	}

	available, err := utils.CheckAvailability(db.DB, in.DoctorID, in.ScheduledAt)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, fmt.Errorf("%w: time slot not available", ErrConflict)
	}

	appointment := &models.Appointment{}
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		quote, err := ResolveFee(tx, in.PatientID, in.DoctorID, in.ScheduledAt)
		if err != nil {
			return err
		}

		*appointment = models.Appointment{
			OrganizationID:   in.OrganizationID,
			DoctorID:         in.DoctorID,
			PatientID:        in.PatientID,
			BookingNumber:    utils.GenerateBookingNumber(in.ScheduledAt),
			ScheduledAt:      in.ScheduledAt,
			Status:           models.StatusPending,
			Reason:           in.Reason,
			ChargedFee:       quote.ChargedFee,
			IsFollowUp:       quote.IsFollowUp,
			FollowUpParentID: quote.FollowUpParentID,
		}

		// Savepoint so losing the follow-up race does not abort the outer
		// transaction.
		err = tx.Transaction(func(tx2 *gorm.DB) error {
			return tx2.Create(appointment).Error
		})
		if err != nil {
			if quote.IsFollowUp && errors.Is(err, gorm.ErrDuplicatedKey) {
				appointment.ID = 0
				appointment.IsFollowUp = false
				appointment.FollowUpParentID = nil
				appointment.ChargedFee = quote.OriginalFee
				return tx.Create(appointment).Error
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	go notifyBooking(appointment.ID)
	return appointment, nil
}

// ConfirmAppointment moves the appointment to CONFIRMED, optionally updating
// its time in the same transaction. Owning doctor or admin only.
func ConfirmAppointment(actor Actor, id uint, newTime *time.Time) (*models.Appointment, error) {
	var appointment models.Appointment
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := loadAppointment(tx, id, &appointment); err != nil {
			return err
		}
		if err := Authorize(actor, ActionManage, &appointment); err != nil {
			return err
		}
		if err := appointment.Transition(tx, models.StatusConfirmed); err != nil {
			return lifecycleError(err)
		}
		if newTime != nil {
			if err := tx.Model(&appointment).Update("scheduled_at", *newTime).Error; err != nil {
				return err
			}
			appointment.ScheduledAt = *newTime
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

// RejectAppointment terminates a booking the clinic will not honor. The
// lifecycle deliberately conflates rejection with cancellation: the
// appointment lands in CANCELLED, paired with a full-refund audit row since
// the termination is clinic-initiated.
func RejectAppointment(actor Actor, id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := loadAppointment(tx, id, &appointment); err != nil {
			return err
		}
		if err := Authorize(actor, ActionManage, &appointment); err != nil {
			return err
		}
		if appointment.Status == models.StatusCancelled {
			return nil
		}
		return terminate(tx, &appointment, actor.ID, "appointment rejected by the clinic",
			models.RefundRefunded, appointment.ChargedFee)
	})
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

// CompleteAppointment moves a CONFIRMED appointment to COMPLETED, making it
// eligible to anchor one follow-up booking.
func CompleteAppointment(actor Actor, id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := loadAppointment(tx, id, &appointment); err != nil {
			return err
		}
		if err := Authorize(actor, ActionManage, &appointment); err != nil {
			return err
		}
		if err := appointment.Transition(tx, models.StatusCompleted); err != nil {
			return lifecycleError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

// GetAppointment returns a single appointment visible to the actor.
func GetAppointment(actor Actor, id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := db.DB.Preload("Doctor").Preload("Patient").First(&appointment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: appointment not found", ErrNotFound)
		}
		return nil, err
	}
	if err := Authorize(actor, ActionView, &appointment); err != nil {
		return nil, err
	}
	return &appointment, nil
}

// AppointmentFilter narrows ListAppointments.
type AppointmentFilter struct {
	OrganizationID uint
	DoctorID       uint
	PatientID      uint
	Status         models.AppointmentStatus
}

// ListAppointments returns appointments scoped to what the actor may see:
// staff see their filters as given, doctors and patients only their own.
func ListAppointments(actor Actor, filter AppointmentFilter) ([]models.Appointment, error) {
	query := db.DB.Preload("Doctor").Preload("Patient").Order("scheduled_at asc")

	switch actor.Role {
	case RoleDoctor:
		query = query.Where("doctor_id = ?", actor.ID)
	case RolePatient:
		query = query.Where("patient_id = ?", actor.ID)
	}

	if filter.OrganizationID != 0 {
		query = query.Where("organization_id = ?", filter.OrganizationID)
	}
	if filter.DoctorID != 0 {
		query = query.Where("doctor_id = ?", filter.DoctorID)
	}
	if filter.PatientID != 0 {
		query = query.Where("patient_id = ?", filter.PatientID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func loadAppointment(tx *gorm.DB, id uint, dst *models.Appointment) error {
	if err := tx.First(dst, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: appointment not found", ErrNotFound)
		}
		return err
	}
	return nil
}

// notifyBooking emails both parties about the new booking. Notification
// delivery is best-effort and never fails the operation.
func notifyBooking(appointmentID uint) {
	var appointment models.Appointment
	if err := db.DB.Preload("Doctor").Preload("Patient").First(&appointment, appointmentID).Error; err != nil {
		log.Printf("booking notice: load appointment %d: %v", appointmentID, err)
		return
	}

	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your appointment with %s has been requested.</p>
		<ul>
			<li><strong>Booking number:</strong> %s</li>
			<li><strong>Scheduled at:</strong> %s</li>
			<li><strong>Fee:</strong> %.2f</li>
		</ul>
		<p>You will be notified once the clinic confirms.</p>
	`, appointment.Patient.Name, appointment.Doctor.Name, appointment.BookingNumber,
		utils.ToClinicTime(appointment.ScheduledAt).Format("2006-01-02 15:04"), appointment.ChargedFee)

	if err := utils.SendEmail(appointment.Patient.Email, "Appointment requested", body); err != nil {
		log.Printf("booking notice: send to %s: %v", appointment.Patient.Email, err)
	}
}
