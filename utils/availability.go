package utils

import (
	"time"

	"github.com/careloop/clinic-app/models"
	"gorm.io/gorm"
)

// CheckAvailability reports whether the doctor is free at the given time.
//
// Slot calendars, working hours and buffer math live in the availability
// service; this default implementation only rejects booking the exact same
// slot twice while it still holds a live appointment. Assigned as a variable
// so tests and deployments can substitute the real oracle.
var CheckAvailability = func(tx *gorm.DB, doctorID uint, at time.Time) (bool, error) {
	var count int64
	err := tx.Model(&models.Appointment{}).
		Where("doctor_id = ? AND scheduled_at = ?", doctorID, at).
		Where("status IN ?", []models.AppointmentStatus{models.StatusPending, models.StatusConfirmed}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
