package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/careloop/clinic-app/models"
	"gorm.io/gorm"
)

// FeeQuote is the fee resolver's classification of a prospective booking.
type FeeQuote struct {
	IsFollowUp       bool    `json:"is_follow_up"`
	ChargedFee       float64 `json:"charged_fee"`
	OriginalFee      float64 `json:"original_fee"`
	FollowUpParentID *uint   `json:"follow_up_parent_id"`
}

// ResolveFee classifies a prospective appointment between the patient and
// doctor as a follow-up or a fresh visit and prices it accordingly.
//
// The follow-up window is anchored on visit times: the parent appointment's
// scheduled_at must fall within follow_up_days before asOf, where asOf is the
// prospective appointment's own scheduled time. Booking timestamps play no
// part; the window is a clinical concept between two visits.
//
// This is a pure read. Booking must call it inside the same transaction that
// inserts the appointment so the "no follow-up child yet" check and the
// insert are serialized; the unique index on follow_up_parent_id backstops
// the race.
func ResolveFee(tx *gorm.DB, patientID, doctorID uint, asOf time.Time) (*FeeQuote, error) {
	var profile models.DoctorFeeProfile
	if err := tx.Where("doctor_id = ?", doctorID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: doctor has no fee profile", ErrNotFound)
		}
		return nil, err
	}

	quote := &FeeQuote{
		ChargedFee:  profile.BaseFee,
		OriginalFee: profile.BaseFee,
	}

	windowStart := asOf.AddDate(0, 0, -profile.FollowUpDays)

	var parent models.Appointment
	err := tx.
		Where("patient_id = ? AND doctor_id = ? AND status = ?",
			patientID, doctorID, models.StatusCompleted).
		Where("scheduled_at >= ? AND scheduled_at <= ?", windowStart, asOf).
		Where("NOT EXISTS (SELECT 1 FROM appointments child WHERE child.follow_up_parent_id = appointments.id)").
		Order("scheduled_at DESC").
		First(&parent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return quote, nil
		}
		return nil, err
	}

	parentID := parent.ID
	quote.IsFollowUp = true
	quote.ChargedFee = profile.FollowUpFee
	quote.FollowUpParentID = &parentID
	return quote, nil
}
