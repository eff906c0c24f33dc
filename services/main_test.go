package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/careloop/clinic-app/db"
	"github.com/careloop/clinic-app/models"
	"github.com/careloop/clinic-app/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a throwaway sqlite database with the full schema and
// points the package-level handle at it for the duration of the test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	d, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(d))

	prev := db.DB
	db.DB = d
	t.Cleanup(func() { db.DB = prev })
	return d
}

func createUser(t *testing.T, d *gorm.DB, name string, orgID uint) models.User {
	t.Helper()
	u := models.User{Name: name, Email: name + "@clinic.test", OrganizationID: orgID}
	require.NoError(t, d.Create(&u).Error)
	return u
}

// createDoctor makes a doctor user with a fee profile attached.
func createDoctor(t *testing.T, d *gorm.DB, name string, orgID uint, baseFee, followUpFee float64, followUpDays int) models.User {
	t.Helper()
	doctor := createUser(t, d, name, orgID)
	profile := models.DoctorFeeProfile{
		DoctorID:       doctor.ID,
		OrganizationID: orgID,
		BaseFee:        baseFee,
		FollowUpFee:    followUpFee,
		FollowUpDays:   followUpDays,
	}
	require.NoError(t, d.Create(&profile).Error)
	return doctor
}

func createAppointment(t *testing.T, d *gorm.DB, doctorID, patientID uint, at time.Time, status models.AppointmentStatus) models.Appointment {
	t.Helper()
	appt := models.Appointment{
		OrganizationID: 1,
		DoctorID:       doctorID,
		PatientID:      patientID,
		BookingNumber:  utils.GenerateBookingNumber(at),
		ScheduledAt:    at,
		Status:         status,
		ChargedFee:     800,
	}
	require.NoError(t, d.Create(&appt).Error)
	return appt
}

// futureTime returns a stable UTC timestamp safely in the future. Sqlite
// compares stored timestamps as text, so everything in the tests stays UTC.
func futureTime(offset time.Duration) time.Time {
	return time.Now().UTC().Truncate(time.Second).Add(48*time.Hour + offset)
}

func pastTime(offset time.Duration) time.Time {
	return time.Now().UTC().Truncate(time.Second).Add(-48*time.Hour - offset)
}
