package controllers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/careloop/clinic-app/db"
	"github.com/careloop/clinic-app/models"
	"github.com/careloop/clinic-app/routes"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

// setupApp wires the full HTTP surface against a throwaway sqlite database
// with the default roles and permissions seeded.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)

	d, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(d))
	require.NoError(t, db.SeedDefaults(d))

	prev := db.DB
	db.DB = d
	t.Cleanup(func() { db.DB = prev })

	app := fiber.New()
	routes.SetupAppointmentRoutes(app)
	routes.SetupRescheduleRoutes(app)
	return app, d
}

// createUser makes a user holding one of the seeded roles.
func createUser(t *testing.T, d *gorm.DB, name, roleName string) models.User {
	t.Helper()
	var role models.Role
	require.NoError(t, d.Where("name = ?", roleName).First(&role).Error)

	u := models.User{Name: name, Email: name + "@clinic.test", RoleID: role.ID, OrganizationID: 1}
	require.NoError(t, d.Create(&u).Error)
	return u
}

func createDoctor(t *testing.T, d *gorm.DB, name string, baseFee, followUpFee float64, followUpDays int) models.User {
	t.Helper()
	doctor := createUser(t, d, name, "doctor")
	profile := models.DoctorFeeProfile{
		DoctorID:       doctor.ID,
		OrganizationID: 1,
		BaseFee:        baseFee,
		FollowUpFee:    followUpFee,
		FollowUpDays:   followUpDays,
	}
	require.NoError(t, d.Create(&profile).Error)
	return doctor
}

// signToken mints the bearer token the external identity service would issue.
func signToken(t *testing.T, user models.User, roleName string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   float64(user.ID),
		"role": roleName,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, app *fiber.App, method, path, token, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeJSON(t *testing.T, raw []byte, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, dst))
}

func futureTime(offset time.Duration) time.Time {
	return time.Now().UTC().Truncate(time.Second).Add(48*time.Hour + offset)
}
