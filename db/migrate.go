package db

import (
	"log"
	"os"

	"github.com/careloop/clinic-app/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migrate connects, applies the schema and seeds defaults. Call explicitly;
// Init alone never touches the schema.
func Migrate() {
	Init()

	if err := AutoMigrate(DB); err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}
	if err := SeedDefaults(DB); err != nil {
		log.Fatal("Failed to seed defaults: ", err)
	}

	log.Println("✅ Migrations applied successfully!")
}

// AutoMigrate applies the schema to the given database.
func AutoMigrate(d *gorm.DB) error {
	return d.AutoMigrate(
		&models.Organization{},
		&models.Role{},
		&models.Permission{},
		&models.User{},
		&models.DoctorFeeProfile{},
		&models.Appointment{},
		&models.RescheduleRequest{},
		&models.AppointmentCancellation{},
	)
}

// SeedDefaults creates the built-in roles, their permissions, and a bootstrap
// admin when ADMIN_EMAIL/ADMIN_PASSWORD are set. Idempotent: existing rows
// are left alone.
func SeedDefaults(d *gorm.DB) error {
	roles := []models.Role{
		{Name: "admin", Description: "Organization administrator with full access"},
		{Name: "doctor", Description: "Doctor who manages their own appointments"},
		{Name: "patient", Description: "Patient who books appointments"},
		{Name: "receptionist", Description: "Front desk staff who book and cancel for patients"},
	}
	for i := range roles {
		if err := d.Where("name = ?", roles[i].Name).FirstOrCreate(&roles[i]).Error; err != nil {
			return err
		}
	}

	permissions := []models.Permission{
		{Name: "create_appointment", Description: "Book appointments", Resource: "appointments", Action: "create"},
		{Name: "read_appointments", Description: "View appointments", Resource: "appointments", Action: "read"},
		{Name: "update_appointment", Description: "Confirm, reject or complete appointments", Resource: "appointments", Action: "update"},
		{Name: "cancel_appointment", Description: "Cancel appointments", Resource: "appointments", Action: "cancel"},
		{Name: "create_reschedule", Description: "Open reschedule requests", Resource: "reschedule_requests", Action: "create"},
		{Name: "read_reschedules", Description: "View reschedule requests", Resource: "reschedule_requests", Action: "read"},
		{Name: "decide_reschedule", Description: "Approve or reject reschedule requests", Resource: "reschedule_requests", Action: "decide"},
		{Name: "withdraw_reschedule", Description: "Withdraw own reschedule requests", Resource: "reschedule_requests", Action: "delete"},
	}
	for i := range permissions {
		if err := d.Where("name = ?", permissions[i].Name).FirstOrCreate(&permissions[i]).Error; err != nil {
			return err
		}
	}

	grants := map[string][]string{
		"admin": {"create_appointment", "read_appointments", "update_appointment", "cancel_appointment",
			"create_reschedule", "read_reschedules", "decide_reschedule", "withdraw_reschedule"},
		"doctor": {"read_appointments", "update_appointment",
			"create_reschedule", "read_reschedules", "withdraw_reschedule"},
		"patient": {"create_appointment", "read_appointments", "cancel_appointment",
			"create_reschedule", "read_reschedules", "withdraw_reschedule"},
		"receptionist": {"create_appointment", "read_appointments", "cancel_appointment", "read_reschedules"},
	}
	for roleName, permNames := range grants {
		var role models.Role
		if err := d.Where("name = ?", roleName).First(&role).Error; err != nil {
			return err
		}
		var perms []models.Permission
		if err := d.Where("name IN ?", permNames).Find(&perms).Error; err != nil {
			return err
		}
		if err := d.Model(&role).Association("Permissions").Replace(perms); err != nil {
			return err
		}
	}

	return seedAdmin(d)
}

// seedAdmin bootstraps the first admin account so a fresh deployment can be
// operated before the identity service has provisioned anyone.
func seedAdmin(d *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	var existing models.User
	if d.Where("email = ?", email).First(&existing).RowsAffected > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var adminRole models.Role
	if err := d.Where("name = ?", "admin").First(&adminRole).Error; err != nil {
		return err
	}

	admin := models.User{
		Name:     "Bootstrap Admin",
		Email:    email,
		Password: string(hash),
		RoleID:   adminRole.ID,
	}
	return d.Create(&admin).Error
}
