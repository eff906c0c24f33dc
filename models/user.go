package models

import (
	"time"
)

type User struct {
	ID                  uint          `json:"id" gorm:"primaryKey"`
	Name                string        `json:"name"`
	Email               string        `json:"email" gorm:"unique"`
	Password            string        `json:"password,omitempty"`
	RoleID              uint          `json:"role_id"`
	Role                Role          `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	OrganizationID      uint          `json:"organization_id"`
	Organization        Organization  `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
	DoctorAppointments  []Appointment `json:"doctor_appointments,omitempty" gorm:"foreignKey:DoctorID"`
	PatientAppointments []Appointment `json:"patient_appointments,omitempty" gorm:"foreignKey:PatientID"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}
