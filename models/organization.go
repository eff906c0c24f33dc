package models

import (
	"gorm.io/gorm"
)

// FeeControlMode determines whether doctors or the organization may edit
// base/follow-up fees. It is stored and served here but evaluated by the
// settings service, not by this API.
type FeeControlMode string

const (
	FeeControlOrganization FeeControlMode = "organization"
	FeeControlDoctor       FeeControlMode = "doctor"
)

type Organization struct {
	gorm.Model
	Name           string         `json:"name"`
	ContactEmail   string         `json:"contact_email"`
	FeeControlMode FeeControlMode `json:"fee_control_mode" gorm:"default:organization"`
}
