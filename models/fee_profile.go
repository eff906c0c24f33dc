package models

import (
	"gorm.io/gorm"
)

// DoctorFeeProfile holds a doctor's consultation pricing. Who may edit it is
// governed by the organization's fee control mode, enforced upstream.
type DoctorFeeProfile struct {
	gorm.Model
	DoctorID       uint         `json:"doctor_id" gorm:"uniqueIndex"`
	Doctor         User         `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	OrganizationID uint         `json:"organization_id"`
	Organization   Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
	BaseFee        float64      `json:"base_fee"`
	FollowUpFee    float64      `json:"follow_up_fee"`
	FollowUpDays   int          `json:"follow_up_days"`
}
