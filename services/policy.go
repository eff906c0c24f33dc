package services

import (
	"fmt"

	"github.com/careloop/clinic-app/models"
)

// Role names as seeded in the roles table and carried in JWT claims.
const (
	RoleAdmin        = "admin"
	RoleDoctor       = "doctor"
	RolePatient      = "patient"
	RoleReceptionist = "receptionist"
)

// Actor identifies who is performing an operation. It is built from the JWT
// claims by the HTTP layer.
type Actor struct {
	ID   uint
	Role string
}

// Actions evaluated by Authorize.
const (
	ActionManage     = "manage"     // confirm/reject/complete
	ActionView       = "view"       // read a single appointment
	ActionReschedule = "reschedule" // open a reschedule request
)

// Authorize evaluates whether the actor may perform the action on the
// appointment. Ownership rules live here so the lifecycle operations stay
// free of scattered role-string comparisons.
func Authorize(actor Actor, action string, appt *models.Appointment) error {
	switch action {
	case ActionManage:
		if actor.Role == RoleAdmin {
			return nil
		}
		if actor.Role == RoleDoctor && appt.DoctorID == actor.ID {
			return nil
		}
		return fmt.Errorf("%w: only the owning doctor or an admin may manage this appointment", ErrForbidden)
	case ActionView:
		switch actor.Role {
		case RoleAdmin, RoleReceptionist:
			return nil
		case RoleDoctor:
			if appt.DoctorID == actor.ID {
				return nil
			}
		case RolePatient:
			if appt.PatientID == actor.ID {
				return nil
			}
		}
		return fmt.Errorf("%w: you are not a party to this appointment", ErrForbidden)
	case ActionReschedule:
		if actor.Role == RoleDoctor && appt.DoctorID == actor.ID {
			return nil
		}
		if actor.Role == RolePatient && appt.PatientID == actor.ID {
			return nil
		}
		return fmt.Errorf("%w: only the owning patient or doctor may request a reschedule", ErrForbidden)
	}
	return fmt.Errorf("%w: unknown action %q", ErrForbidden, action)
}
