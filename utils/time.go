package utils

import (
	"os"
	"time"
)

// ToClinicTime converts a timestamp to the clinic's display timezone,
// configured via CLINIC_TIMEZONE. Falls back to the input unchanged when the
// zone is unset or unknown.
func ToClinicTime(t time.Time) time.Time {
	name := os.Getenv("CLINIC_TIMEZONE")
	if name == "" {
		return t
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return t
	}
	return t.In(loc)
}
