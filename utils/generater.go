package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateBookingNumber builds a human-quotable booking reference like
// APT-20250901-3F2A8C1D. The random suffix keeps it unique across doctors
// booked for the same day.
func GenerateBookingNumber(scheduledAt time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("APT-%s-%s", scheduledAt.Format("20060102"), suffix)
}
