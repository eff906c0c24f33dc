package services

import (
	"errors"
	"fmt"

	"github.com/careloop/clinic-app/models"
)

// Error taxonomy shared by all lifecycle operations. Controllers map these to
// HTTP status codes; everything else surfaces as an internal error.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
)

// lifecycleError folds state-machine failures into the service taxonomy.
// Both an invalid edge and a lost optimistic-concurrency race come back as
// conflicts; the caller is expected to re-read and retry deliberately, never
// blindly.
func lifecycleError(err error) error {
	var invalid *models.InvalidTransitionError
	switch {
	case errors.As(err, &invalid):
		return fmt.Errorf("%w: %s", ErrConflict, invalid.Error())
	case errors.Is(err, models.ErrStaleTransition):
		return fmt.Errorf("%w: %s", ErrConflict, err.Error())
	}
	return err
}
