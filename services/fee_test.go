package services

import (
	"testing"
	"time"

	"github.com/careloop/clinic-app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The canonical pricing scenario: base fee 800, free follow-ups within 7
// days of a completed visit, window anchored on visit times.
func TestResolveFeeFollowUpWindow(t *testing.T) {
	d := setupTestDB(t)
	doctor := createDoctor(t, d, "dr-rao", 1, 800, 0, 7)
	patient := createUser(t, d, "asha", 1)

	visit := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	parent := createAppointment(t, d, doctor.ID, patient.ID, visit, models.StatusCompleted)

	t.Run("three days later is a free follow-up", func(t *testing.T) {
		quote, err := ResolveFee(d, patient.ID, doctor.ID, visit.AddDate(0, 0, 3))
		require.NoError(t, err)
		assert.True(t, quote.IsFollowUp)
		assert.Equal(t, 0.0, quote.ChargedFee)
		assert.Equal(t, 800.0, quote.OriginalFee)
		require.NotNil(t, quote.FollowUpParentID)
		assert.Equal(t, parent.ID, *quote.FollowUpParentID)
	})

	t.Run("exactly seven days later is still inside the window", func(t *testing.T) {
		quote, err := ResolveFee(d, patient.ID, doctor.ID, visit.AddDate(0, 0, 7))
		require.NoError(t, err)
		assert.True(t, quote.IsFollowUp)
	})

	t.Run("ten days later is a fresh visit at the base fee", func(t *testing.T) {
		quote, err := ResolveFee(d, patient.ID, doctor.ID, visit.AddDate(0, 0, 10))
		require.NoError(t, err)
		assert.False(t, quote.IsFollowUp)
		assert.Equal(t, 800.0, quote.ChargedFee)
		assert.Nil(t, quote.FollowUpParentID)
	})
}

func TestResolveFeeNoProfile(t *testing.T) {
	d := setupTestDB(t)
	patient := createUser(t, d, "asha", 1)

	_, err := ResolveFee(d, patient.ID, 999, time.Now().UTC())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveFeeNoHistoryChargesBase(t *testing.T) {
	d := setupTestDB(t)
	doctor := createDoctor(t, d, "dr-rao", 1, 800, 200, 7)
	patient := createUser(t, d, "asha", 1)

	quote, err := ResolveFee(d, patient.ID, doctor.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, quote.IsFollowUp)
	assert.Equal(t, 800.0, quote.ChargedFee)
}

// Only completed visits anchor a discount; pending, confirmed and cancelled
// appointments in the window do not.
func TestResolveFeeOnlyCompletedVisitsAnchor(t *testing.T) {
	d := setupTestDB(t)
	doctor := createDoctor(t, d, "dr-rao", 1, 800, 200, 7)
	patient := createUser(t, d, "asha", 1)

	visit := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	createAppointment(t, d, doctor.ID, patient.ID, visit, models.StatusConfirmed)
	createAppointment(t, d, doctor.ID, patient.ID, visit.Add(time.Hour), models.StatusCancelled)

	quote, err := ResolveFee(d, patient.ID, doctor.ID, visit.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.False(t, quote.IsFollowUp)
	assert.Equal(t, 800.0, quote.ChargedFee)
}

// A completed visit that already anchors a follow-up is spent; the next
// booking in the window pays the base fee.
func TestResolveFeeClaimedParentIsSpent(t *testing.T) {
	d := setupTestDB(t)
	doctor := createDoctor(t, d, "dr-rao", 1, 800, 200, 7)
	patient := createUser(t, d, "asha", 1)

	visit := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	parent := createAppointment(t, d, doctor.ID, patient.ID, visit, models.StatusCompleted)

	child := createAppointment(t, d, doctor.ID, patient.ID, visit.AddDate(0, 0, 2), models.StatusPending)
	require.NoError(t, d.Model(&child).Updates(map[string]interface{}{
		"is_follow_up":        true,
		"follow_up_parent_id": parent.ID,
	}).Error)

	quote, err := ResolveFee(d, patient.ID, doctor.ID, visit.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.False(t, quote.IsFollowUp)
	assert.Equal(t, 800.0, quote.ChargedFee)
}

// With two unclaimed completed visits in the window, the discount anchors on
// the most recent one.
func TestResolveFeePrefersMostRecentVisit(t *testing.T) {
	d := setupTestDB(t)
	doctor := createDoctor(t, d, "dr-rao", 1, 800, 200, 7)
	patient := createUser(t, d, "asha", 1)

	older := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	newer := older.AddDate(0, 0, 2)
	createAppointment(t, d, doctor.ID, patient.ID, older, models.StatusCompleted)
	recent := createAppointment(t, d, doctor.ID, patient.ID, newer, models.StatusCompleted)

	quote, err := ResolveFee(d, patient.ID, doctor.ID, newer.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.True(t, quote.IsFollowUp)
	require.NotNil(t, quote.FollowUpParentID)
	assert.Equal(t, recent.ID, *quote.FollowUpParentID)
}

// Visits with another doctor never anchor this doctor's discount.
func TestResolveFeeScopedToDoctor(t *testing.T) {
	d := setupTestDB(t)
	doctor := createDoctor(t, d, "dr-rao", 1, 800, 200, 7)
	other := createDoctor(t, d, "dr-iyer", 1, 500, 100, 7)
	patient := createUser(t, d, "asha", 1)

	visit := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	createAppointment(t, d, other.ID, patient.ID, visit, models.StatusCompleted)

	quote, err := ResolveFee(d, patient.ID, doctor.ID, visit.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.False(t, quote.IsFollowUp)
	assert.Equal(t, 800.0, quote.ChargedFee)
}
