package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	all := []AppointmentStatus{
		AppointmentStatusScheduled,
		AppointmentStatusConfirmed,
		AppointmentStatusInProgress,
		AppointmentStatusCompleted,
		AppointmentStatusCancelled,
		AppointmentStatusNoShow,
	}

	allowed := map[AppointmentStatus]map[AppointmentStatus]bool{
		AppointmentStatusScheduled: {
			AppointmentStatusConfirmed: true,
			AppointmentStatusCancelled: true,
		},
		AppointmentStatusConfirmed: {
			AppointmentStatusInProgress: true,
			AppointmentStatusNoShow:     true,
		},
		AppointmentStatusInProgress: {
			AppointmentStatusCompleted: true,
		},
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[from][to], from.CanTransitionTo(to),
				"%s -> %s", from, to)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, AppointmentStatusCompleted.Terminal())
	assert.True(t, AppointmentStatusCancelled.Terminal())
	assert.True(t, AppointmentStatusNoShow.Terminal())

	assert.False(t, AppointmentStatusScheduled.Terminal())
	assert.False(t, AppointmentStatusConfirmed.Terminal())
	assert.False(t, AppointmentStatusInProgress.Terminal())
}

func TestBlocksCalendar(t *testing.T) {
	assert.False(t, AppointmentStatusCancelled.BlocksCalendar())
	assert.False(t, AppointmentStatusNoShow.BlocksCalendar())

	assert.True(t, AppointmentStatusScheduled.BlocksCalendar())
	assert.True(t, AppointmentStatusConfirmed.BlocksCalendar())
	assert.True(t, AppointmentStatusInProgress.BlocksCalendar())
	assert.True(t, AppointmentStatusCompleted.BlocksCalendar())
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	apt := &Appointment{StartTime: base, Duration: 30}

	tests := []struct {
		name     string
		start    time.Time
		duration int
		want     bool
	}{
		{"identical slot", base, 30, true},
		{"starts inside", base.Add(15 * time.Minute), 30, true},
		{"ends inside", base.Add(-15 * time.Minute), 30, true},
		{"fully contains", base.Add(-15 * time.Minute), 60, true},
		{"fully contained", base.Add(10 * time.Minute), 10, true},
		{"back to back after", base.Add(30 * time.Minute), 30, false},
		{"back to back before", base.Add(-30 * time.Minute), 30, false},
		{"far apart", base.Add(2 * time.Hour), 30, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apt.Overlaps(tt.start, tt.duration))
		})
	}
}

func TestEndTime(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	apt := &Appointment{StartTime: start, Duration: 45}
	assert.Equal(t, start.Add(45*time.Minute), apt.EndTime())
}
