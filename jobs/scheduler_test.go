package jobs

import (
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ScheduleConfig
		wantErr bool
	}{
		{
			name: "valid",
			cfg:  ScheduleConfig{DailyHour: 9, DailyMinute: 0, EmergencyInterval: 30 * time.Minute, Location: time.UTC},
		},
		{
			name:    "hour out of range",
			cfg:     ScheduleConfig{DailyHour: 24, EmergencyInterval: time.Minute, Location: time.UTC},
			wantErr: true,
		},
		{
			name:    "minute out of range",
			cfg:     ScheduleConfig{DailyMinute: 60, EmergencyInterval: time.Minute, Location: time.UTC},
			wantErr: true,
		},
		{
			name:    "interval too short",
			cfg:     ScheduleConfig{EmergencyInterval: time.Second, Location: time.UTC},
			wantErr: true,
		},
		{
			name:    "no location",
			cfg:     ScheduleConfig{EmergencyInterval: time.Minute},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, errInvalidSchedule)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScheduler_NextRuns(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)

	s, err := NewScheduler(ScheduleConfig{
		DailyHour:         9,
		DailyMinute:       30,
		EmergencyInterval: 30 * time.Minute,
		Location:          loc,
	}, slog.Default())
	require.NoError(t, err)

	require.NoError(t, s.Daily("daily", func() {}))
	require.NoError(t, s.Emergency("emergency", func() {}))

	s.Start()
	defer func() { assert.NoError(t, s.Shutdown()) }()

	var runs map[string]time.Time
	require.Eventually(t, func() bool {
		runs = s.NextRuns()
		return len(runs) == 2 && !runs["daily"].IsZero() && !runs["emergency"].IsZero()
	}, 2*time.Second, 10*time.Millisecond)

	daily := runs["daily"].In(loc)
	assert.Equal(t, 9, daily.Hour())
	assert.Equal(t, 30, daily.Minute())
	assert.True(t, daily.After(time.Now()))
	assert.LessOrEqual(t, time.Until(daily), 25*time.Hour)

	assert.WithinDuration(t, time.Now().Add(30*time.Minute), runs["emergency"], 5*time.Second)
}

func TestNewScheduler_invalidConfig(t *testing.T) {
	_, err := NewScheduler(ScheduleConfig{}, slog.Default())
	assert.ErrorIs(t, err, errInvalidSchedule)
}

func TestScheduler_firingsDoNotOverlap(t *testing.T) {
	s, err := NewScheduler(ScheduleConfig{EmergencyInterval: time.Minute, Location: time.UTC}, slog.Default())
	require.NoError(t, err)

	var running, maxRunning, runs atomic.Int32
	slow := func() {
		n := running.Add(1)
		defer running.Add(-1)
		for {
			m := maxRunning.Load()
			if n <= m || maxRunning.CompareAndSwap(m, n) {
				break
			}
		}
		runs.Add(1)
		time.Sleep(300 * time.Millisecond)
	}

	// the job body takes six times its interval
	require.NoError(t, s.add("slow", gocron.DurationJob(50*time.Millisecond), slow))

	s.Start()
	time.Sleep(time.Second)
	require.NoError(t, s.Shutdown())

	assert.GreaterOrEqual(t, runs.Load(), int32(2))
	assert.Equal(t, int32(1), maxRunning.Load())
}
