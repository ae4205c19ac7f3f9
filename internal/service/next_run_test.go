package service

import (
	"testing"
	"time"

	"golang-scheduler/internal/model"
	"golang-scheduler/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, cfg model.ScheduleConfig) compiledSchedule {
	t.Helper()
	compiled, err := compileSchedule(cfg)
	require.NoError(t, err)
	return compiled
}

func TestNextRun(t *testing.T) {
	// 2025-03-12 is a Wednesday.
	wednesday := time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		now      time.Time
		schedule model.ScheduleConfig
		want     time.Time
	}{
		{
			name:     "daily time already passed rolls to tomorrow",
			now:      time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC),
			schedule: model.ScheduleConfig{Type: model.ScheduleTypeDaily, Time: "09:00", Timezone: "UTC", Enabled: true},
			want:     time.Date(2025, time.March, 11, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "daily time still ahead fires today",
			now:      time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC),
			schedule: model.ScheduleConfig{Type: model.ScheduleTypeDaily, Time: "11:00", Timezone: "UTC", Enabled: true},
			want:     time.Date(2025, time.March, 10, 11, 0, 0, 0, time.UTC),
		},
		{
			name:     "once behaves like daily for the first computation",
			now:      time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC),
			schedule: model.ScheduleConfig{Type: model.ScheduleTypeOnce, Time: "09:30", Timezone: "UTC", Enabled: true},
			want:     time.Date(2025, time.March, 11, 9, 30, 0, 0, time.UTC),
		},
		{
			name:     "weekly same weekday with passed time wraps a full week",
			now:      wednesday,
			schedule: model.ScheduleConfig{Type: model.ScheduleTypeWeekly, Time: "09:00", Timezone: "UTC", DayOfWeek: utils.ToPointer(3), Enabled: true},
			want:     time.Date(2025, time.March, 19, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "weekly later weekday stays in the current week",
			now:      wednesday,
			schedule: model.ScheduleConfig{Type: model.ScheduleTypeWeekly, Time: "09:00", Timezone: "UTC", DayOfWeek: utils.ToPointer(5), Enabled: true},
			want:     time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "weekly earlier weekday lands next week",
			now:      wednesday,
			schedule: model.ScheduleConfig{Type: model.ScheduleTypeWeekly, Time: "09:00", Timezone: "UTC", DayOfWeek: utils.ToPointer(1), Enabled: true},
			want:     time.Date(2025, time.March, 17, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "monthly day still ahead fires this month",
			now:      time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC),
			schedule: model.ScheduleConfig{Type: model.ScheduleTypeMonthly, Time: "09:00", Timezone: "UTC", DayOfMonth: utils.ToPointer(15), Enabled: true},
			want:     time.Date(2025, time.March, 15, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "monthly day 31 from january 31 normalizes into march",
			// February has no day 31, so the next-month candidate normalizes
			// forward to March 3 per time.Date semantics.
			now:      time.Date(2025, time.January, 31, 10, 0, 0, 0, time.UTC),
			schedule: model.ScheduleConfig{Type: model.ScheduleTypeMonthly, Time: "09:00", Timezone: "UTC", DayOfMonth: utils.ToPointer(31), Enabled: true},
			want:     time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "daily honors the configured timezone",
			now:      time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC),
			schedule: model.ScheduleConfig{Type: model.ScheduleTypeDaily, Time: "09:00", Timezone: "America/New_York", Enabled: true},
			// 09:00 EDT is 13:00 UTC, still ahead of now.
			want: time.Date(2025, time.June, 15, 13, 0, 0, 0, time.UTC),
		},
		{
			name:     "custom cron expression is evaluated",
			now:      time.Date(2025, time.March, 10, 10, 7, 0, 0, time.UTC),
			schedule: model.ScheduleConfig{Type: model.ScheduleTypeCustom, Time: "00:00", Timezone: "UTC", CronExpression: utils.ToPointer("*/15 * * * *"), Enabled: true},
			want:     time.Date(2025, time.March, 10, 10, 15, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compiled := mustCompile(t, tt.schedule)
			got := compiled.NextRun(tt.now)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestNextRunIsDeterministic(t *testing.T) {
	now := time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)
	schedule := model.ScheduleConfig{Type: model.ScheduleTypeWeekly, Time: "06:45", Timezone: "Asia/Jakarta", DayOfWeek: utils.ToPointer(0), Enabled: true}

	first := mustCompile(t, schedule).NextRun(now)
	second := mustCompile(t, schedule).NextRun(now)
	assert.True(t, first.Equal(second))
	assert.True(t, first.After(now))
}

func TestCompileScheduleValidation(t *testing.T) {
	tests := []struct {
		name     string
		schedule model.ScheduleConfig
	}{
		{
			name:     "malformed time",
			schedule: model.ScheduleConfig{Type: model.ScheduleTypeDaily, Time: "25:61", Timezone: "UTC"},
		},
		{
			name:     "missing timezone",
			schedule: model.ScheduleConfig{Type: model.ScheduleTypeDaily, Time: "09:00"},
		},
		{
			name:     "unknown timezone",
			schedule: model.ScheduleConfig{Type: model.ScheduleTypeDaily, Time: "09:00", Timezone: "Mars/Olympus"},
		},
		{
			name:     "weekly without day of week",
			schedule: model.ScheduleConfig{Type: model.ScheduleTypeWeekly, Time: "09:00", Timezone: "UTC"},
		},
		{
			name:     "weekly day of week out of range",
			schedule: model.ScheduleConfig{Type: model.ScheduleTypeWeekly, Time: "09:00", Timezone: "UTC", DayOfWeek: utils.ToPointer(7)},
		},
		{
			name:     "monthly without day of month",
			schedule: model.ScheduleConfig{Type: model.ScheduleTypeMonthly, Time: "09:00", Timezone: "UTC"},
		},
		{
			name:     "monthly day of month out of range",
			schedule: model.ScheduleConfig{Type: model.ScheduleTypeMonthly, Time: "09:00", Timezone: "UTC", DayOfMonth: utils.ToPointer(0)},
		},
		{
			name:     "custom without cron expression",
			schedule: model.ScheduleConfig{Type: model.ScheduleTypeCustom, Time: "09:00", Timezone: "UTC"},
		},
		{
			name:     "custom with unparseable cron expression",
			schedule: model.ScheduleConfig{Type: model.ScheduleTypeCustom, Time: "09:00", Timezone: "UTC", CronExpression: utils.ToPointer("not a cron")},
		},
		{
			name:     "unknown schedule type",
			schedule: model.ScheduleConfig{Type: "hourly", Time: "09:00", Timezone: "UTC"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileSchedule(tt.schedule)
			require.Error(t, err)
			assert.True(t, model.IsValidationError(err))
		})
	}
}
