package timetable

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melsoft/timegrid/internal/models"
)

func TestGenerateSlotsLayoutMatchesConfig(t *testing.T) {
	config := &fakeSchoolConfigStore{config: models.SchoolConfig{
		DaysPerWeek:        2,
		LessonStartTime:    "08:00:00",
		LessonDurationMin:  45,
		PeriodsBeforeBreak: 2,
		BreakDurationMin:   15,
		PeriodsAfterBreak:  2,
		LunchDurationMin:   40,
	}}
	store := &fakeTimeSlotStore{}

	slots, err := GenerateSlots(context.Background(), config, store)
	require.NoError(t, err)
	require.Len(t, slots, 8) // 2 days * 4 periods
	assert.Equal(t, slots, store.slots, "generator replaces the stored grid")

	day0 := slotsForDay(slots, 0)
	require.Len(t, day0, 4)
	assert.Equal(t, "08:00:00", day0[0].StartTime)
	assert.Equal(t, "08:45:00", day0[0].EndTime)
	assert.Equal(t, "08:45:00", day0[1].StartTime)
	// Period 2 starts after the 15-minute break following period 1's end.
	assert.Equal(t, "09:45:00", day0[2].StartTime)
}

func TestGenerateSlotsIsIdempotent(t *testing.T) {
	config := &fakeSchoolConfigStore{config: models.SchoolConfig{
		DaysPerWeek: 1, LessonStartTime: "08:00:00", LessonDurationMin: 45,
		PeriodsBeforeBreak: 1, BreakDurationMin: 10, PeriodsAfterBreak: 1, LunchDurationMin: 30,
	}}
	store := &fakeTimeSlotStore{}

	first, err := GenerateSlots(context.Background(), config, store)
	require.NoError(t, err)
	second, err := GenerateSlots(context.Background(), config, store)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func slotsForDay(slots []models.TimeSlot, day int) []models.TimeSlot {
	var out []models.TimeSlot
	for _, s := range slots {
		if s.DayIndex == day {
			out = append(out, s)
		}
	}
	return out
}
