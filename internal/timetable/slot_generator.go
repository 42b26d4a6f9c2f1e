package timetable

import (
	"context"
	"fmt"
	"time"

	appErrors "github.com/melsoft/timegrid/pkg/errors"

	"github.com/melsoft/timegrid/internal/models"
)

// wallClockLayout is the TimeField format the config and generated slots
// are stored in (original_source/timetable/models.py: `models.TimeField`,
// Django's default "HH:MM:SS").
const wallClockLayout = "15:04:05"

// GenerateSlots implements spec.md §4.6: it lays out lesson, break, and
// lunch periods for every day of the week from a SchoolConfig and replaces
// the stored TimeSlot grid. Invocation is idempotent for a fixed config,
// since it always deletes and rebuilds the full grid.
func GenerateSlots(ctx context.Context, config SchoolConfigStore, timeSlots TimeSlotStore) ([]models.TimeSlot, error) {
	cfg, err := config.Get(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, "STORAGE_ERROR", 500, "failed to load school configuration")
	}

	slots, err := buildDaySlots(*cfg)
	if err != nil {
		return nil, appErrors.Wrap(err, "VALIDATION_ERROR", 400, "invalid school configuration")
	}

	if err := timeSlots.ReplaceAll(ctx, slots); err != nil {
		return nil, appErrors.Wrap(err, "STORAGE_ERROR", 500, "failed to persist generated timeslots")
	}
	return slots, nil
}

// buildDaySlots runs the layout pseudocode of spec.md §4.6 once per day:
// periods before the break, the break itself, then periods after the
// break, then lunch. No further periods are created after lunch — a
// deliberate restriction the spec calls out, not an oversight.
func buildDaySlots(cfg models.SchoolConfig) ([]models.TimeSlot, error) {
	start, err := time.Parse(wallClockLayout, cfg.LessonStartTime)
	if err != nil {
		return nil, fmt.Errorf("parse lesson_start_time %q: %w", cfg.LessonStartTime, err)
	}

	lesson := time.Duration(cfg.LessonDurationMin) * time.Minute
	var slots []models.TimeSlot

	for day := 0; day < cfg.DaysPerWeek; day++ {
		cursor := start
		period := 0

		for p := 0; p < cfg.PeriodsBeforeBreak; p++ {
			end := cursor.Add(lesson)
			slots = append(slots, newTimeSlot(day, period, cursor, end))
			cursor = end
			period++
		}

		cursor = cursor.Add(time.Duration(cfg.BreakDurationMin) * time.Minute)

		for p := 0; p < cfg.PeriodsAfterBreak; p++ {
			end := cursor.Add(lesson)
			slots = append(slots, newTimeSlot(day, period, cursor, end))
			cursor = end
			period++
		}

		// cursor += lunch_duration_min is computed for parity with the
		// pseudocode but intentionally unused: no periods follow lunch.
		_ = cursor.Add(time.Duration(cfg.LunchDurationMin) * time.Minute)
	}

	return slots, nil
}

func newTimeSlot(day, period int, start, end time.Time) models.TimeSlot {
	return models.TimeSlot{
		DayIndex:    day,
		PeriodIndex: period,
		StartTime:   start.Format(wallClockLayout),
		EndTime:     end.Format(wallClockLayout),
	}
}
