package prenatal

import (
	"errors"
	"time"
)

// ErrLMPRequired is returned when a schedule is requested without a last
// menstrual period date.
var ErrLMPRequired = errors.New("last menstrual period date is required")

// consultationWeeks are the gestational weeks, counted from the LMP, at which
// a prenatal consultation is planned: monthly until week 28, every two weeks
// until week 36, then weekly until term.
var consultationWeeks = []int{12, 16, 20, 24, 28, 30, 32, 34, 36, 37, 38, 39, 40}

// gestationDays is the length of a full-term pregnancy counted from the LMP.
const gestationDays = 280

// ScheduleFromLMP returns the full consultation calendar for a pregnancy
// whose last menstrual period started on lmp. Dates are ascending; the last
// one falls on the estimated due date.
func ScheduleFromLMP(lmp time.Time) ([]time.Time, error) {
	if lmp.IsZero() {
		return nil, ErrLMPRequired
	}
	dates := make([]time.Time, 0, len(consultationWeeks))
	for _, w := range consultationWeeks {
		dates = append(dates, lmp.AddDate(0, 0, w*7))
	}
	return dates, nil
}

// ScheduleUpcomingFromLMP returns the consultation dates that have not passed
// yet. A consultation falling on today is still upcoming. A zero today means
// the current date.
func ScheduleUpcomingFromLMP(lmp, today time.Time) ([]time.Time, error) {
	all, err := ScheduleFromLMP(lmp)
	if err != nil {
		return nil, err
	}
	if today.IsZero() {
		today = time.Now().UTC()
	}
	cutoff := dateOnly(today)
	upcoming := make([]time.Time, 0, len(all))
	for _, d := range all {
		if !dateOnly(d).Before(cutoff) {
			upcoming = append(upcoming, d)
		}
	}
	return upcoming, nil
}

// EstimatedDueDate returns the expected delivery date for the given LMP.
func EstimatedDueDate(lmp time.Time) time.Time {
	return lmp.AddDate(0, 0, gestationDays)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
