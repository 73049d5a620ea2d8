package prenatal

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestScheduleFromLMP_FullCalendar(t *testing.T) {
	lmp := date(2024, time.January, 1)

	dates, err := ScheduleFromLMP(lmp)
	if err != nil {
		t.Fatalf("ScheduleFromLMP: %v", err)
	}
	if len(dates) != 13 {
		t.Fatalf("expected 13 consultations, got %d", len(dates))
	}
	if !dates[0].Equal(date(2024, time.March, 25)) {
		t.Errorf("first consultation = %s, want 2024-03-25", dates[0].Format("2006-01-02"))
	}
	if !dates[len(dates)-1].Equal(date(2024, time.October, 7)) {
		t.Errorf("last consultation = %s, want 2024-10-07", dates[len(dates)-1].Format("2006-01-02"))
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			t.Errorf("dates not strictly ascending at index %d: %s then %s",
				i, dates[i-1].Format("2006-01-02"), dates[i].Format("2006-01-02"))
		}
	}
}

func TestScheduleFromLMP_ZeroLMP(t *testing.T) {
	if _, err := ScheduleFromLMP(time.Time{}); !errors.Is(err, ErrLMPRequired) {
		t.Fatalf("expected ErrLMPRequired, got %v", err)
	}
}

func TestScheduleUpcomingFromLMP_FiltersPast(t *testing.T) {
	lmp := date(2024, time.January, 1)

	// Between the week-20 and week-24 visits.
	upcoming, err := ScheduleUpcomingFromLMP(lmp, date(2024, time.June, 1))
	if err != nil {
		t.Fatalf("ScheduleUpcomingFromLMP: %v", err)
	}
	if len(upcoming) != 10 {
		t.Fatalf("expected 10 upcoming consultations, got %d", len(upcoming))
	}
	if !upcoming[0].Equal(date(2024, time.June, 17)) {
		t.Errorf("first upcoming = %s, want 2024-06-17", upcoming[0].Format("2006-01-02"))
	}
}

func TestScheduleUpcomingFromLMP_TodayIsIncluded(t *testing.T) {
	lmp := date(2024, time.January, 1)

	// The week-12 visit falls exactly on today.
	upcoming, err := ScheduleUpcomingFromLMP(lmp, date(2024, time.March, 25))
	if err != nil {
		t.Fatalf("ScheduleUpcomingFromLMP: %v", err)
	}
	if len(upcoming) != 13 {
		t.Fatalf("expected all 13 consultations when the first falls today, got %d", len(upcoming))
	}

	// One day later it is gone.
	upcoming, err = ScheduleUpcomingFromLMP(lmp, date(2024, time.March, 26))
	if err != nil {
		t.Fatalf("ScheduleUpcomingFromLMP: %v", err)
	}
	if len(upcoming) != 12 {
		t.Fatalf("expected 12 consultations the day after the first visit, got %d", len(upcoming))
	}
}

func TestScheduleUpcomingFromLMP_AllPast(t *testing.T) {
	lmp := date(2024, time.January, 1)

	upcoming, err := ScheduleUpcomingFromLMP(lmp, date(2025, time.January, 1))
	if err != nil {
		t.Fatalf("ScheduleUpcomingFromLMP: %v", err)
	}
	if len(upcoming) != 0 {
		t.Fatalf("expected no upcoming consultations a year later, got %d", len(upcoming))
	}
}

func TestEstimatedDueDate(t *testing.T) {
	lmp := date(2024, time.January, 1)
	if edd := EstimatedDueDate(lmp); !edd.Equal(date(2024, time.October, 7)) {
		t.Fatalf("EstimatedDueDate = %s, want 2024-10-07", edd.Format("2006-01-02"))
	}
}
