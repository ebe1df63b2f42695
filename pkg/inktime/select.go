package inktime

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"time"
)

// ErrNoRecords is returned when there is nothing to choose from.
var ErrNoRecords = errors.New("no usable photos")

// daysBefore is the number of days preceding each month in a non-leap year.
var daysBefore = [13]int{0, 0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// Selection describes which photos were chosen for a day, and why.
type Selection struct {
	Chosen []PhotoRecord

	TargetMonthDay string
	UsedMonthDay   string
	// DayOffset is zero or negative; nil when the global fallback was used.
	DayOffset *int

	CandidateCount   int
	TotalCountForDay int
	Threshold        float64
	UsedFallback     bool
}

// dayOfYear maps a month and day onto a fixed 365-day calendar.
// Feb 29 lands on the same day as Mar 1.
func dayOfYear(m, d int) int {
	return daysBefore[m] + d
}

// monthDay maps a day of year back to "MM-DD" on a fixed 365-day calendar.
func monthDay(doy int) string {
	t := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, doy-1)
	return fmt.Sprintf("%02d-%02d", int(t.Month()), t.Day())
}

func byScore(a, b PhotoRecord) int {
	switch {
	case a.MemoryScore > b.MemoryScore:
		return -1
	case a.MemoryScore < b.MemoryScore:
		return 1
	}
	return 0
}

// Select picks up to count photos for the day of target, walking backwards
// one day at a time until a day has a photo scoring above threshold. If no
// day in the year qualifies, the highest scoring photos overall are used.
// When more photos qualify than are needed, the choice among them is random.
func Select(records []PhotoRecord, target time.Time, count int, threshold float64, rng *rand.Rand) (*Selection, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	if count < 1 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	byDay := map[string][]PhotoRecord{}
	for _, r := range records {
		byDay[r.MonthDay] = append(byDay[r.MonthDay], r)
	}
	for _, rs := range byDay {
		slices.SortStableFunc(rs, byScore)
	}

	targetMD := fmt.Sprintf("%02d-%02d", int(target.Month()), target.Day())
	targetDOY := dayOfYear(int(target.Month()), target.Day())

	for offset := 0; offset < 365; offset++ {
		doy := targetDOY - offset
		if doy <= 0 {
			doy += 365
		}
		md := monthDay(doy)

		day := byDay[md]
		var above []int
		for i, r := range day {
			if r.MemoryScore > threshold {
				above = append(above, i)
			}
		}
		if len(above) == 0 {
			continue
		}

		var chosen []PhotoRecord
		if len(above) >= count {
			for _, p := range rng.Perm(len(above))[:count] {
				chosen = append(chosen, day[above[p]])
			}
		} else {
			taken := map[int]bool{}
			for _, i := range above {
				chosen = append(chosen, day[i])
				taken[i] = true
			}
			for i, r := range day {
				if len(chosen) >= count {
					break
				}
				if taken[i] {
					continue
				}
				chosen = append(chosen, r)
			}
		}

		o := -offset
		return &Selection{
			Chosen:           chosen,
			TargetMonthDay:   targetMD,
			UsedMonthDay:     md,
			DayOffset:        &o,
			CandidateCount:   len(above),
			TotalCountForDay: len(day),
			Threshold:        threshold,
		}, nil
	}

	all := slices.Clone(records)
	slices.SortStableFunc(all, byScore)
	chosen := all[:min(count, len(all))]

	return &Selection{
		Chosen:           chosen,
		TargetMonthDay:   targetMD,
		UsedMonthDay:     chosen[0].MonthDay,
		CandidateCount:   len(chosen),
		TotalCountForDay: len(records),
		Threshold:        threshold,
		UsedFallback:     true,
	}, nil
}
