package domain

import (
	"fmt"
	"time"
)

// Period is a half-year bucket, e.g. "2025-H1" or "2025-H2"
type Period string

// PeriodOf derives the period from a calendar date: months 1-6 fall in H1,
// months 7-12 in H2
func PeriodOf(date time.Time) Period {
	half := "H1"
	if date.Month() > 6 {
		half = "H2"
	}
	return Period(fmt.Sprintf("%d-%s", date.Year(), half))
}

func (p Period) String() string {
	return string(p)
}
