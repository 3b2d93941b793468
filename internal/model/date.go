package model

import "time"

const dateLayout = "2006-01-02"

// Date is a calendar day in ISO form (YYYY-MM-DD), deliberately decoupled
// from instants: habit due dates and journal entries belong to a day, not a
// moment, and comparing them must not depend on time zones. ISO dates order
// lexicographically, so plain string comparison is calendar comparison.
type Date string

// DateOf truncates an instant to its calendar day.
func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

func ParseDate(s string) (Date, error) {
	_, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", err
	}
	return Date(s), nil
}

func (d Date) Before(other Date) bool {
	return string(d) < string(other)
}

func (d Date) After(other Date) bool {
	return string(d) > string(other)
}

func (d Date) AddDays(n int) Date {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return d
	}
	return DateOf(t.AddDate(0, 0, n))
}

func (d Date) Valid() bool {
	_, err := time.Parse(dateLayout, string(d))
	return err == nil
}

func (d Date) String() string {
	return string(d)
}
