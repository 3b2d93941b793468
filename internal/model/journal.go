package model

import (
	"time"
)

// Mood is a closed set of feelings for the daily check-in. The client maps
// these to emoji; the server only knows the tags.
type Mood string

const (
	MoodGreat   Mood = "great"
	MoodGood    Mood = "good"
	MoodNeutral Mood = "neutral"
	MoodWorried Mood = "worried"
	MoodSad     Mood = "sad"
)

func (m Mood) Valid() bool {
	switch m {
	case MoodGreat, MoodGood, MoodNeutral, MoodWorried, MoodSad:
		return true
	}
	return false
}

type SleepQuality string

const (
	SleepGreat SleepQuality = "great"
	SleepGood  SleepQuality = "good"
	SleepFair  SleepQuality = "fair"
	SleepPoor  SleepQuality = "poor"
)

func (q SleepQuality) Valid() bool {
	switch q {
	case SleepGreat, SleepGood, SleepFair, SleepPoor:
		return true
	}
	return false
}

type MoodLog struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Date      Date      `db:"date"`
	Mood      Mood      `db:"mood"`
	Note      string    `db:"note"`
	Energy    int       `db:"energy"` // 1..5
	CreatedAt time.Time `db:"created_at"`
}

type SleepLog struct {
	ID        string       `db:"id"`
	UserID    string       `db:"user_id"`
	Date      Date         `db:"date"`
	Quality   SleepQuality `db:"quality"`
	Hours     float64      `db:"hours"`
	CreatedAt time.Time    `db:"created_at"`
}
