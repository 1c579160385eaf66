package model

import "time"

// Recap is the persisted form of a pipeline run, one row per processed upload.
type Recap struct {
	ID            int64
	FileName      string
	AudioDuration int // seconds
	Transcript    string
	Summary       string
	Titles        []string
	CreatedAt     time.Time
	HasError      int
	ErrorMessage  string
}
