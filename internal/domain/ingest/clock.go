package ingest

import "time"

// Clock abstracts wall-clock time so loaded_at assignment is testable.
type Clock interface {
	Now() time.Time
}

// SystemClock реализует Clock через системные часы
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
