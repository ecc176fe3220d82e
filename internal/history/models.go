package history

import "time"

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Entry is one accepted passage.
type Entry struct {
	ID         int64
	SessionID  string
	Text       string
	Confidence float64
	Spoken     bool
	SavedPath  string
	DetectedAt time.Time
}

// Session is one run of the reader.
type Session struct {
	ID        string
	Language  string
	StartedAt time.Time
	EndedAt   time.Time
	Passages  int
}

// Active reports whether the session has not been closed.
func (s Session) Active() bool { return s.EndedAt.IsZero() }

// Summary aggregates the database for the status command.
type Summary struct {
	Passages     int
	Sessions     int
	LastDetected time.Time
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t.Local()
}
