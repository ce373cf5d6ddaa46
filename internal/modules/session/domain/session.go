package domain

type Status string

const (
	StatusUnknown   Status = "unknown"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
	StatusNotFound  Status = "not_found"
)

func ParseStatus(raw string) Status {
	switch s := Status(raw); s {
	case StatusActive, StatusCompleted, StatusAbandoned, StatusNotFound:
		return s
	}
	return StatusUnknown
}

// Usable reports whether votes may be correlated to the session. Completed
// sessions stay usable so the terminal screen can render.
func (s Status) Usable() bool {
	return s == StatusActive || s == StatusCompleted
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusAbandoned || s == StatusNotFound
}

// Next applies an observed status. Terminal states are sticky; only a reset
// (which starts again from unknown) leaves them.
func (s Status) Next(observed Status) Status {
	if s.Terminal() || observed == StatusUnknown {
		return s
	}
	return observed
}

type Session struct {
	ID     string
	Status Status
	// Offline marks an id generated locally because the backend could not
	// create a session.
	Offline bool
}

func (s Session) Held() bool {
	return s.ID != ""
}
