package dto

type SessionOutput struct {
	SessionID string
	Status    string
	Offline   bool
	Usable    bool
	Completed bool
}

type ValidateOutput struct {
	SessionID string
	Status    string
	Usable    bool
}
