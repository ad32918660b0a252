package guest

// Error is a failed bridge call as seen by the guest.
type Error struct {
	Op      string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Op + ": bridge call failed"
	}
	return e.Message
}
