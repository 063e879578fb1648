package domain

// Access is the outcome of the access policy for one caller and one session.
type Access int

const (
	AccessDenied Access = iota
	AccessRedacted
	AccessFull
)

func (a Access) String() string {
	switch a {
	case AccessFull:
		return "full"
	case AccessRedacted:
		return "redacted"
	default:
		return "denied"
	}
}

// CanAccess decides how much of a session the caller may see.
// Members get the full view. Outsiders may preview an active session that
// still has a free seat, without its external resource handle.
func CanAccess(session Session, callerID string) Access {
	if session.IsMember(callerID) {
		return AccessFull
	}
	if session.IsActive() && !session.HasParticipant() {
		return AccessRedacted
	}
	return AccessDenied
}
