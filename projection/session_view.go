// Package projection builds the read models handed to the outer surface.
// The access policy is applied here once, not in handlers.
package projection

import (
	"pair-lab/domain"
	"time"

	"github.com/samber/lo"
)

type MemberView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"profileImage"`
}

// SessionView is a session as returned to a caller. CallID is nil in the redacted view.
type SessionView struct {
	ID          string      `json:"_id"`
	Problem     string      `json:"problem"`
	Difficulty  string      `json:"difficulty"`
	Host        MemberView  `json:"host"`
	Participant *MemberView `json:"participant"`
	Status      string      `json:"status"`
	CallID      *string     `json:"callId,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Project applies an access decision. It returns false for AccessDenied.
func Project(session domain.Session, access domain.Access) (SessionView, bool) {
	switch access {
	case domain.AccessFull:
		view := toView(session)
		view.CallID = lo.ToPtr(session.Handle)
		return view, true
	case domain.AccessRedacted:
		return toView(session), true
	default:
		return SessionView{}, false
	}
}

// ProjectFor runs the access policy for callerID and projects the result.
func ProjectFor(session domain.Session, callerID string) (SessionView, bool) {
	return Project(session, domain.CanAccess(session, callerID))
}

// ProjectListing projects a listing. Listings are discovery surfaces: members
// see their sessions in full, everyone else gets the redacted view, including
// for sessions that are already full.
func ProjectListing(sessions []domain.Session, callerID string) []SessionView {
	return lo.Map(sessions, func(s domain.Session, _ int) SessionView {
		access := domain.AccessRedacted
		if s.IsMember(callerID) {
			access = domain.AccessFull
		}
		view, _ := Project(s, access)
		return view
	})
}

func toView(session domain.Session) SessionView {
	view := SessionView{
		ID:         string(session.ID),
		Problem:    session.Problem,
		Difficulty: string(session.Difficulty),
		Host:       toMemberView(session.Host),
		Status:     string(session.Status),
		CreatedAt:  session.CreatedAt,
		UpdatedAt:  session.UpdatedAt,
	}
	if session.HasParticipant() {
		view.Participant = lo.ToPtr(toMemberView(session.Participant))
	}
	return view
}

func toMemberView(m domain.Member) MemberView {
	return MemberView{ID: m.ID, Name: m.Name, Image: m.Image}
}
