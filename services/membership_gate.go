package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"pair-lab/domain"
	"pair-lab/errors"
	"pair-lab/infrastructure/storage"
)

// MembershipGate admits at most one participant per session.
// It relies solely on the store's conditional write: no lock is taken, and
// among concurrent admissions on the same session exactly one observes a free seat.
type MembershipGate struct {
	repository storage.ISessionRepository
}

func NewMembershipGate(repository storage.ISessionRepository) *MembershipGate {
	return &MembershipGate{repository: repository}
}

// Admit seats member on an active session with a free seat.
func (g *MembershipGate) Admit(ctx context.Context, id domain.SessionID, member domain.Member) (domain.Session, error) {
	session, err := g.repository.ConditionalSetParticipant(ctx, id, "", domain.StatusActive, member)
	var precondition *storage.PreconditionError
	if stderrors.As(err, &precondition) {
		if !precondition.Current.IsActive() {
			return domain.Session{}, errors.ErrSessionNotActive
		}
		return domain.Session{}, errors.ErrSessionFull
	}
	return session, err
}

// Release frees the seat held by member. It is the inverse of Admit and only
// applies while the session is still active with member seated.
func (g *MembershipGate) Release(ctx context.Context, id domain.SessionID, member domain.Member) (domain.Session, error) {
	session, err := g.repository.ConditionalSetParticipant(ctx, id, member.ID, domain.StatusActive, domain.Member{})
	var precondition *storage.PreconditionError
	if stderrors.As(err, &precondition) {
		return domain.Session{}, fmt.Errorf("%w: releasing %s: %v", errors.ErrIntegrityAnomaly, member.ID, precondition)
	}
	return session, err
}
