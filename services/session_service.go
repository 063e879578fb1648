//go:generate go run go.uber.org/mock/mockgen -source=session_service.go -destination=../mocks/mock_session_service.go -package=mocks
package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"pair-lab/domain"
	"pair-lab/errors"
	"pair-lab/infrastructure/collab"
	"pair-lab/infrastructure/storage"
	"pair-lab/projection"
	"time"

	"github.com/google/uuid"
)

type ISessionService interface {
	Create(ctx context.Context, cmd domain.CreateSessionCommand) (domain.Session, error)
	Join(ctx context.Context, cmd domain.JoinSessionCommand) (domain.Session, error)
	End(ctx context.Context, cmd domain.EndSessionCommand) (domain.Session, error)
	Get(ctx context.Context, id string, callerID string) (projection.SessionView, error)
	ListActive(ctx context.Context, callerID string) ([]projection.SessionView, error)
	ListRecent(ctx context.Context, callerID string) ([]projection.SessionView, error)
	IssueCredential(ctx context.Context, id string, caller domain.Member) (Credential, error)
}

type SessionServiceConfig struct {
	StoreTimeout    time.Duration
	ProviderTimeout time.Duration
	CredentialTTL   time.Duration
	ActiveLimit     int
	RecentLimit     int
}

const (
	defaultStoreTimeout    = 5 * time.Second
	defaultProviderTimeout = 10 * time.Second
	defaultCredentialTTL   = time.Hour
	defaultListLimit       = 20
)

func (c SessionServiceConfig) withDefaults() SessionServiceConfig {
	if c.StoreTimeout <= 0 {
		c.StoreTimeout = defaultStoreTimeout
	}
	if c.ProviderTimeout <= 0 {
		c.ProviderTimeout = defaultProviderTimeout
	}
	if c.CredentialTTL <= 0 {
		c.CredentialTTL = defaultCredentialTTL
	}
	if c.ActiveLimit <= 0 {
		c.ActiveLimit = defaultListLimit
	}
	if c.RecentLimit <= 0 {
		c.RecentLimit = defaultListLimit
	}
	return c
}

// Credential is a provider token scoped to one member of an active session.
type Credential struct {
	Token     string
	UserID    string
	UserName  string
	UserImage string
	ExpiresAt time.Time
}

// SessionService coordinates the session lifecycle across the store and the
// collaboration provider. Create and join pair each forward step with an
// explicit inverse run on failure; end commits the terminal state first and
// never rolls it back.
//
// Once a lifecycle operation has started its first side effect, it runs on a
// context detached from the caller: a disconnecting client never leaves a
// half-applied operation behind. Every store and provider call still gets its
// own bounded timeout.
type SessionService struct {
	log         *slog.Logger
	repository  storage.ISessionRepository
	orphans     storage.IOrphanRepository
	provisioner collab.IProvisioner
	issuer      collab.ICredentialIssuer
	gate        *MembershipGate
	config      SessionServiceConfig
	now         func() time.Time
}

func NewSessionService(
	log *slog.Logger,
	repository storage.ISessionRepository,
	orphans storage.IOrphanRepository,
	provisioner collab.IProvisioner,
	issuer collab.ICredentialIssuer,
	config SessionServiceConfig,
) *SessionService {
	return &SessionService{
		log:         log,
		repository:  repository,
		orphans:     orphans,
		provisioner: provisioner,
		issuer:      issuer,
		gate:        NewMembershipGate(repository),
		config:      config.withDefaults(),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Create inserts the session and provisions its call/channel pair as one unit.
// If provisioning fails the record is deleted before the error is returned.
func (s *SessionService) Create(ctx context.Context, cmd domain.CreateSessionCommand) (domain.Session, error) {
	if err := cmd.Normalize(); err != nil {
		return domain.Session{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}
	opCtx := context.WithoutCancel(ctx)

	// 1. Fresh identifiers
	now := s.now()
	session := domain.Session{
		ID:         domain.SessionID(uuid.NewString()),
		Problem:    cmd.Problem,
		Difficulty: domain.Difficulty(cmd.Difficulty),
		Host:       cmd.Host,
		Status:     domain.StatusActive,
		Handle:     "session_" + uuid.NewString(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// 2. Authoritative record first
	storeCtx, cancel := context.WithTimeout(opCtx, s.config.StoreTimeout)
	_, err := s.repository.Insert(storeCtx, session)
	cancel()
	if err != nil {
		return domain.Session{}, fmt.Errorf("insert session: %w", err)
	}

	// 3. External side effect, compensated on failure
	if err := s.provision(opCtx, session); err != nil {
		s.compensateCreate(opCtx, session, err)
		return domain.Session{}, err
	}

	s.log.Info("Session created", "session_id", session.ID, "handle", session.Handle, "host", session.Host.ID)
	return session, nil
}

func (s *SessionService) provision(ctx context.Context, session domain.Session) error {
	callCtx, cancel := context.WithTimeout(ctx, s.config.ProviderTimeout)
	defer cancel()
	err := s.provisioner.Provision(callCtx, session.Handle, collab.Metadata{
		SessionID:  string(session.ID),
		Problem:    session.Problem,
		Difficulty: string(session.Difficulty),
		CreatedBy:  session.Host.ID,
	})
	if err != nil {
		return asProviderError(err)
	}

	memberCtx, cancelMember := context.WithTimeout(ctx, s.config.ProviderTimeout)
	defer cancelMember()
	if err := s.provisioner.AddMember(memberCtx, session.Handle, session.Host.ID); err != nil {
		return asProviderError(err)
	}
	return nil
}

func (s *SessionService) compensateCreate(ctx context.Context, session domain.Session, cause error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()
	if err := s.repository.Delete(storeCtx, session.ID); err != nil {
		s.log.Error("Create compensation failed, session record left without provider resources",
			"session_id", session.ID, "handle", session.Handle,
			"error", fmt.Errorf("%w: %v", errors.ErrIntegrityAnomaly, err), "cause", cause)
		return
	}
	s.log.Warn("Session creation rolled back, provider may retain a partial artifact",
		"session_id", session.ID, "handle", session.Handle, "cause", cause)
}

// Join seats the caller through the membership gate, then adds them to the
// channel. If the provider rejects the member the seat is released again.
func (s *SessionService) Join(ctx context.Context, cmd domain.JoinSessionCommand) (domain.Session, error) {
	id, err := parseSessionID(string(cmd.SessionID))
	if err != nil {
		return domain.Session{}, err
	}
	if cmd.Caller.IsZero() {
		return domain.Session{}, errors.ErrMissingAuth
	}

	// Host is immutable, reading it ahead of the conditional write is race free.
	session, err := s.get(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	if session.IsHost(cmd.Caller.ID) {
		return domain.Session{}, errors.ErrSelfJoin
	}
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}
	opCtx := context.WithoutCancel(ctx)

	storeCtx, cancel := context.WithTimeout(opCtx, s.config.StoreTimeout)
	joined, err := s.gate.Admit(storeCtx, id, cmd.Caller)
	cancel()
	if err != nil {
		return domain.Session{}, err
	}

	callCtx, cancelCall := context.WithTimeout(opCtx, s.config.ProviderTimeout)
	err = s.provisioner.AddMember(callCtx, joined.Handle, cmd.Caller.ID)
	cancelCall()
	if err != nil {
		providerErr := asProviderError(err)
		s.compensateJoin(opCtx, joined, cmd.Caller, providerErr)
		return domain.Session{}, providerErr
	}

	s.log.Info("Participant joined", "session_id", id, "participant", cmd.Caller.ID)
	return joined, nil
}

func (s *SessionService) compensateJoin(ctx context.Context, session domain.Session, member domain.Member, cause error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	_, err := s.gate.Release(storeCtx, session.ID, member)
	cancel()
	if err != nil {
		// Reported, never returned: the provider error stays the caller-facing one.
		s.log.Error("Join compensation failed", "session_id", session.ID,
			"participant", member.ID, "error", err, "cause", cause)
	} else {
		s.log.Warn("Join rolled back", "session_id", session.ID, "participant", member.ID, "cause", cause)
	}

	// The add may have landed remotely despite the failure.
	callCtx, cancelCall := context.WithTimeout(ctx, s.config.ProviderTimeout)
	defer cancelCall()
	if err := s.provisioner.RemoveMember(callCtx, session.Handle, member.ID); err != nil {
		s.log.Warn("Best-effort member removal failed", "session_id", session.ID,
			"handle", session.Handle, "participant", member.ID, "error", err)
	}
}

// End marks the session completed, then tears the provider resources down.
// The status flip alone decides the outcome; cleanup failures are logged and
// recorded in the orphan ledger.
func (s *SessionService) End(ctx context.Context, cmd domain.EndSessionCommand) (domain.Session, error) {
	id, err := parseSessionID(string(cmd.SessionID))
	if err != nil {
		return domain.Session{}, err
	}
	session, err := s.get(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	if !session.IsHost(cmd.Caller.ID) {
		return domain.Session{}, errors.ErrNotHost
	}
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}
	opCtx := context.WithoutCancel(ctx)

	// 1. Irreversible terminal state
	storeCtx, cancel := context.WithTimeout(opCtx, s.config.StoreTimeout)
	ended, err := s.repository.SetStatus(storeCtx, id, domain.StatusActive, domain.StatusCompleted)
	cancel()
	var precondition *storage.PreconditionError
	if stderrors.As(err, &precondition) {
		return domain.Session{}, errors.ErrAlreadyCompleted
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("complete session: %w", err)
	}
	s.log.Info("Session completed", "session_id", id)

	// 2. Best-effort cleanup, never rolls back step 1
	if err := collab.Teardown(opCtx, s.provisioner, ended.Handle, s.config.ProviderTimeout); err != nil {
		s.log.Error("Provider cleanup failed, resources orphaned",
			"session_id", id, "handle", ended.Handle, "error", err)
		s.recordOrphan(opCtx, ended, err)
	}
	return ended, nil
}

func (s *SessionService) recordOrphan(ctx context.Context, session domain.Session, cause error) {
	if s.orphans == nil {
		return
	}
	storeCtx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()
	err := s.orphans.Record(storeCtx, storage.Orphan{
		Handle:     session.Handle,
		SessionID:  session.ID,
		RecordedAt: s.now(),
		Attempts:   1,
		LastError:  cause.Error(),
	})
	if err != nil {
		s.log.Error("Failed to record orphaned resources", "handle", session.Handle, "error", err)
	}
}

// Get returns the session as the access policy lets the caller see it.
func (s *SessionService) Get(ctx context.Context, id string, callerID string) (projection.SessionView, error) {
	sessionID, err := parseSessionID(id)
	if err != nil {
		return projection.SessionView{}, err
	}
	session, err := s.get(ctx, sessionID)
	if err != nil {
		return projection.SessionView{}, err
	}
	view, ok := projection.ProjectFor(session, callerID)
	if !ok {
		return projection.SessionView{}, errors.ErrNotAMember
	}
	return view, nil
}

func (s *SessionService) ListActive(ctx context.Context, callerID string) ([]projection.SessionView, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()
	sessions, err := s.repository.ListByStatus(storeCtx, domain.StatusActive, s.config.ActiveLimit)
	if err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}
	return projection.ProjectListing(sessions, callerID), nil
}

// ListRecent returns the caller's completed sessions, as host or participant.
func (s *SessionService) ListRecent(ctx context.Context, callerID string) ([]projection.SessionView, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()
	sessions, err := s.repository.ListForIdentity(storeCtx, callerID, domain.StatusCompleted, s.config.RecentLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent sessions: %w", err)
	}
	return projection.ProjectListing(sessions, callerID), nil
}

// IssueCredential hands a member of an active session a provider token.
func (s *SessionService) IssueCredential(ctx context.Context, id string, caller domain.Member) (Credential, error) {
	sessionID, err := parseSessionID(id)
	if err != nil {
		return Credential{}, err
	}
	session, err := s.get(ctx, sessionID)
	if err != nil {
		return Credential{}, err
	}
	if !session.IsMember(caller.ID) {
		return Credential{}, errors.ErrNotAMember
	}
	if !session.IsActive() {
		return Credential{}, errors.ErrSessionNotActive
	}
	issuedAt := s.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.config.CredentialTTL)
	token, err := s.issuer.IssueToken(caller.ID, issuedAt, expiresAt)
	if err != nil {
		return Credential{}, fmt.Errorf("issue credential: %w", err)
	}
	return Credential{
		Token:     token,
		UserID:    caller.ID,
		UserName:  caller.Name,
		UserImage: caller.Image,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *SessionService) get(ctx context.Context, id domain.SessionID) (domain.Session, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()
	return s.repository.GetByID(storeCtx, id)
}

func parseSessionID(id string) (domain.SessionID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", errors.ErrInvalidSessionID
	}
	return domain.SessionID(parsed.String()), nil
}

// asProviderError guarantees provider failures, timeouts included, surface as ErrProvider.
func asProviderError(err error) error {
	if stderrors.Is(err, errors.ErrProvider) {
		return err
	}
	return fmt.Errorf("%w: %v", errors.ErrProvider, err)
}
