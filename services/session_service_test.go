package services_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"pair-lab/domain"
	"pair-lab/errors"
	"pair-lab/infrastructure/collab"
	"pair-lab/infrastructure/storage"
	"pair-lab/mocks"
	"pair-lab/services"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

var (
	host  = domain.Member{ID: "user_host", Name: "Hannah Host", Image: "https://img/host.png"}
	alice = domain.Member{ID: "user_alice", Name: "Alice"}
	bob   = domain.Member{ID: "user_bob", Name: "Bob"}
	carol = domain.Member{ID: "user_carol", Name: "Carol"}

	errProviderDown = fmt.Errorf("%w: 503 service unavailable", errors.ErrProvider)
)

type LifecycleSuite struct {
	suite.Suite
	db          *badger.DB
	log         *slog.Logger
	provisioner *mocks.MockIProvisioner
	issuer      *mocks.MockICredentialIssuer
	repository  *storage.SessionRepository
	orphans     *storage.OrphanRepository
	service     *services.SessionService
}

func TestLifecycleSuite(t *testing.T) {
	suite.Run(t, new(LifecycleSuite))
}

func (s *LifecycleSuite) SetupTest() {
	db, err := badger.Open(badger.DefaultOptions(s.T().TempDir()).WithLoggingLevel(badger.ERROR))
	s.Require().NoError(err)
	s.db = db
	s.log = logs.GetLoggerFromLevel(slog.LevelDebug)

	ctrl := gomock.NewController(s.T())
	s.provisioner = mocks.NewMockIProvisioner(ctrl)
	s.issuer = mocks.NewMockICredentialIssuer(ctrl)
	s.repository = storage.NewSessionRepository(db, s.log)
	s.orphans = storage.NewOrphanRepository(db, s.log)
	s.service = s.newService(services.SessionServiceConfig{
		StoreTimeout:    time.Second,
		ProviderTimeout: time.Second,
		CredentialTTL:   time.Hour,
	})
}

func (s *LifecycleSuite) TearDownTest() {
	s.Require().NoError(s.db.Close())
}

func (s *LifecycleSuite) newService(config services.SessionServiceConfig) *services.SessionService {
	return services.NewSessionService(s.log, s.repository, s.orphans, s.provisioner, s.issuer, config)
}

// createSession creates "Two Sum" as host with a healthy provider.
func (s *LifecycleSuite) createSession() domain.Session {
	s.provisioner.EXPECT().Provision(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	s.provisioner.EXPECT().AddMember(gomock.Any(), gomock.Any(), host.ID).Return(nil)
	session, err := s.service.Create(context.Background(), domain.CreateSessionCommand{
		Problem:    "Two Sum",
		Difficulty: "easy",
		Host:       host,
	})
	s.Require().NoError(err)
	return session
}

func (s *LifecycleSuite) join(session domain.Session, member domain.Member) (domain.Session, error) {
	return s.service.Join(context.Background(), domain.JoinSessionCommand{SessionID: session.ID, Caller: member})
}

func (s *LifecycleSuite) end(session domain.Session, member domain.Member) (domain.Session, error) {
	return s.service.End(context.Background(), domain.EndSessionCommand{SessionID: session.ID, Caller: member})
}

func (s *LifecycleSuite) stored(id domain.SessionID) domain.Session {
	session, err := s.repository.GetByID(context.Background(), id)
	s.Require().NoError(err)
	return session
}

func (s *LifecycleSuite) TestCreate_ProvisionsCallAndRegistersHost() {
	req := s.Require()
	var meta collab.Metadata
	var provisionedHandle string
	gomock.InOrder(
		s.provisioner.EXPECT().Provision(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, handle string, m collab.Metadata) error {
				provisionedHandle, meta = handle, m
				return nil
			}),
		s.provisioner.EXPECT().AddMember(gomock.Any(), gomock.Any(), host.ID).Return(nil),
	)

	session, err := s.service.Create(context.Background(), domain.CreateSessionCommand{
		Problem:    "  Two   Sum\n",
		Difficulty: " EASY ",
		Host:       host,
	})

	req.NoError(err)
	req.Equal("Two Sum", session.Problem)
	req.Equal(domain.DifficultyEasy, session.Difficulty)
	req.Equal(domain.StatusActive, session.Status)
	req.False(session.HasParticipant())
	req.Equal(host, session.Host)
	req.True(strings.HasPrefix(session.Handle, "session_"))
	req.Equal(session.Handle, provisionedHandle)
	req.Equal(collab.Metadata{
		SessionID:  string(session.ID),
		Problem:    "Two Sum",
		Difficulty: "easy",
		CreatedBy:  host.ID,
	}, meta)
	stored := s.stored(session.ID)
	req.Equal(session.Handle, stored.Handle)
	req.Equal(host, stored.Host)
	req.True(session.CreatedAt.Equal(stored.CreatedAt))
}

func (s *LifecycleSuite) TestCreate_HandlesAreUnique() {
	req := s.Require()
	first := s.createSession()
	second := s.createSession()
	req.NotEqual(first.ID, second.ID)
	req.NotEqual(first.Handle, second.Handle)
}

func (s *LifecycleSuite) TestCreate_RejectsInvalidInputWithoutSideEffects() {
	tests := []struct {
		name       string
		problem    string
		difficulty string
		wantErr    error
	}{
		{"control characters only", "\x00\x01 \t\n", "easy", errors.ErrInvalidProblem},
		{"empty problem", "", "medium", errors.ErrInvalidProblem},
		{"unknown difficulty", "Two Sum", "extreme", errors.ErrInvalidDifficulty},
		{"missing difficulty", "Two Sum", "", errors.ErrInvalidDifficulty},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.Create(context.Background(), domain.CreateSessionCommand{
				Problem:    tt.problem,
				Difficulty: tt.difficulty,
				Host:       host,
			})
			s.Require().ErrorIs(err, tt.wantErr)
			s.Require().ErrorIs(err, errors.ErrValidation)
		})
	}

	active, err := s.repository.ListByStatus(context.Background(), domain.StatusActive, 0)
	s.Require().NoError(err)
	s.Require().Empty(active)
}

func (s *LifecycleSuite) TestCreate_ProvisionFailureDeletesRecord() {
	req := s.Require()
	var attempted domain.SessionID
	s.provisioner.EXPECT().Provision(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, m collab.Metadata) error {
			attempted = domain.SessionID(m.SessionID)
			// The record exists while the provider is being called.
			_, err := s.repository.GetByID(context.Background(), attempted)
			req.NoError(err)
			return errProviderDown
		})

	_, err := s.service.Create(context.Background(), domain.CreateSessionCommand{
		Problem: "Two Sum", Difficulty: "easy", Host: host,
	})

	req.ErrorIs(err, errors.ErrProvider)
	req.NotEmpty(attempted)
	_, err = s.repository.GetByID(context.Background(), attempted)
	req.ErrorIs(err, errors.ErrSessionNotFound)
}

func (s *LifecycleSuite) TestCreate_HostRegistrationFailureDeletesRecord() {
	req := s.Require()
	var attempted domain.SessionID
	s.provisioner.EXPECT().Provision(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, m collab.Metadata) error {
			attempted = domain.SessionID(m.SessionID)
			return nil
		})
	s.provisioner.EXPECT().AddMember(gomock.Any(), gomock.Any(), host.ID).
		Return(fmt.Errorf("connection reset"))

	_, err := s.service.Create(context.Background(), domain.CreateSessionCommand{
		Problem: "Two Sum", Difficulty: "easy", Host: host,
	})

	req.ErrorIs(err, errors.ErrProvider)
	_, err = s.repository.GetByID(context.Background(), attempted)
	req.ErrorIs(err, errors.ErrSessionNotFound)
}

func (s *LifecycleSuite) TestCreate_StalledProviderIsBoundedByTimeout() {
	req := s.Require()
	service := s.newService(services.SessionServiceConfig{
		StoreTimeout:    time.Second,
		ProviderTimeout: 50 * time.Millisecond,
	})
	var attempted domain.SessionID
	s.provisioner.EXPECT().Provision(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, m collab.Metadata) error {
			attempted = domain.SessionID(m.SessionID)
			<-ctx.Done()
			return ctx.Err()
		})

	start := time.Now()
	_, err := service.Create(context.Background(), domain.CreateSessionCommand{
		Problem: "Two Sum", Difficulty: "easy", Host: host,
	})

	req.ErrorIs(err, errors.ErrProvider)
	req.Less(time.Since(start), 2*time.Second)
	_, err = s.repository.GetByID(context.Background(), attempted)
	req.ErrorIs(err, errors.ErrSessionNotFound)
}

func (s *LifecycleSuite) TestCreate_CallerDisconnectDoesNotCancelProvisioning() {
	req := s.Require()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.provisioner.EXPECT().Provision(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(callCtx context.Context, _ string, _ collab.Metadata) error {
			cancel()
			return callCtx.Err()
		})
	s.provisioner.EXPECT().AddMember(gomock.Any(), gomock.Any(), host.ID).
		DoAndReturn(func(callCtx context.Context, _, _ string) error {
			return callCtx.Err()
		})

	session, err := s.service.Create(ctx, domain.CreateSessionCommand{
		Problem: "Two Sum", Difficulty: "easy", Host: host,
	})

	req.NoError(err)
	req.Equal(domain.StatusActive, s.stored(session.ID).Status)
}

func (s *LifecycleSuite) TestJoin_ConcurrentJoinersExactlyOneWins() {
	req := s.Require()
	session := s.createSession()
	s.provisioner.EXPECT().AddMember(gomock.Any(), session.Handle, gomock.Any()).Return(nil).Times(1)

	const joiners = 12
	results := make([]error, joiners)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, results[i] = s.join(session, domain.Member{ID: "user_" + strconv.Itoa(i)})
		}(i)
	}
	close(start)
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
			continue
		}
		req.ErrorIs(err, errors.ErrSessionFull)
	}
	req.Equal(1, winners)
	req.True(s.stored(session.ID).HasParticipant())
}

func (s *LifecycleSuite) TestJoin_PopulatesParticipant() {
	req := s.Require()
	session := s.createSession()
	s.provisioner.EXPECT().AddMember(gomock.Any(), session.Handle, alice.ID).Return(nil)

	joined, err := s.join(session, alice)

	req.NoError(err)
	req.Equal(alice, joined.Participant)
	req.Equal(host, joined.Host)
	stored := s.stored(session.ID)
	req.Equal(alice, stored.Participant)
	req.True(joined.UpdatedAt.Equal(stored.UpdatedAt))
}

func (s *LifecycleSuite) TestJoin_SecondJoinerIsToldSessionIsFull() {
	req := s.Require()
	session := s.createSession()
	s.provisioner.EXPECT().AddMember(gomock.Any(), session.Handle, alice.ID).Return(nil)
	_, err := s.join(session, alice)
	req.NoError(err)

	_, err = s.join(session, bob)
	req.ErrorIs(err, errors.ErrSessionFull)

	// The seated participant cannot take the seat a second time either.
	_, err = s.join(session, alice)
	req.ErrorIs(err, errors.ErrSessionFull)
	req.Equal(alice, s.stored(session.ID).Participant)
}

func (s *LifecycleSuite) TestJoin_ProviderFailureFreesSeat() {
	req := s.Require()
	session := s.createSession()
	gomock.InOrder(
		s.provisioner.EXPECT().AddMember(gomock.Any(), session.Handle, alice.ID).Return(errProviderDown),
		s.provisioner.EXPECT().RemoveMember(gomock.Any(), session.Handle, alice.ID).Return(nil),
	)

	_, err := s.join(session, alice)

	req.ErrorIs(err, errors.ErrProvider)
	stored := s.stored(session.ID)
	req.False(stored.HasParticipant())
	req.Equal(domain.StatusActive, stored.Status)

	// The seat is free again for someone else.
	s.provisioner.EXPECT().AddMember(gomock.Any(), session.Handle, bob.ID).Return(nil)
	joined, err := s.join(session, bob)
	req.NoError(err)
	req.Equal(bob, joined.Participant)
}

func (s *LifecycleSuite) TestJoin_RemoveMemberFailureIsNotSurfaced() {
	req := s.Require()
	session := s.createSession()
	s.provisioner.EXPECT().AddMember(gomock.Any(), session.Handle, alice.ID).Return(errProviderDown)
	s.provisioner.EXPECT().RemoveMember(gomock.Any(), session.Handle, alice.ID).Return(errProviderDown)

	_, err := s.join(session, alice)

	req.ErrorIs(err, errors.ErrProvider)
	req.False(s.stored(session.ID).HasParticipant())
}

func (s *LifecycleSuite) TestJoin_CompensationLosingRaceKeepsProviderError() {
	req := s.Require()
	session := s.createSession()
	s.provisioner.EXPECT().AddMember(gomock.Any(), session.Handle, alice.ID).
		DoAndReturn(func(context.Context, string, string) error {
			// The host ends the session while the provider call is in flight.
			_, err := s.repository.SetStatus(context.Background(), session.ID,
				domain.StatusActive, domain.StatusCompleted)
			req.NoError(err)
			return errProviderDown
		})
	s.provisioner.EXPECT().RemoveMember(gomock.Any(), session.Handle, alice.ID).Return(nil)

	_, err := s.join(session, alice)

	req.ErrorIs(err, errors.ErrProvider)
	req.NotErrorIs(err, errors.ErrIntegrityAnomaly)
	stored := s.stored(session.ID)
	req.Equal(domain.StatusCompleted, stored.Status)
	req.Equal(alice.ID, stored.Participant.ID)
}

func (s *LifecycleSuite) TestJoin_HostCannotJoinOwnSession() {
	req := s.Require()
	session := s.createSession()

	_, err := s.join(session, host)

	req.ErrorIs(err, errors.ErrSelfJoin)
	req.False(s.stored(session.ID).HasParticipant())
}

func (s *LifecycleSuite) TestJoin_UnknownAndMalformedIDs() {
	req := s.Require()
	_, err := s.service.Join(context.Background(), domain.JoinSessionCommand{
		SessionID: "not-a-uuid", Caller: alice,
	})
	req.ErrorIs(err, errors.ErrInvalidSessionID)

	_, err = s.service.Join(context.Background(), domain.JoinSessionCommand{
		SessionID: "0b8e7c1e-5a3f-4b5e-9a39-0f6f5b8f9d11", Caller: alice,
	})
	req.ErrorIs(err, errors.ErrSessionNotFound)
}

func (s *LifecycleSuite) TestEnd_CompletesEvenWhenCleanupFails() {
	req := s.Require()
	session := s.createSession()
	s.provisioner.EXPECT().AddMember(gomock.Any(), session.Handle, alice.ID).Return(nil)
	_, err := s.join(session, alice)
	req.NoError(err)

	s.provisioner.EXPECT().DeleteCall(gomock.Any(), session.Handle).Return(errProviderDown)
	s.provisioner.EXPECT().DeleteChannel(gomock.Any(), session.Handle).Return(errProviderDown)

	ended, err := s.end(session, host)

	req.NoError(err)
	req.Equal(domain.StatusCompleted, ended.Status)
	req.Equal(domain.StatusCompleted, s.stored(session.ID).Status)

	orphans, err := s.orphans.List(context.Background(), 0)
	req.NoError(err)
	req.Len(orphans, 1)
	req.Equal(session.Handle, orphans[0].Handle)
	req.Equal(session.ID, orphans[0].SessionID)

	// Terminal: no second end, no join, outsiders are turned away.
	_, err = s.end(session, host)
	req.ErrorIs(err, errors.ErrAlreadyCompleted)
	_, err = s.join(session, carol)
	req.ErrorIs(err, errors.ErrSessionNotActive)
	_, err = s.service.Get(context.Background(), string(session.ID), carol.ID)
	req.ErrorIs(err, errors.ErrForbidden)
}

func (s *LifecycleSuite) TestEnd_RunsBothCleanupCallsConcurrently() {
	req := s.Require()
	session := s.createSession()
	var arrived sync.WaitGroup
	arrived.Add(2)
	rendezvous := func(context.Context, string) error {
		arrived.Done()
		arrived.Wait()
		return nil
	}
	s.provisioner.EXPECT().DeleteCall(gomock.Any(), session.Handle).DoAndReturn(rendezvous)
	s.provisioner.EXPECT().DeleteChannel(gomock.Any(), session.Handle).DoAndReturn(rendezvous)

	done := make(chan error, 1)
	go func() {
		_, err := s.end(session, host)
		done <- err
	}()

	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(2 * time.Second):
		req.Fail("cleanup calls did not run in parallel")
	}
	orphans, err := s.orphans.List(context.Background(), 0)
	req.NoError(err)
	req.Empty(orphans)
}

func (s *LifecycleSuite) TestEnd_OnlyHost() {
	req := s.Require()
	session := s.createSession()
	s.provisioner.EXPECT().AddMember(gomock.Any(), session.Handle, alice.ID).Return(nil)
	_, err := s.join(session, alice)
	req.NoError(err)

	_, err = s.end(session, alice)
	req.ErrorIs(err, errors.ErrNotHost)
	_, err = s.end(session, carol)
	req.ErrorIs(err, errors.ErrNotHost)
	req.Equal(domain.StatusActive, s.stored(session.ID).Status)
}

func (s *LifecycleSuite) TestEnd_ConcurrentEndsCommitOnce() {
	req := s.Require()
	session := s.createSession()
	s.provisioner.EXPECT().DeleteCall(gomock.Any(), session.Handle).Return(nil).Times(1)
	s.provisioner.EXPECT().DeleteChannel(gomock.Any(), session.Handle).Return(nil).Times(1)

	const attempts = 6
	results := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = s.end(session, host)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		req.ErrorIs(err, errors.ErrAlreadyCompleted)
	}
	req.Equal(1, succeeded)
}

func (s *LifecycleSuite) TestGet_AppliesAccessPolicy() {
	req := s.Require()
	session := s.createSession()

	// Outsider previewing an open session never sees the handle.
	view, err := s.service.Get(context.Background(), string(session.ID), carol.ID)
	req.NoError(err)
	req.Nil(view.CallID)
	req.Equal("Two Sum", view.Problem)

	view, err = s.service.Get(context.Background(), string(session.ID), host.ID)
	req.NoError(err)
	req.NotNil(view.CallID)
	req.Equal(session.Handle, *view.CallID)

	s.provisioner.EXPECT().AddMember(gomock.Any(), session.Handle, alice.ID).Return(nil)
	_, err = s.join(session, alice)
	req.NoError(err)

	_, err = s.service.Get(context.Background(), string(session.ID), carol.ID)
	req.ErrorIs(err, errors.ErrNotAMember)

	view, err = s.service.Get(context.Background(), string(session.ID), alice.ID)
	req.NoError(err)
	req.NotNil(view.Participant)
	req.Equal(alice.Name, view.Participant.Name)
	req.Equal(session.Handle, *view.CallID)
}

func (s *LifecycleSuite) TestListActive_NewestFirstAndRedactedForOutsiders() {
	req := s.Require()
	first := s.createSession()
	time.Sleep(2 * time.Millisecond)
	second := s.createSession()

	views, err := s.service.ListActive(context.Background(), carol.ID)
	req.NoError(err)
	req.Len(views, 2)
	req.Equal(string(second.ID), views[0].ID)
	req.Equal(string(first.ID), views[1].ID)
	for _, view := range views {
		req.Nil(view.CallID)
	}

	views, err = s.service.ListActive(context.Background(), host.ID)
	req.NoError(err)
	req.NotNil(views[0].CallID)
}

func (s *LifecycleSuite) TestListRecent_CompletedSessionsOfCaller() {
	req := s.Require()
	hosted := s.createSession()
	joined := s.createSession()
	untouched := s.createSession()

	s.provisioner.EXPECT().AddMember(gomock.Any(), joined.Handle, alice.ID).Return(nil)
	_, err := s.join(joined, alice)
	req.NoError(err)

	s.provisioner.EXPECT().DeleteCall(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	s.provisioner.EXPECT().DeleteChannel(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	_, err = s.end(hosted, host)
	req.NoError(err)
	_, err = s.end(joined, host)
	req.NoError(err)

	views, err := s.service.ListRecent(context.Background(), alice.ID)
	req.NoError(err)
	req.Len(views, 1)
	req.Equal(string(joined.ID), views[0].ID)

	views, err = s.service.ListRecent(context.Background(), host.ID)
	req.NoError(err)
	req.Len(views, 2)
	for _, view := range views {
		req.NotEqual(string(untouched.ID), view.ID)
		req.Equal(string(domain.StatusCompleted), view.Status)
	}
}

func (s *LifecycleSuite) TestIssueCredential() {
	req := s.Require()
	session := s.createSession()

	s.issuer.EXPECT().IssueToken(host.ID, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ string, issuedAt, expiresAt time.Time) (string, error) {
			req.Equal(time.Hour, expiresAt.Sub(issuedAt))
			return "signed-token", nil
		})
	credential, err := s.service.IssueCredential(context.Background(), string(session.ID), host)
	req.NoError(err)
	req.Equal("signed-token", credential.Token)
	req.Equal(host.ID, credential.UserID)
	req.Equal(host.Name, credential.UserName)
	req.Equal(host.Image, credential.UserImage)

	_, err = s.service.IssueCredential(context.Background(), string(session.ID), carol)
	req.ErrorIs(err, errors.ErrNotAMember)

	s.provisioner.EXPECT().DeleteCall(gomock.Any(), session.Handle).Return(nil)
	s.provisioner.EXPECT().DeleteChannel(gomock.Any(), session.Handle).Return(nil)
	_, err = s.end(session, host)
	req.NoError(err)

	_, err = s.service.IssueCredential(context.Background(), string(session.ID), host)
	req.ErrorIs(err, errors.ErrSessionNotActive)
}

// Scenario: create, contended join, end with a dead provider, late reader.
func (s *LifecycleSuite) TestScenario_TwoSum() {
	req := s.Require()
	session := s.createSession()
	req.Equal(domain.StatusActive, session.Status)
	req.False(session.HasParticipant())

	s.provisioner.EXPECT().AddMember(gomock.Any(), session.Handle, gomock.Any()).Return(nil).Times(1)
	var wg sync.WaitGroup
	errs := make(map[string]error)
	var mu sync.Mutex
	for _, member := range []domain.Member{alice, bob} {
		wg.Add(1)
		go func(member domain.Member) {
			defer wg.Done()
			_, err := s.join(session, member)
			mu.Lock()
			errs[member.ID] = err
			mu.Unlock()
		}(member)
	}
	wg.Wait()

	winner := s.stored(session.ID).Participant.ID
	req.Contains([]string{alice.ID, bob.ID}, winner)
	for id, err := range errs {
		if id == winner {
			req.NoError(err)
		} else {
			req.ErrorIs(err, errors.ErrSessionFull)
		}
	}

	s.provisioner.EXPECT().DeleteCall(gomock.Any(), session.Handle).Return(errProviderDown)
	s.provisioner.EXPECT().DeleteChannel(gomock.Any(), session.Handle).Return(stderrors.New("timeout"))
	ended, err := s.end(session, host)
	req.NoError(err)
	req.Equal(domain.StatusCompleted, ended.Status)

	_, err = s.service.Get(context.Background(), string(session.ID), carol.ID)
	req.ErrorIs(err, errors.ErrForbidden)
}
