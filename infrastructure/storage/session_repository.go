//go:generate go run go.uber.org/mock/mockgen -source=session_repository.go -destination=../../mocks/mock_session_repository.go -package=mocks
package storage

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"pair-lab/domain"
	"pair-lab/errors"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// maxConflictRetries bounds how often a conditional write is re-evaluated after
// badger reports a concurrent commit on the same record.
const maxConflictRetries = 16

// ISessionRepository is the durable session store.
// ConditionalSetParticipant and SetStatus are the only mutation paths of a stored
// session; both apply atomically at record granularity or fail with a
// *PreconditionError and apply nothing.
type ISessionRepository interface {
	Insert(ctx context.Context, session domain.Session) (domain.SessionID, error)
	GetByID(ctx context.Context, id domain.SessionID) (domain.Session, error)
	ConditionalSetParticipant(ctx context.Context, id domain.SessionID, expectedParticipantID string,
		expectedStatus domain.Status, participant domain.Member) (domain.Session, error)
	SetStatus(ctx context.Context, id domain.SessionID, expected, next domain.Status) (domain.Session, error)
	Delete(ctx context.Context, id domain.SessionID) error
	ListByStatus(ctx context.Context, status domain.Status, limit int) ([]domain.Session, error)
	ListForIdentity(ctx context.Context, userID string, status domain.Status, limit int) ([]domain.Session, error)
}

// PreconditionError reports a conditional write whose expectations did not hold.
// Current is the record as observed by the losing write.
type PreconditionError struct {
	Current domain.Session
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed on session %s (status=%s, participant=%q)",
		e.Current.ID, e.Current.Status, e.Current.Participant.ID)
}

func (e *PreconditionError) Unwrap() error {
	return errors.ErrConflict
}

type SessionRepository struct {
	db  *badger.DB
	log *slog.Logger
	now func() time.Time
}

func NewSessionRepository(db *badger.DB, log *slog.Logger) *SessionRepository {
	return &SessionRepository{db: db, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Key layout:
//
//	session:rec:{id}                          the record
//	session:handle:{handle}                   -> id, enforces handle uniqueness
//	session:status:{status}:{created}:{id}    recency index per status
//	session:member:{user}:{created}:{id}      recency index per host/participant
//
// {created} is the creation time in 19-digit zero padded nanoseconds so that
// lexicographical order is chronological order.
func recordKey(id domain.SessionID) []byte {
	return []byte("session:rec:" + string(id))
}

func handleKey(handle string) []byte {
	return []byte("session:handle:" + handle)
}

func statusPrefix(status domain.Status) []byte {
	return []byte(fmt.Sprintf("session:status:%s:", status))
}

func statusKey(s domain.Session) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", statusPrefix(s.Status), s.CreatedAt.UnixNano(), s.ID))
}

func memberPrefix(userID string) []byte {
	return []byte(fmt.Sprintf("session:member:%s:", userID))
}

func memberKey(userID string, s domain.Session) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", memberPrefix(userID), s.CreatedAt.UnixNano(), s.ID))
}

// Insert persists a new session together with its indexes.
// It fails with ErrDuplicateHandle if the id or the handle is already taken.
func (r *SessionRepository) Insert(ctx context.Context, session domain.Session) (domain.SessionID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := marshalSession(session)
	if err != nil {
		return "", err
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		for _, key := range [][]byte{recordKey(session.ID), handleKey(session.Handle)} {
			_, err := txn.Get(key)
			if err == nil {
				return errors.ErrDuplicateHandle
			}
			if !stderrors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
		}
		if err := txn.Set(recordKey(session.ID), data); err != nil {
			return err
		}
		if err := txn.Set(handleKey(session.Handle), []byte(session.ID)); err != nil {
			return err
		}
		if err := txn.Set(statusKey(session), nil); err != nil {
			return err
		}
		return txn.Set(memberKey(session.Host.ID, session), nil)
	})
	if stderrors.Is(err, badger.ErrConflict) {
		return "", errors.ErrDuplicateHandle
	}
	if err != nil {
		return "", err
	}
	return session.ID, nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id domain.SessionID) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}
	var session domain.Session
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		session, err = getSession(txn, id)
		return err
	})
	return session, err
}

// ConditionalSetParticipant replaces the participant only if the stored record
// currently has expectedParticipantID ("" for no participant) and expectedStatus.
// Passing the zero Member as participant frees the seat.
func (r *SessionRepository) ConditionalSetParticipant(ctx context.Context, id domain.SessionID,
	expectedParticipantID string, expectedStatus domain.Status, participant domain.Member) (domain.Session, error) {
	return r.compareAndSwap(ctx, id, func(txn *badger.Txn, current domain.Session) (domain.Session, error) {
		if current.Participant.ID != expectedParticipantID || current.Status != expectedStatus {
			return domain.Session{}, &PreconditionError{Current: current}
		}
		next := current
		next.Participant = participant
		next.UpdatedAt = r.now()
		if current.HasParticipant() {
			if err := txn.Delete(memberKey(current.Participant.ID, current)); err != nil {
				return domain.Session{}, err
			}
		}
		if next.HasParticipant() {
			if err := txn.Set(memberKey(next.Participant.ID, next), nil); err != nil {
				return domain.Session{}, err
			}
		}
		return next, nil
	})
}

// SetStatus moves the session from expected to next and keeps the status index in step.
func (r *SessionRepository) SetStatus(ctx context.Context, id domain.SessionID,
	expected, next domain.Status) (domain.Session, error) {
	return r.compareAndSwap(ctx, id, func(txn *badger.Txn, current domain.Session) (domain.Session, error) {
		if current.Status != expected {
			return domain.Session{}, &PreconditionError{Current: current}
		}
		updated := current
		updated.Status = next
		updated.UpdatedAt = r.now()
		if err := txn.Delete(statusKey(current)); err != nil {
			return domain.Session{}, err
		}
		if err := txn.Set(statusKey(updated), nil); err != nil {
			return domain.Session{}, err
		}
		return updated, nil
	})
}

// compareAndSwap reads the record and applies mutate inside one badger
// transaction. Badger aborts the commit with ErrConflict when another
// transaction committed a write to the record in between; the expectations
// are then evaluated again against the fresh record.
func (r *SessionRepository) compareAndSwap(ctx context.Context, id domain.SessionID,
	mutate func(txn *badger.Txn, current domain.Session) (domain.Session, error)) (domain.Session, error) {
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return domain.Session{}, err
		}
		var updated domain.Session
		err := r.db.Update(func(txn *badger.Txn) error {
			current, err := getSession(txn, id)
			if err != nil {
				return err
			}
			next, err := mutate(txn, current)
			if err != nil {
				return err
			}
			data, err := marshalSession(next)
			if err != nil {
				return err
			}
			updated = next
			return txn.Set(recordKey(id), data)
		})
		if stderrors.Is(err, badger.ErrConflict) {
			r.log.Debug("Concurrent write on session, re-evaluating", "session_id", id, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return domain.Session{}, err
		}
		return updated, nil
	}
	return domain.Session{}, fmt.Errorf("session %s: %w", id, badger.ErrConflict)
}

// Delete removes the record and every index pointing at it.
func (r *SessionRepository) Delete(ctx context.Context, id domain.SessionID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		current, err := getSession(txn, id)
		if err != nil {
			return err
		}
		keys := [][]byte{
			recordKey(id),
			handleKey(current.Handle),
			statusKey(current),
			memberKey(current.Host.ID, current),
		}
		if current.HasParticipant() {
			keys = append(keys, memberKey(current.Participant.ID, current))
		}
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListByStatus returns up to limit sessions with the given status, newest first.
func (r *SessionRepository) ListByStatus(ctx context.Context, status domain.Status, limit int) ([]domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var sessions []domain.Session
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		sessions, err = r.scanIndex(txn, statusPrefix(status), limit, func(domain.Session) bool { return true })
		return err
	})
	return sessions, err
}

// CountByStatus counts the status index without loading records.
func (r *SessionRepository) CountByStatus(ctx context.Context, status domain.Status) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	count := 0
	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()
		prefix := statusPrefix(status)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// ListForIdentity returns up to limit sessions with the given status where
// userID is host or participant, newest first.
func (r *SessionRepository) ListForIdentity(ctx context.Context, userID string,
	status domain.Status, limit int) ([]domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var sessions []domain.Session
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		sessions, err = r.scanIndex(txn, memberPrefix(userID), limit, func(s domain.Session) bool {
			return s.Status == status && s.IsMember(userID)
		})
		return err
	})
	return sessions, err
}

// scanIndex walks an index prefix from the newest entry backwards and loads
// the referenced records. The session id is the last ':' separated key segment.
func (r *SessionRepository) scanIndex(txn *badger.Txn, prefix []byte, limit int,
	keep func(domain.Session) bool) ([]domain.Session, error) {
	options := badger.DefaultIteratorOptions
	options.Reverse = true
	options.PrefetchValues = false
	it := txn.NewIterator(options)
	defer it.Close()

	var sessions []domain.Session
	seekKey := append(append([]byte{}, prefix...), 0xFF)
	for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
		if limit > 0 && len(sessions) == limit {
			break
		}
		key := string(it.Item().Key())
		id := domain.SessionID(key[strings.LastIndex(key, ":")+1:])
		session, err := getSession(txn, id)
		if stderrors.Is(err, errors.ErrSessionNotFound) {
			r.log.Warn("Dangling session index entry", "key", key)
			continue
		}
		if err != nil {
			return nil, err
		}
		if keep(session) {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

func getSession(txn *badger.Txn, id domain.SessionID) (domain.Session, error) {
	item, err := txn.Get(recordKey(id))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Session{}, errors.ErrSessionNotFound
	}
	if err != nil {
		return domain.Session{}, err
	}
	var session domain.Session
	err = item.Value(func(val []byte) error {
		decoded, decodeErr := DecodeSession(val)
		session = decoded
		return decodeErr
	})
	return session, err
}
