//go:generate go run go.uber.org/mock/mockgen -source=orphan_repository.go -destination=../../mocks/mock_orphan_repository.go -package=mocks
package storage

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"pair-lab/domain"
	"time"

	"github.com/dgraph-io/badger/v4"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const orphanPrefix = "orphan:"

// Orphan is an external call/channel pair left provisioned after its session
// reached a terminal state without a successful teardown.
type Orphan struct {
	Handle     string
	SessionID  domain.SessionID
	RecordedAt time.Time
	Attempts   int
	LastError  string
}

type IOrphanRepository interface {
	Record(ctx context.Context, orphan Orphan) error
	List(ctx context.Context, limit int) ([]Orphan, error)
	Remove(ctx context.Context, handle string) error
}

type OrphanRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewOrphanRepository(db *badger.DB, log *slog.Logger) *OrphanRepository {
	return &OrphanRepository{db: db, log: log}
}

// Record upserts the ledger entry for a handle. Attempts accumulate across records.
func (o *OrphanRepository) Record(ctx context.Context, orphan Orphan) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := []byte(orphanPrefix + orphan.Handle)
	return o.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		switch {
		case err == nil:
			err = item.Value(func(val []byte) error {
				previous, decodeErr := DecodeOrphan(val)
				if decodeErr != nil {
					return decodeErr
				}
				orphan.RecordedAt = previous.RecordedAt
				orphan.Attempts += previous.Attempts
				return nil
			})
			if err != nil {
				return err
			}
		case !stderrors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		data, err := marshalOrphan(orphan)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// List returns up to limit ledger entries in handle order.
func (o *OrphanRepository) List(ctx context.Context, limit int) ([]Orphan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var orphans []Orphan
	err := o.db.View(func(txn *badger.Txn) error {
		prefix := []byte(orphanPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix) && (limit <= 0 || len(orphans) < limit); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				orphan, err := DecodeOrphan(val)
				if err != nil {
					return err
				}
				orphans = append(orphans, orphan)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return orphans, err
}

func (o *OrphanRepository) Remove(ctx context.Context, handle string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return o.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(orphanPrefix + handle))
	})
}

func marshalOrphan(o Orphan) ([]byte, error) {
	record, err := structpb.NewStruct(map[string]any{
		"handle":      o.Handle,
		"session_id":  string(o.SessionID),
		"recorded_at": o.RecordedAt.UTC().Format(time.RFC3339Nano),
		"attempts":    o.Attempts,
		"last_error":  o.LastError,
	})
	if err != nil {
		return nil, fmt.Errorf("orphan struct failed: %w", err)
	}
	return proto.Marshal(record)
}

// DecodeOrphan decodes an orphan ledger entry.
func DecodeOrphan(data []byte) (Orphan, error) {
	var record structpb.Struct
	if err := proto.Unmarshal(data, &record); err != nil {
		return Orphan{}, fmt.Errorf("unmarshal failed: %w", err)
	}
	fields := record.GetFields()
	recordedAt, err := time.Parse(time.RFC3339Nano, fields["recorded_at"].GetStringValue())
	if err != nil {
		return Orphan{}, fmt.Errorf("invalid recorded_at: %w", err)
	}
	return Orphan{
		Handle:     fields["handle"].GetStringValue(),
		SessionID:  domain.SessionID(fields["session_id"].GetStringValue()),
		RecordedAt: recordedAt,
		Attempts:   int(fields["attempts"].GetNumberValue()),
		LastError:  fields["last_error"].GetStringValue(),
	}, nil
}
