package storage

import (
	"fmt"
	"pair-lab/domain"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Records are stored as a protobuf Struct so the value format stays
// self-describing without a generated schema.
func marshalSession(s domain.Session) ([]byte, error) {
	record, err := structpb.NewStruct(map[string]any{
		"id":                string(s.ID),
		"problem":           s.Problem,
		"difficulty":        string(s.Difficulty),
		"host_id":           s.Host.ID,
		"host_name":         s.Host.Name,
		"host_image":        s.Host.Image,
		"participant_id":    s.Participant.ID,
		"participant_name":  s.Participant.Name,
		"participant_image": s.Participant.Image,
		"status":            string(s.Status),
		"handle":            s.Handle,
		"created_at":        s.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at":        s.UpdatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, fmt.Errorf("session struct failed: %w", err)
	}
	return proto.Marshal(record)
}

// DecodeSession decodes a stored session record.
func DecodeSession(data []byte) (domain.Session, error) {
	var record structpb.Struct
	if err := proto.Unmarshal(data, &record); err != nil {
		return domain.Session{}, fmt.Errorf("unmarshal failed: %w", err)
	}
	field := func(name string) string {
		return record.GetFields()[name].GetStringValue()
	}
	createdAt, err := time.Parse(time.RFC3339Nano, field("created_at"))
	if err != nil {
		return domain.Session{}, fmt.Errorf("invalid created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, field("updated_at"))
	if err != nil {
		return domain.Session{}, fmt.Errorf("invalid updated_at: %w", err)
	}
	return domain.Session{
		ID:         domain.SessionID(field("id")),
		Problem:    field("problem"),
		Difficulty: domain.Difficulty(field("difficulty")),
		Host: domain.Member{
			ID:    field("host_id"),
			Name:  field("host_name"),
			Image: field("host_image"),
		},
		Participant: domain.Member{
			ID:    field("participant_id"),
			Name:  field("participant_name"),
			Image: field("participant_image"),
		},
		Status:    domain.Status(field("status")),
		Handle:    field("handle"),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}
