//go:generate go run go.uber.org/mock/mockgen -source=provisioner.go -destination=../../mocks/mock_provisioner.go -package=mocks
// Package collab talks to the external collaboration provider that hosts the
// video call and chat channel paired with every session.
// It holds no local state: each method is a single network call.
package collab

import (
	"context"
	"time"
)

// Metadata is attached to the call when it is provisioned.
type Metadata struct {
	SessionID  string
	Problem    string
	Difficulty string
	CreatedBy  string
}

// IProvisioner creates, mutates and destroys the call/channel pair keyed by a handle.
// Calls may succeed remotely while the caller observes a failure.
type IProvisioner interface {
	Provision(ctx context.Context, handle string, meta Metadata) error
	AddMember(ctx context.Context, handle, userID string) error
	RemoveMember(ctx context.Context, handle, userID string) error
	// DeleteCall and DeleteChannel treat an already deleted resource as success.
	DeleteCall(ctx context.Context, handle string) error
	DeleteChannel(ctx context.Context, handle string) error
}

// ICredentialIssuer issues short-lived provider credentials for end users.
type ICredentialIssuer interface {
	IssueToken(userID string, issuedAt, expiresAt time.Time) (string, error)
}
