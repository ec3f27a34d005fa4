package store

import "context"

// Credential holds an SSH private key encrypted at rest. It is referenced
// everywhere else by name only.
type Credential struct {
	CredentialID      int64 `param:"credential_id"`
	Name              string
	Description       string
	SSHPrivateKeyHash string
}

type CredentialStore interface {
	CreateCredential(context.Context, string, string, string) (*Credential, error)
	ReadCredentialByID(context.Context, int64) (*Credential, error)
	ReadCredentialByName(context.Context, string) (*Credential, error)
	UpdateCredential(context.Context, int64, string, string) error
	DeleteCredential(context.Context, int64) error
	ListCredentials(context.Context) ([]*Credential, error)
}
