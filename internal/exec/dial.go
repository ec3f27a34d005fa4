package exec

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/haltia/conveyor/internal/engine"
	"golang.org/x/crypto/ssh"
)

// CredentialSource resolves an opaque credential reference to an SSH private
// key. References are names, never literal secrets; the backing store keeps
// keys encrypted at rest.
type CredentialSource interface {
	PrivateKey(ctx context.Context, ref string) ([]byte, error)
}

// Dialer opens SSH connections to remote hosts in the pool.
type Dialer struct {
	creds CredentialSource
}

func NewDialer(creds CredentialSource) *Dialer {
	return &Dialer{creds: creds}
}

func (d *Dialer) Dial(ctx context.Context, host *engine.Host) (*ssh.Client, error) {
	if d.creds == nil {
		return nil, fmt.Errorf("no credential source configured for remote host '%s'", host.Name)
	}
	privateKey, err := d.creds.PrivateKey(ctx, host.CredentialRef)
	if err != nil {
		return nil, fmt.Errorf("err resolving credential '%s': %w", host.CredentialRef, err)
	}
	signer, err := ssh.ParsePrivateKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("err parsing ssh private key: %w", err)
	}
	cc := &ssh.ClientConfig{
		User:            host.Username,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         10 * time.Second,
	}

	hostname := host.Hostname
	if len(strings.Split(hostname, ":")) == 1 {
		hostname += ":22"
	}
	client, err := ssh.Dial("tcp", hostname, cc)
	if err != nil {
		return nil, fmt.Errorf("err dialing %s: %w", hostname, err)
	}
	return client, nil
}
