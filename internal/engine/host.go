package engine

import (
	"slices"
	"sync"
)

// Host is an execution host in the pool. Hostname "localhost" means the
// controller machine itself.
type Host struct {
	Name      string
	Hostname  string
	Username  string
	Workspace string
	Labels    []string

	// CredentialRef is an opaque identifier resolved by the credential
	// store; it is never a literal secret.
	CredentialRef string
}

func (h *Host) HasLabel(label string) bool {
	return slices.Contains(h.Labels, label)
}

func (h *Host) IsLocal() bool {
	return h.Hostname == "localhost" || h.Hostname == "127.0.0.1"
}

// Pool holds the hosts available to a single engine instance. It is created
// at startup and torn down with the engine; there is no process-wide pool.
//
// Invariant: at most one stage occupies a given host at a time. Execution is
// sequential today so Resolve/Release bracket a single running stage, but the
// busy set is tracked so a concurrent-stage extension cannot double-book.
type Pool struct {
	mu    sync.Mutex
	hosts []*Host
	busy  map[string]bool
}

func NewPool(hosts ...*Host) *Pool {
	return &Pool{
		hosts: hosts,
		busy:  make(map[string]bool),
	}
}

// Resolve binds a host satisfying the requirement and marks it occupied.
// Resolution is memoryless across stages: the choice made for one stage has
// no effect on how a sibling stage resolves.
func (p *Pool) Resolve(req AgentRequirement) (*Host, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.hosts) == 0 {
		return nil, ErrNoAgentsAvailable
	}

	for _, h := range p.hosts {
		if p.busy[h.Name] {
			continue
		}
		if req.IsAny() || h.HasLabel(req.Label()) {
			p.busy[h.Name] = true
			return h, nil
		}
	}

	if req.IsAny() {
		return nil, ErrNoAgentsAvailable
	}
	return nil, NoMatchingAgentError{Label: req.Label()}
}

// Release returns a host to the pool once its stage has finished.
func (p *Pool) Release(h *Host) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.busy, h.Name)
}

func (p *Pool) Hosts() []*Host {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.hosts)
}
