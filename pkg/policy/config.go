package policy

import (
	"errors"
	"sync"

	policyreg "github.com/goliatone/go-policyreg"
	"github.com/goliatone/go-policyreg/pkg/rolemap"
)

// ErrDeleted rejects operations on a configuration that has been deleted.
var ErrDeleted = errors.New("policy: configuration has been deleted")

// State is a configuration's lifecycle state.
type State int

const (
	// StateOpen accepts policy edits; the configuration is not consulted
	// for authorization decisions.
	StateOpen State = iota
	// StateInService backs authorization decisions and rejects edits.
	StateInService
	// StateDeleted is terminal until the configuration is reopened.
	StateDeleted
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateInService:
		return "in-service"
	case StateDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Configuration is a reference implementation of the registry's
// Configuration collaborator: a policy-configuration unit with the
// open / in-service / deleted lifecycle, guarded by its own lock so the
// in-service predicate can be checked without holding the registry lock.
type Configuration struct {
	contextID string

	mu     sync.RWMutex
	state  State
	mapper *rolemap.Mapper
}

// Option configures a Configuration.
type Option func(*Configuration)

// WithMapper attaches the principal-to-role mapper the configuration's
// link-group shares.
func WithMapper(mapper *rolemap.Mapper) Option {
	return func(c *Configuration) {
		c.mapper = mapper
	}
}

// New constructs a Configuration in the open state.
func New(contextID string, opts ...Option) *Configuration {
	cfg := &Configuration{contextID: contextID, state: StateOpen}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// Factory adapts New to the registry's ConfigurationFactory contract.
func Factory(opts ...Option) policyreg.ConfigurationFactory {
	return func(contextID string) (policyreg.Configuration, error) {
		return New(contextID, opts...), nil
	}
}

// ContextID returns the identifier the configuration was created for.
func (c *Configuration) ContextID() string {
	return c.contextID
}

// State returns the current lifecycle state.
func (c *Configuration) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// InService reports whether the configuration currently backs authorization
// decisions.
func (c *Configuration) InService() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state == StateInService
}

// Commit places an open configuration in service. Committing an in-service
// configuration is a no-op; committing a deleted one fails with ErrDeleted.
func (c *Configuration) Commit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateDeleted {
		return ErrDeleted
	}
	c.state = StateInService
	return nil
}

// Delete takes the configuration out of service from any state.
func (c *Configuration) Delete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateDeleted
}

// Open returns the configuration to the open state for editing, from any
// state. This is the reopen semantic a deployer uses when redeploying a
// module under an existing context id.
func (c *Configuration) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateOpen
}

// Mapper returns the shared principal-to-role mapper, if any.
func (c *Configuration) Mapper() *rolemap.Mapper {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mapper
}

// SetMapper replaces the shared principal-to-role mapper. Linking
// configurations and handing each the same mapper is how a link-group
// shares one principal-to-role mapping.
func (c *Configuration) SetMapper(mapper *rolemap.Mapper) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mapper = mapper
}
