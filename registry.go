package policyreg

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-policyreg/pkg/activity"
)

// Registry maps policy context identifiers to their Configuration and
// maintains the link-group relation that lets separately managed
// configurations share one principal-to-role mapping.
//
// Link-groups use explicit group-id indirection: slots maps each identifier
// to a group id, groups maps each group id to its member set. Every member
// of a group holds the same group id, so a merge that repoints the absorbed
// members and unions the member set is immediately visible through every
// member's slot.
//
// The zero value is not usable; construct with New.
type Registry struct {
	mu      sync.RWMutex
	configs map[string]Configuration
	slots   map[string]uuid.UUID
	groups  map[uuid.UUID]map[string]struct{}

	factory ConfigurationFactory
	source  ContextSource
	logger  *zap.Logger
	emitter *activity.Emitter
}

// New constructs a Registry around the supplied configuration factory.
func New(factory ConfigurationFactory, opts ...Option) (*Registry, error) {
	if factory == nil {
		return nil, fmt.Errorf("policyreg: configuration factory is required")
	}
	cfg := applyOptions(opts)
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.source == nil {
		cfg.source = ValueSource{}
	}
	return &Registry{
		configs: make(map[string]Configuration),
		slots:   make(map[string]uuid.UUID),
		groups:  make(map[uuid.UUID]map[string]struct{}),
		factory: factory,
		source:  cfg.source,
		logger:  cfg.logger,
		emitter: activity.NewEmitter(cfg.hooks, activity.Config{
			Enabled: len(cfg.hooks) > 0,
			Channel: cfg.channel,
		}),
	}, nil
}

// Lookup returns the configuration registered for id without creating one.
//
// It takes the exclusive lock rather than the read lock on purpose: the
// narrow window between a plain read and a concurrent create or detach of
// the same identifier is exactly the race this keeps closed.
func (r *Registry) Lookup(id string) (Configuration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg, ok := r.configs[id]
	return cfg, ok
}

// GetOrCreate returns the configuration for id, creating it together with a
// fresh singleton link-group on first request. When detach is true and the
// configuration already exists, id is severed from its current link-group
// (see Unlink) before the configuration is returned.
//
// The check-then-create is atomic: concurrent calls for the same unseen id
// observe a single Configuration instance. A factory error leaves the
// registry untouched.
func (r *Registry) GetOrCreate(id string, detach bool) (Configuration, error) {
	r.mu.Lock()
	cfg, ok := r.configs[id]
	if !ok {
		created, err := r.factory(id)
		if err != nil {
			r.mu.Unlock()
			return nil, fmt.Errorf("policyreg: create configuration %q: %w", id, err)
		}
		groupID := r.initGroupLocked(id)
		r.configs[id] = created
		r.mu.Unlock()
		r.emit(activity.BuildConfigCreatedEvent(activity.ConfigEventInput{
			ContextID: id,
			GroupID:   groupID.String(),
		}))
		return created, nil
	}
	if detach {
		groupID := r.unlinkLocked(id)
		r.mu.Unlock()
		r.emit(activity.BuildConfigUnlinkedEvent(activity.ConfigEventInput{
			ContextID: id,
			GroupID:   groupID.String(),
		}))
		return cfg, nil
	}
	r.mu.Unlock()
	return cfg, nil
}

// ResolveActive resolves the configuration for the policy context identifier
// ambient on the calling goroutine.
//
// It returns (nil, false, nil) when no identifier is set, when the
// identifier is unknown, or when the configuration is not in service; the
// latter two are logged so the encompassing runtime can repair the improper
// context, and the caller is expected to fall back to its default policy
// context. A failure of the context source itself surfaces as a
// *ContextSourceError.
//
// The in-service check deliberately happens outside the registry lock: a
// configuration moving out of service between the table read and the check
// is tolerated, the result is advisory.
func (r *Registry) ResolveActive(ctx context.Context) (Configuration, bool, error) {
	id, ok, err := r.source.CurrentContextID(ctx)
	if err != nil {
		return nil, false, &ContextSourceError{Err: err}
	}
	if !ok {
		return nil, false, nil
	}

	r.mu.RLock()
	cfg := r.configs[id]
	r.mu.RUnlock()

	if cfg == nil {
		r.logger.Warn("unknown policy context id", zap.String("context_id", id))
		return nil, false, nil
	}
	if !cfg.InService() {
		r.logger.Debug("policy context not in service", zap.String("context_id", id))
		return nil, false, nil
	}
	if r.emitter.Enabled() {
		r.emit(activity.BuildConfigResolvedEvent(activity.ConfigEventInput{
			ContextID: id,
		}))
	}
	return cfg, true, nil
}

// Link merges otherID's link-group into id's so that both share one
// principal-to-role mapping. The relation it maintains is symmetric,
// transitive, and idempotent: linking two members of the same group changes
// nothing observable.
//
// Linking an identifier to itself fails with ErrSelfLink; linking to an
// identifier with no registered link-group fails with ErrLinkTargetNotFound.
// Both are rejected before any mutation, wrapped in a *LinkError.
func (r *Registry) Link(id, otherID string) error {
	r.mu.Lock()
	if id == otherID {
		r.mu.Unlock()
		return &LinkError{ID: id, OtherID: otherID, Err: ErrSelfLink}
	}
	otherGroupID, ok := r.slots[otherID]
	if !ok {
		r.mu.Unlock()
		return &LinkError{ID: id, OtherID: otherID, Err: ErrLinkTargetNotFound}
	}
	groupID, ok := r.slots[id]
	if !ok {
		// An identifier presented to Link is registered from that point on,
		// even if its configuration has not been created yet.
		groupID = r.initGroupLocked(id)
	}
	if groupID != otherGroupID {
		members := r.groups[groupID]
		for member := range r.groups[otherGroupID] {
			members[member] = struct{}{}
			r.slots[member] = groupID
		}
		delete(r.groups, otherGroupID)
	}
	r.mu.Unlock()

	r.emit(activity.BuildConfigLinkedEvent(activity.ConfigEventInput{
		ContextID: id,
		PeerID:    otherID,
		GroupID:   groupID.String(),
	}))
	return nil
}

// Unlink removes id from its current link-group and reinitializes it as a
// fresh singleton group. The removal mutates the shared group, so every
// remaining member observes that id is gone; their own membership is
// otherwise unaffected. Unknown identifiers simply end up registered as
// singletons.
func (r *Registry) Unlink(id string) {
	r.mu.Lock()
	groupID := r.unlinkLocked(id)
	r.mu.Unlock()
	r.emit(activity.BuildConfigUnlinkedEvent(activity.ConfigEventInput{
		ContextID: id,
		GroupID:   groupID.String(),
	}))
}

// Group returns a sorted snapshot of id's current link-group membership, or
// nil when id has no registered link-group.
func (r *Registry) Group(id string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	groupID, ok := r.slots[id]
	if !ok {
		return nil
	}
	members := r.groups[groupID]
	out := make([]string, 0, len(members))
	for member := range members {
		out = append(out, member)
	}
	sort.Strings(out)
	return out
}

// GroupID returns the identity of id's current link-group, for audit
// correlation. Group identities change when an identifier is unlinked and
// when its group is absorbed by a merge.
func (r *Registry) GroupID(id string) (uuid.UUID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	groupID, ok := r.slots[id]
	return groupID, ok
}

// initGroupLocked registers a fresh singleton link-group for id. Callers
// hold the write lock.
func (r *Registry) initGroupLocked(id string) uuid.UUID {
	groupID := uuid.New()
	r.slots[id] = groupID
	r.groups[groupID] = map[string]struct{}{id: {}}
	return groupID
}

// unlinkLocked removes id from its group, drops its slot, and re-registers
// it as a singleton, returning the new group id. Callers hold the write
// lock.
func (r *Registry) unlinkLocked(id string) uuid.UUID {
	if groupID, ok := r.slots[id]; ok {
		if members := r.groups[groupID]; members != nil {
			delete(members, id)
			if len(members) == 0 {
				delete(r.groups, groupID)
			}
		}
		delete(r.slots, id)
	}
	return r.initGroupLocked(id)
}

func (r *Registry) emit(event activity.Event) {
	if !r.emitter.Enabled() {
		return
	}
	if err := r.emitter.Emit(context.Background(), event); err != nil {
		r.logger.Warn("activity emission failed",
			zap.String("verb", event.Verb),
			zap.Error(err))
	}
}
