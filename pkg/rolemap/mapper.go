package rolemap

import (
	"fmt"
	"sort"
	"sync"
)

// Mapper resolves principals to role names through static assignments and
// declarative mapping rules. It is safe for concurrent use, which is what
// lets every configuration in a link-group hold the same instance.
type Mapper struct {
	mu     sync.RWMutex
	engine Engine
	static map[string]map[string]struct{}
	rules  []rule
}

type rule struct {
	role       string
	expression string
	program    CompiledRule
}

// MapperOption configures a Mapper.
type MapperOption func(*Mapper)

// MapperWithEngine replaces the default expr engine.
func MapperWithEngine(engine Engine) MapperOption {
	return func(m *Mapper) {
		if engine != nil {
			m.engine = engine
		}
	}
}

// NewMapper constructs a Mapper. Rules compile on the expr engine unless
// MapperWithEngine says otherwise.
func NewMapper(opts ...MapperOption) *Mapper {
	m := &Mapper{
		engine: NewExprEngine(),
		static: make(map[string]map[string]struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Assign grants roles to the named principal unconditionally.
func (m *Mapper) Assign(principal string, roles ...string) {
	if principal == "" || len(roles) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	granted := m.static[principal]
	if granted == nil {
		granted = make(map[string]struct{}, len(roles))
		m.static[principal] = granted
	}
	for _, role := range roles {
		if role == "" {
			continue
		}
		granted[role] = struct{}{}
	}
}

// AddRule grants role to every principal the expression evaluates truthy
// for. The expression is compiled eagerly so malformed rules fail at
// registration, not at resolution.
func (m *Mapper) AddRule(role, expression string) error {
	if role == "" {
		return fmt.Errorf("rolemap: rule role must not be empty")
	}
	program, err := m.engine.Compile(expression)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, rule{role: role, expression: expression, program: program})
	return nil
}

// Roles returns the union of static and rule-derived roles for principal,
// deduplicated and sorted. A rule evaluating to a non-boolean is an
// EvaluationError.
func (m *Mapper) Roles(principal Principal) ([]string, error) {
	m.mu.RLock()
	granted := make(map[string]struct{}, len(m.static[principal.Name]))
	for role := range m.static[principal.Name] {
		granted[role] = struct{}{}
	}
	rules := make([]rule, len(m.rules))
	copy(rules, m.rules)
	m.mu.RUnlock()

	ctx := RuleContext{Principal: principal}
	for _, r := range rules {
		result, err := r.program.Evaluate(ctx)
		if err != nil {
			return nil, err
		}
		matched, ok := result.(bool)
		if !ok {
			return nil, &EvaluationError{
				Expr:      r.expression,
				Principal: principal.Name,
				Err:       fmt.Errorf("rule result is %T, want bool", result),
			}
		}
		if matched {
			granted[r.role] = struct{}{}
		}
	}

	out := make([]string, 0, len(granted))
	for role := range granted {
		out = append(out, role)
	}
	sort.Strings(out)
	return out, nil
}
