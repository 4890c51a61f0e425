package rolemap

import "time"

// Principal identifies a caller being mapped to roles.
type Principal struct {
	Name       string
	Attributes map[string]any
}

func (p Principal) binding() map[string]any {
	binding := map[string]any{
		"name": p.Name,
	}
	if len(p.Attributes) > 0 {
		binding["attributes"] = copyAttributes(p.Attributes)
	} else {
		binding["attributes"] = map[string]any{}
	}
	return binding
}

func copyAttributes(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}

// RuleContext carries inputs needed when evaluating a mapping rule.
type RuleContext struct {
	Principal Principal
	Now       *time.Time
	Args      map[string]any
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RuleContext) withDefaultArgs() RuleContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	return ctx
}

// Engine executes predicate expressions against a rule context.
type Engine interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures engine compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}
