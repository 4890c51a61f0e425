// Package rolemap implements the principal-to-role mapping that linked
// policy configurations share.
//
// A Mapper combines static name-to-role assignments with declarative
// mapping rules: each rule pairs a role name with a predicate expression
// that must evaluate truthy for a principal. Expressions run on a pluggable
// Engine (expr-lang by default, CEL, and JavaScript behind the js_eval
// build tag), optionally backed by a compiled-program cache and a registry
// of custom helper functions.
//
// Role MAPPING is the whole surface: deciding what a role permits, or
// evaluating a permission against it, belongs to the policy machinery that
// consumes the mapper, not to this package.
package rolemap
