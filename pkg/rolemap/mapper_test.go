package rolemap

import (
	"errors"
	"reflect"
	"testing"
)

func TestMapperStaticAssignments(t *testing.T) {
	mapper := NewMapper()
	mapper.Assign("alice", "admin", "auditor")
	mapper.Assign("alice", "admin")
	mapper.Assign("", "ignored")
	mapper.Assign("bob")

	roles, err := mapper.Roles(Principal{Name: "alice"})
	if err != nil {
		t.Fatalf("roles: %v", err)
	}
	if !reflect.DeepEqual(roles, []string{"admin", "auditor"}) {
		t.Fatalf("expected deduplicated sorted roles, got %v", roles)
	}

	roles, err = mapper.Roles(Principal{Name: "unknown"})
	if err != nil {
		t.Fatalf("roles: %v", err)
	}
	if len(roles) != 0 {
		t.Fatalf("expected no roles for unknown principal, got %v", roles)
	}
}

func TestMapperRulesGrantRoles(t *testing.T) {
	mapper := NewMapper()
	mapper.Assign("alice", "admin")
	if err := mapper.AddRule("oncall", `principal.attributes.team == "sre"`); err != nil {
		t.Fatalf("add rule: %v", err)
	}

	roles, err := mapper.Roles(Principal{
		Name:       "alice",
		Attributes: map[string]any{"team": "sre"},
	})
	if err != nil {
		t.Fatalf("roles: %v", err)
	}
	if !reflect.DeepEqual(roles, []string{"admin", "oncall"}) {
		t.Fatalf("expected rule-derived role, got %v", roles)
	}

	roles, err = mapper.Roles(Principal{
		Name:       "carol",
		Attributes: map[string]any{"team": "web"},
	})
	if err != nil {
		t.Fatalf("roles: %v", err)
	}
	if len(roles) != 0 {
		t.Fatalf("expected no roles, got %v", roles)
	}
}

func TestMapperRejectsMalformedRuleAtRegistration(t *testing.T) {
	mapper := NewMapper()
	if err := mapper.AddRule("broken", `1 +`); err == nil {
		t.Fatalf("expected compile error")
	}
	if err := mapper.AddRule("", `true`); err == nil {
		t.Fatalf("expected empty-role rejection")
	}
}

func TestMapperRejectsNonBooleanRuleResult(t *testing.T) {
	mapper := NewMapper()
	if err := mapper.AddRule("oncall", `principal.name`); err != nil {
		t.Fatalf("add rule: %v", err)
	}

	_, err := mapper.Roles(Principal{Name: "alice"})
	if err == nil {
		t.Fatalf("expected non-boolean rejection")
	}
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected *EvaluationError, got %T: %v", err, err)
	}
	if evalErr.Principal != "alice" {
		t.Fatalf("expected principal recorded, got %q", evalErr.Principal)
	}
}

func TestMapperWithCELEngine(t *testing.T) {
	mapper := NewMapper(MapperWithEngine(NewCELEngine()))
	if err := mapper.AddRule("root", `principal.name == "root"`); err != nil {
		t.Fatalf("add rule: %v", err)
	}

	roles, err := mapper.Roles(Principal{Name: "root"})
	if err != nil {
		t.Fatalf("roles: %v", err)
	}
	if !reflect.DeepEqual(roles, []string{"root"}) {
		t.Fatalf("expected cel-derived role, got %v", roles)
	}
}
