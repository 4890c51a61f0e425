package rolemap

import (
	"reflect"
	"testing"
)

func TestFunctionRegistryRegisterAndCall(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("Upper", func(args ...any) (any, error) {
		return len(args), nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Lookup is case-insensitive.
	result, err := registry.Call("upper", "a", "b")
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if result != 2 {
		t.Fatalf("expected 2, got %v", result)
	}

	if err := registry.Register("upper", func(...any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate rejection")
	}
	if err := registry.Register("", func(...any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected empty-name rejection")
	}
	if err := registry.Register("nilfn", nil); err == nil {
		t.Fatalf("expected nil-function rejection")
	}
	if _, err := registry.Call("missing"); err == nil {
		t.Fatalf("expected missing-function error")
	}
}

func TestFunctionRegistryNamesAndClone(t *testing.T) {
	registry := NewFunctionRegistry()
	for _, name := range []string{"beta", "alpha"} {
		if err := registry.Register(name, func(...any) (any, error) { return nil, nil }); err != nil {
			t.Fatalf("register %q: %v", name, err)
		}
	}

	if names := registry.Names(); !reflect.DeepEqual(names, []string{"alpha", "beta"}) {
		t.Fatalf("expected sorted names, got %v", names)
	}

	clone := registry.Clone()
	if err := clone.Register("gamma", func(...any) (any, error) { return nil, nil }); err != nil {
		t.Fatalf("register on clone: %v", err)
	}
	if _, err := registry.Call("gamma"); err == nil {
		t.Fatalf("expected original registry unaffected by clone mutation")
	}
}
