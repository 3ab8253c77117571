package jsengine

import "testing"

func TestEvalExpressions(t *testing.T) {
	e := New()

	tests := []struct {
		expr string
		want interface{}
	}{
		{"1 + 2", int64(3)},
		{"'a' + 'b'", "ab"},
		{"2 > 1", true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := e.Eval(tt.expr)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Eval(%q) = %v (%T), want %v", tt.expr, got, got, tt.want)
			}
		})
	}
}

func TestEvalCondition(t *testing.T) {
	e := New()
	e.SetVariable("USER", "admin")

	tests := []struct {
		expr string
		want bool
	}{
		{"true", true},
		{"false", false},
		{"1 === 1", true},
		{"USER === 'admin'", true},
		{"USER === 'guest'", false},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := e.EvalCondition(tt.expr)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("EvalCondition(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestExpandVariables(t *testing.T) {
	e := New()
	e.SetVariable("USER", "alice")
	e.SetVariable("USER_ID", "42")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"js expression", "click ${1 + 1} times", "click 2 times"},
		{"variable in js", "type ${USER}", "type alice"},
		{"dollar var", "type $USER", "type alice"},
		{"longest name wins", "id is $USER_ID", "id is 42"},
		{"word boundary", "type $USERX", "type $USERX"},
		{"no expansion", "click login", "click login"},
		{"mixed", "type ${USER + '@test.com'} for $USER_ID", "type alice@test.com for 42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.ExpandVariables(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExpandVariables(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExpandVariablesNestedBraces(t *testing.T) {
	e := New()
	got, err := e.ExpandVariables("value ${(function() { return 7; })()}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "value 7" {
		t.Errorf("got %q, want %q", got, "value 7")
	}
}

func TestExpandVariablesBadExpression(t *testing.T) {
	e := New()
	if _, err := e.ExpandVariables("oops ${not valid js!}"); err == nil {
		t.Error("expected an error for invalid JS")
	}
}

func TestSetVariables(t *testing.T) {
	e := New()
	e.SetVariables(map[string]string{"A": "1", "B": "2"})

	if e.GetVariable("A") != "1" || e.GetVariable("B") != "2" {
		t.Error("SetVariables did not store values")
	}
}
