// Package jsengine provides JavaScript expression evaluation for test-case
// files: ${expr} interpolation and condition evaluation backed by goja.
package jsengine

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/dop251/goja"
)

// envVarPattern matches ALL_CAPS identifiers that look like env variables.
var envVarPattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]{2,}$`)

// Engine wraps a goja runtime with variable management.
type Engine struct {
	runtime   *goja.Runtime
	variables map[string]string
	mu        sync.Mutex
}

// New creates a new JS engine instance.
func New() *Engine {
	return &Engine{
		runtime:   goja.New(),
		variables: make(map[string]string),
	}
}

// SetVariable sets a variable in both the Go map and the JS runtime.
func (e *Engine) SetVariable(name, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.variables[name] = value
	e.runtime.Set(name, value)
}

// SetVariables sets multiple variables.
func (e *Engine) SetVariables(vars map[string]string) {
	for k, v := range vars {
		e.SetVariable(k, v)
	}
}

// GetVariable returns a variable value.
func (e *Engine) GetVariable(name string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.variables[name]
}

// ImportSystemEnv imports system environment variables into the engine.
// Only ALL_CAPS names are imported to avoid polluting the JS global scope.
func (e *Engine) ImportSystemEnv() {
	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) == 2 && envVarPattern.MatchString(parts[0]) {
			e.SetVariable(parts[0], parts[1])
		}
	}
}

// Eval evaluates a JS expression and returns the exported result.
func (e *Engine) Eval(expr string) (interface{}, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	v, err := e.runtime.RunString(expr)
	if err != nil {
		return nil, fmt.Errorf("eval %q: %w", expr, err)
	}
	return v.Export(), nil
}

// EvalCondition evaluates an expression and converts the result to a bool.
func (e *Engine) EvalCondition(expr string) (bool, error) {
	result, err := e.Eval(expr)
	if err != nil {
		return false, err
	}

	switch v := result.(type) {
	case bool:
		return v, nil
	case string:
		return v == "true", nil
	case int64:
		return v != 0, nil
	case float64:
		return v != 0, nil
	default:
		return result != nil, nil
	}
}

// ExpandVariables expands ${expr} and $VAR syntax in text.
// ${expr} is evaluated as JavaScript; $VAR is a plain variable lookup.
func (e *Engine) ExpandVariables(text string) (string, error) {
	var out strings.Builder
	for {
		start := strings.Index(text, "${")
		if start == -1 {
			break
		}
		end := findClosingBrace(text, start+2)
		if end == -1 {
			break
		}

		result, err := e.Eval(text[start+2 : end])
		if err != nil {
			return "", err
		}

		out.WriteString(text[:start])
		out.WriteString(fmt.Sprintf("%v", result))
		text = text[end+1:]
	}
	out.WriteString(text)

	return e.expandDollarVars(out.String()), nil
}

// findClosingBrace returns the index of the brace closing the expression
// starting at from, accounting for nested braces. Returns -1 if unbalanced.
func findClosingBrace(text string, from int) int {
	depth := 1
	for i := from; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// expandDollarVars replaces $VAR occurrences with variable values.
// Longest names are expanded first to avoid partial matches.
func (e *Engine) expandDollarVars(text string) string {
	e.mu.Lock()
	names := make([]string, 0, len(e.variables))
	for name := range e.variables {
		names = append(names, name)
	}
	vars := make(map[string]string, len(e.variables))
	for k, v := range e.variables {
		vars[k] = v
	}
	e.mu.Unlock()

	sort.Slice(names, func(i, j int) bool {
		return len(names[i]) > len(names[j])
	})

	for _, name := range names {
		text = expandDollarVar(text, name, vars[name])
	}
	return text
}

// expandDollarVar replaces $VAR with value, checking word boundaries.
func expandDollarVar(text, name, value string) string {
	pattern := "$" + name
	idx := 0
	for {
		pos := strings.Index(text[idx:], pattern)
		if pos == -1 {
			break
		}
		pos += idx

		// A following identifier character means this is a longer variable name
		endPos := pos + len(pattern)
		if endPos < len(text) && isIdentChar(text[endPos]) {
			idx = endPos
			continue
		}

		text = text[:pos] + value + text[endPos:]
		idx = pos + len(value)
	}
	return text
}

func isIdentChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') || c == '_'
}
