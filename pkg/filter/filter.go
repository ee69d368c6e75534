// Package filter evaluates JavaScript expressions against exploration records.
package filter

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dop251/goja"

	"github.com/devicelab-dev/exploration-panel/pkg/core"
	"github.com/devicelab-dev/exploration-panel/pkg/logger"
)

// Engine wraps a goja runtime with the exploration bindings.
type Engine struct {
	runtime *goja.Runtime
	mu      sync.Mutex
}

// New creates a new engine instance
func New() *Engine {
	e := &Engine{runtime: goja.New()}
	e.runtime.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))
	e.setupBuiltins()
	return e
}

func (e *Engine) setupBuiltins() {
	console := e.runtime.NewObject()
	console.Set("log", e.consoleFunc(logger.Info))
	console.Set("warn", e.consoleFunc(logger.Warn))
	console.Set("error", e.consoleFunc(logger.Error))
	e.runtime.Set("console", console)

	// json(str) parses a JSON string into an object.
	e.runtime.Set("json", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			panic(e.runtime.NewTypeError("json requires 1 argument"))
		}
		result, err := e.runtime.RunString(fmt.Sprintf("JSON.parse(%q)", call.Arguments[0].String()))
		if err != nil {
			panic(e.runtime.NewTypeError(fmt.Sprintf("invalid JSON: %v", err)))
		}
		return result
	})
}

func (e *Engine) consoleFunc(log func(string, ...interface{})) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		log("filter: %s", strings.Join(parts, " "))
		return goja.Undefined()
	}
}

// Record is the view of an exploration exposed to expressions.
type Record struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Domain    string `json:"domain"`
	URL       string `json:"url"`
	Created   string `json:"created"`
	Pages     int    `json:"pages"`
	HasTests  bool   `json:"hasTests"`
	HasCode   bool   `json:"hasCode"`
	TestCount int    `json:"testCount"`
}

// NewRecord flattens an exploration for evaluation.
func NewRecord(x core.Exploration) Record {
	r := Record{
		ID:        x.ID,
		Name:      x.Name,
		Domain:    x.Domain,
		URL:       x.URL,
		Pages:     x.PageCount(),
		HasTests:  x.HasTestCases(),
		HasCode:   x.HasGeneratedCode(),
		TestCount: x.TestCaseCount(),
	}
	if !x.CreatedAt.IsZero() {
		r.Created = x.CreatedAt.Format("2006-01-02T15:04:05")
	}
	return r
}

// bind exposes the record both as the global "exploration" and as
// individual globals. Must be called with e.mu held.
func (e *Engine) bind(r Record) {
	e.runtime.Set("exploration", r)
	e.runtime.Set("id", r.ID)
	e.runtime.Set("name", r.Name)
	e.runtime.Set("domain", r.Domain)
	e.runtime.Set("url", r.URL)
	e.runtime.Set("created", r.Created)
	e.runtime.Set("pages", r.Pages)
	e.runtime.Set("hasTests", r.HasTests)
	e.runtime.Set("hasCode", r.HasCode)
	e.runtime.Set("testCount", r.TestCount)
}

// Filter is a compiled expression.
type Filter struct {
	expr    string
	program *goja.Program
}

// Compile parses expr once so it can be evaluated against many records.
func Compile(expr string) (*Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty filter expression")
	}
	program, err := goja.Compile("where", expr, false)
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", expr, err)
	}
	return &Filter{expr: expr, program: program}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.expr
}

// Match evaluates f against an exploration and reports whether the result is truthy.
func (e *Engine) Match(f *Filter, x core.Exploration) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.bind(NewRecord(x))
	v, err := e.runtime.RunProgram(f.program)
	if err != nil {
		return false, fmt.Errorf("JS eval error: %w", err)
	}
	return v.ToBoolean(), nil
}

// Matcher returns a function suitable for panel.LoadListWhere.
func (e *Engine) Matcher(f *Filter) func(core.Exploration) (bool, error) {
	return func(x core.Exploration) (bool, error) {
		return e.Match(f, x)
	}
}

// Eval evaluates a JavaScript expression with x bound and returns the result.
func (e *Engine) Eval(script string, x core.Exploration) (interface{}, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.bind(NewRecord(x))
	result, err := e.runtime.RunString(script)
	if err != nil {
		return nil, fmt.Errorf("JS eval error: %w", err)
	}
	return result.Export(), nil
}

// Expand replaces ${...} expressions in text with their value for x.
// Expressions that fail to evaluate are left as-is.
func (e *Engine) Expand(text string, x core.Exploration) string {
	return e.expand(text, x, func(s string) string { return s })
}

// ExpandPath is Expand for file paths: every substituted value becomes a
// single path element, so record fields cannot add directories or climb
// out of the template's directory.
func (e *Engine) ExpandPath(text string, x core.Exploration) string {
	return e.expand(text, x, pathElement)
}

func pathElement(s string) string {
	s = strings.NewReplacer("/", "_", "\\", "_").Replace(s)
	if s == "." || s == ".." {
		return "_"
	}
	return s
}

func (e *Engine) expand(text string, x core.Exploration, clean func(string) string) string {
	result := text
	start := 0

	for {
		idx := strings.Index(result[start:], "${")
		if idx == -1 {
			break
		}
		idx += start

		depth := 1
		end := idx + 2
		for end < len(result) && depth > 0 {
			switch result[end] {
			case '{':
				depth++
			case '}':
				depth--
			}
			end++
		}
		if depth != 0 {
			start = idx + 2
			continue
		}

		value, err := e.Eval(result[idx+2:end-1], x)
		if err != nil {
			start = end
			continue
		}
		s := ""
		if value != nil {
			s = clean(fmt.Sprintf("%v", value))
		}
		result = result[:idx] + s + result[end:]
		start = idx + len(s)
	}

	return result
}
