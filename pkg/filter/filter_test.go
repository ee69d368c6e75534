package filter

import (
	"strings"
	"testing"
	"time"

	"github.com/devicelab-dev/exploration-panel/pkg/core"
)

func sample() []core.Exploration {
	return []core.Exploration{
		{
			ID:        "a",
			Name:      "Shop",
			Domain:    "shop.test",
			URL:       "https://shop.test",
			CreatedAt: core.Timestamp{Time: time.Date(2025, 4, 15, 12, 1, 20, 0, time.Local)},
			Summary:   &core.Summary{HasTestCases: true, TestCaseCount: 5, HasGeneratedCode: true},
		},
		{ID: "b", Domain: "blog.test", URL: "https://blog.test"},
	}
}

func TestMatch(t *testing.T) {
	engine := New()
	list := sample()

	tests := []struct {
		name string
		expr string
		want []bool
	}{
		{"has tests", "hasTests", []bool{true, false}},
		{"count", "testCount >= 5", []bool{true, false}},
		{"url includes", "url.includes('blog')", []bool{false, true}},
		{"object access", "exploration.domain === 'shop.test'", []bool{true, false}},
		{"no code", "!hasCode", []bool{false, true}},
		{"created year", "created.startsWith('2025')", []bool{true, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expr)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			for i, x := range list {
				got, err := engine.Match(f, x)
				if err != nil {
					t.Fatalf("match %s: %v", x.ID, err)
				}
				if got != tt.want[i] {
					t.Errorf("%s on %s = %v, want %v", tt.expr, x.ID, got, tt.want[i])
				}
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	if _, err := Compile("   "); err == nil {
		t.Error("expected error for empty expression")
	}
	if _, err := Compile("hasTests &&"); err == nil {
		t.Error("expected syntax error")
	}
}

func TestMatchRuntimeError(t *testing.T) {
	engine := New()
	f, err := Compile("missing.field")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, err := engine.Match(f, sample()[0]); err == nil {
		t.Error("expected reference error")
	}
}

func TestMatcher(t *testing.T) {
	engine := New()
	f, _ := Compile("pages == 0")
	match := engine.Matcher(f)

	ok, err := match(sample()[1])
	if err != nil || !ok {
		t.Errorf("match = %v, %v", ok, err)
	}
}

func TestJSONHelper(t *testing.T) {
	engine := New()
	v, err := engine.Eval(`json('{"n": 3}').n + testCount`, sample()[0])
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v != int64(8) {
		t.Errorf("expected 8, got %v (%T)", v, v)
	}
}

func TestExpand(t *testing.T) {
	engine := New()
	x := sample()[0]

	tests := []struct {
		in   string
		want string
	}{
		{"report-${domain}.xlsx", "report-shop.test.xlsx"},
		{"${id}-${testCount}", "a-5"},
		{"no vars", "no vars"},
		{"${broken(}", "${broken(}"},
		{"${unclosed", "${unclosed"},
	}
	for _, tt := range tests {
		if got := engine.Expand(tt.in, x); got != tt.want {
			t.Errorf("Expand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExpandPath(t *testing.T) {
	engine := New()
	x := core.Exploration{ID: "a", Name: `shop\admin`, Domain: "../../etc"}

	tests := []struct {
		in   string
		want string
	}{
		{"reports/${domain}.xlsx", "reports/.._.._etc.xlsx"},
		{"reports/${name}.json", "reports/shop_admin.json"},
		{"reports/${'..'}/x.json", "reports/_/x.json"},
		{"../out/${id}.json", "../out/a.json"},
	}
	for _, tt := range tests {
		if got := engine.ExpandPath(tt.in, x); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilterString(t *testing.T) {
	f, _ := Compile("  hasTests  ")
	if !strings.EqualFold(f.String(), "hasTests") {
		t.Errorf("String() = %q", f.String())
	}
}
