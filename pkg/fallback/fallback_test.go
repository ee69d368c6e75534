package fallback

import (
	"context"
	"errors"
	"testing"
)

func attempt(name string, calls *int, v string, err error) Attempt[string] {
	return Attempt[string]{
		Name: name,
		Do: func(ctx context.Context) (string, error) {
			*calls++
			return v, err
		},
	}
}

func TestRunPrimarySuccess(t *testing.T) {
	var p, s int
	v, src, err := Run(context.Background(),
		attempt("simple", &p, "code", nil),
		attempt("legacy", &s, "other", nil))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "code" || src != SourcePrimary {
		t.Errorf("got %q from %s", v, src)
	}
	if p != 1 || s != 0 {
		t.Errorf("calls primary=%d secondary=%d, want 1/0", p, s)
	}
}

func TestRunFallsBackOnce(t *testing.T) {
	var p, s int
	v, src, err := Run(context.Background(),
		attempt("simple", &p, "", errors.New("boom")),
		attempt("legacy", &s, "legacy code", nil))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "legacy code" || src != SourceSecondary {
		t.Errorf("got %q from %s", v, src)
	}
	if p != 1 || s != 1 {
		t.Errorf("calls primary=%d secondary=%d, want 1/1", p, s)
	}
}

func TestRunExhausted(t *testing.T) {
	var p, s int
	first := errors.New("Error 500: first")
	second := errors.New("Error 404: second")

	_, src, err := Run(context.Background(),
		attempt("simple", &p, "", first),
		attempt("legacy", &s, "", second))

	if src != SourceNone {
		t.Errorf("expected no source, got %s", src)
	}
	var ex *Exhausted
	if !errors.As(err, &ex) {
		t.Fatalf("expected *Exhausted, got %T", err)
	}
	if err.Error() != "Error 500: first" {
		t.Errorf("expected primary message, got %q", err.Error())
	}
	if !errors.Is(err, first) || !errors.Is(err, second) {
		t.Error("expected both failures to be reachable with errors.Is")
	}
	if p != 1 || s != 1 {
		t.Errorf("calls primary=%d secondary=%d, want 1/1", p, s)
	}
}

func TestRunSkipsSecondaryWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var p, s int
	primary := Attempt[string]{Do: func(ctx context.Context) (string, error) {
		p++
		cancel()
		return "", errors.New("interrupted")
	}}

	_, _, err := Run(ctx, primary, attempt("legacy", &s, "x", nil))

	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
	if s != 0 {
		t.Errorf("secondary should not run after cancellation, ran %d times", s)
	}
}

func TestRunWithoutSecondary(t *testing.T) {
	var p int
	_, _, err := Run(context.Background(), attempt("only", &p, "", errors.New("nope")), Attempt[string]{})
	if err == nil || err.Error() != "nope" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSourceString(t *testing.T) {
	tests := []struct {
		s    Source
		want string
	}{
		{SourceNone, "none"},
		{SourcePrimary, "primary"},
		{SourceSecondary, "secondary"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
