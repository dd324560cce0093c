package health

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubChecker struct {
	name  string
	err   error
	calls int
}

func (s *stubChecker) Name() string { return s.name }

func (s *stubChecker) Check(context.Context) error {
	s.calls++
	return s.err
}

func TestReadyAllHealthy(t *testing.T) {
	a := &stubChecker{name: "a"}
	b := &stubChecker{name: "b"}
	svc := NewService(a, b)

	if err := svc.Ready(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Fatalf("every checker must run, got a=%d b=%d", a.calls, b.calls)
	}
}

func TestReadyNamesFailedChecker(t *testing.T) {
	down := errors.New("connection refused")
	svc := NewService(&stubChecker{name: "postgres", err: down})

	err := svc.Ready(context.Background())
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !strings.HasPrefix(err.Error(), "postgres:") {
		t.Fatalf("error must name the failed checker, got %q", err)
	}
	if !errors.Is(err, down) {
		t.Fatalf("underlying error must stay unwrappable")
	}
}

func TestReadyStopsAtFirstFailure(t *testing.T) {
	first := &stubChecker{name: "first", err: errors.New("down")}
	second := &stubChecker{name: "second"}
	svc := NewService(first, second)

	if err := svc.Ready(context.Background()); err == nil {
		t.Fatalf("expected an error")
	}
	if second.calls != 0 {
		t.Fatalf("later checkers must not run after a failure, got %d calls", second.calls)
	}
}

func TestReadyNoCheckers(t *testing.T) {
	if err := NewService().Ready(context.Background()); err != nil {
		t.Fatalf("no checkers means ready, got %v", err)
	}
}
