package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/google/go-cmp/cmp"
)

func TestTranslateSurveyErr(t *testing.T) {
	if got := translateSurveyErr(terminal.InterruptErr); !errors.Is(got, ErrAborted) {
		t.Fatalf("interrupt should map to ErrAborted, got %v", got)
	}

	plain := errors.New("boom")
	if got := translateSurveyErr(plain); got != plain {
		t.Fatalf("other errors must pass through, got %v", got)
	}
}

func TestIndexHelpers(t *testing.T) {
	options := []string{
		"FMB Family Parameter list",
		"FMB Family SMS Parameter list",
		"FMB Family CAN Parameter list",
	}

	if got := indexOf(options, "FMB Family SMS Parameter list"); got != 1 {
		t.Fatalf("indexOf = %d, want 1", got)
	}
	if got := indexOf(options, "missing"); got != -1 {
		t.Fatalf("indexOf missing = %d, want -1", got)
	}

	got := indicesOf(options, []string{"FMB Family CAN Parameter list", "FMB Family Parameter list"})
	if diff := cmp.Diff([]int{0, 2}, got); diff != "" {
		t.Fatalf("indicesOf mismatch (-want +got):\n%s", diff)
	}

	defaults := defaultsFromIndices(options, []int{2, 5, -1, 0})
	want := []string{"FMB Family CAN Parameter list", "FMB Family Parameter list"}
	if diff := cmp.Diff(want, defaults); diff != "" {
		t.Fatalf("defaultsFromIndices mismatch (-want +got):\n%s", diff)
	}
}

func TestDriverHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	driver := NewSurveyDriver()
	if _, err := driver.Confirm(ctx, ConfirmConfig{Message: "overwrite?"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if _, err := driver.Select(ctx, SelectConfig{Message: "renderer?"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if _, err := driver.MultiSelect(ctx, SelectConfig{Message: "templates?"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if err := driver.Info(ctx, "done"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
