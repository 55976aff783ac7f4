package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

func TestParseConfigRejectsNil(t *testing.T) {
	if err := ParseConfig[struct{}](nil); err == nil {
		t.Fatalf("expected error for nil config target")
	}
}

func TestParseArgs(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	value := fs.String("db", "", "db path")
	if err := ParseArgs(fs, []string{"-db", "/tmp/grove.db"}); err != nil {
		t.Fatalf("parse args: %v", err)
	}
	if *value != "/tmp/grove.db" {
		t.Fatalf("expected flag to parse, got %q", *value)
	}
	if err := ParseArgs(nil, nil); err == nil {
		t.Fatalf("expected error for nil flag set")
	}
}

func TestRunWithTelemetryRequiresService(t *testing.T) {
	err := RunWithTelemetry(context.Background(), "  ", func(context.Context) error { return nil })
	if err == nil {
		t.Fatalf("expected error for blank service name")
	}
}

func TestRunWithTelemetryRequiresRun(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), ServiceGrove, nil); err == nil {
		t.Fatalf("expected error for nil run function")
	}
}

func TestRunWithTelemetryPropagatesRunError(t *testing.T) {
	t.Setenv("DENGROW_OTEL_ENDPOINT", "")
	want := errors.New("boom")
	err := RunWithTelemetry(context.Background(), ServiceGrove, func(context.Context) error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("expected run error to propagate, got %v", err)
	}
}
