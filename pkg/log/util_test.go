package log

import (
	"errors"
	"net/netip"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestToFields(t *testing.T) {
	now := time.Now()
	err := errors.New("boom")

	tests := []struct {
		name  string
		input []any
		want  int
	}{
		{"empty input", []any{}, 0},
		{"string-int-bool", []any{"a", "x", "b", 123, "c", true}, 3},
		{"time type", []any{"t", now}, 1},
		{"duration", []any{"backoff", 100 * time.Millisecond}, 1},
		{"address stringer", []any{"address", netip.MustParseAddr("127.0.0.2")}, 1},
		{"error only", []any{err}, 1},
		{"multiple errors", []any{err, errors.New("again")}, 2},
		{"mixed field types", []any{"msg", "ok", zap.String("x", "y"), "num", 42}, 3},
		{"odd number of args", []any{"key1", "val1", "key2"}, 2},
		{"non-string key", []any{123, "value", true, 99}, 2},
		{"nil values", []any{"a", nil, "b", (*int)(nil)}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := toFields(tt.input...)
			if len(fields) != tt.want {
				t.Fatalf("got %d fields, want %d: %+v", len(fields), tt.want, fields)
			}
			for _, f := range fields {
				if f.Key == "" {
					t.Errorf("field has empty key: %+v", f)
				}
			}
		})
	}
}

func TestStringerBecomesString(t *testing.T) {
	fields := toFields("address", netip.MustParseAddr("10.0.0.7"))
	if fields[0].Type != zapcore.StringerType {
		t.Fatalf("expected stringer field, got %v", fields[0].Type)
	}
}

func TestSetLevel(t *testing.T) {
	Init(&Options{Level: "info", Format: FormatJSON, OutputPaths: []string{"stderr"}})
	defer setStd(NewNopLogger())

	enabled := func() bool { return Std().(*zapLogger).core.Core().Enabled(zapcore.DebugLevel) }
	if enabled() {
		t.Fatal("debug enabled at level info")
	}
	if err := SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel(debug): %v", err)
	}
	if !enabled() {
		t.Error("debug still disabled after SetLevel(debug)")
	}
	if !helper().(*zapLogger).core.Core().Enabled(zapcore.DebugLevel) {
		t.Error("package-level helpers did not follow SetLevel(debug)")
	}
	if err := SetLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if !enabled() {
		t.Error("invalid level changed the current one")
	}
}

func TestCallerAnnotation(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	l := &zapLogger{
		core:  zap.New(obs, zap.AddCaller(), zap.AddCallerSkip(callerSkip)),
		level: zap.NewAtomicLevelAt(zapcore.DebugLevel),
	}
	setStd(l)
	defer setStd(NewNopLogger())

	l.Info("direct")
	Info("package-level")
	l.WithName("child").Warn("named")

	entries := logs.AllUntimed()
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for _, e := range entries {
		if !e.Caller.Defined || filepath.Base(e.Caller.File) != "util_test.go" {
			t.Errorf("%q: caller = %s, want util_test.go", e.Message, e.Caller.TrimmedPath())
		}
	}
}
