package observability

import (
	"context"
	"errors"
	"testing"
)

func TestNopTracer(t *testing.T) {
	tracer := NopTracer()
	ctx := context.Background()
	ctx2, span := tracer.StartSpan(ctx, "test")
	if ctx2 != ctx {
		t.Fatalf("nop tracer should return same context")
	}
	span.SetTag("key", "value")
	span.SetError(nil)
	span.Finish()
}

func TestFields(t *testing.T) {
	err := errors.New("boom")
	cases := []struct {
		field Field
		key   string
		value interface{}
	}{
		{String("s", "v"), "s", "v"},
		{Int("i", 7), "i", 7},
		{Int64("n", 9), "n", int64(9)},
		{Error("e", err), "e", err},
	}
	for _, tc := range cases {
		if tc.field.Key() != tc.key {
			t.Fatalf("key = %q, want %q", tc.field.Key(), tc.key)
		}
		if tc.field.Value() != tc.value {
			t.Fatalf("value = %v, want %v", tc.field.Value(), tc.value)
		}
	}
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l = l.With(String("k", "v"))
	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")
}
