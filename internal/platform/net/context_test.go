package net

import (
	"context"
	"testing"
)

func TestWithRequest(t *testing.T) {
	ctx := context.Background()
	if WithRequest(ctx, "") != ctx {
		t.Fatalf("empty id should not wrap ctx")
	}
	if RequestID(ctx) != "" {
		t.Fatalf("bare ctx should have no request id")
	}
	if got := RequestID(WithRequest(ctx, "req-42")); got != "req-42" {
		t.Fatalf("RequestID = %q", got)
	}
}
