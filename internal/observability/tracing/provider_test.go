package tracing

import (
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestSafeAttributesDropsIdentityFields(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("email", "a@b.c"),
		attribute.String("http.route", "/farmer/login"),
	)
	if len(attrs) != 1 || attrs[0].Key != "http.route" {
		t.Fatalf("unexpected attributes: %v", attrs)
	}
}

func TestSafeErrorKeepsPrefix(t *testing.T) {
	err := SafeError(errors.New("validation_error: mobile must be 10 digits"))
	if err.Error() != "validation_error" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if SafeError(nil) != nil {
		t.Fatal("expected nil")
	}
}
