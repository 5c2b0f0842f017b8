package platformerrors

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestNewError_CarriesRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")

	err := NewError(ctx, LayerDomain, ErrorTypeNotFound, "thing not found", nil, "11111111-2222-4333-8444-555555555555")

	if err.GetRequestID() != "req-123" {
		t.Errorf("GetRequestID() = %q, want %q", err.GetRequestID(), "req-123")
	}
	if err.GetUUID() != "11111111-2222-4333-8444-555555555555" {
		t.Errorf("GetUUID() = %q", err.GetUUID())
	}
	if err.GetErrorType() != ErrorTypeNotFound {
		t.Errorf("GetErrorType() = %q", err.GetErrorType())
	}
}

func TestNewError_GeneratesUUIDWhenMissing(t *testing.T) {
	err := NewError(context.Background(), LayerHandler, ErrorTypeInternal, "boom", nil, "")
	if err.GetUUID() == "" {
		t.Error("expected auto-generated UUID, got empty string")
	}
}

func TestAsError_PreservesTypeAndUUID(t *testing.T) {
	ctx := context.Background()
	inner := NewError(ctx, LayerRepository, ErrorTypeValidation, "bad input", nil, "aaaaaaaa-bbbb-4ccc-8ddd-eeeeeeeeeeee")

	wrapped := AsError(ctx, LayerDomain, inner, "operation failed")

	if wrapped.GetErrorType() != ErrorTypeValidation {
		t.Errorf("wrapped type = %q, want VALIDATION", wrapped.GetErrorType())
	}
	if wrapped.GetUUID() != inner.GetUUID() {
		t.Errorf("wrapped UUID = %q, want %q", wrapped.GetUUID(), inner.GetUUID())
	}
	if !errors.Is(wrapped, inner) {
		t.Error("errors.Is should find the inner error through the wrap chain")
	}
}

func TestAsError_NilReturnsNil(t *testing.T) {
	if got := AsError(context.Background(), LayerDomain, nil, "nope"); got != nil {
		t.Errorf("AsError(nil) = %v, want nil", got)
	}
}

func TestIsErrorType(t *testing.T) {
	ctx := context.Background()
	notFound := NewError(ctx, LayerDomain, ErrorTypeNotFound, "gone", nil, "")
	wrapped := AsError(ctx, LayerHandler, notFound, "lookup failed")

	if !IsErrorType(notFound, ErrorTypeNotFound) {
		t.Error("IsErrorType should match the direct error")
	}
	if !IsErrorType(wrapped, ErrorTypeNotFound) {
		t.Error("IsErrorType should match through the wrap chain")
	}
	if IsErrorType(notFound, ErrorTypeForbidden) {
		t.Error("IsErrorType should not match a different type")
	}
	if IsErrorType(errors.New("plain"), ErrorTypeNotFound) {
		t.Error("IsErrorType should reject non-platform errors")
	}
}

func TestErrorTypeToHTTPStatus(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		want      int
	}{
		{ErrorTypeNotFound, http.StatusNotFound},
		{ErrorTypeValidation, http.StatusBadRequest},
		{ErrorTypeConflict, http.StatusConflict},
		{ErrorTypeUnauthorized, http.StatusUnauthorized},
		{ErrorTypeForbidden, http.StatusForbidden},
		{ErrorTypeNotImplemented, http.StatusNotImplemented},
		{ErrorTypeDatabaseError, http.StatusInternalServerError},
		{ErrorTypeExternal, http.StatusBadGateway},
		{ErrorTypeInternal, http.StatusInternalServerError},
		{ErrorType("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := ErrorTypeToHTTPStatus(tt.errorType); got != tt.want {
			t.Errorf("ErrorTypeToHTTPStatus(%q) = %d, want %d", tt.errorType, got, tt.want)
		}
	}
}
