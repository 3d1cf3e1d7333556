package responses

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/velora-app/velora-backend/pkg/errors"
)

func decodeEnvelope(t *testing.T, body []byte) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"id": "abc"})

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec.Body.Bytes())
	if !env.Success {
		t.Fatal("expected success=true")
	}
	if env.Error != "" || env.Code != "" {
		t.Fatalf("unexpected error fields: %+v", env)
	}
	data, ok := env.Data.(map[string]any)
	if !ok || data["id"] != "abc" {
		t.Fatalf("unexpected data: %+v", env.Data)
	}
}

func TestWriteMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteMessage(rec, 201, "account created")

	if rec.Code != 201 {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec.Body.Bytes())
	if !env.Success || env.Message != "account created" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestWriteErrorTypedCode(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	WriteError(context.Background(), nil, rec, err)

	if rec.Code != 401 {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec.Body.Bytes())
	if env.Success {
		t.Fatal("expected success=false")
	}
	if env.Error != "invalid credentials" {
		t.Fatalf("expected public message passthrough, got %q", env.Error)
	}
	if env.Code != string(pkgerrors.CodeUnauthorized) {
		t.Fatalf("unexpected code %q", env.Code)
	}
}

func TestWriteErrorInternalHidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeInternal, "pg: connection refused on 10.0.0.5")
	WriteError(context.Background(), nil, rec, err)

	if rec.Code != 500 {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec.Body.Bytes())
	if env.Error == "pg: connection refused on 10.0.0.5" {
		t.Fatal("internal message must not leak to clients")
	}
}

func TestWriteErrorUntyped(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, context.DeadlineExceeded)

	if rec.Code != 500 {
		t.Fatalf("expected 500 for untyped error, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec.Body.Bytes())
	if env.Code != string(pkgerrors.CodeInternal) {
		t.Fatalf("unexpected code %q", env.Code)
	}
}
