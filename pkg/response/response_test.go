package response

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	OK(rec, map[string]string{"hello": "world"})

	var data map[string]string
	if err := Decode(rec.Body, &data); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if data["hello"] != "world" {
		t.Errorf("data = %v, want hello:world", data)
	}
}

func TestDecodeErrorEnvelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	NotFound(rec, "no such thing")

	err := Decode(rec.Body, nil)
	if err == nil {
		t.Fatal("Decode of error envelope succeeded")
	}
	if !strings.Contains(err.Error(), "NOT_FOUND") || !strings.Contains(err.Error(), "no such thing") {
		t.Errorf("error = %q, want code and message included", err)
	}
}

func TestDecodeWithNilOut(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	OK(rec, map[string]string{"ignored": "yes"})

	if err := Decode(rec.Body, nil); err != nil {
		t.Fatalf("Decode with nil out: %v", err)
	}
}

func TestDecodeMalformedBody(t *testing.T) {
	t.Parallel()

	if err := Decode(strings.NewReader("not json"), nil); err == nil {
		t.Fatal("Decode of malformed body succeeded")
	}
}
