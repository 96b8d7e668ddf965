package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBodyLimitCapsWriteMethods(t *testing.T) {
	handler := BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err == nil {
			t.Fatal("expected oversized body read to fail")
		}
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("well over eight bytes"))
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestBodyLimitLeavesReadsAlone(t *testing.T) {
	body := "well over eight bytes"
	handler := BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(data) != len(body) {
			t.Fatalf("expected full body, got %d bytes", len(data))
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", strings.NewReader(body))
	handler.ServeHTTP(httptest.NewRecorder(), req)
}
