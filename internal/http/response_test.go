package http

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestResponse_GetBody(t *testing.T) {
	body := `{"data":{"token":"t1"}}`
	resp := &Response{
		StatusCode: 200,
		Status:     "200 OK",
		Headers:    make(http.Header),
		Body:       io.NopCloser(strings.NewReader(body)),
	}

	bodyBytes, err := resp.GetBody()
	if err != nil {
		t.Fatalf("Error getting body: %v", err)
	}
	if string(bodyBytes) != body {
		t.Errorf("Expected body %s, got %s", body, string(bodyBytes))
	}

	if !resp.parsed || string(resp.rawBody) != body {
		t.Errorf("Body not cached correctly")
	}

	bodyBytes2, err := resp.GetBody()
	if err != nil {
		t.Fatalf("Error getting body second time: %v", err)
	}
	if string(bodyBytes2) != body {
		t.Errorf("Expected body %s, got %s", body, string(bodyBytes2))
	}
}

func TestResponse_StatusHelpers(t *testing.T) {
	tests := []struct {
		code    int
		success bool
	}{
		{200, true},
		{204, true},
		{302, false},
		{400, false},
		{500, false},
	}

	for _, tt := range tests {
		resp := &Response{StatusCode: tt.code}
		if resp.IsSuccess() != tt.success {
			t.Errorf("IsSuccess() for %d = %v, want %v", tt.code, resp.IsSuccess(), tt.success)
		}
	}
}

func TestResponse_Elapsed(t *testing.T) {
	resp := &Response{Timing: TimingInfo{TotalTime: 150 * time.Millisecond}}
	if resp.Elapsed() != 150*time.Millisecond {
		t.Errorf("Expected 150ms, got %v", resp.Elapsed())
	}
}
