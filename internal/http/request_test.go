package http

import (
	"io"
	"testing"
)

func TestRequest_Build(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		baseURL     string
		body        interface{}
		expectedURL string
		expectedCT  string
	}{
		{
			name:        "Path joined to host",
			path:        "/api/v1/signup",
			baseURL:     "http://127.0.0.1:8084",
			expectedURL: "http://127.0.0.1:8084/api/v1/signup",
		},
		{
			name:        "Trailing slash in base URL",
			path:        "/login",
			baseURL:     "http://127.0.0.1:8084/api/v1/",
			expectedURL: "http://127.0.0.1:8084/api/v1/login",
		},
		{
			name:        "Path without leading slash",
			path:        "login",
			baseURL:     "http://127.0.0.1:8084/api/v1",
			expectedURL: "http://127.0.0.1:8084/api/v1/login",
		},
		{
			name:        "Struct body defaults to JSON",
			path:        "/login",
			baseURL:     "http://127.0.0.1:8084",
			body:        map[string]string{"username": "user00001"},
			expectedURL: "http://127.0.0.1:8084/login",
			expectedCT:  "application/json",
		},
		{
			name:        "String body has no implied content type",
			path:        "/login",
			baseURL:     "http://127.0.0.1:8084",
			body:        `{"username":"user00001"}`,
			expectedURL: "http://127.0.0.1:8084/login",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewRequest("POST", tt.path)
			if tt.body != nil {
				req.WithBody(tt.body)
			}

			httpReq, err := req.Build(tt.baseURL)
			if err != nil {
				t.Fatalf("Error building request: %v", err)
			}

			if httpReq.URL.String() != tt.expectedURL {
				t.Errorf("Expected URL %s, got %s", tt.expectedURL, httpReq.URL.String())
			}

			if httpReq.Method != "POST" {
				t.Errorf("Expected method POST, got %s", httpReq.Method)
			}

			if got := httpReq.Header.Get("Content-Type"); got != tt.expectedCT {
				t.Errorf("Expected Content-Type %q, got %q", tt.expectedCT, got)
			}
		})
	}
}

func TestNewJSONRequest(t *testing.T) {
	req := NewJSONRequest("POST", "/signup", struct {
		Username string `json:"username"`
	}{Username: "user00002"})

	httpReq, err := req.Build("http://127.0.0.1:8084/api/v1")
	if err != nil {
		t.Fatalf("Error building request: %v", err)
	}

	if httpReq.Header.Get("Content-Type") != "application/json" {
		t.Errorf("Expected JSON content type, got %s", httpReq.Header.Get("Content-Type"))
	}

	body, _ := io.ReadAll(httpReq.Body)
	if string(body) != `{"username":"user00002"}` {
		t.Errorf("Unexpected body %s", string(body))
	}
}

func TestRequest_BuildInvalidBaseURL(t *testing.T) {
	if _, err := NewRequest("POST", "/x").Build("://bad"); err == nil {
		t.Error("Expected an error for an invalid base URL")
	}
}
