package http

import (
	"io"
	"net/http"
	"time"
)

// TimingInfo holds the phases of a single round trip.
type TimingInfo struct {
	StartTime       time.Time
	ConnectTime     time.Duration
	TimeToFirstByte time.Duration
	TotalTime       time.Duration
	ReusedConn      bool
}

// Response represents an HTTP response
type Response struct {
	StatusCode int
	Status     string
	Headers    http.Header
	Body       io.ReadCloser
	Timing     TimingInfo
	rawBody    []byte
	parsed     bool
}

// GetBody returns the response body as a byte array
func (r *Response) GetBody() ([]byte, error) {
	if r.parsed {
		return r.rawBody, nil
	}

	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	r.rawBody = body
	r.parsed = true

	return body, nil
}

// GetBodyAsString returns the response body as a string
func (r *Response) GetBodyAsString() (string, error) {
	body, err := r.GetBody()
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// IsSuccess returns true if the response status code is in the 2xx range
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Elapsed is the wall time from sending the request to reading the last body byte.
func (r *Response) Elapsed() time.Duration {
	return r.Timing.TotalTime
}
