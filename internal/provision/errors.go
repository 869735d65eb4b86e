package provision

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNonJSONBody marks a response whose body could not be parsed as JSON.
	ErrNonJSONBody = errors.New("response body is not JSON")
	// ErrMissingToken marks a login response without data.token.
	ErrMissingToken = errors.New("response has no data.token")
	// ErrMultilineToken marks a token that cannot be stored as a single line.
	ErrMultilineToken = errors.New("token contains a line break")
)

// SignupError is any failure of the signup request. It never stops the run.
type SignupError struct {
	Username string
	Err      error
}

func (e *SignupError) Error() string {
	return fmt.Sprintf("signup %s: %v", e.Username, e.Err)
}

func (e *SignupError) Unwrap() error {
	return e.Err
}

// LoginErrorKind tells apart the ways a login can fail.
type LoginErrorKind int

const (
	// LoginTransport: no response (timeout, refused connection, reset).
	LoginTransport LoginErrorKind = iota
	// LoginDecode: a response arrived but the body is not JSON.
	LoginDecode
	// LoginMissingToken: valid JSON without data.token.
	LoginMissingToken
	// LoginBadToken: data.token is present but contains a line break.
	LoginBadToken
)

func (k LoginErrorKind) String() string {
	switch k {
	case LoginTransport:
		return "transport"
	case LoginDecode:
		return "decode"
	case LoginMissingToken:
		return "missing token"
	case LoginBadToken:
		return "bad token"
	default:
		return fmt.Sprintf("LoginErrorKind(%d)", int(k))
	}
}

// LoginError is any login that did not yield a token.
type LoginError struct {
	Username string
	Kind     LoginErrorKind
	// Body is the raw response body, empty for transport errors.
	Body string
	// Message is the service's "msg" field when it sent one.
	Message string
	// Reasons explain why Body does not match the expected login response.
	Reasons []string
	Err     error
}

func (e *LoginError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "login %s: %v", e.Username, e.Err)
	if e.Kind == LoginMissingToken && e.Body != "" {
		fmt.Fprintf(&sb, ", response: %s", e.Body)
	}
	return sb.String()
}

func (e *LoginError) Unwrap() error {
	return e.Err
}
