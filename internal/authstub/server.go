// Package authstub is an in-memory stand-in for the forum service's
// signup and login endpoints. It backs the provisioner tests and the
// authstub command used for local dry runs.
package authstub

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	SignupPath = "/api/v1/signup"
	LoginPath  = "/api/v1/login"

	defaultIssuer = "bluebell"
	defaultTTL    = 24 * time.Hour
)

// Claims are carried by every issued token.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type user struct {
	id       int64
	password string
}

// Server keeps accounts in memory. It is safe for concurrent use.
type Server struct {
	mu     sync.Mutex
	users  map[string]user
	nextID int64

	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time

	signups int
	logins  int
}

// Option configures a Server.
type Option func(*Server)

// WithSecret sets the HS256 signing key.
func WithSecret(secret []byte) Option {
	return func(s *Server) {
		s.secret = secret
	}
}

// WithTTL sets the lifetime of issued tokens.
func WithTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.ttl = ttl
	}
}

// New creates an empty Server.
func New(opts ...Option) *Server {
	s := &Server{
		users:  make(map[string]user),
		nextID: 1,
		secret: []byte("provisioner-authstub"),
		issuer: defaultIssuer,
		ttl:    defaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler routes the signup and login endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+SignupPath, s.handleSignup)
	mux.HandleFunc("POST "+LoginPath, s.handleLogin)
	return mux
}

// Users returns the number of registered accounts.
func (s *Server) Users() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// Counts returns how many signup and login requests were served.
func (s *Server) Counts() (signups, logins int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signups, s.logins
}

type signupParams struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RePassword string `json:"re_password"`
}

type loginParams struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.signups++
	s.mu.Unlock()

	var p signupParams
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeEnvelope(w, CodeInvalidParam, nil)
		return
	}
	if p.Username == "" || p.Password == "" || p.RePassword != p.Password {
		writeEnvelope(w, CodeInvalidParam, nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[p.Username]; exists {
		writeEnvelope(w, CodeUserExist, nil)
		return
	}
	s.users[p.Username] = user{id: s.nextID, password: p.Password}
	s.nextID++

	writeEnvelope(w, CodeSuccess, nil)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.logins++
	s.mu.Unlock()

	var p loginParams
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.Username == "" || p.Password == "" {
		writeEnvelope(w, CodeInvalidParam, nil)
		return
	}

	s.mu.Lock()
	u, ok := s.users[p.Username]
	s.mu.Unlock()

	if !ok {
		writeEnvelope(w, CodeUserNotExist, nil)
		return
	}
	if u.password != p.Password {
		writeEnvelope(w, CodeInvalidPassword, nil)
		return
	}

	token, err := s.IssueToken(u.id, p.Username)
	if err != nil {
		writeEnvelope(w, CodeServerBusy, nil)
		return
	}

	writeEnvelope(w, CodeSuccess, LoginData{
		UserID:   strconv.FormatInt(u.id, 10),
		UserName: p.Username,
		Token:    token,
	})
}

// IssueToken signs an HS256 token for the account.
func (s *Server) IssueToken(userID int64, username string) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken verifies a token issued by this server.
func (s *Server) ParseToken(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func writeEnvelope(w http.ResponseWriter, code ResCode, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(Envelope{Code: code, Msg: code.Msg(), Data: data})
}
