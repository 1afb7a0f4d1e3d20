// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fakeapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jeranaias/polychat/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultTokenTTL matches the backend's access token lifetime.
	DefaultTokenTTL = 60 * time.Minute

	// DefaultModel answers when a send names no model.
	DefaultModel = "gemini"

	// NoSummary is the profile summary before any chat exists.
	NoSummary = "No AI summary available yet. Start chatting to generate personalized insights."

	// titleWords is how many words of the first message become a chat title.
	titleWords = 6
	// titleMaxRunes caps titles built from very long words.
	titleMaxRunes = 60

	userKey = "user"
)

// timeLayout mirrors the naive ISO timestamps the backend emits.
const timeLayout = "2006-01-02T15:04:05.999999"

// availableModels are the providers the fake can "answer" with.
var availableModels = map[string]bool{
	"gemini":  true,
	"groq":    true,
	"mistral": true,
}

// Replier produces the assistant reply for a message.
type Replier func(model, content, lang string) string

// EchoReply is the default Replier. It repeats the prompt so tests can
// assert on round trips.
func EchoReply(model, content, lang string) string {
	if lang == "ar" {
		return "(" + model + ") رسالتك: " + content
	}
	return "(" + model + ") You said: " + content
}

// =============================================================================
// STATE
// =============================================================================

type account struct {
	id        int64
	email     string
	hash      []byte
	lang      string
	createdAt time.Time
}

type message struct {
	id        int64
	role      string
	content   string
	model     string
	lang      string
	createdAt time.Time
}

type chat struct {
	id        int64
	owner     int64
	title     string
	createdAt time.Time
	messages  []message
}

type failure struct {
	status int
	detail string
}

// Server is an in-memory implementation of the polychat backend REST
// contract. It is safe for concurrent use.
type Server struct {
	mu       sync.Mutex
	accounts map[string]*account
	chats    map[int64]*chat
	revoked  map[string]bool
	failures map[string]failure
	nextUser int64
	nextChat int64
	nextMsg  int64

	key     []byte
	ttl     time.Duration
	now     func() time.Time
	latency time.Duration
	reply   Replier
	logger  *zap.Logger

	echo *echo.Echo
}

// Option configures a Server.
type Option func(*Server)

// WithSigningKey sets the HMAC key for issued tokens.
func WithSigningKey(key []byte) Option {
	return func(s *Server) {
		if len(key) > 0 {
			s.key = key
		}
	}
}

// WithTokenTTL sets the lifetime of issued tokens.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLatency delays every /messages/send reply.
func WithLatency(d time.Duration) Option {
	return func(s *Server) {
		s.latency = d
	}
}

// WithReplier replaces EchoReply.
func WithReplier(r Replier) Option {
	return func(s *Server) {
		if r != nil {
			s.reply = r
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Server with its routes registered.
func New(opts ...Option) *Server {
	s := &Server{
		accounts: make(map[string]*account),
		chats:    make(map[int64]*chat),
		revoked:  make(map[string]bool),
		failures: make(map[string]failure),
		key:      []byte(uuid.NewString()),
		ttl:      DefaultTokenTTL,
		now:      time.Now,
		reply:    EchoReply,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError
	e.Use(middleware.Recover())
	e.Use(s.requestLogger())
	e.Use(s.injectFailures)
	s.RegisterRoutes(e)
	s.echo = e
	return s
}

// RegisterRoutes registers the REST contract on e.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.POST("/auth/signup", s.Signup)
	e.POST("/auth/login", s.Login)
	e.POST("/auth/logout", s.Logout)

	authed := e.Group("", s.requireAuth)
	authed.GET("/auth/profile", s.Profile)
	authed.GET("/chats", s.ListChats)
	authed.POST("/chats", s.CreateChat)
	authed.GET("/chats/:chat_id", s.GetChat)
	authed.DELETE("/chats/:chat_id", s.DeleteChat)
	authed.POST("/messages/send", s.SendMessage)

	e.GET("/health", s.Health)
}

// Handler returns the server as an http.Handler, for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}

// Health returns health status.
func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

// =============================================================================
// TEST CONTROLS
// =============================================================================

// AddUser registers an account directly, bypassing /auth/signup.
func (s *Server) AddUser(email, password, lang string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.addAccountLocked(email, password, lang)
	return err
}

// IssueToken mints a valid token for an existing account.
func (s *Server) IssueToken(email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[normalizeEmail(email)]; !ok {
		return "", errors.New("unknown account")
	}
	return s.signLocked(normalizeEmail(email))
}

// RevokeToken makes a token answer 401 from now on.
func (s *Server) RevokeToken(token string) {
	claims, err := s.parse(token)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.revoked[claims.ID] = true
	s.mu.Unlock()
}

// FailNext makes the next request to method+path answer status with detail.
// path is the concrete request path, e.g. "/chats/3".
func (s *Server) FailNext(method, path string, status int, detail string) {
	s.mu.Lock()
	s.failures[method+" "+path] = failure{status: status, detail: detail}
	s.mu.Unlock()
}

// ChatCount returns the number of chats owned by email.
func (s *Server) ChatCount(email string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[normalizeEmail(email)]
	if !ok {
		return 0
	}
	n := 0
	for _, ch := range s.chats {
		if ch.owner == acct.id {
			n++
		}
	}
	return n
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

type claims struct {
	jwt.RegisteredClaims
}

func (s *Server) signLocked(email string) (string, error) {
	now := s.now()
	c := claims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.key)
}

func (s *Server) parse(token string) (*claims, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// requireAuth resolves the bearer token to an account or answers 401.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
		}

		cl, err := s.parse(strings.TrimSpace(token))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		}

		s.mu.Lock()
		revoked := s.revoked[cl.ID]
		acct := s.accounts[cl.Subject]
		s.mu.Unlock()

		if revoked {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		}
		if acct == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
		}
		c.Set(userKey, acct)
		return next(c)
	}
}

func (s *Server) injectFailures(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := c.Request().Method + " " + c.Request().URL.Path
		s.mu.Lock()
		f, ok := s.failures[key]
		if ok {
			delete(s.failures, key)
		}
		s.mu.Unlock()
		if ok {
			return echo.NewHTTPError(f.status, f.detail)
		}
		return next(c)
	}
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURIPath: true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("path", v.URIPath),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			s.logger.Info("fakeapi request", fields...)
			return nil
		},
	})
}

// handleError renders every error as {"detail": ...}.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	detail := "Internal Server Error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if msg, ok := he.Message.(string); ok {
			detail = msg
		} else {
			detail = http.StatusText(status)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, map[string]string{"detail": detail})
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Server) addAccountLocked(email, password, lang string) (*account, error) {
	email = normalizeEmail(email)
	if _, exists := s.accounts[email]; exists {
		return nil, errEmailTaken
	}
	// MinCost keeps tests fast; this server never holds real passwords.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	if lang != "ar" {
		lang = "en"
	}
	s.nextUser++
	acct := &account{
		id:        s.nextUser,
		email:     email,
		hash:      hash,
		lang:      lang,
		createdAt: s.now().UTC(),
	}
	s.accounts[email] = acct
	return acct, nil
}

var errEmailTaken = errors.New("email already registered")

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func currentAccount(c echo.Context) *account {
	acct, _ := c.Get(userKey).(*account)
	return acct
}

// titleFrom builds a chat title from the first words of a message.
func titleFrom(content string) string {
	words := strings.Fields(content)
	if len(words) == 0 {
		return "New Chat"
	}
	if len(words) > titleWords {
		return util.TruncateRunes(strings.Join(words[:titleWords], " "), titleMaxRunes) + "..."
	}
	return util.TruncateRunes(strings.Join(words, " "), titleMaxRunes)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
