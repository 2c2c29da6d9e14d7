// Package stubserver is an in-memory stand-in for the gym backend. It speaks
// the same JSON as the real service, issues HS256 JWT pairs, and keeps all
// state in maps. cmd/stubbackend serves it; the client tests run against it.
package stubserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jrsteele09/gym-checkin/athletes"
	"github.com/jrsteele09/gym-checkin/checkins"
	"github.com/jrsteele09/gym-checkin/payments"
	"github.com/jrsteele09/gym-checkin/settings"
	"github.com/jrsteele09/gym-checkin/trainingsessions"
	"github.com/jrsteele09/gym-checkin/users"
	fakeuserrepo "github.com/jrsteele09/gym-checkin/users/repofake"
	"github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json; charset=utf-8"

type phoneLink struct {
	ID        int
	Phone     string
	AthleteID int
}

type Server struct {
	router *mux.Router

	secret          []byte
	accessTTL       time.Duration
	refreshTTL      time.Duration
	checkInWindow   time.Duration
	now             func() time.Time
	logRequests     bool
	tokenGeneration int
	refreshRevoked  bool

	users users.UserRepo

	mu       sync.Mutex
	athletes map[int]*athletes.Athlete
	links    []phoneLink
	sessions map[int]*trainingsessions.TrainingSession
	checkIns []checkins.CheckIn
	payments map[int]*payments.AthletePayment
	settings settings.AppSettings
	failures map[int]failure // forced check-in failures by athlete id
	hits     map[string]int  // "METHOD /path" -> count
	nextID   map[string]int
}

type failure struct {
	status  int
	message string
}

type Option func(*Server)

func WithSecret(secret []byte) Option {
	return func(s *Server) {
		s.secret = secret
	}
}

func WithNowFunc(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

func WithTokenExpiry(access, refresh time.Duration) Option {
	return func(s *Server) {
		s.accessTTL = access
		s.refreshTTL = refresh
	}
}

// WithCheckInWindow sets how long before and after a session check-in is
// open.
func WithCheckInWindow(d time.Duration) Option {
	return func(s *Server) {
		s.checkInWindow = d
	}
}

// WithRequestLogging logs every request at info level.
func WithRequestLogging(enabled bool) Option {
	return func(s *Server) {
		s.logRequests = enabled
	}
}

func New(opts ...Option) *Server {
	s := &Server{
		router:        mux.NewRouter(),
		secret:        []byte(uuid.NewString()),
		accessTTL:     5 * time.Minute,
		refreshTTL:    24 * time.Hour,
		checkInWindow: 30 * time.Minute,
		now:           time.Now,
		users:         fakeuserrepo.NewFakeUserRepo(),
		athletes:      make(map[int]*athletes.Athlete),
		sessions:      make(map[int]*trainingsessions.TrainingSession),
		payments:      make(map[int]*payments.AthletePayment),
		settings:      settings.AppSettings{ID: 1, SubscriptionCost: "150.00", SessionCost: "25.00"},
		failures:      make(map[int]failure),
		hits:          make(map[string]int),
		nextID:        make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.initRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.Method+" "+r.URL.Path]++
	s.mu.Unlock()

	if s.logRequests {
		log.Info().Str("method", r.Method).Str("path", r.URL.Path).Msg("stub request")
	}
	s.router.ServeHTTP(w, r)
}

func ChainMiddleware(routeFunction http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	chainedHandler := routeFunction
	// Apply middleware in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chainedHandler = mw[i](chainedHandler)
	}
	return chainedHandler
}

// id hands out the next id of a kind, starting at 1. Callers hold s.mu.
func (s *Server) id(kind string) int {
	s.nextID[kind]++
	return s.nextID[kind]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeDetail answers with the DRF {"detail": msg} shape.
func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

// writeError answers with the {"error": msg} shape the custom actions use.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeFieldErrors answers 400 with per-field message lists.
func writeFieldErrors(w http.ResponseWriter, fields map[string]string) {
	body := make(map[string][]string, len(fields))
	for k, v := range fields {
		body[k] = []string{v}
	}
	writeJSON(w, http.StatusBadRequest, body)
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return false
	}
	return true
}
