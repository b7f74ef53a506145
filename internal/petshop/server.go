package petshop

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/apulbere/crop"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request id, echoed back in responses.
const RequestIDHeader = `X-Request-Id`

// Server serves the pet search API.
type Server struct {
	svc     *crop.Service
	log     *zap.Logger
	metrics *Metrics
	router  *mux.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for access logs and for generated SQL.
func WithLogger(log *zap.Logger) Option {
	return func(self *Server) { self.log = log }
}

// WithMetrics replaces the default metrics.
func WithMetrics(m *Metrics) Option {
	return func(self *Server) { self.metrics = m }
}

// NewServer creates a server that queries db. The behaviour can be tweaked
// via functional options.
func NewServer(db crop.Querier, opts ...Option) *Server {
	self := &Server{
		log:    zap.NewNop(),
		router: mux.NewRouter(),
	}
	for _, opt := range opts {
		opt(self)
	}
	if self.metrics == nil {
		self.metrics = NewMetrics()
	}

	self.svc = crop.NewService(db, crop.WithLogger(self.log))
	self.router.Use(self.requestID, self.observe)
	self.registerRoutes()
	return self
}

// Handler returns the http.Handler for the server.
func (self *Server) Handler() http.Handler { return self.router }

func (self *Server) registerRoutes() {
	self.router.HandleFunc(`/pets`, self.handleListPets).Methods(http.MethodGet)
	self.router.HandleFunc(`/pets/count`, self.handleCountPets).Methods(http.MethodGet)
	self.router.Handle(`/metrics`, self.metrics.Handler()).Methods(http.MethodGet)
}

// ---- Handlers -----------------------------------------------------------

func (self *Server) handleListPets(w http.ResponseWriter, r *http.Request) {
	query, err := DecodeQuery(r.URL.Query())
	if err != nil {
		self.writeError(w, r, err)
		return
	}

	pets, err := SearchPets(self.svc, query.Search, query.Order, query.Page).GetResultList(r.Context())
	if err != nil {
		self.writeError(w, r, err)
		return
	}

	records, err := MapRecords(r.Context(), self.svc, pets)
	if err != nil {
		self.writeError(w, r, err)
		return
	}

	self.metrics.results.Observe(float64(len(records)))
	self.writeJSON(w, records)
}

func (self *Server) handleCountPets(w http.ResponseWriter, r *http.Request) {
	query, err := DecodeQuery(r.URL.Query())
	if err != nil {
		self.writeError(w, r, err)
		return
	}

	count, err := SearchPets(self.svc, query.Search, query.Order, query.Page).GetCount(r.Context())
	if err != nil {
		self.writeError(w, r, err)
		return
	}
	self.writeJSON(w, count)
}

// ---- Helpers ------------------------------------------------------------

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// statusOf maps invalid input to 400 and everything else to 500.
func statusOf(err error) int {
	var verr crop.ValidationError
	var berr BadRequestError
	if errors.As(err, &verr) || errors.As(err, &berr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (self *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusOf(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		self.log.Error(`request failed`, zap.String(`path`, r.URL.Path), zap.Error(err))
		msg = http.StatusText(code)
	}

	w.Header().Set(`Content-Type`, `application/json`)
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorBody{Error: msg, RequestID: w.Header().Get(RequestIDHeader)})
}

func (self *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set(`Content-Type`, `application/json`)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		self.log.Error(`failed to encode response`, zap.Error(err))
	}
}

// ---- Middleware ---------------------------------------------------------

// requestID reuses the incoming request id or generates one.
func (self *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == `` {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// observe records access logs and metrics per route template.
func (self *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		self.metrics.requests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		self.metrics.duration.WithLabelValues(route).Observe(elapsed.Seconds())
		self.log.Info(`request`,
			zap.String(`method`, r.Method),
			zap.String(`route`, route),
			zap.String(`query`, r.URL.RawQuery),
			zap.Int(`status`, rec.status),
			zap.Duration(`elapsed`, elapsed),
			zap.String(`requestId`, w.Header().Get(RequestIDHeader)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (self *statusRecorder) WriteHeader(code int) {
	self.status = code
	self.ResponseWriter.WriteHeader(code)
}
