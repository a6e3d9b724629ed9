package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bookshop/internal/app"
	"bookshop/internal/util"
	"bookshop/pkg/domain"
	"bookshop/pkg/storage"
)

// Limiter gates a request key; the Redis fixed-window limiter satisfies it.
type Limiter interface {
	Allow(key string) bool
}

// Config wires the HTTP server.
type Config struct {
	App    *app.App
	Logger *slog.Logger

	// AuthLimiter throttles register/login/forgot-password per client IP.
	// Nil disables throttling.
	AuthLimiter Limiter

	// Uploads is the image object store. Nil disables the upload endpoint.
	Uploads           storage.ObjectStore
	MaxUploadBytes    int64
	AllowedExtensions []string
	PresignExpiry     time.Duration

	// RequestTimeout bounds each request's store work.
	RequestTimeout time.Duration
}

// Server is the HTTP surface over the app layer.
type Server struct {
	app    *app.App
	logger *slog.Logger

	authLimiter Limiter

	uploads        storage.ObjectStore
	maxUploadBytes int64
	allowedExts    map[string]bool
	presignExpiry  time.Duration

	requestTimeout time.Duration
}

// New builds the server and validates its wiring.
func New(cfg Config) (*Server, error) {
	if cfg.App == nil {
		return nil, errors.New("server requires an app")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 8 << 20
	}
	exts := cfg.AllowedExtensions
	if len(exts) == 0 {
		exts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	}
	allowed := make(map[string]bool, len(exts))
	for _, e := range exts {
		allowed[strings.ToLower(e)] = true
	}
	presign := cfg.PresignExpiry
	if presign <= 0 {
		presign = 24 * time.Hour
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Server{
		app:            cfg.App,
		logger:         logger,
		authLimiter:    cfg.AuthLimiter,
		uploads:        cfg.Uploads,
		maxUploadBytes: maxUpload,
		allowedExts:    allowed,
		presignExpiry:  presign,
		requestTimeout: timeout,
	}, nil
}

// Handler assembles the routed handler with the shared middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth surface.
	mux.HandleFunc("POST /api/v1/register", s.withAuthLimit(s.handleRegister))
	mux.HandleFunc("POST /api/v1/login", s.withAuthLimit(s.handleLogin))
	mux.HandleFunc("POST /api/v1/forgotpassword", s.withAuthLimit(s.handleForgotPassword))
	mux.HandleFunc("POST /api/v1/resetpassword", s.handleResetPassword)
	mux.HandleFunc("POST /api/v1/confirmpassword", s.authenticated(s.handleConfirmPassword))
	mux.HandleFunc("GET /api/v1/authcheck", s.authenticated(s.handleAuthCheck))
	mux.HandleFunc("GET /api/v1/admincheck", s.adminOnly(s.handleAuthCheck))
	mux.HandleFunc("GET /api/v1/user/{id}", s.authenticated(s.handleGetUser))
	mux.HandleFunc("PUT /api/v1/updateuser", s.authenticated(s.handleUpdateProfile))
	mux.HandleFunc("DELETE /api/v1/user/{id}", s.adminOnly(s.handleDeleteUser))
	mux.HandleFunc("PUT /api/v1/changeadminstatus/{id}", s.adminOnly(s.handleChangeAdminStatus))
	mux.HandleFunc("GET /api/v1/allusers/{pageNo}/{perPage}/{searchKeyword}", s.adminOnly(s.handleListUsers))

	// Books.
	mux.HandleFunc("GET /api/v1/booklist/{pageNo}/{perPage}/{searchKeyword}", s.handleListBooks)
	mux.HandleFunc("GET /api/v1/book/{id}", s.handleGetBook)
	mux.HandleFunc("POST /api/v1/books", s.adminOnly(s.handleCreateBook))
	mux.HandleFunc("PUT /api/v1/books/{id}", s.adminOnly(s.handleUpdateBook))
	mux.HandleFunc("DELETE /api/v1/books/{id}", s.adminOnly(s.handleDeleteBook))
	mux.HandleFunc("GET /api/v1/searchbycategory/{name}", s.handleBooksByCategory)
	mux.HandleFunc("GET /api/v1/searchbypublication/{name}", s.handleBooksByPublication)
	mux.HandleFunc("GET /api/v1/searchbywriter/{name}/{pageNo}/{perPage}", s.handleBooksByWriter)
	mux.HandleFunc("GET /api/v1/searchbytitle/{title}", s.handleBooksByTitle)
	mux.HandleFunc("GET /api/v1/relatedbooks/{id}", s.handleRelatedBooks)
	mux.HandleFunc("POST /api/v1/filterbooks", s.handleFilterBooks)

	// Reference entities.
	mux.HandleFunc("GET /api/v1/categorylist/{pageNo}/{perPage}/{searchKeyword}", s.handleListCategories)
	mux.HandleFunc("GET /api/v1/category/{id}", s.handleGetCategory)
	mux.HandleFunc("POST /api/v1/categories", s.adminOnly(s.handleCreateCategory))
	mux.HandleFunc("PUT /api/v1/categories/{id}", s.adminOnly(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/v1/categories/{id}", s.adminOnly(s.handleDeleteCategory))
	mux.HandleFunc("GET /api/v1/publicationlist/{pageNo}/{perPage}/{searchKeyword}", s.handleListPublications)
	mux.HandleFunc("GET /api/v1/publication/{id}", s.handleGetPublication)
	mux.HandleFunc("POST /api/v1/publications", s.adminOnly(s.handleCreatePublication))
	mux.HandleFunc("PUT /api/v1/publications/{id}", s.adminOnly(s.handleUpdatePublication))
	mux.HandleFunc("DELETE /api/v1/publications/{id}", s.adminOnly(s.handleDeletePublication))
	mux.HandleFunc("GET /api/v1/writerlist/{pageNo}/{perPage}/{searchKeyword}", s.handleListWriters)
	mux.HandleFunc("GET /api/v1/writer/{id}", s.handleGetWriter)
	mux.HandleFunc("POST /api/v1/writers", s.adminOnly(s.handleCreateWriter))
	mux.HandleFunc("PUT /api/v1/writers/{id}", s.adminOnly(s.handleUpdateWriter))
	mux.HandleFunc("DELETE /api/v1/writers/{id}", s.adminOnly(s.handleDeleteWriter))

	// Orders and analytics.
	mux.HandleFunc("POST /api/v1/orders", s.authenticated(s.handleCreateOrder))
	mux.HandleFunc("GET /api/v1/order/{id}", s.authenticated(s.handleGetOrder))
	mux.HandleFunc("GET /api/v1/allorders", s.adminOnly(s.handleAllOrders))
	mux.HandleFunc("PUT /api/v1/orderstatus/{id}", s.adminOnly(s.handleUpdateOrderStatus))
	mux.HandleFunc("GET /api/v1/ordersbystatus/{status}/{page}/{pageSize}/{search}", s.adminOnly(s.handleOrdersByStatus))
	mux.HandleFunc("GET /api/v1/ordersWithstatus/{status}/{page}/{pageSize}/{search}", s.adminOnly(s.handleMergedOrdersByStatus))
	mux.HandleFunc("GET /api/v1/lastsevendaysordercount", s.adminOnly(s.handleOrdersPerWeekday))
	mux.HandleFunc("GET /api/v1/orderstateforcurrentday", s.adminOnly(s.handleStatusBreakdownToday))
	mux.HandleFunc("GET /api/v1/amountreceivedfortoday", s.adminOnly(s.handleRevenueToday))
	mux.HandleFunc("GET /api/v1/amountReceivedPerDay/{value}", s.adminOnly(s.handleRevenuePerDay))

	// Image upload.
	mux.HandleFunc("POST /api/v1/imageupload", s.authenticated(s.handleImageUpload))

	var handler http.Handler = mux
	handler = util.WithRequestLog(handler)
	handler = util.WithSecurityHeaders(handler)
	handler = util.WithCORS(handler)
	return handler
}

type ctxKey int

const userKey ctxKey = 1

func userFrom(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(userKey).(domain.User)
	return u, ok
}

// requestCtx bounds a request's store work.
func (s *Server) requestCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.requestTimeout)
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}

// authenticated requires a valid session token and stores the user in the
// request context.
func (s *Server) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.writeError(w, r, app.ErrInvalidCredentials)
			return
		}
		ctx, cancel := s.requestCtx(r)
		defer cancel()
		user, err := s.app.UserFromToken(ctx, token)
		if err != nil {
			s.logger.Warn("security_event",
				"event", "invalid_session_token",
				"ip", util.ClientIP(r),
				"path", r.URL.Path,
			)
			s.writeError(w, r, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	}
}

// adminOnly additionally requires role admin.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return s.authenticated(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFrom(r.Context())
		if !ok || user.Role != domain.RoleAdmin {
			s.logger.Warn("security_event",
				"event", "admin_route_denied",
				"userId", user.ID,
				"ip", util.ClientIP(r),
				"path", r.URL.Path,
			)
			s.writeError(w, r, app.ErrForbidden)
			return
		}
		next(w, r)
	})
}

// withAuthLimit throttles credential endpoints per client IP.
func (s *Server) withAuthLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.authLimiter != nil && !s.authLimiter.Allow(util.ClientIP(r)) {
			s.logger.Warn("security_event",
				"event", "rate_limited",
				"ip", util.ClientIP(r),
				"path", r.URL.Path,
			)
			s.writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"error": "too many requests, try again later",
			})
			return
		}
		next(w, r)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write response", "error", err)
	}
}

// writeError maps app sentinels onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, app.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, app.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, app.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, app.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, app.ErrConflict):
		status = http.StatusConflict
	default:
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "internal server error",
		})
		return
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return app.ErrValidation
	}
	return nil
}

// facetCount mirrors the listing envelope's Total element.
type facetCount struct {
	Count int64 `json:"count"`
}

type facetPage struct {
	Total []facetCount `json:"Total"`
	Rows  any          `json:"Rows"`
}

type facetEnvelope struct {
	Status string      `json:"status"`
	Data   []facetPage `json:"data"`
}

// writeFacet emits the paired count+rows listing shape.
func (s *Server) writeFacet(w http.ResponseWriter, rows any, total int64) {
	s.writeJSON(w, http.StatusOK, facetEnvelope{
		Status: "success",
		Data: []facetPage{{
			Total: []facetCount{{Count: total}},
			Rows:  rows,
		}},
	})
}
