package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fwojciec/fmkit"
	"github.com/fwojciec/fmkit/directory"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ShutdownTimeout is how long Serve waits for in-flight requests on exit.
const ShutdownTimeout = 5 * time.Second

// Server serves the nations directory as a JSON API.
type Server struct {
	session  *directory.Session
	settings fmkit.SettingsService
	faces    fmkit.FaceCounter
	logger   *slog.Logger
	router   chi.Router
}

// NewServer creates a Server and registers its routes.
func NewServer(session *directory.Session, settings fmkit.SettingsService, faces fmkit.FaceCounter, logger *slog.Logger) *Server {
	s := &Server{
		session:  session,
		settings: settings,
		faces:    faces,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.CleanPath)
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Get("/nations", s.handleNations)
		r.Post("/nations/refresh", s.handleRefresh)
		r.Get("/status", s.handleStatus)
		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handlePutSettings)
		r.Get("/faces", s.handleFaces)
	})
	s.router = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// NationsResponse is the body of GET /api/nations.
type NationsResponse struct {
	fmkit.View
	Start   int              `json:"start"`
	End     int              `json:"end"`
	Summary string           `json:"summary"`
	Query   fmkit.QueryState `json:"query"`
	Status  directory.Status `json:"status"`
}

func (s *Server) handleNations(w http.ResponseWriter, r *http.Request) {
	q, err := parseQueryState(r.URL.Query())
	if err != nil {
		s.error(w, r, err)
		return
	}

	v := directory.Query(s.session.Nations(), q)
	s.json(w, http.StatusOK, NationsResponse{
		View:    v,
		Start:   v.Start(),
		End:     v.End(),
		Summary: v.Summary(),
		Query:   q,
		Status:  s.session.Status(),
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Refresh(r.Context()); err != nil {
		s.error(w, r, err)
		return
	}
	s.json(w, http.StatusOK, s.session.Status())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.json(w, http.StatusOK, s.session.Status())
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settings.FindSettings(r.Context())
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.json(w, http.StatusOK, settings)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var settings fmkit.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		s.error(w, r, fmkit.Errorf(fmkit.EINVALID, "invalid JSON body"))
		return
	}
	if err := s.settings.SaveSettings(r.Context(), &settings); err != nil {
		s.error(w, r, err)
		return
	}
	s.json(w, http.StatusOK, &settings)
}

func (s *Server) handleFaces(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settings.FindSettings(r.Context())
	if err != nil {
		s.error(w, r, err)
		return
	}
	counts, err := s.faces.CountFaces(r.Context(), settings.NormalPath, settings.IconPath)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.json(w, http.StatusOK, counts)
}

// parseQueryState builds a QueryState from URL parameters. Missing
// parameters keep their defaults.
func parseQueryState(v url.Values) (fmkit.QueryState, error) {
	q := fmkit.NewQueryState()
	q.Search = v.Get("q")

	category, err := fmkit.ParseCategoryFilter(v.Get("category"))
	if err != nil {
		return q, err
	}
	q.Category = category

	sort, err := fmkit.ParseSort(v.Get("sort"), v.Get("order"))
	if err != nil {
		return q, err
	}
	q.Sort = sort

	if s := v.Get("page"); s != "" {
		if q.Page, err = strconv.Atoi(s); err != nil {
			return q, fmkit.Errorf(fmkit.EINVALID, "page must be a number")
		}
	}
	if s := v.Get("size"); s != "" {
		if q.PageSize, err = strconv.Atoi(s); err != nil {
			return q, fmkit.Errorf(fmkit.EINVALID, "size must be a number")
		}
	}

	return q, q.Validate()
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	fmkit.EINVALID:     http.StatusBadRequest,
	fmkit.ENOTFOUND:    http.StatusNotFound,
	fmkit.EUNAVAILABLE: http.StatusBadGateway,
	fmkit.EINTERNAL:    http.StatusInternalServerError,
}

func (s *Server) error(w http.ResponseWriter, r *http.Request, err error) {
	code := fmkit.ErrorCode(err)
	status, ok := codes[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	s.json(w, status, ErrorResponse{Error: fmkit.ErrorMessage(err), Code: code})
}

func (s *Server) json(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		begin := time.Now()
		defer func() {
			s.logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(begin),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
