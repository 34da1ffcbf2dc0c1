package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/raywall/crud-pessoa/pessoa"
	"github.com/raywall/crud-pessoa/pkg/metrics"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	HeaderCorrelationID = "x-correlation-id"
	HeaderLatency       = "x-latency-ms"
)

type ctxKey string

// ContextKeyCorrID guarda o correlation id no contexto da requisição.
const ContextKeyCorrID ctxKey = "correlation_id"

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Nomes das rotas, usados como tag "op" nas métricas.
const (
	routeCreate  = "create"
	routeList    = "list"
	routeDelete  = "delete"
	routeHealth  = "health"
	routeMetrics = "metrics"
)

// Options configura o router HTTP.
type Options struct {
	Timeout        time.Duration
	Metrics        metrics.Provider
	MetricsRoute   string
	MetricsHandler http.Handler
}

// Server expõe o serviço de pessoas via HTTP.
type Server struct {
	svc     *pessoa.Service
	router  *mux.Router
	timeout time.Duration
	metrics metrics.Provider
}

// NewServer registra as rotas e devolve o servidor pronto para uso como http.Handler.
func NewServer(svc *pessoa.Service, opts Options) *Server {
	s := &Server{
		svc:     svc,
		router:  mux.NewRouter(),
		timeout: opts.Timeout,
		metrics: opts.Metrics,
	}
	if s.metrics == nil {
		s.metrics = metrics.NoopProvider{}
	}

	s.router.HandleFunc("/pessoas", s.handleCreate).Methods(http.MethodPost).Name(routeCreate)
	s.router.HandleFunc("/pessoas", s.handleList).Methods(http.MethodGet).Name(routeList)
	s.router.HandleFunc("/pessoas/{id}", s.handleDelete).Methods(http.MethodDelete).Name(routeDelete)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet).Name(routeHealth)
	if opts.MetricsHandler != nil && opts.MetricsRoute != "" {
		s.router.Handle(opts.MetricsRoute, opts.MetricsHandler).Methods(http.MethodGet).Name(routeMetrics)
	}

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "route not found"})
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.observe(s.router).ServeHTTP(w, r)
}

// StartHTTPServer serve o handler até o contexto ser cancelado e então faz o shutdown gracioso.
func StartHTTPServer(ctx context.Context, port int, handler http.Handler) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Msgf("Servidor HTTP ouvindo em %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Encerrando servidor HTTP")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

type pessoaRequest struct {
	Nome           string `json:"nome"`
	Sobrenome      string `json:"sobrenome"`
	CPF            string `json:"cpf"`
	DataNascimento string `json:"data_nascimento"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in pessoaRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return
	}

	p, err := s.svc.Create(r.Context(), in.Nome, in.Sobrenome, in.CPF, in.DataNascimento)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	pessoas, err := s.svc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pessoas)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "id deve ser um número inteiro"})
		return
	}

	if err := s.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeError traduz o Kind do erro de domínio em status HTTP.
// Falhas de persistência são logadas e a mensagem não vai para o cliente.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var perr *pessoa.Error
	if !errors.As(err, &perr) {
		log.Ctx(r.Context()).Error().Err(err).Msg("erro inesperado")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}

	switch perr.Kind {
	case pessoa.KindInvalidInput:
		writeJSON(w, http.StatusBadRequest, errorBody{Error: perr.Msg})
	case pessoa.KindNotFound:
		writeJSON(w, http.StatusNotFound, errorBody{Error: perr.Msg})
	default:
		log.Ctx(r.Context()).Error().Err(err).Str("kind", perr.Kind.String()).Msg("falha ao processar requisição")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// --- MIDDLEWARE DE OBSERVABILIDADE ---
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode  int
	startTime   time.Time
	wroteHeader bool
}

func (rw *responseWriterWrapper) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	duration := time.Since(rw.startTime)
	rw.Header().Set(HeaderLatency, strconv.FormatInt(duration.Milliseconds(), 10))
	rw.ResponseWriter.WriteHeader(code)
	rw.wroteHeader = true
}

func (rw *responseWriterWrapper) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		corrID := r.Header.Get(HeaderCorrelationID)
		if corrID == "" {
			corrID = uuid.NewString()
		}
		w.Header().Set(HeaderCorrelationID, corrID)

		logger := log.With().Str("correlation_id", corrID).Logger()
		ctx := logger.WithContext(r.Context())
		ctx = context.WithValue(ctx, ContextKeyCorrID, corrID)
		if s.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}

		wrapper := &responseWriterWrapper{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			startTime:      start,
		}

		next.ServeHTTP(wrapper, r.WithContext(ctx))

		latency := time.Since(start)
		op := s.routeName(r)
		tags := []string{"op:" + op, "status:" + strconv.Itoa(wrapper.statusCode)}
		if err := s.metrics.Count(metrics.RequestCount, 1, tags); err != nil {
			logger.Warn().Err(err).Msg("falha ao enviar métrica")
		}
		if err := s.metrics.Histogram(metrics.RequestLatency, float64(latency.Milliseconds()), tags); err != nil {
			logger.Warn().Err(err).Msg("falha ao enviar métrica")
		}

		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("op", op).
			Int("status", wrapper.statusCode).
			Int64("latency_ms", latency.Milliseconds()).
			Msg("request completed")
	})
}

func (s *Server) routeName(r *http.Request) string {
	var match mux.RouteMatch
	if s.router.Match(r, &match) && match.Route != nil {
		if name := match.Route.GetName(); name != "" {
			return name
		}
	}
	return "unknown"
}
