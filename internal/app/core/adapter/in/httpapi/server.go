package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/JoeShih716/go-audit-ledger/internal/app/core/domain"
)

// SnapshotSource 提供帳本的唯讀狀態 (usecase.CoreUseCase 實作)
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
}

// Server 唯讀的 HTTP 查詢介面
type Server struct {
	router *mux.Router
	server *http.Server
	logger *slog.Logger
	addr   string
}

// NewServer 建立路由
//
// 路由:
//
//	GET /health
//	GET /summary
//	GET /customers
//	GET /customers/{id}
func NewServer(source SnapshotSource, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	h := &handler{source: source}

	router := mux.NewRouter()
	router.Use(loggingMiddleware(logger))
	router.HandleFunc("/health", h.health).Methods(http.MethodGet)
	router.HandleFunc("/summary", h.summary).Methods(http.MethodGet)
	router.HandleFunc("/customers", h.listCustomers).Methods(http.MethodGet)
	router.HandleFunc("/customers/{id}", h.getCustomer).Methods(http.MethodGet)
	router.HandleFunc("/customers/{id}/accounts/{slot}", h.getAccount).Methods(http.MethodGet)

	return &Server{
		router: router,
		logger: logger,
	}
}

// Start 在背景開始服務，回傳實際監聽的位址 (addr 可用 ":0")
func (s *Server) Start(addr string) (string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", err
	}
	s.addr = listener.Addr().String()

	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting http server", "addr", s.addr)
	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server failed", "error", err)
		}
	}()
	return s.addr, nil
}

// Stop graceful shutdown
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// Router 供測試使用
func (s *Server) Router() *mux.Router {
	return s.router
}

// loggingMiddleware 記錄每個請求
func loggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(ww, r)

			logger.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.statusCode,
				"duration", time.Since(start),
			)
		})
	}
}

// responseWriter 記錄回應的 status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
