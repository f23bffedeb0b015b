package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/project-votes/internal/config"
	"github.com/emilythestrangee/project-votes/internal/handlers"
	"github.com/emilythestrangee/project-votes/internal/metrics"
	"github.com/emilythestrangee/project-votes/internal/middleware"
)

type Server struct {
	handler *handlers.Handler
	metrics *metrics.Metrics
}

func New(svc handlers.VotingService, health handlers.HealthChecker, m *metrics.Metrics) *Server {
	return &Server{
		handler: handlers.NewHandler(svc, health),
		metrics: m,
	}
}

// HTTPServer wraps the routes in an http.Server configured from cfg
func (s *Server) HTTPServer(cfg config.Config) *http.Server {
	gin.SetMode(cfg.GinMode)

	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.RegisterRoutes(),
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging())
	r.Use(middleware.CORS())
	if s.metrics != nil {
		r.Use(middleware.Metrics(s.metrics))
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	r.GET("/health", s.handler.Health.Health)

	// Project tallies
	r.GET("/projects/votes-summary/", s.handler.Project.GetVotesSummary)

	// Vouchers
	r.GET("/voucher/:code", s.handler.Voucher.GetVoucher)
	r.POST("/voucher/vote/:code", s.handler.Voucher.EchoVote)

	// Redemption
	r.POST("/vote/", s.handler.Voucher.Vote)

	return r
}
