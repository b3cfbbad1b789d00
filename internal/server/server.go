package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/smallbiznis/faktur/internal/config"
	"github.com/smallbiznis/faktur/internal/invoice"
	invoicedomain "github.com/smallbiznis/faktur/internal/invoice/domain"
	"github.com/smallbiznis/faktur/internal/observability"
	obsmiddleware "github.com/smallbiznis/faktur/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/faktur/internal/observability/metrics"
	obstracing "github.com/smallbiznis/faktur/internal/observability/tracing"
	"github.com/smallbiznis/faktur/internal/providers"
	"github.com/smallbiznis/faktur/internal/providers/pdf"
	"github.com/smallbiznis/faktur/internal/ratelimit"
)

const shutdownTimeout = 10 * time.Second

var Module = fx.Module("http.server",
	config.Module,
	invoice.Module,
	providers.Module,
	ratelimit.Module,
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

// NewEngine builds the gin engine with the shared middleware stack. Error
// rendering sits innermost so handler errors are translated before the
// access log and metrics observe the final status.
func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), cors.Default(), gzip.Gzip(gzip.DefaultCompression))
	r.Use(
		obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
			Debug:           obsCfg.Debug(),
			ErrorClassifier: classifyErrorForLog,
		}),
		obstracing.GinMiddleware(),
		obsmetrics.GinMiddleware(httpMetrics),
		ErrorHandlingMiddleware(),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				err := httpSrv.ListenAndServe()
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	invoiceSvc   invoicedomain.Service
	statements   pdf.Provider
	obsMetrics   *obsmetrics.Metrics
	writeLimiter *ratelimit.WriteLimiter
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	InvoiceSvc   invoicedomain.Service
	Statements   pdf.Provider
	ObsMetrics   *obsmetrics.Metrics     `optional:"true"`
	WriteLimiter *ratelimit.WriteLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		invoiceSvc:   p.InvoiceSvc,
		statements:   p.Statements,
		obsMetrics:   p.ObsMetrics,
		writeLimiter: p.WriteLimiter,
	}
	s.registerInvoiceRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerInvoiceRoutes() {
	invoices := s.engine.Group("/invoices")

	invoices.GET("", s.ListInvoices)
	invoices.GET("/overdue", s.ListOverdueInvoices)
	invoices.GET("/number/:invoiceNumber", s.GetInvoiceByNumber)
	invoices.GET("/status/:status", s.ListInvoicesByStatus)
	invoices.GET("/event/:eventId", s.ListInvoicesByEvent)
	invoices.GET("/user/:userId", s.ListInvoicesByUser)
	invoices.GET("/:id", s.GetInvoiceByID)
	invoices.GET("/:id/pdf", s.DownloadInvoiceStatement)

	invoices.POST("", s.WriteRateLimit(), s.CreateInvoice)
	invoices.PUT("/:id", s.WriteRateLimit(), s.UpdateInvoice)
	invoices.DELETE("/:id", s.WriteRateLimit(), s.DeleteInvoice)
}
