package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/agridirect/marketplace/internal/attestation"
	"github.com/agridirect/marketplace/internal/auth"
	authdomain "github.com/agridirect/marketplace/internal/auth/domain"
	"github.com/agridirect/marketplace/internal/certificate"
	"github.com/agridirect/marketplace/internal/clock"
	"github.com/agridirect/marketplace/internal/config"
	"github.com/agridirect/marketplace/internal/consumer"
	consumerdomain "github.com/agridirect/marketplace/internal/consumer/domain"
	"github.com/agridirect/marketplace/internal/events"
	"github.com/agridirect/marketplace/internal/farmer"
	farmerdomain "github.com/agridirect/marketplace/internal/farmer/domain"
	"github.com/agridirect/marketplace/internal/observability"
	obsmiddleware "github.com/agridirect/marketplace/internal/observability/logger"
	obsmetrics "github.com/agridirect/marketplace/internal/observability/metrics"
	obstracing "github.com/agridirect/marketplace/internal/observability/tracing"
	"github.com/agridirect/marketplace/internal/order"
	orderdomain "github.com/agridirect/marketplace/internal/order/domain"
	"github.com/agridirect/marketplace/internal/product"
	productdomain "github.com/agridirect/marketplace/internal/product/domain"
	"github.com/agridirect/marketplace/internal/providers"
	"github.com/agridirect/marketplace/internal/ratelimit"
	"github.com/agridirect/marketplace/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	storage.Module,
	events.Module,
	ratelimit.Module,
	providers.Module,
	farmer.Module,
	consumer.Module,
	auth.Module,
	product.Module,
	attestation.Module,
	certificate.Module,
	order.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	log          *zap.Logger
	clock        clock.Clock
	store        storage.Store
	authsvc      authdomain.Service
	farmerSvc    farmerdomain.Service
	consumerSvc  consumerdomain.Service
	productSvc   productdomain.Service
	orderSvc     orderdomain.Service
	attestations *attestation.Issuer
	certificates *certificate.Service
	limiter      ratelimit.Bucket
	limits       *config.RateLimitPolicyHolder
	obsMetrics   *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Log          *zap.Logger
	Clock        clock.Clock
	Store        storage.Store
	Authsvc      authdomain.Service
	FarmerSvc    farmerdomain.Service
	ConsumerSvc  consumerdomain.Service
	ProductSvc   productdomain.Service
	OrderSvc     orderdomain.Service
	Attestations *attestation.Issuer
	Certificates *certificate.Service
	Limiter      ratelimit.Bucket              `optional:"true"`
	Limits       *config.RateLimitPolicyHolder `optional:"true"`
	ObsMetrics   *obsmetrics.Metrics           `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	limits := p.Limits
	if limits == nil {
		limits = config.NewStaticRateLimitPolicyHolder(config.DefaultRateLimitPolicy())
	}

	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		log:          p.Log.Named("http"),
		clock:        p.Clock,
		store:        p.Store,
		authsvc:      p.Authsvc,
		farmerSvc:    p.FarmerSvc,
		consumerSvc:  p.ConsumerSvc,
		productSvc:   p.ProductSvc,
		orderSvc:     p.OrderSvc,
		attestations: p.Attestations,
		certificates: p.Certificates,
		limiter:      p.Limiter,
		limits:       limits,
		obsMetrics:   p.ObsMetrics,
	}
	svc.registerFarmerRoutes()
	svc.registerAdminRoutes()
	svc.registerConsumerRoutes()
	svc.registerProductRoutes()
	svc.registerOrderRoutes()
	svc.registerUploads()
	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) rateLimit(endpoint string, pick func(config.RateLimitPolicy) config.RouteLimit) gin.HandlerFunc {
	return ratelimit.Middleware(s.limiter, endpoint, func() config.RouteLimit {
		return pick(s.limits.Get())
	}, s.obsMetrics, s.log)
}

func loginLimit(p config.RateLimitPolicy) config.RouteLimit       { return p.Login }
func certificateLimit(p config.RateLimitPolicy) config.RouteLimit { return p.Certificate }
func qrCodeLimit(p config.RateLimitPolicy) config.RouteLimit      { return p.QRCode }

func (s *Server) registerFarmerRoutes() {
	farmer := s.engine.Group("/farmer")
	farmer.POST("/register", s.RegisterFarmer)
	farmer.POST("/login", s.rateLimit("farmer_login", loginLimit), s.LoginFarmer)

	farmer.POST("/addProduct/:farmerId", s.AddProduct)
	farmer.GET("/getProducts/:farmerId", s.ListFarmerProducts)
	farmer.PUT("/updateProduct/:id", s.UpdateProduct)
	farmer.DELETE("/deleteProduct/:id", s.DeleteProduct)

	farmer.GET("/orders/:farmerId", s.ListFarmerOrders)
	farmer.GET("/orders/:farmerId/export.xlsx", s.ExportFarmerOrders)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")
	admin.GET("/farmers", s.ListFarmers)
	admin.POST("/farmer/:id/verify", s.VerifyFarmer)
}

func (s *Server) registerConsumerRoutes() {
	consumer := s.engine.Group("/consumer")
	consumer.POST("/register", s.RegisterConsumer)
	consumer.POST("/login", s.rateLimit("consumer_login", loginLimit), s.LoginConsumer)
	consumer.POST("/check-email", s.CheckConsumerEmail)
}

func (s *Server) registerProductRoutes() {
	s.engine.GET("/products", s.ListProducts)

	product := s.engine.Group("/product/:id")
	product.GET("/view", s.rateLimit("certificate", certificateLimit), s.ViewCertificate)
	product.GET("/certificate.pdf", s.rateLimit("certificate", certificateLimit), s.DownloadCertificate)
	product.GET("/qr", s.rateLimit("qrcode", qrCodeLimit), s.GetAttestationImage)
	product.POST("/attestation", s.ReissueAttestation)
}

func (s *Server) registerOrderRoutes() {
	s.engine.POST("/orders", s.PlaceOrder)
	s.engine.GET("/orders", s.ListConsumerOrders)
}

// registerUploads exposes the local file store. Remote backends return
// absolute URLs and need no route.
func (s *Server) registerUploads() {
	local, ok := s.store.(*storage.LocalStore)
	if !ok {
		return
	}
	publicPath := s.cfg.Storage.PublicPath
	if publicPath == "" {
		publicPath = "/uploads"
	}
	s.engine.Static(publicPath, local.Dir())
}
