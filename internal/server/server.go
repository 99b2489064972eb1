package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	billingdomain "github.com/nhatrolabs/nhatro/internal/billing/domain"
	"github.com/nhatrolabs/nhatro/internal/config"
	roomdomain "github.com/nhatrolabs/nhatro/internal/room/domain"
	tenantdomain "github.com/nhatrolabs/nhatro/internal/tenant/domain"
)

var Module = fx.Module("server",
	fx.Provide(New),
	fx.Invoke(Run),
)

type Params struct {
	fx.In

	Cfg        config.Config
	Log        *zap.Logger
	RoomSvc    roomdomain.Service
	TenantSvc  tenantdomain.Service
	BillingSvc billingdomain.Service
}

type Server struct {
	cfg        config.Config
	log        *zap.Logger
	roomSvc    roomdomain.Service
	tenantSvc  tenantdomain.Service
	billingSvc billingdomain.Service
}

func New(p Params) *Server {
	return &Server{
		cfg:        p.Cfg,
		log:        p.Log.Named("server"),
		roomSvc:    p.RoomSvc,
		tenantSvc:  p.TenantSvc,
		billingSvc: p.BillingSvc,
	}
}

func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.RequestLogger())
	router.Use(RequestMetrics())

	router.GET("/healthz", s.Healthz)
	router.GET("/metrics", MetricsHandler())

	v1 := router.Group("/v1")
	{
		v1.GET("/rooms", s.ListRooms)
		v1.POST("/rooms", s.CreateRoom)
		v1.GET("/rooms/:id", s.GetRoomByID)
		v1.PATCH("/rooms/:id", s.UpdateRoom)
		v1.DELETE("/rooms/:id", s.DeleteRoom)
		v1.POST("/rooms/:id/balance-adjustments", s.AdjustRoomBalance)

		v1.GET("/tenants", s.ListTenants)
		v1.POST("/tenants", s.CreateTenant)
		v1.GET("/tenants/:id", s.GetTenantByID)
		v1.PATCH("/tenants/:id", s.UpdateTenant)
		v1.DELETE("/tenants/:id", s.DeleteTenant)
		v1.POST("/tenants/:id/transfer", s.TransferTenant)

		v1.GET("/billing-records", s.ListBillingRecords)
		v1.POST("/billing-records", s.CreateBillingRecord)
		v1.GET("/billing-records/:id", s.GetBillingRecordByID)
		v1.PATCH("/billing-records/:id", s.UpdateBillingRecord)
		v1.DELETE("/billing-records/:id", s.DeleteBillingRecord)
		v1.POST("/billing-records/:id/payments", s.AppendPayment)
		v1.PUT("/billing-records/:id/ledger", s.ReplaceLedger)
		v1.POST("/billing-records/:id/recompute", s.RecomputeBillingRecord)
		v1.POST("/billing-records/:id/settle", s.SettleBillingRecord)
	}

	return router
}

func Run(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:         s.cfg.HTTP.Addr,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.HTTP.ReadTimeout,
		WriteTimeout: s.cfg.HTTP.WriteTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.log.Info("http server starting", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
