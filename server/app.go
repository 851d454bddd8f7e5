package server

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vlanman/config"
	"vlanman/internal/activity"
	"vlanman/internal/db"
	"vlanman/internal/device"
	"vlanman/internal/health"
	"vlanman/internal/logs"
	"vlanman/internal/middleware"
	"vlanman/internal/users"
	"vlanman/internal/vlan"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type App struct {
	cfg        *config.Config
	Router     *mux.Router
	httpServer *http.Server

	db      *gorm.DB
	vlanSvc *vlan.Service
	userRep *users.Repo
	ctx     context.Context
	cancel  context.CancelFunc
}

func (a *App) Initialize(cfg *config.Config) {
	a.cfg = cfg

	// 1) Logging
	logs.Init(logs.Options{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		File:   a.cfg.Logging.File,
	})

	// 2) Database + migrations
	d, err := db.Open(a.cfg.Database.Driver, a.cfg.Database.DSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	a.db = d
	if err := db.Migrate(a.db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	// 3) Router + middleware
	a.Router = mux.NewRouter()
	a.Router.Use(middleware.RequestID)
	a.Router.Use(middleware.Recoverer)
	a.Router.Use(middleware.LoggerMW)

	a.RegisterWebUI("/ui/")
	health.RegisterRoutesWithDB(a.Router, a.db)

	// 4) Device manager
	mgr := device.NewManager(device.Config{
		Platform: a.cfg.Device.Platform,
		Host:     a.cfg.Device.Host,
		Username: a.cfg.Device.Username,
		Password: a.cfg.Device.Password,
		Port:     a.cfg.Device.Port,
		Timeout:  a.cfg.Device.Timeout,
	})

	// 5) Repos, services, HTTP
	recorder := activity.NewRecorder(a.db)
	a.userRep = users.NewRepo(a.db)
	a.vlanSvc = vlan.NewService(vlan.NewRepo(a.db), recorder, mgr, vlan.Options{
		DefaultExpiryHours: a.cfg.Vlan.DefaultExpiryHours,
	})

	userHTTP := users.NewHTTP(a.userRep, recorder, a.cfg.Session.TTL)
	userHTTP.RegisterRoutes(a.Router)

	vlan.NewHTTP(a.vlanSvc, userHTTP).RegisterRoutes(a.Router)
	device.NewHTTP(mgr).RegisterRoutes(a.Router)
	activity.NewHTTP(recorder).RegisterRoutes(a.Router)

	a.Router.Walk(func(rt *mux.Route, r *mux.Router, ancestors []*mux.Route) error {
		path, _ := rt.GetPathTemplate()
		methods, _ := rt.GetMethods()
		log.Printf("route: %-6v %s", methods, path)
		return nil
	})
}

func (a *App) Run() error {
	if a.Router == nil || a.cfg == nil {
		return ErrNotInitialized
	}
	bind := net.JoinHostPort(a.cfg.Server.Address, a.cfg.Server.HTTPPort)

	a.ctx, a.cancel = context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() { <-sigs; a.cancel() }()

	a.startSweeps()

	a.httpServer = &http.Server{
		Addr:         bind,
		Handler:      a.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // device round trips can be slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("HTTP listening on %s", bind)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-a.ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = a.httpServer.Shutdown(ctx)
	return nil
}

// startSweeps runs the VLAN expiry sweep and the session cleanup on
// their configured intervals until shutdown.
func (a *App) startSweeps() {
	go func() {
		t := time.NewTicker(a.cfg.Vlan.SweepInterval)
		defer t.Stop()
		for {
			select {
			case <-a.ctx.Done():
				return
			case <-t.C:
				if n, err := a.vlanSvc.ExpirySweep(); err != nil {
					logs.Logger.Errorf("expiry sweep: %v", err)
				} else if n > 0 {
					logs.Logger.Infof("expiry sweep: %d VLANs marked expired", n)
				}
			}
		}
	}()

	go func() {
		t := time.NewTicker(a.cfg.Session.CleanupInterval)
		defer t.Stop()
		for {
			select {
			case <-a.ctx.Done():
				return
			case <-t.C:
				if n, err := a.userRep.CleanupExpiredSessions(time.Now().UTC()); err != nil {
					logs.Logger.Errorf("session cleanup: %v", err)
				} else if n > 0 {
					logs.Logger.Infof("session cleanup: removed %d expired sessions", n)
				}
			}
		}
	}()
}

var ErrNotInitialized = &initError{"server not initialized (call Initialize(cfg) first)"}

type initError struct{ s string }

func (e *initError) Error() string { return e.s }
