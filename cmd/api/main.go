package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/senani-kuruwita/attendance-backend/internal/config"
	appHTTP "github.com/senani-kuruwita/attendance-backend/internal/handler/http"
	"github.com/senani-kuruwita/attendance-backend/internal/pkg/cron"
	"github.com/senani-kuruwita/attendance-backend/internal/pkg/database"
	"github.com/senani-kuruwita/attendance-backend/internal/pkg/geo"
	"github.com/senani-kuruwita/attendance-backend/internal/pkg/jwt"
	"github.com/senani-kuruwita/attendance-backend/internal/pkg/notifier"
	"github.com/senani-kuruwita/attendance-backend/internal/pkg/qrcode"
	"github.com/senani-kuruwita/attendance-backend/internal/repository/kvstore"
	"github.com/senani-kuruwita/attendance-backend/internal/repository/postgresql"
	attendanceService "github.com/senani-kuruwita/attendance-backend/internal/service/attendance"
	serviceAuth "github.com/senani-kuruwita/attendance-backend/internal/service/auth"
	employeeService "github.com/senani-kuruwita/attendance-backend/internal/service/employee"
	notificationService "github.com/senani-kuruwita/attendance-backend/internal/service/notification"
	payrollService "github.com/senani-kuruwita/attendance-backend/internal/service/payroll"
	reportService "github.com/senani-kuruwita/attendance-backend/internal/service/report"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	genQRSecret := flag.Bool("gen-qr-secret", false, "print a fresh QR_SECRET and exit")
	flag.Parse()

	if *genQRSecret {
		shop := os.Getenv("SHOP_NAME")
		if shop == "" {
			shop = "SENANI KURUWITA"
		}
		secret, err := qrcode.GenerateSecret(shop)
		if err != nil {
			slog.Error("Failed to generate QR secret", "error", err)
			os.Exit(1)
		}
		fmt.Println(secret)
		return
	}

	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := appHTTP.NewLogger("shop-attendance", cfg.App.Version, cfg.App.Env, level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Snapshot store
	var store kvstore.Store
	switch cfg.Store.Type {
	case config.StoreTypeMemory:
		slog.Warn("Using in-memory store, data is lost on restart")
		store = kvstore.NewMemory()
	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return fmt.Errorf("error connecting to database: %w", err)
		}
		defer db.Close()

		store, err = postgresql.NewKVStore(ctx, db)
		if err != nil {
			return err
		}
	}

	// Notifications
	sink, err := notifier.New(notifier.Config{
		Type:           cfg.Notifier.Type,
		TelegramToken:  cfg.Notifier.TelegramToken,
		TelegramChatID: cfg.Notifier.TelegramChatID,
		SlackToken:     cfg.Notifier.SlackToken,
		SlackChannel:   cfg.Notifier.SlackChannel,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize notifier: %w", err)
	}
	notifSvc := notificationService.NewNotificationService(sink, notificationService.Config{
		Recipient:   cfg.Notifier.Recipient,
		QueueSize:   cfg.Notifier.QueueSize,
		SendTimeout: cfg.Notifier.SendTimeout,
	})

	// Entrance QR codes are optional
	var qr *qrcode.Generator
	var codes attendanceService.CodeValidator
	var qrSource appHTTP.QRSource
	if cfg.QR.Secret != "" {
		qr, err = qrcode.New(cfg.QR.Secret, cfg.QR.Period, cfg.Shop.Name)
		if err != nil {
			return fmt.Errorf("failed to initialize QR codes: %w", err)
		}
		codes, qrSource = qr, qr
	}

	employeeSvc, err := employeeService.NewEmployeeService(ctx, kvstore.NewEmployeeRepository(store), employeeService.Options{
		AdminPassword: cfg.Bootstrap.AdminPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}

	attendanceSvc, err := attendanceService.NewAttendanceService(ctx,
		kvstore.NewAttendanceRepository(store),
		employeeSvc,
		payrollService.NewCalculator(cfg.Rules),
		notifSvc,
		codes,
		attendanceService.Config{
			ShopName:          cfg.Shop.Name,
			ShopCenter:        geo.Point{Latitude: cfg.Shop.Latitude, Longitude: cfg.Shop.Longitude},
			Location:          cfg.Shop.Location,
			Policy:            cfg.Ledger.BusinessDayPolicy,
			GeoTimeout:        cfg.Geo.Timeout,
			MaxAccuracyMeters: cfg.Geo.MaxAccuracyMeters,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to load attendance ledger: %w", err)
	}

	reportSvc := reportService.NewReportService(attendanceSvc, employeeSvc, notifSvc, reportService.Config{
		ShopName: cfg.Shop.Name,
		Location: cfg.Shop.Location,
	})

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	authSvc := serviceAuth.NewAuthService(employeeSvc, JWTService)

	// Scheduled jobs
	scheduler := cron.NewScheduler()
	cron.NewSummaryJobs(reportSvc, notifSvc, cfg.Rules, cfg.Shop.Name, cfg.Shop.Location).RegisterJobs(scheduler, cfg.Scheduler.SummaryInterval)
	cron.NewTokenJobs(JWTService).RegisterJobs(scheduler)

	router := appHTTP.NewRouter(logger, cfg.App.AllowedOrigins, JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc, reportSvc, qrSource),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Report:     appHTTP.NewReportHandler(reportSvc, cfg.Shop.Location),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Server running", "addr", server.Addr, "shop", cfg.Shop.Name, "store", cfg.Store.Type, "notifier", sink.Name())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	scheduler.Start(gCtx)

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// HTTP first so no new writes arrive, then jobs, then pending notifications, then snapshots
		errs := []error{server.Shutdown(shutdownCtx)}
		errs = append(errs, scheduler.Stop(shutdownCtx))
		errs = append(errs, notifSvc.Stop(shutdownCtx))
		errs = append(errs, attendanceSvc.Close(shutdownCtx))
		errs = append(errs, employeeSvc.Close(shutdownCtx))
		return errors.Join(errs...)
	})

	return g.Wait()
}
