// @title           ClubHub API
// @version         1.0
// @description     Club membership and event registration with gateway-confirmed payments.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"clubhub/config"
	_ "clubhub/docs"
	"clubhub/internal/adapters/auth"
	"clubhub/internal/adapters/email"
	"clubhub/internal/adapters/events"
	"clubhub/internal/adapters/payment"
	httpdelivery "clubhub/internal/delivery/http"
	"clubhub/internal/delivery/http/controllers"
	"clubhub/internal/domain"
	"clubhub/internal/obs"
	"clubhub/internal/repository/postgres"
	"clubhub/internal/services"
)

const (
	bcryptCost      = 12
	shutdownTimeout = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)
	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer("clubhub", cfg.OTLPEndpoint, cfg.Environment)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Warn("tracer shutdown", "err", err)
		}
	}()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		return err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}
	logger.Info("database ready")

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	clubRepo := postgres.NewClubRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	membershipRepo := postgres.NewMembershipRepository(db)
	registrationRepo := postgres.NewEventRegistrationRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	managerRequestRepo := postgres.NewManagerRequestRepository(db)

	// Adapters
	gateway, err := payment.NewGateway(payment.Config{
		Provider:           cfg.PaymentProvider,
		StripeSecretKey:    cfg.StripeSecretKey,
		MidtransServerKey:  cfg.MidtransServerKey,
		MidtransProduction: cfg.MidtransProduction,
	}, logger)
	if err != nil {
		return err
	}
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.MailProvider,
		FromAddress: cfg.MailFromAddress,
		FromName:    cfg.MailFromName,
		SES: email.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		},
	}, logger)
	if err != nil {
		return err
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return err
	}
	var publisher domain.EventPublisher = events.LogPublisher{Logger: logger}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return err
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	}
	tokens := auth.NewJWT(cfg.JWTSecret)

	// Services
	emailService := services.NewEmailService(mailer, renderer, logger)
	authService := services.NewAuthService(userRepo, auth.NewBcryptHasher(bcryptCost), tokens, cfg.JWTExpiry)
	clubService := services.NewClubService(clubRepo, membershipRepo)
	eventService := services.NewEventService(eventRepo, clubRepo)
	memberService := services.NewMemberService(clubRepo, eventRepo, membershipRepo, registrationRepo, paymentRepo)
	joinService := services.NewJoinService(services.JoinDependencies{
		Clubs:         clubRepo,
		Events:        eventRepo,
		Memberships:   membershipRepo,
		Registrations: registrationRepo,
		Payments:      paymentRepo,
		Attempts:      postgres.NewPaymentAttemptRepository(db),
		Ledger:        postgres.NewLedger(db),
		Gateway:       gateway,
		Publisher:     publisher,
		Email:         emailService,
	}, services.JoinConfig{
		Currency:         cfg.PaymentCurrency,
		MembershipPeriod: cfg.MembershipPeriod,
		SuccessURL:       cfg.CheckoutSuccessURL,
		CancelURL:        cfg.CheckoutCancelURL,
		CheckoutHold:     cfg.CheckoutHold,
	}, logger)
	managerRequestService := services.NewManagerRequestService(managerRequestRepo, userRepo, publisher, emailService, logger)
	adminService := services.NewAdminService(services.AdminRepositories{
		Users:         userRepo,
		Clubs:         clubRepo,
		Events:        eventRepo,
		Memberships:   membershipRepo,
		Registrations: registrationRepo,
		Payments:      paymentRepo,
	}, joinService, logger)

	if err := services.BootstrapAdmin(ctx, userRepo, cfg.BootstrapAdmin, logger); err != nil {
		return err
	}

	router := httpdelivery.NewRouter(httpdelivery.Controllers{
		Auth: controllers.NewAuthController(logger, authService, controllers.CookieConfig{
			Name:   cfg.AuthCookieName,
			Secure: cfg.IsProduction(),
			MaxAge: cfg.JWTExpiry,
		}),
		Clubs:          controllers.NewClubController(logger, clubService),
		Events:         controllers.NewEventController(logger, eventService),
		Join:           controllers.NewJoinController(logger, joinService),
		Me:             controllers.NewMeController(logger, memberService),
		ManagerRequest: controllers.NewManagerRequestController(logger, managerRequestService),
		Admin:          controllers.NewAdminController(logger, adminService, clubService),
	}, httpdelivery.RouterConfig{
		Verifier:       tokens,
		CookieName:     cfg.AuthCookieName,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment, "payment_provider", cfg.PaymentProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
