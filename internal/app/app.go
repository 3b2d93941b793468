package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/mentecalma/server/internal/config"
	"github.com/mentecalma/server/internal/db"
	"github.com/mentecalma/server/internal/gemini"
	"github.com/mentecalma/server/internal/progression"
	"github.com/mentecalma/server/internal/repository"
	"github.com/mentecalma/server/internal/service"
	"github.com/mentecalma/server/internal/service/payment"
	"github.com/mentecalma/server/internal/storage"
)

type App struct {
	Cfg                 *config.Config
	DB                  *sqlx.DB
	AuthService         *service.AuthService
	UserService         *service.UserService
	ProfileService      *service.ProfileService
	EmailService        *service.EmailService
	SubscriptionService *service.SubscriptionService
	PaymentService      payment.Provider
	GamificationService *service.GamificationService
	GuideService        *service.GuideService
	HabitService        *service.HabitService
	JournalService      *service.JournalService
	ChatService         *service.ChatService
	CommunityService    *service.CommunityService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	subscriptionRepository := repository.NewSubscriptionRepository(database)
	habitRepository := repository.NewHabitRepository(database)
	journalRepository := repository.NewJournalRepository(database)
	progressRepository := repository.NewProgressRepository(database)
	chatRepository := repository.NewChatRepository(database)
	guideRepository := repository.NewGuideRepository(database)

	// Storage
	guideStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	clock := progression.SystemClock()

	// The catalog size anchors the drip clamp; load it before the engine.
	catalog, err := service.LoadCatalog(cfg.ContentPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load guide catalog: %v", err)
	}
	totalUnlockable := 0
	for i := range catalog {
		if catalog[i].InDrip() {
			totalUnlockable++
		}
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	subscriptionService := service.NewSubscriptionService(subscriptionRepository)
	gamificationService := service.NewGamificationService(
		progressRepository,
		habitRepository,
		profileRepository,
		clock,
		totalUnlockable,
	)

	// Initialize payment provider based on config
	paymentProvider, err := payment.NewProvider(cfg, subscriptionService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize payment provider: %v", err)
	}

	authService := service.NewAuthService(
		userRepository,
		profileRepository,
		tokenRepository,
		subscriptionService,
		gamificationService,
		emailService,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.JWTExpiry,
		cfg.TokenEmailChangeExpiry,
		cfg.TokenMagicLinkExpiry,
	)
	userService := service.NewUserService(userRepository, profileRepository, emailService, subscriptionService)
	profileService := service.NewProfileService(profileRepository, guideStorage)
	guideService, err := service.NewGuideService(cfg.ContentPath, guideRepository, gamificationService, subscriptionService, guideStorage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize guide service: %v", err)
	}
	habitService := service.NewHabitService(gamificationService, clock)
	journalService := service.NewJournalService(journalRepository, gamificationService, clock)

	var responder gemini.Responder
	if cfg.GeminiAPIKey != "" {
		responder, err = gemini.New(cfg.GeminiAPIKey, cfg.GeminiChatModel, cfg.GeminiTipModel)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize gemini client: %v", err)
		}
	} else {
		responder = gemini.DevResponder{}
	}
	chatService := service.NewChatService(chatRepository, responder, gamificationService, subscriptionService, clock)
	communityService := service.NewCommunityService(cfg.ContentPath)

	return &App{
		Cfg:                 cfg,
		DB:                  database,
		AuthService:         authService,
		UserService:         userService,
		ProfileService:      profileService,
		EmailService:        emailService,
		SubscriptionService: subscriptionService,
		PaymentService:      paymentProvider,
		GamificationService: gamificationService,
		GuideService:        guideService,
		HabitService:        habitService,
		JournalService:      journalService,
		ChatService:         chatService,
		CommunityService:    communityService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
