package routes

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/smart-door/smart_door/internal/config"
	"github.com/smart-door/smart_door/internal/doorbell"
	"github.com/smart-door/smart_door/internal/faces"
	"github.com/smart-door/smart_door/internal/frame"
	"github.com/smart-door/smart_door/internal/middleware"
	"github.com/smart-door/smart_door/internal/notification"
	"github.com/smart-door/smart_door/internal/passcode"
	"github.com/smart-door/smart_door/internal/storage"
	"github.com/smart-door/smart_door/internal/visitor"
)

// Deps aggregates shared dependencies required to wire routes. The AWS
// clients are optional; in development every missing collaborator falls back
// to an in-memory or logging substitute.
type Deps struct {
	Cfg         config.Config
	DB          *pgxpool.Pool
	Cache       *redis.Client
	S3          *s3.Client
	Rekognition *rekognition.Client
	SNS         *sns.Client
	Logger      *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce durable backends outside of dev, even though main also checks.
	if !isDev(d.Cfg.AppEnv) {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	// Collaborators, with dev fallbacks.
	var store storage.ObjectStore
	if d.S3 != nil {
		store = storage.NewS3Store(d.S3, d.Cfg.Bucket)
	} else {
		store = storage.NewMemoryStore(d.Cfg.Bucket)
	}

	var directory faces.Directory
	if d.Rekognition != nil {
		directory = faces.NewRekognitionDirectory(d.Rekognition, d.Cfg.Collection)
	} else {
		directory = faces.NewMemoryDirectory()
	}

	var notifier notification.Notifier
	if d.SNS != nil {
		notifier = notification.NewSNSNotifier(d.SNS)
	} else {
		notifier = notification.NewLoggerNotifier(d.Logger)
	}

	var extractor frame.Extractor
	if d.Cfg.SnapshotURL != "" {
		extractor = frame.NewSnapshotExtractor(d.Cfg.SnapshotURL)
	} else {
		extractor = frame.StaticExtractor{}
	}

	var visitorRepo visitor.Repository
	if d.DB != nil {
		visitorRepo = visitor.NewPostgresRepository(d.DB)
	} else {
		visitorRepo = visitor.NewMemoryRepository()
	}

	var passcodeStore passcode.Store
	if d.Cache != nil {
		passcodeStore = passcode.NewRedisStore(d.Cache)
	} else {
		passcodeStore = passcode.NewMemoryStore()
	}

	issuer := passcode.NewIssuer(passcodeStore, d.Cfg.PasscodeTTL)

	engine := doorbell.NewEngine(
		doorbell.Config{
			UnknownVisitorKey: d.Cfg.UnknownVisitorKey,
			OwnerPhoneNumber:  d.Cfg.OwnerPhoneNumber,
			OwnerReviewURL:    d.Cfg.OwnerReviewURL,
			VisitorVerifyURL:  d.Cfg.VisitorVerifyURL,
			PasscodeTTL:       d.Cfg.PasscodeTTL,
		},
		extractor,
		directory,
		store,
		visitor.NewService(visitorRepo),
		issuer,
		notifier,
		d.Logger,
	)

	captureHandler := doorbell.NewHandler(engine)
	passcodeHandler := passcode.NewHandler(issuer)

	// API routes
	api := app.Group("/api/v1")

	captures := api.Group("/captures",
		middleware.CaptureRateLimit(d.Cache, d.Cfg.CaptureRatePerMin),
		middleware.CaptureDedup(d.Cache, d.Cfg.DedupTTL, d.Logger),
	)
	captures.Post("/", captureHandler.Capture)

	api.Post("/passcodes/verify", passcodeHandler.Verify)

	return nil
}

func isDev(env string) bool {
	switch strings.ToLower(env) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}
