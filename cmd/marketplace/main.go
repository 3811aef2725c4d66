package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	marketplace "github.com/goliatone/go-marketplace"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// envConfig reads the process environment once at startup and satisfies
// marketplace.Config.
type envConfig struct {
	signingKey      string
	tokenExpiration int
	addr            string
	dsn             string
	uploadDir       string
	debug           bool
}

func loadConfig() envConfig {
	return envConfig{
		signingKey:      getenv("MKT_SIGNING_KEY", "dev-signing-key"),
		tokenExpiration: 24,
		addr:            getenv("MKT_HTTP_ADDR", ":3000"),
		dsn:             getenv("MKT_DSN", "file:marketplace.db?cache=shared"),
		uploadDir:       getenv("MKT_UPLOAD_DIR", "./uploads/certificates"),
		debug:           os.Getenv("MKT_DEBUG") != "",
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (c envConfig) GetSigningKey() string   { return c.signingKey }
func (c envConfig) GetTokenExpiration() int { return c.tokenExpiration }
func (c envConfig) GetContextKey() string   { return marketplace.DefaultContextKey }
func (c envConfig) GetIssuer() string       { return "marketplace" }
func (c envConfig) GetAudience() []string   { return []string{} }

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.dsn)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	if err := marketplace.RunMigrations(ctx, db); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	repo := marketplace.NewRepositoryManager(db)
	repo.MustValidate()

	provider := marketplace.NewUserProvider(repo.Users())
	auther := marketplace.NewAuthenticator(provider, repo, cfg)

	certificates := marketplace.NewDiskCertificateStore(cfg.uploadDir, "/certificates")

	authController := marketplace.NewAuthController(
		marketplace.WithAuther(auther),
		marketplace.WithAuthRepo(repo),
		marketplace.WithAuthDebug(cfg.debug),
	)

	productController := marketplace.NewProductController(
		marketplace.WithProductRepo(repo),
		marketplace.WithCertificateStore(certificates),
	)

	app := fiber.New(fiber.Config{
		AppName: "marketplace",
	})

	protected := marketplace.TokenAuth(marketplace.TokenAuthConfig{
		Auther:     auther,
		Users:      repo.Users(),
		ContextKey: cfg.GetContextKey(),
	})

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	marketplace.RegisterAuthRoutes(app, authController, protected)
	marketplace.RegisterProductRoutes(app, productController, protected)

	app.Static("/certificates", cfg.uploadDir)

	go func() {
		if err := app.Listen(cfg.addr); err != nil {
			log.Fatalf("http server: %v", err)
		}
	}()

	WaitExitSignal()

	if err := app.Shutdown(); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
