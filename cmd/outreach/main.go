package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"outreach/internal/auth"
	"outreach/internal/config"
	"outreach/internal/content"
	"outreach/internal/db"
	httpx "outreach/internal/http"
	"outreach/internal/http/handler"
	"outreach/internal/mailer"
	"outreach/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		log.Fatal(err)
	}

	jwtSvc := auth.NewJWT(cfg.JWTSecret)
	sender := mailer.NewResend(cfg.ResendAPIKey, cfg.ResendFromEmail, cfg.ResendReplyTo)

	ctx, cancel := context.WithCancel(context.Background())

	// compose endpoints use Gemini when configured, canned templates otherwise
	var generator handler.EmailGenerator = content.Templates{}
	var researcher handler.Researcher
	if cfg.GeminiAPIKey != "" {
		gem, err := content.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatal(err)
		}
		defer gem.Close()
		generator = gem
		researcher = gem
	} else {
		log.Println("GEMINI_API_KEY not set, using template generation only")
	}

	// the scheduler always fills missing content from templates
	runner := &scheduler.Runner{
		Store:     &scheduler.GormStore{DB: gdb},
		Generator: content.Templates{},
		Sender:    sender,
	}

	worker := &scheduler.Worker{Runner: runner, Interval: cfg.SchedulerInterval}
	go worker.Run(ctx)

	r := httpx.NewRouter(httpx.Deps{
		Cfg:        cfg,
		DB:         gdb,
		JWT:        jwtSvc,
		Runner:     runner,
		Generator:  generator,
		Researcher: researcher,
		Sender:     sender,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on %s\n", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
