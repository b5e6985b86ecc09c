package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/gorilla/mux"
	"github.com/pix-rail/pix-key-api/configs"
	"github.com/pix-rail/pix-key-api/datastore/gorm"
	"github.com/pix-rail/pix-key-api/handlers"
	"github.com/pix-rail/pix-key-api/pixkeys"
	log "github.com/sirupsen/logrus"
)

const version = "1.0.0"

var (
	sha1ver   string // sha1 revision used to build the program
	buildTime string // when the executable was built
)

func main() {
	var printVersion bool

	// If we should just print the version number and exit
	flag.BoolVar(&printVersion, "version", false, "if true, print version and exit")
	flag.Parse()

	if printVersion {
		fmt.Printf("v%s build on %s from sha1 %s\n", version, buildTime, sha1ver)
		os.Exit(0)
	}

	cfg, err := configs.Parse()
	if err != nil {
		panic(err)
	}

	runServer(cfg)

	os.Exit(0)
}

func runServer(cfg *configs.Config) {
	configs.ConfigureLogger(cfg.LogLevel)

	log.Info("Starting server")

	// Database
	db, err := gorm.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer gorm.Close(db)

	// Services
	pixKeyService := pixkeys.NewService(pixkeys.NewGormStore(db))

	// HTTP handling
	pixKeyHandler := handlers.NewPixKeys(pixKeyService)

	r := mux.NewRouter()

	// Catch the api version
	rv := r.PathPrefix("/{apiVersion}").Subrouter()

	// Debug
	rv.Handle("/debug", handlers.Debug("https://github.com/pix-rail/pix-key-api", sha1ver, buildTime)).Methods(http.MethodGet)

	// Health
	rv.HandleFunc("/health/ready", handlers.HandleHealthReady).Methods(http.MethodGet)
	rv.Handle("/health/liveness", handlers.Liveness(func() (interface{}, error) {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		return map[string]bool{"database": sqlDB.Ping() == nil}, nil
	})).Methods(http.MethodGet)

	// PIX keys
	rv.Handle("/keys/active", pixKeyHandler.Active()).Methods(http.MethodGet)
	rv.Handle("/keys/inactive", pixKeyHandler.Inactive()).Methods(http.MethodGet)
	rv.Handle("/keys/account", pixKeyHandler.ByAccount()).Methods(http.MethodGet)
	rv.Handle("/keys/period", pixKeyHandler.ByPeriod()).Methods(http.MethodGet)
	rv.Handle("/keys/type/{keyType}", pixKeyHandler.ByType()).Methods(http.MethodGet)
	rv.Handle("/keys/holder/{name}", pixKeyHandler.ByHolderName()).Methods(http.MethodGet)
	rv.Handle("/keys", pixKeyHandler.List()).Methods(http.MethodGet)
	rv.Handle("/keys", pixKeyHandler.Create()).Methods(http.MethodPost)
	rv.Handle("/keys/{id}", pixKeyHandler.Details()).Methods(http.MethodGet)
	rv.Handle("/keys/{id}", pixKeyHandler.Amend()).Methods(http.MethodPut)
	rv.Handle("/keys/{id}", pixKeyHandler.Deactivate()).Methods(http.MethodDelete)

	h := http.TimeoutHandler(r, cfg.ServerRequestTimeout, "request timed out")
	h = handlers.UseCors(h)
	h = handlers.UseLogging(h)
	h = handlers.UseCompress(h)

	if cfg.RequestRateLimit > 0 {
		h = handlers.UseRateLimiting(h, cfg.RequestRateLimit)
	}

	// Setup idempotency key middleware if it's enabled
	if !cfg.DisableIdempotencyMiddleware {
		var is handlers.IdempotencyStore
		switch cfg.IdempotencyMiddlewareDatabaseType {
		// Shared SQL/Gorm store (same as for main app)
		case handlers.IdempotencyStoreTypeShared.String():
			is = handlers.NewIdempotencyStoreGorm(db)
		// Redis, separate from app db
		case handlers.IdempotencyStoreTypeRedis.String():
			if cfg.IdempotencyMiddlewareRedisURL == "" {
				log.Fatal("idempotency middleware db set to redis but Redis URL is empty")
			}
			pool := &redis.Pool{
				MaxIdle:   80,
				MaxActive: 12000,
				Dial: func() (redis.Conn, error) {
					c, err := redis.DialURL(cfg.IdempotencyMiddlewareRedisURL)
					if err != nil {
						panic(err.Error())
					}
					return c, err
				},
			}

			client := pool.Get()

			defer func() {
				log.Info("Closing Redis client..")
				if err := client.Close(); err != nil {
					log.Warn(err)
				}
			}()

			is = handlers.NewIdempotencyStoreRedis(client)
		case handlers.IdempotencyStoreTypeLocal.String():
			is = handlers.NewIdempotencyStoreLocal()
		}

		h = handlers.UseIdempotency(h, handlers.IdempotencyHandlerOptions{
			Expiry:      cfg.IdempotencyKeyExpiry,
			IgnorePaths: []string{"/v1/health", "/v1/debug"},
		}, is)
	}

	// Server boilerplate
	srv := &http.Server{
		Handler:      h,
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		WriteTimeout: 0, // Disabled, set cfg.ServerRequestTimeout instead
		ReadTimeout:  0, // Disabled, set cfg.ServerRequestTimeout instead
	}

	// Run our server in a goroutine so that it doesn't block.
	go func() {
		log.
			WithFields(log.Fields{
				"host": cfg.Host,
				"port": cfg.Port,
			}).
			Info("Server listening")
		if err := srv.ListenAndServe(); err != nil {
			log.Warn(err)
		}
	}()

	// Trap interruption signals and shut down gracefully.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Warn(err)
	}

	log.Info("Server stopped")
}
