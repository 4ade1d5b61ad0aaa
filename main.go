package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"Ech2o/internal/auth"
	"Ech2o/internal/calc/aop"
	"Ech2o/internal/calc/export"
	"Ech2o/internal/calc/finance"
	"Ech2o/internal/calc/premium/batch"
	"Ech2o/internal/calc/premium/importer"
	"Ech2o/internal/calc/report"
	"Ech2o/internal/config"
	"Ech2o/internal/preset"
	"Ech2o/internal/repo"
)

var wg sync.WaitGroup

const requestIDHeader = "X-Request-ID"

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+requestIDHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestID keeps a client supplied X-Request-ID or assigns a new one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		ctx := log.With().Str("request_id", id).Logger().WithContext(r.Context())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	log.Error().Msg(fmt.Sprint(v...))
}

func HandleList(mux *mux.Router, cfg config.Config, presets repo.PresetRepository) {
	authEnv := &auth.Authenv{JWTkey: []byte(cfg.TokenKey), AdminHash: cfg.AdminPasswordHash, Secure: cfg.TLS()}
	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	aopH := &aop.Handler{Defaults: cfg.Defaults, Presets: presets}
	financeH := &finance.Handler{Inputs: aopH}
	exportH := &export.Handler{Finance: financeH}
	reportH := &report.Handler{Finance: financeH}
	batchH := &batch.Handler{Inputs: aopH}
	importH := &importer.Handler{Inputs: aopH}
	presetH := &preset.PresetHandler{Repo: presets}

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		aop.WriteJSON(w, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.LoginHandler).Methods("POST")

	api.HandleFunc("/tools/aop/calc", aopH.Calc).Methods("POST")
	api.HandleFunc("/tools/aop/finance", financeH.Analyze).Methods("POST")
	api.HandleFunc("/tools/aop/export/cost.csv", exportH.CostCSV).Methods("POST")
	api.HandleFunc("/tools/aop/export/design.csv", exportH.DesignCSV).Methods("POST")
	api.HandleFunc("/tools/aop/export/xlsx", exportH.Workbook).Methods("POST")
	api.HandleFunc("/tools/aop/report/pdf", reportH.Generate).Methods("POST")
	api.HandleFunc("/tools/aop/batch", batchH.Run).Methods("POST")
	api.HandleFunc("/tools/aop/import", importH.Import).Methods("POST")

	api.HandleFunc("/presets", presetH.List).Methods("GET")
	api.HandleFunc("/presets/{name}", presetH.Get).Methods("GET")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(authEnv.AuthMiddleware)
	admin.HandleFunc("/presets/{name}", presetH.Put).Methods("PUT")
	admin.HandleFunc("/presets/{name}", presetH.Delete).Methods("DELETE")
}

// NewHandler builds the router and wraps it with the middleware chain.
func NewHandler(cfg config.Config, presets repo.PresetRepository) http.Handler {
	router := mux.NewRouter()
	HandleList(router, cfg, presets)

	accessLog := log.With().Str("component", "access").Logger()
	var h http.Handler = CORS(router)
	h = RequestID(h)
	h = handlers.CombinedLoggingHandler(&accessLog, h)
	return handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{}))(h)
}

// openPresets picks Postgres when DATABASE_URL is set and memory otherwise,
// then adds the presets from the rates file that the store does not have yet.
func openPresets(ctx context.Context, cfg config.Config) (repo.PresetRepository, func(), error) {
	var store repo.PresetRepository
	closeFn := func() {}
	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set, presets are kept in memory")
		store = repo.NewMemoryPresets()
	} else {
		db, err := repo.InitDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		pg := repo.NewPostgresPresetDB(db)
		if err := pg.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate presets: %w", err)
		}
		store = pg
		closeFn = func() { db.Close() }
	}
	for name, rates := range cfg.Presets {
		_, err := store.GetPreset(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, aop.ErrUnknownPreset) {
			closeFn()
			return nil, nil, err
		}
		if err := store.SavePreset(ctx, name, rates); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("seed preset %s: %w", name, err)
		}
		log.Info().Str("preset", name).Msg("preset seeded")
	}
	return store, closeFn, nil
}

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		config.SetupLogging(zerolog.InfoLevel, false)
		log.Fatal().Err(err).Msg("configuration")
	}
	config.SetupLogging(cfg.LogLevel, false)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	presets, closePresets, err := openPresets(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("preset store")
	}
	defer closePresets()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewHandler(cfg, presets),
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info().Str("addr", server.Addr).Bool("tls", cfg.TLS()).Msg("starting server")
		var err error
		if cfg.TLS() {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, closing active connections")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	wg.Wait()
	log.Info().Msg("server stopped")
}
