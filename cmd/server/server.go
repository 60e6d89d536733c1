package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"schooltutor/config"
	"schooltutor/db"
	"schooltutor/handlers"
	"schooltutor/logger"
	"schooltutor/services"
	"schooltutor/services/chat"
	"schooltutor/services/classifier"
	"schooltutor/services/curriculum"
	"schooltutor/services/tutor"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.APIKey() == "" {
		log.Fatal("API key environment variable is required", "provider", cfg.LLMProvider)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sources := curriculum.FileSources(cfg.CurriculumPaths)
	if cfg.DatabaseURL != "" {
		repo, err := db.NewPostgresCurriculumRepository(cfg.DatabaseURL)
		if err != nil {
			log.Error("Failed to initialize curriculum database, using files only", "error", err)
		} else {
			defer repo.Close()
			sources = append([]curriculum.Source{curriculum.DBSource{Repo: repo}}, sources...)
		}
	}

	data, loaded, _ := curriculum.LoadFirst(ctx, sources, log.Component("curriculum"))
	store := curriculum.NewStore(data)
	if store.Snapshot().IsEmpty() {
		log.Warn("Starting with empty curriculum data; standards and chapter queries will report no data")
	}

	llm, err := newLLMClient(cfg)
	if err != nil {
		log.Fatal("Failed to initialize LLM client", "error", err)
	}

	memory := services.NewMemoryService(cfg.SessionCapacity, log.Component("memory"))
	aliases := classifier.NewAliasResolver(classifier.DefaultSubjectAliases)
	extractor := classifier.NewExtractor(store, memory, aliases)
	intentClassifier := classifier.NewClassifier(store, memory, aliases)

	curriculumResponder := chat.NewCurriculumResponder(store, extractor, memory, log.Component("curriculum"))
	tutorResponder := tutor.NewResponder(llm, memory, tutor.GenerateOptions{
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
		MaxTokens:   cfg.LLMMaxTokens,
	}, log.Component("tutor"))
	dispatcher := chat.NewDispatcher(memory, intentClassifier, curriculumResponder, tutorResponder, log.Component("chat"))

	chatHandler := handlers.NewChatHandler(dispatcher, memory, cfg.RequestTimeout, log)
	curriculumHandler := handlers.NewCurriculumHandler(store, log)

	router := mux.NewRouter()

	router.Use(recoveryMiddleware(log))
	router.Use(corsMiddleware(cfg.AllowedOrigins))
	router.Use(jsonMiddleware)

	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("OPTIONS")

	chatHandler.RegisterRoutes(router)
	curriculumHandler.RegisterRoutes(router)

	router.HandleFunc("/health", healthCheckHandler(memory)).Methods("GET")

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	if fileSource, ok := loaded.(curriculum.FileSource); ok && cfg.WatchCurriculum {
		watcher, err := curriculum.NewWatcher(fileSource, store, log.Component("curriculum"))
		if err != nil {
			log.Error("Failed to start curriculum watcher", "error", err)
		} else {
			g.Go(func() error { return watcher.Run(gctx) })
		}
	}

	g.Go(func() error {
		log.Info("Server starting", "port", cfg.Port, "provider", cfg.LLMProvider, "model", cfg.LLMModel)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("Server stopped with error", "error", err)
	}
	log.Info("Server stopped")
}

func newLLMClient(cfg *config.Config) (tutor.LLMClient, error) {
	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		return tutor.NewAnthropicClient(cfg.AnthropicAPIKey), nil
	case config.ProviderOpenAI:
		return tutor.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.LLMModel)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}

func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("Recovered from handler panic", "path", r.URL.Path, "panic", rec)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"error": "Internal server error"}`))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func corsMiddleware(allowedOrigins string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "*")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func healthCheckHandler(memory *services.MemoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "sessions": %d}`, memory.Sessions())
	}
}
