package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"themefinder/internal/api"
	"themefinder/internal/config"
	"themefinder/internal/docstore"
	"themefinder/internal/extract"
	"themefinder/internal/indexer"
	"themefinder/internal/llm"
	"themefinder/internal/qdrant"
	"themefinder/internal/search"
	"themefinder/internal/synthesis"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(log)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Error("failed to create upload directory", "dir", cfg.UploadDir, "error", err)
		os.Exit(1)
	}

	var ocr *extract.OCR
	if cfg.OCREnabled {
		ocr = extract.NewOCR(cfg.TesseractBin, cfg.PdftoppmBin)
	}
	engine := extract.NewEngine(log, ocr)

	docs, err := docstore.New(cfg.ProcessedDir, log)
	if err != nil {
		log.Error("failed to open document store", "dir", cfg.ProcessedDir, "error", err)
		os.Exit(1)
	}

	store := qdrant.NewClient(cfg.QdrantURL, cfg.QdrantAPIKey, cfg.QdrantCollection, cfg.QdrantTimeout)

	llmClient := llm.NewClient(llm.Config{
		BaseURL:         cfg.OpenAIBaseURL,
		APIKey:          cfg.OpenAIAPIKey,
		EmbedModel:      cfg.EmbedModel,
		ChatModel:       cfg.ChatModel,
		EmbedTimeout:    cfg.EmbedTimeout,
		CompleteTimeout: cfg.CompleteTimeout,
	}, log)

	ix := indexer.New(docs, store, llmClient, log, cfg.VectorDim, cfg.MaxConcurrentEmbed)
	searchSvc := search.New(store, llmClient, log)
	synth := synthesis.NewOrchestrator(searchSvc, llmClient, log)

	server := api.NewServer(engine, docs, ix, searchSvc, synth, llmClient, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			log.Error("shutdown error", "error", err)
		}
		store.Close()
		llmClient.Close()
		close(done)
	}()

	log.Info("starting themefinder",
		"port", cfg.Port,
		"collection", cfg.QdrantCollection,
		"embed_model", cfg.EmbedModel,
		"chat_model", cfg.ChatModel,
		"ocr_enabled", cfg.OCREnabled,
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-done
}
