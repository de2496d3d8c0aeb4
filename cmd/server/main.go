package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/italord1/splitbill/internal/extract"
	"github.com/italord1/splitbill/internal/ocr"
	"github.com/italord1/splitbill/internal/recognize"
	"github.com/italord1/splitbill/internal/server"
	"github.com/italord1/splitbill/internal/session"
	"github.com/italord1/splitbill/internal/storage/memory"
	"github.com/italord1/splitbill/pkg/logging"
)

func main() {
	fs := ff.NewFlagSet("splitbill")
	var (
		port        = fs.IntLong("port", 8080, "HTTP server port")
		queueSize   = fs.IntLong("queue-size", recognize.DefaultQueueSize, "Max recognition jobs waiting behind the one in flight")
		jobTimeout  = fs.DurationLong("job-timeout", recognize.DefaultJobTimeout, "Timeout per recognition job")
		ocrLangs    = fs.StringLong("ocr-langs", "heb,eng", "Comma-separated Tesseract languages")
		catalogPath = fs.StringLong("catalog", "", "Dish catalog file for dictionary extraction (default: embedded catalog)")
		tmpDir      = fs.StringLong("tmp-dir", "", "Directory for staged uploads (default: OS temp dir)")
		logLevel    = fs.StringLong("log-level", "info", "Log level: debug, info, warn, error")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("SPLITBILL"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logging.SetupWithLevel(logging.ParseLevel(*logLevel))

	// The recognition engine is owned here, not by a package-level
	// singleton: constructed once, injected, shut down on exit.
	engine := ocr.NewTesseract(strings.Split(*ocrLangs, ",")...)

	registry := prometheus.NewRegistry()
	recognizer := recognize.New(engine, recognize.Config{
		QueueSize:  *queueSize,
		JobTimeout: *jobTimeout,
		Metrics:    recognize.NewMetrics(registry),
	})
	defer recognizer.Close()

	dictionary := extract.NewDefaultDictionaryStrategy()
	if *catalogPath != "" {
		loaded, err := extract.LoadDictionaryStrategy(*catalogPath)
		if err != nil {
			slog.Error("failed to load dish catalog", "path", *catalogPath, "error", err)
			os.Exit(1)
		}
		dictionary = loaded
		slog.Info("dish catalog loaded", "path", *catalogPath)
	}

	store := memory.New()
	defer store.Close()

	srv := server.New(server.Config{
		Sessions:   session.NewService(store),
		Recognizer: recognizer,
		Extractor:  extract.New(extract.NewPatternStrategy(), dictionary),
		TmpDir:     *tmpDir,
		Metrics:    server.NewMetrics(registry),
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: srv.Handler(registry),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "address", httpServer.Addr, "ocr_langs", *ocrLangs, "queue_size", *queueSize)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}
