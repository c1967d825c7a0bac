package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Application
	"github.com/nakool/upgrade-notify/internal/application/port"
	"github.com/nakool/upgrade-notify/internal/application/usecase"

	// Domain
	"github.com/nakool/upgrade-notify/internal/domain/repository"
	"github.com/nakool/upgrade-notify/internal/domain/service"
	"github.com/nakool/upgrade-notify/internal/domain/valueobject"

	// Infrastructure
	redisCache "github.com/nakool/upgrade-notify/internal/infrastructure/cache/redis"
	"github.com/nakool/upgrade-notify/internal/infrastructure/hostinfo"
	"github.com/nakool/upgrade-notify/internal/infrastructure/input"
	natsInfra "github.com/nakool/upgrade-notify/internal/infrastructure/messaging/nats"
	"github.com/nakool/upgrade-notify/internal/infrastructure/observability/cloudwatch"
	"github.com/nakool/upgrade-notify/internal/infrastructure/persistence/postgres"
	"github.com/nakool/upgrade-notify/internal/infrastructure/slack"
	s3storage "github.com/nakool/upgrade-notify/internal/infrastructure/storage/s3"

	// Shared
	"github.com/nakool/upgrade-notify/pkg/config"
	"github.com/nakool/upgrade-notify/pkg/logger"

	_ "github.com/lib/pq"
)

func main() {
	os.Exit(run())
}

// run wires the adapters and processes exactly one report. It returns the
// process exit code so that every deferred cleanup (temp input file, log
// file, buffered log publisher, broker connection) executes before exit.
func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log, err := logger.NewWithFile(cfg.Logging.Level, cfg.Logging.Dir)
	if err != nil {
		// Console-only logging is still usable.
		log.Warn("File logging unavailable", "error", err.Error())
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting upgrade-notify")

	// Host identity for the notification context line
	hostname := cfg.System.Hostname
	username := cfg.System.Username
	if hostname == "" || username == "" {
		identity, err := hostinfo.Detect(ctx)
		if err != nil {
			log.Warn("Host identity detection failed", "error", err.Error())
		} else {
			if hostname == "" {
				hostname = identity.Hostname
			}
			if username == "" {
				username = identity.Username
			}
			log.Info("Detected host identity",
				"hostname", identity.Hostname,
				"platform", identity.Platform,
				"uptime", identity.Uptime.Round(time.Minute).String(),
			)
		}
	}

	// CloudWatch Logs publisher (optional)
	if cfg.CloudWatch.LogsEnabled {
		streamName := cfg.CloudWatch.LogStreamName
		if streamName == "" {
			streamName = hostname
		}
		publisher, err := cloudwatch.NewLogsPublisher(ctx, cloudwatch.LogsPublisherConfig{
			LogGroupName:    cfg.CloudWatch.LogGroupName,
			LogStreamName:   streamName,
			Region:          cfg.CloudWatch.Region,
			Endpoint:        cfg.CloudWatch.Endpoint,
			AccessKeyID:     cfg.CloudWatch.AccessKeyID,
			SecretAccessKey: cfg.CloudWatch.SecretAccessKey,
			BufferSize:      cfg.CloudWatch.BufferSize,
			AutoCreate:      true,
		})
		if err != nil {
			log.Warn("CloudWatch logs publisher unavailable", "error", err.Error())
		} else {
			log.SetLogPublisher(publisher)
			defer func() {
				flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := publisher.Flush(flushCtx); err != nil {
					fmt.Fprintf(os.Stderr, "Failed to flush log publisher: %v\n", err)
				}
			}()
			log.Info("CloudWatch logs publisher initialized", "group", cfg.CloudWatch.LogGroupName)
		}
	}

	// Slack transport and presentation
	notifier, err := slack.NewClient(slack.Config{
		Token:             cfg.Slack.Token,
		Channel:           cfg.Slack.Channel,
		BotUsername:       cfg.Slack.BotUsername,
		BaseURL:           cfg.Slack.BaseURL,
		Timeout:           cfg.Slack.Timeout,
		MaxMessageChars:   cfg.Slack.MaxMessageChars,
		MessagesPerSecond: cfg.Slack.MessagesPerSecond,
	}, log)
	if err != nil {
		log.Error("Failed to initialize Slack client", err)
		return 1
	}

	mentions := make(map[valueobject.UpdateStatus][]string, len(cfg.Mentions))
	for status, targets := range cfg.Mentions {
		mentions[valueobject.UpdateStatus(status)] = targets
	}
	composer := slack.NewBlockComposer(hostname, username, cfg.Slack.BotUsername, mentions)

	// Run history repository (optional)
	var history repository.RunRepository
	if cfg.History.Enabled {
		db, err := sql.Open("postgres", cfg.History.DSN())
		if err != nil {
			log.Warn("Run history unavailable", "error", err.Error())
		} else {
			defer db.Close()
			db.SetMaxOpenConns(cfg.History.MaxOpenConns)
			db.SetMaxIdleConns(cfg.History.MaxIdleConns)
			db.SetConnMaxLifetime(cfg.History.ConnMaxLifetime)
			db.SetConnMaxIdleTime(cfg.History.ConnMaxIdleTime)

			if err := db.PingContext(ctx); err != nil {
				log.Warn("Run history database unreachable, continuing without history", "error", err.Error())
			} else {
				history = postgres.NewPostgresRunRepository(db)
				log.Info("Run history repository initialized")
			}
		}
	}

	// Duplicate suppression store (optional)
	var dedup port.DedupStore
	if cfg.Dedup.Enabled {
		store, err := redisCache.NewRedisDedupStore(
			cfg.Dedup.Host, cfg.Dedup.Port, cfg.Dedup.Password, cfg.Dedup.DB, cfg.Dedup.TTL)
		if err != nil {
			log.Warn("Dedup store unavailable, continuing without dedup", "error", err.Error())
		} else {
			dedup = store
			defer dedup.Close()
			log.Info("Dedup store initialized", "ttl", cfg.Dedup.TTL.String())
		}
	}

	// Run event publisher (optional)
	var events port.EventPublisher
	if cfg.Events.Enabled {
		publisher, err := natsInfra.NewNATSPublisher(cfg.Events.URL, log)
		if err != nil {
			log.Warn("Event publisher unavailable, continuing without events", "error", err.Error())
		} else {
			events = publisher
			defer events.Close()
			log.Info("Event publisher initialized", "url", cfg.Events.URL)
		}
	}

	// Raw report archive (optional)
	var archive port.ReportArchive
	if cfg.Archive.Enabled {
		archiveImpl, err := s3storage.NewReportArchive(ctx, s3storage.Config{
			Bucket:          cfg.Archive.Bucket,
			Region:          cfg.Archive.Region,
			Endpoint:        cfg.Archive.Endpoint,
			AccessKeyID:     cfg.Archive.AccessKeyID,
			SecretAccessKey: cfg.Archive.SecretAccessKey,
			UsePathStyle:    cfg.Archive.UsePathStyle,
		})
		if err != nil {
			log.Warn("Report archive unavailable, continuing without archive", "error", err.Error())
		} else {
			archive = archiveImpl
			log.Info("Report archive initialized", "bucket", cfg.Archive.Bucket)
		}
	}

	// Input: file argument or stdin spooled to a temp file
	source, err := input.NewFileSource(os.Args[1:], os.Stdin, log)
	if err != nil {
		log.Error("Failed to prepare input", err)
		return 1
	}
	defer source.Close()

	uc := usecase.NewProcessReportUseCase(
		service.NewReportParser(),
		service.NewStatusClassifier(),
		source,
		composer,
		notifier,
		dedup,   // can be nil if dedup disabled
		archive, // can be nil if archive disabled
		events,  // can be nil if events disabled
		history, // can be nil if history disabled
		usecase.ProcessReportConfig{
			Host:             hostname,
			Mentions:         mentions,
			EventSubject:     cfg.Events.Subject,
			ArchiveKeyPrefix: cfg.Archive.KeyPrefix,
			HistoryRetention: cfg.History.Retention,
		},
		log,
	)

	result, err := uc.Execute(ctx)
	switch {
	case err == nil:
		if result.ThreadID == "" {
			log.Info("Run suppressed as duplicate", "run_id", result.RunID, "status", string(result.Status))
		} else {
			log.Info("Notification run completed",
				"run_id", result.RunID,
				"status", string(result.Status),
				"reboot_required", result.RebootRequired,
				"thread_id", result.ThreadID,
			)
		}
		return 0
	case errors.Is(err, usecase.ErrInputUnreadable),
		errors.Is(err, usecase.ErrNoSubject),
		errors.Is(err, usecase.ErrNoContent),
		errors.Is(err, usecase.ErrDispatchFailed):
		// Already reported through the chat channel or the log; the
		// mailer must not see these as delivery failures.
		log.Warn("Run halted", "reason", err.Error())
		return 0
	default:
		log.Error("Notification run failed", err)
		return 1
	}
}
