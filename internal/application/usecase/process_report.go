package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/nakool/upgrade-notify/internal/application/dto"
	"github.com/nakool/upgrade-notify/internal/application/port"
	"github.com/nakool/upgrade-notify/internal/domain/entity"
	"github.com/nakool/upgrade-notify/internal/domain/repository"
	"github.com/nakool/upgrade-notify/internal/domain/service"
	"github.com/nakool/upgrade-notify/internal/domain/valueobject"
	"github.com/nakool/upgrade-notify/pkg/logger"
)

// Recovered failure categories. All of them have already been reported to
// the chat channel (or logged, for dispatch failures) when Execute
// returns; the process should exit zero for them.
var (
	ErrInputUnreadable = errors.New("input is not readable")
	ErrNoSubject       = errors.New("no subject line found")
	ErrNoContent       = errors.New("no content section found")
	ErrDispatchFailed  = errors.New("main notification dispatch failed")
)

const noLogNote = "*Note:* No package installation logs were found during this run"

// ProcessReportConfig carries the environment-specific inputs of a run.
type ProcessReportConfig struct {
	// Host identifies the machine the upgrade ran on.
	Host string

	// Mentions maps each status to the notification targets configured
	// for it. Targets are joined into the main message's mention text.
	Mentions map[valueobject.UpdateStatus][]string

	// EventSubject is the broker subject run events are published to.
	EventSubject string

	// ArchiveKeyPrefix prefixes raw-report archive keys.
	ArchiveKeyPrefix string

	// HistoryRetention prunes run history older than this after each
	// save. Zero disables pruning.
	HistoryRetention time.Duration
}

// ProcessReportUseCase runs one notification end to end: read the report,
// extract subject and sections, classify, dispatch the main message and
// the threaded follow-ups. Extraction failures send an error-styled
// notification instead and halt; the optional adapters (dedup, archive,
// events, history) are best-effort and never change the outcome.
type ProcessReportUseCase struct {
	parser     *service.ReportParser
	classifier *service.StatusClassifier
	source     port.ReportSource
	composer   port.MessageComposer
	notifier   port.ChatNotifier
	dedup      port.DedupStore          // can be nil
	archive    port.ReportArchive       // can be nil
	events     port.EventPublisher      // can be nil
	history    repository.RunRepository // can be nil
	cfg        ProcessReportConfig
	logger     *logger.Logger
}

// NewProcessReportUseCase wires the use case. dedup, archive, events and
// history may be nil when the corresponding adapter is disabled.
func NewProcessReportUseCase(
	parser *service.ReportParser,
	classifier *service.StatusClassifier,
	source port.ReportSource,
	composer port.MessageComposer,
	notifier port.ChatNotifier,
	dedup port.DedupStore,
	archive port.ReportArchive,
	events port.EventPublisher,
	history repository.RunRepository,
	cfg ProcessReportConfig,
	logger *logger.Logger,
) *ProcessReportUseCase {
	return &ProcessReportUseCase{
		parser:     parser,
		classifier: classifier,
		source:     source,
		composer:   composer,
		notifier:   notifier,
		dedup:      dedup,
		archive:    archive,
		events:     events,
		history:    history,
		cfg:        cfg,
		logger:     logger,
	}
}

// Execute processes one report. The returned RunResult is non-nil only
// when classification completed; a result with an empty ThreadID means
// the notification was suppressed as a duplicate.
func (uc *ProcessReportUseCase) Execute(ctx context.Context) (*dto.RunResult, error) {
	runID := uuid.New().String()
	uc.logger.Info("Starting notification run", "run_id", runID, "source", uc.source.Name())

	report, err := uc.source.Read(ctx)
	if err != nil {
		uc.logger.Error("Failed to read input", err, "run_id", runID)
		uc.sendError(ctx, fmt.Sprintf("File %s does not exist or is not readable", uc.source.Name()))
		return nil, fmt.Errorf("%w: %v", ErrInputUnreadable, err)
	}
	uc.logger.Info("Read report", "run_id", runID, "lines", report.Len())

	subject, ok := uc.parser.LastSubject(report)
	if !ok || subject == "" {
		uc.logger.Error("No subject line found", nil, "run_id", runID)
		uc.sendError(ctx, "No Subject line found in input file")
		return nil, ErrNoSubject
	}

	contentSpan := uc.parser.ContentSpan(report)
	content := report.JoinSpan(contentSpan)
	if contentSpan.Empty() || content == "" {
		uc.logger.Error("Could not determine content boundaries", nil, "run_id", runID)
		uc.sendError(ctx, "No valid content section found in input file")
		return nil, ErrNoContent
	}
	uc.logger.Info("Content section found", "run_id", runID,
		"start", contentSpan.Start(), "end", contentSpan.End())

	rule := uc.classifier.Classify(subject, content)
	rebootRequired := uc.classifier.RebootRequired(subject, content)

	result := dto.RunResult{
		RunID:          runID,
		Subject:        subject,
		Content:        content,
		Log:            report.JoinSpan(uc.parser.LogSpan(report)),
		Status:         rule.Status(),
		StatusLabel:    rule.Label(),
		RebootRequired: rebootRequired,
		MentionText:    dto.FormatMentions(uc.cfg.Mentions[rule.Status()]),
	}
	uc.logger.Info("Run classified", "run_id", runID,
		"status", string(result.Status), "reboot_required", rebootRequired)

	fingerprint := uc.fingerprint(result)
	if uc.isDuplicate(ctx, fingerprint) {
		uc.logger.Info("Duplicate run within dedup window, suppressing notification",
			"run_id", runID, "fingerprint", fingerprint)
		return &result, nil
	}

	threadID, err := uc.notifier.SendBlocks(ctx, uc.composer.MainMessage(result), "")
	if err != nil || threadID == "" {
		uc.logger.Error("Failed to send main message", err, "run_id", runID)
		return nil, ErrDispatchFailed
	}
	result.ThreadID = threadID
	uc.logger.Info("Main message sent", "run_id", runID, "thread_id", threadID)

	uc.sendThread(ctx, result)
	uc.markNotified(ctx, fingerprint)
	uc.archiveReport(ctx, report, result)
	uc.publishEvent(ctx, result)
	uc.recordHistory(ctx, result)

	return &result, nil
}

// sendThread posts the follow-up messages under the main message: the
// content details, then the installation log or a fallback note when the
// report carried none. Follow-up failures are logged, not fatal.
func (uc *ProcessReportUseCase) sendThread(ctx context.Context, result dto.RunResult) {
	if _, err := uc.notifier.SendBlocks(ctx, uc.composer.DetailsMessage(result.Content), result.ThreadID); err != nil {
		uc.logger.Warn("Failed to send update details", "run_id", result.RunID, "error", err.Error())
	}

	if result.HasLog() {
		if _, err := uc.notifier.SendBlocks(ctx, uc.composer.LogMessage(result.Log), result.ThreadID); err != nil {
			uc.logger.Warn("Failed to send installation log", "run_id", result.RunID, "error", err.Error())
		}
		return
	}

	uc.logger.Info("No package installation logs found, sending note", "run_id", result.RunID)
	if _, err := uc.notifier.SendText(ctx, noLogNote, result.ThreadID); err != nil {
		uc.logger.Warn("Failed to send no-log note", "run_id", result.RunID, "error", err.Error())
	}
}

// sendError reports an extraction failure to the chat channel. A failing
// error notification is only logged; there is nothing further to fall
// back to.
func (uc *ProcessReportUseCase) sendError(ctx context.Context, reason string) {
	uc.logger.Error("Sending error notification", nil, "reason", reason)
	if _, err := uc.notifier.SendBlocks(ctx, uc.composer.ErrorMessage(reason), ""); err != nil {
		uc.logger.Error("Failed to send error notification", err, "reason", reason)
	}
}

func (uc *ProcessReportUseCase) fingerprint(result dto.RunResult) string {
	sum := sha256.Sum256([]byte(
		uc.cfg.Host + "\x00" +
			string(result.Status) + "\x00" +
			strconv.FormatBool(result.RebootRequired) + "\x00" +
			result.Subject,
	))
	return hex.EncodeToString(sum[:])
}

func (uc *ProcessReportUseCase) isDuplicate(ctx context.Context, fingerprint string) bool {
	if uc.dedup == nil {
		return false
	}
	seen, err := uc.dedup.Seen(ctx, fingerprint)
	if err != nil {
		uc.logger.Warn("Dedup lookup failed, notifying anyway", "error", err.Error())
		return false
	}
	return seen
}

func (uc *ProcessReportUseCase) markNotified(ctx context.Context, fingerprint string) {
	if uc.dedup == nil {
		return
	}
	if err := uc.dedup.Mark(ctx, fingerprint); err != nil {
		uc.logger.Warn("Failed to mark run fingerprint", "error", err.Error())
	}
}

func (uc *ProcessReportUseCase) archiveReport(ctx context.Context, report *entity.UpgradeReport, result dto.RunResult) {
	if uc.archive == nil {
		return
	}
	now := time.Now().UTC()
	key := fmt.Sprintf("%s/%s/%s/%s.txt",
		uc.cfg.ArchiveKeyPrefix, uc.cfg.Host, now.Format("2006/01/02"), result.RunID)
	location, err := uc.archive.Store(ctx, key, []byte(report.Text()))
	if err != nil {
		uc.logger.Warn("Failed to archive raw report", "run_id", result.RunID, "error", err.Error())
		return
	}
	uc.logger.Info("Raw report archived", "run_id", result.RunID, "location", location)
}

func (uc *ProcessReportUseCase) publishEvent(ctx context.Context, result dto.RunResult) {
	if uc.events == nil {
		return
	}
	event := dto.NewRunEvent(result, uc.cfg.Host, time.Now().UTC())
	if err := uc.events.Publish(ctx, uc.cfg.EventSubject, event); err != nil {
		uc.logger.Warn("Failed to publish run event", "run_id", result.RunID, "error", err.Error())
		return
	}
	uc.logger.Debug("Run event published", "run_id", result.RunID, "subject", uc.cfg.EventSubject)
}

func (uc *ProcessReportUseCase) recordHistory(ctx context.Context, result dto.RunResult) {
	if uc.history == nil {
		return
	}
	record, err := entity.NewRunRecord(
		result.RunID,
		uc.cfg.Host,
		result.Status,
		result.RebootRequired,
		result.Subject,
		result.ThreadID,
		time.Now().UTC(),
	)
	if err != nil {
		uc.logger.Warn("Failed to build run record", "run_id", result.RunID, "error", err.Error())
		return
	}
	if err := uc.history.Save(ctx, record); err != nil {
		uc.logger.Warn("Failed to save run history", "run_id", result.RunID, "error", err.Error())
		return
	}
	if uc.cfg.HistoryRetention > 0 {
		cutoff := time.Now().UTC().Add(-uc.cfg.HistoryRetention)
		deleted, err := uc.history.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			uc.logger.Warn("Failed to prune run history", "error", err.Error())
			return
		}
		if deleted > 0 {
			uc.logger.Debug("Pruned run history", "deleted", deleted)
		}
	}
}
