package port

import "github.com/nakool/upgrade-notify/internal/application/dto"

// MessageComposer renders run results into transport message payloads
// (Port). It owns all presentation decisions — headers, emoji placement,
// mention rendering — so the use case never builds blocks itself.
type MessageComposer interface {
	// MainMessage builds the top-level notification for a classified run.
	MainMessage(result dto.RunResult) []Block

	// DetailsMessage builds the threaded follow-up carrying the main
	// content section verbatim.
	DetailsMessage(content string) []Block

	// LogMessage builds the threaded follow-up carrying the package
	// installation log.
	LogMessage(logContent string) []Block

	// ErrorMessage builds an error-styled notification for a run that
	// could not be parsed, with the failure reason spelled out.
	ErrorMessage(reason string) []Block
}
