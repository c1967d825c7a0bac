package slack

import (
	"fmt"

	"github.com/nakool/upgrade-notify/internal/application/dto"
	"github.com/nakool/upgrade-notify/internal/application/port"
	"github.com/nakool/upgrade-notify/internal/domain/service"
	"github.com/nakool/upgrade-notify/internal/domain/valueobject"
)

const (
	rebootEmoji        = ":arrows_counterclockwise:"
	detailsHeader      = ":pencil: Update Details"
	logHeader          = ":clipboard: Package Installation Log"
	mainMessageHeader  = "Package Update"
	errorContentFormat = "An error occurred during the update process: %s"
)

// BlockComposer implements port.MessageComposer with Slack Block Kit
// payloads, mirroring the upgrade email's structure: a status card, a
// details thread message, and a log thread message.
type BlockComposer struct {
	hostname    string
	username    string
	botUsername string
	mentions    map[valueobject.UpdateStatus][]string
}

// NewBlockComposer creates a composer. mentions maps each status to the
// targets called out in the main message.
func NewBlockComposer(hostname, username, botUsername string, mentions map[valueobject.UpdateStatus][]string) *BlockComposer {
	return &BlockComposer{
		hostname:    hostname,
		username:    username,
		botUsername: botUsername,
		mentions:    mentions,
	}
}

// MainMessage builds the top-level status card for a classified run.
func (c *BlockComposer) MainMessage(result dto.RunResult) []port.Block {
	rule := service.RuleFor(result.Status)

	rebootText := "Not Required"
	rebootGlyph := ""
	if result.RebootRequired {
		rebootText = "Required"
		rebootGlyph = rebootEmoji
	}
	// A failed run makes the reboot state unreliable; flag it.
	if result.Status == valueobject.StatusFailed {
		rebootGlyph = ":warning:"
	}

	blocks := []port.Block{
		{
			"type": "header",
			"text": plainText(mainMessageHeader),
		},
		{
			"type": "section",
			"fields": []map[string]string{
				mrkdwn(fmt.Sprintf("*Status:*\n%s %s", rule.Emoji(), rule.Label())),
				mrkdwn(fmt.Sprintf("*Reboot:*\n%s %s\n", rebootGlyph, rebootText)),
			},
		},
		{
			"type": "context",
			"elements": []map[string]string{
				plainText(fmt.Sprintf("info: HOSTNAME: %s, USERNAME: %s, BOT_USERNAME: %s",
					c.hostname, c.username, c.botUsername)),
			},
		},
	}

	if result.MentionText != "" {
		blocks = append(blocks, port.Block{
			"type": "section",
			"text": mrkdwn("*Notify:* " + result.MentionText),
		})
	}

	return blocks
}

// DetailsMessage builds the threaded follow-up carrying the main content.
func (c *BlockComposer) DetailsMessage(content string) []port.Block {
	return []port.Block{
		{
			"type": "header",
			"text": plainText(detailsHeader),
		},
		{
			"type": "section",
			"text": mrkdwn("```" + content + "```"),
		},
	}
}

// LogMessage builds the threaded follow-up carrying the installation log.
func (c *BlockComposer) LogMessage(logContent string) []port.Block {
	return []port.Block{
		{
			"type": "header",
			"text": plainText(logHeader),
		},
		{
			"type": "rich_text",
			"elements": []map[string]interface{}{
				{
					"type": "rich_text_preformatted",
					"elements": []map[string]string{
						{
							"type": "text",
							"text": logContent,
						},
					},
				},
			},
		},
	}
}

// ErrorMessage builds an error-styled status card for a run that could
// not be parsed, with the failure reason spelled out at the end.
func (c *BlockComposer) ErrorMessage(reason string) []port.Block {
	failed := dto.RunResult{
		Subject:        "ERROR: " + reason,
		Content:        fmt.Sprintf(errorContentFormat, reason),
		Status:         valueobject.StatusFailed,
		StatusLabel:    service.RuleFor(valueobject.StatusFailed).Label(),
		MentionText:    dto.FormatMentions(c.mentions[valueobject.StatusFailed]),
		RebootRequired: false,
	}

	blocks := c.MainMessage(failed)
	blocks = append(blocks, port.Block{
		"type": "section",
		"text": mrkdwn("*Reason:* " + reason),
	})
	return blocks
}

func plainText(text string) map[string]string {
	return map[string]string{
		"type": "plain_text",
		"text": text,
	}
}

func mrkdwn(text string) map[string]string {
	return map[string]string{
		"type": "mrkdwn",
		"text": text,
	}
}
