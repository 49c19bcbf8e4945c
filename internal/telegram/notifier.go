// File: internal/telegram/notifier.go
// ============================================
package telegram

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://api.telegram.org"

	// MaxMessageLength is Telegram's sendMessage text limit.
	MaxMessageLength = 4096

	sectionSeparator = "\n\n"

	// longest HTML entity the formatter produces is "&quot;"
	maxEntityLength = 6
)

var htmlTag = regexp.MustCompile(`<[^>]*>`)

type Notifier struct {
	botToken string
	client   *resty.Client
	logger   logrus.FieldLogger
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

func NewNotifier(botToken string, logger logrus.FieldLogger) *Notifier {
	client := resty.New().
		SetBaseURL(DefaultBaseURL).
		SetTimeout(10 * time.Second)

	return &Notifier{
		botToken: botToken,
		client:   client,
		logger:   logger,
	}
}

// SetBaseURL points the notifier at another Bot API server.
func (n *Notifier) SetBaseURL(url string) *Notifier {
	n.client.SetBaseURL(url)
	return n
}

// Send delivers text to chatID, split into several messages when it is
// longer than MaxMessageLength.
func (n *Notifier) Send(ctx context.Context, chatID, text string) error {
	parts := SplitMessage(text, MaxMessageLength)
	for i, part := range parts {
		if err := n.sendMessage(ctx, chatID, part); err != nil {
			return fmt.Errorf("telegram message %d/%d: %w", i+1, len(parts), err)
		}
	}
	return nil
}

func (n *Notifier) sendMessage(ctx context.Context, chatID, message string) error {
	n.logger.Infof("📤 Sending Telegram message to chat ID: %s", chatID)

	var out apiResponse
	resp, err := n.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"chat_id":                  chatID,
			"text":                     message,
			"parse_mode":               "HTML",
			"disable_web_page_preview": "true",
		}).
		SetResult(&out).
		SetError(&out).
		Post(fmt.Sprintf("/bot%s/sendMessage", n.botToken))
	if err != nil {
		n.logger.Errorf("❌ Telegram API error: %v", err)
		return err
	}

	if resp.IsError() || !out.OK {
		n.logger.Errorf("❌ Telegram API response (%d): %s", resp.StatusCode(), resp.String())
		if out.Description != "" {
			return fmt.Errorf("telegram API error (%d): %s", resp.StatusCode(), out.Description)
		}
		return fmt.Errorf("telegram API error (%d): %s", resp.StatusCode(), resp.String())
	}

	n.logger.Info("✅ Telegram message sent successfully")
	return nil
}

// SplitMessage packs the sections of text (separated by blank lines) into
// parts of at most limit bytes. An oversized section is cut at line
// boundaries; a line longer than limit loses its HTML tags and is cut on a
// rune boundary outside any entity.
func SplitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var parts []string
	var current string
	flush := func() {
		if current != "" {
			parts = append(parts, current)
			current = ""
		}
	}

	for _, section := range strings.Split(text, sectionSeparator) {
		if len(section) > limit {
			flush()
			parts = append(parts, splitLines(section, limit)...)
			continue
		}

		switch {
		case current == "":
			current = section
		case len(current)+len(sectionSeparator)+len(section) <= limit:
			current += sectionSeparator + section
		default:
			flush()
			current = section
		}
	}
	flush()
	return parts
}

func splitLines(section string, limit int) []string {
	var parts []string
	var current string
	for _, line := range strings.Split(section, "\n") {
		if len(line) > limit {
			if current != "" {
				parts = append(parts, current)
				current = ""
			}
			parts = append(parts, cutLine(line, limit)...)
			continue
		}

		switch {
		case current == "":
			current = line
		case len(current)+1+len(line) <= limit:
			current += "\n" + line
		default:
			parts = append(parts, current)
			current = line
		}
	}
	if current != "" {
		parts = append(parts, current)
	}
	return parts
}

func cutLine(line string, limit int) []string {
	line = htmlTag.ReplaceAllString(line, "")

	var parts []string
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		if amp := strings.LastIndexByte(line[:cut], '&'); amp > 0 && cut-amp < maxEntityLength &&
			!strings.Contains(line[amp:cut], ";") {
			cut = amp
		}
		parts = append(parts, line[:cut])
		line = line[cut:]
	}
	if line != "" {
		parts = append(parts, line)
	}
	return parts
}
