// Package notify delivers generated insight digests to the user over
// Telegram.
package notify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram creates a sender for one chat. chatID is the decimal chat
// identifier as configured.
func NewTelegram(token, chatID string) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram API: %w", err)
	}
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid Telegram chat id %q: %w", chatID, err)
	}
	return &Telegram{api: api, chatID: id}, nil
}

// Send delivers one digest message. LLM output often carries Markdown that
// Telegram would reject, so it is flattened to plain text first.
func (t *Telegram) Send(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, FlattenMarkdown(text))
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send Telegram message: %w", err)
	}
	return nil
}

var (
	headerRe = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*|__(.+?)__`)
	italicRe = regexp.MustCompile(`\*(.+?)\*|_(.+?)_`)
	codeRe   = regexp.MustCompile("`([^`]*)`")
)

// FlattenMarkdown strips the Markdown constructs LLMs commonly emit,
// keeping the text content.
func FlattenMarkdown(text string) string {
	out := headerRe.ReplaceAllString(text, "")
	out = boldRe.ReplaceAllString(out, "$1$2")
	out = italicRe.ReplaceAllString(out, "$1$2")
	out = codeRe.ReplaceAllString(out, "$1")
	return strings.TrimSpace(out)
}
