package notifier

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"sjsage522/offerwatch/internal/message"
	"sjsage522/offerwatch/logger"
	"sjsage522/offerwatch/pkg/errors"

	"github.com/go-resty/resty/v2"
)

// DefaultTelegramAPIURL is the public Bot API endpoint
const DefaultTelegramAPIURL = "https://api.telegram.org"

const (
	channelTelegram = "telegram"
	redactedToken   = "<token>"
)

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

// TelegramNotifier posts messages to a single chat through the Bot API
type TelegramNotifier struct {
	client *resty.Client
	token  string
	chatID string
	logger *logger.Logger
}

// NewTelegramNotifier creates a notifier for chatID. An empty apiURL uses the public API.
func NewTelegramNotifier(apiURL, token, chatID string) *TelegramNotifier {
	if apiURL == "" {
		apiURL = DefaultTelegramAPIURL
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(apiURL, "/")).
		SetTimeout(10*time.Second).
		SetHeader("Content-Type", "application/json")

	return &TelegramNotifier{
		client: client,
		token:  token,
		chatID: chatID,
		logger: logger.ForNotifier(),
	}
}

// Notify sends text with MarkdownV2 parse mode
func (n *TelegramNotifier) Notify(ctx context.Context, text string) error {
	var result sendMessageResponse
	res, err := n.client.R().
		SetContext(ctx).
		SetBody(sendMessageRequest{
			ChatID:    n.chatID,
			Text:      text,
			ParseMode: "MarkdownV2",
		}).
		SetResult(&result).
		SetError(&result).
		Post("/bot" + n.token + "/sendMessage")
	if err != nil {
		return errors.NewNotification(channelTelegram, "failed to call sendMessage", n.redact(err))
	}

	if res.IsError() || !result.OK {
		msg := fmt.Sprintf("sendMessage failed with status %d", res.StatusCode())
		if result.Description != "" {
			msg += ": " + result.Description
		}
		return errors.NewNotification(channelTelegram, msg, nil)
	}

	n.logger.Debug().
		Str("chat_id", n.chatID).
		Int("length", len(text)).
		Msg("Sent telegram message")
	return nil
}

// redact drops the request URL from transport errors, it carries the bot token
func (n *TelegramNotifier) redact(err error) error {
	var urlErr *url.Error
	if stderrors.As(err, &urlErr) {
		err = urlErr.Err
	}
	if n.token != "" && strings.Contains(err.Error(), n.token) {
		return stderrors.New(strings.ReplaceAll(err.Error(), n.token, redactedToken))
	}
	return err
}

// Channel names the channel in run summaries
func (n *TelegramNotifier) Channel() string {
	return "Telegram"
}

// NotifyError sends the failure summary
func (n *TelegramNotifier) NotifyError(ctx context.Context, summary string) error {
	return n.Notify(ctx, message.FormatError(summary))
}
