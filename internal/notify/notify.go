package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Channel identifies one of the supported notification transports.
type Channel string

const (
	ChannelChatBot Channel = "dingding"
	ChannelEmail   Channel = "email"
	ChannelPush    Channel = "push"
)

// ErrUnknownChannel is returned when a dispatch names a channel outside the
// supported set. No delivery is attempted in that case.
var ErrUnknownChannel = errors.New("unknown notification channel")

// numeric type codes the notice service expects per channel
const (
	typeCodeEmail   = 1
	typeCodePush    = 3
	typeCodeChatBot = 4
)

// Message is the JSON body posted to the notice service.
type Message struct {
	Message  string `json:"message"`
	From     string `json:"from"`
	To       string `json:"to"`
	Type     int    `json:"type"`
	Title    string `json:"title"`
	Subject  string `json:"subject,omitempty"`
	MailType int    `json:"mailType,omitempty"`
	Priority int    `json:"priority,omitempty"`
}

// Result carries the notice service's response verbatim so callers can log or
// surface it.
type Result struct {
	Channel    Channel `json:"channel"`
	StatusCode int     `json:"statusCode"`
	Body       string  `json:"body"`
}

// Config holds the notice service location and per-channel sender/recipient
// defaults.
type Config struct {
	BaseURL string

	ChatFrom string
	ChatTo   string

	MailFrom    string
	MailTo      string
	MailSubject string
}

// Dispatcher routes rendered messages to the external notice service. One
// delivery attempt per call; there is no retry yet (see Warn).
type Dispatcher struct {
	cfg    Config
	client *http.Client
}

// NewDispatcher creates a Dispatcher. A nil client falls back to
// http.DefaultClient.
func NewDispatcher(cfg Config, client *http.Client) *Dispatcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Dispatcher{cfg: cfg, client: client}
}

// Dispatch builds the channel-specific payload for message/title and posts it
// to the channel's endpoint.
func (d *Dispatcher) Dispatch(ctx context.Context, channel Channel, message, title string) (Result, error) {
	var (
		path string
		body Message
	)

	switch channel {
	case ChannelChatBot:
		path = "/notice/dingding"
		body = Message{
			Message: message,
			From:    d.cfg.ChatFrom,
			To:      d.cfg.ChatTo,
			Type:    typeCodeChatBot,
			Title:   title,
		}
	case ChannelEmail:
		path = "/notice/email"
		body = Message{
			Message:  message,
			From:     d.cfg.MailFrom,
			To:       d.cfg.MailTo,
			Type:     typeCodeEmail,
			Title:    title,
			Subject:  d.cfg.MailSubject,
			MailType: 1,
		}
	case ChannelPush:
		path = "/notice"
		body = Message{
			Message: message,
			From:    d.cfg.ChatFrom,
			To:      d.cfg.ChatTo,
			Type:    typeCodePush,
			Title:   title,
		}
	default:
		return Result{Channel: channel}, fmt.Errorf("%w: %q", ErrUnknownChannel, channel)
	}

	return d.post(ctx, channel, path, body)
}

func (d *Dispatcher) post(ctx context.Context, channel Channel, path string, body Message) (Result, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return Result{Channel: channel}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return Result{Channel: channel}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return Result{Channel: channel}, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Channel: channel, StatusCode: resp.StatusCode}, err
	}

	return Result{
		Channel:    channel,
		StatusCode: resp.StatusCode,
		Body:       string(respBody),
	}, nil
}
