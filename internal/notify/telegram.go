package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/matteo/boostwatch/internal/offer"
)

// Telegram announces offer events to one or more chats through the Bot API.
// Every send is best-effort: failures are logged here and never reach the
// caller, messaging must not stall or abort a poll cycle.
type Telegram struct {
	token   string
	chatIDs []string
	apiBase string
	client  *resty.Client
}

func NewTelegram(token string, chatIDs []string) *Telegram {
	client := resty.New()
	client.SetTimeout(10 * time.Second)
	return &Telegram{
		token:   token,
		chatIDs: chatIDs,
		apiBase: "https://api.telegram.org",
		client:  client,
	}
}

// Enabled reports whether there is a token and at least one chat to talk to.
func (t *Telegram) Enabled() bool {
	return t.token != "" && len(t.chatIDs) > 0
}

// OfferAdded announces a fresh boost.
func (t *Telegram) OfferAdded(ctx context.Context, o offer.Offer) {
	t.broadcast(ctx, formatAdded(o))
}

// OfferRemoved announces that a boost left the page.
func (t *Telegram) OfferRemoved(ctx context.Context, o offer.Offer) {
	t.broadcast(ctx, formatRemoved(o))
}

// System sends an operational notice, used for fatal stops and shutdowns.
func (t *Telegram) System(ctx context.Context, text string) {
	t.broadcast(ctx, text)
}

func (t *Telegram) broadcast(ctx context.Context, text string) {
	if !t.Enabled() {
		return
	}
	for _, chatID := range t.chatIDs {
		if err := t.send(ctx, chatID, text); err != nil {
			log.Printf("[telegram] ⚠️ Send to chat %s failed: %v", chatID, err)
		} else {
			log.Printf("[telegram] Notified chat %s", chatID)
		}
	}
}

func (t *Telegram) send(ctx context.Context, chatID, text string) error {
	res, err := t.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"chat_id":    chatID,
			"text":       text,
			"parse_mode": "Markdown",
		}).
		Post(fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.token))
	if err != nil {
		return err
	}
	if res.IsError() {
		return fmt.Errorf("telegram responded %d: %s", res.StatusCode(), res.String())
	}
	return nil
}
