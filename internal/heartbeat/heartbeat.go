package heartbeat

import (
	"context"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

// Pinger reports liveness to an external healthcheck URL once per
// successful cycle. Failures are logged and ignored; liveness reporting
// must never take the monitor down.
type Pinger struct {
	url    string
	client *resty.Client
}

func NewPinger(url string) *Pinger {
	client := resty.New()
	client.SetTimeout(10 * time.Second)
	return &Pinger{url: url, client: client}
}

// Enabled reports whether a ping URL is configured.
func (p *Pinger) Enabled() bool { return p.url != "" }

// Ping signals one healthy cycle.
func (p *Pinger) Ping(ctx context.Context) {
	if !p.Enabled() {
		return
	}
	res, err := p.client.R().SetContext(ctx).Get(p.url)
	if err != nil {
		log.Printf("[heartbeat] ⚠️ Ping failed: %v", err)
		return
	}
	if res.IsError() {
		log.Printf("[heartbeat] ⚠️ Ping responded %d", res.StatusCode())
	}
}
