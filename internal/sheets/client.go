package sheets

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/matteo/boostwatch/internal/offer"
)

// Config locates the spreadsheet and the key that may write to it.
type Config struct {
	CredentialsFile string
	SpreadsheetID   string
	Worksheet       string
}

// Client appends accepted offers to a worksheet, one row per offer. It is
// the append-only audit half of the pipeline; nothing here reads rows back
// except column A, which numbers them.
type Client struct {
	cfg     Config
	apiBase string
	tokens  *tokenSource
	client  *resty.Client
}

// New builds the sink. It fails when the key file is named but unreadable,
// misconfigured audit output should stop the process at startup, not
// silently drop rows later.
func New(cfg Config) (*Client, error) {
	client := resty.New()
	client.SetTimeout(15 * time.Second)

	tokens, err := newTokenSource(cfg.CredentialsFile, client)
	if err != nil {
		return nil, err
	}
	return &Client{
		cfg:     cfg,
		apiBase: "https://sheets.googleapis.com/v4/spreadsheets",
		tokens:  tokens,
		client:  client,
	}, nil
}

// AppendOffer writes one row for a newly added offer: a sequential row
// number in column A, the seven data fields in B-H, then four empty
// placeholder columns the sheet's formulas own. Failures are logged here
// and never surface, the sink must not abort a poll cycle.
func (c *Client) AppendOffer(ctx context.Context, o offer.Offer) {
	if err := c.append(ctx, o); err != nil {
		log.Printf("[sheets] ⚠️ Append failed: %v", err)
		return
	}
	log.Printf("[sheets] Row appended for %s", o.Match)
}

func (c *Client) append(ctx context.Context, o offer.Offer) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	nextID, err := c.nextRowID(ctx, token)
	if err != nil {
		return err
	}

	row := []interface{}{
		nextID,
		o.ObservedAt.Format("02/01/2006"),
		o.Sport.String(),
		o.Market.String(),
		o.Detail.String(),
		o.Match.String(),
		o.BaseOdds.String(),
		o.BoostedOdds.String(),
		"", "", "", "",
	}

	res, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("valueInputOption", "USER_ENTERED").
		SetBody(map[string]interface{}{"values": [][]interface{}{row}}).
		Post(fmt.Sprintf("%s/%s/values/%s:append", c.apiBase, c.cfg.SpreadsheetID, url.PathEscape(c.rangeRef())))
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("append responded %d: %s", res.StatusCode(), res.String())
	}
	return nil
}

// nextRowID counts the filled cells in column A. With the header in row 1,
// the count is exactly the next sequential number.
func (c *Client) nextRowID(ctx context.Context, token string) (int, error) {
	var payload struct {
		Values [][]interface{} `json:"values"`
	}
	res, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&payload).
		Get(fmt.Sprintf("%s/%s/values/%s", c.apiBase, c.cfg.SpreadsheetID, url.PathEscape(c.rangeRef())))
	if err != nil {
		return 0, fmt.Errorf("read id column: %w", err)
	}
	if res.IsError() {
		return 0, fmt.Errorf("read id column responded %d: %s", res.StatusCode(), res.String())
	}
	return len(payload.Values), nil
}

// rangeRef quotes the worksheet name for A1 notation; sheet tabs routinely
// carry spaces and the occasional apostrophe.
func (c *Client) rangeRef() string {
	name := strings.ReplaceAll(c.cfg.Worksheet, "'", "''")
	return fmt.Sprintf("'%s'!A:A", name)
}
