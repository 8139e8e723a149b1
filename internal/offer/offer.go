package offer

import (
	"fmt"
	"strconv"
	"time"
)

// timeLayout is the timestamp format stored in history files. Existing files
// use it, so round-trips depend on it staying fixed.
const timeLayout = "2006-01-02 15:04:05"

// Timestamp is a second-precision local time with a stable JSON rendering.
type Timestamp struct {
	time.Time
}

// Now returns the current time truncated to whole seconds.
func Now() Timestamp {
	return Timestamp{time.Now().Truncate(time.Second)}
}

func (t Timestamp) String() string {
	return t.Format(timeLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.Format(timeLayout))), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("timestamp must be a JSON string: %w", err)
	}
	parsed, err := time.ParseInLocation(timeLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// Offer is one boosted-odds promotion as observed on the listing page.
type Offer struct {
	Sport       Field     `json:"sport"`
	Detail      Field     `json:"detail_text"`
	Match       Field     `json:"match_label"`
	Market      Field     `json:"market_type"`
	BaseOdds    Field     `json:"base_odds"`
	BoostedOdds Field     `json:"boosted_odds"`
	ObservedAt  Timestamp `json:"observed_at"`
	Active      bool      `json:"active"`
}

// HasEssentials reports whether the offer carries the fields without which
// it cannot be identified or announced. Offers failing this are discarded at
// reconciliation instead of polluting the history.
func (o Offer) HasEssentials() bool {
	return o.Match.Ok() && o.BoostedOdds.Ok()
}
