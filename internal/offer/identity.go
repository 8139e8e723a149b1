package offer

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// ID is the stable identity of an offer: 32 lowercase hex characters.
type ID string

// Short returns the first 8 characters for log lines. IDs loaded from a
// hand-edited ledger can be arbitrarily short, so shorter values pass
// through whole.
func (id ID) Short() string {
	if len(id) < 8 {
		return string(id)
	}
	return string(id[:8])
}

// IdentityOf derives the offer's identity from what is being boosted: the
// match, the market and the detail line, joined with "|". Odds are excluded
// on purpose, bookmakers adjust prices on a live boost and that must not
// read as a new offer. Missing fields hash as their placeholder so the
// function is total.
func IdentityOf(o Offer) ID {
	key := strings.Join([]string{
		o.Match.String(),
		o.Market.String(),
		o.Detail.String(),
	}, "|")
	hash := md5.Sum([]byte(key))
	return ID(hex.EncodeToString(hash[:]))
}
