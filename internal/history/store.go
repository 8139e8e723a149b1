package history

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/matteo/boostwatch/internal/offer"
)

// History is the durable ledger of every offer ever observed, keyed by
// identity. Entries are never deleted; a removal only flips Active off.
type History map[offer.ID]offer.Offer

// ActiveCount returns how many entries are still marked active.
func (h History) ActiveCount() int {
	n := 0
	for _, o := range h {
		if o.Active {
			n++
		}
	}
	return n
}

// Store reads and writes the ledger as a single JSON document on disk.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load reads the ledger. A missing, unreadable or corrupt file is logged and
// treated as empty: the monitor must come up either way, and the next Save
// rebuilds the file.
func (s *Store) Load() History {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[history] No ledger at %s yet, starting empty", s.path)
		} else {
			log.Printf("[history] ⚠️ Cannot read %s: %v, starting empty", s.path, err)
		}
		return History{}
	}

	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		log.Printf("[history] ⚠️ Corrupt ledger %s: %v, starting empty", s.path, err)
		return History{}
	}
	if h == nil {
		// A file holding JSON null decodes into a nil map without error.
		log.Printf("[history] ⚠️ Ledger %s holds null, starting empty", s.path)
		return History{}
	}
	return h
}

// Save writes the whole ledger atomically: encode into a temp file next to
// the target, then rename over it, so a crash mid-write can never leave a
// truncated file. The document stays human-readable: two-space indent, HTML
// escaping off, so accented text and symbols survive byte for byte.
func (s *Store) Save(h History) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(h); err != nil {
		tmp.Close()
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp ledger: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}
