package tradestore

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"slices"
	"time"

	"github.com/Checker-Finance/tradebook/pkg/model"
)

// Snapshot is the immutable, ordered set of trades served for the process lifetime.
// It is safe for concurrent use; nothing mutates it after New returns.
type Snapshot struct {
	trades      []model.Trade
	byID        map[string]int
	fingerprint string
	loadedAt    time.Time
}

// New validates trades and builds a snapshot over a private copy of them.
// Sides are normalized to upper case; duplicate trade ids are rejected.
func New(trades []model.Trade) (*Snapshot, error) {
	owned := slices.Clone(trades)
	byID := make(map[string]int, len(owned))

	for i := range owned {
		t := &owned[i]
		side, err := model.ParseSide(string(t.Side))
		if err != nil {
			return nil, fmt.Errorf("trade %d (%s): %w", i, t.TradeID, err)
		}
		t.Side = side
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("trade %d: %w", i, err)
		}
		if _, dup := byID[t.TradeID]; dup {
			return nil, fmt.Errorf("duplicate trade_id %q", t.TradeID)
		}
		byID[t.TradeID] = i
	}

	fp, err := fingerprint(owned)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		trades:      owned,
		byID:        byID,
		fingerprint: fp,
		loadedAt:    time.Now().UTC(),
	}, nil
}

// All returns the trades in source order. The caller owns the returned slice.
func (s *Snapshot) All() []model.Trade {
	return slices.Clone(s.trades)
}

// Get looks a trade up by id.
func (s *Snapshot) Get(id string) (model.Trade, bool) {
	i, ok := s.byID[id]
	if !ok {
		return model.Trade{}, false
	}
	return s.trades[i], true
}

func (s *Snapshot) Len() int { return len(s.trades) }

// Fingerprint identifies the snapshot content; equal data yields equal fingerprints.
func (s *Snapshot) Fingerprint() string { return s.fingerprint }

func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

func fingerprint(trades []model.Trade) (string, error) {
	h := fnv.New64a()
	if err := json.NewEncoder(h).Encode(trades); err != nil {
		return "", fmt.Errorf("fingerprint snapshot: %w", err)
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}
