package generator

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Checker-Finance/tradebook/pkg/model"
)

var (
	assetClasses = []string{"Bond", "Equity", "Crypto", "Stock"}
	firstNames   = []string{"Irvin", "Lindsay", "Selina", "Alanna", "Desmond", "Gabriela", "Pearl", "Stetson",
		"Jazlynn", "Kyara", "Darrin", "Kylan", "Kameron", "Laney", "Kelis"}
	lastNames = []string{"Richard", "Funk", "Blanchard", "Orellana", "Mull", "Willingham", "Earley", "Schell",
		"Sheehan", "Galvez", "Tuck", "Kinder", "Sadler", "Oreilly", "Levy"}
	instrumentIDs   = []string{"FLPK", "AMAZ", "TT", "NFX", "NVDA", "APL", "GOOG", "MT", "MSFT"}
	instrumentNames = map[string]string{
		"FLPK": "Flipkart", "AMAZ": "Amazon", "TT": "TATA", "NFX": "Netflix", "NVDA": "Nvidia",
		"APL": "Apple", "GOOG": "Google", "MT": "Meta", "MSFT": "Microsoft",
	}
	sides = []model.Side{model.SideBuy, model.SideSell}
)

const (
	minIDNumber = 100000
	maxIDNumber = 999999
	maxCount    = maxIDNumber - minIDNumber + 1
	historyDays = 99
)

// Config controls the synthetic dataset.
type Config struct {
	Count int
	Seed  uint64
	// Now anchors trade dates; trades fall on one of the historyDays days before it.
	Now time.Time
}

// DefaultConfig mirrors the 500-trade dataset the service has always booted with.
func DefaultConfig() Config {
	return Config{Count: 500, Seed: 1, Now: time.Now().UTC()}
}

// Generate builds Count trades deterministically from Seed and Now.
func Generate(cfg Config) ([]model.Trade, error) {
	if cfg.Count < 0 || cfg.Count > maxCount {
		return nil, fmt.Errorf("generator count must be within [0, %d], got %d", maxCount, cfg.Count)
	}
	if cfg.Now.IsZero() {
		cfg.Now = time.Now().UTC()
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	days := make([]time.Time, historyDays)
	for i := range days {
		days[i] = cfg.Now.AddDate(0, 0, -(i + 1)).Truncate(time.Second)
	}

	used := make(map[string]struct{}, cfg.Count)
	trades := make([]model.Trade, 0, cfg.Count)
	for len(trades) < cfg.Count {
		id := fmt.Sprintf("TRD-%d", minIDNumber+rng.IntN(maxCount))
		if _, dup := used[id]; dup {
			continue
		}
		used[id] = struct{}{}

		instrument := pick(rng, instrumentIDs)
		price := decimal.NewFromFloat(2 + rng.Float64()*398).Round(2)
		trades = append(trades, model.Trade{
			TradeID:        id,
			AssetClass:     pick(rng, assetClasses),
			Counterparty:   pick(rng, firstNames) + " " + pick(rng, lastNames),
			InstrumentID:   instrument,
			InstrumentName: instrumentNames[instrument],
			TradeDateTime:  pick(rng, days),
			Side:           pick(rng, sides),
			Price:          price,
			Quantity:       int64(1 + rng.IntN(200)),
			Trader:         pick(rng, firstNames) + " " + pick(rng, lastNames),
		})
	}
	return trades, nil
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}
