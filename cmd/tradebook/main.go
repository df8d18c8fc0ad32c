// Command tradebook serves a read-only query API over a fixed set of trade records.
//
//	tradebook serve               # HTTP API (and NATS responder when NATS_URL is set)
//	tradebook generate -o f.json  # write a synthetic {"data": [...]} trade file
package main

import (
	"os"

	"github.com/Checker-Finance/tradebook/cmd/tradebook/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
