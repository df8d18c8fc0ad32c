package query

import (
	"context"
	"testing"
	"time"

	"github.com/Checker-Finance/tradebook/internal/generator"
)

func newBenchService(b *testing.B, n int) *Service {
	trades, err := generator.Generate(generator.Config{Count: n, Seed: 7, Now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		b.Fatalf("failed to generate trades: %v", err)
	}
	return NewService(memStore(trades), nil)
}

func BenchmarkListSortedByPrice(b *testing.B) {
	ctx := context.Background()
	svc := newBenchService(b, 5000)
	p := ListParams{Page: 3, PageRate: 50, SortBy: SortByPrice, Desc: true}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := svc.List(ctx, p); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSearchCaseInsensitive(b *testing.B) {
	ctx := context.Background()
	svc := newBenchService(b, 5000)
	p := SearchParams{ListParams: ListParams{Page: 1, PageRate: 10}, Search: "goog"}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := svc.Search(ctx, p); err != nil {
			b.Fatal(err)
		}
	}
}
