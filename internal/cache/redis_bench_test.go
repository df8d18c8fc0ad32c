package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func BenchmarkFetchHit(b *testing.B) {
	mr, err := miniredis.Run()
	if err != nil {
		b.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	c := NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "bench", time.Minute, nil)
	ctx := context.Background()
	render := func() ([]byte, error) { return []byte(`{"page":"1/50"}`), nil }
	if _, err := c.Fetch(ctx, "listing:bench", render); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := c.Fetch(ctx, "listing:bench", render); err != nil {
			b.Fatal(err)
		}
	}
}
