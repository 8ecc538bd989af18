package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/roseline-games/blackjack-server/internal/advisor"
	"github.com/roseline-games/blackjack-server/internal/history"
)

// storecheck pings every backing service the blackjack server depends on and
// reports what it finds. Handy when wiring up a new deployment.
func main() {
	redisURL := strings.TrimSpace(os.Getenv("REDIS_URL"))
	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	geminiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	geminiBase := strings.TrimSpace(os.Getenv("GEMINI_BASE_URL"))
	if geminiBase == "" {
		geminiBase = "https://generativelanguage.googleapis.com"
	}

	if redisURL == "" {
		log.Fatal("REDIS_URL is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("redis url error: %v", err)
	}
	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis: FAIL (%v)", err)
	} else {
		log.Printf("redis: ok (%s)", opts.Addr)
	}
	cancel()
	_ = rdb.Close()

	if databaseURL == "" {
		log.Println("postgres: skipped (DATABASE_URL not set)")
	} else {
		repo, err := history.NewRepository(databaseURL)
		if err != nil {
			log.Printf("postgres: FAIL (%v)", err)
		} else {
			sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := repo.EnsureSchema(sctx); err != nil {
				log.Printf("postgres: connected, schema FAIL (%v)", err)
			} else {
				log.Println("postgres: ok (schema ready)")
			}
			scancel()
			_ = repo.Close()
		}
	}

	if geminiKey == "" {
		log.Println("advisor: skipped (GEMINI_API_KEY not set)")
		return
	}
	adv := advisor.NewClient(geminiBase, geminiKey, advisor.WithTimeout(8*time.Second))
	actx, acancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer acancel()
	move, err := adv.Suggest(actx, []string{"10", "6"}, "9")
	if err != nil {
		log.Printf("advisor: FAIL (%v)", err)
		return
	}
	log.Printf("advisor: ok (16 vs 9 -> %s)", move)
}
