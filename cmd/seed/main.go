package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/securematch/securematch/infrastructure/adapter/postgres"
	"github.com/securematch/securematch/pkg/keyword"
)

// seed fills the token index with a few demo documents so external searches
// have something to find. Blobs are placeholders, not real ciphertext.
func main() {
	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect db: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping db: %v", err)
	}

	index := postgres.NewSearchIndexAdapter(db)
	seed(ctx, index, getenvDefault("SEED_KEYWORDS", "budget report,quarterly audit,vendor contract"), postgres.TokenScopeExternal)
	// internal-only documents never show up in auditor searches
	seed(ctx, index, getenvDefault("SEED_INTERNAL_KEYWORDS", "payroll draft"), postgres.TokenScopeInternal)
}

func seed(ctx context.Context, index *postgres.SearchIndexAdapter, list string, scope string) {
	for i, kw := range strings.Split(list, ",") {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		blob, _ := json.Marshal(map[string]string{"nonce": "", "ciphertext": fmt.Sprintf("demo-%s-%d", scope, i+1)})
		id, err := index.AddDocument(ctx, blob, []string{keyword.NormalizeAndHash(kw)}, scope)
		if err != nil {
			log.Fatalf("failed to seed document for %q: %v", kw, err)
		}
		fmt.Printf("Seeded %s document id=%d keyword=%q hash=%s\n", scope, id, kw, keyword.NormalizeAndHash(kw))
	}
}

func getenvDefault(k, d string) string {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	return v
}
