package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/linkerr-app/linkerr/internal/db"
)

// Recomputes every service's rating and num_reviews from the reviews
// table. Useful after restoring a backup or if a crash left aggregates
// stale.
func main() {
	dryRun := flag.Bool("dry-run", false, "report stale aggregates without writing")
	flag.Parse()

	_ = godotenv.Load()
	db.Init()

	ctx := context.Background()

	if *dryRun {
		var stale int
		err := db.Conn.QueryRow(ctx, `
            SELECT COUNT(*) FROM services s
            WHERE s.num_reviews <> (SELECT COUNT(*) FROM reviews r WHERE r.service_id = s.id)
               OR s.rating <> (SELECT COALESCE(AVG(rating), 0)::float FROM reviews r WHERE r.service_id = s.id)
        `).Scan(&stale)
		if err != nil {
			log.Fatalf("failed to check aggregates: %v", err)
		}
		log.Printf("%d service(s) with stale aggregates", stale)
		return
	}

	ct, err := db.Conn.Exec(ctx, `
        UPDATE services s
        SET rating = agg.avg_rating,
            num_reviews = agg.cnt,
            updated_at = NOW()
        FROM (
            SELECT service_id,
                   COALESCE(AVG(rating), 0)::float AS avg_rating,
                   COUNT(*) AS cnt
            FROM reviews GROUP BY service_id
        ) agg
        WHERE s.id = agg.service_id
          AND (s.rating <> agg.avg_rating OR s.num_reviews <> agg.cnt)
    `)
	if err != nil {
		log.Fatalf("failed to recount ratings: %v", err)
	}

	log.Printf("updated %d service(s)", ct.RowsAffected())
}
