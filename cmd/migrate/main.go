// Command migrate rewrites legacy profile ids in every tenant database and
// merges duplicate profiles. Safe to run more than once.
package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"basket-backend/config"
	"basket-backend/store"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
)

var systemDatabases = map[string]bool{"admin": true, "local": true, "config": true}

func main() {
	only := flag.String("tenant", "", "migrate a single tenant database")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	cfg := config.Load()

	client, err := config.ConnectDB(cfg.MongoURI, cfg.MongoMode)
	if err != nil {
		log.Fatal().Err(err).Msg("connect")
	}
	defer client.Disconnect(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	tenants := []string{*only}
	if *only == "" {
		names, err := client.ListDatabaseNames(ctx, bson.D{})
		if err != nil {
			log.Fatal().Err(err).Msg("list databases")
		}
		tenants = tenantDatabases(names, cfg.CatalogDB, cfg.OrdersDB)
	}

	profiles := store.NewTenantStore(store.NewTenantSelector(client))
	failed := 0
	for _, tenant := range tenants {
		report, err := profiles.MigrateProfiles(ctx, tenant)
		if err != nil {
			failed++
			log.Error().Err(err).Str("tenant", tenant).Msg("migrate profiles")
			continue
		}
		log.Info().
			Str("tenant", tenant).
			Int("total", report.TotalProfiles).
			Int("fixed", report.FixedCount).
			Int("deleted", report.DeletedCount).
			Msg("profiles migrated")
	}

	log.Info().Int("tenants", len(tenants)).Int("failed", failed).Msg("migration finished")
	if failed > 0 {
		os.Exit(1)
	}
}

// tenantDatabases keeps the names shaped like "<username>_<phone>".
func tenantDatabases(names []string, shared ...string) []string {
	skip := make(map[string]bool, len(shared))
	for _, name := range shared {
		skip[name] = true
	}

	var out []string
	for _, name := range names {
		if systemDatabases[name] || skip[name] || !strings.Contains(name, "_") {
			continue
		}
		out = append(out, name)
	}
	return out
}
