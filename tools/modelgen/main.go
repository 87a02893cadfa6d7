package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gen"
	"gorm.io/gorm"
)

// Tables owned by the engine schema. schema_migrations is bookkeeping and
// has no model.
var tables = []string{
	"player_sessions",
	"action_executions",
	"domain_events",
	"player_credentials",
	"item_balances",
	"item_delta_outbox",
	"player_boosts",
}

func main() {
	var dsn, out string
	flag.StringVar(&dsn, "dsn", os.Getenv("ACTIONFORGE_DB_DSN"), "postgres dsn")
	flag.StringVar(&out, "out", "internal/adapter/repo/gorm/model", "output dir for generated models")
	flag.Parse()

	if dsn == "" {
		log.Fatal("missing --dsn or ACTIONFORGE_DB_DSN")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:       out,
		ModelPkgPath:  "model",
		Mode:          gen.WithoutContext,
		FieldNullable: true,
	})
	g.UseDB(db)
	g.WithDataTypeMap(map[string]func(gorm.ColumnType) string{
		"jsonb": func(gorm.ColumnType) string { return "[]byte" },
	})
	for _, table := range tables {
		g.GenerateModel(table)
	}
	g.Execute()

	fmt.Printf("generated gorm models for %d tables at %s\n", len(tables), out)
}
