package metrics_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gyeh/costfeed/internal/db"
	"github.com/gyeh/costfeed/internal/metrics"
)

const (
	testPort     = 15433
	testDB       = "costfeedtest"
	testUser     = "postgres"
	testPassword = "postgres"
)

var (
	testDSN   string
	pg        *embeddedpostgres.EmbeddedPostgres
	pgStarted bool
)

func TestMain(m *testing.M) {
	testDSN = fmt.Sprintf("postgresql://%s:%s@localhost:%d/%s?sslmode=disable",
		testUser, testPassword, testPort, testDB)

	pg = embeddedpostgres.NewDatabase(
		embeddedpostgres.DefaultConfig().
			Port(uint32(testPort)).
			Database(testDB).
			Username(testUser).
			Password(testPassword).
			Version(embeddedpostgres.V16).
			StartTimeout(30 * time.Second),
	)

	// The render tests do not need a database, so a failed start only skips
	// the query tests.
	if err := pg.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "embedded postgres unavailable, skipping query tests: %v\n", err)
	} else {
		pgStarted = true
	}

	code := m.Run()

	if pgStarted {
		if err := pg.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to stop embedded postgres: %v\n", err)
		}
	}

	os.Exit(code)
}

// setupFactCost creates a fresh fact_cost table seeded with a few rows.
func setupFactCost(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if !pgStarted {
		t.Skip("embedded postgres unavailable")
	}
	ctx := context.Background()

	pool, err := db.NewPool(ctx, testDSN)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	stmts := []string{
		"DROP TABLE IF EXISTS fact_cost",
		"CREATE TABLE fact_cost (feed_name text, cost_usd numeric)",
		`INSERT INTO fact_cost (feed_name, cost_usd) VALUES
			('2024-01.csv', 10.50),
			('2024-02.csv', 20.25),
			('2024-03.csv', 4.25)`,
	}
	for _, s := range stmts {
		if _, err := pool.Exec(ctx, s); err != nil {
			t.Fatalf("seed fact_cost: %v", err)
		}
	}
	return pool
}

func TestRunQuery_RenderedMetrics(t *testing.T) {
	pool := setupFactCost(t)

	defs := &metrics.Definitions{Metrics: []metrics.Metric{
		{Name: "total_cost", Expression: "SUM(cost_usd)"},
		{Name: "row_count", Expression: "COUNT(*)"},
	}}

	res, err := metrics.RunQuery(context.Background(), pool, defs)
	if err != nil {
		t.Fatalf("RunQuery: %v", err)
	}

	if len(res.Columns) != 2 || res.Columns[0] != "total_cost" || res.Columns[1] != "row_count" {
		t.Errorf("Columns = %v", res.Columns)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("Rows = %v, want one aggregate row", res.Rows)
	}
	if res.Rows[0][0] != "35" {
		t.Errorf("total_cost = %s, want 35", res.Rows[0][0])
	}
	if res.Rows[0][1] != "3" {
		t.Errorf("row_count = %s, want 3", res.Rows[0][1])
	}
}

func TestRunQuery_NoMetricsConfigured(t *testing.T) {
	pool := setupFactCost(t)

	res, err := metrics.RunQuery(context.Background(), pool, &metrics.Definitions{})
	if err != nil {
		t.Fatalf("RunQuery: %v", err)
	}
	if len(res.Columns) != 1 || res.Columns[0] != "no_metrics_configured" {
		t.Errorf("Columns = %v", res.Columns)
	}
	// One sentinel value per fact row
	if len(res.Rows) != 3 {
		t.Errorf("Rows = %v, want 3", res.Rows)
	}
}

func TestRunQuery_BadExpression(t *testing.T) {
	pool := setupFactCost(t)

	defs := &metrics.Definitions{Metrics: []metrics.Metric{
		{Name: "broken", Expression: "SUM(no_such_column)"},
	}}
	if _, err := metrics.RunQuery(context.Background(), pool, defs); err == nil {
		t.Fatal("expected error for unknown column")
	}
}
