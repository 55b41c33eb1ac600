package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// UpsertConfig describes one bulk upsert: which table, which columns the
// rows carry, and which columns form the unique constraint. On conflict,
// every non-key column is overwritten from the incoming row.
type UpsertConfig struct {
	Table        string
	Columns      []string
	ConflictKeys []string
}

// BulkUpsert writes rows through a transaction-scoped temp table: COPY is an
// order of magnitude faster than batched INSERTs, but COPY alone cannot
// express ON CONFLICT, so the rows land in a temp table first and a single
// INSERT ... SELECT moves them across with conflict handling. The temp table
// drops itself on commit. Returns the number of rows written.
func BulkUpsert(ctx context.Context, pool Pool, cfg UpsertConfig, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if len(cfg.Columns) == 0 {
		return 0, eris.New("db: upsert: no columns specified")
	}
	if len(cfg.ConflictKeys) == 0 {
		return 0, eris.New("db: upsert: no conflict keys specified")
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "db: upsert: begin tx")
	}
	defer tx.Rollback(ctx)

	staging := "_tmp_upsert_" + cfg.Table

	createSQL := "CREATE TEMP TABLE " + quoteIdent(staging) +
		" (LIKE " + quoteIdent(cfg.Table) + " INCLUDING DEFAULTS) ON COMMIT DROP"
	if _, err := tx.Exec(ctx, createSQL); err != nil {
		return 0, eris.Wrapf(err, "db: upsert: create staging table for %s", cfg.Table)
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{staging}, cfg.Columns, pgx.CopyFromRows(rows)); err != nil {
		return 0, eris.Wrapf(err, "db: upsert: COPY into staging table for %s", cfg.Table)
	}

	tag, err := tx.Exec(ctx, mergeSQL(cfg, staging))
	if err != nil {
		return 0, eris.Wrapf(err, "db: upsert: merge into %s", cfg.Table)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "db: upsert: commit tx")
	}
	return tag.RowsAffected(), nil
}

// mergeSQL builds the INSERT ... SELECT ... ON CONFLICT DO UPDATE statement
// that moves rows from the staging table into the target.
func mergeSQL(cfg UpsertConfig, staging string) string {
	keys := make(map[string]bool, len(cfg.ConflictKeys))
	for _, k := range cfg.ConflictKeys {
		keys[k] = true
	}

	var sets []string
	for _, col := range cfg.Columns {
		if !keys[col] {
			q := quoteIdent(col)
			sets = append(sets, q+" = EXCLUDED."+q)
		}
	}

	cols := quoteList(cfg.Columns)
	var b strings.Builder
	b.WriteString("INSERT INTO " + quoteIdent(cfg.Table) + " (" + cols + ")")
	b.WriteString(" SELECT " + cols + " FROM " + quoteIdent(staging))
	b.WriteString(" ON CONFLICT (" + quoteList(cfg.ConflictKeys) + ")")
	b.WriteString(" DO UPDATE SET " + strings.Join(sets, ", "))
	return b.String()
}

func quoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func quoteList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
	}
	return strings.Join(quoted, ", ")
}
