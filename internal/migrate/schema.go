package migrate

import (
	"database/sql"

	"github.com/flame-0/2025-nea/internal/logger"
)

// 背景：首次写汇报前自动建表；IF NOT EXISTS 与既有结构共存，仅建最小必需结构
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS _choropleth_runs (
            id SERIAL PRIMARY KEY,
            started_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            records INT NOT NULL,
            matched INT NOT NULL,
            residual INT NOT NULL,
            features INT NOT NULL,
            duration_ms BIGINT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS _choropleth_unmatched (
            run_id INT NOT NULL REFERENCES _choropleth_runs(id),
            province TEXT NOT NULL,
            municipality TEXT NOT NULL,
            barangay TEXT NOT NULL,
            registered_voters BIGINT NOT NULL DEFAULT 0,
            actual_voters BIGINT NOT NULL DEFAULT 0
        )`,
		`CREATE INDEX IF NOT EXISTS idx_unmatched_run ON _choropleth_unmatched(run_id)`,
	}
	for _, q := range stmts {
		if _, err := db.Exec(q); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_ensured")
	return nil
}
