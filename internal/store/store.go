// 包 store：构建结果的 PostgreSQL 汇报层
// 背景：匹配/未匹配统计是数据质量的用户侧信号，落库便于跨次构建比对回归；
// 残余未匹配记录整表写入供人工排查命名分歧。
// 约束：汇报层整体可选，连接失败只告警，绝不影响产物生成。
package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	"github.com/flame-0/2025-nea/internal/logger"
	"github.com/flame-0/2025-nea/internal/pipeline"
	"github.com/flame-0/2025-nea/internal/results"
)

// Store：数据库访问入口，持有连接池
type Store struct {
	db *sql.DB
}

// Open：以 DSN 打开连接并配置连接池
// 背景：批处理只在收尾写两批数据，连接池压到最小即可
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// InsertRun：写入一次构建的汇总行，返回自增 run id
func (s *Store) InsertRun(ctx context.Context, st *pipeline.Stats, features int, dur time.Duration) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO _choropleth_runs(records, matched, residual, features, duration_ms)
         VALUES($1,$2,$3,$4,$5) RETURNING id`,
		st.Records, st.Matched, st.Residual, features, dur.Milliseconds(),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	logger.L().Info("report_run_written", "run_id", id)
	return id, nil
}

// InsertResiduals：批量写入残余未匹配记录
// 背景：单事务逐条预编译插入；量级在千行以内，无需拆批。
func (s *Store) InsertResiduals(ctx context.Context, runID int64, recs []*results.Record) error {
	if len(recs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO _choropleth_unmatched(run_id, province, municipality, barangay, registered_voters, actual_voters)
         VALUES($1,$2,$3,$4,$5,$6)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range recs {
		if _, err := stmt.ExecContext(ctx, runID,
			r.Key.Province, r.Key.Municipality, r.Key.Barangay,
			r.RegisteredVoters, r.ActualVoters); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	logger.L().Info("report_residuals_written", "run_id", runID, "rows", len(recs))
	return nil
}
