// 包 results：选票表读入与按行政村聚合
// 背景：选票 CSV 一行对应一个计票分组（clustered precinct），同一行政村有多行，
// 聚合后才与多边形一一对应；聚合只依赖表内文本键，与几何完全无关。
// 约束：聚合完成后的记录视为只读；数值字段缺失或非法一律按零累加，绝不报错。
package results

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/flame-0/2025-nea/internal/logger"
)

// Key：行政村聚合键，取自选票表的原始大写文本
type Key struct {
	Province     string
	Municipality string
	Barangay     string
}

// Record：单个行政村的聚合计票
type Record struct {
	Key              Key
	RegisteredVoters int64
	ActualVoters     int64
	Votes            map[string]int64
}

// Table：聚合结果集；Records 保持首次出现顺序，保证后续匹配枚举确定
type Table struct {
	Records []*Record
	Rows    int // 进入聚合的源表行数（剔除 OAV/LAV 后）
	byKey   map[Key]*Record
}

func NewTable() *Table {
	return &Table{byKey: map[Key]*Record{}}
}

func (t *Table) Get(k Key) (*Record, bool) {
	r, ok := t.byKey[k]
	return r, ok
}

func (t *Table) Len() int { return len(t.Records) }

func (t *Table) upsert(k Key) *Record {
	if r, ok := t.byKey[k]; ok {
		return r
	}
	r := &Record{Key: k, Votes: map[string]int64{}}
	t.byKey[k] = r
	t.Records = append(t.Records, r)
	return r
}

// atoi：计票数值解析，缺失/非法按零处理
func atoi(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Aggregate：读取一份选票 CSV 并聚合到行政村级
// 背景：mapping 为候选人标识→若干列名（联盟标识聚合多名候选人的列）；
// 不在表头中的列按文件静默忽略，两份 CSV 的候选人列集合天然不同。
// 约束：region 为 OAV/LAV（海外/本地缺席投票）的行没有对应几何，整行剔除。
func Aggregate(r io.Reader, mapping map[string][]string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, err
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	// 候选人标识 → 表内实际存在的列下标
	candCols := map[string][]int{}
	for id, names := range mapping {
		for _, name := range names {
			if i, ok := col[name]; ok {
				candCols[id] = append(candCols[id], i)
			}
		}
	}

	t := NewTable()
	rows := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		region := field(row, "region")
		if region == "OAV" || region == "LAV" {
			continue
		}
		k := Key{
			Province:     field(row, "province"),
			Municipality: field(row, "municipality"),
			Barangay:     field(row, "barangay"),
		}
		rec := t.upsert(k)
		rec.RegisteredVoters += atoi(field(row, "registeredVoters"))
		rec.ActualVoters += atoi(field(row, "actualVoters"))
		for id, cols := range candCols {
			for _, i := range cols {
				if i < len(row) {
					rec.Votes[id] += atoi(row[i])
				}
			}
		}
		rows++
	}
	t.Rows = rows
	logger.L().Info("aggregate_done", "rows", rows, "records", t.Len())
	return t, nil
}

// AggregateFile：按路径聚合，入口便捷封装
func AggregateFile(path string, mapping map[string][]string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Aggregate(f, mapping)
}

// Merge：合并两份契约重叠的聚合结果（参议员票 + 政党名单票）
// 背景：两表覆盖同一批行政村与同一批选民，选民数只能取一份；两键并存时
// 取第一份（参议员表）的登记/实投数，候选人票并集。
// 约束：选民数绝不相加，否则同一选民被计两次。
func Merge(primary, secondary *Table) *Table {
	out := NewTable()
	for _, r := range primary.Records {
		m := out.upsert(r.Key)
		m.RegisteredVoters = r.RegisteredVoters
		m.ActualVoters = r.ActualVoters
		for id, v := range r.Votes {
			m.Votes[id] = v
		}
	}
	for _, r := range secondary.Records {
		m, seen := out.Get(r.Key)
		if !seen {
			m = out.upsert(r.Key)
			m.RegisteredVoters = r.RegisteredVoters
			m.ActualVoters = r.ActualVoters
		}
		for id, v := range r.Votes {
			m.Votes[id] = v
		}
	}
	logger.L().Info("merge_done", "primary", primary.Len(), "secondary", secondary.Len(), "merged", out.Len())
	return out
}
