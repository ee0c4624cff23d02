package match

import (
	"strings"

	"github.com/flame-0/2025-nea/internal/results"
)

// MatchedRecord：级联命中的记录单元；别名指向聚合记录，便于日后挂接命中层级元信息
type MatchedRecord = results.Record

// Index：单个市镇范围内"尚未匹配"聚合记录的四路查找视图
// 背景：级联各层分别命中原文键、规范键、去后缀规范键、去括号规范键；
// 同一规范名可能对应多条记录（分村），多值槽保持记录加入顺序。
// 约束：视图在一轮匹配内只读；跨阶段的剔除通过按已匹配集重建索引完成。
type Index struct {
	exact    map[string]*results.Record
	norm     map[string][]*results.Record
	stripped map[string][]*results.Record
	noparen  map[string]*results.Record
	size     int
}

func NewIndex() *Index {
	return &Index{
		exact:    map[string]*results.Record{},
		norm:     map[string][]*results.Record{},
		stripped: map[string][]*results.Record{},
		noparen:  map[string]*results.Record{},
	}
}

// Add：按记录的 barangay 名填充四路键
func (ix *Index) Add(rec *results.Record) {
	b := rec.Key.Barangay
	ix.exact[strings.ToUpper(strings.TrimSpace(b))] = rec
	n := Normalize(b)
	ix.norm[n] = append(ix.norm[n], rec)
	s := Normalize(StripSuffix(b))
	ix.stripped[s] = append(ix.stripped[s], rec)
	if strings.Contains(b, "(") {
		ix.noparen[Normalize(StripParen(b))] = rec
	}
	ix.size++
}

func (ix *Index) Len() int { return ix.size }

// HasNormalized：规范名是否存在于本市镇未匹配集合
// 背景：次级数据源无代码要素的唯一性搜索需要跨市镇探测规范名的存在性。
func (ix *Index) HasNormalized(norm string) bool {
	_, ok := ix.norm[norm]
	return ok
}
