package match

import "strings"

// Strategy：单层匹配策略，命中返回非空记录集
type Strategy func(ix *Index, name string) []*MatchedRecord

// Cascade：按固定顺序尝试各层策略，首个命中即返回
// 背景：层级从严到宽排列——原文、规范名、去括号、分村合并、逗号前缀；
// 宽松层只有在严格层全部落空时才允许触发，避免宽键吞并本应精确命中的记录。
// 返回：命中的记录集（分村合并层可能多条）；全部落空返回 nil，由调用方计数。
func Cascade(ix *Index, name string) []*MatchedRecord {
	for _, s := range strategies {
		if m := s(ix, name); len(m) > 0 {
			return m
		}
	}
	return nil
}

var strategies = []Strategy{
	exactStrategy,
	normalizedStrategy,
	parenStrategy,
	subdivisionStrategy,
	commaPrefixStrategy,
}

// 第 1 层：原文命中（仅大小写与首尾空白归一）
func exactStrategy(ix *Index, name string) []*MatchedRecord {
	if r, ok := ix.exact[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return []*MatchedRecord{r}
	}
	return nil
}

// 第 2 层：规范名命中
func normalizedStrategy(ix *Index, name string) []*MatchedRecord {
	return ix.norm[Normalize(name)]
}

// 第 3 层：括号注记命中，双向尝试
// 背景：括号注记可能出现在记录侧（"LA PIEDAD (POB.)"）也可能在几何侧，
// 先查记录侧去括号索引，再以几何侧去括号后的规范名回查规范索引。
func parenStrategy(ix *Index, name string) []*MatchedRecord {
	if r, ok := ix.noparen[Normalize(name)]; ok {
		return []*MatchedRecord{r}
	}
	if strings.Contains(name, "(") {
		return ix.norm[Normalize(StripParen(name))]
	}
	return nil
}

// 第 4 层：分村合并
// 背景：几何侧常是未拆分的母村（"BARANGAY 176"），选票侧已拆为 176-A/176-B；
// 去后缀索引把同胞分村聚到母键下，一个多边形吸收全部同胞。
// 约束：恰一条候选且其规范名与查询规范名相同，说明根本不存在分村，
// 此时放行会经由去后缀路径复刻第 2 层，必须拒绝。
func subdivisionStrategy(ix *Index, name string) []*MatchedRecord {
	subs := ix.stripped[Normalize(StripSuffix(name))]
	if len(subs) > 1 {
		return subs
	}
	if len(subs) == 1 && Normalize(subs[0].Key.Barangay) != Normalize(name) {
		return subs
	}
	return nil
}

// 第 5 层：逗号前缀命中
// 背景：个别数据源以"编号村, 片区注记"命名（"BGY. NO. 42, APAYA"），
// 选票侧只有逗号前的部分；取首个逗号前文本规范化后回查第 2 层索引。
func commaPrefixStrategy(ix *Index, name string) []*MatchedRecord {
	i := strings.IndexByte(name, ',')
	if i < 0 {
		return nil
	}
	return ix.norm[Normalize(name[:i])]
}
