// 包 match：barangay 名称规整与分层匹配级联
// 背景：三路边界数据与选票表对同一行政村的拼写各行其是（缩写、标点、连字符、括号注记），
// 规整后的规范名是跨数据源比对的唯一模糊键。
// 约束：规整必须幂等且确定；缩写展开只作用于整词，严禁子串替换。
package match

import (
	"regexp"
	"strings"
)

// 整词缩写展开表：按声明顺序依次应用
// 约束：HEN. 为菲律宾语中 Gen. 的写法，同样展开为 GENERAL
var abbrevExpansions = []struct {
	re   *regexp.Regexp
	full string
}{
	{regexp.MustCompile(`\bSTA\b`), "SANTA"},
	{regexp.MustCompile(`\bSTO\b`), "SANTO"},
	{regexp.MustCompile(`\bST\b`), "SAINT"},
	{regexp.MustCompile(`\bPOB\b`), "POBLACION"},
	{regexp.MustCompile(`\bBRGY\b`), "BARANGAY"},
	{regexp.MustCompile(`\bBGY\b`), "BARANGAY"},
	{regexp.MustCompile(`\bGEN\b`), "GENERAL"},
	{regexp.MustCompile(`\bHEN\b`), "GENERAL"},
	{regexp.MustCompile(`\bSGT\b`), "SERGEANT"},
	{regexp.MustCompile(`\bCOL\b`), "COLONEL"},
	{regexp.MustCompile(`\bDR\b`), "DOCTOR"},
}

var (
	wsRe       = regexp.MustCompile(`\s+`)
	suffixRe   = regexp.MustCompile(`[\s-]+[A-Z]$`)
	parenRe    = regexp.MustCompile(`\s*\([^)]*\)\s*`)
	cityPrefix = regexp.MustCompile(`^CITY OF\s+`)
	citySuffix = regexp.MustCompile(`\s+CITY$`)

	// Ñ 的预组合与分解两种编码都出现在数据源中
	enyeFold = strings.NewReplacer("Ñ", "N", "ñ", "N", "Ñ", "N", "ñ", "N")
	punct    = strings.NewReplacer(".", "", ",", "", "'", "", "`", "", "(", "", ")", "", "*", "")
)

// Normalize：生成 barangay 名称的规范比较键
// 规则顺序：大写 → Ñ 折叠 → 空白折叠 → 去标点 → 整词缩写展开 → 连字符转空格 → 空白折叠
// 约束：对已规范的输入再调用返回原值（幂等）
func Normalize(name string) string {
	n := strings.ToUpper(strings.TrimSpace(name))
	n = enyeFold.Replace(n)
	n = wsRe.ReplaceAllString(n, " ")
	n = punct.Replace(n)
	for _, a := range abbrevExpansions {
		n = a.re.ReplaceAllString(n, a.full)
	}
	n = strings.ReplaceAll(n, "-", " ")
	n = strings.TrimSpace(wsRe.ReplaceAllString(n, " "))
	return n
}

// StripSuffix：去掉末尾由空格/连字符引出的单字母分村后缀
// 背景："UNIT 176-A"/"UNIT 176-B" 折叠到 "UNIT 176"，供母村多边形合并吸收。
// 约束：仅裁剪孤立单字母；"ZONE AREA" 这类整词结尾不受影响。
func StripSuffix(name string) string {
	return suffixRe.ReplaceAllString(strings.ToUpper(strings.TrimSpace(name)), "")
}

// StripParen：去掉括号注记（如 "(Pob.)"、"(Capital)"）
func StripParen(name string) string {
	return strings.TrimSpace(parenRe.ReplaceAllString(name, " "))
}

// NormalizeMunicipality：municipality 级规范化，等价类比 barangay 级更宽
// 背景：同一聚居地在不同数据源中城市建制叫法不一（"CITY OF X"/"X CITY"/"X"），
// 跨源匹配市镇名时先去掉建制限定词与括号注记。
// 约束：缩写表沿用市镇名中实际出现的 STA/STO/GEN 三项
func NormalizeMunicipality(name string) string {
	n := strings.ToUpper(strings.TrimSpace(name))
	n = enyeFold.Replace(n)
	n = strings.NewReplacer(".", "", ",", "", "'", "", "`", "").Replace(n)
	n = parenRe.ReplaceAllString(n, " ")
	n = strings.TrimSpace(wsRe.ReplaceAllString(n, " "))
	n = cityPrefix.ReplaceAllString(n, "")
	n = citySuffix.ReplaceAllString(n, "")
	for _, i := range []int{0, 1, 6} { // STA / STO / GEN
		a := abbrevExpansions[i]
		n = a.re.ReplaceAllString(n, a.full)
	}
	n = strings.ReplaceAll(n, "-", " ")
	return strings.TrimSpace(wsRe.ReplaceAllString(n, " "))
}
