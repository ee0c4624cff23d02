package config

// 内置默认映射：2025 年中期选举关注的候选人与政党名单
// 约束：列名必须与上游 CSV 表头逐字符一致（含编号与党派注记）

var DefaultSenate = Candidates{
	"pangilinan": {"51. PANGILINAN, KIKO (LP)"},
	"aquino":     {"5. AQUINO, BAM (KNP)"},
	"adonis":     {"2. ADONIS, JEROME (MKBYN)"},
	"andamo":     {"4. ANDAMO, NARS ALYN (MKBYN)"},
	"arambulo":   {"6. ARAMBULO, RONNEL (MKBYN)"},
	"brosas":     {"13. BROSAS, ARLENE (MKBYN)"},
	"casino":     {"16. CASIÑO, TEDDY (MKBYN)"},
	"castro":     {"17. CASTRO, TEACHER FRANCE (MKBYN)"},
	"doringo":    {"23. DORINGO, NANAY MIMI (MKBYN)"},
	"floranda":   {"26. FLORANDA, MODY PISTON (MKBYN)"},
	"espiritu":   {"25. ESPIRITU, LUKE (PLM)"},
	"lidasan":    {"37. LIDASAN, AMIRAH (MKBYN)"},
	"maza":       {"44. MAZA, LIZA (MKBYN)"},
	"mendoza":    {"45. MENDOZA, HEIDI (IND)"},
	"ramos":      {"54. RAMOS, DANILO (MKBYN)"},
	"makabayan-senate": {
		"2. ADONIS, JEROME (MKBYN)",
		"4. ANDAMO, NARS ALYN (MKBYN)",
		"6. ARAMBULO, RONNEL (MKBYN)",
		"13. BROSAS, ARLENE (MKBYN)",
		"16. CASIÑO, TEDDY (MKBYN)",
		"17. CASTRO, TEACHER FRANCE (MKBYN)",
		"23. DORINGO, NANAY MIMI (MKBYN)",
		"26. FLORANDA, MODY PISTON (MKBYN)",
		"37. LIDASAN, AMIRAH (MKBYN)",
		"44. MAZA, LIZA (MKBYN)",
		"54. RAMOS, DANILO (MKBYN)",
	},
}

var DefaultPartylist = Candidates{
	"akbayan":       {"51 AKBAYAN"},
	"duterte-youth": {"5 DUTERTE YOUTH"},
	"bayan-muna":    {"59 BAYAN MUNA"},
	"gabriela":      {"46 GABRIELA"},
	"act-teachers":  {"21 ACT TEACHERS"},
	"kabataan":      {"4 KABATAAN"},
	"ml":            {"6 ML"},
	"makabayan-partylist": {
		"59 BAYAN MUNA",
		"46 GABRIELA",
		"21 ACT TEACHERS",
		"4 KABATAAN",
	},
}
