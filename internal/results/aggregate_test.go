package results

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMapping = map[string][]string{
	"reyes": {"REYES, JUAN (PDP)"},
	"bloc":  {"CRUZ, ANA (IND)", "CRUZ, MARIA (IND)"},
}

const testCSV = `region,province,municipality,barangay,registeredVoters,actualVoters,"REYES, JUAN (PDP)","CRUZ, ANA (IND)","CRUZ, MARIA (IND)"
IV-A,LAGUNA,CITY OF CALAMBA,POBLACION,100,80,50,10,5
IV-A,LAGUNA,CITY OF CALAMBA,POBLACION,200,150,70,20,5
IV-A,LAGUNA,CITY OF CALAMBA,SAN ISIDRO,50,40,30,1,1
OAV,EUROPE,PARIS PE,PARIS,10,5,3,1,0
LAV,NCR,TAGUIG JAIL,DETENTION,10,5,3,1,0
`

func TestAggregate(t *testing.T) {
	tab, err := Aggregate(strings.NewReader(testCSV), testMapping)
	require.NoError(t, err)

	// OAV/LAV 两行剔除
	assert.Equal(t, 3, tab.Rows)
	assert.Equal(t, 2, tab.Len())

	pob, ok := tab.Get(Key{Province: "LAGUNA", Municipality: "CITY OF CALAMBA", Barangay: "POBLACION"})
	require.True(t, ok)
	assert.Equal(t, int64(300), pob.RegisteredVoters)
	assert.Equal(t, int64(230), pob.ActualVoters)
	assert.Equal(t, int64(120), pob.Votes["reyes"])
	// 联盟标识聚合两列
	assert.Equal(t, int64(40), pob.Votes["bloc"])

	// 记录保持首现顺序
	assert.Equal(t, "POBLACION", tab.Records[0].Key.Barangay)
	assert.Equal(t, "SAN ISIDRO", tab.Records[1].Key.Barangay)
}

func TestAggregateMalformedNumbers(t *testing.T) {
	csv := `region,province,municipality,barangay,registeredVoters,actualVoters,"REYES, JUAN (PDP)"
I,ILOCOS NORTE,LAOAG CITY,BGY 1,abc,-5,
`
	tab, err := Aggregate(strings.NewReader(csv), testMapping)
	require.NoError(t, err)
	r, ok := tab.Get(Key{Province: "ILOCOS NORTE", Municipality: "LAOAG CITY", Barangay: "BGY 1"})
	require.True(t, ok)
	assert.Zero(t, r.RegisteredVoters)
	assert.Zero(t, r.ActualVoters)
	assert.Zero(t, r.Votes["reyes"])
}

func TestAggregateMissingCandidateColumns(t *testing.T) {
	// 映射中不存在于表头的列静默忽略
	csv := `region,province,municipality,barangay,registeredVoters,actualVoters,"CRUZ, ANA (IND)"
I,ABRA,BANGUED,POBLACION,10,8,4
`
	tab, err := Aggregate(strings.NewReader(csv), testMapping)
	require.NoError(t, err)
	r := tab.Records[0]
	assert.Equal(t, int64(4), r.Votes["bloc"])
	_, hasReyes := r.Votes["reyes"]
	assert.False(t, hasReyes)
}

func TestAggregateOrderIndependence(t *testing.T) {
	fwd, err := Aggregate(strings.NewReader(testCSV), testMapping)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(testCSV), "\n")
	rev := lines[0] + "\n"
	for i := len(lines) - 1; i >= 1; i-- {
		rev += lines[i] + "\n"
	}
	bwd, err := Aggregate(strings.NewReader(rev), testMapping)
	require.NoError(t, err)

	require.Equal(t, fwd.Len(), bwd.Len())
	for _, r := range fwd.Records {
		other, ok := bwd.Get(r.Key)
		require.True(t, ok)
		assert.Equal(t, r.RegisteredVoters, other.RegisteredVoters)
		assert.Equal(t, r.ActualVoters, other.ActualVoters)
		assert.Equal(t, r.Votes, other.Votes)
	}
}

func TestMerge(t *testing.T) {
	k := Key{Province: "LAGUNA", Municipality: "CITY OF CALAMBA", Barangay: "POBLACION"}

	senate := NewTable()
	s := senate.upsert(k)
	s.RegisteredVoters = 300
	s.ActualVoters = 230
	s.Votes["reyes"] = 120

	partylist := NewTable()
	p := partylist.upsert(k)
	p.RegisteredVoters = 299 // 两表口径略有出入
	p.ActualVoters = 228
	p.Votes["bloc"] = 40
	extra := partylist.upsert(Key{Province: "ABRA", Municipality: "BANGUED", Barangay: "POBLACION"})
	extra.RegisteredVoters = 10
	extra.Votes["bloc"] = 7

	merged := Merge(senate, partylist)
	require.Equal(t, 2, merged.Len())

	m, ok := merged.Get(k)
	require.True(t, ok)
	// 选民数取第一份，绝不相加
	assert.Equal(t, int64(300), m.RegisteredVoters)
	assert.Equal(t, int64(230), m.ActualVoters)
	assert.Equal(t, int64(120), m.Votes["reyes"])
	assert.Equal(t, int64(40), m.Votes["bloc"])

	// 仅出现在第二份的键保留其自身选民数
	e, ok := merged.Get(extra.Key)
	require.True(t, ok)
	assert.Equal(t, int64(10), e.RegisteredVoters)
	assert.Equal(t, int64(7), e.Votes["bloc"])
}
