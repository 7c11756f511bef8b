// Package testing provides utilities and helpers for testing the lookup service.
// It writes small MedDRA-shaped datasets to temporary directories.
package testing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// DatasetDir is the subdirectory the fixtures are written to.
const DatasetDir = "ascii-281"

// LLT describes one llt.asc row.
type LLT struct {
	Code, Name, PTCode string
	Active             bool
}

// PT describes one pt.asc row.
type PT struct {
	Code, Name, PrimarySOC string
}

// Hier describes one mdhier.asc row.
type Hier struct {
	PTCode, HLTCode, HLGTCode, SOCCode string
	PTName, HLTName, HLGTName, SOCName string
	SOCAbbrev                          string
	Primary                            bool
}

// Fixture is the content of a dataset. Raw*Lines are appended verbatim to the
// corresponding table, which lets tests inject malformed rows.
type Fixture struct {
	LLTs        []LLT
	PTs         []PT
	Hierarchies []Hier

	RawLLTLines  []string
	RawPTLines   []string
	RawHierLines []string
}

func yesNo(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

// row joins fields into a '$'-delimited line of the given width, with the
// trailing delimiter the MedDRA distribution uses.
func row(width int, fields map[int]string) string {
	cols := make([]string, width)
	for i, v := range fields {
		cols[i] = v
	}
	return strings.Join(cols, "$") + "$"
}

// LLTLine renders an llt.asc line.
func LLTLine(l LLT) string {
	return row(11, map[int]string{0: l.Code, 1: l.Name, 2: l.PTCode, 9: yesNo(l.Active)})
}

// PTLine renders a pt.asc line.
func PTLine(p PT) string {
	return row(11, map[int]string{0: p.Code, 1: p.Name, 3: p.PrimarySOC})
}

// HierLine renders an mdhier.asc line.
func HierLine(h Hier) string {
	return row(12, map[int]string{
		0: h.PTCode, 1: h.HLTCode, 2: h.HLGTCode, 3: h.SOCCode,
		4: h.PTName, 5: h.HLTName, 6: h.HLGTName, 7: h.SOCName,
		8: h.SOCAbbrev, 10: h.SOCCode, 11: yesNo(h.Primary),
	})
}

// WriteDataset writes fixture under root/ascii-281 and returns root.
// Passing an empty root uses t.TempDir().
func WriteDataset(t testing.TB, root string, fixture Fixture) string {
	t.Helper()
	if root == "" {
		root = t.TempDir()
	}
	dir := filepath.Join(root, DatasetDir)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	var llt, pt, hier []string
	for _, l := range fixture.LLTs {
		llt = append(llt, LLTLine(l))
	}
	llt = append(llt, fixture.RawLLTLines...)
	for _, p := range fixture.PTs {
		pt = append(pt, PTLine(p))
	}
	pt = append(pt, fixture.RawPTLines...)
	for _, h := range fixture.Hierarchies {
		hier = append(hier, HierLine(h))
	}
	hier = append(hier, fixture.RawHierLines...)

	writeLines(t, filepath.Join(dir, "llt.asc"), llt)
	writeLines(t, filepath.Join(dir, "pt.asc"), pt)
	writeLines(t, filepath.Join(dir, "mdhier.asc"), hier)
	return root
}

// RemoveTable deletes one table file from a fixture written by WriteDataset.
func RemoveTable(t testing.TB, root, name string) {
	t.Helper()
	require.NoError(t, os.Remove(filepath.Join(root, DatasetDir, name)))
}

func writeLines(t testing.TB, path string, lines []string) {
	t.Helper()
	content := strings.Join(lines, "\r\n")
	if len(lines) > 0 {
		content += "\r\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// Codes used by StandardFixture.
const (
	HeadachePT       = "10019211"
	AnaemiaPT        = "10002034"
	NauseaPT         = "10028813"
	VomitingPT       = "10047700"
	DiarrhoeaPT      = "10012735"
	PyrexiaPT        = "10037660"
	AbdominalPainPT  = "10000081"
	NervousSystemSOC = "10029205"
	GeneralSOC       = "10018065"
	GastroSOC        = "10017947"
	BloodSOC         = "10005329"
	HeadacheLLT      = "10019211"
	InactiveFeverLLT = "10016558"
	DanglingLLT      = "10088888"
	AbdominalPainLLT = "10000087"
)

// StandardFixture returns a small Korean dataset covering the interesting
// shapes: a primary path that is not first, a PT with no primary flag, a PT
// with two unflagged paths, a PT without hierarchy, an inactive LLT, a
// dangling LLT and malformed rows.
func StandardFixture() Fixture {
	return Fixture{
		LLTs: []LLT{
			{Code: HeadacheLLT, Name: "두통", PTCode: HeadachePT, Active: true},
			{Code: "10019198", Name: "머리 두통", PTCode: HeadachePT, Active: true},
			{Code: "10043269", Name: "긴장성 두통", PTCode: HeadachePT, Active: true},
			{Code: "10019220", Name: "두통 발작", PTCode: HeadachePT, Active: false},
			{Code: AnaemiaPT, Name: "빈혈", PTCode: AnaemiaPT, Active: true},
			{Code: NauseaPT, Name: "구역", PTCode: NauseaPT, Active: true},
			{Code: "10028816", Name: "구역질", PTCode: NauseaPT, Active: true},
			{Code: VomitingPT, Name: "구토", PTCode: VomitingPT, Active: true},
			{Code: DiarrhoeaPT, Name: "설사", PTCode: DiarrhoeaPT, Active: true},
			{Code: PyrexiaPT, Name: "발열", PTCode: PyrexiaPT, Active: true},
			{Code: InactiveFeverLLT, Name: "열병", PTCode: PyrexiaPT, Active: false},
			{Code: AbdominalPainLLT, Name: "복통", PTCode: AbdominalPainPT, Active: true},
			{Code: DanglingLLT, Name: "두통 고아 용어", PTCode: "99999999", Active: true},
		},
		RawLLTLines: []string{
			"10077777",
			"$이름만 있음$10019211$",
		},
		PTs: []PT{
			{Code: HeadachePT, Name: "두통", PrimarySOC: NervousSystemSOC},
			{Code: AnaemiaPT, Name: "빈혈", PrimarySOC: BloodSOC},
			{Code: NauseaPT, Name: "구역", PrimarySOC: GastroSOC},
			{Code: VomitingPT, Name: "구토", PrimarySOC: GastroSOC},
			{Code: DiarrhoeaPT, Name: "설사", PrimarySOC: GastroSOC},
			{Code: PyrexiaPT, Name: "발열", PrimarySOC: GeneralSOC},
			{Code: AbdominalPainPT, Name: "복통", PrimarySOC: GastroSOC},
		},
		RawPTLines: []string{"10066666$$"},
		Hierarchies: []Hier{
			{
				PTCode: HeadachePT, HLTCode: "10019233", HLGTCode: "10019231", SOCCode: GeneralSOC,
				PTName: "두통", HLTName: "통증 및 불쾌감 NEC", HLGTName: "전신 증상", SOCName: "전신 장애 및 투여 부위 상태",
				SOCAbbrev: "Genrl", Primary: false,
			},
			{
				PTCode: HeadachePT, HLTCode: "10019234", HLGTCode: "10019232", SOCCode: NervousSystemSOC,
				PTName: "두통", HLTName: "두통 NEC", HLGTName: "두통", SOCName: "신경계통",
				SOCAbbrev: "Nerv", Primary: true,
			},
			{
				PTCode: AnaemiaPT, HLTCode: "10002086", HLGTCode: "10018851", SOCCode: BloodSOC,
				PTName: "빈혈", HLTName: "빈혈 NEC", HLGTName: "빈혈(용혈성 제외)", SOCName: "혈액 및 림프계 장애",
				SOCAbbrev: "Blood", Primary: false,
			},
			{
				PTCode: NauseaPT, HLTCode: "10028817", HLGTCode: "10017977", SOCCode: GastroSOC,
				PTName: "구역", HLTName: "구역 및 구토 증상", HLGTName: "위장관 징후 및 증상", SOCName: "위장관 장애",
				SOCAbbrev: "Gastr", Primary: true,
			},
			{
				PTCode: VomitingPT, HLTCode: "10028817", HLGTCode: "10017977", SOCCode: GastroSOC,
				PTName: "구토", HLTName: "구역 및 구토 증상", HLGTName: "위장관 징후 및 증상", SOCName: "위장관 장애",
				SOCAbbrev: "Gastr", Primary: true,
			},
			{
				PTCode: DiarrhoeaPT, HLTCode: "10012736", HLGTCode: "10017977", SOCCode: GastroSOC,
				PTName: "설사", HLTName: "설사(감염성 제외)", HLGTName: "위장관 운동 장애", SOCName: "위장관 장애",
				SOCAbbrev: "Gastr", Primary: true,
			},
			{
				PTCode: AbdominalPainPT, HLTCode: "10017999", HLGTCode: "10017977", SOCCode: GastroSOC,
				PTName: "복통", HLTName: "위장관 및 복부 통증", HLGTName: "위장관 징후 및 증상", SOCName: "위장관 장애",
				SOCAbbrev: "Gastr", Primary: false,
			},
			{
				PTCode: AbdominalPainPT, HLTCode: "10000087", HLGTCode: "10005330", SOCCode: BloodSOC,
				PTName: "복통", HLTName: "기타 복통", HLGTName: "기타", SOCName: "혈액 및 림프계 장애",
				SOCAbbrev: "Blood", Primary: false,
			},
		},
		RawHierLines: []string{"$10019233$$"},
	}
}
