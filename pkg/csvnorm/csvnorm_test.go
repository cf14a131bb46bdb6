package csvnorm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

func TestRun_Books(t *testing.T) {
	in := "\ufeff題名,ID,ISBN,読み\n" +
		"ぐりとぐら,a1,978-4-8340-0082-5,ｸﾞﾘﾄｸﾞﾗ\n" +
		"# 除籍\n" +
		"\n" +
		"ＡＢＣの本,a12-3,4834010759,エービーシー\n" +
		"不明,??,,ふめい\n"
	var out bytes.Buffer

	report, err := Run(strings.NewReader(in), &out, Options{
		Header:         true,
		BookIDColumn:   "ID",
		ISBNColumn:     "ISBN",
		KatakanaColumn: "読み",
	})
	require.NoError(t, err)

	assert.Equal(t, "題名,ID,ISBN,読み\n"+
		"ぐりとぐら,A001,9784834000825,グリトグラ\n"+
		"ABCの本,A012-03,4834010759,エービーシー\n"+
		"不明,??,,ふめい\n", out.String())
	assert.Equal(t, 3, report.Rows)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, []Problem{
		{Line: 5, Column: "ISBN", Value: "4834010759", Reason: "not an ISBN-13"},
		{Line: 6, Column: "ID", Value: "??", Reason: "not a book ID"},
		{Line: 6, Column: "読み", Value: "ふめい", Reason: "not katakana"},
	}, report.Problems)
	assert.Equal(t, map[string]string{"A": "A012-03"}, report.LastIDs)
}

func TestRun_ShiftJISWithoutHeader(t *testing.T) {
	in, err := japanese.ShiftJIS.NewEncoder().String("1002,保護者,山田　太郎,ヤマダ　タロウ,Yamada Taro\n")
	require.NoError(t, err)
	var out bytes.Buffer

	report, err := Run(strings.NewReader(in), &out, Options{Encoding: "shift_jis"})
	require.NoError(t, err)
	assert.Equal(t, "1002,保護者,山田 太郎,ヤマダ タロウ,Yamada Taro\n", out.String())
	assert.Equal(t, 1, report.Rows)
	assert.Empty(t, report.Problems)
	assert.Nil(t, report.LastIDs)
}

func TestRun_Errors(t *testing.T) {
	var out bytes.Buffer
	_, err := Run(strings.NewReader("a,b\n"), &out, Options{Header: true, ISBNColumn: "isbn"})
	assert.ErrorContains(t, err, `column "isbn" not found`)

	_, err = Run(strings.NewReader("a\n"), &out, Options{Encoding: "klingon"})
	assert.ErrorContains(t, err, "unsupported encoding")

	for _, opts := range []Options{
		{BookIDColumn: "ID"},
		{ISBNColumn: "ISBN"},
		{KatakanaColumn: "読み"},
	} {
		out.Reset()
		_, err = Run(strings.NewReader("A1,978-4-8340-0082-5,ﾖﾐ\n"), &out, opts)
		assert.ErrorContains(t, err, "need a header row", "%+v", opts)
		assert.Empty(t, out.String())
	}
}

func TestLaterBookID(t *testing.T) {
	assert.True(t, laterBookID("A1000", "A999"))
	assert.True(t, laterBookID("A012-03", "A012-02"))
	assert.True(t, laterBookID("A012", "A011-99"))
	assert.False(t, laterBookID("A001", "A001"))
}
