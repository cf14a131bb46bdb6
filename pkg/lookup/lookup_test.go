package lookup

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	"github.com/tomokiyo/pjsbookshelf/pkg/query"
)

type book struct {
	bun.BaseModel `bun:"table:books"`

	ID        string `bun:"id,pk"`
	Title     string `bun:"title"`
	KanaTitle string `bun:"kana_title"`
	Authors   string `bun:"authors"`
	ISBN      string `bun:"isbn"`
}

type member struct {
	bun.BaseModel `bun:"table:members"`

	ID       int64  `bun:"id,pk"`
	Name     string `bun:"name"`
	Katakana string `bun:"katakana"`
	Romaji   string `bun:"romaji"`
}

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()
	ctx := context.Background()

	sqldb, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		db.Close()
	})

	_, err = db.NewCreateTable().Model((*book)(nil)).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewCreateTable().Model((*member)(nil)).Exec(ctx)
	require.NoError(t, err)

	books := []book{
		{ID: "A001", Title: "ぐりとぐら", KanaTitle: "グリトグラ", Authors: "なかがわりえこ", ISBN: "9784834000825"},
		{ID: "A002", Title: "ぐりとぐらのえんそく", KanaTitle: "グリトグラノエンソク", Authors: "なかがわりえこ", ISBN: "9784834014778"},
		{ID: "B010-02", Title: "羅生門", KanaTitle: "ラショウモン", Authors: "芥川龍之介", ISBN: "9784101025018"},
		{ID: "C001", Title: "Java入門", KanaTitle: "ジャバニュウモン", Authors: "山田", ISBN: ""},
	}
	_, err = db.NewInsert().Model(&books).Exec(ctx)
	require.NoError(t, err)

	members := []member{
		{ID: 12, Name: "山田 太郎", Katakana: "ヤマダ タロウ", Romaji: "Yamada Taro"},
		{ID: 13, Name: "中川 花子", Katakana: "ナカガワ ハナコ", Romaji: "Nakagawa Hanako"},
	}
	_, err = db.NewInsert().Model(&members).Exec(ctx)
	require.NoError(t, err)

	return db
}

func TestWhere(t *testing.T) {
	q := query.Compile("ぐり author:芥川")

	clause, args := Where(q, Question)
	assert.Equal(t, "kana_title LIKE ? AND authors LIKE ?", clause)
	assert.Equal(t, []any{"%グリ%", "%芥川%"}, args)

	clause, args = Where(q, Dollar)
	assert.Equal(t, "kana_title LIKE $1 AND authors LIKE $2", clause)
	assert.Len(t, args, 2)

	clause, args = Where(query.CompileMember("Yamada"), Question)
	assert.Equal(t, "LOWER(romaji) LIKE ?", clause)
	assert.Equal(t, []any{"%yamada%"}, args)

	clause, args = Where(query.Compile("A1"), Question)
	assert.Equal(t, "id = ?", clause)
	assert.Equal(t, []any{"A001"}, args)

	clause, args = Where(query.Compile(""), Question)
	assert.Empty(t, clause)
	assert.Empty(t, args)
}

func TestWhere_PlaceholderCount(t *testing.T) {
	for _, raw := range []string{"a b c d", "ぐり ぐら author:x", "9784834000825", "山田 ｶﾅ"} {
		clause, args := Where(query.Compile(raw), Question)
		assert.Equal(t, len(args), strings.Count(clause, "?"), raw)
	}
}

func TestNamedWhere(t *testing.T) {
	clause, args := NamedWhere(query.Compile("ぐり author:芥川"))
	assert.Equal(t, "kana_title LIKE @p1 AND authors LIKE @p2", clause)
	assert.Equal(t, pgx.NamedArgs{"p1": "%グリ%", "p2": "%芥川%"}, args)

	clause, args = NamedWhere(query.CompileMember("12"))
	assert.Equal(t, "id = @p1", clause)
	assert.Equal(t, pgx.NamedArgs{"p1": int64(12)}, args)

	clause, args = NamedWhere(query.CompiledQuery{})
	assert.Empty(t, clause)
	assert.Empty(t, args)
}

func TestParsePlaceholder(t *testing.T) {
	p, err := ParsePlaceholder("dollar")
	require.NoError(t, err)
	assert.Equal(t, Dollar, p)

	p, err = ParsePlaceholder("")
	require.NoError(t, err)
	assert.Equal(t, Question, p)

	_, err = ParsePlaceholder("colon")
	assert.Error(t, err)
}

func selectBookIDs(t *testing.T, db *bun.DB, raw string) []string {
	t.Helper()
	var books []book
	err := Apply(db.NewSelect().Model(&books), query.Compile(raw)).Order("id").Scan(context.Background())
	require.NoError(t, err)
	ids := make([]string, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}
	return ids
}

func TestApply_Books(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		raw  string
		want []string
	}{
		{"ぐり", []string{"A001", "A002"}},
		{"ｸﾞﾘ えんそく", []string{"A002"}},
		{"author:芥川", []string{"B010-02"}},
		{"b10-2", []string{"B010-02"}},
		{"9784834000825", []string{"A001"}},
		{"Ｊａｖａ", []string{"C001"}},
		{"", []string{}},
		{"存在しない", []string{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, selectBookIDs(t, db, tt.raw), tt.raw)
	}
}

func TestApply_Members(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	tests := []struct {
		raw  string
		want []int64
	}{
		{"yamada", []int64{12}},
		{"ＮＡＫＡＧＡＷＡ", []int64{13}},
		{"０１２", []int64{12}},
		{"なかがわ", []int64{13}},
		{"ヤマダ", []int64{12}},
		{"中川", []int64{13}},
	}
	for _, tt := range tests {
		var members []member
		err := Apply(db.NewSelect().Model(&members), query.CompileMember(tt.raw)).Order("id").Scan(ctx)
		require.NoError(t, err, tt.raw)
		ids := make([]int64, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.ID)
		}
		assert.Equal(t, tt.want, ids, tt.raw)
	}
}

func TestWhere_ExecutesOnSQLite(t *testing.T) {
	db := setupTestDB(t)

	clause, args := Where(query.Compile("ぐり えんそく"), Question)
	rows, err := db.QueryContext(context.Background(), "SELECT id FROM books WHERE "+clause, args...)
	require.NoError(t, err)
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		require.NoError(t, rows.Scan(&id))
		ids = append(ids, id)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"A002"}, ids)
}
