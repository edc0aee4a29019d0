package simpledb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteAttr(t *testing.T) {
	assert.Equal(t, "`name`", QuoteAttr("name"))
	assert.Equal(t, "`with space`", QuoteAttr("with space"))
	assert.Equal(t, "`tick```", QuoteAttr("tick`"))
}

func TestQuoteAttrs(t *testing.T) {
	assert.Equal(t, "`a`,`b`", QuoteAttrs([]string{"a", "b"}))
	assert.Equal(t, "", QuoteAttrs(nil))
}

func TestBuildSelectQuery(t *testing.T) {
	cases := []struct {
		name       string
		projection string
		where      string
		orderBy    string
		limit      int
		want       string
	}{
		{
			name:       "all attributes",
			projection: "*",
			want:       "select * from `d`",
		},
		{
			name:       "where",
			projection: "*",
			where:      "`a` = '1'",
			want:       "select * from `d` where `a` = '1'",
		},
		{
			name:       "where and order by",
			projection: "itemName()",
			where:      "`a` > '0'",
			orderBy:    "`a` desc",
			want:       "select itemName() from `d` where `a` > '0' order by `a` desc",
		},
		{
			name:       "order by without where is dropped",
			projection: "*",
			orderBy:    "`a`",
			want:       "select * from `d`",
		},
		{
			name:       "limit",
			projection: "count(*)",
			where:      "`a` is not null",
			limit:      250,
			want:       "select count(*) from `d` where `a` is not null limit 250",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := buildSelectQuery(tc.projection, "d", tc.where, tc.orderBy, tc.limit)
			assert.Equal(t, tc.want, got)
		})
	}
}
