package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestQueryInfo_JSONRoundTrip(t *testing.T) {
	raw := []byte(`{"field_book":"缺少第3页签名","plan":"比例尺错误","query_date":"2026-03-02","query_returned":""}`)

	var info QueryInfo
	require.NoError(t, json.Unmarshal(raw, &info))

	out, err := json.Marshal(info)
	require.NoError(t, err)
	assert.Equal(t, string(raw), string(out))
}

func TestQueryInfo_ColumnRoundTrip(t *testing.T) {
	info := QueryInfo{Traverse: "闭合差超限", QueryDate: "2026-03-02"}
	col := datatypes.NewJSONType(info)

	v, err := col.Value()
	require.NoError(t, err)

	var scanned datatypes.JSONType[QueryInfo]
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, info, scanned.Data())

	again, err := scanned.Value()
	require.NoError(t, err)
	assert.Equal(t, v, again)
}

func TestQueryInfo_Items(t *testing.T) {
	info := QueryInfo{LotData: "面积不符", FieldBook: "缺页", QueryDate: "2026-03-02"}

	items := info.Items()
	require.Len(t, items, 2)
	assert.Equal(t, QueryItem{Form: FormFieldBook, Remark: "缺页"}, items[0])
	assert.Equal(t, QueryItem{Form: FormLotData, Remark: "面积不符"}, items[1])
	assert.False(t, info.IsEmpty())
	assert.True(t, info.IsOpen())

	info.QueryReturned = "2026-03-09"
	assert.False(t, info.IsOpen())

	assert.True(t, QueryInfo{QueryDate: "2026-03-02"}.IsEmpty())
}
