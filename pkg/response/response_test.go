package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/EnchantedPupu/atlas-backend-sub001/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func render(t *testing.T, fn func(c *gin.Context)) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	fn(c)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestFromError_KindMapping(t *testing.T) {
	tests := []struct {
		kind   pkgerrors.Kind
		status int
		code   int
	}{
		{pkgerrors.KindValidation, http.StatusBadRequest, CodeValidation},
		{pkgerrors.KindForbidden, http.StatusForbidden, CodeForbidden},
		{pkgerrors.KindNotFound, http.StatusNotFound, CodeNotFound},
		{pkgerrors.KindConflict, http.StatusConflict, CodeConflict},
		{pkgerrors.KindInvalidTransition, http.StatusBadRequest, CodeInvalidTransition},
		{pkgerrors.KindPersistence, http.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			w, resp := render(t, func(c *gin.Context) {
				FromError(c, pkgerrors.New(tt.kind, "boom"))
			})
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, string(tt.kind), resp.Kind)
		})
	}
}

func TestFromError_WrappedSentinelKeepsDetail(t *testing.T) {
	sentinel := pkgerrors.New(pkgerrors.KindConflict, "目标用户已是当前持有人")
	err := fmt.Errorf("%w: 当前由 Alice 处理", sentinel)

	w, resp := render(t, func(c *gin.Context) { FromError(c, err) })
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "目标用户已是当前持有人: 当前由 Alice 处理", resp.Message)
}

func TestFromError_UntypedHidesCause(t *testing.T) {
	w, resp := render(t, func(c *gin.Context) {
		FromError(c, errors.New("pq: connection refused"))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "服务器内部错误", resp.Message)
	assert.Equal(t, string(pkgerrors.KindPersistence), resp.Kind)
}

func TestOKPage_TotalPages(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	OKPage(c, []int{1, 2}, 21, 1, 10)

	var body struct {
		Data PageData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Data.Pagination.TotalPages)
	assert.Equal(t, int64(21), body.Data.Pagination.Total)
}
