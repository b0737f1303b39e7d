package common

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func pageContext(t *testing.T, query string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return c
}

func TestGetPageParams(t *testing.T) {
	cases := []struct {
		query  string
		page   int
		limit  int
		offset int
	}{
		{"", 1, 20, 0},
		{"page=3&limit=10", 3, 10, 20},
		{"page=0", 1, 20, 0},
		{"page=-5&limit=50", 1, 50, 0},
		// Нулевой и отрицательный лимит прижимаются к минимальной
		// странице, а не сбрасываются к значению по умолчанию.
		{"limit=0", 1, 1, 0},
		{"page=4&limit=-10", 4, 1, 3},
		{"limit=500", 1, 100, 0},
		{"page=abc&limit=xyz", 1, 20, 0},
	}

	for _, tc := range cases {
		page, limit, offset := GetPageParams(pageContext(t, tc.query))
		assert.Equal(t, tc.page, page, "query=%q", tc.query)
		assert.Equal(t, tc.limit, limit, "query=%q", tc.query)
		assert.Equal(t, tc.offset, offset, "query=%q", tc.query)
	}
}
