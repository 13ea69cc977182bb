package dto

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func pageFor(t *testing.T, query string) PageQuery {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request, _ = http.NewRequest("GET", "/?"+query, nil)
	return PageFromContext(c)
}

func TestPageFromContext(t *testing.T) {
	assert.Equal(t, PageQuery{Page: 1, PageSize: 20}, pageFor(t, ""))
	assert.Equal(t, PageQuery{Page: 3, PageSize: 50}, pageFor(t, "page=3&page_size=50"))

	// Out-of-range values fall back to the defaults.
	assert.Equal(t, PageQuery{Page: 1, PageSize: 20}, pageFor(t, "page=0&page_size=0"))
	assert.Equal(t, PageQuery{Page: 1, PageSize: 20}, pageFor(t, "page=-2&page_size=1000"))
}

func TestPageOffset(t *testing.T) {
	assert.Equal(t, 0, PageQuery{Page: 1, PageSize: 20}.Offset())
	assert.Equal(t, 40, PageQuery{Page: 3, PageSize: 20}.Offset())
}
