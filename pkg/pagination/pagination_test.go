package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func parseQuery(query string) Params {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return Parse(c)
}

func TestParse(t *testing.T) {
	assert.Equal(t, Params{Page: 1, Limit: 20, Offset: 0}, parseQuery(""))
	assert.Equal(t, Params{Page: 3, Limit: 10, Offset: 20}, parseQuery("page=3&limit=10"))
	assert.Equal(t, Params{Page: 1, Limit: 100, Offset: 0}, parseQuery("page=0&limit=1000"))
	assert.Equal(t, Params{Page: 1, Limit: 20, Offset: 0}, parseQuery("page=abc&limit=-4"))
}

func TestNewPage(t *testing.T) {
	p := NewPage([]string{"a", "b"}, 21, Params{Page: 1, Limit: 10})
	assert.EqualValues(t, 3, p.TotalPages)

	empty := NewPage[int](nil, 0, Params{Page: 1, Limit: 10})
	assert.NotNil(t, empty.Items)
	assert.Zero(t, empty.TotalPages)
}
