package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func paramsFor(target string) Params {
	return FromRequest(httptest.NewRequest("GET", target, nil))
}

func TestFromRequest_Defaults(t *testing.T) {
	p := paramsFor("/projects")

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 0, p.Offset)
}

func TestFromRequest_ExplicitValues(t *testing.T) {
	p := paramsFor("/projects?page=3&per_page=50")

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 50, p.PerPage)
	assert.Equal(t, 100, p.Offset)
}

func TestFromRequest_PerPageCapped(t *testing.T) {
	p := paramsFor("/projects?per_page=500")

	assert.Equal(t, 20, p.PerPage)
}

func TestFromRequest_GarbageIgnored(t *testing.T) {
	p := paramsFor("/projects?page=banana&per_page=-5")

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
}

func TestFromRequest_ZeroPageIgnored(t *testing.T) {
	p := paramsFor("/projects?page=0")

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 0, p.Offset)
}
