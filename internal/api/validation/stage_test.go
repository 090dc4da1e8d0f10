package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStage_StoresResult(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/authors/9", strings.NewReader(`{"name":"Le Guin"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("9")

	require.NoError(t, NewEvaluator().Stage(UpdateAuthor)(c))

	res := FromContext(c)
	assert.Equal(t, int64(9), res.IntOr("id", 0))
	assert.Equal(t, "Le Guin", res.String("name"))
}

func TestStage_RejectsInvalidJSON(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/authors", strings.NewReader(`[1,2]`))
	c := e.NewContext(req, httptest.NewRecorder())

	err := NewEvaluator().Stage(CreateAuthor)(c)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestStage_EmptyBodyReportsRequiredFields(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := NewEvaluator().Stage(Login)(c)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Violations, 2)
}

func TestStage_InvalidPathID(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/books/abc", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := NewEvaluator().Stage(ByID)(c)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "id", verr.Violations[0].Field)
}
