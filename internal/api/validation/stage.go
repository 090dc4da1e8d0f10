package validation

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

const resultKey = "validation.result"

// Stage returns a pipeline stage that evaluates rules against the request
// and stores the Result for the handler. It rejects the request with an
// *Error when any rule fails.
func (e *Evaluator) Stage(rules []Rule) func(c echo.Context) error {
	needsBody := false
	for _, r := range rules {
		if r.Source == Body {
			needsBody = true
			break
		}
	}

	return func(c echo.Context) error {
		in := Input{Query: c.QueryParams(), Params: params(c)}
		if needsBody {
			body, err := readBody(c.Request())
			if err != nil {
				return err
			}
			in.Body = body
		}

		res := e.Evaluate(rules, in)
		if err := res.Err(); err != nil {
			return err
		}
		c.Set(resultKey, res)
		return nil
	}
}

// FromContext returns the Result stored by Stage. Without one every field
// reads as absent.
func FromContext(c echo.Context) Result {
	if res, ok := c.Get(resultKey).(Result); ok {
		return res
	}
	return Result{}
}

func params(c echo.Context) map[string]string {
	names := c.ParamNames()
	out := make(map[string]string, len(names))
	for i, name := range names {
		if i < len(c.ParamValues()) {
			out[name] = c.ParamValues()[i]
		}
	}
	return out
}

// readBody decodes a JSON object body. An empty body is an empty object.
func readBody(r *http.Request) (map[string]any, error) {
	if r.Body == nil {
		return map[string]any{}, nil
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "could not read request body").SetInternal(err)
	}
	r.Body = io.NopCloser(bytes.NewReader(data))
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil || body == nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "request body must be a JSON object").SetInternal(err)
	}
	return body, nil
}
