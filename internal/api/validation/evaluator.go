package validation

import (
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/bookhive/library-api/internal/core/domain"
)

var iso8601Layouts = []string{
	domain.DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parseISO8601(s string) (time.Time, bool) {
	for _, layout := range iso8601Layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isISO8601(fl validator.FieldLevel) bool {
	_, ok := parseISO8601(fl.Field().String())
	return ok
}

// Evaluator runs rule tables. It is safe for concurrent use.
type Evaluator struct {
	v *validator.Validate
}

func NewEvaluator() *Evaluator {
	v := validator.New()
	_ = v.RegisterValidation("iso8601", isISO8601)
	return &Evaluator{v: v}
}

// Input is the raw request data a rule table is evaluated against.
type Input struct {
	Body   map[string]any
	Query  url.Values
	Params map[string]string
}

// Evaluate runs every rule against in. It never stops at the first failure;
// violations are reported in rule order. A field keeps a normalised value
// only when all of its rules passed.
func (e *Evaluator) Evaluate(rules []Rule, in Input) Result {
	res := Result{values: make(map[string]any)}
	failed := make(map[string]bool)

	for _, rule := range rules {
		raw, present := lookup(rule, in)
		if !present && !rule.Required {
			continue
		}

		var (
			value any
			ok    bool
		)
		if present {
			value, ok = e.check(rule, raw)
		}
		if !ok {
			v := Violation{Field: rule.Field, Message: rule.message()}
			if rule.Kind != Password {
				v.Value = raw
			}
			res.Violations = append(res.Violations, v)
			failed[rule.Field] = true
			delete(res.values, rule.Field)
			continue
		}
		if !failed[rule.Field] {
			res.values[rule.Field] = value
		}
	}
	return res
}

// lookup reports a field as absent when it is missing or null.
func lookup(rule Rule, in Input) (any, bool) {
	switch rule.Source {
	case Query:
		if !in.Query.Has(rule.Field) {
			return nil, false
		}
		return in.Query.Get(rule.Field), true
	case Param:
		v, ok := in.Params[rule.Field]
		return v, ok
	default:
		v, ok := in.Body[rule.Field]
		if !ok || v == nil {
			return nil, false
		}
		return v, true
	}
}

func (e *Evaluator) check(rule Rule, raw any) (any, bool) {
	if rule.Kind == Integer {
		n, ok := toInt64(raw)
		if !ok || !e.passes(n, rule.Tag) {
			return nil, false
		}
		return n, true
	}

	str, ok := raw.(string)
	if !ok {
		return nil, false
	}
	if rule.Kind != Password {
		str = strings.TrimSpace(str)
	}
	if rule.Required && strings.TrimSpace(str) == "" {
		return nil, false
	}
	if !e.passes(str, rule.Tag) {
		return nil, false
	}

	switch rule.Kind {
	case Email:
		if !e.passes(str, "email") {
			return nil, false
		}
	case Date:
		if !e.passes(str, "iso8601") {
			return nil, false
		}
		t, _ := parseISO8601(str)
		return domain.NewDate(t), true
	}
	return str, true
}

func (e *Evaluator) passes(value any, tag string) bool {
	return tag == "" || e.v.Var(value, tag) == nil
}

// toInt64 accepts JSON numbers and numeric strings holding a whole number.
func toInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt64(f)
	case float64:
		return floatToInt64(v)
	case int64:
		return v, true
	case int:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func floatToInt64(f float64) (int64, bool) {
	if f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}
