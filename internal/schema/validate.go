// Package schema validates raw catalog records into models.Tool values.
//
// Validation never stops at the first problem: every field is checked and all
// violations are returned together so a single run lists everything that needs
// fixing.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terra-clan/agent-registry/internal/models"
)

const (
	minDescriptionLen = 10
	maxDescriptionLen = 300
	minScore          = 1
	maxScore          = 10
)

var (
	slugPattern     = regexp.MustCompile(`^[a-z0-9-]+$`)
	datetimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?Z$`)
)

// Parse decodes and validates a single record
func Parse(data []byte, format Format) (*models.Tool, *RecordError) {
	raw, err := Decode(data, format)
	if err != nil {
		return nil, recordFailure("%v", err)
	}
	return Validate(raw)
}

// Validate checks one decoded record. It returns either a tool or the complete
// list of violations, never both.
func Validate(raw any) (*models.Tool, *RecordError) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, recordFailure("expected object, received %s", typeName(raw))
	}

	v := &validator{}
	var t models.Tool

	if name, ok := v.str(obj, "", "name"); ok {
		if name == "" {
			v.fail("name", "must not be empty")
		}
		t.Name = name
	}

	if slug, ok := v.str(obj, "", "slug"); ok {
		if !slugPattern.MatchString(slug) {
			v.fail("slug", "must be lowercase alphanumeric with hyphens")
		}
		t.Slug = slug
	}

	if desc, ok := v.str(obj, "", "description"); ok {
		n := utf8.RuneCountInString(desc)
		switch {
		case n < minDescriptionLen:
			v.fail("description", fmt.Sprintf("must be at least %d characters", minDescriptionLen))
		case n > maxDescriptionLen:
			v.fail("description", fmt.Sprintf("must be at most %d characters", maxDescriptionLen))
		}
		t.Description = desc
	}

	t.Website, _ = v.url(obj, "", "website")

	if _, present := obj["logoUrl"]; present {
		t.LogoURL, _ = v.url(obj, "", "logoUrl")
	}

	if cat, ok := v.str(obj, "", "category"); ok {
		c := models.Category(cat)
		if !c.Valid() {
			v.fail("category", enumMessage(cat, models.AllCategories()))
		}
		t.Category = c
	}

	if score, ok := v.integer(obj, "", "agentFirstScore"); ok {
		if score < minScore || score > maxScore {
			v.fail("agentFirstScore", fmt.Sprintf("must be between %d and %d", minScore, maxScore))
		}
		t.AgentFirstScore = score
	}

	if ifaces, ok := v.object(obj, "", "interfaces"); ok {
		for _, key := range models.AllInterfaces() {
			if b, ok := v.boolean(ifaces, "interfaces", string(key)); ok {
				t.Interfaces = t.Interfaces.Set(key, b)
			}
		}
	}

	if signup, ok := v.object(obj, "", "signup"); ok {
		if method, ok := v.str(signup, "signup", "method"); ok {
			m := models.SignupMethod(method)
			if !m.Valid() {
				v.fail("signup.method", enumMessage(method, models.AllSignupMethods()))
			}
			t.Signup.Method = m
		}
		t.Signup.HasAgentAuth, _ = v.boolean(signup, "signup", "hasAgentAuth")
		t.Signup.AllowsBots, _ = v.boolean(signup, "signup", "allowsBots")
	}

	t.AllFeaturesViaAPI, _ = v.boolean(obj, "", "allFeaturesViaAPI")
	t.SDKLanguages, _ = v.stringList(obj, "", "sdkLanguages")

	if val, present := obj["mcpServerUrl"]; present && val != nil {
		if u, ok := v.url(obj, "", "mcpServerUrl"); ok {
			t.MCPServerURL = &u
		}
	}

	if pricing, ok := v.object(obj, "", "pricing"); ok {
		t.Pricing.HasFree, _ = v.boolean(pricing, "pricing", "hasFree")
		if model, ok := v.str(pricing, "pricing", "model"); ok {
			p := models.PricingModel(model)
			if !p.Valid() {
				v.fail("pricing.model", enumMessage(model, models.AllPricingModels()))
			}
			t.Pricing.Model = p
		}
	}

	t.Tags, _ = v.stringList(obj, "", "tags")
	t.AddedAt, _ = v.datetime(obj, "", "addedAt")
	t.Verified, _ = v.boolean(obj, "", "verified")

	if len(v.errs) > 0 {
		return nil, &RecordError{Fields: v.errs}
	}
	return &t, nil
}

// validator accumulates field errors while walking a record
type validator struct {
	errs []FieldError
}

func (v *validator) fail(field, message string) {
	v.errs = append(v.errs, FieldError{Field: field, Message: message})
}

// lookup fetches a required key, reporting it when absent
func (v *validator) lookup(obj map[string]any, prefix, key string) (any, string, bool) {
	path := joinPath(prefix, key)
	val, ok := obj[key]
	if !ok {
		v.fail(path, "is required")
		return nil, path, false
	}
	return val, path, true
}

func (v *validator) str(obj map[string]any, prefix, key string) (string, bool) {
	val, path, ok := v.lookup(obj, prefix, key)
	if !ok {
		return "", false
	}
	s, ok := val.(string)
	if !ok {
		v.fail(path, expected("string", val))
		return "", false
	}
	return s, true
}

func (v *validator) boolean(obj map[string]any, prefix, key string) (bool, bool) {
	val, path, ok := v.lookup(obj, prefix, key)
	if !ok {
		return false, false
	}
	b, ok := val.(bool)
	if !ok {
		v.fail(path, expected("boolean", val))
		return false, false
	}
	return b, true
}

func (v *validator) object(obj map[string]any, prefix, key string) (map[string]any, bool) {
	val, path, ok := v.lookup(obj, prefix, key)
	if !ok {
		return nil, false
	}
	m, ok := val.(map[string]any)
	if !ok {
		v.fail(path, expected("object", val))
		return nil, false
	}
	return m, true
}

func (v *validator) integer(obj map[string]any, prefix, key string) (int, bool) {
	val, path, ok := v.lookup(obj, prefix, key)
	if !ok {
		return 0, false
	}
	if n, ok := val.(json.Number); ok {
		if _, err := n.Float64(); err != nil {
			v.fail(path, "is out of range")
			return 0, false
		}
	}
	f, isNumber := toFloat(val)
	if !isNumber {
		v.fail(path, expected("number", val))
		return 0, false
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		v.fail(path, "must be an integer")
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		v.fail(path, "is out of range")
		return 0, false
	}
	return int(f), true
}

// stringList reads an array of strings, reporting every non-string element
func (v *validator) stringList(obj map[string]any, prefix, key string) ([]string, bool) {
	val, path, ok := v.lookup(obj, prefix, key)
	if !ok {
		return nil, false
	}
	arr, ok := val.([]any)
	if !ok {
		v.fail(path, expected("array", val))
		return nil, false
	}
	out := make([]string, 0, len(arr))
	valid := true
	for i, item := range arr {
		s, ok := item.(string)
		if !ok {
			v.fail(fmt.Sprintf("%s[%d]", path, i), expected("string", item))
			valid = false
			continue
		}
		out = append(out, s)
	}
	return out, valid
}

func (v *validator) url(obj map[string]any, prefix, key string) (string, bool) {
	s, ok := v.str(obj, prefix, key)
	if !ok {
		return "", false
	}
	if !isAbsoluteURL(s) {
		v.fail(joinPath(prefix, key), "must be an absolute URL")
		return s, false
	}
	return s, true
}

func (v *validator) datetime(obj map[string]any, prefix, key string) (time.Time, bool) {
	val, path, ok := v.lookup(obj, prefix, key)
	if !ok {
		return time.Time{}, false
	}
	switch t := val.(type) {
	case time.Time:
		// TOML offset datetimes; only UTC ones are accepted
		if _, offset := t.Zone(); offset == 0 {
			return t.UTC(), true
		}
		v.fail(path, "must be an ISO-8601 UTC datetime (YYYY-MM-DDTHH:MM:SSZ)")
		return time.Time{}, false
	case string:
		if datetimePattern.MatchString(t) {
			if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
				return parsed.UTC(), true
			}
		}
		v.fail(path, "must be an ISO-8601 UTC datetime (YYYY-MM-DDTHH:MM:SSZ)")
		return time.Time{}, false
	}
	v.fail(path, expected("string", val))
	return time.Time{}, false
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

func toFloat(val any) (float64, bool) {
	switch n := val.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func expected(want string, got any) string {
	return fmt.Sprintf("expected %s, received %s", want, typeName(got))
}

func enumMessage[T ~string](got string, allowed []T) string {
	opts := make([]string, len(allowed))
	for i, a := range allowed {
		opts[i] = string(a)
	}
	return fmt.Sprintf("must be one of %s (received %q)", strings.Join(opts, ", "), got)
}

func typeName(val any) string {
	switch val.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, int, int64, uint64, float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case time.Time:
		return "datetime"
	}
	return fmt.Sprintf("%T", val)
}
