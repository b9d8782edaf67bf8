package validator

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// FieldKind is the JSON type a form field is coerced into.
type FieldKind int

const (
	KindString FieldKind = iota
	KindInt
	KindFloat
	KindBool
)

// formCoercions is the static per-field table applied to form-encoded
// bodies. Fields not listed stay strings. An empty value for a non-string
// field becomes JSON null.
var formCoercions = map[string]FieldKind{
	"item_id":         KindInt,
	"tag_id":          KindInt,
	"type_id":         KindInt,
	"parent_id":       KindInt,
	"image_id":        KindInt,
	"timestamp":       KindInt,
	"expires_at":      KindInt,
	"plate":           KindInt,
	"row":             KindInt,
	"col":             KindInt,
	"weight":          KindFloat,
	"original_weight": KindFloat,
	"current_weight":  KindFloat,
	"clear_type":      KindBool,
	"clear_expiry":    KindBool,
	"clear_image":     KindBool,
	"clear_parent":    KindBool,
	"clear_item":      KindBool,
	"present_only":    KindBool,
}

// CoerceForm converts form values into a JSON-ready map using the coercion
// table. Only the first value of each key is used. Fields that fail to parse
// are reported in the returned map of field → message.
func CoerceForm(values url.Values) (map[string]any, map[string]string) {
	out := make(map[string]any, len(values))
	var errs map[string]string

	for key, vs := range values {
		if len(vs) == 0 {
			continue
		}
		raw := strings.TrimSpace(vs[0])
		kind := formCoercions[key]
		if kind == KindString {
			out[key] = vs[0]
			continue
		}
		if raw == "" {
			out[key] = nil
			continue
		}

		v, err := coerce(kind, raw)
		if err != nil {
			if errs == nil {
				errs = make(map[string]string)
			}
			errs[key] = err.Error()
			continue
		}
		out[key] = v
	}
	return out, errs
}

func coerce(kind FieldKind, raw string) (any, error) {
	switch kind {
	case KindInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("Must be an integer")
		}
		return n, nil
	case KindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("Must be a number")
		}
		return f, nil
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("Must be true or false")
		}
		return b, nil
	default:
		return raw, nil
	}
}

func isForm(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mt == "application/x-www-form-urlencoded" || mt == "multipart/form-data"
}

// decodeForm parses a form body into dst by round-tripping the coerced
// values through encoding/json, so struct json tags apply unchanged.
func decodeForm(r *http.Request, dst any) (map[string]string, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	values := r.PostForm
	if r.MultipartForm != nil {
		values = r.MultipartForm.Value
	}

	m, fieldErrs := CoerceForm(values)
	if len(fieldErrs) > 0 {
		return fieldErrs, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return nil, json.Unmarshal(raw, dst)
}
