package handler

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/damon-houk/currency-rates-service/internal/domain/entity"
	"github.com/shopspring/decimal"
)

const (
	// maxBodyBytes bounds a JSON request body
	maxBodyBytes = 1 << 20
	// maxAmountLength bounds the text of an amount before it is parsed
	maxAmountLength = 64
)

// input holds request parameters from the query string, a form body or a JSON body
type input map[string]interface{}

// readInput merges query parameters with the request body; body values win
func readInput(w http.ResponseWriter, r *http.Request) (input, error) {
	in := make(input)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			in[key] = values[0]
		}
	}

	if r.Body == nil || r.Method == http.MethodGet {
		return in, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		var body map[string]interface{}
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		dec.UseNumber()
		if err := dec.Decode(&body); err != nil {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
		for key, value := range body {
			in[key] = value
		}
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && err != http.ErrNotMultipart {
			return nil, fmt.Errorf("invalid form body: %w", err)
		}
		for key, values := range r.PostForm {
			if len(values) > 0 {
				in[key] = values[0]
			}
		}
	}

	return in, nil
}

// attribute is the human name of a field in validation messages
func attribute(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

// str returns the trimmed string value of field, recording a message when it is not a string.
// Absent and null values return "".
func (in input) str(field string, verr *entity.ValidationError) string {
	raw, ok := in[field]
	if !ok || raw == nil {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		verr.Add(field, fmt.Sprintf("The %s field must be a string.", attribute(field)))
		return ""
	}
	return strings.TrimSpace(s)
}

// date parses field as a YYYY-MM-DD calendar date
func (in input) date(field string, verr *entity.ValidationError) time.Time {
	s := in.str(field, verr)
	if verr.Has(field) {
		return time.Time{}
	}
	if s == "" {
		verr.Add(field, fmt.Sprintf("The %s field is required.", attribute(field)))
		return time.Time{}
	}

	t, err := time.Parse(entity.DateLayout, s)
	if err != nil {
		verr.Add(field, fmt.Sprintf("The %s field must match the format Y-m-d.", attribute(field)))
		return time.Time{}
	}
	return t
}

// amount parses field as a number, from JSON numbers and numeric strings alike
func (in input) amount(field string, verr *entity.ValidationError) decimal.Decimal {
	var text string
	switch v := in[field].(type) {
	case nil:
	case json.Number:
		text = v.String()
	case string:
		text = strings.TrimSpace(v)
	default:
		verr.Add(field, fmt.Sprintf("The %s field must be a number.", attribute(field)))
		return decimal.Zero
	}

	if text == "" {
		verr.Add(field, fmt.Sprintf("The %s field is required.", attribute(field)))
		return decimal.Zero
	}

	if len(text) > maxAmountLength {
		verr.Add(field, fmt.Sprintf("The %s field must be a number.", attribute(field)))
		return decimal.Zero
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		verr.Add(field, fmt.Sprintf("The %s field must be a number.", attribute(field)))
		return decimal.Zero
	}
	return d
}
