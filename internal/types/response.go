package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// HeaderNextPage carries the URL of the following page on list endpoints.
const HeaderNextPage = "Next-Page"

// ------------------------------
// Response Types
// ------------------------------

// Pagination mirrors meta.pagination.
type Pagination struct {
	Limit  int    `json:"limit"`
	Offset Offset `json:"offset"`
	Total  int    `json:"total"`
}

// Offset is the pagination offset. Offset-based pages report a number,
// marker-based pages report an opaque string.
type Offset string

// UnmarshalJSON implements json.Unmarshaler.
func (o *Offset) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*o = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*o = Offset(s)
		return nil
	}
	*o = Offset(b)
	return nil
}

// MarshalJSON writes numeric offsets as numbers and markers as strings.
func (o Offset) MarshalJSON() ([]byte, error) {
	if n, err := strconv.Atoi(string(o)); err == nil {
		return []byte(strconv.Itoa(n)), nil
	}
	return json.Marshal(string(o))
}

// Int returns the numeric offset; it fails for marker offsets.
func (o Offset) Int() (int, error) {
	if o == "" {
		return 0, nil
	}
	return strconv.Atoi(string(o))
}

// Meta is the metadata block present on every API response.
type Meta struct {
	TraceID    string      `json:"trace_id"`
	QueryTime  float64     `json:"query_time"`
	PoweredBy  string      `json:"powered_by,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// ErrorDetail is a single entry in the errors array.
type ErrorDetail struct {
	ID      string `json:"id,omitempty"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the body returned alongside failed calls.
type ErrorResponse struct {
	Meta   Meta          `json:"meta"`
	Errors []ErrorDetail `json:"errors"`
}

// ParseErrorResponse decodes an error payload. It returns nil when the body
// is empty or not the expected JSON shape.
func ParseErrorResponse(body []byte) *ErrorResponse {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return nil
	}
	return &er
}

// Response wraps a page of resources.
type Response[T any] struct {
	Meta      Meta          `json:"meta"`
	Errors    []ErrorDetail `json:"errors"`
	Resources []T           `json:"resources"`

	// NextPage is taken from the Next-Page response header.
	NextPage string `json:"-"`
}

// DecodeResponse parses a successful list/entity response.
func DecodeResponse[T any](header http.Header, body []byte) (*Response[T], error) {
	var r Response[T]
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if r.Resources == nil {
		r.Resources = []T{}
	}
	if header != nil {
		r.NextPage = header.Get(HeaderNextPage)
	}
	return &r, nil
}

// NextPageParams returns the query parameters of the next page, or nil when
// there is no next page.
func (r *Response[T]) NextPageParams() (url.Values, error) {
	if r == nil || r.NextPage == "" {
		return nil, nil
	}
	u, err := url.Parse(r.NextPage)
	if err != nil {
		return nil, fmt.Errorf("parse next page %q: %w", r.NextPage, err)
	}
	return u.Query(), nil
}
