package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Query builds and executes one PostgREST table operation.
type Query struct {
	client    *Client
	table     string
	method    string
	columns   string
	filters   []string
	orders    []string
	limitVal  *int
	offsetVal *int
	body      []byte
	headers   map[string]string
	single    bool
	count     bool
}

// Select specifies columns to select.
func (q *Query) Select(columns string) *Query {
	q.method = "GET"
	q.columns = columns
	return q
}

// Insert inserts records.
func (q *Query) Insert(data interface{}) *Query {
	q.method = "POST"
	q.body, _ = json.Marshal(data)
	q.headers["Prefer"] = "return=representation"
	return q
}

// Update updates the rows matched by the filters.
func (q *Query) Update(data interface{}) *Query {
	q.method = "PATCH"
	q.body, _ = json.Marshal(data)
	q.headers["Prefer"] = "return=representation"
	return q
}

// Delete deletes the rows matched by the filters.
func (q *Query) Delete() *Query {
	q.method = "DELETE"
	q.headers["Prefer"] = "return=representation"
	return q
}

// Eq adds an equality filter.
func (q *Query) Eq(column string, value interface{}) *Query {
	q.filters = append(q.filters, fmt.Sprintf("%s=eq.%v", column, value))
	return q
}

// ILike adds a case-insensitive LIKE filter.
func (q *Query) ILike(column, pattern string) *Query {
	q.filters = append(q.filters, fmt.Sprintf("%s=ilike.%s", column, url.QueryEscape(pattern)))
	return q
}

// Is adds an IS filter (null, true, false).
func (q *Query) Is(column string, value interface{}) *Query {
	q.filters = append(q.filters, fmt.Sprintf("%s=is.%v", column, value))
	return q
}

// Or adds an OR filter group in PostgREST syntax.
func (q *Query) Or(filters string) *Query {
	q.filters = append(q.filters, "or=("+filters+")")
	return q
}

// Order adds an order clause.
func (q *Query) Order(column string, descending bool) *Query {
	dir := "asc"
	if descending {
		dir = "desc"
	}
	q.orders = append(q.orders, column+"."+dir)
	return q
}

// Limit sets the maximum number of rows.
func (q *Query) Limit(n int) *Query {
	q.limitVal = &n
	return q
}

// Offset sets the number of rows to skip.
func (q *Query) Offset(n int) *Query {
	q.offsetVal = &n
	return q
}

// Single expects exactly one row.
func (q *Query) Single() *Query {
	q.single = true
	q.headers["Accept"] = "application/vnd.pgrst.object+json"
	return q
}

// ExactCount requests the exact total row count alongside the page.
func (q *Query) ExactCount() *Query {
	q.count = true
	return q
}

// Execute runs the query and returns the raw response body.
func (q *Query) Execute(ctx context.Context) ([]byte, error) {
	body, _, err := q.run(ctx)
	return body, err
}

// ExecuteInto runs the query and unmarshals the response into dest.
func (q *Query) ExecuteInto(ctx context.Context, dest interface{}) error {
	body, _, err := q.run(ctx)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// ExecuteWithCount runs the query, unmarshals the page into dest and
// returns the exact total parsed from Content-Range.
func (q *Query) ExecuteWithCount(ctx context.Context, dest interface{}) (int, error) {
	q.count = true
	body, total, err := q.run(ctx)
	if err != nil {
		return 0, err
	}
	if dest != nil {
		if err := json.Unmarshal(body, dest); err != nil {
			return 0, fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return total, nil
}

func (q *Query) run(ctx context.Context) ([]byte, int, error) {
	if q.count {
		q.headers["Prefer"] = appendPrefer(q.headers["Prefer"], "count=exact")
	}

	req := q.client.http.R().SetContext(ctx).SetHeaders(q.headers)
	if q.body != nil {
		req.SetBody(q.body)
	}

	resp, err := req.Execute(q.method, q.buildURL())
	if err != nil {
		return nil, 0, fmt.Errorf("supabase request: %w", err)
	}

	if resp.StatusCode() >= 400 {
		return nil, 0, parseError(resp.Body(), resp.StatusCode())
	}

	total := parseContentRange(resp.Header().Get("Content-Range"))
	return resp.Body(), total, nil
}

func (q *Query) buildURL() string {
	urlStr := q.client.restURL + "/" + url.PathEscape(q.table)

	params := make([]string, 0, len(q.filters)+4)
	if q.method == "GET" && q.columns != "" {
		params = append(params, "select="+url.QueryEscape(q.columns))
	}
	params = append(params, q.filters...)
	if len(q.orders) > 0 {
		params = append(params, "order="+strings.Join(q.orders, ","))
	}
	if q.limitVal != nil {
		params = append(params, fmt.Sprintf("limit=%d", *q.limitVal))
	}
	if q.offsetVal != nil {
		params = append(params, fmt.Sprintf("offset=%d", *q.offsetVal))
	}

	if len(params) > 0 {
		urlStr += "?" + strings.Join(params, "&")
	}
	return urlStr
}

// parseContentRange extracts the total from a "0-9/42" style header.
// Returns 0 when no exact count is present.
func parseContentRange(header string) int {
	idx := strings.LastIndex(header, "/")
	if idx < 0 {
		return 0
	}
	total, err := strconv.Atoi(header[idx+1:])
	if err != nil {
		return 0
	}
	return total
}

func appendPrefer(existing, addition string) string {
	if existing == "" {
		return addition
	}
	return existing + "," + addition
}
