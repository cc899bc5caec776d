package lark

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/okami-inn/okami/internal/dates"
)

// Condition is one Bitable search filter clause.
type Condition struct {
	FieldName string `json:"field_name"`
	Operator  string `json:"operator"`
	Value     []any  `json:"value"`
}

// DateRangeFilter builds an exclusive (start, end) window on a date
// field. Dates are "YYYY-MM-DD" or "YYYY-MM-DD HH:MM:SS".
func DateRangeFilter(fieldName, startDate, endDate string) []Condition {
	return []Condition{
		{FieldName: fieldName, Operator: "isGreater", Value: []any{"ExactDate", dates.DatetimeToTimestamp(startDate)}},
		{FieldName: fieldName, Operator: "isLess", Value: []any{"ExactDate", dates.DatetimeToTimestamp(endDate)}},
	}
}

// ExactValueFilter matches a field against one exact value.
func ExactValueFilter(fieldName, value string) []Condition {
	return []Condition{
		{FieldName: fieldName, Operator: "is", Value: []any{value}},
	}
}

// SearchSpec selects which fields to return and which rows match.
type SearchSpec struct {
	FieldNames []string
	Conditions []Condition
}

// Record is one Bitable row.
type Record struct {
	RecordID string         `json:"record_id"`
	Fields   map[string]any `json:"fields"`
}

// SearchResult is the reshaped search response.
type SearchResult struct {
	Items   []Record `json:"items"`
	HasMore bool     `json:"has_more"`
	Total   int      `json:"total"`
}

// SearchRecords queries a table and returns its matching rows with
// timestamps shifted to the hotel's timezone. A non-zero API code
// degrades to an empty result, matching the read-only callers that
// treat "no rows" and "table unavailable" the same way.
func (c *Client) SearchRecords(ctx context.Context, appToken string, table TableModel, spec SearchSpec) (*SearchResult, error) {
	path := fmt.Sprintf("/open-apis/bitable/v1/apps/%s/tables/%s/records/search", appToken, table.TableID)
	body := map[string]any{
		"view_id":          table.ViewID,
		"field_names":      spec.FieldNames,
		"automatic_fields": false,
		"filter": map[string]any{
			"conjunction": "and",
			"conditions":  spec.Conditions,
		},
	}

	resp, err := c.doJSON(ctx, "POST", path, body)
	if err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		slog.Error("failed to fetch records", "code", resp.Code, "msg", resp.Msg, "table", table.TableID)
		return &SearchResult{}, nil
	}

	var result SearchResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("decode search result: %w", err)
	}
	for i, item := range result.Items {
		result.Items[i] = table.SyncTimeOffsetForRecord(item)
	}
	return &result, nil
}

// CreateRecord inserts one row and returns the created record.
func (c *Client) CreateRecord(ctx context.Context, appToken string, table TableModel, fields map[string]any) (*Record, error) {
	path := fmt.Sprintf("/open-apis/bitable/v1/apps/%s/tables/%s/records", appToken, table.TableID)
	resp, err := c.doJSON(ctx, "POST", path, map[string]any{"fields": fields})
	if err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("lark create record: code=%d msg=%s", resp.Code, resp.Msg)
	}

	var data struct {
		Record Record `json:"record"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("decode created record: %w", err)
	}
	return &data.Record, nil
}
