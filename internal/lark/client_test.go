package lark

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeLark serves the token endpoint and Bitable search/create routes.
type fakeLark struct {
	mu          sync.Mutex
	tokenCalls  int
	searchBody  map[string]any
	searchCode  int
	failCodes   []int // codes returned by successive search calls before searchCode
	lastRequest map[string]any
	created     []map[string]any
}

func (f *fakeLark) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if r.URL.Path == tokenEndpoint {
			f.tokenCalls++
			json.NewEncoder(w).Encode(map[string]any{
				"code": 0, "msg": "ok",
				"tenant_access_token": "tok",
				"expire":              7200,
			})
			return
		}

		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		f.lastRequest = body

		if r.Method == "POST" && r.URL.Path == "/open-apis/bitable/v1/apps/app1/tables/tbl1/records" {
			f.created = append(f.created, body)
			json.NewEncoder(w).Encode(map[string]any{
				"code": 0,
				"data": map[string]any{"record": map[string]any{"record_id": "recNew", "fields": body["fields"]}},
			})
			return
		}

		code := f.searchCode
		if len(f.failCodes) > 0 {
			code = f.failCodes[0]
			f.failCodes = f.failCodes[1:]
		}
		if code != 0 {
			json.NewEncoder(w).Encode(map[string]any{"code": code, "msg": "boom"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"code": 0, "data": f.searchBody})
	})
}

func newTestClient(t *testing.T, f *fakeLark) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return NewClient("app-id", "app-secret", srv.URL)
}

func TestSearchRecords(t *testing.T) {
	const base = float64(1735113600000)
	f := &fakeLark{searchBody: map[string]any{
		"items": []any{map[string]any{
			"record_id": "rec1",
			"fields": map[string]any{
				"日期":  base,
				"空室数": map[string]any{"type": 2, "value": []any{1}},
			},
		}},
		"has_more": false,
		"total":    1,
	}}
	client := newTestClient(t, f)
	table := TableModel{TableID: "tbl1", ViewID: "vew1", PrimaryKey: "日期"}

	result, err := client.SearchRecords(context.Background(), "app1", table, SearchSpec{
		FieldNames: []string{"日期", "空室数"},
		Conditions: DateRangeFilter("日期", "2024-12-24", "2024-12-26"),
	})
	if err != nil {
		t.Fatalf("SearchRecords() error: %v", err)
	}
	if len(result.Items) != 1 || result.Total != 1 {
		t.Fatalf("result = %+v", result)
	}
	if ms, _ := result.Items[0].Fields["日期"].(int64); ms != int64(base)+hourMs {
		t.Errorf("timestamp not shifted: %v", result.Items[0].Fields["日期"])
	}

	filter, _ := f.lastRequest["filter"].(map[string]any)
	if filter["conjunction"] != "and" {
		t.Errorf("conjunction = %v", filter["conjunction"])
	}
	conditions, _ := filter["conditions"].([]any)
	if len(conditions) != 2 {
		t.Fatalf("got %d conditions, want 2", len(conditions))
	}
	first, _ := conditions[0].(map[string]any)
	if first["operator"] != "isGreater" {
		t.Errorf("first operator = %v", first["operator"])
	}
	value, _ := first["value"].([]any)
	if len(value) != 2 || value[0] != "ExactDate" {
		t.Errorf("first value = %v", value)
	}
	if f.lastRequest["automatic_fields"] != false {
		t.Errorf("automatic_fields = %v", f.lastRequest["automatic_fields"])
	}
}

func TestSearchRecords_APIErrorDegradesToEmpty(t *testing.T) {
	f := &fakeLark{searchCode: 1254005}
	client := newTestClient(t, f)

	result, err := client.SearchRecords(context.Background(), "app1", TableModel{TableID: "tbl1"}, SearchSpec{})
	if err != nil {
		t.Fatalf("API error must degrade, got: %v", err)
	}
	if len(result.Items) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestSearchRecords_RetriesOnceOnTokenError(t *testing.T) {
	f := &fakeLark{
		failCodes:  []int{99991663},
		searchBody: map[string]any{"items": []any{}, "total": 0},
	}
	client := newTestClient(t, f)

	result, err := client.SearchRecords(context.Background(), "app1", TableModel{TableID: "tbl1"}, SearchSpec{})
	if err != nil {
		t.Fatalf("SearchRecords() error: %v", err)
	}
	if result == nil {
		t.Fatal("nil result after retry")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tokenCalls != 2 {
		t.Errorf("token fetched %d times, want 2 (initial + refresh)", f.tokenCalls)
	}
}

func TestTokenIsCached(t *testing.T) {
	f := &fakeLark{searchBody: map[string]any{"items": []any{}}}
	client := newTestClient(t, f)
	table := TableModel{TableID: "tbl1"}

	for i := 0; i < 3; i++ {
		if _, err := client.SearchRecords(context.Background(), "app1", table, SearchSpec{}); err != nil {
			t.Fatal(err)
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tokenCalls != 1 {
		t.Errorf("token fetched %d times, want 1", f.tokenCalls)
	}
}

func TestCreateRecord(t *testing.T) {
	f := &fakeLark{}
	client := newTestClient(t, f)
	table := TableModel{TableID: "tbl1", ViewID: "vew1", PrimaryKey: "user_id"}

	fields := map[string]any{"user_id": "luigi", "num_of_guests": 1}
	record, err := client.CreateRecord(context.Background(), "app1", table, fields)
	if err != nil {
		t.Fatalf("CreateRecord() error: %v", err)
	}
	if record.RecordID != "recNew" {
		t.Errorf("record id = %q", record.RecordID)
	}
	if record.Fields["user_id"] != "luigi" {
		t.Errorf("fields not echoed: %v", record.Fields)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.created) != 1 {
		t.Fatalf("got %d creates, want 1", len(f.created))
	}
	sent, _ := f.created[0]["fields"].(map[string]any)
	if sent["user_id"] != "luigi" {
		t.Errorf("create payload wrong: %v", sent)
	}
}

func TestExactValueFilter(t *testing.T) {
	conditions := ExactValueFilter("第几周", "38")
	if len(conditions) != 1 {
		t.Fatalf("got %d conditions", len(conditions))
	}
	c := conditions[0]
	if c.Operator != "is" || c.FieldName != "第几周" {
		t.Errorf("condition = %+v", c)
	}
	if len(c.Value) != 1 || c.Value[0] != "38" {
		t.Errorf("value = %v", c.Value)
	}
}
