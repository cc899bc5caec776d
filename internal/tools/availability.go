package tools

import (
	"context"
	"fmt"

	"github.com/okami-inn/okami/internal/dates"
	"github.com/okami-inn/okami/internal/lark"
)

var stockFields = []string{
	"日期",
	"空室数",
	"家庭房101库存",
	"隔断家庭房302库存",
	"两室家庭房401库存",
	"浴缸双床房301库存",
	"淋浴双床房201库存",
	"淋浴大床房202库存",
}

// LookupRoomAvailabilityTool reads per-room stock for a date range.
type LookupRoomAvailabilityTool struct {
	tables TableClient
}

func NewLookupRoomAvailabilityTool(tables TableClient) *LookupRoomAvailabilityTool {
	return &LookupRoomAvailabilityTool{tables: tables}
}

func (t *LookupRoomAvailabilityTool) Name() string { return "lookup_room_availability_by_date" }
func (t *LookupRoomAvailabilityTool) Description() string {
	return "Look up the stock of hotel rooms for a specific date range"
}

func (t *LookupRoomAvailabilityTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"check_in": map[string]any{
				"type":        "string",
				"description": "Check-in date, 'YYYY-MM-DD' or 'YYYY-MM-DD HH:MM:SS'",
			},
			"check_out": map[string]any{
				"type":        "string",
				"description": "Check-out date, 'YYYY-MM-DD' or 'YYYY-MM-DD HH:MM:SS'",
			},
		},
		"required": []string{"check_in", "check_out"},
	}
}

func (t *LookupRoomAvailabilityTool) Execute(ctx context.Context, args map[string]any) *Result {
	checkIn := strArg(args, "check_in")
	checkOut := strArg(args, "check_out")
	if checkIn == "" || checkOut == "" {
		return ErrorResult("check_in and check_out are required")
	}

	start, end := dates.FormatDateRange(checkIn, checkOut)
	result, err := t.tables.SearchRecords(ctx, stockAppToken, availabilityTable, lark.SearchSpec{
		FieldNames: stockFields,
		Conditions: lark.DateRangeFilter("日期", start, end),
	})
	if err != nil {
		return ErrorResult(fmt.Sprintf("lookup room availability: %v", err)).WithError(err)
	}
	return JSONResult(result)
}
