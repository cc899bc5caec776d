package tools

import (
	"context"
	"fmt"

	"github.com/okami-inn/okami/internal/dates"
	"github.com/okami-inn/okami/internal/lark"
)

var monthlyFields = []string{
	"売上",
	"入住率",
	"収入",
	"已平",
	"未平",
	"月初",
	"月总盈余",
	"利益",
	"总房晚数",
	"月末",
	"每晚均价",
}

// GetMonthlyRevenueTool fetches monthly revenue rows for a date range.
type GetMonthlyRevenueTool struct {
	tables TableClient
}

func NewGetMonthlyRevenueTool(tables TableClient) *GetMonthlyRevenueTool {
	return &GetMonthlyRevenueTool{tables: tables}
}

func (t *GetMonthlyRevenueTool) Name() string { return "get_monthly_revenue_statistics" }
func (t *GetMonthlyRevenueTool) Description() string {
	return "Retrieve monthly revenue statistics for a specified date range"
}

func (t *GetMonthlyRevenueTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"check_in": map[string]any{
				"type":        "string",
				"description": "Start date, 'YYYY-MM-DD' or 'YYYY-MM-DD HH:MM:SS'",
			},
			"check_out": map[string]any{
				"type":        "string",
				"description": "End date, 'YYYY-MM-DD' or 'YYYY-MM-DD HH:MM:SS'",
			},
		},
		"required": []string{"check_in", "check_out"},
	}
}

func (t *GetMonthlyRevenueTool) Execute(ctx context.Context, args map[string]any) *Result {
	checkIn := strArg(args, "check_in")
	checkOut := strArg(args, "check_out")
	if checkIn == "" || checkOut == "" {
		return ErrorResult("check_in and check_out are required")
	}

	start, end := dates.FormatDateRange(checkIn, checkOut)
	result, err := t.tables.SearchRecords(ctx, revenueAppToken, revenueTable, lark.SearchSpec{
		FieldNames: monthlyFields,
		Conditions: lark.DateRangeFilter("月初", start, end),
	})
	if err != nil {
		return ErrorResult(fmt.Sprintf("fetch monthly revenue: %v", err)).WithError(err)
	}

	rows := lark.FlattenRecords(result.Items)
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, standardizeMonthlyStats(row))
	}
	return JSONResult(out)
}

func standardizeMonthlyStats(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for key, value := range row {
		switch key {
		case "売上":
			out["销售额"] = value
		case "収入":
			out["收入"] = value
		case "已平":
			out["已结账"] = value
		case "未平":
			out["未结账"] = value
		case "月初", "月末":
			if ms, ok := dates.IsTimestamp(value); ok {
				out[key] = dates.TimestampToDatetime(ms)
			} else {
				out[key] = value
			}
		default:
			out[key] = value
		}
	}
	return out
}
