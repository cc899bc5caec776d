package tools

import (
	"context"
	"fmt"
	"strconv"

	"github.com/okami-inn/okami/internal/dates"
	"github.com/okami-inn/okami/internal/lark"
	"github.com/okami-inn/okami/internal/report"
)

var weeklyFields = []string{
	"第几周",
	"周一日期",
	"周日日期",
	"repar",
	"総人数",
	"総人泊数",
	"总儿童数",
	"总泊数",
	"稼働率",
	"売上",
	"平均房价",
	"有効注文数",
	"101已售房晚",
	"201已售房晚",
	"202已售房晚",
	"301已售房晚",
	"302已售房晚",
	"401已售房晚",
}

// GetWeeklyReportStatsTool fetches one week's operating statistics and
// translates the mixed-language column names to the reporting keys.
type GetWeeklyReportStatsTool struct {
	tables TableClient
}

func NewGetWeeklyReportStatsTool(tables TableClient) *GetWeeklyReportStatsTool {
	return &GetWeeklyReportStatsTool{tables: tables}
}

func (t *GetWeeklyReportStatsTool) Name() string { return "get_weekly_report_statistics" }
func (t *GetWeeklyReportStatsTool) Description() string {
	return "Get the weekly report statistics for a specific week"
}

func (t *GetWeeklyReportStatsTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"which_week": map[string]any{
				"type":        "integer",
				"description": "ISO week number to get the statistics for",
			},
		},
		"required": []string{"which_week"},
	}
}

func (t *GetWeeklyReportStatsTool) Execute(ctx context.Context, args map[string]any) *Result {
	week, ok := intArg(args, "which_week")
	if !ok {
		return ErrorResult("which_week is required")
	}

	result, err := t.tables.SearchRecords(ctx, stockAppToken, weeklyTable, lark.SearchSpec{
		FieldNames: weeklyFields,
		Conditions: lark.ExactValueFilter("第几周", strconv.Itoa(week)),
	})
	if err != nil {
		return ErrorResult(fmt.Sprintf("fetch weekly report: %v", err)).WithError(err)
	}

	rows := lark.FlattenRecords(result.Items)
	if len(rows) == 0 {
		return ErrorResult(fmt.Sprintf("no weekly report for week %d", week))
	}

	return JSONResult([]map[string]any{StandardizeWeeklyStats(rows[0])})
}

// StandardizeWeeklyStats renames the table's Japanese columns to the
// Chinese reporting keys and reshapes the raw values.
func StandardizeWeeklyStats(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for key, value := range row {
		switch key {
		case "総人数":
			out["总接待人数"] = value
		case "総人泊数":
			out["总接待人晚"] = value
		case "有効注文数":
			out["订单数"] = value
		case "总泊数":
			out["总晚数"] = value
		case "売上":
			out["周营业额"] = value
		case "稼働率":
			if rate, ok := value.(float64); ok {
				out["入住率"] = fmt.Sprintf("%.2f%%", rate*100)
			} else {
				out["入住率"] = value
			}
		case "周一日期", "周日日期":
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

// WeeklyReportPrintTool typesets weekly statistics into a table image
// and returns the temp file path for the image-reply flow.
type WeeklyReportPrintTool struct {
	fontPath string
}

func NewWeeklyReportPrintTool(fontPath string) *WeeklyReportPrintTool {
	return &WeeklyReportPrintTool{fontPath: fontPath}
}

func (t *WeeklyReportPrintTool) Name() string { return "weekly_report_typesetting_print" }
func (t *WeeklyReportPrintTool) Description() string {
	return "Typeset the weekly report as an image and return its file path"
}

func (t *WeeklyReportPrintTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"weekly_report_data": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "object"},
				"description": "Weekly report statistics, a single-element list",
			},
		},
		"required": []string{"weekly_report_data"},
	}
}

func (t *WeeklyReportPrintTool) Execute(ctx context.Context, args map[string]any) *Result {
	raw, ok := args["weekly_report_data"].([]any)
	if !ok || len(raw) == 0 {
		return ErrorResult("weekly_report_data must be a non-empty list")
	}
	stats, ok := raw[0].(map[string]any)
	if !ok {
		return ErrorResult("weekly_report_data entries must be objects")
	}

	path, err := report.Render(stats, report.Options{FontPath: t.fontPath})
	if err != nil {
		return ErrorResult(fmt.Sprintf("typeset weekly report: %v", err)).WithError(err)
	}
	return NewResult(path)
}
