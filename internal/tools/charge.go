package tools

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/okami-inn/okami/internal/dates"
	"github.com/okami-inn/okami/internal/lark"
)

// CalculateRoomChargeTool sums nightly prices for a booking over
// [check-in, check-out).
type CalculateRoomChargeTool struct {
	tables TableClient
}

func NewCalculateRoomChargeTool(tables TableClient) *CalculateRoomChargeTool {
	return &CalculateRoomChargeTool{tables: tables}
}

func (t *CalculateRoomChargeTool) Name() string { return "calculate_room_charge" }
func (t *CalculateRoomChargeTool) Description() string {
	return "Calculate the room charges for a given booking"
}

func (t *CalculateRoomChargeTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"check_in_date": map[string]any{
				"type":        "string",
				"description": "Check-in date, 'YYYY-MM-DD' or 'YYYY-MM-DD HH:MM:SS'",
			},
			"check_out_date": map[string]any{
				"type":        "string",
				"description": "Check-out date, 'YYYY-MM-DD' or 'YYYY-MM-DD HH:MM:SS'",
			},
			"room_numbers": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "integer"},
				"description": "Room numbers being booked",
			},
		},
		"required": []string{"check_in_date", "check_out_date", "room_numbers"},
	}
}

func (t *CalculateRoomChargeTool) Execute(ctx context.Context, args map[string]any) *Result {
	checkIn := strArg(args, "check_in_date")
	checkOut := strArg(args, "check_out_date")
	rooms := intSliceArg(args, "room_numbers")
	if checkIn == "" || checkOut == "" || len(rooms) == 0 {
		return ErrorResult("check_in_date, check_out_date and room_numbers are required")
	}

	fieldNames := []string{"日期"}
	columnRooms := make(map[string]int, len(rooms))
	for _, room := range rooms {
		column, ok := roomPriceColumns[room]
		if !ok {
			return ErrorResult(fmt.Sprintf("unknown room number: %d", room))
		}
		fieldNames = append(fieldNames, column)
		columnRooms[column] = room
	}

	// The exclusive window (check-in minus one day, check-out) yields
	// nightly rows for [check-in, check-out).
	result, err := t.tables.SearchRecords(ctx, stockAppToken, priceTable, lark.SearchSpec{
		FieldNames: fieldNames,
		Conditions: lark.DateRangeFilter("日期", dates.AdjustDatetimeStr(checkIn, -1), checkOut),
	})
	if err != nil {
		return ErrorResult(fmt.Sprintf("fetch room prices: %v", err)).WithError(err)
	}

	charges := make(map[string]any)
	totals := make(map[int]int64, len(rooms))
	perNight := make(map[int]map[string]int64, len(rooms))
	var totalSum int64

	for _, row := range lark.FlattenRecords(result.Items) {
		ms, ok := dates.IsTimestamp(row["日期"])
		if !ok {
			continue
		}
		day := strings.SplitN(dates.TimestampToDatetime(ms), " ", 2)[0]
		for column, value := range row {
			if column == "日期" {
				continue
			}
			room, ok := columnRooms[column]
			if !ok {
				continue
			}
			price, ok := value.(float64)
			if !ok {
				continue
			}
			rounded := int64(math.Round(price))
			if perNight[room] == nil {
				perNight[room] = make(map[string]int64)
			}
			perNight[room][day] = rounded
			totals[room] += rounded
			totalSum += rounded
		}
	}

	for room, nights := range perNight {
		entry := map[string]any{"total": totals[room]}
		for day, price := range nights {
			entry[day] = price
		}
		charges[RoomLabel(room)] = entry
	}
	charges["total_sum"] = totalSum

	return JSONResult(charges)
}
