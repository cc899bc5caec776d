package tools

import (
	"context"
	"fmt"
	"unicode"

	"github.com/okami-inn/okami/internal/dates"
)

// FinalizeOrderTool writes a confirmed booking to the order table,
// deducing the sales channel from the platform order id.
type FinalizeOrderTool struct {
	tables TableClient
}

func NewFinalizeOrderTool(tables TableClient) *FinalizeOrderTool {
	return &FinalizeOrderTool{tables: tables}
}

func (t *FinalizeOrderTool) Name() string { return "finalize_order_for_room_booking" }
func (t *FinalizeOrderTool) Description() string {
	return "Finalize an order for a room booking"
}

func (t *FinalizeOrderTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"user_name":      map[string]any{"type": "string", "description": "Full name of the booking user"},
			"check_in_date":  map[string]any{"type": "string", "description": "Check-in date, 'YYYY-MM-DD HH:MM:SS'"},
			"check_out_date": map[string]any{"type": "string", "description": "Check-out date, 'YYYY-MM-DD HH:MM:SS'"},
			"num_of_guests":  map[string]any{"type": "integer", "description": "Number of guests"},
			"room_numbers": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "integer"},
				"description": "Room numbers being booked",
			},
			"order_id":       map[string]any{"type": "string", "description": "Platform-specific order id, determines the booking channel"},
			"payment_amount": map[string]any{"type": "number", "description": "Total payment amount"},
		},
		"required": []string{"user_name", "check_in_date", "check_out_date", "num_of_guests", "room_numbers", "order_id", "payment_amount"},
	}
}

func (t *FinalizeOrderTool) Execute(ctx context.Context, args map[string]any) *Result {
	userName := strArg(args, "user_name")
	checkIn := strArg(args, "check_in_date")
	checkOut := strArg(args, "check_out_date")
	orderID := strArg(args, "order_id")
	rooms := intSliceArg(args, "room_numbers")
	guests, guestsOK := intArg(args, "num_of_guests")
	amount, amountOK := floatArg(args, "payment_amount")
	if userName == "" || checkIn == "" || checkOut == "" || orderID == "" || len(rooms) == 0 || !guestsOK || !amountOK {
		return ErrorResult("user_name, check_in_date, check_out_date, num_of_guests, room_numbers, order_id and payment_amount are required")
	}

	roomTypes := make([]string, 0, len(rooms))
	for _, room := range rooms {
		roomTypes = append(roomTypes, RoomLabel(room))
	}

	record, err := t.tables.CreateRecord(ctx, orderAppToken, orderTable, map[string]any{
		"代表者名前": userName,
		"CI":    dates.DatetimeToTimestamp(checkIn),
		"CO":    dates.DatetimeToTimestamp(checkOut),
		"总人数":   guests,
		"房间号":   roomTypes,
		"平台订单号": orderID,
		"订单金额":  amount,
		"Channel": []string{DeduceChannel(orderID)},
		"收款方式":  []string{"平台收款"},
	})
	if err != nil {
		return ErrorResult(fmt.Sprintf("finalize order: %v", err)).WithError(err)
	}
	return JSONResult(map[string]any{"record": record})
}

// DeduceChannel maps a platform order id to its sales channel: a "4"
// followed by digits means Booking.com, a leading letter means Airbnb,
// anything else is an offline booking.
func DeduceChannel(orderID string) string {
	if orderID == "" {
		return "offline"
	}
	runes := []rune(orderID)

	if runes[0] == '4' && len(runes) > 1 {
		allDigits := true
		for _, r := range runes[1:] {
			if !unicode.IsDigit(r) {
				allDigits = false
				break
			}
		}
		if allDigits {
			return "booking"
		}
	}
	if unicode.IsLetter(runes[0]) {
		return "airbnb"
	}
	return "offline"
}
