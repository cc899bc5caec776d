package tools

import (
	"context"
	"fmt"

	"github.com/okami-inn/okami/internal/dates"
)

// CreateStagingOrderTool records a provisional booking while the guest
// is still in conversation.
type CreateStagingOrderTool struct {
	tables TableClient
}

func NewCreateStagingOrderTool(tables TableClient) *CreateStagingOrderTool {
	return &CreateStagingOrderTool{tables: tables}
}

func (t *CreateStagingOrderTool) Name() string {
	return "create_a_staging_order_for_booking_a_room"
}

func (t *CreateStagingOrderTool) Description() string {
	return "Create a staging order record for booking a room"
}

func (t *CreateStagingOrderTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"user_id":        map[string]any{"type": "string", "description": "Unique identifier of the booking user"},
			"user_name":      map[string]any{"type": "string", "description": "Full name of the booking user"},
			"user_contact":   map[string]any{"type": "string", "description": "Contact information, email or phone"},
			"check_in_date":  map[string]any{"type": "string", "description": "Check-in date, 'YYYY-MM-DD' or 'YYYY-MM-DD HH:MM:SS'"},
			"check_out_date": map[string]any{"type": "string", "description": "Check-out date, 'YYYY-MM-DD' or 'YYYY-MM-DD HH:MM:SS'"},
			"num_of_guests":  map[string]any{"type": "integer", "description": "Number of guests"},
			"room_number": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "integer"},
				"description": "Room numbers being booked",
			},
		},
		"required": []string{"user_id", "user_name", "user_contact", "check_in_date", "check_out_date", "num_of_guests", "room_number"},
	}
}

func (t *CreateStagingOrderTool) Execute(ctx context.Context, args map[string]any) *Result {
	userID := strArg(args, "user_id")
	checkIn := strArg(args, "check_in_date")
	checkOut := strArg(args, "check_out_date")
	rooms := intSliceArg(args, "room_number")
	guests, ok := intArg(args, "num_of_guests")
	if userID == "" || checkIn == "" || checkOut == "" || len(rooms) == 0 || !ok {
		return ErrorResult("user_id, check_in_date, check_out_date, num_of_guests and room_number are required")
	}

	roomTypes := make([]string, 0, len(rooms))
	for _, room := range rooms {
		roomTypes = append(roomTypes, RoomLabel(room))
	}

	record, err := t.tables.CreateRecord(ctx, stagingAppToken, stagingTable, map[string]any{
		"user_id":        userID,
		"user_name":      strArg(args, "user_name"),
		"user_contact":   strArg(args, "user_contact"),
		"check_in_date":  dates.DatetimeToTimestamp(checkIn),
		"check_out_date": dates.DatetimeToTimestamp(checkOut),
		"num_of_guests":  guests,
		"room_type":      roomTypes,
	})
	if err != nil {
		return ErrorResult(fmt.Sprintf("create staging order: %v", err)).WithError(err)
	}
	return JSONResult(map[string]any{"record": record})
}
