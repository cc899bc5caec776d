package tools

import (
	"context"
	"fmt"

	"github.com/okami-inn/okami/internal/lark"
	"github.com/okami-inn/okami/internal/weather"
)

// TableClient is the slice of the Bitable API the hotel tools need.
type TableClient interface {
	SearchRecords(ctx context.Context, appToken string, table lark.TableModel, spec lark.SearchSpec) (*lark.SearchResult, error)
	CreateRecord(ctx context.Context, appToken string, table lark.TableModel, fields map[string]any) (*lark.Record, error)
}

// WeatherClient provides current conditions for a free-form location.
type WeatherClient interface {
	CurrentWeather(ctx context.Context, location string) (*weather.Observation, error)
}

// Hotel table coordinates. One Bitable app per concern.
const (
	stockAppToken   = "KFo5bqi26a52u2s5toJcrV6tnWb"
	stagingAppToken = "RPMLbE4UXa26N9s8867cHlebnrb"
	orderAppToken   = "VBzXbc7GGasnpbsEqYJcXLmgnUc"
	revenueAppToken = "DJJ2bdtuPalDEBsJbijcwnV6n1g"
)

var (
	availabilityTable = lark.TableModel{TableID: "tblxlwPlmWXLOHl7", ViewID: "vew9aCSfMp", PrimaryKey: "日期"}
	priceTable        = lark.TableModel{TableID: "tblxlwPlmWXLOHl7", ViewID: "vew6lrwU1W", PrimaryKey: "日期"}
	weeklyTable       = lark.TableModel{TableID: "tblulMPBjoYKFpDg", ViewID: "vew8UWgWyj", PrimaryKey: "第几周"}
	stagingTable      = lark.TableModel{TableID: "tblWyF55DDspX0D3", ViewID: "vewzTTaQcw", PrimaryKey: "user_id"}
	orderTable        = lark.TableModel{TableID: "tblht0zaMGvVN1Jg", ViewID: "vewqkKuvDO", PrimaryKey: "🏡"}
	revenueTable      = lark.TableModel{TableID: "tblL7opM5nJK2wTL", ViewID: "vewzpcbKip", PrimaryKey: "月初"}
)

// roomLabels maps room numbers to the labelled room types used in
// order records.
var roomLabels = map[int]string{
	101: "101（家庭房）",
	201: "201（双人）",
	202: "202（大床）",
	301: "301（3人间）",
	302: "302（隔断家庭）",
	401: "401（两室家庭）",
}

// roomPriceColumns maps room numbers to their nightly price column.
var roomPriceColumns = map[int]string{
	101: "家庭房101价格",
	201: "淋浴双床房201价格",
	202: "淋浴大床房202价格",
	301: "浴缸双床房301价格",
	302: "隔断家庭房302价格",
	401: "两室家庭房401价格",
}

// RoomLabel returns the labelled room type for a room number.
func RoomLabel(room int) string {
	if label, ok := roomLabels[room]; ok {
		return label
	}
	return fmt.Sprintf("%d（未知类型）", room)
}

// --- argument decoding helpers ---

func strArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func intArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func floatArg(args map[string]any, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func intSliceArg(args map[string]any, key string) []int {
	raw, ok := args[key].([]any)
	if !ok {
		if typed, ok := args[key].([]int); ok {
			return typed
		}
		return nil
	}
	out := make([]int, 0, len(raw))
	for _, v := range raw {
		switch n := v.(type) {
		case float64:
			out = append(out, int(n))
		case int:
			out = append(out, n)
		}
	}
	return out
}
