package lark

import "github.com/okami-inn/okami/internal/dates"

// timestampFieldType marks Bitable dict fields whose value list holds
// epoch-millisecond timestamps.
const timestampFieldType = float64(5)

// jstToCSTHours is the offset applied to timestamps coming back from
// the table service, which reports them in Japan time.
const jstToCSTHours = 1

// TableModel identifies one Bitable table. PrimaryKey names the single
// non-dict field of the table; every other field arrives as a dict
// with "type" and "value".
type TableModel struct {
	TableID    string
	ViewID     string
	PrimaryKey string
}

// SyncTimeOffsetForRecord shifts every timestamp in the record by one
// hour: the primary key when it is a bare timestamp, and the value
// list of every type-5 dict field. Other fields pass through.
func (t TableModel) SyncTimeOffsetForRecord(record Record) Record {
	fields := make(map[string]any, len(record.Fields))
	for name, value := range record.Fields {
		fields[name] = t.syncTimeOffsetForField(name, value)
	}
	record.Fields = fields
	return record
}

func (t TableModel) syncTimeOffsetForField(name string, value any) any {
	if name == t.PrimaryKey {
		if ms, ok := dates.IsTimestamp(value); ok {
			return dates.AdjustTimestamp(ms, 0, jstToCSTHours)
		}
		return value
	}

	dict, ok := value.(map[string]any)
	if !ok || dict["type"] != timestampFieldType {
		return value
	}
	values, ok := dict["value"].([]any)
	if !ok {
		return value
	}
	shifted := make([]any, len(values))
	for i, v := range values {
		if ms, ok := dates.IsTimestamp(v); ok {
			shifted[i] = dates.AdjustTimestamp(ms, 0, jstToCSTHours)
		} else {
			shifted[i] = v
		}
	}
	dict["value"] = shifted
	return dict
}

// FlattenRecords reduces each row's fields to plain values: dict
// fields collapse to the first element of their value list, the
// primary key passes through as is.
func FlattenRecords(items []Record) []map[string]any {
	flat := make([]map[string]any, 0, len(items))
	for _, item := range items {
		row := make(map[string]any, len(item.Fields))
		for name, value := range item.Fields {
			row[name] = flattenField(value)
		}
		flat = append(flat, row)
	}
	return flat
}

func flattenField(value any) any {
	dict, ok := value.(map[string]any)
	if !ok {
		return value
	}
	values, ok := dict["value"].([]any)
	if !ok || len(values) == 0 {
		return nil
	}
	return values[0]
}
