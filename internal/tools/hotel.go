package tools

// HotelRegistry wires the full hotel tool set over the given backends.
func HotelRegistry(tables TableClient, weather WeatherClient, fontPath string) *Registry {
	return NewRegistry(
		NewLookupRoomAvailabilityTool(tables),
		NewCalculateRoomChargeTool(tables),
		NewCreateStagingOrderTool(tables),
		NewFinalizeOrderTool(tables),
		NewGetWeeklyReportStatsTool(tables),
		NewWeeklyReportPrintTool(fontPath),
		NewGetMonthlyRevenueTool(tables),
		NewGetWeatherForecastTool(weather),
	)
}
