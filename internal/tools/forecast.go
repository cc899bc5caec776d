package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/okami-inn/okami/internal/weather"
)

const meteoTimeLayout = "2006-01-02T15:04"

// GetWeatherForecastTool reports current conditions at a location.
type GetWeatherForecastTool struct {
	weather WeatherClient
}

func NewGetWeatherForecastTool(weather WeatherClient) *GetWeatherForecastTool {
	return &GetWeatherForecastTool{weather: weather}
}

func (t *GetWeatherForecastTool) Name() string { return "get_weather_forecast_by_location" }
func (t *GetWeatherForecastTool) Description() string {
	return "Get the current weather for a given location"
}

func (t *GetWeatherForecastTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"location": map[string]any{
				"type":        "string",
				"description": "Name of the location to retrieve weather for",
			},
		},
		"required": []string{"location"},
	}
}

func (t *GetWeatherForecastTool) Execute(ctx context.Context, args map[string]any) *Result {
	location := strArg(args, "location")
	if location == "" {
		return ErrorResult("location is required")
	}

	obs, err := t.weather.CurrentWeather(ctx, location)
	if err != nil {
		return ErrorResult(fmt.Sprintf("weather for %s: %v", location, err)).WithError(err)
	}

	localTime := obs.Time
	if parsed, err := time.Parse(meteoTimeLayout, obs.Time); err == nil {
		localTime = parsed.Format("2006-01-02 15:04:05")
	}

	return JSONResult(map[string]any{
		"location":            location,
		"time":                localTime,
		"temperature":         obs.Temperature,
		"windspeed":           obs.WindSpeed,
		"winddirection":       obs.WindDirection,
		"weather_description": weather.Describe(obs.WeatherCode),
		"is_day":              obs.IsDay,
	})
}
