package weather

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestService(t *testing.T, geocodeHits []map[string]any, forecast map[string]any) *Service {
	t.Helper()
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(geocodeHits)
	}))
	t.Cleanup(geo.Close)

	meteo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("current_weather") != "true" {
			http.Error(w, "missing current_weather", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(forecast)
	}))
	t.Cleanup(meteo.Close)

	return NewService(geo.URL, meteo.URL)
}

func TestCurrentWeather(t *testing.T) {
	svc := newTestService(t,
		[]map[string]any{{"lat": "48.8566", "lon": "2.3522"}},
		map[string]any{
			"timezone": "Europe/Paris",
			"current_weather": map[string]any{
				"time":          "2024-11-25T18:45",
				"temperature":   15.0,
				"windspeed":     8.5,
				"winddirection": 332.0,
				"weathercode":   0,
				"is_day":        1,
			},
		})

	obs, err := svc.CurrentWeather(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("CurrentWeather() error: %v", err)
	}
	if obs.Temperature != 15.0 || obs.WindSpeed != 8.5 || obs.WeatherCode != 0 {
		t.Errorf("observation = %+v", obs)
	}
	if obs.Timezone != "Europe/Paris" {
		t.Errorf("timezone = %q", obs.Timezone)
	}
	if obs.IsDay != 1 {
		t.Errorf("is_day = %d", obs.IsDay)
	}
}

func TestCurrentWeather_LocationNotFound(t *testing.T) {
	svc := newTestService(t, []map[string]any{}, nil)
	if _, err := svc.CurrentWeather(context.Background(), "Atlantis"); err == nil {
		t.Fatal("expected error for unknown location")
	}
}

func TestCurrentWeather_MissingPayload(t *testing.T) {
	svc := newTestService(t,
		[]map[string]any{{"lat": "48.8", "lon": "2.3"}},
		map[string]any{"timezone": "Europe/Paris"})
	if _, err := svc.CurrentWeather(context.Background(), "Paris"); err == nil {
		t.Fatal("expected error when current_weather is absent")
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "Clear"},
		{3, "Cloudy"},
		{63, "Rain"},
		{95, "Thunderstorm"},
		{999, UnknownWeather},
		{-1, UnknownWeather},
	}
	for _, tt := range tests {
		if got := Describe(tt.code); got != tt.want {
			t.Errorf("Describe(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
