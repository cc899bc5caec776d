package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Service resolves place names through Nominatim and fetches current
// conditions from Open-Meteo.
type Service struct {
	geocodeBaseURL  string
	forecastBaseURL string
	httpClient      *http.Client
}

func NewService(geocodeBaseURL, forecastBaseURL string) *Service {
	return &Service{
		geocodeBaseURL:  geocodeBaseURL,
		forecastBaseURL: forecastBaseURL,
		httpClient:      &http.Client{Timeout: 10 * time.Second},
	}
}

// Observation is one current-weather reading.
type Observation struct {
	Time          string  `json:"time"`
	Timezone      string  `json:"timezone"`
	Temperature   float64 `json:"temperature"`
	WindSpeed     float64 `json:"windspeed"`
	WindDirection float64 `json:"winddirection"`
	WeatherCode   int     `json:"weathercode"`
	IsDay         int     `json:"is_day"`
}

// Geocode resolves a free-form location to coordinates, taking the
// first Nominatim hit.
func (s *Service) Geocode(ctx context.Context, location string) (lat, lon float64, err error) {
	query := url.Values{}
	query.Set("q", location)
	query.Set("format", "json")
	query.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, "GET", s.geocodeBaseURL+"/search?"+query.Encode(), nil)
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("User-Agent", "okami-weather")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode %s: %w", location, err)
	}
	defer resp.Body.Close()

	var hits []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return 0, 0, fmt.Errorf("geocode decode: %w", err)
	}
	if len(hits) == 0 {
		return 0, 0, fmt.Errorf("location %s not found", location)
	}

	lat, err = strconv.ParseFloat(hits[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode latitude: %w", err)
	}
	lon, err = strconv.ParseFloat(hits[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode longitude: %w", err)
	}
	return lat, lon, nil
}

// CurrentWeather geocodes the location and fetches its current
// conditions.
func (s *Service) CurrentWeather(ctx context.Context, location string) (*Observation, error) {
	lat, lon, err := s.Geocode(ctx, location)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	query.Set("current_weather", "true")
	query.Set("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, "GET", s.forecastBaseURL+"/v1/forecast?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch weather: status %d", resp.StatusCode)
	}

	var payload struct {
		Timezone       string       `json:"timezone"`
		CurrentWeather *Observation `json:"current_weather"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("weather decode: %w", err)
	}
	if payload.CurrentWeather == nil {
		return nil, fmt.Errorf("weather data not available for %s", location)
	}

	observation := payload.CurrentWeather
	observation.Timezone = payload.Timezone
	return observation, nil
}
