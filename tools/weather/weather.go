// Package weather implements the get-weather tool: current conditions for
// a named location, resolved through the Open-Meteo geocoding and
// forecast APIs.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/ElManaa/MCPServer/cache"
	"github.com/ElManaa/MCPServer/schema"
	"github.com/ElManaa/MCPServer/tools"
	"github.com/cockroachdb/errors"
)

const ToolName = "get-weather"

const (
	defaultForecastURL = "https://api.open-meteo.com"
	defaultGeocodeURL  = "https://geocoding-api.open-meteo.com"

	// Every outbound call is bounded so a stalled upstream cannot
	// starve the gateway.
	defaultTimeout = 10 * time.Second

	// Coordinates of a place do not move; cache them for a day.
	geocodeTTL = 24 * time.Hour
)

// Request represents the tool input.
type Request struct {
	Location string `json:"location" jsonschema:"title=Location,description=City or place name to fetch current weather for."`
}

// Report is the tool output: current conditions for the resolved place.
type Report struct {
	Location     string  `json:"location"`
	Country      string  `json:"country,omitempty"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	TemperatureC float64 `json:"temperature_c"`
	WindSpeedKmh float64 `json:"wind_speed_kmh"`
	HumidityPct  float64 `json:"humidity_pct"`
	Conditions   string  `json:"conditions"`
}

func (r *Report) String() string {
	return fmt.Sprintf("%s: %.1f°C, %s, wind %.1f km/h, humidity %.0f%%",
		r.Location, r.TemperatureC, r.Conditions, r.WindSpeedKmh, r.HumidityPct)
}

// Tool is a tool that provides current weather for a location.
type Tool struct {
	name        string
	description string
	schema      *schema.Schema

	forecastURL string
	geocodeURL  string
	httpClient  *http.Client
	cache       cache.Cache
}

// ensure Tool implements the tool contract
var _ tools.Tool[Request, Report] = (*Tool)(nil)

func New() (*Tool, error) {
	sc, err := schema.FromType(reflect.TypeOf(Request{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	tool := &Tool{
		name:        ToolName,
		description: "Returns the current weather conditions for a city or place name.",
		schema:      sc,
		forecastURL: defaultForecastURL,
		geocodeURL:  defaultGeocodeURL,
		httpClient:  &http.Client{Timeout: defaultTimeout},
	}
	return tool, nil
}

// WithBaseURLs overrides the forecast and geocoding endpoints. An empty
// value keeps the current endpoint.
func (t *Tool) WithBaseURLs(forecastURL, geocodeURL string) *Tool {
	if forecastURL != "" {
		t.forecastURL = forecastURL
	}
	if geocodeURL != "" {
		t.geocodeURL = geocodeURL
	}
	return t
}

// WithHTTPClient overrides the HTTP client, including its timeout.
func (t *Tool) WithHTTPClient(client *http.Client) *Tool {
	t.httpClient = client
	return t
}

// WithCache enables caching of geocoding lookups.
func (t *Tool) WithCache(c cache.Cache) *Tool {
	t.cache = c
	return t
}

func (t *Tool) Name() string {
	return t.name
}

func (t *Tool) Description() string {
	return t.description
}

func (t *Tool) Schema() *schema.Schema {
	return t.schema
}

// place is a resolved geocoding result.
type place struct {
	Name      string  `json:"name"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (t *Tool) Run(ctx context.Context, req *Request) (*Report, error) {
	if req.Location == "" {
		return nil, errors.New("invalid request: empty location")
	}

	loc, err := t.geocode(ctx, req.Location)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%f", loc.Latitude))
	q.Set("longitude", fmt.Sprintf("%f", loc.Longitude))
	q.Set("current", "temperature_2m,relative_humidity_2m,wind_speed_10m,weather_code")

	var forecast struct {
		Current struct {
			Temperature float64 `json:"temperature_2m"`
			Humidity    float64 `json:"relative_humidity_2m"`
			WindSpeed   float64 `json:"wind_speed_10m"`
			WeatherCode int     `json:"weather_code"`
		} `json:"current"`
	}
	if err := t.getJSON(ctx, t.forecastURL+"/v1/forecast?"+q.Encode(), &forecast); err != nil {
		return nil, errors.WithMessagef(err, "failed to fetch forecast for %q", req.Location)
	}

	return &Report{
		Location:     loc.Name,
		Country:      loc.Country,
		Latitude:     loc.Latitude,
		Longitude:    loc.Longitude,
		TemperatureC: forecast.Current.Temperature,
		WindSpeedKmh: forecast.Current.WindSpeed,
		HumidityPct:  forecast.Current.Humidity,
		Conditions:   describeWeatherCode(forecast.Current.WeatherCode),
	}, nil
}

func (t *Tool) Call(ctx context.Context, args json.RawMessage) (any, error) {
	var req Request
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal input")
	}
	return t.Run(ctx, &req)
}

func (t *Tool) geocode(ctx context.Context, location string) (*place, error) {
	key := "geo:" + strings.ToLower(location)
	if t.cache != nil {
		if data, ok, err := t.cache.Get(ctx, key); err == nil && ok {
			cached := &place{}
			if err := json.Unmarshal(data, cached); err == nil {
				return cached, nil
			}
		}
	}

	q := url.Values{}
	q.Set("name", location)
	q.Set("count", "1")
	q.Set("format", "json")

	var geo struct {
		Results []place `json:"results"`
	}
	if err := t.getJSON(ctx, t.geocodeURL+"/v1/search?"+q.Encode(), &geo); err != nil {
		return nil, errors.WithMessagef(err, "failed to resolve location %q", location)
	}
	if len(geo.Results) == 0 {
		return nil, errors.Errorf("location %q not found", location)
	}

	loc := geo.Results[0]
	if t.cache != nil {
		if data, err := json.Marshal(loc); err == nil {
			_ = t.cache.Set(ctx, key, data, geocodeTTL)
		}
	}
	return &loc, nil
}

func (t *Tool) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("upstream returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}
	return nil
}

// describeWeatherCode maps WMO weather interpretation codes to a short
// human-readable phrase.
func describeWeatherCode(code int) string {
	switch code {
	case 0:
		return "clear sky"
	case 1:
		return "mainly clear"
	case 2:
		return "partly cloudy"
	case 3:
		return "overcast"
	case 45, 48:
		return "fog"
	case 51, 53, 55:
		return "drizzle"
	case 56, 57:
		return "freezing drizzle"
	case 61, 63, 65:
		return "rain"
	case 66, 67:
		return "freezing rain"
	case 71, 73, 75:
		return "snow"
	case 77:
		return "snow grains"
	case 80, 81, 82:
		return "rain showers"
	case 85, 86:
		return "snow showers"
	case 95:
		return "thunderstorm"
	case 96, 99:
		return "thunderstorm with hail"
	default:
		return fmt.Sprintf("weather code %d", code)
	}
}
