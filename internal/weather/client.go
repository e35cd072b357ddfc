package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/cbwatch/thundercloud-alerts/internal/geo"
	"github.com/cbwatch/thundercloud-alerts/internal/models"
)

// hourlyFields are the indicator series requested from the provider; index 0
// of each returned array is the "now" sample.
const hourlyFields = "cape,lifted_index,convective_inhibition,cloud_cover,cloud_cover_mid,cloud_cover_high"

// Client calls the Open-Meteo forecast endpoint. It supports a multi-point
// batched call (comma-joined coordinate lists) and a single-point call used
// as the fallback path.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

func NewClient(baseURL string, timeout time.Duration, requestsPerSecond float64) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

type apiHourly struct {
	CAPE                 []float64 `json:"cape"`
	LiftedIndex          []float64 `json:"lifted_index"`
	ConvectiveInhibition []float64 `json:"convective_inhibition"`
	CloudCover           []float64 `json:"cloud_cover"`
	CloudCoverMid        []float64 `json:"cloud_cover_mid"`
	CloudCoverHigh       []float64 `json:"cloud_cover_high"`
}

type apiCurrent struct {
	Temperature *float64 `json:"temperature_2m"`
}

type apiResponse struct {
	Hourly  apiHourly  `json:"hourly"`
	Current apiCurrent `json:"current"`
}

// FetchBatch requests all points in one provider call and splits the response
// positionally, one IndicatorSet per input point. A response shorter than the
// input is padded with neutral defaults.
func (c *Client) FetchBatch(ctx context.Context, points []geo.Point) ([]models.IndicatorSet, error) {
	if len(points) == 0 {
		return nil, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	lats := make([]string, len(points))
	lons := make([]string, len(points))
	for i, p := range points {
		lats[i] = geo.FormatAPICoord(p.Latitude)
		lons[i] = geo.FormatAPICoord(p.Longitude)
	}

	u := c.forecastURL(strings.Join(lats, ","), strings.Join(lons, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	// The provider returns a bare object for one point and an array for many.
	if len(points) == 1 {
		var data apiResponse
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return nil, fmt.Errorf("error decoding resp.Body: %w", err)
		}
		return []models.IndicatorSet{data.toIndicators()}, nil
	}

	var data []apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("error decoding resp.Body: %w", err)
	}

	if len(data) != len(points) {
		slog.Warn("batch response size mismatch, padding with defaults",
			"requested", len(points), "received", len(data))
	}

	results := make([]models.IndicatorSet, len(points))
	for i := range points {
		if i < len(data) {
			results[i] = data[i].toIndicators()
		} else {
			results[i] = models.DefaultIndicators()
		}
	}
	return results, nil
}

// FetchPoint requests indicators for a single coordinate.
func (c *Client) FetchPoint(ctx context.Context, p geo.Point) (models.IndicatorSet, error) {
	results, err := c.FetchBatch(ctx, []geo.Point{p})
	if err != nil {
		return models.IndicatorSet{}, err
	}
	return results[0], nil
}

func (c *Client) forecastURL(lats, lons string) string {
	q := url.Values{}
	q.Set("latitude", lats)
	q.Set("longitude", lons)
	q.Set("hourly", hourlyFields)
	q.Set("current", "temperature_2m")
	q.Set("timezone", "auto")
	q.Set("forecast_days", "1")
	return c.baseURL + "/v1/forecast?" + q.Encode()
}

func (r apiResponse) toIndicators() models.IndicatorSet {
	ind := models.IndicatorSet{
		CAPE:                 first(r.Hourly.CAPE),
		LiftedIndex:          first(r.Hourly.LiftedIndex),
		ConvectiveInhibition: first(r.Hourly.ConvectiveInhibition),
		CloudCover:           first(r.Hourly.CloudCover),
		CloudCoverMid:        first(r.Hourly.CloudCoverMid),
		CloudCoverHigh:       first(r.Hourly.CloudCoverHigh),
		Temperature:          20, // neutral default when the provider omits current temperature
	}
	if r.Current.Temperature != nil {
		ind.Temperature = *r.Current.Temperature
	}
	return ind
}

func first(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	return series[0]
}
