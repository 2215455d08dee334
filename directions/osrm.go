package directions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/navcore/route"
)

// ErrNoRoute is returned when the server finds no route between the waypoints.
var ErrNoRoute = errors.New("no route found")

// DefaultTimeout bounds a request when the caller's context has no deadline.
const DefaultTimeout = 10 * time.Second

// Option configures an OSRM client.
type Option func(*OSRM)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *OSRM) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithProfile sets the profile used when the request options carry none.
func WithProfile(profile string) Option {
	return func(o *OSRM) { o.profile = profile }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *OSRM) {
		if l != nil {
			o.logger = l
		}
	}
}

// OSRM is a client for the OSRM route service.
type OSRM struct {
	baseURL    string
	profile    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewOSRM creates a client for the server at baseURL, e.g. http://localhost:5000.
func NewOSRM(baseURL string, opts ...Option) *OSRM {
	o := &OSRM{
		baseURL:    strings.TrimRight(baseURL, "/"),
		profile:    route.DefaultProfile,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Calculate requests a route through the waypoints of opts.
func (o *OSRM) Calculate(ctx context.Context, opts route.Options) (*route.Route, error) {
	if len(opts.Waypoints) < 2 {
		return nil, fmt.Errorf("osrm: need at least 2 waypoints, got %d", len(opts.Waypoints))
	}
	if opts.Profile == "" {
		opts.Profile = o.profile
	}

	u := o.requestURL(opts)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("osrm: failed to build request: %w", err)
	}

	start := time.Now()
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("osrm: failed to fetch route: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("osrm: failed to read response: %w", err)
	}

	var parsed response
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("osrm: HTTP %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("osrm: failed to decode response: %w", err)
	}
	switch {
	case parsed.Code == "NoRoute" || parsed.Code == "NoSegment":
		return nil, fmt.Errorf("osrm: %s: %w", parsed.Message, ErrNoRoute)
	case parsed.Code != "Ok":
		return nil, fmt.Errorf("osrm: HTTP %d: %s: %s", resp.StatusCode, parsed.Code, parsed.Message)
	case len(parsed.Routes) == 0:
		return nil, fmt.Errorf("osrm: empty response: %w", ErrNoRoute)
	}

	r, err := parsed.Routes[0].toRoute(opts)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("osrm route", "distance", r.Distance, "legs", len(r.Legs), "elapsed", time.Since(start))
	return r, nil
}

func (o *OSRM) requestURL(opts route.Options) string {
	coords := make([]string, len(opts.Waypoints))
	bearings := make([]string, len(opts.Waypoints))
	hasBearing := false
	for i, w := range opts.Waypoints {
		coords[i] = formatFloat(w.Coordinate.Lon) + "," + formatFloat(w.Coordinate.Lat)
		if w.HasHeading() {
			hasBearing = true
			tolerance := w.HeadingTolerance
			if tolerance <= 0 {
				tolerance = 90
			}
			bearings[i] = fmt.Sprintf("%d,%d", int(math.Round(w.Heading))%360, int(math.Min(math.Round(tolerance), 180)))
		}
	}

	q := url.Values{}
	q.Set("steps", "true")
	q.Set("overview", "full")
	q.Set("geometries", "polyline6")
	if hasBearing {
		q.Set("bearings", strings.Join(bearings, ";"))
	}
	return fmt.Sprintf("%s/route/v1/%s/%s?%s", o.baseURL, url.PathEscape(opts.ProfileOrDefault()), strings.Join(coords, ";"), q.Encode())
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}
