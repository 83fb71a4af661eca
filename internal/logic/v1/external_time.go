package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	pkgzerolog "github.com/duynhne/pkg/logger/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/aposta-apoio-service/internal/core/domain"
	"github.com/duynhne/aposta-apoio-service/middleware"
)

// maxTimeResponseSize caps how much of the time API body is read.
const maxTimeResponseSize = 64 * 1024

// ExternalTimeService reports the current time from a public time API and
// falls back to the local clock whenever that API cannot answer.
type ExternalTimeService struct {
	url      string
	timezone string
	location *time.Location
	client   *http.Client
	now      func() time.Time
}

// NewExternalTimeService creates a service querying url. timezone labels the
// fallback answer and selects the zone the local clock is read in; an
// unknown zone name falls back to a fixed -03:00 offset.
func NewExternalTimeService(url, timezone string, timeout time.Duration) *ExternalTimeService {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.FixedZone(timezone, -3*60*60)
	}
	return &ExternalTimeService{
		url:      url,
		timezone: timezone,
		location: loc,
		client:   &http.Client{Timeout: timeout},
		now:      time.Now,
	}
}

// Current never fails: transport errors, non-2xx replies, undecodable
// bodies and an empty datetime all yield the local fallback.
func (s *ExternalTimeService) Current(ctx context.Context) domain.ExternalTime {
	ctx, span := middleware.StartSpan(ctx, "external.time", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("url", s.url),
	))
	defer span.End()

	logger := pkgzerolog.FromContext(ctx)

	remote, err := s.fetch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("external.fallback", true))
		logger.Warn().Err(err).Str("url", s.url).Msg("Time API unavailable, using local clock")
		return s.fallback()
	}
	if remote.Datetime == "" {
		span.SetAttributes(attribute.Bool("external.fallback", true))
		logger.Warn().Str("url", s.url).Msg("Time API returned no datetime, using local clock")
		return s.fallback()
	}

	span.SetAttributes(attribute.Bool("external.fallback", false))
	return *remote
}

func (s *ExternalTimeService) fetch(ctx context.Context) (*domain.ExternalTime, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrExternalService, resp.StatusCode)
	}

	var out domain.ExternalTime
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxTimeResponseSize)).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode body: %w", ErrExternalService, err)
	}
	return &out, nil
}

func (s *ExternalTimeService) fallback() domain.ExternalTime {
	return domain.ExternalTime{
		Timezone: s.timezone,
		Datetime: s.now().In(s.location).Format(time.RFC3339Nano),
	}
}
