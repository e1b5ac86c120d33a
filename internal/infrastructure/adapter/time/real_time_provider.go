package time

import (
	"context"
	"fmt"
	"time"

	"github.com/amirhossein-jamali/token-economy/internal/domain/port/core"
)

// RealTimeProvider implements the TimeProvider interface with real time operations
type RealTimeProvider struct {
	location *time.Location
}

// NewRealTimeProvider creates a time provider whose calendar days follow the server zone
func NewRealTimeProvider() core.TimeProvider {
	return &RealTimeProvider{location: time.Local}
}

// NewRealTimeProviderIn creates a time provider whose calendar days follow the named IANA zone.
// An empty name keeps the server zone.
func NewRealTimeProviderIn(zone string) (core.TimeProvider, error) {
	if zone == "" {
		return NewRealTimeProvider(), nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("invalid classroom timezone %q: %w", zone, err)
	}
	return &RealTimeProvider{location: loc}, nil
}

// Now returns the current time
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().In(p.location)
}

// Location returns the zone used for calendar-day rules
func (p *RealTimeProvider) Location() *time.Location {
	return p.location
}

// Since returns the time elapsed since t
func (p *RealTimeProvider) Since(t time.Time) core.Duration {
	return core.Duration(time.Since(t))
}

// WithTimeout returns a context that will be canceled after the specified timeout
func (p *RealTimeProvider) WithTimeout(ctx context.Context, timeout core.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout.Std())
}
