package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pinglayer/pinglayer-api/internal/api/metrics"
	"github.com/pinglayer/pinglayer-api/internal/core/domain"
	"github.com/pinglayer/pinglayer-api/internal/core/ports"
)

// UniqueMarker decides whether a (link, visitor) pair has been seen within
// the uniqueness window. Backed by Redis TTL keys.
type UniqueMarker interface {
	FirstSeen(ctx context.Context, shortCode, ip string) (bool, error)
}

type clickService struct {
	repo   ports.SmartLinkRepository
	unique UniqueMarker
	log    zerolog.Logger
}

// NewClickService returns the ClickService run by the click dispatcher
// workers, off the redirect request path.
func NewClickService(repo ports.SmartLinkRepository, unique UniqueMarker, log zerolog.Logger) ports.ClickService {
	return &clickService{repo: repo, unique: unique, log: log}
}

// Process records one click: stores the event and bumps the link counters.
// Uniqueness is per visitor IP within the marker's window; a marker failure
// degrades to counting the click as repeat rather than dropping it.
func (s *clickService) Process(ctx context.Context, click ports.ClickInput) error {
	link, err := s.repo.FindByCode(ctx, click.ShortCode)
	if err != nil {
		metrics.ClickErrorsTotal.WithLabelValues("link_not_found").Inc()
		return fmt.Errorf("process click: %w", err)
	}

	unique := false
	first, err := s.unique.FirstSeen(ctx, click.ShortCode, click.IPAddress)
	if err != nil {
		s.log.Warn().Err(err).Str("short_code", click.ShortCode).Msg("unique-click check failed, counting as repeat")
	} else {
		unique = first
	}

	event := &domain.ClickEvent{
		SmartLinkID: link.ID,
		IPAddress:   click.IPAddress,
		UserAgent:   click.UserAgent,
		DeviceType:  deviceTypeFromUA(click.UserAgent),
		Referrer:    click.Referrer,
		ClickedAt:   click.Timestamp,
	}
	if err := s.repo.InsertClick(ctx, event); err != nil {
		metrics.ClickErrorsTotal.WithLabelValues("insert_failed").Inc()
		return fmt.Errorf("process click: insert event: %w", err)
	}

	if err := s.repo.IncrementClicks(ctx, link.ID, unique); err != nil {
		metrics.ClickErrorsTotal.WithLabelValues("counter_failed").Inc()
		return fmt.Errorf("process click: increment counters: %w", err)
	}

	result := "repeat"
	if unique {
		result = "unique"
	}
	metrics.ClicksRecordedTotal.WithLabelValues(result).Inc()

	s.log.Debug().
		Str("short_code", click.ShortCode).
		Str("device", event.DeviceType).
		Bool("unique", unique).
		Msg("click recorded")
	return nil
}

// deviceTypeFromUA is a coarse user-agent classification. Good enough for
// campaign dashboards; full UA parsing is not worth a dependency here.
func deviceTypeFromUA(ua string) string {
	ua = strings.ToLower(ua)
	switch {
	case ua == "":
		return "unknown"
	case strings.Contains(ua, "ipad") || strings.Contains(ua, "tablet"):
		return "tablet"
	case strings.Contains(ua, "mobi") || strings.Contains(ua, "android") || strings.Contains(ua, "iphone"):
		return "mobile"
	default:
		return "desktop"
	}
}
