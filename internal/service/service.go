package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quarters/internal/domain"
	"quarters/internal/quarter"
	"quarters/internal/store"
	"quarters/internal/zones"
)

type Store interface {
	GetPreference(ctx context.Context, visitorID string) (domain.Preference, error)
	SavePreference(ctx context.Context, input store.PreferenceInput) error
	DeletePreference(ctx context.Context, visitorID string) error
}

type Service struct {
	store       Store
	defaultZone string
	now         func() time.Time
}

// New builds a Service. An empty defaultZone means UTC and a nil now means
// time.Now.
func New(store Store, defaultZone string, now func() time.Time) *Service {
	if defaultZone == "" {
		defaultZone = zones.Default
	}
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, defaultZone: defaultZone, now: now}
}

func (s *Service) DefaultZone() string {
	return s.defaultZone
}

func (s *Service) Clock() time.Time {
	return s.now()
}

// Now is Progress at the service clock.
func (s *Service) Now(zoneName string) (Progress, error) {
	return s.Progress(s.now(), zoneName)
}

func (s *Service) Progress(at time.Time, zoneName string) (Progress, error) {
	zone, err := quarter.LoadZone(zoneName)
	if err != nil {
		return Progress{}, err
	}
	current, err := quarter.FindContaining(at, zone)
	if err != nil {
		return Progress{}, err
	}
	return BuildProgress(current)
}

// YearAt is the calendar year of at in the named zone.
func (s *Service) YearAt(at time.Time, zoneName string) (int, error) {
	zone, err := zones.Parse(zoneName)
	if err != nil {
		return 0, err
	}
	return at.In(zone).Year(), nil
}

func (s *Service) Quarters(year int, zoneName string) ([4]quarter.Quarter, error) {
	return quarter.ResolveNamed(year, zoneName)
}

// ResolveTimezone picks the zone for a request: an explicit request wins,
// then the visitor's saved choice, then the default. The returned zone is
// always usable; the error reports an invalid request or a store failure
// that forced a fallback.
func (s *Service) ResolveTimezone(ctx context.Context, visitorID, requested string) (string, error) {
	var requestErr error
	if strings.TrimSpace(requested) != "" {
		_, name, err := zones.ParseOrDefault(requested, s.defaultZone)
		if err == nil {
			return name, nil
		}
		requestErr = err
	}

	if visitorID != "" && s.store != nil {
		pref, err := s.store.GetPreference(ctx, visitorID)
		switch {
		case err == nil:
			if _, zoneErr := zones.Parse(pref.Timezone); zoneErr == nil {
				return pref.Timezone, requestErr
			}
		case !errors.Is(err, store.ErrNotFound):
			if requestErr != nil {
				return s.defaultZone, requestErr
			}
			return s.defaultZone, fmt.Errorf("load preference: %w", err)
		}
	}

	return s.defaultZone, requestErr
}

func (s *Service) SaveTimezone(ctx context.Context, visitorID, zoneName string) error {
	if visitorID == "" {
		return fmt.Errorf("visitor id is required")
	}
	if _, err := zones.Parse(zoneName); err != nil {
		return err
	}
	return s.store.SavePreference(ctx, store.PreferenceInput{
		VisitorID: visitorID,
		Timezone:  strings.TrimSpace(zoneName),
	})
}

// ForgetTimezone drops the visitor's saved zone so the default applies
// again. Forgetting a visitor with nothing saved is not an error.
func (s *Service) ForgetTimezone(ctx context.Context, visitorID string) error {
	if visitorID == "" {
		return nil
	}
	if err := s.store.DeletePreference(ctx, visitorID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("forget preference: %w", err)
	}
	return nil
}
