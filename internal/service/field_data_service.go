package service

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/easytrack/backend/internal/domain"
	"github.com/easytrack/backend/internal/mapdata"
)

// ErrValidation marks a rejected data-entry submission
var ErrValidation = errors.New("invalid field data")

// FieldDataService handles data-entry submissions
type FieldDataService struct {
	repo FieldDataRepository
	maps *MapService
	now  func() time.Time

	wgBg sync.WaitGroup // tracks background refreshes for graceful shutdown
}

// NewFieldDataService creates a new field data service. maps may be nil.
func NewFieldDataService(repo FieldDataRepository, maps *MapService) *FieldDataService {
	return &FieldDataService{
		repo: repo,
		maps: maps,
		now:  time.Now,
	}
}

// WaitBackground blocks until all background refreshes complete.
// Call during graceful shutdown.
func (s *FieldDataService) WaitBackground() {
	s.wgBg.Wait()
}

// List returns the raw records as stored
func (s *FieldDataService) List(ctx context.Context) ([]domain.RawRecord, error) {
	return s.repo.GetAll(ctx)
}

// Create validates and stores a submission, then refreshes the map in the background
func (s *FieldDataService) Create(ctx context.Context, req domain.NewFieldDataRequest) (domain.RawRecord, error) {
	if err := validateSubmission(req); err != nil {
		return domain.RawRecord{}, err
	}

	now := s.now().UTC()
	rec := domain.RawRecord{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Category:    strings.TrimSpace(req.Category),
		Description: strings.TrimSpace(req.Description),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		UpdatedAt:   &now,
		Alert:       req.Alert,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return domain.RawRecord{}, errors.Wrap(err, "service: failed to store field data")
	}

	if s.maps != nil {
		s.wgBg.Add(1)
		go func() {
			defer s.wgBg.Done()
			bgCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if _, err := s.maps.Refresh(bgCtx); err != nil && !errors.Is(err, ErrStaleRefresh) {
				log.Printf("Failed to refresh map after submission %s: %v", rec.ID, err)
			}
		}()
	}

	return rec, nil
}

func validateSubmission(req domain.NewFieldDataRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return errors.Wrap(ErrValidation, "title is required")
	}
	if strings.TrimSpace(req.Category) == "" {
		return errors.Wrap(ErrValidation, "category is required")
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return errors.Wrap(ErrValidation, "latitude and longitude must be given together")
	}
	if req.Latitude != nil && !mapdata.OnCanvas(*req.Latitude, *req.Longitude) {
		return errors.Wrap(ErrValidation, "coordinates must be between 0 and 100")
	}
	return nil
}
