package field

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/erp/distribution/internal/domain/field"
	"github.com/erp/distribution/internal/domain/partner"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxPhotoSize is the largest accepted visit photo in bytes
const MaxPhotoSize = 10 << 20

// visitWriteAttempts bounds reloads after a stale-version save
const visitWriteAttempts = 3

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

// VisitService schedules visits and records check-in, check-out and photos
type VisitService struct {
	visitRepo    field.VisitRepository
	agentRepo    field.AgentRepository
	routeRepo    field.RouteRepository
	customerRepo partner.CustomerRepository
	objects      appshared.ObjectStore
	log          *zap.Logger
	now          func() time.Time
}

// NewVisitService creates a new VisitService. objects may be nil, in which
// case photo upload is unavailable.
func NewVisitService(
	visitRepo field.VisitRepository,
	agentRepo field.AgentRepository,
	routeRepo field.RouteRepository,
	customerRepo partner.CustomerRepository,
	objects appshared.ObjectStore,
	log *zap.Logger,
) *VisitService {
	if log == nil {
		log = zap.NewNop()
	}
	return &VisitService{
		visitRepo:    visitRepo,
		agentRepo:    agentRepo,
		routeRepo:    routeRepo,
		customerRepo: customerRepo,
		objects:      objects,
		log:          log,
		now:          time.Now,
	}
}

// Create schedules a planned visit
func (s *VisitService) Create(ctx context.Context, tenantID uuid.UUID, req CreateVisitRequest) (*VisitResponse, error) {
	if _, err := s.agentRepo.FindByIDForTenant(ctx, tenantID, req.AgentID); err != nil {
		return nil, missingReference(err, "agent")
	}
	if _, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, req.CustomerID); err != nil {
		return nil, missingReference(err, "customer")
	}
	if req.RouteID != nil {
		if _, err := s.routeRepo.FindByIDForTenant(ctx, tenantID, *req.RouteID); err != nil {
			return nil, missingReference(err, "route")
		}
	}
	visitDate := req.VisitDate
	if visitDate.IsZero() {
		visitDate = s.now()
	}
	visit, err := field.NewVisit(tenantID, req.AgentID, req.CustomerID, req.RouteID, visitDate, req.VisitType)
	if err != nil {
		return nil, err
	}
	visit.Notes = req.Notes
	if err := s.visitRepo.Create(ctx, visit); err != nil {
		return nil, err
	}
	response := ToVisitResponse(visit)
	return &response, nil
}

// GetByID returns a visit with download URLs for its photos
func (s *VisitService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*VisitResponse, error) {
	visit, err := s.visitRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToVisitResponse(visit)
	if s.objects != nil {
		for _, key := range response.Photos {
			url, err := s.objects.PresignGet(ctx, key)
			if err != nil {
				s.log.Warn("presign visit photo failed", zap.String("key", key), zap.Error(err))
				continue
			}
			response.PhotoURLs = append(response.PhotoURLs, url)
		}
	}
	return &response, nil
}

// List returns a page of visits
func (s *VisitService) List(ctx context.Context, tenantID uuid.UUID, filter VisitListFilter) ([]VisitResponse, int64, error) {
	f := filter.Filter().
		With("agent_id", filter.AgentID).
		With("customer_id", filter.CustomerID).
		With("route_id", filter.RouteID).
		With("status", filter.Status)
	if filter.VisitDate != nil {
		f = f.With("visit_date", shared.DateOf(*filter.VisitDate))
	}
	visits, err := s.visitRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.visitRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return appshared.MapSlice(visits, ToVisitResponse), total, nil
}

// CheckIn starts a planned visit
func (s *VisitService) CheckIn(ctx context.Context, tenantID, id uuid.UUID, req CheckInRequest) (*VisitResponse, error) {
	return s.mutate(ctx, tenantID, id, func(v *field.Visit) error {
		return v.CheckIn(s.now(), req.Latitude, req.Longitude)
	})
}

// CheckOut completes a checked-in visit
func (s *VisitService) CheckOut(ctx context.Context, tenantID, id uuid.UUID, req CheckOutRequest) (*VisitResponse, error) {
	return s.mutate(ctx, tenantID, id, func(v *field.Visit) error {
		return v.CheckOut(s.now(), req.Outcome, req.Notes, req.Photos)
	})
}

// Cancel cancels a visit that has not started
func (s *VisitService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*VisitResponse, error) {
	return s.mutate(ctx, tenantID, id, func(v *field.Visit) error {
		return v.Cancel()
	})
}

// UploadPhoto stores the photo under visits/<tenant>/<visit>/<uuid><ext>
// and appends its key to the visit
func (s *VisitService) UploadPhoto(ctx context.Context, tenantID, id uuid.UUID, upload PhotoUpload, body io.Reader) (*PhotoResponse, error) {
	if s.objects == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Object storage is not configured")
	}
	ext, err := photoExtension(upload)
	if err != nil {
		return nil, err
	}
	if upload.Size > MaxPhotoSize {
		return nil, shared.NewValidationError("photo exceeds %d bytes", MaxPhotoSize)
	}

	visit, err := s.visitRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("visits/%s/%s/%s%s", tenantID, visit.ID, uuid.New(), ext)
	// Validate on a copy before paying for the upload
	candidate := *visit
	candidate.Photos = shared.NewJSON(append([]string(nil), visit.Photos.Data...))
	if err := candidate.AddPhoto(key); err != nil {
		return nil, err
	}

	if err := s.objects.Put(ctx, key, upload.ContentType, body, upload.Size); err != nil {
		return nil, fmt.Errorf("store visit photo: %w", err)
	}
	visit, err = s.apply(ctx, tenantID, id, func(v *field.Visit) error {
		if err := v.AddPhoto(key); err != nil {
			return err
		}
		v.IncrementVersion()
		return nil
	})
	if err != nil {
		s.log.Warn("visit photo stored but visit not updated", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	s.log.Info("visit photo stored",
		zap.String("visit_id", visit.ID.String()),
		zap.String("key", key),
		zap.String("file_name", upload.FileName),
		zap.Int64("size", upload.Size))

	url, err := s.objects.PresignGet(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("presign visit photo: %w", err)
	}
	return &PhotoResponse{Key: key, URL: url}, nil
}

func (s *VisitService) mutate(ctx context.Context, tenantID, id uuid.UUID, fn func(*field.Visit) error) (*VisitResponse, error) {
	visit, err := s.apply(ctx, tenantID, id, fn)
	if err != nil {
		return nil, err
	}
	response := ToVisitResponse(visit)
	return &response, nil
}

// apply loads the visit, runs fn and saves under the version guard. On a
// stale version it reloads and runs fn again, so a lost race surfaces as
// the domain error fn returns against the fresh row.
func (s *VisitService) apply(ctx context.Context, tenantID, id uuid.UUID, fn func(*field.Visit) error) (*field.Visit, error) {
	for attempt := 1; ; attempt++ {
		visit, err := s.visitRepo.FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return nil, err
		}
		loaded := visit.Version
		if err := fn(visit); err != nil {
			return nil, err
		}
		err = s.visitRepo.SaveWithLock(ctx, visit, loaded)
		if err == nil {
			return visit, nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) || attempt == visitWriteAttempts {
			return nil, err
		}
		s.log.Debug("visit changed concurrently, reloading",
			zap.String("visit_id", id.String()), zap.Int("attempt", attempt))
	}
}

func photoExtension(upload PhotoUpload) (string, error) {
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(upload.ContentType, ";")[0]))
	ext, ok := photoExtensions[contentType]
	if !ok {
		return "", shared.NewValidationError("unsupported photo type %q", upload.ContentType)
	}
	return ext, nil
}

func missingReference(err error, what string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewValidationError("%s does not exist", what)
	}
	return err
}
