package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/melodia-app/melodia-go-api/internal/dto"
	"github.com/melodia-app/melodia-go-api/internal/models"
	"github.com/melodia-app/melodia-go-api/internal/observability"
	"github.com/melodia-app/melodia-go-api/internal/repository"
)

var (
	// ErrLeadSpam indicates the honeypot field was filled.
	ErrLeadSpam = errors.New("lead submission flagged as spam")
	// ErrLeadDuplicate indicates a submission with the same checksum exists recently.
	ErrLeadDuplicate = errors.New("duplicate lead submission")
)

// LeadService captures trial-lesson inquiries from the public site.
type LeadService interface {
	Submit(ctx context.Context, req dto.LeadRequest) (dto.LeadResponse, error)
	List(ctx context.Context, page, pageSize int, status string) ([]dto.LeadListItem, dto.PaginationMeta, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
}

type leadService struct {
	repo      repository.LeadRepository
	cache     *redis.Client
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	dedupeTTL time.Duration
	tracer    trace.Tracer
}

// NewLeadService constructs a lead intake service.
func NewLeadService(repo repository.LeadRepository, cache *redis.Client, validate *validator.Validate, dedupeTTL time.Duration, logger zerolog.Logger) LeadService {
	if dedupeTTL <= 0 {
		dedupeTTL = 5 * time.Minute
	}
	return &leadService{
		repo:      repo,
		cache:     cache,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "lead_service").Logger(),
		dedupeTTL: dedupeTTL,
		tracer:    otel.Tracer("github.com/melodia-app/melodia-go-api/internal/service/lead"),
	}
}

func (s *leadService) Submit(ctx context.Context, req dto.LeadRequest) (dto.LeadResponse, error) {
	ctx, span := s.tracer.Start(ctx, "lead.submit")
	defer span.End()

	if req.Honeypot != "" {
		span.SetStatus(codes.Error, "honeypot tripped")
		observability.LeadSubmissions().WithLabelValues("spam").Inc()
		return dto.LeadResponse{}, ErrLeadSpam
	}

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.LeadResponse{}, err
	}

	message := strings.TrimSpace(s.sanitizer.Sanitize(req.Message))
	if message == "" {
		return dto.LeadResponse{}, errors.New("lead message empty after sanitization")
	}

	checksum := leadChecksum(req.Name, req.Email, req.Message)
	span.SetAttributes(attribute.String("lead.checksum", checksum))

	if s.cache != nil {
		key := fmt.Sprintf("lead:dedupe:%s", checksum)
		ok, err := s.cache.SetNX(ctx, key, 1, s.dedupeTTL).Result()
		if err != nil {
			span.RecordError(err)
			return dto.LeadResponse{}, err
		}
		if !ok {
			span.SetStatus(codes.Error, "duplicate submission")
			observability.LeadSubmissions().WithLabelValues("duplicate").Inc()
			return dto.LeadResponse{}, ErrLeadDuplicate
		}
	}

	lead := models.Lead{
		ReferenceID: uuid.New().String(),
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:       strings.TrimSpace(req.Phone),
		Skill:       strings.ToLower(strings.TrimSpace(req.Skill)),
		Message:     message,
		Status:      models.LeadStatusNew,
		Checksum:    checksum,
	}

	if err := s.repo.Create(ctx, &lead); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		observability.LeadSubmissions().WithLabelValues("error").Inc()
		return dto.LeadResponse{}, err
	}

	observability.LeadSubmissions().WithLabelValues("captured").Inc()
	s.logger.Info().Str("reference_id", lead.ReferenceID).Str("email", maskEmail(lead.Email)).Msg("lead captured")
	span.SetStatus(codes.Ok, "captured")

	return dto.LeadResponse{ReferenceID: lead.ReferenceID, Status: lead.Status}, nil
}

func (s *leadService) List(ctx context.Context, page, pageSize int, status string) ([]dto.LeadListItem, dto.PaginationMeta, error) {
	leads, total, err := s.repo.List(ctx, repository.LeadFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(status),
	})
	if err != nil {
		return nil, dto.PaginationMeta{}, err
	}

	items := make([]dto.LeadListItem, 0, len(leads))
	for _, lead := range leads {
		items = append(items, dto.NewLeadListItem(lead))
	}

	pagination := dto.PaginationMeta{
		Page:       maxInt(page, 1),
		PageSize:   pageSize,
		TotalItems: total,
	}
	if pageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	} else {
		pagination.TotalPages = 1
	}

	return items, pagination, nil
}

func (s *leadService) UpdateStatus(ctx context.Context, id uint, status string) error {
	normalized := strings.ToLower(strings.TrimSpace(status))
	switch normalized {
	case models.LeadStatusNew, models.LeadStatusContacted, models.LeadStatusEnrolled, models.LeadStatusClosed:
	default:
		return fmt.Errorf("unknown lead status %q", status)
	}

	return s.repo.UpdateStatus(ctx, id, normalized)
}

func leadChecksum(parts ...string) string {
	hasher := sha256.New()
	for _, part := range parts {
		hasher.Write([]byte(strings.TrimSpace(strings.ToLower(part))))
		hasher.Write([]byte("|"))
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

func maskEmail(email string) string {
	if email == "" {
		return ""
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "***"
	}
	local := parts[0]
	if len(local) <= 2 {
		return "***@" + parts[1]
	}
	return local[:2] + "***@" + parts[1]
}
