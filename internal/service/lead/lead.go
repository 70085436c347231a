// internal/service/lead/lead.go
package lead

import (
	"context"
	"fmt"
	"strings"

	"storefront-service/internal/domain/lead"
	xerrors "storefront-service/internal/pkg/errors"
	"storefront-service/internal/pkg/session"

	"go.uber.org/zap"
)

type LeadService struct {
	repo    lead.Repository
	limiter *session.RateLimiter
	logger  *zap.Logger
}

func NewLeadService(repo lead.Repository, limiter *session.RateLimiter, logger *zap.Logger) *LeadService {
	return &LeadService{repo: repo, limiter: limiter, logger: logger}
}

// SubmitContact records a contact-form message as a website lead.
func (s *LeadService) SubmitContact(ctx context.Context, req lead.ContactRequest) (*lead.Lead, error) {
	fullName := strings.TrimSpace(req.FullName)
	mail := strings.TrimSpace(req.Email)
	message := strings.TrimSpace(req.Message)
	if fullName == "" || mail == "" || message == "" {
		return nil, xerrors.Validation("Missing required fields")
	}

	allowed, err := s.limiter.CheckContactAttempt(ctx, mail)
	if err != nil {
		s.logger.Warn("contact rate limiter unavailable", zap.Error(err))
		allowed = true
	}
	if !allowed {
		return nil, fmt.Errorf("too many messages, please try again later: %w", xerrors.ErrRateLimited)
	}

	l := &lead.Lead{
		LeadName: fullName,
		Email:    mail,
		Notes:    message,
		Source:   lead.SourceWebsite,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	s.logger.Info("contact message received", zap.String("lead", l.ID))
	return l, nil
}
