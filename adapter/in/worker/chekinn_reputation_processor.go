package worker

import (
	"context"
	"fmt"

	"chekinn_server/core/domain"
	"chekinn_server/core/service/reputation"
	"chekinn_server/pkg/logger"

	"github.com/google/uuid"
)

// ReputationProcessor applies scheduler-driven reputation jobs.
type ReputationProcessor struct {
	reputation *reputation.Service
}

// NewReputationProcessor creates a new ReputationProcessor.
func NewReputationProcessor(svc *reputation.Service) *ReputationProcessor {
	return &ReputationProcessor{reputation: svc}
}

// ProcessDecayCheck applies one decay check to the user in the payload.
func (p *ReputationProcessor) ProcessDecayCheck(ctx context.Context, msg *Message) error {
	payload, err := ParsePayload[UserPayload](msg)
	if err != nil {
		return fmt.Errorf("parse decay payload: %w", err)
	}
	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		logger.Warn("dropping decay job %s with bad user id %q", msg.ID, payload.UserID)
		return nil
	}

	p.reputation.Track(ctx, userID, domain.ActionDecayCheck, nil)
	return nil
}
