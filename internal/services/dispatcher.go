package services

import (
	"context"

	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
)

const (
	ActionInterviewInvitation = "interview_invitation_email"
	ActionRejection           = "rejection_email"

	templateInterviewInvitation = "INTERVIEW_INVITATION"
	templateRejectionNotice     = "REJECTION_NOTICE"
)

// NotificationSender delivers an action notification. Implementations may
// block and may fail; the dispatcher isolates the decision logic from both.
type NotificationSender interface {
	Send(ctx context.Context, recipient, template string) error
}

// DispatchResult reports what the dispatcher did. ActionType names the
// action matched to the decision even when delivery failed, so the caller
// can tell "nothing to send" apart from "send failed".
type DispatchResult struct {
	ActionTriggered bool
	ActionType      *string
}

// ActionDispatcher maps a finalized decision to an action signal and
// delegates delivery. A delivery failure never alters the decision or
// score; it only flips ActionTriggered to false.
type ActionDispatcher interface {
	Dispatch(ctx context.Context, decision models.Decision, recipient string) DispatchResult
}

type actionDispatcher struct {
	sender NotificationSender
	logger *zap.Logger
}

func NewActionDispatcher(sender NotificationSender, logger *zap.Logger) ActionDispatcher {
	return &actionDispatcher{
		sender: sender,
		logger: logger,
	}
}

func (d *actionDispatcher) Dispatch(ctx context.Context, decision models.Decision, recipient string) DispatchResult {
	var actionType, template string

	switch decision {
	case models.DecisionAutoAdvance:
		actionType = ActionInterviewInvitation
		template = templateInterviewInvitation
	case models.DecisionReject:
		actionType = ActionRejection
		template = templateRejectionNotice
	default:
		// MANUAL_REVIEW routes to a human; no action is sent.
		return DispatchResult{ActionTriggered: false, ActionType: nil}
	}

	if err := d.sender.Send(ctx, recipient, template); err != nil {
		dispatchErr := &ActionDispatchError{ActionType: actionType, Err: err}
		d.logger.Warn("⚠️ Action dispatch failed",
			zap.String("action_type", actionType),
			zap.String("recipient", recipient),
			zap.Error(dispatchErr),
		)
		return DispatchResult{ActionTriggered: false, ActionType: &actionType}
	}

	d.logger.Info("📧 Action dispatched",
		zap.String("action_type", actionType),
		zap.String("recipient", recipient),
	)
	return DispatchResult{ActionTriggered: true, ActionType: &actionType}
}
