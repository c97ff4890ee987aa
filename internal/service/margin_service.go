package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bevora/distops/internal/domain"
	"github.com/bevora/distops/internal/engine"
	"github.com/bevora/distops/internal/notify"
)

// MarginService wraps the pure discount evaluator with alert dispatch: the
// evaluator returns its alerts as data, and this layer forwards them to the
// notification channel on blocked and risky verdicts. Notification failures
// never affect the evaluation result.
type MarginService struct {
	engine  *engine.Engine
	channel notify.Channel
}

func NewMarginService(eng *engine.Engine, channel notify.Channel) *MarginService {
	if channel == nil {
		channel = notify.NewLogChannel()
	}
	return &MarginService{engine: eng, channel: channel}
}

func (s *MarginService) Evaluate(ctx context.Context, in domain.DiscountEvaluationInput) (domain.EvaluationResult, error) {
	result, err := s.engine.EvaluateDiscount(in)
	if err != nil {
		return domain.EvaluationResult{}, err
	}

	if result.Status != domain.EvaluationApproved {
		notify.Dispatch(s.channel, alertMessages(result))
	}

	return result, nil
}

func alertMessages(result domain.EvaluationResult) []string {
	prefix := strings.ToUpper(string(result.Status))
	messages := make([]string, 0, len(result.Alerts))
	for _, alert := range result.Alerts {
		messages = append(messages, fmt.Sprintf("[%s] %s", prefix, alert))
	}
	return messages
}
