package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bevora/distops/internal/domain"
	"github.com/bevora/distops/internal/engine"
	"github.com/bevora/distops/internal/service"
)

// captureChannel collects dispatched alerts on a buffered channel so tests
// can wait for the fire-and-forget goroutine.
type captureChannel struct {
	messages chan string
}

func newCaptureChannel() *captureChannel {
	return &captureChannel{messages: make(chan string, 16)}
}

func (c *captureChannel) Send(_ context.Context, message string) error {
	c.messages <- message
	return nil
}

func blockedInput() domain.DiscountEvaluationInput {
	return domain.DiscountEvaluationInput{
		ProductCost:       decimal.NewFromInt(1000),
		SalesPrice:        decimal.NewFromInt(2000),
		DiscountPercent:   decimal.NewFromFloat(0.40),
		PaymentCommission: decimal.NewFromFloat(0.05),
		TaxPercent:        decimal.NewFromFloat(0.21),
		OperationalCosts:  decimal.NewFromInt(200),
	}
}

func TestEvaluate_DispatchesAlertsOnBlocked(t *testing.T) {
	ch := newCaptureChannel()
	svc := service.NewMarginService(engine.New(engine.DefaultPolicy()), ch)

	result, err := svc.Evaluate(context.Background(), blockedInput())
	require.NoError(t, err)
	require.Equal(t, domain.EvaluationBlocked, result.Status)

	select {
	case msg := <-ch.messages:
		assert.Contains(t, msg, "[BLOCKED]")
		assert.Contains(t, msg, "sale at a loss")
	case <-time.After(2 * time.Second):
		t.Fatal("expected a dispatched alert for a blocked evaluation")
	}
}

func TestEvaluate_ApprovedStaysQuiet(t *testing.T) {
	ch := newCaptureChannel()
	svc := service.NewMarginService(engine.New(engine.DefaultPolicy()), ch)

	in := blockedInput()
	in.DiscountPercent = decimal.Zero

	result, err := svc.Evaluate(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, domain.EvaluationApproved, result.Status)

	select {
	case msg := <-ch.messages:
		t.Fatalf("unexpected alert for approved evaluation: %s", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestEvaluate_PropagatesInvalidInput(t *testing.T) {
	svc := service.NewMarginService(engine.New(engine.DefaultPolicy()), newCaptureChannel())

	in := blockedInput()
	in.DiscountPercent = decimal.NewFromInt(2)

	_, err := svc.Evaluate(context.Background(), in)
	assert.Error(t, err)
}
