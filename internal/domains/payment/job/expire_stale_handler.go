package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"tourbooking-backend/internal/domains/payment/service"
	"tourbooking-backend/pkg/logger"
)

// ExpireStalePaymentsHandler fails pending bookings whose payment window
// has lapsed. Runs through the same guarded settlement path as the HTTP
// callbacks, so racing a late webhook is safe.
type ExpireStalePaymentsHandler struct {
	paymentService service.PaymentService
}

func NewExpireStalePaymentsHandler(paymentService service.PaymentService) *ExpireStalePaymentsHandler {
	return &ExpireStalePaymentsHandler{paymentService: paymentService}
}

func (h *ExpireStalePaymentsHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	logger.Info("Processing expire stale payments task", map[string]interface{}{})

	expired, err := h.paymentService.ExpireStalePayments(ctx)
	if err != nil {
		return fmt.Errorf("expire stale payments: %w", err)
	}

	logger.Info("Expire stale payments task done", map[string]interface{}{
		"expired": expired,
	})
	return nil
}
