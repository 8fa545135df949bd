package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"tourbooking-backend/internal/domains/payment/service"
	"tourbooking-backend/pkg/logger"
)

// RetryWebhooksHandler replays gateway notifications that were logged
// but never settled (store outage, transient errors).
type RetryWebhooksHandler struct {
	paymentService service.PaymentService
}

func NewRetryWebhooksHandler(paymentService service.PaymentService) *RetryWebhooksHandler {
	return &RetryWebhooksHandler{paymentService: paymentService}
}

func (h *RetryWebhooksHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	logger.Info("Processing webhook retry task", map[string]interface{}{})

	replayed, err := h.paymentService.RetryUnprocessedWebhooks(ctx)
	if err != nil {
		return fmt.Errorf("retry unprocessed webhooks: %w", err)
	}

	logger.Info("Webhook retry task done", map[string]interface{}{
		"replayed": replayed,
	})
	return nil
}
