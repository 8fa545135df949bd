package main

import (
	"github.com/hibiken/asynq"

	paymentJob "tourbooking-backend/internal/domains/payment/job"
	"tourbooking-backend/internal/shared"
	"tourbooking-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	expireStalePayments *paymentJob.ExpireStalePaymentsHandler
	retryWebhooks       *paymentJob.RetryWebhooksHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		expireStalePayments: paymentJob.NewExpireStalePaymentsHandler(c.PaymentService),
		retryWebhooks:       paymentJob.NewRetryWebhooksHandler(c.PaymentService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeExpireStalePayments, h.expireStalePayments.ProcessTask)
	mux.HandleFunc(shared.TypeRetryWebhooks, h.retryWebhooks.ProcessTask)
}
