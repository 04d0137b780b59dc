package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fatflowers/community/internal/app/service/billing"
	"github.com/fatflowers/community/internal/platform/stripeevent"
	"github.com/fatflowers/community/pkg/logctx"
	"github.com/fatflowers/community/pkg/response"
)

const maxWebhookBodyBytes = 1 << 20

type RespWebhookReceived struct {
	Received bool `json:"received"`
}

// @Summary      Stripe Webhook
// @Description  Verifies the stripe-signature header against the raw body and applies the event once. Processing failures are recorded and still answered with 200.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        stripe-signature header string true "Stripe signature"
// @Success      200  {object}  handlers.RespWebhookReceived
// @Failure      400  {object}  handlers.RespError
// @Router       /api/v1/webhooks/stripe [post]
func ApiStripeWebhook(rec *billing.Reconciler, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes))
		if err != nil {
			response.BadRequest(c, "failed to read request body")
			return
		}
		signature := c.GetHeader(stripeevent.SignatureHeader)
		if signature == "" {
			response.BadRequest(c, "missing stripe-signature header")
			return
		}

		if err := rec.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
			if errors.Is(err, billing.ErrInvalidSignature) {
				response.BadRequest(c, "invalid signature")
				return
			}
			response.Error(c, log, err)
			return
		}
		logctx.FromGin(c, log).Debugw("webhook_stripe_handled")
		response.OK(c, RespWebhookReceived{Received: true})
	}
}

func RegisterWebhookRoutes(r gin.IRouter, rec *billing.Reconciler, log *zap.SugaredLogger) {
	r.POST("/stripe", ApiStripeWebhook(rec, log))
}
