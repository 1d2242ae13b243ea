package echoapi

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/course"
)

var signatureHeader = "X-Webhook-Signature"

type webhookApi struct {
	courseSvc course.ServiceInterface
	logger    core.Logger
	secret    []byte
}

func registerWebhookAPI(g *echo.Group, courseSvc course.ServiceInterface, logger core.Logger) {
	api := webhookApi{
		courseSvc: courseSvc,
		logger:    logger,
		secret:    []byte(core.Conf.VideoHost.WebhookSecret),
	}

	g.POST("/webhooks/video", api.videoStatus)
}

type videoWebhookPayload struct {
	AssetID string `json:"asset_id" validate:"required"`
	Status  string `json:"status" validate:"required,videostatus"`
}

func (p *videoWebhookPayload) Validate() error { return core.Validate.Struct(p) }

// videoStatus is the transcode host callback: it authenticates by HMAC-SHA256
// of the raw body and moves the video identified by asset ID to the reported
// status.
func (api *webhookApi) videoStatus(ctx echo.Context) error {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return errors.Wrap(err, "reading webhook body")
	}

	if !api.verifySignature(body, ctx.Request().Header.Get(signatureHeader)) {
		return errInvalidSignature
	}

	var payload videoWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed payload")
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	vid, err := api.courseSvc.UpdateVideoStatus(ctx.Request().Context(), payload.AssetID, payload.Status)
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating video status")
	}

	api.logger.Info("video status updated", map[string]interface{}{
		"asset_id": vid.AssetID,
		"status":   vid.Status,
	})
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}

func (api *webhookApi) verifySignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, api.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
