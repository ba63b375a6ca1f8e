// internal/server/notifications.go
package server

import (
	"encoding/json"
	"net/http"

	apperrors "ats-notifications/internal/common/errors"
	"ats-notifications/internal/common/validation"

	"github.com/gin-gonic/gin"
)

type sendRequest struct {
	EventType string                 `json:"eventType"`
	OrgID     string                 `json:"orgId"`
	Data      map[string]interface{} `json:"data"`
}

// handleSend is POST /api/notifications/send.
func (s *Server) handleSend(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, apperrors.NewValidationError("unreadable request body"))
		return
	}
	if err := validation.Validate(validation.SendRequestSchema, body); err != nil {
		respondError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	var req sendRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	orgID := req.OrgID
	if orgID == "" {
		orgID = c.GetString(ctxKeyOrgID)
	}
	if orgID == "" {
		respondError(c, apperrors.NewValidationError("orgId missing from request and token"))
		return
	}

	opts, err := s.contexts.Build(c.Request.Context(), orgID, req.EventType, req.Data)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := s.dispatcher.Send(c.Request.Context(), *opts)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": result.Success,
		"result":  result,
	})
}

// respondError maps a typed error to its HTTP status and a stable JSON shape.
func respondError(c *gin.Context, err error) {
	stdErr := apperrors.Normalize(err)
	c.JSON(apperrors.HTTPStatus(stdErr.Code), gin.H{
		"error": gin.H{
			"code":    stdErr.Code,
			"message": stdErr.Message,
			"details": stdErr.Details,
		},
	})
}
