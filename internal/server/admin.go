// internal/server/admin.go
package server

import (
	"encoding/json"
	"net/http"

	apperrors "ats-notifications/internal/common/errors"
	"ats-notifications/internal/common/validation"
	"ats-notifications/internal/models"

	"github.com/gin-gonic/gin"
)

type settingUpsertRequest struct {
	Enabled  bool     `json:"enabled"`
	Channels []string `json:"channels"`
}

// handleSettingUpsert is PUT /api/orgs/:orgId/notification-settings/:eventCode.
func (s *Server) handleSettingUpsert(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, apperrors.NewValidationError("unreadable request body"))
		return
	}
	if err := validation.Validate(validation.SettingUpsertSchema, body); err != nil {
		respondError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	var req settingUpsertRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	ev, err := s.events.GetByCode(c.Request.Context(), c.Param("eventCode"))
	if err != nil {
		respondError(c, err)
		return
	}

	for _, ch := range req.Channels {
		if !ev.HasDefaultChannel(ch) {
			s.logger.Info("org setting enables channel beyond event defaults", map[string]interface{}{
				"orgId":     c.Param("orgId"),
				"eventCode": ev.Code,
				"channel":   ch,
			})
		}
	}

	setting := &models.OrgNotificationSetting{
		OrgID:    c.Param("orgId"),
		EventID:  ev.ID,
		Enabled:  req.Enabled,
		Channels: req.Channels,
	}
	if err := s.settings.Upsert(c.Request.Context(), setting); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"setting": setting})
}

// handleSettingList is GET /api/orgs/:orgId/notification-settings.
func (s *Server) handleSettingList(c *gin.Context) {
	settings, err := s.settings.List(c.Request.Context(), c.Param("orgId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if settings == nil {
		settings = []models.OrgNotificationSetting{}
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

type templateUpsertRequest struct {
	Subject  string `json:"subject"`
	BodyHTML string `json:"bodyHtml"`
}

// handleTemplateUpsert is PUT /api/orgs/:orgId/email-templates/:eventCode.
func (s *Server) handleTemplateUpsert(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, apperrors.NewValidationError("unreadable request body"))
		return
	}
	if err := validation.Validate(validation.TemplateUpsertSchema, body); err != nil {
		respondError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	var req templateUpsertRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	ev, err := s.events.GetByCode(c.Request.Context(), c.Param("eventCode"))
	if err != nil {
		respondError(c, err)
		return
	}

	tmpl := &models.EmailTemplate{
		OrgID:    c.Param("orgId"),
		EventID:  ev.ID,
		Subject:  req.Subject,
		BodyHTML: req.BodyHTML,
	}
	if err := s.templates.Upsert(c.Request.Context(), tmpl); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"template": tmpl})
}
