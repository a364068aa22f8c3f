package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"guestdesk-system/config"
	"guestdesk-system/internal/notify"
)

type NotifyHandler struct {
	dispatcher *notify.Dispatcher
	email      notify.EmailSender
	sms        notify.SMSSender
	slack      notify.SlackNotifier
	smtpCfg    config.SMTPConfig
	slackCfg   config.SlackConfig
	notifyCfg  config.NotifyConfig
}

func NewNotifyHandler(dispatcher *notify.Dispatcher, email notify.EmailSender, sms notify.SMSSender, slack notify.SlackNotifier, smtpCfg config.SMTPConfig, slackCfg config.SlackConfig, notifyCfg config.NotifyConfig) *NotifyHandler {
	return &NotifyHandler{
		dispatcher: dispatcher,
		email:      email,
		sms:        sms,
		slack:      slack,
		smtpCfg:    smtpCfg,
		slackCfg:   slackCfg,
		notifyCfg:  notifyCfg,
	}
}

type NotificationRequest struct {
	Type       string  `json:"type" binding:"required,oneof=email sms slack both"`
	EmployeeID int64   `json:"employeeId" binding:"required,min=1"`
	GuestName  string  `json:"guestName" binding:"required,min=2,max=100"`
	GuestPhone *string `json:"guestPhone" binding:"omitempty,max=50"`
	GuestEmail *string `json:"guestEmail" binding:"omitempty,email"`
	Purpose    string  `json:"purpose" binding:"required,max=200"`
	Message    string  `json:"message" binding:"omitempty,max=500"`
}

type BulkNotificationRequest struct {
	EmployeeIDs []int64 `json:"employeeIds" binding:"required,min=1"`
	Type        string  `json:"type" binding:"required,oneof=email sms slack both"`
	GuestName   string  `json:"guestName" binding:"required,min=2,max=100"`
	GuestPhone  *string `json:"guestPhone" binding:"omitempty,max=50"`
	GuestEmail  *string `json:"guestEmail" binding:"omitempty,email"`
	Purpose     string  `json:"purpose" binding:"required,max=200"`
	Message     string  `json:"message" binding:"omitempty,max=500"`
}

type TestEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type TestSMSRequest struct {
	Phone string `json:"phone" binding:"required"`
}

func (r NotificationRequest) toDispatch() notify.Request {
	return notify.Request{
		Type:       r.Type,
		EmployeeID: r.EmployeeID,
		GuestName:  r.GuestName,
		GuestPhone: r.GuestPhone,
		GuestEmail: r.GuestEmail,
		Purpose:    r.Purpose,
		Message:    r.Message,
	}
}

func (h *NotifyHandler) Send(c *gin.Context) {
	var req NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	outcome, err := h.dispatcher.Send(c.Request.Context(), req.toDispatch())
	if err != nil {
		if errors.Is(err, notify.ErrEmployeeNotFound) {
			c.JSON(http.StatusNotFound, errorResponse("Employee not found or inactive"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Internal server error"))
		return
	}

	// The check-in row is the source of truth for the arrival; a failed
	// delivery only changes the reported status.
	status := http.StatusOK
	message := "Notification sent successfully"
	if !outcome.Success {
		status = http.StatusInternalServerError
		message = "Failed to send notification"
	}

	c.JSON(status, APIResponse{
		Success: outcome.Success,
		Message: message,
		Data:    outcome,
	})
}

func (h *NotifyHandler) Bulk(c *gin.Context) {
	var req BulkNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	bulk, err := h.dispatcher.SendBulk(c.Request.Context(), req.EmployeeIDs, notify.Request{
		Type:       req.Type,
		GuestName:  req.GuestName,
		GuestPhone: req.GuestPhone,
		GuestEmail: req.GuestEmail,
		Purpose:    req.Purpose,
		Message:    req.Message,
	})
	if err != nil {
		if errors.Is(err, notify.ErrEmployeeNotFound) {
			c.JSON(http.StatusNotFound, errorResponse("No active employees found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Internal server error"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Bulk notification completed", bulk))
}

func (h *NotifyHandler) Settings(c *gin.Context) {
	emailEnabled := h.email != nil

	host := h.smtpCfg.Host
	if host == "" {
		host = "Not configured"
	}
	from := h.smtpCfg.From
	if from == "" {
		from = "Not configured"
	}

	c.JSON(http.StatusOK, successResponse("Notification settings", gin.H{
		"method":   h.notifyCfg.Method,
		"enabled":  h.notifyCfg.Enabled,
		"template": h.notifyCfg.Template,
		"email": gin.H{
			"enabled": emailEnabled,
			"host":    host,
			"port":    h.smtpCfg.Port,
			"secure":  h.smtpCfg.Secure,
			"from":    from,
		},
		"sms": gin.H{
			"enabled":  false,
			"provider": "Mock SMS Service (replace with actual service)",
		},
		"slack": gin.H{
			"enabled":         h.slack != nil,
			"default_channel": h.slackCfg.DefaultChannel,
		},
	}))
}

func (h *NotifyHandler) TestEmail(c *gin.Context) {
	var req TestEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	if h.email == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse("Email service not configured"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.notifyCfg.Timeout)
	defer cancel()

	if err := h.email.SendTest(ctx, req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to send test email"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Test email sent successfully", nil))
}

func (h *NotifyHandler) TestSMS(c *gin.Context) {
	var req TestSMSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	if h.sms == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse("SMS service not configured"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.notifyCfg.Timeout)
	defer cancel()

	if err := h.sms.SendTest(ctx, req.Phone); err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to send test SMS"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Test SMS sent successfully", nil))
}

func (h *NotifyHandler) TestSlack(c *gin.Context) {
	if h.slack == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse("Slack service not configured"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.notifyCfg.Timeout)
	defer cancel()

	err := h.slack.SendChannel(ctx, h.slackCfg.DefaultChannel, "Slack configuration test from the Guest Check-in System")
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to send test Slack message"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Test Slack message sent successfully", nil))
}
