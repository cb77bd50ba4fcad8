package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/glacialguard/alert-service/internal/directory"
	"github.com/glacialguard/alert-service/internal/dispatch"
	"github.com/glacialguard/alert-service/internal/models"
	"github.com/glacialguard/alert-service/internal/util"
)

const (
	smsDeliveryTime       = "10-30 seconds"
	whatsappDeliveryTime  = "5-15 seconds"
	emergencyDeliveryTime = "30-60 seconds"
)

type directAlertRequest struct {
	PhoneNumbers []string `json:"phoneNumbers"`
	Message      string   `json:"message"`
	Priority     string   `json:"priority"`
}

type emergencyAlertRequest struct {
	PhoneNumbers []string `json:"phoneNumbers"`
	Message      string   `json:"message"`
	Channels     []string `json:"channels"`
	LakeID       string   `json:"lakeId"`
	LakeName     string   `json:"lakeName"`
	Location     string   `json:"location"`
}

type multilingualAlertRequest struct {
	GlacierName           string  `json:"glacierName"`
	RiskScore             float64 `json:"riskScore"`
	FloodTimeMinutes      int     `json:"floodTimeMinutes"`
	EvacuationTimeMinutes int     `json:"evacuationTimeMinutes"`
}

type testAlertRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Channel     string `json:"channel"`
}

func (s *Server) sendSMSAlert(c *gin.Context) {
	var req directAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}
	if len(req.PhoneNumbers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": `Phone numbers required (format: ["+918767936699"])`})
		return
	}
	phones, err := util.NormalizeE164List(req.PhoneNumbers, 1, 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message required"})
		return
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}

	results, summary, err := s.dispatcher.DispatchSingle(c.Request.Context(), phones, req.Message, models.ChannelSMS)
	if err != nil {
		s.dispatchError(c, "SMS sending failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "sms_sent",
		"priority":     req.Priority,
		"totalSent":    summary.TotalSent,
		"totalFailed":  summary.TotalFailed,
		"results":      results,
		"deliveryTime": smsDeliveryTime,
	})
}

func (s *Server) sendWhatsAppAlert(c *gin.Context) {
	var req directAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}
	if len(req.PhoneNumbers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone numbers required"})
		return
	}
	phones, err := util.NormalizeE164List(req.PhoneNumbers, 1, 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message required"})
		return
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}

	results, summary, err := s.dispatcher.DispatchSingle(c.Request.Context(), phones, req.Message, models.ChannelWhatsApp)
	if err != nil {
		s.dispatchError(c, "WhatsApp sending failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "whatsapp_sent",
		"priority":     req.Priority,
		"totalSent":    summary.TotalSent,
		"totalFailed":  summary.TotalFailed,
		"results":      results,
		"deliveryTime": whatsappDeliveryTime,
	})
}

func (s *Server) sendEmergencyAlert(c *gin.Context) {
	var req emergencyAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}
	if len(req.PhoneNumbers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone numbers required"})
		return
	}
	phones, err := util.NormalizeE164List(req.PhoneNumbers, 1, 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.LakeName == "" {
		req.LakeName = "Unknown Lake"
	}
	if req.Location == "" {
		req.Location = "Unknown Location"
	}
	if len(req.Channels) == 0 {
		req.Channels = []string{models.ChannelSMS, models.ChannelWhatsApp}
	}

	message := s.dispatcher.ComposeEmergencyMessage(req.Message, req.LakeName, req.Location)
	results, err := s.dispatcher.DispatchEmergency(c.Request.Context(), phones, message, req.Channels)
	if err != nil {
		s.dispatchError(c, "Emergency alert failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":            "emergency_alert_dispatched",
		"alertLevel":        "CRITICAL",
		"lakeId":            req.LakeID,
		"lakeName":          req.LakeName,
		"channelsUsed":      req.Channels,
		"results":           results,
		"totalDeliveryTime": emergencyDeliveryTime,
		"timestamp":         s.clock().UTC().Format(time.RFC3339),
	})
}

func (s *Server) sendMultilingualEmergencyAlert(c *gin.Context) {
	var req multilingualAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}
	if req.GlacierName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Glacier name required"})
		return
	}

	result, err := s.dispatcher.DispatchGlacier(c.Request.Context(), dispatch.GlacierAlert{
		GlacierName:           req.GlacierName,
		RiskScore:             req.RiskScore,
		FloodTimeMinutes:      req.FloodTimeMinutes,
		EvacuationTimeMinutes: req.EvacuationTimeMinutes,
	}, nil)
	if errors.Is(err, directory.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Glacier not found in database"})
		return
	}
	if err != nil {
		s.dispatchError(c, "Multilingual emergency alert failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "multilingual_emergency_alert_dispatched",
		"glacierName":     req.GlacierName,
		"region":          result.Entry.Region,
		"riskScore":       req.RiskScore,
		"languagesUsed":   result.Entry.Languages,
		"evacuationZones": result.Entry.EvacuationZones,
		"results":         result.Results,
		"timestamp":       s.clock().UTC().Format(time.RFC3339),
	})
}

func (s *Server) testAlert(c *gin.Context) {
	var req testAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}
	if req.PhoneNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number required for test"})
		return
	}
	phone, err := util.NormalizeE164(req.PhoneNumber)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Channel == "" {
		req.Channel = models.ChannelSMS
	}

	result, err := s.dispatcher.TestDispatch(c.Request.Context(), phone, req.Channel)
	if err != nil {
		s.dispatchError(c, "Test alert failed", err)
		return
	}

	message := "Test alert failed"
	note := "Check service configuration"
	if result.Success {
		message = "Test alert sent successfully!"
		note = "Check your phone for the test message"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "test_completed",
		"channel":     req.Channel,
		"phoneNumber": req.PhoneNumber,
		"result":      result,
		"message":     message,
		"note":        note,
	})
}

// dispatchError maps pre-delivery failures to 400 and everything else to
// 500. Delivery failures never reach here; they live in the aggregate.
func (s *Server) dispatchError(c *gin.Context, label string, err error) {
	switch {
	case errors.Is(err, dispatch.ErrNoRecipients),
		errors.Is(err, dispatch.ErrEmptyMessage),
		errors.Is(err, dispatch.ErrUnknownChannel):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.logger.Error().Err(err).Str("label", label).Msg("unexpected dispatch failure")
		c.JSON(http.StatusInternalServerError, gin.H{"error": label, "message": err.Error()})
	}
}
