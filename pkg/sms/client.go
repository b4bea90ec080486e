package sms

import (
	"context"
	"fmt"
	"strings"

	"github.com/arsmn/go-smsir/smsir"

	"github.com/Alijeyrad/medbook_backend/config"
)

// Client sends booking texts through sms.ir template messages.
type Client struct {
	client     *smsir.Client
	templateID string
	enabled    bool
}

// BookingText fills the booking template. The sms.ir template must declare the
// parameters "name", "doctor" and "time".
type BookingText struct {
	Phone       string
	PatientName string
	Doctor      string
	When        string
}

// NewFromConfig creates a new SMS client from the application configuration.
// If SMS is disabled, returns a client that no-ops on all operations.
func NewFromConfig(cfg config.SMSConfig) (*Client, error) {
	if !cfg.Enabled {
		return &Client{enabled: false}, nil
	}

	if cfg.SMSIR.APIKey == "" {
		return nil, fmt.Errorf("sms.ir API key required when SMS enabled")
	}
	if cfg.SMSIR.TemplateID == "" {
		return nil, fmt.Errorf("sms.ir template id required when SMS enabled")
	}

	client := smsir.NewClient().WithAuthentication(cfg.SMSIR.APIKey, cfg.SMSIR.SecretKey)

	return &Client{
		client:     client,
		templateID: cfg.SMSIR.TemplateID,
		enabled:    true,
	}, nil
}

// SendBookingReceived texts the patient that their request was recorded.
// If SMS is disabled, this is a no-op and returns nil.
func (c *Client) SendBookingReceived(ctx context.Context, t BookingText) error {
	if !c.enabled {
		return nil
	}

	if strings.TrimSpace(t.Phone) == "" {
		return fmt.Errorf("phone number is required")
	}
	if t.When == "" {
		return fmt.Errorf("appointment time is required")
	}

	req := &smsir.UltraFastSendRequest{
		Mobile:     t.Phone,
		TemplateID: c.templateID,
		Parameters: []smsir.UltraFastParameter{
			{Key: "name", Value: t.PatientName},
			{Key: "doctor", Value: t.Doctor},
			{Key: "time", Value: t.When},
		},
	}

	if _, err := c.client.Verification.UltraFastSend(ctx, req); err != nil {
		return fmt.Errorf("sms.ir send failed: %w", err)
	}

	return nil
}

// IsEnabled returns whether SMS sending is enabled.
func (c *Client) IsEnabled() bool {
	return c.enabled
}
