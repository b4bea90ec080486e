package sms

import (
	"context"
	"testing"

	"github.com/Alijeyrad/medbook_backend/config"
)

func TestNewFromConfig_Disabled(t *testing.T) {
	client, err := NewFromConfig(config.SMSConfig{Enabled: false})
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}

	if client.IsEnabled() {
		t.Error("Expected client to be disabled")
	}
}

func TestNewFromConfig_EnabledWithoutSettings(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.SMSIRConfig
	}{
		{"missing api key", config.SMSIRConfig{TemplateID: "100200"}},
		{"missing template", config.SMSIRConfig{APIKey: "test-api-key"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewFromConfig(config.SMSConfig{Enabled: true, SMSIR: tt.cfg}); err == nil {
				t.Error("Expected configuration error")
			}
		})
	}
}

func TestNewFromConfig_EnabledWithAPIKey(t *testing.T) {
	cfg := config.SMSConfig{
		Enabled: true,
		SMSIR: config.SMSIRConfig{
			APIKey:     "test-api-key",
			SecretKey:  "test-secret-key",
			TemplateID: "100200",
		},
	}

	client, err := NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}

	if !client.IsEnabled() {
		t.Error("Expected client to be enabled")
	}
}

func TestSendBookingReceived_DisabledClient(t *testing.T) {
	client := &Client{enabled: false}

	if err := client.SendBookingReceived(context.Background(), BookingText{}); err != nil {
		t.Errorf("Expected no error for disabled client, got: %v", err)
	}
}

func TestSendBookingReceived_Validation(t *testing.T) {
	client := &Client{enabled: true, templateID: "100200"}

	tests := []struct {
		name string
		text BookingText
	}{
		{"empty phone number", BookingText{Phone: " ", When: "10 Jun 10:00"}},
		{"empty time", BookingText{Phone: "+34600111222"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := client.SendBookingReceived(context.Background(), tt.text); err == nil {
				t.Error("Expected error but got nil")
			}
		})
	}
}
