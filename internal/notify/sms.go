package notify

import (
	"context"
	"log"
	"time"
)

// MockSMSSender logs instead of delivering. It accepts the same inputs and
// produces the same result shape as the email channel so a real carrier
// integration can replace it without touching the dispatcher.
type MockSMSSender struct{}

func NewMockSMSSender() *MockSMSSender {
	return &MockSMSSender{}
}

func (s *MockSMSSender) SendVisitorNotification(_ context.Context, to string, req Request) error {
	message := "New visitor: " + req.GuestName + " is here to see you. Purpose: " + req.Purpose +
		". Time: " + time.Now().Format(time.RFC1123)
	log.Printf("SMS would be sent to %s: %s", to, message)
	return nil
}

func (s *MockSMSSender) SendTest(_ context.Context, to string) error {
	log.Printf("Test SMS would be sent to %s: SMS Configuration Test - %s", to, time.Now().Format(time.RFC1123))
	return nil
}
