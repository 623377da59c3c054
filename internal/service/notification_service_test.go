package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bank_ledger/internal/domain"
)

type recordingEmailService struct {
	sent chan string
}

func (r *recordingEmailService) SendEmail(to, subject, body string) error {
	r.sent <- subject
	return nil
}

func TestNotificationService_DeliversTransactionReceipt(t *testing.T) {
	email := &recordingEmailService{sent: make(chan string, 1)}
	svc := NewNotificationService(email, &MockSMSService{}, 1, nil)
	defer svc.Shutdown(context.Background())

	tx := domain.NewTransaction(domain.KindDeposit, decimal.NewFromInt(100))
	if err := svc.SendTransactionReceipt(context.Background(), &tx, 1, "111"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case subject := <-email.sent:
		if subject != "Deposit Receipt" {
			t.Errorf("expected subject 'Deposit Receipt', got %q", subject)
		}
	case <-time.After(time.Second):
		t.Fatal("receipt was not delivered")
	}
}

func TestNotificationService_RejectsUnknownKind(t *testing.T) {
	svc := NewNotificationService(&MockEmailService{}, &MockSMSService{}, 1, nil)
	defer svc.Shutdown(context.Background())

	tx := domain.Transaction{Kind: "transfer"}
	if err := svc.SendTransactionReceipt(context.Background(), &tx, 1, "111"); err == nil {
		t.Fatal("expected error for unknown transaction kind")
	}
}

func TestNotificationService_ShutdownStopsWorkers(t *testing.T) {
	svc := NewNotificationService(&MockEmailService{}, &MockSMSService{}, 3, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := svc.Shutdown(ctx); err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}
}
