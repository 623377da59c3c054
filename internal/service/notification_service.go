package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"bank_ledger/internal/domain"
)

type NotificationType string

const (
	NotificationEmail NotificationType = "email"
	NotificationSMS   NotificationType = "sms"
)

// NotificationService delivers best-effort transaction receipts through a
// buffered worker pool. It never blocks the request path: when the queue is
// full the receipt is dropped and logged.
type NotificationService struct {
	emailService EmailService
	smsService   SMSService
	messageQueue chan NotificationMessage
	workers      int
	shutdownChan chan struct{}
	wg           sync.WaitGroup
	logger       *slog.Logger
}

type NotificationMessage struct {
	Type      NotificationType
	Recipient string
	Subject   string
	Message   string
	CreatedAt time.Time
}

type EmailService interface {
	SendEmail(to, subject, body string) error
}

type SMSService interface {
	SendSMS(to, message string) error
}

func NewNotificationService(
	emailService EmailService,
	smsService SMSService,
	workers int,
	logger *slog.Logger,
) *NotificationService {
	if logger == nil {
		logger = slog.Default()
	}

	s := &NotificationService{
		emailService: emailService,
		smsService:   smsService,
		messageQueue: make(chan NotificationMessage, 1000),
		workers:      workers,
		shutdownChan: make(chan struct{}),
		logger:       logger,
	}

	s.startWorkers()

	return s
}

// SendTransactionReceipt enqueues a receipt for a committed transaction.
func (s *NotificationService) SendTransactionReceipt(
	ctx context.Context,
	tx *domain.Transaction,
	accountNumber int,
	recipient string,
) error {
	var subject string
	switch tx.Kind {
	case domain.KindDeposit:
		subject = "Deposit Receipt"
	case domain.KindWithdrawal:
		subject = "Withdrawal Receipt"
	default:
		return fmt.Errorf("unknown transaction kind: %s", tx.Kind)
	}

	msg := NotificationMessage{
		Type:      NotificationEmail,
		Recipient: recipient,
		Subject:   subject,
		Message: fmt.Sprintf("Your %s of %s on account %d has been committed.",
			tx.Kind, tx.Amount.StringFixed(2), accountNumber),
		CreatedAt: time.Now(),
	}

	select {
	case s.messageQueue <- msg:
		return nil
	default:
		s.logger.WarnContext(ctx, "Notification queue full, receipt dropped",
			slog.String("recipient", recipient))
		return fmt.Errorf("notification queue full")
	}
}

func (s *NotificationService) startWorkers() {
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
}

func (s *NotificationService) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case msg := <-s.messageQueue:
			s.deliver(msg)
		case <-s.shutdownChan:
			return
		}
	}
}

func (s *NotificationService) deliver(msg NotificationMessage) {
	var err error
	switch msg.Type {
	case NotificationEmail:
		err = s.emailService.SendEmail(msg.Recipient, msg.Subject, msg.Message)
	case NotificationSMS:
		err = s.smsService.SendSMS(msg.Recipient, msg.Message)
	default:
		err = fmt.Errorf("unknown notification type: %s", msg.Type)
	}

	if err != nil {
		s.logger.Error("Notification delivery failed",
			slog.String("recipient", msg.Recipient),
			slog.String("error", err.Error()))
		return
	}

	s.logger.Debug("Notification delivered",
		slog.String("recipient", msg.Recipient),
		slog.String("subject", msg.Subject))
}

func (s *NotificationService) Shutdown(ctx context.Context) error {
	close(s.shutdownChan)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Notification service shutdown complete")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// MockEmailService logs instead of sending; the process has no real mail
// transport.
type MockEmailService struct{}

func (m *MockEmailService) SendEmail(to, subject, body string) error {
	slog.Debug("Mock email sent", slog.String("to", to), slog.String("subject", subject))
	return nil
}

type MockSMSService struct{}

func (m *MockSMSService) SendSMS(to, message string) error {
	slog.Debug("Mock SMS sent", slog.String("to", to))
	return nil
}
