package notifications

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/aureliajewels/aurelia-backend/internal/orders"
	"github.com/aureliajewels/aurelia-backend/pkg/db/models"
	"github.com/aureliajewels/aurelia-backend/pkg/logger"
	"github.com/aureliajewels/aurelia-backend/pkg/mailer"
)

type stubSender struct {
	sent []mailer.Message
	err  error
}

func (s *stubSender) Send(_ context.Context, msg mailer.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

type stubUserLookup struct {
	user *models.User
	err  error
}

func (s *stubUserLookup) FindByID(context.Context, uuid.UUID) (*models.User, error) {
	return s.user, s.err
}

func testOrderDTO() *orders.OrderDTO {
	return &orders.OrderDTO{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Items: []orders.OrderItemDTO{
			{Quantity: 2, UnitPrice: decimal.NewFromInt(62315), TotalPrice: decimal.NewFromInt(124630)},
		},
		ShippingCharges: decimal.Zero,
		TotalPrice:      decimal.NewFromInt(124630),
	}
}

func newSyncService(t *testing.T, sender mailer.Sender, users userLookup) *service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: io.Discard})
	return &service{sender: sender, users: users, logg: logg, async: false}
}

func TestOrderConfirmedSendsEmail(t *testing.T) {
	sender := &stubSender{}
	lookup := &stubUserLookup{user: &models.User{Name: "Asha", Email: "asha@example.com"}}
	svc := newSyncService(t, sender, lookup)

	order := testOrderDTO()
	svc.OrderConfirmed(context.Background(), order)

	if len(sender.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.To != "asha@example.com" {
		t.Fatalf("unexpected recipient %q", msg.To)
	}
	if !strings.Contains(msg.Subject, "Order confirmed") {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	if !strings.Contains(msg.Body, "Total: 124630.00") {
		t.Fatalf("body missing total: %q", msg.Body)
	}
	if !strings.Contains(msg.Body, "Hi Asha") {
		t.Fatalf("body missing greeting: %q", msg.Body)
	}
}

func TestOrderConfirmedSwallowsSendFailure(t *testing.T) {
	sender := &stubSender{err: fmt.Errorf("smtp unreachable")}
	lookup := &stubUserLookup{user: &models.User{Name: "Asha", Email: "asha@example.com"}}
	svc := newSyncService(t, sender, lookup)

	// Must not panic or propagate anything.
	svc.OrderConfirmed(context.Background(), testOrderDTO())
}

func TestOrderConfirmedSkipsWhenUserLookupFails(t *testing.T) {
	sender := &stubSender{}
	lookup := &stubUserLookup{err: fmt.Errorf("user not found")}
	svc := newSyncService(t, sender, lookup)

	svc.OrderConfirmed(context.Background(), testOrderDTO())
	if len(sender.sent) != 0 {
		t.Fatalf("expected no messages, got %d", len(sender.sent))
	}
}
