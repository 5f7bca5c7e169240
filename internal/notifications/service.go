package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aureliajewels/aurelia-backend/internal/orders"
	"github.com/aureliajewels/aurelia-backend/pkg/db/models"
	"github.com/aureliajewels/aurelia-backend/pkg/logger"
	"github.com/aureliajewels/aurelia-backend/pkg/mailer"
)

const sendTimeout = 15 * time.Second

type userLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service delivers customer notifications. Delivery is best effort: failures
// are logged and never surfaced to the triggering operation.
type Service interface {
	OrderConfirmed(ctx context.Context, order *orders.OrderDTO)
}

type service struct {
	sender mailer.Sender
	users  userLookup
	logg   *logger.Logger
	async  bool
}

// NewService builds the notification dispatcher. Sends run on their own
// goroutine with a detached context so a cancelled request cannot abort them.
func NewService(sender mailer.Sender, users userLookup, logg *logger.Logger) (Service, error) {
	if sender == nil {
		return nil, fmt.Errorf("mail sender required")
	}
	if users == nil {
		return nil, fmt.Errorf("user lookup required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{sender: sender, users: users, logg: logg, async: true}, nil
}

func (s *service) OrderConfirmed(ctx context.Context, order *orders.OrderDTO) {
	if order == nil {
		return
	}
	ctx = s.logg.WithOrderID(context.WithoutCancel(ctx), order.ID.String())
	if s.async {
		go s.sendOrderConfirmation(ctx, order)
		return
	}
	s.sendOrderConfirmation(ctx, order)
}

func (s *service) sendOrderConfirmation(ctx context.Context, order *orders.OrderDTO) {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	user, err := s.users.FindByID(ctx, order.UserID)
	if err != nil {
		s.logg.Error(ctx, "order confirmation skipped: user lookup failed", err)
		return
	}

	msg := mailer.Message{
		To:      user.Email,
		Subject: fmt.Sprintf("Order confirmed - %s", shortOrderRef(order.ID)),
		Body:    confirmationBody(user.Name, order),
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		s.logg.Error(ctx, "order confirmation email failed", err)
		return
	}
	s.logg.Info(ctx, "order confirmation email sent")
}

func confirmationBody(name string, order *orders.OrderDTO) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\r\n\r\n", name)
	fmt.Fprintf(&b, "Your order %s is confirmed.\r\n\r\n", shortOrderRef(order.ID))
	for _, item := range order.Items {
		fmt.Fprintf(&b, "  %d x item @ %s = %s\r\n", item.Quantity, item.UnitPrice.StringFixed(2), item.TotalPrice.StringFixed(2))
	}
	fmt.Fprintf(&b, "\r\nShipping: %s\r\n", order.ShippingCharges.StringFixed(2))
	fmt.Fprintf(&b, "Total: %s\r\n\r\n", order.TotalPrice.StringFixed(2))
	b.WriteString("Thank you for shopping with Aurelia Jewels.\r\n")
	return b.String()
}

func shortOrderRef(id uuid.UUID) string {
	return "#" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}
