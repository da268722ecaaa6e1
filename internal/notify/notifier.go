package notify

import (
	"context"

	"github.com/Imactuallyjuan/Terrin-sub000/internal/ws"
)

// Notifier defines the interface for pushing events to users.
type Notifier interface {
	NotifyBidReceived(ctx context.Context, e BidReceivedEvent) error
	NotifyBidAccepted(ctx context.Context, e BidAcceptedEvent) error
	NotifyMilestoneCompleted(ctx context.Context, e MilestoneCompletedEvent) error
	NotifyMessageReceived(ctx context.Context, e MessageReceivedEvent) error
	NotifyPaymentReleased(ctx context.Context, e PaymentReleasedEvent) error
}

// NoopNotifier is used when realtime push is disabled (tests, workers).
type NoopNotifier struct{}

func (NoopNotifier) NotifyBidReceived(context.Context, BidReceivedEvent) error { return nil }
func (NoopNotifier) NotifyBidAccepted(context.Context, BidAcceptedEvent) error { return nil }
func (NoopNotifier) NotifyMilestoneCompleted(context.Context, MilestoneCompletedEvent) error {
	return nil
}
func (NoopNotifier) NotifyMessageReceived(context.Context, MessageReceivedEvent) error { return nil }
func (NoopNotifier) NotifyPaymentReleased(context.Context, PaymentReleasedEvent) error { return nil }

// WSNotifier pushes events through the websocket hub. Delivery is
// best-effort by design; the REST endpoints remain the source of truth.
type WSNotifier struct {
	hub *ws.Hub
}

func NewWSNotifier(hub *ws.Hub) *WSNotifier {
	return &WSNotifier{hub: hub}
}

func (n *WSNotifier) NotifyBidReceived(_ context.Context, e BidReceivedEvent) error {
	n.hub.Publish(e.OwnerID, ws.Event{Type: "bid_received", Data: e})
	return nil
}

func (n *WSNotifier) NotifyBidAccepted(_ context.Context, e BidAcceptedEvent) error {
	n.hub.Publish(e.ContractorID, ws.Event{Type: "bid_accepted", Data: e})
	return nil
}

func (n *WSNotifier) NotifyMilestoneCompleted(_ context.Context, e MilestoneCompletedEvent) error {
	n.hub.Publish(e.RecipientID, ws.Event{Type: "milestone_completed", Data: e})
	return nil
}

func (n *WSNotifier) NotifyMessageReceived(_ context.Context, e MessageReceivedEvent) error {
	n.hub.Publish(e.RecipientID, ws.Event{Type: "message_received", Data: e})
	return nil
}

func (n *WSNotifier) NotifyPaymentReleased(_ context.Context, e PaymentReleasedEvent) error {
	n.hub.Publish(e.PayeeID, ws.Event{Type: "payment_released", Data: e})
	return nil
}

var _ Notifier = (*WSNotifier)(nil)
var _ Notifier = NoopNotifier{}
