package sse

import (
	"github.com/GTDGit/gtd_storefront/internal/clock"
	"github.com/GTDGit/gtd_storefront/internal/models"
)

// HubNotifier publishes checkout and coupon lifecycle events on a Hub.
// Nothing is encoded while no dashboard is connected.
type HubNotifier struct {
	hub   *Hub
	clock clock.Clock
}

func NewHubNotifier(hub *Hub, clk clock.Clock) *HubNotifier {
	return &HubNotifier{hub: hub, clock: clk}
}

// NotifyOrderPlaced implements service.OrderNotifier.
func (n *HubNotifier) NotifyOrderPlaced(order *models.Order) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(EventOrderPlaced, &OrderEvent{
		OrderNumber:  order.OrderNumber,
		CustomerName: order.CustomerName,
		DeliveryTier: order.DeliveryTier,
		CouponCode:   order.CouponCode,
		Lines:        len(order.Items),
		Total:        order.Total,
		Timestamp:    n.clock.Now(),
	})
}

// NotifyCouponsExpired implements worker.ExpiryNotifier.
func (n *HubNotifier) NotifyCouponsExpired(codes []string) {
	if len(codes) == 0 || n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(EventCouponsExpired, &CouponsExpiredEvent{
		Codes:     codes,
		Timestamp: n.clock.Now(),
	})
}
