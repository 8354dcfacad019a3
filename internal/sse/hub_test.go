package sse

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/gtd_storefront/internal/clock"
	"github.com/GTDGit/gtd_storefront/internal/models"
)

var at = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestHubNotifier_BroadcastsPlacedOrders(t *testing.T) {
	hub := NewHub()
	n := NewHubNotifier(hub, clock.NewFixed(at))
	client := hub.Register("admin-1")
	code := "SAVE10"

	n.NotifyOrderPlaced(&models.Order{
		OrderNumber:  "ORD-20250615-0A1B2C3D",
		CustomerName: "Rina",
		DeliveryTier: "express",
		CouponCode:   &code,
		Total:        decimal.RequireFromString("330"),
		Items:        make([]models.OrderItem, 2),
	})

	require.Len(t, client.Events, 1)
	msg := <-client.Events
	assert.Equal(t, EventOrderPlaced, msg.Event)

	var ev OrderEvent
	require.NoError(t, json.Unmarshal(msg.Data, &ev))
	assert.Equal(t, "ORD-20250615-0A1B2C3D", ev.OrderNumber)
	assert.Equal(t, 2, ev.Lines)
	assert.Equal(t, "SAVE10", *ev.CouponCode)
	assert.True(t, ev.Total.Equal(decimal.NewFromInt(330)))
	assert.True(t, ev.Timestamp.Equal(at))
}

func TestHubNotifier_BroadcastsExpiredCoupons(t *testing.T) {
	hub := NewHub()
	n := NewHubNotifier(hub, clock.NewFixed(at))
	client := hub.Register("admin-1")

	n.NotifyCouponsExpired(nil)
	require.Empty(t, client.Events)

	n.NotifyCouponsExpired([]string{"SPRING", "EASTER"})

	msg := <-client.Events
	assert.Equal(t, EventCouponsExpired, msg.Event)
	var ev CouponsExpiredEvent
	require.NoError(t, json.Unmarshal(msg.Data, &ev))
	assert.Equal(t, []string{"SPRING", "EASTER"}, ev.Codes)
}

func TestHub_DropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	client := hub.Register("slow")

	for i := 0; i < clientBuffer+5; i++ {
		hub.Broadcast(EventOrderPlaced, &OrderEvent{})
	}

	assert.Len(t, client.Events, clientBuffer)
	assert.Equal(t, clientBuffer, hub.Backlog())
}

func TestHub_UnregisterClosesChannel(t *testing.T) {
	hub := NewHub()
	client := hub.Register("a")
	require.Equal(t, 1, hub.ClientCount())

	hub.Unregister("a")
	hub.Unregister("a")

	_, open := <-client.Events
	assert.False(t, open)
	assert.Zero(t, hub.ClientCount())
}

func TestHub_UnencodablePayloadIsSkipped(t *testing.T) {
	hub := NewHub()
	client := hub.Register("a")

	hub.Broadcast(EventOrderPlaced, make(chan int))

	assert.Empty(t, client.Events)
}

func TestHubNotifier_SkipsWithoutClients(t *testing.T) {
	hub := NewHub()
	n := NewHubNotifier(hub, clock.System{})

	assert.NotPanics(t, func() {
		n.NotifyOrderPlaced(&models.Order{})
		n.NotifyCouponsExpired([]string{"X"})
	})
}
