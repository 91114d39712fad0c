package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addClient(h *Hub, userID, hotelID uint) *Client {
	client := &Client{UserID: userID, HotelID: hotelID, Send: make(chan []byte, 4)}
	h.Clients[userID] = client
	return client
}

func TestBroadcastEventScopesByHotel(t *testing.T) {
	h := NewHub()
	staff := addClient(h, 1, 5)
	otherHotel := addClient(h, 2, 6)
	crossHotel := addClient(h, 3, 0)

	h.broadcastEvent(&Event{Type: "request_created", RequestID: 9, HotelID: 5, Timestamp: time.Now()})

	assert.Len(t, staff.Send, 1, "staff of the event's hotel must receive it")
	assert.Len(t, otherHotel.Send, 0, "staff of another hotel must not")
	assert.Len(t, crossHotel.Send, 1, "the cross-hotel feed must receive every hotel's events")
}

func TestBroadcastEventGlobalReachesEveryone(t *testing.T) {
	h := NewHub()
	staff := addClient(h, 1, 5)
	otherHotel := addClient(h, 2, 6)
	crossHotel := addClient(h, 3, 0)

	h.broadcastEvent(&Event{Type: "request_updated", RequestID: 9, Timestamp: time.Now()})

	for _, client := range []*Client{staff, otherHotel, crossHotel} {
		assert.Len(t, client.Send, 1)
	}
}

func TestConnectedUsers(t *testing.T) {
	h := NewHub()
	assert.Empty(t, h.ConnectedUsers())
	assert.False(t, h.IsUserConnected(1))

	addClient(h, 1, 5)
	addClient(h, 3, 0)

	users := h.ConnectedUsers()
	require.Len(t, users, 2)
	assert.ElementsMatch(t, []uint{1, 3}, users)
	assert.True(t, h.IsUserConnected(1))
	assert.False(t, h.IsUserConnected(2))
}
