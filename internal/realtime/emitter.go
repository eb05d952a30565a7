package realtime

import (
	"context"
	"sync"

	"stagelink/internal/models"
)

// DashboardEvent is what a venue owner's dashboard stream receives:
// request updates and bookings for one of their venues.
type DashboardEvent struct {
	Type    string      `json:"type"`
	VenueID string      `json:"venue_id"`
	Payload interface{} `json:"payload"`
}

const (
	EventRequestUpdated = "request.updated"
	EventBookingCreated = "booking.created"
)

// Emitter manages SSE connections and event broadcasting. Chat
// subscribers are keyed by request id, dashboard subscribers by
// venue id.
type Emitter struct {
	threadClients     map[string][]chan models.Message
	threadClientMutex sync.RWMutex

	venueClients     map[string][]chan DashboardEvent
	venueClientMutex sync.RWMutex
}

func NewEmitter() *Emitter {
	return &Emitter{
		threadClients: make(map[string][]chan models.Message),
		venueClients:  make(map[string][]chan DashboardEvent),
	}
}

// SubscribeToThread adds a client to a request's chat stream.
func (e *Emitter) SubscribeToThread(ctx context.Context, requestID string) chan models.Message {
	clientChan := make(chan models.Message, 10)

	e.threadClientMutex.Lock()
	e.threadClients[requestID] = append(e.threadClients[requestID], clientChan)
	e.threadClientMutex.Unlock()

	// Remove client when context is done
	go func() {
		<-ctx.Done()
		e.removeThreadClient(requestID, clientChan)
	}()

	return clientChan
}

// SubscribeToVenue adds a client to a venue's dashboard stream.
func (e *Emitter) SubscribeToVenue(ctx context.Context, venueID string) chan DashboardEvent {
	clientChan := make(chan DashboardEvent, 10)

	e.venueClientMutex.Lock()
	e.venueClients[venueID] = append(e.venueClients[venueID], clientChan)
	e.venueClientMutex.Unlock()

	// Remove client when context is done
	go func() {
		<-ctx.Done()
		e.removeVenueClient(venueID, clientChan)
	}()

	return clientChan
}

// EmitMessage broadcasts a chat message to the request's subscribers.
// The read lock is held across the sends: removal closes channels
// under the write lock, so sending outside the lock could hit a
// closed channel. The sends are non-blocking, so holding it is cheap.
func (e *Emitter) EmitMessage(message models.Message) {
	e.threadClientMutex.RLock()
	defer e.threadClientMutex.RUnlock()

	for _, clientChan := range e.threadClients[message.RequestID] {
		// Non-blocking send so one slow client never stalls the rest
		select {
		case clientChan <- message:
		default:
		}
	}
}

// EmitDashboardEvent broadcasts to the venue's dashboard subscribers.
func (e *Emitter) EmitDashboardEvent(event DashboardEvent) {
	e.venueClientMutex.RLock()
	defer e.venueClientMutex.RUnlock()

	for _, clientChan := range e.venueClients[event.VenueID] {
		select {
		case clientChan <- event:
		default:
		}
	}
}

func (e *Emitter) removeThreadClient(requestID string, clientChan chan models.Message) {
	e.threadClientMutex.Lock()
	defer e.threadClientMutex.Unlock()

	clients := e.threadClients[requestID]
	for i, ch := range clients {
		if ch == clientChan {
			e.threadClients[requestID] = append(clients[:i], clients[i+1:]...)
			close(clientChan)
			break
		}
	}
	if len(e.threadClients[requestID]) == 0 {
		delete(e.threadClients, requestID)
	}
}

func (e *Emitter) removeVenueClient(venueID string, clientChan chan DashboardEvent) {
	e.venueClientMutex.Lock()
	defer e.venueClientMutex.Unlock()

	clients := e.venueClients[venueID]
	for i, ch := range clients {
		if ch == clientChan {
			e.venueClients[venueID] = append(clients[:i], clients[i+1:]...)
			close(clientChan)
			break
		}
	}
	if len(e.venueClients[venueID]) == 0 {
		delete(e.venueClients, venueID)
	}
}

// ThreadClientCount returns the number of clients on a chat thread.
func (e *Emitter) ThreadClientCount(requestID string) int {
	e.threadClientMutex.RLock()
	defer e.threadClientMutex.RUnlock()
	return len(e.threadClients[requestID])
}

// VenueClientCount returns the number of clients on a venue stream.
func (e *Emitter) VenueClientCount(venueID string) int {
	e.venueClientMutex.RLock()
	defer e.venueClientMutex.RUnlock()
	return len(e.venueClients[venueID])
}
