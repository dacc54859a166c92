package events

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/procurement-app/models"
)

// Event types pushed to the ops board
const (
	EventRequestSubmitted  = "request_submitted"
	EventWorksheetUpdated  = "worksheet_updated"
	EventPurchaseFinalized = "purchase_finalized"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds the connected ops board clients and fans events out to them.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastRequestSubmitted tells the ops board a branch submitted its draft.
func BroadcastRequestSubmitted(req models.WeeklyRequest) {
	broadcast(Message{
		Event: EventRequestSubmitted,
		Data:  req,
	})
}

// BroadcastWorksheetUpdated pushes the adjusted line items of a request.
func BroadcastWorksheetUpdated(requestID uint, items []models.WeeklyRequestItem) {
	broadcast(Message{
		Event: EventWorksheetUpdated,
		Data: map[string]interface{}{
			"request_id": requestID,
			"items":      items,
		},
	})
}

// BroadcastPurchaseFinalized announces a new purchase log.
func BroadcastPurchaseFinalized(purchaseLog models.PurchaseLog) {
	broadcast(Message{
		Event: EventPurchaseFinalized,
		Data:  purchaseLog,
	})
}

func broadcast(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("events: marshal broadcast: %v", err)
		return
	}

	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("events: write to client: %v", err)
			delete(hub.clients, conn)
			conn.Close()
		}
	}
}
