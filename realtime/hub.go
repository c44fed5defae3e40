package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/ozclean/cleaning-app/models"
)

// Event types
const (
	EventBookingInsert   = "booking_insert"
	EventBookingUpdate   = "booking_update"
	EventBookingDelete   = "booking_delete"
	EventEnquiryNew      = "enquiry_new"
	EventStaffNotif      = "staff_notification"
	EventDashboardUpdate = "dashboard_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	Role   string
	UserID uint
}

// Hub tracks every connected dashboard client (customer, staff, admin).
// Staff clients only receive booking events for bookings assigned to them.
type Hub struct {
	clients map[*websocket.Conn]client
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]client),
}

// RegisterClient adds a connection with its role and user id.
func RegisterClient(conn *websocket.Conn, role string, userID uint) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = client{Role: role, UserID: userID}
}

// UnregisterClient drops a connection.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastBookingInsert announces a newly visible booking. Staff clients
// use insert events to show a one-time toast before re-fetching.
func BroadcastBookingInsert(booking models.Booking) {
	broadcastBooking(Message{Event: EventBookingInsert, Data: booking}, booking)
}

// BroadcastBookingUpdate announces a changed booking.
func BroadcastBookingUpdate(booking models.Booking) {
	broadcastBooking(Message{Event: EventBookingUpdate, Data: booking}, booking)
}

// BroadcastBookingDelete announces a removed booking.
func BroadcastBookingDelete(booking models.Booking) {
	broadcastBooking(Message{Event: EventBookingDelete, Data: booking}, booking)
}

// BroadcastEnquiryNew announces a new enquiry to admin clients.
func BroadcastEnquiryNew(enquiry models.Enquiry) {
	broadcast(Message{Event: EventEnquiryNew, Data: enquiry}, func(c client) bool {
		return c.Role == models.RoleAdmin
	})
}

// BroadcastStaffNotification sends a text notification to one staff client.
func BroadcastStaffNotification(staffID uint, text string) {
	broadcast(Message{Event: EventStaffNotif, Data: text}, func(c client) bool {
		return c.Role == models.RoleStaff && c.UserID == staffID
	})
}

// BroadcastDashboardUpdate pushes refreshed stats to admin clients.
func BroadcastDashboardUpdate(data interface{}) {
	broadcast(Message{Event: EventDashboardUpdate, Data: data}, func(c client) bool {
		return c.Role == models.RoleAdmin
	})
}

// broadcastBooking routes a booking event to admins, to the assigned staff
// member and to the owning customer.
func broadcastBooking(msg Message, booking models.Booking) {
	broadcast(msg, func(c client) bool {
		switch c.Role {
		case models.RoleAdmin:
			return true
		case models.RoleStaff:
			return booking.StaffID != nil && *booking.StaffID == c.UserID
		case models.RoleCustomer:
			return booking.CustomerID != nil && *booking.CustomerID == c.UserID
		}
		return false
	})
}

func broadcast(msg Message, match func(client) bool) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	for conn, cl := range hub.clients {
		if !match(cl) {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending %s to %s client: %v", msg.Event, cl.Role, err)
		}
	}
}
