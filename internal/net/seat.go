package net

import (
	"encoding/json"
	"fmt"
	"net"
	"sync"
)

// Seat receives everything the session publishes for one player or spectator.
type Seat interface {
	Send(msg ServerMessage) error
}

// NetworkSeat is a Seat backed by a JSON stream over a connection.
type NetworkSeat struct {
	conn net.Conn
	enc  *json.Encoder
	dec  *json.Decoder
	mu   sync.Mutex // guards enc
}

// NewNetworkSeat creates a seat for the given connection.
func NewNetworkSeat(conn net.Conn) *NetworkSeat {
	return &NetworkSeat{
		conn: conn,
		enc:  json.NewEncoder(conn),
		dec:  json.NewDecoder(conn),
	}
}

// Send implements Seat.
func (ns *NetworkSeat) Send(msg ServerMessage) error {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	if err := ns.enc.Encode(msg); err != nil {
		return fmt.Errorf("send %s: %w", msg.Type, err)
	}
	return nil
}

// Recv reads the next client message. Only one goroutine may call it.
func (ns *NetworkSeat) Recv() (ClientMessage, error) {
	var msg ClientMessage
	err := ns.dec.Decode(&msg)
	return msg, err
}

// Close closes the underlying connection.
func (ns *NetworkSeat) Close() error {
	return ns.conn.Close()
}

// Handshake reads the joiner's "join" message.
func (ns *NetworkSeat) Handshake() (ClientMessage, error) {
	msg, err := ns.Recv()
	if err != nil {
		return msg, fmt.Errorf("read join message: %w", err)
	}
	if msg.Type != MsgJoin {
		return msg, fmt.Errorf("expected join message, got %q", msg.Type)
	}
	return msg, nil
}
