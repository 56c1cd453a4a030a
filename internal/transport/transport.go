package transport

import (
	"errors"
	"fmt"
	"log"
	"net"
	"sync/atomic"
	"time"

	"github.com/hypebeast/go-osc/osc"
	"golang.org/x/time/rate"
)

// ErrNotReady is returned when a send is attempted before Start or after
// Shutdown. The message is dropped, never queued.
var ErrNotReady = errors.New("UDP transport not ready")

// PacketHandler receives OSC messages decoded from inbound datagrams.
type PacketHandler func(msg *osc.Message)

// Transport owns the single UDP socket used to send encoded OSC packets to
// the configured destination. The same socket also receives inbound OSC
// traffic for diagnostics; that path has no effect on outbound behavior.
type Transport struct {
	conn    *net.UDPConn
	dest    *net.UDPAddr
	ready   atomic.Bool
	done    chan struct{}
	failLog *rate.Limiter
	handler PacketHandler
}

// New binds the local UDP socket and resolves the destination. A bind
// failure here is fatal to the relay; there is no retry.
func New(localPort int, destHost string, destPort int) (*Transport, error) {
	laddr, err := net.ResolveUDPAddr("udp", fmt.Sprintf(":%d", localPort))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve local UDP address: %w", err)
	}

	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind UDP socket on port %d: %w", localPort, err)
	}

	dest, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", destHost, destPort))
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to resolve destination %s:%d: %w", destHost, destPort, err)
	}

	return &Transport{
		conn: conn,
		dest: dest,
		done: make(chan struct{}),
		// repeated send failures (engine down, cable pulled) would
		// otherwise flood the log at control-gesture rates
		failLog: rate.NewLimiter(rate.Every(time.Second), 5),
	}, nil
}

// OnPacket registers the handler for decoded inbound messages.
// Must be called before Start.
func (t *Transport) OnPacket(h PacketHandler) {
	t.handler = h
}

// Start marks the transport ready and begins reading inbound datagrams.
func (t *Transport) Start() {
	t.ready.Store(true)
	go t.readLoop()
	log.Printf("UDP transport listening on %s, sending to %s", t.conn.LocalAddr(), t.dest)
}

// Send encodes the OSC message and submits it as a single datagram to the
// configured destination. Fire-and-forget: failures are logged with a
// diagnosis category and never retried or surfaced to the originating
// WebSocket client.
func (t *Transport) Send(msg *osc.Message) error {
	if !t.ready.Load() {
		log.Printf("Warning: transport not ready, dropping %s", msg.Address)
		return ErrNotReady
	}

	data, err := msg.MarshalBinary()
	if err != nil {
		// should not occur: the translator's type mapping is total
		log.Printf("Failed to encode OSC message %s %v: %v", msg.Address, msg.Arguments, err)
		return fmt.Errorf("failed to encode OSC message: %w", err)
	}

	if _, err := t.conn.WriteToUDP(data, t.dest); err != nil {
		if t.failLog.Allow() {
			cat := Diagnose(err)
			log.Printf("UDP send to %s failed (%s): %v", t.dest, cat, err)
			log.Printf("Hint: %s", cat.Remedy())
		}
		return fmt.Errorf("failed to send OSC message: %w", err)
	}

	log.Printf("Sent %s %v", msg.Address, msg.Arguments)
	return nil
}

// SelfTest sends one test OSC message to the destination to surface
// connectivity problems early. Pure diagnostic; a failure here does not
// stop the relay from serving subsequent traffic.
func (t *Transport) SelfTest() {
	msg := osc.NewMessage("/test")
	msg.Append("oscbridge startup self-test")
	msg.Append(float32(1))

	if err := t.Send(msg); err != nil {
		log.Printf("Startup self-test failed (relay continues): %v", err)
		return
	}
	log.Printf("Startup self-test sent to %s", t.dest)
}

// readLoop reads inbound datagrams and opportunistically decodes them as OSC.
func (t *Transport) readLoop() {
	buffer := make([]byte, 4096)

	for {
		n, addr, err := t.conn.ReadFromUDP(buffer)
		if err != nil {
			select {
			case <-t.done:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Printf("Error reading UDP datagram: %v", err)
			continue
		}

		t.handleDatagram(buffer[:n], addr)
	}
}

// handleDatagram decodes one inbound datagram. Decode failure falls back to
// logging the raw bytes.
func (t *Transport) handleDatagram(data []byte, addr *net.UDPAddr) {
	packet, err := osc.ParsePacket(string(data))
	if err != nil {
		log.Printf("Undecodable datagram from %s: %q", addr, data)
		return
	}

	switch p := packet.(type) {
	case *osc.Message:
		t.dispatch(p, addr)
	case *osc.Bundle:
		for _, m := range p.Messages {
			t.dispatch(m, addr)
		}
	default:
		log.Printf("Unknown OSC packet type from %s", addr)
	}
}

func (t *Transport) dispatch(msg *osc.Message, addr *net.UDPAddr) {
	log.Printf("Received OSC from %s: %s %v", addr, msg.Address, msg.Arguments)
	if t.handler != nil {
		t.handler(msg)
	}
}

// LocalAddr returns the bound local address.
func (t *Transport) LocalAddr() *net.UDPAddr {
	return t.conn.LocalAddr().(*net.UDPAddr)
}

// Dest returns the configured destination address.
func (t *Transport) Dest() *net.UDPAddr {
	return t.dest
}

// Shutdown gates further sends and closes the socket.
func (t *Transport) Shutdown() error {
	t.ready.Store(false)
	close(t.done)
	return t.conn.Close()
}
