package relay

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hypebeast/go-osc/osc"

	"oscbridge/internal/config"
	"oscbridge/internal/gateway"
	"oscbridge/internal/translate"
	"oscbridge/internal/transport"
)

// Relay wires Gateway -> Translator -> Transport. One relay per process;
// configuration is immutable after New.
type Relay struct {
	cfg  *config.Config
	tr   *transport.Transport
	gw   *gateway.Gateway
	errs chan error
}

// New binds the UDP socket and builds the gateway. A UDP bind failure is
// returned as-is: the relay cannot fulfill its purpose without the socket.
func New(cfg *config.Config) (*Relay, error) {
	tr, err := transport.New(cfg.LocalPort, cfg.DestHost, cfg.DestPort)
	if err != nil {
		return nil, err
	}

	r := &Relay{
		cfg:  cfg,
		tr:   tr,
		errs: make(chan error, 1),
	}
	r.gw = gateway.New(cfg.WSPort, cfg.DestHost, cfg.DestPort, r.forward)

	// reverse path: OSC received from the engine is relayed to all
	// connected panels as diagnostic frames
	tr.OnPacket(func(msg *osc.Message) {
		if data, err := gateway.NewOSCEvent(msg).ToJSON(); err == nil {
			r.gw.Broadcast(data)
		}
	})

	return r, nil
}

// forward is the per-message pipeline: validate, convert, send. Every
// failure is contained here and logged; nothing propagates back to the
// originating session.
func (r *Relay) forward(payload []byte) {
	msg, err := translate.Translate(payload)
	if err != nil {
		log.Printf("Dropping control message: %v", err)
		return
	}

	// send failures are logged by the transport with a diagnosis category
	_ = r.tr.Send(msg)
}

// Start binds the gateway port, starts the transport and begins serving.
// It returns immediately; use Wait to block until termination.
func (r *Relay) Start() error {
	if err := r.gw.Listen(); err != nil {
		return err
	}

	r.tr.Start()
	r.tr.SelfTest()

	go func() {
		if err := r.gw.Serve(); err != nil {
			r.errs <- err
		}
	}()

	return nil
}

// Wait blocks until a termination signal arrives or a component fails.
func (r *Relay) Wait() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Printf("Received %s, shutting down relay...", sig)
		return nil
	case err := <-r.errs:
		return err
	}
}

// Shutdown closes the gateway first (existing sessions are dropped, new
// ones refused), then the UDP socket.
func (r *Relay) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.gw.Shutdown(ctx); err != nil {
		log.Printf("Gateway shutdown error: %v", err)
	}
	return r.tr.Shutdown()
}

// Run starts the relay and blocks until shutdown completes.
func (r *Relay) Run() error {
	if err := r.Start(); err != nil {
		return err
	}

	err := r.Wait()
	if serr := r.Shutdown(); serr != nil {
		log.Printf("Shutdown error: %v", serr)
	}
	return err
}

// Gateway exposes the gateway, mainly for tests.
func (r *Relay) Gateway() *gateway.Gateway {
	return r.gw
}

// Transport exposes the transport, mainly for tests.
func (r *Relay) Transport() *transport.Transport {
	return r.tr
}
