package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/hypebeast/go-osc/osc"
)

// Stand-alone OSC listener for debugging what the visuals engine would
// receive. Point the relay's OSC_DEST_PORT here and watch the traffic.
func main() {
	port := flag.Int("port", 7000, "UDP port to listen on for OSC messages")
	flag.Parse()

	addr := fmt.Sprintf("0.0.0.0:%d", *port)

	dispatcher := osc.NewStandardDispatcher()
	dispatcher.AddMsgHandler("*", func(msg *osc.Message) {
		fmt.Printf("Received OSC message: %s %v\n", msg.Address, msg.Arguments)
	})

	server := &osc.Server{
		Addr:       addr,
		Dispatcher: dispatcher,
	}

	fmt.Printf("Listening for OSC messages on %s (UDP)...\n", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Failed to start OSC server: %v", err)
	}
}
