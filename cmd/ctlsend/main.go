package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gorilla/websocket"
)

// ctlsend = test client that speaks the control panel's wire protocol:
// it sends control messages to the relay and prints whatever comes back.
func main() {
	host := flag.String("host", "localhost", "relay host")
	port := flag.Int("port", 8080, "relay WebSocket port")
	address := flag.String("address", "", "OSC address to send once (e.g. /pre/tint); empty for interactive mode")
	args := flag.String("args", "", "comma separated arguments for -address (numbers, booleans or strings)")
	flag.Parse()

	u := url.URL{
		Scheme: "ws",
		Host:   fmt.Sprintf("%s:%d", *host, *port),
		Path:   "/ws",
	}

	fmt.Printf("\n🔌 Connecting to relay at %s...\n", u.String())
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("connection failed: %v", err)
	}
	defer conn.Close()

	// Goroutine to receive status and relayed OSC frames
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg map[string]any
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			printFrame(msg)
		}
	}()

	// One-shot mode
	if *address != "" {
		if err := sendControl(conn, *address, parseArgs(*args)); err != nil {
			log.Fatalf("send failed: %v", err)
		}
		color.Green("✅ sent %s [%s]", *address, *args)
		// give the relay a moment to echo anything back
		time.Sleep(500 * time.Millisecond)
		return
	}

	color.Cyan("✅ Connected! Type \"<address> <arg> <arg> ...\" (or /quit to exit)\n")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	// Goroutine to send messages from stdin
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "/quit" {
				interrupt <- os.Interrupt
				return
			}

			fields := strings.Fields(line)
			if err := sendControl(conn, fields[0], parseFields(fields[1:])); err != nil {
				log.Println("Write error:", err)
				return
			}
		}
	}()

	select {
	case <-interrupt:
		log.Println("Closing connection...")
	case <-done:
		log.Println("Connection closed by relay")
	}
}

// sendControl writes one control message frame.
func sendControl(conn *websocket.Conn, address string, args []any) error {
	return conn.WriteJSON(map[string]any{
		"address": address,
		"args":    args,
	})
}

// parseArgs splits a comma separated argument list.
func parseArgs(s string) []any {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parseFields(parts)
}

// parseFields types each argument: number, then boolean, then string.
func parseFields(fields []string) []any {
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		if n, err := strconv.ParseFloat(f, 64); err == nil {
			args = append(args, n)
			continue
		}
		if b, err := strconv.ParseBool(f); err == nil {
			args = append(args, b)
			continue
		}
		args = append(args, f)
	}
	return args
}

// printFrame pretty prints a frame from the relay.
func printFrame(msg map[string]any) {
	switch msg["type"] {
	case "status":
		color.Cyan("🛰  %v (OSC -> %v:%v)", msg["message"], msg["destinationHost"], msg["destinationPort"])
	case "osc":
		color.Yellow("🎛  %v %v", msg["address"], msg["args"])
	default:
		fmt.Printf("%v\n", msg)
	}
}
