// Package rpc broadcasts frequency tables to another process over net/rpc.
package rpc

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"net/rpc"

	"github.com/eventual-recluse/scalespace"
)

// DefaultPort is where Receiver listens and Sender dials when no port is
// given.
const DefaultPort = "31338"

type (
	TableServer struct {
		channel chan scalespace.FrequencyTable
	}

	// Sink is a frequency sink that sends the last table of every block to a
	// Receiver. Sending happens on a separate goroutine; if it cannot keep up,
	// tables are dropped.
	Sink struct {
		table   scalespace.FrequencyTable
		channel chan scalespace.FrequencyTable
		done    chan struct{}
	}
)

func (s *TableServer) Sync(table scalespace.FrequencyTable, reply *int) error {
	select {
	case s.channel <- table:
	default:
	}
	return nil
}

// Receiver listens on addr and returns the channel on which the received
// tables arrive. An addr without a port uses DefaultPort.
func Receiver(addr string) (<-chan scalespace.FrequencyTable, error) {
	l, err := net.Listen("tcp", withPort(addr))
	if err != nil {
		return nil, fmt.Errorf("net.Listen failed: %w", err)
	}
	c, err := Serve(l)
	if err != nil {
		l.Close()
		return nil, err
	}
	return c, nil
}

// Serve serves the table server on l. The returned channel is closed when
// the listener is closed.
func Serve(l net.Listener) (<-chan scalespace.FrequencyTable, error) {
	c := make(chan scalespace.FrequencyTable, 1)
	server := rpc.NewServer()
	if err := server.Register(&TableServer{channel: c}); err != nil {
		return nil, fmt.Errorf("rpc.Register failed: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle(rpc.DefaultRPCPath, server)
	go func() {
		defer close(c)
		http.Serve(l, mux)
	}()
	return c, nil
}

// Sender dials a Receiver at addr. An addr without a port uses DefaultPort.
func Sender(addr string) (*Sink, error) {
	client, err := rpc.DialHTTP("tcp", withPort(addr))
	if err != nil {
		return nil, fmt.Errorf("rpc.DialHTTP failed: %w", err)
	}
	s := &Sink{
		channel: make(chan scalespace.FrequencyTable, 256),
		done:    make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		defer client.Close()
		for table := range s.channel {
			var reply int
			if err := client.Call("TableServer.Sync", table, &reply); err != nil {
				log.Printf("TableServer.Sync error: %v", err)
				return
			}
		}
	}()
	return s, nil
}

func (s *Sink) SetNoteTunings(table *scalespace.FrequencyTable) {
	s.table = *table
}

func (s *Sink) FinishBlock(frames int) {
	select {
	case s.channel <- s.table:
	default:
	}
}

// Close stops the sender after the queued tables have been sent. The sink
// must not be used after Close.
func (s *Sink) Close() {
	close(s.channel)
	<-s.done
}

func withPort(addr string) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return net.JoinHostPort(addr, DefaultPort)
}
