package tcp_test

import (
	"testing"
	"time"

	"github.com/clemson-cal/gridiron-go/comm/tcp"
)

// Two peers exchange one framed record per direction and confirm the
// record's tag and payload survive the round trip, per the wire format in
// the external interfaces section: len|tag|body, one connection per
// direction, opened lazily on first send.
func TestTwoPeerSendRecv(t *testing.T) {
	peers := []string{"127.0.0.1:19871", "127.0.0.1:19872"}

	c0, err := tcp.New(0, peers, tcp.OnePerDest)
	if err != nil {
		t.Fatalf("New(0): %v", err)
	}
	defer c0.Close()

	c1, err := tcp.New(1, peers, tcp.OnePerDest)
	if err != nil {
		t.Fatalf("New(1): %v", err)
	}
	defer c1.Close()

	c0.Send(1, []byte("hello from 0"))
	c1.Send(0, []byte("hello from 1"))

	done := make(chan struct{}, 2)
	go func() {
		got := c1.Recv()
		if string(got) != "hello from 0" {
			t.Errorf("peer 1 got %q", got)
		}
		done <- struct{}{}
	}()
	go func() {
		got := c0.Recv()
		if string(got) != "hello from 1" {
			t.Errorf("peer 0 got %q", got)
		}
		done <- struct{}{}
	}()

	timeout := time.After(5 * time.Second)
	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-timeout:
			t.Fatal("timed out waiting for delivery")
		}
	}
}

func TestStampIsolation(t *testing.T) {
	peers := []string{"127.0.0.1:19873", "127.0.0.1:19874"}

	c0, err := tcp.New(0, peers, tcp.SingleSender)
	if err != nil {
		t.Fatalf("New(0): %v", err)
	}
	defer c0.Close()

	c1, err := tcp.New(1, peers, tcp.SingleSender)
	if err != nil {
		t.Fatalf("New(1): %v", err)
	}
	defer c1.Close()

	// Stage 1 message.
	c0.Send(1, []byte("stage-1"))
	if got := string(c1.Recv()); got != "stage-1" {
		t.Fatalf("stage 1: got %q", got)
	}
	c0.NextTimeStamp()
	c1.NextTimeStamp()

	// Stage-2 message: both peers have advanced, and peer 1's Recv is
	// already waiting when the message is sent; it must return the record
	// tagged with the now-current stamp.
	done := make(chan string, 1)
	go func() { done <- string(c1.Recv()) }()

	c0.Send(1, []byte("stage-2"))

	select {
	case got := <-done:
		if got != "stage-2" {
			t.Fatalf("stage 2: got %q", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for stage-2 delivery")
	}
}
