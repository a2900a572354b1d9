package wire_test

import (
	"bytes"
	"io"
	"net"
	"testing"
	"testing/iotest"
	"time"

	"github.com/clemson-cal/gridiron-go/wire"
)

func TestReadExactPartialReads(t *testing.T) {
	src := iotest.OneByteReader(bytes.NewReader([]byte{1, 2, 3, 4, 5, 6, 7, 8}))
	buf := make([]byte, 8)
	if err := wire.ReadExact(src, buf); err != nil {
		t.Fatalf("ReadExact: %v", err)
	}
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if !bytes.Equal(buf, want) {
		t.Fatalf("got %v want %v", buf, want)
	}
}

func TestReadExactShortRead(t *testing.T) {
	r, w := io.Pipe()
	go func() {
		w.Write([]byte{1, 2, 3})
		time.Sleep(time.Millisecond)
		w.Write([]byte{4, 5, 6, 7, 8})
		w.Close()
	}()
	buf := make([]byte, 8)
	if err := wire.ReadExact(r, buf); err != nil {
		t.Fatalf("ReadExact: %v", err)
	}
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if !bytes.Equal(buf, want) {
		t.Fatalf("got %v want %v", buf, want)
	}
}

func TestWriteReadUint64RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := wire.WriteUint64(&buf, 0xdeadbeefcafebabe); err != nil {
		t.Fatalf("WriteUint64: %v", err)
	}
	got, err := wire.ReadUint64(&buf)
	if err != nil {
		t.Fatalf("ReadUint64: %v", err)
	}
	if got != 0xdeadbeefcafebabe {
		t.Fatalf("got %x want %x", got, uint64(0xdeadbeefcafebabe))
	}
}

func TestReadUint64NBAbsent(t *testing.T) {
	srv, cli := net.Pipe()
	defer srv.Close()
	defer cli.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, ok, err := wire.ReadUint64NB(srv, 10*time.Millisecond)
		if err != nil {
			t.Errorf("ReadUint64NB: %v", err)
		}
		if ok {
			t.Errorf("expected absent, got a value")
		}
	}()
	<-done
}

func TestReadUint64NBPresent(t *testing.T) {
	srv, cli := net.Pipe()
	defer srv.Close()
	defer cli.Close()

	go wire.WriteUint64(cli, 42)

	val, ok, err := wire.ReadUint64NB(srv, 200*time.Millisecond)
	if err != nil {
		t.Fatalf("ReadUint64NB: %v", err)
	}
	if !ok {
		t.Fatalf("expected a value")
	}
	if val != 42 {
		t.Fatalf("got %d want 42", val)
	}
}
