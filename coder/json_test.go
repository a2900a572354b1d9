package coder_test

import (
	"testing"

	"github.com/clemson-cal/gridiron-go/coder"
)

func TestJSONRoundTrip(t *testing.T) {
	c := coder.JSON[int64, string]{}
	p := coder.Pair[int64, string]{Key: 7, Msg: "hello"}

	data, err := c.Encode(p)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := c.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != p {
		t.Fatalf("got %+v want %+v", got, p)
	}
}

func TestNullCoderPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Null.Encode to panic")
		}
	}()
	coder.Null[int64, string]{}.Encode(coder.Pair[int64, string]{})
}
