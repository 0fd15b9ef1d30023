package system

import (
	"bytes"
	"testing"
)

func TestBufferPoolReset(t *testing.T) {
	buf := GetBuffer()
	buf.WriteString("frame data")
	PutBuffer(buf)

	again := GetBuffer()
	if again.Len() != 0 {
		t.Errorf("pooled buffer not reset: %q", again.String())
	}
	PutBuffer(again)
}

func TestPutBufferDropsOversized(t *testing.T) {
	PutBuffer(nil)
	PutBuffer(bytes.NewBuffer(make([]byte, 0, maxPooledBuffer+1)))
}
