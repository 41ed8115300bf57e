package services

import (
	"fmt"

	"github.com/desertthunder/spotconnect/internal/shared"
)

// ResponseBuffer is a bounded [io.Writer] holding one response body.
//
// It keeps one byte of its capacity in reserve, so at most capacity-1 bytes are accepted.
// A write that does not fit is rejected whole with [shared.ErrResponseTooLarge].
type ResponseBuffer struct {
	data     []byte
	capacity int
}

// NewResponseBuffer creates an empty buffer. Capacities below 2 are raised to 2.
func NewResponseBuffer(capacity int) *ResponseBuffer {
	if capacity < 2 {
		capacity = 2
	}
	return &ResponseBuffer{capacity: capacity}
}

// Write appends p, or rejects it when the result would reach the capacity.
func (b *ResponseBuffer) Write(p []byte) (int, error) {
	if len(b.data)+len(p) >= b.capacity {
		return 0, fmt.Errorf("%w: body exceeds %d bytes", shared.ErrResponseTooLarge, b.capacity-1)
	}
	b.data = append(b.data, p...)
	return len(p), nil
}

// Bytes returns the buffered body.
func (b *ResponseBuffer) Bytes() []byte {
	return b.data
}
