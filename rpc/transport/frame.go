package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("transport")

const (
	// MaxFrameSize is the largest payload that fits the 2-byte length prefix
	MaxFrameSize = 1<<16 - 1
	frameHeader  = 2
)

// ErrFrameTooLarge is returned when a payload does not fit into a single frame
var ErrFrameTooLarge = errors.New("payload exceeds maximum frame size")

// --------------------------------------------------------------------------
// Handshake
// --------------------------------------------------------------------------

// WriteHandshake writes a single handshake byte with the number of idle workers.
// Counts above 255 are rejected since they cannot be represented.
func WriteHandshake(w io.Writer, available int) error {
	if available < 0 || available > 255 {
		return fmt.Errorf("handshake value %d out of range", available)
	}
	_, err := w.Write([]byte{byte(available)})
	return err
}

// ReadHandshake reads a single handshake byte
func ReadHandshake(r io.Reader) (int, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return int(b[0]), nil
}

// --------------------------------------------------------------------------
// Frames
// --------------------------------------------------------------------------

// WriteFrame writes a frame with the format:
// - 2 bytes: data length (uint16, big endian)
// - N bytes: data payload
func WriteFrame(w io.Writer, data []byte) error {
	if len(data) > MaxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(data))
	}

	header := make([]byte, frameHeader)
	binary.BigEndian.PutUint16(header, uint16(len(data)))

	b := net.Buffers{header, data}
	_, err := b.WriteTo(w)
	return err
}

// ReadFrame reads a frame using the provided buffer.
// If the buffer is too small, it will allocate a new one for the data.
// The returned slice aliases buf and is only valid until the next call.
//
// io.EOF is returned if the stream ended cleanly before a frame started,
// io.ErrUnexpectedEOF if it ended in the middle of a frame.
func ReadFrame(r io.Reader, buf []byte) ([]byte, error) {
	var header [frameHeader]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	contentLength := int(binary.BigEndian.Uint16(header[:]))
	if contentLength == 0 {
		return []byte{}, nil
	}

	if len(buf) < contentLength {
		buf = make([]byte, contentLength)
	}

	if _, err := io.ReadFull(r, buf[:contentLength]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf[:contentLength], nil
}
