// Package eventstream encodes and decodes the binary event-stream frame
// format: a length-prefixed, CRC-checked envelope carrying a set of typed
// headers and an opaque payload.
//
// This codec is deliberately minimal stdlib-only binary framing: no example
// in the retrieval pack ships an event-stream implementation to generalize
// from, so the frame layout here is grounded directly on the AWS
// event-stream wire format rather than adapted from an existing Go file.
package eventstream

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
)

// HeaderValueType enumerates the wire type tag of a header value.
type HeaderValueType uint8

// Header value types.
const (
	HeaderTypeBool HeaderValueType = iota
	HeaderTypeByte
	HeaderTypeInt16
	HeaderTypeInt32
	HeaderTypeInt64
	HeaderTypeByteArray
	HeaderTypeString
	HeaderTypeTimestamp
	HeaderTypeUUID
)

// Header is a single modeled or reserved event-stream header.
type Header struct {
	Name  string
	Type  HeaderValueType
	Value []byte
}

// Message is a decoded event-stream frame: its headers (including the
// reserved :message-type/:event-type/:exception-type/:content-type headers)
// and its payload.
type Message struct {
	Headers []Header
	Payload []byte
}

// Header returns the first header matching name, if present.
func (m *Message) Header(name string) (Header, bool) {
	for _, h := range m.Headers {
		if h.Name == name {
			return h, true
		}
	}
	return Header{}, false
}

const (
	preludeLen    = 8  // total length (4) + headers length (4)
	preludeCRCLen = 4
	messageCRCLen = 4
)

// EncodeHeaders returns the wire encoding of headers alone, with no prelude,
// payload, or CRC. The event-stream signer hashes this encoding directly, as
// part of each frame's string-to-sign, before the frame carrying the same
// headers is ever assembled by Encode.
func EncodeHeaders(headers []Header) ([]byte, error) {
	var buf bytes.Buffer
	for _, h := range headers {
		if err := encodeHeader(&buf, h); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// Encode writes m as a single length-prefixed, CRC-32-checked event-stream
// frame to w.
func Encode(w io.Writer, m *Message) error {
	headerBytes, err := EncodeHeaders(m.Headers)
	if err != nil {
		return err
	}
	var headerBuf bytes.Buffer
	headerBuf.Write(headerBytes)

	totalLen := uint32(preludeLen + preludeCRCLen + headerBuf.Len() + len(m.Payload) + messageCRCLen)

	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, totalLen)
	binary.Write(&buf, binary.BigEndian, uint32(headerBuf.Len()))

	preludeCRC := crc32.ChecksumIEEE(buf.Bytes())
	binary.Write(&buf, binary.BigEndian, preludeCRC)

	buf.Write(headerBuf.Bytes())
	buf.Write(m.Payload)

	messageCRC := crc32.ChecksumIEEE(buf.Bytes())
	binary.Write(&buf, binary.BigEndian, messageCRC)

	_, err = w.Write(buf.Bytes())
	return err
}

func encodeHeader(buf *bytes.Buffer, h Header) error {
	if len(h.Name) > 255 {
		return fmt.Errorf("eventstream: header name %q exceeds 255 bytes", h.Name)
	}
	buf.WriteByte(byte(len(h.Name)))
	buf.WriteString(h.Name)
	buf.WriteByte(byte(h.Type))

	switch h.Type {
	case HeaderTypeBool:
		// no value bytes; the type tag alone carries true/false
	case HeaderTypeByte:
		buf.WriteByte(h.Value[0])
	case HeaderTypeInt16, HeaderTypeInt32, HeaderTypeInt64:
		buf.Write(h.Value)
	case HeaderTypeByteArray, HeaderTypeUUID:
		binary.Write(buf, binary.BigEndian, uint16(len(h.Value)))
		buf.Write(h.Value)
	case HeaderTypeString:
		binary.Write(buf, binary.BigEndian, uint16(len(h.Value)))
		buf.Write(h.Value)
	case HeaderTypeTimestamp:
		buf.Write(h.Value)
	default:
		return fmt.Errorf("eventstream: unsupported header type %d", h.Type)
	}
	return nil
}

// Decode reads a single event-stream frame from r, validating both CRC
// checksums.
func Decode(r io.Reader) (*Message, error) {
	prelude := make([]byte, preludeLen+preludeCRCLen)
	if _, err := io.ReadFull(r, prelude); err != nil {
		return nil, err
	}

	totalLen := binary.BigEndian.Uint32(prelude[0:4])
	headersLen := binary.BigEndian.Uint32(prelude[4:8])
	wantPreludeCRC := binary.BigEndian.Uint32(prelude[8:12])

	if gotCRC := crc32.ChecksumIEEE(prelude[:preludeLen]); gotCRC != wantPreludeCRC {
		return nil, fmt.Errorf("eventstream: prelude checksum mismatch")
	}

	if totalLen < uint32(preludeLen+preludeCRCLen+messageCRCLen) {
		return nil, fmt.Errorf("eventstream: invalid total length %d", totalLen)
	}

	rest := make([]byte, totalLen-uint32(preludeLen+preludeCRCLen))
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, err
	}

	messageCRC := binary.BigEndian.Uint32(rest[len(rest)-messageCRCLen:])
	body := rest[:len(rest)-messageCRCLen]

	full := append(append([]byte{}, prelude[:preludeLen]...), body...)
	if gotCRC := crc32.ChecksumIEEE(full); gotCRC != messageCRC {
		return nil, fmt.Errorf("eventstream: message checksum mismatch")
	}

	headerBytes := body[:headersLen]
	payload := body[headersLen:]

	headers, err := decodeHeaders(headerBytes)
	if err != nil {
		return nil, err
	}

	return &Message{Headers: headers, Payload: payload}, nil
}

func decodeHeaders(b []byte) ([]Header, error) {
	var out []Header
	for len(b) > 0 {
		nameLen := int(b[0])
		b = b[1:]
		if len(b) < nameLen+1 {
			return nil, fmt.Errorf("eventstream: truncated header")
		}
		name := string(b[:nameLen])
		b = b[nameLen:]
		typ := HeaderValueType(b[0])
		b = b[1:]

		var value []byte
		switch typ {
		case HeaderTypeBool:
			value = nil
		case HeaderTypeByte:
			value = b[:1]
			b = b[1:]
		case HeaderTypeInt16:
			value = b[:2]
			b = b[2:]
		case HeaderTypeInt32:
			value = b[:4]
			b = b[4:]
		case HeaderTypeInt64, HeaderTypeTimestamp:
			value = b[:8]
			b = b[8:]
		case HeaderTypeByteArray, HeaderTypeString, HeaderTypeUUID:
			n := int(binary.BigEndian.Uint16(b[:2]))
			b = b[2:]
			value = b[:n]
			b = b[n:]
		default:
			return nil, fmt.Errorf("eventstream: unsupported header type %d", typ)
		}

		out = append(out, Header{Name: name, Type: typ, Value: value})
	}
	return out, nil
}
