package huffman

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Compressed blob layout:
//
//	HEADER_SIZE  u16 LE   total header length, including these 2 bytes
//	NSYM-1       u8       number of table entries minus one
//	ORIG_LEN     u32 LE   original message length in bytes
//	entries, ascending by symbol:
//	  SYMBOL     u8
//	  BITS       u8       code bit length
//	  VALUE      ceil(BITS/8) bytes, LE
//	PAYLOAD               concatenated codes, MSB-first within each byte
//
// The payload's final byte is zero-padded; the decoder stops after ORIG_LEN
// symbols and ignores the pad bits.
const (
	fixedHeaderLen = 2 + 1 + 4
	minBlobLen     = 6
)

var (
	ErrBlobTooShort  = errors.New("huffman: blob too short")
	ErrCorruptHeader = errors.New("huffman: corrupt header")
	ErrUndecodable   = errors.New("huffman: undecodable bitstream")
	ErrEmptyMessage  = errors.New("huffman: empty message")
	ErrNoCode        = errors.New("huffman: symbol has no code")
)

// Encode compresses msg using a code table built from weights. Weights must
// be positive for every symbol occurring in msg.
func Encode(msg []byte, weights map[byte]float64) ([]byte, error) {
	if len(msg) == 0 {
		return nil, ErrEmptyMessage
	}
	table, err := NewTable(weights)
	if err != nil {
		return nil, err
	}
	return EncodeWithTable(msg, table)
}

// EncodeWithTable compresses msg with an existing code table.
func EncodeWithTable(msg []byte, table Table) ([]byte, error) {
	if len(msg) == 0 {
		return nil, ErrEmptyMessage
	}
	header := marshalHeader(table, uint32(len(msg)))

	var bw bitWriter
	for i, s := range msg {
		c, ok := table[s]
		if !ok {
			return nil, fmt.Errorf("%w: 0x%02x at offset %d", ErrNoCode, s, i)
		}
		bw.writeCode(c)
	}
	return append(header, bw.bytes()...), nil
}

// Decode recovers the original message from a compressed blob.
func Decode(blob []byte) ([]byte, error) {
	table, origLen, payload, err := parseHeader(blob)
	if err != nil {
		return nil, err
	}
	if origLen == 0 {
		return []byte{}, nil
	}

	// Degenerate table: one symbol with a code of at most one bit. The
	// message is the symbol repeated; no bitstream walk is needed.
	if len(table) == 1 {
		for s, c := range table {
			if c.Bits <= 1 {
				out := make([]byte, origLen)
				for i := range out {
					out[i] = s
				}
				return out, nil
			}
		}
	}

	type key struct {
		bits  uint8
		value uint64
	}
	codes := make(map[key]byte, len(table))
	var maxBits uint8
	for s, c := range table {
		codes[key{c.Bits, c.Value}] = s
		if c.Bits > maxBits {
			maxBits = c.Bits
		}
	}

	out := make([]byte, 0, origLen)
	var acc uint64
	var accBits uint8
	for _, b := range payload {
		for i := 7; i >= 0; i-- {
			acc = acc<<1 | uint64(b>>uint(i)&1)
			accBits++
			if s, ok := codes[key{accBits, acc}]; ok {
				out = append(out, s)
				if uint32(len(out)) == origLen {
					return out, nil
				}
				acc, accBits = 0, 0
			} else if accBits >= maxBits {
				return nil, ErrUndecodable
			}
		}
	}
	// Payload exhausted before the expected symbol count.
	return nil, ErrUndecodable
}

func marshalHeader(table Table, origLen uint32) []byte {
	syms := table.Symbols()
	size := fixedHeaderLen
	for _, s := range syms {
		size += 2 + codeValueLen(table[s].Bits)
	}
	b := make([]byte, 0, size)
	b = binary.LittleEndian.AppendUint16(b, uint16(size))
	b = append(b, byte(len(syms)-1))
	b = binary.LittleEndian.AppendUint32(b, origLen)
	for _, s := range syms {
		c := table[s]
		b = append(b, s, c.Bits)
		var vb [8]byte
		binary.LittleEndian.PutUint64(vb[:], c.Value)
		b = append(b, vb[:codeValueLen(c.Bits)]...)
	}
	return b
}

func parseHeader(blob []byte) (Table, uint32, []byte, error) {
	if len(blob) < minBlobLen {
		return nil, 0, nil, ErrBlobTooShort
	}
	headerSize := int(binary.LittleEndian.Uint16(blob[:2]))
	// The smallest legal header carries one table entry of a <=8-bit code.
	if headerSize < fixedHeaderLen+3 || headerSize > len(blob) {
		return nil, 0, nil, ErrCorruptHeader
	}
	header := blob[2:headerSize]
	payload := blob[headerSize:]

	nsym := int(header[0]) + 1
	origLen := binary.LittleEndian.Uint32(header[1:5])
	table := make(Table, nsym)
	pos := 5
	for i := 0; i < nsym; i++ {
		if pos+2 > len(header) {
			return nil, 0, nil, ErrCorruptHeader
		}
		sym := header[pos]
		bits := header[pos+1]
		pos += 2
		if bits == 0 || bits > 64 {
			return nil, 0, nil, ErrCorruptHeader
		}
		vlen := codeValueLen(bits)
		if pos+vlen > len(header) {
			return nil, 0, nil, ErrCorruptHeader
		}
		var vb [8]byte
		copy(vb[:], header[pos:pos+vlen])
		pos += vlen
		if _, dup := table[sym]; dup {
			return nil, 0, nil, ErrCorruptHeader
		}
		table[sym] = Code{Bits: bits, Value: binary.LittleEndian.Uint64(vb[:])}
	}
	if pos != len(header) {
		return nil, 0, nil, ErrCorruptHeader
	}
	return table, origLen, payload, nil
}

func codeValueLen(bits uint8) int { return (int(bits) + 7) / 8 }

// bitWriter packs codes MSB-first into bytes, zero-padding the final byte.
type bitWriter struct {
	buf  []byte
	cur  byte
	nCur uint8
}

func (w *bitWriter) writeCode(c Code) {
	for i := int(c.Bits) - 1; i >= 0; i-- {
		w.cur = w.cur<<1 | byte(c.Value>>uint(i)&1)
		w.nCur++
		if w.nCur == 8 {
			w.buf = append(w.buf, w.cur)
			w.cur, w.nCur = 0, 0
		}
	}
}

func (w *bitWriter) bytes() []byte {
	if w.nCur > 0 {
		w.buf = append(w.buf, w.cur<<(8-w.nCur))
		w.cur, w.nCur = 0, 0
	}
	return w.buf
}
