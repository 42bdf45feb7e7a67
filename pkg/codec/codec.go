package codec

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Encoder writes msgpack values to an underlying writer, one after another.
type Encoder struct {
	enc *msgpack.Encoder
}

// NewEncoder returns an Encoder writing to w. Map keys are sorted so the
// same value always encodes to the same bytes.
func NewEncoder(w io.Writer) *Encoder {
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)
	return &Encoder{enc: enc}
}

// Encode appends a single value to the stream.
func (e *Encoder) Encode(v any) error {
	return e.enc.Encode(v)
}

// Decoder reads concatenated msgpack values from an underlying reader.
type Decoder struct {
	dec *msgpack.Decoder
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	dec := msgpack.NewDecoder(r)
	dec.UseLooseInterfaceDecoding(true)
	return &Decoder{dec: dec}
}

// Next decodes the next value in the stream. It returns io.EOF once the
// stream is cleanly exhausted; any other error means the remaining bytes
// are not a valid msgpack value.
func (d *Decoder) Next() (any, error) {
	return d.dec.DecodeInterface()
}

// NextDict decodes the next value and requires it to be a string-keyed map.
func (d *Decoder) NextDict() (map[string]any, error) {
	v, err := d.dec.DecodeInterface()
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("codec: expected map, got %T", v)
	}
	return m, nil
}

// Marshal encodes a single value to bytes.
func Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Unmarshal decodes a single value from bytes into out.
func Unmarshal(b []byte, out any) error {
	return msgpack.Unmarshal(b, out)
}
