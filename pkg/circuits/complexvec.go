package circuits

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// ComplexVector is a slice of complex numbers encoded as [real, imag]
// pairs in both JSON and msgpack.
type ComplexVector []complex128

func (v ComplexVector) MarshalJSON() ([]byte, error) {
	pairs := make([][2]float64, len(v))
	for i, c := range v {
		pairs[i] = [2]float64{real(c), imag(c)}
	}
	return json.Marshal(pairs)
}

func (v *ComplexVector) UnmarshalJSON(data []byte) error {
	var pairs [][2]float64
	if err := json.Unmarshal(data, &pairs); err != nil {
		return err
	}
	out := make(ComplexVector, len(pairs))
	for i, p := range pairs {
		out[i] = complex(p[0], p[1])
	}
	*v = out
	return nil
}

func (v ComplexVector) EncodeMsgpack(enc *msgpack.Encoder) error {
	pairs := make([][2]float64, len(v))
	for i, c := range v {
		pairs[i] = [2]float64{real(c), imag(c)}
	}
	return enc.Encode(pairs)
}

func (v *ComplexVector) DecodeMsgpack(dec *msgpack.Decoder) error {
	var pairs [][2]float64
	if err := dec.Decode(&pairs); err != nil {
		return err
	}
	out := make(ComplexVector, len(pairs))
	for i, p := range pairs {
		out[i] = complex(p[0], p[1])
	}
	*v = out
	return nil
}

// ComplexMatrix is a dense row-major complex matrix with the same pair
// encoding as ComplexVector.
type ComplexMatrix []ComplexVector

func (m ComplexMatrix) MarshalJSON() ([]byte, error) {
	rows := make([]ComplexVector, len(m))
	copy(rows, m)
	return json.Marshal(rows)
}

func (m *ComplexMatrix) UnmarshalJSON(data []byte) error {
	var rows []ComplexVector
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	*m = rows
	return nil
}

func (m ComplexMatrix) EncodeMsgpack(enc *msgpack.Encoder) error {
	rows := make([]ComplexVector, len(m))
	copy(rows, m)
	return enc.Encode(rows)
}

func (m *ComplexMatrix) DecodeMsgpack(dec *msgpack.Decoder) error {
	var rows []ComplexVector
	if err := dec.Decode(&rows); err != nil {
		return err
	}
	*m = rows
	return nil
}
