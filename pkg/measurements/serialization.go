package measurements

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

var measurementRegistry = map[string]func() Measure{
	"PauliZProduct":        func() Measure { return &PauliZProduct{} },
	"CheatedPauliZProduct": func() Measure { return &CheatedPauliZProduct{} },
	"Cheated":              func() Measure { return &Cheated{} },
	"ClassicalRegister":    func() Measure { return &ClassicalRegister{} },
}

func newMeasurement(kind string) (Measure, error) {
	ctor, ok := measurementRegistry[kind]
	if !ok {
		return nil, &UnknownMeasurementError{Type: kind}
	}
	return ctor(), nil
}

type jsonEnvelope struct {
	Type        string          `json:"type"`
	Measurement json.RawMessage `json:"measurement"`
}

// MarshalMeasurementJSON wraps a measurement's JSON form in a type
// envelope.
func MarshalMeasurementJSON(m Measure) ([]byte, error) {
	inner, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jsonEnvelope{Type: m.Kind(), Measurement: inner})
}

// UnmarshalMeasurementJSON decodes a type envelope produced by
// MarshalMeasurementJSON.
func UnmarshalMeasurementJSON(data []byte) (Measure, error) {
	var env jsonEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	m, err := newMeasurement(env.Type)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(env.Measurement, m); err != nil {
		return nil, err
	}
	return m, nil
}

type msgpackEnvelope struct {
	Type        string             `msgpack:"type"`
	Measurement msgpack.RawMessage `msgpack:"measurement"`
}

// MarshalMeasurementMsgpack wraps a measurement's msgpack form in a type
// envelope.
func MarshalMeasurementMsgpack(m Measure) ([]byte, error) {
	inner, err := msgpack.Marshal(m)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(msgpackEnvelope{Type: m.Kind(), Measurement: inner})
}

// UnmarshalMeasurementMsgpack decodes a type envelope produced by
// MarshalMeasurementMsgpack.
func UnmarshalMeasurementMsgpack(data []byte) (Measure, error) {
	var env msgpackEnvelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	m, err := newMeasurement(env.Type)
	if err != nil {
		return nil, err
	}
	if err := msgpack.Unmarshal(env.Measurement, m); err != nil {
		return nil, err
	}
	return m, nil
}
