package programs

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/entangle/pkg/measurements"
)

type programJSON struct {
	Measurement         json.RawMessage `json:"measurement"`
	InputParameterNames []string        `json:"input_parameter_names"`
}

// MarshalJSON serializes the program with its measurement in a type
// envelope.
func (p *QuantumProgram) MarshalJSON() ([]byte, error) {
	measurement, err := measurements.MarshalMeasurementJSON(p.Measurement)
	if err != nil {
		return nil, err
	}
	return json.Marshal(programJSON{
		Measurement:         measurement,
		InputParameterNames: p.InputParameterNames,
	})
}

func (p *QuantumProgram) UnmarshalJSON(data []byte) error {
	var doc programJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	measurement, err := measurements.UnmarshalMeasurementJSON(doc.Measurement)
	if err != nil {
		return err
	}
	p.Measurement = measurement
	p.InputParameterNames = doc.InputParameterNames
	return nil
}

type programMsgpack struct {
	Measurement         msgpack.RawMessage `msgpack:"measurement"`
	InputParameterNames []string           `msgpack:"input_parameter_names"`
}

func (p *QuantumProgram) EncodeMsgpack(enc *msgpack.Encoder) error {
	measurement, err := measurements.MarshalMeasurementMsgpack(p.Measurement)
	if err != nil {
		return err
	}
	return enc.Encode(programMsgpack{
		Measurement:         measurement,
		InputParameterNames: p.InputParameterNames,
	})
}

func (p *QuantumProgram) DecodeMsgpack(dec *msgpack.Decoder) error {
	var doc programMsgpack
	if err := dec.Decode(&doc); err != nil {
		return err
	}
	measurement, err := measurements.UnmarshalMeasurementMsgpack(doc.Measurement)
	if err != nil {
		return err
	}
	p.Measurement = measurement
	p.InputParameterNames = doc.InputParameterNames
	return nil
}
