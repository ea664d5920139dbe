package storage

import (
	"encoding/json"
	"errors"

	"tekton/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeRun(r model.RunRecord) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeRun(data []byte) (model.RunRecord, error) {
	var run model.RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		return model.RunRecord{}, err
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return model.RunRecord{}, err
	}
	return run, nil
}

func EncodeLayout(l model.LayoutRecord) ([]byte, error) {
	return json.Marshal(l)
}

func DecodeLayout(data []byte) (model.LayoutRecord, error) {
	var layout model.LayoutRecord
	if err := json.Unmarshal(data, &layout); err != nil {
		return model.LayoutRecord{}, err
	}
	if err := checkVersion(layout.VersionedRecord); err != nil {
		return model.LayoutRecord{}, err
	}
	return layout, nil
}

func EncodeFitnessHistory(history []float64) ([]byte, error) {
	return json.Marshal(history)
}

func DecodeFitnessHistory(data []byte) ([]float64, error) {
	var history []float64
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}

// Stamp fills a record header with the current versions.
func Stamp() model.VersionedRecord {
	return model.VersionedRecord{
		SchemaVersion: CurrentSchemaVersion,
		CodecVersion:  CurrentCodecVersion,
	}
}
