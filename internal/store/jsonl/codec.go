package jsonl

import (
	"encoding/json"

	"github.com/kaiwa-coach/memory-service/internal/model"
)

// encodeLine serializes one memory as a single self-contained JSON line,
// newline terminated.
func encodeLine(m *model.Memory) ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// decodeLine parses one stored line back into a memory. The content payload
// is resolved into its typed variant via model.Memory's UnmarshalJSON.
func decodeLine(line []byte) (*model.Memory, error) {
	var m model.Memory
	if err := json.Unmarshal(line, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
