package orchestrator

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/translate"
)

// taskMessage is sent from the pool controller to a worker.
type taskMessage struct {
	TemplatePath string              `json:"templatePath"`
	Variation    translate.Variation `json:"variation"`
}

// resultMessage is a worker's answer; a nil Result is an absent result.
type resultMessage struct {
	Result *Result `json:"result"`
}

// encodeMessage serialises a pool message so that controller and workers
// never share the values they exchange.
func encodeMessage(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return buf.Bytes(), nil
}

func decodeMessage(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	return nil
}
