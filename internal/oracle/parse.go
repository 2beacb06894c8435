package oracle

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"

	"presage/internal/pkg/jsonutil"
	"presage/internal/predict"
)

const responseSchema = `{
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["timeframe", "direction", "confidence"],
    "properties": {
      "timeframe": {"type": "string"},
      "direction": {"type": "string", "enum": ["UP", "DOWN"]},
      "confidence": {"type": "number", "minimum": 0, "maximum": 1},
      "reasoning": {"type": "string"}
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("oracle_response.json", responseSchema)

// ParseResponse extracts, validates and decodes the oracle's prediction
// array. Exactly one prediction per horizon in predict.Horizons is
// required; extras for unknown horizons are dropped.
func ParseResponse(raw string, now time.Time, priceAt float64) ([]predict.Prediction, error) {
	block, ok := jsonutil.ExtractJSON(raw)
	if !ok {
		return nil, fmt.Errorf("no JSON array in oracle output")
	}
	var doc any
	if err := json.Unmarshal([]byte(block), &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	byHorizon := make(map[predict.Horizon]predict.Prediction)
	gjson.Parse(block).ForEach(func(_, value gjson.Result) bool {
		tf := strings.TrimSpace(value.Get("timeframe").String())
		h, ok := predict.ParseHorizon(tf)
		if !ok {
			return true
		}
		byHorizon[h] = predict.Prediction{
			ID:                uuid.NewString(),
			Source:            predict.SourceOracle,
			Horizon:           h,
			Direction:         predict.Direction(value.Get("direction").String()),
			Confidence:        value.Get("confidence").Float(),
			Reasoning:         strings.TrimSpace(value.Get("reasoning").String()),
			PriceAtPrediction: priceAt,
			Timestamp:         now,
		}
		return true
	})

	out := make([]predict.Prediction, 0, len(predict.Horizons))
	for _, h := range predict.Horizons {
		p, ok := byHorizon[h]
		if !ok {
			return nil, fmt.Errorf("oracle output missing horizon %s", h)
		}
		out = append(out, p)
	}
	return out, nil
}
