package client

import (
	"encoding/json"

	"github.com/samber/lo"
	"github.com/samber/mo"

	"ragqa/internal/domain"
)

// DecodeQueryResult normalizes a query response body. Anything structurally
// unexpected falls back to an absent answer and no sources instead of failing.
func DecodeQueryResult(payload []byte) domain.QueryResult {
	result := domain.QueryResult{Answer: mo.None[string](), Sources: []domain.SourceExcerpt{}}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return result
	}

	if raw, ok := fields["answer"]; ok {
		var answer string
		if err := json.Unmarshal(raw, &answer); err == nil {
			result.Answer = mo.Some(answer)
		}
	}

	if raw, ok := fields["sources"]; ok {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err == nil && len(items) > 0 {
			result.Sources = lo.FilterMap(items, func(item json.RawMessage, _ int) (domain.SourceExcerpt, bool) {
				return decodeSource(item)
			})
		}
	}
	return result
}

func decodeSource(raw json.RawMessage) (domain.SourceExcerpt, bool) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return domain.SourceExcerpt{}, false
	}
	src := domain.SourceExcerpt{RelevanceScore: mo.None[float64]()}
	if page, ok := obj["page"].(float64); ok {
		src.PageNumber = int(page)
	}
	if score, ok := obj["score"].(float64); ok {
		src.RelevanceScore = mo.Some(score)
	}
	if text, ok := obj["text"].(string); ok {
		src.Text = text
	}
	return src, true
}
