package schema

// JSON schema definitions passed to the generation capability as the
// response_format constraint. Kept alongside the Go structs so the two
// shapes stay in sync.

// #region helpers

func obj(props map[string]any, required ...string) map[string]any {
	s := map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func str(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func num(desc string) map[string]any {
	return map[string]any{"type": "number", "description": desc}
}

func strList(desc string) map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": desc}
}

// #endregion helpers

// #region intent-schema

// IntentSchema constrains classifier output to the Intent shape.
func IntentSchema() map[string]any {
	return obj(map[string]any{
		"category": map[string]any{
			"type": "string",
			"enum": []string{
				string(IntentAnswerQuestion),
				string(IntentSummarize),
				string(IntentCalculate),
				string(IntentUnknown),
			},
		},
		"confidence": num("confidence in [0,1]"),
		"reasoning":  str("why this category was chosen"),
	}, "category", "confidence", "reasoning")
}

// #endregion

// #region answer-schema

// AnswerSchema constrains answer-stage output to the AnswerResult shape.
func AnswerSchema() map[string]any {
	return obj(map[string]any{
		"question":   str("the question being answered"),
		"answer":     str("the generated answer"),
		"sources":    strList("document identifiers consulted"),
		"confidence": num("confidence in [0,1]"),
	}, "question", "answer", "sources", "confidence")
}

// #endregion

// #region summarization-schema

// SummarizationSchema constrains summarize-stage output to the SummarizationResult shape.
func SummarizationSchema() map[string]any {
	return obj(map[string]any{
		"summary":      str("the generated summary"),
		"key_points":   strList("key points extracted"),
		"document_ids": strList("document identifiers covered"),
	}, "summary", "key_points", "document_ids")
}

// #endregion

// #region memory-update-schema

// MemoryUpdateSchema constrains update-memory output to the MemoryUpdate shape.
func MemoryUpdateSchema() map[string]any {
	return obj(map[string]any{
		"summary":      str("rolling digest of the conversation so far"),
		"document_ids": strList("document identifiers relevant to the latest turn"),
	}, "summary", "document_ids")
}

// #endregion
