package i18n

// Translator retrieves localized messages for error kinds.
// data provides optional parameters to embed in the message (for example,
// "min_length" or "expected").
type Translator interface {
	Message(kind string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(kind string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch kind {
		case "invalid_type":
			return "型が不正です"
		case "int_parsing":
			return "整数として解釈できません"
		case "float_parsing":
			return "数値として解釈できません"
		case "none_required":
			return "null である必要があります"
		case "not_a_mapping":
			return "マッピングではありません"
		case "mapping_too_short":
			return "マッピングの要素数が少なすぎます"
		case "mapping_too_long":
			return "マッピングの要素数が多すぎます"
		case "not_a_sequence":
			return "シーケンスではありません"
		case "sequence_too_short":
			return "シーケンスが短すぎます"
		case "sequence_too_long":
			return "シーケンスが長すぎます"
		case "discriminator_missing":
			return "判別キーがありません"
		case "discriminator_unknown":
			return "未知の判別キーです"
		case "value_error":
			return "値が不正です"
		}
	default: // "en"
		switch kind {
		case "invalid_type":
			return "invalid type"
		case "int_parsing":
			return "not a valid integer"
		case "float_parsing":
			return "not a valid number"
		case "none_required":
			return "value must be null"
		case "not_a_mapping":
			return "value is not a valid mapping"
		case "mapping_too_short":
			return "mapping has too few entries"
		case "mapping_too_long":
			return "mapping has too many entries"
		case "not_a_sequence":
			return "value is not a valid sequence"
		case "sequence_too_short":
			return "sequence is too short"
		case "sequence_too_long":
			return "sequence is too long"
		case "discriminator_missing":
			return "discriminator missing"
		case "discriminator_unknown":
			return "unknown discriminator value"
		case "value_error":
			return "invalid value"
		}
	}
	return kind
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given kind using the current Translator.
func T(kind string, data map[string]string) string { return currentTranslator.Message(kind, data) }
