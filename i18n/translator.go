package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "property").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "type_mismatch":
			return "型が一致しません"
		case "not_in_enum":
			return "列挙値に含まれていません"
		case "const_mismatch":
			return "固定値と一致しません"
		case "length_violated":
			return "文字列長が範囲外です"
		case "pattern_mismatch":
			return "パターンに一致しません"
		case "format_invalid":
			return "フォーマットが不正です"
		case "minimum_violated":
			return "下限を下回っています"
		case "maximum_violated":
			return "上限を超えています"
		case "multiple_of_violated":
			return "倍数条件を満たしません"
		case "items_count_violated":
			return "要素数が範囲外です"
		case "unique_items_violated":
			return "要素が重複しています"
		case "contains_not_satisfied":
			return "contains 条件を満たしません"
		case "properties_count_violated":
			return "プロパティ数が範囲外です"
		case "required_missing":
			return "必須プロパティが不足しています"
		case "additional_property":
			return "許可されていないプロパティです"
		case "property_name_invalid":
			return "プロパティ名が不正です"
		case "composition_failed":
			return "複合スキーマ条件を満たしません"
		case "constraint_violation":
			return "スキーマ制約に違反しています"
		case "ref_not_resolved":
			return "参照を解決できません"
		}
	default: // "en"
		switch code {
		case "type_mismatch":
			return "type mismatch"
		case "not_in_enum":
			return "value not in enum"
		case "const_mismatch":
			return "value does not match const"
		case "length_violated":
			return "string length out of range"
		case "pattern_mismatch":
			return "pattern did not match"
		case "format_invalid":
			return "invalid format"
		case "minimum_violated":
			return "below minimum"
		case "maximum_violated":
			return "above maximum"
		case "multiple_of_violated":
			return "not a multiple"
		case "items_count_violated":
			return "item count out of range"
		case "unique_items_violated":
			return "duplicate item"
		case "contains_not_satisfied":
			return "contains not satisfied"
		case "properties_count_violated":
			return "property count out of range"
		case "required_missing":
			return "required property missing"
		case "additional_property":
			return "additional property not allowed"
		case "property_name_invalid":
			return "invalid property name"
		case "composition_failed":
			return "composition failed"
		case "constraint_violation":
			return "schema constraint violated"
		case "ref_not_resolved":
			return "reference not resolved"
		}
	}
	return code
}

var current Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in dictionary language ("en" or "ja").
func SetLanguage(lang string) { current = dictTranslator{lang: lang} }

// SetTranslator installs a custom translator; nil values are ignored.
func SetTranslator(t Translator) {
	if t != nil {
		current = t
	}
}

// T returns the message for the code using the current translator.
func T(code string, data map[string]string) string {
	return current.Message(code, data)
}
