package i18n

import "strings"

// I18n separators for metadata
const I18N_MEANING_SEPARATOR = "|"
const I18N_ID_SEPARATOR = "@@"

// I18N_ATTR marks an element whose content is translatable; I18N_ATTR_PREFIX
// marks a translatable attribute (`i18n-title`).
const I18N_ATTR = "i18n"
const I18N_ATTR_PREFIX = "i18n-"

// Meta is the parsed value of an i18n marker.
type Meta struct {
	Meaning     string
	Description string
	CustomID    string
}

// ParseI18nMeta parses i18n metas like:
//   - "@@id",
//   - "description[@@id]",
//   - "meaning|description[@@id]"
func ParseI18nMeta(meta string) *Meta {
	result := &Meta{}
	meta = strings.TrimSpace(meta)
	if meta == "" {
		return result
	}
	meaningAndDesc := meta
	if idIndex := strings.Index(meta, I18N_ID_SEPARATOR); idIndex > -1 {
		meaningAndDesc = meta[:idIndex]
		result.CustomID = meta[idIndex+len(I18N_ID_SEPARATOR):]
	}
	if descIndex := strings.Index(meaningAndDesc, I18N_MEANING_SEPARATOR); descIndex > -1 {
		result.Meaning = meaningAndDesc[:descIndex]
		result.Description = meaningAndDesc[descIndex+1:]
	} else {
		result.Description = meaningAndDesc
	}
	return result
}

// String renders the meta back to its `meaning|description@@id` form.
func (m *Meta) String() string {
	var sb strings.Builder
	if m.Meaning != "" {
		sb.WriteString(m.Meaning)
		sb.WriteString(I18N_MEANING_SEPARATOR)
	}
	sb.WriteString(m.Description)
	if m.CustomID != "" {
		sb.WriteString(I18N_ID_SEPARATOR)
		sb.WriteString(m.CustomID)
	}
	return sb.String()
}
