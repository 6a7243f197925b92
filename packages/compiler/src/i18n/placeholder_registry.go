package i18n

import (
	"sort"
	"strconv"
	"strings"
)

// tagToPlaceholderNames maps upper-cased HTML tags to readable placeholder names
var tagToPlaceholderNames = map[string]string{
	"A":     "LINK",
	"B":     "BOLD_TEXT",
	"BR":    "LINE_BREAK",
	"EM":    "EMPHASISED_TEXT",
	"H1":    "HEADING_LEVEL1",
	"H2":    "HEADING_LEVEL2",
	"H3":    "HEADING_LEVEL3",
	"H4":    "HEADING_LEVEL4",
	"H5":    "HEADING_LEVEL5",
	"H6":    "HEADING_LEVEL6",
	"HR":    "HORIZONTAL_RULE",
	"I":     "ITALIC_TEXT",
	"LI":    "LIST_ITEM",
	"LINK":  "MEDIA_LINK",
	"OL":    "ORDERED_LIST",
	"P":     "PARAGRAPH",
	"Q":     "QUOTATION",
	"S":     "STRIKETHROUGH_TEXT",
	"SMALL": "SMALL_TEXT",
	"SUB":   "SUBSTRIPT",
	"SUP":   "SUPERSCRIPT",
	"TBODY": "TABLE_BODY",
	"TD":    "TABLE_CELL",
	"TFOOT": "TABLE_FOOTER",
	"TH":    "TABLE_HEADER_CELL",
	"THEAD": "TABLE_HEADER",
	"TR":    "TABLE_ROW",
	"TT":    "MONOSPACED_TEXT",
	"U":     "UNDERLINED_TEXT",
	"UL":    "UNORDERED_LIST",
}

// PlaceholderRegistry names the placeholders of one message. Identical
// content gets the same name; different content with the same base name gets
// `_1`, `_2`, ... suffixes.
type PlaceholderRegistry struct {
	placeholderNameCounts map[string]int
	signatureToName       map[string]string
}

// NewPlaceholderRegistry creates a new PlaceholderRegistry
func NewPlaceholderRegistry() *PlaceholderRegistry {
	return &PlaceholderRegistry{
		placeholderNameCounts: make(map[string]int),
		signatureToName:       make(map[string]string),
	}
}

// GetStartTagPlaceholderName names the start of an element, e.g. START_BOLD_TEXT.
// Void elements are named without the START_ prefix.
func (r *PlaceholderRegistry) GetStartTagPlaceholderName(tag string, attrs map[string]string, isVoid bool) string {
	signature := hashTag(tag, attrs, isVoid)
	if name, ok := r.signatureToName[signature]; ok {
		return name
	}

	baseName := tagPlaceholderBaseName(tag)
	if !isVoid {
		baseName = "START_" + baseName
	}
	name := r.generateUniqueName(baseName)
	r.signatureToName[signature] = name
	return name
}

// GetCloseTagPlaceholderName names the end of an element, e.g. CLOSE_BOLD_TEXT.
func (r *PlaceholderRegistry) GetCloseTagPlaceholderName(tag string) string {
	signature := hashTag("/"+tag, nil, false)
	if name, ok := r.signatureToName[signature]; ok {
		return name
	}

	name := r.generateUniqueName("CLOSE_" + tagPlaceholderBaseName(tag))
	r.signatureToName[signature] = name
	return name
}

// GetPlaceholderName names a placeholder for content, e.g. INTERPOLATION or ICU.
func (r *PlaceholderRegistry) GetPlaceholderName(name string, content string) string {
	upperName := strings.ToUpper(name)
	signature := "PH: " + upperName + "=" + content
	if uniqueName, ok := r.signatureToName[signature]; ok {
		return uniqueName
	}

	uniqueName := r.generateUniqueName(upperName)
	r.signatureToName[signature] = uniqueName
	return uniqueName
}

// GetUniquePlaceholder returns a name that was never returned before.
func (r *PlaceholderRegistry) GetUniquePlaceholder(name string) string {
	return r.generateUniqueName(strings.ToUpper(name))
}

func tagPlaceholderBaseName(tag string) string {
	upperTag := strings.ToUpper(tag)
	if name, ok := tagToPlaceholderNames[upperTag]; ok {
		return name
	}
	return "TAG_" + upperTag
}

// hashTag does not take attribute order into account
func hashTag(tag string, attrs map[string]string, isVoid bool) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("<" + tag)
	for _, name := range keys {
		sb.WriteString(" " + name + "=" + attrs[name])
	}
	if isVoid {
		sb.WriteString("/>")
	} else {
		sb.WriteString("></" + tag + ">")
	}
	return sb.String()
}

func (r *PlaceholderRegistry) generateUniqueName(base string) string {
	id, seen := r.placeholderNameCounts[base]
	if !seen {
		r.placeholderNameCounts[base] = 1
		return base
	}
	r.placeholderNameCounts[base] = id + 1
	return base + "_" + strconv.Itoa(id)
}
