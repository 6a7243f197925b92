package ml_parser

import (
	"strings"
)

// TagContentType represents the content type of a tag
type TagContentType int

const (
	TagContentTypeRAW_TEXT TagContentType = iota
	TagContentTypeESCAPABLE_RAW_TEXT
	TagContentTypePARSABLE_DATA
)

// TagDefinition defines how the tokenizer and tree builder treat an HTML tag.
type TagDefinition struct {
	ContentType TagContentType
	// ForeignContentType overrides ContentType inside a namespace (e.g. `title` in svg).
	ForeignContentType      map[string]TagContentType
	IsVoid                  bool
	IgnoreFirstLf           bool
	CanSelfClose            bool
	ClosedByParent          bool
	ImplicitNamespacePrefix string
	// PreventNamespaceInheritance stops children inheriting ImplicitNamespacePrefix.
	PreventNamespaceInheritance bool
}

// GetContentType returns the content type for this tag
func (d *TagDefinition) GetContentType(prefix string) TagContentType {
	if t, ok := d.ForeignContentType[prefix]; ok && prefix != "" {
		return t
	}
	return d.ContentType
}

// defaultTagDefinition applies to custom elements: they may self close.
var defaultTagDefinition = &TagDefinition{ContentType: TagContentTypePARSABLE_DATA, CanSelfClose: true}

var tagDefinitions = buildTagDefinitions()

func buildTagDefinitions() map[string]*TagDefinition {
	defs := map[string]*TagDefinition{}

	for _, tag := range []string{"base", "meta", "area", "embed", "link", "img", "input", "param", "hr", "br", "source", "track", "wbr", "col"} {
		defs[tag] = &TagDefinition{ContentType: TagContentTypePARSABLE_DATA, IsVoid: true, CanSelfClose: true, ClosedByParent: true}
	}

	for _, tag := range []string{"p", "li", "dd", "tbody", "tfoot", "tr", "td", "th", "rb", "rt", "rtc", "rp", "optgroup", "option"} {
		defs[tag] = &TagDefinition{ContentType: TagContentTypePARSABLE_DATA, ClosedByParent: true}
	}

	defs["svg"] = &TagDefinition{ContentType: TagContentTypePARSABLE_DATA, ImplicitNamespacePrefix: "svg"}
	defs["foreignObject"] = &TagDefinition{ContentType: TagContentTypePARSABLE_DATA, ImplicitNamespacePrefix: "svg", PreventNamespaceInheritance: true}
	defs["math"] = &TagDefinition{ContentType: TagContentTypePARSABLE_DATA, ImplicitNamespacePrefix: "math"}

	defs["pre"] = &TagDefinition{ContentType: TagContentTypePARSABLE_DATA, IgnoreFirstLf: true}
	defs["listing"] = &TagDefinition{ContentType: TagContentTypePARSABLE_DATA, IgnoreFirstLf: true}
	defs["style"] = &TagDefinition{ContentType: TagContentTypeRAW_TEXT}
	defs["script"] = &TagDefinition{ContentType: TagContentTypeRAW_TEXT}
	defs["title"] = &TagDefinition{
		ContentType:        TagContentTypeESCAPABLE_RAW_TEXT,
		ForeignContentType: map[string]TagContentType{"svg": TagContentTypePARSABLE_DATA},
	}
	defs["textarea"] = &TagDefinition{ContentType: TagContentTypeESCAPABLE_RAW_TEXT, IgnoreFirstLf: true}

	// Known HTML elements may not self close, unlike custom elements.
	for _, tag := range []string{"a", "abbr", "address", "article", "aside", "audio", "b", "bdi", "bdo", "blockquote",
		"body", "button", "canvas", "caption", "cite", "code", "colgroup", "data", "datalist", "del",
		"details", "dfn", "dialog", "div", "dl", "dt", "em", "fieldset", "figcaption", "figure", "footer",
		"form", "h1", "h2", "h3", "h4", "h5", "h6", "head", "header", "hgroup", "html", "i", "iframe",
		"ins", "kbd", "label", "legend", "main", "map", "mark", "menu", "meter", "nav", "noscript",
		"object", "ol", "output", "picture", "progress", "q", "s", "samp", "section", "select", "small", "span", "strong",
		"sub", "summary", "sup", "table", "thead", "time", "u", "ul", "var", "video"} {
		if _, exists := defs[tag]; !exists {
			defs[tag] = &TagDefinition{ContentType: TagContentTypePARSABLE_DATA}
		}
	}
	return defs
}

// GetHtmlTagDefinition returns the HTML tag definition for a tag name
func GetHtmlTagDefinition(tagName string) *TagDefinition {
	if def, ok := tagDefinitions[tagName]; ok {
		return def
	}
	if def, ok := tagDefinitions[strings.ToLower(tagName)]; ok {
		return def
	}
	return defaultTagDefinition
}

// SplitNsName splits a `:namespace:name` string into namespace and name
func SplitNsName(elementName string) (string, string) {
	if len(elementName) == 0 || elementName[0] != ':' {
		return "", elementName
	}
	colonIndex := strings.IndexByte(elementName[1:], ':')
	if colonIndex == -1 {
		return "", elementName
	}
	colonIndex++
	return elementName[1:colonIndex], elementName[colonIndex+1:]
}

// IsNgContainer checks if a tag name is ng-container
func IsNgContainer(tagName string) bool {
	_, name := SplitNsName(tagName)
	return name == "ng-container"
}

// IsNgContent checks if a tag name is ng-content
func IsNgContent(tagName string) bool {
	_, name := SplitNsName(tagName)
	return name == "ng-content"
}

// IsNgTemplate checks if a tag name is ng-template
func IsNgTemplate(tagName string) bool {
	_, name := SplitNsName(tagName)
	return name == "ng-template"
}

// GetNsPrefix returns the namespace of a full name, or "".
func GetNsPrefix(fullName string) string {
	prefix, _ := SplitNsName(fullName)
	return prefix
}

// MergeNsAndName merges namespace prefix and local name
func MergeNsAndName(prefix, localName string) string {
	if prefix != "" {
		return ":" + prefix + ":" + localName
	}
	return localName
}
