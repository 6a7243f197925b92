package template_parser

import (
	"regexp"
	"strings"

	"ngc-template/packages/compiler/src/ml_parser"
)

const NG_CONTENT_SELECT_ATTR = "select"
const LINK_ELEMENT = "link"
const LINK_STYLE_REL_ATTR = "rel"
const LINK_STYLE_HREF_ATTR = "href"
const LINK_STYLE_REL_VALUE = "stylesheet"
const STYLE_ELEMENT = "style"
const SCRIPT_ELEMENT = "script"
const NG_NON_BINDABLE_ATTR = "ngNonBindable"
const NG_PROJECT_AS = "ngProjectAs"

// PreparsedElementType represents the type of a preparsed element
type PreparsedElementType int

const (
	PreparsedElementTypeNgContent PreparsedElementType = iota
	PreparsedElementTypeStyle
	PreparsedElementTypeStylesheet
	PreparsedElementTypeScript
	PreparsedElementTypeOther
)

// PreparsedElement is what the transform needs to know about an element
// before its attributes are parsed.
type PreparsedElement struct {
	Type        PreparsedElementType
	SelectAttr  string
	HrefAttr    string
	NonBindable bool
	ProjectAs   string
}

// PreparseElement preparses an element to extract special attributes and determine its type
func PreparseElement(ast *ml_parser.Element) *PreparsedElement {
	var selectAttr, hrefAttr, relAttr string
	nonBindable := false
	projectAs := ""

	for _, attr := range ast.Attrs {
		lcAttrName := strings.ToLower(attr.Name)
		switch {
		case lcAttrName == NG_CONTENT_SELECT_ATTR:
			selectAttr = attr.Value
		case lcAttrName == LINK_STYLE_HREF_ATTR:
			hrefAttr = attr.Value
		case lcAttrName == LINK_STYLE_REL_ATTR:
			relAttr = attr.Value
		case attr.Name == NG_NON_BINDABLE_ATTR:
			nonBindable = true
		case attr.Name == NG_PROJECT_AS:
			projectAs = attr.Value
		}
	}

	nodeName := strings.ToLower(ast.Name)
	elementType := PreparsedElementTypeOther
	switch {
	case ml_parser.IsNgContent(nodeName):
		elementType = PreparsedElementTypeNgContent
	case nodeName == STYLE_ELEMENT:
		elementType = PreparsedElementTypeStyle
	case nodeName == SCRIPT_ELEMENT:
		elementType = PreparsedElementTypeScript
	case nodeName == LINK_ELEMENT && relAttr == LINK_STYLE_REL_VALUE:
		elementType = PreparsedElementTypeStylesheet
	}

	return &PreparsedElement{
		Type:        elementType,
		SelectAttr:  normalizeNgContentSelect(selectAttr),
		HrefAttr:    hrefAttr,
		NonBindable: nonBindable,
		ProjectAs:   projectAs,
	}
}

func normalizeNgContentSelect(selectAttr string) string {
	if selectAttr == "" {
		return "*"
	}
	return selectAttr
}

var urlWithSchemaRegexp = regexp.MustCompile(`^([^:/?#]+):`)

// IsStyleUrlResolvable reports whether a stylesheet URL can be loaded by the
// compiler: relative URLs and the `package:` and `asset:` schemes.
func IsStyleUrlResolvable(url string) bool {
	if url == "" || url[0] == '/' {
		return false
	}
	match := urlWithSchemaRegexp.FindStringSubmatch(url)
	return match == nil || match[1] == "package" || match[1] == "asset"
}
