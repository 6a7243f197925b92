package i18n_message_bundle

import (
	"fmt"

	"ngc-template/packages/compiler/src/config"
	"ngc-template/packages/compiler/src/i18n"
	"ngc-template/packages/compiler/src/i18n/serializers"
	"ngc-template/packages/compiler/src/ml_parser"
	"ngc-template/packages/compiler/src/util"
)

// Options configures what a MessageBundle extracts and how units are identified
type Options struct {
	// ImplicitTags are translated as if they carried an `i18n` attribute.
	ImplicitTags []string
	// ImplicitAttrs lists, per tag name, attributes translated without an `i18n-<name>` marker.
	ImplicitAttrs       map[string][]string
	InterpolationConfig *ml_parser.InterpolationConfig
	PreserveWhitespace  bool
	// LegacyMessageIDs fills TranslationUnit.LegacyIDs with the SHA1 and decimal digests.
	LegacyMessageIDs bool
	// UseCustomIDs makes `@@id` custom ids win over the serializer digest.
	UseCustomIDs bool
}

// OptionsFromConfig derives bundle options from a compiler configuration
func OptionsFromConfig(c *config.CompilerConfig) Options {
	return Options{
		InterpolationConfig: c.InterpolationConfig,
		PreserveWhitespace:  c.PreserveWhitespaces,
		LegacyMessageIDs:    c.EnableI18nLegacyMessageIdFormat,
		UseCustomIDs:        c.I18nUseExternalIds,
	}
}

// MessageBundle is a container for messages extracted from templates
type MessageBundle struct {
	messages   []*i18n.Message
	htmlParser *ml_parser.Parser
	options    Options
}

// NewMessageBundle creates a new MessageBundle
func NewMessageBundle(options Options) *MessageBundle {
	if options.InterpolationConfig == nil {
		options.InterpolationConfig = ml_parser.DefaultInterpolationConfig
	}
	return &MessageBundle{
		messages:   []*i18n.Message{},
		htmlParser: ml_parser.NewHtmlParser(),
		options:    options,
	}
}

// UpdateFromTemplate parses a template and adds its messages to the bundle.
// Nothing is added when the template has HTML or extraction errors.
func (mb *MessageBundle) UpdateFromTemplate(source string, url string) []*util.ParseError {
	htmlParserResult := mb.htmlParser.Parse(source, url, &ml_parser.TokenizeOptions{
		TokenizeExpansionForms: true,
		InterpolationConfig:    mb.options.InterpolationConfig,
	})
	if len(htmlParserResult.Errors) > 0 {
		return htmlParserResult.Errors
	}

	// Trim unnecessary whitespace from extracted messages if requested
	if !mb.options.PreserveWhitespace {
		htmlParserResult = ml_parser.RemoveWhitespaces(htmlParserResult)
	}

	i18nParserResult := i18n.ExtractMessages(
		htmlParserResult.RootNodes,
		mb.options.InterpolationConfig,
		mb.options.ImplicitTags,
		mb.options.ImplicitAttrs,
		mb.options.PreserveWhitespace,
	)
	if len(i18nParserResult.Errors) > 0 {
		return i18nParserResult.Errors
	}

	mb.messages = append(mb.messages, i18nParserResult.Messages...)
	return []*util.ParseError{}
}

// GetMessages returns the messages in the internal format
func (mb *MessageBundle) GetMessages() []*i18n.Message {
	return mb.messages
}

// TranslationUnits renders the bundle as translation units, one per distinct
// message id, in extraction order. The sources of duplicate messages are
// merged into the first one. A message that fails to render is reported in
// the returned errors and left out.
func (mb *MessageBundle) TranslationUnits(serializer serializers.Serializer, filterSources func(string) string) ([]*i18n.TranslationUnit, []*i18n.SerializeError) {
	var order []string
	messages := make(map[string]*i18n.Message)
	sources := make(map[string][]i18n.MessageSpan)

	// Deduplicate messages based on their ID
	for _, message := range mb.messages {
		id := mb.messageID(serializer, message)
		if _, exists := messages[id]; !exists {
			order = append(order, id)
			messages[id] = message
		}
		sources[id] = append(sources[id], message.Sources...)
	}

	units := make([]*i18n.TranslationUnit, 0, len(order))
	var errs []*i18n.SerializeError
	for _, id := range order {
		msg := messages[id]
		unit, unitErrs := i18n.ToTranslationUnit(msg, serializer.Digest)
		if len(unitErrs) > 0 {
			errs = append(errs, unitErrs...)
			continue
		}
		unit.ID = id
		unit.Sources = make([]i18n.MessageSpan, 0, len(sources[id]))
		for _, source := range sources[id] {
			if filterSources != nil {
				source.FilePath = filterSources(source.FilePath)
			}
			unit.Sources = append(unit.Sources, source)
		}
		if mb.options.LegacyMessageIDs {
			unit.LegacyIDs = []string{i18n.ComputeDigest(msg), i18n.ComputeDecimalDigest(msg)}
		}
		units = append(units, unit)
	}
	return units, errs
}

// Write serializes the bundle. Serialize errors are returned separately
// from the error of the serializer itself.
func (mb *MessageBundle) Write(serializer serializers.Serializer, filterSources func(string) string) ([]byte, []*i18n.SerializeError, error) {
	units, serializeErrs := mb.TranslationUnits(serializer, filterSources)
	out, err := serializer.Write(units)
	if err != nil {
		return nil, serializeErrs, fmt.Errorf("writing translation units: %w", err)
	}
	return out, serializeErrs, nil
}

func (mb *MessageBundle) messageID(serializer serializers.Serializer, message *i18n.Message) string {
	if mb.options.UseCustomIDs && message.CustomID != "" {
		return message.CustomID
	}
	return serializer.Digest(message)
}
