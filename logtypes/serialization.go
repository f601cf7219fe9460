package logtypes

import (
	"encoding/json"
	"slices"
)

const (
	ContentTypeJSON        = "application/json"
	ContentTypeProtobuf    = "application/x-protobuf"
	ContentTypeText        = "text/plain"
	ContentTypeOctetStream = "application/octet-stream"
)

// Broker header keys used by SerializationMetadata.
const (
	HeaderContentType     = "content-type"
	HeaderContentEncoding = "content-encoding"
	HeaderSchemaVersion   = "schema-version"
	HeaderTypeName        = "type-name"
)

// SerializationMetadata describes how a payload was serialized.
// Keys outside the fixed set live in Extra.
type SerializationMetadata struct {
	ContentType   string         `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	Encoding      string         `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	SchemaVersion string         `json:"schemaVersion,omitempty" yaml:"schemaVersion,omitempty"`
	TypeName      string         `json:"typeName,omitempty" yaml:"typeName,omitempty"`
	Extra         map[string]any `json:"-" yaml:",inline"`
}

var serializationKeys = []string{"contentType", "encoding", "schemaVersion", "typeName"}

var serializationHeaderKeys = []string{
	HeaderContentType, HeaderContentEncoding, HeaderSchemaVersion, HeaderTypeName,
}

type serializationFields SerializationMetadata

// MarshalJSON implements json.Marshaler.
func (m SerializationMetadata) MarshalJSON() ([]byte, error) {
	return marshalOpen(serializationFields(m), m.Extra, serializationKeys)
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *SerializationMetadata) UnmarshalJSON(data []byte) error {
	var fields serializationFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	extra, err := unmarshalExtra(data, serializationKeys)
	if err != nil {
		return err
	}

	*m = SerializationMetadata(fields)
	m.Extra = extra

	return nil
}

// Headers returns m as broker headers. Empty fixed fields are left out;
// Extra values that are not strings or bytes are written as their fmt text,
// or as a "<cyclic T>" marker when they refer to themselves.
func (m SerializationMetadata) Headers() BrokerHeaders {
	headers := make(BrokerHeaders, 4+len(m.Extra))

	for key, value := range m.Extra {
		if slices.Contains(serializationHeaderKeys, key) {
			continue
		}

		switch v := value.(type) {
		case string:
			headers[key] = StringHeader(v)
		case []byte:
			headers[key] = BinaryHeader(v)
		default:
			headers[key] = StringHeader(stringify(v))
		}
	}

	set := func(key, value string) {
		if value != "" {
			headers[key] = StringHeader(value)
		}
	}

	set(HeaderContentType, m.ContentType)
	set(HeaderContentEncoding, m.Encoding)
	set(HeaderSchemaVersion, m.SchemaVersion)
	set(HeaderTypeName, m.TypeName)

	return headers
}

// SerializationFromHeaders reads the fixed serialization fields back from
// broker headers. Other headers are ignored.
func SerializationFromHeaders(headers BrokerHeaders) SerializationMetadata {
	get := func(key string) string {
		if value, ok := headers[key]; ok {
			return value.String()
		}

		return ""
	}

	return SerializationMetadata{
		ContentType:   get(HeaderContentType),
		Encoding:      get(HeaderContentEncoding),
		SchemaVersion: get(HeaderSchemaVersion),
		TypeName:      get(HeaderTypeName),
	}
}
