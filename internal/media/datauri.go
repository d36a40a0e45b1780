package media

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DataURI is a decoded data: URI, the transport format for images and audio
// on both sides of the generative AI boundary.
type DataURI struct {
	MIMEType string
	Data     []byte
}

// ParseDataURI decodes a "data:<mime>;base64,<data>" URI.
func ParseDataURI(s string) (DataURI, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return DataURI{}, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return DataURI{}, fmt.Errorf("malformed data URI: missing comma")
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return DataURI{}, fmt.Errorf("unsupported data URI encoding (expected base64)")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return DataURI{}, fmt.Errorf("decoding data URI payload: %w", err)
	}
	return DataURI{MIMEType: mimeType, Data: data}, nil
}

// String re-encodes the URI as "data:<mime>;base64,<data>".
func (d DataURI) String() string {
	return "data:" + d.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(d.Data)
}

// FormatDataURI encodes raw bytes as a base64 data URI.
func FormatDataURI(mimeType string, data []byte) string {
	return DataURI{MIMEType: mimeType, Data: data}.String()
}
