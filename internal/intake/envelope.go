package intake

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrMalformedEnvelope is returned when the request body is not a push envelope
	ErrMalformedEnvelope = errors.New("malformed push envelope")
	// ErrEmptyPayload is returned when the envelope carries no data
	ErrEmptyPayload = errors.New("empty payload")
	// ErrUndecodablePayload is returned when data is not base64 encoded UTF-8 JSON
	ErrUndecodablePayload = errors.New("undecodable payload")
)

var base64Encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.URLEncoding,
	base64.RawStdEncoding,
	base64.RawURLEncoding,
}

// PushMessage is the message part of a push delivery
type PushMessage struct {
	Data         string            `json:"data"`
	MessageID    string            `json:"messageId"`
	AltMessageID string            `json:"message_id"`
	PublishTime  string            `json:"publishTime"`
	Attributes   map[string]string `json:"attributes,omitempty"`
}

// ID returns the delivery-assigned identity, accepting either spelling
func (m *PushMessage) ID() string {
	if m == nil {
		return ""
	}
	if m.MessageID != "" {
		return m.MessageID
	}
	return m.AltMessageID
}

// PushEnvelope is the JSON body of a push delivery
type PushEnvelope struct {
	Message      *PushMessage `json:"message"`
	Subscription string       `json:"subscription"`
}

// DecodeEnvelope parses a request body
func DecodeEnvelope(body []byte) (*PushEnvelope, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrMalformedEnvelope
	}

	var env PushEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	return &env, nil
}

// DecodePayload decodes the base64 data field into a JSON object
func DecodePayload(data string) (map[string]any, error) {
	if data == "" {
		return nil, ErrEmptyPayload
	}

	raw, err := decodeBase64(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodablePayload, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyPayload
	}
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w: invalid UTF-8", ErrUndecodablePayload)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodablePayload, err)
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: payload is not a JSON object", ErrUndecodablePayload)
	}
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}
	return payload, nil
}

func decodeBase64(data string) ([]byte, error) {
	var firstErr error
	for _, enc := range base64Encodings {
		raw, err := enc.DecodeString(data)
		if err == nil {
			return raw, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}
