package labapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Unwrap peels the backend envelope. The backend answers with {data: ...},
// {Data: ...} or the bare payload depending on the endpoint, and sometimes
// reports failures as 200 with {status: false, message: ...}.
func Unwrap(raw []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return json.RawMessage("null"), nil
	}
	if trimmed[0] != '{' {
		if !json.Valid(trimmed) {
			return nil, errors.New("response is not valid JSON")
		}
		return json.RawMessage(trimmed), nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if failed(obj) {
		msg := firstString(obj, "message", "Message", "error", "msg")
		if msg == "" {
			msg = "backend rejected the request"
		}
		return nil, errors.New(msg)
	}
	for _, key := range []string{"data", "Data"} {
		if v, ok := obj[key]; ok {
			return v, nil
		}
	}
	if onlyEnvelopeKeys(obj) {
		return json.RawMessage("null"), nil
	}
	return json.RawMessage(trimmed), nil
}

var envelopeKeys = map[string]bool{
	"status": true, "Status": true, "success": true,
	"message": true, "Message": true, "msg": true, "error": true, "code": true,
}

// onlyEnvelopeKeys reports a status reply such as {"status":true,"message":
// "No records found"} that carries no record.
func onlyEnvelopeKeys(obj map[string]json.RawMessage) bool {
	if len(obj) == 0 {
		return false
	}
	for key := range obj {
		if !envelopeKeys[key] {
			return false
		}
	}
	return true
}

func failed(obj map[string]json.RawMessage) bool {
	for _, key := range []string{"status", "success", "Status"} {
		v, ok := obj[key]
		if !ok {
			continue
		}
		switch strings.ToLower(strings.Trim(string(bytes.TrimSpace(v)), `"`)) {
		case "false", "error", "failed", "fail":
			return true
		}
	}
	return false
}

func firstString(obj map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		v, ok := obj[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// backendMessage extracts a human message from an error body.
func backendMessage(raw []byte, fallback string) string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(raw), &obj); err == nil {
		if msg := firstString(obj, "message", "Message", "error", "msg"); msg != "" {
			return msg
		}
	}
	return fallback
}

// DecodeList decodes payload as []T, accepting null and single objects.
func DecodeList[T any](payload json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(payload)
	out := make([]T, 0)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return out, nil
	}
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return make([]T, 0), err
		}
		if out == nil {
			out = make([]T, 0)
		}
		return out, nil
	case '{':
		var one T
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return make([]T, 0), err
		}
		return append(out, one), nil
	default:
		return make([]T, 0), fmt.Errorf("expected list or object, got %.20s", trimmed)
	}
}
