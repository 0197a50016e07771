package ws

import (
	"encoding/json"
	"errors"

	"github.com/tidwall/gjson"
)

var errBadFrame = errors.New("frame must be a JSON object with a string type")

// parseFrame peeks the event type and payload without decoding the payload;
// the realtime handler decodes it into its own type.
func parseFrame(data []byte) (string, json.RawMessage, error) {
	if !gjson.ValidBytes(data) {
		return "", nil, errBadFrame
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return "", nil, errBadFrame
	}
	typ := root.Get("type")
	if typ.Type != gjson.String || typ.Str == "" {
		return "", nil, errBadFrame
	}
	payload := root.Get("payload")
	if !payload.Exists() {
		return typ.Str, nil, nil
	}
	return typ.Str, json.RawMessage(payload.Raw), nil
}
