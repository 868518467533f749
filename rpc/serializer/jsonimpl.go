package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ValentinKolb/wordkv/rpc/common"
)

// NewJSONSerializer creates a new serializer using json encoding
func NewJSONSerializer() IRPCSerializer {
	return &jsonSerializerImpl{}
}

// jsonSerializerImpl implements the IRPCSerializer interface using json encoding
type jsonSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (j jsonSerializerImpl) SerializeRequest(req common.Request) ([]byte, error) {
	return marshal(req)
}

func (j jsonSerializerImpl) DeserializeRequest(b []byte, req *common.Request) error {
	if err := unmarshalObject(b, req); err != nil {
		return err
	}
	if req.Command == "" {
		return fmt.Errorf("request has no command")
	}
	return nil
}

func (j jsonSerializerImpl) SerializeResponse(resp common.Response) ([]byte, error) {
	return marshal(resp)
}

func (j jsonSerializerImpl) DeserializeResponse(b []byte, resp *common.Response) error {
	return unmarshalObject(b, resp)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// marshal encodes v without HTML escaping, so "<", ">" and "&" are sent as is
func marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Encode appends a newline
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// unmarshalObject decodes a JSON object into v, rejecting other JSON values
func unmarshalObject(b []byte, v interface{}) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("message is not a JSON object")
	}
	return json.Unmarshal(trimmed, v)
}
