package serializer

import (
	"testing"

	"github.com/ValentinKolb/wordkv/rpc/common"
)

// TestRequestWireFormat tests the exact JSON sent for each command
func TestRequestWireFormat(t *testing.T) {
	s := NewJSONSerializer()

	tests := []struct {
		name string
		req  *common.Request
		want string
	}{
		{
			name: "getMeaning",
			req:  common.NewGetMeaningRequest("kiwi"),
			want: `{"command":"getMeaning","word":"kiwi"}`,
		},
		{
			name: "addNewWord",
			req:  common.NewAddNewWordRequest("kiwi", "green fruit, tropical"),
			want: `{"command":"addNewWord","word":"kiwi","meaning":"green fruit, tropical"}`,
		},
		{
			name: "updateMeaning",
			req:  common.NewUpdateMeaningRequest("kiwi", "green fruit", "<green> & fuzzy"),
			want: `{"command":"updateMeaning","word":"kiwi","newMeaning":"<green> & fuzzy","existingMeaning":"green fruit"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := s.SerializeRequest(*tt.req)
			if err != nil {
				t.Fatalf("SerializeRequest() error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("SerializeRequest() = %s, want %s", data, tt.want)
			}
		})
	}
}

// TestDeserializeRequest tests decoding of valid and invalid requests
func TestDeserializeRequest(t *testing.T) {
	s := NewJSONSerializer()

	tests := []struct {
		name    string
		input   string
		wantErr bool
		want    common.Request
	}{
		{
			name:  "full request",
			input: `{"command":"updateMeaning","word":"a","existingMeaning":"b","newMeaning":"c"}`,
			want:  common.Request{Command: common.CmdUpdateMeaning, Word: "a", ExistingMeaning: "b", NewMeaning: "c"},
		},
		{
			name:  "missing optional fields",
			input: ` {"command":"removeWord"} `,
			want:  common.Request{Command: common.CmdRemoveWord},
		},
		{
			name:  "unknown command is decoded",
			input: `{"command":"dance","word":"x"}`,
			want:  common.Request{Command: "dance", Word: "x"},
		},
		{name: "no command", input: `{"word":"x"}`, wantErr: true},
		{name: "command not a string", input: `{"command":1}`, wantErr: true},
		{name: "array", input: `["getMeaning"]`, wantErr: true},
		{name: "garbage", input: `getMeaning kiwi`, wantErr: true},
		{name: "empty", input: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req common.Request
			err := s.DeserializeRequest([]byte(tt.input), &req)
			if tt.wantErr {
				if err == nil {
					t.Errorf("DeserializeRequest(%q) expected error, got %+v", tt.input, req)
				}
				return
			}
			if err != nil {
				t.Fatalf("DeserializeRequest() error = %v", err)
			}
			if req != tt.want {
				t.Errorf("DeserializeRequest() = %+v, want %+v", req, tt.want)
			}
		})
	}
}

// TestResponseWireFormat tests that responses carry a single output field with newlines escaped
func TestResponseWireFormat(t *testing.T) {
	s := NewJSONSerializer()
	data, err := s.SerializeResponse(*common.NewResponse("Meaning(s):\n1. a\n"))
	if err != nil {
		t.Fatalf("SerializeResponse() error = %v", err)
	}
	if want := `{"output":"Meaning(s):\n1. a\n"}`; string(data) != want {
		t.Errorf("SerializeResponse() = %s, want %s", data, want)
	}

	var resp common.Response
	if err := s.DeserializeResponse(data, &resp); err != nil {
		t.Fatalf("DeserializeResponse() error = %v", err)
	}
	if resp.Output != "Meaning(s):\n1. a\n" {
		t.Errorf("Output = %q", resp.Output)
	}
}
