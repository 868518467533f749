package server

import (
	"path/filepath"
	"testing"

	"github.com/ValentinKolb/wordkv/lib/dictionary"
	"github.com/ValentinKolb/wordkv/rpc/common"
)

func TestDictionaryAdapter(t *testing.T) {
	tests := []struct {
		name        string
		req         *common.Request
		wantPrefix  string
		wantChanged bool
	}{
		{name: "get", req: common.NewGetMeaningRequest("apple"), wantPrefix: "Meaning(s):"},
		{name: "add word", req: common.NewAddNewWordRequest("pear", "fruit"), wantPrefix: dictionary.PrefixSuccess, wantChanged: true},
		{name: "remove", req: common.NewRemoveWordRequest("apple"), wantPrefix: dictionary.PrefixSuccess, wantChanged: true},
		{name: "add meaning", req: common.NewAddNewMeaningRequest("apple", "red"), wantPrefix: dictionary.PrefixSuccess, wantChanged: true},
		{name: "update", req: common.NewUpdateMeaningRequest("apple", "fruit", "tree"), wantPrefix: dictionary.PrefixSuccess, wantChanged: true},
		{name: "missing fields", req: &common.Request{Command: common.CmdAddNewWord}, wantPrefix: dictionary.PrefixError},
		{name: "unknown command", req: &common.Request{Command: "removeEverything"}, wantPrefix: common.UnknownCommandOutput},
	}

	adapter := NewDictionaryServerAdapter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dict := dictionary.NewStore(filepath.Join(t.TempDir(), "d.json"), map[string][]string{"apple": {"fruit"}})
			before := dict.Fingerprint()

			r := adapter.Handle(tt.req, dict)
			if len(r.Output) < len(tt.wantPrefix) || r.Output[:len(tt.wantPrefix)] != tt.wantPrefix {
				t.Errorf("Handle() output = %q, want prefix %q", r.Output, tt.wantPrefix)
			}
			if r.Changed != tt.wantChanged {
				t.Errorf("Handle() changed = %v, want %v", r.Changed, tt.wantChanged)
			}
			if !tt.wantChanged && dict.Fingerprint() != before {
				t.Error("dictionary changed")
			}
		})
	}

	if r := adapter.Handle(common.NewGetMeaningRequest("apple"), nil); !r.IsError() {
		t.Errorf("Handle() with nil dictionary = %q, want error", r.Output)
	}
}
