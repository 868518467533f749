package server

import (
	"github.com/ValentinKolb/wordkv/lib/dictionary"
	"github.com/ValentinKolb/wordkv/rpc/common"
)

// IRPCServerAdapter is the interface for all RPC server adapters
// It is responsible for handling requests and responses
type IRPCServerAdapter interface {
	// Handle handles a request and returns the result of the dictionary operation.
	// Unknown commands must not touch the dictionary.
	Handle(req *common.Request, dict dictionary.IDictionary) dictionary.Result
}

// EventSink receives human-readable server events (connects, disconnects, admissions).
// Event must not block.
type EventSink interface {
	Event(message string)
}
