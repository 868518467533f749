// Package serializer converts the wire records of the dictionary protocol
// (common.Request, common.Response) to and from the bytes carried in a frame.
//
// The protocol carries JSON objects, so the only implementation is the JSON serializer.
// The interface keeps the server and client independent of the encoding.
//
// Thread Safety:
//
//	Serializers are stateless and safe for concurrent use.
package serializer
