package dictionary

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"
)

// --------------------------------------------------------------------------
// Codecs
// --------------------------------------------------------------------------

// Codec converts the dictionary to and from the bytes of the persisted file.
// The persisted form is always a JSON object mapping a word to an array of meanings.
type Codec interface {
	Encode(words map[string][]string) ([]byte, error)
	Decode(data []byte) (map[string][]string, error)
	// Name returns the name of the codec (e.g. "json", "json+zstd")
	Name() string
}

// CodecFor selects the codec for a file path: ".zst" files are zstd-compressed JSON,
// everything else is plain JSON.
func CodecFor(path string) Codec {
	if strings.HasSuffix(path, ".zst") {
		return zstdCodec{}
	}
	return jsonCodec{}
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Encode(words map[string][]string) ([]byte, error) {
	return json.Marshal(words)
}

func (jsonCodec) Decode(data []byte) (map[string][]string, error) {
	var words map[string][]string
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, err
	}
	if words == nil {
		// "null" is valid JSON but not a dictionary
		return nil, fmt.Errorf("content is not a JSON object")
	}
	return words, nil
}

var (
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
)

type zstdCodec struct{}

func (zstdCodec) Name() string { return "json+zstd" }

func (zstdCodec) Encode(words map[string][]string) ([]byte, error) {
	data, err := jsonCodec{}.Encode(words)
	if err != nil {
		return nil, err
	}
	return zstdEncoder.EncodeAll(data, make([]byte, 0, len(data))), nil
}

func (zstdCodec) Decode(data []byte) (map[string][]string, error) {
	raw, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	return jsonCodec{}.Decode(raw)
}

// --------------------------------------------------------------------------
// Load / Write
// --------------------------------------------------------------------------

// Load reads and decodes a dictionary file. Whitespace around every meaning is trimmed
// and words without meanings are dropped.
func Load(path string, codec Codec) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read dictionary file %q: %w", path, err)
	}

	words, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse dictionary file %q: %w", path, err)
	}

	for word, meanings := range words {
		if len(meanings) == 0 {
			Logger.Warningf("dropping word %q from %s: no meanings", word, path)
			delete(words, word)
			continue
		}
		for i := range meanings {
			meanings[i] = strings.TrimSpace(meanings[i])
		}
	}
	return words, nil
}

// writeFileAtomic replaces path with data by writing a temporary file in the same
// directory and renaming it over the target
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	cleanup := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

// --------------------------------------------------------------------------
// Fingerprint
// --------------------------------------------------------------------------

// Fingerprint returns the hex encoded blake3 digest of the canonical JSON encoding of words.
// Two dictionaries with the same words and the same ordered meanings have the same fingerprint.
func Fingerprint(words map[string][]string) string {
	// json.Marshal sorts map keys, which makes the encoding canonical
	data, err := json.Marshal(words)
	if err != nil {
		return ""
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
