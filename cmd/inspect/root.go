package inspect

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	cmdUtil "github.com/ValentinKolb/wordkv/cmd/util"
	"github.com/ValentinKolb/wordkv/lib/dictionary"
)

var (
	// InspectCmd prints the content of a dictionary file
	InspectCmd = &cobra.Command{
		Use:   "inspect <dictionary-file>",
		Short: "Print the content of a dictionary file",
		Long: `Load a dictionary file the same way the server does and print the number of words,
the fingerprint and all words with their meanings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			return inspect(cmd.OutOrStdout(), args[0], format)
		},
	}
)

func init() {
	InspectCmd.Flags().String("format", "text", cmdUtil.WrapString("Output format (text, json, yaml)"))
}

// summary is the json representation of a dictionary file
type summary struct {
	File        string              `json:"file"`
	Codec       string              `json:"codec"`
	Words       int                 `json:"words"`
	Fingerprint string              `json:"fingerprint"`
	Dictionary  map[string][]string `json:"dictionary"`
}

func inspect(w io.Writer, path, format string) error {
	store, err := dictionary.Open(path)
	if err != nil {
		return err
	}

	s := summary{
		File:        path,
		Codec:       dictionary.CodecFor(path).Name(),
		Words:       store.Len(),
		Fingerprint: store.Fingerprint(),
		Dictionary:  store.Snapshot(),
	}

	switch format {
	case "text":
		return writeText(w, s)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(s)
	case "yaml":
		data, err := yaml.Marshal(toMapSlice(s))
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("invalid format %q (expected text, json or yaml)", format)
	}
}

func writeText(w io.Writer, s summary) error {
	if _, err := fmt.Fprintf(w, "File:        %s\nCodec:       %s\nWords:       %d\nFingerprint: %s\n",
		s.File, s.Codec, s.Words, s.Fingerprint); err != nil {
		return err
	}
	for _, word := range sortedWords(s.Dictionary) {
		if _, err := fmt.Fprintf(w, "\n%s\n", word); err != nil {
			return err
		}
		for i, meaning := range s.Dictionary[word] {
			if _, err := fmt.Fprintf(w, "  %d. %s\n", i+1, meaning); err != nil {
				return err
			}
		}
	}
	return nil
}

// toMapSlice keeps the field order and sorts the words for yaml output
func toMapSlice(s summary) yaml.MapSlice {
	words := make(yaml.MapSlice, 0, len(s.Dictionary))
	for _, word := range sortedWords(s.Dictionary) {
		words = append(words, yaml.MapItem{Key: word, Value: s.Dictionary[word]})
	}
	return yaml.MapSlice{
		{Key: "file", Value: s.File},
		{Key: "codec", Value: s.Codec},
		{Key: "words", Value: s.Words},
		{Key: "fingerprint", Value: s.Fingerprint},
		{Key: "dictionary", Value: words},
	}
}

func sortedWords(dict map[string][]string) []string {
	words := make([]string, 0, len(dict))
	for word := range dict {
		words = append(words, word)
	}
	sort.Strings(words)
	return words
}
