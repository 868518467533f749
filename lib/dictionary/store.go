package dictionary

import (
	"fmt"
	"strings"
	"sync"

	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("dictionary")

// Store is the file backed implementation of IDictionary.
type Store struct {
	mu    sync.Mutex
	path  string
	codec Codec
	words map[string][]string
}

// Open loads the dictionary from path and returns a store that persists to the same file.
// The codec is chosen from the file extension (see CodecFor).
// A missing or unparsable file is an error; the server treats it as fatal.
func Open(path string) (*Store, error) {
	codec := CodecFor(path)
	words, err := Load(path, codec)
	if err != nil {
		return nil, err
	}

	s := &Store{
		path:  path,
		codec: codec,
		words: words,
	}
	Logger.Infof("loaded %d words from %s (codec %s, fingerprint %s)", len(words), path, codec.Name(), s.Fingerprint())
	return s, nil
}

// NewStore creates a store from an in-memory map without reading the file at path.
// The map is copied. Save will create or replace the file.
func NewStore(path string, words map[string][]string) *Store {
	return &Store{
		path:  path,
		codec: CodecFor(path),
		words: cloneWords(words),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see dictionary.IDictionary)
// --------------------------------------------------------------------------

func (s *Store) GetMeaning(word string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if word == "" {
		return failure("No word entered! Please enter a word to look up.")
	}

	meanings, ok := s.words[word]
	if !ok {
		return notFound(word)
	}

	var sb strings.Builder
	sb.WriteString("Meaning(s):\n")
	for i, meaning := range meanings {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, strings.TrimSpace(meaning))
	}
	return Result{Output: sb.String()}
}

func (s *Store) AddNewWord(word, meaningsCSV string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if word == "" || meaningsCSV == "" {
		return failure("Missing word or meaning input(s)! Separate multiple meanings with commas, e.g. 'meaning_1, meaning_2'")
	}

	if _, ok := s.words[word]; ok {
		return failure(fmt.Sprintf("The word %q already exists in the dictionary", word))
	}

	s.words[word] = strings.Split(meaningsCSV, ",")
	return success("New word has been added. Query the word to view its meanings.")
}

func (s *Store) RemoveWord(word string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if word == "" {
		return failure("No word entered! Please enter a word to remove.")
	}

	if _, ok := s.words[word]; !ok {
		return notFound(word)
	}

	delete(s.words, word)
	return success(fmt.Sprintf("%q has been removed from the dictionary.", word))
}

func (s *Store) AddNewMeaning(word, newMeaning string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if word == "" || newMeaning == "" {
		return failure("Missing word or meaning input(s)!")
	}

	meanings, ok := s.words[word]
	if !ok {
		return failure(fmt.Sprintf("The word %q does not exist in the dictionary. Add it as a new word first.", word))
	}

	if indexOfFold(meanings, newMeaning) >= 0 {
		return failure(fmt.Sprintf("New meaning %q already exists for the word %q", newMeaning, word))
	}

	s.words[word] = append(meanings, newMeaning)
	return success(fmt.Sprintf("New meaning has been added for the word %q", word))
}

func (s *Store) UpdateMeaning(word, existingMeaning, newMeaning string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if word == "" || existingMeaning == "" || newMeaning == "" {
		return failure("Missing word, existing meaning or new meaning input(s)!")
	}

	meanings, ok := s.words[word]
	if !ok {
		return notFound(word)
	}

	// the new meaning is checked against every meaning, including the one being replaced
	if indexOfFold(meanings, newMeaning) >= 0 {
		return failure(fmt.Sprintf("New meaning %q already exists for the word %q", newMeaning, word))
	}

	idx := indexOfFold(meanings, strings.TrimSpace(existingMeaning))
	if idx < 0 {
		return failure(fmt.Sprintf("Existing meaning %q not found for the word %q", existingMeaning, word))
	}

	meanings[idx] = newMeaning
	return success(fmt.Sprintf("Meaning has been updated for the word %q", word))
}

func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.codec.Encode(s.words)
	if err != nil {
		return fmt.Errorf("failed to encode dictionary: %w", err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("unable to save changes to %s: %w", s.path, err)
	}
	Logger.Debugf("saved %d words to %s", len(s.words), s.path)
	return nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.words)
}

func (s *Store) Snapshot() map[string][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneWords(s.words)
}

func (s *Store) Fingerprint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Fingerprint(s.words)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func notFound(word string) Result {
	return failure(fmt.Sprintf("Word not found. The word %q does not exist or has been removed from the dictionary", word))
}

// indexOfFold returns the index of the first meaning equal to m under case folding, or -1
func indexOfFold(meanings []string, m string) int {
	for i, meaning := range meanings {
		if strings.EqualFold(meaning, m) {
			return i
		}
	}
	return -1
}

func cloneWords(words map[string][]string) map[string][]string {
	out := make(map[string][]string, len(words))
	for word, meanings := range words {
		out[word] = append([]string(nil), meanings...)
	}
	return out
}
