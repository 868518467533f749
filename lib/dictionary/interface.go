package dictionary

import "strings"

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IDictionary is the interface of the shared word store.
// Domain failures (unknown word, duplicates, empty input) are reported in the
// returned Result and never as a Go error. Only persistence returns errors.
type IDictionary interface {
	// GetMeaning returns the numbered meanings of a word.
	GetMeaning(word string) Result
	// AddNewWord inserts a word whose meanings are given as a comma separated list.
	// The list is split literally on commas, without trimming or deduplication.
	AddNewWord(word, meaningsCSV string) Result
	// RemoveWord deletes a word with all its meanings.
	RemoveWord(word string) Result
	// AddNewMeaning appends a meaning unless it case-insensitively duplicates an existing one.
	AddNewMeaning(word, newMeaning string) Result
	// UpdateMeaning replaces the first meaning matching existingMeaning (case-insensitive, trimmed)
	// with newMeaning, keeping its position.
	UpdateMeaning(word, existingMeaning, newMeaning string) Result
	// Save writes the whole dictionary to the backing file, replacing its content.
	Save() error
	// Len returns the number of words.
	Len() int
	// Snapshot returns a deep copy of the dictionary.
	Snapshot() map[string][]string
	// Fingerprint returns a digest of the current content (see Fingerprint).
	Fingerprint() string
}

// --------------------------------------------------------------------------
// Result Type
// --------------------------------------------------------------------------

const (
	// PrefixSuccess tags the output of a successful mutation.
	PrefixSuccess = "SUCCESS:"
	// PrefixError tags the output of a failed operation.
	PrefixError = "ERROR:"
)

// Result is the outcome of a dictionary operation.
type Result struct {
	Output  string // human-readable output sent to the client
	Changed bool   // true if the operation mutated the dictionary
}

// IsError reports whether the result is a domain error.
func (r Result) IsError() bool {
	return strings.HasPrefix(r.Output, PrefixError)
}

func success(msg string) Result {
	return Result{Output: PrefixSuccess + " " + msg, Changed: true}
}

func failure(msg string) Result {
	return Result{Output: PrefixError + " " + msg}
}
