package common

// --------------------------------------------------------------------------
// Command Names
// --------------------------------------------------------------------------

// CommandName is the value of the "command" field of a request
type CommandName string

const (
	CmdGetMeaning    CommandName = "getMeaning"
	CmdAddNewWord    CommandName = "addNewWord"
	CmdRemoveWord    CommandName = "removeWord"
	CmdAddNewMeaning CommandName = "addNewMeaning"
	CmdUpdateMeaning CommandName = "updateMeaning"
)

// Commands lists all commands understood by the server
var Commands = []CommandName{CmdGetMeaning, CmdAddNewWord, CmdRemoveWord, CmdAddNewMeaning, CmdUpdateMeaning}

// Valid reports whether c is one of the known commands
func (c CommandName) Valid() bool {
	for _, known := range Commands {
		if c == known {
			return true
		}
	}
	return false
}

func (c CommandName) String() string {
	return string(c)
}

// --------------------------------------------------------------------------
// Message Structures
// --------------------------------------------------------------------------

// Request is the JSON object sent by a client.
// Which fields are used depends on the command.
type Request struct {
	Command CommandName `json:"command"`

	Word            string `json:"word"`                      // Used for: all commands
	Meaning         string `json:"meaning,omitempty"`         // Used for: addNewWord (comma separated meanings)
	NewMeaning      string `json:"newMeaning,omitempty"`      // Used for: addNewMeaning, updateMeaning
	ExistingMeaning string `json:"existingMeaning,omitempty"` // Used for: updateMeaning
}

// Response is the JSON object sent back by the server.
// Output starts with "SUCCESS:" or "ERROR:" or is a numbered list of meanings.
type Response struct {
	Output string `json:"output"`
}

// UnknownCommandOutput is returned for requests with an unrecognized command
const UnknownCommandOutput = "ERROR: Unknown command"

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewGetMeaningRequest creates a new getMeaning request
func NewGetMeaningRequest(word string) *Request {
	return &Request{
		Command: CmdGetMeaning,
		Word:    word,
	}
}

// NewAddNewWordRequest creates a new addNewWord request, meanings is a comma separated list
func NewAddNewWordRequest(word, meanings string) *Request {
	return &Request{
		Command: CmdAddNewWord,
		Word:    word,
		Meaning: meanings,
	}
}

// NewRemoveWordRequest creates a new removeWord request
func NewRemoveWordRequest(word string) *Request {
	return &Request{
		Command: CmdRemoveWord,
		Word:    word,
	}
}

// NewAddNewMeaningRequest creates a new addNewMeaning request
func NewAddNewMeaningRequest(word, newMeaning string) *Request {
	return &Request{
		Command:    CmdAddNewMeaning,
		Word:       word,
		NewMeaning: newMeaning,
	}
}

// NewUpdateMeaningRequest creates a new updateMeaning request
func NewUpdateMeaningRequest(word, existingMeaning, newMeaning string) *Request {
	return &Request{
		Command:         CmdUpdateMeaning,
		Word:            word,
		ExistingMeaning: existingMeaning,
		NewMeaning:      newMeaning,
	}
}

// NewResponse creates a new response
func NewResponse(output string) *Response {
	return &Response{Output: output}
}
