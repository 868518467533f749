package client

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/wordkv/rpc/common"
)

// FieldSeparator separates the fields after the word in the interactive prompt,
// so meanings may contain spaces and commas
const FieldSeparator = "|"

// commandAliases maps short prompt commands to protocol commands
var commandAliases = map[string]common.CommandName{
	"get":         common.CmdGetMeaning,
	"add":         common.CmdAddNewWord,
	"remove":      common.CmdRemoveWord,
	"add-meaning": common.CmdAddNewMeaning,
	"update":      common.CmdUpdateMeaning,
}

// usage lists the accepted commands with their fields
const usage = `commands:
  get <word>
  add <word> | <meaning, meaning, ...>
  remove <word>
  add-meaning <word> | <new meaning>
  update <word> | <existing meaning> | <new meaning>
  help
  quit`

// lookupCommand resolves an alias or a protocol command name
func lookupCommand(name string) (common.CommandName, error) {
	if cmd, ok := commandAliases[strings.ToLower(name)]; ok {
		return cmd, nil
	}
	if cmd := common.CommandName(name); cmd.Valid() {
		return cmd, nil
	}
	return "", fmt.Errorf("unknown command %q", name)
}

// buildRequest creates the request for a command and its fields (word first)
func buildRequest(name string, fields []string) (*common.Request, error) {
	cmd, err := lookupCommand(name)
	if err != nil {
		return nil, err
	}

	want := map[common.CommandName]int{
		common.CmdGetMeaning:    1,
		common.CmdAddNewWord:    2,
		common.CmdRemoveWord:    1,
		common.CmdAddNewMeaning: 2,
		common.CmdUpdateMeaning: 3,
	}[cmd]
	if len(fields) != want {
		return nil, fmt.Errorf("%s expects %d field(s), got %d", cmd, want, len(fields))
	}

	switch cmd {
	case common.CmdGetMeaning:
		return common.NewGetMeaningRequest(fields[0]), nil
	case common.CmdAddNewWord:
		return common.NewAddNewWordRequest(fields[0], fields[1]), nil
	case common.CmdRemoveWord:
		return common.NewRemoveWordRequest(fields[0]), nil
	case common.CmdAddNewMeaning:
		return common.NewAddNewMeaningRequest(fields[0], fields[1]), nil
	default:
		return common.NewUpdateMeaningRequest(fields[0], fields[1], fields[2]), nil
	}
}

// parseLine parses one line of the interactive prompt, e.g. "update kiwi | fruit | green fruit".
// Empty fields are kept, the server reports them as missing input.
func parseLine(line string) (*common.Request, error) {
	line = strings.TrimSpace(line)
	name, rest, _ := strings.Cut(line, " ")

	var fields []string
	if rest = strings.TrimSpace(rest); rest != "" {
		for _, field := range strings.Split(rest, FieldSeparator) {
			fields = append(fields, strings.TrimSpace(field))
		}
	}
	return buildRequest(name, fields)
}
