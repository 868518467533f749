package server

import (
	"github.com/ValentinKolb/wordkv/lib/dictionary"
	"github.com/ValentinKolb/wordkv/rpc/common"
)

// NewDictionaryServerAdapter creates the adapter that maps requests to dictionary operations
func NewDictionaryServerAdapter() IRPCServerAdapter {
	return &dictionaryServerAdapterImpl{}
}

type dictionaryServerAdapterImpl struct{}

func (adapter *dictionaryServerAdapterImpl) Handle(req *common.Request, dict dictionary.IDictionary) dictionary.Result {
	// Check for nil dictionary
	if dict == nil {
		return dictionary.Result{Output: dictionary.PrefixError + " dictionary is not available"}
	}

	// Missing fields decode to "" and are rejected by the dictionary itself
	switch req.Command {
	case common.CmdGetMeaning:
		return dict.GetMeaning(req.Word)
	case common.CmdAddNewWord:
		return dict.AddNewWord(req.Word, req.Meaning)
	case common.CmdRemoveWord:
		return dict.RemoveWord(req.Word)
	case common.CmdAddNewMeaning:
		return dict.AddNewMeaning(req.Word, req.NewMeaning)
	case common.CmdUpdateMeaning:
		return dict.UpdateMeaning(req.Word, req.ExistingMeaning, req.NewMeaning)
	default:
		return dictionary.Result{Output: common.UnknownCommandOutput}
	}
}
