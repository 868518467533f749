package client

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ValentinKolb/wordkv/lib/dictionary"
	"github.com/ValentinKolb/wordkv/rpc/client"
	"github.com/ValentinKolb/wordkv/rpc/common"
	"github.com/ValentinKolb/wordkv/rpc/serializer"
	"github.com/ValentinKolb/wordkv/rpc/server"
)

// TestPrompt runs a scripted interactive session against a live server
func TestPrompt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionary.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))
	dict, err := dictionary.Open(path)
	require.NoError(t, err)

	s, err := server.NewServer(common.ServerConfig{
		Endpoint:       "127.0.0.1:0",
		PoolSize:       1,
		DictionaryFile: path,
		PersistMode:    common.PersistOnMutation,
		LogLevel:       "info",
	}, dict, serializer.NewJSONSerializer(), nil)
	require.NoError(t, err)
	require.NoError(t, s.Listen())
	go func() { _ = s.Serve() }()
	defer s.Close()

	host, portStr, err := net.SplitHostPort(s.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	var out bytes.Buffer
	output, status := consoleSinks(&out, &out, false)
	c, err := client.Connect(context.Background(), common.ClientConfig{Host: host, Port: port}, serializer.NewJSONSerializer(), output, status)
	require.NoError(t, err)
	defer c.Close()

	script := strings.Join([]string{
		"add kiwi | green fruit, tropical",
		"get kiwi",
		"",
		"bogus",
		"help",
		"quit",
		"get kiwi",
	}, "\n")
	require.NoError(t, prompt(c, strings.NewReader(script), &out, output))

	text := out.String()
	assert.Contains(t, text, "SUCCESS:")
	assert.Contains(t, text, "1. green fruit\n2. tropical")
	assert.Contains(t, text, `unknown command "bogus"`)
	assert.Contains(t, text, "add-meaning <word> | <new meaning>")
	assert.Equal(t, 1, strings.Count(text, "Meaning(s):"), "commands after quit must not run")
}
