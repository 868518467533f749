package serve

import (
	"testing"

	"github.com/spf13/viper"

	"github.com/ValentinKolb/wordkv/rpc/common"
)

func TestBuildConfig(t *testing.T) {
	viper.Reset()
	viper.Set("persist", "always")
	viper.Set("log-level", "debug")
	viper.Set("tcp-nodelay", true)
	defer viper.Reset()

	config, err := buildConfig([]string{"3000", "4", "dictionary.json"})
	if err != nil {
		t.Fatalf("buildConfig() error = %v", err)
	}
	if config.Endpoint != ":3000" || config.PoolSize != 4 || config.DictionaryFile != "dictionary.json" {
		t.Errorf("buildConfig() = %+v", config)
	}
	if config.PersistMode != common.PersistAlways {
		t.Errorf("PersistMode = %s, want always", config.PersistMode)
	}
	if !config.TCP.TCPNoDelay {
		t.Error("TCPNoDelay not set")
	}
}

func TestBuildConfigErrors(t *testing.T) {
	viper.Reset()
	viper.Set("persist", "mutation")
	viper.Set("log-level", "info")
	defer viper.Reset()

	tests := []struct {
		name string
		args []string
	}{
		{name: "port not a number", args: []string{"http", "4", "d.json"}},
		{name: "pool size not a number", args: []string{"3000", "four", "d.json"}},
		{name: "pool size zero", args: []string{"3000", "0", "d.json"}},
		{name: "pool size too large", args: []string{"3000", "256", "d.json"}},
		{name: "empty file", args: []string{"3000", "2", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := buildConfig(tt.args); err == nil {
				t.Errorf("buildConfig(%v) expected error", tt.args)
			}
		})
	}

	viper.Set("persist", "sometimes")
	if _, err := buildConfig([]string{"3000", "2", "d.json"}); err == nil {
		t.Error("invalid persist mode accepted")
	}
}

func TestServeArgCount(t *testing.T) {
	if err := ServeCmd.Args(ServeCmd, []string{"3000", "2"}); err == nil {
		t.Error("two arguments accepted")
	}
	if err := ServeCmd.Args(ServeCmd, []string{"3000", "2", "d.json"}); err != nil {
		t.Errorf("three arguments rejected: %v", err)
	}
}
