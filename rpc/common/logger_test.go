package common

import (
	"testing"

	"github.com/lni/dragonboat/v4/logger"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]logger.LogLevel{
		"debug":   logger.DEBUG,
		"INFO":    logger.INFO,
		"warn":    logger.WARNING,
		"warning": logger.WARNING,
		"error":   logger.ERROR,
	}
	for in, want := range tests {
		got, err := ParseLogLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLogLevel(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
	if _, err := ParseLogLevel("loud"); err == nil {
		t.Error("invalid level accepted")
	}
}

func TestInitLoggers(t *testing.T) {
	if err := InitLoggers("debug"); err != nil {
		t.Fatalf("InitLoggers() error = %v", err)
	}
	if err := InitLoggers("info"); err != nil {
		t.Fatalf("second InitLoggers() error = %v", err)
	}
	if err := InitLoggers("nope"); err == nil {
		t.Error("invalid level accepted")
	}
}
