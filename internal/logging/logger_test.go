package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug": zerolog.DebugLevel, "DEBUG": zerolog.DebugLevel, " warn ": zerolog.WarnLevel,
		"error": zerolog.ErrorLevel, "info": zerolog.InfoLevel, "": zerolog.InfoLevel, "bogus": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInitLogger_PlainText(t *testing.T) {
	prev := log.Logger
	defer func() { log.Logger = prev }()

	var buf bytes.Buffer
	InitLogger(&buf)
	log.Info().Str("k", "v").Msg("hello")
	out := buf.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "k=v") {
		t.Fatalf("unexpected output %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("output should not be colored: %q", out)
	}
}
