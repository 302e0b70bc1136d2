package dotenv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
# comment
VOICEBOT_ADDR=:9000
export VOICEBOT_LANGUAGE=de
QUOTED="hello world"
SINGLE='single quoted'
EMPTY=
NOEQUALS
  SPACED  =  trimmed
`
	pairs, err := parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := map[string]string{
		"VOICEBOT_ADDR":     ":9000",
		"VOICEBOT_LANGUAGE": "de",
		"QUOTED":            "hello world",
		"SINGLE":            "single quoted",
		"EMPTY":             "",
		"SPACED":            "trimmed",
	}
	for key, val := range want {
		if pairs[key] != val {
			t.Errorf("pairs[%q] = %q, want %q", key, pairs[key], val)
		}
	}
	if _, ok := pairs["NOEQUALS"]; ok {
		t.Error("line without = produced a pair")
	}
}

func TestLoadFileMissingIsNoError(t *testing.T) {
	if err := LoadFile(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("LoadFile on a missing file: %v", err)
	}
}

func TestLoadFileEnvironmentWins(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")
	err := os.WriteFile(file, []byte("DOTENV_TEST_SET=from-file\nDOTENV_TEST_NEW=fresh\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	t.Setenv("DOTENV_TEST_SET", "from-env")
	t.Setenv("DOTENV_TEST_NEW", "")
	os.Unsetenv("DOTENV_TEST_NEW")

	if err := LoadFile(file); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	defer os.Unsetenv("DOTENV_TEST_NEW")

	if got := os.Getenv("DOTENV_TEST_SET"); got != "from-env" {
		t.Errorf("existing variable overwritten: %q", got)
	}
	if got := os.Getenv("DOTENV_TEST_NEW"); got != "fresh" {
		t.Errorf("new variable = %q, want fresh", got)
	}
}
