package scribe

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseEnvFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "env")
	writeTestFile(t, f, `
# build settings
APP_ENV=prod
PATH_ADD=/opt/bin # not a comment in the value? it is kept
COLOR=#ff0000

EMPTY=
`)

	got, err := ParseEnvFile(f)
	if err != nil {
		t.Fatalf("parse env file: %v", err)
	}

	want := []EnvVar{
		{Key: "APP_ENV", Value: "prod"},
		{Key: "PATH_ADD", Value: "/opt/bin # not a comment in the value? it is kept"},
		{Key: "COLOR", Value: "#ff0000"},
		{Key: "EMPTY", Value: ""},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseEnvFileErrors(t *testing.T) {
	for _, test := range []struct {
		name    string
		content string
	}{
		{"no equal sign", "JUSTAKEY\n"},
		{"empty key", "=value\n"},
	} {
		f := filepath.Join(t.TempDir(), "env")
		writeTestFile(t, f, test.content)

		if _, err := ParseEnvFile(f); err == nil {
			t.Errorf("%s: parse did not fail", test.name)
		}
	}
}
