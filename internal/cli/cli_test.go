package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docshuffle/internal/demo"
	"github.com/dgallion1/docshuffle/internal/model"
	"github.com/dgallion1/docshuffle/internal/render"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SHUFFLE_SEED", "")
	t.Setenv("LOG_LEVEL", "warn")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func decode(t *testing.T, out string) *model.Node {
	t.Helper()
	doc, err := demo.Schema().NodeFromJSON([]byte(out))
	require.NoError(t, err)
	require.NoError(t, demo.Schema().Check(doc))
	return doc
}

func sortedText(n *model.Node) string {
	r := []rune(n.TextContent())
	slices.Sort(r)
	return string(r)
}

func TestShuffleCmd_DemoIsDeterministicForSeed(t *testing.T) {
	first, err := runCLI(t, "shuffle", "--seed", "7", "--format", "json")
	require.NoError(t, err)
	second, err := runCLI(t, "shuffle", "--seed", "7", "--format", "json")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	doc := decode(t, first)
	assert.Equal(t, "1234", sortedText(doc))
}

func TestShuffleCmd_SeedFromEnvironment(t *testing.T) {
	flagged, err := runCLI(t, "shuffle", "--seed", "42", "--format", "json")
	require.NoError(t, err)

	t.Setenv("SHUFFLE_SEED", "42")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"shuffle", "--format", "json"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, flagged, out.String())
}

func TestShuffleCmd_HTMLFragment(t *testing.T) {
	out, err := runCLI(t, "shuffle", "--seed", "1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, `<div class="ProseMirror">`), out)
	for _, text := range []string{">1<", ">2<", ">3<", ">4<"} {
		assert.Contains(t, out, text)
	}
}

func TestShuffleCmd_JSONFileAsPage(t *testing.T) {
	path := writeFile(t, "boxes.json", demo.Content)

	out, err := runCLI(t, "shuffle", path, "--format", "page", "--seed", "3")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>boxes</title>")
	assert.Contains(t, out, `class="ProseMirror"`)
}

func TestShuffleCmd_MarkdownIsImported(t *testing.T) {
	path := writeFile(t, "notes.md", []byte("# Alpha\n\npara one\n\n## Beta\n\npara two\n"))

	out, err := runCLI(t, "shuffle", path, "--format", "json", "--seed", "5")
	require.NoError(t, err)

	doc := decode(t, out)
	assert.Equal(t, "doc", doc.Type().Name)
	text := doc.TextContent()
	for _, want := range []string{"Alpha", "para one", "Beta", "para two"} {
		assert.Contains(t, text, want)
	}
}

func TestValidateCmd_SplitsLongParagraphs(t *testing.T) {
	path := writeFile(t, "long.txt", []byte("Alpha beta. Gamma delta. Epsilon zeta.\n"))

	out, err := runCLI(t, "validate", "--max-child-words", "2", path)
	require.NoError(t, err)
	assert.Contains(t, out, "3 children")

	out, err = runCLI(t, "validate", "--max-child-words", "0", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 children")
}

func TestShuffleCmd_DOMInput(t *testing.T) {
	doc, err := demo.Document()
	require.NoError(t, err)
	var page bytes.Buffer
	require.NoError(t, render.Page(&page, doc, "demo"))
	path := writeFile(t, "editor.html", page.Bytes())

	out, err := runCLI(t, "shuffle", "--dom", path, "--format", "json", "--seed", "9")
	require.NoError(t, err)

	shuffled := decode(t, out)
	assert.Equal(t, "1234", sortedText(shuffled))
	assert.Equal(t, doc.Content().Size(), shuffled.Content().Size())
}

func TestShuffleCmd_RepeatedPasses(t *testing.T) {
	out, err := runCLI(t, "shuffle", "--times", "5", "--seed", "11", "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, "1234", sortedText(decode(t, out)))
}

func TestShuffleCmd_OutFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.html")

	out, err := runCLI(t, "shuffle", "--out", dest)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<div class="ProseMirror">`)
}

func TestShuffleCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad format", []string{"shuffle", "--format", "xml"}, "--format"},
		{"zero passes", []string{"shuffle", "--times", "0"}, "--times"},
		{"unsupported file", []string{"shuffle", "notes.rtf"}, "unsupported file extension"},
		{"missing file", []string{"shuffle", "does-not-exist.json"}, "does-not-exist.json"},
		{"bad log format", []string{"--log-format", "xml", "shuffle"}, "--log-format"},
		{"bad log level", []string{"--log-level", "loud", "shuffle"}, "LOG_LEVEL"},
		{"too many args", []string{"shuffle", "a.json", "b.json"}, "accepts at most 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateCmd_Demo(t *testing.T) {
	path := writeFile(t, "demo.json", demo.Content)

	out, err := runCLI(t, "validate", path)
	require.NoError(t, err)
	assert.Equal(t, "ok: 1 parents, 2 childparents, 4 children, 4 text nodes, size 18\n", out)
}

func TestValidateCmd_WrongRoot(t *testing.T) {
	path := writeFile(t, "parent.json", []byte(`{"type":"parent","attrs":{"color":"red"}}`))

	_, err := runCLI(t, "validate", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidContent)
}

func TestShuffleCmd_JSONWithWrongRoot(t *testing.T) {
	path := writeFile(t, "parent.json", []byte(`{"type":"parent","attrs":{"color":"red"}}`))

	out, err := runCLI(t, "shuffle", path, "--format", "json")
	require.ErrorIs(t, err, model.ErrInvalidContent)
	assert.Empty(t, out)
}

func TestValidateCmd_MissingAttr(t *testing.T) {
	path := writeFile(t, "bad.json", []byte(`{"type":"doc","content":[{"type":"parent"}]}`))

	_, err := runCLI(t, "validate", path)
	assert.ErrorIs(t, err, model.ErrMissingAttr)
}

func TestNewShuffleCmd(t *testing.T) {
	cmd := newShuffleCmd(&app{})

	assert.Equal(t, "shuffle [file]", cmd.Use)
	assert.Equal(t, shuffleLongDescription, cmd.Long)
	for _, name := range []string{"seed", "format", "out", "dom", "times"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}

func TestPageTitle(t *testing.T) {
	assert.Equal(t, "Shuffle", pageTitle(""))
	assert.Equal(t, "report", pageTitle("/tmp/report.html"))
}
