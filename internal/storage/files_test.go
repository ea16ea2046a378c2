package storage

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/jwebster45206/dialogue-engine/pkg/storage"
	"github.com/jwebster45206/dialogue-engine/pkg/story"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const harborJSON = `{
  "start": "dock",
  "knots": {
    "dock": {"lines": [{"text": "Hello.", "tags": ["speaker:Rin"]}]}
  }
}`

const harborYAML = `start: dock
knots:
  dock:
    lines:
      - text: Hello.
        tags: ["speaker:Rin", "event:0"]
    choices:
      - text: Wave
        divert: END
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "scripts/harbor.json", harborJSON)
	writeFile(t, dir, "scripts/harbor.yaml", harborYAML)
	writeFile(t, dir, "scripts/broken.json", `{"start": "nowhere", "knots": {}}`)
	writeFile(t, dir, "sources/harbor.json", `{
  "name": "Harbor",
  "script": "harbor.json",
  "events": [{"name": "bell"}, {"name": "door", "fire_on_line_end": true}]
}`)
	writeFile(t, dir, "sources/harbor_yaml.yaml", "id: harbor-yaml\nscript: harbor.yaml\nevents:\n  - name: bell\n")
	writeFile(t, dir, "sources/broken.yml", "script: broken.json\n")
	writeFile(t, dir, "sources/notes.txt", "ignored")
	writeFile(t, dir, "portraits.yaml", `default: Narrator
portrait_sets:
  - character_name: Narrator
    neutral: narrator.png
  - character_name: Rin
    neutral: rin/neutral.png
    happy: rin/happy.png
`)
	return dir
}

func newTestFiles(t *testing.T, dir string) *FileStorage {
	return NewFileStorage(dir, slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
}

func TestFileStorage_ListSources(t *testing.T) {
	fs := newTestFiles(t, testDataDir(t))
	ids, err := fs.ListSources(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"broken", "harbor", "harbor_yaml"}, ids)
}

func TestFileStorage_ListSourcesMissingDir(t *testing.T) {
	fs := newTestFiles(t, t.TempDir())
	ids, err := fs.ListSources(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFileStorage_GetSource(t *testing.T) {
	fs := newTestFiles(t, testDataDir(t))
	ctx := context.Background()

	src, err := fs.GetSource(ctx, "harbor")
	require.NoError(t, err)
	assert.Equal(t, "harbor", src.ID, "id defaults to the file name")
	assert.Equal(t, "Harbor", src.Name)
	require.Len(t, src.Events, 2)
	assert.False(t, src.Events[0].FireOnLineEnd)
	assert.True(t, src.Events[1].FireOnLineEnd)
	assert.JSONEq(t, harborJSON, string(src.Compiled))
}

func TestFileStorage_GetSourceYAML(t *testing.T) {
	fs := newTestFiles(t, testDataDir(t))

	src, err := fs.GetSource(context.Background(), "harbor_yaml")
	require.NoError(t, err)
	assert.Equal(t, "harbor-yaml", src.ID)

	// The YAML script is compiled to JSON the interpreter can load.
	interp, err := story.Load(src.Compiled)
	require.NoError(t, err)
	text, tags, err := interp.Advance()
	require.NoError(t, err)
	assert.Equal(t, "Hello.", text)
	assert.Equal(t, []string{"speaker:Rin", "event:0"}, tags)
	assert.Len(t, interp.CurrentChoices(), 1)
}

func TestFileStorage_GetSourceErrors(t *testing.T) {
	fs := newTestFiles(t, testDataDir(t))
	ctx := context.Background()

	_, err := fs.GetSource(ctx, "nowhere")
	assert.Error(t, err)

	_, err = fs.GetSource(ctx, "broken")
	assert.ErrorIs(t, err, story.ErrUnknownKnot)
}

func TestFileStorage_GetScriptNotFound(t *testing.T) {
	fs := newTestFiles(t, testDataDir(t))
	_, err := fs.GetScript(context.Background(), "missing.json")
	assert.Error(t, err)
}

func TestFileStorage_GetPortraits(t *testing.T) {
	fs := newTestFiles(t, testDataDir(t))
	d, err := fs.GetPortraits(context.Background())
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "Narrator", d.Default)
	rin, ok := d.Lookup("Rin")
	require.True(t, ok)
	assert.Equal(t, "rin/happy.png", rin.Happy)
}

func TestFileStorage_GetPortraitsAbsent(t *testing.T) {
	fs := newTestFiles(t, t.TempDir())
	d, err := fs.GetPortraits(context.Background())
	require.NoError(t, err)
	assert.Nil(t, d, "missing portrait data is not an error")
}

func TestFileStorage_GetPortraitsInvalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "portraits.json", `{"portrait_sets": [{"character_name": "Rin"}, {"character_name": "Rin"}]}`)
	_, err := newTestFiles(t, dir).GetPortraits(context.Background())
	assert.Error(t, err)
}

func TestFileStorage_TranscriptsDisabled(t *testing.T) {
	fs := newTestFiles(t, t.TempDir())
	ctx := context.Background()
	assert.True(t, errors.Is(fs.SaveTranscript(ctx, nil), storage.ErrTranscriptsDisabled))
	_, err := fs.LoadTranscript(ctx, "x")
	assert.ErrorIs(t, err, storage.ErrTranscriptsDisabled)
	assert.ErrorIs(t, fs.DeleteTranscript(ctx, "x"), storage.ErrTranscriptsDisabled)
}
