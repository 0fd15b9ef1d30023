package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ivlev/annokit/internal/config"
	"github.com/ivlev/annokit/internal/container"
	"github.com/ivlev/annokit/internal/registry"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const feretFixture = "00001 10 20 30 20 20 40\n00002 11 21 31 21 21 41\n"

func TestPatternsCommand(t *testing.T) {
	out, _, err := run(t, "patterns")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, registry.Default().Patterns(), lines)
}

func TestPatternsFromConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "annokit.toml")
	writeFile(t, cfgPath, `
[[containers]]
pattern = "*.labels"
format = "json"
`)

	out, _, err := run(t, "--config", cfgPath, "patterns")
	require.NoError(t, err)
	assert.Equal(t, "*.labels\n", out)
}

func TestInspectFeret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faces.feret")
	writeFile(t, path, feretFixture)

	out, stderr, err := run(t, "inspect", path)
	require.NoError(t, err)
	assert.Contains(t, out, path+" (feret): 2 records, 6 labels")
	assert.Contains(t, out, "00001.bmp")
	assert.Contains(t, out, "00002.bmp")
	assert.Contains(t, stderr, "annotations loaded")
}

func TestInspectFileList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "images.txt")
	writeFile(t, path, "a.png\n\nsub/b.png\n")

	out, _, err := run(t, "--log-level", "error", "inspect", path)
	require.NoError(t, err)
	assert.Contains(t, out, "(filelist): 2 records, 0 labels")
	assert.Contains(t, out, "sub/b.png")
}

func TestInspectUnregistered(t *testing.T) {
	_, _, err := run(t, "inspect", "labels.xyz")
	require.ErrorIs(t, err, container.ErrConfiguration)
}

func TestInspectMissingMedia(t *testing.T) {
	path := filepath.Join(t.TempDir(), "images.txt")
	writeFile(t, path, "missing.png\n")

	out, _, err := run(t, "inspect", "--check-media", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 media references")
	assert.Contains(t, out, "error:")
}

func TestInspectCheckMedia(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 4, 3))))
	require.NoError(t, f.Close())

	path := filepath.Join(dir, "images.txt")
	writeFile(t, path, "a.png\n")
	out, _, err := run(t, "inspect", "--check-media", path)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "a.png"))
	assert.Contains(t, out, "4x3")

	writeFile(t, path, "a.png\nscan.pdf\n")
	out, _, err = run(t, "inspect", "--check-media", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 media references")
	assert.Contains(t, out, "4x3")
}

func TestConfigShowIsLoadable(t *testing.T) {
	out, _, err := run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "[[containers]]")

	path := filepath.Join(t.TempDir(), "annokit.toml")
	writeFile(t, path, out)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Containers, len(registry.DefaultRegistrations))
	assert.Equal(t, "*.json", cfg.Containers[0].Pattern)
	assert.Equal(t, "json", cfg.Containers[0].Format)
	assert.Positive(t, cfg.Workers)
}

func TestConvertFeretToJSON(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src", "faces.feret")
	writeFile(t, src, feretFixture)
	outDir := filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(outDir, 0o755))

	out, _, err := run(t, "convert", "--to", "json", "--out-dir", outDir, src)
	require.NoError(t, err)

	dst := filepath.Join(outDir, "faces.json")
	assert.Contains(t, out, "-> "+dst+" (2 records)")

	c, err := registry.Default().Create(dst)
	require.NoError(t, err)
	sess, err := c.Load(dst)
	require.NoError(t, err)
	require.Len(t, sess.Annotations, 2)
	assert.Equal(t, "../src/00001.bmp", sess.Annotations[0].Filename)
	assert.Equal(t, filepath.Join(root, "src", "00001.bmp"), filepath.Clean(sess.FullPath(sess.Annotations[0].Filename)))

	x, y, ok := sess.Annotations[1].Annotations[2].Point()
	require.True(t, ok)
	assert.Equal(t, 21.0, x)
	assert.Equal(t, 41.0, y)
}

func TestConvertJSONToYAMLInPlace(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")
	writeFile(t, a, `[{"filename": "a.png", "type": "image", "annotations": [], "source": "cam1"}]`)
	writeFile(t, b, `[]`)

	_, _, err := run(t, "convert", "--to", ".yaml", "-w", "2", a, b)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "a.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "filename: a.png")
	assert.Contains(t, string(data), "source: cam1")

	data, err = os.ReadFile(filepath.Join(dir, "b.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestConvertRejectsBadTargets(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.json")
	writeFile(t, src, `[]`)

	_, _, err := run(t, "convert", "--to", "xyz", src)
	require.ErrorIs(t, err, container.ErrConfiguration)
	assert.NoFileExists(t, filepath.Join(dir, "a.xyz"))

	_, _, err = run(t, "convert", "--to", "json", src)
	require.ErrorIs(t, err, container.ErrInvalidArgument)

	_, stderr, err := run(t, "convert", "--to", "feret", src)
	require.ErrorIs(t, err, container.ErrUnsupported)
	assert.NotContains(t, stderr, "annotations loaded", "source must not be loaded for a read-only target")
	assert.NoFileExists(t, filepath.Join(dir, "a.feret"))
}
