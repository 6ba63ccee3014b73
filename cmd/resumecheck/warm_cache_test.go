package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-checker/internal/parser"
)

func TestJobDescriptionFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"backend.txt", "data.MD", "logo.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.txt"), 0o755))

	files, err := jobDescriptionFiles(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "backend.txt"),
		filepath.Join(dir, "data.MD"),
	}, files)

	_, err = jobDescriptionFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestEmbeddableTexts(t *testing.T) {
	jd := parser.NewJobDescriptionParser(100).Parse("We ship APIs.\nRESPONSIBILITIES\nBuild services\nREQUIREMENTS\nBuild services", "")

	texts := embeddableTexts(jd)

	assert.Equal(t, []string{jd.RawText, "We ship APIs.", "Build services"}, texts)
}
