package screenshots

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"browser-tool/internal/domain/entity"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	buf := new(bytes.Buffer)
	require.NoError(t, imaging.Encode(buf, imaging.New(w, h, color.Black), imaging.PNG))
	return buf.Bytes()
}

func fixedStore(t *testing.T, cfg Config) (*FileStore, string) {
	workspace := t.TempDir()
	store, err := NewFileStore(workspace, cfg)
	require.NoError(t, err)
	store.now = func() time.Time { return time.Unix(1700000000, 0) }
	return store, workspace
}

func TestNewFileStore_CreatesDir(t *testing.T) {
	workspace := t.TempDir()

	store, err := NewFileStore(workspace, Config{})
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(workspace, DirName))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(workspace, DirName), store.Dir())
}

func TestFileStore_SaveReturnsRelativePath(t *testing.T) {
	store, workspace := fixedStore(t, Config{})
	data := pngBytes(t, 10, 10)

	rel, err := store.Save(context.Background(), &entity.Screenshot{Data: data, Format: "png"})
	require.NoError(t, err)
	assert.Equal(t, "screenshots/screenshot_1700000000.png", rel)

	written, err := os.ReadFile(filepath.Join(workspace, rel))
	require.NoError(t, err)
	assert.Equal(t, data, written)
}

func TestFileStore_SameSecondDoesNotOverwrite(t *testing.T) {
	store, _ := fixedStore(t, Config{})
	shot := &entity.Screenshot{Data: pngBytes(t, 4, 4)}

	first, err := store.Save(context.Background(), shot)
	require.NoError(t, err)
	second, err := store.Save(context.Background(), shot)
	require.NoError(t, err)
	third, err := store.Save(context.Background(), shot)
	require.NoError(t, err)

	assert.Equal(t, "screenshots/screenshot_1700000000.png", first)
	assert.Equal(t, "screenshots/screenshot_1700000000_1.png", second)
	assert.Equal(t, "screenshots/screenshot_1700000000_2.png", third)
}

func TestFileStore_Downscale(t *testing.T) {
	store, workspace := fixedStore(t, Config{MaxWidth: 100})

	rel, err := store.Save(context.Background(), &entity.Screenshot{Data: pngBytes(t, 400, 200)})
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(workspace, rel))
	require.NoError(t, err)
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestFileStore_RejectsEmpty(t *testing.T) {
	store, _ := fixedStore(t, Config{})

	_, err := store.Save(context.Background(), &entity.Screenshot{})
	assert.Error(t, err)
}
