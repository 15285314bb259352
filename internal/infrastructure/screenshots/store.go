package screenshots

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"time"

	"browser-tool/internal/application/port/output"
	"browser-tool/internal/domain/entity"

	"github.com/disintegration/imaging"
)

var _ output.ScreenshotStore = (*FileStore)(nil)

const DirName = "screenshots"

// maxSuffix bounds the collision search within a single second.
const maxSuffix = 1000

type Config struct {
	// MaxWidth downscales wider screenshots, keeping the aspect ratio. Zero keeps the original size.
	MaxWidth int
}

// FileStore writes screenshots under {workspace}/screenshots as
// screenshot_{unix}.png, adding _{n} when that name is already taken.
type FileStore struct {
	workspace string
	dir       string
	cfg       Config
	now       func() time.Time
}

// NewFileStore creates the screenshots directory right away.
func NewFileStore(workspace string, cfg Config) (*FileStore, error) {
	abs, err := filepath.Abs(workspace)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace %q: %w", workspace, err)
	}

	dir := filepath.Join(abs, DirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create screenshots dir: %w", err)
	}

	return &FileStore{
		workspace: abs,
		dir:       dir,
		cfg:       cfg,
		now:       time.Now,
	}, nil
}

func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) Save(ctx context.Context, shot *entity.Screenshot) (string, error) {
	if shot == nil || len(shot.Data) == 0 {
		return "", fmt.Errorf("empty screenshot")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := s.prepare(shot.Data)
	if err != nil {
		return "", err
	}

	f, err := s.create(s.now().Unix())
	if err != nil {
		return "", err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write screenshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}

	rel, err := filepath.Rel(s.workspace, f.Name())
	if err != nil {
		return "", fmt.Errorf("relative screenshot path: %w", err)
	}
	return filepath.ToSlash(rel), nil
}

func (s *FileStore) create(ts int64) (*os.File, error) {
	for n := 0; n < maxSuffix; n++ {
		name := fmt.Sprintf("screenshot_%d.png", ts)
		if n > 0 {
			name = fmt.Sprintf("screenshot_%d_%d.png", ts, n)
		}

		f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create screenshot file: %w", err)
		}
	}
	return nil, fmt.Errorf("create screenshot file: too many screenshots at %d", ts)
}

// prepare re-encodes the image as PNG when it has to be downscaled.
func (s *FileStore) prepare(data []byte) ([]byte, error) {
	if s.cfg.MaxWidth <= 0 {
		return data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}
	if img.Bounds().Dx() <= s.cfg.MaxWidth {
		return data, nil
	}

	img = imaging.Resize(img, s.cfg.MaxWidth, 0, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("png encode failed: %w", err)
	}
	return buf.Bytes(), nil
}
