package upload

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/pkg/apperror"
	"github.com/your-org/storefront/internal/pkg/logger"
)

func newTestService(t *testing.T) (*Service, string) {
	dir := t.TempDir()
	cfg := &config.Config{
		External: config.ExternalConfig{Storage: config.StorageConfig{PublicDir: dir, ImagePath: "/uploads/images"}},
		Upload:   config.UploadConfig{MaxSize: 1024, AllowedMimeTypes: []string{"image/png", "image/jpeg"}},
	}
	return NewService(cfg, logger.Discard()), dir
}

// fileHeader builds a real multipart header by parsing a form
func fileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["image"][0]
}

func TestSaveImage_StoresUnderPublicDir(t *testing.T) {
	svc, dir := newTestService(t)

	publicPath, err := svc.SaveImage(fileHeader(t, "my photo.png", "image/png", []byte("png-bytes")))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(publicPath, "/uploads/images/"))
	assert.True(t, strings.HasSuffix(publicPath, "-my_photo.png"))

	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(publicPath)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(stored))
}

func TestSaveImage_RejectsNonImages(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SaveImage(fileHeader(t, "notes.txt", "text/plain", []byte("x")))
	assert.ErrorIs(t, err, ErrNotAnImage)

	_, err = svc.SaveImage(fileHeader(t, "fake.png", "application/pdf", []byte("x")))
	assert.ErrorIs(t, err, ErrNotAnImage)

	_, err = svc.SaveImage(nil)
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestSaveImage_RejectsOversized(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SaveImage(fileHeader(t, "big.png", "image/png", bytes.Repeat([]byte("x"), 2048)))
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestDeleteFile(t *testing.T) {
	svc, dir := newTestService(t)

	publicPath, err := svc.SaveImage(fileHeader(t, "a.jpg", "image/jpeg", []byte("jpg")))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFile(publicPath))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(publicPath)))
	assert.True(t, os.IsNotExist(err))

	// already gone is fine
	assert.NoError(t, svc.DeleteFile(publicPath))

	assert.Error(t, svc.DeleteFile("/uploads/images/../../etc/passwd"))
	assert.Error(t, svc.DeleteFile("/public/css/main.css"))
}
