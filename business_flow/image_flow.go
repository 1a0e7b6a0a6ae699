package businessflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pastepoint/pastepoint/app/dto"
	"github.com/pastepoint/pastepoint/app/services"
	"github.com/pastepoint/pastepoint/config"
	"github.com/pastepoint/pastepoint/models"
	"github.com/pastepoint/pastepoint/repository"
	"github.com/redis/go-redis/v9"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ImageFlow defines operations for pasted image uploads.
type ImageFlow interface {
	SavePastedImage(ctx context.Context, req *dto.SavePastedImageRequest, metadata *ClientMetadata) (*dto.SavePastedImageResponse, error)
	DownloadPastedImage(ctx context.Context, imageUUID string) (string, string, []byte, error)
	PreviewPastedImage(ctx context.Context, imageUUID string) (string, string, []byte, error)
}

// ImageFlowImpl implements ImageFlow.
type ImageFlowImpl struct {
	imageRepo    repository.PastedImageRepository
	storage      services.StorageService
	signatures   services.SignatureService
	uploadConfig *config.UploadConfig
	cacheConfig  *config.CacheConfig
	rc           *redis.Client
}

// NewImageFlow creates a new image flow instance.
func NewImageFlow(
	imageRepo repository.PastedImageRepository,
	storage services.StorageService,
	signatures services.SignatureService,
	uploadConfig *config.UploadConfig,
	cacheConfig *config.CacheConfig,
	rc *redis.Client,
) ImageFlow {
	return &ImageFlowImpl{
		imageRepo:    imageRepo,
		storage:      storage,
		signatures:   signatures,
		uploadConfig: uploadConfig,
		cacheConfig:  cacheConfig,
		rc:           rc,
	}
}

// sniffLen is how many leading bytes are read for signature and content type
// detection. 512 matches what http.DetectContentType considers.
const sniffLen = 512

// countingReader tracks bytes consumed from the wrapped reader so the flow
// can tell how much actually went to storage.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func (f *ImageFlowImpl) SavePastedImage(ctx context.Context, req *dto.SavePastedImageRequest, metadata *ClientMetadata) (*dto.SavePastedImageResponse, error) {
	if req == nil || req.File == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "file is required", ErrFileRequired)
	}

	if req.FileSize <= 0 {
		return nil, NewBusinessError("INVALID_FILE", "file size is required", ErrFileSizeRequired)
	}

	// The declared size is checked before any content is read. Exactly
	// the limit is accepted; one byte over is not.
	maxSize := f.uploadConfig.MaxFileSize
	if req.FileSize > maxSize {
		return nil, NewBusinessErrorf("FILE_TOO_LARGE", "file size exceeds the maximum of %d bytes", ErrFileTooLarge, maxSize)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(req.File, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("failed to read image content: %w", err)
	}
	head = head[:n]

	if !f.signatures.Matches(req.OriginalFilename, head, f.uploadConfig.AllowedFormats) {
		return nil, NewBusinessErrorf("INVALID_FORMAT", "accepted image formats: %s", ErrInvalidFormat, strings.Join(f.uploadConfig.AllowedFormats, ", "))
	}

	mimeType := http.DetectContentType(head)
	ext := strings.ToLower(filepath.Ext(req.OriginalFilename))
	if mimeType == "application/octet-stream" {
		if fromExt := mime.TypeByExtension(ext); fromExt != "" {
			mimeType = fromExt
		}
	}

	// Declared sizes are not trusted. The stream is cut off one byte past
	// the limit so an under-declared oversized body is still rejected.
	imageUUID := uuid.New()
	counter := &countingReader{r: io.MultiReader(bytes.NewReader(head), req.File)}
	limited := io.LimitReader(counter, maxSize+1)

	storedPath, err := f.storage.Save(ctx, imageUUID.String()+ext, limited)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}
	if counter.n > maxSize {
		_ = f.storage.Delete(ctx, storedPath)
		return nil, NewBusinessErrorf("FILE_TOO_LARGE", "file size exceeds the maximum of %d bytes", ErrFileTooLarge, maxSize)
	}

	img := models.PastedImage{
		UUID:             imageUUID,
		ClientID:         req.ClientID,
		OriginalFilename: req.OriginalFilename,
		StoredPath:       storedPath,
		SizeBytes:        counter.n,
		MimeType:         mimeType,
		Extension:        ext,
		ImageURL:         f.publicURL(imageUUID.String()),
	}

	if err := f.imageRepo.Save(ctx, &img); err != nil {
		_ = f.storage.Delete(ctx, storedPath)
		return nil, fmt.Errorf("failed to save image record: %w", err)
	}

	f.cacheImage(ctx, &img)

	return &dto.SavePastedImageResponse{
		ImageURL:  img.ImageURL,
		UUID:      img.UUID.String(),
		SizeBytes: img.SizeBytes,
		MimeType:  img.MimeType,
		CreatedAt: img.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (f *ImageFlowImpl) DownloadPastedImage(ctx context.Context, imageUUID string) (string, string, []byte, error) {
	img, err := f.lookupImage(ctx, imageUUID)
	if err != nil {
		return "", "", nil, err
	}

	rc, err := f.storage.Load(ctx, img.StoredPath)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to load stored image: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to read stored image: %w", err)
	}

	filename := img.UUID.String() + img.Extension
	contentType := img.MimeType
	if contentType == "" {
		contentType = mime.TypeByExtension(img.Extension)
	}

	return filename, contentType, data, nil
}

func (f *ImageFlowImpl) PreviewPastedImage(ctx context.Context, imageUUID string) (string, string, []byte, error) {
	img, err := f.lookupImage(ctx, imageUUID)
	if err != nil {
		return "", "", nil, err
	}

	rc, err := f.storage.Load(ctx, img.StoredPath)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to load stored image: %w", err)
	}
	defer rc.Close()

	decoded, _, err := image.Decode(rc)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to decode stored image: %w", err)
	}

	thumb := resizeImage(decoded, 512)
	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, thumb, &jpeg.Options{Quality: 75}); err != nil {
		return "", "", nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	return "preview.jpg", "image/jpeg", buf.Bytes(), nil
}

func (f *ImageFlowImpl) lookupImage(ctx context.Context, imageUUID string) (*models.PastedImage, error) {
	if imageUUID == "" {
		return nil, NewBusinessError("INVALID_UUID", "image uuid is required", ErrImageUUIDInvalid)
	}

	if cached := f.cachedImage(ctx, imageUUID); cached != nil {
		return cached, nil
	}

	img, err := f.imageRepo.ByUUID(ctx, imageUUID)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, NewBusinessError("IMAGE_NOT_FOUND", "image not found", ErrImageNotFound)
	}

	f.cacheImage(ctx, img)
	return img, nil
}

func (f *ImageFlowImpl) publicURL(imageUUID string) string {
	return strings.TrimSuffix(f.uploadConfig.PublicBaseURL, "/") + "/api/images/" + imageUUID
}

// cacheImage stores image metadata in Redis. Cache failures are ignored; the
// database stays authoritative.
func (f *ImageFlowImpl) cacheImage(ctx context.Context, img *models.PastedImage) {
	if f.rc == nil || f.cacheConfig == nil || !f.cacheConfig.Enabled {
		return
	}
	bs, err := json.Marshal(img)
	if err != nil {
		return
	}
	key := cacheKey(*f.cacheConfig, "image", img.UUID.String())
	_ = f.rc.Set(ctx, key, bs, f.cacheConfig.DefaultTTL).Err()
}

func (f *ImageFlowImpl) cachedImage(ctx context.Context, imageUUID string) *models.PastedImage {
	if f.rc == nil || f.cacheConfig == nil || !f.cacheConfig.Enabled {
		return nil
	}
	key := cacheKey(*f.cacheConfig, "image", imageUUID)
	bs, err := f.rc.Get(ctx, key).Bytes()
	if err != nil || len(bs) == 0 {
		return nil
	}
	var img models.PastedImage
	if err := json.Unmarshal(bs, &img); err != nil {
		return nil
	}
	return &img
}

func resizeImage(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return src
	}

	var nw, nh int
	if w >= h {
		nw = maxDim
		nh = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		nh = maxDim
		nw = int(float64(w) * float64(maxDim) / float64(h))
	}
	// Extreme aspect ratios can truncate the short side to zero.
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	imagedraw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, imagedraw.Src)
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}
