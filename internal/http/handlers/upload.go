package handlers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"vidembed/internal/domain"
	"vidembed/internal/embed"
	"vidembed/internal/media"
)

const (
	uploadField     = "video"
	uploadDir       = "videos"
	multipartSlack  = 1 << 20
	sniffBufferSize = 512
)

type uploadResponse struct {
	ID              string   `json:"id"`
	VideoURL        string   `json:"videoUrl"`
	MIMEType        string   `json:"mime"`
	Bytes           int64    `json:"bytes"`
	DurationSeconds *float64 `json:"durationSeconds,omitempty"`
}

var errMissingVideo = errors.New("multipart field video is required")

// Upload stores the multipart "video" part and returns its public reference.
// When a prober is configured and finds a duration, videos over the limit are
// rejected and removed.
func (a *App) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes+multipartSlack)
	mr, err := r.MultipartReader()
	if err != nil {
		a.error(w, r, http.StatusBadRequest, "bad_request")
		return
	}
	part, err := nextVideoPart(mr)
	if err != nil {
		if errors.Is(err, errMissingVideo) {
			a.error(w, r, http.StatusBadRequest, "missing_video")
			return
		}
		a.fail(w, r, err)
		return
	}
	defer part.Close()

	name := path.Base(part.FileName())
	body := bufio.NewReaderSize(part, sniffBufferSize)
	mimeType := partMIME(part, name, body)
	if !strings.HasPrefix(mimeType, domain.VideoMIMEPrefix) {
		a.fail(w, r, fmt.Errorf("%w: %q", domain.ErrInvalidMediaType, mimeType))
		return
	}

	ctx := r.Context()
	key, n, err := a.Store.Put(ctx, uploadDir, name, body, a.MaxUploadBytes)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	asset := &domain.Asset{
		ID:           uuid.NewString(),
		StorageKey:   key,
		URL:          a.Store.URL(key),
		OriginalName: name,
		MIMEType:     mimeType,
		Bytes:        n,
	}

	if a.Prober != nil {
		lm := domain.NewLocalMedia(name, mimeType, n, media.FileBlob{Fs: a.Store.Fs(), Path: key})
		if err := media.LoadMetadata(ctx, lm, a.Prober); err != nil {
			a.log().Debug().Err(err).Str("key", key).Msg("duration probe skipped")
		} else if d, ok := lm.Duration(); ok {
			if err := embed.ValidateDuration(d, a.MaxDurationSeconds); err != nil {
				if rmErr := a.Store.Remove(key); rmErr != nil {
					a.log().Warn().Err(rmErr).Str("key", key).Msg("remove rejected upload")
				}
				a.fail(w, r, err)
				return
			}
			asset.DurationSeconds = &d
		}
	}

	if a.Assets != nil {
		if err := a.Assets.Save(ctx, asset); err != nil {
			a.log().Error().Err(err).Str("asset_id", asset.ID).Msg("record asset")
		}
	}

	a.log().Info().
		Str("asset_id", asset.ID).
		Str("key", key).
		Str("mime", mimeType).
		Int64("bytes", n).
		Msg("video uploaded")

	a.json(w, http.StatusCreated, uploadResponse{
		ID:              asset.ID,
		VideoURL:        asset.URL,
		MIMEType:        mimeType,
		Bytes:           n,
		DurationSeconds: asset.DurationSeconds,
	})
}

func nextVideoPart(mr *multipart.Reader) (*multipart.Part, error) {
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, errMissingVideo
		}
		if err != nil {
			return nil, err
		}
		if part.FormName() == uploadField && part.FileName() != "" {
			return part, nil
		}
		_ = part.Close()
	}
}

// partMIME trusts the declared part type unless it is missing or generic, in
// which case the name and the first bytes decide.
func partMIME(part *multipart.Part, name string, body *bufio.Reader) string {
	declared := part.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
		return mt
	}
	head, _ := body.Peek(sniffBufferSize)
	return media.DetectMIME(name, head)
}
