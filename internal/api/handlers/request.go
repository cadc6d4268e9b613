package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hottakes/hottakes-api/internal/apperr"
	"github.com/hottakes/hottakes-api/internal/services"
	"github.com/hottakes/hottakes-api/internal/storage"
)

const (
	mimeJSON      = "application/json"
	mimeMultipart = "multipart/form-data"

	sauceField = "sauce"
	imageField = "image"

	// room for the form fields next to the image
	multipartOverhead = 1 << 20
)

// readJSON returns the raw request body. The body must be declared as JSON.
func readJSON(c *gin.Context) ([]byte, error) {
	if c.ContentType() != mimeJSON {
		return nil, apperr.UnsupportedMediaType(c.ContentType())
	}
	raw, err := c.GetRawData()
	if err != nil {
		return nil, bodyErr(err, 0)
	}
	return raw, nil
}

// hasBody reports whether the request carries any payload.
func hasBody(c *gin.Context) bool {
	return c.Request.ContentLength > 0 || c.Request.ContentLength == -1 || c.ContentType() != ""
}

// sauceForm is a parsed multipart submission: the JSON description and the
// optional image.
type sauceForm struct {
	raw    []byte
	image  *services.Image
	closer func()
}

func (f *sauceForm) Close() {
	if f.closer != nil {
		f.closer()
	}
}

// parseSauceForm reads the multipart body of create and update requests.
// maxImage bounds the whole body so oversized uploads fail while reading.
func parseSauceForm(c *gin.Context, maxImage int64) (*sauceForm, error) {
	if c.ContentType() != mimeMultipart {
		return nil, apperr.UnsupportedMediaType(c.ContentType())
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImage+multipartOverhead)

	form, err := c.MultipartForm()
	if err != nil {
		return nil, bodyErr(err, maxImage)
	}

	out := &sauceForm{}
	if values := form.Value[sauceField]; len(values) > 0 {
		out.raw = []byte(values[0])
	}
	if files := form.File[imageField]; len(files) > 0 {
		img, closer, err := openImage(files[0])
		if err != nil {
			return nil, err
		}
		out.image = img
		out.closer = closer
	}
	return out, nil
}

func openImage(fh *multipart.FileHeader) (*services.Image, func(), error) {
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = storage.ContentTypeFromFilename(fh.Filename)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, apperr.Persistence(err)
	}
	img := &services.Image{ContentType: contentType, Size: fh.Size, Body: f}
	return img, func() { f.Close() }, nil
}

func bodyErr(err error, maxImage int64) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperr.FileTooLarge(tooLarge.Limit, maxImage)
	}
	return apperr.Validation(apperr.FieldError{
		Location: "body",
		Path:     "",
		Message:  "request body could not be read",
	})
}

// origin is the scheme and host used to build public image URLs.
func origin(c *gin.Context, baseURL string) string {
	if baseURL != "" {
		return baseURL
	}
	scheme := "http"
	if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
