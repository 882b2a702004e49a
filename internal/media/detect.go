// Package media recognizes the image formats accepted for user pictures.
package media

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
)

type Kind string

const (
	KindJPEG Kind = "jpeg"
	KindPNG  Kind = "png"
	KindGIF  Kind = "gif"
	KindWEBP Kind = "webp"
	KindSVG  Kind = "svg"
)

var ErrUnknownType = errors.New("unknown media type")

var mimeTypes = map[Kind]string{
	KindJPEG: "image/jpeg",
	KindPNG:  "image/png",
	KindGIF:  "image/gif",
	KindWEBP: "image/webp",
	KindSVG:  "image/svg+xml",
}

func (k Kind) MIME() string {
	return mimeTypes[k]
}

// Detect sniffs the image kind from the first bytes of a file.
func Detect(head []byte) (Kind, error) {
	switch {
	case len(head) == 0:
		return "", ErrUnknownType
	case len(head) > 3 && head[0] == 0xff && head[1] == 0xd8 && head[2] == 0xff:
		return KindJPEG, nil
	case bytes.HasPrefix(head, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}):
		return KindPNG, nil
	case bytes.HasPrefix(head, []byte("GIF87a")) || bytes.HasPrefix(head, []byte("GIF89a")):
		return KindGIF, nil
	case len(head) >= 12 && bytes.Equal(head[:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WEBP")):
		return KindWEBP, nil
	case isSVG(head):
		return KindSVG, nil
	}
	return "", ErrUnknownType
}

func isSVG(head []byte) bool {
	trimmed := strings.TrimSpace(string(head))
	return strings.HasPrefix(trimmed, "<svg") ||
		(strings.HasPrefix(trimmed, "<?xml") && strings.Contains(strings.ToLower(trimmed), "<svg"))
}

// DeclaredType returns the media type of a multipart part header without
// parameters, or "" when none was sent.
func DeclaredType(header http.Header) string {
	contentType := header.Get("Content-Type")
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.TrimSpace(contentType)
}
