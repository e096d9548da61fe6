package s3

import "strings"

const (
	MediaImage = "image"
	MediaVideo = "video"
)

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

var videoTypes = map[string]bool{
	"video/mp4":       true,
	"video/webm":      true,
	"video/quicktime": true,
}

// MediaType maps a content type to image or video. ok is false for anything else.
func MediaType(contentType string) (string, bool) {
	ct := normalize(contentType)
	switch {
	case imageTypes[ct]:
		return MediaImage, true
	case videoTypes[ct]:
		return MediaVideo, true
	}
	return "", false
}

// profileImageTypes excludes gif: avatars and model cards are stills.
var profileImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

func IsProfileImage(contentType string) bool {
	return profileImageTypes[normalize(contentType)]
}

func normalize(contentType string) string {
	return strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
}
