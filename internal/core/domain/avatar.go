package domain

import "net/http"

// DefaultMaxAvatarBytes caps avatar payloads when no limit is configured.
const DefaultMaxAvatarBytes = 1 << 20

var avatarContentTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
}

// ValidateAvatar checks the payload size and sniffs its content type.
func ValidateAvatar(data []byte, maxBytes int) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxAvatarBytes
	}
	if len(data) == 0 {
		return ErrUnsupportedAvatar
	}
	if len(data) > maxBytes {
		return ErrAvatarTooLarge
	}
	if _, ok := avatarContentTypes[AvatarContentType(data)]; !ok {
		return ErrUnsupportedAvatar
	}
	return nil
}

// AvatarContentType returns the sniffed MIME type of an avatar payload.
func AvatarContentType(data []byte) string {
	return http.DetectContentType(data)
}
