package usecase

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/GoArmGo/InviteLink/internal/domain"
	"github.com/vincent-petithory/dataurl"
)

// MaxAvatarBytes предельный размер декодированного аватара
const MaxAvatarBytes = 2 << 20

var allowedAvatarTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// IsDataURI сообщает, передан ли аватар встроенным в строку
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// ValidateAvatar проверяет значение profilePicture.
// Допустимы пустая строка, http(s) ссылка или base64 data URI изображения jpeg/png/gif.
func ValidateAvatar(s string) error {
	if s == "" {
		return nil
	}
	if IsDataURI(s) {
		_, err := decodeAvatar(s)
		return err
	}

	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: аватар должен быть http(s) ссылкой или data URI", domain.ErrBadRequest)
	}
	return nil
}

func decodeAvatar(s string) (*dataurl.DataURL, error) {
	d, err := dataurl.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: некорректный data URI: %v", domain.ErrBadRequest, err)
	}
	if d.Encoding != dataurl.EncodingBase64 {
		return nil, fmt.Errorf("%w: data URI должен быть в base64", domain.ErrBadRequest)
	}
	if _, ok := allowedAvatarTypes[avatarContentType(d)]; !ok {
		return nil, fmt.Errorf("%w: неподдерживаемый тип изображения %q", domain.ErrBadRequest, avatarContentType(d))
	}
	if len(d.Data) > MaxAvatarBytes {
		return nil, fmt.Errorf("%w: аватар больше %d байт", domain.ErrBadRequest, MaxAvatarBytes)
	}
	return d, nil
}

func avatarContentType(d *dataurl.DataURL) string {
	return strings.ToLower(d.Type + "/" + d.Subtype)
}
