package service

import (
	"net/url"
	"shortdrama/constant"
	"strings"
)

// ValidRawKey accepts an absolute http(s) URL or a storage key under raw/.
func ValidRawKey(key string) bool {
	key = strings.TrimSpace(key)
	if key == constant.RawKeyPlaceholder || len(key) < 3 {
		return false
	}
	if IsRawURL(key) {
		u, err := url.Parse(key)
		return err == nil && u.Host != ""
	}
	return strings.HasPrefix(key, constant.RawKeyPrefix) && len(key) > len(constant.RawKeyPrefix)
}

func IsRawURL(key string) bool {
	return strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://")
}
