package newsportal

import "strings"

const EnvLocal = "local"

// ImageURLBuilder turns stored image paths into public URLs. In the local
// environment the URL is root-relative; elsewhere it is prefixed with the
// application base URL.
type ImageURLBuilder struct {
	local   bool
	baseURL string
}

func NewImageURLBuilder(env, appURL string) ImageURLBuilder {
	return ImageURLBuilder{
		local:   env == EnvLocal,
		baseURL: strings.TrimRight(appURL, "/"),
	}
}

func (b ImageURLBuilder) URL(path *string) *string {
	if path == nil || *path == "" {
		return nil
	}

	url := "/storage/" + strings.TrimLeft(*path, "/")
	if !b.local {
		url = b.baseURL + url
	}

	return &url
}
