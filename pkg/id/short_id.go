package id

import "github.com/teris-io/shortid"

// ShortId returns a compact url-safe id, used for license assignment ids
func ShortId() string {
	id, err := shortid.Generate()
	if err != nil {
		return ""
	}
	return id
}
