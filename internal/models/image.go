package models

import "path"

// StorageMode tags which backend holds an outfit's image.
type StorageMode string

const (
	StorageNone   StorageMode = ""
	StorageObject StorageMode = "object"
	StorageLocal  StorageMode = "local"
	StorageURL    StorageMode = "url"
)

// ImageRef records where an image lives. Exactly one payload field is set,
// matching Mode; the zero value means the outfit has no image.
type ImageRef struct {
	Mode      StorageMode `json:"storage_type,omitempty" bson:"storage_type,omitempty"`
	ObjectID  string      `json:"image_id,omitempty"     bson:"image_id,omitempty"`
	LocalPath string      `json:"local_path,omitempty"   bson:"local_path,omitempty"`
	External  string      `json:"external_url,omitempty" bson:"external_url,omitempty"`
}

func ObjectImage(id string) ImageRef {
	return ImageRef{Mode: StorageObject, ObjectID: id}
}

func LocalImage(p string) ImageRef {
	return ImageRef{Mode: StorageLocal, LocalPath: p}
}

func ExternalImage(url string) ImageRef {
	return ImageRef{Mode: StorageURL, External: url}
}

func (r ImageRef) IsZero() bool {
	return r.Mode == StorageNone
}

// URL returns the path (or absolute URL) a client should fetch the image
// from, regardless of which backend holds it.
func (r ImageRef) URL() string {
	switch r.Mode {
	case StorageObject:
		return "/api/images/" + r.ObjectID
	case StorageLocal:
		return "/uploads/" + path.Base(r.LocalPath)
	case StorageURL:
		return r.External
	default:
		return ""
	}
}
