package fixtures

import (
	"encoding/json"

	"github.com/jinzhu/copier"
	"github.com/metal-toolbox/assetctl/internal/model"
)

// CopyAsset returns a pointer to a deep copy of the given asset, so tests can modify fixtures.
func CopyAsset(src *model.Asset) *model.Asset {
	dst := &model.Asset{}

	copyOptions := copier.Option{IgnoreEmpty: true, DeepCopy: true}

	err := copier.CopyWithOption(dst, src, copyOptions)
	if err != nil {
		panic(err)
	}

	return dst
}

// JSON returns the JSON encoding of v, it panics on error and is meant for test fixtures only.
func JSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}

	return b
}
