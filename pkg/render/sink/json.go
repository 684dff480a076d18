package sink

import (
	"encoding/json"

	"github.com/matzehuels/chartgeom/pkg/errors"
	"github.com/matzehuels/chartgeom/pkg/scene"
)

// RenderJSON exports the scene with its geometry and styles, for external
// renderers and for caching.
func RenderJSON(sc *scene.Scene) ([]byte, error) {
	return json.MarshalIndent(sc, "", "  ")
}

// ParseJSON reads a scene written by [RenderJSON].
func ParseJSON(data []byte) (*scene.Scene, error) {
	var sc scene.Scene
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse scene")
	}
	return &sc, nil
}
