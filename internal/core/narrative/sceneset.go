package narrative

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// SceneSet maps scene id to Scene and remembers insertion order.
// The order drives deterministic analysis output and stable JSON export.
// The zero value is an empty, usable set. Put on a plain copy writes
// through to the original; use Clone for an independent set.
type SceneSet struct {
	order  []string
	scenes map[string]Scene
}

// NewSceneSet builds a set from scenes keyed by their own ids.
func NewSceneSet(scenes ...Scene) SceneSet {
	var s SceneSet
	for _, sc := range scenes {
		s.Put(sc.ID, sc)
	}
	return s
}

// Len returns the number of scenes.
func (s SceneSet) Len() int {
	return len(s.order)
}

// Has reports whether id keys a scene.
func (s SceneSet) Has(id string) bool {
	_, ok := s.scenes[id]
	return ok
}

// Get returns the scene keyed by id.
func (s SceneSet) Get(id string) (Scene, bool) {
	sc, ok := s.scenes[id]
	return sc, ok
}

// Put stores a scene under key. Existing keys keep their position.
func (s *SceneSet) Put(key string, scene Scene) {
	if s.scenes == nil {
		s.scenes = make(map[string]Scene)
	}
	if _, exists := s.scenes[key]; !exists {
		s.order = append(s.order, key)
	}
	s.scenes[key] = scene
}

// Delete removes the scene keyed by id, if present. Copies of the set made
// by plain assignment are left untouched.
func (s *SceneSet) Delete(id string) {
	if _, ok := s.scenes[id]; !ok {
		return
	}
	scenes := make(map[string]Scene, len(s.scenes)-1)
	order := make([]string, 0, len(s.order)-1)
	for _, k := range s.order {
		if k == id {
			continue
		}
		order = append(order, k)
		scenes[k] = s.scenes[k]
	}
	s.order = order
	s.scenes = scenes
}

// IDs returns scene keys in insertion order.
func (s SceneSet) IDs() []string {
	return append([]string{}, s.order...)
}

// Each calls fn for every scene in insertion order until fn returns false.
func (s SceneSet) Each(fn func(id string, scene Scene) bool) {
	for _, id := range s.order {
		if !fn(id, s.scenes[id]) {
			return
		}
	}
}

// Clone returns a deep copy of the set.
func (s SceneSet) Clone() SceneSet {
	var out SceneSet
	for _, id := range s.order {
		out.Put(id, s.scenes[id].Clone())
	}
	return out
}

// MarshalJSON encodes the set as a JSON object in insertion order.
func (s SceneSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.scenes[id])
		if err != nil {
			return nil, fmt.Errorf("scene %q: %w", id, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the document's key order.
func (s *SceneSet) UnmarshalJSON(data []byte) error {
	res := gjson.ParseBytes(data)
	if res.Type == gjson.Null {
		*s = SceneSet{}
		return nil
	}
	if !res.IsObject() {
		return fmt.Errorf("scenes: expected object, got %s", res.Type)
	}

	var (
		out       SceneSet
		decodeErr error
	)
	res.ForEach(func(key, value gjson.Result) bool {
		var sc Scene
		if err := json.Unmarshal([]byte(value.Raw), &sc); err != nil {
			decodeErr = fmt.Errorf("scene %q: %w", key.String(), err)
			return false
		}
		out.Put(key.String(), sc)
		return true
	})
	if decodeErr != nil {
		return decodeErr
	}

	*s = out
	return nil
}
