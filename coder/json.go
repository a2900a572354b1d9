package coder

import (
	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// JSON is the default Coder: it marshals a Pair with json-iterator, which
// the teacher repo uses throughout for its own wire/API encoding instead
// of the standard library's encoding/json. Suitable whenever K and M are
// themselves JSON-marshalable (the common case for grid-index keys and
// small numeric/array message payloads).
type JSON[K comparable, M any] struct{}

func (JSON[K, M]) Encode(p Pair[K, M]) ([]byte, error) {
	return jsonAPI.Marshal(p)
}

func (JSON[K, M]) Decode(data []byte) (Pair[K, M], error) {
	var p Pair[K, M]
	err := jsonAPI.Unmarshal(data, &p)
	return p, err
}
