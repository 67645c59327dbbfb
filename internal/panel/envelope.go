package panel

import (
	"encoding/json"

	apperr "github.com/hansos/DR-Admin-sub001/internal/errors"
)

// The backend wraps most payloads in {success, data, message}, with
// inconsistent casing and occasionally an extra nesting level. All of
// that tolerance lives here; nothing downstream of this file probes
// alternate key spellings for envelopes.

// ListShape records which wire shape a list payload arrived in.
type ListShape int

const (
	ShapeBare ListShape = iota
	ShapeWrapped
	ShapeWrappedPascal
)

// PageMeta is paging metadata recovered from whichever envelope level
// carried the list.
type PageMeta struct {
	TotalCount  int `json:"totalCount"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalPages  int `json:"totalPages"`
}

// List is the canonical decoded form of a list endpoint response.
type List struct {
	Items json.RawMessage
	Meta  *PageMeta
	Shape ListShape
}

func asObject(raw json.RawMessage) map[string]json.RawMessage {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	return obj
}

func probe(obj map[string]json.RawMessage, keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok && string(v) != "null" {
			return v, true
		}
	}
	return nil, false
}

// envelopeFailure reports whether a 2xx body carries success=false,
// and the message to surface if so.
func envelopeFailure(raw json.RawMessage) (bool, string) {
	obj := asObject(raw)
	if obj == nil {
		return false, ""
	}
	v, ok := probe(obj, "success", "Success")
	if !ok {
		return false, ""
	}
	var success bool
	if err := json.Unmarshal(v, &success); err != nil || success {
		return false, ""
	}
	return true, messageField(obj)
}

// errorMessage extracts a display message from a non-2xx body. Problem
// responses use either message or title.
func errorMessage(raw json.RawMessage) string {
	obj := asObject(raw)
	if obj == nil {
		return ""
	}
	return messageField(obj)
}

func messageField(obj map[string]json.RawMessage) string {
	v, ok := probe(obj, "message", "Message", "title", "Title")
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}

// UnwrapData returns the envelope's data field, or the raw body when
// no envelope is present.
func UnwrapData(raw json.RawMessage) json.RawMessage {
	obj := asObject(raw)
	if obj == nil {
		return raw
	}
	if v, ok := probe(obj, "data", "Data"); ok {
		return v
	}
	return raw
}

func isArray(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}

func pageMeta(obj map[string]json.RawMessage) *PageMeta {
	read := func(keys ...string) (int, bool) {
		v, ok := probe(obj, keys...)
		if !ok {
			return 0, false
		}
		var n int
		if err := json.Unmarshal(v, &n); err != nil {
			return 0, false
		}
		return n, true
	}
	total, okTotal := read("totalCount", "TotalCount")
	page, okPage := read("currentPage", "CurrentPage")
	size, okSize := read("pageSize", "PageSize")
	pages, okPages := read("totalPages", "TotalPages")
	if !okTotal && !okPage && !okSize && !okPages {
		return nil
	}
	return &PageMeta{TotalCount: total, CurrentPage: page, PageSize: size, TotalPages: pages}
}

// DecodeList normalizes every list payload shape the backend emits
// (bare array, data/Data wrapper, or a doubly nested wrapper) into one
// canonical List, recovering paging metadata from whichever object
// exposed it.
func DecodeList(raw json.RawMessage) (List, error) {
	if isArray(raw) {
		return List{Items: raw, Shape: ShapeBare}, nil
	}
	obj := asObject(raw)
	if obj == nil {
		return List{}, apperr.New(apperr.CodeAPI, "unexpected list response shape")
	}

	shapeFor := func(key string) ListShape {
		if key == "Data" {
			return ShapeWrappedPascal
		}
		return ShapeWrapped
	}

	for _, key := range []string{"data", "Data"} {
		v, ok := obj[key]
		if !ok || string(v) == "null" {
			continue
		}
		if isArray(v) {
			return List{Items: v, Meta: pageMeta(obj), Shape: shapeFor(key)}, nil
		}
		inner := asObject(v)
		if inner == nil {
			continue
		}
		for _, innerKey := range []string{"data", "Data"} {
			iv, ok := inner[innerKey]
			if !ok || !isArray(iv) {
				continue
			}
			meta := pageMeta(inner)
			if meta == nil {
				meta = pageMeta(obj)
			}
			return List{Items: iv, Meta: meta, Shape: shapeFor(key)}, nil
		}
	}
	return List{}, apperr.New(apperr.CodeAPI, "unexpected list response shape")
}
