package jsondoc

import (
	"encoding/json"
	"fmt"
)

// GetString returns the string stored under key. ok is false when the key is
// missing or null; a non-string value is an error.
func (o *Object) GetString(key string) (s string, ok bool, err error) {
	v, present := o.Get(key)
	if !present || v == nil {
		return "", false, nil
	}
	s, isString := v.(string)
	if !isString {
		return "", false, fmt.Errorf("%q must be a string, got %s", key, TypeName(v))
	}
	return s, true, nil
}

// GetObject returns the nested object stored under key.
func (o *Object) GetObject(key string) (obj *Object, ok bool, err error) {
	v, present := o.Get(key)
	if !present || v == nil {
		return nil, false, nil
	}
	obj, isObj := v.(*Object)
	if !isObj {
		return nil, false, fmt.Errorf("%q must be an object, got %s", key, TypeName(v))
	}
	return obj, true, nil
}

// GetStrings returns the array of strings stored under key.
func (o *Object) GetStrings(key string) (list []string, ok bool, err error) {
	v, present := o.Get(key)
	if !present || v == nil {
		return nil, false, nil
	}
	list, err = StringSlice(v)
	if err != nil {
		return nil, false, fmt.Errorf("%q: %w", key, err)
	}
	return list, true, nil
}

// StringSlice converts a decoded array into strings. Numbers are accepted
// and kept in their source form.
func StringSlice(v interface{}) ([]string, error) {
	arr, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected an array of strings, got %s", TypeName(v))
	}
	out := make([]string, 0, len(arr))
	for i, item := range arr {
		switch item.(type) {
		case string:
			out = append(out, item.(string))
		case nil, bool, []interface{}, *Object:
			return nil, fmt.Errorf("element %d must be a string, got %s", i, TypeName(item))
		default:
			out = append(out, Text(item))
		}
	}
	return out, nil
}

// ToNative converts a decoded value into plain maps, slices, int64 and
// float64, for serializers that do not understand *Object or json.Number.
// Key order is lost.
func ToNative(v interface{}) interface{} {
	switch t := v.(type) {
	case *Object:
		m := make(map[string]interface{}, t.Len())
		for _, k := range t.keys {
			m[k] = ToNative(t.values[k])
		}
		return m
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = ToNative(item)
		}
		return out
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}
