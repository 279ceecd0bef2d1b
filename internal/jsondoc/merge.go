package jsondoc

// Merge deep-merges b over a and returns a new object; neither input is
// modified. For a key present in both, nested objects merge recursively
// and any other value from b replaces the one from a. Arrays are leaves.
// Keys only in a keep their position, keys only in b are appended in b's
// order. Merge(nil, nil) is nil.
func Merge(a, b *Object) *Object {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		return b.Clone()
	case b == nil:
		return a.Clone()
	}

	result := a.Clone()
	for _, k := range b.keys {
		bv := b.values[k]
		if av, ok := result.values[k]; ok {
			aObj, aIsObj := av.(*Object)
			bObj, bIsObj := bv.(*Object)
			if aIsObj && bIsObj {
				result.Set(k, Merge(aObj, bObj))
				continue
			}
		}
		result.Set(k, cloneValue(bv))
	}
	return result
}
