package conftree

// Merge combines two trees into a new one. The result contains every key of
// base in its original order, followed by keys present only in override in
// their own order.
//
// Merge is right-biased: for a key present in both trees the override value
// wins. When both values are themselves trees the merge recurses; in every
// other case (including sequences) the override value replaces the base
// value outright.
//
// Neither input is mutated; the result shares no state with either.
func Merge(base, override *Tree) *Tree {
	out := base.Clone()
	if override == nil {
		return out
	}

	for _, key := range override.keys {
		ov := override.values[key]

		if bv, ok := out.Get(key); ok {
			bt, baseIsTree := bv.(*Tree)
			ot, overrideIsTree := ov.(*Tree)
			if baseIsTree && overrideIsTree {
				out.Set(key, Merge(bt, ot))
				continue
			}
		}

		out.Set(key, cloneValue(ov))
	}

	return out
}
