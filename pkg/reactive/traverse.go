package reactive

// traverse visits every nested reactive container, reading each field so
// the active watcher registers on all of them. Visited observers are
// tracked by Dep id so cyclic graphs terminate.
func traverse(v any) {
	seen := make(map[uint64]struct{})
	traverseValue(v, seen)
}

func traverseValue(v any, seen map[uint64]struct{}) {
	switch val := v.(type) {
	case *Map:
		if !markSeen(val.ob, seen) {
			return
		}
		for k := range val.fields {
			traverseValue(val.Get(k), seen)
		}
	case *Slice:
		if !markSeen(val.ob, seen) {
			return
		}
		for i := range val.items {
			traverseValue(val.Get(i), seen)
		}
	}
}

func markSeen(ob *Observer, seen map[uint64]struct{}) bool {
	if ob == nil {
		return false
	}
	if _, ok := seen[ob.dep.id]; ok {
		return false
	}
	seen[ob.dep.id] = struct{}{}
	return true
}
