package reactive

import (
	"math"
	"reflect"
	"sort"

	"github.com/yeyan1996/vue/internal/warn"
)

// Observer marks a container as converted and carries the Dep notified on
// container-level changes: field addition/removal on a Map, any mutation
// of a Slice. Its presence on a container is the converted marker; the
// same container is never converted twice.
type Observer struct {
	dep *Dep

	// vmCount is the number of component instances using this container
	// as their root data. Adding or deleting reactive fields on a root is
	// rejected with a diagnostic.
	vmCount int
}

// Dep returns the container-level Dep.
func (o *Observer) Dep() *Dep {
	return o.dep
}

// Observe converts value into its reactive form and returns it together
// with the attached Observer. Plain map[string]any and []any graphs are
// converted recursively; already-converted containers pass through
// unchanged (object identity preserved). Primitives and unrecognized
// values return (value, nil). Conversion is suspended inside
// WithoutObserving, except for root data which is always converted.
func Observe(value any, asRootData bool) (any, *Observer) {
	switch v := value.(type) {
	case *Map:
		if asRootData {
			v.ob.vmCount++
		}
		return v, v.ob
	case *Slice:
		if asRootData {
			v.ob.vmCount++
		}
		return v, v.ob
	case map[string]any:
		if !shouldObserve() && !asRootData {
			return v, nil
		}
		m := newMapFrom(v)
		if asRootData {
			m.ob.vmCount++
		}
		return m, m.ob
	case []any:
		if !shouldObserve() && !asRootData {
			return v, nil
		}
		s := newSliceFrom(v)
		if asRootData {
			s.ob.vmCount++
		}
		return s, s.ob
	default:
		return value, nil
	}
}

// field is one reactive property: a private Dep plus the stored value and
// the Observer of the value itself when the value is a container.
type field struct {
	dep     *Dep
	value   any
	childOb *Observer
}

// Map is a reactive object. Reading a key registers the active observer
// on the key's private Dep; writing an existing key replaces the value
// and notifies that Dep's subscribers in subscription order. Keys never
// made reactive are stored plain: use the package-level Set to add a
// reactive key after conversion.
type Map struct {
	ob     *Observer
	fields map[string]*field

	// raw holds plain writes to keys that were never defined reactively,
	// mirroring property assignment on an already-converted object.
	raw map[string]any
}

// NewMap converts initial into a reactive object. Nested plain maps and
// slices are converted recursively.
func NewMap(initial map[string]any) *Map {
	return newMapFrom(initial)
}

func newMapFrom(initial map[string]any) *Map {
	m := &Map{
		ob:     &Observer{dep: newDep()},
		fields: make(map[string]*field, len(initial)),
	}
	for k, v := range initial {
		m.defineField(k, v)
	}
	return m
}

func (m *Map) defineField(key string, value any) {
	conv, childOb := Observe(value, false)
	m.fields[key] = &field{dep: newDep(), value: conv, childOb: childOb}
}

// Observer returns the container-level Observer.
func (m *Map) Observer() *Observer {
	return m.ob
}

// Get reads key, registering the active observer on the key's Dep and,
// for container values, on the value's own Dep so that Set/Del and array
// mutations reach watchers that only read the parent field.
func (m *Map) Get(key string) any {
	if f, ok := m.fields[key]; ok {
		f.dep.Depend()
		if f.childOb != nil {
			f.childOb.dep.Depend()
			if s, ok := f.value.(*Slice); ok {
				s.dependDeep()
			}
		}
		return f.value
	}
	if m.raw != nil {
		return m.raw[key]
	}
	return nil
}

// Set writes key. For a reactive key the new value replaces the old one
// and subscribers are notified, unless the values are strictly equal
// (NaN counts as equal to NaN). For a key never made reactive the value
// is stored plain and nothing is notified.
func (m *Map) Set(key string, value any) {
	f, ok := m.fields[key]
	if !ok {
		if m.raw == nil {
			m.raw = make(map[string]any)
		}
		m.raw[key] = value
		return
	}
	if !hasChanged(f.value, value) {
		return
	}
	conv, childOb := Observe(value, false)
	f.value = conv
	f.childOb = childOb
	f.dep.Notify()
}

// Has reports whether key exists, reactive or plain.
func (m *Map) Has(key string) bool {
	if _, ok := m.fields[key]; ok {
		return true
	}
	_, ok := m.raw[key]
	return ok
}

// Keys returns the reactive keys in sorted order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, len(m.fields))
	for k := range m.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of reactive keys.
func (m *Map) Len() int {
	return len(m.fields)
}

// Slice is a reactive sequence. Every mutation method notifies the
// container Dep; inserted elements are converted recursively.
type Slice struct {
	ob    *Observer
	items []any
}

// NewSlice converts items into a reactive sequence.
func NewSlice(items []any) *Slice {
	return newSliceFrom(items)
}

func newSliceFrom(items []any) *Slice {
	s := &Slice{
		ob:    &Observer{dep: newDep()},
		items: make([]any, len(items)),
	}
	for i, v := range items {
		conv, _ := Observe(v, false)
		s.items[i] = conv
	}
	return s
}

// Observer returns the container-level Observer.
func (s *Slice) Observer() *Observer {
	return s.ob
}

// Len returns the element count, registering the active observer.
func (s *Slice) Len() int {
	s.ob.dep.Depend()
	return len(s.items)
}

// Get reads the element at i, registering the active observer on the
// container Dep. Out-of-range reads return nil.
func (s *Slice) Get(i int) any {
	s.ob.dep.Depend()
	if i < 0 || i >= len(s.items) {
		return nil
	}
	return s.items[i]
}

// Items returns a snapshot of the elements, registering the active
// observer.
func (s *Slice) Items() []any {
	s.ob.dep.Depend()
	out := make([]any, len(s.items))
	copy(out, s.items)
	return out
}

// Set replaces the element at i using splice semantics, so the write is
// observed. The sequence grows as needed.
func (s *Slice) Set(i int, value any) {
	if i >= len(s.items) {
		grown := make([]any, i+1)
		copy(grown, s.items)
		s.items = grown
	}
	s.Splice(i, 1, value)
}

// Push appends items and notifies.
func (s *Slice) Push(items ...any) {
	for _, v := range items {
		conv, _ := Observe(v, false)
		s.items = append(s.items, conv)
	}
	s.ob.dep.Notify()
}

// Pop removes and returns the last element.
func (s *Slice) Pop() any {
	var out any
	if n := len(s.items); n > 0 {
		out = s.items[n-1]
		s.items = s.items[:n-1]
	}
	s.ob.dep.Notify()
	return out
}

// Shift removes and returns the first element.
func (s *Slice) Shift() any {
	var out any
	if len(s.items) > 0 {
		out = s.items[0]
		s.items = append(s.items[:0], s.items[1:]...)
	}
	s.ob.dep.Notify()
	return out
}

// Unshift prepends items and notifies.
func (s *Slice) Unshift(items ...any) {
	converted := make([]any, len(items))
	for i, v := range items {
		converted[i], _ = Observe(v, false)
	}
	s.items = append(converted, s.items...)
	s.ob.dep.Notify()
}

// Splice removes deleteCount elements at start, inserts items in their
// place and returns the removed elements.
func (s *Slice) Splice(start, deleteCount int, items ...any) []any {
	n := len(s.items)
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	if deleteCount < 0 {
		deleteCount = 0
	}
	if start+deleteCount > n {
		deleteCount = n - start
	}

	removed := make([]any, deleteCount)
	copy(removed, s.items[start:start+deleteCount])

	converted := make([]any, len(items))
	for i, v := range items {
		converted[i], _ = Observe(v, false)
	}

	tail := append([]any{}, s.items[start+deleteCount:]...)
	s.items = append(s.items[:start], converted...)
	s.items = append(s.items, tail...)

	s.ob.dep.Notify()
	return removed
}

// Sort orders the elements with less and notifies.
func (s *Slice) Sort(less func(a, b any) bool) {
	sort.SliceStable(s.items, func(i, j int) bool {
		return less(s.items[i], s.items[j])
	})
	s.ob.dep.Notify()
}

// Reverse reverses the elements in place and notifies.
func (s *Slice) Reverse() {
	for i, j := 0, len(s.items)-1; i < j; i, j = i+1, j-1 {
		s.items[i], s.items[j] = s.items[j], s.items[i]
	}
	s.ob.dep.Notify()
}

// dependDeep registers the active observer on every nested container's
// Dep, so mutations inside a nested slice reach watchers that only read
// the outer one.
func (s *Slice) dependDeep() {
	for _, item := range s.items {
		switch it := item.(type) {
		case *Map:
			it.ob.dep.Depend()
		case *Slice:
			it.ob.dep.Depend()
			it.dependDeep()
		}
	}
}

// Set adds a reactive field to an observed container and notifies
// dependents of the container itself. For a Slice target, key must be an
// int index and the write uses splice semantics. This is the only way a
// key added after conversion becomes observed.
func Set(target any, key any, value any) any {
	switch t := target.(type) {
	case *Slice:
		idx, ok := key.(int)
		if !ok {
			warn.Warnf("Set on a reactive slice requires an int index, got %T", key)
			return value
		}
		t.Set(idx, value)
		return value
	case *Map:
		k, ok := key.(string)
		if !ok {
			warn.Warnf("Set on a reactive map requires a string key, got %T", key)
			return value
		}
		if _, ok := t.fields[k]; ok {
			t.Set(k, value)
			return value
		}
		if t.ob.vmCount > 0 {
			warn.Warnf("avoid adding reactive properties to root data at runtime; declare the key up front")
			return value
		}
		t.defineField(k, value)
		delete(t.raw, k)
		t.ob.dep.Notify()
		return value
	default:
		warn.Warnf("cannot set reactive property on non-observed value of type %T", target)
		return value
	}
}

// Del removes a field from an observed container and notifies dependents
// of the container.
func Del(target any, key any) {
	switch t := target.(type) {
	case *Slice:
		idx, ok := key.(int)
		if !ok {
			warn.Warnf("Del on a reactive slice requires an int index, got %T", key)
			return
		}
		t.Splice(idx, 1)
	case *Map:
		k, ok := key.(string)
		if !ok {
			warn.Warnf("Del on a reactive map requires a string key, got %T", key)
			return
		}
		if t.ob.vmCount > 0 {
			warn.Warnf("avoid deleting properties on root data at runtime")
			return
		}
		if _, ok := t.fields[k]; !ok {
			delete(t.raw, k)
			return
		}
		delete(t.fields, k)
		t.ob.dep.Notify()
	default:
		warn.Warnf("cannot delete reactive property on non-observed value of type %T", target)
	}
}

// hasChanged reports whether a write should replace the stored value and
// notify. Strict equality, with the explicit exception that NaN equals
// NaN. Values that Go cannot compare (plain slices, maps, funcs) always
// count as changed.
func hasChanged(oldVal, newVal any) bool {
	if of, ok := oldVal.(float64); ok {
		if nf, ok := newVal.(float64); ok {
			if math.IsNaN(of) && math.IsNaN(nf) {
				return false
			}
			return of != nf
		}
	}
	if !comparableValue(oldVal) || !comparableValue(newVal) {
		return true
	}
	return oldVal != newVal
}

func comparableValue(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}

// isMutable reports whether a value can change internally without its
// identity changing, which makes an equality check on it meaningless.
func isMutable(v any) bool {
	switch v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr,
		float32, float64:
		return false
	}
	return true
}
