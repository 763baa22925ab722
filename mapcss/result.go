package mapcss

// EvalStatus is a soft-failure bitmask reported alongside a successful
// Evaluate call, modeled on detour.Status: evaluation itself never aborts
// on bad data, but callers may want to know a compiled condition silently
// matched nothing because of a stale intern table, or that the result
// buffer was resized mid-pass.
type EvalStatus uint32

const (
	EvalSuccess      EvalStatus = 0
	EvalEmptyStyle   EvalStatus = 1 << iota
	EvalBufferGrown             // result layers exceeded the previous pass's count
)

// Succeeded reports whether no failure bits are set.
func (s EvalStatus) Succeeded() bool { return s == EvalSuccess }

// layerKey identifies a result layer by its MapCSS layer selector plus the
// class set active when it was written; two rules targeting the same
// layer selector under different active classes produce distinct layers.
type layerKey struct {
	layer string
	class string // classes joined in sorted order, "" if none
}

// ResultLayer holds the declarations matched rules wrote for one
// (layer_selector, class_set) identity, last-write-wins per property.
type ResultLayer struct {
	LayerSelector string
	props         [propCount]Value
	set           [propCount]bool
}

// Get returns the declared value for p, if any rule wrote it.
func (l *ResultLayer) Get(p Property) (Value, bool) {
	if p == PropNone || int(p) >= int(propCount) {
		return Value{}, false
	}
	return l.props[p], l.set[p]
}

func (l *ResultLayer) setValue(p Property, v Value) {
	l.props[p] = v
	l.set[p] = true
}

// HasAreaProperties reports whether any fill-related declaration was set.
func (l *ResultLayer) HasAreaProperties() bool {
	return l.set[PropFillColor] || l.set[PropFillOpacity]
}

// HasLineProperties reports whether any stroke/casing declaration was set.
func (l *ResultLayer) HasLineProperties() bool {
	return l.set[PropColor] || l.set[PropWidth] || l.set[PropCasingWidth] || l.set[PropCasingColor]
}

// HasLabelProperties reports whether any label-related declaration was set.
func (l *ResultLayer) HasLabelProperties() bool {
	return l.set[PropText] || l.set[PropIconImage] || l.set[PropShieldImage]
}

// ZIndex returns the layer's declared z-index, defaulting to 0.
func (l *ResultLayer) ZIndex() float32 {
	if v, ok := l.Get(PropZIndex); ok {
		if f, ok := v.Float32(); ok {
			return f
		}
	}
	return 0
}

// reset clears a layer so it can be reused for a new evaluation pass
// without reallocating its backing array.
func (l *ResultLayer) reset(layerSelector string) {
	l.LayerSelector = layerSelector
	for i := range l.set {
		l.set[i] = false
	}
}

// MapCSSResult is the caller-owned, reused output buffer for Evaluate. It
// holds zero or more result layers keyed by (layer_selector, class_set).
type MapCSSResult struct {
	layers []ResultLayer
	index  map[layerKey]int
}

// NewMapCSSResult returns an empty, ready-to-reuse result buffer.
func NewMapCSSResult() *MapCSSResult {
	return &MapCSSResult{index: make(map[layerKey]int)}
}

// Reset clears the result for reuse, keeping the backing storage.
func (r *MapCSSResult) Reset() {
	r.layers = r.layers[:0]
	for k := range r.index {
		delete(r.index, k)
	}
}

// Layers returns every non-empty result layer written by the last
// Evaluate call.
func (r *MapCSSResult) Layers() []*ResultLayer {
	out := make([]*ResultLayer, len(r.layers))
	for i := range r.layers {
		out[i] = &r.layers[i]
	}
	return out
}

func (r *MapCSSResult) layerFor(layerSelector, classKey string) *ResultLayer {
	key := layerKey{layer: layerSelector, class: classKey}
	if i, ok := r.index[key]; ok {
		return &r.layers[i]
	}
	r.layers = append(r.layers, ResultLayer{})
	i := len(r.layers) - 1
	r.layers[i].reset(layerSelector)
	r.index[key] = i
	return &r.layers[i]
}

func (r *MapCSSResult) apply(layerSelector, classKey string, d Declaration) {
	r.layerFor(layerSelector, classKey).setValue(d.Property, d.Value)
}
