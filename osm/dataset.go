package osm

import "sort"

// DataSet owns three id-sorted vectors of elements. Elements returned from
// it are non-owning references whose lifetime must not exceed the DataSet's.
//
// Invariant: IDs are unique within each vector. Binary search over a sorted
// slice mirrors the lookup discipline the teacher's detour.NavMesh uses for
// its own tile grid: build the index once, look it up by key many times.
type DataSet struct {
	nodes     []Node
	ways      []Way
	relations []Relation

	keys    []string       // interned tag keys, in the order first interned
	keyIdx  map[string]int32 // key -> index into keys, built lazily
}

// NewDataSet returns an empty DataSet ready to be filled by a Builder.
func NewDataSet() *DataSet {
	return &DataSet{keyIdx: make(map[string]int32)}
}

// Nodes, Ways and Relations return the DataSet's backing vectors, sorted by
// ID ascending. Callers must not mutate the returned slices.
func (d *DataSet) Nodes() []Node         { return d.nodes }
func (d *DataSet) Ways() []Way           { return d.ways }
func (d *DataSet) Relations() []Relation { return d.relations }

// NodeByID resolves id via binary search; ok is false if absent.
func (d *DataSet) NodeByID(id ID) (*Node, bool) {
	i := sort.Search(len(d.nodes), func(i int) bool { return d.nodes[i].ID >= id })
	if i < len(d.nodes) && d.nodes[i].ID == id {
		return &d.nodes[i], true
	}
	return nil, false
}

// WayByID resolves id via binary search; ok is false if absent.
func (d *DataSet) WayByID(id ID) (*Way, bool) {
	i := sort.Search(len(d.ways), func(i int) bool { return d.ways[i].ID >= id })
	if i < len(d.ways) && d.ways[i].ID == id {
		return &d.ways[i], true
	}
	return nil, false
}

// RelationByID resolves id via binary search; ok is false if absent.
func (d *DataSet) RelationByID(id ID) (*Relation, bool) {
	i := sort.Search(len(d.relations), func(i int) bool { return d.relations[i].ID >= id })
	if i < len(d.relations) && d.relations[i].ID == id {
		return &d.relations[i], true
	}
	return nil, false
}

// sortAll restores the id-ascending invariant. Called once after a Builder
// finishes loading.
func (d *DataSet) sortAll() {
	sort.Slice(d.nodes, func(i, j int) bool { return d.nodes[i].ID < d.nodes[j].ID })
	sort.Slice(d.ways, func(i, j int) bool { return d.ways[i].ID < d.ways[j].ID })
	sort.Slice(d.relations, func(i, j int) bool { return d.relations[i].ID < d.relations[j].ID })
}

// InternKey resolves key against the dataset's tag-key table, adding it if
// new, and returns its compact handle. Called once per condition at style
// compile time (spec: "Interned tag key... resolved once at style-compile
// time against the data set's tag-key table").
func (d *DataSet) InternKey(key string) InternedKey {
	if idx, ok := d.keyIdx[key]; ok {
		return InternedKey(idx)
	}
	idx := int32(len(d.keys))
	d.keys = append(d.keys, key)
	d.keyIdx[key] = idx
	return InternedKey(idx)
}

// KeyName returns the literal string behind an interned key.
func (d *DataSet) KeyName(k InternedKey) string {
	if int(k) < 0 || int(k) >= len(d.keys) {
		return ""
	}
	return d.keys[k]
}

// InternedKey is a compact handle into a DataSet's tag-key table, resolved
// once at style-compile time. Using it instead of comparing key strings on
// every element keeps the evaluator's hot loop allocation-free.
type InternedKey int32

// internedLookup finds the value of an already-interned key against tags
// whose keyIdx fields have been populated by internTags. O(log n) thanks to
// the key-sorted order internTags leaves tags in.
func internedLookup(tags TagSet, k InternedKey) (string, bool) {
	i := sort.Search(len(tags), func(i int) bool { return tags[i].keyIdx >= int32(k) })
	if i < len(tags) && tags[i].keyIdx == int32(k) {
		return tags[i].Value, true
	}
	return "", false
}

// internTags interns every tag key in place and sorts the tag set by the
// resulting handle, so later interned lookups can binary search.
func (d *DataSet) internTags(tags TagSet) {
	for i := range tags {
		tags[i].keyIdx = int32(d.InternKey(tags[i].Key))
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].keyIdx < tags[j].keyIdx })
}

// InternAll interns every element's tags against this data set's key table.
// A style must be compiled against the same call's result — see
// mapcss.Style.Compile.
func (d *DataSet) InternAll() {
	for i := range d.nodes {
		d.internTags(d.nodes[i].Tags)
	}
	for i := range d.ways {
		d.internTags(d.ways[i].Tags)
	}
	for i := range d.relations {
		d.internTags(d.relations[i].Tags)
	}
}
