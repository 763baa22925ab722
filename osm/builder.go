package osm

// Builder is the abstract interface through which OSM wire-format readers
// (o5m, pbf, xml — all out of scope here, per spec) populate a DataSet. A
// reader calls SetMergeBuffer once if it streams overlapping extracts, then
// AddNode/AddWay/AddRelation for every element it decodes, in any order;
// Finish sorts and interns everything.
type Builder interface {
	SetMergeBuffer(enabled bool)
	AddNode(n Node)
	AddWay(w Way)
	AddRelation(r Relation)
}

// DataSetBuilder implements Builder by accumulating elements into a fresh
// DataSet.
type DataSetBuilder struct {
	ds    *DataSet
	merge bool
	seen  map[ID]bool // when merge is enabled, de-dupes by (type, id)
}

// NewDataSetBuilder returns a Builder that fills a new, empty DataSet.
func NewDataSetBuilder() *DataSetBuilder {
	return &DataSetBuilder{ds: NewDataSet()}
}

// SetMergeBuffer enables de-duplication of elements added more than once,
// for readers that may present the same element across overlapping tiles
// or extract boundaries.
func (b *DataSetBuilder) SetMergeBuffer(enabled bool) {
	b.merge = enabled
	if enabled && b.seen == nil {
		b.seen = make(map[ID]bool)
	}
}

func (b *DataSetBuilder) dup(t Type, id ID) bool {
	if !b.merge {
		return false
	}
	key := ID(t)<<60 ^ id
	if b.seen[key] {
		return true
	}
	b.seen[key] = true
	return false
}

// AddNode appends n to the in-progress data set.
func (b *DataSetBuilder) AddNode(n Node) {
	if b.dup(TypeNode, n.ID) {
		return
	}
	b.ds.nodes = append(b.ds.nodes, n)
}

// AddWay appends w to the in-progress data set.
func (b *DataSetBuilder) AddWay(w Way) {
	if b.dup(TypeWay, w.ID) {
		return
	}
	b.ds.ways = append(b.ds.ways, w)
}

// AddRelation appends r to the in-progress data set.
func (b *DataSetBuilder) AddRelation(r Relation) {
	if b.dup(TypeRelation, r.ID) {
		return
	}
	b.ds.relations = append(b.ds.relations, r)
}

// Finish sorts every vector by ID, interns all tags, recomputes missing way
// and relation bounding boxes, and returns the finished DataSet. The
// builder must not be used afterwards.
func (b *DataSetBuilder) Finish() *DataSet {
	b.ds.sortAll()
	b.ds.InternAll()
	for i := range b.ds.ways {
		if b.ds.ways[i].BBox.Empty() {
			RecomputeBoundingBox(b.ds, WayElement(&b.ds.ways[i]))
		}
	}
	for i := range b.ds.relations {
		if b.ds.relations[i].BBox.Empty() {
			RecomputeBoundingBox(b.ds, RelationElement(&b.ds.relations[i]))
		}
	}
	return b.ds
}
