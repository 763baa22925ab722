package osm

// Node is a single geographic point.
type Node struct {
	ID   ID
	Pos  Coord
	Tags TagSet
}

// Way is an ordered sequence of node references plus a cached bounding box.
// Node IDs that don't resolve against the owning DataSet are skipped by
// geometry-producing operations rather than treated as an error.
type Way struct {
	ID    ID
	Nodes []ID
	Tags  TagSet
	BBox  BBox // cached; may be stale until RecomputeBoundingBox runs
}

// Closed reports whether the way's first and last node ids are equal and
// there are at least 3 distinct points, i.e. it traces a closed ring.
func (w *Way) Closed() bool {
	return len(w.Nodes) >= 4 && w.Nodes[0] == w.Nodes[len(w.Nodes)-1]
}

// MemberType discriminates the type of a relation member reference.
type MemberType = Type

// Member is one element of a relation: a reference plus its OSM role
// ("outer", "inner", or any other application-defined string).
type Member struct {
	ID   ID
	Type MemberType
	Role string
}

// Relation is an ordered sequence of members plus a cached bounding box.
// A relation tagged type=multipolygon defines a polygon via its "outer"/
// "inner" member ways.
type Relation struct {
	ID      ID
	Members []Member
	Tags    TagSet
	BBox    BBox
}

// IsMultipolygon reports whether the relation is tagged type=multipolygon.
func (r *Relation) IsMultipolygon() bool {
	return r.Tags.Find("type") == "multipolygon"
}

// outerWayIDs returns the IDs of this relation's "outer" member ways, in
// member order.
func (r *Relation) outerWayIDs() []ID {
	var ids []ID
	for _, m := range r.Members {
		if m.Type == TypeWay && m.Role == "outer" {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// innerWayIDs returns the IDs of this relation's "inner" member ways, in
// member order.
func (r *Relation) innerWayIDs() []ID {
	var ids []ID
	for _, m := range r.Members {
		if m.Type == TypeWay && m.Role == "inner" {
			ids = append(ids, m.ID)
		}
	}
	return ids
}
