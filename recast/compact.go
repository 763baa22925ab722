package recast

// BuildCompactHeightfield builds a compact heightfield from the spans of an
// already-rasterized and filtered Heightfield: every column is collapsed
// down to one CompactSpan per open-air gap between a walkable span and the
// span above it, and each CompactSpan is linked to its four planar
// neighbors when the step between them is within walkableClimb.
//
// This is a required step between filtering and region/contour building;
// nothing here changes the algorithm the later stages (ErodeWalkableArea,
// BuildRegionsMonotone, BuildContours, ...) already assume of a
// CompactHeightfield, it only produces one.
func BuildCompactHeightfield(ctx *BuildContext, walkableHeight, walkableClimb int32,
	hf *Heightfield, chf *CompactHeightfield) bool {

	ctx.StartTimer(RC_TIMER_BUILD_COMPACTHEIGHTFIELD)
	defer ctx.StopTimer(RC_TIMER_BUILD_COMPACTHEIGHTFIELD)

	w := hf.Width
	h := hf.Height
	spanCount := countSpans(hf)

	chf.Width = w
	chf.Height = h
	chf.SpanCount = spanCount
	chf.WalkableHeight = walkableHeight
	chf.WalkableClimb = walkableClimb
	chf.BorderSize = 0
	chf.MaxDistance = 0
	chf.MaxRegions = 0
	chf.BMin = hf.BMin
	chf.BMax = hf.BMax
	chf.BMax[1] += float32(walkableHeight) * hf.Ch
	chf.Cs = hf.Cs
	chf.Ch = hf.Ch
	chf.Cells = make([]CompactCell, w*h)
	chf.Spans = make([]CompactSpan, spanCount)
	chf.Areas = make([]uint8, spanCount)
	chf.Dist = nil

	const maxHeight = 0xffff

	// Fill in cells and spans.
	idx := int32(0)
	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			s := hf.Spans[x+y*w]
			if s == nil {
				continue
			}

			c := &chf.Cells[x+y*w]
			c.Index = uint32(idx)
			count := uint8(0)

			for ; s != nil; s = s.next {
				if s.area == RC_NULL_AREA {
					continue
				}
				bot := int32(s.smax)
				var top int32
				if s.next != nil {
					top = int32(s.next.smin)
				} else {
					top = maxHeight
				}
				cs := &chf.Spans[idx]
				cs.Y = uint16(clampInt32(bot, 0, maxHeight))
				cs.H = uint8(clampInt32(top-bot, 0, 0xff))
				chf.Areas[idx] = s.area
				idx++
				count++
			}

			c.Count = count
		}
	}

	// Find neighbor connections.
	const maxLayers = RC_NOT_CONNECTED - 1
	tooHighNeighbour := int32(0)

	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			c := &chf.Cells[x+y*w]
			for i := int32(c.Index); i < int32(c.Index)+int32(c.Count); i++ {
				s := &chf.Spans[i]

				for dir := int32(0); dir < 4; dir++ {
					SetCon(s, dir, RC_NOT_CONNECTED)
					nx := x + GetDirOffsetX(dir)
					ny := y + GetDirOffsetY(dir)
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}

					nc := &chf.Cells[nx+ny*w]
					for k := int32(nc.Index); k < int32(nc.Index)+int32(nc.Count); k++ {
						ns := &chf.Spans[k]
						bot := iMax(int32(s.Y), int32(ns.Y))
						top := iMin(int32(s.Y)+int32(s.H), int32(ns.Y)+int32(ns.H))

						if (top-bot) >= walkableHeight && iAbs(int32(ns.Y)-int32(s.Y)) <= walkableClimb {
							lidx := k - int32(nc.Index)
							if lidx < 0 || lidx > maxLayers {
								tooHighNeighbour = iMax(tooHighNeighbour, lidx)
								continue
							}
							SetCon(s, dir, lidx)
							break
						}
					}
				}
			}
		}
	}

	if tooHighNeighbour >= maxLayers {
		ctx.Errorf("compact heightfield has too many layers %d (max %d)", tooHighNeighbour, maxLayers)
	}

	return true
}

// countSpans counts the walkable, non-null-area spans across a Heightfield,
// which is exactly how many CompactSpan slots BuildCompactHeightfield needs.
func countSpans(hf *Heightfield) int32 {
	var n int32
	for i := range hf.Spans {
		for s := hf.Spans[i]; s != nil; s = s.next {
			if s.area != RC_NULL_AREA {
				n++
			}
		}
	}
	return n
}

func clampInt32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
