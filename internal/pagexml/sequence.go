package pagexml

// SequenceRecord summarizes the reading order of one document.
type SequenceRecord struct {
	Filename     string
	TotalRegions int
	LastRegion   string
	Sequence     []string
}

// CountRecord holds per-type region counts for one document.
type CountRecord struct {
	Filename     string
	TotalRegions int
	CountsByType map[string]int
}

// ResolveSequence determines the reading order of doc as a list of region
// types.
//
// An explicit ReadingOrder/OrderedGroup is used when it yields at least one
// entry. Each reference is mapped to its region's type; a reference to an
// unknown id is kept verbatim. Regions the explicit order does not reference
// are left out. Otherwise regions are taken in file order, skipping regions
// without an id.
//
// TotalRegions always counts every region, whichever path produced the
// sequence. Duplicate ids are not rejected; the last region with an id wins.
func ResolveSequence(doc *Document, filename string) SequenceRecord {
	idToType := make(map[string]string, len(doc.Regions))
	for _, r := range doc.Regions {
		if r.ID != "" {
			idToType[r.ID] = r.Type
		}
	}

	lookup := func(id string) string {
		if t, ok := idToType[id]; ok {
			return t
		}
		return id
	}

	var seq []string
	if doc.HasExplicitOrder {
		for _, id := range doc.OrderRefs {
			if id != "" {
				seq = append(seq, lookup(id))
			}
		}
	}
	if len(seq) == 0 {
		for _, r := range doc.Regions {
			if r.ID != "" {
				seq = append(seq, lookup(r.ID))
			}
		}
	}

	rec := SequenceRecord{
		Filename:     filename,
		TotalRegions: len(doc.Regions),
		Sequence:     seq,
	}
	if len(seq) > 0 {
		rec.LastRegion = seq[len(seq)-1]
	}
	return rec
}

// CountRegions tallies every region of doc by type, including regions that
// cannot be drawn.
func CountRegions(doc *Document, filename string) CountRecord {
	counts := make(map[string]int)
	for _, r := range doc.Regions {
		counts[r.Type]++
	}
	return CountRecord{
		Filename:     filename,
		TotalRegions: len(doc.Regions),
		CountsByType: counts,
	}
}
