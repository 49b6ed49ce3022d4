package query

// Projection is the JSON-object-shaped view of one resource at a
// detail level: a mapping from field name to value.
type Projection map[string]any

// Project produces the tiered representation of a resource. It is
// pure and total over registered kinds: every resource projects at
// every level, unknown or missing fields are omitted, never
// synthesized.
//
// basic is the canonical {id, name, status} triple. detailed adds the
// kind's summary fields where present. full carries every non-nil raw
// field verbatim, plus the canonical triple for kinds whose upstream
// records spell those fields differently, so that each tier's field
// set is a subset of the next.
func Project(r Resource, level DetailLevel) Projection {
	switch level {
	case DetailBasic:
		return Projection{
			"id":     r.ID,
			"name":   r.Name,
			"status": r.Status,
		}

	case DetailFull:
		p := make(Projection, len(r.Raw)+3)
		for k, v := range r.Raw {
			if v != nil {
				p[k] = v
			}
		}
		if _, ok := p["id"]; !ok {
			p["id"] = r.ID
		}
		if _, ok := p["name"]; !ok {
			p["name"] = r.Name
		}
		if _, ok := p["status"]; !ok {
			p["status"] = r.Status
		}
		return p

	default: // detailed
		ks := kindSpecs[r.Kind]
		p := Projection{
			"id":     r.ID,
			"name":   r.Name,
			"status": r.Status,
		}
		for _, field := range ks.detailedFields {
			if v, ok := r.Raw[field]; ok && v != nil {
				p[field] = v
			}
		}
		return p
	}
}

// ProjectAll projects a batch at one detail level, preserving order.
func ProjectAll(resources []Resource, level DetailLevel) []Projection {
	projections := make([]Projection, 0, len(resources))
	for _, r := range resources {
		projections = append(projections, Project(r, level))
	}
	return projections
}
