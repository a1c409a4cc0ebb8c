package axislink

// Panel is anything with linkable axes. Either handle may be nil when the
// panel has no such axis.
type Panel interface {
	Axes() (x, y *Handle)
}

// Group is one tag's linking outcome.
type Group struct {
	Tag       string
	Canonical Handle
	Members   int
}

// Report summarizes one Link pass.
type Report struct {
	Groups  []Group
	Rebinds int
}

// Synchronizer links panel axes that share a tag.
type Synchronizer struct {
	table *Table
}

// NewSynchronizer returns a synchronizer over table.
func NewSynchronizer(table *Table) *Synchronizer {
	return &Synchronizer{table: table}
}

// Link groups every axis handle of panels by its range tag, in first-seen
// order (x before y within a panel). The first handle of a group is
// canonical; every other handle in the group is rewritten to it. Untagged
// ranges and single-member groups are left alone. Running Link twice over
// the same panels rebinds nothing the second time.
func (s *Synchronizer) Link(panels []Panel) Report {
	type group struct {
		canonical Handle
		members   []*Handle
	}
	var order []string
	groups := make(map[string]*group)

	visit := func(h *Handle) {
		if h == nil {
			return
		}
		tag := s.table.Get(*h).Tag
		if tag == "" {
			return
		}
		g, ok := groups[tag]
		if !ok {
			g = &group{canonical: *h}
			groups[tag] = g
			order = append(order, tag)
		}
		g.members = append(g.members, h)
	}
	for _, p := range panels {
		x, y := p.Axes()
		visit(x)
		visit(y)
	}

	var rep Report
	for _, tag := range order {
		g := groups[tag]
		if len(g.members) > 1 {
			for _, h := range g.members[1:] {
				if *h != g.canonical {
					*h = g.canonical
					rep.Rebinds++
				}
			}
		}
		rep.Groups = append(rep.Groups, Group{Tag: tag, Canonical: g.canonical, Members: len(g.members)})
	}
	return rep
}

// Linked returns how many groups in the report have more than one member.
func (r Report) Linked() int {
	n := 0
	for _, g := range r.Groups {
		if g.Members > 1 {
			n++
		}
	}
	return n
}
