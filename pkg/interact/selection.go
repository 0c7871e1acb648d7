package interact

// =============================================================================
// Selection State
// =============================================================================

// SelectionMode describes the current shape of the selection set.
type SelectionMode int

const (
	SelectionEmpty SelectionMode = iota
	SelectionSingle
	SelectionMulti
)

// selection tracks the set of selected node ids in insertion order. It is
// not safe for concurrent use; the Manager serializes access under its lock.
type selection struct {
	ids   []string
	multi bool
}

func newSelection(multi bool) *selection {
	return &selection{multi: multi}
}

// Mode reports the current selection mode.
func (s *selection) Mode() SelectionMode {
	switch len(s.ids) {
	case 0:
		return SelectionEmpty
	case 1:
		return SelectionSingle
	default:
		return SelectionMulti
	}
}

// IDs returns a copy of the selected node ids in selection order.
func (s *selection) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *selection) contains(id string) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

func (s *selection) remove(id string) {
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return
		}
	}
}

// Tap applies a tap on a node and returns the ids that were selected and
// deselected as a result. A plain tap selects the node, replacing the prior
// selection unless multi-select is enabled, in which case it adds. With the
// toggle modifier a tap on an already-selected node deselects it and nothing
// else; without it a re-tap leaves the selection unchanged.
func (s *selection) Tap(id string, toggle bool) (selected, deselected []string) {
	if s.contains(id) {
		if toggle {
			s.remove(id)
			return nil, []string{id}
		}
		return nil, nil
	}
	if !s.multi {
		deselected = s.ids
		s.ids = nil
	}
	s.ids = append(s.ids, id)
	return []string{id}, deselected
}

// Clear empties the selection and returns the ids that were deselected.
func (s *selection) Clear() []string {
	out := s.ids
	s.ids = nil
	return out
}

// Prune drops selected ids that are no longer present in the graph. No
// deselect events are reported; the nodes are simply gone.
func (s *selection) Prune(valid map[string]bool) {
	kept := s.ids[:0]
	for _, id := range s.ids {
		if valid[id] {
			kept = append(kept, id)
		}
	}
	s.ids = kept
}
