package extractor

// URLSet keeps unique absolute URLs. Order is not tracked; callers sort Keys.
type URLSet struct {
	m map[string]struct{}
}

func NewURLSet() *URLSet {
	return &URLSet{m: make(map[string]struct{})}
}

// Add inserts u and reports whether it was new.
func (s *URLSet) Add(u string) bool {
	if _, ok := s.m[u]; ok {
		return false
	}
	s.m[u] = struct{}{}
	return true
}

// Keys returns the members in unspecified order.
func (s *URLSet) Keys() []string {
	out := make([]string, 0, len(s.m))
	for k := range s.m {
		out = append(out, k)
	}
	return out
}
