package image

type Strategy struct {
	m map[Type]Encoder
}

func NewStrategy(m map[Type]Encoder) *Strategy {
	return &Strategy{m: m}
}

// Apply returns nil when no encoder is registered for t.
func (s *Strategy) Apply(t Type) Encoder {
	return s.m[t]
}
