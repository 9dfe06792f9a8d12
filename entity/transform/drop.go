package transform

// DropConfig removes the matched field from the output record entirely
// (redaction by omission). With Labels set, only fields carrying a qualifying
// entity label are dropped.
type DropConfig struct {
	Labels       []string
	MinimumScore *float64
}

func (c DropConfig) Build() (Unit, error) {
	return &drop{unitBase: newUnitBase(c.Labels, c.MinimumScore)}, nil
}

type drop struct {
	unitBase
}

func (u *drop) Kind() Kind {
	return KindDrop
}

func (u *drop) Apply(value any, fc FieldContext) (any, bool, error) {
	return nil, false, nil
}
