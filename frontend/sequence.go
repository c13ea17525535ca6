package frontend

import "strings"

// MaxSequenceLen is the kernel limit on properties per ioctl
// (DTV_IOCTL_MAX_MSGS).
const MaxSequenceLen = 64

// Sequence is an ordered list of properties making up one tune request or
// one status query. The kernel processes properties in submission order, so
// insertion order is significant and the TUNE commit marker must stay last.
type Sequence struct {
	props []Property
}

// NewSequence returns an empty sequence.
func NewSequence() *Sequence {
	return &Sequence{}
}

// TuneSequence returns a sequence seeded with the delivery system property,
// the first key of every canonical tune order.
func TuneSequence(sys DeliverySystem) *Sequence {
	s := NewSequence()
	s.props = append(s.props, Property{Key: KeyDeliverySystem, Value: Uint32Value(uint32(sys))})
	return s
}

// Push appends a property. It fails with DuplicateKeyError when the key is
// already present and with OutOfOrderError when the sequence is already
// committed.
func (s *Sequence) Push(p Property) error {
	if s.Committed() {
		return &OutOfOrderError{Key: p.Key}
	}
	if _, ok := s.Lookup(p.Key); ok {
		return &DuplicateKeyError{Key: p.Key}
	}
	s.props = append(s.props, p)
	return nil
}

// PushValue builds the property and pushes it in one step.
func (s *Sequence) PushValue(key Key, v Value) error {
	p, err := New(key, v)
	if err != nil {
		return err
	}
	return s.Push(p)
}

func (s *Sequence) PushUint32(key Key, v uint32) error {
	return s.PushValue(key, Uint32Value(v))
}

func (s *Sequence) PushInt32(key Key, v int32) error {
	return s.PushValue(key, Int32Value(v))
}

// Commit appends the TUNE marker, the action that makes the driver apply the
// accumulated parameters atomically. Nothing can be pushed afterwards.
func (s *Sequence) Commit() error {
	return s.PushValue(KeyTune, NoValue())
}

// Committed reports whether the TUNE marker is present.
func (s *Sequence) Committed() bool {
	_, ok := s.Lookup(KeyTune)
	return ok
}

func (s *Sequence) Len() int {
	return len(s.props)
}

// Properties returns the backing slice in submission order.
func (s *Sequence) Properties() []Property {
	return s.props
}

// Lookup returns the property for a key, if present.
func (s *Sequence) Lookup(key Key) (Property, bool) {
	for _, p := range s.props {
		if p.Key == key {
			return p, true
		}
	}
	return Property{}, false
}

// Uint32 returns the numeric payload for a key, if present.
func (s *Sequence) Uint32(key Key) (uint32, bool) {
	p, ok := s.Lookup(key)
	if !ok {
		return 0, false
	}
	return p.Value.Uint32(), true
}

// System returns the delivery system the sequence selects.
func (s *Sequence) System() (DeliverySystem, bool) {
	v, ok := s.Uint32(KeyDeliverySystem)
	return DeliverySystem(v), ok
}

// Validate checks the sequence against a delivery system spec. It is pure:
// no ioctl happens before it passes. Checks run in a fixed order so the
// first structural problem is reported before any value-range issue:
// ordering, duplicates, mandatory keys, legality and ranges of present keys.
func (s *Sequence) Validate(spec *SystemSpec) error {
	for i, p := range s.props {
		if p.Key == KeyTune && i != len(s.props)-1 {
			return &OutOfOrderError{Key: s.props[i+1].Key}
		}
	}

	seen := make(map[Key]bool, len(s.props))
	for _, p := range s.props {
		if seen[p.Key] {
			return &DuplicateKeyError{Key: p.Key}
		}
		seen[p.Key] = true
	}

	for _, key := range spec.Mandatory {
		if !seen[key] {
			return &MissingKeyError{System: spec.System, Key: key}
		}
	}
	if !seen[KeyTune] {
		return &MissingKeyError{System: spec.System, Key: KeyTune}
	}

	for _, p := range s.props {
		if err := spec.Check(p); err != nil {
			return err
		}
	}

	return nil
}

// ApplyDefaults pushes the spec's optional-key defaults for keys not set
// yet. It is a no-op on committed sequences.
func (s *Sequence) ApplyDefaults(spec *SystemSpec) error {
	if s.Committed() {
		return nil
	}
	for _, p := range spec.Defaults {
		if _, ok := s.Lookup(p.Key); ok {
			continue
		}
		if err := s.Push(p); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sequence) String() string {
	parts := make([]string, 0, len(s.props))
	for _, p := range s.props {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, "\n")
}
