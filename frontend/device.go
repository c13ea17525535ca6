package frontend

import "fmt"

// maxQueuedEvents bounds the drain loop in Clear; the kernel queue holds at
// most 8 events.
const maxQueuedEvents = 8

// Device is a handle on one frontend. It owns its transport exclusively:
// the kernel device node is not re-entrant for a mixed tune and status
// sequence, so a Device must not be shared between goroutines without
// external synchronization.
//
// Nothing is cached except the static Info; every status or property read
// is a fresh round trip.
type Device struct {
	adapter  uint32
	frontend uint32
	writable bool

	transport Transport
	info      *Info
	closed    bool
}

// NewDevice wraps an already-open transport. The static device info is
// fetched immediately; a transport that cannot even report info is closed
// again and the error returned.
func NewDevice(tr Transport, writable bool) (*Device, error) {
	info, err := tr.Info()
	if err != nil {
		tr.Close()
		return nil, fmt.Errorf("FE: get info: %w", err)
	}
	return &Device{writable: writable, transport: tr, info: info}, nil
}

// Info returns the static capability description read at open time.
func (d *Device) Info() *Info {
	return d.info
}

// Writable reports whether the handle may change tuner state.
func (d *Device) Writable() bool {
	return d.writable
}

// Adapter returns the adapter index the device was opened with.
func (d *Device) Adapter() uint32 { return d.adapter }

// Frontend returns the frontend index the device was opened with.
func (d *Device) Frontend() uint32 { return d.frontend }

// Close releases the underlying device node. It is safe to call twice.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return d.transport.Close()
}

// SetProperties validates and transmits a tune sequence. Validation errors
// and the read-only check surface before any transport call; the driver only
// ever sees sequences that passed the delivery system spec and the hardware
// capability checks. Not idempotent while the hardware is mid-lock: a second
// tune request restarts acquisition.
func (d *Device) SetProperties(seq *Sequence) error {
	if d.closed {
		return ErrClosed
	}
	if !d.writable {
		return ErrReadOnlyDevice
	}

	sys, ok := seq.System()
	if !ok {
		return &MissingKeyError{System: SystemUndefined, Key: KeyDeliverySystem}
	}
	spec, ok := SpecFor(sys)
	if !ok {
		return &ValueRangeError{Key: KeyDeliverySystem, Value: uint32(sys),
			Reason: "no tuning support for this delivery system"}
	}
	if err := seq.Validate(spec); err != nil {
		return err
	}
	if err := d.checkCaps(seq); err != nil {
		return err
	}

	if err := d.transport.Set(seq.Properties()); err != nil {
		return fmt.Errorf("FE: set properties: %w", err)
	}
	return nil
}

// GetProperties queries the driver for the listed keys. Needs only read
// access.
func (d *Device) GetProperties(keys ...Key) (*Sequence, error) {
	if d.closed {
		return nil, ErrClosed
	}
	props, err := d.transport.Get(keys)
	if err != nil {
		return nil, fmt.Errorf("FE: get properties: %w", err)
	}
	seq := NewSequence()
	seq.props = props
	return seq, nil
}

// SetVoltage sets the LNB supply voltage on its own, outside a tune
// sequence.
func (d *Device) SetVoltage(v Voltage) error {
	return d.setOne(KeyVoltage, uint32(v))
}

// SetTone switches the 22kHz tone on its own, outside a tune sequence.
func (d *Device) SetTone(t ToneMode) error {
	return d.setOne(KeyTone, uint32(t))
}

func (d *Device) setOne(key Key, v uint32) error {
	if d.closed {
		return ErrClosed
	}
	if !d.writable {
		return ErrReadOnlyDevice
	}
	p, err := New(key, Uint32Value(v))
	if err != nil {
		return err
	}
	if err := d.transport.Set([]Property{p}); err != nil {
		return fmt.Errorf("FE: set %s: %w", key, err)
	}
	return nil
}

// Clear resets the frontend: LNB power off, tone off, accumulated
// properties cleared, stale events drained.
func (d *Device) Clear() error {
	if d.closed {
		return ErrClosed
	}
	if !d.writable {
		return ErrReadOnlyDevice
	}

	props := []Property{
		{Key: KeyVoltage, Value: Uint32Value(uint32(VoltageOff))},
		{Key: KeyTone, Value: Uint32Value(uint32(ToneOff))},
		{Key: KeyClear, Value: NoValue()},
	}
	if err := d.transport.Set(props); err != nil {
		return fmt.Errorf("FE: clear: %w", err)
	}

	if er, ok := d.transport.(EventReader); ok {
		for i := 0; i < maxQueuedEvents; i++ {
			if _, err := er.ReadEvent(); err != nil {
				break
			}
		}
	}
	return nil
}

// checkCaps rejects values the hardware cannot do even though they are
// legal for the delivery system: out-of-range frequencies and symbol rates,
// AUTO settings without the matching capability, stream selection without
// multistream support.
func (d *Device) checkCaps(seq *Sequence) error {
	info := d.info
	for _, p := range seq.Properties() {
		v := p.Value.Uint32()
		switch p.Key {
		case KeyDeliverySystem:
			if len(info.DeliverySystems) > 0 && !info.Supports(DeliverySystem(v)) {
				return &ValueRangeError{Key: p.Key, Value: v,
					Reason: "delivery system not supported by hardware"}
			}
		case KeyFrequency:
			if info.FrequencyMax > 0 && (v < info.FrequencyMin || v > info.FrequencyMax) {
				return &ValueRangeError{Key: p.Key, Value: v,
					Reason: "frequency out of hardware range"}
			}
		case KeySymbolRate:
			if info.SymbolRateMax > 0 && (v < info.SymbolRateMin || v > info.SymbolRateMax) {
				return &ValueRangeError{Key: p.Key, Value: v,
					Reason: "symbolrate out of hardware range"}
			}
		case KeyInversion:
			if Inversion(v) == InversionAuto && !info.Caps.Has(CanInversionAuto) {
				return &ValueRangeError{Key: p.Key, Value: v,
					Reason: "auto inversion not available"}
			}
		case KeyTransmissionMode:
			if TransmissionMode(v) == TransmissionAuto && !info.Caps.Has(CanTransmissionModeAuto) {
				return &ValueRangeError{Key: p.Key, Value: v,
					Reason: "no auto transmission mode"}
			}
		case KeyGuardInterval:
			if GuardInterval(v) == GuardAuto && !info.Caps.Has(CanGuardIntervalAuto) {
				return &ValueRangeError{Key: p.Key, Value: v,
					Reason: "no auto guard interval"}
			}
		case KeyHierarchy:
			if Hierarchy(v) == HierarchyAuto && !info.Caps.Has(CanHierarchyAuto) {
				return &ValueRangeError{Key: p.Key, Value: v,
					Reason: "no auto hierarchy"}
			}
		case KeyStreamID:
			if !info.Caps.Has(CanMultistream) {
				return &ValueRangeError{Key: p.Key, Value: v,
					Reason: "no multistream support"}
			}
		}
	}
	return nil
}
