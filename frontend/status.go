package frontend

import (
	"fmt"
	"strings"
)

// StatusFlags is the FE_READ_STATUS bitmask describing lock-acquisition
// progress.
type StatusFlags uint32

const (
	// HasSignal: found something above the noise level
	HasSignal StatusFlags = 0x01
	// HasCarrier: found a carrier
	HasCarrier StatusFlags = 0x02
	// HasViterbi: inner FEC is stable
	HasViterbi StatusFlags = 0x04
	// HasSync: synchronization bytes found
	HasSync StatusFlags = 0x08
	// HasLock: everything is working
	HasLock StatusFlags = 0x10
	// TimedOut: no lock within the last couple of seconds
	TimedOut StatusFlags = 0x20
	// Reinit: frontend was reinitialized, tone and voltage need resetting
	Reinit StatusFlags = 0x40
)

func (f StatusFlags) Has(bit StatusFlags) bool {
	return f&bit != 0
}

// StatusKeys is the fixed key set one status read queries.
var StatusKeys = []Key{
	KeyLockStatus,
	KeyDeliverySystem,
	KeyModulation,
	KeyStatSignalStrength,
	KeyStatCNR,
	KeyStatPreErrorBitCount,
	KeyStatErrorBlockCount,
}

// StatusRecord is the uniform decoded view of one status read. Pointer
// fields are nil when the driver does not report the metric; absence is
// distinct from zero. Records are built fresh on every read and never
// patched afterwards.
type StatusRecord struct {
	Flags  StatusFlags
	Locked bool

	DeliverySystem DeliverySystem
	Modulation     Modulation

	// milli-dB, from the decibel-scaled stats
	SignalStrengthDecibel *int32
	SNRDecibel            *int32

	// 0..100, from the relative-scaled stats or derived from decibels
	SignalStrengthPercent *uint8
	SNRPercent            *uint8

	BER               *uint64
	UncorrectedBlocks *uint64
}

// DecodeStatus turns a status property sequence into a StatusRecord. It is
// pure and works on already-fetched data, so a synthetic sequence decodes
// without a device. Keys absent from the sequence, and stats the driver
// flags as not available, leave their fields nil.
func DecodeStatus(seq *Sequence) *StatusRecord {
	rec := &StatusRecord{}

	if v, ok := seq.Uint32(KeyLockStatus); ok {
		rec.Flags = StatusFlags(v)
		rec.Locked = rec.Flags.Has(HasLock)
	}
	if v, ok := seq.Uint32(KeyDeliverySystem); ok {
		rec.DeliverySystem = DeliverySystem(v)
	}
	if v, ok := seq.Uint32(KeyModulation); ok {
		rec.Modulation = Modulation(v)
	}

	if p, ok := seq.Lookup(KeyStatSignalStrength); ok {
		rec.SignalStrengthDecibel, rec.SignalStrengthPercent =
			normalizeSignal(p.Value.Stats(), rec.Flags)
	}
	if p, ok := seq.Lookup(KeyStatCNR); ok {
		rec.SNRDecibel, rec.SNRPercent =
			normalizeSNR(p.Value.Stats(), rec.Flags, rec.DeliverySystem, rec.Modulation)
	}
	if p, ok := seq.Lookup(KeyStatPreErrorBitCount); ok {
		if c, ok := p.Value.Stats().Counter(); ok {
			rec.BER = &c
		}
	}
	if p, ok := seq.Lookup(KeyStatErrorBlockCount); ok {
		if c, ok := p.Value.Stats().Counter(); ok {
			rec.UncorrectedBlocks = &c
		}
	}

	return rec
}

// normalizeSignal maps the signal strength stats to milli-dB and percent.
// Drivers without a relative scale get a percentage estimated from the
// usable dBm window of consumer tuners (-85dBm .. -6dBm).
func normalizeSignal(stats Stats, flags StatusFlags) (*int32, *uint8) {
	var db *int32
	if v, ok := stats.Decibel(); ok {
		d := int32(v)
		db = &d
	}

	if v, ok := stats.Relative(); ok {
		pct := uint8(uint32(v) * 100 / 65535)
		return db, &pct
	}
	if db != nil && flags.Has(HasSignal) {
		const lo, hi = -85000, -6000
		var pct uint8
		switch {
		case *db > hi:
			pct = 100
		case *db < lo:
			pct = 0
		default:
			pct = uint8((int64(lo-*db) * 100) / (lo - hi))
		}
		return db, &pct
	}
	return db, nil
}

// normalizeSNR maps the carrier-to-noise stats to milli-dB and percent. The
// percentage full scale depends on the delivery system: around 15dB is a
// perfect DVB-S signal while DVB-C needs 28dB.
func normalizeSNR(stats Stats, flags StatusFlags, sys DeliverySystem, mod Modulation) (*int32, *uint8) {
	var db *int32
	if v, ok := stats.Decibel(); ok {
		d := int32(v)
		db = &d
	}

	if v, ok := stats.Relative(); ok {
		pct := uint8(uint32(v) * 100 / 65535)
		return db, &pct
	}
	if db != nil && flags.Has(HasCarrier) {
		full, ok := snrFullScale(sys, mod)
		if !ok {
			return db, nil
		}
		var pct uint8
		switch {
		case *db <= 0:
			pct = 0
		case *db >= full:
			pct = 100
		default:
			pct = uint8(int64(*db) * 100 / int64(full))
		}
		return db, &pct
	}
	return db, nil
}

func snrFullScale(sys DeliverySystem, mod Modulation) (int32, bool) {
	switch sys {
	case SystemDVBS, SystemDVBS2:
		return 15000, true
	case SystemDVBCAnnexA, SystemDVBCAnnexB, SystemDVBCAnnexC, SystemDVBC2:
		return 28000, true
	case SystemDVBT, SystemDVBT2:
		return 19000, true
	case SystemATSC:
		if mod == VSB8 || mod == VSB16 {
			return 19000, true
		}
		return 28000, true
	}
	return 0, false
}

// ReadStatus performs one status round trip and decodes it. When the driver
// lacks DVBv5 stats but has a lock, the DVBv3 scalar reads fill in what they
// can; metrics not reported either way stay nil.
func (d *Device) ReadStatus() (*StatusRecord, error) {
	seq, err := d.GetProperties(StatusKeys...)
	if err != nil {
		return nil, err
	}
	rec := DecodeStatus(seq)

	lr, ok := d.transport.(LegacyStatReader)
	if !ok {
		return rec, nil
	}

	if rec.Flags.Has(HasSignal) && rec.SignalStrengthPercent == nil && rec.SignalStrengthDecibel == nil {
		if v, err := lr.ReadSignalStrength(); err == nil {
			pct := uint8(uint32(v) * 100 / 65535)
			rec.SignalStrengthPercent = &pct
		}
	}
	if rec.Flags.Has(HasCarrier) && rec.SNRPercent == nil && rec.SNRDecibel == nil {
		if v, err := lr.ReadSNR(); err == nil {
			pct := uint8(uint32(v) * 100 / 65535)
			rec.SNRPercent = &pct
		}
	}
	if rec.Locked {
		if rec.BER == nil {
			if v, err := lr.ReadBER(); err == nil {
				c := uint64(v)
				rec.BER = &c
			}
		}
		if rec.UncorrectedBlocks == nil {
			if v, err := lr.ReadUncorrectedBlocks(); err == nil {
				c := uint64(v)
				rec.UncorrectedBlocks = &c
			}
		}
	}
	return rec, nil
}

// String renders the record as one femon-style line:
//
//	OFF
//	NO-LOCK 0x03 | Signal -38.56dBm (59%)
//	LOCK dvbs2 | Signal -38.56dBm (59%) | Quality 14.57dB (70%) | BER:0 | UNC:0
func (r *StatusRecord) String() string {
	if r.Flags == 0 {
		return "OFF"
	}

	var b strings.Builder
	if r.Locked {
		fmt.Fprintf(&b, "LOCK %s", r.DeliverySystem)
	} else {
		fmt.Fprintf(&b, "NO-LOCK 0x%02X", uint32(r.Flags))
	}

	if !r.Flags.Has(HasSignal) {
		return b.String()
	}
	fmt.Fprintf(&b, " | Signal %.2fdBm (%d%%)",
		float64(deref32(r.SignalStrengthDecibel))/1000.0, derefU8(r.SignalStrengthPercent))

	if !r.Flags.Has(HasCarrier) {
		return b.String()
	}
	fmt.Fprintf(&b, " | Quality %.2fdB (%d%%)",
		float64(deref32(r.SNRDecibel))/1000.0, derefU8(r.SNRPercent))

	if !r.Locked {
		return b.String()
	}

	b.WriteString(" | BER:")
	if r.BER != nil {
		fmt.Fprintf(&b, "%d", *r.BER)
	} else {
		b.WriteString("-")
	}
	b.WriteString(" | UNC:")
	if r.UncorrectedBlocks != nil {
		fmt.Fprintf(&b, "%d", *r.UncorrectedBlocks)
	} else {
		b.WriteString("-")
	}
	return b.String()
}

func deref32(p *int32) int32 {
	if p == nil {
		return 0
	}
	return *p
}

func derefU8(p *uint8) uint8 {
	if p == nil {
		return 0
	}
	return *p
}
