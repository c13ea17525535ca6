package frontend

import (
	"strings"
	"testing"
)

// statusSequence builds a synthetic status query answer.
func statusSequence(t *testing.T, props ...Property) *Sequence {
	t.Helper()
	seq := NewSequence()
	for _, p := range props {
		if err := seq.Push(p); err != nil {
			t.Fatalf("push %s: %v", p.Key, err)
		}
	}
	return seq
}

func prop(t *testing.T, key Key, v Value) Property {
	t.Helper()
	p, err := New(key, v)
	if err != nil {
		t.Fatalf("New(%s): %v", key, err)
	}
	return p
}

func TestDecodeStatusFullLock(t *testing.T) {
	seq := statusSequence(t,
		prop(t, KeyLockStatus, BitmaskValue(uint32(HasSignal|HasCarrier|HasViterbi|HasSync|HasLock))),
		prop(t, KeyDeliverySystem, Uint32Value(uint32(SystemDVBS2))),
		prop(t, KeyModulation, Uint32Value(uint32(PSK8))),
		prop(t, KeyStatSignalStrength, StatsValue(Stat{Scale: ScaleDecibel, Value: -38560})),
		prop(t, KeyStatCNR, StatsValue(Stat{Scale: ScaleDecibel, Value: 14570})),
		prop(t, KeyStatPreErrorBitCount, StatsValue(Stat{Scale: ScaleCounter, Value: 12})),
		prop(t, KeyStatErrorBlockCount, StatsValue(Stat{Scale: ScaleCounter, Value: 0})),
	)

	rec := DecodeStatus(seq)
	if !rec.Locked {
		t.Fatal("Locked = false")
	}
	if rec.DeliverySystem != SystemDVBS2 || rec.Modulation != PSK8 {
		t.Errorf("system/modulation = %s/%s", rec.DeliverySystem, rec.Modulation)
	}
	if rec.SignalStrengthDecibel == nil || *rec.SignalStrengthDecibel != -38560 {
		t.Errorf("SignalStrengthDecibel = %v", rec.SignalStrengthDecibel)
	}
	if rec.SNRDecibel == nil || *rec.SNRDecibel != 14570 {
		t.Errorf("SNRDecibel = %v", rec.SNRDecibel)
	}
	if rec.BER == nil || *rec.BER != 12 {
		t.Errorf("BER = %v", rec.BER)
	}
	// a zero counter is a real zero, not absence
	if rec.UncorrectedBlocks == nil || *rec.UncorrectedBlocks != 0 {
		t.Errorf("UncorrectedBlocks = %v", rec.UncorrectedBlocks)
	}
}

func TestDecodeStatusLockBitRequired(t *testing.T) {
	seq := statusSequence(t,
		prop(t, KeyLockStatus, BitmaskValue(uint32(HasSignal|HasCarrier|HasViterbi|HasSync))),
	)
	rec := DecodeStatus(seq)
	if rec.Locked {
		t.Error("Locked = true without the lock bit")
	}
	if rec.Flags != HasSignal|HasCarrier|HasViterbi|HasSync {
		t.Errorf("Flags = %#x", uint32(rec.Flags))
	}
}

func TestDecodeStatusMissingSNRKey(t *testing.T) {
	seq := statusSequence(t,
		prop(t, KeyLockStatus, BitmaskValue(uint32(HasSignal|HasCarrier|HasLock))),
		prop(t, KeyStatSignalStrength, StatsValue(Stat{Scale: ScaleDecibel, Value: -40000})),
	)
	rec := DecodeStatus(seq)
	if rec.SNRDecibel != nil || rec.SNRPercent != nil {
		t.Errorf("SNR = %v/%v for a sequence without STAT_CNR", rec.SNRDecibel, rec.SNRPercent)
	}
}

func TestDecodeStatusNotAvailableScale(t *testing.T) {
	seq := statusSequence(t,
		prop(t, KeyLockStatus, BitmaskValue(uint32(HasSignal|HasCarrier|HasLock))),
		prop(t, KeyStatCNR, StatsValue(Stat{Scale: ScaleNotAvailable, Value: 0})),
		prop(t, KeyStatPreErrorBitCount, StatsValue(Stat{Scale: ScaleNotAvailable, Value: 0})),
	)
	rec := DecodeStatus(seq)
	if rec.SNRDecibel != nil || rec.SNRPercent != nil {
		t.Errorf("SNR decoded from a not-available stat: %v/%v", rec.SNRDecibel, rec.SNRPercent)
	}
	if rec.BER != nil {
		t.Errorf("BER decoded from a not-available stat: %v", rec.BER)
	}
}

func TestDecodeStatusEmptySequence(t *testing.T) {
	rec := DecodeStatus(NewSequence())
	if rec.Locked || rec.Flags != 0 {
		t.Errorf("flags = %#x", uint32(rec.Flags))
	}
	if rec.SignalStrengthDecibel != nil || rec.SNRDecibel != nil ||
		rec.BER != nil || rec.UncorrectedBlocks != nil {
		t.Error("empty sequence produced non-nil metrics")
	}
}

func TestNormalizeSignalRelativeScale(t *testing.T) {
	seq := statusSequence(t,
		prop(t, KeyLockStatus, BitmaskValue(uint32(HasSignal))),
		prop(t, KeyStatSignalStrength, StatsValue(Stat{Scale: ScaleRelative, Value: 0xffff})),
	)
	rec := DecodeStatus(seq)
	if rec.SignalStrengthPercent == nil || *rec.SignalStrengthPercent != 100 {
		t.Errorf("percent = %v", rec.SignalStrengthPercent)
	}
	if rec.SignalStrengthDecibel != nil {
		t.Errorf("decibel = %v from a relative-only stat", rec.SignalStrengthDecibel)
	}
}

func TestNormalizeSignalDecibelWindow(t *testing.T) {
	cases := []struct {
		db  int64
		pct uint8
	}{
		{-85000, 0},
		{-90000, 0},   // below the window clamps
		{-6000, 100},  // top of the window
		{-3000, 100},  // above clamps
		{-45500, 50},  // midpoint
	}
	for _, c := range cases {
		seq := statusSequence(t,
			prop(t, KeyLockStatus, BitmaskValue(uint32(HasSignal))),
			prop(t, KeyStatSignalStrength, StatsValue(Stat{Scale: ScaleDecibel, Value: c.db})),
		)
		rec := DecodeStatus(seq)
		if rec.SignalStrengthPercent == nil {
			t.Errorf("%d milli-dBm: percent is nil", c.db)
			continue
		}
		if *rec.SignalStrengthPercent != c.pct {
			t.Errorf("%d milli-dBm: percent = %d, want %d", c.db, *rec.SignalStrengthPercent, c.pct)
		}
	}
}

func TestNormalizeSignalNeedsSignalBit(t *testing.T) {
	// decibel reading without the has-signal flag: keep the raw value but
	// derive no percentage from it
	seq := statusSequence(t,
		prop(t, KeyLockStatus, BitmaskValue(0)),
		prop(t, KeyStatSignalStrength, StatsValue(Stat{Scale: ScaleDecibel, Value: -40000})),
	)
	rec := DecodeStatus(seq)
	if rec.SignalStrengthDecibel == nil {
		t.Fatal("decibel value dropped")
	}
	if rec.SignalStrengthPercent != nil {
		t.Errorf("percent = %d without HasSignal", *rec.SignalStrengthPercent)
	}
}

func TestNormalizeSNRFullScalePerSystem(t *testing.T) {
	cases := []struct {
		sys DeliverySystem
		mod Modulation
		db  int64
		pct uint8
	}{
		{SystemDVBS2, PSK8, 15000, 100},
		{SystemDVBS2, PSK8, 7500, 50},
		{SystemDVBCAnnexA, QAM64, 28000, 100},
		{SystemDVBT, QAM16, 19000, 100},
		{SystemATSC, VSB8, 19000, 100},
		{SystemATSC, QAM256, 28000, 100},
		{SystemATSC, QAM256, 19000, 67},
	}
	for _, c := range cases {
		seq := statusSequence(t,
			prop(t, KeyLockStatus, BitmaskValue(uint32(HasSignal|HasCarrier))),
			prop(t, KeyDeliverySystem, Uint32Value(uint32(c.sys))),
			prop(t, KeyModulation, Uint32Value(uint32(c.mod))),
			prop(t, KeyStatCNR, StatsValue(Stat{Scale: ScaleDecibel, Value: c.db})),
		)
		rec := DecodeStatus(seq)
		if rec.SNRPercent == nil {
			t.Errorf("%s/%s: percent is nil", c.sys, c.mod)
			continue
		}
		if *rec.SNRPercent != c.pct {
			t.Errorf("%s/%s %d milli-dB: percent = %d, want %d", c.sys, c.mod, c.db, *rec.SNRPercent, c.pct)
		}
	}
}

func TestNormalizeSNRUnknownSystemNoPercent(t *testing.T) {
	seq := statusSequence(t,
		prop(t, KeyLockStatus, BitmaskValue(uint32(HasSignal|HasCarrier))),
		prop(t, KeyDeliverySystem, Uint32Value(uint32(SystemDTMB))),
		prop(t, KeyStatCNR, StatsValue(Stat{Scale: ScaleDecibel, Value: 15000})),
	)
	rec := DecodeStatus(seq)
	if rec.SNRDecibel == nil || *rec.SNRDecibel != 15000 {
		t.Errorf("SNRDecibel = %v", rec.SNRDecibel)
	}
	if rec.SNRPercent != nil {
		t.Errorf("percent = %d for a system without a known full scale", *rec.SNRPercent)
	}
}

func TestReadStatusLegacyFallback(t *testing.T) {
	d, tr := fakeDevice(t, false)
	tr.getAnswer = map[Key]Value{
		KeyLockStatus:     BitmaskValue(uint32(HasSignal | HasCarrier | HasLock)),
		KeyDeliverySystem: Uint32Value(uint32(SystemDVBS)),
		// DVBv3-only driver: every stat comes back not available
		KeyStatSignalStrength:   StatsValue(Stat{Scale: ScaleNotAvailable}),
		KeyStatCNR:              StatsValue(Stat{Scale: ScaleNotAvailable}),
		KeyStatPreErrorBitCount: StatsValue(Stat{Scale: ScaleNotAvailable}),
		KeyStatErrorBlockCount:  StatsValue(Stat{Scale: ScaleNotAvailable}),
	}
	tr.legacySignal = 0xffff
	tr.legacySNR = 0x8000
	tr.legacyBER = 42
	tr.legacyUNC = 7

	rec, err := d.ReadStatus()
	if err != nil {
		t.Fatalf("ReadStatus: %v", err)
	}
	if rec.SignalStrengthPercent == nil || *rec.SignalStrengthPercent != 100 {
		t.Errorf("signal percent = %v", rec.SignalStrengthPercent)
	}
	if rec.SNRPercent == nil || *rec.SNRPercent != 50 {
		t.Errorf("snr percent = %v", rec.SNRPercent)
	}
	if rec.BER == nil || *rec.BER != 42 {
		t.Errorf("BER = %v", rec.BER)
	}
	if rec.UncorrectedBlocks == nil || *rec.UncorrectedBlocks != 7 {
		t.Errorf("UNC = %v", rec.UncorrectedBlocks)
	}
}

func TestReadStatusPropertyStatsWin(t *testing.T) {
	d, tr := fakeDevice(t, false)
	tr.getAnswer = map[Key]Value{
		KeyLockStatus:         BitmaskValue(uint32(HasSignal | HasCarrier | HasLock)),
		KeyDeliverySystem:     Uint32Value(uint32(SystemDVBS2)),
		KeyStatSignalStrength: StatsValue(Stat{Scale: ScaleDecibel, Value: -40000}),
		KeyStatCNR:            StatsValue(Stat{Scale: ScaleDecibel, Value: 12000}),
	}
	tr.legacySignal = 1 // must be ignored

	rec, err := d.ReadStatus()
	if err != nil {
		t.Fatalf("ReadStatus: %v", err)
	}
	if rec.SignalStrengthDecibel == nil || *rec.SignalStrengthDecibel != -40000 {
		t.Errorf("SignalStrengthDecibel = %v", rec.SignalStrengthDecibel)
	}
	if rec.SignalStrengthPercent == nil || *rec.SignalStrengthPercent == 0 {
		t.Errorf("percent derived from legacy scalar instead of decibel window: %v", rec.SignalStrengthPercent)
	}
}

func TestStatusRecordString(t *testing.T) {
	rec := &StatusRecord{}
	if got := rec.String(); got != "OFF" {
		t.Errorf("String() = %q", got)
	}

	flags := HasSignal | HasCarrier
	db := int32(-38560)
	pct := uint8(59)
	rec = &StatusRecord{
		Flags:                 flags,
		SignalStrengthDecibel: &db,
		SignalStrengthPercent: &pct,
	}
	if got := rec.String(); got != "NO-LOCK 0x03 | Signal -38.56dBm (59%)" {
		t.Errorf("String() = %q", got)
	}

	snr := int32(14570)
	snrPct := uint8(70)
	ber := uint64(0)
	rec = &StatusRecord{
		Flags:                 flags | HasViterbi | HasSync | HasLock,
		Locked:                true,
		DeliverySystem:        SystemDVBS2,
		SignalStrengthDecibel: &db,
		SignalStrengthPercent: &pct,
		SNRDecibel:            &snr,
		SNRPercent:            &snrPct,
		BER:                   &ber,
	}
	got := rec.String()
	if !strings.HasPrefix(got, "LOCK dvbs2 | Signal -38.56dBm (59%) | Quality 14.57dB (70%)") {
		t.Errorf("String() = %q", got)
	}
	if !strings.HasSuffix(got, "BER:0 | UNC:-") {
		t.Errorf("String() = %q, missing counters", got)
	}
}
