package frontend

import (
	"errors"
	"testing"
)

// minimalTune returns a legal committed sequence for each supported system.
func minimalTune(t *testing.T, sys DeliverySystem) *Sequence {
	t.Helper()
	seq := TuneSequence(sys)
	push := func(key Key, v uint32) {
		if err := seq.PushUint32(key, v); err != nil {
			t.Fatalf("%s: push %s: %v", sys, key, err)
		}
	}
	switch sys {
	case SystemDVBS, SystemDVBS2:
		push(KeyFrequency, 1294000)
		push(KeyModulation, uint32(QPSK))
		push(KeyVoltage, uint32(Voltage13))
		push(KeyTone, uint32(ToneOff))
		push(KeyInversion, uint32(InversionAuto))
		push(KeySymbolRate, 27500000)
		push(KeyInnerFEC, uint32(FECAuto))
	case SystemDVBT, SystemDVBT2, SystemISDBT:
		push(KeyFrequency, 490000000)
		push(KeyBandwidthHz, 8000000)
		push(KeyModulation, uint32(QAM16))
		push(KeyInversion, uint32(InversionAuto))
	case SystemATSC:
		push(KeyFrequency, 473000000)
		push(KeyModulation, uint32(VSB8))
		push(KeyInversion, uint32(InversionAuto))
	case SystemDVBCAnnexA:
		push(KeyFrequency, 330000000)
		push(KeySymbolRate, 6900000)
		push(KeyModulation, uint32(QAM64))
		push(KeyInnerFEC, uint32(FECAuto))
		push(KeyInversion, uint32(InversionAuto))
	default:
		t.Fatalf("no minimal tune for %s", sys)
	}
	if err := seq.Commit(); err != nil {
		t.Fatalf("%s: commit: %v", sys, err)
	}
	return seq
}

func TestMinimalTuneValidatesForAllSystems(t *testing.T) {
	for _, sys := range SupportedSystems() {
		spec, ok := SpecFor(sys)
		if !ok {
			t.Errorf("%s: listed as supported but has no spec", sys)
			continue
		}
		if err := minimalTune(t, sys).Validate(spec); err != nil {
			t.Errorf("%s: %v", sys, err)
		}
	}
}

func TestEachMandatoryKeyIsChecked(t *testing.T) {
	for _, sys := range SupportedSystems() {
		spec, _ := SpecFor(sys)
		full := minimalTune(t, sys)

		for _, missing := range spec.Mandatory {
			seq := &Sequence{}
			for _, p := range full.Properties() {
				if p.Key == missing {
					continue
				}
				seq.props = append(seq.props, p)
			}

			err := seq.Validate(spec)
			var mk *MissingKeyError
			if !errors.As(err, &mk) {
				t.Errorf("%s without %s: expected MissingKeyError, got %v", sys, missing, err)
				continue
			}
			if mk.Key != missing || mk.System != sys {
				t.Errorf("%s without %s: error reports %s/%s", sys, missing, mk.System, mk.Key)
			}
		}
	}
}

func TestUnsupportedSystemsHaveNoSpec(t *testing.T) {
	for _, sys := range []DeliverySystem{SystemUndefined, SystemDSS, SystemDTMB, SystemDAB} {
		if _, ok := SpecFor(sys); ok {
			t.Errorf("SpecFor(%s) = true", sys)
		}
	}
}

func TestCheckRejectsForeignKey(t *testing.T) {
	// voltage is satellite-only
	spec, _ := SpecFor(SystemDVBT)
	p, _ := New(KeyVoltage, Uint32Value(uint32(Voltage13)))
	err := spec.Check(p)
	var vr *ValueRangeError
	if !errors.As(err, &vr) {
		t.Fatalf("expected ValueRangeError, got %v", err)
	}
	if vr.Key != KeyVoltage {
		t.Errorf("error names %v", vr.Key)
	}
}

func TestCheckModulationWhitelist(t *testing.T) {
	cases := []struct {
		sys DeliverySystem
		mod Modulation
		ok  bool
	}{
		{SystemDVBS, QPSK, true},
		{SystemDVBS, PSK8, false},
		{SystemDVBS2, PSK8, true},
		{SystemDVBS2, APSK32, true},
		{SystemDVBS2, QAM64, false},
		{SystemDVBT, QAM64, true},
		{SystemDVBT, QAM256, false},
		{SystemDVBT2, QAM256, true},
		{SystemATSC, VSB8, true},
		{SystemATSC, QPSK, false},
		{SystemDVBCAnnexA, QAM128, true},
	}
	for _, c := range cases {
		spec, _ := SpecFor(c.sys)
		p, _ := New(KeyModulation, Uint32Value(uint32(c.mod)))
		err := spec.Check(p)
		if c.ok && err != nil {
			t.Errorf("%s %s: %v", c.sys, c.mod, err)
		}
		if !c.ok && err == nil {
			t.Errorf("%s %s: accepted", c.sys, c.mod)
		}
	}
}

func TestCheckBandwidthWhitelist(t *testing.T) {
	spec, _ := SpecFor(SystemDVBT)
	for _, bw := range spec.Bandwidths {
		p, _ := New(KeyBandwidthHz, Uint32Value(bw))
		if err := spec.Check(p); err != nil {
			t.Errorf("dvbt %d Hz: %v", bw, err)
		}
	}
	p, _ := New(KeyBandwidthHz, Uint32Value(1712000))
	if err := spec.Check(p); err == nil {
		t.Error("dvbt accepted the t2-only 1.712MHz bandwidth")
	}

	// t2 allows it
	spec2, _ := SpecFor(SystemDVBT2)
	if err := spec2.Check(p); err != nil {
		t.Errorf("dvbt2 1712000 Hz: %v", err)
	}
}

func TestCheckRejectsZeroFrequency(t *testing.T) {
	spec, _ := SpecFor(SystemDVBS)
	p, _ := New(KeyFrequency, Uint32Value(0))
	var vr *ValueRangeError
	if err := spec.Check(p); !errors.As(err, &vr) {
		t.Fatalf("expected ValueRangeError, got %v", err)
	}
}

func TestCheckRejectsWrongDeliverySystem(t *testing.T) {
	spec, _ := SpecFor(SystemDVBS2)
	p, _ := New(KeyDeliverySystem, Uint32Value(uint32(SystemDVBS)))
	if err := spec.Check(p); err == nil {
		t.Fatal("spec accepted a property for another system")
	}
}

func TestCheckEnumUpperBounds(t *testing.T) {
	spec, _ := SpecFor(SystemDVBS2)
	cases := []struct {
		key Key
		v   uint32
	}{
		{KeyInversion, uint32(InversionAuto) + 1},
		{KeyVoltage, uint32(VoltageOff) + 1},
		{KeyTone, uint32(ToneOff) + 1},
		{KeyInnerFEC, uint32(FEC13) + 1},
		{KeyPilot, uint32(PilotAuto) + 1},
		{KeyRolloff, uint32(Rolloff5) + 1},
	}
	for _, c := range cases {
		p, _ := New(c.key, Uint32Value(c.v))
		if err := spec.Check(p); err == nil {
			t.Errorf("%s = %d accepted", c.key, c.v)
		}
	}
}
