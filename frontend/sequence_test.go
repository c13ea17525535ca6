package frontend

import (
	"errors"
	"testing"
)

// dvbs2Sequence builds a complete committed DVB-S2 tune request, the
// reference scenario most sequence and device tests start from.
func dvbs2Sequence(t *testing.T) *Sequence {
	t.Helper()
	seq := TuneSequence(SystemDVBS2)
	push := func(key Key, v uint32) {
		if err := seq.PushUint32(key, v); err != nil {
			t.Fatalf("push %s: %v", key, err)
		}
	}
	push(KeyFrequency, 1294000)
	push(KeyModulation, uint32(PSK8))
	push(KeyVoltage, uint32(Voltage13))
	push(KeyTone, uint32(ToneOff))
	push(KeyInversion, uint32(InversionAuto))
	push(KeySymbolRate, 27500000)
	push(KeyInnerFEC, uint32(FECAuto))
	push(KeyPilot, uint32(PilotAuto))
	push(KeyRolloff, uint32(Rolloff35))
	if err := seq.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	return seq
}

func TestTuneSequenceSeedsDeliverySystem(t *testing.T) {
	seq := TuneSequence(SystemDVBT)
	sys, ok := seq.System()
	if !ok || sys != SystemDVBT {
		t.Fatalf("System() = %v, %v", sys, ok)
	}
	if seq.Len() != 1 {
		t.Errorf("Len() = %d, want 1", seq.Len())
	}
}

func TestPushRejectsDuplicate(t *testing.T) {
	seq := TuneSequence(SystemDVBS2)
	if err := seq.PushUint32(KeyFrequency, 1294000); err != nil {
		t.Fatalf("first push: %v", err)
	}
	err := seq.PushUint32(KeyFrequency, 1295000)
	var dup *DuplicateKeyError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateKeyError, got %v", err)
	}
	if dup.Key != KeyFrequency {
		t.Errorf("error names %v, want FREQUENCY", dup.Key)
	}
	if seq.Len() != 2 {
		t.Errorf("rejected push changed the sequence, Len() = %d", seq.Len())
	}
}

func TestPushAfterCommitFails(t *testing.T) {
	seq := TuneSequence(SystemDVBS2)
	if err := seq.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	err := seq.PushUint32(KeyFrequency, 1294000)
	var ooo *OutOfOrderError
	if !errors.As(err, &ooo) {
		t.Fatalf("expected OutOfOrderError, got %v", err)
	}
	if ooo.Key != KeyFrequency {
		t.Errorf("error names %v, want FREQUENCY", ooo.Key)
	}
}

func TestCommitTwiceFails(t *testing.T) {
	seq := NewSequence()
	if err := seq.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := seq.Commit(); err == nil {
		t.Fatal("second commit succeeded")
	}
}

func TestPushValueChecksKind(t *testing.T) {
	seq := NewSequence()
	err := seq.PushValue(KeyFrequency, NoValue())
	var tm *TypeMismatchError
	if !errors.As(err, &tm) {
		t.Fatalf("expected TypeMismatchError, got %v", err)
	}
	if seq.Len() != 0 {
		t.Errorf("rejected push changed the sequence")
	}
}

func TestValidateDVBS2Scenario(t *testing.T) {
	seq := dvbs2Sequence(t)
	spec, ok := SpecFor(SystemDVBS2)
	if !ok {
		t.Fatal("no spec for dvbs2")
	}
	if err := seq.Validate(spec); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRequiresCommit(t *testing.T) {
	seq := TuneSequence(SystemDVBS2)
	for _, p := range dvbs2Sequence(t).Properties() {
		if p.Key == KeyDeliverySystem || p.Key == KeyTune {
			continue
		}
		if err := seq.Push(p); err != nil {
			t.Fatalf("push %s: %v", p.Key, err)
		}
	}

	spec, _ := SpecFor(SystemDVBS2)
	err := seq.Validate(spec)
	var missing *MissingKeyError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingKeyError, got %v", err)
	}
	if missing.Key != KeyTune {
		t.Errorf("error names %v, want TUNE", missing.Key)
	}
}

func TestValidateRejectsTuneNotLast(t *testing.T) {
	// assemble out of order behind the builder's back
	seq := &Sequence{props: []Property{
		{Key: KeyDeliverySystem, Value: Uint32Value(uint32(SystemATSC))},
		{Key: KeyTune, Value: NoValue()},
		{Key: KeyFrequency, Value: Uint32Value(473000000)},
		{Key: KeyModulation, Value: Uint32Value(uint32(VSB8))},
		{Key: KeyInversion, Value: Uint32Value(uint32(InversionAuto))},
	}}

	spec, _ := SpecFor(SystemATSC)
	err := seq.Validate(spec)
	var ooo *OutOfOrderError
	if !errors.As(err, &ooo) {
		t.Fatalf("expected OutOfOrderError, got %v", err)
	}
	if ooo.Key != KeyFrequency {
		t.Errorf("error names %v, want the key after TUNE", ooo.Key)
	}
}

func TestValidateRejectsDuplicates(t *testing.T) {
	seq := &Sequence{props: []Property{
		{Key: KeyDeliverySystem, Value: Uint32Value(uint32(SystemDVBS2))},
		{Key: KeyFrequency, Value: Uint32Value(1294000)},
		{Key: KeyFrequency, Value: Uint32Value(1295000)},
	}}
	spec, _ := SpecFor(SystemDVBS2)
	var dup *DuplicateKeyError
	if err := seq.Validate(spec); !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateKeyError, got %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	spec, _ := SpecFor(SystemDVBS2)

	seq := TuneSequence(SystemDVBS2)
	if err := seq.ApplyDefaults(spec); err != nil {
		t.Fatalf("ApplyDefaults: %v", err)
	}
	if v, ok := seq.Uint32(KeyPilot); !ok || Pilot(v) != PilotAuto {
		t.Errorf("pilot default = %d, %v", v, ok)
	}
	if v, ok := seq.Uint32(KeyRolloff); !ok || Rolloff(v) != RolloffAuto {
		t.Errorf("rolloff default = %d, %v", v, ok)
	}

	// explicit values win over defaults
	seq = TuneSequence(SystemDVBS2)
	if err := seq.PushUint32(KeyPilot, uint32(PilotOn)); err != nil {
		t.Fatal(err)
	}
	if err := seq.ApplyDefaults(spec); err != nil {
		t.Fatalf("ApplyDefaults: %v", err)
	}
	if v, _ := seq.Uint32(KeyPilot); Pilot(v) != PilotOn {
		t.Errorf("default overwrote explicit pilot, got %d", v)
	}

	// committed sequences stay untouched
	seq = dvbs2Sequence(t)
	n := seq.Len()
	if err := seq.ApplyDefaults(spec); err != nil {
		t.Fatalf("ApplyDefaults: %v", err)
	}
	if seq.Len() != n {
		t.Errorf("ApplyDefaults extended a committed sequence")
	}
}

func TestLookupPreservesOrder(t *testing.T) {
	seq := dvbs2Sequence(t)
	props := seq.Properties()
	if props[0].Key != KeyDeliverySystem {
		t.Errorf("first key = %v, want DELIVERY_SYSTEM", props[0].Key)
	}
	if props[len(props)-1].Key != KeyTune {
		t.Errorf("last key = %v, want TUNE", props[len(props)-1].Key)
	}
}
