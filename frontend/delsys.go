package frontend

import "fmt"

// SystemSpec encodes, per delivery system, which keys a tune sequence must
// and may carry and what values are legal for them. The kernel protocol is a
// flat untyped array, so all variant-specific safety lives here, in constant
// data, instead of in the transport.
type SystemSpec struct {
	System DeliverySystem

	// Mandatory keys in canonical build order. Every one must be present
	// before a sequence may be transmitted.
	Mandatory []Key

	// Optional keys the system accepts on top of the mandatory set.
	Optional []Key

	// Defaults are pushed by Sequence.ApplyDefaults for optional keys the
	// caller left unset.
	Defaults []Property

	// Modulations whitelists the constellations the standard allows.
	Modulations []Modulation

	// Bandwidths whitelists legal channel bandwidths in Hz; nil means any
	// positive value (the key may still be absent from the legal key set).
	Bandwidths []uint32
}

var systemSpecs = map[DeliverySystem]*SystemSpec{
	SystemDVBS: {
		System: SystemDVBS,
		// frequency is the intermediate frequency in kHz, after the
		// caller subtracted the LNB offset
		Mandatory: []Key{
			KeyDeliverySystem, KeyFrequency, KeyModulation,
			KeyVoltage, KeyTone, KeyInversion, KeySymbolRate, KeyInnerFEC,
		},
		Modulations: []Modulation{QPSK},
	},
	SystemDVBS2: {
		System: SystemDVBS2,
		Mandatory: []Key{
			KeyDeliverySystem, KeyFrequency, KeyModulation,
			KeyVoltage, KeyTone, KeyInversion, KeySymbolRate, KeyInnerFEC,
		},
		Optional: []Key{KeyPilot, KeyRolloff, KeyStreamID},
		Defaults: []Property{
			{Key: KeyPilot, Value: Uint32Value(uint32(PilotAuto))},
			{Key: KeyRolloff, Value: Uint32Value(uint32(RolloffAuto))},
		},
		Modulations: []Modulation{QPSK, PSK8, APSK16, APSK32},
	},
	SystemDVBT: {
		System: SystemDVBT,
		Mandatory: []Key{
			KeyDeliverySystem, KeyFrequency, KeyBandwidthHz,
			KeyModulation, KeyInversion,
		},
		Optional: []Key{
			KeyCodeRateHP, KeyCodeRateLP, KeyGuardInterval,
			KeyTransmissionMode, KeyHierarchy,
		},
		Modulations: []Modulation{QPSK, QAM16, QAM64, QAMAuto},
		Bandwidths:  []uint32{5000000, 6000000, 7000000, 8000000},
	},
	SystemDVBT2: {
		System: SystemDVBT2,
		Mandatory: []Key{
			KeyDeliverySystem, KeyFrequency, KeyBandwidthHz,
			KeyModulation, KeyInversion,
		},
		Optional: []Key{
			KeyGuardInterval, KeyTransmissionMode, KeyHierarchy, KeyStreamID,
		},
		Modulations: []Modulation{QPSK, QAM16, QAM64, QAM256, QAMAuto},
		Bandwidths:  []uint32{1712000, 5000000, 6000000, 7000000, 8000000, 10000000},
	},
	SystemATSC: {
		System: SystemATSC,
		// 8VSB channels are fixed 6MHz, no bandwidth key
		Mandatory: []Key{
			KeyDeliverySystem, KeyFrequency, KeyModulation, KeyInversion,
		},
		Modulations: []Modulation{VSB8, VSB16, QAM64, QAM256},
	},
	SystemISDBT: {
		System: SystemISDBT,
		Mandatory: []Key{
			KeyDeliverySystem, KeyFrequency, KeyBandwidthHz,
			KeyModulation, KeyInversion,
		},
		Optional: []Key{
			KeyGuardInterval, KeyTransmissionMode,
			KeyISDBTPartialReception, KeyISDBTSoundBroadcasting,
			KeyISDBTLayerEnabled,
		},
		Modulations: []Modulation{QPSK, DQPSK, QAM16, QAM64, QAMAuto},
		Bandwidths:  []uint32{6000000, 7000000, 8000000},
	},
	SystemDVBCAnnexA: {
		System: SystemDVBCAnnexA,
		Mandatory: []Key{
			KeyDeliverySystem, KeyFrequency, KeySymbolRate,
			KeyModulation, KeyInnerFEC, KeyInversion,
		},
		Modulations: []Modulation{QAM16, QAM32, QAM64, QAM128, QAM256, QAMAuto},
	},
}

// SpecFor returns the tuning spec for a delivery system. Systems the tuning
// model does not support (DSS, DTMB, ...) return false; they can still show
// up in decoded status.
func SpecFor(sys DeliverySystem) (*SystemSpec, bool) {
	spec, ok := systemSpecs[sys]
	return spec, ok
}

// SupportedSystems lists the delivery systems a tune sequence can be built
// and validated for.
func SupportedSystems() []DeliverySystem {
	return []DeliverySystem{
		SystemDVBS, SystemDVBS2, SystemDVBT, SystemDVBT2,
		SystemATSC, SystemISDBT, SystemDVBCAnnexA,
	}
}

func (sp *SystemSpec) legalKey(key Key) bool {
	if key == KeyTune {
		return true
	}
	for _, k := range sp.Mandatory {
		if k == key {
			return true
		}
	}
	for _, k := range sp.Optional {
		if k == key {
			return true
		}
	}
	return false
}

// Check applies the legal-range predicate of one present property.
func (sp *SystemSpec) Check(p Property) error {
	if !sp.legalKey(p.Key) {
		return &ValueRangeError{
			Key:    p.Key,
			Value:  p.Value.Uint32(),
			Reason: fmt.Sprintf("not a valid parameter for %s", sp.System),
		}
	}

	v := p.Value.Uint32()
	switch p.Key {
	case KeyDeliverySystem:
		if DeliverySystem(v) != sp.System {
			return &ValueRangeError{Key: p.Key, Value: v,
				Reason: fmt.Sprintf("sequence built for %s", sp.System)}
		}
	case KeyFrequency:
		if v == 0 {
			return &ValueRangeError{Key: p.Key, Value: v, Reason: "frequency must be positive"}
		}
	case KeySymbolRate:
		if v == 0 {
			return &ValueRangeError{Key: p.Key, Value: v, Reason: "symbol rate must be positive"}
		}
	case KeyBandwidthHz:
		if len(sp.Bandwidths) == 0 {
			if v == 0 {
				return &ValueRangeError{Key: p.Key, Value: v, Reason: "bandwidth must be positive"}
			}
			break
		}
		ok := false
		for _, bw := range sp.Bandwidths {
			if v == bw {
				ok = true
				break
			}
		}
		if !ok {
			return &ValueRangeError{Key: p.Key, Value: v,
				Reason: fmt.Sprintf("bandwidth not allowed for %s", sp.System)}
		}
	case KeyModulation:
		for _, m := range sp.Modulations {
			if Modulation(v) == m {
				return nil
			}
		}
		return &ValueRangeError{Key: p.Key, Value: v,
			Reason: fmt.Sprintf("%s not allowed for %s", Modulation(v), sp.System)}
	case KeyInversion:
		if v > uint32(InversionAuto) {
			return &ValueRangeError{Key: p.Key, Value: v, Reason: "inversion is OFF, ON or AUTO"}
		}
	case KeyVoltage:
		if v > uint32(VoltageOff) {
			return &ValueRangeError{Key: p.Key, Value: v, Reason: "voltage is 13, 18 or OFF"}
		}
	case KeyTone:
		if v > uint32(ToneOff) {
			return &ValueRangeError{Key: p.Key, Value: v, Reason: "tone is ON or OFF"}
		}
	case KeyInnerFEC, KeyCodeRateHP, KeyCodeRateLP:
		if v > uint32(FEC13) {
			return &ValueRangeError{Key: p.Key, Value: v, Reason: "unknown code rate"}
		}
	case KeyPilot:
		if v > uint32(PilotAuto) {
			return &ValueRangeError{Key: p.Key, Value: v, Reason: "pilot is ON, OFF or AUTO"}
		}
	case KeyRolloff:
		if v > uint32(Rolloff5) {
			return &ValueRangeError{Key: p.Key, Value: v, Reason: "unknown rolloff"}
		}
	case KeyGuardInterval:
		if v > uint32(GuardPN945) {
			return &ValueRangeError{Key: p.Key, Value: v, Reason: "unknown guard interval"}
		}
	case KeyTransmissionMode:
		if v > uint32(TransmissionC3780) {
			return &ValueRangeError{Key: p.Key, Value: v, Reason: "unknown transmission mode"}
		}
	case KeyHierarchy:
		if v > uint32(HierarchyAuto) {
			return &ValueRangeError{Key: p.Key, Value: v, Reason: "unknown hierarchy"}
		}
	}

	return nil
}
