package frontend

import "fmt"

// Key identifies one parameter of the DVBv5 property protocol. The numeric
// values are the kernel property command numbers and must match
// linux/dvb/frontend.h exactly, they go to the driver as-is.
type Key uint32

const (
	KeyUndefined   Key = 0
	KeyTune        Key = 1 // commit marker, always last in a tune sequence
	KeyClear       Key = 2
	KeyFrequency   Key = 3
	KeyModulation  Key = 4
	KeyBandwidthHz Key = 5
	KeyInversion   Key = 6
	KeySymbolRate  Key = 8
	KeyInnerFEC    Key = 9
	KeyVoltage     Key = 10
	KeyTone        Key = 11
	KeyPilot       Key = 12
	KeyRolloff     Key = 13

	KeyDeliverySystem Key = 17

	// ISDB-T segment and layer parameters
	KeyISDBTPartialReception  Key = 18
	KeyISDBTSoundBroadcasting Key = 19
	KeyISDBTSBSubchannelID    Key = 20
	KeyISDBTSBSegmentIdx      Key = 21
	KeyISDBTSBSegmentCount    Key = 22
	KeyISDBTLayerAFEC         Key = 23
	KeyISDBTLayerAModulation  Key = 24
	KeyISDBTLayerASegments    Key = 25
	KeyISDBTLayerAInterleave  Key = 26
	KeyISDBTLayerBFEC         Key = 27
	KeyISDBTLayerBModulation  Key = 28
	KeyISDBTLayerBSegments    Key = 29
	KeyISDBTLayerBInterleave  Key = 30
	KeyISDBTLayerCFEC         Key = 31
	KeyISDBTLayerCModulation  Key = 32
	KeyISDBTLayerCSegments    Key = 33
	KeyISDBTLayerCInterleave  Key = 34

	KeyAPIVersion Key = 35

	// DVB-T/T2
	KeyCodeRateHP       Key = 36
	KeyCodeRateLP       Key = 37
	KeyGuardInterval    Key = 38
	KeyTransmissionMode Key = 39
	KeyHierarchy        Key = 40

	KeyISDBTLayerEnabled Key = 41
	KeyStreamID          Key = 42
	KeyEnumDelsys        Key = 44

	// quality metrics, read only
	KeyStatSignalStrength   Key = 62
	KeyStatCNR              Key = 63
	KeyStatPreErrorBitCount Key = 64
	KeyStatPreTotalBitCount Key = 65
	KeyStatPostErrorBits    Key = 66
	KeyStatPostTotalBits    Key = 67
	KeyStatErrorBlockCount  Key = 68
	KeyStatTotalBlockCount  Key = 69

	// KeyLockStatus is not a kernel property command. It stands for the
	// FE_READ_STATUS lock/progress bitmask so that a status query is one
	// uniform key list; the Linux transport routes it to the right ioctl.
	KeyLockStatus Key = 0x10000
)

// ValueKind is the tag of the Value union.
type ValueKind uint8

const (
	KindNone ValueKind = iota // key carries no payload (TUNE, CLEAR)
	KindUint32
	KindInt32
	KindBitmask
	KindStats
)

func (k ValueKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUint32:
		return "uint32"
	case KindInt32:
		return "int32"
	case KindBitmask:
		return "bitmask"
	case KindStats:
		return "stats"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// keyKinds declares the payload type each key requires. Keys missing from
// this table cannot be built into a Property.
var keyKinds = map[Key]ValueKind{
	KeyTune:        KindNone,
	KeyClear:       KindNone,
	KeyFrequency:   KindUint32,
	KeyModulation:  KindUint32,
	KeyBandwidthHz: KindUint32,
	KeyInversion:   KindUint32,
	KeySymbolRate:  KindUint32,
	KeyInnerFEC:    KindUint32,
	KeyVoltage:     KindUint32,
	KeyTone:        KindUint32,
	KeyPilot:       KindUint32,
	KeyRolloff:     KindUint32,

	KeyDeliverySystem: KindUint32,

	KeyISDBTPartialReception:  KindInt32,
	KeyISDBTSoundBroadcasting: KindInt32,
	KeyISDBTSBSubchannelID:    KindInt32,
	KeyISDBTSBSegmentIdx:      KindInt32,
	KeyISDBTSBSegmentCount:    KindUint32,
	KeyISDBTLayerAFEC:         KindUint32,
	KeyISDBTLayerAModulation:  KindUint32,
	KeyISDBTLayerASegments:    KindInt32,
	KeyISDBTLayerAInterleave:  KindInt32,
	KeyISDBTLayerBFEC:         KindUint32,
	KeyISDBTLayerBModulation:  KindUint32,
	KeyISDBTLayerBSegments:    KindInt32,
	KeyISDBTLayerBInterleave:  KindInt32,
	KeyISDBTLayerCFEC:         KindUint32,
	KeyISDBTLayerCModulation:  KindUint32,
	KeyISDBTLayerCSegments:    KindInt32,
	KeyISDBTLayerCInterleave:  KindInt32,

	KeyAPIVersion: KindUint32,

	KeyCodeRateHP:       KindUint32,
	KeyCodeRateLP:       KindUint32,
	KeyGuardInterval:    KindUint32,
	KeyTransmissionMode: KindUint32,
	KeyHierarchy:        KindUint32,

	KeyISDBTLayerEnabled: KindUint32,
	KeyStreamID:          KindUint32,

	KeyStatSignalStrength:   KindStats,
	KeyStatCNR:              KindStats,
	KeyStatPreErrorBitCount: KindStats,
	KeyStatPreTotalBitCount: KindStats,
	KeyStatPostErrorBits:    KindStats,
	KeyStatPostTotalBits:    KindStats,
	KeyStatErrorBlockCount:  KindStats,
	KeyStatTotalBlockCount:  KindStats,

	KeyLockStatus: KindBitmask,
}

// keyNames follows the kernel parameter names without the DTV_ prefix,
// the same spelling the text tune format uses.
var keyNames = map[Key]string{
	KeyTune:                   "TUNE",
	KeyClear:                  "CLEAR",
	KeyFrequency:              "FREQUENCY",
	KeyModulation:             "MODULATION",
	KeyBandwidthHz:            "BANDWIDTH_HZ",
	KeyInversion:              "INVERSION",
	KeySymbolRate:             "SYMBOL_RATE",
	KeyInnerFEC:               "INNER_FEC",
	KeyVoltage:                "VOLTAGE",
	KeyTone:                   "TONE",
	KeyPilot:                  "PILOT",
	KeyRolloff:                "ROLLOFF",
	KeyDeliverySystem:         "DELIVERY_SYSTEM",
	KeyISDBTPartialReception:  "ISDBT_PARTIAL_RECEPTION",
	KeyISDBTSoundBroadcasting: "ISDBT_SOUND_BROADCASTING",
	KeyISDBTSBSubchannelID:    "ISDBT_SB_SUBCHANNEL_ID",
	KeyISDBTSBSegmentIdx:      "ISDBT_SB_SEGMENT_IDX",
	KeyISDBTSBSegmentCount:    "ISDBT_SB_SEGMENT_COUNT",
	KeyISDBTLayerAFEC:         "ISDBT_LAYERA_FEC",
	KeyISDBTLayerAModulation:  "ISDBT_LAYERA_MODULATION",
	KeyISDBTLayerASegments:    "ISDBT_LAYERA_SEGMENT_COUNT",
	KeyISDBTLayerAInterleave:  "ISDBT_LAYERA_TIME_INTERLEAVING",
	KeyISDBTLayerBFEC:         "ISDBT_LAYERB_FEC",
	KeyISDBTLayerBModulation:  "ISDBT_LAYERB_MODULATION",
	KeyISDBTLayerBSegments:    "ISDBT_LAYERB_SEGMENT_COUNT",
	KeyISDBTLayerBInterleave:  "ISDBT_LAYERB_TIME_INTERLEAVING",
	KeyISDBTLayerCFEC:         "ISDBT_LAYERC_FEC",
	KeyISDBTLayerCModulation:  "ISDBT_LAYERC_MODULATION",
	KeyISDBTLayerCSegments:    "ISDBT_LAYERC_SEGMENT_COUNT",
	KeyISDBTLayerCInterleave:  "ISDBT_LAYERC_TIME_INTERLEAVING",
	KeyAPIVersion:             "API_VERSION",
	KeyCodeRateHP:             "CODE_RATE_HP",
	KeyCodeRateLP:             "CODE_RATE_LP",
	KeyGuardInterval:          "GUARD_INTERVAL",
	KeyTransmissionMode:       "TRANSMISSION_MODE",
	KeyHierarchy:              "HIERARCHY",
	KeyISDBTLayerEnabled:      "ISDBT_LAYER_ENABLED",
	KeyStreamID:               "STREAM_ID",
	KeyEnumDelsys:             "ENUM_DELSYS",
	KeyStatSignalStrength:     "STAT_SIGNAL_STRENGTH",
	KeyStatCNR:                "STAT_CNR",
	KeyStatPreErrorBitCount:   "STAT_PRE_ERROR_BIT_COUNT",
	KeyStatPreTotalBitCount:   "STAT_PRE_TOTAL_BIT_COUNT",
	KeyStatPostErrorBits:      "STAT_POST_ERROR_BIT_COUNT",
	KeyStatPostTotalBits:      "STAT_POST_TOTAL_BIT_COUNT",
	KeyStatErrorBlockCount:    "STAT_ERROR_BLOCK_COUNT",
	KeyStatTotalBlockCount:    "STAT_TOTAL_BLOCK_COUNT",
	KeyLockStatus:             "LOCK_STATUS",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KEY(%d)", uint32(k))
}

// Kind reports the payload type the key requires.
func (k Key) Kind() (ValueKind, bool) {
	kind, ok := keyKinds[k]
	return kind, ok
}

// StatScale tags one quality statistic the way the kernel reports it.
type StatScale uint8

const (
	// ScaleNotAvailable means the driver does not provide this metric,
	// temporarily or at all. This is the "unsupported" sentinel; a
	// zero-valued stat with any other scale is a legitimate zero.
	ScaleNotAvailable StatScale = 0
	// ScaleDecibel is measured in 0.001 dB steps
	ScaleDecibel StatScale = 1
	// ScaleRelative ranges from 0 (0%) to 0xffff (100%)
	ScaleRelative StatScale = 2
	// ScaleCounter counts events (bit errors, block errors)
	ScaleCounter StatScale = 3
)

// Stat is a single scale-tagged measurement.
type Stat struct {
	Scale StatScale
	// Value is milli-dB for ScaleDecibel, 0..65535 for ScaleRelative and
	// an event count (reinterpret as unsigned) for ScaleCounter.
	Value int64
}

// Stats is the per-property measurement list; drivers may report the same
// metric on several scales at once.
type Stats []Stat

// Decibel returns the first decibel-scaled entry, in 0.001 dB steps.
func (s Stats) Decibel() (int64, bool) {
	for _, st := range s {
		if st.Scale == ScaleDecibel {
			return st.Value, true
		}
	}
	return 0, false
}

// Relative returns the first relative-scaled entry (0..0xffff).
func (s Stats) Relative() (uint16, bool) {
	for _, st := range s {
		if st.Scale == ScaleRelative {
			return uint16(st.Value), true
		}
	}
	return 0, false
}

// Counter returns the first counter-scaled entry.
func (s Stats) Counter() (uint64, bool) {
	for _, st := range s {
		if st.Scale == ScaleCounter {
			return uint64(st.Value), true
		}
	}
	return 0, false
}

// Value is the tagged payload of a Property.
type Value struct {
	kind  ValueKind
	num   uint32
	stats Stats
}

func NoValue() Value {
	return Value{kind: KindNone}
}

func Uint32Value(v uint32) Value {
	return Value{kind: KindUint32, num: v}
}

func Int32Value(v int32) Value {
	return Value{kind: KindInt32, num: uint32(v)}
}

func BitmaskValue(v uint32) Value {
	return Value{kind: KindBitmask, num: v}
}

func StatsValue(stats ...Stat) Value {
	return Value{kind: KindStats, stats: stats}
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) Uint32() uint32 { return v.num }

func (v Value) Int32() int32 { return int32(v.num) }

func (v Value) Bitmask() uint32 { return v.num }

func (v Value) Stats() Stats { return v.stats }

func (v Value) String() string {
	switch v.kind {
	case KindNone:
		return ""
	case KindInt32:
		return fmt.Sprintf("%d", int32(v.num))
	case KindBitmask:
		return fmt.Sprintf("0x%02X", v.num)
	case KindStats:
		return fmt.Sprintf("stats%v", v.stats)
	}
	return fmt.Sprintf("%d", v.num)
}

// Property is one typed key/value unit of the tuning protocol.
type Property struct {
	Key   Key
	Value Value
}

// New builds a Property, rejecting values whose tag does not match the type
// the key requires. This runs before anything reaches the driver.
func New(key Key, value Value) (Property, error) {
	want, ok := keyKinds[key]
	if !ok {
		return Property{}, &UnknownKeyError{Key: key}
	}
	if value.kind != want {
		return Property{}, &TypeMismatchError{Key: key, Got: value.kind, Want: want}
	}
	return Property{Key: key, Value: value}, nil
}

func (p Property) String() string {
	if p.Value.kind == KindNone {
		return p.Key.String()
	}
	return fmt.Sprintf("%s = %s", p.Key, p.Value)
}
