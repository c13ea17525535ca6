package frontend

import "fmt"

// The enumerations below carry the exact numeric values of the kernel DVB
// API (linux/dvb/frontend.h); they are written to the driver unchanged.
// The string forms match the text tune format, see parse.go.

// DeliverySystem selects the standard the transponder transmits with.
type DeliverySystem uint32

const (
	SystemUndefined  DeliverySystem = 0
	SystemDVBCAnnexA DeliverySystem = 1
	SystemDVBCAnnexB DeliverySystem = 2
	SystemDVBT       DeliverySystem = 3
	SystemDSS        DeliverySystem = 4
	SystemDVBS       DeliverySystem = 5
	SystemDVBS2      DeliverySystem = 6
	SystemDVBH       DeliverySystem = 7
	SystemISDBT      DeliverySystem = 8
	SystemISDBS      DeliverySystem = 9
	SystemISDBC      DeliverySystem = 10
	SystemATSC       DeliverySystem = 11
	SystemATSCMH     DeliverySystem = 12
	SystemDTMB       DeliverySystem = 13
	SystemCMMB       DeliverySystem = 14
	SystemDAB        DeliverySystem = 15
	SystemDVBT2      DeliverySystem = 16
	SystemTurbo      DeliverySystem = 17
	SystemDVBCAnnexC DeliverySystem = 18
	SystemDVBC2      DeliverySystem = 19
)

var systemNames = map[DeliverySystem]string{
	SystemUndefined:  "none",
	SystemDVBCAnnexA: "dvbc/annex_a",
	SystemDVBCAnnexB: "dvbc/annex_b",
	SystemDVBT:       "dvbt",
	SystemDSS:        "dss",
	SystemDVBS:       "dvbs",
	SystemDVBS2:      "dvbs2",
	SystemDVBH:       "dvbh",
	SystemISDBT:      "isdbt",
	SystemISDBS:      "isdbs",
	SystemISDBC:      "isdbc",
	SystemATSC:       "atsc",
	SystemATSCMH:     "atsc-m/h",
	SystemDTMB:       "dtmb",
	SystemCMMB:       "cmmb",
	SystemDAB:        "dab",
	SystemDVBT2:      "dvbt2",
	SystemTurbo:      "dvbs/turbo",
	SystemDVBCAnnexC: "dvbc/annex_c",
	SystemDVBC2:      "dvbc2",
}

func (s DeliverySystem) String() string {
	if name, ok := systemNames[s]; ok {
		return name
	}
	return fmt.Sprintf("system(%d)", uint32(s))
}

// ParseDeliverySystem accepts the lowercase names used by String, plus the
// short cable alias "dvbc" for annex A.
func ParseDeliverySystem(s string) (DeliverySystem, error) {
	if s == "dvbc" {
		return SystemDVBCAnnexA, nil
	}
	for sys, name := range systemNames {
		if name == s {
			return sys, nil
		}
	}
	return SystemUndefined, fmt.Errorf("frontend: invalid delivery system %q", s)
}

// Modulation is the constellation in use.
type Modulation uint32

const (
	QPSK    Modulation = 0
	QAM16   Modulation = 1
	QAM32   Modulation = 2
	QAM64   Modulation = 3
	QAM128  Modulation = 4
	QAM256  Modulation = 5
	QAMAuto Modulation = 6
	VSB8    Modulation = 7
	VSB16   Modulation = 8
	PSK8    Modulation = 9
	APSK16  Modulation = 10
	APSK32  Modulation = 11
	DQPSK   Modulation = 12
	QAM4NR  Modulation = 13
	APSK64  Modulation = 14
	APSK128 Modulation = 15
	APSK256 Modulation = 16
)

var modulationNames = map[Modulation]string{
	QPSK:    "QPSK",
	QAM16:   "QAM/16",
	QAM32:   "QAM/32",
	QAM64:   "QAM/64",
	QAM128:  "QAM/128",
	QAM256:  "QAM/256",
	QAMAuto: "QAM/AUTO",
	VSB8:    "VSB/8",
	VSB16:   "VSB/16",
	PSK8:    "PSK/8",
	APSK16:  "APSK/16",
	APSK32:  "APSK/32",
	DQPSK:   "DQPSK",
	QAM4NR:  "QAM/4/NR",
	APSK64:  "APSK/64",
	APSK128: "APSK/128",
	APSK256: "APSK/256",
}

func (m Modulation) String() string {
	if name, ok := modulationNames[m]; ok {
		return name
	}
	return fmt.Sprintf("modulation(%d)", uint32(m))
}

func ParseModulation(s string) (Modulation, error) {
	for m, name := range modulationNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("frontend: invalid modulation %q", s)
}

// CodeRate is the inner FEC code rate.
type CodeRate uint32

const (
	FECNone CodeRate = 0
	FEC12   CodeRate = 1
	FEC23   CodeRate = 2
	FEC34   CodeRate = 3
	FEC45   CodeRate = 4
	FEC56   CodeRate = 5
	FEC67   CodeRate = 6
	FEC78   CodeRate = 7
	FEC89   CodeRate = 8
	FECAuto CodeRate = 9
	FEC35   CodeRate = 10
	FEC910  CodeRate = 11
	FEC25   CodeRate = 12
	FEC14   CodeRate = 13
	FEC13   CodeRate = 14
)

var codeRateNames = map[CodeRate]string{
	FECNone: "NONE",
	FEC12:   "1/2",
	FEC23:   "2/3",
	FEC34:   "3/4",
	FEC45:   "4/5",
	FEC56:   "5/6",
	FEC67:   "6/7",
	FEC78:   "7/8",
	FEC89:   "8/9",
	FECAuto: "AUTO",
	FEC35:   "3/5",
	FEC910:  "9/10",
	FEC25:   "2/5",
	FEC14:   "1/4",
	FEC13:   "1/3",
}

func (c CodeRate) String() string {
	if name, ok := codeRateNames[c]; ok {
		return name
	}
	return fmt.Sprintf("fec(%d)", uint32(c))
}

func ParseCodeRate(s string) (CodeRate, error) {
	for c, name := range codeRateNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("frontend: invalid code rate %q", s)
}

// Inversion is the spectral band inversion setting.
type Inversion uint32

const (
	InversionOff  Inversion = 0
	InversionOn   Inversion = 1
	InversionAuto Inversion = 2
)

func (i Inversion) String() string {
	switch i {
	case InversionOff:
		return "OFF"
	case InversionOn:
		return "ON"
	case InversionAuto:
		return "AUTO"
	}
	return fmt.Sprintf("inversion(%d)", uint32(i))
}

func ParseInversion(s string) (Inversion, error) {
	switch s {
	case "OFF":
		return InversionOff, nil
	case "ON":
		return InversionOn, nil
	case "AUTO":
		return InversionAuto, nil
	}
	return 0, fmt.Errorf("frontend: invalid inversion %q", s)
}

// Voltage is the DC level feeding the LNB; it selects polarization on
// satellite dishes (13V vertical/right, 18V horizontal/left).
type Voltage uint32

const (
	Voltage13  Voltage = 0
	Voltage18  Voltage = 1
	VoltageOff Voltage = 2
)

func (v Voltage) String() string {
	switch v {
	case Voltage13:
		return "13"
	case Voltage18:
		return "18"
	case VoltageOff:
		return "OFF"
	}
	return fmt.Sprintf("voltage(%d)", uint32(v))
}

func ParseVoltage(s string) (Voltage, error) {
	switch s {
	case "13", "V", "R":
		return Voltage13, nil
	case "18", "H", "L":
		return Voltage18, nil
	case "OFF":
		return VoltageOff, nil
	}
	return 0, fmt.Errorf("frontend: invalid voltage %q", s)
}

// ToneMode switches the continuous 22kHz tone used for LNB band selection.
type ToneMode uint32

const (
	ToneOn  ToneMode = 0
	ToneOff ToneMode = 1
)

func (t ToneMode) String() string {
	if t == ToneOn {
		return "ON"
	}
	if t == ToneOff {
		return "OFF"
	}
	return fmt.Sprintf("tone(%d)", uint32(t))
}

func ParseTone(s string) (ToneMode, error) {
	switch s {
	case "ON":
		return ToneOn, nil
	case "OFF":
		return ToneOff, nil
	}
	return 0, fmt.Errorf("frontend: invalid tone %q", s)
}

// Pilot enables the DVB-S2 pilot tones.
type Pilot uint32

const (
	PilotOn   Pilot = 0
	PilotOff  Pilot = 1
	PilotAuto Pilot = 2
)

func (p Pilot) String() string {
	switch p {
	case PilotOn:
		return "ON"
	case PilotOff:
		return "OFF"
	case PilotAuto:
		return "AUTO"
	}
	return fmt.Sprintf("pilot(%d)", uint32(p))
}

func ParsePilot(s string) (Pilot, error) {
	switch s {
	case "ON":
		return PilotOn, nil
	case "OFF":
		return PilotOff, nil
	case "AUTO":
		return PilotAuto, nil
	}
	return 0, fmt.Errorf("frontend: invalid pilot %q", s)
}

// Rolloff is the DVB-S2 spectrum rolloff factor, in percent.
type Rolloff uint32

const (
	Rolloff35   Rolloff = 0
	Rolloff20   Rolloff = 1
	Rolloff25   Rolloff = 2
	RolloffAuto Rolloff = 3
	Rolloff15   Rolloff = 4
	Rolloff10   Rolloff = 5
	Rolloff5    Rolloff = 6
)

var rolloffNames = map[Rolloff]string{
	Rolloff35:   "35",
	Rolloff20:   "20",
	Rolloff25:   "25",
	RolloffAuto: "AUTO",
	Rolloff15:   "15",
	Rolloff10:   "10",
	Rolloff5:    "5",
}

func (r Rolloff) String() string {
	if name, ok := rolloffNames[r]; ok {
		return name
	}
	return fmt.Sprintf("rolloff(%d)", uint32(r))
}

func ParseRolloff(s string) (Rolloff, error) {
	for r, name := range rolloffNames {
		if name == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("frontend: invalid rolloff %q", s)
}

// GuardInterval is the OFDM guard interval fraction.
type GuardInterval uint32

const (
	Guard132   GuardInterval = 0
	Guard116   GuardInterval = 1
	Guard18    GuardInterval = 2
	Guard14    GuardInterval = 3
	GuardAuto  GuardInterval = 4
	Guard1128  GuardInterval = 5
	Guard19128 GuardInterval = 6
	Guard19256 GuardInterval = 7
	GuardPN420 GuardInterval = 8
	GuardPN595 GuardInterval = 9
	GuardPN945 GuardInterval = 10
)

var guardNames = map[GuardInterval]string{
	Guard132:   "1/32",
	Guard116:   "1/16",
	Guard18:    "1/8",
	Guard14:    "1/4",
	GuardAuto:  "AUTO",
	Guard1128:  "1/128",
	Guard19128: "19/128",
	Guard19256: "19/256",
	GuardPN420: "PN420",
	GuardPN595: "PN595",
	GuardPN945: "PN945",
}

func (g GuardInterval) String() string {
	if name, ok := guardNames[g]; ok {
		return name
	}
	return fmt.Sprintf("guard(%d)", uint32(g))
}

func ParseGuardInterval(s string) (GuardInterval, error) {
	for g, name := range guardNames {
		if name == s {
			return g, nil
		}
	}
	return 0, fmt.Errorf("frontend: invalid guard interval %q", s)
}

// TransmissionMode is the OFDM carrier count.
type TransmissionMode uint32

const (
	Transmission2K    TransmissionMode = 0
	Transmission8K    TransmissionMode = 1
	TransmissionAuto  TransmissionMode = 2
	Transmission4K    TransmissionMode = 3
	Transmission1K    TransmissionMode = 4
	Transmission16K   TransmissionMode = 5
	Transmission32K   TransmissionMode = 6
	TransmissionC1    TransmissionMode = 7
	TransmissionC3780 TransmissionMode = 8
)

var transmissionNames = map[TransmissionMode]string{
	Transmission2K:    "2K",
	Transmission8K:    "8K",
	TransmissionAuto:  "AUTO",
	Transmission4K:    "4K",
	Transmission1K:    "1K",
	Transmission16K:   "16K",
	Transmission32K:   "32K",
	TransmissionC1:    "C1",
	TransmissionC3780: "C3780",
}

func (t TransmissionMode) String() string {
	if name, ok := transmissionNames[t]; ok {
		return name
	}
	return fmt.Sprintf("transmission(%d)", uint32(t))
}

func ParseTransmissionMode(s string) (TransmissionMode, error) {
	for t, name := range transmissionNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("frontend: invalid transmission mode %q", s)
}

// Hierarchy is the DVB-T hierarchical modulation setting.
type Hierarchy uint32

const (
	HierarchyNone Hierarchy = 0
	Hierarchy1    Hierarchy = 1
	Hierarchy2    Hierarchy = 2
	Hierarchy4    Hierarchy = 3
	HierarchyAuto Hierarchy = 4
)

var hierarchyNames = map[Hierarchy]string{
	HierarchyNone: "NONE",
	Hierarchy1:    "1",
	Hierarchy2:    "2",
	Hierarchy4:    "4",
	HierarchyAuto: "AUTO",
}

func (h Hierarchy) String() string {
	if name, ok := hierarchyNames[h]; ok {
		return name
	}
	return fmt.Sprintf("hierarchy(%d)", uint32(h))
}

func ParseHierarchy(s string) (Hierarchy, error) {
	for h, name := range hierarchyNames {
		if name == s {
			return h, nil
		}
	}
	return 0, fmt.Errorf("frontend: invalid hierarchy %q", s)
}

// Caps is the frontend capability bitmask from FE_GET_INFO.
type Caps uint32

const (
	CanInversionAuto        Caps = 0x1
	CanFEC12                Caps = 0x2
	CanFEC23                Caps = 0x4
	CanFEC34                Caps = 0x8
	CanFEC45                Caps = 0x10
	CanFEC56                Caps = 0x20
	CanFEC67                Caps = 0x40
	CanFEC78                Caps = 0x80
	CanFEC89                Caps = 0x100
	CanFECAuto              Caps = 0x200
	CanQPSK                 Caps = 0x400
	CanQAM16                Caps = 0x800
	CanQAM32                Caps = 0x1000
	CanQAM64                Caps = 0x2000
	CanQAM128               Caps = 0x4000
	CanQAM256               Caps = 0x8000
	CanQAMAuto              Caps = 0x10000
	CanTransmissionModeAuto Caps = 0x20000
	CanBandwidthAuto        Caps = 0x40000
	CanGuardIntervalAuto    Caps = 0x80000
	CanHierarchyAuto        Caps = 0x100000
	Can8VSB                 Caps = 0x200000
	Can16VSB                Caps = 0x400000
	HasExtendedCaps         Caps = 0x800000
	CanMultistream          Caps = 0x4000000
	CanTurboFEC             Caps = 0x8000000
	Can2GModulation         Caps = 0x10000000
	NeedsBending            Caps = 0x20000000
	CanRecover              Caps = 0x40000000
	CanMuteTS               Caps = 0x80000000
)

// Has reports whether every bit of c2 is set.
func (c Caps) Has(c2 Caps) bool {
	return c&c2 == c2
}
