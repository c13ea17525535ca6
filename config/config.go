// Package config loads and stores transponder definitions from yaml files
// and turns them into validated tune sequences.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mich181189/libdvb/frontend"
)

// Transponder describes one mux the way a channel list would. Enum-valued
// fields use the same string forms as the text tune format ("PSK/8",
// "AUTO", "dvbs2"); empty optional fields fall back to the delivery system
// defaults.
type Transponder struct {
	Name   string `yaml:"name"`
	System string `yaml:"system"`

	// kHz intermediate frequency for satellite (LNB offset already
	// subtracted by whoever wrote the file), Hz otherwise
	Frequency uint32 `yaml:"frequency"`

	SymbolRate uint32 `yaml:"symbolrate,omitempty"`
	Modulation string `yaml:"modulation,omitempty"`
	FEC        string `yaml:"fec,omitempty"`
	Inversion  string `yaml:"inversion,omitempty"`

	// satellite only
	Voltage string `yaml:"voltage,omitempty"`
	Tone    string `yaml:"tone,omitempty"`
	Pilot   string `yaml:"pilot,omitempty"`
	Rolloff string `yaml:"rolloff,omitempty"`

	// terrestrial only
	Bandwidth        uint32 `yaml:"bandwidth,omitempty"`
	Guard            string `yaml:"guard,omitempty"`
	TransmissionMode string `yaml:"transmissionmode,omitempty"`
	Hierarchy        string `yaml:"hierarchy,omitempty"`

	StreamID *uint32 `yaml:"streamid,omitempty"`
}

// TuneConfig is a named collection of transponders, the shape a scanner or
// a provider list would produce.
type TuneConfig struct {
	Name         string                 `yaml:"name"`
	Transponders map[string]Transponder `yaml:"transponders"`
}

func (config *TuneConfig) ReadConfig(configFileName string) error {
	source, err := os.ReadFile(configFileName)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(source, config)
}

func (config *TuneConfig) WriteConfig(configFileName string) error {
	out, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configFileName, out, 0666)
}

// Lookup returns a transponder by its map key.
func (config *TuneConfig) Lookup(name string) (Transponder, bool) {
	t, ok := config.Transponders[name]
	return t, ok
}

// Sequence builds a committed, validated tune sequence from the
// transponder definition.
func (t *Transponder) Sequence() (*frontend.Sequence, error) {
	sys, err := frontend.ParseDeliverySystem(t.System)
	if err != nil {
		return nil, err
	}
	spec, ok := frontend.SpecFor(sys)
	if !ok {
		return nil, fmt.Errorf("config: no tuning support for %s", sys)
	}

	seq := frontend.TuneSequence(sys)

	type field struct {
		key   frontend.Key
		value string
		parse func(string) (uint32, error)
	}

	if t.Frequency != 0 {
		if err := seq.PushUint32(frontend.KeyFrequency, t.Frequency); err != nil {
			return nil, err
		}
	}

	pushEnums := func(fields []field) error {
		for _, f := range fields {
			if f.value == "" {
				continue
			}
			v, err := f.parse(f.value)
			if err != nil {
				return err
			}
			if err := seq.PushUint32(f.key, v); err != nil {
				return err
			}
		}
		return nil
	}

	// canonical order: modulation, voltage, tone, inversion, symbol
	// rate / bandwidth, inner FEC, then the optional extras
	err = pushEnums([]field{
		{frontend.KeyModulation, t.Modulation, parseAs(frontend.ParseModulation)},
		{frontend.KeyVoltage, t.Voltage, parseAs(frontend.ParseVoltage)},
		{frontend.KeyTone, t.Tone, parseAs(frontend.ParseTone)},
		{frontend.KeyInversion, t.Inversion, parseAs(frontend.ParseInversion)},
	})
	if err != nil {
		return nil, err
	}

	// unset inversion means auto, every delivery system mandates the key
	if t.Inversion == "" {
		if err := seq.PushUint32(frontend.KeyInversion, uint32(frontend.InversionAuto)); err != nil {
			return nil, err
		}
	}
	if t.SymbolRate != 0 {
		if err := seq.PushUint32(frontend.KeySymbolRate, t.SymbolRate); err != nil {
			return nil, err
		}
	}
	if t.Bandwidth != 0 {
		if err := seq.PushUint32(frontend.KeyBandwidthHz, t.Bandwidth); err != nil {
			return nil, err
		}
	}

	err = pushEnums([]field{
		{frontend.KeyInnerFEC, t.FEC, parseAs(frontend.ParseCodeRate)},
		{frontend.KeyPilot, t.Pilot, parseAs(frontend.ParsePilot)},
		{frontend.KeyRolloff, t.Rolloff, parseAs(frontend.ParseRolloff)},
		{frontend.KeyGuardInterval, t.Guard, parseAs(frontend.ParseGuardInterval)},
		{frontend.KeyTransmissionMode, t.TransmissionMode, parseAs(frontend.ParseTransmissionMode)},
		{frontend.KeyHierarchy, t.Hierarchy, parseAs(frontend.ParseHierarchy)},
	})
	if err != nil {
		return nil, err
	}

	if t.StreamID != nil {
		if err := seq.PushUint32(frontend.KeyStreamID, *t.StreamID); err != nil {
			return nil, err
		}
	}

	if err := seq.ApplyDefaults(spec); err != nil {
		return nil, err
	}
	if err := seq.Commit(); err != nil {
		return nil, err
	}
	if err := seq.Validate(spec); err != nil {
		return nil, err
	}
	return seq, nil
}

func parseAs[T ~uint32](parse func(string) (T, error)) func(string) (uint32, error) {
	return func(s string) (uint32, error) {
		v, err := parse(s)
		return uint32(v), err
	}
}
