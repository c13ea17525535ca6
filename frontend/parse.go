package frontend

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// text tune format: one "KEY = VALUE" per line, keys named like the kernel
// parameters without the DTV_ prefix, # starts a comment. Example:
//
//	DELIVERY_SYSTEM = dvbs2
//	FREQUENCY = 1294000
//	MODULATION = PSK/8
//	INNER_FEC = AUTO

var keyByName = func() map[string]Key {
	m := make(map[string]Key, len(keyNames))
	for k, name := range keyNames {
		m[name] = k
	}
	return m
}()

// ParseProperty parses one "KEY = VALUE" line.
func ParseProperty(line string) (Property, error) {
	k, v, found := strings.Cut(line, "=")
	k = strings.TrimSpace(k)
	v = strings.TrimSpace(v)

	key, ok := keyByName[k]
	if !ok {
		return Property{}, fmt.Errorf("frontend: invalid key %q", k)
	}
	if !found {
		// bare TUNE / CLEAR lines are fine
		if kind := keyKinds[key]; kind == KindNone {
			return New(key, NoValue())
		}
		return Property{}, fmt.Errorf("frontend: missing value for %s", key)
	}

	value, err := parseValue(key, v)
	if err != nil {
		return Property{}, err
	}
	return New(key, value)
}

// enumValue tries the symbolic name first and falls back to the raw enum
// number, which the kernel accepts anyway.
func enumValue[T ~uint32](s string, parse func(string) (T, error)) (Value, error) {
	v, err := parse(s)
	if err == nil {
		return Uint32Value(uint32(v)), nil
	}
	n, nerr := strconv.ParseUint(s, 10, 32)
	if nerr != nil {
		return Value{}, err
	}
	return Uint32Value(uint32(n)), nil
}

func parseValue(key Key, s string) (Value, error) {
	switch key {
	case KeyTune, KeyClear:
		return NoValue(), nil
	case KeyDeliverySystem:
		return enumValue(s, ParseDeliverySystem)
	case KeyModulation, KeyISDBTLayerAModulation, KeyISDBTLayerBModulation, KeyISDBTLayerCModulation:
		return enumValue(s, ParseModulation)
	case KeyInnerFEC, KeyCodeRateHP, KeyCodeRateLP,
		KeyISDBTLayerAFEC, KeyISDBTLayerBFEC, KeyISDBTLayerCFEC:
		return enumValue(s, ParseCodeRate)
	case KeyInversion:
		return enumValue(s, ParseInversion)
	case KeyVoltage:
		return enumValue(s, ParseVoltage)
	case KeyTone:
		return enumValue(s, ParseTone)
	case KeyPilot:
		return enumValue(s, ParsePilot)
	case KeyRolloff:
		return enumValue(s, ParseRolloff)
	case KeyGuardInterval:
		return enumValue(s, ParseGuardInterval)
	case KeyTransmissionMode:
		return enumValue(s, ParseTransmissionMode)
	case KeyHierarchy:
		return enumValue(s, ParseHierarchy)
	}

	switch keyKinds[key] {
	case KindInt32:
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return Value{}, fmt.Errorf("frontend: invalid %s: %q", key, s)
		}
		return Int32Value(int32(n)), nil
	case KindUint32:
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return Value{}, fmt.Errorf("frontend: invalid %s: %q", key, s)
		}
		return Uint32Value(uint32(n)), nil
	}
	return Value{}, fmt.Errorf("frontend: %s cannot be set from text", key)
}

// ParseTune reads a whole tune file into a sequence. The commit marker is
// not appended automatically unless the file carries a TUNE line itself.
func ParseTune(r io.Reader) (*Sequence, error) {
	seq := NewSequence()
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p, err := ParseProperty(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		if err := seq.Push(p); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return seq, nil
}
