//go:build linux

package frontend

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

// The structures below mirror linux/dvb/frontend.h byte for byte. The
// property record is declared packed in the kernel but every field lands on
// its natural alignment anyway, so a plain Go struct matches.

const (
	dtvDataSize  = 56 // union size inside struct dtv_property
	dtvStatSize  = 9  // one packed dtv_stats entry: scale byte + 8 value bytes
	dtvMaxStats  = 4
	delsysBufCap = 32 // dtv_property buffer payload
)

type dtvProperty struct {
	cmd      uint32
	reserved [3]uint32
	data     [dtvDataSize]byte
	result   int32
}

type dtvProperties struct {
	num   uint32
	props *dtvProperty
}

type feInfo struct {
	name                [128]byte
	feType              uint32
	frequencyMin        uint32
	frequencyMax        uint32
	frequencyStepsize   uint32
	frequencyTolerance  uint32
	symbolRateMin       uint32
	symbolRateMax       uint32
	symbolRateTolerance uint32
	notifierDelay       uint32
	caps                uint32
}

type feEvent struct {
	status    uint32
	frequency uint32
	inversion uint32
	reserved  [28]byte
}

// size guards: an ABI drift here would corrupt the ioctl payloads
var (
	_ = [1]struct{}{}[unsafe.Sizeof(dtvProperty{})-76]
	_ = [1]struct{}{}[unsafe.Sizeof(feInfo{})-168]
	_ = [1]struct{}{}[unsafe.Sizeof(feEvent{})-40]
)

// ioctl request codes, 'o' is the DVB frontend ioctl type
const (
	iocWrite = 1
	iocRead  = 2
)

func ioR(nr, size uintptr) uintptr {
	return iocRead<<30 | size<<16 | 'o'<<8 | nr
}

func ioW(nr, size uintptr) uintptr {
	return iocWrite<<30 | size<<16 | 'o'<<8 | nr
}

var (
	feGetInfo       = ioR(61, unsafe.Sizeof(feInfo{}))
	feReadStatus    = ioR(69, unsafe.Sizeof(uint32(0)))
	feReadBER       = ioR(70, unsafe.Sizeof(uint32(0)))
	feReadSignal    = ioR(71, unsafe.Sizeof(uint16(0)))
	feReadSNR       = ioR(72, unsafe.Sizeof(uint16(0)))
	feReadUNC       = ioR(73, unsafe.Sizeof(uint32(0)))
	feGetEvent      = ioR(78, unsafe.Sizeof(feEvent{}))
	feSetProperty   = ioW(82, unsafe.Sizeof(dtvProperties{}))
	feGetProperty   = ioR(83, unsafe.Sizeof(dtvProperties{}))
)

// ioctlTransport is the Linux property transport on one
// /dev/dvb/adapterN/frontendM node.
type ioctlTransport struct {
	file *os.File
	path string
}

// OpenRO opens a frontend read-only. The handle can query status and
// properties but any tuning attempt fails before reaching the driver.
func OpenRO(adapter, frontend uint32) (*Device, error) {
	return open(adapter, frontend, false)
}

// OpenRW opens a frontend for tuning.
func OpenRW(adapter, frontend uint32) (*Device, error) {
	return open(adapter, frontend, true)
}

func open(adapter, frontend uint32, writable bool) (*Device, error) {
	tr, err := openTransport(adapter, frontend, writable)
	if err != nil {
		return nil, err
	}
	d, err := NewDevice(tr, writable)
	if err != nil {
		return nil, err
	}
	d.adapter = adapter
	d.frontend = frontend
	return d, nil
}

func openTransport(adapter, frontend uint32, writable bool) (*ioctlTransport, error) {
	path := fmt.Sprintf("/dev/dvb/adapter%d/frontend%d", adapter, frontend)
	flags := os.O_RDONLY
	if writable {
		flags = os.O_RDWR
	}
	f, err := os.OpenFile(path, flags|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("FE: failed to open device %s: %w", path, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("FE: stat %s: %w", path, err)
	}
	if fi.Mode()&os.ModeCharDevice == 0 {
		f.Close()
		return nil, fmt.Errorf("FE: %s is not a char device", path)
	}

	return &ioctlTransport{file: f, path: path}, nil
}

func (t *ioctlTransport) ioctl(req uintptr, arg unsafe.Pointer) error {
	for {
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, t.file.Fd(), req, uintptr(arg))
		if errno == unix.EINTR {
			continue
		}
		runtime.KeepAlive(t.file)
		if errno != 0 {
			return os.NewSyscallError("ioctl", errno)
		}
		return nil
	}
}

func (t *ioctlTransport) Close() error {
	return t.file.Close()
}

func (t *ioctlTransport) Info() (*Info, error) {
	var raw feInfo
	if err := t.ioctl(feGetInfo, unsafe.Pointer(&raw)); err != nil {
		return nil, err
	}

	info := &Info{
		FrequencyMin:  raw.frequencyMin,
		FrequencyMax:  raw.frequencyMax,
		SymbolRateMin: raw.symbolRateMin,
		SymbolRateMax: raw.symbolRateMax,
		Caps:          Caps(raw.caps),
	}
	if i := bytes.IndexByte(raw.name[:], 0); i >= 0 {
		info.Name = string(raw.name[:i])
	} else {
		info.Name = string(raw.name[:])
	}

	// DVBv5 side: API version and supported delivery systems. A driver
	// that cannot answer this is too old to speak the property protocol.
	props := [2]dtvProperty{
		{cmd: uint32(KeyAPIVersion)},
		{cmd: uint32(KeyEnumDelsys)},
	}
	if err := t.propertyIoctl(feGetProperty, props[:]); err != nil {
		return nil, fmt.Errorf("get api version (deprecated driver?): %w", err)
	}
	info.APIVersion = uint16(binary.NativeEndian.Uint32(props[0].data[:4]))

	n := binary.NativeEndian.Uint32(props[1].data[delsysBufCap : delsysBufCap+4])
	if n > delsysBufCap {
		n = delsysBufCap
	}
	for _, b := range props[1].data[:n] {
		info.DeliverySystems = append(info.DeliverySystems, DeliverySystem(b))
	}

	return info, nil
}

func (t *ioctlTransport) propertyIoctl(req uintptr, props []dtvProperty) error {
	if len(props) == 0 {
		return nil
	}
	if len(props) > MaxSequenceLen {
		return fmt.Errorf("too many properties: %d", len(props))
	}
	cmd := dtvProperties{
		num:   uint32(len(props)),
		props: &props[0],
	}
	err := t.ioctl(req, unsafe.Pointer(&cmd))
	runtime.KeepAlive(props)
	return err
}

func (t *ioctlTransport) Set(props []Property) error {
	raw := make([]dtvProperty, 0, len(props))
	for _, p := range props {
		r, err := marshalProperty(p)
		if err != nil {
			return err
		}
		raw = append(raw, r)
	}
	return t.propertyIoctl(feSetProperty, raw)
}

func (t *ioctlTransport) Get(keys []Key) ([]Property, error) {
	// the lock status pseudo key travels over FE_READ_STATUS, everything
	// else over one FE_GET_PROPERTY call
	raw := make([]dtvProperty, 0, len(keys))
	slots := make([]int, 0, len(keys))
	for i, k := range keys {
		if k == KeyLockStatus {
			continue
		}
		raw = append(raw, dtvProperty{cmd: uint32(k)})
		slots = append(slots, i)
	}
	if err := t.propertyIoctl(feGetProperty, raw); err != nil {
		return nil, err
	}

	out := make([]Property, len(keys))
	for n, i := range slots {
		p, err := unmarshalProperty(&raw[n])
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	for i, k := range keys {
		if k != KeyLockStatus {
			continue
		}
		var status uint32
		if err := t.ioctl(feReadStatus, unsafe.Pointer(&status)); err != nil {
			return nil, err
		}
		out[i] = Property{Key: KeyLockStatus, Value: BitmaskValue(status)}
	}
	return out, nil
}

func (t *ioctlTransport) ReadSignalStrength() (uint16, error) {
	var v uint16
	err := t.ioctl(feReadSignal, unsafe.Pointer(&v))
	return v, err
}

func (t *ioctlTransport) ReadSNR() (uint16, error) {
	var v uint16
	err := t.ioctl(feReadSNR, unsafe.Pointer(&v))
	return v, err
}

func (t *ioctlTransport) ReadBER() (uint32, error) {
	var v uint32
	err := t.ioctl(feReadBER, unsafe.Pointer(&v))
	return v, err
}

func (t *ioctlTransport) ReadUncorrectedBlocks() (uint32, error) {
	var v uint32
	err := t.ioctl(feReadUNC, unsafe.Pointer(&v))
	return v, err
}

func (t *ioctlTransport) ReadEvent() (*Event, error) {
	var raw feEvent
	if err := t.ioctl(feGetEvent, unsafe.Pointer(&raw)); err != nil {
		return nil, err
	}
	return &Event{
		Status:    StatusFlags(raw.status),
		Frequency: raw.frequency,
		Inversion: Inversion(raw.inversion),
	}, nil
}

func marshalProperty(p Property) (dtvProperty, error) {
	raw := dtvProperty{cmd: uint32(p.Key)}
	switch p.Value.Kind() {
	case KindNone:
		// TUNE and CLEAR carry no payload
	case KindUint32, KindBitmask:
		binary.NativeEndian.PutUint32(raw.data[:4], p.Value.Uint32())
	case KindInt32:
		binary.NativeEndian.PutUint32(raw.data[:4], uint32(p.Value.Int32()))
	default:
		return raw, &TypeMismatchError{Key: p.Key, Got: p.Value.Kind(), Want: KindUint32}
	}
	return raw, nil
}

func unmarshalProperty(raw *dtvProperty) (Property, error) {
	key := Key(raw.cmd)
	kind, ok := keyKinds[key]
	if !ok {
		return Property{}, &UnknownKeyError{Key: key}
	}
	switch kind {
	case KindNone:
		return Property{Key: key, Value: NoValue()}, nil
	case KindUint32:
		return Property{Key: key, Value: Uint32Value(binary.NativeEndian.Uint32(raw.data[:4]))}, nil
	case KindInt32:
		return Property{Key: key, Value: Int32Value(int32(binary.NativeEndian.Uint32(raw.data[:4])))}, nil
	case KindBitmask:
		return Property{Key: key, Value: BitmaskValue(binary.NativeEndian.Uint32(raw.data[:4]))}, nil
	case KindStats:
		return Property{Key: key, Value: StatsValue(unmarshalStats(raw.data[:])...)}, nil
	}
	return Property{}, &UnknownKeyError{Key: key}
}

func unmarshalStats(data []byte) []Stat {
	n := int(data[0])
	if n > dtvMaxStats {
		n = dtvMaxStats
	}
	stats := make([]Stat, 0, n)
	for i := 0; i < n; i++ {
		off := 1 + i*dtvStatSize
		stats = append(stats, Stat{
			Scale: StatScale(data[off]),
			Value: int64(binary.NativeEndian.Uint64(data[off+1 : off+9])),
		})
	}
	return stats
}
