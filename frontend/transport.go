package frontend

import (
	"fmt"
	"strings"
)

// Info is the static capability description of a frontend, read once when
// the device is opened.
type Info struct {
	Name       string
	APIVersion uint16

	DeliverySystems []DeliverySystem

	// frequencies are Hz for terrestrial/cable frontends and kHz for
	// satellite ones, matching the kernel convention
	FrequencyMin, FrequencyMax uint32
	SymbolRateMin, SymbolRateMax uint32

	Caps Caps
}

// Supports reports whether the hardware can receive the delivery system.
func (i *Info) Supports(sys DeliverySystem) bool {
	for _, s := range i.DeliverySystems {
		if s == sys {
			return true
		}
	}
	return false
}

func (i *Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "DVB API: %d.%d\n", i.APIVersion>>8, i.APIVersion&0xFF)
	fmt.Fprintf(&b, "Frontend: %s\n", i.Name)
	b.WriteString("Delivery system:")
	for _, s := range i.DeliverySystems {
		b.WriteString(" ")
		b.WriteString(s.String())
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Frequency range: %d .. %d\n", i.FrequencyMin/1000, i.FrequencyMax/1000)
	fmt.Fprintf(&b, "Symbolrate range: %d .. %d\n", i.SymbolRateMin/1000, i.SymbolRateMax/1000)
	fmt.Fprintf(&b, "Frontend capabilities: 0x%08x", uint32(i.Caps))
	return b.String()
}

// Event is one entry of the frontend event queue.
type Event struct {
	Status    StatusFlags
	Frequency uint32
	Inversion Inversion
}

// Transport carries ordered property lists to and from one frontend device.
// Each call is one atomic round trip from the kernel's point of view: all
// properties are applied, or the call fails as a whole.
//
// A Transport is not safe for concurrent use; a Device owns its transport
// exclusively.
type Transport interface {
	// Info reads the static device description.
	Info() (*Info, error)
	// Set transmits an ordered property list to the driver.
	Set(props []Property) error
	// Get queries the listed keys and returns them, in request order,
	// with values filled in by the driver.
	Get(keys []Key) ([]Property, error)
	Close() error
}

// LegacyStatReader is the optional DVBv3 side of a transport. Old drivers
// report quality only through these scalar reads; the status model falls
// back to them when the property stats come back unavailable.
type LegacyStatReader interface {
	ReadSignalStrength() (uint16, error)
	ReadSNR() (uint16, error)
	ReadBER() (uint32, error)
	ReadUncorrectedBlocks() (uint32, error)
}

// EventReader is the optional event-queue side of a transport, used to
// drain stale events when clearing the frontend.
type EventReader interface {
	ReadEvent() (*Event, error)
}
