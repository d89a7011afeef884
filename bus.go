package m68k

import (
	"errors"
	"math/bits"
)

// Errors returned by NewBus when a device layout cannot be realized.
var (
	ErrConflictingDeviceMappings = errors.New("m68k: conflicting device page mappings")
	ErrUnmappedPages             = errors.New("m68k: one or more pages have no owning device")
	ErrMaxDeviceLimitReached     = errors.New("m68k: device count exceeds bus limit")
)

// Device is one bus-attached peripheral, covering a contiguous page range.
// addr passed to Read/Write is local to the device's own page range (the
// bus subtracts the device's base page before dispatch).
type Device interface {
	Read(addr uint32, mask uint32) uint32
	Write(addr uint32, mask uint32, data uint32)
}

// Resettable is optionally implemented by a Device that needs to know about
// CPU-initiated bus resets (the MC68000 RESET instruction).
type Resettable interface {
	Reset()
}

// deviceMapping records one device's page range within the bus.
type deviceMapping struct {
	dev        Device
	start, end uint32 // inclusive page indices
}

// BusConfig parameterises a Bus's address geometry.
type BusConfig struct {
	AddrWidth  uint // total address bus width in bits
	DataWidth  uint // data bus width in bits (8, 16, or 32)
	PageSize   uint32
	MaxDevices int
}

// Bus is a paged address-space dispatcher: a page-to-device index table
// provides O(1) routing from an address to the device that owns it. At most
// one device (or the designated open-bus device) owns a given page.
type Bus struct {
	cfg      BusConfig
	numPages uint32
	pageDev  []int // page -> index into mappings, or -1 for open bus
	mappings []deviceMapping
	openBus  Device
}

// openBusDevice is the default device installed on unmapped pages: reads
// return zero, writes are discarded.
type openBusDevice struct{}

func (openBusDevice) Read(addr uint32, mask uint32) uint32     { return 0 }
func (openBusDevice) Write(addr uint32, mask uint32, data uint32) {}

// DeviceRange binds a Device to an inclusive page range [Start, End].
type DeviceRange struct {
	Device     Device
	Start, End uint32
}

// NewBus validates page_size is a power of two, that the supplied device
// ranges are disjoint and within range, and that every page is covered
// either by a device or by the open-bus fallback (if useOpenBus is true).
// Coverage and overlap checks are the construction-time error axis of the
// core; they run on every call, in every build.
func NewBus(cfg BusConfig, useOpenBus bool, devices []DeviceRange) (*Bus, error) {
	if cfg.PageSize == 0 || cfg.PageSize&(cfg.PageSize-1) != 0 {
		return nil, errors.New("m68k: page_size must be a nonzero power of two")
	}
	if len(devices) > cfg.MaxDevices {
		return nil, ErrMaxDeviceLimitReached
	}

	numPages := uint32(1) << (cfg.AddrWidth - uint(bits.TrailingZeros32(cfg.PageSize)))

	b := &Bus{cfg: cfg, numPages: numPages}
	b.pageDev = make([]int, numPages)
	for i := range b.pageDev {
		b.pageDev[i] = -1
	}
	if useOpenBus {
		b.openBus = openBusDevice{}
	}

	for idx, d := range devices {
		if d.End >= numPages || d.Start > d.End {
			return nil, ErrUnmappedPages
		}
		for p := d.Start; p <= d.End; p++ {
			if b.pageDev[p] != -1 {
				return nil, ErrConflictingDeviceMappings
			}
			b.pageDev[p] = idx
		}
		b.mappings = append(b.mappings, deviceMapping{dev: d.Device, start: d.Start, end: d.End})
	}

	if b.openBus == nil {
		for _, p := range b.pageDev {
			if p == -1 {
				return nil, ErrUnmappedPages
			}
		}
	}

	return b, nil
}

// Read dispatches a read to the device owning addr's page, translating addr
// to the device-local address space. mask's set bits mark positions the
// caller does not care about; devices must return zero there.
func (b *Bus) Read(addr uint32, mask uint32) uint32 {
	page := addr / b.cfg.PageSize
	if page >= b.numPages {
		return 0
	}
	idx := b.pageDev[page]
	if idx == -1 {
		return b.openBus.Read(addr, mask)
	}
	m := b.mappings[idx]
	local := addr - m.start*b.cfg.PageSize
	return m.dev.Read(local, mask)
}

// Write dispatches a write to the device owning addr's page.
func (b *Bus) Write(addr uint32, mask uint32, data uint32) {
	page := addr / b.cfg.PageSize
	if page >= b.numPages {
		return
	}
	idx := b.pageDev[page]
	if idx == -1 {
		b.openBus.Write(addr, mask, data)
		return
	}
	m := b.mappings[idx]
	local := addr - m.start*b.cfg.PageSize
	m.dev.Write(local, mask, data)
}

// Reset fans out a bus reset to every attached device that implements
// Resettable. Used by the CPU's RESET instruction.
func (b *Bus) Reset() {
	for _, m := range b.mappings {
		if r, ok := m.dev.(Resettable); ok {
			r.Reset()
		}
	}
}

// Genesis bus presets (§6): the 68000 main bus and the Z80 sub bus.

// GenesisMainBusConfig is the 68000-side bus: a 23-bit address space paged
// in 1 MiB units, room for up to seven devices (CPU-visible cartridge I/O,
// peripheral I/O, 64 KiB work RAM, the high bus arbiter, the I/O
// controller, and the VDP).
func GenesisMainBusConfig() BusConfig {
	return BusConfig{AddrWidth: 23, DataWidth: 16, PageSize: 0x100000, MaxDevices: 7}
}

// GenesisSubBusConfig is the Z80-side bus: a 16-bit address space paged in
// 4 KiB units, room for up to five devices (Z80 CPU, the low bus arbiter,
// 8 KiB work RAM, the I/O controller, and the sound chip).
func GenesisSubBusConfig() BusConfig {
	return BusConfig{AddrWidth: 16, DataWidth: 8, PageSize: 0x1000, MaxDevices: 5}
}
