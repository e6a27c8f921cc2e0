package evdev

// ioctl request encoding (Linux _IOC macro).
const (
	iocNRBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNRShift   = 0
	iocTypeShift = iocNRShift + iocNRBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	iocNone  = 0
	iocWrite = 1
	iocRead  = 2
)

func ioc(dir, typ, nr, size uint32) uint {
	return uint((dir << iocDirShift) | (typ << iocTypeShift) | (nr << iocNRShift) | (size << iocSizeShift))
}

func ioN(typ, nr uint32) uint       { return ioc(iocNone, typ, nr, 0) }
func ioR(typ, nr, size uint32) uint { return ioc(iocRead, typ, nr, size) }
func ioW(typ, nr, size uint32) uint { return ioc(iocWrite, typ, nr, size) }

// evdev requests ('E').
func eviocgname(n uint32) uint    { return ioR('E', 0x06, n) }
func eviocgbit(ev, n uint32) uint { return ioR('E', 0x20+ev, n) }
func eviocgrab() uint             { return ioW('E', 0x90, 4) }

// uinput requests ('U').
func uiSetEvBit() uint            { return ioW('U', 100, 4) }
func uiSetKeyBit() uint           { return ioW('U', 101, 4) }
func uiSetRelBit() uint           { return ioW('U', 102, 4) }
func uiSetMscBit() uint           { return ioW('U', 104, 4) }
func uiDevCreate() uint           { return ioN('U', 1) }
func uiDevDestroy() uint          { return ioN('U', 2) }
func uiDevSetup(size uint32) uint { return ioW('U', 3, size) }
