// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build linux && (amd64 || arm64) && !cgo

package desktop

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"github.com/go-webgpu/goffi/ffi"
	"github.com/go-webgpu/goffi/types"
	"github.com/gogpu/clearpass"
	"github.com/gogpu/gpucontext"
	"golang.org/x/sys/unix"
)

// Supported reports whether this build has window system support.
const Supported = true

// ErrNoDisplay is returned by New when no X server can be reached.
var ErrNoDisplay = errors.New("desktop: cannot open X11 display")

// Xlib event types and input masks.
const (
	xKeyPress        = 2
	xKeyRelease      = 3
	xExpose          = 12
	xConfigureNotify = 22
	xClientMessage   = 33

	xKeyPressMask        = 1 << 0
	xKeyReleaseMask      = 1 << 1
	xExposureMask        = 1 << 15
	xStructureNotifyMask = 1 << 17

	xQueuedAfterReading = 1

	xPMinSize = 1 << 4
	xPMaxSize = 1 << 5
)

// Keysyms the application reacts to.
const (
	xkEscape = 0xff1b
	xkSpace  = 0x0020
)

// xEvent mirrors the 192-byte XEvent union on LP64.
type xEvent [192]byte

func (e *xEvent) i32(off int) int32  { return int32(binary.NativeEndian.Uint32(e[off:])) }
func (e *xEvent) u64(off int) uint64 { return binary.NativeEndian.Uint64(e[off:]) }

// Field offsets follow the LP64 layout of the Xlib event structs.
func (e *xEvent) kind() int32 { return e.i32(0) }

// configureSize reads width and height of an XConfigureEvent.
func (e *xEvent) configureSize() (width, height int32) { return e.i32(56), e.i32(60) }

// clientAtom reads data.l[0] of an XClientMessageEvent.
func (e *xEvent) clientAtom() uint64 { return e.u64(56) }

// keyTime reads time and keycode of an XKeyEvent.
func (e *xEvent) keyTime() (stamp uint64, keycode uint32) {
	return e.u64(56), uint32(e.i32(84))
}

// exposeCount reads count of an XExposeEvent.
func (e *xEvent) exposeCount() int32 { return e.i32(56) }

// xSizeHints mirrors XSizeHints on LP64.
type xSizeHints struct {
	flags                             int64
	x, y, width, height               int32
	minWidth, minHeight               int32
	maxWidth, maxHeight               int32
	widthInc, heightInc               int32
	minAspectX, minAspectY            int32
	maxAspectX, maxAspectY            int32
	baseWidth, baseHeight, winGravity int32
	_                                 int32
}

// xproc is one Xlib entry point called through goffi.
type xproc struct {
	name string
	ret  *types.TypeDescriptor
	args []*types.TypeDescriptor

	sym unsafe.Pointer
	cif types.CallInterface
}

// call invokes the function. Each arg points at the storage of one
// argument value.
func (p *xproc) call(ret unsafe.Pointer, args ...unsafe.Pointer) {
	_ = ffi.CallFunction(&p.cif, p.sym, ret, args)
}

var (
	tPtr  = types.PointerTypeDescriptor
	tInt  = types.SInt32TypeDescriptor
	tUint = types.UInt32TypeDescriptor
	tLong = types.UInt64TypeDescriptor
	tVoid = types.VoidTypeDescriptor
)

var (
	xInitThreads        = &xproc{name: "XInitThreads", ret: tInt}
	xOpenDisplay        = &xproc{name: "XOpenDisplay", ret: tPtr, args: []*types.TypeDescriptor{tPtr}}
	xCloseDisplay       = &xproc{name: "XCloseDisplay", ret: tInt, args: []*types.TypeDescriptor{tPtr}}
	xDefaultScreen      = &xproc{name: "XDefaultScreen", ret: tInt, args: []*types.TypeDescriptor{tPtr}}
	xRootWindow         = &xproc{name: "XRootWindow", ret: tLong, args: []*types.TypeDescriptor{tPtr, tInt}}
	xCreateSimpleWindow = &xproc{name: "XCreateSimpleWindow", ret: tLong, args: []*types.TypeDescriptor{
		tPtr, tLong, tInt, tInt, tUint, tUint, tUint, tLong, tLong,
	}}
	xDestroyWindow    = &xproc{name: "XDestroyWindow", ret: tInt, args: []*types.TypeDescriptor{tPtr, tLong}}
	xStoreName        = &xproc{name: "XStoreName", ret: tInt, args: []*types.TypeDescriptor{tPtr, tLong, tPtr}}
	xInternAtom       = &xproc{name: "XInternAtom", ret: tLong, args: []*types.TypeDescriptor{tPtr, tPtr, tInt}}
	xSetWMProtocols   = &xproc{name: "XSetWMProtocols", ret: tInt, args: []*types.TypeDescriptor{tPtr, tLong, tPtr, tInt}}
	xSetWMNormalHints = &xproc{name: "XSetWMNormalHints", ret: tVoid, args: []*types.TypeDescriptor{tPtr, tLong, tPtr}}
	xSelectInput      = &xproc{name: "XSelectInput", ret: tInt, args: []*types.TypeDescriptor{tPtr, tLong, tLong}}
	xMapWindow        = &xproc{name: "XMapWindow", ret: tInt, args: []*types.TypeDescriptor{tPtr, tLong}}
	xFlush            = &xproc{name: "XFlush", ret: tInt, args: []*types.TypeDescriptor{tPtr}}
	xPending          = &xproc{name: "XPending", ret: tInt, args: []*types.TypeDescriptor{tPtr}}
	xEventsQueued     = &xproc{name: "XEventsQueued", ret: tInt, args: []*types.TypeDescriptor{tPtr, tInt}}
	xNextEvent        = &xproc{name: "XNextEvent", ret: tInt, args: []*types.TypeDescriptor{tPtr, tPtr}}
	xPeekEvent        = &xproc{name: "XPeekEvent", ret: tInt, args: []*types.TypeDescriptor{tPtr, tPtr}}
	xLookupKeysym     = &xproc{name: "XLookupKeysym", ret: tLong, args: []*types.TypeDescriptor{tPtr, tInt}}
	xConnectionNumber = &xproc{name: "XConnectionNumber", ret: tInt, args: []*types.TypeDescriptor{tPtr}}
)

var xprocs = []*xproc{
	xInitThreads, xOpenDisplay, xCloseDisplay, xDefaultScreen, xRootWindow,
	xCreateSimpleWindow, xDestroyWindow, xStoreName, xInternAtom, xSetWMProtocols,
	xSetWMNormalHints, xSelectInput, xMapWindow, xFlush, xPending, xEventsQueued,
	xNextEvent, xPeekEvent, xLookupKeysym, xConnectionNumber,
}

var (
	xlibOnce sync.Once
	errXlib  error
)

// loadXlib resolves every Xlib entry point and calls XInitThreads, since
// the Vulkan driver talks to the display from its own threads.
func loadXlib() error {
	xlibOnce.Do(func() {
		lib, err := ffi.LoadLibrary("libX11.so.6")
		if err != nil {
			lib, err = ffi.LoadLibrary("libX11.so")
			if err != nil {
				errXlib = fmt.Errorf("%w: load libX11: %w", ErrUnavailable, err)
				return
			}
		}
		for _, p := range xprocs {
			if p.sym, err = ffi.GetSymbol(lib, p.name); err != nil {
				errXlib = fmt.Errorf("%w: %s: %w", ErrUnavailable, p.name, err)
				return
			}
			if err = ffi.PrepareCallInterface(&p.cif, types.DefaultCall, p.ret, p.args); err != nil {
				errXlib = fmt.Errorf("desktop: prepare %s: %w", p.name, err)
				return
			}
		}
		var status int32
		xInitThreads.call(unsafe.Pointer(&status))
	})
	return errXlib
}

// cstring returns a NUL-terminated copy of s.
func cstring(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

// x11 is an Xlib connection with one top-level window. The native handles
// are the Display pointer and the window XID.
type x11 struct {
	dpy    uintptr
	win    uint64
	delete uint64
	fd     int

	// wakeR and wakeW are a non-blocking self-pipe polled next to the
	// X connection. wakeMu guards wakeW against close.
	wakeMu       sync.Mutex
	wakeR, wakeW int

	width, height uint32

	// Heap buffers handed to Xlib.
	ev   *xEvent
	peek *xEvent
}

func openPlatform(cfg Config) (platform, error) {
	if err := loadXlib(); err != nil {
		return nil, err
	}
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		// The Vulkan loader picks its Wayland path when this is set, which
		// cannot use X11 handles. Run under XWayland instead.
		clearpass.Logger().Info("desktop: Wayland session, using XWayland")
		_ = os.Unsetenv("WAYLAND_DISPLAY")
	}

	x := &x11{
		wakeR:  -1,
		wakeW:  -1,
		width:  uint32(cfg.Width),
		height: uint32(cfg.Height),
		ev:     new(xEvent),
		peek:   new(xEvent),
	}
	var name uintptr // NULL selects $DISPLAY
	xOpenDisplay.call(unsafe.Pointer(&x.dpy), unsafe.Pointer(&name))
	if x.dpy == 0 {
		return nil, ErrNoDisplay
	}

	var screen int32
	xDefaultScreen.call(unsafe.Pointer(&screen), unsafe.Pointer(&x.dpy))
	var root uint64
	xRootWindow.call(unsafe.Pointer(&root), unsafe.Pointer(&x.dpy), unsafe.Pointer(&screen))

	var (
		posX, posY    int32
		border        uint32
		black, backgd uint64
	)
	xCreateSimpleWindow.call(unsafe.Pointer(&x.win),
		unsafe.Pointer(&x.dpy), unsafe.Pointer(&root),
		unsafe.Pointer(&posX), unsafe.Pointer(&posY),
		unsafe.Pointer(&x.width), unsafe.Pointer(&x.height),
		unsafe.Pointer(&border), unsafe.Pointer(&black), unsafe.Pointer(&backgd))
	if x.win == 0 {
		x.closeDisplay()
		return nil, fmt.Errorf("desktop: XCreateSimpleWindow failed")
	}

	title := cstring(cfg.Title)
	titlePtr := uintptr(unsafe.Pointer(&title[0]))
	var ret int32
	xStoreName.call(unsafe.Pointer(&ret), unsafe.Pointer(&x.dpy), unsafe.Pointer(&x.win), unsafe.Pointer(&titlePtr))
	runtime.KeepAlive(title)

	atomName := cstring("WM_DELETE_WINDOW")
	atomPtr := uintptr(unsafe.Pointer(&atomName[0]))
	var onlyIfExists int32
	xInternAtom.call(unsafe.Pointer(&x.delete), unsafe.Pointer(&x.dpy), unsafe.Pointer(&atomPtr), unsafe.Pointer(&onlyIfExists))
	runtime.KeepAlive(atomName)

	protocols := []uint64{x.delete}
	protoPtr := uintptr(unsafe.Pointer(&protocols[0]))
	count := int32(len(protocols))
	xSetWMProtocols.call(unsafe.Pointer(&ret), unsafe.Pointer(&x.dpy), unsafe.Pointer(&x.win), unsafe.Pointer(&protoPtr), unsafe.Pointer(&count))
	runtime.KeepAlive(protocols)

	if !cfg.Resizable {
		hints := &xSizeHints{
			flags:     xPMinSize | xPMaxSize,
			minWidth:  int32(cfg.Width),
			minHeight: int32(cfg.Height),
			maxWidth:  int32(cfg.Width),
			maxHeight: int32(cfg.Height),
		}
		hintsPtr := uintptr(unsafe.Pointer(hints))
		xSetWMNormalHints.call(nil, unsafe.Pointer(&x.dpy), unsafe.Pointer(&x.win), unsafe.Pointer(&hintsPtr))
		runtime.KeepAlive(hints)
	}

	mask := uint64(xKeyPressMask | xKeyReleaseMask | xExposureMask | xStructureNotifyMask)
	xSelectInput.call(unsafe.Pointer(&ret), unsafe.Pointer(&x.dpy), unsafe.Pointer(&x.win), unsafe.Pointer(&mask))
	xMapWindow.call(unsafe.Pointer(&ret), unsafe.Pointer(&x.dpy), unsafe.Pointer(&x.win))
	xFlush.call(unsafe.Pointer(&ret), unsafe.Pointer(&x.dpy))

	var fd int32
	xConnectionNumber.call(unsafe.Pointer(&fd), unsafe.Pointer(&x.dpy))
	x.fd = int(fd)

	pipe := make([]int, 2)
	if err := unix.Pipe2(pipe, unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		x.close()
		return nil, fmt.Errorf("desktop: wake pipe: %w", err)
	}
	x.wakeR, x.wakeW = pipe[0], pipe[1]
	return x, nil
}

func (x *x11) size() (width, height uint32) { return x.width, x.height }

// scale is always 1; X11 has no per-window content scale.
func (x *x11) scale() float64 { return 1 }

func (x *x11) handles() (display, window uintptr, err error) {
	if x.dpy == 0 {
		return 0, 0, ErrNoHandles
	}
	return x.dpy, uintptr(x.win), nil
}

func (x *x11) pending() int32 {
	var n int32
	xPending.call(unsafe.Pointer(&n), unsafe.Pointer(&x.dpy))
	return n
}

func (x *x11) dispatch(s sink, block bool, timeout time.Duration) error {
	if block && x.pending() == 0 {
		if err := x.wait(timeout); err != nil {
			return err
		}
	}
	x.drainWake()
	for x.pending() > 0 {
		var ret int32
		xNextEvent.call(unsafe.Pointer(&ret), unsafe.Pointer(&x.dpy), unsafe.Pointer(&x.ev))
		x.translate(s)
	}
	return nil
}

// wait polls the X connection and the wake pipe.
func (x *x11) wait(timeout time.Duration) error {
	fds := []unix.PollFd{
		{Fd: int32(x.fd), Events: unix.POLLIN},
		{Fd: int32(x.wakeR), Events: unix.POLLIN},
	}
	if _, err := unix.Poll(fds, int(timeout/time.Millisecond)); err != nil {
		if errors.Is(err, unix.EINTR) {
			return nil
		}
		return fmt.Errorf("desktop: poll: %w", err)
	}
	if fds[0].Revents&(unix.POLLHUP|unix.POLLERR) != 0 {
		return fmt.Errorf("desktop: X11 connection closed")
	}
	return nil
}

func (x *x11) drainWake() {
	var buf [64]byte
	for {
		if n, err := unix.Read(x.wakeR, buf[:]); n <= 0 || err != nil {
			return
		}
	}
}

func (x *x11) wake() {
	x.wakeMu.Lock()
	defer x.wakeMu.Unlock()
	if x.wakeW >= 0 {
		_, _ = unix.Write(x.wakeW, []byte{1})
	}
}

// translate forwards the event in x.ev to s.
func (x *x11) translate(s sink) {
	switch x.ev.kind() {
	case xConfigureNotify:
		w, h := x.ev.configureSize()
		x.width, x.height = clampDim(w), clampDim(h)
		s.resized(x.width, x.height)
	case xClientMessage:
		if x.ev.clientAtom() == x.delete {
			s.closeRequested()
		}
	case xExpose:
		if x.ev.exposeCount() == 0 {
			s.exposed()
		}
	case xKeyPress, xKeyRelease:
		pressed := x.ev.kind() == xKeyPress
		if !pressed && x.autoRepeat() {
			return
		}
		var level int32
		var sym uint64
		xLookupKeysym.call(unsafe.Pointer(&sym), unsafe.Pointer(&x.ev), unsafe.Pointer(&level))
		if k, ok := translateKeysym(sym); ok {
			s.key(k, pressed)
		}
	}
}

// autoRepeat reports whether the release in x.ev is half of an
// auto-repeat pair. The matching press is consumed.
func (x *x11) autoRepeat() bool {
	var n int32
	mode := int32(xQueuedAfterReading)
	xEventsQueued.call(unsafe.Pointer(&n), unsafe.Pointer(&x.dpy), unsafe.Pointer(&mode))
	if n == 0 {
		return false
	}
	var ret int32
	xPeekEvent.call(unsafe.Pointer(&ret), unsafe.Pointer(&x.dpy), unsafe.Pointer(&x.peek))
	if !isRepeat(x.ev, x.peek) {
		return false
	}
	xNextEvent.call(unsafe.Pointer(&ret), unsafe.Pointer(&x.dpy), unsafe.Pointer(&x.ev))
	return true
}

// isRepeat reports whether release and next form an auto-repeat pair: a
// press of the same key with the same timestamp.
func isRepeat(release, next *xEvent) bool {
	if next.kind() != xKeyPress {
		return false
	}
	rt, rk := release.keyTime()
	nt, nk := next.keyTime()
	return rt == nt && rk == nk
}

// translateKeysym maps the keys the application reacts to.
func translateKeysym(sym uint64) (gpucontext.Key, bool) {
	switch sym {
	case xkEscape:
		return gpucontext.KeyEscape, true
	case xkSpace:
		return gpucontext.KeySpace, true
	}
	return 0, false
}

func (x *x11) closeDisplay() {
	if x.dpy == 0 {
		return
	}
	var ret int32
	xCloseDisplay.call(unsafe.Pointer(&ret), unsafe.Pointer(&x.dpy))
	x.dpy = 0
}

func (x *x11) close() {
	if x.dpy != 0 && x.win != 0 {
		var ret int32
		xDestroyWindow.call(unsafe.Pointer(&ret), unsafe.Pointer(&x.dpy), unsafe.Pointer(&x.win))
		x.win = 0
	}
	x.closeDisplay()
	x.wakeMu.Lock()
	defer x.wakeMu.Unlock()
	if x.wakeW >= 0 {
		_ = unix.Close(x.wakeR)
		_ = unix.Close(x.wakeW)
		x.wakeR, x.wakeW = -1, -1
	}
}
