// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package desktop

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"github.com/gogpu/gpucontext"
	"golang.org/x/sys/windows"
)

// Supported reports whether this build has window system support.
const Supported = true

// Win32 windows belong to the thread that created them, and messages are
// only delivered to that thread.
func init() { runtime.LockOSThread() }

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procRegisterClassExW           = user32.NewProc("RegisterClassExW")
	procCreateWindowExW            = user32.NewProc("CreateWindowExW")
	procDefWindowProcW             = user32.NewProc("DefWindowProcW")
	procDestroyWindow              = user32.NewProc("DestroyWindow")
	procShowWindow                 = user32.NewProc("ShowWindow")
	procPeekMessageW               = user32.NewProc("PeekMessageW")
	procPostMessageW               = user32.NewProc("PostMessageW")
	procTranslateMessage           = user32.NewProc("TranslateMessage")
	procDispatchMessageW           = user32.NewProc("DispatchMessageW")
	procMsgWaitForMultipleObjects  = user32.NewProc("MsgWaitForMultipleObjects")
	procGetClientRect              = user32.NewProc("GetClientRect")
	procAdjustWindowRectEx         = user32.NewProc("AdjustWindowRectEx")
	procValidateRect               = user32.NewProc("ValidateRect")
	procLoadCursorW                = user32.NewProc("LoadCursorW")
	procGetDpiForWindow            = user32.NewProc("GetDpiForWindow")
	procGetModuleHandleW           = kernel32.NewProc("GetModuleHandleW")
	procSetProcessDpiAwarenessCtxt = user32.NewProc("SetProcessDpiAwarenessContext")
)

const (
	csOwnDC = 0x0020

	wsOverlappedWindow = 0x00CF0000
	wsThickFrame       = 0x00040000
	wsMaximizeBox      = 0x00010000

	swShow = 5

	wmDestroy    = 0x0002
	wmSize       = 0x0005
	wmPaint      = 0x000F
	wmClose      = 0x0010
	wmKeyDown    = 0x0100
	wmKeyUp      = 0x0101
	wmDpiChanged = 0x02E0
	wmApp        = 0x8000

	pmRemove     = 0x0001
	qsAllInput   = 0x04FF
	idcArrow     = 32512
	defaultDPI   = 96
	cwUseDefault = 0x80000000

	vkEscape = 0x1B
	vkSpace  = 0x20

	// Per-monitor v2 awareness makes WM_SIZE report physical pixels.
	dpiAwarePerMonitorV2 = ^uintptr(3)

	className = "clearpass"
)

type wndClassExW struct {
	Size       uint32
	Style      uint32
	WndProc    uintptr
	ClsExtra   int32
	WndExtra   int32
	Instance   uintptr
	Icon       uintptr
	Cursor     uintptr
	Background uintptr
	MenuName   *uint16
	ClassName  *uint16
	IconSm     uintptr
}

type msg struct {
	Hwnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      point
}

type point struct {
	X int32
	Y int32
}

type rect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

var (
	classOnce sync.Once
	errClass  error

	// active is the window the window procedure forwards to. Only one
	// window is open at a time.
	active *win32
)

func registerClass(instance uintptr) error {
	classOnce.Do(func() {
		name, err := windows.UTF16PtrFromString(className)
		if err != nil {
			errClass = err
			return
		}
		// Best effort; older systems keep the system DPI.
		if procSetProcessDpiAwarenessCtxt.Find() == nil {
			_, _, _ = procSetProcessDpiAwarenessCtxt.Call(dpiAwarePerMonitorV2)
		}
		cursor, _, _ := procLoadCursorW.Call(0, idcArrow)
		wc := wndClassExW{
			Size:      uint32(unsafe.Sizeof(wndClassExW{})),
			Style:     csOwnDC,
			WndProc:   windows.NewCallback(wndProc),
			Instance:  instance,
			Cursor:    cursor,
			ClassName: name,
		}
		if ret, _, err := procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc))); ret == 0 {
			errClass = fmt.Errorf("%w: RegisterClassExW: %w", ErrUnavailable, err)
		}
	})
	return errClass
}

// win32 is a top-level Win32 window. The native handles are the module
// instance and the HWND.
type win32 struct {
	instance uintptr
	hwnd     uintptr

	// post is the HWND wake posts to. It is never cleared, so wake does
	// not race with close; posting to a destroyed window fails.
	post uintptr

	width, height uint32
	factor        float64

	// s receives events while dispatch runs.
	s sink
}

func openPlatform(cfg Config) (platform, error) {
	if active != nil {
		return nil, errors.New("desktop: a window is already open")
	}
	instance, _, _ := procGetModuleHandleW.Call(0)
	if err := registerClass(instance); err != nil {
		return nil, err
	}
	title, err := windows.UTF16PtrFromString(cfg.Title)
	if err != nil {
		return nil, fmt.Errorf("desktop: window title: %w", err)
	}
	cls, _ := windows.UTF16PtrFromString(className)

	style := uintptr(wsOverlappedWindow)
	if !cfg.Resizable {
		style &^= wsThickFrame | wsMaximizeBox
	}
	rc := rect{Right: int32(cfg.Width), Bottom: int32(cfg.Height)}
	_, _, _ = procAdjustWindowRectEx.Call(uintptr(unsafe.Pointer(&rc)), style, 0, 0)

	w := &win32{instance: instance, factor: 1}
	active = w
	hwnd, _, callErr := procCreateWindowExW.Call(
		0,
		uintptr(unsafe.Pointer(cls)),
		uintptr(unsafe.Pointer(title)),
		style,
		cwUseDefault, cwUseDefault,
		uintptr(rc.Right-rc.Left), uintptr(rc.Bottom-rc.Top),
		0, 0, instance, 0,
	)
	if hwnd == 0 {
		active = nil
		return nil, fmt.Errorf("desktop: CreateWindowExW: %w", callErr)
	}
	w.hwnd, w.post = hwnd, hwnd
	if procGetDpiForWindow.Find() == nil {
		if dpi, _, _ := procGetDpiForWindow.Call(hwnd); dpi != 0 {
			w.factor = float64(dpi) / defaultDPI
		}
	}
	_, _, _ = procShowWindow.Call(hwnd, swShow)
	w.width, w.height = w.clientSize()
	return w, nil
}

func (w *win32) clientSize() (width, height uint32) {
	var rc rect
	_, _, _ = procGetClientRect.Call(w.hwnd, uintptr(unsafe.Pointer(&rc)))
	return clampDim(rc.Right - rc.Left), clampDim(rc.Bottom - rc.Top)
}

func (w *win32) size() (width, height uint32) { return w.width, w.height }

func (w *win32) scale() float64 { return w.factor }

func (w *win32) handles() (display, window uintptr, err error) {
	if w.hwnd == 0 {
		return 0, 0, ErrNoHandles
	}
	return w.instance, w.hwnd, nil
}

func (w *win32) dispatch(s sink, block bool, timeout time.Duration) error {
	w.s = s
	defer func() { w.s = nil }()

	var m msg
	if block {
		// Returns when input arrives, a message is posted, or on timeout.
		_, _, _ = procMsgWaitForMultipleObjects.Call(0, 0, 0, uintptr(timeout/time.Millisecond), qsAllInput)
	}
	for {
		ret, _, _ := procPeekMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0, pmRemove)
		if ret == 0 {
			return nil
		}
		_, _, _ = procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		_, _, _ = procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
		if w.hwnd == 0 {
			return errors.New("desktop: window destroyed")
		}
	}
}

func (w *win32) wake() {
	_, _, _ = procPostMessageW.Call(w.post, wmApp, 0, 0)
}

func (w *win32) close() {
	if w.hwnd != 0 {
		hwnd := w.hwnd
		w.hwnd = 0
		_, _, _ = procDestroyWindow.Call(hwnd)
	}
	if active == w {
		active = nil
	}
}

// handle processes one message for the window. It reports false when the
// message should go to DefWindowProc.
func (w *win32) handle(message uint32, wParam, lParam uintptr) bool {
	switch message {
	case wmSize:
		w.width = uint32(lParam & 0xFFFF)
		w.height = uint32((lParam >> 16) & 0xFFFF)
		if w.s != nil {
			w.s.resized(w.width, w.height)
		}
	case wmDpiChanged:
		w.factor = float64((wParam>>16)&0xFFFF) / defaultDPI
		if w.s != nil {
			w.s.rescaled(w.factor, w.width, w.height)
		}
		return false // DefWindowProc applies the suggested rect
	case wmClose:
		// Destroying the window is left to Close.
		if w.s != nil {
			w.s.closeRequested()
		}
	case wmPaint:
		_, _, _ = procValidateRect.Call(w.hwnd, 0)
		if w.s != nil {
			w.s.exposed()
		}
	case wmKeyDown, wmKeyUp:
		pressed := message == wmKeyDown
		if pressed && isKeyRepeat(lParam) {
			return true
		}
		if k, ok := translateVK(wParam); ok && w.s != nil {
			w.s.key(k, pressed)
		}
	case wmApp, wmDestroy:
	default:
		return false
	}
	return true
}

func wndProc(hwnd, message, wParam, lParam uintptr) uintptr {
	w := active
	if w != nil && (w.hwnd == hwnd || w.hwnd == 0) && w.handle(uint32(message), wParam, lParam) {
		return 0
	}
	ret, _, _ := procDefWindowProcW.Call(hwnd, message, wParam, lParam)
	return ret
}

// isKeyRepeat reports whether a WM_KEYDOWN lParam has the previous key
// state bit set.
func isKeyRepeat(lParam uintptr) bool { return lParam&(1<<30) != 0 }

// translateVK maps the virtual keys the application reacts to.
func translateVK(vk uintptr) (gpucontext.Key, bool) {
	switch vk {
	case vkEscape:
		return gpucontext.KeyEscape, true
	case vkSpace:
		return gpucontext.KeySpace, true
	}
	return 0, false
}
