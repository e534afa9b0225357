package gldevice

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"
)

// HiddenWindow owns an invisible SDL2 window and its OpenGL 4.1 core context.
// It must be created and used from a single OS thread.
type HiddenWindow struct {
	sdlWindow *sdl.Window
	glContext sdl.GLContext
	log       *zap.Logger
}

// OpenHidden creates a hidden window with a current GL context and loads the
// GL function pointers. The calling goroutine is locked to its OS thread
// until Close.
func OpenHidden(log *zap.Logger) (*HiddenWindow, error) {
	if log == nil {
		log = zap.NewNop()
	}
	runtime.LockOSThread()

	log.Debug("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// OpenGL 4.1 Core Profile (max supported on macOS)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)

	win, err := sdl.CreateWindow("atlaspack",
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		1, 1, sdl.WINDOW_OPENGL|sdl.WINDOW_HIDDEN)
	if err != nil {
		sdl.Quit()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	glCtx, err := win.GLCreateContext()
	if err != nil {
		win.Destroy()
		sdl.Quit()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	if err := gl.Init(); err != nil {
		sdl.GLDeleteContext(glCtx)
		win.Destroy()
		sdl.Quit()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("gl.Init failed: %w", err)
	}

	log.Info("device context ready",
		zap.String("gl_version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	return &HiddenWindow{sdlWindow: win, glContext: glCtx, log: log}, nil
}

// Current implements device.Context. The context is made current when it is
// created and stays current until Close.
func (w *HiddenWindow) Current() bool {
	return w != nil && w.glContext != nil
}

// Close destroys the context and window and shuts SDL2 down.
func (w *HiddenWindow) Close() {
	w.log.Debug("closing device context")

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
		w.glContext = nil
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
		w.sdlWindow = nil
	}
	sdl.Quit()
	runtime.UnlockOSThread()
}
