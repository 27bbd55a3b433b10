package main

import (
	"log"

	"github.com/go-gl/gl/v4.1-core/gl"
)

var glErrorNames = map[uint32]string{
	gl.INVALID_ENUM:                  "GL_INVALID_ENUM",
	gl.INVALID_VALUE:                 "GL_INVALID_VALUE",
	gl.INVALID_OPERATION:             "GL_INVALID_OPERATION",
	gl.INVALID_FRAMEBUFFER_OPERATION: "GL_INVALID_FRAMEBUFFER_OPERATION",
	gl.OUT_OF_MEMORY:                 "GL_OUT_OF_MEMORY",
}

// checkGLError logs every pending GL error and reports whether there was any.
func checkGLError(label string) bool {
	failed := false
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		name, ok := glErrorNames[code]
		if !ok {
			name = "unknown error"
		}
		log.Printf("GL error in %s: %s (0x%04x)", label, name, code)
		failed = true
	}
	return failed
}
