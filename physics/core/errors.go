package core

import (
	"errors"
)

var (
	ErrInvalidSceneGraph = errors.New("scene graph is nil or empty")
	ErrMissingReport     = errors.New("report callback is nil")
	ErrNoIncludePaths    = errors.New("no include paths provided")
)
