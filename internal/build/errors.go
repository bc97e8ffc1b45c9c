package build

import "errors"

// Sentinel errors classifying pipeline failures. Stage errors wrap one of
// these alongside the underlying cause.
var (
	ErrSettings  = errors.New("topsoil: settings error")
	ErrPageData  = errors.New("topsoil: page data error")
	ErrTemplates = errors.New("topsoil: template error")
	ErrOutput    = errors.New("topsoil: output error")
)
