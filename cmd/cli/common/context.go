package common

import (
	"github.com/jpnorenam/device-scan/pkg/hardware_info"
	"github.com/jpnorenam/device-scan/pkg/storage"
)

var ErrPermissionDenied = hardware_info.ErrPermissionDenied

type Context struct {
	Verbose bool
	Cache   storage.Cache
	Config  storage.Config
}
