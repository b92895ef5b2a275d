// file: pkg/adffuse/errno.go

// Package adffuse adapts the pkg/adf façade to a FUSE host filesystem
// binding using github.com/hanwen/go-fuse/v2/fs. It owns no on-disk
// semantics: every callback here does nothing but translate FUSE
// arguments to façade calls and façade errors to syscall.Errno.
package adffuse

import (
	"syscall"

	"github.com/amigafs/adfvol/pkg/adf"
	"github.com/hanwen/go-fuse/v2/fs"
)

// toErrno maps a façade error to the go-fuse status code a callback
// must return.
func toErrno(err error) syscall.Errno {
	if err == nil {
		return fs.OK
	}
	if aerr, ok := err.(*adf.Error); ok {
		return aerr.Errno()
	}
	return syscall.EIO
}
