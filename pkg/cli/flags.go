package cli

import (
	"strings"

	"github.com/spf13/pflag"
)

// UploadFlag is a flag with an optional value.
// Given without value, it requests an upload with empty options.
type UploadFlag struct {
	set  bool
	opts string
}

var _ pflag.Value = &UploadFlag{}

// UploadNoOptDefVal must be assigned to pflag.Flag.NoOptDefVal of the flag.
const UploadNoOptDefVal = " "

// String implements pflag.Value.
func (f *UploadFlag) String() string {
	return f.opts
}

// Set implements pflag.Value.
func (f *UploadFlag) Set(val string) error {
	f.set, f.opts = true, strings.TrimSpace(val)
	return nil
}

// Type implements pflag.Value.
func (f *UploadFlag) Type() string {
	return "OPTS"
}

// Options returns the upload options, nil if no upload is requested.
func (f *UploadFlag) Options() *string {
	if !f.set {
		return nil
	}
	opts := f.opts
	return &opts
}

// Bind registers the flag on fs.
func (f *UploadFlag) Bind(fs *pflag.FlagSet, name, shorthand, usage string) {
	fs.VarPF(f, name, shorthand, usage).NoOptDefVal = UploadNoOptDefVal
}
