package gmake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	assert.Equal(t, []string{"make", "-C", "embedded/build/nios2-ems"}, Build("embedded/build/nios2-ems").Argv())
}

func TestUpload(t *testing.T) {
	assert.Equal(t, []string{"make", "upload", "-C", "dir"}, Upload("dir").Argv())
	// Arguments are never split or interpreted.
	assert.Equal(t,
		[]string{"make", "upload", "-C", "dir", "CFLAGS=-O2 -g", "a;rm $(x)"},
		Upload("dir", "CFLAGS=-O2 -g", "a;rm $(x)").Argv())
}
