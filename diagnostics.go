package preview

import (
	"flag"
	"strconv"
	"sync/atomic"

	"github.com/golang/glog"
)

// DefaultQuietLevel is the verbosity jobs lower diagnostics to while the
// formatter runs.
const DefaultQuietLevel = 0

// Diagnostics controls how verbose incidental logging is. Jobs capture the
// level, lower it while formatting and restore it afterwards.
type Diagnostics interface {
	Level() int
	SetLevel(level int)
}

// GlogDiagnostics reads and writes glog's -v flag.
type GlogDiagnostics struct{}

// Level returns the current glog verbosity.
func (GlogDiagnostics) Level() int {
	f := flag.Lookup("v")
	if f == nil {
		return 0
	}
	n, err := strconv.Atoi(f.Value.String())
	if err != nil {
		return 0
	}
	return n
}

// SetLevel sets glog's verbosity.
func (GlogDiagnostics) SetLevel(level int) {
	f := flag.Lookup("v")
	if f == nil {
		return
	}
	if err := f.Value.Set(strconv.Itoa(level)); err != nil {
		glog.Warningf("preview: set verbosity %d: %v", level, err)
	}
}

// LevelVar is an in-memory Diagnostics for hosts that do not log via glog.
type LevelVar struct {
	level atomic.Int32
}

// Level returns the stored level.
func (v *LevelVar) Level() int {
	return int(v.level.Load())
}

// SetLevel stores level.
func (v *LevelVar) SetLevel(level int) {
	v.level.Store(int32(level)) //nolint:gosec // verbosity levels are small
}

var (
	_ Diagnostics = GlogDiagnostics{}
	_ Diagnostics = (*LevelVar)(nil)
)
