package log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/toon-format/toon-go"
)

var (
	log       *WriteDaily
	eventsLog *WriteDaily

	// if set, Logf() also writes there (e.g. os.Stdout)
	Console io.Writer

	// if true, Verbosef() will log messages
	Verbose bool
)

// WriteDaily appends to a file in Dir named after the current UTC day
// (YYYY-MM-DD.txt), starting a new file when the day changes
type WriteDaily struct {
	Dir         string
	currentDate int // YYYYMMDD format
	file        *os.File
	mu          sync.Mutex
}

func NewWriteDaily(dir string) *WriteDaily {
	return &WriteDaily{
		Dir: dir,
	}
}

// dayFromTime converts a time.Time to YYYYMMDD integer format
func dayFromTime(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// Path returns path of the log file for a given time
func (w *WriteDaily) Path(t time.Time) string {
	return filepath.Join(w.Dir, t.UTC().Format("2006-01-02")+".txt")
}

// Writer returns an io.Writer for today's log file
// it creates a new file if needed
func (w *WriteDaily) Writer() (io.Writer, error) {
	if w == nil {
		return nil, fmt.Errorf("w is nil")
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now().UTC()
	today := dayFromTime(now)

	if w.file != nil && w.currentDate != today {
		if err := w.close(); err != nil {
			return nil, err
		}
	}

	if w.file == nil {
		if err := os.MkdirAll(w.Dir, 0755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(w.Path(now), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		w.file = f
		w.currentDate = today
	}
	return w.file, nil
}

// Write writes data to the daily log file
// it's safe to call on nil receiver
func (w *WriteDaily) Write(d []byte) error {
	if w == nil {
		return nil
	}
	wr, err := w.Writer()
	if err != nil {
		return err
	}
	_, err = wr.Write(d)
	return err
}

// WriteString writes a string to the daily log file
// it's safe to call on nil receiver
func (w *WriteDaily) WriteString(s string) error {
	return w.Write([]byte(s))
}

func (w *WriteDaily) close() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	w.currentDate = 0
	return err
}

// Close closes the daily log file
// it's safe to call on nil receiver
func (w *WriteDaily) Close() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.close()
}

// Sync flushes the daily log file to disk
// it's safe to call on nil receiver
func (w *WriteDaily) Sync() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file != nil {
		return w.file.Sync()
	}
	return nil
}

type Config struct {
	// directory where log files are stored
	// regular logs go to Dir/log, events to Dir/events
	Dir string
	// if set, every Logf() is also written here
	Console io.Writer
}

// Init initializes the logging system
// log files are stored in config.Dir
// files are only created on first write
func Init(config *Config) {
	Console = config.Console
	if config.Dir == "" {
		return
	}
	dir := config.Dir
	log = NewWriteDaily(filepath.Join(dir, "log"))
	eventsLog = NewWriteDaily(filepath.Join(dir, "events"))
}

// closeWriteDaily closes the WriteDaily and sets its pointer to nil
// it's safe to call with nil pointer
func closeWriteDaily(wd **WriteDaily) {
	if *wd == nil {
		return
	}
	_ = (*wd).Sync()
	_ = (*wd).Close()
	*wd = nil
}

func Close() {
	closeWriteDaily(&log)
	closeWriteDaily(&eventsLog)
}

func Logf(s string, args ...any) {
	if len(args) > 0 {
		s = fmt.Sprintf(s, args...)
	}
	if Console != nil {
		fmt.Fprint(Console, s)
	}
	_ = log.WriteString(s)
}

func Verbosef(format string, args ...any) {
	if !Verbose {
		return
	}
	Logf(format, args...)
}

func GetCallstackFrames(skip int) []string {
	var callers [32]uintptr
	n := runtime.Callers(skip+1, callers[:])
	frames := runtime.CallersFrames(callers[:n])
	var cs []string
	for {
		frame, more := frames.Next()
		s := frame.File + ":" + strconv.Itoa(frame.Line)
		cs = append(cs, s)
		if !more {
			break
		}
	}
	return cs
}

func GetCallstack(skip int) string {
	frames := GetCallstackFrames(skip + 1)
	return strings.Join(frames, "\n")
}

// Errorf logs an error message along with the callstack
func Errorf(s string, args ...any) {
	if len(args) > 0 {
		s = fmt.Sprintf(s, args...)
	}
	cs := GetCallstack(2)
	Logf("%s\n%s\n", s, cs)
}

// if err != nil, log and return true
// IfErrf(err) => logs err.Error()
// IfErrf(err, "error is: %v", err) => logs message formatted
func IfErrf(err error, a ...any) bool {
	if err == nil {
		return false
	}
	if len(a) == 0 {
		Errorf("%s", err.Error())
		return true
	}
	s, ok := a[0].(string)
	if !ok {
		// shouldn't happen but just in case
		s = fmt.Sprintf("%s", a[0])
	}
	if len(a) > 1 {
		s = fmt.Sprintf(s, a[1:]...)
	}
	Errorf("%s", s)
	return true
}

// simpleTypeToStr converts simple types to string
// panics if v is of complex type
func simpleTypeToStr(v any) string {
	rt := reflect.TypeOf(v)
	kind := rt.Kind()
	switch kind {
	case reflect.Array, reflect.Slice, reflect.Struct, reflect.Map, reflect.Chan, reflect.Interface, reflect.Pointer:
		panic(fmt.Sprintf("toStr: value is of kind %v", kind))
	case reflect.String:
		return v.(string)
	}
	return fmt.Sprintf("%v", v)
}

// marshalEventLine frames an event as:
// --- <len> <unix ms> <name>\n<data>\n
// it's the same framing as github.com/kjk/common/siser
func marshalEventLine(name string, t time.Time, d []byte) []byte {
	var wb bytes.Buffer
	wb.Grow(len(name) + len(d) + 32)
	wb.WriteString("--- ")
	wb.WriteString(strconv.Itoa(len(d)))
	wb.WriteString(" ")
	wb.WriteString(strconv.FormatInt(t.UnixMilli(), 10))
	if name != "" {
		wb.WriteString(" ")
		wb.WriteString(name)
	}
	wb.WriteByte('\n')
	// for readability, if the record doesn't end with newline,
	// we add one at the end
	if n := len(d); n > 0 {
		wb.Write(d)
		if d[n-1] != '\n' {
			wb.WriteByte('\n')
		}
	}
	return wb.Bytes()
}

// Event logs an event with key/value pairs, encoded in toon format
// Event("book-added", "title", "Dune", "read", false)
func Event(name string, vals ...any) {
	n := len(vals)
	if n%2 != 0 {
		panic("log.Event: vals must be key/value pairs")
	}
	var d []byte
	if n > 0 {
		m := map[string]any{}
		for i := 0; i < n; i += 2 {
			k := simpleTypeToStr(vals[i])
			m[k] = vals[i+1]
		}
		var err error
		d, err = toon.Marshal(m)
		if IfErrf(err, "log.Event: toon.Marshal() failed with '%s'", err) {
			return
		}
	}
	Verbosef("event: %s %s\n", name, strings.TrimSpace(string(d)))
	d2 := marshalEventLine(name, time.Now().UTC(), d)
	_ = eventsLog.Write(d2)
}
