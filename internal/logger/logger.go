package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Logger writes category-prefixed lines to a single output. Categories
// double as coarse levels: "error" and "warning" always pass the filter,
// "debug-*" categories only pass when the minimum level allows them.
type Logger struct {
	output         io.Writer
	minLevel       Level
	categoryWidth  int
	categoryFilter map[string]bool
}

var (
	defaultLogger *Logger
	mu            sync.Mutex
	logFile       *os.File
)

func init() {
	defaultLogger = &Logger{
		output:   os.Stdout,
		minLevel: LevelInfo,
	}
}

func RegisterCategories(categories ...string) {
	mu.Lock()
	defer mu.Unlock()

	maxLen := 0
	for _, cat := range categories {
		if len(cat) > maxLen {
			maxLen = len(cat)
		}
	}
	defaultLogger.categoryWidth = maxLen + 1
}

func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		defaultLogger.output = os.Stdout
	} else {
		defaultLogger.output = w
	}
}

// SetLogFile tees output to stdout and the given file.
func SetLogFile(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	logFile = f
	defaultLogger.output = io.MultiWriter(os.Stdout, f)
	return nil
}

func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Sync()
		logFile.Close()
		logFile = nil
		defaultLogger.output = os.Stdout
	}
}

func SetMinLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger.minLevel = level
}

func SetCategoryFilter(categories []string) {
	mu.Lock()
	defer mu.Unlock()

	if len(categories) == 0 {
		defaultLogger.categoryFilter = nil
		return
	}

	defaultLogger.categoryFilter = make(map[string]bool)
	for _, cat := range categories {
		defaultLogger.categoryFilter[cat] = true
	}
}

func Printf(category string, format string, v ...interface{}) {
	defaultLogger.Printf(category, format, v...)
}

func Println(category string, v ...interface{}) {
	defaultLogger.Println(category, v...)
}

func Error(format string, v ...interface{}) {
	defaultLogger.Printf("error", format, v...)
}

func Warning(format string, v ...interface{}) {
	defaultLogger.Printf("warning", format, v...)
}

func (l *Logger) shouldLog(category string) bool {
	explicitlyAllowed := l.categoryFilter != nil && l.categoryFilter[category]

	if !explicitlyAllowed {
		if levelForCategory(category) < l.minLevel {
			return false
		}
	}

	if !explicitlyAllowed && l.categoryFilter != nil &&
		category != "error" && category != "warning" {
		return false
	}

	return true
}

func (l *Logger) writePrefix(buf *bytes.Buffer, category string) {
	buf.WriteString(time.Now().Format("2006-01-02 15:04:05"))
	buf.WriteByte(' ')

	buf.WriteString(category)
	for i := len(category); i < l.categoryWidth; i++ {
		buf.WriteByte(' ')
	}
	buf.WriteByte(' ')
}

func (l *Logger) Printf(category string, format string, v ...interface{}) {
	if !l.shouldLog(category) {
		return
	}

	buf := getBuffer()
	defer putBuffer(buf)

	l.writePrefix(buf, category)
	fmt.Fprintf(buf, format, v...)

	if buf.Len() > 0 && buf.Bytes()[buf.Len()-1] != '\n' {
		buf.WriteByte('\n')
	}

	mu.Lock()
	l.output.Write(buf.Bytes())
	mu.Unlock()
}

func (l *Logger) Println(category string, v ...interface{}) {
	if !l.shouldLog(category) {
		return
	}

	buf := getBuffer()
	defer putBuffer(buf)

	l.writePrefix(buf, category)
	fmt.Fprintln(buf, v...)

	mu.Lock()
	l.output.Write(buf.Bytes())
	mu.Unlock()
}

func FormatCount(n int64) string {
	if n >= 1_000_000_000 {
		return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000)
	}
	if n >= 1_000_000 {
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	}
	if n >= 1_000 {
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	}
	return fmt.Sprintf("%d", n)
}

func FormatBytes(b int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)
	switch {
	case b >= GB:
		return fmt.Sprintf("%.1f GB", float64(b)/GB)
	case b >= MB:
		return fmt.Sprintf("%.1f MB", float64(b)/MB)
	case b >= KB:
		return fmt.Sprintf("%.1f KB", float64(b)/KB)
	default:
		return fmt.Sprintf("%d B", b)
	}
}
