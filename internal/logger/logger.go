// Package logger настраивает zerolog поверх файла логов с ротацией.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options задаёт параметры логирования.
type Options struct {
	Level      string
	File       string
	MaxSize    int64
	MaxAge     time.Duration
	MaxBackups int
	Console    bool
}

// New создаёт логгер, пишущий в файл с ротацией и, при Console, в stdout.
// Возвращённый io.Closer закрывает файл логов.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var writers []io.Writer
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		w, err := NewRotateWriter(opts.File, opts.MaxSize, opts.MaxAge)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("ошибка создания писателя логов: %w", err)
		}
		w.maxBackups = opts.MaxBackups
		writers = append(writers, w)
		closer = w
	}
	if opts.Console || len(writers) == 0 {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime})
	}

	log := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()
	return log, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// RotateWriter реализует ротацию логов по размеру и времени.
// Используется как io.Writer, безопасен для конкурентной записи.
type RotateWriter struct {
	mu          sync.Mutex
	filename    string
	maxSize     int64
	maxAge      time.Duration
	maxBackups  int
	currentSize int64
	file        *os.File
	created     time.Time
}

// NewRotateWriter создает новый RotateWriter для указанного файла.
// maxSize ограничивает размер файла перед ротацией, maxAge его возраст.
func NewRotateWriter(filename string, maxSize int64, maxAge time.Duration) (*RotateWriter, error) {
	w := &RotateWriter{
		filename: filename,
		maxSize:  maxSize,
		maxAge:   maxAge,
	}
	if err := w.openFile(); err != nil {
		return nil, err
	}
	return w, nil
}

// Write записывает данные в файл и выполняет ротацию при необходимости.
func (w *RotateWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		if err := w.openFile(); err != nil {
			return 0, err
		}
	}

	if w.shouldRotate(int64(len(p))) {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}

	n, err = w.file.Write(p)
	w.currentSize += int64(n)
	return n, err
}

// Close закрывает текущий файл логов.
func (w *RotateWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeFile()
}

func (w *RotateWriter) closeFile() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

func (w *RotateWriter) shouldRotate(size int64) bool {
	if w.currentSize == 0 {
		return false
	}
	if w.maxSize > 0 && w.currentSize+size > w.maxSize {
		return true
	}
	if w.maxAge > 0 && time.Since(w.created) > w.maxAge {
		return true
	}
	return false
}

// rotate переименовывает текущий файл в архивный и открывает новый
func (w *RotateWriter) rotate() error {
	if err := w.closeFile(); err != nil {
		return err
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05.000")
	dir := filepath.Dir(w.filename)
	base := filepath.Base(w.filename)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]
	archived := filepath.Join(dir, fmt.Sprintf("%s_%s%s", name, timestamp, ext))

	if err := os.Rename(w.filename, archived); err != nil && !os.IsNotExist(err) {
		return err
	}

	w.pruneBackups(dir, name, ext)
	return w.openFile()
}

// pruneBackups оставляет не более maxBackups архивных файлов
func (w *RotateWriter) pruneBackups(dir, name, ext string) {
	if w.maxBackups <= 0 {
		return
	}
	matches, err := filepath.Glob(filepath.Join(dir, name+"_*"+ext))
	if err != nil || len(matches) <= w.maxBackups {
		return
	}
	sort.Strings(matches)
	for _, old := range matches[:len(matches)-w.maxBackups] {
		_ = os.Remove(old)
	}
}

func (w *RotateWriter) openFile() error {
	dir := filepath.Dir(w.filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(w.filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	info, err := f.Stat()
	if err != nil {
		if cerr := f.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "Ошибка закрытия файла логов после Stat failure: %v\n", cerr)
		}
		return err
	}

	w.file = f
	w.currentSize = info.Size()
	w.created = time.Now()
	return nil
}
