// Package logx is a small dependency-free structured logger used for the
// non-fatal diagnostics the consensus core emits (fixed-difficulty
// overrides, difficulty retarget fallbacks and overflows). It carries no external logging
// library, matching the style of every package in this repository.
package logx

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"time"
)

type Level int

const (
	LevelError = Level(1 << iota)
	LevelInfo
	LevelNotice
	LevelDebug
)

var GlobalLevel = LevelError | LevelInfo | LevelNotice

var bufPool sync.Pool

func init() {
	bufPool.New = func() any {
		return make([]byte, 0, 256)
	}
}

func getBuf() []byte {
	return bufPool.Get().([]byte)[:0]
}

func putBuf(buf []byte) {
	bufPool.Put(buf)
}

func Errorf(prefix, format string, v ...any) {
	if GlobalLevel&LevelError == 0 {
		return
	}
	buf := getBuf()
	defer putBuf(buf)
	println(fmt.Appendf(prefixed(buf, prefix, "ERROR"), format, v...))
}

func Noticef(prefix, format string, v ...any) {
	if GlobalLevel&LevelNotice == 0 {
		return
	}
	buf := getBuf()
	defer putBuf(buf)
	println(fmt.Appendf(prefixed(buf, prefix, "NOTICE"), format, v...))
}

func Debugf(prefix, format string, v ...any) {
	if GlobalLevel&LevelDebug == 0 {
		return
	}
	buf := getBuf()
	defer putBuf(buf)
	println(fmt.Appendf(prefixed(buf, prefix, "DEBUG"), format, v...))
}

func IsDebug() bool {
	return GlobalLevel&LevelDebug > 0
}

func println(buf []byte) {
	buf = bytes.TrimSpace(buf)
	buf = append(buf, '\n')
	_, _ = os.Stderr.Write(buf)
}

func prefixed(buf []byte, prefix, class string) []byte {
	buf = time.Now().UTC().AppendFormat(buf, "2006-01-02 15:04:05.000")
	return fmt.Appendf(buf, " [%s] %s ", prefix, class)
}
