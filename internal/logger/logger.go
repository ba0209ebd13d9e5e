// Package logger は、スクレイピングの進行状況を出力する構造化ロガーを提供します。
package logger

import (
	"io"
	"log/slog"
	"strings"
)

// ParseLevel は、debug / info / warn / error の文字列をログレベルに変換します。
// 不明な値は info として扱い、false を返します。
func ParseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// New は、w にテキスト形式で出力する *slog.Logger を生成します。
func New(level string, w io.Writer) *slog.Logger {
	lvl := new(slog.LevelVar)
	l, _ := ParseLevel(level)
	lvl.Set(l)

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
