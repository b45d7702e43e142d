package httpserver

import (
	"io"
	"log/slog"

	"github.com/Skotchmaster/taskgate/pkg/logging"
)

func slogToBuffer(w io.Writer) *slog.Logger {
	return logging.NewWithWriter(w, "info")
}
