package logger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wkapp-go/wkapp/internal/bridge"
)

// ConsoleScript replaces the page console so its output reaches the host
// through the javascript_console_message handler.
const ConsoleScript = `(function () {
  var post = function (level, message) {
    try {
      window.webkit.messageHandlers.javascript_console_message.postMessage(
        JSON.stringify({ level: level, content: String(message) })
      );
    } catch (e) {}
    return false;
  };
  console.debug = function (m) { return post("debug", m); };
  console.info = function (m) { return post("info", m); };
  console.log = function (m) { return post("log", m); };
  console.warn = function (m) { return post("warn", m); };
  console.error = function (m) { return post("error", m); };
  window.onerror = function (error, url, line, col) {
    console.error("" + error + " (" + url + ", line: " + line + ", column: " + col + ")");
  };
})();`

// Console forwards page console messages into a slog.Logger.
type Console struct {
	ctx    context.Context
	logger *slog.Logger
}

var _ bridge.Handler = (*Console)(nil)

func NewConsole(ctx context.Context, logger *slog.Logger) *Console {
	return &Console{
		ctx:    ctx,
		logger: logger.With("source", "page"),
	}
}

func (c *Console) PostMessage(body string) error {
	msg := bridge.Decode(body)

	content := msg.Kwargs["content"]
	if content == nil && len(msg.Args) > 0 {
		content = msg.Args[0]
	}

	level, _ := msg.Kwargs["level"].(string)
	c.logger.Log(c.ctx, consoleLevel(level), fmt.Sprint(content))
	return nil
}

func consoleLevel(level string) slog.Level {
	switch level {
	case "error":
		return slog.LevelError
	case "warn":
		return slog.LevelWarn
	case "debug":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
