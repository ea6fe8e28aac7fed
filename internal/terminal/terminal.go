package terminal

import (
	"strings"
	"unicode/utf8"

	rl "github.com/gen2brain/raylib-go/raylib"

	"stage-designer/internal/commands"
	"stage-designer/internal/logger"
)

const (
	BarHeight = 40
	prompt    = "> "
	fontSize  = 20
	padding   = 8
	// Number of log lines drawn above the input bar when the terminal is open.
	maxLinesOnScreen = 14
	lineHeight       = fontSize + 4
	maxLineChars     = 200
	maxHistory       = 100
)

var (
	// Reused every frame when drawing the terminal bar to avoid per-frame color allocations.
	termBarColor    = rl.NewColor(40, 40, 40, 255)
	termLineColor   = rl.NewColor(80, 80, 80, 255)
	termChatBgColor = rl.NewColor(24, 24, 24, 240)
)

// Terminal is the command bar at the bottom of the window. It is toggled with ESC or the grave key (`).
// When open it captures the keyboard; every submitted line is run through the command
// registry and echoed, with its output, into the log.
type Terminal struct {
	log      *logger.Logger
	reg      *commands.Registry
	inputBuf string
	open     bool
	font     rl.Font // optional; when set, Draw uses DrawTextEx instead of default font
	history  []string
	histPos  int // len(history) when not browsing
}

// New returns a closed Terminal that logs lines and runs them through reg. Command output goes to log.
func New(log *logger.Logger, reg *commands.Registry) *Terminal {
	reg.SetOutput(logWriter{log})
	return &Terminal{log: log, reg: reg}
}

// logWriter logs each line written to it.
type logWriter struct{ log *logger.Logger }

func (w logWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		w.log.Log(line)
	}
	return len(p), nil
}

// IsOpen returns true when the terminal is visible and capturing input.
func (t *Terminal) IsOpen() bool {
	return t.open
}

// SetOpen shows or hides the terminal.
func (t *Terminal) SetOpen(open bool) {
	t.open = open
}

// SetFont sets the font used to draw the terminal bar (e.g. same as UI). Zero texture ID = use raylib default.
func (t *Terminal) SetFont(font rl.Font) {
	t.font = font
}

// Input returns the current input line.
func (t *Terminal) Input() string {
	return t.inputBuf
}

// Type appends text to the input line.
func (t *Terminal) Type(s string) {
	t.inputBuf += s
}

// Backspace removes the last rune of the input line.
func (t *Terminal) Backspace() {
	if len(t.inputBuf) > 0 {
		_, size := utf8.DecodeLastRuneInString(t.inputBuf)
		t.inputBuf = t.inputBuf[:len(t.inputBuf)-size]
	}
}

// Submit logs the input line, runs it, and clears the input. Errors are logged, not returned.
func (t *Terminal) Submit() {
	line := strings.TrimSpace(t.inputBuf)
	t.inputBuf = ""
	if line == "" {
		return
	}
	t.log.Log(prompt + line)
	if n := len(t.history); n == 0 || t.history[n-1] != line {
		t.history = append(t.history, line)
		if len(t.history) > maxHistory {
			t.history = t.history[len(t.history)-maxHistory:]
		}
	}
	t.histPos = len(t.history)
	if err := t.reg.ExecuteLine(line); err != nil {
		t.log.Log(err.Error())
	}
}

// HistoryPrev replaces the input with the previous submitted line.
func (t *Terminal) HistoryPrev() {
	if t.histPos > 0 {
		t.histPos--
		t.inputBuf = t.history[t.histPos]
	}
}

// HistoryNext replaces the input with the next submitted line, or clears it past the newest.
func (t *Terminal) HistoryNext() {
	if t.histPos >= len(t.history) {
		return
	}
	t.histPos++
	if t.histPos == len(t.history) {
		t.inputBuf = ""
		return
	}
	t.inputBuf = t.history[t.histPos]
}

// Update handles the toggle and, when open, typing, paste, history, backspace and enter. Call once per frame.
// It returns true when the terminal consumed the keyboard this frame.
func (t *Terminal) Update() bool {
	if rl.IsKeyPressed(rl.KeyEscape) || rl.IsKeyPressed(rl.KeyGrave) {
		t.open = !t.open
		// Swallow the toggle character.
		for rl.GetCharPressed() != 0 {
		}
		return true
	}
	if !t.open {
		return false
	}
	// Paste: Ctrl+V (Windows/Linux) or Cmd+V (macOS)
	if rl.IsKeyPressed(rl.KeyV) && (rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) || rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)) {
		if pasted := rl.GetClipboardText(); pasted != "" {
			t.Type(strings.ReplaceAll(pasted, "\n", " "))
		}
	} else {
		for {
			c := rl.GetCharPressed()
			if c == 0 {
				break
			}
			t.Type(string(rune(c)))
		}
	}
	switch {
	case rl.IsKeyPressed(rl.KeyBackspace) || rl.IsKeyPressedRepeat(rl.KeyBackspace):
		t.Backspace()
	case rl.IsKeyPressed(rl.KeyUp):
		t.HistoryPrev()
	case rl.IsKeyPressed(rl.KeyDown):
		t.HistoryNext()
	case rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter):
		t.Submit()
	}
	return true
}

// Draw draws the terminal bar above bottom (the top of the status bar) when open, with the recent log lines above it.
func (t *Terminal) Draw(bottom int) {
	if !t.open {
		return
	}
	screenW := int(rl.GetScreenWidth())
	barY := bottom - BarHeight

	// Log area above the bar: last maxLinesOnScreen lines
	chatHeight := maxLinesOnScreen * lineHeight
	chatY := barY - chatHeight
	if chatY < 0 {
		chatHeight = barY
		chatY = 0
	}
	if chatHeight > 0 {
		rl.DrawRectangle(0, int32(chatY), int32(screenW), int32(chatHeight), termChatBgColor)
	}
	lines := t.log.Lines()
	start := 0
	if len(lines) > maxLinesOnScreen {
		start = len(lines) - maxLinesOnScreen
	}
	for i := start; i < len(lines); i++ {
		y := chatY + (i-start)*lineHeight + padding
		t.text(clip(lines[i]), padding, y, rl.LightGray)
	}

	// Input bar
	rl.DrawRectangle(0, int32(barY), int32(screenW), int32(BarHeight), termBarColor)
	rl.DrawRectangle(0, int32(barY), int32(screenW), 1, termLineColor)
	t.text(prompt+t.inputBuf+"|", padding, barY+padding, rl.White)
}

func (t *Terminal) text(s string, x, y int, c rl.Color) {
	if t.font.Texture.ID != 0 {
		rl.DrawTextEx(t.font, s, rl.NewVector2(float32(x), float32(y)), float32(fontSize), 1, c)
	} else {
		rl.DrawText(s, int32(x), int32(y), int32(fontSize), c)
	}
}

func clip(line string) string {
	if len(line) > maxLineChars {
		return line[:maxLineChars-3] + "..."
	}
	return line
}
