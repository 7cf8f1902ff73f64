package input

import (
	"bufio"
	"io"
	"strings"
	"time"
)

// ReadKey decodes one key press from a raw byte stream into a binding code.
// Arrow keys arrive as CSI (ESC [) or SS3 (ESC O) sequences; a lone ESC is
// reported as "escape". Unknown sequences and control bytes decode to "".
func ReadKey(r *bufio.Reader) (string, error) {
	b1, err := r.ReadByte()
	if err != nil {
		return "", err
	}

	switch {
	case b1 == 0x1b:
		return readEscape(r)
	case b1 == 3:
		return "ctrl_c", nil
	case b1 == '\n' || b1 == '\r':
		return "enter", nil
	case b1 == ' ':
		return "space", nil
	case b1 > 32 && b1 < 127:
		return strings.ToLower(string(b1)), nil
	}
	return "", nil
}

// readEscape decodes the bytes following ESC
func readEscape(r *bufio.Reader) (string, error) {
	if r.Buffered() == 0 {
		return "escape", nil
	}
	b2, err := r.ReadByte()
	if err != nil {
		return "escape", nil
	}
	if b2 != '[' && b2 != 'O' {
		_ = r.UnreadByte()
		return "escape", nil
	}

	b3, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	switch b3 {
	case 'A':
		return "arrow_up", nil
	case 'B':
		return "arrow_down", nil
	case 'C':
		return "arrow_right", nil
	case 'D':
		return "arrow_left", nil
	}

	// Function keys: ESC [ 1 5 ~ (F5), ESC [ 2 0 ~ (F9)
	if b3 < '0' || b3 > '9' {
		return "", nil
	}
	seq := []byte{b3}
	for b3 != '~' && len(seq) < 8 {
		if b3, err = r.ReadByte(); err != nil {
			return "", nil
		}
		seq = append(seq, b3)
	}
	switch string(seq) {
	case "15~":
		return "f5", nil
	case "20~":
		return "f9", nil
	}
	return "", nil
}

// Poll reads key presses from r until it fails and sends them as raw inputs.
// The channel is closed when the reader is exhausted.
func Poll(r io.Reader, device Device) <-chan RawInput {
	out := make(chan RawInput)
	go func() {
		defer close(out)
		br := bufio.NewReader(r)
		for {
			code, err := ReadKey(br)
			if err != nil {
				return
			}
			if code == "" {
				continue
			}
			out <- RawInput{Device: device, Code: code, Timestamp: time.Now()}
		}
	}()
	return out
}
