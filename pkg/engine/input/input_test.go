package input

import (
	"bufio"
	"strings"
	"testing"
)

func TestReadKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"letter", "w", "w"},
		{"upper case folds", "W", "w"},
		{"enter", "\r", "enter"},
		{"space", " ", "space"},
		{"ctrl c", "\x03", "ctrl_c"},
		{"csi up", "\x1b[A", "arrow_up"},
		{"ss3 left", "\x1bOD", "arrow_left"},
		{"lone escape", "\x1b", "escape"},
		{"f5", "\x1b[15~", "f5"},
		{"f9", "\x1b[20~", "f9"},
		{"unknown csi", "\x1b[Z", ""},
		{"control byte", "\x01", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadKey(bufio.NewReader(strings.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("ReadKey(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ReadKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestReadKeyEscapeKeepsNextByte(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("\x1bq"))
	if got, _ := ReadKey(r); got != "escape" {
		t.Fatalf("first ReadKey = %q, want %q", got, "escape")
	}
	if got, _ := ReadKey(r); got != "q" {
		t.Errorf("second ReadKey = %q, want %q", got, "q")
	}
}

func TestPollSkipsUnknownCodes(t *testing.T) {
	var codes []string
	for raw := range Poll(strings.NewReader("w\x01\x1b[Bf"), DeviceTerminal) {
		if raw.Device != DeviceTerminal {
			t.Errorf("Device = %v, want %v", raw.Device, DeviceTerminal)
		}
		codes = append(codes, raw.Code)
	}
	want := []string{"w", "arrow_down", "f"}
	if strings.Join(codes, ",") != strings.Join(want, ",") {
		t.Errorf("Poll codes = %v, want %v", codes, want)
	}
}

func TestMapToIntent(t *testing.T) {
	ResetBindings()
	tests := []struct {
		code string
		want Action
	}{
		{"w", ActionMoveForward},
		{"arrow_left", ActionTurnLeft},
		{"e", ActionGrab},
		{"f", ActionJudgeAnomaly},
		{"c", ActionJudgeClear},
		{"f9", ActionDump},
		{"ctrl_c", ActionQuit},
		{"unbound", ActionNone},
	}
	for _, tt := range tests {
		got := MapToIntent(NewDebouncedInput(RawInput{Device: DeviceKeyboard, Code: tt.code}))
		if got.Action != tt.want {
			t.Errorf("MapToIntent(%q) = %v, want %v", tt.code, ActionName(got.Action), ActionName(tt.want))
		}
	}
}

func TestSetSingleBinding(t *testing.T) {
	ResetBindings()
	defer ResetBindings()

	SetSingleBinding(ActionJudgeAnomaly, "x")
	if got := MapToIntent(DebouncedInput{Code: "x"}).Action; got != ActionJudgeAnomaly {
		t.Errorf("MapToIntent(x) = %v, want Report Anomaly", ActionName(got))
	}
	if got := MapToIntent(DebouncedInput{Code: "f"}).Action; got != ActionNone {
		t.Errorf("MapToIntent(f) = %v, want None after rebinding", ActionName(got))
	}
	// gamepad_x is not reserved, so it goes too
	if codes := GetBindingsByAction()[ActionJudgeAnomaly]; len(codes) != 1 || codes[0] != "x" {
		t.Errorf("bindings for Report Anomaly = %v, want [x]", codes)
	}
}

func TestSetSingleBindingKeepsReservedCodes(t *testing.T) {
	ResetBindings()
	defer ResetBindings()

	SetSingleBinding(ActionGrab, "g")
	SetSingleBinding(ActionQuit, "arrow_up")

	for _, code := range []string{"e", "enter", "gamepad_a", "g"} {
		if got := MapToIntent(DebouncedInput{Code: code}).Action; got != ActionGrab {
			t.Errorf("MapToIntent(%q) = %v, want Grab Door", code, ActionName(got))
		}
	}
	if got := MapToIntent(DebouncedInput{Code: "arrow_up"}).Action; got != ActionMoveForward {
		t.Errorf("MapToIntent(arrow_up) = %v, want Move Forward", ActionName(got))
	}
	if got := MapToIntent(DebouncedInput{Code: "ctrl_c"}).Action; got != ActionQuit {
		t.Errorf("MapToIntent(ctrl_c) = %v, want Quit", ActionName(got))
	}
}

func TestParseAction(t *testing.T) {
	if a, ok := ParseAction("judge_clear"); !ok || a != ActionJudgeClear {
		t.Errorf("ParseAction(judge_clear) = %v, %v, want Report Clear, true", ActionName(a), ok)
	}
	if _, ok := ParseAction("zoom_in"); ok {
		t.Error("ParseAction(zoom_in) ok = true, want false (not rebindable)")
	}
}
