package models

import (
	"encoding/json"
	"testing"
)

func TestPercentUnmarshal_NativeAndStrings(t *testing.T) {
	tests := []struct {
		input string
		want  Percent
	}{
		{`62`, 62},
		{`62.5`, 62.5},
		{`"71.25"`, 71.25},
		{`" 40 % "`, 40},
		{`"0"`, 0},
	}

	for _, tt := range tests {
		var p Percent
		if err := json.Unmarshal([]byte(tt.input), &p); err != nil {
			t.Fatalf("Unmarshal(%s) failed: %v", tt.input, err)
		}
		if p != tt.want {
			t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, p, tt.want)
		}
	}
}

func TestPercentUnmarshal_Garbage(t *testing.T) {
	for _, input := range []string{`"sixty"`, `true`, `{}`, `null`} {
		var p Percent
		if err := json.Unmarshal([]byte(input), &p); err == nil {
			t.Errorf("Unmarshal(%s) should fail, got %v", input, p)
		}
	}
}

func TestPercentStringAndClamp(t *testing.T) {
	if got := Percent(62).String(); got != "62" {
		t.Errorf("String() = %q, want 62", got)
	}
	if got := Percent(62.5).String(); got != "62.5" {
		t.Errorf("String() = %q, want 62.5", got)
	}
	if got := Percent(140).Clamp(); got != 100 {
		t.Errorf("Clamp() = %v, want 100", got)
	}
	if got := Percent(-3).Clamp(); got != 0 {
		t.Errorf("Clamp() = %v, want 0", got)
	}
}
