package logger

import "testing"

func TestNew(t *testing.T) {
	for _, development := range []bool{true, false} {
		log, err := New(development)
		if err != nil {
			t.Fatalf("development=%v: %v", development, err)
		}
		if log == nil {
			t.Fatalf("development=%v: nil logger", development)
		}
	}
}

func TestMust(t *testing.T) {
	if log := Must(true); log == nil {
		t.Fatal("nil logger")
	}
}
