package events

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func fill(l *Log, n int) {
	for i := 0; i < n; i++ {
		l.Append(Entry{Time: at(i), Message: fmt.Sprintf("event %d", i)})
	}
}

func TestLog_Capped(t *testing.T) {
	l := NewLog()
	fill(l, MaxEntries)

	if l.Len() != MaxEntries {
		t.Fatalf("Len() = %d, want %d", l.Len(), MaxEntries)
	}

	l.Append(Entry{Time: at(MaxEntries), Message: "event 500"})

	if l.Len() != MaxEntries {
		t.Errorf("Len() after overflow = %d, want %d", l.Len(), MaxEntries)
	}

	entries := l.Entries()
	if entries[0].Message != "event 1" {
		t.Errorf("oldest entry = %q, want %q", entries[0].Message, "event 1")
	}
	if entries[len(entries)-1].Message != "event 500" {
		t.Errorf("newest entry = %q, want %q", entries[len(entries)-1].Message, "event 500")
	}
	if recent := l.Recent(1); recent[0].Message != "event 500" {
		t.Errorf("Recent(1) = %q, want event 500", recent[0].Message)
	}
}

func TestLog_NeverExceedsCap(t *testing.T) {
	l := newLog(5)
	for i := 0; i < 40; i++ {
		l.Append(Entry{Message: fmt.Sprint(i)})
		if l.Len() > 5 {
			t.Fatalf("Len() = %d after %d appends", l.Len(), i+1)
		}
	}
	if diff := cmp.Diff([]string{"35", "36", "37", "38", "39"}, messages(l.Entries())); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLog_Recent(t *testing.T) {
	l := NewLog()
	fill(l, 4)

	tests := []struct {
		n    int
		want []string
	}{
		{0, []string{"event 3", "event 2", "event 1", "event 0"}},
		{2, []string{"event 3", "event 2"}},
		{10, []string{"event 3", "event 2", "event 1", "event 0"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d", tt.n), func(t *testing.T) {
			if diff := cmp.Diff(tt.want, messages(l.Recent(tt.n))); diff != "" {
				t.Errorf("Recent(%d) (-want +got):\n%s", tt.n, diff)
			}
		})
	}
}

func TestLog_EntriesIsCopy(t *testing.T) {
	l := NewLog()
	fill(l, 2)

	entries := l.Entries()
	entries[0].Message = "changed"

	if l.Entries()[0].Message != "event 0" {
		t.Error("mutating Entries() result changed the log")
	}
}

func TestLog_Clear(t *testing.T) {
	l := NewLog()
	fill(l, 10)

	l.Clear(at(99))

	if diff := cmp.Diff([]string{"Log cleared"}, messages(l.Entries())); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLog_Export(t *testing.T) {
	t.Run("empty log exports empty content", func(t *testing.T) {
		l := NewLog()
		if got := l.Export(); len(got) != 0 {
			t.Errorf("Export() = %q, want empty", got)
		}
	})

	t.Run("oldest first, newline joined", func(t *testing.T) {
		l := NewLog()
		l.Append(Entry{Time: t0, Message: "Camera started"})
		l.Append(Entry{Time: t0.Add(2 * time.Second), Message: "Detected: Fist"})

		want := "09:26:53 - Camera started\n09:26:55 - Detected: Fist"
		if got := string(l.Export()); got != want {
			t.Errorf("Export() = %q, want %q", got, want)
		}
		if strings.HasSuffix(string(l.Export()), "\n") {
			t.Error("export should not end with a newline")
		}
	})
}

func TestExportFilename(t *testing.T) {
	now := time.UnixMilli(1760000000123)
	if got := ExportFilename(now); got != "gesture-log-1760000000123.txt" {
		t.Errorf("ExportFilename() = %q", got)
	}
}
