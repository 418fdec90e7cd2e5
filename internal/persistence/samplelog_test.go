package persistence_test

import (
	"os"
	"path"
	"testing"

	"github.com/m-lab/go/rtx"
	"github.com/netwatch/netwatch/internal/persistence"
	"github.com/netwatch/netwatch/pkg/ping/model"
)

func TestSampleLog_Append(t *testing.T) {
	logPath := path.Join(t.TempDir(), "ping.log")
	l, err := persistence.OpenSampleLog(logPath)
	rtx.Must(err, "cannot open sample log")
	defer l.Close()

	samples := []model.Sample{
		{Timestamp: "2024-01-01T00:00:00Z", RTTMs: 23},
		{Timestamp: "2024-01-01T00:00:01Z", RTTMs: 24},
		{Timestamp: "2024-01-01T00:00:02Z", RTTMs: 1200},
	}
	for _, s := range samples {
		if err := l.Append(s); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	content, err := os.ReadFile(logPath)
	rtx.Must(err, "cannot read sample log")
	want := "2024-01-01T00:00:00Z 23\n2024-01-01T00:00:01Z 24\n2024-01-01T00:00:02Z 1200\n"
	if string(content) != want {
		t.Errorf("unexpected log content:\ngot  %q\nwant %q", content, want)
	}
}

func TestSampleLog_AppendExisting(t *testing.T) {
	// Reopening the log must preserve previously written samples.
	logPath := path.Join(t.TempDir(), "ping.log")

	l, err := persistence.OpenSampleLog(logPath)
	rtx.Must(err, "cannot open sample log")
	rtx.Must(l.Append(model.Sample{Timestamp: "first", RTTMs: 1}), "append failed")
	rtx.Must(l.Close(), "close failed")

	l, err = persistence.OpenSampleLog(logPath)
	rtx.Must(err, "cannot reopen sample log")
	rtx.Must(l.Append(model.Sample{Timestamp: "second", RTTMs: 2}), "append failed")
	rtx.Must(l.Close(), "close failed")

	content, err := os.ReadFile(logPath)
	rtx.Must(err, "cannot read sample log")
	if string(content) != "first 1\nsecond 2\n" {
		t.Errorf("unexpected log content: %q", content)
	}
}

func TestOpenSampleLog_Error(t *testing.T) {
	if _, err := persistence.OpenSampleLog(t.TempDir()); err == nil {
		t.Error("expected an error when opening a directory as the log")
	}
}
