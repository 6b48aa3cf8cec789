package ledger

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type order struct {
	DrinkType string `json:"drinkType"`
	Name      string `json:"name"`
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAppend_TagsRoomAndSavedAt(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, "all_orders.json", testLogger())
	l.now = func() time.Time {
		return time.Date(2025, 11, 20, 10, 30, 0, 0, time.UTC)
	}

	entry, err := l.Append("room-a", order{DrinkType: "Latte", Name: "Sarah"})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if entry[TagRoom] != "room-a" {
		t.Fatalf("entry[%s] = %v, want room-a", TagRoom, entry[TagRoom])
	}
	if entry[TagSavedAt] != "2025-11-20T10:30:00Z" {
		t.Fatalf("entry[%s] = %v", TagSavedAt, entry[TagSavedAt])
	}
	if entry["drinkType"] != "Latte" {
		t.Fatalf("entry[drinkType] = %v", entry["drinkType"])
	}
}

func TestAppend_PreservesEarlierEntries(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, "all_orders.json", testLogger())

	if _, err := l.Append("room-a", order{Name: "first"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if _, err := l.Append("room-b", order{Name: "second"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	history := l.History()
	if len(history) != 2 {
		t.Fatalf("len(history) = %d, want 2", len(history))
	}
	if history[0]["name"] != "first" || history[1]["name"] != "second" {
		t.Fatalf("history out of order: %v", history)
	}
}

func TestHistory_MissingFileReadsEmpty(t *testing.T) {
	l := New(t.TempDir(), "all_orders.json", testLogger())
	if got := l.History(); len(got) != 0 {
		t.Fatalf("History() = %v, want empty", got)
	}
}

func TestAppend_CorruptHistoryStartsFresh(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, "all_orders.json", testLogger())
	if err := os.WriteFile(l.HistoryPath(), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	if _, err := l.Append("room-a", order{Name: "after-corruption"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	history := l.History()
	if len(history) != 1 {
		t.Fatalf("len(history) = %d, want 1", len(history))
	}
}

func TestTail(t *testing.T) {
	l := New(t.TempDir(), "log.json", testLogger())
	for _, name := range []string{"a", "b", "c", "d"} {
		if _, err := l.Append("room", order{Name: name}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	tail := l.Tail(2)
	if len(tail) != 2 {
		t.Fatalf("len(Tail(2)) = %d, want 2", len(tail))
	}
	if tail[0]["name"] != "c" || tail[1]["name"] != "d" {
		t.Fatalf("Tail(2) = %v", tail)
	}
	if got := l.Tail(0); len(got) != 4 {
		t.Fatalf("Tail(0) returned %d entries, want all 4", len(got))
	}
}

func TestWriteSnapshot_LastWriteWins(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, "all_orders.json", testLogger())

	if err := l.WriteSnapshot("sarah_order.json", order{DrinkType: "Latte", Name: "Sarah"}); err != nil {
		t.Fatalf("WriteSnapshot() error = %v", err)
	}
	if err := l.WriteSnapshot("sarah_order.json", order{DrinkType: "Mocha", Name: "Sarah"}); err != nil {
		t.Fatalf("WriteSnapshot() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "sarah_order.json"))
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	var got order
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if got.DrinkType != "Mocha" {
		t.Fatalf("DrinkType = %q, want Mocha", got.DrinkType)
	}
}

func TestAppend_ConcurrentWritersLoseNothing(t *testing.T) {
	l := New(t.TempDir(), "all_orders.json", testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Append("room", order{Name: string(rune('a' + i))}); err != nil {
				t.Errorf("Append() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if got := len(l.History()); got != 8 {
		t.Fatalf("len(History()) = %d, want 8", got)
	}
}

func TestNew_LazyDirCreation(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never_created")
	l := New(dir, "log.json", testLogger())
	_ = l.History()

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("data dir exists before first write")
	}
	if _, err := l.Append("room", order{Name: "x"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("data dir missing after write: %v", err)
	}
}
