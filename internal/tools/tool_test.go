//-------------------------------------------------------------------------
//
// invtrack-mcp Investment Tracking Tool Server
//
//-------------------------------------------------------------------------

package tools

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"
)

func testHandler(ctx context.Context, store Store, args Args) (map[string]any, error) {
	return map[string]any{}, nil
}

func TestRegistryGet(t *testing.T) {
	Register(Tool{Name: "test_get_tool", Description: "test", Handler: testHandler})

	tool, err := Get("test_get_tool")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if tool.Name != "test_get_tool" {
		t.Errorf("tool.Name = %q, want %q", tool.Name, "test_get_tool")
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	_, err := Get("no_such_tool")
	if err == nil {
		t.Fatal("Get(no_such_tool) succeeded, want error")
	}
	if !strings.Contains(err.Error(), "unknown tool: no_such_tool") {
		t.Errorf("error = %q, want it to name the tool", err.Error())
	}
}

func TestRegistryListSorted(t *testing.T) {
	Register(Tool{Name: "test_zz_tool", Handler: testHandler})
	Register(Tool{Name: "test_aa_tool", Handler: testHandler})

	names := List()
	if !sort.StringsAreSorted(names) {
		t.Errorf("List() not sorted: %v", names)
	}

	all := All()
	if len(all) != len(names) {
		t.Errorf("All() has %d tools, List() has %d names", len(all), len(names))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Name > all[i].Name {
			t.Errorf("All() not sorted at %d: %q > %q", i, all[i-1].Name, all[i].Name)
		}
	}
}

func TestEnvelope(t *testing.T) {
	resp := Envelope(map[string]any{"payload": 1})

	if resp["status"] != "success" {
		t.Errorf("status = %v, want success", resp["status"])
	}
	if resp["payload"] != 1 {
		t.Errorf("payload = %v, want 1", resp["payload"])
	}

	ts, ok := resp["timestamp"].(string)
	if !ok {
		t.Fatalf("timestamp is %T, want string", resp["timestamp"])
	}
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("timestamp %q is not RFC 3339: %v", ts, err)
	}
}

func TestNotFoundError(t *testing.T) {
	err := &NotFoundError{Entity: "transaction", ID: "TX-1"}
	if got := err.Error(); got != "transaction not found: TX-1" {
		t.Errorf("Error() = %q", got)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound(err) = false, want true")
	}
	if IsNotFound(nil) {
		t.Error("IsNotFound(nil) = true, want false")
	}
}

func TestCount(t *testing.T) {
	row := map[string]any{
		"a":    int64(5),
		"b":    int32(4),
		"c":    3,
		"null": nil,
	}

	if got := Count(row, "a"); got != 5 {
		t.Errorf("Count(a) = %d, want 5", got)
	}
	if got := Count(row, "b"); got != 4 {
		t.Errorf("Count(b) = %d, want 4", got)
	}
	if got := Count(row, "c"); got != 3 {
		t.Errorf("Count(c) = %d, want 3", got)
	}
	if got := Count(row, "null"); got != 0 {
		t.Errorf("Count(null) = %d, want 0", got)
	}
	if got := Count(nil, "a"); got != 0 {
		t.Errorf("Count(nil row) = %d, want 0", got)
	}
}
