package types

import "testing"

func TestJSONMapValueAndScan(t *testing.T) {
	in := JSONMap{"fabric": "ankara", "bust": float64(36)}
	raw, err := in.Value()
	if err != nil {
		t.Fatalf("value failed: %v", err)
	}

	var out JSONMap
	if err := out.Scan([]byte(raw.(string))); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if out["fabric"] != "ankara" || out["bust"] != float64(36) {
		t.Fatalf("unexpected round trip %v", out)
	}
}

func TestJSONMapNilHandling(t *testing.T) {
	var m JSONMap
	raw, err := m.Value()
	if err != nil || raw != "{}" {
		t.Fatalf("nil map should store {}, got %v err=%v", raw, err)
	}
	if err := m.Scan(nil); err != nil {
		t.Fatalf("scan nil failed: %v", err)
	}
	if m == nil || len(m) != 0 {
		t.Fatalf("expected empty map, got %v", m)
	}
	if err := m.Scan(42); err == nil {
		t.Fatal("expected unsupported type error")
	}
}
