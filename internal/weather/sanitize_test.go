package weather

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestSanitizeRemovesPlaceholders(t *testing.T) {
	in := map[string]any{
		"real": map[string]any{
			"temp":     20.0,
			"humidity": 9999.0,
			"note":     "9999",
		},
		"wind": 9999,
	}

	got := Sanitize(in)
	want := map[string]any{
		"real": map[string]any{"temp": 20.0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sanitize() = %#v, want %#v", got, want)
	}
}

func TestSanitizeRemovesBlacklistedKeysAtAnyDepth(t *testing.T) {
	in := map[string]any{
		"url": "http://example.com/x.png",
		"data": map[string]any{
			"radar": map[string]any{"image": "y.png"},
			"real":  map[string]any{"temp": 20.0, "url": "z"},
		},
	}

	got := Sanitize(in)
	want := map[string]any{
		"data": map[string]any{
			"real": map[string]any{"temp": 20.0},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sanitize() = %#v, want %#v", got, want)
	}
}

func TestSanitizePrunesEmptiedContainers(t *testing.T) {
	in := map[string]any{
		"a": map[string]any{"b": 9999.0},
	}
	got := Sanitize(in)
	if !reflect.DeepEqual(got, map[string]any{}) {
		t.Errorf("expected empty map, got %#v", got)
	}
}

func TestSanitizeSequences(t *testing.T) {
	in := map[string]any{
		"forecast": []any{
			map[string]any{"temp": 9999.0},
			map[string]any{"temp": 21.0},
			"9999",
			nil,
		},
	}

	got := Sanitize(in)
	want := map[string]any{
		"forecast": []any{
			map[string]any{"temp": 21.0},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sanitize() = %#v, want %#v", got, want)
	}
}

// Booleans must never be coerced into the numeric placeholder comparison.
func TestSanitizeKeepsBooleans(t *testing.T) {
	in := map[string]any{"passed": true, "failed": false}
	got := Sanitize(in)
	if !reflect.DeepEqual(got, in) {
		t.Errorf("booleans must survive, got %#v", got)
	}
}

func TestSanitizeScalarPassThrough(t *testing.T) {
	if got := Sanitize("hello"); got != "hello" {
		t.Errorf("scalar input changed: %#v", got)
	}
	if got := Sanitize(3.5); got != 3.5 {
		t.Errorf("scalar input changed: %#v", got)
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	raw := `{
		"data": {
			"real": {"temp": 20, "humidity": 9999, "weather": {"info": "晴"}},
			"air": {"aqi": 55, "text": "9999"},
			"url": "x",
			"tempchart": [{"max": 9999, "min": 9999}, {"max": 10, "min": 2}]
		},
		"msg": "success"
	}`
	var tree map[string]any
	if err := json.Unmarshal([]byte(raw), &tree); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}

	once := Sanitize(tree)
	twice := Sanitize(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("sanitize is not idempotent:\nfirst  %#v\nsecond %#v", once, twice)
	}
}

func TestReduceSections(t *testing.T) {
	data := map[string]any{
		"real":      map[string]any{"temp": 20.0},
		"air":       map[string]any{"aqi": 55.0},
		"tempchart": []any{},
	}

	got := ReduceSections(data, "real", "air")
	want := map[string]any{
		"real": map[string]any{"temp": 20.0},
		"air":  map[string]any{"aqi": 55.0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReduceSections() = %#v, want %#v", got, want)
	}

	if got := ReduceSections(map[string]any{}, "real"); len(got) != 0 {
		t.Errorf("expected empty result, got %#v", got)
	}
}
