package document

import (
	"reflect"
	"testing"

	smithy "github.com/smithy-go/runtime"
)

func TestFromGoToGoRoundTrip(t *testing.T) {
	cases := map[string]struct {
		in interface{}
	}{
		"map":    {in: map[string]interface{}{"a": "b", "n": float64(12)}},
		"list":   {in: []interface{}{"a", float64(1), true, nil}},
		"string": {in: "hello"},
		"bool":   {in: true},
		"null":   {in: nil},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			d, err := FromGo(c.in)
			if err != nil {
				t.Fatalf("expect no error, got %v", err)
			}

			var out interface{}
			if err := ToGo(d, &out); err != nil {
				t.Fatalf("expect no error, got %v", err)
			}

			if !reflect.DeepEqual(c.in, out) {
				t.Errorf("expect %#v, got %#v", c.in, out)
			}
		})
	}
}

func TestValueGoSide(t *testing.T) {
	v := NewValue(map[string]interface{}{"x": float64(1)})

	var out struct {
		X float64 `json:"x"`
	}
	if err := v.UnmarshalDocument(&out); err != nil {
		t.Fatalf("expect no error, got %v", err)
	}
	if out.X != 1 {
		t.Errorf("expect 1, got %v", out.X)
	}

	got, err := v.GetValue()
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}
	if _, ok := got.(map[string]interface{}); !ok {
		t.Errorf("expect map[string]interface{}, got %T", got)
	}
}

func TestValueDocumentSide(t *testing.T) {
	d := smithy.NewDocument(map[string]any{"x": "y"})
	v := ValueFromDocument(d)

	var out map[string]string
	if err := v.UnmarshalDocument(&out); err != nil {
		t.Fatalf("expect no error, got %v", err)
	}
	if out["x"] != "y" {
		t.Errorf("expect y, got %v", out["x"])
	}

	got, err := v.Document()
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}
	if got != d {
		t.Errorf("expect same document returned")
	}
}
