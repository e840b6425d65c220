package sim

import "testing"

func TestBuiltinScenarios(t *testing.T) {
	all := Builtin()
	if len(all) != 5 {
		t.Fatalf("got %d scenarios, want 5", len(all))
	}
	if all[0].Key != "ideal" {
		t.Fatalf("first scenario = %s, want ideal", all[0].Key)
	}
	if all[0].NonIdeal() {
		t.Fatal("ideal flagged as non-ideal")
	}
	nonIdeal := 0
	for _, sc := range all[1:] {
		if !sc.NonIdeal() {
			t.Fatalf("%s not flagged as non-ideal", sc.Key)
		}
		nonIdeal++
	}
	if nonIdeal != 4 {
		t.Fatalf("got %d non-ideal scenarios, want 4", nonIdeal)
	}
}

func TestByKey(t *testing.T) {
	sc, ok := ByKey("non_ideal_both")
	if !ok {
		t.Fatal("lookup failed")
	}
	if !sc.SourceEncode || !sc.ChannelEncode {
		t.Fatalf("coding flags = %v/%v", sc.SourceEncode, sc.ChannelEncode)
	}
	if sc.SourceP0 != 0.1 || sc.NoiseP != 0.02 {
		t.Fatalf("parameters = %v/%v", sc.SourceP0, sc.NoiseP)
	}
	if _, ok := ByKey("nope"); ok {
		t.Fatal("unknown key resolved")
	}
}

func TestBuiltinIsACopy(t *testing.T) {
	a := Builtin()
	a[0].Key = "mutated"
	if b := Builtin(); b[0].Key != "ideal" {
		t.Fatal("Builtin exposes shared state")
	}
}
