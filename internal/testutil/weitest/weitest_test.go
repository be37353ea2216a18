package weitest

import "testing"

func TestEther(t *testing.T) {
	if got := Ether("10.2").String(); got != "10200000000000000000" {
		t.Fatalf("Ether(10.2) = %s", got)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for sub-wei amount")
		}
	}()
	Ether("0.0000000000000000001")
}
